// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package neurite

import (
	"fmt"
	"log"
	"strings"
	"unsafe"

	"github.com/c2h5oh/datasize"
	"github.com/chewxy/math32"
	"github.com/emer/emergent/params"
	"github.com/emer/emergent/prjn"
	"github.com/emer/etable/etensor"
	"github.com/emer/etable/minmax"
	"github.com/goki/mat32"
)

// neurite.Network owns the neurons of a simulation, keyed by stable IDs,
// and drives the per-tick update.  Within a tick, all firing detection
// runs against pre-tick state, transmissions from fired neurons are
// queued, and queued deliveries commit into receivers only after all
// sends are complete, so nothing a neuron does within a tick can affect
// another neuron in the same detection pass.
// The Network is not safe for concurrent use: the caller owns all
// sequencing, and drives time explicitly through a Time struct.
type Network struct {
	Nm       string            `desc:"overall name of network -- helps discriminate if there are multiple"`
	Neurons  []Neuron          `desc:"arena of all neuron state -- a neuron's ID is its index here.  Deleted neurons are flagged off and their slots are never reused"`
	MetaData map[string]string `desc:"optional metadata that is saved in network state files -- e.g., can indicate number of ticks that were run, or any other information about this network that would be useful to save"`

	Act   ActParams   `view:"add-fields" desc:"potential accumulation and firing detection parameters"`
	Send  SendParams  `view:"add-fields" desc:"transmission, neurotransmitter pool, and conduction delay parameters"`
	Learn LearnParams `view:"add-fields" desc:"plasticity and weight initialization parameters"`
	Prune PruneParams `view:"inline" desc:"automatic prune sweep cadence"`

	Queue []Delivery `view:"-" json:"-" desc:"pending deliveries, in send order -- deliveries due at the current tick are committed and removed each Cycle"`
	Fired []NeuronID `view:"-" json:"-" desc:"IDs of neurons that fired on the last Cycle, in ID order"`

	MPStats minmax.AvgMax32 `inactive:"+" view:"inline" desc:"average and maximum membrane potential over live neurons, updated each Cycle"`
	FRStats minmax.AvgMax32 `inactive:"+" view:"inline" desc:"average and maximum firing rate over live neurons, updated each Cycle"`
	NFired  int             `inactive:"+" desc:"number of neurons that fired on the last Cycle"`
	NPruned int             `inactive:"+" desc:"number of connections removed by the last prune sweep"`

	StateFile string `desc:"filename of last state file loaded or saved"`
}

// NewNetwork returns a new Network with default parameters and given name
func NewNetwork(name string) *Network {
	nt := &Network{Nm: name}
	nt.Defaults()
	return nt
}

// params.Styler interface, for applying params.Sheet styles by selector:
func (nt *Network) Name() string     { return nt.Nm }
func (nt *Network) Label() string    { return nt.Nm }
func (nt *Network) TypeName() string { return "Network" }
func (nt *Network) Class() string    { return "" }

// Defaults sets all the default parameters for all params
func (nt *Network) Defaults() {
	nt.Act.Defaults()
	nt.Send.Defaults()
	nt.Learn.Defaults()
	nt.Prune.Defaults()
}

// UpdateParams updates all the derived parameters if any underlying
// params have changed
func (nt *Network) UpdateParams() {
	nt.Act.Update()
	nt.Send.Update()
	nt.Learn.Update()
	nt.Prune.Update()
}

// ApplyParams applies given parameter style Sheet to the network params.
// Calls UpdateParams to ensure derived parameters are all updated.
// If setMsg is true, then a message is printed to confirm each parameter
// that is set.  It always prints a message if a parameter fails to be set.
// Returns true if any params were set, and error if there were any errors.
func (nt *Network) ApplyParams(pars *params.Sheet, setMsg bool) (bool, error) {
	app, err := pars.Apply(nt, setMsg)
	if app {
		nt.UpdateParams()
	}
	return app, err
}

// UnitVarNames returns a list of the neuron variable names available
func (nt *Network) UnitVarNames() []string {
	return NeuronVars
}

// UnitVarProps returns the display properties for neuron variables
func (nt *Network) UnitVarProps() map[string]string {
	return NeuronVarProps
}

///////////////////////////////////////////////////////////////////////
//  Registry

// NNeurons returns the total number of neuron slots, including deleted ones.
// Valid IDs are 0 <= id < NNeurons.
func (nt *Network) NNeurons() int {
	return len(nt.Neurons)
}

// NLive returns the number of live (not deleted) neurons
func (nt *Network) NLive() int {
	n := 0
	for ni := range nt.Neurons {
		if !nt.Neurons[ni].IsOff() {
			n++
		}
	}
	return n
}

// NeurByID returns the neuron with given ID, or nil if the ID is out of
// range or the neuron has been deleted.
func (nt *Network) NeurByID(id NeuronID) *Neuron {
	if id < 0 || int(id) >= len(nt.Neurons) {
		return nil
	}
	nrn := &nt.Neurons[id]
	if nrn.IsOff() {
		return nil
	}
	return nrn
}

// NeurByIDTry returns the neuron with given ID -- emits a log error
// message if the neuron is not found
func (nt *Network) NeurByIDTry(id NeuronID) (*Neuron, error) {
	nrn := nt.NeurByID(id)
	if nrn == nil {
		err := fmt.Errorf("Neuron ID: %v not found in Network: %v: %w", id, nt.Nm, ErrNeuronNotFound)
		log.Println(err)
		return nil, err
	}
	return nrn, nil
}

// AddNeuron adds a new neuron with given role, polarity, soma position,
// and axon terminal position, initializing all state from the network
// parameters, and returns its ID.  The ID is the neuron's permanent
// identity within this network.  Invalid role or polarity values, or
// NaN positions, return ErrOutOfRangeParameter.
func (nt *Network) AddNeuron(role NeurRole, pol Polarity, pos, axPos mat32.Vec3) (NeuronID, error) {
	if role < 0 || role >= NeurRoleN {
		return NoNeuronID, fmt.Errorf("AddNeuron: role %d: %w", role, ErrOutOfRangeParameter)
	}
	if pol < 0 || pol >= PolarityN {
		return NoNeuronID, fmt.Errorf("AddNeuron: polarity %d: %w", pol, ErrOutOfRangeParameter)
	}
	for _, v := range []float32{pos.X, pos.Y, pos.Z, axPos.X, axPos.Y, axPos.Z} {
		if math32.IsNaN(v) {
			return NoNeuronID, fmt.Errorf("AddNeuron: position is NaN: %w", ErrOutOfRangeParameter)
		}
	}
	id := NeuronID(len(nt.Neurons))
	nt.Neurons = append(nt.Neurons, Neuron{})
	nrn := &nt.Neurons[id]
	nrn.ID = id
	nrn.Role = role
	nrn.Pol = pol
	nrn.Pos = pos
	nrn.AxPos = axPos
	nt.Act.InitActs(nrn)
	nt.Learn.InitWts(nrn)
	nrn.NC = nt.Send.NT.Init
	return id, nil
}

// DelNeuron removes the neuron with given ID from the network: it is
// flagged off, all of its own connections are dropped, and every other
// neuron's connection sets are purged of its ID.  The ID is never
// reused.  Deletion is irreversible.
func (nt *Network) DelNeuron(id NeuronID) error {
	nrn, err := nt.NeurByIDTry(id)
	if err != nil {
		return err
	}
	nrn.SetFlag(NeurOff)
	nrn.AC = nil
	nrn.DC = nil
	for ni := range nt.Neurons {
		on := &nt.Neurons[ni]
		if on.IsOff() {
			continue
		}
		on.AC.Del(id)
		on.DC.Del(id)
	}
	return nil
}

// SetThreshold reconfigures the threshold potential of given neuron.
// Negative or NaN thresholds return ErrOutOfRangeParameter and leave
// the neuron unchanged.
func (nt *Network) SetThreshold(id NeuronID, tp float32) error {
	nrn, err := nt.NeurByIDTry(id)
	if err != nil {
		return err
	}
	if math32.IsNaN(tp) || tp < 0 {
		return fmt.Errorf("SetThreshold: %v: %w", tp, ErrOutOfRangeParameter)
	}
	nrn.TP = tp
	return nil
}

// SetRefractory reconfigures the refractory window durations of given
// neuron, in ticks.  Negative or NaN durations return
// ErrOutOfRangeParameter and leave the neuron unchanged.
func (nt *Network) SetRefractory(id NeuronID, arp, rrp float32) error {
	nrn, err := nt.NeurByIDTry(id)
	if err != nil {
		return err
	}
	if math32.IsNaN(arp) || arp < 0 || math32.IsNaN(rrp) || rrp < 0 {
		return fmt.Errorf("SetRefractory: %v, %v: %w", arp, rrp, ErrOutOfRangeParameter)
	}
	nrn.ARP = arp
	nrn.RRP = rrp
	return nil
}

///////////////////////////////////////////////////////////////////////
//  Connectivity

// Connect establishes the connection from sid to rid, adding the axonal
// entry on the sender and the mirrored dendritic entry on the receiver
// as one transaction.  Re-connecting an existing connection is a no-op.
// Self-connections and missing neurons are errors, with no state change.
func (nt *Network) Connect(sid, rid NeuronID) error {
	snd, err := nt.NeurByIDTry(sid)
	if err != nil {
		return err
	}
	rcv, err := nt.NeurByIDTry(rid)
	if err != nil {
		return err
	}
	if err := snd.EstablishAxonal(rid); err != nil {
		return err
	}
	return rcv.EstablishDendritic(sid)
}

// ConnectNew is the strict variant of Connect: it returns
// ErrDuplicateConnection if the connection already exists.
func (nt *Network) ConnectNew(sid, rid NeuronID) error {
	snd, err := nt.NeurByIDTry(sid)
	if err != nil {
		return err
	}
	if snd.AC.Has(rid) {
		return fmt.Errorf("connection %d -> %d: %w", sid, rid, ErrDuplicateConnection)
	}
	return nt.Connect(sid, rid)
}

// Disconnect terminates the connection from sid to rid on both sides.
// Returns ErrConnectionNotFound if the connection does not exist,
// leaving all state unchanged.
func (nt *Network) Disconnect(sid, rid NeuronID) error {
	snd, err := nt.NeurByIDTry(sid)
	if err != nil {
		return err
	}
	rcv, err := nt.NeurByIDTry(rid)
	if err != nil {
		return err
	}
	if err := snd.TerminateAxonal(rid); err != nil {
		return err
	}
	rcv.DC.Del(sid)
	return nil
}

// ConnectPattern establishes connections from the send neurons to the
// recv neurons according to the given pattern generator (e.g.,
// prjn.NewFull(), prjn.NewUnifRnd()).  Self-connections produced by the
// pattern when the same ID appears on both sides are skipped.
func (nt *Network) ConnectPattern(send, recv []NeuronID, pat prjn.Pattern) error {
	sshp := etensor.NewShape([]int{len(send)}, nil, nil)
	rshp := etensor.NewShape([]int{len(recv)}, nil, nil)
	_, _, cons := pat.Connect(sshp, rshp, false)
	for ri := range recv {
		for si := range send {
			if !cons.Values.Index(ri*len(send) + si) {
				continue
			}
			if send[si] == recv[ri] {
				continue
			}
			if err := nt.Connect(send[si], recv[ri]); err != nil {
				return err
			}
		}
	}
	return nil
}

// NeurIDsByRole returns the IDs of all live neurons with given role,
// in ID order.
func (nt *Network) NeurIDsByRole(role NeurRole) []NeuronID {
	var ids []NeuronID
	for ni := range nt.Neurons {
		nrn := &nt.Neurons[ni]
		if nrn.IsOff() || nrn.Role != role {
			continue
		}
		ids = append(ids, nrn.ID)
	}
	return ids
}

///////////////////////////////////////////////////////////////////////
//  Init methods

// InitActs fully initializes activation state in all neurons, and clears
// the delivery queue and firing record
func (nt *Network) InitActs() {
	for ni := range nt.Neurons {
		nrn := &nt.Neurons[ni]
		if nrn.IsOff() {
			continue
		}
		nt.Act.InitActs(nrn)
	}
	nt.Queue = nt.Queue[:0]
	nt.Fired = nt.Fired[:0]
}

// InitWts initializes synaptic weights and all other learning state,
// and neurotransmitter concentrations
func (nt *Network) InitWts() {
	for ni := range nt.Neurons {
		nrn := &nt.Neurons[ni]
		if nrn.IsOff() {
			continue
		}
		nt.Learn.InitWts(nrn)
		nrn.NC = nt.Send.NT.Init
	}
}

// DecayState decays transient activation state by given proportion
// e.g., 1 = decay completely, and 0 = decay not at all.
// Pending deliveries are dropped.
func (nt *Network) DecayState(decay float32) {
	for ni := range nt.Neurons {
		nrn := &nt.Neurons[ni]
		if nrn.IsOff() {
			continue
		}
		nt.Act.DecayState(nrn, decay)
	}
	nt.Queue = nt.Queue[:0]
}

// InitExt clears the external-input flags on all neurons -- call prior
// to applying a new round of external stimulation
func (nt *Network) InitExt() {
	for ni := range nt.Neurons {
		nrn := &nt.Neurons[ni]
		if nrn.IsOff() {
			continue
		}
		nrn.ClearFlag(NeurHasExt)
	}
}

// Stim applies an external stimulus of given amount to the neuron,
// accumulating into its delivery accumulator through the standard
// delivery gain, exactly as a neuron delivery would.  It takes effect
// at the next Cycle's commit.  Sets the NeurHasExt flag.
func (nt *Network) Stim(id NeuronID, amt float32) error {
	nrn, err := nt.NeurByIDTry(id)
	if err != nil {
		return err
	}
	nrn.Inc += nt.Act.Gain.Apply(amt)
	nrn.SetFlag(NeurHasExt)
	return nil
}

///////////////////////////////////////////////////////////////////////
//  Tick update

// Cycle runs one tick of updating on the network at the Time's current
// tick:
// * Detect: firing detection for all neurons, against committed state
// * SendSig: transmissions from fired neurons, queued as deliveries
// * CommitInc: deliveries due this tick commit into receiver potentials
// * LrnFmTick: neurotransmitter recovery, adaptation, weight folding
// * PruneSweep: sub-threshold connections removed, on the Prune cadence
// Callers increment the Time after each Cycle (tm.TickInc).
func (nt *Network) Cycle(tm *Time) {
	nt.Detect(tm)
	nt.SendSig(tm)
	nt.CommitInc(tm)
	nt.LrnFmTick(tm)
	nt.PruneSweep(tm)
	nt.UpdtStats()
}

// Detect runs firing detection on all live neurons for the current tick.
// Each neuron is evaluated purely against its own committed state:
// deliveries queued this tick cannot influence this tick's detection.
// Fired neuron IDs are recorded in nt.Fired in ID order.
func (nt *Network) Detect(tm *Time) {
	nt.Fired = nt.Fired[:0]
	for ni := range nt.Neurons {
		nrn := &nt.Neurons[ni]
		if nrn.IsOff() {
			continue
		}
		if nt.Act.Detect(nrn, tm.Tick) {
			nt.Fired = append(nt.Fired, nrn.ID)
		}
	}
	nt.NFired = len(nt.Fired)
}

// SendSig transmits from every neuron that fired this tick to each of
// its axonal connections, queueing one delivery per connection and
// accumulating the sender's plasticity from each receiver's co-firing.
// Senders never touch receiver state here.
func (nt *Network) SendSig(tm *Time) {
	for _, id := range nt.Fired {
		snd := &nt.Neurons[id]
		for _, rid := range snd.AC {
			rcv := nt.NeurByID(rid)
			if rcv == nil {
				continue
			}
			d := nt.Send.Transmit(snd, rcv, snd.Sig, tm.Tick)
			nt.Learn.LrnFmSend(snd, rcv, tm.Tick)
			nt.Queue = append(nt.Queue, d)
		}
	}
}

// CommitInc commits all queued deliveries due at the current tick into
// the receivers' accumulators, applying the delivery gain per delivery,
// then folds each neuron's accumulated input into its potential.
// A delivery whose connection was terminated after sending still
// arrives: it was already in flight.  Deliveries to deleted neurons are
// dropped.
func (nt *Network) CommitInc(tm *Time) {
	if len(nt.Queue) > 0 {
		rem := nt.Queue[:0]
		for _, d := range nt.Queue {
			if d.Due > tm.Tick {
				rem = append(rem, d)
				continue
			}
			rcv := nt.NeurByID(d.Recv)
			if rcv == nil {
				continue
			}
			rcv.Inc += nt.Act.Gain.Apply(d.Amt)
		}
		nt.Queue = rem
	}
	for ni := range nt.Neurons {
		nrn := &nt.Neurons[ni]
		if nrn.IsOff() {
			continue
		}
		nt.Learn.Adapt.SSTFmInc(nrn, nrn.Inc)
		nt.Act.APFmInc(nrn)
	}
}

// LrnFmTick does the per-tick recovery and plasticity updates:
// neurotransmitter recovery, optional plasticity rate and strength
// threshold adaptation, and folding the LTP / LTD accumulators into
// synaptic weights.
func (nt *Network) LrnFmTick(tm *Time) {
	for ni := range nt.Neurons {
		nrn := &nt.Neurons[ni]
		if nrn.IsOff() {
			continue
		}
		nt.Send.Recover(nrn)
		nt.Learn.Adapt.PRFmSpike(nrn)
		nt.Learn.WtFmLT(nrn)
	}
}

// UpdtStats updates the network-level aggregate statistics from the
// current neuron state
func (nt *Network) UpdtStats() {
	nt.MPStats.Init()
	nt.FRStats.Init()
	for ni := range nt.Neurons {
		nrn := &nt.Neurons[ni]
		if nrn.IsOff() {
			continue
		}
		nt.MPStats.UpdateVal(nrn.MP, int32(ni))
		nt.FRStats.UpdateVal(nrn.FR, int32(ni))
	}
	nt.MPStats.CalcAvg()
	nt.FRStats.CalcAvg()
}

///////////////////////////////////////////////////////////////////////
//  Pruning

// PruneParams control the automatic prune sweep run at the end of each
// Cycle.
type PruneParams struct {
	On       bool  `def:"true" desc:"run automatic prune sweeps during Cycle"`
	Interval int64 `def:"1" min:"1" desc:"number of ticks between automatic sweeps"`
}

func (pp *PruneParams) Update() {
}

func (pp *PruneParams) Defaults() {
	pp.On = true
	pp.Interval = 1
}

// PruneSweep runs a network-wide prune sweep if it is due at the current
// tick per the Prune cadence params
func (nt *Network) PruneSweep(tm *Time) {
	if !nt.Prune.On || tm.Tick%nt.Prune.Interval != 0 {
		return
	}
	nt.NPruned = nt.PruneNow()
}

// PruneNow runs one network-wide prune sweep unconditionally: every
// connection whose sender's effective strength is below either side's
// strength threshold is removed from both sides.  Returns the number of
// connections removed.  Sweeps are idempotent: a second sweep with
// unchanged state removes nothing.
func (nt *Network) PruneNow() int {
	pruned := 0
	for ni := range nt.Neurons {
		snd := &nt.Neurons[ni]
		if snd.IsOff() {
			continue
		}
		str := snd.EffStr()
		acs := snd.AC.Clone()
		for _, rid := range acs {
			rcv := nt.NeurByID(rid)
			if rcv == nil {
				continue
			}
			if str < snd.SST || str < rcv.SST {
				snd.AC.Del(rid)
				rcv.DC.Del(snd.ID)
				pruned++
			}
		}
	}
	return pruned
}

// PruneAxonal prunes the single connection from sid to rid if the
// sender's effective strength is below the sender's own strength
// threshold, removing it from both sides.  Returns true if pruned.
// Missing neurons or connections are a no-op: pruning can race with
// termination.
func (nt *Network) PruneAxonal(sid, rid NeuronID) bool {
	snd := nt.NeurByID(sid)
	if snd == nil {
		return false
	}
	if !snd.PruneAxonal(rid) {
		return false
	}
	if rcv := nt.NeurByID(rid); rcv != nil {
		rcv.DC.Del(sid)
	}
	return true
}

// PruneDendritic prunes the single connection from sid into rid if the
// sender's effective strength is below the receiver's strength
// threshold, removing it from both sides.  Returns true if pruned.
// Missing neurons or connections are a no-op.
func (nt *Network) PruneDendritic(rid, sid NeuronID) bool {
	rcv := nt.NeurByID(rid)
	if rcv == nil {
		return false
	}
	str := float32(0)
	if snd := nt.NeurByID(sid); snd != nil {
		str = snd.EffStr()
	}
	if !rcv.PruneDendritic(sid, str) {
		return false
	}
	if snd := nt.NeurByID(sid); snd != nil {
		snd.AC.Del(rid)
	}
	return true
}

// PruneAxonalSweep prunes all axonal connections of given neuron that
// fall below its own strength threshold.  Returns the number pruned.
func (nt *Network) PruneAxonalSweep(sid NeuronID) int {
	snd := nt.NeurByID(sid)
	if snd == nil {
		return 0
	}
	pruned := 0
	acs := snd.AC.Clone()
	for _, rid := range acs {
		if nt.PruneAxonal(sid, rid) {
			pruned++
		}
	}
	return pruned
}

// PruneDendriticSweep prunes all dendritic connections of given neuron
// whose senders' effective strengths fall below this neuron's strength
// threshold.  Returns the number pruned.
func (nt *Network) PruneDendriticSweep(rid NeuronID) int {
	rcv := nt.NeurByID(rid)
	if rcv == nil {
		return 0
	}
	pruned := 0
	dcs := rcv.DC.Clone()
	for _, sid := range dcs {
		if nt.PruneDendritic(rid, sid) {
			pruned++
		}
	}
	return pruned
}

///////////////////////////////////////////////////////////////////////
//  State access

// VarTensor fills in given etensor.Float32 with the values of given
// neuron variable for all neurons, indexed by ID.  Deleted neurons get
// NaN.  Returns error (logged) if the variable name is not valid.
func (nt *Network) VarTensor(varNm string, tsr *etensor.Float32) error {
	vidx, err := NeuronVarIdxByName(varNm)
	if err != nil {
		log.Println(err)
		return err
	}
	tsr.SetShape([]int{len(nt.Neurons)}, nil, []string{"Neur"})
	for ni := range nt.Neurons {
		nrn := &nt.Neurons[ni]
		if nrn.IsOff() {
			tsr.Values[ni] = mat32.NaN()
			continue
		}
		tsr.Values[ni] = nrn.VarByIdx(vidx)
	}
	return nil
}

// SizeReport returns a string reporting the size of the neuron arena,
// the connection tables, and the pending delivery queue.
func (nt *Network) SizeReport() string {
	var b strings.Builder
	nn := len(nt.Neurons)
	nmem := nn * int(unsafe.Sizeof(Neuron{}))
	ncon := 0
	for ni := range nt.Neurons {
		nrn := &nt.Neurons[ni]
		ncon += len(nrn.AC) + len(nrn.DC)
	}
	cmem := ncon * int(unsafe.Sizeof(NeuronID(0)))
	qmem := len(nt.Queue) * int(unsafe.Sizeof(Delivery{}))
	fmt.Fprintf(&b, "%14s:\t Neurons: %d\t NeurMem: %v\t Cons: %d\t ConMem: %v\t Queued: %d\t QueueMem: %v\n",
		nt.Nm, nn, (datasize.ByteSize)(nmem).HumanReadable(), ncon, (datasize.ByteSize)(cmem).HumanReadable(),
		len(nt.Queue), (datasize.ByteSize)(qmem).HumanReadable())
	return b.String()
}
