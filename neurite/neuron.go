// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package neurite

import (
	"fmt"
	"unsafe"

	"github.com/goki/ki/bitflag"
	"github.com/goki/ki/kit"
	"github.com/goki/mat32"
)

// NeuronID is the stable identifier for a neuron within a Network.
// IDs are assigned by the Network when the neuron is added and are
// never reused for the lifetime of the Network.
type NeuronID = int32

// NoNeuronID is the null neuron ID, used for uninitialized references.
const NoNeuronID NeuronID = -1

// NeuronVarStart is the byte offset of fields in the Neuron structure
// where the float32 named variables start.
// Note: all non-float32 infrastructure variables must be at the start!
const NeuronVarStart = 24

// neurite.Neuron holds all of the neuron (unit) level state.
// It is a discrete-signaling point neuron: potential accumulates from
// incoming deliveries, leaks toward rest, and produces a firing event
// when it crosses threshold outside of the refractory windows.
// All variables accessible via the Network var interface must be float32
// and start at NeuronVarStart, in contiguous order.
type Neuron struct {
	LastFired int64     `desc:"tick at which this neuron last fired -- -1 if it has never fired"`
	ID        NeuronID  `desc:"stable identifier of this neuron within its Network -- set when added, never reused"`
	Flags     NeurFlags `desc:"bit flags for binary state variables"`
	Role      NeurRole  `desc:"functional role of this neuron: Contact, Sensory, or Motor"`
	Pol       Polarity  `desc:"signaling polarity: Excitatory or Inhibitory -- determines the sign of transmitted signals"`

	AP    float32 `desc:"accumulated potential -- integrates committed incoming deliveries and leaks toward zero over ticks.  Reset to Init.APR after firing"`
	MP    float32 `desc:"membrane potential -- resting potential plus accumulated potential, clamped to Act.VmRange.  Compared against the effective threshold to detect firing"`
	TP    float32 `desc:"threshold potential -- MP at or above this fires the neuron, outside of refractory windows.  Constant unless explicitly reconfigured"`
	Spike float32 `desc:"whether neuron fired on the last Detect (0 or 1)"`
	FR    float32 `desc:"firing rate -- running average of the Spike indicator updated every Detect, in 0..1"`
	Sig   float32 `desc:"signal amplitude produced at the last firing -- 0 if the last Detect did not fire"`
	SW    float32 `desc:"synaptic weight -- outgoing connection strength applied to every transmission from this neuron.  Driven by LTP / LTD folding"`
	PR    float32 `desc:"plasticity rate -- multiplies the folded LTP - LTD difference when updating SW"`
	LTP   float32 `desc:"long-term potentiation accumulator -- incremented on causally-timed transmissions, decays each tick"`
	LTD   float32 `desc:"long-term depression accumulator -- incremented on anti-causal transmissions, decays each tick"`
	NC    float32 `desc:"neurotransmitter concentration -- multiplies outgoing transmissions, depletes per release and recovers toward baseline each tick"`
	SST   float32 `desc:"synaptic strength threshold -- incoming or outgoing connections whose effective strength falls below this are pruned"`
	ARP   float32 `desc:"absolute refractory period in ticks -- no firing possible for this long after a firing event"`
	RRP   float32 `desc:"relative refractory period in ticks -- after the absolute window, firing requires exceeding an elevated threshold that decays back to TP over this window"`
	Inc   float32 `desc:"incoming delivery accumulator for the current tick -- committed into AP after all sends complete, then zeroed"`

	Pos   mat32.Vec3 `desc:"position of the soma in 3D space -- the receiving end of connections"`
	AxPos mat32.Vec3 `desc:"position of the axon terminal in 3D space -- the sending end, used for conduction delay distances"`
	AC    ConnIDs    `desc:"axonal (outgoing) connections: IDs of neurons this neuron transmits to"`
	DC    ConnIDs    `desc:"dendritic (incoming) connections: IDs of neurons that transmit to this neuron"`
}

var NeuronVars = []string{"AP", "MP", "TP", "Spike", "FR", "Sig", "SW", "PR", "LTP", "LTD", "NC", "SST", "ARP", "RRP", "Inc"}

var NeuronVarsMap map[string]int

var NeuronVarProps = map[string]string{
	"MP":  `min:"0" max:"1"`,
	"FR":  `min:"0" max:"1"`,
	"SW":  `min:"0" max:"1"`,
	"LTD": `auto-scale:"+"`,
}

func init() {
	NeuronVarsMap = make(map[string]int, len(NeuronVars))
	for i, v := range NeuronVars {
		NeuronVarsMap[v] = i
	}
}

func (nrn *Neuron) VarNames() []string {
	return NeuronVars
}

// NeuronVarIdxByName returns the index of the variable in the Neuron, or error
func NeuronVarIdxByName(varNm string) (int, error) {
	i, ok := NeuronVarsMap[varNm]
	if !ok {
		return -1, fmt.Errorf("Neuron VarByName: variable name: %v not valid", varNm)
	}
	return i, nil
}

// VarByIdx returns variable using index (0 = first variable in NeuronVars list)
func (nrn *Neuron) VarByIdx(idx int) float32 {
	fv := (*float32)(unsafe.Pointer(uintptr(unsafe.Pointer(nrn)) + uintptr(NeuronVarStart+4*idx)))
	return *fv
}

// VarByName returns variable by name, or error
func (nrn *Neuron) VarByName(varNm string) (float32, error) {
	i, err := NeuronVarIdxByName(varNm)
	if err != nil {
		return mat32.NaN(), err
	}
	return nrn.VarByIdx(i), nil
}

// SetVarByIdx sets variable using index (0 = first variable in NeuronVars list)
func (nrn *Neuron) SetVarByIdx(idx int, val float32) {
	fv := (*float32)(unsafe.Pointer(uintptr(unsafe.Pointer(nrn)) + uintptr(NeuronVarStart+4*idx)))
	*fv = val
}

// SetVarByName sets neuron variable to given value, by name, or returns error
func (nrn *Neuron) SetVarByName(varNm string, val float32) error {
	i, err := NeuronVarIdxByName(varNm)
	if err != nil {
		return err
	}
	nrn.SetVarByIdx(i, val)
	return nil
}

// SinceFired returns the number of ticks elapsed since the last firing,
// as of the given tick.  Returns -1 if the neuron has never fired.
func (nrn *Neuron) SinceFired(now int64) int64 {
	if nrn.LastFired < 0 {
		return -1
	}
	return now - nrn.LastFired
}

func (nrn *Neuron) HasFlag(flag NeurFlags) bool {
	return bitflag.Has32(int32(nrn.Flags), int(flag))
}

func (nrn *Neuron) SetFlag(flag NeurFlags) {
	bitflag.Set32((*int32)(&nrn.Flags), int(flag))
}

func (nrn *Neuron) ClearFlag(flag NeurFlags) {
	bitflag.Clear32((*int32)(&nrn.Flags), int(flag))
}

// IsOff returns true if the neuron has been turned off (lesioned)
func (nrn *Neuron) IsOff() bool {
	return nrn.HasFlag(NeurOff)
}

// NeurFlags are bit-flags encoding relevant binary state for neurons
type NeurFlags int32

//go:generate stringer -type=NeurFlags

var KiT_NeurFlags = kit.Enums.AddEnum(NeurFlagsN, kit.BitFlag, nil)

func (ev NeurFlags) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *NeurFlags) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The neuron flags
const (
	// NeurOff flag indicates that this neuron has been turned off (i.e., lesioned)
	NeurOff NeurFlags = iota

	// NeurHasExt means the neuron has external stimulus input applied to it
	NeurHasExt

	NeurFlagsN
)

//////////////////////////////////////////////////////////////////////////////////////
//  NeurRole

// NeurRole is the functional role a neuron plays within a network.
// Roles do not change the core dynamics: they select role-specific
// defaults at construction and identify the external surfaces of the
// network (Sensory receives stimulation, Motor is read out).
type NeurRole int32

//go:generate stringer -type=NeurRole

var KiT_NeurRole = kit.Enums.AddEnum(NeurRoleN, kit.NotBitFlag, nil)

func (ev NeurRole) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *NeurRole) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The neuron roles
const (
	// Contact is an interior neuron that only connects to other neurons
	Contact NeurRole = iota

	// Sensory receives external stimulation as well as neuron deliveries
	Sensory

	// Motor is an output neuron whose firing is read out of the network
	Motor

	NeurRoleN
)

//////////////////////////////////////////////////////////////////////////////////////
//  Polarity

// Polarity is the signaling polarity of a neuron, determining the sign
// of every signal it transmits.  A neuron has exactly one polarity.
type Polarity int32

//go:generate stringer -type=Polarity

var KiT_Polarity = kit.Enums.AddEnum(PolarityN, kit.NotBitFlag, nil)

func (ev Polarity) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Polarity) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The signaling polarities
const (
	// Excitatory neurons transmit positive signals that depolarize receivers
	Excitatory Polarity = iota

	// Inhibitory neurons transmit negative signals that hyperpolarize receivers
	Inhibitory

	PolarityN
)

// Sign returns the signal sign for this polarity: 1 for Excitatory, -1 for Inhibitory
func (pl Polarity) Sign() float32 {
	if pl == Inhibitory {
		return -1
	}
	return 1
}
