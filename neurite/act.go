// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package neurite

import (
	"github.com/chewxy/math32"
	"github.com/emer/etable/minmax"
	"github.com/emer/neurite/refract"
	"github.com/goki/ki/kit"
)

///////////////////////////////////////////////////////////////////////
//  act.go contains the activation params and functions: potential
//  accumulation and leak, refractory-gated firing detection, and the
//  signal amplitude produced by a firing event.

// neurite.ActParams contains all the activation computation params and
// functions, at the neuron level.  This is included in neurite.Network
// to drive the computation.
type ActParams struct {
	Rest    float32        `def:"0.3" desc:"resting membrane potential -- MP returns to this level as AP leaks away"`
	VmRange minmax.F32     `view:"inline" desc:"range for MP membrane potential -- [0, 1] by default -- incoming deliveries cannot push MP outside this range"`
	Init    ActInitParams  `view:"inline" desc:"initial and post-firing values for key neuron state variables"`
	Dt      DtParams       `view:"inline" desc:"time constants in ticks for potential leak and firing rate averaging"`
	Gain    GainParams     `view:"inline" desc:"tiered gain applied to each incoming delivery before it accumulates"`
	Refract refract.Params `view:"inline" desc:"refractory window durations (per-neuron defaults) and the relative-window threshold elevation curve"`
	Signal  SignalParams   `view:"inline" desc:"how the signal amplitude of a firing event is computed"`
}

func (ac *ActParams) Defaults() {
	ac.Rest = 0.3
	ac.VmRange.Max = 1
	ac.Init.Defaults()
	ac.Dt.Defaults()
	ac.Gain.Defaults()
	ac.Refract.Defaults()
	ac.Signal.Defaults()
	ac.Update()
}

// Update must be called after any changes to parameters
func (ac *ActParams) Update() {
	ac.Init.Update()
	ac.Dt.Update()
	ac.Gain.Update()
	ac.Refract.Update()
	ac.Signal.Update()
}

///////////////////////////////////////////////////////////////////////
//  Init

// InitActs initializes activation state in neuron -- called when the
// neuron is added to a network, and by Network.InitActs.
// Connection sets, weights, and positions are not affected.
func (ac *ActParams) InitActs(nrn *Neuron) {
	nrn.AP = ac.Init.AP
	nrn.MP = ac.VmRange.ClipVal(ac.Rest + nrn.AP)
	nrn.TP = ac.Init.ThrByRole(nrn.Role)
	nrn.Spike = 0
	nrn.FR = 0
	nrn.Sig = 0
	nrn.Inc = 0
	nrn.ARP = ac.Refract.ARP
	nrn.RRP = ac.Refract.RRP
	nrn.LastFired = -1
}

// DecayState decays the transient activation state toward initial values
// in proportion to given decay parameter, e.g., between stimulus episodes.
// Firing history (LastFired, FR) and learning state are not affected.
func (ac *ActParams) DecayState(nrn *Neuron, decay float32) {
	if decay > 0 {
		nrn.AP -= decay * (nrn.AP - ac.Init.AP)
		nrn.MP = ac.VmRange.ClipVal(ac.Rest + nrn.AP)
	}
	nrn.Inc = 0
	nrn.Sig = 0
}

///////////////////////////////////////////////////////////////////////
//  Tick

// APFmInc commits the accumulated incoming deliveries into the
// accumulated potential, and zeroes the accumulator.  Called once per
// tick after all transmissions for the tick have been queued, so that
// delivery order within a tick cannot affect firing decisions.
func (ac *ActParams) APFmInc(nrn *Neuron) {
	nrn.AP += nrn.Inc
	nrn.Inc = 0
}

// Detect updates the neuron's potentials for tick now and determines
// whether it fires.  AP first leaks toward zero, MP is derived from the
// resting potential plus AP, clamped to VmRange, and then MP is compared
// to the effective threshold for the neuron's current refractory state.
// No firing is possible within the absolute window.  On firing,
// LastFired is set to now, the output signal amplitude is computed from
// the pre-reset state, and AP resets to the post-firing value.
// FR integrates the spike indicator on every call.
// The now tick must be monotonically non-decreasing across calls.
func (ac *ActParams) Detect(nrn *Neuron, now int64) bool {
	nrn.Spike = 0
	nrn.AP -= ac.Dt.APDt * nrn.AP
	nrn.MP = ac.VmRange.ClipVal(ac.Rest + nrn.AP)

	since := nrn.SinceFired(now)
	st := ac.Refract.StateAt(since, nrn.ARP, nrn.RRP)
	fired := false
	if st != refract.Absolute {
		thr := ac.Refract.EffThr(nrn.TP, since, nrn.ARP, nrn.RRP)
		fired = nrn.MP >= thr
	}
	if fired {
		nrn.Spike = 1
		nrn.LastFired = now
		nrn.Sig = ac.Signal.Amp(nrn)
		nrn.AP = ac.Init.APR
		nrn.MP = ac.VmRange.ClipVal(ac.Rest + nrn.AP)
	} else {
		nrn.Sig = 0
	}
	nrn.FR += ac.Dt.FRDt * (nrn.Spike - nrn.FR)
	return fired
}

//////////////////////////////////////////////////////////////////////////////////////
//  ActInitParams

// ActInitParams are initial and post-firing values for key neuron state
// variables.  Thresholds are role-dependent: sensory neurons sit further
// from threshold so that only genuine stimulation drives them.
type ActInitParams struct {
	AP     float32 `def:"0" desc:"initial accumulated potential"`
	APR    float32 `def:"-0.2" desc:"post-firing reset value for accumulated potential -- negative values produce a transient hyperpolarization below the resting potential"`
	TP     float32 `def:"0.5" desc:"initial threshold potential for Contact and Motor neurons"`
	TPSens float32 `def:"0.55" desc:"initial threshold potential for Sensory neurons"`
}

func (ai *ActInitParams) Update() {
}

func (ai *ActInitParams) Defaults() {
	ai.AP = 0
	ai.APR = -0.2
	ai.TP = 0.5
	ai.TPSens = 0.55
}

// ThrByRole returns the initial threshold potential for given role
func (ai *ActInitParams) ThrByRole(role NeurRole) float32 {
	if role == Sensory {
		return ai.TPSens
	}
	return ai.TP
}

//////////////////////////////////////////////////////////////////////////////////////
//  DtParams

// DtParams are time constants, in ticks, for the temporal derivatives
// of neuron potential and firing rate.
type DtParams struct {
	Integ float32 `def:"1" min:"0" desc:"overall rate constant for numerical integration, for all equations at the unit level -- one tick is the nominal unit of time, and this can rescale it globally"`
	APTau float32 `def:"10" min:"1" desc:"accumulated potential leak time constant in ticks (roughly, how long an undisturbed potential takes to decay most of the way back toward zero)"`
	FRTau float32 `def:"10" min:"1" desc:"firing rate averaging time constant in ticks -- FR is a running average of the per-tick spike indicator"`

	APDt float32 `view:"-" json:"-" xml:"-" desc:"rate = Integ / APTau"`
	FRDt float32 `view:"-" json:"-" xml:"-" desc:"rate = Integ / FRTau"`
}

func (dp *DtParams) Update() {
	dp.APDt = dp.Integ / dp.APTau
	dp.FRDt = dp.Integ / dp.FRTau
}

func (dp *DtParams) Defaults() {
	dp.Integ = 1
	dp.APTau = 10
	dp.FRTau = 10
	dp.Update()
}

//////////////////////////////////////////////////////////////////////////////////////
//  GainParams

// GainParams apply a tiered gain to each incoming delivery before it is
// added to the accumulator: deliveries at or above the critical
// magnitude count as full stimulation, weaker ones contribute only
// slightly.  This gives strong coincident input a disproportionate
// effect relative to background chatter.
type GainParams struct {
	Crit   float32 `def:"0.33" min:"0" desc:"critical delivery magnitude separating full stimulation from slight input"`
	Stim   float32 `def:"0.8" min:"0" desc:"gain applied to deliveries at or above the critical magnitude"`
	Slight float32 `def:"0.08" min:"0" desc:"gain applied to deliveries below the critical magnitude"`
}

func (gp *GainParams) Update() {
}

func (gp *GainParams) Defaults() {
	gp.Crit = 0.33
	gp.Stim = 0.8
	gp.Slight = 0.08
}

// Apply returns the delivery amount scaled by the appropriate gain tier
func (gp *GainParams) Apply(amt float32) float32 {
	if math32.Abs(amt) >= gp.Crit {
		return gp.Stim * amt
	}
	return gp.Slight * amt
}

//////////////////////////////////////////////////////////////////////////////////////
//  SignalParams

// SignalModes are the ways a firing neuron's output signal amplitude
// can be computed.
type SignalModes int32

//go:generate stringer -type=SignalModes

var KiT_SignalModes = kit.Enums.AddEnum(SignalModesN, kit.NotBitFlag, nil)

func (ev SignalModes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *SignalModes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The signal modes
const (
	// Impulse produces a fixed-amplitude signal for every firing event
	Impulse SignalModes = iota

	// Graded scales the signal by the accumulated potential at firing,
	// relative to the recent firing rate, so isolated strong firings
	// transmit more than routine ones
	Graded

	SignalModesN
)

// SignalParams determine the unsigned amplitude of the signal produced
// by a firing event.  The polarity of the neuron supplies the sign at
// transmission time.
type SignalParams struct {
	Mode    SignalModes `desc:"how to compute the amplitude: fixed Impulse by default, or Graded by potential and rate"`
	Impulse float32     `def:"1" min:"0" desc:"fixed amplitude for Impulse mode"`
	Gain    float32     `def:"0.25" viewif:"Mode=Graded" min:"0" desc:"gain on the potential-to-amplitude conversion in Graded mode"`
	FRMin   float32     `def:"0.05" viewif:"Mode=Graded" min:"0" desc:"floor on the firing rate used in Graded mode, preventing division blowup for rarely-firing neurons"`
	ERange  minmax.F32  `viewif:"Mode=Graded" desc:"amplitude range for excitatory neurons in Graded mode"`
	IRange  minmax.F32  `viewif:"Mode=Graded" desc:"amplitude range for inhibitory neurons in Graded mode -- narrower than excitatory by default"`
}

func (sp *SignalParams) Update() {
}

func (sp *SignalParams) Defaults() {
	sp.Mode = Impulse
	sp.Impulse = 1
	sp.Gain = 0.25
	sp.FRMin = 0.05
	sp.ERange.Set(0.05, 1)
	sp.IRange.Set(0.05, 0.67)
}

// Amp returns the unsigned signal amplitude for a neuron firing in its
// current state.  In Graded mode the accumulated potential at firing
// time (before reset) drives the amplitude, scaled down by the recent
// firing rate and clamped to the polarity's range.
func (sp *SignalParams) Amp(nrn *Neuron) float32 {
	if sp.Mode == Impulse {
		return sp.Impulse
	}
	fr := math32.Max(nrn.FR, sp.FRMin)
	amp := nrn.AP * (sp.Gain / fr)
	if nrn.Pol == Inhibitory {
		return sp.IRange.ClipVal(amp)
	}
	return sp.ERange.ClipVal(amp)
}
