// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package neurite

import (
	"github.com/emer/emergent/erand"
	"github.com/emer/etable/minmax"
)

///////////////////////////////////////////////////////////////////////
//  learn.go contains the plasticity params and functions: coincidence
//  driven LTP / LTD accumulation at transmission time, the per-tick
//  folding of the accumulators into the synaptic weight, weight
//  initialization, and the optional adaptation of plasticity rate and
//  strength threshold.

// neurite.LearnParams contains all the plasticity computation params and
// functions, at the neuron level.  This is included in neurite.Network
// to drive the computation.
type LearnParams struct {
	Window  float32      `def:"3" min:"0" desc:"coincidence window in ticks: a transmission to a receiver that itself fired within this many ticks counts as causal and drives potentiation; all other transmissions drive depression"`
	Boost   float32      `def:"0.01" min:"0" desc:"increment added to the sender's LTP or LTD accumulator per transmission"`
	LTDecay float32      `def:"0.96" min:"0" max:"1" desc:"multiplicative decay applied to both accumulators every tick, after folding"`
	LTMax   float32      `def:"1" min:"0" desc:"cap on both the LTP and LTD accumulators"`
	SWRange minmax.F32   `view:"inline" desc:"range for the synaptic weight -- [0, 1] by default"`
	WtInit  WtInitParams `view:"inline" desc:"random distribution for initial synaptic weight values"`
	PRInit  float32      `def:"1" min:"0" desc:"initial plasticity rate"`
	SSTInit float32      `def:"0" desc:"initial strength threshold -- 0 disables pruning until raised by parameters or adaptation"`
	Adapt   AdaptParams  `view:"inline" desc:"optional activity-driven adaptation of the plasticity rate and strength threshold"`
}

func (lp *LearnParams) Defaults() {
	lp.Window = 3
	lp.Boost = 0.01
	lp.LTDecay = 0.96
	lp.LTMax = 1
	lp.SWRange.Max = 1
	lp.WtInit.Defaults()
	lp.PRInit = 1
	lp.SSTInit = 0
	lp.Adapt.Defaults()
	lp.Update()
}

// Update must be called after any changes to parameters
func (lp *LearnParams) Update() {
	lp.Adapt.Update()
}

// InitWts initializes the learning state of the neuron: synaptic weight
// from the WtInit distribution, plasticity rate, strength threshold, and
// zeroed accumulators.
func (lp *LearnParams) InitWts(nrn *Neuron) {
	nrn.SW = lp.SWRange.ClipVal(float32(lp.WtInit.Gen(-1)))
	nrn.PR = lp.PRInit
	nrn.SST = lp.SSTInit
	nrn.LTP = 0
	nrn.LTD = 0
}

// CoFired returns true if the receiver's last firing falls within the
// trailing coincidence window ending at tick now.
func (lp *LearnParams) CoFired(recv *Neuron, now int64) bool {
	if recv.LastFired < 0 {
		return false
	}
	return float32(now-recv.LastFired) <= lp.Window
}

// LrnFmSend accumulates plasticity on the sender from one transmission
// to recv at tick now: potentiation if the receiver co-fired within
// the window, depression otherwise.  Weights do not change here -- the
// accumulators are folded into SW once per tick by WtFmLT.
func (lp *LearnParams) LrnFmSend(send, recv *Neuron, now int64) {
	if lp.CoFired(recv, now) {
		send.LTP += lp.Boost
		if send.LTP > lp.LTMax {
			send.LTP = lp.LTMax
		}
	} else {
		send.LTD += lp.Boost
		if send.LTD > lp.LTMax {
			send.LTD = lp.LTMax
		}
	}
}

// WtFmLT folds the LTP / LTD accumulators into the synaptic weight,
// scaled by the plasticity rate, then decays the accumulators.
// Called once per neuron per tick, after deliveries commit.
func (lp *LearnParams) WtFmLT(nrn *Neuron) {
	nrn.SW += nrn.PR * (nrn.LTP - nrn.LTD)
	nrn.SW = lp.SWRange.ClipVal(nrn.SW)
	nrn.LTP *= lp.LTDecay
	nrn.LTD *= lp.LTDecay
}

//////////////////////////////////////////////////////////////////////////////////////
//  WtInitParams

// WtInitParams are synaptic weight initialization parameters -- the
// random distribution for initial SW values.
type WtInitParams struct {
	erand.RndParams
}

func (wp *WtInitParams) Defaults() {
	wp.Mean = 0.5
	wp.Var = 0
	wp.Dist = erand.Uniform
}

//////////////////////////////////////////////////////////////////////////////////////
//  AdaptParams

// AdaptParams adapt the plasticity rate and strength threshold from
// ongoing activity.  The plasticity rate rises with firing and decays
// during silence, so busy neurons rewire faster.  The strength threshold
// drifts opposite to the sign of committed input: strongly inhibited
// neurons become more aggressive pruners of their weak connections.
// Off by default.
type AdaptParams struct {
	On       bool       `desc:"enable adaptation of PR and SST"`
	PRBoost  float32    `viewif:"On" def:"0.01" min:"0" desc:"increment to the plasticity rate per firing, scaled by the firing rate"`
	PRDecay  float32    `viewif:"On" def:"0.96" min:"0" max:"1" desc:"multiplicative decay of the plasticity rate on non-firing ticks"`
	PRRange  minmax.F32 `viewif:"On" desc:"range for the plasticity rate -- [0, 1] by default"`
	SSTBoost float32    `viewif:"On" def:"0.01" min:"0" desc:"strength threshold shift per unit of committed input, applied opposite to the input's sign"`
	SSTRange minmax.F32 `viewif:"On" desc:"range for the strength threshold -- [-1, 1] by default: negative values disable pruning"`
}

func (ap *AdaptParams) Update() {
}

func (ap *AdaptParams) Defaults() {
	ap.On = false
	ap.PRBoost = 0.01
	ap.PRDecay = 0.96
	ap.PRRange.Max = 1
	ap.SSTBoost = 0.01
	ap.SSTRange.Set(-1, 1)
}

// PRFmSpike adapts the plasticity rate from the current tick's spike
// indicator and firing rate.  No-op unless On.
func (ap *AdaptParams) PRFmSpike(nrn *Neuron) {
	if !ap.On {
		return
	}
	if nrn.Spike > 0 {
		nrn.PR += ap.PRBoost * nrn.FR
	} else {
		nrn.PR *= ap.PRDecay
	}
	nrn.PR = ap.PRRange.ClipVal(nrn.PR)
}

// SSTFmInc adapts the strength threshold from the total delivery inc
// committed to the neuron this tick.  No-op unless On.
func (ap *AdaptParams) SSTFmInc(nrn *Neuron, inc float32) {
	if !ap.On {
		return
	}
	nrn.SST -= ap.SSTBoost * inc
	nrn.SST = ap.SSTRange.ClipVal(nrn.SST)
}
