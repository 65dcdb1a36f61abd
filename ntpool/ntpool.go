// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package ntpool implements a neurotransmitter pool: the releasable
concentration that multiplies every signal a neuron transmits.

Each release consumes a fixed fraction of the current concentration, so
rapid repeated firing transmits progressively weaker signals.  The pool
recovers exponentially toward its baseline once per tick, independent of
firing.  Concentration is always within [0, Max].

The pool also feeds structural pruning: a neuron's effective connection
strength is its synaptic weight times its current concentration, so a
chronically depleted neuron can fall below the pruning threshold of its
receivers.
*/
package ntpool

import "github.com/chewxy/math32"

// Params are the neurotransmitter pool parameters.
type Params struct {
	Init    float32 `def:"1" min:"0" desc:"baseline concentration: initial value and the level the pool recovers toward"`
	Max     float32 `def:"1" min:"0" desc:"upper bound on concentration"`
	Deplete float32 `def:"0.2" min:"0" max:"1" desc:"fraction of current concentration consumed by each release (transmission event)"`
	RecTau  float32 `def:"20" min:"1" desc:"recovery time constant in ticks (roughly, how long it takes to recover a significant fraction of the distance back to baseline)"`

	RecDt float32 `view:"-" json:"-" xml:"-" desc:"rate = 1 / RecTau"`
}

func (np *Params) Update() {
	np.RecDt = 1 / np.RecTau
}

func (np *Params) Defaults() {
	np.Init = 1
	np.Max = 1
	np.Deplete = 0.2
	np.RecTau = 20
	np.Update()
}

// Release consumes one release worth of concentration from nc,
// as a Deplete fraction of the current level.
func (np *Params) Release(nc *float32) {
	*nc -= np.Deplete * *nc
	*nc = math32.Max(*nc, 0)
}

// Recover moves nc exponentially back toward the Init baseline,
// called once per tick per neuron.
func (np *Params) Recover(nc *float32) {
	*nc += np.RecDt * (np.Init - *nc)
	if *nc > np.Max {
		*nc = np.Max
	}
	if *nc < 0 {
		*nc = 0
	}
}
