// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package neurite

// neurite.Time contains the timing state and parameter information for
// running a network.  The tick is the unit of simulated time: all
// refractory windows, plasticity coincidence windows, and conduction
// delays are expressed in ticks.  Ticks are monotonically non-decreasing
// and are always passed in explicitly -- nothing in the network reads a
// clock.
type Time struct {
	Time float32 `desc:"accumulated amount of time the network has been running, in simulation-time (not real world time), in seconds"`
	Tick int64   `desc:"current tick: total count of network update steps since last reset.  Passed as the now argument to detection and transmission"`

	TimePerTick float32 `def:"0.001" desc:"amount of simulation time per tick"`
}

// NewTime returns a new Time struct with default parameters
func NewTime() *Time {
	tm := &Time{}
	tm.Defaults()
	return tm
}

// Defaults sets default values
func (tm *Time) Defaults() {
	tm.TimePerTick = 0.001
}

// Reset resets the counters all back to zero
func (tm *Time) Reset() {
	tm.Time = 0
	tm.Tick = 0
	if tm.TimePerTick == 0 {
		tm.Defaults()
	}
}

// TickInc increments at the tick level
func (tm *Time) TickInc() {
	tm.Tick++
	tm.Time += tm.TimePerTick
}
