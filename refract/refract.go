// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package refract implements post-firing refractory window dynamics for
discrete-signaling neurons, in terms of whole simulation ticks.

After a firing event, a neuron passes through two windows in sequence.
During the absolute window no amount of accumulated potential can produce
another firing.  During the relative window that follows, firing is
possible but requires exceeding an elevated effective threshold, which
decays linearly back to the baseline threshold by the end of the window,
so the window imposes a graded bias against rapid re-firing rather than
a hard block.  Outside both windows the neuron is at rest and fires at
its baseline threshold.

Window durations are per-neuron values (in ticks); this package holds the
shared defaults and the shape of the threshold elevation curve.
*/
package refract

import "github.com/goki/ki/kit"

// Params holds refractory window defaults and the effective-threshold
// elevation curve applied during the relative window.
type Params struct {
	ARP   float32 `def:"2" min:"0" desc:"default absolute refractory period: number of ticks after a firing during which no further firing is possible regardless of potential"`
	RRP   float32 `def:"2" min:"0" desc:"default relative refractory period: number of ticks after the absolute window during which firing requires exceeding an elevated threshold"`
	Boost float32 `def:"0.1" min:"0" desc:"peak proportional elevation of the threshold at the start of the relative window -- the elevation decays linearly to zero at the end of the window, so the effective threshold equals the baseline threshold exactly when the window expires"`
}

func (rf *Params) Update() {
}

func (rf *Params) Defaults() {
	rf.ARP = 2
	rf.RRP = 2
	rf.Boost = 0.1
}

// StateAt returns the refractory state for a neuron that last fired
// since ticks ago, given its window durations arp and rrp in ticks.
// since < 0 means the neuron never fired and is Resting.
// since <= arp is Absolute; arp < since <= arp+rrp is Relative.
func (rf *Params) StateAt(since int64, arp, rrp float32) States {
	if since < 0 {
		return Resting
	}
	ts := float32(since)
	if ts <= arp {
		return Absolute
	}
	if ts <= arp+rrp {
		return Relative
	}
	return Resting
}

// EffThr returns the effective firing threshold for baseline threshold
// thr, for a neuron that last fired since ticks ago with window
// durations arp and rrp.  In the Relative state the threshold is
// elevated by Boost scaled by the remaining fraction of the window;
// in the Resting state it is thr itself.  In the Absolute state firing
// is impossible: callers must check StateAt first -- this returns the
// start-of-window elevation there.
func (rf *Params) EffThr(thr float32, since int64, arp, rrp float32) float32 {
	st := rf.StateAt(since, arp, rrp)
	if st != Relative {
		if st == Absolute {
			return thr * (1 + rf.Boost)
		}
		return thr
	}
	rem := float32(1)
	if rrp > 0 {
		rem = 1 - (float32(since)-arp)/rrp
	} else {
		rem = 0
	}
	return thr * (1 + rf.Boost*rem)
}

//////////////////////////////////////////////////////////////////////////////////////
//  States

// States are the refractory states a neuron can be in relative to its
// last firing event.
type States int32

//go:generate stringer -type=States

var KiT_States = kit.Enums.AddEnum(StatesN, kit.NotBitFlag, nil)

func (ev States) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *States) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The refractory states
const (
	// Resting means outside of both refractory windows: firing at baseline threshold
	Resting States = iota

	// Absolute means within the absolute window: no firing possible
	Absolute

	// Relative means within the relative window: firing requires exceeding the elevated threshold
	Relative

	StatesN
)
