// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refract

import (
	"testing"

	"github.com/chewxy/math32"
)

// difTol is the numerical difference tolerance for comparing vs. target values
const difTol = float32(1.0e-8)

func TestStates(t *testing.T) {
	rf := Params{}
	rf.Defaults()

	since := []int64{-1, 0, 1, 2, 3, 4, 5}
	cor := []States{Resting, Absolute, Absolute, Absolute, Relative, Relative, Resting}

	for i := range since {
		st := rf.StateAt(since[i], 2, 2)
		if st != cor[i] {
			t.Errorf("state err: since: %v, st: %v, cor: %v\n", since[i], st, cor[i])
		}
	}

	// zero relative window: straight from absolute to resting
	if st := rf.StateAt(3, 2, 0); st != Resting {
		t.Errorf("state err: rrp=0, since=3, st: %v, cor: %v\n", st, Resting)
	}
	if st := rf.StateAt(2, 2, 0); st != Absolute {
		t.Errorf("state err: rrp=0, since=2, st: %v, cor: %v\n", st, Absolute)
	}
}

func TestEffThr(t *testing.T) {
	rf := Params{}
	rf.Defaults()
	rf.Boost = 0.25

	thr := float32(0.5)
	since := []int64{-1, 0, 2, 3, 4, 5}
	cor := []float32{0.5, 0.625, 0.625, 0.5625, 0.5, 0.5}

	for i := range since {
		et := rf.EffThr(thr, since[i], 2, 2)
		dif := math32.Abs(et - cor[i])
		if dif > difTol { // allow for small numerical diffs
			t.Errorf("effthr err: since: %v, et: %v, cor: %v, dif: %v\n", since[i], et, cor[i], dif)
		}
	}

	if et := rf.EffThr(thr, 3, 2, 0); et != thr {
		t.Errorf("effthr err: rrp=0, et: %v, cor: %v\n", et, thr)
	}
}
