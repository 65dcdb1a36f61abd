// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ntpool

import (
	"testing"

	"github.com/chewxy/math32"
)

// difTol is the numerical difference tolerance for comparing vs. target values
const difTol = float32(1.0e-8)

func TestReleaseRecover(t *testing.T) {
	// note: params are binary-exact fractions so the target values are exact
	np := Params{}
	np.Defaults()
	np.Deplete = 0.25
	np.RecTau = 4
	np.Update()

	correl := []float32{0.75, 0.5625, 0.421875, 0.31640625}
	correc := []float32{0.4873046875, 0.615478515625, 0.71160888671875}

	nc := np.Init
	rel := make([]float32, len(correl))
	for i := range correl {
		np.Release(&nc)
		rel[i] = nc
	}
	rec := make([]float32, len(correc))
	for i := range correc {
		np.Recover(&nc)
		rec[i] = nc
	}

	for i := range correl {
		dif := math32.Abs(rel[i] - correl[i])
		if dif > difTol { // allow for small numerical diffs
			t.Errorf("release err: idx: %v, nc: %v, cor: %v, dif: %v\n", i, rel[i], correl[i], dif)
		}
	}
	for i := range correc {
		dif := math32.Abs(rec[i] - correc[i])
		if dif > difTol { // allow for small numerical diffs
			t.Errorf("recover err: idx: %v, nc: %v, cor: %v, dif: %v\n", i, rec[i], correc[i], dif)
		}
	}
	// fmt.Printf("release vals: %v\n", rel)
	// fmt.Printf("recover vals: %v\n", rec)
}

func TestBounds(t *testing.T) {
	np := Params{}
	np.Defaults()
	np.Deplete = 0.25
	np.RecTau = 4
	np.Update()

	nc := float32(0)
	np.Release(&nc)
	if nc != 0 {
		t.Errorf("release floor: nc: %v != 0\n", nc)
	}

	nc = 2 // above Max: recovery pulls down toward Init, then clamps
	np.Recover(&nc)
	if nc != 1 {
		t.Errorf("recover clamp: nc: %v != Max 1\n", nc)
	}
}
