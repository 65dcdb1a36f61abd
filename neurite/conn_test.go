// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package neurite

import (
	"errors"
	"testing"
)

func TestConnIDs(t *testing.T) {
	var ci ConnIDs
	adds := []NeuronID{5, 2, 9, 2}
	cor := []bool{true, true, true, false}
	for i := range adds {
		if ok := ci.Add(adds[i]); ok != cor[i] {
			t.Errorf("add err: id: %v, ok: %v, cor: %v\n", adds[i], ok, cor[i])
		}
	}
	if len(ci) != 3 || ci[0] != 2 || ci[1] != 5 || ci[2] != 9 {
		t.Errorf("connection set not sorted unique: %v\n", ci)
	}
	if !ci.Has(5) || ci.Has(3) {
		t.Errorf("has err: %v\n", ci)
	}
	if i, has := ci.Idx(9); !has || i != 2 {
		t.Errorf("idx err: i: %v, has: %v\n", i, has)
	}

	cp := ci.Clone()
	if !ci.Del(5) {
		t.Errorf("del existing returned false\n")
	}
	if ci.Del(5) {
		t.Errorf("del missing returned true\n")
	}
	if len(ci) != 2 || ci.Has(5) {
		t.Errorf("del did not remove: %v\n", ci)
	}
	if len(cp) != 3 || !cp.Has(5) {
		t.Errorf("clone sharing storage with original: %v\n", cp)
	}
}

func TestEstablishTerminate(t *testing.T) {
	nrn := &Neuron{}
	nrn.ID = 3

	if err := nrn.EstablishAxonal(3); !errors.Is(err, ErrInvalidConnection) {
		t.Errorf("self connection err: %v\n", err)
	}
	if err := nrn.EstablishAxonal(-1); !errors.Is(err, ErrInvalidConnection) {
		t.Errorf("negative target err: %v\n", err)
	}
	if len(nrn.AC) != 0 {
		t.Errorf("failed establish changed state: %v\n", nrn.AC)
	}

	if err := nrn.EstablishAxonal(7); err != nil {
		t.Errorf("establish err: %v\n", err)
	}
	if err := nrn.EstablishAxonal(7); err != nil {
		t.Errorf("re-establish not a no-op: %v\n", err)
	}
	if len(nrn.AC) != 1 {
		t.Errorf("re-establish duplicated entry: %v\n", nrn.AC)
	}

	if err := nrn.TerminateAxonal(9); !errors.Is(err, ErrConnectionNotFound) {
		t.Errorf("terminate missing err: %v\n", err)
	}
	if err := nrn.TerminateAxonal(7); err != nil {
		t.Errorf("terminate err: %v\n", err)
	}
	if len(nrn.AC) != 0 {
		t.Errorf("terminate did not remove: %v\n", nrn.AC)
	}

	if err := nrn.EstablishDendritic(3); !errors.Is(err, ErrInvalidConnection) {
		t.Errorf("self dendritic err: %v\n", err)
	}
	if err := nrn.EstablishDendritic(1); err != nil {
		t.Errorf("establish dendritic err: %v\n", err)
	}
	if err := nrn.TerminateDendritic(2); !errors.Is(err, ErrConnectionNotFound) {
		t.Errorf("terminate missing dendritic err: %v\n", err)
	}
	if err := nrn.TerminateDendritic(1); err != nil {
		t.Errorf("terminate dendritic err: %v\n", err)
	}
}

func TestPruneNeuron(t *testing.T) {
	nrn := &Neuron{}
	nrn.ID = 0
	nrn.AC.Add(1)
	nrn.DC.Add(2)

	// strong connection survives its threshold
	nrn.SW = 0.5
	nrn.NC = 1.0
	nrn.SST = 0.1
	if nrn.PruneAxonal(1) {
		t.Errorf("pruned connection with effective strength %v >= threshold %v\n", nrn.EffStr(), nrn.SST)
	}
	if !nrn.AC.Has(1) {
		t.Errorf("surviving connection removed\n")
	}

	// weak connection pruned
	nrn.SW = 0.05
	if !nrn.PruneAxonal(1) {
		t.Errorf("did not prune connection with effective strength %v < threshold %v\n", nrn.EffStr(), nrn.SST)
	}
	if nrn.AC.Has(1) {
		t.Errorf("pruned connection still present\n")
	}
	// missing connection: no-op
	if nrn.PruneAxonal(1) {
		t.Errorf("prune of missing connection returned true\n")
	}

	// dendritic prune compares the sender's strength to our threshold
	if nrn.PruneDendritic(2, 0.5) {
		t.Errorf("pruned dendritic with source strength above threshold\n")
	}
	if !nrn.PruneDendritic(2, 0.05) {
		t.Errorf("did not prune dendritic with source strength below threshold\n")
	}
	if nrn.DC.Has(2) {
		t.Errorf("pruned dendritic still present\n")
	}
}
