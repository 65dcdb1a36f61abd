// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package neurite

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"
	"github.com/emer/emergent/params"
	"github.com/emer/emergent/prjn"
	"github.com/emer/etable/etensor"
	"github.com/goki/mat32"
)

// note: binary-exact parameter values keep all the target values in
// these tests exact, so difTol comparisons are strict.
var ParamSets = params.Sets{
	{Name: "Base", Desc: "binary-exact test params", Sheets: params.Sheets{
		"Network": &params.Sheet{
			{Sel: "Network", Desc: "dyadic rates and thresholds",
				Params: params.Params{
					"Network.Act.Rest":          "0.25",
					"Network.Act.Init.APR":      "-0.25",
					"Network.Act.Init.TP":       "0.5",
					"Network.Act.Init.TPSens":   "0.5",
					"Network.Act.Dt.APTau":      "2",
					"Network.Act.Dt.FRTau":      "4",
					"Network.Act.Gain.Crit":     "0.25",
					"Network.Act.Gain.Stim":     "1",
					"Network.Act.Gain.Slight":   "0.125",
					"Network.Act.Refract.ARP":   "1",
					"Network.Act.Refract.RRP":   "2",
					"Network.Act.Refract.Boost": "0.25",
					"Network.Send.NT.Deplete":   "0.25",
					"Network.Send.NT.RecTau":    "4",
					"Network.Learn.Boost":       "0.125",
					"Network.Learn.LTDecay":     "0.75",
					"Network.Learn.WtInit.Mean": "0.5",
					"Network.Learn.WtInit.Var":  "0",
				}},
		},
	}},
}

// MakeTestNet returns a 3-neuron feedforward chain:
// Sensory(0) -> Contact(1) -> Motor(2), all excitatory, with the Base
// test params applied and state initialized.
func MakeTestNet(t *testing.T) *Network {
	nt := NewNetwork("TestNet")
	sn, err := nt.AddNeuron(Sensory, Excitatory, mat32.Vec3{}, mat32.Vec3{})
	if err != nil {
		t.Fatal(err)
	}
	cn, err := nt.AddNeuron(Contact, Excitatory, mat32.Vec3{X: 1}, mat32.Vec3{X: 1})
	if err != nil {
		t.Fatal(err)
	}
	mn, err := nt.AddNeuron(Motor, Excitatory, mat32.Vec3{X: 2}, mat32.Vec3{X: 2})
	if err != nil {
		t.Fatal(err)
	}
	if err := nt.Connect(sn, cn); err != nil {
		t.Fatal(err)
	}
	if err := nt.Connect(cn, mn); err != nil {
		t.Fatal(err)
	}

	pset, err := ParamSets.SetByNameTry("Base")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := nt.ApplyParams(pset.Sheets["Network"], false); err != nil {
		t.Fatal(err)
	}
	nt.InitWts()
	nt.InitActs()
	return nt
}

// TestNetCascade stimulates the sensory neuron and verifies the firing
// cascade propagates one connection per tick, with exact values for the
// weights, concentrations, and rates along the way.  Within a tick, a
// delivery can never advance the receiver in the same detection pass:
// the receiver fires on the following tick.
func TestNetCascade(t *testing.T) {
	corsw := []float32{0.2109375, 0.28125, 0.5}
	cornc := []float32{0.89453125, 0.859375, 1}
	corfr := []float32{0.140625, 0.1875, 0.25}
	cormp := []float32{0.1875, 0.125, 0}
	corlf := []int64{1, 2, 3}
	corfired := [][]int{{}, {0}, {1}, {2}}

	nt := MakeTestNet(t)
	tm := NewTime()

	if err := nt.Stim(0, 1); err != nil {
		t.Fatal(err)
	}

	for ci := 0; ci < 4; ci++ {
		nt.Cycle(tm)
		if len(nt.Fired) != len(corfired[ci]) {
			t.Errorf("fired err: tick: %v, fired: %v, cor: %v\n", tm.Tick, nt.Fired, corfired[ci])
		} else {
			for fi := range nt.Fired {
				if int(nt.Fired[fi]) != corfired[ci][fi] {
					t.Errorf("fired err: tick: %v, fired: %v, cor: %v\n", tm.Tick, nt.Fired, corfired[ci])
				}
			}
		}
		tm.TickInc()
	}

	sw := make([]float32, 3)
	nc := make([]float32, 3)
	fr := make([]float32, 3)
	mp := make([]float32, 3)
	for ni := range nt.Neurons {
		nrn := &nt.Neurons[ni]
		sw[ni] = nrn.SW
		nc[ni] = nrn.NC
		fr[ni] = nrn.FR
		mp[ni] = nrn.MP
		if nrn.LastFired != corlf[ni] {
			t.Errorf("lastfired err: id: %v, lf: %v, cor: %v\n", nrn.ID, nrn.LastFired, corlf[ni])
		}
	}
	CmprFloats(sw, corsw, "cascade sw", t)
	CmprFloats(nc, cornc, "cascade nc", t)
	CmprFloats(fr, corfr, "cascade fr", t)
	CmprFloats(mp, cormp, "cascade mp", t)

	if nt.MPStats.Max != 0.1875 {
		t.Errorf("mp stats max: %v != 0.1875\n", nt.MPStats.Max)
	}
	// fmt.Printf("sw: %v nc: %v fr: %v mp: %v\n", sw, nc, fr, mp)
}

// TestNetDelay turns on distance-based conduction delays and verifies a
// delivery stays queued until due, carrying its send-time amount.
func TestNetDelay(t *testing.T) {
	nt := MakeTestNet(t)
	nt.Send.Delay.On = true
	nt.Send.Delay.Vel = 1
	nt.UpdateParams()

	// sender axon terminal sits 3 units from the receiver's soma
	nt.Neurons[1].Pos = mat32.Vec3{X: 3}

	tm := NewTime()
	if err := nt.Stim(0, 1); err != nil {
		t.Fatal(err)
	}

	for ci := 0; ci < 6; ci++ {
		nt.Cycle(tm)
		switch tm.Tick {
		case 1:
			if len(nt.Queue) != 1 {
				t.Fatalf("delivery not queued at send tick: %v\n", nt.Queue)
			}
			d := nt.Queue[0]
			if d.Due != 4 {
				t.Errorf("delivery due: %v != 4\n", d.Due)
			}
			if d.Amt != 0.5 {
				t.Errorf("delivery amt: %v != send-time 0.5\n", d.Amt)
			}
		case 4:
			if len(nt.Queue) != 0 {
				t.Errorf("due delivery still queued: %v\n", nt.Queue)
			}
		}
		tm.TickInc()
	}

	if nt.Neurons[1].LastFired != 5 {
		t.Errorf("delayed receiver fired at: %v != 5\n", nt.Neurons[1].LastFired)
	}
}

func TestNetConnect(t *testing.T) {
	nt := MakeTestNet(t)

	if !nt.Neurons[0].AC.Has(1) || !nt.Neurons[1].DC.Has(0) {
		t.Errorf("connect did not mirror: ac: %v, dc: %v\n", nt.Neurons[0].AC, nt.Neurons[1].DC)
	}

	if err := nt.Connect(0, 1); err != nil {
		t.Errorf("re-connect not a no-op: %v\n", err)
	}
	if err := nt.ConnectNew(0, 1); !errors.Is(err, ErrDuplicateConnection) {
		t.Errorf("strict duplicate err: %v\n", err)
	}
	if err := nt.ConnectNew(0, 2); err != nil {
		t.Errorf("strict new err: %v\n", err)
	}
	if err := nt.Connect(0, 0); !errors.Is(err, ErrInvalidConnection) {
		t.Errorf("self connect err: %v\n", err)
	}
	if err := nt.Connect(0, 99); !errors.Is(err, ErrNeuronNotFound) {
		t.Errorf("connect missing err: %v\n", err)
	}

	if err := nt.Disconnect(0, 2); err != nil {
		t.Errorf("disconnect err: %v\n", err)
	}
	if nt.Neurons[0].AC.Has(2) || nt.Neurons[2].DC.Has(0) {
		t.Errorf("disconnect did not mirror\n")
	}
	if err := nt.Disconnect(0, 2); !errors.Is(err, ErrConnectionNotFound) {
		t.Errorf("re-disconnect err: %v\n", err)
	}
}

func TestNetAddDel(t *testing.T) {
	nt := MakeTestNet(t)

	if _, err := nt.AddNeuron(NeurRoleN, Excitatory, mat32.Vec3{}, mat32.Vec3{}); !errors.Is(err, ErrOutOfRangeParameter) {
		t.Errorf("bad role err: %v\n", err)
	}
	if _, err := nt.AddNeuron(Contact, PolarityN, mat32.Vec3{}, mat32.Vec3{}); !errors.Is(err, ErrOutOfRangeParameter) {
		t.Errorf("bad polarity err: %v\n", err)
	}
	if _, err := nt.AddNeuron(Contact, Excitatory, mat32.Vec3{X: math32.NaN()}, mat32.Vec3{}); !errors.Is(err, ErrOutOfRangeParameter) {
		t.Errorf("nan position err: %v\n", err)
	}
	if nt.NNeurons() != 3 {
		t.Errorf("failed adds changed arena: %v\n", nt.NNeurons())
	}

	if err := nt.ConnectNew(0, 2); err != nil {
		t.Fatal(err)
	}
	if err := nt.DelNeuron(1); err != nil {
		t.Fatal(err)
	}
	if nt.NeurByID(1) != nil {
		t.Errorf("deleted neuron still resolvable\n")
	}
	if nt.NNeurons() != 3 || nt.NLive() != 2 {
		t.Errorf("slots: %v, live: %v\n", nt.NNeurons(), nt.NLive())
	}
	if nt.Neurons[0].AC.Has(1) || nt.Neurons[2].DC.Has(1) {
		t.Errorf("deleted ID not purged from connection sets\n")
	}
	if !nt.Neurons[0].AC.Has(2) {
		t.Errorf("unrelated connection purged\n")
	}
	if err := nt.DelNeuron(1); !errors.Is(err, ErrNeuronNotFound) {
		t.Errorf("re-delete err: %v\n", err)
	}

	// IDs are never reused
	id, err := nt.AddNeuron(Contact, Inhibitory, mat32.Vec3{}, mat32.Vec3{})
	if err != nil {
		t.Fatal(err)
	}
	if id != 3 {
		t.Errorf("new neuron reused ID: %v\n", id)
	}
}

func TestNetReconfig(t *testing.T) {
	nt := MakeTestNet(t)

	if err := nt.SetThreshold(0, -1); !errors.Is(err, ErrOutOfRangeParameter) {
		t.Errorf("negative threshold err: %v\n", err)
	}
	if err := nt.SetThreshold(0, math32.NaN()); !errors.Is(err, ErrOutOfRangeParameter) {
		t.Errorf("nan threshold err: %v\n", err)
	}
	if nt.Neurons[0].TP != 0.5 {
		t.Errorf("failed set changed threshold: %v\n", nt.Neurons[0].TP)
	}
	if err := nt.SetThreshold(0, 0.75); err != nil {
		t.Errorf("set threshold err: %v\n", err)
	}
	if nt.Neurons[0].TP != 0.75 {
		t.Errorf("threshold not set: %v\n", nt.Neurons[0].TP)
	}

	if err := nt.SetRefractory(0, -1, 2); !errors.Is(err, ErrOutOfRangeParameter) {
		t.Errorf("negative refractory err: %v\n", err)
	}
	if err := nt.SetRefractory(0, 3, 4); err != nil {
		t.Errorf("set refractory err: %v\n", err)
	}
	if nt.Neurons[0].ARP != 3 || nt.Neurons[0].RRP != 4 {
		t.Errorf("refractory not set: arp: %v, rrp: %v\n", nt.Neurons[0].ARP, nt.Neurons[0].RRP)
	}

	if err := nt.Stim(99, 1); !errors.Is(err, ErrNeuronNotFound) {
		t.Errorf("stim missing err: %v\n", err)
	}
	if err := nt.Stim(0, 1); err != nil {
		t.Fatal(err)
	}
	if !nt.Neurons[0].HasFlag(NeurHasExt) {
		t.Errorf("stim did not flag external input\n")
	}
	nt.InitExt()
	if nt.Neurons[0].HasFlag(NeurHasExt) {
		t.Errorf("InitExt did not clear flag\n")
	}
}

// TestNetPrune verifies both prune rules: a sender with effective
// strength below the receiver's threshold is dropped by the receiver,
// one below its own threshold abandons its outgoing connections, and
// sweeps are idempotent.
func TestNetPrune(t *testing.T) {
	nt := MakeTestNet(t)
	nt.Prune.On = false // sweep manually

	// sender 0 weak (0.05 * 1.0), sender 1 strong (0.5 * 1.0),
	// receiver threshold 0.1: only the weak edge is pruned
	nt.Neurons[0].SW = 0.05
	nt.Neurons[0].NC = 1
	nt.Neurons[1].SW = 0.5
	nt.Neurons[1].NC = 1
	nt.Neurons[1].SST = 0.1
	nt.Neurons[2].SST = 0.1

	if np := nt.PruneNow(); np != 1 {
		t.Errorf("pruned: %v != 1\n", np)
	}
	if nt.Neurons[0].AC.Has(1) || nt.Neurons[1].DC.Has(0) {
		t.Errorf("weak edge not pruned from both sides\n")
	}
	if !nt.Neurons[1].AC.Has(2) {
		t.Errorf("strong edge pruned\n")
	}
	if np := nt.PruneNow(); np != 0 {
		t.Errorf("second sweep pruned: %v != 0\n", np)
	}

	// sender-side rule: own threshold above own strength abandons all
	nt.Neurons[1].SST = 0.75
	if np := nt.PruneNow(); np != 1 {
		t.Errorf("sender-side pruned: %v != 1\n", np)
	}
	if nt.Neurons[1].AC.Has(2) || nt.Neurons[2].DC.Has(1) {
		t.Errorf("sender-side edge not pruned from both sides\n")
	}

	if nt.PruneDendritic(1, 0) {
		t.Errorf("prune of missing connection returned true\n")
	}
	if nt.PruneAxonal(0, 1) {
		t.Errorf("prune of missing connection returned true\n")
	}
}

// TestNetAntiCausalPrune runs the full anti-causal lifecycle through
// Cycle: the sender fires repeatedly into a receiver that can never
// fire, so depression drives the weight down monotonically until the
// effective strength crosses the sender's strength threshold and the
// automatic sweep removes the connection from both sides, leaving the
// rest of the topology alone.
func TestNetAntiCausalPrune(t *testing.T) {
	nt := MakeTestNet(t)
	nt.Neurons[0].SST = 0.2
	if err := nt.SetThreshold(1, 10); err != nil { // receiver can never fire
		t.Fatal(err)
	}

	tm := NewTime()
	lastSW := nt.Neurons[0].SW
	prunedAt := int64(-1)
	for ci := 0; ci < 40; ci++ {
		if err := nt.Stim(0, 1); err != nil {
			t.Fatal(err)
		}
		nt.Cycle(tm)
		if nt.Neurons[0].SW > lastSW {
			t.Errorf("anti-causal weight increased: tick: %v, sw: %v, prev: %v\n", tm.Tick, nt.Neurons[0].SW, lastSW)
		}
		lastSW = nt.Neurons[0].SW
		if prunedAt < 0 && !nt.Neurons[0].AC.Has(1) {
			prunedAt = tm.Tick
			if nt.Neurons[0].EffStr() >= nt.Neurons[0].SST {
				t.Errorf("pruned at effective strength %v >= threshold %v\n", nt.Neurons[0].EffStr(), nt.Neurons[0].SST)
			}
		}
		tm.TickInc()
	}
	if nt.Neurons[0].LastFired < 0 {
		t.Fatalf("sender never fired\n")
	}
	if nt.Neurons[1].LastFired >= 0 {
		t.Fatalf("receiver fired: co-firing contaminates the anti-causal run\n")
	}
	if prunedAt < 0 {
		t.Errorf("weak connection never pruned: sw: %v, nc: %v\n", nt.Neurons[0].SW, nt.Neurons[0].NC)
	}
	if nt.Neurons[1].DC.Has(0) {
		t.Errorf("prune did not mirror on receiver\n")
	}
	if !nt.Neurons[1].AC.Has(2) {
		t.Errorf("unrelated connection pruned\n")
	}
	if nt.Neurons[0].LTP != 0 {
		t.Errorf("anti-causal run accumulated LTP: %v\n", nt.Neurons[0].LTP)
	}
}

func TestNetPruneSweeps(t *testing.T) {
	nt := MakeTestNet(t)
	nt.Prune.On = false
	if err := nt.ConnectNew(0, 2); err != nil {
		t.Fatal(err)
	}

	// neuron 0 falls below its own threshold: axonal sweep drops both edges
	nt.Neurons[0].SW = 0.05
	nt.Neurons[0].SST = 0.1
	if np := nt.PruneAxonalSweep(0); np != 2 {
		t.Errorf("axonal sweep pruned: %v != 2\n", np)
	}
	if len(nt.Neurons[0].AC) != 0 || nt.Neurons[1].DC.Has(0) || nt.Neurons[2].DC.Has(0) {
		t.Errorf("axonal sweep left stale entries\n")
	}

	// receiver-side sweep on motor neuron
	nt.Neurons[1].SW = 0.05
	nt.Neurons[1].NC = 1
	nt.Neurons[2].SST = 0.1
	if np := nt.PruneDendriticSweep(2); np != 1 {
		t.Errorf("dendritic sweep pruned: %v != 1\n", np)
	}
	if nt.Neurons[2].DC.Has(1) || nt.Neurons[1].AC.Has(2) {
		t.Errorf("dendritic sweep left stale entries\n")
	}
}

func TestConnectPattern(t *testing.T) {
	nt := NewNetwork("PatNet")
	var send, recv []NeuronID
	for i := 0; i < 3; i++ {
		id, err := nt.AddNeuron(Sensory, Excitatory, mat32.Vec3{}, mat32.Vec3{})
		if err != nil {
			t.Fatal(err)
		}
		send = append(send, id)
	}
	for i := 0; i < 2; i++ {
		id, err := nt.AddNeuron(Motor, Excitatory, mat32.Vec3{}, mat32.Vec3{})
		if err != nil {
			t.Fatal(err)
		}
		recv = append(recv, id)
	}
	if err := nt.ConnectPattern(send, recv, prjn.NewFull()); err != nil {
		t.Fatal(err)
	}
	for _, sid := range send {
		for _, rid := range recv {
			if !nt.Neurons[sid].AC.Has(rid) || !nt.Neurons[rid].DC.Has(sid) {
				t.Errorf("full pattern missing edge %v -> %v\n", sid, rid)
			}
		}
	}

	// self connections produced by a pattern over the same IDs are skipped
	if err := nt.ConnectPattern(send, send, prjn.NewFull()); err != nil {
		t.Fatal(err)
	}
	for _, sid := range send {
		if nt.Neurons[sid].AC.Has(sid) {
			t.Errorf("pattern created self connection on %v\n", sid)
		}
	}
}

func TestVarTensor(t *testing.T) {
	nt := MakeTestNet(t)
	tsr := &etensor.Float32{}
	if err := nt.VarTensor("MP", tsr); err != nil {
		t.Fatal(err)
	}
	if tsr.Len() != nt.NNeurons() {
		t.Errorf("tensor len: %v != %v\n", tsr.Len(), nt.NNeurons())
	}
	for ni := range nt.Neurons {
		if tsr.Values[ni] != nt.Neurons[ni].MP {
			t.Errorf("tensor val err: idx: %v, val: %v, mp: %v\n", ni, tsr.Values[ni], nt.Neurons[ni].MP)
		}
	}
	if err := nt.VarTensor("Ge", tsr); err == nil {
		t.Errorf("invalid var name did not return error\n")
	}

	if err := nt.DelNeuron(1); err != nil {
		t.Fatal(err)
	}
	if err := nt.VarTensor("MP", tsr); err != nil {
		t.Fatal(err)
	}
	if !math32.IsNaN(tsr.Values[1]) {
		t.Errorf("deleted neuron var not NaN: %v\n", tsr.Values[1])
	}
}
