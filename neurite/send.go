// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package neurite

import (
	"github.com/emer/neurite/ntpool"
	"github.com/goki/mat32"
)

///////////////////////////////////////////////////////////////////////
//  send.go contains the transmission params and functions: computing
//  the delivery from a firing sender to a receiver, releasing
//  neurotransmitter, and distance-based conduction delays.

// Delivery is the outcome of one transmission event from a firing
// sender to one of its receivers.  Deliveries are queued by the Network
// and committed into the receivers' accumulators only after all sends
// for the tick are complete, so senders never mutate receiver state.
type Delivery struct {
	Send NeuronID `desc:"ID of the transmitting neuron"`
	Recv NeuronID `desc:"ID of the receiving neuron"`
	Amt  float32  `desc:"signed delivery amount: signal * sender SW * sender NC, with the sign of the sender's polarity"`
	NC   float32  `desc:"sender's neurotransmitter concentration after this release"`
	Due  int64    `desc:"tick at which the delivery reaches the receiver -- the sending tick unless conduction delay is on"`
}

// neurite.SendParams contains the transmission params and functions.
// This is included in neurite.Network to drive the computation.
type SendParams struct {
	NT    ntpool.Params `view:"inline" desc:"neurotransmitter pool: per-release depletion and per-tick recovery of NC"`
	Delay DelayParams   `view:"inline" desc:"distance-based conduction delay from the sender's axon terminal to the receiver's soma"`
}

func (sp *SendParams) Defaults() {
	sp.NT.Defaults()
	sp.Delay.Defaults()
	sp.Update()
}

// Update must be called after any changes to parameters
func (sp *SendParams) Update() {
	sp.NT.Update()
	sp.Delay.Update()
}

// Transmit computes the delivery from sender to receiver for a signal of
// given unsigned amplitude at tick now.  The delivery amount is the
// signal scaled by the sender's synaptic weight and neurotransmitter
// concentration, signed by the sender's polarity.  One release of
// neurotransmitter is consumed from the sender.  Receiver state is not
// touched: the returned Delivery must be committed by the caller.
func (sp *SendParams) Transmit(send, recv *Neuron, signal float32, now int64) Delivery {
	amt := signal * send.SW * send.NC * send.Pol.Sign()
	sp.NT.Release(&send.NC)
	due := now
	if sp.Delay.On {
		due += sp.Delay.Ticks(send.AxPos.DistTo(recv.Pos))
	}
	return Delivery{Send: send.ID, Recv: recv.ID, Amt: amt, NC: send.NC, Due: due}
}

// Recover performs the per-tick neurotransmitter recovery for a neuron
func (sp *SendParams) Recover(nrn *Neuron) {
	sp.NT.Recover(&nrn.NC)
}

//////////////////////////////////////////////////////////////////////////////////////
//  DelayParams

// DelayParams compute conduction delays from the Euclidean distance
// between the sender's axon terminal and the receiver's soma.  Off by
// default: all deliveries then arrive on the tick they are sent.
type DelayParams struct {
	On  bool    `desc:"enable distance-based conduction delays"`
	Vel float32 `viewif:"On" def:"1" min:"0.001" desc:"conduction velocity: distance units traversed per tick"`
	Max float32 `viewif:"On" def:"10" min:"0" desc:"maximum delay in ticks -- distances beyond Vel * Max are capped"`
}

func (dl *DelayParams) Update() {
}

func (dl *DelayParams) Defaults() {
	dl.On = false
	dl.Vel = 1
	dl.Max = 10
}

// Ticks returns the conduction delay in whole ticks for given distance.
// Returns 0 when delays are off.
func (dl *DelayParams) Ticks(dist float32) int64 {
	if !dl.On {
		return 0
	}
	d := mat32.Round(dist / dl.Vel)
	if d > dl.Max {
		d = dl.Max
	}
	if d < 0 {
		d = 0
	}
	return int64(d)
}
