// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package neurite is the overall repository for a tick-driven point-neuron
graph simulation, with activity-dependent synaptic plasticity and
structural pruning, implemented in the Go language (golang).

This top-level of the repository has no functional code -- everything is organized
into the following sub-repositories:

* neurite: the core implementation: the Neuron state, firing detection with
absolute and relative refractory dynamics, signal transmission with
neurotransmitter depletion, LTP / LTD weight learning, connection management
and pruning, and the Network container that owns neurons by stable ID and
drives the per-tick update.

* refract: refractory window parameters and the effective-threshold curve,
shared by anything that needs post-firing suppression.

* ntpool: neurotransmitter pool parameters (depletion per release, recovery
per tick), shared by transmission and pruning.

* examples: these actually compile into runnable programs.  examples/cascade
builds a small sensory -> contact -> motor net, drives it with patterned
stimulation, and logs firing, weight, and pruning statistics over ticks.
*/
package neurite
