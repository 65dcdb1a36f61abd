// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package neurite

import "errors"

// Error kinds returned by connection and construction operations.
// All are wrapped with contextual detail (neuron IDs, parameter names)
// via fmt.Errorf %w -- use errors.Is to test for a kind.
// Errors are always local to the failed operation: the neuron and
// network state they report on is left unchanged.
var (
	// ErrInvalidConnection is returned for structurally impossible
	// connections: self-connections and references to negative IDs.
	ErrInvalidConnection = errors.New("invalid connection")

	// ErrConnectionNotFound is returned when terminating a connection
	// that does not exist on the given side.
	ErrConnectionNotFound = errors.New("connection not found")

	// ErrDuplicateConnection is returned by the strict connect variant
	// when the connection already exists.  The default establish
	// operations are lenient and treat duplicates as no-ops.
	ErrDuplicateConnection = errors.New("duplicate connection")

	// ErrOutOfRangeParameter is returned when constructing or
	// reconfiguring a neuron with a parameter outside its valid range
	// (negative or NaN thresholds, rates, or refractory periods).
	ErrOutOfRangeParameter = errors.New("parameter out of range")

	// ErrNeuronNotFound is returned when an operation references a
	// neuron ID not present in the network.
	ErrNeuronNotFound = errors.New("neuron not found")
)
