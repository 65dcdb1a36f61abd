// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package neurite

import (
	"fmt"
	"sort"
)

///////////////////////////////////////////////////////////////////////
//  conn.go contains the neuron-local connection set operations:
//  establish, terminate, and prune, for the axonal (outgoing) and
//  dendritic (incoming) sides.  The Network maintains the invariant
//  that every axonal entry has a mirrored dendritic entry.

// ConnIDs is an ordered set of neuron IDs forming one side of a
// neuron's connections.  IDs are kept sorted ascending so iteration
// order is deterministic and membership is a binary search.
type ConnIDs []NeuronID

// Idx returns the index of given id, and whether it is present.
// If not present, the index is where it would be inserted.
func (ci ConnIDs) Idx(id NeuronID) (int, bool) {
	i := sort.Search(len(ci), func(j int) bool { return ci[j] >= id })
	if i < len(ci) && ci[i] == id {
		return i, true
	}
	return i, false
}

// Has returns true if given id is in the set
func (ci ConnIDs) Has(id NeuronID) bool {
	_, has := ci.Idx(id)
	return has
}

// Add inserts given id, keeping the set sorted.
// Returns false if the id was already present.
func (ci *ConnIDs) Add(id NeuronID) bool {
	i, has := ci.Idx(id)
	if has {
		return false
	}
	*ci = append(*ci, 0)
	copy((*ci)[i+1:], (*ci)[i:])
	(*ci)[i] = id
	return true
}

// Del removes given id. Returns false if it was not present.
func (ci *ConnIDs) Del(id NeuronID) bool {
	i, has := ci.Idx(id)
	if !has {
		return false
	}
	*ci = append((*ci)[:i], (*ci)[i+1:]...)
	return true
}

// Clone returns a copy of the set
func (ci ConnIDs) Clone() ConnIDs {
	if len(ci) == 0 {
		return nil
	}
	cp := make(ConnIDs, len(ci))
	copy(cp, ci)
	return cp
}

///////////////////////////////////////////////////////////////////////
//  Establish / Terminate

// EstablishAxonal adds an axonal (outgoing) connection to the given
// neuron.  Only this neuron's own set is modified: the receiver's
// mirrored dendritic entry is the caller's responsibility (see
// Network.Connect).  Connecting a neuron to itself is an error.
// Re-establishing an existing connection is a no-op.
func (nrn *Neuron) EstablishAxonal(tid NeuronID) error {
	if tid == nrn.ID || tid < 0 {
		return fmt.Errorf("neuron %d: axonal connection to %d: %w", nrn.ID, tid, ErrInvalidConnection)
	}
	nrn.AC.Add(tid)
	return nil
}

// EstablishDendritic adds a dendritic (incoming) connection from the
// given neuron.  Only this neuron's own set is modified.
// Connecting a neuron to itself is an error.
// Re-establishing an existing connection is a no-op.
func (nrn *Neuron) EstablishDendritic(sid NeuronID) error {
	if sid == nrn.ID || sid < 0 {
		return fmt.Errorf("neuron %d: dendritic connection from %d: %w", nrn.ID, sid, ErrInvalidConnection)
	}
	nrn.DC.Add(sid)
	return nil
}

// TerminateAxonal removes the axonal connection to the given neuron.
// Returns an error if no such connection exists, leaving state unchanged.
func (nrn *Neuron) TerminateAxonal(tid NeuronID) error {
	if !nrn.AC.Del(tid) {
		return fmt.Errorf("neuron %d: axonal connection to %d: %w", nrn.ID, tid, ErrConnectionNotFound)
	}
	return nil
}

// TerminateDendritic removes the dendritic connection from the given neuron.
// Returns an error if no such connection exists, leaving state unchanged.
func (nrn *Neuron) TerminateDendritic(sid NeuronID) error {
	if !nrn.DC.Del(sid) {
		return fmt.Errorf("neuron %d: dendritic connection from %d: %w", nrn.ID, sid, ErrConnectionNotFound)
	}
	return nil
}

///////////////////////////////////////////////////////////////////////
//  Prune

// EffStr returns the effective connection strength this neuron currently
// projects to all of its receivers: synaptic weight times
// neurotransmitter concentration.
func (nrn *Neuron) EffStr() float32 {
	return nrn.SW * nrn.NC
}

// PruneAxonal removes the axonal connection to the given neuron if this
// neuron's own effective strength has fallen below its strength
// threshold SST.  Returns true if the connection was pruned.
// A missing connection is a no-op (pruning can race with termination).
func (nrn *Neuron) PruneAxonal(tid NeuronID) bool {
	if !nrn.AC.Has(tid) {
		return false
	}
	if nrn.EffStr() < nrn.SST {
		nrn.AC.Del(tid)
		return true
	}
	return false
}

// PruneDendritic removes the dendritic connection from the given source
// neuron if the source's effective strength srcStr (its SW * NC) has
// fallen below this neuron's strength threshold SST.  Returns true if
// the connection was pruned.  A missing connection is a no-op.
func (nrn *Neuron) PruneDendritic(sid NeuronID, srcStr float32) bool {
	if !nrn.DC.Has(sid) {
		return false
	}
	if srcStr < nrn.SST {
		nrn.DC.Del(sid)
		return true
	}
	return false
}
