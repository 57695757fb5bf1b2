// SPDX-License-Identifier: MIT

// Package cluster - compute-node topology.
//
// Purpose:
//   - Hold the declared undirected neighbor relation between compute nodes.
//   - Answer Node(id) with a record whose neighbor set is the
//     upper bound for any overlap indexer built on top of it.
//
// Concurrency:
//   - mu guards nodes and adj; all readers take the read lock.
//   - Returned slices are fresh copies and never alias internal state.
//
// Determinism:
//   - Nodes() and NeighborIDs() are sorted ascending.

package cluster

import (
	"fmt"
	"slices"
	"sync"
)

// NodeID identifies one compute node of the partition.
type NodeID int

// Node is the record returned by Topology.Node: the node id and its declared
// topological neighbors, sorted ascending.
type Node struct {
	ID        NodeID
	Neighbors []NodeID
}

// HasNeighbor reports whether nb is among the declared neighbors of n.
// Complexity: O(log d).
func (n Node) HasNeighbor(nb NodeID) bool {
	_, ok := slices.BinarySearch(n.Neighbors, nb)

	return ok
}

// Topology is a thread-safe undirected graph over compute nodes.
// Self-loops and parallel edges are not representable.
type Topology struct {
	mu    sync.RWMutex
	nodes map[NodeID]struct{}            // node id → present
	adj   map[NodeID]map[NodeID]struct{} // adj[a][b] present iff a–b connected (mirrored)
}

// NewTopology creates an empty topology, optionally pre-populated with ids.
// Duplicate ids in the argument list are collapsed.
// Complexity: O(len(ids)).
func NewTopology(ids ...NodeID) *Topology {
	t := &Topology{
		nodes: make(map[NodeID]struct{}, len(ids)),
		adj:   make(map[NodeID]map[NodeID]struct{}, len(ids)),
	}
	for _, id := range ids {
		t.nodes[id] = struct{}{}
		if t.adj[id] == nil {
			t.adj[id] = make(map[NodeID]struct{})
		}
	}

	return t
}

// AddNode registers a node.
// Errors: ErrDuplicateNode if id is already present.
// Complexity: O(1).
func (t *Topology) AddNode(id NodeID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.nodes[id]; ok {
		return fmt.Errorf("AddNode(%d): %w", id, ErrDuplicateNode)
	}
	t.nodes[id] = struct{}{}
	t.adj[id] = make(map[NodeID]struct{})

	return nil
}

// Connect declares a and b as neighbors (both directions). Connecting an
// already connected pair is a no-op.
//
// Errors:
//   - ErrSelfLoop if a == b.
//   - ErrUnknownNode if either endpoint is missing.
//
// Complexity: O(1).
func (t *Topology) Connect(a, b NodeID) error {
	if a == b {
		return fmt.Errorf("Connect(%d,%d): %w", a, b, ErrSelfLoop)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.nodes[a]; !ok {
		return fmt.Errorf("Connect(%d,%d): %w", a, b, ErrUnknownNode)
	}
	if _, ok := t.nodes[b]; !ok {
		return fmt.Errorf("Connect(%d,%d): %w", a, b, ErrUnknownNode)
	}
	t.adj[a][b] = struct{}{} // mirror both directions, the relation is symmetric
	t.adj[b][a] = struct{}{}

	return nil
}

// HasNode reports whether id is part of the topology.
func (t *Topology) HasNode(id NodeID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.nodes[id]

	return ok
}

// AreNeighbors reports whether a and b are connected.
func (t *Topology) AreNeighbors(a, b NodeID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.adj[a][b]

	return ok
}

// Len returns the number of nodes.
func (t *Topology) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.nodes)
}

// Nodes returns all node ids sorted ascending.
// Complexity: O(V log V).
func (t *Topology) Nodes() []NodeID {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]NodeID, 0, len(t.nodes))
	for id := range t.nodes {
		out = append(out, id)
	}
	slices.Sort(out) // map order is irrelevant, ordering is enforced here

	return out
}

// NeighborIDs returns the neighbors of id sorted ascending.
// Errors: ErrUnknownNode if id is missing.
// Complexity: O(d log d).
func (t *Topology) NeighborIDs(id NodeID) ([]NodeID, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.neighborsLocked(id)
}

// Node returns the record for id.
// Errors: ErrUnknownNode if id is missing.
func (t *Topology) Node(id NodeID) (Node, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	nbs, err := t.neighborsLocked(id)
	if err != nil {
		return Node{}, err
	}

	return Node{ID: id, Neighbors: nbs}, nil
}

// Clone returns an independent deep copy of the topology.
// Complexity: O(V + E).
func (t *Topology) Clone() *Topology {
	t.mu.RLock()
	defer t.mu.RUnlock()

	c := NewTopology()
	for id := range t.nodes {
		c.nodes[id] = struct{}{}
		row := make(map[NodeID]struct{}, len(t.adj[id]))
		for nb := range t.adj[id] {
			row[nb] = struct{}{}
		}
		c.adj[id] = row
	}

	return c
}

// neighborsLocked expects the read lock to be held.
func (t *Topology) neighborsLocked(id NodeID) ([]NodeID, error) {
	if _, ok := t.nodes[id]; !ok {
		return nil, fmt.Errorf("Node(%d): %w", id, ErrUnknownNode)
	}
	out := make([]NodeID, 0, len(t.adj[id]))
	for nb := range t.adj[id] {
		out = append(out, nb)
	}
	slices.Sort(out)

	return out, nil
}
