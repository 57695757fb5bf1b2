// SPDX-License-Identifier: MIT

package cluster

import (
	"context"
	"sync"
)

// Exchange carries one node's payloads for a single neighborhood all-to-all
// round. Send[nb] is delivered into nb's Recv[self]; Recv[nb] is filled with
// nb's Send[self]. Receive buffers must be allocated by the caller with the
// length of the matching send buffer.
type Exchange struct {
	Send map[NodeID][]float64
	Recv map[NodeID][]float64
}

// NewExchange allocates an Exchange with room for n neighbors.
func NewExchange(n int) *Exchange {
	return &Exchange{
		Send: make(map[NodeID][]float64, n),
		Recv: make(map[NodeID][]float64, n),
	}
}

// Environment is the execution and communication layer consumed by the
// overlap engine. Implementations decide between threads, processes or a
// sequential simulation; the engine only relies on the contract below.
//
// Every collective is a barrier: it returns only after every node's
// contribution has been incorporated, or with an error, in which case no
// partial result is returned.
type Environment interface {
	// Nodes returns every node id, sorted ascending.
	Nodes() []NodeID

	// Node returns the record of id.
	Node(id NodeID) (Node, error)

	// RunOnEachNode executes action exactly once per node, possibly in
	// parallel, and returns after all of them complete. The first error
	// cancels the context passed to the remaining actions.
	RunOnEachNode(ctx context.Context, action func(ctx context.Context, node NodeID) error) error

	// AllReduceSum sums one value per node.
	AllReduceSum(ctx context.Context, values map[NodeID]float64) (float64, error)

	// AllReduceAnd is the logical AND of one flag per node.
	AllReduceAnd(ctx context.Context, flags map[NodeID]bool) (bool, error)

	// NeighborhoodAllToAll delivers, for every node and every neighbor it
	// addresses, the node's send buffer into the neighbor's matching receive
	// buffer. Buffer sizes may differ per neighbor; symmetricSizes additionally
	// requires len(Send[nb]) == len(Recv[nb]) on every node.
	NeighborhoodAllToAll(ctx context.Context, payloads map[NodeID]*Exchange, symmetricSizes bool) error
}

// CollectPerNode runs compute once per node and gathers the results by node.
// It fails as a whole if any node fails.
func CollectPerNode[T any](ctx context.Context, env Environment, compute func(ctx context.Context, node NodeID) (T, error)) (map[NodeID]T, error) {
	var mu sync.Mutex
	out := make(map[NodeID]T, len(env.Nodes()))

	err := env.RunOnEachNode(ctx, func(ctx context.Context, node NodeID) error {
		v, err := compute(ctx, node)
		if err != nil {
			return err
		}
		mu.Lock()
		out[node] = v
		mu.Unlock()

		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}
