// SPDX-License-Identifier: MIT

// Package overlap - halo protocols.
//
// Purpose:
//   - SumOverlappingEntries: assemble per-node contributions so every copy of
//     a shared entry holds the sum over its holders.
//   - RegularizeOverlappingEntries: divide every shared entry by that sum.
//   - AverageOverlappingEntries: replace every shared entry by the holders' mean.
//   - CheckConsistency: verify that the copies of every shared entry agree.
//
// Each protocol runs exactly one neighborhood all-to-all. Buffers are laid
// out in shared-list order, which both endpoints of a pair agree on.

package overlap

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/overlap/cluster"
)

const (
	opSum         = "SumOverlappingEntries"
	opRegularize  = "RegularizeOverlappingEntries"
	opAverage     = "AverageOverlappingEntries"
	opConsistency = "CheckConsistency"
)

// exchangeHalo packs every node's shared values and runs one symmetric
// neighborhood all-to-all. On return, payloads[node].Recv[nb] holds nb's
// values for the entries node shares with nb, in shared-list order.
//
// Implementation:
//   - Stage 1: allocate one Exchange per node (sequential, so the outer map is
//     read-only for the per-node tasks).
//   - Stage 2: per node, in parallel, take buffers from the arena and pack.
//   - Stage 3: NeighborhoodAllToAll; the environment guarantees every pack has
//     completed before delivery.
func (v *Vector) exchangeHalo(ctx context.Context) (map[cluster.NodeID]*cluster.Exchange, error) {
	idx := v.indexer
	payloads := make(map[cluster.NodeID]*cluster.Exchange, len(idx.nodes))
	for _, id := range idx.nodes {
		payloads[id] = cluster.NewExchange(len(idx.locals[id].neighbors))
	}

	err := idx.env.RunOnEachNode(ctx, func(_ context.Context, node cluster.NodeID) error {
		li := idx.locals[node]
		data := v.locals[node].Data()
		ex := payloads[node]
		for _, nb := range li.neighbors {
			shared := li.shared[nb]
			send, recv := v.arena.buffers(node, nb, len(shared))
			for k, i := range shared {
				send[k] = data[i]
			}
			ex.Send[nb] = send
			ex.Recv[nb] = recv
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	if err = idx.env.NeighborhoodAllToAll(ctx, payloads, true); err != nil {
		return nil, err
	}

	return payloads, nil
}

// SumOverlappingEntries makes every copy of a shared entry equal to the sum
// of all holders' values before the call. Private entries are untouched.
//
// Applied to an already consistent vector, shared entries are multiplied by
// their multiplicity; it is not idempotent.
//
// Determinism: each node accumulates received buffers in ascending neighbor
// order.
func (v *Vector) SumOverlappingEntries(ctx context.Context) error {
	payloads, err := v.exchangeHalo(ctx)
	if err != nil {
		return fmt.Errorf("Vector.%s: %w", opSum, err)
	}
	err = v.indexer.env.RunOnEachNode(ctx, func(_ context.Context, node cluster.NodeID) error {
		li := v.indexer.locals[node]
		data := v.locals[node].Data()
		recvs := payloads[node].Recv
		for _, nb := range li.neighbors {
			recv := recvs[nb]
			for k, i := range li.shared[nb] {
				data[i] += recv[k]
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("Vector.%s: %w", opSum, err)
	}

	return nil
}

// RegularizeOverlappingEntries divides every shared entry (multiplicity > 1)
// by the sum of that entry over all holders. A consistent vector of ones
// becomes a partition of unity: 1/multiplicity at shared entries.
//
// Every shared entry is regularized; there is no per-entry opt-out.
// A zero sum follows IEEE division (±Inf or NaN).
func (v *Vector) RegularizeOverlappingEntries(ctx context.Context) error {
	sum := v.scratch()
	if err := sum.SumOverlappingEntries(ctx); err != nil {
		return fmt.Errorf("Vector.%s: %w", opRegularize, err)
	}
	err := v.indexer.env.RunOnEachNode(ctx, func(_ context.Context, node cluster.NodeID) error {
		data := v.locals[node].Data()
		summed := sum.locals[node].Data()
		it := v.indexer.locals[node].mask.Iterator()
		for it.HasNext() {
			i := it.Next()
			data[i] /= summed[i]
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("Vector.%s: %w", opRegularize, err)
	}

	return nil
}

// AverageOverlappingEntries replaces every copy of a shared entry with the
// arithmetic mean of the holders' values before the call.
func (v *Vector) AverageOverlappingEntries(ctx context.Context) error {
	if err := v.SumOverlappingEntries(ctx); err != nil {
		return fmt.Errorf("Vector.%s: %w", opAverage, err)
	}
	err := v.indexer.env.RunOnEachNode(ctx, func(_ context.Context, node cluster.NodeID) error {
		floats.Mul(v.locals[node].Data(), v.indexer.locals[node].inverse)

		return nil
	})
	if err != nil {
		return fmt.Errorf("Vector.%s: %w", opAverage, err)
	}

	return nil
}

// CheckConsistency reports ErrInconsistentOverlap unless, for every pair of
// neighbors, the copies of each shared entry differ by at most tol.
// NaN never compares consistent. The vector is not modified.
func (v *Vector) CheckConsistency(ctx context.Context, tol float64) error {
	payloads, err := v.exchangeHalo(ctx)
	if err != nil {
		return fmt.Errorf("Vector.%s: %w", opConsistency, err)
	}
	flags, err := cluster.CollectPerNode(ctx, v.indexer.env, func(_ context.Context, node cluster.NodeID) (bool, error) {
		li := v.indexer.locals[node]
		data := v.locals[node].Data()
		recvs := payloads[node].Recv
		for _, nb := range li.neighbors {
			recv := recvs[nb]
			for k, i := range li.shared[nb] {
				if !(math.Abs(data[i]-recv[k]) <= tol) {
					return false, nil
				}
			}
		}

		return true, nil
	})
	if err != nil {
		return fmt.Errorf("Vector.%s: %w", opConsistency, err)
	}
	ok, err := v.indexer.env.AllReduceAnd(ctx, flags)
	if err != nil {
		return fmt.Errorf("Vector.%s: %w", opConsistency, err)
	}
	if !ok {
		return fmt.Errorf("Vector.%s: %w", opConsistency, ErrInconsistentOverlap)
	}

	return nil
}
