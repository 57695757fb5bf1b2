// SPDX-License-Identifier: MIT

// Package overlap - global overlap indexer.
//
// Purpose:
//   - Own one LocalIndexer per node of the environment.
//   - Be the single shared object every distributed vector/matrix of one
//     partitioning points to. Identity of this object is the compatibility
//     test between operands.
//   - Count unique global entries by a weighted-sum reduction, memoized.
//
// Concurrency:
//   - Immutable after construction except the unique-count memo, which is
//     guarded by mu. Safe to share between any number of vectors.

package overlap

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/katalvlaran/overlap/cluster"
)

const (
	opNewIndexer    = "NewIndexer"
	opCountUnique   = "CountUniqueEntries"
	uniqueNotCached = -1 // sentinel: CountUniqueEntries has not succeeded yet
)

// Indexer is the global overlap indexer of one partitioning.
type Indexer struct {
	env    cluster.Environment
	nodes  []cluster.NodeID // sorted, == env.Nodes()
	locals map[cluster.NodeID]*LocalIndexer

	mu     sync.Mutex
	unique int // uniqueNotCached until the first successful count
}

// NewIndexer builds and cross-validates the per-node indexers.
//
// Implementation:
//   - Stage 1: every environment node has a spec and every spec names an
//     environment node.
//   - Stage 2: build each LocalIndexer against the node's declared neighbors.
//   - Stage 3: symmetry: if A shares with B then B shares with A, with lists
//     of equal length (the buffer layout both sides rely on).
//
// Errors:
//   - ErrNilIndexer if env is nil.
//   - ErrMissingNode / ErrUnknownNode for coverage mismatches.
//   - ErrMalformedPartition for local or symmetry violations.
//
// Complexity:
//   - Time O(V + Σn + Σ|shared|).
func NewIndexer(env cluster.Environment, specs map[cluster.NodeID]LocalSpec) (*Indexer, error) {
	if env == nil {
		return nil, fmt.Errorf("%s: %w", opNewIndexer, ErrNilIndexer)
	}
	nodes := env.Nodes()
	for id := range specs {
		if _, ok := slices.BinarySearch(nodes, id); !ok {
			return nil, fmt.Errorf("%s: node %d: %w", opNewIndexer, id, ErrUnknownNode)
		}
	}

	idx := &Indexer{
		env:    env,
		nodes:  nodes,
		locals: make(map[cluster.NodeID]*LocalIndexer, len(nodes)),
		unique: uniqueNotCached,
	}
	for _, id := range nodes {
		spec, ok := specs[id]
		if !ok {
			return nil, fmt.Errorf("%s: node %d: %w", opNewIndexer, id, ErrMissingNode)
		}
		rec, err := env.Node(id)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opNewIndexer, err)
		}
		li, err := NewLocalIndexer(rec, spec)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opNewIndexer, err)
		}
		idx.locals[id] = li
	}

	for _, a := range nodes {
		la := idx.locals[a]
		for _, b := range la.neighbors {
			back, ok := idx.locals[b].shared[a]
			if !ok {
				return nil, fmt.Errorf("%s: %d shares with %d but not vice versa: %w", opNewIndexer, a, b, ErrMalformedPartition)
			}
			if len(back) != len(la.shared[b]) {
				return nil, fmt.Errorf("%s: %d→%d lists %d entries, %d→%d lists %d: %w",
					opNewIndexer, a, b, len(la.shared[b]), b, a, len(back), ErrMalformedPartition)
			}
		}
	}

	return idx, nil
}

// Env returns the environment the indexer is bound to.
func (idx *Indexer) Env() cluster.Environment { return idx.env }

// Nodes returns the node ids, sorted ascending.
func (idx *Indexer) Nodes() []cluster.NodeID { return slices.Clone(idx.nodes) }

// Local returns the per-node view of node.
// Errors: ErrUnknownNode.
func (idx *Indexer) Local(node cluster.NodeID) (*LocalIndexer, error) {
	li, ok := idx.locals[node]
	if !ok {
		return nil, fmt.Errorf("Indexer.Local(%d): %w", node, ErrUnknownNode)
	}

	return li, nil
}

// LocalEntryCount returns Σ n over all nodes: stored entries, shared ones
// counted once per holder.
func (idx *Indexer) LocalEntryCount() int {
	total := 0
	for _, li := range idx.locals {
		total += li.size
	}

	return total
}

// CountUniqueEntries returns the number of unique global entries.
//
// Implementation:
//   - Stage 1: return the memo if present.
//   - Stage 2: every node contributes Σ inverseMultiplicity; AllReduceSum.
//   - Stage 3: round to the nearest integer and memoize. Failures are not memoized.
//
// Notes:
//   - Each contribution is an exact reciprocal of a small integer and the
//     total telescopes to an integer, so rounding recovers it exactly.
func (idx *Indexer) CountUniqueEntries(ctx context.Context) (int, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.unique != uniqueNotCached {
		return idx.unique, nil
	}
	partial, err := cluster.CollectPerNode(ctx, idx.env, func(_ context.Context, node cluster.NodeID) (float64, error) {
		return idx.locals[node].weightSum(), nil
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", opCountUnique, err)
	}
	total, err := idx.env.AllReduceSum(ctx, partial)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", opCountUnique, err)
	}
	idx.unique = int(math.Round(total))

	return idx.unique, nil
}

// compatible reports whether other is this exact instance.
func (idx *Indexer) compatible(other *Indexer) bool { return idx == other }
