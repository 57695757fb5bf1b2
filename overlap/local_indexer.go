// SPDX-License-Identifier: MIT

// Package overlap - per-node view of the overlap relation.
//
// Purpose:
//   - Record, for one node, which local entries are shared with which active
//     neighbor, in the exact order both endpoints agree on for buffer layout.
//   - Derive multiplicity and inverse multiplicity eagerly, once: every
//     reduction and protocol depends on them.
//
// Invariants (frozen after construction):
//   - multiplicity[i] >= 1; == 1 ⇔ entry i is private.
//   - inverse[i] == 1/multiplicity[i].
//   - mask holds exactly the entries with multiplicity > 1.
//   - neighbors is sorted and contains only nodes with ≥1 shared entry.

package overlap

import (
	"fmt"
	"math"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/katalvlaran/overlap/cluster"
)

const opNewLocalIndexer = "NewLocalIndexer"

// LocalSpec is the caller-supplied description of one node's overlap:
// its local entry count and, per neighbor, the ordered list of local indices
// shared with that neighbor. Element k of the list for neighbor B must denote
// the same global entry as element k of B's list for this node.
type LocalSpec struct {
	Size   int
	Shared map[cluster.NodeID][]int
}

// LocalIndexer is the immutable per-node overlap description.
type LocalIndexer struct {
	node         cluster.NodeID
	size         int
	neighbors    []cluster.NodeID         // active neighbors, sorted
	shared       map[cluster.NodeID][]int // neighbor → ordered local indices (owned copies)
	multiplicity []int
	inverse      []float64
	mask         *roaring.Bitmap // entries with multiplicity > 1
}

// NewLocalIndexer builds the per-node view of spec for node.
//
// Implementation:
//   - Stage 1: validate n and every neighbor id against node's declared
//     topological neighbors (no self reference).
//   - Stage 2: validate each list (range [0, n), no repeats) while counting
//     multiplicities; empty lists do not make a neighbor active.
//   - Stage 3: derive inverse multiplicities and the shared-entry mask.
//
// Errors:
//   - ErrMalformedPartition for every structural violation.
//
// Complexity:
//   - Time O(n + Σ|shared|), Space O(n + Σ|shared|).
func NewLocalIndexer(node cluster.Node, spec LocalSpec) (*LocalIndexer, error) {
	if spec.Size < 0 || int64(spec.Size) > math.MaxUint32 {
		return nil, fmt.Errorf("%s(%d): size %d: %w", opNewLocalIndexer, node.ID, spec.Size, ErrMalformedPartition)
	}
	li := &LocalIndexer{
		node:         node.ID,
		size:         spec.Size,
		shared:       make(map[cluster.NodeID][]int, len(spec.Shared)),
		multiplicity: make([]int, spec.Size),
		inverse:      make([]float64, spec.Size),
		mask:         roaring.New(),
	}
	for i := range li.multiplicity {
		li.multiplicity[i] = 1 // the node itself always holds its entries
	}

	seen := roaring.New()
	for nb, list := range spec.Shared {
		if nb == node.ID {
			return nil, fmt.Errorf("%s(%d): lists itself as neighbor: %w", opNewLocalIndexer, node.ID, ErrMalformedPartition)
		}
		if !node.HasNeighbor(nb) {
			return nil, fmt.Errorf("%s(%d): %d is not a topological neighbor: %w", opNewLocalIndexer, node.ID, nb, ErrMalformedPartition)
		}
		if len(list) == 0 {
			continue // declared but nothing shared: not an active neighbor
		}
		seen.Clear()
		for _, i := range list {
			if i < 0 || i >= spec.Size {
				return nil, fmt.Errorf("%s(%d): index %d toward %d outside [0,%d): %w", opNewLocalIndexer, node.ID, i, nb, spec.Size, ErrMalformedPartition)
			}
			if !seen.CheckedAdd(uint32(i)) {
				return nil, fmt.Errorf("%s(%d): index %d repeated toward %d: %w", opNewLocalIndexer, node.ID, i, nb, ErrMalformedPartition)
			}
			li.multiplicity[i]++
		}
		li.shared[nb] = slices.Clone(list)
		li.neighbors = append(li.neighbors, nb)
	}
	slices.Sort(li.neighbors)

	for i, m := range li.multiplicity {
		li.inverse[i] = 1 / float64(m)
		if m > 1 {
			li.mask.Add(uint32(i))
		}
	}
	li.mask.RunOptimize()

	return li, nil
}

// Node returns the owning node id.
func (li *LocalIndexer) Node() cluster.NodeID { return li.node }

// Size returns the local entry count n.
func (li *LocalIndexer) Size() int { return li.size }

// Neighbors returns the active neighbors (≥1 shared entry), sorted ascending.
func (li *LocalIndexer) Neighbors() []cluster.NodeID { return slices.Clone(li.neighbors) }

// SharedIndices returns the ordered local indices shared with nb
// or nil if nb is not an active neighbor.
// Element k at both endpoints denotes the same shared global entry.
func (li *LocalIndexer) SharedIndices(nb cluster.NodeID) []int {
	return slices.Clone(li.shared[nb])
}

// SharedCount returns the number of entries shared with nb.
func (li *LocalIndexer) SharedCount(nb cluster.NodeID) int { return len(li.shared[nb]) }

// Multiplicity returns how many nodes (including this one) store entry i.
// Out-of-range indices report 0.
func (li *LocalIndexer) Multiplicity(i int) int {
	if i < 0 || i >= li.size {
		return 0
	}

	return li.multiplicity[i]
}

// InverseMultiplicity returns 1/Multiplicity(i); 0 for out-of-range indices.
func (li *LocalIndexer) InverseMultiplicity(i int) float64 {
	if i < 0 || i >= li.size {
		return 0
	}

	return li.inverse[i]
}

// InverseMultiplicities returns a copy of the reduction weights.
func (li *LocalIndexer) InverseMultiplicities() []float64 { return slices.Clone(li.inverse) }

// IsShared reports whether entry i is stored by more than one node.
func (li *LocalIndexer) IsShared(i int) bool {
	return i >= 0 && i < li.size && li.multiplicity[i] > 1
}

// SharedMask returns a copy of the set of shared local entries.
func (li *LocalIndexer) SharedMask() *roaring.Bitmap { return li.mask.Clone() }

// PrivateCount returns the number of entries with multiplicity 1.
func (li *LocalIndexer) PrivateCount() int { return li.size - int(li.mask.GetCardinality()) }

// weightSum returns Σ inverse[i]: this node's share of the unique entry count.
func (li *LocalIndexer) weightSum() float64 {
	var s float64
	for _, w := range li.inverse {
		s += w
	}

	return s
}
