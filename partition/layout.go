// SPDX-License-Identifier: MIT

// Package partition - layouts of a global index space over nodes.
//
// Purpose:
//   - Describe which global indices every node stores, in local order.
//   - Derive what the overlap engine needs from that single description: the
//     communication topology and the per-node shared-index lists.
//
// Invariants (checked by NewLayout, frozen afterwards):
//   - every owned index is in [0, GlobalSize) and listed at most once per node;
//   - every global index is owned by at least one node.

package partition

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/katalvlaran/overlap/cluster"
)

const (
	opNewLayout = "NewLayout"
	opStrip     = "Strip"
)

// Layout maps every node to the ordered global indices it stores. Local
// entry k of node p is global entry Owned[p][k].
type Layout struct {
	GlobalSize int
	Owned      map[cluster.NodeID][]int

	nodes []cluster.NodeID                   // sorted
	sets  map[cluster.NodeID]*roaring.Bitmap // owned indices per node
	local map[cluster.NodeID]map[int]int     // global → local position per node
}

// NewLayout validates owned and returns a layout holding a deep copy of it.
//
// Errors: ErrOutOfRange, ErrDuplicateIndex, ErrUncovered.
// Complexity: O(Σ|owned| + GlobalSize).
func NewLayout(globalSize int, owned map[cluster.NodeID][]int) (*Layout, error) {
	if globalSize < 0 || int64(globalSize) > math.MaxUint32 {
		return nil, fmt.Errorf("%s: size %d: %w", opNewLayout, globalSize, ErrOutOfRange)
	}
	l := &Layout{
		GlobalSize: globalSize,
		Owned:      make(map[cluster.NodeID][]int, len(owned)),
		nodes:      slices.Sorted(maps.Keys(owned)),
		sets:       make(map[cluster.NodeID]*roaring.Bitmap, len(owned)),
		local:      make(map[cluster.NodeID]map[int]int, len(owned)),
	}
	covered := roaring.New()
	for _, id := range l.nodes {
		list := owned[id]
		set := roaring.New()
		pos := make(map[int]int, len(list))
		for k, g := range list {
			if g < 0 || g >= globalSize {
				return nil, fmt.Errorf("%s: node %d index %d: %w", opNewLayout, id, g, ErrOutOfRange)
			}
			if !set.CheckedAdd(uint32(g)) {
				return nil, fmt.Errorf("%s: node %d index %d: %w", opNewLayout, id, g, ErrDuplicateIndex)
			}
			pos[g] = k
		}
		covered.Or(set)
		l.Owned[id] = slices.Clone(list)
		l.sets[id] = set
		l.local[id] = pos
	}
	if got := covered.GetCardinality(); got != uint64(globalSize) {
		return nil, fmt.Errorf("%s: %d of %d indices owned: %w", opNewLayout, got, globalSize, ErrUncovered)
	}

	return l, nil
}

// Strip splits [0, globalSize) into len(nodes) contiguous strips of nearly
// equal size, in the given node order, and extends every strip but the last
// by overlapWidth entries into its successor. Consecutive strips then share
// exactly overlapWidth entries and no other pair shares any.
//
// Errors: ErrInvalidStrip when nodes is empty or repeats an id, overlapWidth
// is negative, or some strip would hold fewer than max(1, overlapWidth)
// entries of its own.
func Strip(globalSize int, nodes []cluster.NodeID, overlapWidth int) (*Layout, error) {
	p := len(nodes)
	if p == 0 || overlapWidth < 0 {
		return nil, fmt.Errorf("%s: %d nodes, overlap %d: %w", opStrip, p, overlapWidth, ErrInvalidStrip)
	}
	owned := make(map[cluster.NodeID][]int, p)
	for k, id := range nodes {
		if _, dup := owned[id]; dup {
			return nil, fmt.Errorf("%s: node %d repeated: %w", opStrip, id, ErrInvalidStrip)
		}
		start, end := k*globalSize/p, (k+1)*globalSize/p
		if end-start < max(1, overlapWidth) {
			return nil, fmt.Errorf("%s: strip %d holds %d entries, overlap %d: %w", opStrip, k, end-start, overlapWidth, ErrInvalidStrip)
		}
		if k < p-1 {
			end += overlapWidth
		}
		list := make([]int, 0, end-start)
		for g := start; g < end; g++ {
			list = append(list, g)
		}
		owned[id] = list
	}

	return NewLayout(globalSize, owned)
}

// Nodes returns the layout's node ids, sorted ascending.
func (l *Layout) Nodes() []cluster.NodeID { return slices.Clone(l.nodes) }

// Holders returns, ascending, the nodes storing global index g.
func (l *Layout) Holders(g int) []cluster.NodeID {
	var out []cluster.NodeID
	if g < 0 || g >= l.GlobalSize {
		return out
	}
	for _, id := range l.nodes {
		if l.sets[id].Contains(uint32(g)) {
			out = append(out, id)
		}
	}

	return out
}

// Topology returns the topology in which two nodes are neighbors exactly
// when they share at least one global index.
// Complexity: O(P² · intersection) with P nodes.
func (l *Layout) Topology() (*cluster.Topology, error) {
	t := cluster.NewTopology(l.nodes...)
	for i, a := range l.nodes {
		for _, b := range l.nodes[i+1:] {
			if !l.sets[a].Intersects(l.sets[b]) {
				continue
			}
			if err := t.Connect(a, b); err != nil {
				return nil, fmt.Errorf("Layout.Topology: %w", err)
			}
		}
	}

	return t, nil
}
