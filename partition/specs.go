// SPDX-License-Identifier: MIT

// Package partition - bridging a Layout to the overlap engine.

package partition

import (
	"context"
	"fmt"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/katalvlaran/overlap/cluster"
	"github.com/katalvlaran/overlap/overlap"
	"github.com/katalvlaran/overlap/vector"
)

// Specs returns one overlap.LocalSpec per node. The list a node keeps for a
// neighbor enumerates their common global indices in ascending order, so
// element k denotes the same global entry at both endpoints.
func (l *Layout) Specs() map[cluster.NodeID]overlap.LocalSpec {
	specs := make(map[cluster.NodeID]overlap.LocalSpec, len(l.nodes))
	for _, a := range l.nodes {
		shared := make(map[cluster.NodeID][]int)
		for _, b := range l.nodes {
			if a == b {
				continue
			}
			common := roaring.And(l.sets[a], l.sets[b])
			if common.IsEmpty() {
				continue
			}
			list := make([]int, 0, common.GetCardinality())
			it := common.Iterator()
			for it.HasNext() {
				list = append(list, l.local[a][int(it.Next())])
			}
			shared[b] = list
		}
		specs[a] = overlap.LocalSpec{Size: len(l.Owned[a]), Shared: shared}
	}

	return specs
}

// Environment builds an in-process environment over Topology().
func (l *Layout) Environment(opts ...cluster.Option) (*cluster.Local, error) {
	t, err := l.Topology()
	if err != nil {
		return nil, err
	}

	return cluster.NewLocal(t, opts...)
}

// Indexer builds the overlap indexer of this layout on env. env must run
// exactly the layout's nodes, with at least the neighbor relations of
// Topology().
func (l *Layout) Indexer(env cluster.Environment) (*overlap.Indexer, error) {
	if env == nil {
		return nil, fmt.Errorf("Layout.Indexer: %w", overlap.ErrNilIndexer)
	}
	if !slices.Equal(env.Nodes(), l.nodes) {
		return nil, fmt.Errorf("Layout.Indexer: %w", ErrNodeMismatch)
	}
	idx, err := overlap.NewIndexer(env, l.Specs())
	if err != nil {
		return nil, fmt.Errorf("Layout.Indexer: %w", err)
	}

	return idx, nil
}

// Scatter distributes global into a consistent vector over idx: every holder
// of a global entry receives its value.
//
// Errors: ErrSizeMismatch, ErrNodeMismatch, and construction failures.
func (l *Layout) Scatter(ctx context.Context, idx *overlap.Indexer, global []float64, opts ...overlap.Option) (*overlap.Vector, error) {
	if len(global) != l.GlobalSize {
		return nil, fmt.Errorf("Layout.Scatter: %d values for %d entries: %w", len(global), l.GlobalSize, ErrSizeMismatch)
	}
	if idx == nil {
		return nil, fmt.Errorf("Layout.Scatter: %w", overlap.ErrNilIndexer)
	}
	if !slices.Equal(idx.Nodes(), l.nodes) {
		return nil, fmt.Errorf("Layout.Scatter: %w", ErrNodeMismatch)
	}

	return overlap.NewVectorFunc(ctx, idx, func(_ context.Context, li *overlap.LocalIndexer) (*vector.Dense, error) {
		owned := l.Owned[li.Node()]
		if len(owned) != li.Size() {
			return nil, fmt.Errorf("node %d: %w", li.Node(), ErrNodeMismatch)
		}
		d, err := vector.NewDense(len(owned))
		if err != nil {
			return nil, err
		}
		data := d.Data()
		for k, g := range owned {
			data[k] = global[g]
		}

		return d, nil
	}, opts...)
}

// Gather returns the global vector taking every entry from its first holder
// in ascending node order. For a consistent vector every holder agrees.
func (l *Layout) Gather(v *overlap.Vector) ([]float64, error) {
	out := make([]float64, l.GlobalSize)
	seen := roaring.New()
	err := l.visit(v, func(g int, value float64) {
		if seen.CheckedAdd(uint32(g)) {
			out[g] = value
		}
	})
	if err != nil {
		return nil, fmt.Errorf("Layout.Gather: %w", err)
	}

	return out, nil
}

// Assemble returns the global vector whose entries are the sum of every
// holder's value: the result of SumOverlappingEntries, seen globally.
func (l *Layout) Assemble(v *overlap.Vector) ([]float64, error) {
	out := make([]float64, l.GlobalSize)
	err := l.visit(v, func(g int, value float64) { out[g] += value })
	if err != nil {
		return nil, fmt.Errorf("Layout.Assemble: %w", err)
	}

	return out, nil
}

// visit calls f for every stored (global index, value) pair, nodes ascending.
func (l *Layout) visit(v *overlap.Vector, f func(g int, value float64)) error {
	if v == nil {
		return overlap.ErrNilOperand
	}
	if !slices.Equal(v.Indexer().Nodes(), l.nodes) {
		return ErrNodeMismatch
	}
	for _, id := range l.nodes {
		d, err := v.Local(id)
		if err != nil {
			return err
		}
		owned := l.Owned[id]
		if d.Len() != len(owned) {
			return fmt.Errorf("node %d: %w", id, ErrNodeMismatch)
		}
		for k, value := range d.Data() {
			f(owned[k], value)
		}
	}

	return nil
}
