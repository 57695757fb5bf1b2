// SPDX-License-Identifier: MIT

// Package overlap - distributed overlapping vector.
//
// Purpose:
//   - Hold one vector.Dense per node, sized by the node's LocalIndexer.
//   - Implement vector.Vector: local algebra runs per node through the
//     environment with no communication; reductions weight shared entries by
//     their inverse multiplicity.
//
// Contract:
//   - Binary operations check the operand Kind and then indexer identity once,
//     before any per-node work is scheduled.
//   - A Vector is not safe for concurrent use by multiple goroutines; the
//     per-node tasks it spawns touch disjoint state.

package overlap

import (
	"context"
	"fmt"

	"github.com/katalvlaran/overlap/cluster"
	"github.com/katalvlaran/overlap/vector"
)

const (
	opNewVector       = "NewVector"
	opNewVectorFunc   = "NewVectorFunc"
	opNewVectorLocals = "NewVectorFromLocals"
)

// Vector is a distributed vector whose nodes may store the same global entry.
type Vector struct {
	indexer *Indexer
	locals  map[cluster.NodeID]*vector.Dense // key set == indexer.nodes, never mutated after construction
	opts    Options
	arena   *bufferArena // nil when buffer caching is disabled
}

var _ vector.Vector = (*Vector)(nil)

// NewVector returns the zero vector over idx.
// Errors: ErrNilIndexer.
func NewVector(idx *Indexer, opts ...Option) (*Vector, error) {
	if idx == nil {
		return nil, fmt.Errorf("%s: %w", opNewVector, ErrNilIndexer)
	}
	locals := make(map[cluster.NodeID]*vector.Dense, len(idx.nodes))
	for _, id := range idx.nodes {
		d, err := vector.NewDense(idx.locals[id].size)
		if err != nil {
			return nil, fmt.Errorf("%s: node %d: %w", opNewVector, id, err)
		}
		locals[id] = d
	}

	return newVector(idx, locals, gatherOptions(opts...)), nil
}

// NewVectorFunc builds a vector by calling fill once per node, in parallel.
// fill must return a vector of length li.Size().
//
// Errors:
//   - ErrNilIndexer, ErrNilOperand (nil fill or nil result).
//   - ErrDimensionMismatch when a result has the wrong length.
//   - any error returned by fill, wrapped with its node.
func NewVectorFunc(
	ctx context.Context,
	idx *Indexer,
	fill func(ctx context.Context, li *LocalIndexer) (*vector.Dense, error),
	opts ...Option,
) (*Vector, error) {
	if idx == nil {
		return nil, fmt.Errorf("%s: %w", opNewVectorFunc, ErrNilIndexer)
	}
	if fill == nil {
		return nil, fmt.Errorf("%s: %w", opNewVectorFunc, ErrNilOperand)
	}
	locals, err := cluster.CollectPerNode(ctx, idx.env, func(ctx context.Context, node cluster.NodeID) (*vector.Dense, error) {
		return fill(ctx, idx.locals[node])
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opNewVectorFunc, err)
	}
	if err = checkLocals(idx, locals); err != nil {
		return nil, fmt.Errorf("%s: %w", opNewVectorFunc, err)
	}

	return newVector(idx, locals, gatherOptions(opts...)), nil
}

// NewVectorFromLocals wraps caller-built local vectors. The vector takes
// ownership of the map values; the map itself is copied.
//
// Errors: ErrNilIndexer, ErrMissingNode, ErrUnknownNode, ErrNilOperand,
// ErrDimensionMismatch.
func NewVectorFromLocals(idx *Indexer, locals map[cluster.NodeID]*vector.Dense, opts ...Option) (*Vector, error) {
	if idx == nil {
		return nil, fmt.Errorf("%s: %w", opNewVectorLocals, ErrNilIndexer)
	}
	if err := checkLocals(idx, locals); err != nil {
		return nil, fmt.Errorf("%s: %w", opNewVectorLocals, err)
	}
	owned := make(map[cluster.NodeID]*vector.Dense, len(locals))
	for id, d := range locals {
		owned[id] = d
	}

	return newVector(idx, owned, gatherOptions(opts...)), nil
}

// checkLocals verifies that locals has exactly one correctly sized vector per node.
func checkLocals(idx *Indexer, locals map[cluster.NodeID]*vector.Dense) error {
	for id := range locals {
		if _, ok := idx.locals[id]; !ok {
			return fmt.Errorf("node %d: %w", id, ErrUnknownNode)
		}
	}
	for _, id := range idx.nodes {
		d, ok := locals[id]
		if !ok {
			return fmt.Errorf("node %d: %w", id, ErrMissingNode)
		}
		if d == nil {
			return fmt.Errorf("node %d: %w", id, ErrNilOperand)
		}
		if want := idx.locals[id].size; d.Len() != want {
			return fmt.Errorf("node %d: length %d, want %d: %w", id, d.Len(), want, ErrDimensionMismatch)
		}
	}

	return nil
}

func newVector(idx *Indexer, locals map[cluster.NodeID]*vector.Dense, opts Options) *Vector {
	v := &Vector{indexer: idx, locals: locals, opts: opts}
	if opts.bufferCaching {
		v.arena = newBufferArena(idx.nodes)
	}

	return v
}

// Indexer returns the shared indexer.
func (v *Vector) Indexer() *Indexer { return v.indexer }

// Local returns node's live local vector. Writes through it mutate v.
// Errors: ErrUnknownNode.
func (v *Vector) Local(node cluster.NodeID) (*vector.Dense, error) {
	d, ok := v.locals[node]
	if !ok {
		return nil, fmt.Errorf("Vector.Local(%d): %w", node, ErrUnknownNode)
	}

	return d, nil
}

// Kind implements vector.Vector.
func (v *Vector) Kind() vector.Kind { return vector.KindOverlapping }

// Clone returns a deep copy of every local vector. The indexer and options
// are shared; exchange buffers are not.
func (v *Vector) Clone() *Vector {
	locals := make(map[cluster.NodeID]*vector.Dense, len(v.locals))
	for id, d := range v.locals {
		locals[id] = d.Clone()
	}

	return newVector(v.indexer, locals, v.opts)
}

// CloneVector implements vector.Vector.
func (v *Vector) CloneVector() vector.Vector { return v.Clone() }

// scratch is a deep copy that reuses v's exchange buffers. Only for
// temporaries that never run an exchange concurrently with v.
func (v *Vector) scratch() *Vector {
	s := v.Clone()
	s.arena = v.arena

	return s
}

// Axpy implements vector.Vector: v += alpha*x.
func (v *Vector) Axpy(ctx context.Context, alpha float64, x vector.Vector) error {
	return v.binary(ctx, "Axpy", x, func(ctx context.Context, dst, src *vector.Dense) error {
		return dst.Axpy(ctx, alpha, src)
	})
}

// LinearCombination implements vector.Vector: v = a*v + b*x.
func (v *Vector) LinearCombination(ctx context.Context, a, b float64, x vector.Vector) error {
	return v.binary(ctx, "LinearCombination", x, func(ctx context.Context, dst, src *vector.Dense) error {
		return dst.LinearCombination(ctx, a, b, src)
	})
}

// Scale implements vector.Vector.
func (v *Vector) Scale(ctx context.Context, alpha float64) error {
	return v.unary(ctx, "Scale", func(ctx context.Context, d *vector.Dense) error { return d.Scale(ctx, alpha) })
}

// Clear implements vector.Vector.
func (v *Vector) Clear(ctx context.Context) error {
	return v.unary(ctx, "Clear", func(ctx context.Context, d *vector.Dense) error { return d.Clear(ctx) })
}

// SetAll implements vector.Vector. Every copy of a shared entry receives
// value, so the result is consistent.
func (v *Vector) SetAll(ctx context.Context, value float64) error {
	return v.unary(ctx, "SetAll", func(ctx context.Context, d *vector.Dense) error { return d.SetAll(ctx, value) })
}

// Negate implements vector.Vector.
func (v *Vector) Negate(ctx context.Context) error {
	return v.unary(ctx, "Negate", func(ctx context.Context, d *vector.Dense) error { return d.Negate(ctx) })
}

// Map implements vector.Vector. f runs concurrently on different nodes and
// must be safe for that.
func (v *Vector) Map(ctx context.Context, f func(float64) float64) error {
	if f == nil {
		return fmt.Errorf("Vector.Map: %w", ErrNilOperand)
	}

	return v.unary(ctx, "Map", func(ctx context.Context, d *vector.Dense) error { return d.Map(ctx, f) })
}

// Map2 implements vector.Vector.
func (v *Vector) Map2(ctx context.Context, x vector.Vector, f func(a, b float64) float64) error {
	if f == nil {
		return fmt.Errorf("Vector.Map2: %w", ErrNilOperand)
	}

	return v.binary(ctx, "Map2", x, func(ctx context.Context, dst, src *vector.Dense) error {
		return dst.Map2(ctx, src, f)
	})
}

// CopyFrom implements vector.Vector.
func (v *Vector) CopyFrom(ctx context.Context, x vector.Vector) error {
	return v.binary(ctx, "CopyFrom", x, func(ctx context.Context, dst, src *vector.Dense) error {
		return dst.CopyFrom(ctx, src)
	})
}

// operand validates x for a binary operation and unwraps it.
//
// Errors: vector.ErrKindMismatch, ErrNilOperand, ErrIncompatibleIndexer.
func (v *Vector) operand(op string, x vector.Vector) (*Vector, error) {
	if err := vector.SameKind(v, x); err != nil {
		return nil, fmt.Errorf("Vector.%s: %w", op, err)
	}
	xv, ok := x.(*Vector)
	if !ok || xv == nil {
		return nil, fmt.Errorf("Vector.%s: %w", op, ErrNilOperand)
	}
	if !v.indexer.compatible(xv.indexer) {
		return nil, fmt.Errorf("Vector.%s: %w", op, ErrIncompatibleIndexer)
	}

	return xv, nil
}

// unary runs f on every node's local vector.
func (v *Vector) unary(ctx context.Context, op string, f func(ctx context.Context, d *vector.Dense) error) error {
	err := v.indexer.env.RunOnEachNode(ctx, func(ctx context.Context, node cluster.NodeID) error {
		return f(ctx, v.locals[node])
	})
	if err != nil {
		return fmt.Errorf("Vector.%s: %w", op, err)
	}

	return nil
}

// binary validates x and runs f on every node's pair of local vectors.
func (v *Vector) binary(ctx context.Context, op string, x vector.Vector, f func(ctx context.Context, dst, src *vector.Dense) error) error {
	xv, err := v.operand(op, x)
	if err != nil {
		return err
	}
	err = v.indexer.env.RunOnEachNode(ctx, func(ctx context.Context, node cluster.NodeID) error {
		return f(ctx, v.locals[node], xv.locals[node])
	})
	if err != nil {
		return fmt.Errorf("Vector.%s: %w", op, err)
	}

	return nil
}
