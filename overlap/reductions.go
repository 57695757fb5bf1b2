// SPDX-License-Identifier: MIT

// Package overlap - global reductions over distributed vectors.
//
// Every reduction computes one partial per node and combines them with a
// single environment collective. Shared entries are weighted by their inverse
// multiplicity so each global entry counts exactly once.
//
// Correctness contract:
//   - The weighted results equal the global quantity only when every copy of
//     a shared entry holds the same value. The engine does not check this
//     unless the receiver or an operand was built with WithConsistencyCheck.

package overlap

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/overlap/cluster"
	"github.com/katalvlaran/overlap/vector"
)

// Dot implements vector.Vector:
// Σ_nodes Σ_i v[i]·x[i]·inverseMultiplicity[i], combined by AllReduceSum.
//
// Errors: vector.ErrKindMismatch, ErrNilOperand, ErrIncompatibleIndexer,
// ErrInconsistentOverlap (consistency check enabled), environment failures.
func (v *Vector) Dot(ctx context.Context, x vector.Vector) (float64, error) {
	xv, err := v.operand("Dot", x)
	if err != nil {
		return 0, err
	}
	if err = v.verifyConsistency(ctx, "Dot", xv); err != nil {
		return 0, err
	}

	return v.reduceSum(ctx, "Dot", func(node cluster.NodeID) (float64, error) {
		return v.locals[node].WeightedDot(xv.locals[node], v.indexer.locals[node].inverse)
	})
}

// Norm2 implements vector.Vector: sqrt(Dot(v, v)).
func (v *Vector) Norm2(ctx context.Context) (float64, error) {
	if err := v.verifyConsistency(ctx, "Norm2"); err != nil {
		return 0, err
	}
	sq, err := v.reduceSum(ctx, "Norm2", func(node cluster.NodeID) (float64, error) {
		d := v.locals[node]
		return d.WeightedDot(d, v.indexer.locals[node].inverse)
	})
	if err != nil {
		return 0, err
	}

	return math.Sqrt(sq), nil
}

// Sum implements vector.Vector: the sum of the global entries.
func (v *Vector) Sum(ctx context.Context) (float64, error) {
	if err := v.verifyConsistency(ctx, "Sum"); err != nil {
		return 0, err
	}

	return v.reduceSum(ctx, "Sum", func(node cluster.NodeID) (float64, error) {
		return v.locals[node].WeightedSum(v.indexer.locals[node].inverse)
	})
}

// Equal implements vector.Vector: every node compares its own copies with
// an absolute tolerance and the flags are combined by AllReduceAnd. Shared
// entries are compared on every holder.
func (v *Vector) Equal(ctx context.Context, x vector.Vector, tol float64) (bool, error) {
	xv, err := v.operand("Equal", x)
	if err != nil {
		return false, err
	}
	flags, err := cluster.CollectPerNode(ctx, v.indexer.env, func(ctx context.Context, node cluster.NodeID) (bool, error) {
		return v.locals[node].Equal(ctx, xv.locals[node], tol)
	})
	if err != nil {
		return false, fmt.Errorf("Vector.Equal: %w", err)
	}
	eq, err := v.indexer.env.AllReduceAnd(ctx, flags)
	if err != nil {
		return false, fmt.Errorf("Vector.Equal: %w", err)
	}

	return eq, nil
}

// reduceSum gathers one partial per node and sums them globally.
func (v *Vector) reduceSum(ctx context.Context, op string, partial func(node cluster.NodeID) (float64, error)) (float64, error) {
	parts, err := cluster.CollectPerNode(ctx, v.indexer.env, func(_ context.Context, node cluster.NodeID) (float64, error) {
		return partial(node)
	})
	if err != nil {
		return 0, fmt.Errorf("Vector.%s: %w", op, err)
	}
	total, err := v.indexer.env.AllReduceSum(ctx, parts)
	if err != nil {
		return 0, fmt.Errorf("Vector.%s: %w", op, err)
	}

	return total, nil
}

// verifyConsistency runs CheckConsistency on v and every distinct operand
// built with WithConsistencyCheck, each with its own tolerance.
func (v *Vector) verifyConsistency(ctx context.Context, op string, operands ...*Vector) error {
	if v.opts.consistencyCheck {
		if err := v.CheckConsistency(ctx, v.opts.consistencyTol); err != nil {
			return fmt.Errorf("Vector.%s: %w", op, err)
		}
	}
	for _, x := range operands {
		if x == v || !x.opts.consistencyCheck {
			continue
		}
		if err := x.CheckConsistency(ctx, x.opts.consistencyTol); err != nil {
			return fmt.Errorf("Vector.%s: operand: %w", op, err)
		}
	}

	return nil
}
