// SPDX-License-Identifier: MIT

// Package overlap - distributed overlapping linear operator.
//
// Purpose:
//   - Hold one node-local matrix.Operator per node, each n×n for the node's
//     n local entries.
//   - Multiply: local Apply on every node without communication, then exactly
//     one SumOverlappingEntries on the output to assemble the contributions
//     at shared entries.

package overlap

import (
	"context"
	"fmt"

	"github.com/katalvlaran/overlap/cluster"
	"github.com/katalvlaran/overlap/matrix"
)

const (
	opNewMatrix     = "NewMatrix"
	opNewMatrixFunc = "NewMatrixFunc"
	opMultiply      = "Multiply"
)

// Operator is a distributed linear operator over one indexer.
type Operator interface {
	// Indexer returns the indexer both operands must share.
	Indexer() *Indexer

	// Multiply computes out = A·in. in and out must be distinct.
	Multiply(ctx context.Context, in, out *Vector) error
}

// Matrix is an Operator assembled from node-local operators.
type Matrix struct {
	indexer *Indexer
	locals  map[cluster.NodeID]matrix.Operator
}

var _ Operator = (*Matrix)(nil)

// NewMatrix wraps one local operator per node (the map is copied).
//
// Errors:
//   - ErrNilIndexer.
//   - ErrMissingNode, ErrUnknownNode for coverage mismatches.
//   - ErrDimensionMismatch unless every operator is n×n for its node.
func NewMatrix(idx *Indexer, locals map[cluster.NodeID]matrix.Operator) (*Matrix, error) {
	if idx == nil {
		return nil, fmt.Errorf("%s: %w", opNewMatrix, ErrNilIndexer)
	}
	if err := checkOperators(idx, locals); err != nil {
		return nil, fmt.Errorf("%s: %w", opNewMatrix, err)
	}
	owned := make(map[cluster.NodeID]matrix.Operator, len(locals))
	for id, op := range locals {
		owned[id] = op
	}

	return &Matrix{indexer: idx, locals: owned}, nil
}

// NewMatrixFunc builds a matrix by calling build once per node, in parallel.
func NewMatrixFunc(
	ctx context.Context,
	idx *Indexer,
	build func(ctx context.Context, li *LocalIndexer) (matrix.Operator, error),
) (*Matrix, error) {
	if idx == nil {
		return nil, fmt.Errorf("%s: %w", opNewMatrixFunc, ErrNilIndexer)
	}
	if build == nil {
		return nil, fmt.Errorf("%s: %w", opNewMatrixFunc, ErrNilOperand)
	}
	locals, err := cluster.CollectPerNode(ctx, idx.env, func(ctx context.Context, node cluster.NodeID) (matrix.Operator, error) {
		return build(ctx, idx.locals[node])
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opNewMatrixFunc, err)
	}
	if err = checkOperators(idx, locals); err != nil {
		return nil, fmt.Errorf("%s: %w", opNewMatrixFunc, err)
	}

	return &Matrix{indexer: idx, locals: locals}, nil
}

// checkOperators verifies coverage and the n×n shape of every local operator.
func checkOperators(idx *Indexer, locals map[cluster.NodeID]matrix.Operator) error {
	for id := range locals {
		if _, ok := idx.locals[id]; !ok {
			return fmt.Errorf("node %d: %w", id, ErrUnknownNode)
		}
	}
	for _, id := range idx.nodes {
		op, ok := locals[id]
		if !ok {
			return fmt.Errorf("node %d: %w", id, ErrMissingNode)
		}
		if err := matrix.ValidateOperator(op, idx.locals[id].size); err != nil {
			return fmt.Errorf("node %d: %w: %w", id, ErrDimensionMismatch, err)
		}
	}

	return nil
}

// Indexer implements Operator.
func (m *Matrix) Indexer() *Indexer { return m.indexer }

// Local returns node's local operator.
// Errors: ErrUnknownNode.
func (m *Matrix) Local(node cluster.NodeID) (matrix.Operator, error) {
	op, ok := m.locals[node]
	if !ok {
		return nil, fmt.Errorf("Matrix.Local(%d): %w", node, ErrUnknownNode)
	}

	return op, nil
}

// Multiply implements Operator.
//
// Implementation:
//   - Stage 1: validate operands (nil, aliasing, indexer identity) before any
//     per-node work.
//   - Stage 2: every node computes out_local = A_local·in_local.
//   - Stage 3: one SumOverlappingEntries on out.
//
// Errors: ErrNilOperand, ErrAliasedOperands, ErrIncompatibleIndexer, and
// failures of the local operators or the environment.
func (m *Matrix) Multiply(ctx context.Context, in, out *Vector) error {
	if in == nil || out == nil {
		return fmt.Errorf("Matrix.%s: %w", opMultiply, ErrNilOperand)
	}
	if in == out {
		return fmt.Errorf("Matrix.%s: %w", opMultiply, ErrAliasedOperands)
	}
	if !m.indexer.compatible(in.indexer) || !m.indexer.compatible(out.indexer) {
		return fmt.Errorf("Matrix.%s: %w", opMultiply, ErrIncompatibleIndexer)
	}

	err := m.indexer.env.RunOnEachNode(ctx, func(_ context.Context, node cluster.NodeID) error {
		return m.locals[node].Apply(in.locals[node].Data(), out.locals[node].Data())
	})
	if err != nil {
		return fmt.Errorf("Matrix.%s: %w", opMultiply, err)
	}
	if err = out.SumOverlappingEntries(ctx); err != nil {
		return fmt.Errorf("Matrix.%s: %w", opMultiply, err)
	}

	return nil
}

// Apply returns A·in in a new vector configured like in.
func (m *Matrix) Apply(ctx context.Context, in *Vector) (*Vector, error) {
	if in == nil {
		return nil, fmt.Errorf("Matrix.Apply: %w", ErrNilOperand)
	}
	out, err := NewVector(m.indexer, func(o *Options) { *o = in.opts })
	if err != nil {
		return nil, fmt.Errorf("Matrix.Apply: %w", err)
	}
	if err = m.Multiply(ctx, in, out); err != nil {
		return nil, err
	}

	return out, nil
}
