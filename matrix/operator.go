// SPDX-License-Identifier: MIT

// Package matrix - matrix-free operators and the MatVec facade.

package matrix

import "fmt"

const opMatVec = "MatVec"

// matrixErrorf wraps an underlying error with the given operation tag.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// OperatorFunc adapts a function to Operator (matrix-free local operator).
// F receives x and y with lengths already validated; y must be fully written.
type OperatorFunc struct {
	R, C int
	F    func(x, y []float64) error
}

var _ Operator = OperatorFunc{}

// Rows implements Operator.
func (f OperatorFunc) Rows() int { return f.R }

// Cols implements Operator.
func (f OperatorFunc) Cols() int { return f.C }

// Apply implements Operator.
func (f OperatorFunc) Apply(x, y []float64) error {
	if f.F == nil {
		return matrixErrorf("OperatorFunc.Apply", ErrNilMatrix)
	}
	if err := ValidateVecLen(x, f.C); err != nil {
		return matrixErrorf("OperatorFunc.Apply", err)
	}
	if err := ValidateVecLen(y, f.R); err != nil {
		return matrixErrorf("OperatorFunc.Apply", err)
	}

	return f.F(x, y)
}

// MatVec computes y = op·x into a freshly allocated slice.
//
// Contract: op non-nil; x non-nil; len(x) == op.Cols().
// Complexity: that of op.Apply plus O(rows) allocation.
func MatVec(op Operator, x []float64) ([]float64, error) {
	if op == nil {
		return nil, matrixErrorf(opMatVec, ErrNilMatrix)
	}
	if err := ValidateVecLen(x, op.Cols()); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	y := make([]float64, op.Rows())
	if err := op.Apply(x, y); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}

	return y, nil
}
