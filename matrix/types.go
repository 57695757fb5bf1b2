// SPDX-License-Identifier: MIT

// Package matrix: domain types.
// This file contains ONLY the public interfaces (Matrix, Operator) and the
// Triplet coordinate entry. Errors and options live in errors.go / options.go.
package matrix

// Matrix represents a two-dimensional mutable array of float64 values.
//
// Complexity notes: all methods are expected O(1) except Clone (O(r*c) or O(nnz)).
type Matrix interface {
	// Rows returns the number of rows in the matrix.
	Rows() int

	// Cols returns the number of columns in the matrix.
	Cols() int

	// At retrieves the element at position (i, j).
	// Returns ErrOutOfRange if i<0, i>=Rows(), j<0 or j>=Cols().
	At(i, j int) (float64, error)

	// Clone returns a deep copy of the matrix.
	Clone() Matrix
}

// Operator is a node-local linear operator y = A·x.
//
// Contract:
//   - len(x) == Cols(), len(y) == Rows().
//   - y is fully overwritten; it must not alias x.
type Operator interface {
	Rows() int
	Cols() int
	Apply(x, y []float64) error
}

// Triplet is one (row, col, value) entry used to build sparse matrices.
// Duplicated coordinates are summed, the usual finite-element assembly rule.
type Triplet struct {
	Row, Col int
	Value    float64
}
