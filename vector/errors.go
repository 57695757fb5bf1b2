// SPDX-License-Identifier: MIT
// Package vector: sentinel error set.
// Every message is prefixed with "vector: "; match with errors.Is.

package vector

import "errors"

var (
	// ErrDimensionMismatch indicates operands of different lengths.
	ErrDimensionMismatch = errors.New("vector: dimension mismatch")

	// ErrOutOfRange indicates an index outside [0, Len()).
	ErrOutOfRange = errors.New("vector: index out of range")

	// ErrKindMismatch indicates a binary operation between different vector kinds
	// (for example a node-local Dense against a distributed vector).
	ErrKindMismatch = errors.New("vector: operand kind mismatch")

	// ErrNilVector indicates a nil operand.
	ErrNilVector = errors.New("vector: nil vector")

	// ErrNegativeLength indicates a negative requested length.
	ErrNegativeLength = errors.New("vector: negative length")
)
