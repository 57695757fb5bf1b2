// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Provide a single, canonical source of truth for common validation checks.
//  - Keep kernels minimal by delegating shape/nil checks here.
//  - Return tagged sentinel errors so call sites can match with errors.Is.
//
// Note:
//  - Each composite validator follows a fixed sequence (NotNil → Shape).

package matrix

import "fmt"

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateNotNil ensures the operator reference is non-nil.
// Returns ErrNilMatrix if op == nil.
// Complexity: O(1).
func ValidateNotNil(op Operator) error {
	if op == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateSquare checks that op is square (Rows == Cols). Assumes non-nil.
func ValidateSquare(op Operator) error {
	if op.Rows() != op.Cols() {
		return validatorErrorf("ValidateSquare", ErrDimensionMismatch)
	}

	return nil
}

// ValidateVecLen ensures the vector is non-nil with length exactly n.
// Time: O(1). Space: O(1).
func ValidateVecLen(x []float64, n int) error {
	if x == nil {
		return validatorErrorf("ValidateVecLen", ErrNilMatrix) // reuse the "nil argument" sentinel
	}
	if len(x) != n {
		return validatorErrorf("ValidateVecLen", ErrDimensionMismatch)
	}

	return nil
}

// ValidateOperator – Composite: NotNil → Square → Rows == n.
// Used by distributed operators to check that a node's local operator maps
// its n local entries onto themselves.
//
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(1).
func ValidateOperator(op Operator, n int) error {
	if err := ValidateNotNil(op); err != nil {
		return validatorErrorf("ValidateOperator", err)
	}
	if err := ValidateSquare(op); err != nil {
		return validatorErrorf("ValidateOperator", err)
	}
	if op.Rows() != n {
		return validatorErrorf(fmt.Sprintf("ValidateOperator: %d×%d for %d entries", op.Rows(), op.Cols(), n), ErrDimensionMismatch)
	}

	return nil
}
