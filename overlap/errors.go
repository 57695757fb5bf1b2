// SPDX-License-Identifier: MIT
// Package overlap: sentinel error set.
//
// Every error below is detected before the first collective of the failing
// call, so no node is ever left waiting on a barrier another node abandoned.
// Call sites wrap with fmt.Errorf("Op: %w", ErrX); callers use errors.Is.

package overlap

import "errors"

var (
	// ErrIncompatibleIndexer is returned when operands of a binary operation were
	// built on different Indexer instances. Identity, not structure, decides:
	// two separately constructed but identical indexers are incompatible.
	ErrIncompatibleIndexer = errors.New("overlap: incompatible indexer")

	// ErrMalformedPartition is returned while building indexers when a shared
	// index is outside [0, n), repeated within one neighbor list, addressed to
	// a node outside the declared topological neighbors, or not mirrored by
	// the neighbor's own indexer.
	ErrMalformedPartition = errors.New("overlap: malformed partition")

	// ErrDimensionMismatch is returned when a local vector or local operator
	// does not match its node's local entry count.
	ErrDimensionMismatch = errors.New("overlap: dimension mismatch")

	// ErrMissingNode is returned when per-node input omits a node of the environment.
	ErrMissingNode = errors.New("overlap: missing node")

	// ErrUnknownNode is returned when per-node input names a node outside the environment.
	ErrUnknownNode = errors.New("overlap: unknown node")

	// ErrNilIndexer is returned when a nil indexer (or environment) is supplied.
	ErrNilIndexer = errors.New("overlap: nil indexer")

	// ErrNilOperand is returned for nil vector or matrix operands.
	ErrNilOperand = errors.New("overlap: nil operand")

	// ErrAliasedOperands is returned by Multiply when input and output are the
	// same vector; the local operators overwrite their output.
	ErrAliasedOperands = errors.New("overlap: input and output alias")

	// ErrInconsistentOverlap is returned by CheckConsistency (and by reductions
	// under WithConsistencyCheck) when two copies of a shared entry disagree.
	ErrInconsistentOverlap = errors.New("overlap: shared entries disagree")
)
