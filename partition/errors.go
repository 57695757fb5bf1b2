// SPDX-License-Identifier: MIT
// Package partition: sentinel error set.

package partition

import "errors"

var (
	// ErrOutOfRange is returned when an owned global index lies outside [0, GlobalSize).
	ErrOutOfRange = errors.New("partition: global index out of range")

	// ErrDuplicateIndex is returned when a node lists the same global index twice.
	ErrDuplicateIndex = errors.New("partition: duplicate global index")

	// ErrUncovered is returned when some global index is owned by no node.
	ErrUncovered = errors.New("partition: global index not owned by any node")

	// ErrInvalidStrip is returned by Strip for parameters that cannot produce
	// non-empty strips overlapping only their direct neighbors.
	ErrInvalidStrip = errors.New("partition: invalid strip parameters")

	// ErrSizeMismatch is returned when a global slice does not have GlobalSize entries.
	ErrSizeMismatch = errors.New("partition: global size mismatch")

	// ErrNodeMismatch is returned when an indexer or vector does not cover
	// exactly the nodes of the layout.
	ErrNodeMismatch = errors.New("partition: node set mismatch")
)
