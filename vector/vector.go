// SPDX-License-Identifier: MIT

// Package vector - the capability interface shared by node-local and
// distributed vectors.
//
// Purpose:
//   - Replace runtime type dispatch on operand kind with a closed tag (Kind)
//     plus one capability set every variant implements.
//   - Let the distributed implementation delegate each node's local step to
//     whatever local vector it holds, through this same interface.
//
// Contract:
//   - Binary operations require both operands to report the same Kind;
//     otherwise they fail with ErrKindMismatch before touching any data.
//   - Further compatibility (length, shared indexer) is checked by the
//     concrete variant.

package vector

import (
	"context"
	"fmt"
)

// Kind is the closed set of vector variants.
type Kind uint8

const (
	// KindDense is a node-local contiguous vector (*Dense).
	KindDense Kind = iota + 1

	// KindOverlapping is a distributed vector with shared entries between nodes.
	KindOverlapping
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindDense:
		return "dense"
	case KindOverlapping:
		return "overlapping"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Vector is the algebra capability set. All in-place methods mutate the
// receiver; x is never modified. Methods take a context because distributed
// variants run collectives; local variants ignore it.
type Vector interface {
	// Kind reports the variant tag.
	Kind() Kind

	// CloneVector returns a deep copy of the values.
	CloneVector() Vector

	// Axpy computes v += alpha*x.
	Axpy(ctx context.Context, alpha float64, x Vector) error

	// LinearCombination computes v = a*v + b*x.
	LinearCombination(ctx context.Context, a, b float64, x Vector) error

	// Scale computes v *= alpha.
	Scale(ctx context.Context, alpha float64) error

	// Clear sets every entry to zero.
	Clear(ctx context.Context) error

	// SetAll sets every entry to value.
	SetAll(ctx context.Context, value float64) error

	// Negate computes v = -v.
	Negate(ctx context.Context) error

	// Map replaces every entry e by f(e).
	Map(ctx context.Context, f func(float64) float64) error

	// Map2 replaces every entry e by f(e, x[i]).
	Map2(ctx context.Context, x Vector, f func(a, b float64) float64) error

	// CopyFrom overwrites v with the values of x.
	CopyFrom(ctx context.Context, x Vector) error

	// Dot returns the inner product <v, x>.
	Dot(ctx context.Context, x Vector) (float64, error)

	// Norm2 returns the Euclidean norm.
	Norm2(ctx context.Context) (float64, error)

	// Sum returns the sum of all entries.
	Sum(ctx context.Context) (float64, error)

	// Equal reports whether |v[i]-x[i]| <= tol for every entry.
	Equal(ctx context.Context, x Vector, tol float64) (bool, error)
}

// SameKind returns ErrKindMismatch (or ErrNilVector) unless a and b are both
// non-nil and of the same Kind.
func SameKind(a, b Vector) error {
	if a == nil || b == nil {
		return ErrNilVector
	}
	if a.Kind() != b.Kind() {
		return fmt.Errorf("%s vs %s: %w", a.Kind(), b.Kind(), ErrKindMismatch)
	}

	return nil
}
