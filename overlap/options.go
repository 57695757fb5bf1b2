// SPDX-License-Identifier: MIT

// Package overlap: functional configuration of distributed vectors.
//
// Design goals:
//   - Documented defaults (single source of truth).
//   - Panic only on nonsensical values (programmer error).
package overlap

import "math"

const (
	// DefaultBufferCaching keeps per-(node, neighbor) exchange buffers alive
	// across SumOverlappingEntries calls on the same vector.
	DefaultBufferCaching = true

	// DefaultConsistencyCheck disables the halo agreement check before reductions.
	DefaultConsistencyCheck = false

	// DefaultConsistencyTolerance is the absolute tolerance of the agreement check.
	DefaultConsistencyTolerance = 1e-12
)

const panicToleranceInvalid = "overlap: WithConsistencyCheck: tol must be finite, non-negative"

// Option configures a distributed Vector.
type Option func(*Options)

// Options is the resolved configuration of a Vector.
type Options struct {
	bufferCaching    bool
	consistencyCheck bool
	consistencyTol   float64
}

// WithBufferCaching toggles reuse of exchange buffers between calls.
func WithBufferCaching(enabled bool) Option {
	return func(o *Options) { o.bufferCaching = enabled }
}

// WithConsistencyCheck makes Dot, Norm2 and Sum first verify, through one
// halo exchange, that every copy of a shared entry agrees within tol.
// The check applies whenever this vector takes part, as receiver or operand.
// Disagreement fails the reduction with ErrInconsistentOverlap. Debug aid:
// it costs one extra exchange and one AllReduceAnd per checked vector.
// Panics if tol is negative or non-finite.
func WithConsistencyCheck(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol < 0 {
		panic(panicToleranceInvalid)
	}

	return func(o *Options) {
		o.consistencyCheck = true
		o.consistencyTol = tol
	}
}

// gatherOptions applies opts left-to-right over the defaults.
func gatherOptions(opts ...Option) Options {
	o := Options{
		bufferCaching:    DefaultBufferCaching,
		consistencyCheck: DefaultConsistencyCheck,
		consistencyTol:   DefaultConsistencyTolerance,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
