// SPDX-License-Identifier: MIT

// Package cluster: functional configuration of the in-process environment.
//
// Design goals:
//   - Deterministic defaults documented as constants (single source of truth).
//   - Panic only on nonsensical values (programmer error), never on user data.

package cluster

import "runtime"

// DefaultParallelism is the number of nodes executed concurrently when no
// WithParallelism option is given. Zero means "one goroutine per node".
const DefaultParallelism = 0

const (
	panicParallelismInvalid = "cluster: WithParallelism: limit must be >= 0"
	panicLoggerNil          = "cluster: WithLogger: logger must be non-nil"
	panicStatsNil           = "cluster: WithStats: collector must be non-nil"
)

// Option configures a Local environment.
type Option func(*Options)

// Options is the resolved configuration of a Local environment.
type Options struct {
	parallelism int            // 0 ⇒ one goroutine per node; 1 ⇒ sequential
	logger      *Logger        // never nil after gatherOptions
	stats       StatsCollector // never nil after gatherOptions
}

// WithParallelism bounds how many nodes run concurrently inside one collective.
// 1 turns the environment into a sequential single-process scheduler.
// Panics if limit < 0.
func WithParallelism(limit int) Option {
	if limit < 0 {
		panic(panicParallelismInvalid)
	}

	return func(o *Options) { o.parallelism = limit }
}

// WithNumCPU bounds concurrency to runtime.NumCPU().
func WithNumCPU() Option {
	return WithParallelism(runtime.NumCPU())
}

// WithLogger sets the structured logger. Panics on nil.
func WithLogger(l *Logger) Option {
	if l == nil {
		panic(panicLoggerNil)
	}

	return func(o *Options) { o.logger = l }
}

// WithStats sets the statistics collector. Panics on nil.
func WithStats(s StatsCollector) Option {
	if s == nil {
		panic(panicStatsNil)
	}

	return func(o *Options) { o.stats = s }
}

// gatherOptions applies opts left-to-right over the defaults.
func gatherOptions(opts ...Option) Options {
	o := Options{
		parallelism: DefaultParallelism,
		logger:      NoopLogger(),
		stats:       NoopStats{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
