// SPDX-License-Identifier: MIT

package cluster

import "sync/atomic"

// StatsCollector receives one call per collective executed by an environment.
// Implement it to bridge into a monitoring system.
type StatsCollector interface {
	// RecordRun is called after RunOnEachNode with the number of nodes that ran
	// and the returned error.
	RecordRun(nodes int, err error)

	// RecordReduce is called after AllReduceSum / AllReduceAnd.
	RecordReduce(err error)

	// RecordExchange is called after NeighborhoodAllToAll with the number of
	// point-to-point messages and float64 values delivered.
	RecordExchange(messages, values int, err error)
}

// NoopStats discards everything.
type NoopStats struct{}

func (NoopStats) RecordRun(int, error)           {}
func (NoopStats) RecordReduce(error)             {}
func (NoopStats) RecordExchange(int, int, error) {}

// BasicStats counts collectives in memory. Safe for concurrent use.
type BasicStats struct {
	Runs           atomic.Int64
	NodeTasks      atomic.Int64
	Reductions     atomic.Int64
	Exchanges      atomic.Int64
	Messages       atomic.Int64
	ValuesMoved    atomic.Int64
	FailedRuns     atomic.Int64
	FailedReduces  atomic.Int64
	FailedExchange atomic.Int64
}

// RecordRun implements StatsCollector.
func (b *BasicStats) RecordRun(nodes int, err error) {
	b.Runs.Add(1)
	b.NodeTasks.Add(int64(nodes))
	if err != nil {
		b.FailedRuns.Add(1)
	}
}

// RecordReduce implements StatsCollector.
func (b *BasicStats) RecordReduce(err error) {
	b.Reductions.Add(1)
	if err != nil {
		b.FailedReduces.Add(1)
	}
}

// RecordExchange implements StatsCollector.
func (b *BasicStats) RecordExchange(messages, values int, err error) {
	b.Exchanges.Add(1)
	b.Messages.Add(int64(messages))
	b.ValuesMoved.Add(int64(values))
	if err != nil {
		b.FailedExchange.Add(1)
	}
}

// Reset zeroes all counters.
func (b *BasicStats) Reset() {
	b.Runs.Store(0)
	b.NodeTasks.Store(0)
	b.Reductions.Store(0)
	b.Exchanges.Store(0)
	b.Messages.Store(0)
	b.ValuesMoved.Store(0)
	b.FailedRuns.Store(0)
	b.FailedReduces.Store(0)
	b.FailedExchange.Store(0)
}
