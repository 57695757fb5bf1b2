// SPDX-License-Identifier: MIT

// Package cluster - in-process environment.
//
// Purpose:
//   - Run one task per node on goroutines (errgroup), bounded by the configured
//     parallelism; parallelism 1 is a sequential simulated scheduler.
//   - Implement reductions and the neighborhood all-to-all by direct copies
//     between the per-node buffers.
//
// Determinism:
//   - AllReduceSum adds contributions in ascending node order, so the result
//     does not depend on goroutine scheduling.
//
// Ordering:
//   - NeighborhoodAllToAll validates the whole round before delivering any
//     value; a malformed round leaves every receive buffer untouched.

package cluster

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"
)

const (
	opRun          = "RunOnEachNode"
	opReduceSum    = "AllReduceSum"
	opReduceAnd    = "AllReduceAnd"
	opAllToAll     = "NeighborhoodAllToAll"
	opNewLocal     = "NewLocal"
	logCollectives = "collective completed"
)

// Local is an Environment whose nodes are goroutines of the current process.
// It snapshots the topology at construction; later topology edits are not seen.
type Local struct {
	nodes   []NodeID        // sorted ascending
	records map[NodeID]Node // immutable after construction
	opts    Options
}

var _ Environment = (*Local)(nil)

// NewLocal builds an in-process environment over a snapshot of t.
//
// Errors:
//   - ErrNilTopology if t is nil.
//
// Complexity: O(V + E log E).
func NewLocal(t *Topology, opts ...Option) (*Local, error) {
	if t == nil {
		return nil, fmt.Errorf("%s: %w", opNewLocal, ErrNilTopology)
	}
	snap := t.Clone()
	ids := snap.Nodes()
	records := make(map[NodeID]Node, len(ids))
	for _, id := range ids {
		rec, err := snap.Node(id)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opNewLocal, err)
		}
		records[id] = rec
	}

	return &Local{nodes: ids, records: records, opts: gatherOptions(opts...)}, nil
}

// Nodes implements Environment.
func (l *Local) Nodes() []NodeID { return slices.Clone(l.nodes) }

// Node implements Environment.
func (l *Local) Node(id NodeID) (Node, error) {
	rec, ok := l.records[id]
	if !ok {
		return Node{}, fmt.Errorf("Node(%d): %w", id, ErrUnknownNode)
	}

	return Node{ID: rec.ID, Neighbors: slices.Clone(rec.Neighbors)}, nil
}

// Logger returns the environment's logger.
func (l *Local) Logger() *Logger { return l.opts.logger }

// RunOnEachNode implements Environment.
func (l *Local) RunOnEachNode(ctx context.Context, action func(ctx context.Context, node NodeID) error) error {
	err := l.fanOut(ctx, l.nodes, action)
	l.opts.stats.RecordRun(len(l.nodes), err)
	if err != nil {
		l.opts.logger.WithOp(opRun).ErrorContext(ctx, "per-node action failed", "error", err)

		return err
	}

	return nil
}

// AllReduceSum implements Environment.
//
// Errors:
//   - ErrMissingContribution if a node has no value.
//   - ErrUnknownNode if values names a node outside the environment.
func (l *Local) AllReduceSum(ctx context.Context, values map[NodeID]float64) (float64, error) {
	total, err := reduce(ctx, l, values, 0.0, func(acc, v float64) float64 { return acc + v })
	l.opts.stats.RecordReduce(err)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", opReduceSum, err)
	}
	l.opts.logger.WithOp(opReduceSum).DebugContext(ctx, logCollectives, "nodes", len(l.nodes), "result", total)

	return total, nil
}

// AllReduceAnd implements Environment.
func (l *Local) AllReduceAnd(ctx context.Context, flags map[NodeID]bool) (bool, error) {
	all, err := reduce(ctx, l, flags, true, func(acc, v bool) bool { return acc && v })
	l.opts.stats.RecordReduce(err)
	if err != nil {
		return false, fmt.Errorf("%s: %w", opReduceAnd, err)
	}
	l.opts.logger.WithOp(opReduceAnd).DebugContext(ctx, logCollectives, "nodes", len(l.nodes), "result", all)

	return all, nil
}

// NeighborhoodAllToAll implements Environment.
//
// Implementation:
//   - Stage 1: validate every send against the declared neighbor sets and the
//     peer's receive buffers (and, with symmetricSizes, the own receive buffer).
//   - Stage 2: per receiving node, copy each peer's send buffer into the
//     matching receive buffer. A node writes only its own receive buffers.
//
// Errors: ErrUnknownNode, ErrNotNeighbor, ErrMissingBuffer, ErrBufferSize.
// Complexity: O(total exchanged values).
func (l *Local) NeighborhoodAllToAll(ctx context.Context, payloads map[NodeID]*Exchange, symmetricSizes bool) error {
	messages, values, err := l.validateRound(payloads, symmetricSizes)
	if err == nil {
		receivers := make([]NodeID, 0, len(payloads))
		for _, id := range l.nodes {
			if ex := payloads[id]; ex != nil && len(ex.Recv) > 0 {
				receivers = append(receivers, id)
			}
		}
		err = l.fanOut(ctx, receivers, func(_ context.Context, node NodeID) error {
			for peer, recv := range payloads[node].Recv {
				copy(recv, payloads[peer].Send[node])
			}

			return nil
		})
	}
	l.opts.stats.RecordExchange(messages, values, err)
	if err != nil {
		l.opts.logger.WithOp(opAllToAll).ErrorContext(ctx, "exchange failed", "error", err)

		return fmt.Errorf("%s: %w", opAllToAll, err)
	}
	l.opts.logger.WithOp(opAllToAll).DebugContext(ctx, logCollectives, "messages", messages, "values", values)

	return nil
}

// validateRound checks the whole round and counts messages and values.
func (l *Local) validateRound(payloads map[NodeID]*Exchange, symmetricSizes bool) (messages, values int, err error) {
	for node, ex := range payloads {
		rec, ok := l.records[node]
		if !ok {
			return 0, 0, fmt.Errorf("node %d: %w", node, ErrUnknownNode)
		}
		if ex == nil {
			continue
		}
		for peer, send := range ex.Send {
			if !rec.HasNeighbor(peer) {
				return 0, 0, fmt.Errorf("node %d → %d: %w", node, peer, ErrNotNeighbor)
			}
			other := payloads[peer]
			if other == nil {
				return 0, 0, fmt.Errorf("node %d → %d: %w", node, peer, ErrMissingBuffer)
			}
			recv, ok := other.Recv[node]
			if !ok {
				return 0, 0, fmt.Errorf("node %d → %d: %w", node, peer, ErrMissingBuffer)
			}
			if len(recv) != len(send) {
				return 0, 0, fmt.Errorf("node %d → %d: send %d, recv %d: %w", node, peer, len(send), len(recv), ErrBufferSize)
			}
			if symmetricSizes && len(ex.Recv[peer]) != len(send) {
				return 0, 0, fmt.Errorf("node %d ↔ %d: send %d, recv %d: %w", node, peer, len(send), len(ex.Recv[peer]), ErrBufferSize)
			}
			messages++
			values += len(send)
		}
		for peer := range ex.Recv {
			if !rec.HasNeighbor(peer) {
				return 0, 0, fmt.Errorf("node %d ← %d: %w", node, peer, ErrNotNeighbor)
			}
			other := payloads[peer]
			if other == nil {
				return 0, 0, fmt.Errorf("node %d ← %d: %w", node, peer, ErrMissingBuffer)
			}
			if _, ok := other.Send[node]; !ok {
				return 0, 0, fmt.Errorf("node %d ← %d: %w", node, peer, ErrMissingBuffer)
			}
		}
	}

	return messages, values, nil
}

// fanOut runs action for every id on the errgroup, honoring the parallelism limit.
func (l *Local) fanOut(ctx context.Context, ids []NodeID, action func(ctx context.Context, node NodeID) error) error {
	g, gctx := errgroup.WithContext(ctx)
	if l.opts.parallelism > 0 {
		g.SetLimit(l.opts.parallelism)
	}
	for _, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err // a sibling failed or the caller cancelled
			}
			if err := action(gctx, id); err != nil {
				l.opts.logger.WithNode(id).DebugContext(gctx, "node action failed", "error", err)
				return fmt.Errorf("node %d: %w", id, err)
			}

			return nil
		})
	}

	return g.Wait()
}

// reduce folds one value per node in ascending node order.
func reduce[T any](ctx context.Context, l *Local, values map[NodeID]T, zero T, fold func(acc, v T) T) (T, error) {
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if len(values) > len(l.nodes) {
		for id := range values {
			if _, ok := l.records[id]; !ok {
				return zero, fmt.Errorf("node %d: %w", id, ErrUnknownNode)
			}
		}
	}
	acc := zero
	for _, id := range l.nodes {
		v, ok := values[id]
		if !ok {
			return zero, fmt.Errorf("node %d: %w", id, ErrMissingContribution)
		}
		acc = fold(acc, v)
	}

	return acc, nil
}
