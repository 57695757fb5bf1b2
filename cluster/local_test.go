// SPDX-License-Identifier: MIT

package cluster_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/overlap/cluster"
)

// ring returns an environment over a ring of n nodes 0..n-1.
func ring(t *testing.T, n int, opts ...cluster.Option) *cluster.Local {
	t.Helper()
	ids := make([]cluster.NodeID, n)
	for i := range ids {
		ids[i] = cluster.NodeID(i)
	}
	topo := cluster.NewTopology(ids...)
	for i := 0; i < n && n > 1; i++ {
		j := (i + 1) % n
		if i != j {
			require.NoError(t, topo.Connect(ids[i], ids[j]))
		}
	}
	env, err := cluster.NewLocal(topo, opts...)
	require.NoError(t, err)

	return env
}

func TestNewLocal_Snapshot(t *testing.T) {
	_, err := cluster.NewLocal(nil)
	require.ErrorIs(t, err, cluster.ErrNilTopology)

	topo := cluster.NewTopology(1, 2)
	env, err := cluster.NewLocal(topo)
	require.NoError(t, err)
	require.NoError(t, topo.Connect(1, 2)) // not seen by env

	rec, err := env.Node(1)
	require.NoError(t, err)
	require.Empty(t, rec.Neighbors)
	require.Equal(t, []cluster.NodeID{1, 2}, env.Nodes())

	_, err = env.Node(3)
	require.ErrorIs(t, err, cluster.ErrUnknownNode)
	require.NotNil(t, env.Logger())
}

// TestRunOnEachNode_ExactlyOnce checks every node runs once per call.
func TestRunOnEachNode_ExactlyOnce(t *testing.T) {
	stats := &cluster.BasicStats{}
	env := ring(t, 8, cluster.WithStats(stats))

	var mu sync.Mutex
	seen := make(map[cluster.NodeID]int)
	err := env.RunOnEachNode(context.Background(), func(_ context.Context, node cluster.NodeID) error {
		mu.Lock()
		seen[node]++
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)
	require.Len(t, seen, 8)
	for _, n := range seen {
		require.Equal(t, 1, n)
	}
	require.EqualValues(t, 1, stats.Runs.Load())
	require.EqualValues(t, 8, stats.NodeTasks.Load())
}

// TestRunOnEachNode_Parallelism bounds concurrent node tasks.
func TestRunOnEachNode_Parallelism(t *testing.T) {
	for _, limit := range []int{1, 3} {
		env := ring(t, 9, cluster.WithParallelism(limit))

		var active, peak atomic.Int64
		err := env.RunOnEachNode(context.Background(), func(_ context.Context, _ cluster.NodeID) error {
			cur := active.Add(1)
			for {
				old := peak.Load()
				if cur <= old || peak.CompareAndSwap(old, cur) {
					break
				}
			}
			active.Add(-1)
			return nil
		})
		require.NoError(t, err)
		require.LessOrEqual(t, peak.Load(), int64(limit))
	}
}

// TestRunOnEachNode_Error propagates the failing node and cancels the rest.
func TestRunOnEachNode_Error(t *testing.T) {
	var logs bytes.Buffer
	stats := &cluster.BasicStats{}
	env := ring(t, 4,
		cluster.WithParallelism(1),
		cluster.WithStats(stats),
		cluster.WithLogger(cluster.NewLogger(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))),
	)
	boom := errors.New("boom")

	var ran atomic.Int64
	err := env.RunOnEachNode(context.Background(), func(_ context.Context, node cluster.NodeID) error {
		ran.Add(1)
		if node == 1 {
			return boom
		}
		return nil
	})
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "node 1")
	require.Less(t, ran.Load(), int64(4)) // sequential: nodes after 1 see the cancelled context
	require.EqualValues(t, 1, stats.FailedRuns.Load())
	require.Contains(t, logs.String(), "op=RunOnEachNode")
	require.Contains(t, logs.String(), "node=1") // the failing node is tagged
}

// TestAllReduce covers sums, flags and contribution checks.
func TestAllReduce(t *testing.T) {
	stats := &cluster.BasicStats{}
	env := ring(t, 3, cluster.WithStats(stats))
	ctx := context.Background()

	sum, err := env.AllReduceSum(ctx, map[cluster.NodeID]float64{0: 1.5, 1: 2, 2: -0.5})
	require.NoError(t, err)
	require.Equal(t, 3.0, sum)

	_, err = env.AllReduceSum(ctx, map[cluster.NodeID]float64{0: 1, 1: 2})
	require.ErrorIs(t, err, cluster.ErrMissingContribution)

	_, err = env.AllReduceSum(ctx, map[cluster.NodeID]float64{0: 1, 1: 2, 2: 3, 7: 4})
	require.ErrorIs(t, err, cluster.ErrUnknownNode)

	all, err := env.AllReduceAnd(ctx, map[cluster.NodeID]bool{0: true, 1: true, 2: true})
	require.NoError(t, err)
	require.True(t, all)

	all, err = env.AllReduceAnd(ctx, map[cluster.NodeID]bool{0: true, 1: false, 2: true})
	require.NoError(t, err)
	require.False(t, all)

	_, err = env.AllReduceAnd(ctx, map[cluster.NodeID]bool{0: true})
	require.ErrorIs(t, err, cluster.ErrMissingContribution)

	require.EqualValues(t, 6, stats.Reductions.Load())
	require.EqualValues(t, 3, stats.FailedReduces.Load())
}

// TestAllReduceSum_Deterministic adds in node order regardless of scheduling.
func TestAllReduceSum_Deterministic(t *testing.T) {
	env := ring(t, 64)
	values := make(map[cluster.NodeID]float64, 64)
	for i := 0; i < 64; i++ {
		values[cluster.NodeID(i)] = 1.0 / float64(i+3)
	}

	first, err := env.AllReduceSum(context.Background(), values)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := env.AllReduceSum(context.Background(), values)
		require.NoError(t, err)
		require.Equal(t, first, again) // bitwise
	}
}

// TestCollectPerNode gathers one value per node.
func TestCollectPerNode(t *testing.T) {
	env := ring(t, 5)
	got, err := cluster.CollectPerNode(context.Background(), env, func(_ context.Context, node cluster.NodeID) (int, error) {
		return int(node) * 10, nil
	})
	require.NoError(t, err)
	require.Equal(t, map[cluster.NodeID]int{0: 0, 1: 10, 2: 20, 3: 30, 4: 40}, got)

	_, err = cluster.CollectPerNode(context.Background(), env, func(_ context.Context, node cluster.NodeID) (int, error) {
		if node == 3 {
			return 0, errors.New("nope")
		}
		return 1, nil
	})
	require.Error(t, err)
}
