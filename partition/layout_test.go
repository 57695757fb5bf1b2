// SPDX-License-Identifier: MIT

package partition_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/overlap/cluster"
	"github.com/katalvlaran/overlap/overlap"
	"github.com/katalvlaran/overlap/partition"
)

// TestStrip_Shapes checks strip bounds and the shared widths.
func TestStrip_Shapes(t *testing.T) {
	l, err := partition.Strip(10, []cluster.NodeID{1, 2, 3}, 2)
	require.NoError(t, err)

	require.Equal(t, []int{0, 1, 2, 3, 4}, l.Owned[1]) // [0,3) + 2
	require.Equal(t, []int{3, 4, 5, 6, 7}, l.Owned[2]) // [3,6) + 2
	require.Equal(t, []int{6, 7, 8, 9}, l.Owned[3])    // last strip
	require.Equal(t, []cluster.NodeID{1, 2}, l.Holders(3))
	require.Equal(t, []cluster.NodeID{2}, l.Holders(5))
	require.Empty(t, l.Holders(10))
	require.Equal(t, []cluster.NodeID{1, 2, 3}, l.Nodes())
}

// TestStrip_Invalid covers parameter rejection.
func TestStrip_Invalid(t *testing.T) {
	cases := []struct {
		name  string
		size  int
		nodes []cluster.NodeID
		w     int
	}{
		{"no nodes", 10, nil, 0},
		{"negative overlap", 10, []cluster.NodeID{1, 2}, -1},
		{"more nodes than entries", 2, []cluster.NodeID{1, 2, 3}, 0},
		{"overlap wider than strip", 6, []cluster.NodeID{1, 2, 3}, 3},
		{"repeated node", 6, []cluster.NodeID{1, 1}, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := partition.Strip(c.size, c.nodes, c.w)
			require.ErrorIs(t, err, partition.ErrInvalidStrip)
		})
	}
}

// TestNewLayout_Validation covers range, duplicate and coverage checks.
func TestNewLayout_Validation(t *testing.T) {
	_, err := partition.NewLayout(4, map[cluster.NodeID][]int{1: {0, 1, 4}, 2: {2, 3}})
	require.ErrorIs(t, err, partition.ErrOutOfRange)

	_, err = partition.NewLayout(4, map[cluster.NodeID][]int{1: {0, 1, 1}, 2: {2, 3}})
	require.ErrorIs(t, err, partition.ErrDuplicateIndex)

	_, err = partition.NewLayout(4, map[cluster.NodeID][]int{1: {0, 1}, 2: {3}})
	require.ErrorIs(t, err, partition.ErrUncovered)

	_, err = partition.NewLayout(-1, nil)
	require.ErrorIs(t, err, partition.ErrOutOfRange)

	owned := map[cluster.NodeID][]int{1: {3, 0, 1}, 2: {1, 2, 3}}
	l, err := partition.NewLayout(4, owned)
	require.NoError(t, err)
	owned[1][0] = 2 // layout holds a copy
	require.Equal(t, []int{3, 0, 1}, l.Owned[1])
}

// TestLayout_TopologyAndSpecs derives neighbors and shared lists for an
// unordered, non-contiguous layout.
func TestLayout_TopologyAndSpecs(t *testing.T) {
	l, err := partition.NewLayout(6, map[cluster.NodeID][]int{
		1: {5, 0, 3},
		2: {3, 1, 5, 2},
		3: {4, 2},
	})
	require.NoError(t, err)

	topo, err := l.Topology()
	require.NoError(t, err)
	require.True(t, topo.AreNeighbors(1, 2))
	require.True(t, topo.AreNeighbors(2, 3))
	require.False(t, topo.AreNeighbors(1, 3))

	specs := l.Specs()
	require.Equal(t, 3, specs[1].Size)
	require.Equal(t, []int{2, 0}, specs[1].Shared[2]) // globals 3, 5 in node 1's order
	require.Equal(t, []int{0, 2}, specs[2].Shared[1]) // globals 3, 5 in node 2's order
	require.Equal(t, []int{3}, specs[2].Shared[3])    // global 2
	require.Equal(t, []int{1}, specs[3].Shared[2])
	require.NotContains(t, specs[1].Shared, cluster.NodeID(3))

	env, err := l.Environment()
	require.NoError(t, err)
	idx, err := l.Indexer(env)
	require.NoError(t, err)
	n, err := idx.CountUniqueEntries(context.Background())
	require.NoError(t, err)
	require.Equal(t, 6, n)
}

// TestLayout_ScatterGatherAssemble round-trips a global vector.
func TestLayout_ScatterGatherAssemble(t *testing.T) {
	ctx := context.Background()
	l, err := partition.Strip(6, []cluster.NodeID{1, 2}, 2)
	require.NoError(t, err)
	env, err := l.Environment()
	require.NoError(t, err)
	idx, err := l.Indexer(env)
	require.NoError(t, err)

	global := []float64{10, 20, 30, 40, 50, 60}
	v, err := l.Scatter(ctx, idx, global)
	require.NoError(t, err)

	a, err := v.Local(1)
	require.NoError(t, err)
	require.Equal(t, []float64{10, 20, 30, 40, 50}, a.Data()) // [0,3) + 2

	back, err := l.Gather(v)
	require.NoError(t, err)
	require.Equal(t, global, back)

	sum, err := l.Assemble(v)
	require.NoError(t, err)
	require.Equal(t, []float64{10, 20, 30, 80, 100, 60}, sum)

	_, err = l.Scatter(ctx, idx, global[:5])
	require.ErrorIs(t, err, partition.ErrSizeMismatch)
	_, err = l.Scatter(ctx, nil, global)
	require.ErrorIs(t, err, overlap.ErrNilIndexer)
	_, err = l.Gather(nil)
	require.ErrorIs(t, err, overlap.ErrNilOperand)
}

// TestLayout_NodeMismatch rejects environments over other nodes.
func TestLayout_NodeMismatch(t *testing.T) {
	l, err := partition.Strip(6, []cluster.NodeID{1, 2}, 1)
	require.NoError(t, err)
	other, err := partition.Strip(6, []cluster.NodeID{1, 2, 3}, 1)
	require.NoError(t, err)

	env, err := other.Environment()
	require.NoError(t, err)
	_, err = l.Indexer(env)
	require.ErrorIs(t, err, partition.ErrNodeMismatch)

	idx, err := other.Indexer(env)
	require.NoError(t, err)
	v, err := overlap.NewVector(idx)
	require.NoError(t, err)
	_, err = l.Gather(v)
	require.ErrorIs(t, err, partition.ErrNodeMismatch)
}
