// SPDX-License-Identifier: MIT

package overlap_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/overlap/cluster"
	"github.com/katalvlaran/overlap/overlap"
)

func nodeWith(id cluster.NodeID, neighbors ...cluster.NodeID) cluster.Node {
	return cluster.Node{ID: id, Neighbors: neighbors}
}

// TestLocalIndexer_Multiplicity checks derived weights for an entry shared
// with two neighbors, one shared with one, and private ones.
func TestLocalIndexer_Multiplicity(t *testing.T) {
	li, err := overlap.NewLocalIndexer(nodeWith(1, 2, 3), overlap.LocalSpec{
		Size: 5,
		Shared: map[cluster.NodeID][]int{
			2: {4, 3},
			3: {4},
		},
	})
	require.NoError(t, err)

	require.Equal(t, cluster.NodeID(1), li.Node())
	require.Equal(t, 5, li.Size())
	require.Equal(t, []cluster.NodeID{2, 3}, li.Neighbors())
	require.Equal(t, []int{4, 3}, li.SharedIndices(2)) // order preserved
	require.Equal(t, 1, li.SharedCount(3))

	require.Equal(t, []int{1, 1, 1, 2, 3}, []int{
		li.Multiplicity(0), li.Multiplicity(1), li.Multiplicity(2), li.Multiplicity(3), li.Multiplicity(4),
	})
	require.InDelta(t, 1.0/3, li.InverseMultiplicity(4), tol)
	require.Equal(t, 0.5, li.InverseMultiplicity(3))
	require.Equal(t, 1.0, li.InverseMultiplicity(0))
	require.Zero(t, li.Multiplicity(5))
	require.Zero(t, li.InverseMultiplicity(-1))

	require.True(t, li.IsShared(3))
	require.False(t, li.IsShared(0))
	require.Equal(t, []uint32{3, 4}, li.SharedMask().ToArray())
	require.Equal(t, 3, li.PrivateCount())
}

// TestLocalIndexer_EmptyListInactive ensures a declared but empty list does
// not make the neighbor active.
func TestLocalIndexer_EmptyListInactive(t *testing.T) {
	li, err := overlap.NewLocalIndexer(nodeWith(1, 2), overlap.LocalSpec{
		Size:   3,
		Shared: map[cluster.NodeID][]int{2: {}},
	})
	require.NoError(t, err)
	require.Empty(t, li.Neighbors())
	require.Nil(t, li.SharedIndices(2))
	require.Equal(t, 3, li.PrivateCount())
}

// TestLocalIndexer_ZeroSize accepts a node that stores nothing.
func TestLocalIndexer_ZeroSize(t *testing.T) {
	li, err := overlap.NewLocalIndexer(nodeWith(7), overlap.LocalSpec{})
	require.NoError(t, err)
	require.Zero(t, li.Size())
	require.Empty(t, li.InverseMultiplicities())
}

// TestLocalIndexer_SharedIndicesIsCopy ensures callers cannot mutate the indexer.
func TestLocalIndexer_SharedIndicesIsCopy(t *testing.T) {
	list := []int{0, 1}
	li, err := overlap.NewLocalIndexer(nodeWith(1, 2), overlap.LocalSpec{
		Size:   2,
		Shared: map[cluster.NodeID][]int{2: list},
	})
	require.NoError(t, err)

	list[0] = 1 // the caller's slice was copied
	got := li.SharedIndices(2)
	got[1] = 0
	require.Equal(t, []int{0, 1}, li.SharedIndices(2))
}

// TestLocalIndexer_Malformed covers every structural rejection.
func TestLocalIndexer_Malformed(t *testing.T) {
	cases := []struct {
		name string
		node cluster.Node
		spec overlap.LocalSpec
	}{
		{"negative size", nodeWith(1), overlap.LocalSpec{Size: -1}},
		{"self reference", nodeWith(1, 2), overlap.LocalSpec{Size: 2, Shared: map[cluster.NodeID][]int{1: {0}}}},
		{"not a neighbor", nodeWith(1, 2), overlap.LocalSpec{Size: 2, Shared: map[cluster.NodeID][]int{3: {0}}}},
		{"index too large", nodeWith(1, 2), overlap.LocalSpec{Size: 2, Shared: map[cluster.NodeID][]int{2: {2}}}},
		{"negative index", nodeWith(1, 2), overlap.LocalSpec{Size: 2, Shared: map[cluster.NodeID][]int{2: {-1}}}},
		{"repeated index", nodeWith(1, 2), overlap.LocalSpec{Size: 2, Shared: map[cluster.NodeID][]int{2: {1, 1}}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := overlap.NewLocalIndexer(c.node, c.spec)
			require.ErrorIs(t, err, overlap.ErrMalformedPartition)
		})
	}
}
