// SPDX-License-Identifier: MIT

package overlap_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/overlap/cluster"
	"github.com/katalvlaran/overlap/overlap"
	"github.com/katalvlaran/overlap/partition"
	"github.com/katalvlaran/overlap/vector"
)

const (
	nodeA cluster.NodeID = 1
	nodeB cluster.NodeID = 2
	tol                  = 1e-12
)

// pairSpecs describes a global vector of 6 entries split as
// A = {0,1,2,3}, B = {2,3,4,5}: global 2,3 are A's local 2,3 and B's local 0,1.
func pairSpecs() map[cluster.NodeID]overlap.LocalSpec {
	return map[cluster.NodeID]overlap.LocalSpec{
		nodeA: {Size: 4, Shared: map[cluster.NodeID][]int{nodeB: {2, 3}}},
		nodeB: {Size: 4, Shared: map[cluster.NodeID][]int{nodeA: {0, 1}}},
	}
}

// pairEnv returns a two-node environment A-B counting into stats.
func pairEnv(t *testing.T, stats *cluster.BasicStats) *cluster.Local {
	t.Helper()
	topo := cluster.NewTopology(nodeA, nodeB)
	require.NoError(t, topo.Connect(nodeA, nodeB))
	opts := []cluster.Option{cluster.WithParallelism(2)}
	if stats != nil {
		opts = append(opts, cluster.WithStats(stats))
	}
	env, err := cluster.NewLocal(topo, opts...)
	require.NoError(t, err)

	return env
}

// pairIndexer builds the six-entry fixture.
func pairIndexer(t *testing.T, stats *cluster.BasicStats) *overlap.Indexer {
	t.Helper()
	idx, err := overlap.NewIndexer(pairEnv(t, stats), pairSpecs())
	require.NoError(t, err)

	return idx
}

// fromLocals builds a vector from per-node literal values.
func fromLocals(t *testing.T, idx *overlap.Indexer, values map[cluster.NodeID][]float64, opts ...overlap.Option) *overlap.Vector {
	t.Helper()
	locals := make(map[cluster.NodeID]*vector.Dense, len(values))
	for id, vals := range values {
		locals[id] = vector.NewDenseFrom(vals)
	}
	v, err := overlap.NewVectorFromLocals(idx, locals, opts...)
	require.NoError(t, err)

	return v
}

// localValues copies node's local entries.
func localValues(t *testing.T, v *overlap.Vector, node cluster.NodeID) []float64 {
	t.Helper()
	d, err := v.Local(node)
	require.NoError(t, err)

	return append([]float64(nil), d.Data()...)
}

// stripCase is one strip partition of a global vector.
type stripCase struct {
	name    string
	size    int
	nodes   int
	overlap int
}

// stripCases covers 10 entries over 2, 3 and 4 nodes with 0, 1 and 2 shared
// entries per neighbor pair.
func stripCases() []stripCase {
	var cases []stripCase
	for _, p := range []int{2, 3, 4} {
		for _, w := range []int{0, 1, 2} {
			cases = append(cases, stripCase{
				name:    "p" + string(rune('0'+p)) + "_w" + string(rune('0'+w)),
				size:    10,
				nodes:   p,
				overlap: w,
			})
		}
	}

	return cases
}

// stripFixture builds a layout, its environment and indexer.
func stripFixture(t *testing.T, c stripCase, opts ...cluster.Option) (*partition.Layout, *overlap.Indexer) {
	t.Helper()
	ids := make([]cluster.NodeID, c.nodes)
	for i := range ids {
		ids[i] = cluster.NodeID(i + 1)
	}
	layout, err := partition.Strip(c.size, ids, c.overlap)
	require.NoError(t, err)
	env, err := layout.Environment(opts...)
	require.NoError(t, err)
	idx, err := layout.Indexer(env)
	require.NoError(t, err)

	return layout, idx
}

// ramp returns [offset, offset+step, ...] of length n.
func ramp(n int, offset, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = offset + float64(i)*step
	}

	return out
}

var ctx = context.Background()

// triple builds six global entries over nodes 1..3 where global 2 is held by
// all three: 1 = {0,1,2}, 2 = {2,3}, 3 = {2,4,5}.
func triple(t *testing.T, opts ...cluster.Option) (*partition.Layout, *overlap.Indexer) {
	t.Helper()
	layout, err := partition.NewLayout(6, map[cluster.NodeID][]int{
		1: {0, 1, 2},
		2: {2, 3},
		3: {2, 4, 5},
	})
	require.NoError(t, err)
	env, err := layout.Environment(opts...)
	require.NoError(t, err)
	idx, err := layout.Indexer(env)
	require.NoError(t, err)

	return layout, idx
}
