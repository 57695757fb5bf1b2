// SPDX-License-Identifier: MIT

package cluster_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/overlap/cluster"
)

// ExampleLocal runs one task per node and reduces their results.
func ExampleLocal() {
	topo := cluster.NewTopology(0, 1, 2)
	_ = topo.Connect(0, 1)
	_ = topo.Connect(1, 2)

	stats := &cluster.BasicStats{}
	env, _ := cluster.NewLocal(topo, cluster.WithParallelism(2), cluster.WithStats(stats))

	ctx := context.Background()
	squares, _ := cluster.CollectPerNode(ctx, env, func(_ context.Context, node cluster.NodeID) (float64, error) {
		return float64(node * node), nil
	})
	total, _ := env.AllReduceSum(ctx, squares)

	fmt.Println("sum of squares:", total)
	fmt.Println("runs:", stats.Runs.Load(), "reductions:", stats.Reductions.Load())

	// Output:
	// sum of squares: 5
	// runs: 1 reductions: 1
}
