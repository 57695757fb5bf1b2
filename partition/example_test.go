// SPDX-License-Identifier: MIT

package partition_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/overlap/cluster"
	"github.com/katalvlaran/overlap/partition"
)

// ExampleStrip splits six entries over two nodes sharing one entry, then
// scatters a global vector, sums the halo and gathers it back.
func ExampleStrip() {
	ctx := context.Background()
	l, _ := partition.Strip(6, []cluster.NodeID{1, 2}, 1)
	env, _ := l.Environment()
	idx, _ := l.Indexer(env)

	v, _ := l.Scatter(ctx, idx, []float64{1, 2, 3, 4, 5, 6})
	dot, _ := v.Dot(ctx, v)
	_ = v.SumOverlappingEntries(ctx)
	global, _ := l.Gather(v)

	fmt.Println("owned:", l.Owned[1], l.Owned[2])
	fmt.Println("dot:", dot)
	fmt.Println("summed:", global)

	// Output:
	// owned: [0 1 2 3] [3 4 5]
	// dot: 91
	// summed: [1 2 3 8 5 6]
}
