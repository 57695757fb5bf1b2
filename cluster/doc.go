// Package cluster provides the execution and communication environment the
// overlap engine runs on.
//
// It declares:
//
//   - Topology: the undirected neighbor relation between compute nodes.
//   - Environment: the collectives the engine consumes (RunOnEachNode,
//     AllReduceSum, AllReduceAnd, NeighborhoodAllToAll) plus CollectPerNode.
//   - Local: an in-process Environment that runs every node on its own
//     goroutine (or sequentially with WithParallelism(1)).
//
// Every collective is a barrier. Failures abort the whole collective; no
// partial result is ever returned. Fault tolerance is not modeled: a node
// that never returns stalls the collective until the context is cancelled.
//
//	t := cluster.NewTopology(0, 1)
//	_ = t.Connect(0, 1)
//	env, _ := cluster.NewLocal(t, cluster.WithParallelism(2))
package cluster
