// Package overlap implements distributed linear algebra over overlapping
// partitions.
//
// A global vector is split across the nodes of a cluster.Environment. Nodes
// may store the same global entry; such an entry is shared and its
// multiplicity is the number of nodes storing it.
//
// Building blocks:
//
//   - LocalIndexer: one node's shared-index lists per neighbor, plus the
//     derived multiplicities.
//   - Indexer: the per-node indexers of one partitioning. Operands are
//     compatible only when they point to the same Indexer instance.
//   - Vector: one vector.Dense per node. Local algebra runs in parallel per
//     node; Dot, Norm2 and Sum weight shared entries by 1/multiplicity.
//   - SumOverlappingEntries / RegularizeOverlappingEntries /
//     AverageOverlappingEntries: halo protocols built on a single
//     neighborhood all-to-all.
//   - Matrix: node-local operators; Multiply applies them and assembles the
//     output with one halo sum.
//
// Typical use:
//
//	env, _ := cluster.NewLocal(topology)
//	idx, _ := overlap.NewIndexer(env, specs)
//	x, _ := overlap.NewVector(idx)
//	_ = x.SetAll(ctx, 1)
//	n, _ := x.Dot(ctx, x) // number of unique entries
//
// The package does not log; the environment logs and counts its collectives.
package overlap
