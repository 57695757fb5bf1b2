// Package overlap is a toolkit for distributed linear algebra on vectors and
// matrices whose entries are partitioned across compute nodes, where
// neighboring nodes may store the same global entry.
//
// What is in the box?
//
//	A small, dependency-light set of packages that build on each other:
//		• Topology: compute nodes and their declared neighbor relation
//		• Execution: per-node parallel tasks, all-reduce and neighborhood exchange
//		• Indexing: per-node shared-entry lists, multiplicity and inverse multiplicity
//		• Vectors: overlap-aware algebra, reductions and halo protocols
//		• Matrices: node-local dense/CSR operators and the distributed product
//		• Partitioning: strip layouts, scatter/gather for tests and tools
//
// Under the hood the work is organized under these subpackages:
//
//	cluster/    Topology, the Environment contract and its in-process Local implementation
//	vector/     the Vector capability, Kind tag and the dense per-node kernels
//	matrix/     Dense and CSR local operators, OperatorFunc, validators
//	overlap/    LocalIndexer, Indexer, Vector, Matrix and the overlap protocols
//	partition/  Layout (roaring-backed index sets), Strip, Scatter/Gather/Assemble
//	cmd/overlapctl  inspect a strip partition and run the algebra self-checks
//
// Quick ASCII example (two nodes, entries 3 and 4 stored on both):
//
//	node 1: [0 1 2 3 4]
//	node 2:       [3 4 5 6]
//
// SumOverlappingEntries makes each copy of 3 and 4 hold the sum of both
// contributions; Dot and Sum count them once.
//
//	go get github.com/katalvlaran/overlap
package overlap
