// Package partition builds overlapping partitions of a global index space
// and connects them to the overlap engine.
//
// A Layout lists, per node, the global indices the node stores. From it the
// package derives the communication topology (nodes sharing an index are
// neighbors), the per-node shared-index lists an overlap.Indexer needs, and
// the global/distributed conversions Scatter, Gather and Assemble.
//
// Strip produces the classic 1D domain decomposition: contiguous strips with
// a fixed number of entries shared between consecutive strips.
package partition
