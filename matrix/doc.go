// Package matrix provides the node-local linear operators a distributed
// overlapping matrix holds per node.
//
// The matrix package provides:
//
//   - Dense: row-major storage with bounds-checked At/Set and a finite-value
//     numeric policy.
//   - CSR: compressed sparse rows assembled from triplets (duplicates summed).
//   - OperatorFunc: matrix-free operators.
//   - Validators shared by every kernel (ValidateVecLen, ValidateOperator, ...).
//
// Every type implements Operator (y = A·x). No kernel communicates; cross-node
// consistency is restored by package overlap after the local Apply.
package matrix
