// Package vector holds node-local dense vectors and the Vector capability
// interface that node-local and distributed vectors share.
//
// The set of variants is closed (Kind): KindDense for *Dense, KindOverlapping
// for the distributed vector of package overlap. Algorithms written against
// Vector work on either without knowing which one they hold.
package vector
