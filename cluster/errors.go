// SPDX-License-Identifier: MIT
// Package cluster: sentinel error set.
// Every message is prefixed with "cluster: ". Call sites wrap with
// fmt.Errorf("Op: %w", ErrX); callers match with errors.Is.

package cluster

import "errors"

var (
	// ErrNilTopology is returned when an environment is built without a topology.
	ErrNilTopology = errors.New("cluster: topology is nil")

	// ErrUnknownNode indicates an operation referenced a node that is not part of the topology.
	ErrUnknownNode = errors.New("cluster: unknown node")

	// ErrDuplicateNode indicates AddNode was called twice with the same id.
	ErrDuplicateNode = errors.New("cluster: node already exists")

	// ErrSelfLoop indicates an attempt to connect a node to itself.
	ErrSelfLoop = errors.New("cluster: node cannot neighbor itself")

	// ErrNotNeighbor indicates a payload addressed to a node outside the sender's
	// declared neighbor set.
	ErrNotNeighbor = errors.New("cluster: node is not a declared neighbor")

	// ErrMissingContribution indicates a collective did not receive a value
	// from every node of the environment.
	ErrMissingContribution = errors.New("cluster: missing per-node contribution")

	// ErrBufferSize indicates a receive buffer whose length does not match the
	// peer's send buffer (or the own send buffer under symmetric sizes).
	ErrBufferSize = errors.New("cluster: exchange buffer size mismatch")

	// ErrMissingBuffer indicates a send without a matching receive buffer on the peer.
	ErrMissingBuffer = errors.New("cluster: missing exchange buffer")
)
