// SPDX-License-Identifier: MIT

package overlap

import "github.com/katalvlaran/overlap/cluster"

// bufferArena caches exchange buffers keyed by (node, neighbor).
//
// Invariants:
//   - The outer maps are populated for every node at construction and never
//     written afterwards, so each node's goroutine may write its own inner
//     map without locking.
//   - A cached buffer is always fully overwritten (packed, or delivered by the
//     exchange) before it is read within one call; stale contents are never
//     observed, so reuse needs no clearing.
type bufferArena struct {
	send map[cluster.NodeID]map[cluster.NodeID][]float64
	recv map[cluster.NodeID]map[cluster.NodeID][]float64
}

func newBufferArena(nodes []cluster.NodeID) *bufferArena {
	a := &bufferArena{
		send: make(map[cluster.NodeID]map[cluster.NodeID][]float64, len(nodes)),
		recv: make(map[cluster.NodeID]map[cluster.NodeID][]float64, len(nodes)),
	}
	for _, id := range nodes {
		a.send[id] = make(map[cluster.NodeID][]float64)
		a.recv[id] = make(map[cluster.NodeID][]float64)
	}

	return a
}

// buffers returns the send and receive buffers for (node, nb) of length n.
// A nil arena allocates fresh buffers on every call.
// Must only be called from node's own task.
func (a *bufferArena) buffers(node, nb cluster.NodeID, n int) (send, recv []float64) {
	if a == nil {
		return make([]float64, n), make([]float64, n)
	}

	return take(a.send[node], nb, n), take(a.recv[node], nb, n)
}

func take(row map[cluster.NodeID][]float64, nb cluster.NodeID, n int) []float64 {
	buf, ok := row[nb]
	if !ok || len(buf) != n {
		buf = make([]float64, n)
		row[nb] = buf
	}

	return buf
}
