// SPDX-License-Identifier: MIT

package cluster_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/overlap/cluster"
)

// line returns the environment 0-1-2.
func line(t *testing.T, opts ...cluster.Option) *cluster.Local {
	t.Helper()
	topo := cluster.NewTopology(0, 1, 2)
	require.NoError(t, topo.Connect(0, 1))
	require.NoError(t, topo.Connect(1, 2))
	env, err := cluster.NewLocal(topo, opts...)
	require.NoError(t, err)

	return env
}

// TestNeighborhoodAllToAll_Delivery exchanges buffers of neighbor-specific sizes.
func TestNeighborhoodAllToAll_Delivery(t *testing.T) {
	stats := &cluster.BasicStats{}
	env := line(t, cluster.WithStats(stats))

	p0, p1, p2 := cluster.NewExchange(1), cluster.NewExchange(2), cluster.NewExchange(1)
	p0.Send[1], p0.Recv[1] = []float64{1, 2}, make([]float64, 2)
	p1.Send[0], p1.Recv[0] = []float64{10, 20}, make([]float64, 2)
	p1.Send[2], p1.Recv[2] = []float64{30}, make([]float64, 1)
	p2.Send[1], p2.Recv[1] = []float64{40}, make([]float64, 1)

	err := env.NeighborhoodAllToAll(context.Background(), map[cluster.NodeID]*cluster.Exchange{0: p0, 1: p1, 2: p2}, true)
	require.NoError(t, err)

	require.Equal(t, []float64{10, 20}, p0.Recv[1])
	require.Equal(t, []float64{1, 2}, p1.Recv[0])
	require.Equal(t, []float64{40}, p1.Recv[2])
	require.Equal(t, []float64{30}, p2.Recv[1])
	require.Equal(t, []float64{10, 20}, p1.Send[0]) // senders untouched

	require.EqualValues(t, 1, stats.Exchanges.Load())
	require.EqualValues(t, 4, stats.Messages.Load())
	require.EqualValues(t, 6, stats.ValuesMoved.Load())
}

// TestNeighborhoodAllToAll_Asymmetric allows different sizes per direction
// unless symmetric sizes are requested.
func TestNeighborhoodAllToAll_Asymmetric(t *testing.T) {
	env := line(t)
	build := func() map[cluster.NodeID]*cluster.Exchange {
		p0, p1 := cluster.NewExchange(1), cluster.NewExchange(1)
		p0.Send[1], p1.Recv[0] = []float64{1, 2, 3}, make([]float64, 3)
		p1.Send[0], p0.Recv[1] = []float64{9}, make([]float64, 1)
		return map[cluster.NodeID]*cluster.Exchange{0: p0, 1: p1}
	}

	payloads := build()
	require.NoError(t, env.NeighborhoodAllToAll(context.Background(), payloads, false))
	require.Equal(t, []float64{1, 2, 3}, payloads[1].Recv[0])
	require.Equal(t, []float64{9}, payloads[0].Recv[1])

	payloads = build()
	err := env.NeighborhoodAllToAll(context.Background(), payloads, true)
	require.ErrorIs(t, err, cluster.ErrBufferSize)
	require.Equal(t, []float64{0, 0, 0}, payloads[1].Recv[0]) // nothing delivered
}

// TestNeighborhoodAllToAll_Validation rejects malformed rounds before any delivery.
func TestNeighborhoodAllToAll_Validation(t *testing.T) {
	env := line(t)
	ctx := context.Background()

	cases := []struct {
		name string
		want error
		make func() map[cluster.NodeID]*cluster.Exchange
	}{
		{"unknown node", cluster.ErrUnknownNode, func() map[cluster.NodeID]*cluster.Exchange {
			return map[cluster.NodeID]*cluster.Exchange{7: cluster.NewExchange(0)}
		}},
		{"send to non-neighbor", cluster.ErrNotNeighbor, func() map[cluster.NodeID]*cluster.Exchange {
			p0, p2 := cluster.NewExchange(1), cluster.NewExchange(1)
			p0.Send[2], p2.Recv[0] = []float64{1}, make([]float64, 1)
			return map[cluster.NodeID]*cluster.Exchange{0: p0, 2: p2}
		}},
		{"peer without payload", cluster.ErrMissingBuffer, func() map[cluster.NodeID]*cluster.Exchange {
			p0 := cluster.NewExchange(1)
			p0.Send[1] = []float64{1}
			return map[cluster.NodeID]*cluster.Exchange{0: p0}
		}},
		{"peer without receive buffer", cluster.ErrMissingBuffer, func() map[cluster.NodeID]*cluster.Exchange {
			p0, p1 := cluster.NewExchange(1), cluster.NewExchange(1)
			p0.Send[1] = []float64{1}
			return map[cluster.NodeID]*cluster.Exchange{0: p0, 1: p1}
		}},
		{"receive without peer send", cluster.ErrMissingBuffer, func() map[cluster.NodeID]*cluster.Exchange {
			p0, p1 := cluster.NewExchange(1), cluster.NewExchange(1)
			p0.Recv[1] = make([]float64, 1)
			return map[cluster.NodeID]*cluster.Exchange{0: p0, 1: p1}
		}},
		{"short receive buffer", cluster.ErrBufferSize, func() map[cluster.NodeID]*cluster.Exchange {
			p0, p1 := cluster.NewExchange(1), cluster.NewExchange(1)
			p0.Send[1], p1.Recv[0] = []float64{1, 2}, make([]float64, 1)
			return map[cluster.NodeID]*cluster.Exchange{0: p0, 1: p1}
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := env.NeighborhoodAllToAll(ctx, c.make(), false)
			require.ErrorIs(t, err, c.want)
		})
	}
}

// TestNeighborhoodAllToAll_Empty accepts a round with nothing to move.
func TestNeighborhoodAllToAll_Empty(t *testing.T) {
	env := line(t)
	require.NoError(t, env.NeighborhoodAllToAll(context.Background(), nil, true))
	require.NoError(t, env.NeighborhoodAllToAll(context.Background(), map[cluster.NodeID]*cluster.Exchange{0: nil}, true))
}
