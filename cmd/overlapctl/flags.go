// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"

	"github.com/codegangsta/cli"

	"github.com/katalvlaran/overlap/cluster"
	"github.com/katalvlaran/overlap/overlap"
	"github.com/katalvlaran/overlap/partition"
)

// layoutFlags are shared by every command that builds a strip partition.
var layoutFlags = []cli.Flag{
	cli.IntFlag{Name: "size, s", Value: 10, Usage: "number of global entries"},
	cli.IntFlag{Name: "nodes, n", Value: 2, Usage: "number of nodes (strips)"},
	cli.IntFlag{Name: "overlap, w", Value: 1, Usage: "entries shared between consecutive strips"},
	cli.IntFlag{Name: "parallelism, p", Value: cluster.DefaultParallelism, Usage: "max concurrent node tasks, 0 for one goroutine per node"},
	cli.BoolFlag{Name: "verbose", Usage: "log every collective at debug level"},
}

// setup is what a command needs to run against one strip partition.
type setup struct {
	layout *partition.Layout
	env    *cluster.Local
	index  *overlap.Indexer
	stats  *cluster.BasicStats
	log    *cluster.Logger
}

// newLogger returns the CLI logger: warnings only unless verbose.
func newLogger(verbose bool) *cluster.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	return cluster.NewTextLogger(level)
}

// buildSetup reads the layout flags and constructs partition, environment and indexer.
func buildSetup(c *cli.Context) (*setup, error) {
	size, nodes, width := c.Int("size"), c.Int("nodes"), c.Int("overlap")
	parallelism := c.Int("parallelism")
	if parallelism < 0 {
		return nil, fmt.Errorf("--parallelism must be >= 0, got %d", parallelism)
	}

	if nodes <= 0 {
		return nil, fmt.Errorf("--nodes must be > 0, got %d", nodes)
	}

	ids := make([]cluster.NodeID, nodes)
	for i := range ids {
		ids[i] = cluster.NodeID(i)
	}
	layout, err := partition.Strip(size, ids, width)
	if err != nil {
		return nil, err
	}

	s := &setup{layout: layout, stats: &cluster.BasicStats{}, log: newLogger(c.Bool("verbose"))}
	s.env, err = layout.Environment(
		cluster.WithParallelism(parallelism),
		cluster.WithLogger(s.log),
		cluster.WithStats(s.stats),
	)
	if err != nil {
		return nil, err
	}
	if s.index, err = layout.Indexer(s.env); err != nil {
		return nil, err
	}
	s.log.Debug("partition built", "size", size, "nodes", nodes, "overlap", width)

	return s, nil
}
