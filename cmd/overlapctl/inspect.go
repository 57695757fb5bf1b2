// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/codegangsta/cli"
)

// InspectAction prints the overlap structure of a strip partition.
var InspectAction = func(c *cli.Context) error {
	s, err := buildSetup(c)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NODE\tENTRIES\tPRIVATE\tNEIGHBORS\tSHARED")
	for _, id := range s.index.Nodes() {
		li, err := s.index.Local(id)
		if err != nil {
			return err
		}
		shared := make([]int, 0, len(li.Neighbors()))
		for _, nb := range li.Neighbors() {
			shared = append(shared, li.SharedCount(nb))
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%v\n", id, li.Size(), li.PrivateCount(), li.Neighbors(), shared)
	}
	if err = w.Flush(); err != nil {
		return err
	}

	unique, err := s.index.CountUniqueEntries(context.Background())
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "unique entries: %d\nstored entries: %d\n", unique, s.index.LocalEntryCount())

	return nil
}

// Inspect is the `overlapctl inspect` command.
var Inspect = cli.Command{
	Name:   "inspect",
	Usage:  "print per-node sizes, neighbors and shared counts of a strip partition",
	Flags:  layoutFlags,
	Action: InspectAction,
}
