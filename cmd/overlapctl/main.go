// SPDX-License-Identifier: MIT

// Command overlapctl inspects and verifies overlapping strip partitions on
// the in-process environment.
//
//	overlapctl inspect --size 10 --nodes 3 --overlap 2
//	overlapctl verify --size 1000 --nodes 8 --overlap 3 --seed 7 --verbose
package main

import (
	"fmt"
	"os"

	"github.com/codegangsta/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "overlapctl"
	app.Usage = "inspect and verify overlapping vector partitions"
	app.Version = "0.1.0"

	app.Commands = []cli.Command{
		Inspect,
		Verify,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "overlapctl:", err)
		os.Exit(1)
	}
}
