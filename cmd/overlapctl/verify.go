// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/codegangsta/cli"
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/overlap/overlap"
	"github.com/katalvlaran/overlap/vector"
)

const verifyTolerance = 1e-9

var errVerifyFailed = errors.New("verification failed")

// check is one named verification step.
type check struct {
	name string
	run  func(ctx context.Context, s *setup, rng *rand.Rand) (string, bool, error)
}

var checks = []check{
	{"multiplicity conservation", checkConservation},
	{"dot product", checkDot},
	{"norm", checkNorm},
	{"halo sum", checkHaloSum},
	{"average consistency", checkAverage},
}

// VerifyAction compares distributed results with the assembled global ones.
var VerifyAction = func(c *cli.Context) error {
	s, err := buildSetup(c)
	if err != nil {
		return err
	}
	seed := uint64(c.Int("seed"))
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	ctx := context.Background()

	failed := 0
	for _, ch := range checks {
		detail, ok, err := ch.run(ctx, s, rng)
		if err != nil {
			return fmt.Errorf("%s: %w", ch.name, err)
		}
		status := "ok"
		if !ok {
			status = "FAIL"
			failed++
			s.log.Warn("check failed", "check", ch.name, "detail", detail)
		}
		fmt.Fprintf(c.App.Writer, "%-26s %-4s %s\n", ch.name, status, detail)
	}
	fmt.Fprintf(c.App.Writer, "collectives: runs=%d reductions=%d exchanges=%d values=%d\n",
		s.stats.Runs.Load(), s.stats.Reductions.Load(), s.stats.Exchanges.Load(), s.stats.ValuesMoved.Load())
	if failed > 0 {
		return fmt.Errorf("%d of %d checks: %w", failed, len(checks), errVerifyFailed)
	}

	return nil
}

// Verify is the `overlapctl verify` command.
var Verify = cli.Command{
	Name:  "verify",
	Usage: "check distributed dot, norm and halo protocols against the assembled global vector",
	Flags: append([]cli.Flag{
		cli.IntFlag{Name: "seed", Value: 1, Usage: "random seed for the test vectors"},
	}, layoutFlags...),
	Action: VerifyAction,
}

func randomGlobal(rng *rand.Rand, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.Float64()*2 - 1
	}

	return out
}

func approxEqual(want, got float64) bool {
	return math.Abs(want-got) <= verifyTolerance*math.Max(1, math.Abs(want))
}

func checkConservation(ctx context.Context, s *setup, _ *rand.Rand) (string, bool, error) {
	var total float64
	for _, id := range s.index.Nodes() {
		li, err := s.index.Local(id)
		if err != nil {
			return "", false, err
		}
		total += floats.Sum(li.InverseMultiplicities())
	}
	unique, err := s.index.CountUniqueEntries(ctx)
	if err != nil {
		return "", false, err
	}
	detail := fmt.Sprintf("Σ 1/m = %.6f, unique = %d, global = %d", total, unique, s.layout.GlobalSize)

	return detail, approxEqual(float64(unique), total) && unique == s.layout.GlobalSize, nil
}

func checkDot(ctx context.Context, s *setup, rng *rand.Rand) (string, bool, error) {
	x, y := randomGlobal(rng, s.layout.GlobalSize), randomGlobal(rng, s.layout.GlobalSize)
	xv, err := s.layout.Scatter(ctx, s.index, x)
	if err != nil {
		return "", false, err
	}
	yv, err := s.layout.Scatter(ctx, s.index, y)
	if err != nil {
		return "", false, err
	}
	got, err := xv.Dot(ctx, yv)
	if err != nil {
		return "", false, err
	}
	want := floats.Dot(x, y)

	return fmt.Sprintf("distributed %.12g, global %.12g", got, want), approxEqual(want, got), nil
}

func checkNorm(ctx context.Context, s *setup, rng *rand.Rand) (string, bool, error) {
	x := randomGlobal(rng, s.layout.GlobalSize)
	xv, err := s.layout.Scatter(ctx, s.index, x)
	if err != nil {
		return "", false, err
	}
	got, err := xv.Norm2(ctx)
	if err != nil {
		return "", false, err
	}
	want := floats.Norm(x, 2)

	return fmt.Sprintf("distributed %.12g, global %.12g", got, want), approxEqual(want, got), nil
}

// divergent fills every node with independent random values.
func divergent(ctx context.Context, s *setup, rng *rand.Rand) (*overlap.Vector, error) {
	values := make(map[int][]float64)
	for _, id := range s.index.Nodes() {
		li, err := s.index.Local(id)
		if err != nil {
			return nil, err
		}
		values[int(id)] = randomGlobal(rng, li.Size()) // drawn sequentially for reproducibility
	}

	return overlap.NewVectorFunc(ctx, s.index, func(_ context.Context, li *overlap.LocalIndexer) (*vector.Dense, error) {
		return vector.NewDenseFrom(values[int(li.Node())]), nil
	})
}

func checkHaloSum(ctx context.Context, s *setup, rng *rand.Rand) (string, bool, error) {
	v, err := divergent(ctx, s, rng)
	if err != nil {
		return "", false, err
	}
	want, err := s.layout.Assemble(v)
	if err != nil {
		return "", false, err
	}
	if err = v.SumOverlappingEntries(ctx); err != nil {
		return "", false, err
	}
	got, err := s.layout.Gather(v)
	if err != nil {
		return "", false, err
	}
	diff := 0.0
	for i := range want {
		diff = math.Max(diff, math.Abs(want[i]-got[i]))
	}
	consistent := v.CheckConsistency(ctx, verifyTolerance) == nil

	return fmt.Sprintf("max |assembled - distributed| = %.3g", diff), diff <= verifyTolerance && consistent, nil
}

func checkAverage(ctx context.Context, s *setup, rng *rand.Rand) (string, bool, error) {
	v, err := divergent(ctx, s, rng)
	if err != nil {
		return "", false, err
	}
	if err = v.AverageOverlappingEntries(ctx); err != nil {
		return "", false, err
	}
	err = v.CheckConsistency(ctx, verifyTolerance)
	if errors.Is(err, overlap.ErrInconsistentOverlap) {
		return "shared copies disagree", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return "every shared entry agrees", true, nil
}
