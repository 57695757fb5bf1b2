// SPDX-License-Identifier: MIT

// Package vector - Dense node-local storage.
//
// Purpose:
//   - Contiguous float64 storage for one node's entries.
//   - Bounds-checked At/Set on the public surface; kernels operate on the flat
//     slice and delegate to gonum/floats.
//   - WeightedDot / WeightedSum serve the multiplicity-weighted reductions of
//     distributed vectors.
//
// Complexity quicksheet:
//   - NewDense O(n); At/Set O(1); every kernel O(n).

package vector

import (
	"context"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

const (
	opAt       = "At"
	opSet      = "Set"
	opWeighted = "WeightedDot"
)

// Dense is a node-local vector of float64 values.
type Dense struct {
	data []float64
}

var (
	_ Vector       = (*Dense)(nil)
	_ fmt.Stringer = (*Dense)(nil)
)

// NewDense allocates a zero vector of length n. n == 0 is allowed (a node
// may own no entries).
// Errors: ErrNegativeLength.
func NewDense(n int) (*Dense, error) {
	if n < 0 {
		return nil, ErrNegativeLength
	}

	return &Dense{data: make([]float64, n)}, nil
}

// NewDenseFrom copies values into a new vector.
func NewDenseFrom(values []float64) *Dense {
	data := make([]float64, len(values))
	copy(data, values)

	return &Dense{data: data}
}

// Len returns the number of entries.
func (d *Dense) Len() int { return len(d.data) }

// Kind implements Vector.
func (d *Dense) Kind() Kind { return KindDense }

// Data returns the live backing slice. Writes through it mutate the vector.
func (d *Dense) Data() []float64 { return d.data }

// At returns entry i.
func (d *Dense) At(i int) (float64, error) {
	if i < 0 || i >= len(d.data) {
		return 0, fmt.Errorf("Dense.%s(%d): %w", opAt, i, ErrOutOfRange)
	}

	return d.data[i], nil
}

// Set assigns entry i.
func (d *Dense) Set(i int, v float64) error {
	if i < 0 || i >= len(d.data) {
		return fmt.Errorf("Dense.%s(%d): %w", opSet, i, ErrOutOfRange)
	}
	d.data[i] = v

	return nil
}

// Clone returns a deep copy.
func (d *Dense) Clone() *Dense { return NewDenseFrom(d.data) }

// CloneVector implements Vector.
func (d *Dense) CloneVector() Vector { return d.Clone() }

// Axpy implements Vector: d += alpha*x.
func (d *Dense) Axpy(_ context.Context, alpha float64, x Vector) error {
	xd, err := d.operand("Axpy", x)
	if err != nil {
		return err
	}
	floats.AddScaled(d.data, alpha, xd.data)

	return nil
}

// LinearCombination implements Vector: d = a*d + b*x.
func (d *Dense) LinearCombination(_ context.Context, a, b float64, x Vector) error {
	xd, err := d.operand("LinearCombination", x)
	if err != nil {
		return err
	}
	if a != 1 {
		floats.Scale(a, d.data)
	}
	floats.AddScaled(d.data, b, xd.data)

	return nil
}

// Scale implements Vector.
func (d *Dense) Scale(_ context.Context, alpha float64) error {
	floats.Scale(alpha, d.data)

	return nil
}

// Clear implements Vector.
func (d *Dense) Clear(_ context.Context) error {
	clear(d.data)

	return nil
}

// SetAll implements Vector.
func (d *Dense) SetAll(_ context.Context, value float64) error {
	for i := range d.data {
		d.data[i] = value
	}

	return nil
}

// Negate implements Vector.
func (d *Dense) Negate(_ context.Context) error {
	floats.Scale(-1, d.data)

	return nil
}

// Map implements Vector.
func (d *Dense) Map(_ context.Context, f func(float64) float64) error {
	for i, v := range d.data {
		d.data[i] = f(v)
	}

	return nil
}

// Map2 implements Vector.
func (d *Dense) Map2(_ context.Context, x Vector, f func(a, b float64) float64) error {
	xd, err := d.operand("Map2", x)
	if err != nil {
		return err
	}
	for i, v := range d.data {
		d.data[i] = f(v, xd.data[i])
	}

	return nil
}

// CopyFrom implements Vector.
func (d *Dense) CopyFrom(_ context.Context, x Vector) error {
	xd, err := d.operand("CopyFrom", x)
	if err != nil {
		return err
	}
	copy(d.data, xd.data)

	return nil
}

// Dot implements Vector.
func (d *Dense) Dot(_ context.Context, x Vector) (float64, error) {
	xd, err := d.operand("Dot", x)
	if err != nil {
		return 0, err
	}

	return floats.Dot(d.data, xd.data), nil
}

// Norm2 implements Vector.
func (d *Dense) Norm2(_ context.Context) (float64, error) {
	return floats.Norm(d.data, 2), nil
}

// Sum implements Vector.
func (d *Dense) Sum(_ context.Context) (float64, error) {
	return floats.Sum(d.data), nil
}

// Equal implements Vector.
func (d *Dense) Equal(_ context.Context, x Vector, tol float64) (bool, error) {
	xd, err := d.operand("Equal", x)
	if err != nil {
		return false, err
	}

	return d.MaxAbsDiff(xd) <= tol, nil
}

// WeightedDot returns Σ d[i]*x[i]*w[i].
// Errors: ErrDimensionMismatch unless len(x) == len(w) == Len().
// Complexity: O(n).
func (d *Dense) WeightedDot(x *Dense, w []float64) (float64, error) {
	if x == nil {
		return 0, fmt.Errorf("Dense.%s: %w", opWeighted, ErrNilVector)
	}
	if len(x.data) != len(d.data) || len(w) != len(d.data) {
		return 0, fmt.Errorf("Dense.%s: %w", opWeighted, ErrDimensionMismatch)
	}
	var acc float64
	for i, v := range d.data {
		acc += v * x.data[i] * w[i]
	}

	return acc, nil
}

// WeightedSum returns Σ d[i]*w[i].
// Errors: ErrDimensionMismatch unless len(w) == Len().
func (d *Dense) WeightedSum(w []float64) (float64, error) {
	if len(w) != len(d.data) {
		return 0, fmt.Errorf("Dense.WeightedSum: %w", ErrDimensionMismatch)
	}

	return floats.Dot(d.data, w), nil
}

// MaxAbsDiff returns max |d[i]-x[i]|, or +Inf on length mismatch.
func (d *Dense) MaxAbsDiff(x *Dense) float64 {
	if x == nil || len(x.data) != len(d.data) {
		return math.Inf(1)
	}
	var m float64
	for i, v := range d.data {
		m = math.Max(m, math.Abs(v-x.data[i]))
	}

	return m
}

// String implements fmt.Stringer.
func (d *Dense) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range d.data {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%g", v)
	}
	sb.WriteByte(']')

	return sb.String()
}

// operand checks kind and length of a binary operand and unwraps it.
func (d *Dense) operand(op string, x Vector) (*Dense, error) {
	if err := SameKind(d, x); err != nil {
		return nil, fmt.Errorf("Dense.%s: %w", op, err)
	}
	xd, ok := x.(*Dense)
	if !ok || xd == nil {
		return nil, fmt.Errorf("Dense.%s: %w", op, ErrNilVector)
	}
	if len(xd.data) != len(d.data) {
		return nil, fmt.Errorf("Dense.%s: %d vs %d: %w", op, len(d.data), len(xd.data), ErrDimensionMismatch)
	}

	return xd, nil
}
