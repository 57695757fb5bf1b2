// SPDX-License-Identifier: MIT

// Package matrix - compressed sparse row storage.
//
// Purpose:
//   - Hold the sparse local stiffness-like matrices that domain decomposition
//     produces per node.
//   - Assemble from coordinate triplets: duplicates summed, columns sorted per
//     row, |v| <= eps dropped.
//
// Complexity quicksheet:
//   - NewCSR: O(nnz log nnz); Apply: O(nnz); At: O(log row-nnz).

package matrix

import (
	"cmp"
	"fmt"
	"slices"
	"sort"
)

const ctxCSR = "NewCSR"

// CSR is an immutable compressed sparse row matrix.
type CSR struct {
	r, c   int
	rowPtr []int     // len r+1
	colIdx []int     // len nnz, ascending within each row
	values []float64 // len nnz
}

var (
	_ Matrix   = (*CSR)(nil)
	_ Operator = (*CSR)(nil)
)

// NewCSR assembles an r×c sparse matrix from triplets.
//
// Implementation:
//   - Stage 1: validate shape, coordinates and (policy) finiteness.
//   - Stage 2: sort a copy of the triplets by (row, col), sum duplicates.
//   - Stage 3: drop |v| <= eps and build row pointers.
//
// Errors: ErrInvalidDimensions, ErrOutOfRange, ErrNaNInf.
func NewCSR(rows, cols int, entries []Triplet, opts ...Option) (*CSR, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("%s: %w", ctxCSR, ErrInvalidDimensions)
	}
	o := gatherOptions(opts...)
	sorted := slices.Clone(entries)
	for _, t := range sorted {
		if t.Row < 0 || t.Row >= rows || t.Col < 0 || t.Col >= cols {
			return nil, fmt.Errorf("%s: (%d,%d): %w", ctxCSR, t.Row, t.Col, ErrOutOfRange)
		}
		if o.validateNaNInf && isNonFinite(t.Value) {
			return nil, fmt.Errorf("%s: (%d,%d): %w", ctxCSR, t.Row, t.Col, ErrNaNInf)
		}
	}
	slices.SortStableFunc(sorted, func(a, b Triplet) int {
		if c := cmp.Compare(a.Row, b.Row); c != 0 {
			return c
		}
		return cmp.Compare(a.Col, b.Col)
	})

	m := &CSR{r: rows, c: cols, rowPtr: make([]int, rows+1)}
	for k := 0; k < len(sorted); {
		t := sorted[k]
		sum := 0.0
		for k < len(sorted) && sorted[k].Row == t.Row && sorted[k].Col == t.Col {
			sum += sorted[k].Value // duplicates are summed
			k++
		}
		if sum <= o.eps && sum >= -o.eps {
			continue
		}
		m.colIdx = append(m.colIdx, t.Col)
		m.values = append(m.values, sum)
		m.rowPtr[t.Row+1]++
	}
	for i := 0; i < rows; i++ {
		m.rowPtr[i+1] += m.rowPtr[i] // prefix sum into row pointers
	}

	return m, nil
}

// Rows returns the number of rows.
func (m *CSR) Rows() int { return m.r }

// Cols returns the number of columns.
func (m *CSR) Cols() int { return m.c }

// NNZ returns the number of stored entries.
func (m *CSR) NNZ() int { return len(m.values) }

// At returns entry (i, j); structural zeros read as 0.
func (m *CSR) At(i, j int) (float64, error) {
	if i < 0 || i >= m.r || j < 0 || j >= m.c {
		return 0, fmt.Errorf("CSR.At(%d,%d): %w", i, j, ErrOutOfRange)
	}
	lo, hi := m.rowPtr[i], m.rowPtr[i+1]
	k := lo + sort.SearchInts(m.colIdx[lo:hi], j)
	if k < hi && m.colIdx[k] == j {
		return m.values[k], nil
	}

	return 0, nil
}

// Clone returns a deep copy.
func (m *CSR) Clone() Matrix {
	return &CSR{
		r:      m.r,
		c:      m.c,
		rowPtr: slices.Clone(m.rowPtr),
		colIdx: slices.Clone(m.colIdx),
		values: slices.Clone(m.values),
	}
}

// Apply implements Operator: y = m·x.
func (m *CSR) Apply(x, y []float64) error {
	if err := ValidateVecLen(x, m.c); err != nil {
		return matrixErrorf("CSR.Apply", err)
	}
	if err := ValidateVecLen(y, m.r); err != nil {
		return matrixErrorf("CSR.Apply", err)
	}
	for i := 0; i < m.r; i++ {
		var acc float64
		for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
			acc += m.values[k] * x[m.colIdx[k]]
		}
		y[i] = acc
	}

	return nil
}
