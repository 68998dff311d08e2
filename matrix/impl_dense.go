// SPDX-License-Identifier: MIT

package matrix

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Method tags used in error wrappers.
const (
	tagAt       = "At"
	tagSet      = "Set"
	tagSlice    = "Slice"
	tagFromData = "FromData"
	tagFromRows = "FromRows"
)

// DefaultValidateNaNInf is the Set policy for matrices created by this package.
const DefaultValidateNaNInf = true

func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a row-major float64 matrix.
type Dense struct {
	r, c           int
	data           []float64 // len == r*c
	validateNaNInf bool      // Set rejects NaN/±Inf when true
}

var (
	_ Matrix       = (*Dense)(nil)
	_ fmt.Stringer = (*Dense)(nil)
)

// NewDense returns a rows×cols zero matrix.
// Errors: ErrInvalidDimensions unless rows > 0 and cols > 0.
func NewDense(rows, cols int) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}

	return newDenseZeroOK(rows, cols)
}

// newDenseZeroOK accepts zero-area shapes; kernels build their results with it.
func newDenseZeroOK(rows, cols int) (*Dense, error) {
	if rows < 0 || cols < 0 {
		return nil, ErrInvalidDimensions
	}

	return &Dense{r: rows, c: cols, data: make([]float64, rows*cols), validateNaNInf: DefaultValidateNaNInf}, nil
}

// NewFromData copies a row-major buffer into a rows×cols matrix. Zero-area
// shapes are accepted and values are not screened for NaN/Inf, so evaluator
// output can be wrapped as-is.
//
// Errors:
//   - ErrInvalidDimensions for negative dimensions.
//   - ErrBadShape when len(data) != rows*cols.
func NewFromData(rows, cols int, data []float64) (*Dense, error) {
	m, err := newDenseZeroOK(rows, cols)
	if err != nil {
		return nil, fmt.Errorf("%s(%d,%d): %w", tagFromData, rows, cols, err)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("%s(%d,%d): len %d: %w", tagFromData, rows, cols, len(data), ErrBadShape)
	}
	copy(m.data, data)

	return m, nil
}

// NewFromRows stacks equal-length rows. No rows gives 0×0.
// Errors: ErrDimensionMismatch for ragged input.
func NewFromRows(rows [][]float64) (*Dense, error) {
	if len(rows) == 0 {
		return newDenseZeroOK(0, 0)
	}
	cols := len(rows[0])
	m, err := newDenseZeroOK(len(rows), cols)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%s: row %d has %d entries, want %d: %w", tagFromRows, i, len(row), cols, ErrDimensionMismatch)
		}
		copy(m.data[i*cols:], row)
	}

	return m, nil
}

// NewIdentity returns Iₙ.
func NewIdentity(n int) (*Dense, error) {
	m, err := NewDense(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}

	return m, nil
}

func (m *Dense) Rows() int { return m.r }
func (m *Dense) Cols() int { return m.c }

// Shape returns (Rows, Cols).
func (m *Dense) Shape() (rows, cols int) { return m.r, m.c }

func (m *Dense) offset(row, col int) (int, error) {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return 0, ErrOutOfRange
	}
	return row*m.c + col, nil
}

// At returns entry (row, col).
// Errors: ErrOutOfRange.
func (m *Dense) At(row, col int) (float64, error) {
	off, err := m.offset(row, col)
	if err != nil {
		return 0, denseErrorf(tagAt, row, col, err)
	}

	return m.data[off], nil
}

// Set writes entry (row, col).
// Errors: ErrOutOfRange, or ErrNaNInf when the finite-only policy is on.
func (m *Dense) Set(row, col int, v float64) error {
	off, err := m.offset(row, col)
	if err != nil {
		return denseErrorf(tagSet, row, col, err)
	}
	if m.validateNaNInf && (math.IsNaN(v) || math.IsInf(v, 0)) {
		return denseErrorf(tagSet, row, col, ErrNaNInf)
	}
	m.data[off] = v

	return nil
}

// Clone returns an independent copy with the same Set policy.
func (m *Dense) Clone() Matrix {
	return &Dense{r: m.r, c: m.c, data: m.Data(), validateNaNInf: m.validateNaNInf}
}

// Data returns a row-major copy of the entries.
func (m *Dense) Data() []float64 {
	out := make([]float64, len(m.data))
	copy(out, m.data)

	return out
}

// String prints one bracketed row per line, e.g. "[1, 2.5]\n[3, 4]\n".
func (m *Dense) String() string {
	var b strings.Builder
	for i := 0; i < m.r; i++ {
		b.WriteByte('[')
		for j := 0; j < m.c; j++ {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.FormatFloat(m.data[i*m.c+j], 'g', -1, 64))
		}
		b.WriteString("]\n")
	}

	return b.String()
}

// Slice copies rows [r0, r1) and columns [c0, c1). Empty ranges are legal;
// per-key Jacobian blocks are cut out of a factor Jacobian this way.
// Errors: ErrOutOfRange when a range is reversed or exceeds the shape.
func (m *Dense) Slice(r0, r1, c0, c1 int) (*Dense, error) {
	if r0 < 0 || r1 < r0 || r1 > m.r || c0 < 0 || c1 < c0 || c1 > m.c {
		return nil, fmt.Errorf("Dense.%s([%d:%d],[%d:%d]) of %dx%d: %w", tagSlice, r0, r1, c0, c1, m.r, m.c, ErrOutOfRange)
	}
	res, _ := newDenseZeroOK(r1-r0, c1-c0)
	res.validateNaNInf = m.validateNaNInf
	for i := r0; i < r1; i++ {
		copy(res.data[(i-r0)*res.c:(i-r0+1)*res.c], m.data[i*m.c+c0:i*m.c+c1])
	}

	return res, nil
}
