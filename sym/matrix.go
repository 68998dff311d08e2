// SPDX-License-Identifier: MIT

package sym

import (
	"fmt"
	"strings"
)

// Matrix is a dense row-major matrix of expressions.
// Zero-sized dimensions are legal; they arise for Jacobians with no columns.
type Matrix struct {
	rows, cols int
	data       []Expr
}

// NewMatrix returns a rows×cols matrix filled with the constant 0.
func NewMatrix(rows, cols int) (*Matrix, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("NewMatrix(%d,%d): %w", rows, cols, ErrBadShape)
	}
	data := make([]Expr, rows*cols)
	zero := N(0)
	for i := range data {
		data[i] = zero
	}
	return &Matrix{rows: rows, cols: cols, data: data}, nil
}

// Column returns the len(entries)×1 column vector of entries.
func Column(entries ...Expr) *Matrix {
	data := make([]Expr, len(entries))
	copy(data, entries)
	return &Matrix{rows: len(entries), cols: 1, data: data}
}

// MatrixFromRows builds a matrix from row slices of equal length.
func MatrixFromRows(rows [][]Expr) (*Matrix, error) {
	if len(rows) == 0 {
		return &Matrix{}, nil
	}
	cols := len(rows[0])
	data := make([]Expr, 0, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("MatrixFromRows: row %d has %d entries, want %d: %w", i, len(r), cols, ErrDimensionMismatch)
		}
		data = append(data, r...)
	}
	return &Matrix{rows: len(rows), cols: cols, data: data}, nil
}

func (m *Matrix) Rows() int { return m.rows }
func (m *Matrix) Cols() int { return m.cols }

func (m *Matrix) checkBounds(row, col int) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("sym: index (%d,%d) out of range for %dx%d matrix", row, col, m.rows, m.cols))
	}
}

// At returns the entry at (row, col). It panics when out of range.
func (m *Matrix) At(row, col int) Expr {
	m.checkBounds(row, col)
	return m.data[row*m.cols+col]
}

// Set stores e at (row, col). It panics when out of range.
func (m *Matrix) Set(row, col int, e Expr) {
	m.checkBounds(row, col)
	m.data[row*m.cols+col] = e
}

// Data returns a row-major copy of the entries.
func (m *Matrix) Data() []Expr {
	out := make([]Expr, len(m.data))
	copy(out, m.data)
	return out
}

// Transpose returns mᵀ.
func (m *Matrix) Transpose() *Matrix {
	out := &Matrix{rows: m.cols, cols: m.rows, data: make([]Expr, len(m.data))}
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			out.data[j*m.rows+i] = m.data[i*m.cols+j]
		}
	}
	return out
}

// Mul returns the matrix product m × o.
func (m *Matrix) Mul(o *Matrix) (*Matrix, error) {
	if m.cols != o.rows {
		return nil, fmt.Errorf("Matrix.Mul(%dx%d, %dx%d): %w", m.rows, m.cols, o.rows, o.cols, ErrDimensionMismatch)
	}
	out := &Matrix{rows: m.rows, cols: o.cols, data: make([]Expr, m.rows*o.cols)}
	terms := make([]Expr, 0, m.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < o.cols; j++ {
			terms = terms[:0]
			for k := 0; k < m.cols; k++ {
				a, b := m.data[i*m.cols+k], o.data[k*o.cols+j]
				if IsZero(a) || IsZero(b) {
					continue
				}
				terms = append(terms, MulOf(a, b))
			}
			out.data[i*o.cols+j] = AddOf(terms...)
		}
	}
	return out, nil
}

// Apply returns a new matrix with fn applied to every entry.
func (m *Matrix) Apply(fn func(Expr) Expr) *Matrix {
	out := &Matrix{rows: m.rows, cols: m.cols, data: make([]Expr, len(m.data))}
	for i, e := range m.data {
		out.data[i] = fn(e)
	}
	return out
}

// VStack stacks blocks vertically; all blocks must share a column count.
func VStack(blocks ...*Matrix) (*Matrix, error) {
	if len(blocks) == 0 {
		return &Matrix{}, nil
	}
	cols := blocks[0].cols
	rows := 0
	for i, b := range blocks {
		if b.cols != cols {
			return nil, fmt.Errorf("VStack: block %d has %d cols, want %d: %w", i, b.cols, cols, ErrDimensionMismatch)
		}
		rows += b.rows
	}
	data := make([]Expr, 0, rows*cols)
	for _, b := range blocks {
		data = append(data, b.data...)
	}
	return &Matrix{rows: rows, cols: cols, data: data}, nil
}

// HStack places blocks side by side; all blocks must share a row count.
func HStack(blocks ...*Matrix) (*Matrix, error) {
	if len(blocks) == 0 {
		return &Matrix{}, nil
	}
	rows := blocks[0].rows
	cols := 0
	for i, b := range blocks {
		if b.rows != rows {
			return nil, fmt.Errorf("HStack: block %d has %d rows, want %d: %w", i, b.rows, rows, ErrDimensionMismatch)
		}
		cols += b.cols
	}
	out := &Matrix{rows: rows, cols: cols, data: make([]Expr, rows*cols)}
	offset := 0
	for _, b := range blocks {
		for i := 0; i < rows; i++ {
			for j := 0; j < b.cols; j++ {
				out.data[i*cols+offset+j] = b.data[i*b.cols+j]
			}
		}
		offset += b.cols
	}
	return out, nil
}

// Jacobian returns the len(outputs)×len(names) matrix of partial derivatives.
func Jacobian(outputs []Expr, names []string) *Matrix {
	out := &Matrix{rows: len(outputs), cols: len(names), data: make([]Expr, len(outputs)*len(names))}
	for i, e := range outputs {
		for j, n := range names {
			out.data[i*len(names)+j] = Diff(e, n)
		}
	}
	return out
}

func (m *Matrix) String() string {
	var b strings.Builder
	for i := 0; i < m.rows; i++ {
		b.WriteString("[")
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(m.data[i*m.cols+j].String())
		}
		b.WriteString("]\n")
	}
	return b.String()
}
