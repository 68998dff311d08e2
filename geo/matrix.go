// SPDX-License-Identifier: MIT

package geo

import (
	"fmt"

	"github.com/katalvlaran/symopt/sym"
)

// Matrix is a storage-only element holding a row-major matrix of expressions.
// It has no tangent space; it usually carries constants such as square-root
// information matrices.
type Matrix struct {
	rows, cols int
	data       []sym.Expr
}

// NewMatrix wraps a sym.Matrix as an element.
func NewMatrix(m *sym.Matrix) *Matrix {
	return &Matrix{rows: m.Rows(), cols: m.Cols(), data: m.Data()}
}

func (m *Matrix) Kind() string          { return fmt.Sprintf("Matrix%dx%d", m.rows, m.cols) }
func (m *Matrix) StorageDim() int       { return len(m.data) }
func (m *Matrix) ToStorage() []sym.Expr { return copyExprs(m.data) }

func (m *Matrix) FromStorage(entries []sym.Expr) (Element, error) {
	if err := checkShape(m.Kind()+".FromStorage", len(entries), len(m.data)); err != nil {
		return nil, err
	}
	return &Matrix{rows: m.rows, cols: m.cols, data: copyExprs(entries)}, nil
}

// Sym returns the matrix as a sym.Matrix.
func (m *Matrix) Sym() *sym.Matrix {
	rows := make([][]sym.Expr, m.rows)
	for i := range rows {
		rows[i] = m.data[i*m.cols : (i+1)*m.cols]
	}
	out, _ := sym.MatrixFromRows(rows)
	return out
}
