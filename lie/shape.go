// SPDX-License-Identifier: MIT

package lie

import (
	"github.com/katalvlaran/symopt/matrix"
)

// Tangent checks that vec has exactly dim entries.
func Tangent(op string, vec []float64, dim int) error {
	if len(vec) != dim {
		return &ShapeError{Op: op, Expected: dim, Rows: len(vec), Cols: 1}
	}
	return nil
}

// TangentFromMatrix flattens a d×1 or 1×d matrix into a tangent vector.
// Any other shape, including a matching element count in another layout,
// is a ShapeError.
func TangentFromMatrix(op string, m matrix.Matrix, dim int) ([]float64, error) {
	rows, cols := m.Rows(), m.Cols()
	switch {
	case rows == dim && cols == 1:
		out := make([]float64, dim)
		for i := range out {
			v, err := m.At(i, 0)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case rows == 1 && cols == dim:
		out := make([]float64, dim)
		for j := range out {
			v, err := m.At(0, j)
			if err != nil {
				return nil, err
			}
			out[j] = v
		}
		return out, nil
	}
	return nil, &ShapeError{Op: op, Expected: dim, Rows: rows, Cols: cols}
}
