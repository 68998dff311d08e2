// SPDX-License-Identifier: MIT

package matrix

import (
	"fmt"
	"math"
)

// ValidateNotNil rejects a nil interface and a typed nil *Dense.
func ValidateNotNil(m Matrix) error {
	if m == nil {
		return ErrNilMatrix
	}
	if d, ok := m.(*Dense); ok && d == nil {
		return ErrNilMatrix
	}

	return nil
}

// sameShape checks both operands for nil and equal dimensions.
func sameShape(a, b Matrix) error {
	if err := ValidateNotNil(a); err != nil {
		return err
	}
	if err := ValidateNotNil(b); err != nil {
		return err
	}
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return fmt.Errorf("%dx%d vs %dx%d: %w", a.Rows(), a.Cols(), b.Rows(), b.Cols(), ErrDimensionMismatch)
	}

	return nil
}

// square checks m for nil and Rows == Cols.
func square(m Matrix) error {
	if err := ValidateNotNil(m); err != nil {
		return err
	}
	if m.Rows() != m.Cols() {
		return fmt.Errorf("%dx%d is not square: %w", m.Rows(), m.Cols(), ErrDimensionMismatch)
	}

	return nil
}

// ValidateSymmetric reports ErrAsymmetry when some |m[i,j] - m[j,i]| exceeds tol.
// Gauss-Newton Hessians pass with tol = 0.
// Errors: ErrNilMatrix, ErrDimensionMismatch, ErrAsymmetry.
func ValidateSymmetric(m Matrix, tol float64) error {
	if err := square(m); err != nil {
		return fmt.Errorf("ValidateSymmetric: %w", err)
	}
	d, err := toDense(m)
	if err != nil {
		return fmt.Errorf("ValidateSymmetric: %w", err)
	}
	for i := 0; i < d.r; i++ {
		for j := i + 1; j < d.c; j++ {
			if math.Abs(d.data[i*d.c+j]-d.data[j*d.c+i]) > tol {
				return fmt.Errorf("ValidateSymmetric: (%d,%d): %w", i, j, ErrAsymmetry)
			}
		}
	}

	return nil
}
