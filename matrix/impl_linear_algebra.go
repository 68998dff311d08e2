// SPDX-License-Identifier: MIT

package matrix

import (
	"fmt"
	"math"
)

// Operation tags for error wrapping.
const (
	opAdd       = "Add"
	opSub       = "Sub"
	opMul       = "Mul"
	opTranspose = "Transpose"
	opScale     = "Scale"
	opMatVec    = "MatVec"
	opInverse   = "Inverse"
)

func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// toDense returns m when it is already a *Dense and a copy read through At otherwise.
func toDense(m Matrix) (*Dense, error) {
	if d, ok := m.(*Dense); ok {
		return d, nil
	}
	out, err := newDenseZeroOK(m.Rows(), m.Cols())
	if err != nil {
		return nil, err
	}
	for i := 0; i < out.r; i++ {
		for j := 0; j < out.c; j++ {
			v, err := m.At(i, j)
			if err != nil {
				return nil, err
			}
			out.data[i*out.c+j] = v
		}
	}

	return out, nil
}

// operands validates and densifies a pair in one step.
func operands(tag string, a, b Matrix, check func(a, b Matrix) error) (*Dense, *Dense, error) {
	if err := check(a, b); err != nil {
		return nil, nil, matrixErrorf(tag, err)
	}
	da, err := toDense(a)
	if err != nil {
		return nil, nil, matrixErrorf(tag, err)
	}
	db, err := toDense(b)
	if err != nil {
		return nil, nil, matrixErrorf(tag, err)
	}

	return da, db, nil
}

func combine(tag string, a, b Matrix, sign float64) (*Dense, error) {
	da, db, err := operands(tag, a, b, sameShape)
	if err != nil {
		return nil, err
	}
	res, _ := newDenseZeroOK(da.r, da.c)
	for i, v := range da.data {
		res.data[i] = v + sign*db.data[i]
	}

	return res, nil
}

// Add returns a + b.
// Errors: ErrNilMatrix, ErrDimensionMismatch.
func Add(a, b Matrix) (*Dense, error) { return combine(opAdd, a, b, 1) }

// Sub returns a - b.
func Sub(a, b Matrix) (*Dense, error) { return combine(opSub, a, b, -1) }

func mulCompatible(a, b Matrix) error {
	if err := ValidateNotNil(a); err != nil {
		return err
	}
	if err := ValidateNotNil(b); err != nil {
		return err
	}
	if a.Cols() != b.Rows() {
		return fmt.Errorf("%dx%d by %dx%d: %w", a.Rows(), a.Cols(), b.Rows(), b.Cols(), ErrDimensionMismatch)
	}

	return nil
}

// Mul returns the product a·b. Zero inner dimensions give a zero matrix.
// Errors: ErrNilMatrix, ErrDimensionMismatch.
func Mul(a, b Matrix) (*Dense, error) {
	da, db, err := operands(opMul, a, b, mulCompatible)
	if err != nil {
		return nil, err
	}
	res, _ := newDenseZeroOK(da.r, db.c)
	for i := 0; i < da.r; i++ {
		row := res.data[i*db.c : (i+1)*db.c]
		for k := 0; k < da.c; k++ {
			av := da.data[i*da.c+k]
			if av == 0 {
				continue
			}
			for j, bv := range db.data[k*db.c : (k+1)*db.c] {
				row[j] += av * bv
			}
		}
	}

	return res, nil
}

// Transpose returns mᵀ.
func Transpose(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	d, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	res, _ := newDenseZeroOK(d.c, d.r)
	for i := 0; i < d.r; i++ {
		for j := 0; j < d.c; j++ {
			res.data[j*d.r+i] = d.data[i*d.c+j]
		}
	}

	return res, nil
}

// Scale returns alpha·m.
func Scale(m Matrix, alpha float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	d, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	res, _ := newDenseZeroOK(d.r, d.c)
	for i, v := range d.data {
		res.data[i] = alpha * v
	}

	return res, nil
}

// MatVec returns m·x.
// Errors: ErrNilMatrix, ErrDimensionMismatch when len(x) != m.Cols().
func MatVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if len(x) != m.Cols() {
		return nil, matrixErrorf(opMatVec, fmt.Errorf("len %d, want %d: %w", len(x), m.Cols(), ErrDimensionMismatch))
	}
	d, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	out := make([]float64, d.r)
	for i := range out {
		var sum float64
		for j, v := range d.data[i*d.c : (i+1)*d.c] {
			sum += v * x[j]
		}
		out[i] = sum
	}

	return out, nil
}

// Inverse returns m⁻¹ by Gauss-Jordan elimination with partial pivoting.
// Ties between pivot candidates go to the lowest row.
// Errors: ErrNilMatrix, ErrDimensionMismatch, ErrSingular on an exactly zero pivot.
func Inverse(m Matrix) (*Dense, error) {
	if err := square(m); err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	src, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	n := src.r
	a := src.Data()
	inv, _ := newDenseZeroOK(n, n)
	for i := 0; i < n; i++ {
		inv.data[i*n+i] = 1
	}
	swap := func(buf []float64, r0, r1 int) {
		for j := 0; j < n; j++ {
			buf[r0*n+j], buf[r1*n+j] = buf[r1*n+j], buf[r0*n+j]
		}
	}

	for col := 0; col < n; col++ {
		p := col
		for r := col + 1; r < n; r++ {
			if math.Abs(a[r*n+col]) > math.Abs(a[p*n+col]) {
				p = r
			}
		}
		if a[p*n+col] == 0 {
			return nil, matrixErrorf(opInverse, ErrSingular)
		}
		if p != col {
			swap(a, p, col)
			swap(inv.data, p, col)
		}
		pivot := a[col*n+col]
		for j := 0; j < n; j++ {
			a[col*n+j] /= pivot
			inv.data[col*n+j] /= pivot
		}
		for r := 0; r < n; r++ {
			f := a[r*n+col]
			if r == col || f == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				a[r*n+j] -= f * a[col*n+j]
				inv.data[r*n+j] -= f * inv.data[col*n+j]
			}
		}
	}

	return inv, nil
}
