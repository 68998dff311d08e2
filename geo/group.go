// SPDX-License-Identifier: MIT

package geo

import (
	"fmt"

	"github.com/katalvlaran/symopt/sym"
)

// Compose returns a·b for two elements of the same group type.
// Flat types compose by addition.
//
// Errors: ErrTypeMismatch when the kinds differ, ErrNoGroup for a type
// without group operators.
func Compose(a, b LieGroup) (LieGroup, error) {
	switch x := a.(type) {
	case *Rot3:
		y, ok := b.(*Rot3)
		if !ok {
			return nil, fmt.Errorf("Compose(%s, %s): %w", a.Kind(), b.Kind(), ErrTypeMismatch)
		}
		return x.Compose(y), nil
	case *Pose3:
		y, ok := b.(*Pose3)
		if !ok {
			return nil, fmt.Errorf("Compose(%s, %s): %w", a.Kind(), b.Kind(), ErrTypeMismatch)
		}
		return x.Compose(y), nil
	case *Vector:
		y, ok := b.(*Vector)
		if !ok {
			return nil, fmt.Errorf("Compose(%s, %s): %w", a.Kind(), b.Kind(), ErrTypeMismatch)
		}
		out, err := x.Compose(y)
		if err != nil {
			return nil, err
		}
		return out, nil
	}
	return nil, fmt.Errorf("Compose(%s): %w", a.Kind(), ErrNoGroup)
}

// Inverse returns a⁻¹.
// Errors: ErrNoGroup for a type without group operators.
func Inverse(a LieGroup) (LieGroup, error) {
	switch x := a.(type) {
	case *Rot3:
		return x.Inverse(), nil
	case *Pose3:
		return x.Inverse(), nil
	case *Vector:
		return x.Inverse(), nil
	}
	return nil, fmt.Errorf("Inverse(%s): %w", a.Kind(), ErrNoGroup)
}

// Between returns a⁻¹·b.
func Between(a, b LieGroup) (LieGroup, error) {
	inv, err := Inverse(a)
	if err != nil {
		return nil, fmt.Errorf("Between: %w", err)
	}
	out, err := Compose(inv, b)
	if err != nil {
		return nil, fmt.Errorf("Between: %w", err)
	}
	return out, nil
}

// BetweenResidual is sqrtInfo · LocalCoordinates(aTb, Between(a, b)), the
// whitened error between the measured relative transform aTb and the one
// implied by a and b. sqrtInfo must be TangentDim×TangentDim.
//
// Errors: a *ShapeError for a badly sized sqrtInfo, plus the errors of Between.
func BetweenResidual(a, b, aTb LieGroup, sqrtInfo *Matrix, eps sym.Expr) ([]sym.Expr, error) {
	n := a.TangentDim()
	if sqrtInfo == nil {
		return nil, &ShapeError{Op: "BetweenResidual(sqrt_info)", Expected: n * n}
	}
	if sqrtInfo.rows != n || sqrtInfo.cols != n {
		return nil, &ShapeError{Op: "BetweenResidual(sqrt_info)", Expected: n * n, Actual: sqrtInfo.rows * sqrtInfo.cols}
	}
	predicted, err := Between(a, b)
	if err != nil {
		return nil, fmt.Errorf("BetweenResidual: %w", err)
	}
	tangent, err := aTb.LocalCoordinates(predicted, eps)
	if err != nil {
		return nil, fmt.Errorf("BetweenResidual: %w", err)
	}
	res, err := sqrtInfo.Sym().Mul(sym.Column(tangent...))
	if err != nil {
		return nil, fmt.Errorf("BetweenResidual: %w", err)
	}
	return res.Data(), nil
}
