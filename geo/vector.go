// SPDX-License-Identifier: MIT

package geo

import (
	"fmt"

	"github.com/katalvlaran/symopt/sym"
)

// Kind names of the flat calibration types.
const (
	KindScalar                   = "Scalar"
	KindLinearCameraCal          = "LinearCameraCal"
	KindEquirectangularCameraCal = "EquirectangularCameraCal"
)

// Vector is a flat element: storage and tangent coincide and every operator
// is elementwise. The kind tag distinguishes calibration types of equal size.
type Vector struct {
	kind  string
	elems []sym.Expr
}

// NewVector returns a plain vector of kind "V<n>".
func NewVector(elems ...sym.Expr) *Vector {
	return &Vector{kind: fmt.Sprintf("V%d", len(elems)), elems: copyExprs(elems)}
}

// NewScalar returns a one-element flat value.
func NewScalar(e sym.Expr) *Vector {
	return &Vector{kind: KindScalar, elems: []sym.Expr{e}}
}

// NewLinearCameraCal returns a pinhole calibration [fx, fy, cx, cy].
func NewLinearCameraCal(fx, fy, cx, cy sym.Expr) *Vector {
	return &Vector{kind: KindLinearCameraCal, elems: []sym.Expr{fx, fy, cx, cy}}
}

// NewEquirectangularCameraCal returns an equirectangular calibration [fx, fy, cx, cy].
func NewEquirectangularCameraCal(fx, fy, cx, cy sym.Expr) *Vector {
	return &Vector{kind: KindEquirectangularCameraCal, elems: []sym.Expr{fx, fy, cx, cy}}
}

func (v *Vector) Kind() string          { return v.kind }
func (v *Vector) StorageDim() int       { return len(v.elems) }
func (v *Vector) TangentDim() int       { return len(v.elems) }
func (v *Vector) ToStorage() []sym.Expr { return copyExprs(v.elems) }

// At returns entry i.
func (v *Vector) At(i int) sym.Expr { return v.elems[i] }

func (v *Vector) FromStorage(entries []sym.Expr) (Element, error) {
	if err := checkShape(v.kind+".FromStorage", len(entries), len(v.elems)); err != nil {
		return nil, err
	}
	return &Vector{kind: v.kind, elems: copyExprs(entries)}, nil
}

func (v *Vector) Identity() LieGroup {
	return &Vector{kind: v.kind, elems: zeros(len(v.elems))}
}

func (v *Vector) FromTangent(vec []sym.Expr, _ sym.Expr) (LieGroup, error) {
	if err := checkShape(v.kind+".FromTangent", len(vec), len(v.elems)); err != nil {
		return nil, err
	}
	return &Vector{kind: v.kind, elems: copyExprs(vec)}, nil
}

func (v *Vector) ToTangent(_ sym.Expr) []sym.Expr { return copyExprs(v.elems) }

func (v *Vector) Retract(vec []sym.Expr, _ sym.Expr) (LieGroup, error) {
	if err := checkShape(v.kind+".Retract", len(vec), len(v.elems)); err != nil {
		return nil, err
	}
	out := make([]sym.Expr, len(vec))
	for i := range vec {
		out[i] = sym.AddOf(v.elems[i], vec[i])
	}
	return &Vector{kind: v.kind, elems: out}, nil
}

func (v *Vector) LocalCoordinates(b LieGroup, _ sym.Expr) ([]sym.Expr, error) {
	o, ok := b.(*Vector)
	if !ok || o.kind != v.kind {
		return nil, fmt.Errorf("%s.LocalCoordinates(%s): %w", v.kind, b.Kind(), ErrTypeMismatch)
	}
	out := make([]sym.Expr, len(v.elems))
	for i := range v.elems {
		out[i] = sym.SubOf(o.elems[i], v.elems[i])
	}
	return out, nil
}

// Compose adds elementwise; flat types form an additive group.
func (v *Vector) Compose(o *Vector) (*Vector, error) {
	if o.kind != v.kind {
		return nil, fmt.Errorf("%s.Compose(%s): %w", v.kind, o.kind, ErrTypeMismatch)
	}
	out := make([]sym.Expr, len(v.elems))
	for i := range v.elems {
		out[i] = sym.AddOf(v.elems[i], o.elems[i])
	}
	return &Vector{kind: v.kind, elems: out}, nil
}

// Inverse negates elementwise.
func (v *Vector) Inverse() *Vector {
	out := make([]sym.Expr, len(v.elems))
	for i, e := range v.elems {
		out[i] = sym.Neg(e)
	}
	return &Vector{kind: v.kind, elems: out}
}

// PixelFromCameraPoint projects a camera-frame point through a calibration.
// For LinearCameraCal it is the pinhole model (fx x/z + cx, fy y/z + cy);
// for EquirectangularCameraCal the azimuth atan2(x, z) and elevation
// atan2(y, sqrt(x²+z²)) are scaled and offset.
func (v *Vector) PixelFromCameraPoint(p [3]sym.Expr) ([2]sym.Expr, error) {
	fx, fy, cx, cy := v.elems[0], v.elems[1], v.elems[2], v.elems[3]
	switch v.kind {
	case KindLinearCameraCal:
		invZ := sym.PowOf(p[2], sym.N(-1))
		return [2]sym.Expr{
			sym.AddOf(sym.MulOf(fx, p[0], invZ), cx),
			sym.AddOf(sym.MulOf(fy, p[1], invZ), cy),
		}, nil
	case KindEquirectangularCameraCal:
		azimuth := sym.Atan2Of(p[0], p[2])
		elevation := sym.Atan2Of(p[1], sym.SqrtOf(sym.AddOf(sym.Square(p[0]), sym.Square(p[2]))))
		return [2]sym.Expr{
			sym.AddOf(sym.MulOf(fx, azimuth), cx),
			sym.AddOf(sym.MulOf(fy, elevation), cy),
		}, nil
	}
	return [2]sym.Expr{}, fmt.Errorf("%s.PixelFromCameraPoint: %w", v.kind, ErrTypeMismatch)
}
