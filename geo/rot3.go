// SPDX-License-Identifier: MIT

package geo

import (
	"fmt"

	"github.com/katalvlaran/symopt/sym"
)

// KindRot3 is the kind name of Rot3.
const KindRot3 = "Rot3"

// Rot3 is a 3D rotation stored as a unit quaternion [x, y, z, w].
type Rot3 struct {
	x, y, z, w sym.Expr
}

// NewRot3 returns the rotation with quaternion coefficients (x, y, z, w).
// The quaternion is not normalized.
func NewRot3(x, y, z, w sym.Expr) *Rot3 { return &Rot3{x: x, y: y, z: z, w: w} }

// Rot3Identity returns the identity rotation [0, 0, 0, 1].
func Rot3Identity() *Rot3 { return NewRot3(sym.N(0), sym.N(0), sym.N(0), sym.N(1)) }

func (r *Rot3) Kind() string          { return KindRot3 }
func (r *Rot3) StorageDim() int       { return 4 }
func (r *Rot3) TangentDim() int       { return 3 }
func (r *Rot3) ToStorage() []sym.Expr { return []sym.Expr{r.x, r.y, r.z, r.w} }
func (r *Rot3) Identity() LieGroup    { return Rot3Identity() }

func (r *Rot3) FromStorage(entries []sym.Expr) (Element, error) {
	if err := checkShape("Rot3.FromStorage", len(entries), 4); err != nil {
		return nil, err
	}
	return NewRot3(entries[0], entries[1], entries[2], entries[3]), nil
}

// FromTangent is the exponential map of the rotation vector vec:
//
//	n = sqrt(ε² + |v|²),  q = (sin(n/2)/n · v, cos(n/2))
func (r *Rot3) FromTangent(vec []sym.Expr, eps sym.Expr) (LieGroup, error) {
	if err := checkShape("Rot3.FromTangent", len(vec), 3); err != nil {
		return nil, err
	}
	return rot3FromTangent(vec, eps), nil
}

func rot3FromTangent(v []sym.Expr, eps sym.Expr) *Rot3 {
	norm := sym.SqrtOf(sym.AddOf(sym.Square(eps), sym.Square(v[0]), sym.Square(v[1]), sym.Square(v[2])))
	half := sym.MulOf(sym.F(1, 2), norm)
	s := sym.DivOf(sym.SinOf(half), norm)
	return NewRot3(sym.MulOf(s, v[0]), sym.MulOf(s, v[1]), sym.MulOf(s, v[2]), sym.CosOf(half))
}

// ToTangent is the logarithm map:
//
//	t = min(|w|, 1-ε),  v = 2·copysign(1, w)·acos(t)/sqrt(1-t²) · (x, y, z)
func (r *Rot3) ToTangent(eps sym.Expr) []sym.Expr {
	t := sym.MinOf(sym.AbsOf(r.w), sym.SubOf(sym.N(1), eps))
	f := sym.DivOf(
		sym.MulOf(sym.N(2), sym.CopysignOf(sym.N(1), r.w), sym.AcosOf(t)),
		sym.SqrtOf(sym.SubOf(sym.N(1), sym.Square(t))),
	)
	return []sym.Expr{sym.MulOf(f, r.x), sym.MulOf(f, r.y), sym.MulOf(f, r.z)}
}

func (r *Rot3) Retract(vec []sym.Expr, eps sym.Expr) (LieGroup, error) {
	if err := checkShape("Rot3.Retract", len(vec), 3); err != nil {
		return nil, err
	}
	return r.Compose(rot3FromTangent(vec, eps)), nil
}

func (r *Rot3) LocalCoordinates(b LieGroup, eps sym.Expr) ([]sym.Expr, error) {
	o, ok := b.(*Rot3)
	if !ok {
		return nil, fmt.Errorf("Rot3.LocalCoordinates(%s): %w", b.Kind(), ErrTypeMismatch)
	}
	return r.Between(o).ToTangent(eps), nil
}

// Compose returns the Hamilton product r ∘ o.
func (r *Rot3) Compose(o *Rot3) *Rot3 {
	return NewRot3(
		sym.AddOf(sym.MulOf(r.w, o.x), sym.MulOf(r.x, o.w), sym.MulOf(r.y, o.z), sym.Neg(sym.MulOf(r.z, o.y))),
		sym.AddOf(sym.MulOf(r.w, o.y), sym.Neg(sym.MulOf(r.x, o.z)), sym.MulOf(r.y, o.w), sym.MulOf(r.z, o.x)),
		sym.AddOf(sym.MulOf(r.w, o.z), sym.MulOf(r.x, o.y), sym.Neg(sym.MulOf(r.y, o.x)), sym.MulOf(r.z, o.w)),
		sym.AddOf(sym.MulOf(r.w, o.w), sym.Neg(sym.MulOf(r.x, o.x)), sym.Neg(sym.MulOf(r.y, o.y)), sym.Neg(sym.MulOf(r.z, o.z))),
	)
}

// Inverse returns the conjugate quaternion.
func (r *Rot3) Inverse() *Rot3 { return NewRot3(sym.Neg(r.x), sym.Neg(r.y), sym.Neg(r.z), r.w) }

// Between returns r⁻¹ ∘ o.
func (r *Rot3) Between(o *Rot3) *Rot3 { return r.Inverse().Compose(o) }

// Matrix returns the 3×3 rotation matrix of a unit quaternion.
func (r *Rot3) Matrix() *sym.Matrix {
	two := sym.N(2)
	one := sym.N(1)
	x, y, z, w := r.x, r.y, r.z, r.w
	m, _ := sym.MatrixFromRows([][]sym.Expr{
		{
			sym.SubOf(one, sym.MulOf(two, sym.AddOf(sym.Square(y), sym.Square(z)))),
			sym.MulOf(two, sym.SubOf(sym.MulOf(x, y), sym.MulOf(z, w))),
			sym.MulOf(two, sym.AddOf(sym.MulOf(x, z), sym.MulOf(y, w))),
		},
		{
			sym.MulOf(two, sym.AddOf(sym.MulOf(x, y), sym.MulOf(z, w))),
			sym.SubOf(one, sym.MulOf(two, sym.AddOf(sym.Square(x), sym.Square(z)))),
			sym.MulOf(two, sym.SubOf(sym.MulOf(y, z), sym.MulOf(x, w))),
		},
		{
			sym.MulOf(two, sym.SubOf(sym.MulOf(x, z), sym.MulOf(y, w))),
			sym.MulOf(two, sym.AddOf(sym.MulOf(y, z), sym.MulOf(x, w))),
			sym.SubOf(one, sym.MulOf(two, sym.AddOf(sym.Square(x), sym.Square(y)))),
		},
	})
	return m
}

// Rotate applies the rotation to a point.
func (r *Rot3) Rotate(p [3]sym.Expr) [3]sym.Expr {
	m := r.Matrix()
	var out [3]sym.Expr
	for i := 0; i < 3; i++ {
		out[i] = sym.AddOf(sym.MulOf(m.At(i, 0), p[0]), sym.MulOf(m.At(i, 1), p[1]), sym.MulOf(m.At(i, 2), p[2]))
	}
	return out
}
