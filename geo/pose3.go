// SPDX-License-Identifier: MIT

package geo

import (
	"fmt"

	"github.com/katalvlaran/symopt/sym"
)

// KindPose3 is the kind name of Pose3.
const KindPose3 = "Pose3"

// Pose3 is a rigid transform stored as [qx, qy, qz, qw, tx, ty, tz].
// Its tangent space is [ω | δt]: the rotation block retracts through Rot3 and
// the translation block is additive.
type Pose3 struct {
	rot *Rot3
	t   [3]sym.Expr
}

// NewPose3 returns the pose with rotation r and translation t.
func NewPose3(r *Rot3, t [3]sym.Expr) *Pose3 { return &Pose3{rot: r, t: t} }

// Pose3Identity returns the identity pose.
func Pose3Identity() *Pose3 {
	return NewPose3(Rot3Identity(), [3]sym.Expr{sym.N(0), sym.N(0), sym.N(0)})
}

func (p *Pose3) Kind() string       { return KindPose3 }
func (p *Pose3) StorageDim() int    { return 7 }
func (p *Pose3) TangentDim() int    { return 6 }
func (p *Pose3) Identity() LieGroup { return Pose3Identity() }

// Rotation returns the rotation block.
func (p *Pose3) Rotation() *Rot3 { return p.rot }

// Position returns the translation block.
func (p *Pose3) Position() [3]sym.Expr { return p.t }

func (p *Pose3) ToStorage() []sym.Expr {
	return append(p.rot.ToStorage(), p.t[0], p.t[1], p.t[2])
}

func (p *Pose3) FromStorage(entries []sym.Expr) (Element, error) {
	if err := checkShape("Pose3.FromStorage", len(entries), 7); err != nil {
		return nil, err
	}
	return NewPose3(
		NewRot3(entries[0], entries[1], entries[2], entries[3]),
		[3]sym.Expr{entries[4], entries[5], entries[6]},
	), nil
}

func (p *Pose3) FromTangent(vec []sym.Expr, eps sym.Expr) (LieGroup, error) {
	if err := checkShape("Pose3.FromTangent", len(vec), 6); err != nil {
		return nil, err
	}
	return NewPose3(rot3FromTangent(vec[:3], eps), [3]sym.Expr{vec[3], vec[4], vec[5]}), nil
}

func (p *Pose3) ToTangent(eps sym.Expr) []sym.Expr {
	return append(p.rot.ToTangent(eps), p.t[0], p.t[1], p.t[2])
}

func (p *Pose3) Retract(vec []sym.Expr, eps sym.Expr) (LieGroup, error) {
	if err := checkShape("Pose3.Retract", len(vec), 6); err != nil {
		return nil, err
	}
	rot := p.rot.Compose(rot3FromTangent(vec[:3], eps))
	var t [3]sym.Expr
	for i := range t {
		t[i] = sym.AddOf(p.t[i], vec[3+i])
	}
	return NewPose3(rot, t), nil
}

func (p *Pose3) LocalCoordinates(b LieGroup, eps sym.Expr) ([]sym.Expr, error) {
	o, ok := b.(*Pose3)
	if !ok {
		return nil, fmt.Errorf("Pose3.LocalCoordinates(%s): %w", b.Kind(), ErrTypeMismatch)
	}
	out := p.rot.Between(o.rot).ToTangent(eps)
	for i := 0; i < 3; i++ {
		out = append(out, sym.SubOf(o.t[i], p.t[i]))
	}
	return out, nil
}

// Compose returns the SE(3) product p ∘ o.
func (p *Pose3) Compose(o *Pose3) *Pose3 {
	return NewPose3(p.rot.Compose(o.rot), p.TransformPoint(o.t))
}

// Inverse returns the SE(3) inverse (R⁻¹, -R⁻¹t).
func (p *Pose3) Inverse() *Pose3 {
	inv := p.rot.Inverse()
	t := inv.Rotate(p.t)
	for i := range t {
		t[i] = sym.Neg(t[i])
	}
	return NewPose3(inv, t)
}

// Between returns p⁻¹ ∘ o.
func (p *Pose3) Between(o *Pose3) *Pose3 { return p.Inverse().Compose(o) }

// TransformPoint maps a point from the pose frame: R·pt + t.
func (p *Pose3) TransformPoint(pt [3]sym.Expr) [3]sym.Expr {
	out := p.rot.Rotate(pt)
	for i := range out {
		out[i] = sym.AddOf(out[i], p.t[i])
	}
	return out
}
