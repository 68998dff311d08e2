// SPDX-License-Identifier: MIT

package lie

// Pose3 is a rigid transform stored as [qx, qy, qz, qw, tx, ty, tz] with
// tangent [ω, δt].
type Pose3 struct {
	rot Rot3
	t   [3]float64
}

// NewPose3 returns the pose with rotation r and translation t.
func NewPose3(r Rot3, t [3]float64) Pose3 { return Pose3{rot: r, t: t} }

// Pose3Identity returns the identity pose.
func Pose3Identity() Pose3 { return NewPose3(Rot3Identity(), [3]float64{}) }

// Pose3FromStorage builds a Pose3 from seven storage entries.
func Pose3FromStorage(vec []float64) (Pose3, error) {
	if err := Tangent("Pose3.FromStorage", vec, 7); err != nil {
		return Pose3{}, err
	}
	return NewPose3(NewRot3(vec[0], vec[1], vec[2], vec[3]), [3]float64{vec[4], vec[5], vec[6]}), nil
}

// Rotation returns the rotation block.
func (p Pose3) Rotation() Rot3 { return p.rot }

// Position returns the translation block.
func (p Pose3) Position() [3]float64 { return p.t }

// Data returns a copy of the storage.
func (p Pose3) Data() []float64 { return append(p.rot.Data(), p.t[:]...) }

// Pose3FromTangent maps [ω, t] to a pose.
func Pose3FromTangent(vec []float64, epsilon float64) (Pose3, error) {
	if err := Tangent("Pose3.FromTangent", vec, 6); err != nil {
		return Pose3{}, err
	}
	q := quatFromTangent(vec[:3], epsilon)
	return Pose3{rot: Rot3{data: q}, t: [3]float64{vec[3], vec[4], vec[5]}}, nil
}

// ToTangent returns [ω, t].
func (p Pose3) ToTangent(epsilon float64) []float64 {
	w := quatToTangent(p.rot.data, epsilon)
	return []float64{w[0], w[1], w[2], p.t[0], p.t[1], p.t[2]}
}

// Retract applies the rotation block by composition and adds the translation block.
func (p Pose3) Retract(vec []float64, epsilon float64) (Pose3, error) {
	if err := Tangent("Pose3.Retract", vec, 6); err != nil {
		return Pose3{}, err
	}
	return Pose3{
		rot: Rot3{data: quatRetract(p.rot.data, vec, epsilon)},
		t:   [3]float64{p.t[0] + vec[3], p.t[1] + vec[4], p.t[2] + vec[5]},
	}, nil
}

// LocalCoordinates returns [ToTangent(Ra⁻¹Rb), tb - ta].
func (p Pose3) LocalCoordinates(b Pose3, epsilon float64) []float64 {
	w := quatLocalCoordinates(p.rot.data, b.rot.data, epsilon)
	return []float64{w[0], w[1], w[2], -p.t[0] + b.t[0], -p.t[1] + b.t[1], -p.t[2] + b.t[2]}
}

// Interpolate moves alpha of the way from p to b in the tangent space.
func (p Pose3) Interpolate(b Pose3, alpha, epsilon float64) Pose3 {
	return Pose3{
		rot: Rot3{data: quatInterpolate(p.rot.data, b.rot.data, alpha, epsilon)},
		t: [3]float64{
			p.t[0] + alpha*(-p.t[0]+b.t[0]),
			p.t[1] + alpha*(-p.t[1]+b.t[1]),
			p.t[2] + alpha*(-p.t[2]+b.t[2]),
		},
	}
}

// Compose returns the SE(3) product.
func (p Pose3) Compose(b Pose3) Pose3 {
	return Pose3{rot: p.rot.Compose(b.rot), t: p.TransformPoint(b.t)}
}

// Inverse returns (R⁻¹, -R⁻¹t).
func (p Pose3) Inverse() Pose3 {
	inv := p.rot.Inverse()
	t := inv.Rotate(p.t)
	return Pose3{rot: inv, t: [3]float64{-t[0], -t[1], -t[2]}}
}

// Between returns p⁻¹ ∘ b.
func (p Pose3) Between(b Pose3) Pose3 { return p.Inverse().Compose(b) }

// TransformPoint returns R·pt + t.
func (p Pose3) TransformPoint(pt [3]float64) [3]float64 {
	out := p.rot.Rotate(pt)
	return [3]float64{out[0] + p.t[0], out[1] + p.t[1], out[2] + p.t[2]}
}
