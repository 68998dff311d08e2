// SPDX-License-Identifier: MIT

package lie

import "math"

// Rot3 is a unit quaternion stored as [x, y, z, w].
type Rot3 struct {
	data [4]float64
}

// NewRot3 returns the rotation with the given quaternion coefficients.
func NewRot3(x, y, z, w float64) Rot3 { return Rot3{data: [4]float64{x, y, z, w}} }

// Rot3Identity returns [0, 0, 0, 1].
func Rot3Identity() Rot3 { return NewRot3(0, 0, 0, 1) }

// Rot3FromStorage builds a Rot3 from four storage entries.
func Rot3FromStorage(vec []float64) (Rot3, error) {
	if err := Tangent("Rot3.FromStorage", vec, 4); err != nil {
		return Rot3{}, err
	}
	return NewRot3(vec[0], vec[1], vec[2], vec[3]), nil
}

// Data returns a copy of the storage.
func (r Rot3) Data() []float64 { return append([]float64(nil), r.data[:]...) }

// Rot3FromTangent is the exponential map of a rotation vector.
func Rot3FromTangent(vec []float64, epsilon float64) (Rot3, error) {
	if err := Tangent("Rot3.FromTangent", vec, 3); err != nil {
		return Rot3{}, err
	}
	return Rot3{data: quatFromTangent(vec, epsilon)}, nil
}

// ToTangent is the logarithm map.
func (r Rot3) ToTangent(epsilon float64) []float64 {
	res := quatToTangent(r.data, epsilon)
	return res[:]
}

// Retract returns r ∘ FromTangent(vec).
func (r Rot3) Retract(vec []float64, epsilon float64) (Rot3, error) {
	if err := Tangent("Rot3.Retract", vec, 3); err != nil {
		return Rot3{}, err
	}
	return Rot3{data: quatRetract(r.data, vec, epsilon)}, nil
}

// LocalCoordinates returns ToTangent(r⁻¹ ∘ b).
func (r Rot3) LocalCoordinates(b Rot3, epsilon float64) []float64 {
	res := quatLocalCoordinates(r.data, b.data, epsilon)
	return res[:]
}

// Interpolate returns Retract(r, alpha·LocalCoordinates(r, b)).
func (r Rot3) Interpolate(b Rot3, alpha, epsilon float64) Rot3 {
	return Rot3{data: quatInterpolate(r.data, b.data, alpha, epsilon)}
}

// Compose returns the Hamilton product r ∘ b.
func (r Rot3) Compose(b Rot3) Rot3 { return Rot3{data: quatCompose(r.data, b.data)} }

// Inverse returns the conjugate.
func (r Rot3) Inverse() Rot3 {
	return NewRot3(-r.data[0], -r.data[1], -r.data[2], r.data[3])
}

// Between returns r⁻¹ ∘ b.
func (r Rot3) Between(b Rot3) Rot3 { return r.Inverse().Compose(b) }

// Rotate applies the rotation to a point.
func (r Rot3) Rotate(p [3]float64) [3]float64 {
	x, y, z, w := r.data[0], r.data[1], r.data[2], r.data[3]
	return [3]float64{
		(1-2*(y*y+z*z))*p[0] + 2*(x*y-z*w)*p[1] + 2*(x*z+y*w)*p[2],
		2*(x*y+z*w)*p[0] + (1-2*(x*x+z*z))*p[1] + 2*(y*z-x*w)*p[2],
		2*(x*z-y*w)*p[0] + 2*(y*z+x*w)*p[1] + (1-2*(x*x+y*y))*p[2],
	}
}

// The quat* kernels below mirror the generated expressions term for term.

func quatFromTangent(vec []float64, epsilon float64) [4]float64 {
	tmp0 := math.Sqrt(epsilon*epsilon + vec[0]*vec[0] + vec[1]*vec[1] + vec[2]*vec[2])
	tmp1 := (1.0 / 2.0) * tmp0
	tmp2 := math.Sin(tmp1) / tmp0
	return [4]float64{tmp2 * vec[0], tmp2 * vec[1], tmp2 * vec[2], math.Cos(tmp1)}
}

func quatToTangent(a [4]float64, epsilon float64) [3]float64 {
	tmp0 := math.Min(math.Abs(a[3]), 1-epsilon)
	tmp1 := 2 * math.Copysign(1, a[3]) * math.Acos(tmp0) / math.Sqrt(1-tmp0*tmp0)
	return [3]float64{a[0] * tmp1, a[1] * tmp1, a[2] * tmp1}
}

func quatRetract(a [4]float64, vec []float64, epsilon float64) [4]float64 {
	tmp0 := math.Sqrt(epsilon*epsilon + vec[0]*vec[0] + vec[1]*vec[1] + vec[2]*vec[2])
	tmp1 := (1.0 / 2.0) * tmp0
	tmp2 := math.Cos(tmp1)
	tmp3 := math.Sin(tmp1) / tmp0
	tmp4 := a[3] * tmp3
	tmp5 := a[2] * tmp3
	tmp6 := tmp3 * vec[2]
	tmp7 := a[0] * tmp3
	tmp8 := a[1] * tmp3
	return [4]float64{
		a[0]*tmp2 + a[1]*tmp6 + tmp4*vec[0] - tmp5*vec[1],
		a[1]*tmp2 + tmp4*vec[1] + tmp5*vec[0] - tmp7*vec[2],
		a[2]*tmp2 + a[3]*tmp6 + tmp7*vec[1] - tmp8*vec[0],
		-a[2]*tmp6 + a[3]*tmp2 - tmp7*vec[0] - tmp8*vec[1],
	}
}

func quatLocalCoordinates(a, b [4]float64, epsilon float64) [3]float64 {
	tmp0 := -a[0]*b[0] - a[1]*b[1] - a[2]*b[2]
	tmp1 := a[3] * b[3]
	tmp2 := math.Min(1-epsilon, math.Abs(tmp0-tmp1))
	tmp3 := 2 * math.Copysign(1, -tmp0+tmp1) * math.Acos(tmp2) / math.Sqrt(1-tmp2*tmp2)
	return [3]float64{
		tmp3 * (-a[0]*b[3] - a[1]*b[2] + a[2]*b[1] + a[3]*b[0]),
		tmp3 * (a[0]*b[2] - a[1]*b[3] - a[2]*b[0] + a[3]*b[1]),
		tmp3 * (-a[0]*b[1] + a[1]*b[0] - a[2]*b[3] + a[3]*b[2]),
	}
}

func quatInterpolate(a, b [4]float64, alpha, epsilon float64) [4]float64 {
	tmp0 := a[0]*b[2] - a[1]*b[3] - a[2]*b[0] + a[3]*b[1]
	tmp1 := -a[0]*b[0] - a[1]*b[1] - a[2]*b[2]
	tmp2 := a[3] * b[3]
	tmp3 := math.Copysign(1, -tmp1+tmp2)
	tmp4 := math.Min(1-epsilon, math.Abs(tmp1-tmp2))
	tmp5 := math.Acos(tmp4)
	tmp6 := -a[0]*b[3] - a[1]*b[2] + a[2]*b[1] + a[3]*b[0]
	tmp7 := 1 - tmp4*tmp4
	tmp8 := 4 * tmp3 * tmp3 * tmp5 * tmp5 * alpha * alpha / tmp7
	tmp9 := -a[0]*b[1] + a[1]*b[0] - a[2]*b[3] + a[3]*b[2]
	tmp10 := math.Sqrt(tmp0*tmp0*tmp8 + tmp6*tmp6*tmp8 + tmp8*tmp9*tmp9 + epsilon*epsilon)
	tmp11 := (1.0 / 2.0) * tmp10
	tmp12 := 2 * tmp3 * tmp5 * alpha * math.Sin(tmp11) / (tmp10 * math.Sqrt(tmp7))
	tmp13 := a[2] * tmp12
	tmp14 := math.Cos(tmp11)
	tmp15 := a[1] * tmp12
	tmp16 := a[3] * tmp12
	tmp17 := a[0] * tmp12
	return [4]float64{
		a[0]*tmp14 - tmp0*tmp13 + tmp15*tmp9 + tmp16*tmp6,
		a[1]*tmp14 + tmp0*tmp16 + tmp13*tmp6 - tmp17*tmp9,
		a[2]*tmp14 + tmp0*tmp17 - tmp15*tmp6 + tmp16*tmp9,
		a[3]*tmp14 - tmp0*tmp15 - tmp13*tmp9 - tmp17*tmp6,
	}
}

func quatCompose(a, b [4]float64) [4]float64 {
	return [4]float64{
		a[3]*b[0] + a[0]*b[3] + a[1]*b[2] - a[2]*b[1],
		a[3]*b[1] - a[0]*b[2] + a[1]*b[3] + a[2]*b[0],
		a[3]*b[2] + a[0]*b[1] - a[1]*b[0] + a[2]*b[3],
		a[3]*b[3] - a[0]*b[0] - a[1]*b[1] - a[2]*b[2],
	}
}
