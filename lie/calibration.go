// SPDX-License-Identifier: MIT

package lie

// LinearCameraCal is a pinhole calibration [fx, fy, cx, cy].
type LinearCameraCal [4]float64

// EquirectangularCameraCal is an equirectangular calibration [fx, fy, cx, cy].
type EquirectangularCameraCal [4]float64

// Data returns a copy of the storage.
func (c LinearCameraCal) Data() []float64 { return append([]float64(nil), c[:]...) }

// ToTangent returns the storage; the type is flat.
func (c LinearCameraCal) ToTangent(float64) []float64 { return c.Data() }

// Retract adds vec elementwise.
func (c LinearCameraCal) Retract(vec []float64, _ float64) (LinearCameraCal, error) {
	out, err := flatRetract("LinearCameraCal.Retract", c, vec)
	return LinearCameraCal(out), err
}

// LocalCoordinates returns b - c.
func (c LinearCameraCal) LocalCoordinates(b LinearCameraCal, _ float64) []float64 {
	return flatLocalCoordinates(c, b)
}

// Interpolate returns c + alpha(b - c).
func (c LinearCameraCal) Interpolate(b LinearCameraCal, alpha, _ float64) LinearCameraCal {
	return LinearCameraCal(flatInterpolate(c, b, alpha))
}

// LinearCameraCalFromTangent copies a 4-vector.
func LinearCameraCalFromTangent(vec []float64, _ float64) (LinearCameraCal, error) {
	out, err := flatFromTangent("LinearCameraCal.FromTangent", vec)
	return LinearCameraCal(out), err
}

// PixelFromCameraPoint applies the pinhole model.
func (c LinearCameraCal) PixelFromCameraPoint(p [3]float64) [2]float64 {
	return [2]float64{c[0]*p[0]/p[2] + c[2], c[1]*p[1]/p[2] + c[3]}
}

// Data returns a copy of the storage.
func (c EquirectangularCameraCal) Data() []float64 { return append([]float64(nil), c[:]...) }

// ToTangent returns the storage; the type is flat.
func (c EquirectangularCameraCal) ToTangent(float64) []float64 { return c.Data() }

// Retract adds vec elementwise.
func (c EquirectangularCameraCal) Retract(vec []float64, _ float64) (EquirectangularCameraCal, error) {
	out, err := flatRetract("EquirectangularCameraCal.Retract", c, vec)
	return EquirectangularCameraCal(out), err
}

// LocalCoordinates returns b - c.
func (c EquirectangularCameraCal) LocalCoordinates(b EquirectangularCameraCal, _ float64) []float64 {
	return flatLocalCoordinates(c, b)
}

// Interpolate returns c + alpha(b - c).
func (c EquirectangularCameraCal) Interpolate(b EquirectangularCameraCal, alpha, _ float64) EquirectangularCameraCal {
	return EquirectangularCameraCal(flatInterpolate(c, b, alpha))
}

// EquirectangularCameraCalFromTangent copies a 4-vector.
func EquirectangularCameraCalFromTangent(vec []float64, _ float64) (EquirectangularCameraCal, error) {
	out, err := flatFromTangent("EquirectangularCameraCal.FromTangent", vec)
	return EquirectangularCameraCal(out), err
}

func flatFromTangent(op string, vec []float64) ([4]float64, error) {
	if err := Tangent(op, vec, 4); err != nil {
		return [4]float64{}, err
	}
	return [4]float64{vec[0], vec[1], vec[2], vec[3]}, nil
}

func flatRetract(op string, a [4]float64, vec []float64) ([4]float64, error) {
	if err := Tangent(op, vec, 4); err != nil {
		return a, err
	}
	return [4]float64{a[0] + vec[0], a[1] + vec[1], a[2] + vec[2], a[3] + vec[3]}, nil
}

func flatLocalCoordinates(a, b [4]float64) []float64 {
	return []float64{-a[0] + b[0], -a[1] + b[1], -a[2] + b[2], -a[3] + b[3]}
}

func flatInterpolate(a, b [4]float64, alpha float64) [4]float64 {
	return [4]float64{
		a[0] + alpha*(-a[0]+b[0]),
		a[1] + alpha*(-a[1]+b[1]),
		a[2] + alpha*(-a[2]+b[2]),
		a[3] + alpha*(-a[3]+b[3]),
	}
}
