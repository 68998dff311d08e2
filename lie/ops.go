// SPDX-License-Identifier: MIT

package lie

import (
	"fmt"
	"strconv"
	"strings"
)

// Ops exposes the tangent space operators of one type on raw storage slices.
type Ops interface {
	StorageDim() int
	TangentDim() int
	FromTangent(vec []float64, epsilon float64) ([]float64, error)
	ToTangent(a []float64, epsilon float64) ([]float64, error)
	Retract(a, vec []float64, epsilon float64) ([]float64, error)
	LocalCoordinates(a, b []float64, epsilon float64) ([]float64, error)
	Interpolate(a, b []float64, alpha, epsilon float64) ([]float64, error)
}

// Lookup returns the operators for a type name as reported by geo.Element.Kind:
// "Rot3", "Pose3", "LinearCameraCal", "EquirectangularCameraCal", "Scalar" or "V<n>".
func Lookup(kind string) (Ops, error) {
	switch kind {
	case "Rot3":
		return rot3Ops{}, nil
	case "Pose3":
		return pose3Ops{}, nil
	case "LinearCameraCal", "EquirectangularCameraCal":
		return flatOps{name: kind, dim: 4}, nil
	case "Scalar":
		return flatOps{name: kind, dim: 1}, nil
	}
	if n, err := strconv.Atoi(strings.TrimPrefix(kind, "V")); err == nil && strings.HasPrefix(kind, "V") && n >= 0 {
		return flatOps{name: kind, dim: n}, nil
	}
	return nil, fmt.Errorf("Lookup(%q): %w", kind, ErrUnknownType)
}

type rot3Ops struct{}

func (rot3Ops) StorageDim() int { return 4 }
func (rot3Ops) TangentDim() int { return 3 }

func (rot3Ops) FromTangent(vec []float64, epsilon float64) ([]float64, error) {
	r, err := Rot3FromTangent(vec, epsilon)
	if err != nil {
		return nil, err
	}
	return r.Data(), nil
}

func (rot3Ops) ToTangent(a []float64, epsilon float64) ([]float64, error) {
	r, err := Rot3FromStorage(a)
	if err != nil {
		return nil, err
	}
	return r.ToTangent(epsilon), nil
}

func (rot3Ops) Retract(a, vec []float64, epsilon float64) ([]float64, error) {
	r, err := Rot3FromStorage(a)
	if err != nil {
		return nil, err
	}
	out, err := r.Retract(vec, epsilon)
	if err != nil {
		return nil, err
	}
	return out.Data(), nil
}

func (rot3Ops) LocalCoordinates(a, b []float64, epsilon float64) ([]float64, error) {
	ra, err := Rot3FromStorage(a)
	if err != nil {
		return nil, err
	}
	rb, err := Rot3FromStorage(b)
	if err != nil {
		return nil, err
	}
	return ra.LocalCoordinates(rb, epsilon), nil
}

func (rot3Ops) Interpolate(a, b []float64, alpha, epsilon float64) ([]float64, error) {
	ra, err := Rot3FromStorage(a)
	if err != nil {
		return nil, err
	}
	rb, err := Rot3FromStorage(b)
	if err != nil {
		return nil, err
	}
	return ra.Interpolate(rb, alpha, epsilon).Data(), nil
}

type pose3Ops struct{}

func (pose3Ops) StorageDim() int { return 7 }
func (pose3Ops) TangentDim() int { return 6 }

func (pose3Ops) FromTangent(vec []float64, epsilon float64) ([]float64, error) {
	p, err := Pose3FromTangent(vec, epsilon)
	if err != nil {
		return nil, err
	}
	return p.Data(), nil
}

func (pose3Ops) ToTangent(a []float64, epsilon float64) ([]float64, error) {
	p, err := Pose3FromStorage(a)
	if err != nil {
		return nil, err
	}
	return p.ToTangent(epsilon), nil
}

func (pose3Ops) Retract(a, vec []float64, epsilon float64) ([]float64, error) {
	p, err := Pose3FromStorage(a)
	if err != nil {
		return nil, err
	}
	out, err := p.Retract(vec, epsilon)
	if err != nil {
		return nil, err
	}
	return out.Data(), nil
}

func (pose3Ops) LocalCoordinates(a, b []float64, epsilon float64) ([]float64, error) {
	pa, err := Pose3FromStorage(a)
	if err != nil {
		return nil, err
	}
	pb, err := Pose3FromStorage(b)
	if err != nil {
		return nil, err
	}
	return pa.LocalCoordinates(pb, epsilon), nil
}

func (pose3Ops) Interpolate(a, b []float64, alpha, epsilon float64) ([]float64, error) {
	pa, err := Pose3FromStorage(a)
	if err != nil {
		return nil, err
	}
	pb, err := Pose3FromStorage(b)
	if err != nil {
		return nil, err
	}
	return pa.Interpolate(pb, alpha, epsilon).Data(), nil
}

// flatOps serves every flat type; storage and tangent coincide.
type flatOps struct {
	name string
	dim  int
}

func (f flatOps) StorageDim() int { return f.dim }
func (f flatOps) TangentDim() int { return f.dim }

func (f flatOps) FromTangent(vec []float64, _ float64) ([]float64, error) {
	if err := Tangent(f.name+".FromTangent", vec, f.dim); err != nil {
		return nil, err
	}
	return append([]float64(nil), vec...), nil
}

func (f flatOps) ToTangent(a []float64, _ float64) ([]float64, error) {
	if err := Tangent(f.name+".ToTangent", a, f.dim); err != nil {
		return nil, err
	}
	return append([]float64(nil), a...), nil
}

func (f flatOps) Retract(a, vec []float64, _ float64) ([]float64, error) {
	if err := Tangent(f.name+".Retract", a, f.dim); err != nil {
		return nil, err
	}
	if err := Tangent(f.name+".Retract", vec, f.dim); err != nil {
		return nil, err
	}
	out := make([]float64, f.dim)
	for i := range out {
		out[i] = a[i] + vec[i]
	}
	return out, nil
}

func (f flatOps) LocalCoordinates(a, b []float64, _ float64) ([]float64, error) {
	if err := Tangent(f.name+".LocalCoordinates", a, f.dim); err != nil {
		return nil, err
	}
	if err := Tangent(f.name+".LocalCoordinates", b, f.dim); err != nil {
		return nil, err
	}
	out := make([]float64, f.dim)
	for i := range out {
		out[i] = -a[i] + b[i]
	}
	return out, nil
}

func (f flatOps) Interpolate(a, b []float64, alpha, _ float64) ([]float64, error) {
	if err := Tangent(f.name+".Interpolate", a, f.dim); err != nil {
		return nil, err
	}
	if err := Tangent(f.name+".Interpolate", b, f.dim); err != nil {
		return nil, err
	}
	out := make([]float64, f.dim)
	for i := range out {
		out[i] = a[i] + alpha*(-a[i]+b[i])
	}
	return out, nil
}
