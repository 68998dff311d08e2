// SPDX-License-Identifier: MIT

// Package lie implements the closed-form tangent space operators of the
// geometric types on float64 storage.
//
// The formulas are the ones the code generator emits for the symbolic
// types in package geo, temporaries included, so numeric callers and
// generated code agree bit for bit:
//
//	Rot3.FromTangent:  n = sqrt(ε² + |v|²); q = (sin(n/2)/n·v, cos(n/2))
//	Rot3.ToTangent:    t = min(|w|, 1-ε); v = 2·copysign(1,w)·acos(t)/sqrt(1-t²)·(x,y,z)
//
// Pose3 applies the rotation operators to its first four storage entries and
// plain vector arithmetic to the translation. LinearCameraCal and
// EquirectangularCameraCal are flat: all operators are elementwise.
//
// Tangent vectors are []float64 of exactly the tangent dimension. Callers
// holding column or row matrices use TangentFromMatrix, which accepts d×1 and
// 1×d and rejects every other shape.
package lie
