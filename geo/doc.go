// SPDX-License-Identifier: MIT

// Package geo provides the symbolic geometric types whose closed-form tangent
// space operators the code generator differentiates.
//
// Every type implements Element (a fixed-size storage vector of sym.Expr).
// Types with a tangent space additionally implement LieGroup:
//
//	FromTangent(vec, ε)        exponential map at the identity
//	ToTangent(ε)               logarithm map at the identity
//	Retract(vec, ε)            a ∘ FromTangent(vec), per block for composites
//	LocalCoordinates(b, ε)     ToTangent(a⁻¹ ∘ b), so Retract(a, it) ≈ b
//
// Interpolate(a, b, α, ε) is Retract(a, α·LocalCoordinates(a, b)).
//
// Numeric stability:
//
//   - Norms of tangent vectors are regularized as sqrt(ε² + Σvᵢ²), so the
//     exponential map degrades smoothly to first order at zero.
//   - The logarithm clamps the quaternion scalar with min(|w|, 1-ε) before
//     acos, and picks the half of the double cover with copysign(1, w).
//
// Types:
//
//   - Rot3      unit quaternion [x y z w]; tangent dim 3
//   - Pose3     [Rot3 | t]; tangent [ω | δt]; each block retracts with its own operator
//   - Vector    flat vector of any size (also Scalar, LinearCameraCal,
//     EquirectangularCameraCal); all operators are elementwise
//   - Matrix    storage only; requesting a tangent space for it is a configuration error
package geo
