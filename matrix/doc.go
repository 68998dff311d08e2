// SPDX-License-Identifier: MIT

// Package matrix provides the dense float64 linear algebra used by numeric
// factors: residual Jacobians, Gauss-Newton Hessians (JᵀJ) and right-hand
// sides (Jᵀr), and block assembly of per-residual Jacobians.
//
// Dense is row-major (offset = i*cols + j). Public accessors never panic;
// they return sentinel errors that callers match with errors.Is.
//
// Zero-area shapes (r×0, 0×c) are legal results of kernels and block
// assembly: a factor whose keys are all held constant has a k×0 Jacobian.
// The public NewDense constructor still rejects them.
//
// Complexity quicksheet:
//   - At/Set: O(1); Clone: O(r*c)
//   - Mul: O(r*n*c); Transpose/Scale/Add/Sub: O(r*c)
//   - Inverse: O(n³), Gauss-Jordan with partial pivoting
//   - Slice: O(block entries)
//   - VStack/HStack: O(total entries)
package matrix
