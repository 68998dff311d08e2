// SPDX-License-Identifier: MIT

package matrix

import "errors"

// Sentinels returned by every kernel, wrapped with an operation tag.
// Match them with errors.Is.
var (
	// ErrInvalidDimensions is returned by NewDense for non-positive sizes.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrBadShape means a flat buffer does not fill rows×cols.
	ErrBadShape = errors.New("matrix: invalid shape")

	ErrOutOfRange        = errors.New("matrix: index out of range")
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNaNInf is returned by Set under the finite-only policy.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	ErrNilMatrix = errors.New("matrix: nil receiver")

	// ErrSingular means Inverse met an exactly zero pivot.
	ErrSingular = errors.New("matrix: singular matrix")

	ErrAsymmetry = errors.New("matrix: matrix is not symmetric within eps")
)
