// SPDX-License-Identifier: MIT

package sym

import "errors"

var (
	// ErrUnboundSymbol is returned by Eval when a symbol has no value.
	ErrUnboundSymbol = errors.New("sym: unbound symbol")

	// ErrBadShape is returned when a matrix is requested with negative dimensions.
	ErrBadShape = errors.New("sym: invalid shape")

	// ErrDimensionMismatch indicates incompatible operand shapes.
	ErrDimensionMismatch = errors.New("sym: dimension mismatch")
)
