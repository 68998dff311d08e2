// SPDX-License-Identifier: MIT

package geo

import (
	"errors"
	"fmt"
)

var (
	// ErrShapeMismatch is returned when a storage or tangent vector has the wrong size.
	ErrShapeMismatch = errors.New("geo: shape mismatch")

	// ErrTypeMismatch is returned when two operands are of different geometric types.
	ErrTypeMismatch = errors.New("geo: type mismatch")

	// ErrNoTangentSpace is returned when tangent-space operators are requested
	// for an element that has none.
	ErrNoTangentSpace = errors.New("geo: element has no tangent space")

	// ErrNoGroup is returned by Compose, Inverse and Between for a type
	// without group operators.
	ErrNoGroup = errors.New("geo: element has no group operators")
)

// ShapeError reports the expected and actual length of a column vector argument.
type ShapeError struct {
	Op       string
	Expected int
	Actual   int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("geo: %s expected shape (%d, 1), got (%d, 1)", e.Op, e.Expected, e.Actual)
}

// Unwrap lets errors.Is match ErrShapeMismatch.
func (e *ShapeError) Unwrap() error { return ErrShapeMismatch }

func checkShape(op string, got, want int) error {
	if got != want {
		return &ShapeError{Op: op, Expected: want, Actual: got}
	}
	return nil
}
