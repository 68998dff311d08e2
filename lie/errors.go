// SPDX-License-Identifier: MIT

package lie

import (
	"errors"
	"fmt"
)

var (
	// ErrShapeMismatch is returned when a vector does not have the expected size.
	ErrShapeMismatch = errors.New("lie: shape mismatch")

	// ErrUnknownType is returned by Lookup for a type without numeric operators.
	ErrUnknownType = errors.New("lie: unknown type")
)

// ShapeError reports the expected and actual shape of a vector argument.
type ShapeError struct {
	Op         string
	Expected   int
	Rows, Cols int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("lie: %s: vec is expected to have shape (%d, 1) or (%d,); instead had shape (%d, %d)",
		e.Op, e.Expected, e.Expected, e.Rows, e.Cols)
}

// Unwrap lets errors.Is match ErrShapeMismatch.
func (e *ShapeError) Unwrap() error { return ErrShapeMismatch }
