// SPDX-License-Identifier: MIT

package opt

import "errors"

var (
	// ErrBadKey is returned for an empty key or a key with an empty segment.
	ErrBadKey = errors.New("opt: invalid key")

	// ErrKeyConflict is returned when a key would replace a subtree by a leaf or vice versa.
	ErrKeyConflict = errors.New("opt: key conflicts with existing entry")

	// ErrKeyNotFound is returned when a key is not present.
	ErrKeyNotFound = errors.New("opt: key not found")

	// ErrDuplicateName is returned for repeated subproblem names.
	ErrDuplicateName = errors.New("opt: duplicate subproblem name")

	// ErrUnknownInput is returned when a residual mentions a symbol that is not
	// part of any input.
	ErrUnknownInput = errors.New("opt: residual uses undeclared input")

	// ErrOptimizedValueMismatch is returned when an optimized value does not match
	// the input found under its storage.
	ErrOptimizedValueMismatch = errors.New("opt: optimized value does not match input")

	// ErrNoResiduals is returned when the problem is built without residual blocks.
	ErrNoResiduals = errors.New("opt: no residual blocks")
)
