// SPDX-License-Identifier: MIT

package codegen

import "errors"

var (
	// ErrUnknownArg is returned when a named argument is not declared.
	ErrUnknownArg = errors.New("codegen: unknown argument")

	// ErrUnknownOutput is returned when a named output is not produced by the body.
	ErrUnknownOutput = errors.New("codegen: unknown output")

	// ErrDuplicateName is returned when two arguments or two outputs share a name.
	ErrDuplicateName = errors.New("codegen: duplicate name")

	// ErrBadArg is returned for an argument with an empty name or nil type.
	ErrBadArg = errors.New("codegen: invalid argument")

	// ErrNotSymbolic is returned when differentiating with respect to an
	// element whose storage entries are not plain symbols.
	ErrNotSymbolic = errors.New("codegen: storage is not symbolic")

	// ErrArity is returned when an evaluator receives the wrong number of inputs.
	ErrArity = errors.New("codegen: wrong number of inputs")

	// ErrCycleDetected is returned if the expression graph is not acyclic.
	ErrCycleDetected = errors.New("codegen: cycle detected")
)
