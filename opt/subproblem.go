// SPDX-License-Identifier: MIT

package opt

import (
	"fmt"

	"github.com/katalvlaran/symopt/geo"
)

// SubProblem is a named group of inputs, some of which are optimized.
type SubProblem interface {
	Name() string
	// Inputs returns the symbolic inputs keyed relative to the subproblem.
	Inputs() *Values[geo.Element]
	// OptimizedValues returns the inputs the solver should update.
	OptimizedValues() []geo.Element
}

// BaseSubProblem is a SubProblem built incrementally with AddInput.
type BaseSubProblem struct {
	name      string
	inputs    *Values[geo.Element]
	optimized []geo.Element
}

// NewBaseSubProblem returns an empty subproblem.
func NewBaseSubProblem(name string) *BaseSubProblem {
	return &BaseSubProblem{name: name, inputs: NewValues[geo.Element]()}
}

func (s *BaseSubProblem) Name() string                   { return s.name }
func (s *BaseSubProblem) Inputs() *Values[geo.Element]   { return s.inputs }
func (s *BaseSubProblem) OptimizedValues() []geo.Element { return append([]geo.Element(nil), s.optimized...) }

// AddInput declares a symbolic input of proto's type under key. Its storage
// symbols are named "<subproblem>.<key>[i]".
func (s *BaseSubProblem) AddInput(key string, proto geo.Element, optimized bool) (geo.Element, error) {
	el, err := Declare(s.inputs, s.name, key, proto)
	if err != nil {
		return nil, fmt.Errorf("%s.AddInput: %w", s.name, err)
	}
	if optimized {
		s.optimized = append(s.optimized, el)
	}
	return el, nil
}

// Declare stores a symbolic element of proto's type under key in values and
// returns it. Storage symbols are prefixed with prefix + "." + key, or key
// alone when prefix is empty.
func Declare(values *Values[geo.Element], prefix, key string, proto geo.Element) (geo.Element, error) {
	name := key
	if prefix != "" {
		name = prefix + "." + key
	}
	el, err := geo.Symbolic(proto, name)
	if err != nil {
		return nil, err
	}
	if err := values.Set(key, el); err != nil {
		return nil, err
	}
	return el, nil
}
