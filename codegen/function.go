// SPDX-License-Identifier: MIT

package codegen

import (
	"context"
	"fmt"
	"strings"

	"github.com/katalvlaran/symopt/geo"
	"github.com/katalvlaran/symopt/sym"
)

// EpsilonName is the argument name that supplies the regularization epsilon.
const EpsilonName = "epsilon"

// Arg declares a typed input. Type is used as a prototype only.
type Arg struct {
	Name string
	Type geo.Element
}

// Output is a named symbolic result.
type Output struct {
	Name  string
	Value geo.Element
}

// Operation is one CSE temporary: Name = Expr.
type Operation struct {
	Name string
	Expr sym.Expr
}

// Body computes the outputs of a function from its symbolic inputs.
type Body func(in *Inputs) ([]Output, error)

// Inputs exposes the placeholder elements handed to a Body.
type Inputs struct {
	names []string
	elems []geo.Element
	eps   sym.Expr
}

// Len returns the number of arguments.
func (in *Inputs) Len() int { return len(in.elems) }

// At returns argument i.
func (in *Inputs) At(i int) geo.Element { return in.elems[i] }

// Get returns the argument named name, or nil.
func (in *Inputs) Get(name string) geo.Element {
	for i, n := range in.names {
		if n == name {
			return in.elems[i]
		}
	}
	return nil
}

// LieGroup returns the argument named name as a geo.LieGroup.
func (in *Inputs) LieGroup(name string) (geo.LieGroup, error) {
	el := in.Get(name)
	if el == nil {
		return nil, fmt.Errorf("Inputs.LieGroup(%s): %w", name, ErrUnknownArg)
	}
	return geo.AsLieGroup(el)
}

// Epsilon returns the epsilon symbol when an "epsilon" argument is declared,
// otherwise the configured numeric default.
func (in *Inputs) Epsilon() sym.Expr { return in.eps }

// Function is a generated routine: ordered CSE operations followed by outputs
// expressed over inputs and temporaries.
type Function struct {
	name    string
	args    []Arg
	inputs  *Inputs
	outputs []Output
	ops     []Operation
	results [][]sym.Expr
	opts    options
}

// NewFunction runs body once over symbolic placeholders and reduces the result.
//
// Errors:
//   - ErrBadArg for an empty name or nil type, or a non-scalar epsilon argument.
//   - ErrDuplicateName for repeated argument or output names.
//   - sym.ErrUnboundSymbol when an output mentions a symbol that is not an input.
//   - any error returned by body.
func NewFunction(name string, args []Arg, body Body, opts ...Option) (*Function, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger.WithFunction(name)

	in, err := buildInputs(name, args, o.epsilon)
	if err != nil {
		log.LogGenerate(o.ctx, name, 0, 0, err)
		return nil, err
	}
	outputs, err := body(in)
	if err != nil {
		err = fmt.Errorf("NewFunction(%s): %w", name, err)
		log.LogGenerate(o.ctx, name, 0, 0, err)
		return nil, err
	}

	fn, err := assemble(name, args, in, outputs, o)
	if err != nil {
		log.LogGenerate(o.ctx, name, 0, 0, err)
		return nil, err
	}
	log.LogGenerate(o.ctx, name, len(fn.ops), fn.OpCount(), nil)

	return fn, nil
}

func buildInputs(name string, args []Arg, defaultEps float64) (*Inputs, error) {
	in := &Inputs{
		names: make([]string, len(args)),
		elems: make([]geo.Element, len(args)),
		eps:   sym.NFloat(defaultEps),
	}
	seen := make(map[string]bool, len(args))
	for i, a := range args {
		if a.Name == "" || a.Type == nil {
			return nil, fmt.Errorf("NewFunction(%s): argument %d: %w", name, i, ErrBadArg)
		}
		if seen[a.Name] {
			return nil, fmt.Errorf("NewFunction(%s): argument %q: %w", name, a.Name, ErrDuplicateName)
		}
		seen[a.Name] = true

		el, err := geo.Symbolic(a.Type, a.Name)
		if err != nil {
			return nil, fmt.Errorf("NewFunction(%s): argument %q: %w", name, a.Name, err)
		}
		in.names[i] = a.Name
		in.elems[i] = el

		if a.Name == EpsilonName {
			if el.StorageDim() != 1 {
				return nil, fmt.Errorf("NewFunction(%s): epsilon must be scalar, got %s: %w", name, el.Kind(), ErrBadArg)
			}
			in.eps = el.ToStorage()[0]
		}
	}

	return in, nil
}

// assemble validates outputs and runs CSE. It does not call a body, which
// lets WithJacobians extend an existing function.
func assemble(name string, args []Arg, in *Inputs, outputs []Output, o options) (*Function, error) {
	bound := make(map[string]bool)
	for _, el := range in.elems {
		for _, e := range el.ToStorage() {
			bound[e.String()] = true
		}
	}

	seen := make(map[string]bool, len(outputs))
	groups := make([][]sym.Expr, len(outputs))
	for i, out := range outputs {
		if out.Name == "" || out.Value == nil {
			return nil, fmt.Errorf("NewFunction(%s): output %d: %w", name, i, ErrBadArg)
		}
		if seen[out.Name] {
			return nil, fmt.Errorf("NewFunction(%s): output %q: %w", name, out.Name, ErrDuplicateName)
		}
		seen[out.Name] = true
		groups[i] = out.Value.ToStorage()
		for _, s := range sym.FreeSymbols(groups[i]...) {
			if !bound[s] {
				return nil, fmt.Errorf("NewFunction(%s): output %q uses %s: %w", name, out.Name, s, sym.ErrUnboundSymbol)
			}
		}
	}

	red, err := eliminate(o.ctx, groups, o.cse)
	if err != nil {
		return nil, fmt.Errorf("NewFunction(%s): %w", name, err)
	}
	// The cancel context only bounds this construction.
	o.ctx = context.Background()

	return &Function{
		name:    name,
		args:    append([]Arg(nil), args...),
		inputs:  in,
		outputs: append([]Output(nil), outputs...),
		ops:     red.ops,
		results: red.results,
		opts:    o,
	}, nil
}

// Name returns the function name.
func (f *Function) Name() string { return f.name }

// Args returns the declared arguments in order.
func (f *Function) Args() []Arg { return append([]Arg(nil), f.args...) }

// Inputs returns the symbolic placeholders.
func (f *Function) Inputs() *Inputs { return f.inputs }

// Epsilon returns the epsilon expression used by the body.
func (f *Function) Epsilon() sym.Expr { return f.inputs.eps }

// Operations returns the CSE temporaries in emission order.
func (f *Function) Operations() []Operation { return append([]Operation(nil), f.ops...) }

// Outputs returns the outputs as produced by the body, before CSE.
func (f *Function) Outputs() []Output { return append([]Output(nil), f.outputs...) }

// Output returns the named output.
func (f *Function) Output(name string) (Output, error) {
	for _, o := range f.outputs {
		if o.Name == name {
			return o, nil
		}
	}
	return Output{}, fmt.Errorf("Function(%s).Output(%s): %w", f.name, name, ErrUnknownOutput)
}

// Results returns the storage entries of output i rewritten over temporaries.
func (f *Function) Results(i int) []sym.Expr { return append([]sym.Expr(nil), f.results[i]...) }

// OpCount returns the number of arithmetic operations in the reduced form.
func (f *Function) OpCount() int {
	n := 0
	for _, op := range f.ops {
		n += sym.Count(op.Expr)
	}
	for _, r := range f.results {
		for _, e := range r {
			n += sym.Count(e)
		}
	}
	return n
}

// String renders the function as a plain listing.
func (f *Function) String() string {
	var b strings.Builder
	params := make([]string, len(f.args))
	for i, a := range f.args {
		params[i] = a.Name + " " + a.Type.Kind()
	}
	fmt.Fprintf(&b, "%s(%s)\n", f.name, strings.Join(params, ", "))
	for _, op := range f.ops {
		fmt.Fprintf(&b, "  %s = %s\n", op.Name, op.Expr)
	}
	for i, out := range f.outputs {
		for j, e := range f.results[i] {
			fmt.Fprintf(&b, "  %s = %s\n", geo.StorageSymbol(out.Name, j), e)
		}
	}
	return b.String()
}

func (f *Function) argIndex(name string) int {
	for i, a := range f.args {
		if a.Name == name {
			return i
		}
	}
	return -1
}
