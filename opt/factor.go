// SPDX-License-Identifier: MIT

package opt

import (
	"context"
	"fmt"
	"strings"

	"github.com/katalvlaran/symopt/codegen"
	"github.com/katalvlaran/symopt/geo"
	"github.com/katalvlaran/symopt/sym"
)

// JacobianFunc returns the residual Jacobian with respect to the inputs under keys.
type JacobianFunc func(keys []string) (*sym.Matrix, error)

// Factor is a symbolic residual over a set of keyed inputs.
type Factor struct {
	name     string
	keys     []string
	inputs   *Values[geo.Element]
	residual []sym.Expr
	jacobian JacobianFunc
	opts     options
}

// NewFactor builds a standalone factor whose Jacobian differentiates the
// whole residual at once.
//
// Errors: ErrUnknownInput when the residual mentions a symbol that is not a
// storage entry of inputs.
func NewFactor(name string, inputs *Values[geo.Element], residual []sym.Expr, opts ...Option) (*Factor, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	bound := storageSymbols(inputs)
	for _, s := range sym.FreeSymbols(residual...) {
		if !bound[s] {
			return nil, fmt.Errorf("NewFactor(%s): uses %s: %w", name, s, ErrUnknownInput)
		}
	}
	f := &Factor{
		name:     name,
		keys:     inputs.KeysRecursive(),
		inputs:   inputs,
		residual: append([]sym.Expr(nil), residual...),
		opts:     o,
	}
	f.jacobian = func(keys []string) (*sym.Matrix, error) {
		wrt, err := f.elements(keys)
		if err != nil {
			return nil, err
		}
		return codegen.Jacobian(f.residual, wrt, sym.NFloat(f.opts.epsilon))
	}
	return f, nil
}

func (f *Factor) Name() string { return f.name }

// Keys returns every key the factor may be evaluated over.
func (f *Factor) Keys() []string { return append([]string(nil), f.keys...) }

// Inputs returns the keyed symbolic inputs.
func (f *Factor) Inputs() *Values[geo.Element] { return f.inputs }

// Residual returns the flattened residual.
func (f *Factor) Residual() []sym.Expr { return append([]sym.Expr(nil), f.residual...) }

// DependentKeys returns the keys whose storage symbols occur in the residual.
func (f *Factor) DependentKeys() []string {
	used := make(map[string]bool)
	for _, s := range sym.FreeSymbols(f.residual...) {
		used[s] = true
	}
	var out []string
	for _, k := range f.keys {
		el, _ := f.inputs.Get(k)
		for _, e := range el.ToStorage() {
			if s, ok := e.(*sym.Sym); ok && used[s.Name()] {
				out = append(out, k)
				break
			}
		}
	}
	return out
}

func (f *Factor) elements(keys []string) ([]geo.Element, error) {
	out := make([]geo.Element, len(keys))
	for i, k := range keys {
		el, ok := f.inputs.Get(k)
		if !ok || !contains(f.keys, k) {
			return nil, fmt.Errorf("Factor(%s): key %s: %w", f.name, k, ErrKeyNotFound)
		}
		out[i] = el
	}
	return out, nil
}

// Jacobian returns the tangent-space Jacobian with respect to keys.
func (f *Factor) Jacobian(keys []string) (*sym.Matrix, error) {
	if _, err := f.elements(keys); err != nil {
		return nil, err
	}
	return f.jacobian(keys)
}

// Linearization generates "<name>_factor" with outputs res, jacobian,
// hessian (JᵀJ) and rhs (Jᵀr) for the given optimized keys. Its arguments are
// the dependent keys plus the optimized keys, named with dots and brackets
// replaced by underscores.
func (f *Factor) Linearization(keys []string) (*codegen.Function, error) {
	return f.linearization(context.Background(), keys, true)
}

func (f *Factor) linearization(ctx context.Context, keys []string, full bool) (*codegen.Function, error) {
	jac, err := f.Jacobian(keys)
	if err != nil {
		return nil, err
	}
	argKeys := f.argKeys(keys)
	args := make([]codegen.Arg, len(argKeys))
	for i, k := range argKeys {
		el, _ := f.inputs.Get(k)
		args[i] = codegen.Arg{Name: ArgName(k), Type: el}
	}

	body := func(in *codegen.Inputs) ([]codegen.Output, error) {
		rename := make(map[string]sym.Expr)
		for i, k := range argKeys {
			el, _ := f.inputs.Get(k)
			fresh := in.At(i).ToStorage()
			for j, e := range el.ToStorage() {
				if s, ok := e.(*sym.Sym); ok {
					rename[s.Name()] = fresh[j]
				}
			}
		}
		subs := func(e sym.Expr) sym.Expr { return sym.Subs(e, rename) }

		res := sym.Column(f.residual...).Apply(subs)
		j := jac.Apply(subs)
		outs := []codegen.Output{
			{Name: "res", Value: geo.NewVector(res.Data()...)},
			{Name: "jacobian", Value: geo.NewMatrix(j)},
		}
		if !full {
			return outs, nil
		}
		jt := j.Transpose()
		hess, err := jt.Mul(j)
		if err != nil {
			return nil, err
		}
		rhs, err := jt.Mul(res)
		if err != nil {
			return nil, err
		}
		return append(outs,
			codegen.Output{Name: "hessian", Value: geo.NewMatrix(hess)},
			codegen.Output{Name: "rhs", Value: geo.NewVector(rhs.Data()...)},
		), nil
	}

	return codegen.NewFunction(f.name+"_factor", args, body,
		codegen.WithEpsilon(f.opts.epsilon),
		codegen.WithCSE(f.opts.cse),
		codegen.WithLogger(f.opts.logger.WithFactor(f.name)),
		codegen.WithCancelContext(ctx),
	)
}

// argKeys returns the dependent keys and the optimized keys in factor key order.
func (f *Factor) argKeys(optimized []string) []string {
	want := make(map[string]bool)
	for _, k := range f.DependentKeys() {
		want[k] = true
	}
	for _, k := range optimized {
		want[k] = true
	}
	var out []string
	for _, k := range f.keys {
		if want[k] {
			out = append(out, k)
		}
	}
	return out
}

// ToNumericFactor compiles the residual and its Jacobian with respect to
// optimizedKeys into a NumericFactor.
func (f *Factor) ToNumericFactor(optimizedKeys []string) (*NumericFactor, error) {
	fn, err := f.linearization(context.Background(), optimizedKeys, false)
	if err != nil {
		return nil, err
	}
	ev, err := fn.Evaluator()
	if err != nil {
		return nil, err
	}
	offsets := make([]int, len(optimizedKeys)+1)
	for i, k := range optimizedKeys {
		el, _ := f.inputs.Get(k)
		lg, err := geo.AsLieGroup(el)
		if err != nil {
			return nil, err
		}
		offsets[i+1] = offsets[i] + lg.TangentDim()
	}
	return &NumericFactor{
		name:      f.name,
		keys:      f.argKeys(optimizedKeys),
		optimized: append([]string(nil), optimizedKeys...),
		offsets:   offsets,
		ev:        ev,
		rows:      len(f.residual),
	}, nil
}

// ArgName turns a dotted key into a function argument name.
func ArgName(key string) string {
	return strings.NewReplacer(".", "_", "[", "_", "]", "_").Replace(key)
}

func contains(keys []string, k string) bool {
	for _, x := range keys {
		if x == k {
			return true
		}
	}
	return false
}
