// SPDX-License-Identifier: MIT

package codegen

import (
	"fmt"

	"github.com/katalvlaran/symopt/geo"
	"github.com/katalvlaran/symopt/sym"
)

// Names of the generated operator functions.
const (
	FuncIdentity         = "identity"
	FuncInverse          = "inverse"
	FuncCompose          = "compose"
	FuncBetween          = "between"
	FuncFromTangent      = "from_tangent"
	FuncToTangent        = "to_tangent"
	FuncRetract          = "retract"
	FuncLocalCoordinates = "local_coordinates"
)

// ResultName is the output name of every generated operator function.
const ResultName = "res"

func result(el geo.Element) []Output { return []Output{{Name: ResultName, Value: el}} }

// lieAt returns input i as a LieGroup; generated placeholders always are one.
func lieAt(in *Inputs, i int) (geo.LieGroup, error) {
	return geo.AsLieGroup(in.At(i))
}

func tangentArg(name string, n int) Arg {
	zeros := make([]sym.Expr, n)
	for i := range zeros {
		zeros[i] = sym.N(0)
	}
	return Arg{Name: name, Type: geo.NewVector(zeros...)}
}

// GroupOpsFunctions generates the group operators of proto's type, in order:
// identity(), inverse(a), compose(a, b), between(a, b), followed by the
// "_with_jacobians" variants of inverse, compose and between. Jacobian rows
// and columns are tangent-space wide.
//
// Errors: geo.ErrNoGroup for a type without group operators, plus any
// NewFunction or WithJacobians error.
func GroupOpsFunctions(proto geo.LieGroup, opts ...Option) ([]*Function, error) {
	a := Arg{Name: "a", Type: proto}
	b := Arg{Name: "b", Type: proto}

	specs := []struct {
		name string
		args []Arg
		body Body
	}{
		{FuncIdentity, nil, func(*Inputs) ([]Output, error) {
			return result(proto.Identity()), nil
		}},
		{FuncInverse, []Arg{a}, func(in *Inputs) ([]Output, error) {
			x, err := lieAt(in, 0)
			if err != nil {
				return nil, err
			}
			inv, err := geo.Inverse(x)
			if err != nil {
				return nil, err
			}
			return result(inv), nil
		}},
		{FuncCompose, []Arg{a, b}, binaryGroupOp(geo.Compose)},
		{FuncBetween, []Arg{a, b}, binaryGroupOp(geo.Between)},
	}

	out := make([]*Function, 0, 2*len(specs)-1)
	for _, s := range specs {
		fn, err := NewFunction(s.name, s.args, s.body, opts...)
		if err != nil {
			return nil, fmt.Errorf("GroupOpsFunctions(%s): %w", proto.Kind(), err)
		}
		out = append(out, fn)
	}
	for _, fn := range out[1:len(specs)] {
		names := make([]string, len(fn.args))
		for i, arg := range fn.args {
			names[i] = arg.Name
		}
		jfn, err := fn.WithJacobians(ResultName, names)
		if err != nil {
			return nil, fmt.Errorf("GroupOpsFunctions(%s): %w", proto.Kind(), err)
		}
		out = append(out, jfn)
	}

	return out, nil
}

func binaryGroupOp(op func(a, b geo.LieGroup) (geo.LieGroup, error)) Body {
	return func(in *Inputs) ([]Output, error) {
		x, err := lieAt(in, 0)
		if err != nil {
			return nil, err
		}
		y, err := lieAt(in, 1)
		if err != nil {
			return nil, err
		}
		z, err := op(x, y)
		if err != nil {
			return nil, err
		}
		return result(z), nil
	}
}

// LieGroupOpsFunctions generates the tangent-space operators of proto's
// type with an explicit scalar epsilon argument: from_tangent(vec, epsilon),
// to_tangent(a, epsilon), retract(a, vec, epsilon) and
// local_coordinates(a, b, epsilon).
func LieGroupOpsFunctions(proto geo.LieGroup, opts ...Option) ([]*Function, error) {
	a := Arg{Name: "a", Type: proto}
	b := Arg{Name: "b", Type: proto}
	vec := tangentArg("vec", proto.TangentDim())
	eps := Arg{Name: EpsilonName, Type: geo.NewScalar(sym.N(0))}

	specs := []struct {
		name string
		args []Arg
		body Body
	}{
		{FuncFromTangent, []Arg{vec, eps}, func(in *Inputs) ([]Output, error) {
			el, err := proto.FromTangent(in.Get("vec").ToStorage(), in.Epsilon())
			if err != nil {
				return nil, err
			}
			return result(el), nil
		}},
		{FuncToTangent, []Arg{a, eps}, func(in *Inputs) ([]Output, error) {
			x, err := lieAt(in, 0)
			if err != nil {
				return nil, err
			}
			return result(geo.NewVector(x.ToTangent(in.Epsilon())...)), nil
		}},
		{FuncRetract, []Arg{a, vec, eps}, func(in *Inputs) ([]Output, error) {
			x, err := lieAt(in, 0)
			if err != nil {
				return nil, err
			}
			el, err := x.Retract(in.Get("vec").ToStorage(), in.Epsilon())
			if err != nil {
				return nil, err
			}
			return result(el), nil
		}},
		{FuncLocalCoordinates, []Arg{a, b, eps}, func(in *Inputs) ([]Output, error) {
			x, err := lieAt(in, 0)
			if err != nil {
				return nil, err
			}
			y, err := lieAt(in, 1)
			if err != nil {
				return nil, err
			}
			d, err := x.LocalCoordinates(y, in.Epsilon())
			if err != nil {
				return nil, err
			}
			return result(geo.NewVector(d...)), nil
		}},
	}

	out := make([]*Function, len(specs))
	for i, s := range specs {
		fn, err := NewFunction(s.name, s.args, s.body, opts...)
		if err != nil {
			return nil, fmt.Errorf("LieGroupOpsFunctions(%s): %w", proto.Kind(), err)
		}
		out[i] = fn
	}

	return out, nil
}
