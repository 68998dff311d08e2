// SPDX-License-Identifier: MIT

package codegen

import (
	"fmt"

	"github.com/katalvlaran/symopt/geo"
	"github.com/katalvlaran/symopt/sym"
)

// Prefixes of the auxiliary symbols introduced while differentiating. Each is
// extended with underscores until no name clashes with the element or eps.
const (
	deltaPrefix   = "_delta"
	storagePrefix = "_storage"
)

// freshNames returns prefix[0..n) with prefix lengthened until none of the
// names is a free symbol of exprs.
func freshNames(prefix string, exprs []sym.Expr, n int) []string {
	taken := make(map[string]bool)
	for _, s := range sym.FreeSymbols(exprs...) {
		taken[s] = true
	}
	names := make([]string, n)
	for ; ; prefix += "_" {
		clash := false
		for i := range names {
			names[i] = geo.StorageSymbol(prefix, i)
			clash = clash || taken[names[i]]
		}
		if !clash {
			return names
		}
	}
}

func withEps(el geo.Element, eps sym.Expr) []sym.Expr {
	exprs := el.ToStorage()
	if eps != nil {
		exprs = append(exprs, eps)
	}
	return exprs
}

// StorageDTangent returns the StorageDim×TangentDim matrix
// ∂storage(retract(el, δ, eps))/∂δ evaluated at δ = 0.
func StorageDTangent(el geo.LieGroup, eps sym.Expr) (*sym.Matrix, error) {
	n := el.TangentDim()
	delta := make([]sym.Expr, n)
	names := freshNames(deltaPrefix, withEps(el, eps), n)
	zero := make(map[string]sym.Expr, n)
	for i := range delta {
		delta[i] = sym.S(names[i])
		zero[names[i]] = sym.N(0)
	}
	moved, err := el.Retract(delta, eps)
	if err != nil {
		return nil, fmt.Errorf("StorageDTangent(%s): %w", el.Kind(), err)
	}
	d := sym.Jacobian(moved.ToStorage(), names)

	return d.Apply(func(e sym.Expr) sym.Expr { return sym.Subs(e, zero) }), nil
}

// TangentDStorage returns the TangentDim×StorageDim matrix
// ∂LocalCoordinates(el, x, eps)/∂x evaluated at x = storage(el).
func TangentDStorage(el geo.LieGroup, eps sym.Expr) (*sym.Matrix, error) {
	storage := el.ToStorage()
	names := freshNames(storagePrefix, withEps(el, eps), len(storage))
	point := make([]sym.Expr, len(storage))
	back := make(map[string]sym.Expr, len(storage))
	for i, name := range names {
		point[i] = sym.S(name)
		back[name] = storage[i]
	}
	moved, err := el.FromStorage(point)
	if err != nil {
		return nil, fmt.Errorf("TangentDStorage(%s): %w", el.Kind(), err)
	}
	lg, err := geo.AsLieGroup(moved)
	if err != nil {
		return nil, fmt.Errorf("TangentDStorage(%s): %w", el.Kind(), err)
	}
	tangent, err := el.LocalCoordinates(lg, eps)
	if err != nil {
		return nil, fmt.Errorf("TangentDStorage(%s): %w", el.Kind(), err)
	}
	d := sym.Jacobian(tangent, names)

	return d.Apply(func(e sym.Expr) sym.Expr { return sym.Subs(e, back) }), nil
}

// JacobianBlocks returns one len(residual)×TangentDim block per element of wrt.
// Each element's storage must consist of plain symbols.
//
// Errors: geo.ErrNoTangentSpace for an element without tangent space,
// ErrNotSymbolic for non-symbolic storage.
func JacobianBlocks(residual []sym.Expr, wrt []geo.Element, eps sym.Expr) ([]*sym.Matrix, error) {
	blocks := make([]*sym.Matrix, len(wrt))
	for i, el := range wrt {
		lg, err := geo.AsLieGroup(el)
		if err != nil {
			return nil, fmt.Errorf("JacobianBlocks: %w", err)
		}
		storage := lg.ToStorage()
		names := make([]string, len(storage))
		for k, e := range storage {
			s, ok := e.(*sym.Sym)
			if !ok {
				return nil, fmt.Errorf("JacobianBlocks(%s): entry %d is %s: %w", el.Kind(), k, e, ErrNotSymbolic)
			}
			names[k] = s.Name()
		}
		dTangent, err := StorageDTangent(lg, eps)
		if err != nil {
			return nil, fmt.Errorf("JacobianBlocks: %w", err)
		}
		blocks[i], err = sym.Jacobian(residual, names).Mul(dTangent)
		if err != nil {
			return nil, fmt.Errorf("JacobianBlocks: %w", err)
		}
	}

	return blocks, nil
}

// Jacobian returns the blocks of JacobianBlocks placed side by side. With no
// elements the result is len(residual)×0.
func Jacobian(residual []sym.Expr, wrt []geo.Element, eps sym.Expr) (*sym.Matrix, error) {
	blocks, err := JacobianBlocks(residual, wrt, eps)
	if err != nil {
		return nil, err
	}
	return stack(len(residual), blocks)
}

func stack(rows int, blocks []*sym.Matrix) (*sym.Matrix, error) {
	if len(blocks) == 0 {
		return sym.NewMatrix(rows, 0)
	}
	return sym.HStack(blocks...)
}

// WithJacobians returns a copy of f with additional outputs holding the
// Jacobian of output with respect to the args named in wrt:
// "<output>_D_<arg>" per argument and "<output>_jacobian" for the
// concatenation. Column widths are tangent dimensions. Rows follow the
// output's tangent space when it is a Rot3 or Pose3 and its storage otherwise.
func (f *Function) WithJacobians(output string, wrt []string) (*Function, error) {
	out, err := f.Output(output)
	if err != nil {
		return nil, fmt.Errorf("WithJacobians: %w", err)
	}
	residual := out.Value.ToStorage()

	els := make([]geo.Element, len(wrt))
	for i, name := range wrt {
		k := f.argIndex(name)
		if k < 0 {
			return nil, fmt.Errorf("WithJacobians(%s): argument %q: %w", f.name, name, ErrUnknownArg)
		}
		els[i] = f.inputs.elems[k]
	}
	blocks, err := JacobianBlocks(residual, els, f.inputs.eps)
	if err != nil {
		return nil, fmt.Errorf("WithJacobians(%s): %w", f.name, err)
	}
	rows := len(residual)
	if lg, ok := out.Value.(geo.LieGroup); ok {
		if _, flat := lg.(*geo.Vector); !flat {
			dStorage, err := TangentDStorage(lg, f.inputs.eps)
			if err != nil {
				return nil, fmt.Errorf("WithJacobians(%s): %w", f.name, err)
			}
			for i := range blocks {
				if blocks[i], err = dStorage.Mul(blocks[i]); err != nil {
					return nil, fmt.Errorf("WithJacobians(%s): %w", f.name, err)
				}
			}
			rows = lg.TangentDim()
		}
	}

	outputs := f.Outputs()
	for i, b := range blocks {
		outputs = append(outputs, Output{Name: output + "_D_" + wrt[i], Value: geo.NewMatrix(b)})
	}
	full, err := stack(rows, blocks)
	if err != nil {
		return nil, fmt.Errorf("WithJacobians(%s): %w", f.name, err)
	}
	outputs = append(outputs, Output{Name: output + "_jacobian", Value: geo.NewMatrix(full)})

	name := f.name + "_with_jacobians"
	log := f.opts.logger.WithFunction(name)
	g, err := assemble(name, f.args, f.inputs, outputs, f.opts)
	if err != nil {
		log.LogGenerate(f.opts.ctx, name, 0, 0, err)
		return nil, err
	}
	log.LogGenerate(f.opts.ctx, name, len(g.ops), g.OpCount(), nil)

	return g, nil
}
