// SPDX-License-Identifier: MIT

package codegen

import (
	"fmt"

	"github.com/katalvlaran/symopt/geo"
	"github.com/katalvlaran/symopt/sym"
)

// kernel computes one value from the slot table.
type kernel func(slots []float64) float64

// Evaluator runs a Function numerically. Slots hold the flattened input
// storage followed by the temporaries. An Evaluator is safe for concurrent use.
type Evaluator struct {
	fn      *Function
	dims    []int
	nInputs int
	nSlots  int
	temps   []kernel
	outs    [][]kernel
}

// Evaluator compiles f into closures over a slot table.
func (f *Function) Evaluator() (*Evaluator, error) {
	ev := &Evaluator{fn: f, dims: make([]int, len(f.args))}
	slot := make(map[string]int)
	for i, el := range f.inputs.elems {
		ev.dims[i] = el.StorageDim()
		for _, e := range el.ToStorage() {
			slot[e.String()] = ev.nInputs
			ev.nInputs++
		}
	}
	ev.nSlots = ev.nInputs + len(f.ops)

	c := &compiler{slot: slot, memo: make(map[sym.Expr]kernel)}
	ev.temps = make([]kernel, len(f.ops))
	for i, op := range f.ops {
		k, err := c.compile(op.Expr)
		if err != nil {
			return nil, fmt.Errorf("Evaluator(%s): %s: %w", f.name, op.Name, err)
		}
		ev.temps[i] = k
		slot[op.Name] = ev.nInputs + i
	}
	ev.outs = make([][]kernel, len(f.results))
	for i, r := range f.results {
		ev.outs[i] = make([]kernel, len(r))
		for j, e := range r {
			k, err := c.compile(e)
			if err != nil {
				return nil, fmt.Errorf("Evaluator(%s): %s: %w", f.name, f.outputs[i].Name, err)
			}
			ev.outs[i][j] = k
		}
	}

	return ev, nil
}

// Call evaluates the function on one storage slice per argument, in
// declaration order, and returns output storage keyed by output name.
func (ev *Evaluator) Call(inputs ...[]float64) (map[string][]float64, error) {
	if len(inputs) != len(ev.dims) {
		return nil, fmt.Errorf("Call(%s): got %d inputs, want %d: %w", ev.fn.name, len(inputs), len(ev.dims), ErrArity)
	}
	slots := make([]float64, ev.nSlots)
	at := 0
	for i, in := range inputs {
		if len(in) != ev.dims[i] {
			return nil, &geo.ShapeError{Op: "Call(" + ev.fn.args[i].Name + ")", Expected: ev.dims[i], Actual: len(in)}
		}
		at += copy(slots[at:], in)
	}
	for i, k := range ev.temps {
		slots[ev.nInputs+i] = k(slots)
	}

	out := make(map[string][]float64, len(ev.outs))
	for i, ks := range ev.outs {
		vals := make([]float64, len(ks))
		for j, k := range ks {
			vals[j] = k(slots)
		}
		out[ev.fn.outputs[i].Name] = vals
	}

	return out, nil
}

// CallNamed is Call with inputs keyed by argument name.
func (ev *Evaluator) CallNamed(inputs map[string][]float64) (map[string][]float64, error) {
	ordered := make([][]float64, len(ev.fn.args))
	for i, a := range ev.fn.args {
		v, ok := inputs[a.Name]
		if !ok {
			return nil, fmt.Errorf("CallNamed(%s): missing %q: %w", ev.fn.name, a.Name, ErrArity)
		}
		ordered[i] = v
	}
	if len(inputs) != len(ordered) {
		return nil, fmt.Errorf("CallNamed(%s): got %d inputs, want %d: %w", ev.fn.name, len(inputs), len(ordered), ErrArity)
	}
	return ev.Call(ordered...)
}

type compiler struct {
	slot map[string]int
	memo map[sym.Expr]kernel
}

func (c *compiler) compile(e sym.Expr) (kernel, error) {
	if k, ok := c.memo[e]; ok {
		return k, nil
	}
	var k kernel
	switch x := e.(type) {
	case *sym.Num:
		v := x.Float64()
		k = func([]float64) float64 { return v }
	case *sym.Sym:
		idx, ok := c.slot[x.Name()]
		if !ok {
			return nil, fmt.Errorf("compile(%s): %w", x.Name(), sym.ErrUnboundSymbol)
		}
		k = func(s []float64) float64 { return s[idx] }
	case *sym.Add:
		ks, err := c.compileAll(x.Terms())
		if err != nil {
			return nil, err
		}
		k = func(s []float64) float64 {
			sum := 0.0
			for _, t := range ks {
				sum += t(s)
			}
			return sum
		}
	case *sym.Mul:
		ks, err := c.compileAll(x.Factors())
		if err != nil {
			return nil, err
		}
		k = func(s []float64) float64 {
			prod := 1.0
			for _, f := range ks {
				prod *= f(s)
			}
			return prod
		}
	case *sym.Pow:
		ks, err := c.compileAll(x.Args())
		if err != nil {
			return nil, err
		}
		base, exp := ks[0], ks[1]
		k = func(s []float64) float64 { return sym.ApplyPow(base(s), exp(s)) }
	case *sym.Func:
		arg, err := c.compile(x.Arg())
		if err != nil {
			return nil, err
		}
		name := x.FuncName()
		k = func(s []float64) float64 { return sym.ApplyFunc(name, arg(s)) }
	case *sym.Func2:
		ks, err := c.compileAll(x.Args())
		if err != nil {
			return nil, err
		}
		a, b, name := ks[0], ks[1], x.FuncName()
		k = func(s []float64) float64 { return sym.ApplyFunc2(name, a(s), b(s)) }
	default:
		return nil, fmt.Errorf("compile(%s): unsupported node", e)
	}
	c.memo[e] = k

	return k, nil
}

func (c *compiler) compileAll(es []sym.Expr) ([]kernel, error) {
	ks := make([]kernel, len(es))
	for i, e := range es {
		k, err := c.compile(e)
		if err != nil {
			return nil, err
		}
		ks[i] = k
	}
	return ks, nil
}
