// SPDX-License-Identifier: MIT

package sym

import (
	"fmt"
	"sort"
)

// Eval evaluates e numerically with symbol values taken from env.
// It returns ErrUnboundSymbol (wrapped with the symbol name) when a symbol is missing.
func Eval(e Expr, env map[string]float64) (float64, error) {
	memo := map[Expr]float64{}
	var walk func(Expr) (float64, error)
	walk = func(e Expr) (float64, error) {
		if v, ok := memo[e]; ok {
			return v, nil
		}
		var out float64
		switch x := e.(type) {
		case *Num:
			return x.f, nil
		case *Sym:
			v, ok := env[x.name]
			if !ok {
				return 0, fmt.Errorf("Eval(%s): %w", x.name, ErrUnboundSymbol)
			}
			return v, nil
		case *Add:
			for _, t := range x.terms {
				v, err := walk(t)
				if err != nil {
					return 0, err
				}
				out += v
			}
		case *Mul:
			out = 1
			for _, f := range x.factors {
				v, err := walk(f)
				if err != nil {
					return 0, err
				}
				out *= v
			}
		case *Pow:
			b, err := walk(x.base)
			if err != nil {
				return 0, err
			}
			p, err := walk(x.exp)
			if err != nil {
				return 0, err
			}
			out = ApplyPow(b, p)
		case *Func:
			v, err := walk(x.arg)
			if err != nil {
				return 0, err
			}
			out = applyFunc(x.name, v)
		case *Func2:
			a, err := walk(x.a)
			if err != nil {
				return 0, err
			}
			b, err := walk(x.b)
			if err != nil {
				return 0, err
			}
			out = applyFunc2(x.name, a, b)
		}
		memo[e] = out
		return out, nil
	}
	return walk(e)
}

// Subs replaces every symbol named in repl by its expression and re-simplifies.
func Subs(e Expr, repl map[string]Expr) Expr {
	if len(repl) == 0 {
		return e
	}
	memo := map[Expr]Expr{}
	var walk func(Expr) Expr
	walk = func(e Expr) Expr {
		if v, ok := memo[e]; ok {
			return v
		}
		var out Expr
		switch x := e.(type) {
		case *Num:
			return x
		case *Sym:
			if r, ok := repl[x.name]; ok {
				return r
			}
			return x
		default:
			out = Rebuild(e, mapArgs(e.Args(), walk))
		}
		memo[e] = out
		return out
	}
	return walk(e)
}

func mapArgs(args []Expr, fn func(Expr) Expr) []Expr {
	out := make([]Expr, len(args))
	for i, a := range args {
		out[i] = fn(a)
	}
	return out
}

// Rebuild constructs a node of the same kind as e over new operands,
// re-applying the simplifying constructors. Leaves are returned unchanged.
func Rebuild(e Expr, args []Expr) Expr {
	switch x := e.(type) {
	case *Add:
		return AddOf(args...)
	case *Mul:
		return MulOf(args...)
	case *Pow:
		return PowOf(args[0], args[1])
	case *Func:
		return funcOf(x.name, args[0])
	case *Func2:
		return func2Of(x.name, args[0], args[1])
	}
	return e
}

// FreeSymbols returns the sorted names of all symbols in e.
func FreeSymbols(exprs ...Expr) []string {
	seen := map[Expr]bool{}
	names := map[string]struct{}{}
	var walk func(Expr)
	walk = func(e Expr) {
		if seen[e] {
			return
		}
		seen[e] = true
		if s, ok := e.(*Sym); ok {
			names[s.name] = struct{}{}
			return
		}
		for _, a := range e.Args() {
			walk(a)
		}
	}
	for _, e := range exprs {
		walk(e)
	}
	out := make([]string, 0, len(names))
	for n := range names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Count returns the number of arithmetic operations needed to evaluate e as
// a tree (shared subtrees are counted every time they occur).
func Count(e Expr) int {
	switch x := e.(type) {
	case *Num, *Sym:
		return 0
	case *Add:
		n := len(x.terms) - 1
		for _, t := range x.terms {
			n += Count(t)
		}
		return n
	case *Mul:
		n := len(x.factors) - 1
		for _, f := range x.factors {
			n += Count(f)
		}
		return n
	}
	n := 1
	for _, a := range e.Args() {
		n += Count(a)
	}
	return n
}
