// SPDX-License-Identifier: MIT

package sym

// Diff returns the exact derivative of e with respect to the symbol name.
// Shared subexpressions are differentiated once per call.
func Diff(e Expr, name string) Expr {
	d := &differ{name: name, memo: map[Expr]Expr{}, free: map[Expr]bool{}}
	return d.diff(e)
}

type differ struct {
	name string
	memo map[Expr]Expr
	free map[Expr]bool // true if the subtree mentions name
}

func (d *differ) mentions(e Expr) bool {
	if v, ok := d.free[e]; ok {
		return v
	}
	found := false
	switch x := e.(type) {
	case *Sym:
		found = x.name == d.name
	case *Num:
	default:
		for _, a := range e.Args() {
			if d.mentions(a) {
				found = true
				break
			}
		}
	}
	d.free[e] = found
	return found
}

func (d *differ) diff(e Expr) Expr {
	if !d.mentions(e) {
		return N(0)
	}
	if v, ok := d.memo[e]; ok {
		return v
	}
	var out Expr
	switch x := e.(type) {
	case *Sym:
		out = N(1)
	case *Add:
		terms := make([]Expr, 0, len(x.terms))
		for _, t := range x.terms {
			terms = append(terms, d.diff(t))
		}
		out = AddOf(terms...)
	case *Mul:
		out = d.diffMul(x)
	case *Pow:
		out = d.diffPow(x)
	case *Func:
		out = MulOf(funcDerivative(x), d.diff(x.arg))
	case *Func2:
		out = d.diffFunc2(x)
	default:
		out = N(0)
	}
	d.memo[e] = out
	return out
}

func (d *differ) diffMul(m *Mul) Expr {
	terms := make([]Expr, 0, len(m.factors))
	for i, f := range m.factors {
		df := d.diff(f)
		if IsZero(df) {
			continue
		}
		parts := make([]Expr, 0, len(m.factors))
		parts = append(parts, df)
		for j, g := range m.factors {
			if j != i {
				parts = append(parts, g)
			}
		}
		terms = append(terms, MulOf(parts...))
	}
	return AddOf(terms...)
}

func (d *differ) diffPow(p *Pow) Expr {
	db := d.diff(p.base)
	if !d.mentions(p.exp) {
		// e * b^(e-1) * b'
		return MulOf(p.exp, PowOf(p.base, AddOf(p.exp, N(-1))), db)
	}
	// b^e * (e' ln b + e b'/b)
	de := d.diff(p.exp)
	return MulOf(p, AddOf(MulOf(de, LnOf(p.base)), MulOf(p.exp, db, PowOf(p.base, N(-1)))))
}

// funcDerivative returns f'(arg) for a unary function, without the chain factor.
func funcDerivative(f *Func) Expr {
	a := f.arg
	switch f.name {
	case FnSin:
		return CosOf(a)
	case FnCos:
		return Neg(SinOf(a))
	case FnTan:
		return AddOf(N(1), Square(f))
	case FnAsin:
		return PowOf(SubOf(N(1), Square(a)), F(-1, 2))
	case FnAcos:
		return Neg(PowOf(SubOf(N(1), Square(a)), F(-1, 2)))
	case FnAtan:
		return PowOf(AddOf(N(1), Square(a)), N(-1))
	case FnExp:
		return f
	case FnLn:
		return PowOf(a, N(-1))
	case FnAbs:
		return SignOf(a)
	}
	// sign is piecewise constant.
	return N(0)
}

func (d *differ) diffFunc2(f *Func2) Expr {
	da, db := d.diff(f.a), d.diff(f.b)
	switch f.name {
	case FnMin, FnMax:
		// min(a,b) = (a + b - |a-b|)/2, max(a,b) = (a + b + |a-b|)/2
		s := SignOf(SubOf(f.a, f.b))
		if f.name == FnMin {
			return MulOf(F(1, 2), AddOf(da, db, MulOf(s, SubOf(db, da))))
		}
		return MulOf(F(1, 2), AddOf(da, db, MulOf(s, SubOf(da, db))))
	case FnCopysign:
		return MulOf(CopysignOf(N(1), f.b), SignOf(f.a), da)
	case FnAtan2:
		// (x y' - y x') / (x^2 + y^2) with y = a, x = b
		num := SubOf(MulOf(f.b, da), MulOf(f.a, db))
		return DivOf(num, AddOf(Square(f.a), Square(f.b)))
	}
	return N(0)
}

// Gradient returns the derivatives of e with respect to each name.
func Gradient(e Expr, names []string) []Expr {
	out := make([]Expr, len(names))
	for i, n := range names {
		out[i] = Diff(e, n)
	}
	return out
}
