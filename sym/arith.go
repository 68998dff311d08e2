// SPDX-License-Identifier: MIT

package sym

import (
	"math/big"
	"slices"
)

// ============================================================
// Add: sum of terms
// ============================================================

// Add is a canonical sum. Terms are sorted; a numeric term, if any, is last.
type Add struct {
	terms []Expr
	h     uint64
}

func (a *Add) Kind() Kind    { return KindAdd }
func (a *Add) Hash() uint64  { return a.h }
func (a *Add) Args() []Expr  { return a.terms }
func (a *Add) Terms() []Expr { return a.terms }

// ============================================================
// Mul: product of factors
// ============================================================

// Mul is a canonical product. A numeric coefficient, if any, is first.
type Mul struct {
	factors []Expr
	h       uint64
}

func (m *Mul) Kind() Kind      { return KindMul }
func (m *Mul) Hash() uint64    { return m.h }
func (m *Mul) Args() []Expr    { return m.factors }
func (m *Mul) Factors() []Expr { return m.factors }

// rawMul builds a product from already canonical factors.
func rawMul(factors []Expr) Expr {
	if len(factors) == 1 {
		return factors[0]
	}
	return &Mul{factors: factors, h: hashNode("mul", factors...)}
}

// ============================================================
// Pow: base raised to exponent
// ============================================================

// Pow is base**exp.
type Pow struct {
	base, exp Expr
	h         uint64
}

func (p *Pow) Kind() Kind    { return KindPow }
func (p *Pow) Hash() uint64  { return p.h }
func (p *Pow) Args() []Expr  { return []Expr{p.base, p.exp} }
func (p *Pow) Base() Expr    { return p.base }
func (p *Pow) ExpExpr() Expr { return p.exp }

// ============================================================
// Constructors
// ============================================================

type termGroup struct {
	rest  Expr
	coeff *Num
}

// AddOf returns the simplified sum of terms.
func AddOf(terms ...Expr) Expr {
	flat := make([]Expr, 0, len(terms))
	for _, t := range terms {
		if inner, ok := t.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, t)
		}
	}

	constant := N(0)
	groups := []*termGroup{}
	byHash := map[uint64][]*termGroup{}
	for _, t := range flat {
		if n, ok := t.(*Num); ok {
			constant = numAdd(constant, n)
			continue
		}
		coeff, rest := splitCoeff(t)
		var g *termGroup
		for _, cand := range byHash[rest.Hash()] {
			if Equal(cand.rest, rest) {
				g = cand
				break
			}
		}
		if g == nil {
			g = &termGroup{rest: rest, coeff: N(0)}
			byHash[rest.Hash()] = append(byHash[rest.Hash()], g)
			groups = append(groups, g)
		}
		g.coeff = numAdd(g.coeff, coeff)
	}

	out := make([]Expr, 0, len(groups)+1)
	for _, g := range groups {
		switch {
		case g.coeff.IsZero():
			continue
		case g.coeff.IsOne():
			out = append(out, g.rest)
		default:
			out = append(out, withCoeff(g.coeff, g.rest))
		}
	}
	slices.SortStableFunc(out, compare)
	if !constant.IsZero() {
		out = append(out, constant)
	}

	switch len(out) {
	case 0:
		return N(0)
	case 1:
		return out[0]
	}
	return &Add{terms: out, h: hashNode("add", out...)}
}

// splitCoeff separates a numeric coefficient from a non-numeric term.
func splitCoeff(t Expr) (*Num, Expr) {
	m, ok := t.(*Mul)
	if !ok {
		return N(1), t
	}
	if c, ok := m.factors[0].(*Num); ok {
		return c, rawMul(m.factors[1:])
	}
	return N(1), t
}

// withCoeff prefixes rest (which carries no coefficient) with c.
func withCoeff(c *Num, rest Expr) Expr {
	if m, ok := rest.(*Mul); ok {
		fs := make([]Expr, 0, len(m.factors)+1)
		fs = append(fs, c)
		fs = append(fs, m.factors...)
		return rawMul(fs)
	}
	return rawMul([]Expr{c, rest})
}

type factorGroup struct {
	base Expr
	exps []Expr
}

// MulOf returns the simplified product of factors.
func MulOf(factors ...Expr) Expr {
	flat := make([]Expr, 0, len(factors))
	for _, f := range factors {
		if inner, ok := f.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, f)
		}
	}

	coeff := N(1)
	groups := []*factorGroup{}
	byHash := map[uint64][]*factorGroup{}
	for _, f := range flat {
		if n, ok := f.(*Num); ok {
			if n.IsZero() {
				return N(0)
			}
			coeff = numMul(coeff, n)
			continue
		}
		base, exp := f, Expr(N(1))
		if p, ok := f.(*Pow); ok {
			base, exp = p.base, p.exp
		}
		var g *factorGroup
		for _, cand := range byHash[base.Hash()] {
			if Equal(cand.base, base) {
				g = cand
				break
			}
		}
		if g == nil {
			g = &factorGroup{base: base}
			byHash[base.Hash()] = append(byHash[base.Hash()], g)
			groups = append(groups, g)
		}
		g.exps = append(g.exps, exp)
	}

	out := make([]Expr, 0, len(groups)+1)
	for _, g := range groups {
		var p Expr
		if len(g.exps) == 1 {
			p = powOf(g.base, g.exps[0])
		} else {
			p = powOf(g.base, AddOf(g.exps...))
		}
		switch v := p.(type) {
		case *Num:
			if v.IsZero() {
				return N(0)
			}
			coeff = numMul(coeff, v)
		case *Mul:
			// Exponents summing to one hand back the base, which may be a product.
			for _, vf := range v.factors {
				if n, ok := vf.(*Num); ok {
					coeff = numMul(coeff, n)
				} else {
					out = append(out, vf)
				}
			}
		default:
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, compare)

	if coeff.IsZero() {
		return N(0)
	}
	if len(out) == 0 {
		return coeff
	}
	if !coeff.IsOne() {
		out = append([]Expr{coeff}, out...)
	}
	return rawMul(out)
}

// PowOf returns the simplified power base**exp.
func PowOf(base, exp Expr) Expr {
	p := powOf(base, exp)
	if m, ok := p.(*Mul); ok {
		return MulOf(m.factors...)
	}
	return p
}

func powOf(base, exp Expr) Expr {
	if IsZero(exp) {
		return N(1)
	}
	if IsOne(exp) {
		return base
	}
	if IsOne(base) {
		return N(1)
	}
	if bn, ok := base.(*Num); ok {
		if en, ok := exp.(*Num); ok {
			if folded, ok := foldNumPow(bn, en); ok {
				return folded
			}
		}
	}
	if en, ok := exp.(*Num); ok && en.IsInteger() {
		if inner, ok := base.(*Pow); ok {
			return powOf(inner.base, MulOf(inner.exp, en))
		}
	}
	return &Pow{base: base, exp: exp, h: hashNode("pow", base, exp)}
}

// foldNumPow evaluates b**e exactly for integer exponents of small magnitude.
func foldNumPow(b, e *Num) (Expr, bool) {
	if !e.IsInteger() || !e.val.Num().IsInt64() {
		return nil, false
	}
	k := e.val.Num().Int64()
	if k < -64 || k > 64 {
		return nil, false
	}
	if b.IsZero() {
		if k < 0 {
			return nil, false
		}
		return N(0), true
	}
	r := new(big.Rat).SetInt64(1)
	abs := k
	if abs < 0 {
		abs = -abs
	}
	for i := int64(0); i < abs; i++ {
		r.Mul(r, b.val)
	}
	if k < 0 {
		r.Inv(r)
	}
	return newNum(r), true
}

// Neg returns -e.
func Neg(e Expr) Expr { return MulOf(N(-1), e) }

// SubOf returns a - b.
func SubOf(a, b Expr) Expr { return AddOf(a, Neg(b)) }

// DivOf returns a / b.
func DivOf(a, b Expr) Expr { return MulOf(a, PowOf(b, N(-1))) }

// SqrtOf returns e**(1/2).
func SqrtOf(e Expr) Expr { return PowOf(e, F(1, 2)) }

// Square returns e**2.
func Square(e Expr) Expr { return PowOf(e, N(2)) }

// Sum adds all terms; it is AddOf under a name that reads better in loops.
func Sum(terms []Expr) Expr { return AddOf(terms...) }
