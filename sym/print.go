// SPDX-License-Identifier: MIT

package sym

import (
	"math/big"
	"strconv"
	"strings"
)

// maxPrintDenom bounds the denominators printed as p/q; larger ones print as floats.
var maxPrintDenom = big.NewInt(1 << 20)

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	if n.val.Denom().Cmp(maxPrintDenom) <= 0 {
		return n.val.RatString()
	}
	return strconv.FormatFloat(n.f, 'g', -1, 64)
}

func (a *Add) String() string {
	var b strings.Builder
	for i, t := range a.terms {
		s := t.String()
		if i > 0 {
			if strings.HasPrefix(s, "-") {
				b.WriteString(" - ")
				s = s[1:]
			} else {
				b.WriteString(" + ")
			}
		}
		b.WriteString(s)
	}
	return b.String()
}

func (m *Mul) String() string {
	parts := make([]string, 0, len(m.factors))
	neg := false
	for i, f := range m.factors {
		if n, ok := f.(*Num); ok && i == 0 {
			if n.val.Cmp(big.NewRat(-1, 1)) == 0 {
				neg = true
			} else {
				parts = append(parts, n.String())
			}
			continue
		}
		parts = append(parts, paren(f, KindMul))
	}
	s := strings.Join(parts, "*")
	if neg {
		return "-" + s
	}
	return s
}

func (p *Pow) String() string {
	if n, ok := p.exp.(*Num); ok {
		switch {
		case n.val.Cmp(big.NewRat(1, 2)) == 0:
			return "sqrt(" + p.base.String() + ")"
		case n.val.Cmp(big.NewRat(-1, 1)) == 0:
			return "1/" + paren(p.base, KindPow)
		}
	}
	return paren(p.base, KindPow) + "**" + paren(p.exp, KindPow)
}

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

func (f *Func2) String() string {
	return f.name + "(" + f.a.String() + ", " + f.b.String() + ")"
}

// paren wraps e in parentheses when it binds looser than the enclosing kind.
func paren(e Expr, outer Kind) string {
	s := e.String()
	switch e.Kind() {
	case KindAdd:
		return "(" + s + ")"
	case KindMul:
		if outer == KindPow {
			return "(" + s + ")"
		}
	case KindNum:
		if strings.HasPrefix(s, "-") || (outer == KindPow && strings.Contains(s, "/")) {
			return "(" + s + ")"
		}
	case KindPow:
		if outer == KindPow {
			return "(" + s + ")"
		}
	}
	return s
}
