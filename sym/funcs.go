// SPDX-License-Identifier: MIT

package sym

import (
	"math"
	"math/big"
)

// Unary function names understood by Func.
const (
	FnSin  = "sin"
	FnCos  = "cos"
	FnTan  = "tan"
	FnAsin = "asin"
	FnAcos = "acos"
	FnAtan = "atan"
	FnExp  = "exp"
	FnLn   = "ln"
	FnAbs  = "abs"
	FnSign = "sign"
)

// Binary function names understood by Func2.
const (
	FnMin      = "min"
	FnMax      = "max"
	FnCopysign = "copysign"
	FnAtan2    = "atan2"
)

// ============================================================
// Func: unary elementary function
// ============================================================

// Func is name(arg).
type Func struct {
	name string
	arg  Expr
	h    uint64
}

func (f *Func) Kind() Kind       { return KindFunc }
func (f *Func) Hash() uint64     { return f.h }
func (f *Func) Args() []Expr     { return []Expr{f.arg} }
func (f *Func) FuncName() string { return f.name }
func (f *Func) Arg() Expr        { return f.arg }

func funcOf(name string, arg Expr) Expr {
	if n, ok := arg.(*Num); ok {
		if folded, ok := foldFunc(name, n); ok {
			return folded
		}
	}
	switch name {
	case FnAbs:
		if inner, ok := arg.(*Func); ok && inner.name == FnAbs {
			return inner
		}
	case FnSign:
		if inner, ok := arg.(*Func); ok && inner.name == FnSign {
			return inner
		}
	}
	return &Func{name: name, arg: arg, h: hashNode("fn:"+name, arg)}
}

// foldFunc evaluates the exact special values only; anything else stays symbolic.
func foldFunc(name string, n *Num) (Expr, bool) {
	switch name {
	case FnAbs:
		return newNum(new(big.Rat).Abs(n.val)), true
	case FnSign:
		return N(int64(n.Sign())), true
	case FnSin, FnTan, FnAsin, FnAtan:
		if n.IsZero() {
			return N(0), true
		}
	case FnCos, FnExp:
		if n.IsZero() {
			return N(1), true
		}
	case FnLn, FnAcos:
		if n.IsOne() {
			return N(0), true
		}
	}
	return nil, false
}

func SinOf(e Expr) Expr  { return funcOf(FnSin, e) }
func CosOf(e Expr) Expr  { return funcOf(FnCos, e) }
func TanOf(e Expr) Expr  { return funcOf(FnTan, e) }
func AsinOf(e Expr) Expr { return funcOf(FnAsin, e) }
func AcosOf(e Expr) Expr { return funcOf(FnAcos, e) }
func AtanOf(e Expr) Expr { return funcOf(FnAtan, e) }
func ExpOf(e Expr) Expr  { return funcOf(FnExp, e) }
func LnOf(e Expr) Expr   { return funcOf(FnLn, e) }
func AbsOf(e Expr) Expr  { return funcOf(FnAbs, e) }
func SignOf(e Expr) Expr { return funcOf(FnSign, e) }

// ============================================================
// Func2: binary elementary function
// ============================================================

// Func2 is name(a, b).
type Func2 struct {
	name string
	a, b Expr
	h    uint64
}

func (f *Func2) Kind() Kind       { return KindFunc2 }
func (f *Func2) Hash() uint64     { return f.h }
func (f *Func2) Args() []Expr     { return []Expr{f.a, f.b} }
func (f *Func2) FuncName() string { return f.name }

func func2Of(name string, a, b Expr) Expr {
	an, aok := a.(*Num)
	bn, bok := b.(*Num)
	if aok && bok {
		switch name {
		case FnMin:
			if an.val.Cmp(bn.val) <= 0 {
				return an
			}
			return bn
		case FnMax:
			if an.val.Cmp(bn.val) >= 0 {
				return an
			}
			return bn
		case FnCopysign:
			abs := new(big.Rat).Abs(an.val)
			if bn.Sign() < 0 {
				abs.Neg(abs)
			}
			return newNum(abs)
		}
	}
	if name == FnMin || name == FnMax {
		if Equal(a, b) {
			return a
		}
	}
	return &Func2{name: name, a: a, b: b, h: hashNode("fn2:"+name, a, b)}
}

// MinOf returns min(a, b).
func MinOf(a, b Expr) Expr { return func2Of(FnMin, a, b) }

// MaxOf returns max(a, b).
func MaxOf(a, b Expr) Expr { return func2Of(FnMax, a, b) }

// CopysignOf returns |a| carrying the sign of b; copysign(x, 0) is +|x|.
func CopysignOf(a, b Expr) Expr { return func2Of(FnCopysign, a, b) }

// Atan2Of returns atan2(y, x).
func Atan2Of(y, x Expr) Expr { return func2Of(FnAtan2, y, x) }

// signum is the numeric sign used by evaluation: -1, 0 or 1.
func signum(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

func applyFunc(name string, x float64) float64 {
	switch name {
	case FnSin:
		return math.Sin(x)
	case FnCos:
		return math.Cos(x)
	case FnTan:
		return math.Tan(x)
	case FnAsin:
		return math.Asin(x)
	case FnAcos:
		return math.Acos(x)
	case FnAtan:
		return math.Atan(x)
	case FnExp:
		return math.Exp(x)
	case FnLn:
		return math.Log(x)
	case FnAbs:
		return math.Abs(x)
	case FnSign:
		return signum(x)
	}
	return math.NaN()
}

func applyFunc2(name string, a, b float64) float64 {
	switch name {
	case FnMin:
		return math.Min(a, b)
	case FnMax:
		return math.Max(a, b)
	case FnCopysign:
		return math.Copysign(a, b)
	case FnAtan2:
		return math.Atan2(a, b)
	}
	return math.NaN()
}

// ApplyFunc evaluates the unary function name at x.
func ApplyFunc(name string, x float64) float64 { return applyFunc(name, x) }

// ApplyFunc2 evaluates the binary function name at (a, b).
func ApplyFunc2(name string, a, b float64) float64 { return applyFunc2(name, a, b) }

// ApplyPow evaluates b**e, using exact kernels for the common exponents.
func ApplyPow(b, e float64) float64 {
	switch e {
	case 1:
		return b
	case 2:
		return b * b
	case 3:
		return b * b * b
	case -1:
		return 1 / b
	case 0.5:
		return math.Sqrt(b)
	case -0.5:
		return 1 / math.Sqrt(b)
	case 1.5:
		return b * math.Sqrt(b)
	case -2:
		return 1 / (b * b)
	}
	return math.Pow(b, e)
}
