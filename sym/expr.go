// SPDX-License-Identifier: MIT

package sym

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"math/big"
)

// Kind tags the concrete node type of an Expr.
type Kind int

const (
	KindNum Kind = iota
	KindSym
	KindPow
	KindMul
	KindFunc
	KindFunc2
	KindAdd
)

// Expr is an immutable node of an expression DAG.
// Nodes are built only through the constructors of this package, which keep
// them in canonical (simplified, sorted) form.
type Expr interface {
	// Kind reports the node type.
	Kind() Kind
	// Hash is the cached structural hash; equal trees have equal hashes.
	Hash() uint64
	// Args returns the direct operands (nil for leaves). Callers must not mutate it.
	Args() []Expr
	// String renders the expression in infix form.
	String() string
}

// ============================================================
// Num: exact rational constant
// ============================================================

// Num is an exact rational constant.
type Num struct {
	val *big.Rat
	f   float64
	h   uint64
}

func newNum(r *big.Rat) *Num {
	f, _ := r.Float64()
	return &Num{val: r, f: f, h: hashLeaf("num", r.RatString())}
}

// N returns the integer constant n.
func N(n int64) *Num { return newNum(new(big.Rat).SetInt64(n)) }

// F returns the rational constant p/q. It panics when q is zero.
func F(p, q int64) *Num {
	if q == 0 {
		panic("sym: denominator is zero")
	}
	return newNum(new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q)))
}

// NFloat returns the exact rational value of f. Non-finite values panic.
func NFloat(f float64) *Num {
	r := new(big.Rat).SetFloat64(f)
	if r == nil {
		panic("sym: non-finite constant")
	}
	return newNum(r)
}

// Pi is π rounded to float64 and stored exactly.
var Pi = NFloat(math.Pi)

func (n *Num) Kind() Kind       { return KindNum }
func (n *Num) Hash() uint64     { return n.h }
func (n *Num) Args() []Expr     { return nil }
func (n *Num) Float64() float64 { return n.f }
func (n *Num) Rat() *big.Rat    { return new(big.Rat).Set(n.val) }
func (n *Num) IsZero() bool     { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool      { return n.val.IsInt() && n.val.Num().IsInt64() && n.val.Num().Int64() == 1 }
func (n *Num) IsInteger() bool  { return n.val.IsInt() }
func (n *Num) Sign() int        { return n.val.Sign() }

func numAdd(a, b *Num) *Num { return newNum(new(big.Rat).Add(a.val, b.val)) }
func numMul(a, b *Num) *Num { return newNum(new(big.Rat).Mul(a.val, b.val)) }

// ============================================================
// Sym: free variable
// ============================================================

// Sym is a named free variable.
type Sym struct {
	name string
	h    uint64
}

// S returns the symbol called name.
func S(name string) *Sym { return &Sym{name: name, h: hashLeaf("sym", name)} }

func (s *Sym) Kind() Kind     { return KindSym }
func (s *Sym) Hash() uint64   { return s.h }
func (s *Sym) Args() []Expr   { return nil }
func (s *Sym) Name() string   { return s.name }
func (s *Sym) String() string { return s.name }

// ============================================================
// Structural hashing, ordering and equality
// ============================================================

func hashLeaf(tag, payload string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(tag))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(payload))
	return h.Sum64()
}

func hashNode(tag string, children ...Expr) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(tag))
	var buf [8]byte
	for _, c := range children {
		binary.LittleEndian.PutUint64(buf[:], c.Hash())
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

// compare orders operands canonically: kind rank, then symbol name, then hash.
func compare(a, b Expr) int {
	if a.Kind() != b.Kind() {
		if a.Kind() < b.Kind() {
			return -1
		}
		return 1
	}
	if sa, ok := a.(*Sym); ok {
		sb := b.(*Sym)
		switch {
		case sa.name < sb.name:
			return -1
		case sa.name > sb.name:
			return 1
		}
		return 0
	}
	if na, ok := a.(*Num); ok {
		return na.val.Cmp(b.(*Num).val)
	}
	switch {
	case a.Hash() < b.Hash():
		return -1
	case a.Hash() > b.Hash():
		return 1
	}
	return 0
}

// Equal reports whether a and b are structurally identical.
func Equal(a, b Expr) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Hash() != b.Hash() || a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case *Num:
		return x.val.Cmp(b.(*Num).val) == 0
	case *Sym:
		return x.name == b.(*Sym).name
	case *Func:
		return x.name == b.(*Func).name && Equal(x.arg, b.(*Func).arg)
	case *Func2:
		y := b.(*Func2)
		return x.name == y.name && Equal(x.a, y.a) && Equal(x.b, y.b)
	}
	xa, ya := a.Args(), b.Args()
	if len(xa) != len(ya) {
		return false
	}
	for i := range xa {
		if !Equal(xa[i], ya[i]) {
			return false
		}
	}
	return true
}

// IsZero reports whether e is the constant 0.
func IsZero(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n.IsZero()
}

// IsOne reports whether e is the constant 1.
func IsOne(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n.IsOne()
}
