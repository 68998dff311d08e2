// SPDX-License-Identifier: MIT

package geo

import (
	"fmt"

	"github.com/katalvlaran/symopt/sym"
)

// Element is a value with a fixed-size flat storage representation.
type Element interface {
	// Kind names the geometric type, e.g. "Rot3" or "V3".
	Kind() string
	StorageDim() int
	// ToStorage returns a copy of the storage entries.
	ToStorage() []sym.Expr
	// FromStorage builds a new element of the receiver's type from entries.
	FromStorage(entries []sym.Expr) (Element, error)
}

// LieGroup is an Element with closed-form tangent space operators.
// All operators take the regularization epsilon as an expression so that it
// may stay symbolic in generated functions.
type LieGroup interface {
	Element
	TangentDim() int
	Identity() LieGroup
	FromTangent(vec []sym.Expr, eps sym.Expr) (LieGroup, error)
	ToTangent(eps sym.Expr) []sym.Expr
	Retract(vec []sym.Expr, eps sym.Expr) (LieGroup, error)
	LocalCoordinates(b LieGroup, eps sym.Expr) ([]sym.Expr, error)
}

// AsLieGroup returns el as a LieGroup or ErrNoTangentSpace.
func AsLieGroup(el Element) (LieGroup, error) {
	lg, ok := el.(LieGroup)
	if !ok {
		return nil, fmt.Errorf("AsLieGroup(%s): %w", el.Kind(), ErrNoTangentSpace)
	}
	return lg, nil
}

// Interpolate returns Retract(a, alpha * LocalCoordinates(a, b)).
// alpha = 0 yields a and alpha = 1 yields b up to epsilon.
func Interpolate(a, b LieGroup, alpha, eps sym.Expr) (LieGroup, error) {
	delta, err := a.LocalCoordinates(b, eps)
	if err != nil {
		return nil, fmt.Errorf("Interpolate: %w", err)
	}
	for i := range delta {
		delta[i] = sym.MulOf(alpha, delta[i])
	}
	return a.Retract(delta, eps)
}

// Symbolic returns an element of proto's type whose storage entries are the
// symbols prefix[0], prefix[1], ...
func Symbolic(proto Element, prefix string) (Element, error) {
	entries := make([]sym.Expr, proto.StorageDim())
	for i := range entries {
		entries[i] = sym.S(StorageSymbol(prefix, i))
	}
	return proto.FromStorage(entries)
}

// StorageSymbol is the name Symbolic gives to storage entry i under prefix.
func StorageSymbol(prefix string, i int) string {
	return fmt.Sprintf("%s[%d]", prefix, i)
}

// Equal reports whether a and b have the same kind and structurally equal storage.
func Equal(a, b Element) bool {
	if a.Kind() != b.Kind() || a.StorageDim() != b.StorageDim() {
		return false
	}
	sa, sb := a.ToStorage(), b.ToStorage()
	for i := range sa {
		if !sym.Equal(sa[i], sb[i]) {
			return false
		}
	}
	return true
}

// Evaluate evaluates the storage of el numerically under env.
func Evaluate(el Element, env map[string]float64) ([]float64, error) {
	st := el.ToStorage()
	out := make([]float64, len(st))
	for i, e := range st {
		v, err := sym.Eval(e, env)
		if err != nil {
			return nil, fmt.Errorf("Evaluate(%s): %w", el.Kind(), err)
		}
		out[i] = v
	}
	return out, nil
}

// Constant returns an element of proto's type with numeric storage values.
func Constant(proto Element, values []float64) (Element, error) {
	if err := checkShape(proto.Kind()+".FromStorage", len(values), proto.StorageDim()); err != nil {
		return nil, err
	}
	entries := make([]sym.Expr, len(values))
	for i, v := range values {
		entries[i] = sym.NFloat(v)
	}
	return proto.FromStorage(entries)
}

func copyExprs(in []sym.Expr) []sym.Expr {
	out := make([]sym.Expr, len(in))
	copy(out, in)
	return out
}

func zeros(n int) []sym.Expr {
	out := make([]sym.Expr, n)
	for i := range out {
		out[i] = sym.N(0)
	}
	return out
}

var (
	_ LieGroup = (*Rot3)(nil)
	_ LieGroup = (*Pose3)(nil)
	_ LieGroup = (*Vector)(nil)
	_ Element  = (*Matrix)(nil)
)
