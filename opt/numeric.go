// SPDX-License-Identifier: MIT

package opt

import (
	"fmt"

	"github.com/katalvlaran/symopt/codegen"
	"github.com/katalvlaran/symopt/matrix"
)

// NumericFactor evaluates a factor's residual and Jacobian for concrete values.
// It is safe for concurrent use.
type NumericFactor struct {
	name      string
	keys      []string
	optimized []string
	offsets   []int // column of optimized[i] is offsets[i]; last entry is the width
	ev        *codegen.Evaluator
	rows      int
}

func (n *NumericFactor) Name() string { return n.name }

// Keys returns the keys Linearize reads.
func (n *NumericFactor) Keys() []string { return append([]string(nil), n.keys...) }

// OptimizedKeys returns the keys the Jacobian columns belong to, in column order.
func (n *NumericFactor) OptimizedKeys() []string { return append([]string(nil), n.optimized...) }

// Linearization is the local linear model of a factor.
type Linearization struct {
	Residual []float64
	// Jacobian is len(Residual)×(sum of tangent dims of the optimized keys).
	Jacobian *matrix.Dense

	keys    []string
	offsets []int
}

// Linearize evaluates the factor at values, which holds storage per key.
func (n *NumericFactor) Linearize(values map[string][]float64) (*Linearization, error) {
	in := make([][]float64, len(n.keys))
	for i, k := range n.keys {
		v, ok := values[k]
		if !ok {
			return nil, fmt.Errorf("NumericFactor(%s).Linearize: %s: %w", n.name, k, ErrKeyNotFound)
		}
		in[i] = v
	}
	out, err := n.ev.Call(in...)
	if err != nil {
		return nil, fmt.Errorf("NumericFactor(%s).Linearize: %w", n.name, err)
	}
	jac, err := matrix.NewFromData(n.rows, n.offsets[len(n.offsets)-1], out["jacobian"])
	if err != nil {
		return nil, fmt.Errorf("NumericFactor(%s).Linearize: %w", n.name, err)
	}
	return &Linearization{Residual: out["res"], Jacobian: jac, keys: n.optimized, offsets: n.offsets}, nil
}

// JacobianBlock returns the columns of the Jacobian that belong to key.
// Errors: ErrKeyNotFound when key is not optimized.
func (l *Linearization) JacobianBlock(key string) (*matrix.Dense, error) {
	for i, k := range l.keys {
		if k == key {
			return l.Jacobian.Slice(0, l.Jacobian.Rows(), l.offsets[i], l.offsets[i+1])
		}
	}
	return nil, fmt.Errorf("Linearization.JacobianBlock(%s): %w", key, ErrKeyNotFound)
}

// Hessian returns the Gauss-Newton approximation JᵀJ.
func (l *Linearization) Hessian() (*matrix.Dense, error) {
	jt, err := matrix.Transpose(l.Jacobian)
	if err != nil {
		return nil, err
	}
	return matrix.Mul(jt, l.Jacobian)
}

// Rhs returns Jᵀr.
func (l *Linearization) Rhs() ([]float64, error) {
	jt, err := matrix.Transpose(l.Jacobian)
	if err != nil {
		return nil, err
	}
	return matrix.MatVec(jt, l.Residual)
}

// Cost returns ½‖r‖².
func (l *Linearization) Cost() float64 {
	sum := 0.0
	for _, r := range l.Residual {
		sum += r * r
	}
	return sum / 2
}
