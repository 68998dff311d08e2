// SPDX-License-Identifier: MIT

package opt

import (
	"fmt"

	"github.com/katalvlaran/symopt/geo"
	"github.com/katalvlaran/symopt/sym"
)

// Input keys of a between factor.
const (
	BetweenKeyA        = "a"
	BetweenKeyB        = "b"
	BetweenKeyAToB     = "a_T_b"
	BetweenKeySqrtInfo = "sqrt_info"
)

// BetweenFactor returns a factor penalizing the difference between
// between(a, b) and the measurement a_T_b, whitened by sqrt_info:
//
//	res = sqrt_info · local_coordinates(a_T_b, between(a, b))
//
// a, b and a_T_b have proto's type and sqrt_info is TangentDim×TangentDim.
// Its Linearization with respect to {a, b} is the generated between factor.
func BetweenFactor(name string, proto geo.LieGroup, opts ...Option) (*Factor, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	inputs := NewValues[geo.Element]()
	group := make(map[string]geo.LieGroup, 3)
	for _, key := range []string{BetweenKeyA, BetweenKeyB, BetweenKeyAToB} {
		el, err := Declare(inputs, "", key, proto)
		if err != nil {
			return nil, fmt.Errorf("BetweenFactor(%s): %w", name, err)
		}
		if group[key], err = geo.AsLieGroup(el); err != nil {
			return nil, fmt.Errorf("BetweenFactor(%s): %w", name, err)
		}
	}
	n := proto.TangentDim()
	info, err := sym.NewMatrix(n, n)
	if err != nil {
		return nil, fmt.Errorf("BetweenFactor(%s): %w", name, err)
	}
	el, err := Declare(inputs, "", BetweenKeySqrtInfo, geo.NewMatrix(info))
	if err != nil {
		return nil, fmt.Errorf("BetweenFactor(%s): %w", name, err)
	}

	res, err := geo.BetweenResidual(group[BetweenKeyA], group[BetweenKeyB], group[BetweenKeyAToB], el.(*geo.Matrix), sym.NFloat(o.epsilon))
	if err != nil {
		return nil, fmt.Errorf("BetweenFactor(%s): %w", name, err)
	}
	return NewFactor(name, inputs, res, opts...)
}
