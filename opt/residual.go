// SPDX-License-Identifier: MIT

package opt

import (
	"github.com/katalvlaran/symopt/codegen"
	"github.com/katalvlaran/symopt/geo"
	"github.com/katalvlaran/symopt/sym"
)

// ResidualBlock is one residual vector with optional diagnostics.
type ResidualBlock struct {
	Residual []sym.Expr
	// Extra holds values for inspection only; they never enter the optimization.
	Extra *Values[geo.Element]
	// FactorName selects the factor; empty means the default factor.
	FactorName string
}

// ComputeJacobians returns the tangent-space Jacobian of the residual with
// respect to wrt, one column block per element.
func (b ResidualBlock) ComputeJacobians(wrt []geo.Element, eps sym.Expr) (*sym.Matrix, error) {
	return codegen.Jacobian(b.Residual, wrt, eps)
}
