// SPDX-License-Identifier: MIT

// Package opt assembles symbolic subproblems into factors for a nonlinear
// least-squares solver.
//
// A SubProblem owns a slice of named inputs. NewOptimizationProblem merges
// them into one Values tree keyed by subproblem name (plus "shared_inputs"),
// splits residual blocks into residuals and diagnostic extra values, and
// validates eagerly that every residual only mentions declared inputs.
//
// Residual blocks are grouped by factor name. Each group becomes a Factor
// whose Jacobian with respect to any chosen keys is built block by block, so
// keys that were not asked for are never differentiated. A Factor can be
// turned into a generated linearization function (residual, Jacobian,
// Gauss-Newton Hessian JᵀJ and right-hand side Jᵀr) or into a NumericFactor
// that evaluates residual and Jacobian for concrete values.
package opt
