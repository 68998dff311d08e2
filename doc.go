// SPDX-License-Identifier: MIT

// Package symopt generates closed-form numerical routines for manifold-valued
// variables and assembles them into residual and Jacobian structures for
// nonlinear least-squares optimization.
//
// Everything is organized under these subpackages:
//
//	sym/      expression trees: simplifying constructors, exact derivatives, evaluation
//	geo/      symbolic geometric types (Rot3, Pose3, calibrations, vectors, matrices)
//	lie/      the same tangent-space operators in closed form over float64
//	codegen/  CSE, operation ordering, evaluators and tangent-space Jacobians
//	opt/      subproblems, residual blocks, factors and numeric linearization
//	matrix/   dense float64 matrices for numeric Jacobians and Hessians
//	config/   YAML settings (epsilon, CSE, parallelism, logging)
//	logging/  structured logging on log/slog
//
// Quick start:
//
//	args := []codegen.Arg{{Name: "R", Type: geo.Rot3Identity()}, {Name: "v", Type: geo.NewVector(sym.N(0), sym.N(0), sym.N(0))}}
//	fn, err := codegen.NewFunction("retract", args, func(in *codegen.Inputs) ([]codegen.Output, error) {
//		r, _ := in.LieGroup("R")
//		out, err := r.Retract(in.Get("v").ToStorage(), in.Epsilon())
//		return []codegen.Output{{Name: "res", Value: out}}, err
//	})
//	ev, _ := fn.Evaluator()
//	res, _ := ev.Call([]float64{0, 0, 0, 1}, []float64{0.1, 0, 0})
package symopt
