// SPDX-License-Identifier: MIT

// Package codegen turns a pure symbolic body over typed inputs into a
// reduced, ordered operation list and a numeric evaluator.
//
// Pipeline (NewFunction):
//
//  1. Build placeholder inputs: argument "a" of type T gets storage symbols
//     a[0], a[1], ... via geo.Symbolic.
//  2. Run the body once to obtain its named symbolic outputs.
//  3. Common subexpression elimination: structurally equal subtrees are
//     merged; every non-leaf node referenced more than once becomes a
//     temporary _tmpN.
//  4. Topological ordering: temporaries are emitted in DFS post-order from
//     the outputs, so each one only refers to inputs and earlier temporaries.
//
// WithJacobians augments a function with the Jacobian of one output with
// respect to chosen arguments. Columns are tangent-space wide: for an input
// x of a LieGroup type the block is
//
//	∂output/∂storage(x) · ∂storage(retract(x, δ, ε))/∂δ |δ=0
//
// so a Rot3 contributes 3 columns, not 4. Asking for the Jacobian with
// respect to a type without a tangent space fails at generation time.
//
// Epsilon: an argument named "epsilon" supplies the regularization
// constant; functions without one use the configured default.
package codegen
