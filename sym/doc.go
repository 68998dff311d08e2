// SPDX-License-Identifier: MIT

// Package sym is the small symbolic kernel that the code generator and the
// geometry types are written against.
//
// What:
//
//   - Immutable expression nodes: Num (exact rational), Sym, Add, Mul, Pow,
//     unary Func (sin, cos, acos, abs, sign, ...) and binary Func2
//     (min, max, copysign, atan2).
//   - Simplifying constructors (AddOf, MulOf, PowOf, ...) that flatten, fold
//     constants, and combine like terms, so that structurally equal values
//     hash identically.
//   - Exact differentiation (Diff), substitution (Subs), evaluation (Eval) and
//     symbol discovery (FreeSymbols), all memoized over the expression DAG.
//   - Matrix: a dense matrix of expressions with block stacking and Jacobian.
//
// Determinism:
//
//   - Every node caches a 64-bit structural hash. Operand order inside Add and
//     Mul is canonical (kind rank, then symbol name, then hash), so the same
//     mathematical input always produces the same tree and the same printout.
//
// Errors:
//
//   - ErrUnboundSymbol   Eval met a symbol absent from the environment
//   - ErrBadShape        negative matrix dimensions
//   - ErrDimensionMismatch incompatible matrix operands
package sym
