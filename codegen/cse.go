// SPDX-License-Identifier: MIT

package codegen

import (
	"context"
	"fmt"

	"github.com/katalvlaran/symopt/sym"
)

// tempPrefix names CSE temporaries: _tmp0, _tmp1, ...
const tempPrefix = "_tmp"

// graph is the deduplicated view of a set of expression trees. Structurally
// equal subtrees map to a single representative node.
type graph struct {
	buckets map[uint64][]sym.Expr
	canon   map[sym.Expr]sym.Expr
	refs    map[sym.Expr]int
	temps   map[sym.Expr]bool
}

func newGraph() *graph {
	return &graph{
		buckets: make(map[uint64][]sym.Expr),
		canon:   make(map[sym.Expr]sym.Expr),
		refs:    make(map[sym.Expr]int),
		temps:   make(map[sym.Expr]bool),
	}
}

// canonical returns the representative of e, interning it on first sight.
func (g *graph) canonical(e sym.Expr) sym.Expr {
	if c, ok := g.canon[e]; ok {
		return c
	}
	h := e.Hash()
	for _, c := range g.buckets[h] {
		if sym.Equal(c, e) {
			g.canon[e] = c
			return c
		}
	}
	g.buckets[h] = append(g.buckets[h], e)
	g.canon[e] = e

	return e
}

// count records one reference per distinct parent for every node under root.
func (g *graph) count(root sym.Expr, seen map[sym.Expr]bool) {
	if seen[root] {
		return
	}
	seen[root] = true
	children := make(map[sym.Expr]bool, len(root.Args()))
	for _, a := range root.Args() {
		c := g.canonical(a)
		if children[c] {
			continue
		}
		children[c] = true
		g.refs[c]++
		g.count(c, seen)
	}
}

// reduction is the result of eliminating common subexpressions.
type reduction struct {
	ops     []Operation
	results [][]sym.Expr
}

// eliminate runs CSE over groups of output entries. With enabled false the
// outputs are returned unchanged and no temporaries are introduced.
func eliminate(ctx context.Context, groups [][]sym.Expr, enabled bool) (*reduction, error) {
	if !enabled {
		res := make([][]sym.Expr, len(groups))
		for i, grp := range groups {
			res[i] = append([]sym.Expr(nil), grp...)
		}
		return &reduction{results: res}, nil
	}

	// Stage 1: intern roots and count references.
	g := newGraph()
	seen := make(map[sym.Expr]bool)
	roots := make([]sym.Expr, 0)
	for _, grp := range groups {
		for _, e := range grp {
			c := g.canonical(e)
			g.refs[c]++
			roots = append(roots, c)
			g.count(c, seen)
		}
	}

	// Stage 2: every shared non-leaf node becomes a temporary.
	for n, r := range g.refs {
		if r > 1 && len(n.Args()) > 0 {
			g.temps[n] = true
		}
	}

	// Stage 3: order temporaries and assign names in emission order.
	order, err := newDAGSorter(ctx, g).sort(roots)
	if err != nil {
		return nil, fmt.Errorf("eliminate: %w", err)
	}
	names := make(map[sym.Expr]sym.Expr, len(order))
	for i, n := range order {
		names[n] = sym.S(fmt.Sprintf("%s%d", tempPrefix, i))
	}

	// Stage 4: rewrite definitions and outputs over the temporaries.
	rw := &rewriter{g: g, names: names, memo: make(map[sym.Expr]sym.Expr)}
	ops := make([]Operation, len(order))
	for i, n := range order {
		ops[i] = Operation{Name: names[n].String(), Expr: rw.body(n)}
	}
	res := make([][]sym.Expr, len(groups))
	for i, grp := range groups {
		res[i] = make([]sym.Expr, len(grp))
		for j, e := range grp {
			res[i][j] = rw.ref(g.canonical(e))
		}
	}

	return &reduction{ops: ops, results: res}, nil
}

type rewriter struct {
	g     *graph
	names map[sym.Expr]sym.Expr
	memo  map[sym.Expr]sym.Expr
}

// ref returns the expression used where n is an operand.
func (r *rewriter) ref(n sym.Expr) sym.Expr {
	if t, ok := r.names[n]; ok {
		return t
	}
	return r.body(n)
}

// body returns n rebuilt over rewritten operands.
func (r *rewriter) body(n sym.Expr) sym.Expr {
	args := n.Args()
	if len(args) == 0 {
		return n
	}
	if v, ok := r.memo[n]; ok {
		return v
	}
	mapped := make([]sym.Expr, len(args))
	for i, a := range args {
		mapped[i] = r.ref(r.g.canonical(a))
	}
	out := sym.Rebuild(n, mapped)
	r.memo[n] = out

	return out
}
