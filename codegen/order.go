// SPDX-License-Identifier: MIT

package codegen

import (
	"context"

	"github.com/katalvlaran/symopt/sym"
)

// Visitation states for dagSorter.
const (
	white = iota
	gray
	black
)

// dagSorter records a children-first ordering of the temporaries reachable
// from a set of roots. Because every node is appended only after all of its
// operands, the post-order is already a valid emission order.
type dagSorter struct {
	ctx   context.Context
	g     *graph
	state map[sym.Expr]int
	order []sym.Expr
}

func newDAGSorter(ctx context.Context, g *graph) *dagSorter {
	return &dagSorter{
		ctx:   ctx,
		g:     g,
		state: make(map[sym.Expr]int, len(g.refs)),
		order: make([]sym.Expr, 0, len(g.temps)),
	}
}

// sort visits every root in order and returns the temporaries in emission order.
func (s *dagSorter) sort(roots []sym.Expr) ([]sym.Expr, error) {
	for _, r := range roots {
		if err := s.visit(r); err != nil {
			return nil, err
		}
	}

	return s.order, nil
}

func (s *dagSorter) visit(e sym.Expr) error {
	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
	}
	switch s.state[e] {
	case gray:
		return ErrCycleDetected
	case black:
		return nil
	}
	s.state[e] = gray

	for _, c := range e.Args() {
		if err := s.visit(s.g.canonical(c)); err != nil {
			return err
		}
	}

	s.state[e] = black
	if s.g.temps[e] {
		s.order = append(s.order, e)
	}

	return nil
}
