// SPDX-License-Identifier: MIT

package opt

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/symopt/codegen"
	"github.com/katalvlaran/symopt/geo"
	"github.com/katalvlaran/symopt/sym"
)

// OptimizationProblem combines subproblems and their residual blocks.
//
// Inputs are laid out as
//
//	shared_inputs.<key>   (optional)
//	<subproblem>.<key>    for every subproblem with inputs
type OptimizationProblem struct {
	subproblems []SubProblem
	inputs      *Values[geo.Element]
	blocks      *Values[ResidualBlock]
	residuals   *Values[[]sym.Expr]
	extra       *Values[geo.Element]
	opts        options
}

// NewOptimizationProblem merges inputs and splits residual blocks.
//
// Errors:
//   - ErrNoResiduals when blocks is nil.
//   - ErrDuplicateName for repeated subproblem names or a subproblem named SharedInputsKey
//     while shared inputs are set.
//   - ErrUnknownInput when a residual or extra value mentions a symbol that is
//     not a storage entry of any input.
func NewOptimizationProblem(subproblems []SubProblem, blocks *Values[ResidualBlock], opts ...Option) (*OptimizationProblem, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if blocks == nil {
		return nil, fmt.Errorf("NewOptimizationProblem: %w", ErrNoResiduals)
	}

	inputs, err := buildInputs(subproblems, o.shared)
	if err != nil {
		return nil, fmt.Errorf("NewOptimizationProblem: %w", err)
	}
	p := &OptimizationProblem{
		subproblems: append([]SubProblem(nil), subproblems...),
		inputs:      inputs,
		blocks:      blocks,
		opts:        o,
	}
	if p.residuals, p.extra, err = splitResidualBlocks(blocks); err != nil {
		return nil, fmt.Errorf("NewOptimizationProblem: %w", err)
	}
	if err = p.validate(); err != nil {
		return nil, fmt.Errorf("NewOptimizationProblem: %w", err)
	}

	return p, nil
}

func buildInputs(subproblems []SubProblem, shared *Values[geo.Element]) (*Values[geo.Element], error) {
	inputs := NewValues[geo.Element]()
	seen := make(map[string]bool, len(subproblems)+1)
	if shared != nil {
		if err := inputs.SetValues(SharedInputsKey, shared); err != nil {
			return nil, err
		}
		seen[SharedInputsKey] = true
	}
	for _, sp := range subproblems {
		if seen[sp.Name()] {
			return nil, fmt.Errorf("%q: %w", sp.Name(), ErrDuplicateName)
		}
		seen[sp.Name()] = true
		if in := sp.Inputs(); in != nil && in.Len() > 0 {
			if err := inputs.SetValues(sp.Name(), in); err != nil {
				return nil, fmt.Errorf("subproblem %q: %w", sp.Name(), err)
			}
		}
	}
	return inputs, nil
}

func splitResidualBlocks(blocks *Values[ResidualBlock]) (*Values[[]sym.Expr], *Values[geo.Element], error) {
	residuals := NewValues[[]sym.Expr]()
	extra := NewValues[geo.Element]()
	for _, it := range blocks.ItemsRecursive() {
		if err := residuals.Set(it.Key, it.Value.Residual); err != nil {
			return nil, nil, err
		}
		ev := it.Value.Extra
		if ev == nil {
			ev = NewValues[geo.Element]()
		}
		if err := extra.SetValues(it.Key, ev); err != nil {
			return nil, nil, err
		}
	}
	return residuals, extra, nil
}

// validate checks that residuals and extra values only mention input symbols.
func (p *OptimizationProblem) validate() error {
	bound := storageSymbols(p.inputs)
	for _, it := range p.blocks.ItemsRecursive() {
		exprs := append([]sym.Expr(nil), it.Value.Residual...)
		if it.Value.Extra != nil {
			for _, e := range it.Value.Extra.ItemsRecursive() {
				exprs = append(exprs, e.Value.ToStorage()...)
			}
		}
		for _, s := range sym.FreeSymbols(exprs...) {
			if !bound[s] {
				return fmt.Errorf("residual block %q uses %s: %w", it.Key, s, ErrUnknownInput)
			}
		}
	}
	return nil
}

func storageSymbols(inputs *Values[geo.Element]) map[string]bool {
	bound := make(map[string]bool)
	for _, it := range inputs.ItemsRecursive() {
		for _, e := range it.Value.ToStorage() {
			if s, ok := e.(*sym.Sym); ok {
				bound[s.Name()] = true
			}
		}
	}
	return bound
}

// Subproblems returns the subproblems in construction order.
func (p *OptimizationProblem) Subproblems() []SubProblem {
	return append([]SubProblem(nil), p.subproblems...)
}

// Inputs returns the merged inputs.
func (p *OptimizationProblem) Inputs() *Values[geo.Element] { return p.inputs }

// ResidualBlocks returns the residual blocks as given.
func (p *OptimizationProblem) ResidualBlocks() *Values[ResidualBlock] { return p.blocks }

// Residuals returns the residual of every block under the block's key.
func (p *OptimizationProblem) Residuals() *Values[[]sym.Expr] { return p.residuals }

// ExtraValues returns the extra values of every block under the block's key.
func (p *OptimizationProblem) ExtraValues() *Values[geo.Element] { return p.extra }

// Epsilon returns the epsilon used for Jacobians.
func (p *OptimizationProblem) Epsilon() sym.Expr { return sym.NFloat(p.opts.epsilon) }

// Keys returns the dotted keys of all inputs.
func (p *OptimizationProblem) Keys() []string { return p.inputs.KeysRecursive() }

// OptimizedKeys maps every optimized value declared by the subproblems back
// to its input key by comparing flattened storage.
//
// When several inputs share identical storage the later key wins and the
// alias is logged.
//
// Errors: ErrKeyNotFound when no input has the value's storage,
// ErrOptimizedValueMismatch when the input under that key is not equal to the value.
func (p *OptimizationProblem) OptimizedKeys() ([]string, error) {
	ctx := context.Background()
	byStorage := make(map[string]string)
	for _, it := range p.inputs.ItemsRecursive() {
		id := storageID(it.Value)
		if prev, ok := byStorage[id]; ok {
			p.opts.logger.LogAlias(ctx, it.Key, prev)
		}
		byStorage[id] = it.Key
	}

	var keys []string
	for _, sp := range p.subproblems {
		for _, v := range sp.OptimizedValues() {
			key, ok := byStorage[storageID(v)]
			if !ok {
				return nil, fmt.Errorf("OptimizedKeys: value %s of subproblem %q: %w", describe(v), sp.Name(), ErrKeyNotFound)
			}
			in, _ := p.inputs.Get(key)
			if !geo.Equal(v, in) {
				return nil, fmt.Errorf("OptimizedKeys: value %s of subproblem %q does not match input %s for key %s: %w",
					describe(v), sp.Name(), describe(in), key, ErrOptimizedValueMismatch)
			}
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func storageID(el geo.Element) string {
	st := el.ToStorage()
	parts := make([]string, len(st))
	for i, e := range st {
		parts[i] = e.String()
	}
	return strings.Join(parts, "\x00")
}

func describe(el geo.Element) string {
	st := el.ToStorage()
	parts := make([]string, len(st))
	for i, e := range st {
		parts[i] = e.String()
	}
	return el.Kind() + "(" + strings.Join(parts, ", ") + ")"
}

// FactorBlocks is the group of residual blocks that forms one factor.
type FactorBlocks struct {
	Name   string
	Keys   []string
	Blocks []ResidualBlock
}

// ResidualBlocksPerFactor groups residual blocks by factor name, in order of
// first appearance. Blocks without a factor name go to defaultName.
func (p *OptimizationProblem) ResidualBlocksPerFactor(defaultName string) []FactorBlocks {
	var groups []FactorBlocks
	index := make(map[string]int)
	for _, it := range p.blocks.ItemsRecursive() {
		name := it.Value.FactorName
		if name == "" {
			name = defaultName
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, FactorBlocks{Name: name})
		}
		groups[i].Keys = append(groups[i].Keys, it.Key)
		groups[i].Blocks = append(groups[i].Blocks, it.Value)
	}
	return groups
}

// ComputeJacobians differentiates each block with respect to the inputs under
// keys and stacks the block Jacobians vertically.
func (p *OptimizationProblem) ComputeJacobians(keys []string, blocks []ResidualBlock) (*sym.Matrix, error) {
	wrt := make([]geo.Element, len(keys))
	cols := 0
	for i, k := range keys {
		el, ok := p.inputs.Get(k)
		if !ok {
			return nil, fmt.Errorf("ComputeJacobians(%s): %w", k, ErrKeyNotFound)
		}
		lg, err := geo.AsLieGroup(el)
		if err != nil {
			return nil, fmt.Errorf("ComputeJacobians(%s): %w", k, err)
		}
		wrt[i] = el
		cols += lg.TangentDim()
	}
	if len(blocks) == 0 {
		return sym.NewMatrix(0, cols)
	}

	eps := p.Epsilon()
	parts := make([]*sym.Matrix, len(blocks))
	for i, b := range blocks {
		j, err := b.ComputeJacobians(wrt, eps)
		if err != nil {
			return nil, fmt.Errorf("ComputeJacobians: %w", err)
		}
		parts[i] = j
	}
	return sym.VStack(parts...)
}

// MakeSymbolicFactors returns one Factor per factor name. An empty name uses
// the configured default.
func (p *OptimizationProblem) MakeSymbolicFactors(name string) ([]*Factor, error) {
	if name == "" {
		name = p.opts.factorName
	}
	groups := p.ResidualBlocksPerFactor(name)
	keys := p.Keys()
	factors := make([]*Factor, len(groups))
	for i, grp := range groups {
		var residual []sym.Expr
		for _, b := range grp.Blocks {
			residual = append(residual, b.Residual...)
		}
		blocks := grp.Blocks
		factors[i] = &Factor{
			name:     grp.Name,
			keys:     keys,
			inputs:   p.inputs,
			residual: residual,
			jacobian: func(keys []string) (*sym.Matrix, error) { return p.ComputeJacobians(keys, blocks) },
			opts:     p.opts,
		}
	}
	p.opts.logger.LogFactors(context.Background(), len(factors), nil)
	return factors, nil
}

// MakeNumericFactors returns a NumericFactor per factor. With optimizedKeys
// nil the subproblems' optimized keys are used; each factor keeps only the
// keys its residual depends on.
func (p *OptimizationProblem) MakeNumericFactors(name string, optimizedKeys []string) ([]*NumericFactor, error) {
	if optimizedKeys == nil {
		var err error
		if optimizedKeys, err = p.OptimizedKeys(); err != nil {
			return nil, err
		}
	} else if err := p.checkKeys("MakeNumericFactors", optimizedKeys); err != nil {
		return nil, err
	}
	factors, err := p.MakeSymbolicFactors(name)
	if err != nil {
		return nil, err
	}
	out := make([]*NumericFactor, len(factors))
	for i, f := range factors {
		nf, err := f.ToNumericFactor(intersect(optimizedKeys, f.DependentKeys()))
		if err != nil {
			p.opts.logger.WithFactor(f.Name()).LogFactors(context.Background(), 0, err)
			return nil, err
		}
		out[i] = nf
	}
	return out, nil
}

// GenerateFactors builds the linearization function of every factor with
// respect to keys, concurrently up to the configured parallelism. Each
// factor only differentiates the keys it depends on. With keys nil the
// optimized keys are used.
func (p *OptimizationProblem) GenerateFactors(ctx context.Context, name string, keys []string) ([]*codegen.Function, error) {
	if keys == nil {
		var err error
		if keys, err = p.OptimizedKeys(); err != nil {
			return nil, err
		}
	} else if err := p.checkKeys("GenerateFactors", keys); err != nil {
		return nil, err
	}
	factors, err := p.MakeSymbolicFactors(name)
	if err != nil {
		return nil, err
	}
	out := make([]*codegen.Function, len(factors))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.parallelism)
	for i, f := range factors {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn, err := f.linearization(gctx, intersect(keys, f.DependentKeys()), true)
			if err != nil {
				return fmt.Errorf("GenerateFactors(%s): %w", f.Name(), err)
			}
			out[i] = fn
			return nil
		})
	}
	err = g.Wait()
	p.opts.logger.LogFactors(ctx, len(factors), err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// checkKeys requires every key to be one of Keys().
func (p *OptimizationProblem) checkKeys(op string, keys []string) error {
	for _, k := range keys {
		if _, ok := p.inputs.Get(k); !ok {
			return fmt.Errorf("%s: optimized key %s: %w", op, k, ErrKeyNotFound)
		}
	}
	return nil
}

// intersect returns the elements of keys present in allowed, in keys order.
func intersect(keys, allowed []string) []string {
	set := make(map[string]bool, len(allowed))
	for _, k := range allowed {
		set[k] = true
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if set[k] {
			out = append(out, k)
		}
	}
	return out
}
