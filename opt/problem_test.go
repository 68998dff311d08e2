package opt_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/symopt/config"
	"github.com/katalvlaran/symopt/geo"
	"github.com/katalvlaran/symopt/logging"
	"github.com/katalvlaran/symopt/opt"
	"github.com/katalvlaran/symopt/sym"
)

func zeros(n int) *geo.Vector {
	es := make([]sym.Expr, n)
	for i := range es {
		es[i] = sym.N(0)
	}
	return geo.NewVector(es...)
}

// fixture is a two-subproblem problem: a weighted vector prior in "a" and a
// rotation that should map e1 onto e2 in "b".
type fixture struct {
	a, b    *opt.BaseSubProblem
	shared  *opt.Values[geo.Element]
	blocks  *opt.Values[opt.ResidualBlock]
	problem *opt.OptimizationProblem
}

func newFixture(t *testing.T, opts ...opt.Option) *fixture {
	t.Helper()
	fx := &fixture{
		a:      opt.NewBaseSubProblem("a"),
		b:      opt.NewBaseSubProblem("b"),
		shared: opt.NewValues[geo.Element](),
		blocks: opt.NewValues[opt.ResidualBlock](),
	}
	w, err := opt.Declare(fx.shared, opt.SharedInputsKey, "w", geo.NewScalar(sym.N(0)))
	require.NoError(t, err)
	x, err := fx.a.AddInput("x", zeros(2), true)
	require.NoError(t, err)
	target, err := fx.a.AddInput("target", zeros(2), false)
	require.NoError(t, err)
	r, err := fx.b.AddInput("R", geo.Rot3Identity(), true)
	require.NoError(t, err)

	ws := w.ToStorage()[0]
	xs, ts := x.ToStorage(), target.ToStorage()
	diff := []sym.Expr{sym.SubOf(xs[0], ts[0]), sym.SubOf(xs[1], ts[1])}
	extra := opt.NewValues[geo.Element]()
	require.NoError(t, extra.Set("diff", geo.NewVector(diff...)))
	require.NoError(t, fx.blocks.Set("a.prior", opt.ResidualBlock{
		Residual: []sym.Expr{sym.MulOf(ws, diff[0]), sym.MulOf(ws, diff[1])},
		Extra:    extra,
	}))

	q := r.(*geo.Rot3).Rotate([3]sym.Expr{sym.N(1), sym.N(0), sym.N(0)})
	require.NoError(t, fx.blocks.Set("b.rot", opt.ResidualBlock{
		Residual:   []sym.Expr{q[0], sym.SubOf(q[1], sym.N(1)), q[2]},
		FactorName: "rotation",
	}))

	opts = append([]opt.Option{opt.WithSharedInputs(fx.shared)}, opts...)
	fx.problem, err = opt.NewOptimizationProblem([]opt.SubProblem{fx.a, fx.b}, fx.blocks, opts...)
	require.NoError(t, err)
	return fx
}

// TestOptimizationProblem_Assembly checks the merged layout and the split.
func TestOptimizationProblem_Assembly(t *testing.T) {
	fx := newFixture(t)
	p := fx.problem

	assert.Equal(t, []string{"shared_inputs.w", "a.x", "a.target", "b.R"}, p.Keys())

	keys, err := p.OptimizedKeys()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.x", "b.R"}, keys)
	for _, k := range keys {
		assert.Contains(t, p.Keys(), k)
	}

	for _, it := range fx.blocks.ItemsRecursive() {
		res, ok := p.Residuals().Get(it.Key)
		require.True(t, ok)
		assert.Equal(t, it.Value.Residual, res)
		extra, ok := p.ExtraValues().Sub(it.Key)
		require.True(t, ok)
		if it.Value.Extra != nil {
			assert.Equal(t, it.Value.Extra.KeysRecursive(), extra.KeysRecursive())
			for _, leaf := range it.Value.Extra.ItemsRecursive() {
				got, ok := extra.Get(leaf.Key)
				require.True(t, ok, leaf.Key)
				assert.True(t, geo.Equal(leaf.Value, got), leaf.Key)
			}
		} else {
			assert.Equal(t, 0, extra.Len())
		}
	}

	groups := p.ResidualBlocksPerFactor("main")
	require.Len(t, groups, 2)
	assert.Equal(t, "main", groups[0].Name)
	assert.Equal(t, []string{"a.prior"}, groups[0].Keys)
	assert.Equal(t, "rotation", groups[1].Name)
	assert.Equal(t, []string{"b.rot"}, groups[1].Keys)
}

// TestOptimizationProblem_SymbolicFactors checks dependency tracking and the
// block Jacobian.
func TestOptimizationProblem_SymbolicFactors(t *testing.T) {
	p := newFixture(t).problem
	factors, err := p.MakeSymbolicFactors("main")
	require.NoError(t, err)
	require.Len(t, factors, 2)

	assert.Equal(t, "main", factors[0].Name())
	assert.Equal(t, p.Keys(), factors[0].Keys())
	assert.Equal(t, []string{"shared_inputs.w", "a.x", "a.target"}, factors[0].DependentKeys())
	assert.Equal(t, []string{"b.R"}, factors[1].DependentKeys())
	assert.Len(t, factors[1].Residual(), 3)

	j, err := factors[0].Jacobian([]string{"a.x"})
	require.NoError(t, err)
	require.Equal(t, 2, j.Rows())
	require.Equal(t, 2, j.Cols())
	w := sym.S("shared_inputs.w[0]")
	assert.True(t, sym.Equal(j.At(0, 0), w))
	assert.True(t, sym.IsZero(j.At(0, 1)))
	assert.True(t, sym.Equal(j.At(1, 1), w))

	j, err = factors[1].Jacobian([]string{"a.x", "b.R"})
	require.NoError(t, err)
	assert.Equal(t, 5, j.Cols())
	for i := 0; i < 3; i++ {
		assert.True(t, sym.IsZero(j.At(i, 0)))
		assert.True(t, sym.IsZero(j.At(i, 1)))
	}

	_, err = factors[0].Jacobian([]string{"nope"})
	assert.ErrorIs(t, err, opt.ErrKeyNotFound)
}

// TestOptimizationProblem_NumericFactors evaluates both factors.
func TestOptimizationProblem_NumericFactors(t *testing.T) {
	p := newFixture(t).problem
	nfs, err := p.MakeNumericFactors("main", nil)
	require.NoError(t, err)
	require.Len(t, nfs, 2)

	prior := nfs[0]
	assert.Equal(t, []string{"a.x"}, prior.OptimizedKeys())
	assert.Equal(t, []string{"shared_inputs.w", "a.x", "a.target"}, prior.Keys())
	lin, err := prior.Linearize(map[string][]float64{
		"shared_inputs.w": {2},
		"a.x":             {1, 2},
		"a.target":        {0, 0},
	})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 4}, lin.Residual, 1e-12)
	assert.InDeltaSlice(t, []float64{2, 0, 0, 2}, lin.Jacobian.Data(), 1e-12)
	h, err := lin.Hessian()
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{4, 0, 0, 4}, h.Data(), 1e-12)
	rhs, err := lin.Rhs()
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{4, 8}, rhs, 1e-12)
	assert.InDelta(t, 10.0, lin.Cost(), 1e-12)

	rot := nfs[1]
	assert.Equal(t, "rotation", rot.Name())
	lin, err = rot.Linearize(map[string][]float64{"b.R": {0, 0, 0, 1}})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, -1, 0}, lin.Residual, 1e-12)
	// d(R(δ)·e1)/dδ at identity is -[e1]×.
	assert.InDeltaSlice(t, []float64{0, 0, 0, 0, 0, 1, 0, -1, 0}, lin.Jacobian.Data(), 1e-9)

	_, err = rot.Linearize(map[string][]float64{})
	assert.ErrorIs(t, err, opt.ErrKeyNotFound)
}

// TestOptimizationProblem_GenerateFactors builds linearization functions concurrently.
func TestOptimizationProblem_GenerateFactors(t *testing.T) {
	cfg := config.Default()
	cfg.Parallelism = 2
	p := newFixture(t, opt.FromConfig(cfg)).problem

	fns, err := p.GenerateFactors(context.Background(), "main", nil)
	require.NoError(t, err)
	require.Len(t, fns, 2)
	assert.Equal(t, "main_factor", fns[0].Name())
	assert.Equal(t, "rotation_factor", fns[1].Name())

	var names []string
	for _, o := range fns[0].Outputs() {
		names = append(names, o.Name)
	}
	assert.Equal(t, []string{"res", "jacobian", "hessian", "rhs"}, names)
	assert.Equal(t, "shared_inputs_w", fns[0].Args()[0].Name)

	ev, err := fns[0].Evaluator()
	require.NoError(t, err)
	out, err := ev.Call([]float64{3}, []float64{1, 1}, []float64{0, 2})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{3, -3}, out["res"], 1e-12)
	assert.InDeltaSlice(t, []float64{9, 0, 0, 9}, out["hessian"], 1e-12)
	assert.InDeltaSlice(t, []float64{9, -9}, out["rhs"], 1e-12)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.GenerateFactors(ctx, "main", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

type fakeSubProblem struct {
	name      string
	inputs    *opt.Values[geo.Element]
	optimized []geo.Element
}

func (f *fakeSubProblem) Name() string                     { return f.name }
func (f *fakeSubProblem) Inputs() *opt.Values[geo.Element] { return f.inputs }
func (f *fakeSubProblem) OptimizedValues() []geo.Element   { return f.optimized }

func emptyBlocks() *opt.Values[opt.ResidualBlock] { return opt.NewValues[opt.ResidualBlock]() }

// TestOptimizationProblem_Errors covers eager structural validation.
func TestOptimizationProblem_Errors(t *testing.T) {
	a := opt.NewBaseSubProblem("a")
	_, err := a.AddInput("x", zeros(1), true)
	require.NoError(t, err)

	_, err = opt.NewOptimizationProblem([]opt.SubProblem{a, a}, emptyBlocks())
	assert.ErrorIs(t, err, opt.ErrDuplicateName)

	shared := opt.NewValues[geo.Element]()
	clash := opt.NewBaseSubProblem(opt.SharedInputsKey)
	_, err = opt.NewOptimizationProblem([]opt.SubProblem{clash}, emptyBlocks(), opt.WithSharedInputs(shared))
	assert.ErrorIs(t, err, opt.ErrDuplicateName)

	_, err = opt.NewOptimizationProblem([]opt.SubProblem{a}, nil)
	assert.ErrorIs(t, err, opt.ErrNoResiduals)

	blocks := emptyBlocks()
	require.NoError(t, blocks.Set("a.bad", opt.ResidualBlock{Residual: []sym.Expr{sym.S("zz")}}))
	_, err = opt.NewOptimizationProblem([]opt.SubProblem{a}, blocks)
	assert.ErrorIs(t, err, opt.ErrUnknownInput)
}

// TestOptimizedKeys_Errors covers unmatched and mismatched optimized values.
func TestOptimizedKeys_Errors(t *testing.T) {
	inputs := opt.NewValues[geo.Element]()
	s, err := opt.Declare(inputs, "c", "s", geo.NewScalar(sym.N(0)))
	require.NoError(t, err)

	mismatch := &fakeSubProblem{name: "c", inputs: inputs, optimized: []geo.Element{geo.NewVector(s.ToStorage()...)}}
	p, err := opt.NewOptimizationProblem([]opt.SubProblem{mismatch}, emptyBlocks())
	require.NoError(t, err)
	_, err = p.OptimizedKeys()
	assert.ErrorIs(t, err, opt.ErrOptimizedValueMismatch)
	assert.Contains(t, err.Error(), `subproblem "c"`)

	missing := &fakeSubProblem{name: "c", inputs: inputs, optimized: []geo.Element{geo.NewScalar(sym.S("elsewhere"))}}
	p, err = opt.NewOptimizationProblem([]opt.SubProblem{missing}, emptyBlocks())
	require.NoError(t, err)
	_, err = p.OptimizedKeys()
	assert.ErrorIs(t, err, opt.ErrKeyNotFound)
}

// TestOptimizedKeys_NotInProblem rejects caller keys outside Keys().
func TestOptimizedKeys_NotInProblem(t *testing.T) {
	p := newFixture(t).problem

	_, err := p.MakeNumericFactors("main", []string{"a.x", "does.not.exist"})
	assert.ErrorIs(t, err, opt.ErrKeyNotFound)
	assert.Contains(t, err.Error(), "does.not.exist")

	_, err = p.GenerateFactors(context.Background(), "main", []string{"bogus"})
	assert.ErrorIs(t, err, opt.ErrKeyNotFound)

	// A subtree key is not an input key.
	_, err = p.MakeNumericFactors("main", []string{"a"})
	assert.ErrorIs(t, err, opt.ErrKeyNotFound)

	nfs, err := p.MakeNumericFactors("main", []string{"a.x"})
	require.NoError(t, err)
	assert.Empty(t, nfs[1].OptimizedKeys())
}

// TestOptimizedKeys_Alias resolves identical storage to the later key and warns.
func TestOptimizedKeys_Alias(t *testing.T) {
	el := geo.NewScalar(sym.S("shared[0]"))
	inputs := opt.NewValues[geo.Element]()
	require.NoError(t, inputs.Set("p", el))
	require.NoError(t, inputs.Set("q", el))
	sp := &fakeSubProblem{name: "c", inputs: inputs, optimized: []geo.Element{el}}

	var buf bytes.Buffer
	l := logging.NewLogger(slog.NewJSONHandler(&buf, nil))
	p, err := opt.NewOptimizationProblem([]opt.SubProblem{sp}, emptyBlocks(), opt.WithLogger(l))
	require.NoError(t, err)

	keys, err := p.OptimizedKeys()
	require.NoError(t, err)
	assert.Equal(t, []string{"c.q"}, keys)
	assert.Contains(t, buf.String(), "optimized value storage matches several inputs")
}
