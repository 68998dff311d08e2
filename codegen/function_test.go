package codegen_test

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/symopt/codegen"
	"github.com/katalvlaran/symopt/config"
	"github.com/katalvlaran/symopt/geo"
	"github.com/katalvlaran/symopt/logging"
	"github.com/katalvlaran/symopt/sym"
)

func scalarArg(name string) codegen.Arg {
	return codegen.Arg{Name: name, Type: geo.NewScalar(sym.N(0))}
}

func scalarAt(in *codegen.Inputs, i int) sym.Expr { return in.At(i).ToStorage()[0] }

// sharedSinBody returns [sin(x)*y, sin(x)+y].
func sharedSinBody(in *codegen.Inputs) ([]codegen.Output, error) {
	x, y := scalarAt(in, 0), scalarAt(in, 1)
	s := sym.SinOf(x)
	return []codegen.Output{
		{Name: "res", Value: geo.NewVector(sym.MulOf(s, y), sym.AddOf(s, y))},
	}, nil
}

// TestNewFunction_CSEReusesSharedTerm checks that a subtree used twice is named once.
func TestNewFunction_CSEReusesSharedTerm(t *testing.T) {
	fn, err := codegen.NewFunction("f", []codegen.Arg{scalarArg("x"), scalarArg("y")}, sharedSinBody)
	require.NoError(t, err)

	ops := fn.Operations()
	require.Len(t, ops, 1)
	assert.Equal(t, "_tmp0", ops[0].Name)
	assert.True(t, sym.Equal(ops[0].Expr, sym.SinOf(sym.S("x[0]"))))

	res := fn.Results(0)
	tmp, y := sym.S("_tmp0"), sym.S("y[0]")
	assert.True(t, sym.Equal(res[0], sym.MulOf(tmp, y)))
	assert.True(t, sym.Equal(res[1], sym.AddOf(tmp, y)))
	assert.Contains(t, fn.String(), "_tmp0 = sin(x[0])")
}

// TestNewFunction_WithoutCSE keeps outputs as trees.
func TestNewFunction_WithoutCSE(t *testing.T) {
	fn, err := codegen.NewFunction("f", []codegen.Arg{scalarArg("x"), scalarArg("y")}, sharedSinBody, codegen.WithCSE(false))
	require.NoError(t, err)
	assert.Empty(t, fn.Operations())

	cfg := config.Default()
	cfg.CSE = false
	fn, err = codegen.NewFunction("f", []codegen.Arg{scalarArg("x"), scalarArg("y")}, sharedSinBody, codegen.FromConfig(cfg))
	require.NoError(t, err)
	assert.Empty(t, fn.Operations())
}

// TestNewFunction_TopologicalOrder checks that every temporary refers only
// to inputs and earlier temporaries.
func TestNewFunction_TopologicalOrder(t *testing.T) {
	body := func(in *codegen.Inputs) ([]codegen.Output, error) {
		x, y := scalarAt(in, 0), scalarAt(in, 1)
		s := sym.SinOf(x)
		sq := sym.Square(s)
		return []codegen.Output{
			{Name: "a", Value: geo.NewScalar(sym.AddOf(sq, sym.N(1)))},
			{Name: "b", Value: geo.NewVector(sym.MulOf(sym.N(2), sq), sym.AddOf(s, y))},
		}, nil
	}
	fn, err := codegen.NewFunction("g", []codegen.Arg{scalarArg("x"), scalarArg("y")}, body)
	require.NoError(t, err)

	ops := fn.Operations()
	require.Len(t, ops, 2)
	assert.True(t, sym.Equal(ops[0].Expr, sym.SinOf(sym.S("x[0]"))))
	assert.True(t, sym.Equal(ops[1].Expr, sym.Square(sym.S("_tmp0"))))

	known := map[string]bool{"x[0]": true, "y[0]": true}
	for _, op := range ops {
		for _, s := range sym.FreeSymbols(op.Expr) {
			assert.True(t, known[s], "%s uses %s before definition", op.Name, s)
		}
		known[op.Name] = true
	}
	assert.Equal(t, 2, fn.Inputs().Len())
}

// TestNewFunction_Errors covers eager validation.
func TestNewFunction_Errors(t *testing.T) {
	args := []codegen.Arg{scalarArg("x"), scalarArg("y")}

	_, err := codegen.NewFunction("dup", []codegen.Arg{scalarArg("x"), scalarArg("x")}, sharedSinBody)
	assert.ErrorIs(t, err, codegen.ErrDuplicateName)

	_, err = codegen.NewFunction("nil", []codegen.Arg{{Name: "x"}}, sharedSinBody)
	assert.ErrorIs(t, err, codegen.ErrBadArg)

	_, err = codegen.NewFunction("unbound", args, func(*codegen.Inputs) ([]codegen.Output, error) {
		return []codegen.Output{{Name: "res", Value: geo.NewScalar(sym.S("z"))}}, nil
	})
	assert.ErrorIs(t, err, sym.ErrUnboundSymbol)

	_, err = codegen.NewFunction("dupout", args, func(in *codegen.Inputs) ([]codegen.Output, error) {
		v := geo.NewScalar(scalarAt(in, 0))
		return []codegen.Output{{Name: "o", Value: v}, {Name: "o", Value: v}}, nil
	})
	assert.ErrorIs(t, err, codegen.ErrDuplicateName)

	_, err = codegen.NewFunction("eps", []codegen.Arg{{Name: codegen.EpsilonName, Type: geo.NewVector(sym.N(0), sym.N(0))}}, sharedSinBody)
	assert.ErrorIs(t, err, codegen.ErrBadArg)
}

// TestNewFunction_Epsilon picks the declared argument over the default.
func TestNewFunction_Epsilon(t *testing.T) {
	body := func(in *codegen.Inputs) ([]codegen.Output, error) {
		return []codegen.Output{{Name: "e", Value: geo.NewScalar(in.Epsilon())}}, nil
	}
	fn, err := codegen.NewFunction("declared", []codegen.Arg{scalarArg(codegen.EpsilonName)}, body)
	require.NoError(t, err)
	assert.True(t, sym.Equal(fn.Epsilon(), sym.S("epsilon[0]")))

	fn, err = codegen.NewFunction("default", nil, body, codegen.WithEpsilon(1e-6))
	require.NoError(t, err)
	ev, err := fn.Evaluator()
	require.NoError(t, err)
	out, err := ev.Call()
	require.NoError(t, err)
	assert.InDelta(t, 1e-6, out["e"][0], 1e-21)
}

// TestNewFunction_Logs checks the debug record emitted on success.
func TestNewFunction_Logs(t *testing.T) {
	var buf bytes.Buffer
	l := logging.NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	_, err := codegen.NewFunction("logged", []codegen.Arg{scalarArg("x"), scalarArg("y")}, sharedSinBody, codegen.WithLogger(l))
	require.NoError(t, err)

	line := buf.String()
	assert.True(t, strings.Contains(line, `"msg":"generate completed"`), line)
	assert.Contains(t, line, `"temporaries":1`)
}

// stderrOf runs fn with os.Stderr redirected and returns what was written.
func stderrOf(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	saved := os.Stderr
	os.Stderr = w
	defer func() { os.Stderr = saved }()

	fn()
	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

// TestFromConfig_LogLevel installs a logger at the configured level unless
// one is given explicitly.
func TestFromConfig_LogLevel(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "debug"
	args := []codegen.Arg{scalarArg("x"), scalarArg("y")}

	out := stderrOf(t, func() {
		_, err := codegen.NewFunction("configured", args, sharedSinBody, codegen.FromConfig(cfg))
		require.NoError(t, err)
	})
	assert.Contains(t, out, "generate completed")
	assert.Contains(t, out, "function=configured")

	cfg.LogLevel = "warn"
	out = stderrOf(t, func() {
		_, err := codegen.NewFunction("quiet", args, sharedSinBody, codegen.FromConfig(cfg))
		require.NoError(t, err)
	})
	assert.Empty(t, out)

	var buf bytes.Buffer
	l := logging.NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	out = stderrOf(t, func() {
		_, err := codegen.NewFunction("explicit", args, sharedSinBody, codegen.WithLogger(l), codegen.FromConfig(cfg))
		require.NoError(t, err)
	})
	assert.Empty(t, out)
	assert.Contains(t, buf.String(), "function=explicit")
}
