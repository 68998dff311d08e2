package geo_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/symopt/geo"
	"github.com/katalvlaran/symopt/sym"
)

// customGroup is a LieGroup the group operators do not know.
type customGroup struct{ *geo.Vector }

func diag(t *testing.T, n int, v float64) *geo.Matrix {
	t.Helper()
	rows := make([][]sym.Expr, n)
	for i := range rows {
		rows[i] = make([]sym.Expr, n)
		for j := range rows[i] {
			rows[i][j] = sym.N(0)
		}
		rows[i][i] = sym.NFloat(v)
	}
	m, err := sym.MatrixFromRows(rows)
	require.NoError(t, err)
	return geo.NewMatrix(m)
}

// TestCompose_Rot3 composes two eighth turns about z.
func TestCompose_Rot3(t *testing.T) {
	g, err := geo.Rot3Identity().FromTangent(nums(0, 0, math.Pi/4), eps)
	require.NoError(t, err)
	c, err := geo.Compose(g, g)
	require.NoError(t, err)
	assertClose(t, []float64{0, 0, math.Pi / 2}, evalExprs(t, c.ToTangent(eps)), 1e-9)

	inv, err := geo.Inverse(g)
	require.NoError(t, err)
	id, err := geo.Compose(g, inv)
	require.NoError(t, err)
	assertClose(t, []float64{0, 0, 0, 1}, evalExprs(t, id.ToStorage()), 1e-12)

	back, err := geo.Between(g, c)
	require.NoError(t, err)
	assertClose(t, evalExprs(t, g.ToStorage()), evalExprs(t, back.ToStorage()), 1e-12)
}

// TestCompose_Pose3 checks that translations follow the rotation.
func TestCompose_Pose3(t *testing.T) {
	g, err := geo.Pose3Identity().FromTangent(nums(0, 0, math.Pi/2, 1, 0, 0), eps)
	require.NoError(t, err)
	c, err := geo.Compose(g, g)
	require.NoError(t, err)
	st := evalExprs(t, c.ToStorage())
	assertClose(t, []float64{1, 1, 0}, st[4:], 1e-9)

	b, err := geo.Between(g, c)
	require.NoError(t, err)
	assertClose(t, evalExprs(t, g.ToStorage()), evalExprs(t, b.ToStorage()), 1e-9)
}

// TestCompose_Vector adds entries and negates on inverse.
func TestCompose_Vector(t *testing.T) {
	a := geo.NewVector(nums(1, 2)...)
	b := geo.NewVector(nums(3, -5)...)
	c, err := geo.Compose(a, b)
	require.NoError(t, err)
	assertClose(t, []float64{4, -3}, evalExprs(t, c.ToStorage()), 0)

	d, err := geo.Between(a, b)
	require.NoError(t, err)
	assertClose(t, []float64{2, -7}, evalExprs(t, d.ToStorage()), 0)
}

// TestCompose_Errors covers mixed kinds and unknown groups.
func TestCompose_Errors(t *testing.T) {
	_, err := geo.Compose(geo.Rot3Identity(), geo.Pose3Identity())
	assert.ErrorIs(t, err, geo.ErrTypeMismatch)
	_, err = geo.Compose(geo.Pose3Identity(), geo.Rot3Identity())
	assert.ErrorIs(t, err, geo.ErrTypeMismatch)
	_, err = geo.Compose(geo.NewVector(nums(1)...), geo.NewVector(nums(1, 2)...))
	assert.ErrorIs(t, err, geo.ErrTypeMismatch)
	_, err = geo.Between(geo.NewVector(nums(1)...), geo.Rot3Identity())
	assert.ErrorIs(t, err, geo.ErrTypeMismatch)

	custom := customGroup{geo.NewVector(nums(1)...)}
	_, err = geo.Inverse(custom)
	assert.ErrorIs(t, err, geo.ErrNoGroup)
	_, err = geo.Compose(custom, custom)
	assert.ErrorIs(t, err, geo.ErrNoGroup)
	_, err = geo.Between(custom, custom)
	assert.ErrorIs(t, err, geo.ErrNoGroup)
}

// TestBetweenResidual whitens the tangent error.
func TestBetweenResidual(t *testing.T) {
	b, err := geo.Rot3Identity().FromTangent(nums(0.1, 0.2, 0.3), eps)
	require.NoError(t, err)
	res, err := geo.BetweenResidual(geo.Rot3Identity(), b, geo.Rot3Identity(), diag(t, 3, 2), eps)
	require.NoError(t, err)
	assertClose(t, []float64{0.2, 0.4, 0.6}, evalExprs(t, res), 1e-9)

	res, err = geo.BetweenResidual(geo.Rot3Identity(), b, b, diag(t, 3, 2), eps)
	require.NoError(t, err)
	assertClose(t, []float64{0, 0, 0}, evalExprs(t, res), 1e-9)
}

// TestBetweenResidual_SqrtInfoShape rejects a missing or mis-sized sqrt_info.
func TestBetweenResidual_SqrtInfoShape(t *testing.T) {
	r := geo.Rot3Identity()
	_, err := geo.BetweenResidual(r, r, r, nil, eps)
	assert.ErrorIs(t, err, geo.ErrShapeMismatch)

	_, err = geo.BetweenResidual(r, r, r, diag(t, 2, 1), eps)
	require.ErrorIs(t, err, geo.ErrShapeMismatch)
	var se *geo.ShapeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 9, se.Expected)
	assert.Equal(t, 4, se.Actual)
}
