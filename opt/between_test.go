package opt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/symopt/geo"
	"github.com/katalvlaran/symopt/lie"
	"github.com/katalvlaran/symopt/opt"
)

// TestBetweenFactor_Rot3 checks the whitened residual and its Jacobian
// against numeric rotations.
func TestBetweenFactor_Rot3(t *testing.T) {
	const eps = 2.220446049250313e-15
	f, err := opt.BetweenFactor("rot_between", geo.Rot3Identity())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "a_T_b", "sqrt_info"}, f.Keys())

	a, err := lie.Rot3FromTangent([]float64{0.3, -0.1, 0.2}, eps)
	require.NoError(t, err)
	b, err := lie.Rot3FromTangent([]float64{-0.2, 0.4, 0.1}, eps)
	require.NoError(t, err)
	aTb, err := lie.Rot3FromTangent([]float64{-0.4, 0.6, -0.2}, eps)
	require.NoError(t, err)
	sqrtInfo := []float64{2, 0, 0, 0, 2, 0, 0, 0, 2}

	nf, err := f.ToNumericFactor([]string{opt.BetweenKeyA, opt.BetweenKeyB})
	require.NoError(t, err)
	lin, err := nf.Linearize(map[string][]float64{
		opt.BetweenKeyA:        a.Data(),
		opt.BetweenKeyB:        b.Data(),
		opt.BetweenKeyAToB:     aTb.Data(),
		opt.BetweenKeySqrtInfo: sqrtInfo,
	})
	require.NoError(t, err)

	residual := func(a, b lie.Rot3) []float64 {
		d := aTb.LocalCoordinates(a.Between(b), eps)
		for i := range d {
			d[i] *= 2
		}
		return d
	}
	assert.InDeltaSlice(t, residual(a, b), lin.Residual, 1e-12)
	require.Equal(t, 3, lin.Jacobian.Rows())
	require.Equal(t, 6, lin.Jacobian.Cols())

	const h = 1e-6
	for j := 0; j < 6; j++ {
		d := make([]float64, 3)
		d[j%3] = h
		pa, pb := a, b
		if j < 3 {
			pa, err = a.Retract(d, eps)
		} else {
			pb, err = b.Retract(d, eps)
		}
		require.NoError(t, err)
		plus := residual(pa, pb)

		d[j%3] = -h
		pa, pb = a, b
		if j < 3 {
			pa, err = a.Retract(d, eps)
		} else {
			pb, err = b.Retract(d, eps)
		}
		require.NoError(t, err)
		minus := residual(pa, pb)

		for i := 0; i < 3; i++ {
			got, err := lin.Jacobian.At(i, j)
			require.NoError(t, err)
			assert.InDelta(t, (plus[i]-minus[i])/(2*h), got, 1e-6, "row %d col %d", i, j)
		}
	}

	ja, err := lin.JacobianBlock(opt.BetweenKeyA)
	require.NoError(t, err)
	assert.Equal(t, 3, ja.Cols())
}

// TestBetweenFactor_Vector whitens the plain difference.
func TestBetweenFactor_Vector(t *testing.T) {
	f, err := opt.BetweenFactor("flat_between", zeros(2))
	require.NoError(t, err)
	nf, err := f.ToNumericFactor([]string{opt.BetweenKeyB})
	require.NoError(t, err)
	lin, err := nf.Linearize(map[string][]float64{
		opt.BetweenKeyA:        {1, 1},
		opt.BetweenKeyB:        {4, -1},
		opt.BetweenKeyAToB:     {2, -2},
		opt.BetweenKeySqrtInfo: {1, 0, 0, 3},
	})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 0}, lin.Residual, 1e-12)
	assert.InDeltaSlice(t, []float64{1, 0, 0, 3}, lin.Jacobian.Data(), 1e-12)
}
