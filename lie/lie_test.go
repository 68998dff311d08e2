package lie_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/symopt/lie"
	"github.com/katalvlaran/symopt/matrix"
)

const eps = 1e-8

func assertClose(t *testing.T, want, got []float64, tol float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], got[i], tol, "index %d", i)
	}
}

// TestRot3_HalfTurnAboutX recovers [π, 0, 0] through the clamped logarithm.
func TestRot3_HalfTurnAboutX(t *testing.T) {
	r, err := lie.Rot3FromTangent([]float64{math.Pi, 0, 0}, eps)
	require.NoError(t, err)
	q := r.Data()
	assertClose(t, []float64{1, 0, 0, 0}, []float64{math.Abs(q[0]), q[1], q[2], q[3]}, 1e-6)
	assertClose(t, []float64{math.Pi, 0, 0}, r.ToTangent(eps), 1e-6)
}

// TestRot3_ZeroTangent maps to the identity without dividing by zero.
func TestRot3_ZeroTangent(t *testing.T) {
	r, err := lie.Rot3FromTangent([]float64{0, 0, 0}, eps)
	require.NoError(t, err)
	assertClose(t, lie.Rot3Identity().Data(), r.Data(), 1e-15)
	assertClose(t, []float64{0, 0, 0}, r.ToTangent(eps), 1e-15)
}

// TestRot3_DoubleCover gives q and -q the same tangent vector.
func TestRot3_DoubleCover(t *testing.T) {
	r, err := lie.Rot3FromTangent([]float64{0.4, -0.3, 0.2}, eps)
	require.NoError(t, err)
	q := r.Data()
	neg := lie.NewRot3(-q[0], -q[1], -q[2], -q[3])
	assertClose(t, r.ToTangent(eps), neg.ToTangent(eps), 1e-12)
}

// TestRot3_RoundTrips checks exp/log and retract/local inverses.
func TestRot3_RoundTrips(t *testing.T) {
	cases := [][]float64{
		{0.1, -0.2, 0.3},
		{1.2, 0.4, -0.7},
		{0, 0, 2.5},
		{1e-5, 0, 0},
	}
	for _, v := range cases {
		r, err := lie.Rot3FromTangent(v, eps)
		require.NoError(t, err)
		assertClose(t, v, r.ToTangent(eps), 1e-7)

		a, err := lie.Rot3FromTangent([]float64{-0.3, 0.5, 0.1}, eps)
		require.NoError(t, err)
		back, err := a.Retract(a.LocalCoordinates(r, eps), eps)
		require.NoError(t, err)
		assertClose(t, r.Data(), back.Data(), 1e-7)
	}
}

// TestRot3_RetractMatchesCompose checks the fused retraction kernel.
func TestRot3_RetractMatchesCompose(t *testing.T) {
	a, err := lie.Rot3FromTangent([]float64{0.2, 0.1, -0.4}, eps)
	require.NoError(t, err)
	v := []float64{-0.5, 0.3, 0.25}
	d, err := lie.Rot3FromTangent(v, eps)
	require.NoError(t, err)
	got, err := a.Retract(v, eps)
	require.NoError(t, err)
	assertClose(t, a.Compose(d).Data(), got.Data(), 1e-15)
}

// TestRot3_Interpolate checks endpoints and the halfway angle.
func TestRot3_Interpolate(t *testing.T) {
	a := lie.Rot3Identity()
	b, err := lie.Rot3FromTangent([]float64{0, 0, 1}, eps)
	require.NoError(t, err)

	assertClose(t, a.Data(), a.Interpolate(b, 0, eps).Data(), 1e-12)
	assertClose(t, b.Data(), a.Interpolate(b, 1, eps).Data(), 1e-9)
	assertClose(t, []float64{0, 0, 0.5}, a.Interpolate(b, 0.5, eps).ToTangent(eps), 1e-9)
}

// TestRot3_Rotate rotates x onto y with a quarter turn about z.
func TestRot3_Rotate(t *testing.T) {
	r, err := lie.Rot3FromTangent([]float64{0, 0, math.Pi / 2}, eps)
	require.NoError(t, err)
	p := r.Rotate([3]float64{1, 0, 0})
	assertClose(t, []float64{0, 1, 0}, p[:], 1e-12)
	back := r.Inverse().Rotate(p)
	assertClose(t, []float64{1, 0, 0}, back[:], 1e-12)
}

// TestPose3_TranslationRetract adds the translation block.
func TestPose3_TranslationRetract(t *testing.T) {
	p := lie.NewPose3(lie.Rot3Identity(), [3]float64{1, 2, 3})
	out, err := p.Retract([]float64{0, 0, 0, 1, 1, 1}, eps)
	require.NoError(t, err)
	assertClose(t, []float64{0, 0, 0, 1, 2, 3, 4}, out.Data(), 1e-15)
}

// TestPose3_LocalCoordinatesInterpolate covers the remaining pose operators.
func TestPose3_LocalCoordinatesInterpolate(t *testing.T) {
	a, err := lie.Pose3FromTangent([]float64{0.1, 0.2, -0.1, 1, 0, -1}, eps)
	require.NoError(t, err)
	b, err := lie.Pose3FromTangent([]float64{-0.2, 0.4, 0.3, 3, 2, 1}, eps)
	require.NoError(t, err)

	d := a.LocalCoordinates(b, eps)
	assertClose(t, []float64{2, 2, 2}, d[3:], 1e-15)
	back, err := a.Retract(d, eps)
	require.NoError(t, err)
	assertClose(t, b.Data(), back.Data(), 1e-9)

	mid := a.Interpolate(b, 0.5, eps)
	assertClose(t, []float64{2, 1, 0}, mid.Data()[4:], 1e-15)
	assertClose(t, b.Data(), a.Interpolate(b, 1, eps).Data(), 1e-9)
}

// TestPose3_Group checks inverse, between and point transforms.
func TestPose3_Group(t *testing.T) {
	p, err := lie.Pose3FromTangent([]float64{0.3, -0.2, 0.5, 1, 2, 3}, eps)
	require.NoError(t, err)
	assertClose(t, lie.Pose3Identity().Data(), p.Between(p).Data(), 1e-12)

	x := p.Inverse().TransformPoint(p.TransformPoint([3]float64{4, -1, 2}))
	assertClose(t, []float64{4, -1, 2}, x[:], 1e-12)
}

// TestCalibrations_Flat checks elementwise behavior of the calibration types.
func TestCalibrations_Flat(t *testing.T) {
	a := lie.LinearCameraCal{500, 500, 320, 240}
	b := lie.LinearCameraCal{510, 490, 330, 240}
	assertClose(t, []float64{10, -10, 10, 0}, a.LocalCoordinates(b, eps), 0)
	assertClose(t, []float64{505, 495, 325, 240}, a.Interpolate(b, 0.5, eps).Data(), 0)

	r, err := a.Retract([]float64{1, 1, 1, 1}, eps)
	require.NoError(t, err)
	assert.Equal(t, lie.LinearCameraCal{501, 501, 321, 241}, r)

	px := a.PixelFromCameraPoint([3]float64{0.2, -0.1, 2})
	assertClose(t, []float64{370, 215}, px[:], 1e-12)

	e, err := lie.EquirectangularCameraCalFromTangent([]float64{1, 2, 3, 4}, eps)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4}, e.ToTangent(eps))
}

// TestShapeErrors reports expected and actual shapes.
func TestShapeErrors(t *testing.T) {
	_, err := lie.Rot3FromTangent([]float64{1, 2}, eps)
	require.ErrorIs(t, err, lie.ErrShapeMismatch)
	var se *lie.ShapeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 3, se.Expected)
	assert.Equal(t, 2, se.Rows)
	assert.Contains(t, err.Error(), "(3, 1) or (3,)")

	_, err = lie.Pose3Identity().Retract(make([]float64, 7), eps)
	assert.ErrorIs(t, err, lie.ErrShapeMismatch)

	_, err = lie.LinearCameraCal{}.Retract([]float64{1}, eps)
	assert.ErrorIs(t, err, lie.ErrShapeMismatch)
}

// TestTangentFromMatrix accepts columns and rows only.
func TestTangentFromMatrix(t *testing.T) {
	col, err := matrix.NewFromData(3, 1, []float64{1, 2, 3})
	require.NoError(t, err)
	v, err := lie.TangentFromMatrix("Rot3.Retract", col, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, v)

	row, err := matrix.NewFromData(1, 3, []float64{4, 5, 6})
	require.NoError(t, err)
	v, err = lie.TangentFromMatrix("Rot3.Retract", row, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 5, 6}, v)

	sq, err := matrix.NewFromData(2, 2, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	_, err = lie.TangentFromMatrix("LinearCameraCal.Retract", sq, 4)
	require.ErrorIs(t, err, lie.ErrShapeMismatch)
	var se *lie.ShapeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 2, se.Cols)
}

// TestLookup resolves operators by type name.
func TestLookup(t *testing.T) {
	for kind, dims := range map[string][2]int{
		"Rot3":                     {4, 3},
		"Pose3":                    {7, 6},
		"LinearCameraCal":          {4, 4},
		"EquirectangularCameraCal": {4, 4},
		"Scalar":                   {1, 1},
		"V5":                       {5, 5},
	} {
		ops, err := lie.Lookup(kind)
		require.NoError(t, err, kind)
		assert.Equal(t, dims[0], ops.StorageDim(), kind)
		assert.Equal(t, dims[1], ops.TangentDim(), kind)
	}
	_, err := lie.Lookup("Matrix2x2")
	assert.ErrorIs(t, err, lie.ErrUnknownType)

	ops, err := lie.Lookup("Pose3")
	require.NoError(t, err)
	st, err := ops.FromTangent([]float64{0, 0, 0, 1, 2, 3}, eps)
	require.NoError(t, err)
	out, err := ops.Retract(st, []float64{0, 0, 0, 1, 1, 1}, eps)
	require.NoError(t, err)
	assertClose(t, []float64{2, 3, 4}, out[4:], 1e-15)
}
