package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/symopt/matrix"
)

// TestNewDenseInvalidDimensions ensures that NewDense rejects non-positive dimensions.
func TestNewDenseInvalidDimensions(t *testing.T) {
	_, err := matrix.NewDense(0, 5)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	_, err = matrix.NewDense(5, 0)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

// TestAtSetOutOfBounds ensures At() and Set() return ErrOutOfRange on invalid access.
func TestAtSetOutOfBounds(t *testing.T) {
	m, err := matrix.NewDense(2, 2)
	require.NoError(t, err)

	_, err = m.At(-1, 0)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)

	_, err = m.At(0, 2)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)

	err = m.Set(2, 0, 1.0)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
}

// TestSetRejectsNaN verifies the default numeric policy.
func TestSetRejectsNaN(t *testing.T) {
	m, err := matrix.NewDense(1, 1)
	require.NoError(t, err)
	require.ErrorIs(t, m.Set(0, 0, math.NaN()), matrix.ErrNaNInf)
	require.ErrorIs(t, m.Set(0, 0, math.Inf(1)), matrix.ErrNaNInf)
}

// TestCloneIndependence verifies that Clone produces an independent copy.
func TestCloneIndependence(t *testing.T) {
	m, err := matrix.NewFromRows([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)

	c := m.Clone()
	require.NoError(t, c.Set(0, 0, 9)) // mutate clone

	v, err := m.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, 1.0, v) // clone source untouched
}

// TestNewFromData covers zero-area shapes and length checks.
func TestNewFromData(t *testing.T) {
	m, err := matrix.NewFromData(3, 0, nil) // legal k×0 Jacobian
	require.NoError(t, err)
	rows, cols := m.Shape()
	require.Equal(t, 3, rows)
	require.Equal(t, 0, cols)

	_, err = matrix.NewFromData(2, 2, []float64{1, 2, 3})
	require.ErrorIs(t, err, matrix.ErrBadShape)

	_, err = matrix.NewFromRows([][]float64{{1, 2}, {3}})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

// TestSlice copies a rectangular block.
func TestSlice(t *testing.T) {
	m, err := matrix.NewFromRows([][]float64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)

	sub, err := m.Slice(0, 2, 1, 3)
	require.NoError(t, err)
	require.Equal(t, []float64{2, 3, 5, 6}, sub.Data())

	empty, err := m.Slice(0, 2, 1, 1)
	require.NoError(t, err)
	require.Equal(t, 2, empty.Rows())
	require.Equal(t, 0, empty.Cols())

	_, err = m.Slice(0, 3, 0, 1)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	_, err = m.Slice(0, 1, 2, 1)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
}

// TestStringOutput checks the diagnostics format.
func TestStringOutput(t *testing.T) {
	m, err := matrix.NewFromRows([][]float64{{1, 2.5}, {3, 4}})
	require.NoError(t, err)
	require.Equal(t, "[1, 2.5]\n[3, 4]\n", m.String())
}
