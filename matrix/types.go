// SPDX-License-Identifier: MIT

package matrix

// Matrix is the read/write surface shared by kernels. Dense is the only
// implementation in this module; others are densified through At.
type Matrix interface {
	Rows() int
	Cols() int

	// At and Set return ErrOutOfRange for bad indices.
	At(row, col int) (float64, error)
	Set(row, col int, v float64) error

	// Clone is a deep copy.
	Clone() Matrix
}
