// SPDX-License-Identifier: MIT

// Package matrix - block assembly.
//
// Purpose:
//   - Concatenate per-residual Jacobian blocks into a factor Jacobian.
//   - Empty block lists and zero-area blocks are legal.

package matrix

import "fmt"

const (
	opVStack = "VStack"
	opHStack = "HStack"
)

// VStack stacks blocks vertically; all blocks must share a column count.
// An empty block list yields a 0×0 matrix.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (column counts differ).
//
// Complexity: Time O(total entries).
func VStack(blocks ...Matrix) (*Dense, error) {
	if len(blocks) == 0 {
		return newDenseZeroOK(0, 0)
	}
	rows := 0
	dense := make([]*Dense, len(blocks))
	for i, b := range blocks {
		if err := ValidateNotNil(b); err != nil {
			return nil, matrixErrorf(opVStack, err)
		}
		if b.Cols() != blocks[0].Cols() {
			return nil, matrixErrorf(opVStack, fmt.Errorf("block %d has %d cols, want %d: %w", i, b.Cols(), blocks[0].Cols(), ErrDimensionMismatch))
		}
		d, err := toDense(b)
		if err != nil {
			return nil, matrixErrorf(opVStack, err)
		}
		dense[i] = d
		rows += d.r
	}
	res, _ := newDenseZeroOK(rows, blocks[0].Cols())
	off := 0
	for _, d := range dense {
		off += copy(res.data[off:], d.data)
	}

	return res, nil
}

// HStack places blocks side by side; all blocks must share a row count.
// An empty block list yields a 0×0 matrix.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (row counts differ).
//
// Complexity: Time O(total entries).
func HStack(blocks ...Matrix) (*Dense, error) {
	if len(blocks) == 0 {
		return newDenseZeroOK(0, 0)
	}
	cols := 0
	dense := make([]*Dense, len(blocks))
	for i, b := range blocks {
		if err := ValidateNotNil(b); err != nil {
			return nil, matrixErrorf(opHStack, err)
		}
		if b.Rows() != blocks[0].Rows() {
			return nil, matrixErrorf(opHStack, fmt.Errorf("block %d has %d rows, want %d: %w", i, b.Rows(), blocks[0].Rows(), ErrDimensionMismatch))
		}
		d, err := toDense(b)
		if err != nil {
			return nil, matrixErrorf(opHStack, err)
		}
		dense[i] = d
		cols += d.c
	}
	rows := blocks[0].Rows()
	res, _ := newDenseZeroOK(rows, cols)
	off := 0
	for _, d := range dense {
		for i := 0; i < rows; i++ {
			copy(res.data[i*cols+off:i*cols+off+d.c], d.data[i*d.c:(i+1)*d.c])
		}
		off += d.c
	}

	return res, nil
}
