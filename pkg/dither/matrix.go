package dither

import "github.com/matzehuels/stipple/pkg/errors"

// MatrixSize is the edge length of the threshold matrix.
const MatrixSize = 8

// Matrix is an ordered-dither threshold table holding a permutation of
// 0..63. It tiles the plane every MatrixSize cells in both axes.
type Matrix [MatrixSize][MatrixSize]int

// Bayer8 is the standard 8×8 Bayer matrix.
var Bayer8 = Matrix{
	{0, 32, 8, 40, 2, 34, 10, 42},
	{48, 16, 56, 24, 50, 18, 58, 26},
	{12, 44, 4, 36, 14, 46, 6, 38},
	{60, 28, 52, 20, 62, 30, 54, 22},
	{3, 35, 11, 43, 1, 33, 9, 41},
	{51, 19, 59, 27, 49, 17, 57, 25},
	{15, 47, 7, 39, 13, 45, 5, 37},
	{63, 31, 55, 23, 61, 29, 53, 21},
}

// NewMatrix validates rows and converts them into a Matrix. Rows must be
// 8×8 and contain every value in 0..63 exactly once.
func NewMatrix(rows [][]int) (Matrix, error) {
	var m Matrix
	if len(rows) != MatrixSize {
		return m, errors.Invalid("dither_matrix", "must have %d rows (got %d)", MatrixSize, len(rows))
	}
	var seen [MatrixSize * MatrixSize]bool
	for y, row := range rows {
		if len(row) != MatrixSize {
			return m, errors.Invalid("dither_matrix", "row %d must have %d values (got %d)", y, MatrixSize, len(row))
		}
		for x, v := range row {
			if v < 0 || v >= MatrixSize*MatrixSize {
				return m, errors.Invalid("dither_matrix", "value %d at [%d][%d] out of range 0..63", v, y, x)
			}
			if seen[v] {
				return m, errors.Invalid("dither_matrix", "value %d repeated at [%d][%d]", v, y, x)
			}
			seen[v] = true
			m[y][x] = v
		}
	}
	return m, nil
}

// Rows returns m as a freshly allocated slice of rows.
func (m Matrix) Rows() [][]int {
	rows := make([][]int, MatrixSize)
	for y := range m {
		rows[y] = append([]int(nil), m[y][:]...)
	}
	return rows
}

// ShouldDraw reports whether the cell at grid position (gx, gy) is drawn at
// brightness b. About b×64 of every 64 cells in a tile are drawn.
func (m *Matrix) ShouldDraw(gx, gy int, b float64) bool {
	threshold := b * MatrixSize * MatrixSize
	return float64(m[mod(gy)][mod(gx)]) < threshold
}

func mod(v int) int {
	v %= MatrixSize
	if v < 0 {
		v += MatrixSize
	}
	return v
}
