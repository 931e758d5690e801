package dither

import (
	"testing"

	"github.com/matzehuels/stipple/pkg/errors"
)

func TestBayer8IsPermutation(t *testing.T) {
	if _, err := NewMatrix(Bayer8.Rows()); err != nil {
		t.Fatalf("Bayer8 rejected: %v", err)
	}
}

func TestNewMatrixErrors(t *testing.T) {
	shortRow := Bayer8.Rows()
	shortRow[3] = shortRow[3][:7]

	duplicate := Bayer8.Rows()
	duplicate[7][7] = 0

	outOfRange := Bayer8.Rows()
	outOfRange[2][5] = 64

	tests := []struct {
		name string
		rows [][]int
	}{
		{"nil", nil},
		{"seven rows", Bayer8.Rows()[:7]},
		{"short row", shortRow},
		{"duplicate value", duplicate},
		{"out of range", outOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMatrix(tt.rows)
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.FieldOf(err) != "dither_matrix" {
				t.Errorf("field = %q, want dither_matrix", errors.FieldOf(err))
			}
		})
	}
}

func TestShouldDrawDensityLaw(t *testing.T) {
	m := Bayer8
	for k := 0; k <= 64; k++ {
		b := float64(k) / 64
		drawn := 0
		for gy := 0; gy < MatrixSize; gy++ {
			for gx := 0; gx < MatrixSize; gx++ {
				if m.ShouldDraw(gx, gy, b) {
					drawn++
				}
			}
		}
		if drawn != k {
			t.Errorf("brightness %d/64: drew %d of 64 cells, want %d", k, drawn, k)
		}
	}
}

func TestShouldDrawConvergesOverLargeArea(t *testing.T) {
	m := Bayer8
	for _, b := range []float64{0.1, 0.37, 0.5, 0.93} {
		drawn, total := 0, 0
		for gy := 0; gy < 200; gy++ {
			for gx := 0; gx < 200; gx++ {
				total++
				if m.ShouldDraw(gx, gy, b) {
					drawn++
				}
			}
		}
		frac := float64(drawn) / float64(total)
		if frac < b-1.0/64 || frac > b+1.0/64 {
			t.Errorf("brightness %v: drawn fraction %v not within 1/64", b, frac)
		}
	}
}

func TestShouldDrawTiles(t *testing.T) {
	m := Bayer8
	for gy := 0; gy < 24; gy++ {
		for gx := 0; gx < 24; gx++ {
			a := m.ShouldDraw(gx, gy, 0.4)
			b := m.ShouldDraw(gx%8, gy%8, 0.4)
			if a != b {
				t.Fatalf("cell (%d,%d) differs from its tile origin", gx, gy)
			}
		}
	}
}

func TestShouldDrawExtremes(t *testing.T) {
	m := Bayer8
	for gy := 0; gy < 8; gy++ {
		for gx := 0; gx < 8; gx++ {
			if m.ShouldDraw(gx, gy, 0) {
				t.Errorf("cell (%d,%d) drawn at brightness 0", gx, gy)
			}
			if !m.ShouldDraw(gx, gy, 1) {
				t.Errorf("cell (%d,%d) skipped at brightness 1", gx, gy)
			}
		}
	}
}
