package dither

import (
	"fmt"
	"math"

	"github.com/matzehuels/stipple/pkg/errors"
)

// RGB is an 8-bit sRGB color.
type RGB struct {
	R, G, B uint8
}

// Hex returns the color as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Func returns the color in functional notation, "rgb(r,g,b)".
func (c RGB) Func() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// Config holds every parameter of a render. It is set once and never mutated
// by the scan.
type Config struct {
	Width    int // canvas width in pixels
	Height   int // canvas height in pixels
	CellSize int // edge length of one dither cell in pixels

	CenterX float64 // gradient center as a fraction of Width
	CenterY float64 // gradient center as a fraction of Height

	RadialScale     float64 // fraction of the canvas diagonal mapped to distance 1
	DensityCurve    float64 // density = distance^(1/DensityCurve)
	BrightnessCurve float64 // brightness = (1-density)^BrightnessCurve; 0 means 1
	NoiseAmount     float64 // full width of the uniform brightness jitter; 0 disables

	Inner      RGB
	Middle     RGB
	Outer      RGB
	Background RGB

	// Matrix is the ordered-dither threshold table. Nil selects Bayer8.
	Matrix [][]int
}

// SetDefaults fills in optional fields left at their zero value.
func (c *Config) SetDefaults() {
	if c.BrightnessCurve == 0 {
		c.BrightnessCurve = 1
	}
	if c.Matrix == nil {
		c.Matrix = Bayer8.Rows()
	}
}

// Gradient returns the three color stops of c.
func (c Config) Gradient() Gradient {
	return Gradient{Inner: c.Inner, Middle: c.Middle, Outer: c.Outer}
}

// Center returns the gradient center in pixel space.
func (c Config) Center() (x, y float64) {
	return c.CenterX * float64(c.Width), c.CenterY * float64(c.Height)
}

// MaxDistance is the distance that maps to normalized distance 1.
func (c Config) MaxDistance() float64 {
	w, h := float64(c.Width), float64(c.Height)
	return math.Sqrt(w*w+h*h) * c.RadialScale
}

// Validate checks c and returns an INVALID_CONFIG error naming the first bad
// field. Defaults are not applied; call SetDefaults first.
func (c Config) Validate() error {
	if c.Width <= 0 {
		return errors.Invalid("width", "must be positive (got %d)", c.Width)
	}
	if c.Height <= 0 {
		return errors.Invalid("height", "must be positive (got %d)", c.Height)
	}
	if c.CellSize <= 0 {
		return errors.Invalid("cell_size", "must be positive (got %d)", c.CellSize)
	}

	reals := []struct {
		field string
		v     float64
	}{
		{"center_x", c.CenterX},
		{"center_y", c.CenterY},
		{"radial_scale", c.RadialScale},
		{"density_curve", c.DensityCurve},
		{"brightness_curve", c.BrightnessCurve},
		{"noise_amount", c.NoiseAmount},
	}
	for _, r := range reals {
		if math.IsNaN(r.v) || math.IsInf(r.v, 0) {
			return errors.Invalid(r.field, "must be a finite number (got %v)", r.v)
		}
	}

	if c.RadialScale <= 0 {
		return errors.Invalid("radial_scale", "must be positive (got %v)", c.RadialScale)
	}
	if c.DensityCurve <= 0 {
		return errors.Invalid("density_curve", "must be positive (got %v)", c.DensityCurve)
	}
	if c.BrightnessCurve <= 0 {
		return errors.Invalid("brightness_curve", "must be positive (got %v)", c.BrightnessCurve)
	}
	if c.NoiseAmount < 0 {
		return errors.Invalid("noise_amount", "must not be negative (got %v)", c.NoiseAmount)
	}
	if d := c.MaxDistance(); d == 0 || math.IsInf(d, 0) {
		return errors.Invalid("radial_scale", "maximum distance evaluates to %v", d)
	}

	if _, err := NewMatrix(c.Matrix); err != nil {
		return err
	}
	return nil
}
