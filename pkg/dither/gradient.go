package dither

import (
	"math"
	"math/rand/v2"
)

// Gradient is a three-stop color ramp over normalized distance [0, 1].
type Gradient struct {
	Inner  RGB
	Middle RGB
	Outer  RGB
}

// ColorAt returns the color at normalized distance t. The first half of the
// range blends Inner into Middle, the second half Middle into Outer. Channels
// are interpolated independently and truncated.
func (g Gradient) ColorAt(t float64) RGB {
	if t < 0.5 {
		return lerp(g.Inner, g.Middle, t*2)
	}
	return lerp(g.Middle, g.Outer, (t-0.5)*2)
}

func lerp(a, b RGB, t float64) RGB {
	return RGB{
		R: lerpChannel(a.R, b.R, t),
		G: lerpChannel(a.G, b.G, t),
		B: lerpChannel(a.B, b.B, t),
	}
}

func lerpChannel(a, b uint8, t float64) uint8 {
	v := float64(a) + t*(float64(b)-float64(a))
	return uint8(max(0, min(255, int(v))))
}

// Brightness maps normalized distance t to the fraction of cells that should
// be drawn. It is 1 at the center and 0 at distance 1.
func Brightness(t, densityCurve, brightnessCurve float64) float64 {
	density := math.Pow(t, 1/densityCurve)
	return math.Pow(1-density, brightnessCurve)
}

// Source yields uniform values in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// DefaultSource draws from the unseeded process-wide generator, so noisy
// renders differ between runs.
var DefaultSource Source = globalSource{}

// NewSeededSource returns a deterministic Source for seed.
func NewSeededSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Perturb offsets b by a uniform value in [-amount/2, amount/2) and clamps the
// result to [0, 1]. With amount <= 0 it returns b unchanged and does not
// consume a value from src.
func Perturb(b, amount float64, src Source) float64 {
	if amount <= 0 {
		return b
	}
	b += (src.Float64() - 0.5) * amount
	return max(0, min(1, b))
}
