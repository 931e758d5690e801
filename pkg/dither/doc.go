// Package dither turns a radial gradient into run-length encoded spans of
// flat color using ordered (Bayer) dithering.
//
// # Pipeline
//
// A render is a single forward pass over an immutable [Config]:
//
//  1. Gradient: each cell's normalized distance from the gradient center is
//     mapped to a color ([Gradient.ColorAt]) and a brightness ([Brightness]).
//  2. Decision: the brightness is compared against an 8×8 threshold matrix
//     ([Matrix.ShouldDraw]) to decide whether the cell is drawn at all.
//  3. Scan: drawn cells on the same row that share a color are coalesced into
//     a single [Span] ([Scan], [Spans]).
//
// The resulting spans are turned into documents by the render package.
//
// # Determinism
//
// With NoiseAmount = 0 a render is a pure function of its Config. When noise
// is enabled, brightness is perturbed with values drawn from a [Source]; pass
// one explicitly with [WithSource] to make noisy renders reproducible.
//
//	cfg := dither.Config{Width: 640, Height: 480, CellSize: 4, ...}
//	spans, stats, err := dither.Spans(cfg)
package dither
