package render

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/vector"

	"github.com/matzehuels/stipple/pkg/dither"
	"github.com/matzehuels/stipple/pkg/errors"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale      int
	background bool
}

// WithScale sets the integer PNG scale factor (default 1).
func WithScale(s int) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithPNGBackground fills the canvas with the background color first.
// Without it undrawn cells are transparent.
func WithPNGBackground(on bool) PNGOption {
	return func(r *pngRenderer) { r.background = on }
}

// RenderPNG rasterizes spans into a PNG preview of the SVG output.
func RenderPNG(cfg dither.Config, spans []dither.Span, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 1, background: true}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale < 1 {
		return nil, errors.Invalid("scale", "must be at least 1 (got %d)", r.scale)
	}

	s := r.scale
	img := image.NewRGBA(image.Rect(0, 0, cfg.Width*s, cfg.Height*s))
	if r.background {
		bg := cfg.Background
		draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{bg.R, bg.G, bg.B, 0xff}), image.Point{}, draw.Src)
	}

	fills := map[string]*image.Uniform{}
	z := vector.NewRasterizer(1, 1)
	for _, sp := range spans {
		src, ok := fills[sp.Fill]
		if !ok {
			c, err := colorful.Hex(sp.Fill)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "span fill %q", sp.Fill)
			}
			cr, cg, cb := c.RGB255()
			src = image.NewUniform(color.RGBA{cr, cg, cb, 0xff})
			fills[sp.Fill] = src
		}

		rect := image.Rect(sp.X*s, sp.Y*s, (sp.X+sp.Width)*s, (sp.Y+sp.Height)*s).Intersect(img.Bounds())
		if rect.Empty() {
			continue
		}
		w, h := float32(rect.Dx()), float32(rect.Dy())
		z.Reset(rect.Dx(), rect.Dy())
		z.DrawOp = draw.Src
		z.MoveTo(0, 0)
		z.LineTo(w, 0)
		z.LineTo(w, h)
		z.LineTo(0, h)
		z.ClosePath()
		z.Draw(img, rect, src, image.Point{})
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}
