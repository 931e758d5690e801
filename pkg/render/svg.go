package render

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/stipple/pkg/dither"
	"github.com/matzehuels/stipple/pkg/errors"
)

// Syntax selects how the background color is written.
type Syntax string

const (
	SyntaxHex  Syntax = "hex" // #rrggbb
	SyntaxFunc Syntax = "rgb" // rgb(r,g,b)
)

// DefaultGroupID is the id of the group holding the dithered rectangles.
const DefaultGroupID = "dither"

// ValidateSyntax checks that s names a known color syntax.
func ValidateSyntax(s Syntax) error {
	if s != SyntaxHex && s != SyntaxFunc {
		return errors.Invalid("background_syntax", "must be %q or %q (got %q)", SyntaxHex, SyntaxFunc, s)
	}
	return nil
}

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background bool
	syntax     Syntax
	crisp      bool
	groupID    string
}

func WithBackground(on bool) SVGOption        { return func(r *svgRenderer) { r.background = on } }
func WithBackgroundSyntax(s Syntax) SVGOption { return func(r *svgRenderer) { r.syntax = s } }
func WithCrispEdges(on bool) SVGOption        { return func(r *svgRenderer) { r.crisp = on } }
func WithGroupID(id string) SVGOption         { return func(r *svgRenderer) { r.groupID = id } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{background: true, syntax: SyntaxHex, crisp: true, groupID: DefaultGroupID}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG returns the document for spans on cfg's canvas.
func RenderSVG(cfg dither.Config, spans []dither.Span, opts ...SVGOption) []byte {
	var buf bytes.Buffer
	_ = WriteSVG(&buf, cfg, spans, opts...)
	return buf.Bytes()
}

// WriteSVG writes the document for spans to w.
func WriteSVG(w io.Writer, cfg dither.Config, spans []dither.Span, opts ...SVGOption) error {
	ew := &errWriter{w: w}
	bw := bufio.NewWriter(ew)
	doc := beginDocument(bw, cfg, newSVGRenderer(opts...))
	for _, sp := range spans {
		doc.rect(sp)
	}
	doc.end()
	if err := bw.Flush(); err != nil {
		return err
	}
	return ew.err
}

// StreamSVG scans cfg and writes each span to w as soon as it is closed.
// The config is validated before anything is written.
func StreamSVG(w io.Writer, cfg dither.Config, opts []SVGOption, scanOpts ...dither.ScanOption) (dither.Stats, error) {
	c := cfg
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return dither.Stats{}, err
	}

	ew := &errWriter{w: w}
	bw := bufio.NewWriter(ew)
	doc := beginDocument(bw, c, newSVGRenderer(opts...))
	st, err := dither.Scan(c, doc.rect, scanOpts...)
	if err != nil {
		return st, err
	}
	doc.end()
	if err := bw.Flush(); err != nil {
		return st, err
	}
	return st, ew.err
}

type document struct {
	canvas *svg.SVG
}

func beginDocument(w io.Writer, cfg dither.Config, r svgRenderer) *document {
	canvas := svg.New(w)
	canvas.Startview(cfg.Width, cfg.Height, 0, 0, cfg.Width, cfg.Height)

	if r.background {
		fill := cfg.Background.Hex()
		if r.syntax == SyntaxFunc {
			fill = cfg.Background.Func()
		}
		canvas.Rect(0, 0, cfg.Width, cfg.Height, fmt.Sprintf(`fill="%s"`, fill))
	}

	attrs := []string{fmt.Sprintf(`id="%s"`, r.groupID)}
	if r.crisp {
		attrs = append(attrs, `shape-rendering="crispEdges"`)
	}
	canvas.Group(attrs...)
	return &document{canvas: canvas}
}

func (d *document) rect(sp dither.Span) {
	d.canvas.Rect(sp.X, sp.Y, sp.Width, sp.Height, fmt.Sprintf(`fill="%s"`, sp.Fill))
}

func (d *document) end() {
	d.canvas.Gend()
	d.canvas.End()
}

// errWriter remembers the first write error; the svg canvas discards them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}
