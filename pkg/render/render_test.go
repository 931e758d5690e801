package render

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"image"
	"image/color"
	"image/png"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/stipple/pkg/dither"
)

func twoCellConfig() dither.Config {
	return dither.Config{
		Width:        16,
		Height:       8,
		CellSize:     8,
		CenterX:      0.5,
		CenterY:      1,
		RadialScale:  1,
		DensityCurve: 1,
		Inner:        dither.RGB{R: 255, G: 255, B: 255},
		Background:   dither.RGB{R: 1, G: 2, B: 3},
	}
}

func sceneConfig() dither.Config {
	return dither.Config{
		Width:        120,
		Height:       44,
		CellSize:     3,
		CenterX:      1,
		CenterY:      1,
		RadialScale:  0.7,
		DensityCurve: 1,
		Inner:        dither.RGB{R: 255, G: 255, B: 255},
		Middle:       dither.RGB{R: 27, G: 173, B: 95},
	}
}

func mustSpans(t *testing.T, cfg dither.Config) []dither.Span {
	t.Helper()
	spans, _, err := dither.Spans(cfg)
	if err != nil {
		t.Fatalf("Spans: %v", err)
	}
	return spans
}

func TestRenderSVGRoot(t *testing.T) {
	cfg := twoCellConfig()
	out := RenderSVG(cfg, mustSpans(t, cfg))

	doc, err := ParseRects(out, DefaultGroupID)
	if err != nil {
		t.Fatalf("ParseRects: %v", err)
	}
	if doc.Width != 16 || doc.Height != 8 {
		t.Errorf("size = %dx%d, want 16x8", doc.Width, doc.Height)
	}
	if doc.ViewBox != "0 0 16 8" {
		t.Errorf("viewBox = %q, want %q", doc.ViewBox, "0 0 16 8")
	}
}

func TestRenderSVGRects(t *testing.T) {
	cfg := twoCellConfig()
	out := RenderSVG(cfg, mustSpans(t, cfg))

	doc, err := ParseRects(out, DefaultGroupID)
	if err != nil {
		t.Fatal(err)
	}
	want := []dither.Span{
		{X: 0, Y: 0, Width: 8, Height: 8, Fill: "#000000"},
		{X: 8, Y: 0, Width: 8, Height: 8, Fill: "#1a1a1a"},
	}
	if !reflect.DeepEqual(doc.Spans, want) {
		t.Errorf("rects = %+v, want %+v", doc.Spans, want)
	}
}

// element finds the first start element with the given local name.
func element(t *testing.T, data []byte, name string) (xml.StartElement, bool) {
	t.Helper()
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return xml.StartElement{}, false
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == name {
			return se, true
		}
	}
}

func TestRenderSVGBackground(t *testing.T) {
	cfg := twoCellConfig()
	spans := mustSpans(t, cfg)

	tests := []struct {
		name     string
		opts     []SVGOption
		wantRect bool
		wantFill string
	}{
		{"default hex", nil, true, "#010203"},
		{"functional", []SVGOption{WithBackgroundSyntax(SyntaxFunc)}, true, "rgb(1,2,3)"},
		{"disabled", []SVGOption{WithBackground(false)}, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RenderSVG(cfg, spans, tt.opts...)
			// The first rect in the document precedes the group.
			rect, ok := element(t, out, "rect")
			if !ok {
				t.Fatal("no rect in output")
			}
			isBackground := attr(rect, "width") == "16" && attr(rect, "height") == "8" && attr(rect, "x") == "0" && attr(rect, "fill") == tt.wantFill
			if tt.wantRect && !isBackground {
				t.Errorf("first rect %v is not the background with fill %s", rect.Attr, tt.wantFill)
			}
			if !tt.wantRect && strings.Contains(string(out), "#010203") {
				t.Error("background color present although disabled")
			}
		})
	}
}

func TestRenderSVGGroupAttributes(t *testing.T) {
	cfg := twoCellConfig()
	spans := mustSpans(t, cfg)

	g, ok := element(t, RenderSVG(cfg, spans), "g")
	if !ok {
		t.Fatal("no group")
	}
	if attr(g, "id") != DefaultGroupID {
		t.Errorf("group id = %q", attr(g, "id"))
	}
	if attr(g, "shape-rendering") != "crispEdges" {
		t.Errorf("shape-rendering = %q, want crispEdges", attr(g, "shape-rendering"))
	}

	g, _ = element(t, RenderSVG(cfg, spans, WithCrispEdges(false), WithGroupID("ditherPixels")), "g")
	if attr(g, "id") != "ditherPixels" {
		t.Errorf("group id = %q, want ditherPixels", attr(g, "id"))
	}
	if attr(g, "shape-rendering") != "" {
		t.Error("shape-rendering present although disabled")
	}
}

func TestRenderSVGDeterministic(t *testing.T) {
	cfg := sceneConfig()
	a := RenderSVG(cfg, mustSpans(t, cfg))
	b := RenderSVG(cfg, mustSpans(t, cfg))
	if !bytes.Equal(a, b) {
		t.Error("renders of identical config are not byte-identical")
	}
}

func TestStreamSVGMatchesBuffered(t *testing.T) {
	cfg := sceneConfig()
	want := RenderSVG(cfg, mustSpans(t, cfg))

	var buf bytes.Buffer
	st, err := StreamSVG(&buf, cfg, nil)
	if err != nil {
		t.Fatalf("StreamSVG: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Error("streamed document differs from buffered document")
	}
	if st.Spans == 0 {
		t.Error("expected spans in stats")
	}
}

func TestStreamSVGInvalidConfigWritesNothing(t *testing.T) {
	cfg := sceneConfig()
	cfg.Height = 0

	var buf bytes.Buffer
	if _, err := StreamSVG(&buf, cfg, nil); err == nil {
		t.Fatal("expected error")
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %d bytes for invalid config", buf.Len())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteSVGReportsWriteError(t *testing.T) {
	cfg := twoCellConfig()
	if err := WriteSVG(failingWriter{}, cfg, mustSpans(t, cfg)); err == nil {
		t.Error("expected write error")
	}
}

func TestReparsedRectsReproduceGrid(t *testing.T) {
	configs := map[string]dither.Config{
		"scene": sceneConfig(),
		"uneven": func() dither.Config {
			c := sceneConfig()
			c.Width, c.Height, c.CellSize = 50, 30, 8
			c.CenterX = 0.3
			return c
		}(),
	}

	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			out := RenderSVG(cfg, mustSpans(t, cfg))
			doc, err := ParseRects(out, DefaultGroupID)
			if err != nil {
				t.Fatal(err)
			}
			got := CellGrid(doc.Spans, cfg.Width, cfg.Height, cfg.CellSize)
			want, err := dither.Grid(cfg)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Error("grid derived from document differs from direct decisions")
			}
		})
	}
}

func TestRenderJSON(t *testing.T) {
	cfg := twoCellConfig()
	data, err := RenderJSON(cfg, mustSpans(t, cfg), WithJSONBackground(true))
	if err != nil {
		t.Fatal(err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.Width != 16 || out.Height != 8 || out.CellSize != 8 {
		t.Errorf("geometry = %d/%d/%d", out.Width, out.Height, out.CellSize)
	}
	if out.Background != "#010203" {
		t.Errorf("background = %q", out.Background)
	}
	if len(out.Spans) != 2 || out.Spans[1].Fill != "#1a1a1a" {
		t.Errorf("spans = %+v", out.Spans)
	}
}

func TestRenderJSONEmptySpans(t *testing.T) {
	data, err := RenderJSON(twoCellConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"spans": []`) {
		t.Errorf("expected empty span array, got %s", data)
	}
	if strings.Contains(string(data), "background") {
		t.Error("background should be omitted by default")
	}
}

func TestRenderPNG(t *testing.T) {
	cfg := twoCellConfig()
	spans := []dither.Span{{X: 8, Y: 0, Width: 8, Height: 8, Fill: "#1a1a1a"}}

	data, err := RenderPNG(cfg, spans, WithScale(2))
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if got := img.Bounds(); got != image.Rect(0, 0, 32, 16) {
		t.Fatalf("bounds = %v, want 32x16", got)
	}

	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{4, 4, color.RGBA{1, 2, 3, 255}},
		{16, 0, color.RGBA{0x1a, 0x1a, 0x1a, 255}},
		{31, 15, color.RGBA{0x1a, 0x1a, 0x1a, 255}},
		{15, 15, color.RGBA{1, 2, 3, 255}},
	}
	for _, tt := range tests {
		got := color.RGBAModel.Convert(img.At(tt.x, tt.y)).(color.RGBA)
		if got != tt.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestRenderPNGClipsOverhangingSpans(t *testing.T) {
	cfg := twoCellConfig()
	cfg.Height = 5 // the single row of 8px cells overhangs the canvas
	spans := []dither.Span{{X: 0, Y: 0, Width: 16, Height: 8, Fill: "#ffffff"}}

	data, err := RenderPNG(cfg, spans, WithPNGBackground(false))
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dy() != 5 {
		t.Errorf("height = %d, want 5", img.Bounds().Dy())
	}
}

func TestRenderPNGErrors(t *testing.T) {
	cfg := twoCellConfig()
	if _, err := RenderPNG(cfg, nil, WithScale(0)); err == nil {
		t.Error("expected error for scale 0")
	}
	if _, err := RenderPNG(cfg, []dither.Span{{Width: 8, Height: 8, Fill: "red"}}); err == nil {
		t.Error("expected error for non-hex fill")
	}
}

func TestValidateSyntax(t *testing.T) {
	for _, s := range []Syntax{SyntaxHex, SyntaxFunc} {
		if err := ValidateSyntax(s); err != nil {
			t.Errorf("ValidateSyntax(%q) = %v", s, err)
		}
	}
	if err := ValidateSyntax("hsl"); err == nil {
		t.Error("expected error for hsl")
	}
}

func TestCellGridIgnoresOutOfRange(t *testing.T) {
	grid := CellGrid([]dither.Span{{X: 0, Y: 80, Width: 8, Height: 8}}, 16, 8, 8)
	if grid[0][0] || grid[0][1] {
		t.Error("span below canvas marked cells")
	}
}
