package render

import (
	"encoding/json"

	"github.com/matzehuels/stipple/pkg/dither"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	background bool
}

// WithJSONBackground records the background color in the output.
func WithJSONBackground(on bool) JSONOption { return func(r *jsonRenderer) { r.background = on } }

type jsonOutput struct {
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	CellSize   int           `json:"cell_size"`
	Background string        `json:"background,omitempty"`
	Spans      []dither.Span `json:"spans"`
}

// RenderJSON serializes spans together with the canvas geometry.
func RenderJSON(cfg dither.Config, spans []dither.Span, opts ...JSONOption) ([]byte, error) {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Width:    cfg.Width,
		Height:   cfg.Height,
		CellSize: cfg.CellSize,
		Spans:    spans,
	}
	if out.Spans == nil {
		out.Spans = []dither.Span{}
	}
	if r.background {
		out.Background = cfg.Background.Hex()
	}
	return json.MarshalIndent(out, "", "  ")
}
