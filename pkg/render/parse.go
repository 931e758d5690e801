package render

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"

	"github.com/matzehuels/stipple/pkg/dither"
	"github.com/matzehuels/stipple/pkg/errors"
)

// Document is the root geometry of a parsed SVG.
type Document struct {
	Width   int
	Height  int
	ViewBox string
	Spans   []dither.Span
}

// ParseRects reads an SVG produced by WriteSVG and returns the rectangles of
// the group with id groupID, in document order. Rectangles outside that
// group, such as the background, are ignored.
func ParseRects(data []byte, groupID string) (Document, error) {
	var doc Document
	dec := xml.NewDecoder(bytes.NewReader(data))
	depth, groupDepth := 0, -1

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return doc, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse svg")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "svg":
				doc.Width, _ = strconv.Atoi(attr(t, "width"))
				doc.Height, _ = strconv.Atoi(attr(t, "height"))
				doc.ViewBox = attr(t, "viewBox")
			case "g":
				if groupDepth < 0 && attr(t, "id") == groupID {
					groupDepth = depth
				}
			case "rect":
				if groupDepth < 0 {
					continue
				}
				sp, err := parseSpan(t)
				if err != nil {
					return doc, err
				}
				doc.Spans = append(doc.Spans, sp)
			}
		case xml.EndElement:
			if depth == groupDepth {
				groupDepth = -1
			}
			depth--
		}
	}
	return doc, nil
}

func parseSpan(t xml.StartElement) (dither.Span, error) {
	var sp dither.Span
	fields := []struct {
		name string
		dst  *int
	}{
		{"x", &sp.X}, {"y", &sp.Y}, {"width", &sp.Width}, {"height", &sp.Height},
	}
	for _, f := range fields {
		v, err := strconv.Atoi(attr(t, f.name))
		if err != nil {
			return sp, errors.Wrap(errors.ErrCodeInvalidFormat, err, "rect attribute %s", f.name)
		}
		*f.dst = v
	}
	sp.Fill = attr(t, "fill")
	return sp, nil
}

func attr(t xml.StartElement, name string) string {
	for _, a := range t.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// CellGrid marks the cells of a cellSize grid over width×height that are
// covered by spans, indexed [row][column].
func CellGrid(spans []dither.Span, width, height, cellSize int) [][]bool {
	rows := (height + cellSize - 1) / cellSize
	cols := (width + cellSize - 1) / cellSize
	grid := make([][]bool, rows)
	for r := range grid {
		grid[r] = make([]bool, cols)
	}
	for _, sp := range spans {
		r := sp.Y / cellSize
		if r < 0 || r >= rows {
			continue
		}
		for x := sp.X; x < sp.X+sp.Width; x += cellSize {
			if c := x / cellSize; c >= 0 && c < cols {
				grid[r][c] = true
			}
		}
	}
	return grid
}
