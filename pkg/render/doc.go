// Package render turns dithered spans into output documents.
//
// # Formats
//
//   - SVG: the primary output. [RenderSVG] and [WriteSVG] emit one <rect>
//     per span inside a group, optionally preceded by a full-canvas
//     background rectangle. [StreamSVG] drives the scan directly into the
//     writer so only one row of spans is held in memory.
//   - JSON: the span list with canvas metadata ([RenderJSON]).
//   - PNG: a raster preview of the same spans ([RenderPNG]).
//
// [ParseRects] reads the span rectangles back out of an emitted SVG, which
// lets callers re-derive the drawn cell grid from a document.
//
//	spans, _, err := dither.Spans(cfg)
//	svg := render.RenderSVG(cfg, spans, render.WithCrispEdges(true))
package render
