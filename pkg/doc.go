// Package pkg provides the libraries behind the stipple command.
//
// # Overview
//
// Stipple renders a radial color gradient through an 8x8 ordered-dither
// matrix and writes the result as an SVG made of run-length encoded
// rectangles. The pkg directory is organized as:
//
//  1. [dither] - Gradient evaluation, dither decisions and the scanline pass
//  2. [render] - SVG, JSON and PNG output of the scanned spans
//  3. [config] - TOML config files and built-in presets
//  4. [pipeline] - Orchestration (scan → render) with logging and hooks
//  5. [observability] - Hooks for metrics and tracing
//  6. [errors] - Coded errors shared by all packages
//
// # Architecture
//
// The data flow through stipple:
//
//	TOML file / preset / flags
//	         ↓
//	    [config] package (decode, reject unknown keys)
//	         ↓
//	    [dither] package (validate, scan cells, merge runs into spans)
//	         ↓
//	    [render] package (SVG document, JSON span list, PNG preview)
//
// # Quick Start
//
//	f, err := config.Preset("horizon")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := pipeline.NewRunner(nil).Execute(ctx, f.Config(), pipeline.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Stdout.Write(result.Artifacts["svg"])
//
// [dither]: github.com/matzehuels/stipple/pkg/dither
// [render]: github.com/matzehuels/stipple/pkg/render
// [config]: github.com/matzehuels/stipple/pkg/config
// [pipeline]: github.com/matzehuels/stipple/pkg/pipeline
// [observability]: github.com/matzehuels/stipple/pkg/observability
// [errors]: github.com/matzehuels/stipple/pkg/errors
package pkg
