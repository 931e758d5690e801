// Package pipeline runs the scan → render pipeline for stipple.
//
// The CLI builds a [dither.Config] (from a TOML file, a preset or flags) and
// hands it to a [Runner] together with [Options] describing which artifacts to
// produce. Centralizing this keeps seeding, validation, logging and the
// observability hooks identical for every entry point.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	opts := pipeline.DefaultOptions()
//	opts.Formats = []string{"svg", "png"}
//	result, err := runner.Execute(ctx, cfg, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stipple/pkg/config"
	"github.com/matzehuels/stipple/pkg/dither"
	"github.com/matzehuels/stipple/pkg/errors"
	"github.com/matzehuels/stipple/pkg/render"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatPNG  = "png"
)

// DefaultFormat is produced when no format is requested.
const DefaultFormat = FormatSVG

// DefaultScale is the PNG pixel multiplier.
const DefaultScale = 1

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatPNG:  true,
}

// Options contains the render-side configuration of a pipeline run.
// Geometry and colors live in [dither.Config].
type Options struct {
	Formats []string

	// Seed drives the noise source. Zero means an unseeded source, so
	// noisy configs differ between runs.
	Seed uint64

	Background       bool
	CrispEdges       bool
	BackgroundSyntax string
	GroupID          string

	// Scale multiplies PNG output size.
	Scale int

	Logger *log.Logger
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Spans are the run-length encoded cells in emission order.
	Spans []dither.Span

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	dither.Stats
	ScanTime   time.Duration
	RenderTime time.Duration
}

// DefaultOptions returns options with the background rect and crisp edges
// enabled, matching the documents the tool writes without configuration.
// Logger is left nil so a [Runner] substitutes its own.
func DefaultOptions() Options {
	return Options{
		Formats:          []string{DefaultFormat},
		Background:       true,
		CrispEdges:       true,
		BackgroundSyntax: string(render.SyntaxHex),
		GroupID:          render.DefaultGroupID,
		Scale:            DefaultScale,
	}
}

// ApplyOutput overlays the [output] table of a config file. Unset entries
// keep their current value.
func (o *Options) ApplyOutput(out config.Output) {
	if out.Background != nil {
		o.Background = *out.Background
	}
	if out.CrispEdges != nil {
		o.CrispEdges = *out.CrispEdges
	}
	if out.BackgroundSyntax != "" {
		o.BackgroundSyntax = out.BackgroundSyntax
	}
	if out.GroupID != "" {
		o.GroupID = out.GroupID
	}
}

// SetRenderDefaults fills zero values that have a non-zero default.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.BackgroundSyntax == "" {
		o.BackgroundSyntax = string(render.SyntaxHex)
	}
	if o.GroupID == "" {
		o.GroupID = render.DefaultGroupID
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender sets defaults and checks the render options.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := render.ValidateSyntax(render.Syntax(o.BackgroundSyntax)); err != nil {
		return err
	}
	if o.Scale < 1 {
		return errors.Invalid("scale", "must be at least 1 (got %d)", o.Scale)
	}
	return nil
}

// Source returns the noise source selected by Seed.
func (o *Options) Source() dither.Source {
	if o.Seed == 0 {
		return dither.DefaultSource
	}
	return dither.NewSeededSource(o.Seed)
}

// SVGOptions translates o into document options.
func (o *Options) SVGOptions() []render.SVGOption {
	return []render.SVGOption{
		render.WithBackground(o.Background),
		render.WithBackgroundSyntax(render.Syntax(o.BackgroundSyntax)),
		render.WithCrispEdges(o.CrispEdges),
		render.WithGroupID(o.GroupID),
	}
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(FormatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// FormatNames lists the supported formats in alphabetical order.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}
