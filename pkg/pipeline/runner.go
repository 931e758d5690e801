package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stipple/pkg/dither"
	"github.com/matzehuels/stipple/pkg/observability"
	"github.com/matzehuels/stipple/pkg/render"
)

// Runner executes the pipeline. It holds no per-run state, so one Runner
// may serve concurrent Execute calls.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger falls back to log.Default().
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute validates cfg and opts, scans the canvas once and renders every
// requested format from the same spans.
func (r *Runner) Execute(ctx context.Context, cfg dither.Config, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	spans, stats, err := r.Scan(ctx, cfg, opts)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	result := &Result{
		Spans:     spans,
		Artifacts: make(map[string][]byte, len(opts.Formats)),
	}
	result.Stats = stats

	renderStart := time.Now()
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := r.Render(ctx, cfg, spans, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		result.Artifacts[format] = data
	}
	result.Stats.RenderTime = time.Since(renderStart)

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Scan runs the dithering scan for cfg, reporting to the pipeline hooks.
func (r *Runner) Scan(ctx context.Context, cfg dither.Config, opts Options) ([]dither.Span, Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, Stats{}, err
	}
	r.applyLogger(&opts)
	hooks := observability.Pipeline()
	hooks.OnScanStart(ctx, cfg.Width, cfg.Height, cfg.CellSize)

	start := time.Now()
	spans, ds, err := dither.Spans(cfg, dither.WithSource(opts.Source()))
	elapsed := time.Since(start)
	hooks.OnScanComplete(ctx, len(spans), elapsed, err)
	if err != nil {
		return nil, Stats{}, err
	}

	opts.Logger.Info("scanned canvas",
		"grid", fmt.Sprintf("%dx%d", ds.Columns, ds.Rows),
		"drawn", ds.Drawn,
		"spans", ds.Spans,
		"duration", elapsed)
	if opts.Seed != 0 {
		opts.Logger.Debug("seeded noise", "seed", opts.Seed)
	}

	return spans, Stats{Stats: ds, ScanTime: elapsed}, nil
}

// Render produces a single artifact from already scanned spans.
func (r *Runner) Render(ctx context.Context, cfg dither.Config, spans []dither.Span, format string, opts Options) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, format)

	start := time.Now()
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatSVG:
		data = render.RenderSVG(cfg, spans, opts.SVGOptions()...)
	case FormatJSON:
		data, err = render.RenderJSON(cfg, spans, render.WithJSONBackground(opts.Background))
	case FormatPNG:
		data, err = render.RenderPNG(cfg, spans,
			render.WithScale(opts.Scale),
			render.WithPNGBackground(opts.Background))
	}
	elapsed := time.Since(start)
	hooks.OnRenderComplete(ctx, format, len(data), elapsed, err)
	if err != nil {
		return nil, err
	}

	opts.Logger.Debug("rendered artifact", "format", format, "bytes", len(data), "duration", elapsed)
	return data, nil
}

// applyLogger sets the runner's logger if opts doesn't have one.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
}
