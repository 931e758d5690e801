package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stipple/pkg/config"
	"github.com/matzehuels/stipple/pkg/dither"
	"github.com/matzehuels/stipple/pkg/pipeline"
	"github.com/matzehuels/stipple/pkg/render"
)

// renderFlags holds the command-line flags for the render command.
// Geometry flags only apply when set explicitly.
type renderFlags struct {
	source sourceFlags

	output  string // output file, base path for several formats, or "-" for stdout
	formats string // comma-separated output formats
	stream  bool   // write SVG while scanning

	width    int
	height   int
	cellSize int
	noise    float64
	centerX  float64
	centerY  float64
	seed     uint64
	scale    int

	noBackground  bool
	noCrisp       bool
	rgbBackground bool
}

// sourceFlags selects where render parameters come from.
type sourceFlags struct {
	configPath string
	preset     string
	pick       bool
}

func (s *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.configPath, "config", "c", "", "TOML config file")
	cmd.Flags().StringVarP(&s.preset, "preset", "p", "", "preset name (see 'stipple presets')")
	cmd.Flags().BoolVar(&s.pick, "pick", false, "choose a preset interactively")
	cmd.MarkFlagsMutuallyExclusive("config", "preset", "pick")
	_ = cmd.RegisterFlagCompletionFunc("preset", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return allPresetNames(), cobra.ShellCompDirectiveNoFileComp
	})
}

// load resolves the flags to a config file. Without any source the default
// preset is used.
func (s *sourceFlags) load(ctx context.Context) (config.File, string, error) {
	logger := loggerFromContext(ctx)

	switch {
	case s.configPath != "":
		f, err := config.Load(s.configPath)
		return f, s.configPath, err
	case s.pick:
		name, err := pickPreset(ctx, allPresetNames())
		if err != nil {
			return config.File{}, "", err
		}
		f, err := loadPreset(name)
		return f, name, err
	default:
		name := s.preset
		if name == "" {
			name = defaultPreset
			logger.Debug("no config given, using default preset", "preset", name)
		}
		f, err := loadPreset(name)
		return f, name, err
	}
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a dithered gradient",
		Long: `Render a dithered radial gradient.

Parameters come from --config, --preset or --pick (the cinematic preset by
default). Flags such as --width or --noise override individual values.

With a single format the document goes to stdout unless --output is set.
Several formats need --output as a base path; one file per format is written.`,
		Example: `  stipple render > banner.svg
  stipple render -p horizon -o horizon.svg
  stipple render -c banner.toml -f svg,png -o out/banner
  stipple render -p lagoon --noise 0.2 --seed 7 -o lagoon.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, flags)
		},
	}

	flags.source.register(cmd)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file, or base path for several formats (default stdout)")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): svg (default), json, png (comma-separated)")
	cmd.Flags().BoolVar(&flags.stream, "stream", false, "write SVG rows as they are scanned (svg only)")
	cmd.Flags().IntVar(&flags.width, "width", 0, "canvas width in pixels")
	cmd.Flags().IntVar(&flags.height, "height", 0, "canvas height in pixels")
	cmd.Flags().IntVar(&flags.cellSize, "cell-size", 0, "dither cell size in pixels")
	cmd.Flags().Float64Var(&flags.noise, "noise", 0, "brightness noise amount")
	cmd.Flags().Float64Var(&flags.centerX, "center-x", 0, "gradient center x as a fraction of width")
	cmd.Flags().Float64Var(&flags.centerY, "center-y", 0, "gradient center y as a fraction of height")
	cmd.Flags().Uint64Var(&flags.seed, "seed", 0, "noise seed (0 = random each run)")
	cmd.Flags().IntVar(&flags.scale, "scale", pipeline.DefaultScale, "PNG pixel scale")
	cmd.Flags().BoolVar(&flags.noBackground, "no-background", false, "omit the full-canvas background rect")
	cmd.Flags().BoolVar(&flags.noCrisp, "no-crisp", false, "omit shape-rendering=crispEdges")
	cmd.Flags().BoolVar(&flags.rgbBackground, "rgb-background", false, "write the background as rgb(r,g,b)")

	return cmd
}

// runRender resolves parameters, runs the pipeline and writes the artifacts.
func (c *CLI) runRender(cmd *cobra.Command, flags renderFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	file, source, err := flags.source.load(ctx)
	if err != nil {
		return err
	}
	logger.Debug("loaded parameters", "source", source)

	cfg := file.Config()
	applyGeometryFlags(cmd, &cfg, flags)

	opts := pipeline.DefaultOptions()
	opts.ApplyOutput(file.Output)
	applyOutputFlags(&opts, flags)
	opts.Formats = parseFormats(flags.formats)
	opts.Logger = logger
	if err := opts.ValidateForRender(); err != nil {
		return err
	}

	if flags.stream {
		return c.streamSVG(cmd, cfg, opts, flags.output)
	}

	toStdout := flags.output == "" || flags.output == "-"
	if toStdout && len(opts.Formats) > 1 {
		return fmt.Errorf("%d formats requested: --output base path is required", len(opts.Formats))
	}

	var spinner *Spinner
	if !toStdout {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", source))
		spinner.Start()
	}

	result, err := c.newRunner().Execute(ctx, cfg, opts)
	if err != nil {
		if spinner != nil {
			spinner.StopWithError("Render failed")
		}
		return err
	}

	if toStdout {
		_, err := cmd.OutOrStdout().Write(result.Artifacts[opts.Formats[0]])
		return err
	}

	prog := newProgress(logger)
	paths, err := writeArtifacts(result.Artifacts, opts.Formats, flags.output)
	if err != nil {
		spinner.StopWithError("Write failed")
		return err
	}
	spinner.StopWithSuccess("Rendered " + StyleValue.Render(source))
	prog.done(fmt.Sprintf("Wrote %d file(s)", len(paths)))

	printStats(result.Stats.Stats)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// streamSVG scans and writes in one pass without buffering the document.
func (c *CLI) streamSVG(cmd *cobra.Command, cfg dither.Config, opts pipeline.Options, output string) error {
	if len(opts.Formats) != 1 || opts.Formats[0] != pipeline.FormatSVG {
		return fmt.Errorf("--stream only supports svg output")
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	if output == "" || output == "-" {
		st, err := render.StreamSVG(cmd.OutOrStdout(), cfg, opts.SVGOptions(), dither.WithSource(opts.Source()))
		if err != nil {
			return err
		}
		loggerFromContext(cmd.Context()).Info("streamed svg", "spans", st.Spans, "drawn", st.Drawn)
		return nil
	}

	f, err := createOutput(output)
	if err != nil {
		return err
	}
	st, err := render.StreamSVG(f, cfg, opts.SVGOptions(), dither.WithSource(opts.Source()))
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close %s: %w", output, cerr)
	}
	if err != nil {
		os.Remove(output)
		return err
	}
	loggerFromContext(cmd.Context()).Info("streamed svg", "spans", st.Spans, "drawn", st.Drawn, "path", output)
	printFile(output)
	return nil
}

// applyGeometryFlags overrides config values with flags the user set.
func applyGeometryFlags(cmd *cobra.Command, cfg *dither.Config, flags renderFlags) {
	changed := cmd.Flags().Changed
	if changed("width") {
		cfg.Width = flags.width
	}
	if changed("height") {
		cfg.Height = flags.height
	}
	if changed("cell-size") {
		cfg.CellSize = flags.cellSize
	}
	if changed("noise") {
		cfg.NoiseAmount = flags.noise
	}
	if changed("center-x") {
		cfg.CenterX = flags.centerX
	}
	if changed("center-y") {
		cfg.CenterY = flags.centerY
	}
}

// applyOutputFlags overlays the document flags on opts.
func applyOutputFlags(opts *pipeline.Options, flags renderFlags) {
	opts.Seed = flags.seed
	opts.Scale = flags.scale
	if flags.noBackground {
		opts.Background = false
	}
	if flags.noCrisp {
		opts.CrispEdges = false
	}
	if flags.rgbBackground {
		opts.BackgroundSyntax = string(render.SyntaxFunc)
	}
}

// basePath strips a known format extension from output.
func basePath(output string) string {
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeArtifacts writes each format and returns the paths written. A single
// format is written to output as given; several become base.format files.
func writeArtifacts(artifacts map[string][]byte, formats []string, output string) ([]string, error) {
	if len(formats) == 1 {
		if err := writeFile(output, artifacts[formats[0]]); err != nil {
			return nil, err
		}
		return []string{output}, nil
	}

	base := basePath(output)
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := base + "." + format
		if err := writeFile(path, artifacts[format]); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, data []byte) error {
	f, err := createOutput(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// createOutput creates path, making parent directories as needed.
func createOutput(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	return f, nil
}
