// Package cli implements the stipple command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stipple/pkg/buildinfo"
	"github.com/matzehuels/stipple/pkg/config"
	"github.com/matzehuels/stipple/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "stipple"

	// defaultPreset is rendered when neither --config nor --preset is given.
	defaultPreset = "cinematic"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Stipple renders dithered radial gradients as SVG",
		Long: `Stipple renders a radial color gradient through an 8x8 ordered-dither
matrix and writes the result as a compact SVG of run-length encoded rectangles.

Parameters come from a TOML config file, a built-in preset, or flags.`,
		Version:      buildinfo.Resolved(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.presetsCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

// =============================================================================
// Paths
// =============================================================================

// presetDir returns the user preset directory (~/.config/stipple/presets/).
// Files there named NAME.toml shadow the built-in preset of the same name.
func presetDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "presets"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "presets"), nil
}

// userPresetPath returns the path of a user preset, or "" if none exists.
func userPresetPath(name string) string {
	dir, err := presetDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, name+".toml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// userPresetNames lists presets in the user preset directory.
func userPresetNames() []string {
	dir, err := presetDir()
	if err != nil {
		return nil
	}
	matches, _ := filepath.Glob(filepath.Join(dir, "*.toml"))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(filepath.Base(m), ".toml"))
	}
	return names
}

// loadPreset resolves name against the user directory, then the built-ins.
func loadPreset(name string) (config.File, error) {
	if path := userPresetPath(name); path != "" {
		return config.Load(path)
	}
	return config.Preset(name)
}

// presetSummary returns the built-in description of name, or "" when a
// user preset shadows it.
func presetSummary(name string) string {
	if userPresetPath(name) != "" {
		return ""
	}
	return config.PresetSummary(name)
}

// presetSource returns the TOML text of a preset.
func presetSource(name string) ([]byte, error) {
	if path := userPresetPath(name); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read preset: %w", err)
		}
		return data, nil
	}
	return config.PresetSource(name)
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{pipeline.DefaultFormat}
	}
	parts := strings.Split(s, ",")
	formats := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			formats = append(formats, p)
		}
	}
	return formats
}
