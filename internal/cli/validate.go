package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stipple/pkg/config"
	"github.com/matzehuels/stipple/pkg/errors"
	"github.com/matzehuels/stipple/pkg/pipeline"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [file...]",
		Short: "Check config files without rendering",
		Long: `Check config files without rendering.

Each file is decoded and validated with the same rules render applies.
Without arguments every available preset is checked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd, args)
		},
	}
	return cmd
}

type validateTarget struct {
	label string
	load  func() (config.File, error)
}

func (c *CLI) runValidate(cmd *cobra.Command, args []string) error {
	logger := loggerFromContext(cmd.Context())

	var targets []validateTarget
	for _, path := range args {
		targets = append(targets, validateTarget{path, func() (config.File, error) { return config.Load(path) }})
	}
	if len(args) == 0 {
		printInfo("Checking presets")
		for _, name := range allPresetNames() {
			targets = append(targets, validateTarget{name, func() (config.File, error) { return loadPreset(name) }})
		}
	}

	failed := 0
	for _, t := range targets {
		f, err := t.load()
		if err == nil {
			err = checkFile(f)
		}
		if err != nil {
			failed++
			logger.Debug("validation failed", "target", t.label, "code", errors.GetCode(err), "err", err)
			printError("%s: %s", t.label, errors.UserMessage(err))
			continue
		}
		cfg := f.Config()
		printSuccess("%s", t.label)
		printDetail("%d×%d px, %d×%d cells", cfg.Width, cfg.Height,
			ceilDiv(cfg.Width, cfg.CellSize), ceilDiv(cfg.Height, cfg.CellSize))
		if cfg.NoiseAmount > 0 {
			printWarning("noise_amount %.2f: output differs between runs unless --seed is set", cfg.NoiseAmount)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d config(s) invalid", failed, len(targets))
	}
	return nil
}

// checkFile applies render's validation to a decoded config file.
func checkFile(f config.File) error {
	cfg := f.Config()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	opts := pipeline.DefaultOptions()
	opts.ApplyOutput(f.Output)
	return opts.ValidateForRender()
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
