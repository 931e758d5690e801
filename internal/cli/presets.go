package cli

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stipple/pkg/config"
	"github.com/matzehuels/stipple/pkg/dither"
)

// presetsCommand creates the presets command and its subcommands.
func (c *CLI) presetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List available presets",
		Long: `List the built-in presets and any user presets.

User presets are TOML files in $XDG_CONFIG_HOME/stipple/presets (or
~/.config/stipple/presets). A user preset shadows a built-in of the same name.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := presetRows()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), presetTable(rows))
			return nil
		},
	}

	cmd.AddCommand(c.presetsShowCommand())

	return cmd
}

// presetsShowCommand creates the "presets show" subcommand.
func (c *CLI) presetsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Print a preset as TOML",
		Long: `Print a preset as TOML.

The output is a valid config file; redirect it to start a custom config:

  stipple presets show horizon > banner.toml`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return allPresetNames(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := presetSource(args[0])
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

// allPresetNames returns built-in and user presets, sorted and deduplicated.
func allPresetNames() []string {
	names := append(config.PresetNames(), userPresetNames()...)
	slices.Sort(names)
	return slices.Compact(names)
}

// presetRow is one line of the presets table.
type presetRow struct {
	name    string
	origin  string
	cfg     dither.Config
	summary string
}

func presetRows() ([]presetRow, error) {
	names := allPresetNames()
	rows := make([]presetRow, 0, len(names))
	for _, name := range names {
		f, err := loadPreset(name)
		if err != nil {
			return nil, fmt.Errorf("preset %s: %w", name, err)
		}
		origin := "built-in"
		if userPresetPath(name) != "" {
			origin = "user"
		}
		rows = append(rows, presetRow{name: name, origin: origin, cfg: f.Config(), summary: presetSummary(name)})
	}
	return rows, nil
}

// presetTable renders rows as a bordered table with color swatches.
func presetTable(rows []presetRow) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{
			r.name,
			fmt.Sprintf("%d×%d", r.cfg.Width, r.cfg.Height),
			fmt.Sprint(r.cfg.CellSize),
			swatch(r.cfg.Inner) + swatch(r.cfg.Middle) + swatch(r.cfg.Outer),
			r.origin,
			r.summary,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Size", "Cell", "Colors", "Source", "Description").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			switch col {
			case 0:
				return base.Foreground(colorCyan).Bold(true)
			case 4, 5:
				return base.Foreground(colorDim)
			}
			return base
		})

	return t.Render()
}
