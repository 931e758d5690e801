package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/stipple/pkg/dither"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PresetListModel - Interactive preset selection
// =============================================================================

// presetItem is a preset as shown in the picker.
type presetItem struct {
	Name    string
	Summary string
	Config  dither.Config
}

// PresetListModel is the bubbletea model for interactive preset selection.
type PresetListModel struct {
	Items    []presetItem
	Cursor   int
	Selected string
}

// NewPresetListModel creates a picker over the given preset names. Presets
// that fail to load are listed without details.
func NewPresetListModel(names []string) PresetListModel {
	items := make([]presetItem, 0, len(names))
	for _, name := range names {
		item := presetItem{Name: name, Summary: presetSummary(name)}
		if f, err := loadPreset(name); err == nil {
			item.Config = f.Config()
		}
		items = append(items, item)
	}
	return PresetListModel{Items: items}
}

func (m PresetListModel) Init() tea.Cmd {
	return nil
}

func (m PresetListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
			}
		case "enter":
			if len(m.Items) > 0 {
				m.Selected = m.Items[m.Cursor].Name
			}
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m PresetListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Preset"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, item := range m.Items {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		colors := swatch(item.Config.Inner) + swatch(item.Config.Middle) + swatch(item.Config.Outer)
		size := fmt.Sprintf("%d×%d", item.Config.Width, item.Config.Height)
		line := fmt.Sprintf("%s%-12s %-10s", cursor, item.Name, size)

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString(" " + colors + "  " + listDimStyle.Render(item.Summary))
		b.WriteString("\n")
	}

	return b.String()
}

// pickPreset runs the picker on the terminal and returns the chosen name.
func pickPreset(ctx context.Context, names []string) (string, error) {
	if len(names) == 0 {
		return "", fmt.Errorf("no presets available")
	}
	p := tea.NewProgram(NewPresetListModel(names),
		tea.WithContext(ctx),
		tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("preset picker: %w", err)
	}
	m, ok := final.(PresetListModel)
	if !ok || m.Selected == "" {
		return "", fmt.Errorf("no preset selected")
	}
	return m.Selected, nil
}
