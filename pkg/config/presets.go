package config

import (
	"embed"
	"path"
	"sort"
	"strings"

	"github.com/matzehuels/stipple/pkg/errors"
)

//go:embed presets/*.toml
var presetFS embed.FS

// PresetNames lists the built-in presets in alphabetical order.
func PresetNames() []string {
	entries, _ := presetFS.ReadDir("presets")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".toml"))
	}
	sort.Strings(names)
	return names
}

// Preset decodes the built-in preset called name.
func Preset(name string) (File, error) {
	data, err := PresetSource(name)
	if err != nil {
		return File{}, err
	}
	return Decode(data)
}

// PresetSource returns the raw TOML of the preset called name.
func PresetSource(name string) ([]byte, error) {
	data, err := presetFS.ReadFile(path.Join("presets", name+".toml"))
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidPreset, "unknown preset %q (available: %s)", name, strings.Join(PresetNames(), ", "))
	}
	return data, nil
}

// PresetSummary returns the first comment line of a preset, or "".
func PresetSummary(name string) string {
	data, err := PresetSource(name)
	if err != nil {
		return ""
	}
	first, _, _ := strings.Cut(string(data), "\n")
	if !strings.HasPrefix(first, "#") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(first, "#"))
}
