// Package config loads render configurations from TOML files and built-in
// presets.
//
// Keys use snake_case and map one-to-one onto [dither.Config]. Colors may be
// written either as hex strings or as integer triples:
//
//	width = 1280
//	height = 1280
//	cell_size = 6
//	center_x = 0.5
//	center_y = 1.0
//	radial_scale = 1.2
//	density_curve = 1.8
//	color_inner = "#2878ff"
//	color_middle = [8, 18, 46]
//	color_outer = "#000000"
//	background_color = "#000000"
//
//	[output]
//	background = true
//	background_syntax = "rgb"
//
// Unknown keys are rejected so typos surface as errors instead of silently
// falling back to defaults.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/stipple/pkg/dither"
	"github.com/matzehuels/stipple/pkg/errors"
)

// File is the on-disk form of a render configuration.
type File struct {
	Width    int `toml:"width"`
	Height   int `toml:"height"`
	CellSize int `toml:"cell_size"`

	CenterX         float64 `toml:"center_x"`
	CenterY         float64 `toml:"center_y"`
	RadialScale     float64 `toml:"radial_scale"`
	DensityCurve    float64 `toml:"density_curve"`
	BrightnessCurve float64 `toml:"brightness_curve,omitempty"`
	NoiseAmount     float64 `toml:"noise_amount,omitempty"`

	ColorInner      Color `toml:"color_inner"`
	ColorMiddle     Color `toml:"color_middle"`
	ColorOuter      Color `toml:"color_outer"`
	BackgroundColor Color `toml:"background_color"`

	DitherMatrix [][]int `toml:"dither_matrix,omitempty"`

	Output Output `toml:"output"`
}

// Output holds document options. Nil pointers mean "use the default".
type Output struct {
	Background       *bool  `toml:"background,omitempty"`
	BackgroundSyntax string `toml:"background_syntax,omitempty"`
	CrispEdges       *bool  `toml:"crisp_edges,omitempty"`
	GroupID          string `toml:"group_id,omitempty"`
}

// Color is an RGB color that decodes from "#rrggbb" or [r, g, b].
type Color dither.RGB

// UnmarshalTOML implements toml.Unmarshaler.
func (c *Color) UnmarshalTOML(v any) error {
	switch val := v.(type) {
	case string:
		parsed, err := colorful.Hex(strings.TrimSpace(val))
		if err != nil {
			return fmt.Errorf("invalid hex color %q", val)
		}
		r, g, b := parsed.RGB255()
		*c = Color{R: r, G: g, B: b}
		return nil
	case []any:
		if len(val) != 3 {
			return fmt.Errorf("color must have 3 channels (got %d)", len(val))
		}
		var ch [3]uint8
		for i, x := range val {
			n, ok := x.(int64)
			if !ok {
				return fmt.Errorf("color channel %d must be an integer (got %v)", i, x)
			}
			if n < 0 || n > 255 {
				return fmt.Errorf("color channel %d out of range 0..255 (got %d)", i, n)
			}
			ch[i] = uint8(n)
		}
		*c = Color{R: ch[0], G: ch[1], B: ch[2]}
		return nil
	default:
		return fmt.Errorf("color must be a hex string or [r, g, b] array (got %T)", v)
	}
}

// MarshalText writes the color as "#rrggbb".
func (c Color) MarshalText() ([]byte, error) {
	return []byte(dither.RGB(c).Hex()), nil
}

// Config converts f into a render configuration. It does not validate.
func (f File) Config() dither.Config {
	return dither.Config{
		Width:           f.Width,
		Height:          f.Height,
		CellSize:        f.CellSize,
		CenterX:         f.CenterX,
		CenterY:         f.CenterY,
		RadialScale:     f.RadialScale,
		DensityCurve:    f.DensityCurve,
		BrightnessCurve: f.BrightnessCurve,
		NoiseAmount:     f.NoiseAmount,
		Inner:           dither.RGB(f.ColorInner),
		Middle:          dither.RGB(f.ColorMiddle),
		Outer:           dither.RGB(f.ColorOuter),
		Background:      dither.RGB(f.BackgroundColor),
		Matrix:          f.DitherMatrix,
	}
}

// FromConfig builds the file form of cfg, keeping out as the output table.
func FromConfig(cfg dither.Config, out Output) File {
	return File{
		Width:           cfg.Width,
		Height:          cfg.Height,
		CellSize:        cfg.CellSize,
		CenterX:         cfg.CenterX,
		CenterY:         cfg.CenterY,
		RadialScale:     cfg.RadialScale,
		DensityCurve:    cfg.DensityCurve,
		BrightnessCurve: cfg.BrightnessCurve,
		NoiseAmount:     cfg.NoiseAmount,
		ColorInner:      Color(cfg.Inner),
		ColorMiddle:     Color(cfg.Middle),
		ColorOuter:      Color(cfg.Outer),
		BackgroundColor: Color(cfg.Background),
		DitherMatrix:    cfg.Matrix,
		Output:          out,
	}
}

// Load reads and decodes the TOML file at path.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return File{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return File{}, fmt.Errorf("read config: %w", err)
	}
	f, err := Decode(data)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Decode parses TOML data. Syntax errors, bad colors and unknown keys are
// reported as INVALID_CONFIG.
func Decode(data []byte) (File, error) {
	var f File
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return File{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return File{}, errors.Invalid(keys[0], "unknown key")
	}
	return f, nil
}

// Encode writes f as TOML.
func Encode(w io.Writer, f File) error {
	return toml.NewEncoder(w).Encode(f)
}

// EncodeString is Encode into a string.
func EncodeString(f File) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, f); err != nil {
		return "", err
	}
	return buf.String(), nil
}
