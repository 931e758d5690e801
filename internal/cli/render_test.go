package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/stipple/pkg/render"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "png", []string{"png"}},
		{"multiple formats", "svg,json,png", []string{"svg", "json", "png"}},
		{"spaces trimmed", " svg , png ", []string{"svg", "png"}},
		{"empty entries dropped", "svg,,json", []string{"svg", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFormats(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output string
		want   string
	}{
		{"out/banner.svg", "out/banner"},
		{"banner.png", "banner"},
		{"banner", "banner"},
		{"banner.v2", "banner.v2"},
	}

	for _, tt := range tests {
		if got := basePath(tt.output); got != tt.want {
			t.Errorf("basePath(%q) = %q, want %q", tt.output, got, tt.want)
		}
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	artifacts := map[string][]byte{"svg": []byte("<svg/>"), "json": []byte("{}")}

	paths, err := writeArtifacts(artifacts, []string{"svg", "json"}, filepath.Join(dir, "nested", "out.svg"))
	if err != nil {
		t.Fatalf("writeArtifacts: %v", err)
	}
	want := []string{filepath.Join(dir, "nested", "out.svg"), filepath.Join(dir, "nested", "out.json")}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}
	data, err := os.ReadFile(want[1])
	if err != nil || string(data) != "{}" {
		t.Errorf("json file = %q, %v", data, err)
	}

	single := filepath.Join(dir, "single.txt")
	paths, err = writeArtifacts(artifacts, []string{"svg"}, single)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 || paths[0] != single {
		t.Errorf("single format should keep the path as given, got %v", paths)
	}
}

func TestRenderToStdout(t *testing.T) {
	isolate(t)
	out, err := execute(t, "render", "--width", "64", "--height", "32")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(out, "<?xml") {
		t.Errorf("stdout should hold the svg document, got %.40q", out)
	}
	doc, err := render.ParseRects([]byte(out), render.DefaultGroupID)
	if err != nil {
		t.Fatalf("ParseRects: %v", err)
	}
	if doc.Width != 64 || doc.Height != 32 {
		t.Errorf("size = %dx%d, want 64x32", doc.Width, doc.Height)
	}
	// cinematic has background = false
	if n := strings.Count(out, "<rect"); n != len(doc.Spans) {
		t.Errorf("%d rects for %d spans", n, len(doc.Spans))
	}
}

func TestRenderOutputFlags(t *testing.T) {
	isolate(t)
	out, err := execute(t, "render", "-p", "lagoon", "--width", "60", "--height", "30",
		"--noise", "0", "--rgb-background", "--no-crisp")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `fill="rgb(0,0,0)"`) {
		t.Error("--rgb-background should write the background as rgb()")
	}
	if strings.Contains(out, "crispEdges") {
		t.Error("--no-crisp should drop shape-rendering")
	}
}

func TestRenderMultipleFormats(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	base := filepath.Join(dir, "out", "horizon.svg")

	out, err := execute(t, "render", "-p", "horizon", "--width", "120", "--height", "120",
		"-f", "svg,json,png", "-o", base)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "" {
		t.Errorf("nothing should go to stdout, got %d bytes", len(out))
	}
	for _, ext := range []string{"svg", "json", "png"} {
		path := filepath.Join(dir, "out", "horizon."+ext)
		info, err := os.Stat(path)
		if err != nil || info.Size() == 0 {
			t.Errorf("%s: %v", path, err)
		}
	}
	svg, _ := os.ReadFile(filepath.Join(dir, "out", "horizon.svg"))
	if !bytes.Contains(svg, []byte(`id="ditherPixels"`)) {
		t.Error("preset output table should set the group id")
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"several formats to stdout", []string{"render", "-f", "svg,png"}, "--output"},
		{"unknown format", []string{"render", "-f", "gif"}, "INVALID_FORMAT"},
		{"unknown preset", []string{"render", "-p", "sunset"}, "INVALID_PRESET"},
		{"missing config", []string{"render", "-c", "/nonexistent/stipple.toml"}, "FILE_NOT_FOUND"},
		{"config and preset", []string{"render", "-c", "a.toml", "-p", "horizon"}, "none of the others"},
		{"invalid override", []string{"render", "--cell-size", "0"}, "cell_size"},
		{"stream png", []string{"render", "--stream", "-f", "png"}, "--stream"},
		{"bad scale", []string{"render", "--scale=-1", "-f", "png"}, "scale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			_, err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestRenderStreamMatchesBuffered(t *testing.T) {
	isolate(t)
	args := []string{"render", "-p", "horizon", "--width", "90", "--height", "60"}

	buffered, err := execute(t, args...)
	if err != nil {
		t.Fatal(err)
	}
	streamed, err := execute(t, append(args, "--stream")...)
	if err != nil {
		t.Fatal(err)
	}
	if buffered != streamed {
		t.Error("streamed document differs from buffered render")
	}
}

func TestRenderStreamInvalidConfigWritesNothing(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	fresh := filepath.Join(dir, "out", "fresh.svg")
	if _, err := execute(t, "render", "--stream", "--cell-size", "0", "-o", fresh); err == nil {
		t.Fatal("expected error for cell size 0")
	}
	if _, err := os.Stat(fresh); !os.IsNotExist(err) {
		t.Errorf("invalid render created %s", fresh)
	}

	existing := filepath.Join(dir, "kept.svg")
	if err := os.WriteFile(existing, []byte("<svg/>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "render", "--stream", "--width=-5", "-o", existing); err == nil {
		t.Fatal("expected error for negative width")
	}
	data, err := os.ReadFile(existing)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<svg/>" {
		t.Errorf("invalid render overwrote %s: %q", existing, data)
	}
}

func TestRenderStreamToFile(t *testing.T) {
	isolate(t)
	out := filepath.Join(t.TempDir(), "horizon.svg")
	args := []string{"render", "-p", "horizon", "--width", "90", "--height", "60"}

	buffered, err := execute(t, args...)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, append(args, "--stream", "-o", out)...); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != buffered {
		t.Error("streamed file differs from buffered render")
	}
}

func TestRenderSeedIsReproducible(t *testing.T) {
	isolate(t)
	args := []string{"render", "-p", "lagoon", "--width", "90", "--height", "45", "--seed", "11"}

	a, err := execute(t, args...)
	if err != nil {
		t.Fatal(err)
	}
	b, err := execute(t, args...)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("same --seed should give identical output")
	}
}
