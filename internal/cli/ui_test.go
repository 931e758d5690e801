package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/stipple/pkg/dither"
)

func TestStatusOutput(t *testing.T) {
	var buf bytes.Buffer
	captureStatus(t, &buf)

	printSuccess("Rendered %s", "horizon")
	printError("bad %d", 1)
	printWarning("careful")
	printInfo("checking")
	printDetail("detail")
	printFile("out/horizon.svg")

	out := buf.String()
	for _, want := range []string{"✓ Rendered horizon", "✗ bad 1", "careful", "› checking", "  detail", "→ out/horizon.svg"} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	captureStatus(t, &buf)

	printStats(dither.Stats{Rows: 71, Columns: 194, Cells: 13774, Drawn: 5120, Spans: 2048})

	out := buf.String()
	for _, want := range []string{"194×71 cells", "5120 drawn", "2048 rects"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats line missing %q: %q", want, out)
		}
	}
}
