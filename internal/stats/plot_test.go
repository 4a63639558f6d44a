package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Speed", []Series{
		{Name: "WPM", Values: []float64{280, 300, 340, 320, 310}},
		{Name: "Glide Score", Values: []float64{40, 55, 60, 62, 70}},
	}, 12, 4)
	if err != nil {
		t.Fatalf("plot series: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Speed") {
		t.Fatalf("expected title in output")
	}
	if !strings.Contains(out, "Scaled per series") {
		t.Fatalf("expected scale note in output")
	}
	if !strings.Contains(out, "Legend:") {
		t.Fatalf("expected legend in output")
	}
	// Title, scale note, two min/max lines, four plot rows, legend.
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 9 {
		t.Fatalf("expected at least 9 lines of output, got %d", len(lines))
	}
}

func TestPlotSeriesEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotSeries(&buf, "Empty", nil, 10, 4); err != nil {
		t.Fatalf("plot series: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for empty series, got %q", buf.String())
	}
}

func TestPlotWidthFor(t *testing.T) {
	axisWidth := len(axisLabelTop) + runewidth.StringWidth(axisSeparator)
	total := 80
	if got := PlotWidthFor(total); got != total-axisWidth {
		t.Fatalf("expected width %d, got %d", total-axisWidth, got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
	if got := PlotWidthFor(5); got != minPlotWidth {
		t.Fatalf("narrow terminals should floor at %d, got %d", minPlotWidth, got)
	}
}

func TestResample(t *testing.T) {
	down := resample([]float64{1, 1, 3, 3}, 2)
	if len(down) != 2 || down[0] != 1 || down[1] != 3 {
		t.Fatalf("unexpected downsample: %v", down)
	}
	up := resample([]float64{0, 10}, 3)
	if len(up) != 3 || up[0] != 0 || up[1] != 5 || up[2] != 10 {
		t.Fatalf("unexpected upsample: %v", up)
	}
	if resample(nil, 5) != nil {
		t.Fatalf("empty input should yield nil")
	}
}
