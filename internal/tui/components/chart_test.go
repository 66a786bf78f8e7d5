package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestFormatChartLabel(t *testing.T) {
	cases := map[float64]string{
		500:       "$500",
		25000:     "$25k",
		12500:     "$12.5k",
		2_000_000: "$2M",
		1_500_000: "$1.5M",
	}
	for in, want := range cases {
		if got := formatChartLabel(in); got != want {
			t.Fatalf("formatChartLabel(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestChartTickStep(t *testing.T) {
	cases := map[float64]float64{
		100:    20,
		1000:   200,
		60000:  10000,
		0:      1,
		240000: 50000,
	}
	for in, want := range cases {
		if got := chartTickStep(in); got != want {
			t.Fatalf("chartTickStep(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestBarChartShape(t *testing.T) {
	values := []float64{100, 80, 60, 40, 20, -10}
	out := BarChart(values, MonthLabels(len(values)), "#4385BE", 60, 8)
	lines := strings.Split(out, "\n")
	if len(lines) < 4 {
		t.Fatalf("chart too short: %d lines", len(lines))
	}

	last := lines[len(lines)-1]
	if !strings.Contains(last, "1") || !strings.Contains(last, "6") {
		t.Fatalf("x labels missing first/last month: %q", last)
	}

	axis := lines[len(lines)-2]
	if !strings.Contains(axis, "━") {
		t.Fatalf("negative month not marked on axis: %q", axis)
	}

	width := lipgloss.Width(lines[0])
	for i, line := range lines[:len(lines)-1] {
		if w := lipgloss.Width(line); w != width {
			t.Fatalf("line %d width %d, want %d", i, w, width)
		}
	}
}

func TestBarChartFallsBackToSparkline(t *testing.T) {
	out := BarChart([]float64{1, 2, 3}, nil, "#fff", 10, 2)
	if lipgloss.Width(out) != 3 {
		t.Fatalf("sparkline width = %d, want 3", lipgloss.Width(out))
	}
}

func TestSampleSeriesKeepsEnds(t *testing.T) {
	values := make([]float64, 24)
	for i := range values {
		values[i] = float64(i)
	}
	got, labels := sampleSeries(values, MonthLabels(24), 5)
	if len(got) != 5 || got[0] != 0 || got[4] != 23 {
		t.Fatalf("sampleSeries = %v", got)
	}
	if labels[0] != "1" || labels[4] != "24" {
		t.Fatalf("sampled labels = %v", labels)
	}
}
