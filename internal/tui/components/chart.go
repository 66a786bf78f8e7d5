package components

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/runway/internal/tui/theme"
)

// Sparkline renders a unicode sparkline from values. The series is scaled
// between min(0, lowest) and its peak so negative balances stay visible.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := 0.0, values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var buf strings.Builder
	buf.Grow(len(values) * 4) // UTF-8 block chars are up to 3 bytes
	for _, v := range values {
		idx := int((v - lo) / span * float64(len(blocks)-1))
		idx = max(min(idx, len(blocks)-1), 0)
		buf.WriteRune(blocks[idx])
	}

	return style.Render(buf.String())
}

// BarChart renders a vertical bar chart with a money-scaled Y axis.
// Negative values draw no bar; their slot on the X axis is marked in red.
func BarChart(values []float64, labels []string, color lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, color)
	}

	t := theme.Active

	maxVal := 0.0
	for _, v := range values {
		maxVal = max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	// Y-axis: compute tick step and ceiling
	tickStep := chartTickStep(maxVal)
	maxIntervals := max(height/2, 2)
	for int(math.Ceil(maxVal/tickStep)) > maxIntervals {
		tickStep *= 2
	}
	ceiling := math.Ceil(maxVal/tickStep) * tickStep
	numIntervals := max(int(math.Round(ceiling/tickStep)), 1)

	rowsPerTick := max(height/numIntervals, 2)
	chartH := rowsPerTick * numIntervals

	yLabelW := max(len(formatChartLabel(ceiling))+1, 5)
	tickLabels := make(map[int]string)
	for i := 1; i <= numIntervals; i++ {
		tickLabels[i*rowsPerTick] = formatChartLabel(tickStep * float64(i))
	}

	chartW := max(width-yLabelW-1, 5)
	n := len(values)

	// Bar sizing
	gap := 1
	if n <= 1 {
		gap = 0
	}
	barW := chartW
	if n > 1 {
		barW = (chartW - (n - 1)) / n
	}
	if barW < 2 && n > 1 {
		values, labels = sampleSeries(values, labels, max((chartW+1)/3, 2))
		n = len(values)
		barW = 2
	}
	barW = min(barW, 6)
	axisLen := n*barW + max(0, n-1)*gap

	blocks := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blankStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder

	for row := chartH; row >= 1; row-- {
		rowTop := ceiling * float64(row) / float64(chartH)
		rowBottom := ceiling * float64(row-1) / float64(chartH)
		rowPct := float64(row) / float64(chartH)

		barColor := color
		if rowPct > 0.8 {
			barColor = t.AccentBright
		}
		barStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)

		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, tickLabels[row])))
		b.WriteString(axisStyle.Render("│"))

		for i, v := range values {
			if i > 0 && gap > 0 {
				b.WriteString(blankStyle.Render(strings.Repeat(" ", gap)))
			}
			switch {
			case v >= rowTop:
				b.WriteString(barStyle.Render(strings.Repeat("█", barW)))
			case v > rowBottom:
				frac := (v - rowBottom) / (rowTop - rowBottom)
				idx := max(min(int(frac*8), 8), 1)
				b.WriteString(barStyle.Render(strings.Repeat(string(blocks[idx]), barW)))
			default:
				b.WriteString(blankStyle.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}

	// X-axis line with 0 label; negative slots in red
	negStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, "0")))
	b.WriteString(axisStyle.Render("└"))
	for i, v := range values {
		if i > 0 && gap > 0 {
			b.WriteString(axisStyle.Render(strings.Repeat("─", gap)))
		}
		if v < 0 {
			b.WriteString(negStyle.Render(strings.Repeat("━", barW)))
		} else {
			b.WriteString(axisStyle.Render(strings.Repeat("─", barW)))
		}
	}

	if len(labels) == n && n > 0 {
		b.WriteString("\n")
		labelStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
		b.WriteString(blankStyle.Render(strings.Repeat(" ", yLabelW+1)))
		b.WriteString(labelStyle.Render(axisLabels(labels, barW, gap, axisLen)))
	}

	return b.String()
}

// sampleSeries picks n evenly spaced points from values (and labels, when
// they line up with values).
func sampleSeries(values []float64, labels []string, n int) ([]float64, []string) {
	src := len(values)
	sampled := make([]float64, n)
	var sampledLabels []string
	if len(labels) == src {
		sampledLabels = make([]string, n)
	}
	for i := range sampled {
		idx := i * (src - 1) / (n - 1)
		sampled[i] = values[idx]
		if sampledLabels != nil {
			sampledLabels[i] = labels[idx]
		}
	}
	return sampled, sampledLabels
}

// axisLabels lays out X-axis labels under their bars, skipping labels that
// would collide. The last label is always shown when it fits.
func axisLabels(labels []string, barW, gap, axisLen int) string {
	n := len(labels)
	buf := []byte(strings.Repeat(" ", axisLen))

	minSpacing := 4
	labelStep := max(1, (n*minSpacing)/(axisLen+1))

	lastEnd := -1
	for i := 0; i < n; i += labelStep {
		pos := i * (barW + gap)
		lbl := labels[i]
		end := pos + len(lbl)
		if pos <= lastEnd {
			continue
		}
		if end > axisLen {
			end = axisLen
			if end-pos < 2 {
				continue
			}
			lbl = lbl[:end-pos]
		}
		copy(buf[pos:end], lbl)
		lastEnd = end
	}
	if n > 1 {
		lbl := labels[n-1]
		pos := (n - 1) * (barW + gap)
		end := pos + len(lbl)
		if end > axisLen {
			pos = axisLen - len(lbl)
			end = axisLen
		}
		if pos >= 0 && pos > lastEnd {
			copy(buf[pos:end], lbl)
		}
	}
	return strings.TrimRight(string(buf), " ")
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

// formatChartLabel formats a Y-axis money tick: 500 -> "$500", 25000 -> "$25k".
func formatChartLabel(v float64) string {
	trim := func(scaled float64, suffix string) string {
		if scaled == math.Trunc(scaled) {
			return fmt.Sprintf("$%.0f%s", scaled, suffix)
		}
		return fmt.Sprintf("$%.1f%s", scaled, suffix)
	}
	switch {
	case v >= 1e9:
		return trim(v/1e9, "B")
	case v >= 1e6:
		return trim(v/1e6, "M")
	case v >= 1e3:
		return trim(v/1e3, "k")
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}

// MonthLabels returns X-axis labels "1".."n" for a projection window.
func MonthLabels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = strconv.Itoa(i + 1)
	}
	return labels
}
