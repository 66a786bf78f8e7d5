package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/runway/internal/tui/theme"
)

// ProgressBar renders a plain block progress bar with percentage.
func ProgressBar(pct float64, width int) string {
	t := theme.Active
	pct = max(min(pct, 1), 0)
	filled := max(min(int(pct*float64(width)), width), 0)

	var barColor lipgloss.Color
	switch {
	case pct >= 0.8:
		barColor = t.AccentBright
	case pct >= 0.5:
		barColor = t.Accent
	default:
		barColor = t.Cyan
	}

	filledStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	b.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(emptyStyle.Render(strings.Repeat("░", width-filled)))

	return b.String() + spaceStyle.Render(" ") + pctStyle.Render(fmt.Sprintf("%.0f%%", pct*100))
}

// RunwayFraction is the share of the projection window the cash lasts.
func RunwayFraction(months float64, profitable bool, window int) float64 {
	if profitable || window <= 0 {
		return 1
	}
	return max(min(months/float64(window), 1), 0)
}

// RunwayBar renders a labeled runway gauge: how much of the projection
// window the cash covers, colored by how short the runway is.
func RunwayBar(label, value string, months float64, profitable bool, window, labelW, barWidth int) string {
	t := theme.Active
	pct := RunwayFraction(months, profitable, window)
	color := t.RunwayColor(months, profitable)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		spaceStyle.Render(" ") +
		bar.ViewAs(pct) +
		spaceStyle.Render(" ") +
		valueStyle.Render(value)
}

// CompactRunwayBar renders a tiny status-bar-sized runway indicator.
func CompactRunwayBar(label, value string, months float64, profitable bool, window, width int) string {
	t := theme.Active
	pct := RunwayFraction(months, profitable, window)
	color := t.RunwayColor(months, profitable)

	barW := max(width-lipgloss.Width(label)-lipgloss.Width(value)-2, 4)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barW),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	valueStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(label) +
		spaceStyle.Render(" ") +
		bar.ViewAs(pct) +
		spaceStyle.Render(" ") +
		valueStyle.Render(value)
}
