package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/runway/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar: key hints on the left,
// plan state and forecast source on the right.
func RenderStatusBar(width int, hints, right string, dirty bool) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)
	dirtyStyle := lipgloss.NewStyle().
		Foreground(t.Orange).
		Background(t.Surface).
		Bold(true)

	left := style.Render(" " + hints)
	if dirty {
		right = dirtyStyle.Render("● unsaved ") + style.Render(right)
	} else {
		right = style.Render(right)
	}
	right += style.Render(" ")

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return left + style.Render(strings.Repeat(" ", padding)) + right
}

