package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/runway/internal/tui/theme"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name string
	Key  string
}

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Hiring", Key: "1"},
	{Name: "Runway", Key: "2"},
	{Name: "Events", Key: "3"},
	{Name: "Settings", Key: "4"},
}

// tabLabel is the visible text of a tab. Inactive tabs show their shortcut.
func tabLabel(tab Tab, active bool) string {
	if active {
		return tab.Name
	}
	return tab.Name + "[" + tab.Key + "]"
}

// TabVisualWidth returns the rendered width of a tab, including padding.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(tabLabel(tab, active)) + 2
}

// RenderTabBar renders the tab bar with the given active index.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		Background(t.SurfaceHover).
		Bold(true).
		Padding(0, 1)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Padding(0, 1)

	sepStyle := lipgloss.NewStyle().
		Foreground(t.Border).
		Background(t.Surface)

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		if i == activeIdx {
			parts[i] = activeStyle.Render(tabLabel(tab, true))
		} else {
			parts[i] = inactiveStyle.Render(tabLabel(tab, false))
		}
	}

	row := strings.Join(parts, sepStyle.Render("│"))
	return lipgloss.NewStyle().Background(t.Surface).Width(width).Render(row) + "\n"
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key string) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
