package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/runway/internal/cli"
	"github.com/theirongolddev/runway/internal/tui/components"
	"github.com/theirongolddev/runway/internal/tui/theme"
)

func (a App) renderEventsTab(cw int) string {
	t := theme.Active

	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	monthStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	cumStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	railStyle := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface)

	events := a.impact.HireEvents
	if len(events) == 0 {
		return components.ContentCard("Hire Timeline",
			mutedStyle.Render("No hires planned. Add headcount on the Hiring tab."), cw)
	}

	innerW := components.CardInnerWidth(cw)
	titleW := max(innerW-64, 10)

	// Role colors follow roster position, not event order
	roleIdx := make(map[string]int, len(a.impact.Roles))
	for i, r := range a.impact.Roles {
		roleIdx[r.ID] = i
	}

	var b strings.Builder
	lastMonth := 0
	for _, ev := range events {
		if ev.Month != lastMonth {
			if lastMonth != 0 {
				b.WriteString(railStyle.Render("│"))
				b.WriteString("\n")
			}
			b.WriteString(monthStyle.Render(fmt.Sprintf("● Month %d", ev.Month)))
			b.WriteString("\n")
			lastMonth = ev.Month
		}

		dot := lipgloss.NewStyle().Foreground(t.RoleColor(roleIdx[ev.RoleID], ev.Color)).Background(t.Surface).Render("■")
		b.WriteString(railStyle.Render("│ "))
		b.WriteString(dot)
		b.WriteString(rowStyle.Render(fmt.Sprintf(" %-*s %9s × %-10s",
			titleW, truncStr(ev.RoleTitle, titleW),
			cli.FormatHeadcount(ev.Count), cli.FormatCost(ev.Salary))))
		b.WriteString(cumStyle.Render(fmt.Sprintf(" %14s/mo ", cli.FormatCost(ev.CumulativeImpact))))
		ramp := 0.0
		if a.impact.TotalMonthlyIncrease > 0 {
			ramp = ev.CumulativeImpact / a.impact.TotalMonthlyIncrease
		}
		b.WriteString(components.ProgressBar(ramp, 6))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("Total payroll increase once all hires land: %s/mo",
		cli.FormatCost(a.impact.TotalMonthlyIncrease))))

	return components.ContentCard("Hire Timeline", b.String(), cw)
}
