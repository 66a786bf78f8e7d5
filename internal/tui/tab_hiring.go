package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/runway/internal/cli"
	"github.com/theirongolddev/runway/internal/planner"
	"github.com/theirongolddev/runway/internal/tui/components"
	"github.com/theirongolddev/runway/internal/tui/theme"
)

// salaryStep is the increment applied by the < and > keys.
const salaryStep = 500

type hiringState struct {
	cursor  int
	editing bool
	input   textinput.Model
	err     string
}

// selectedRoleID returns the id under the cursor, or "" for an empty roster.
func (a App) selectedRoleID() string {
	if a.hiring.cursor < 0 || a.hiring.cursor >= len(a.impact.Roles) {
		return ""
	}
	return a.impact.Roles[a.hiring.cursor].ID
}

func (a App) updateHiringKeys(key string) (tea.Model, tea.Cmd) {
	id := a.selectedRoleID()
	role, ok := a.planner.Role(id)

	switch key {
	case "j", "down":
		if a.hiring.cursor < len(a.impact.Roles)-1 {
			a.hiring.cursor++
		}
		return a, nil
	case "k", "up":
		if a.hiring.cursor > 0 {
			a.hiring.cursor--
		}
		return a, nil
	case "0":
		a.planner.Reset()
		a.rosterChanged()
		return a, nil
	}

	if !ok {
		return a, nil
	}

	switch key {
	case "+", "=":
		a.planner.SetCount(id, role.Count+1)
	case "-", "_":
		if role.Count == 0 {
			return a, nil
		}
		a.planner.SetCount(id, role.Count-1)
	case "]":
		if role.StartMonth >= planner.ClampStartMonth(role.StartMonth+1) {
			return a, nil
		}
		a.planner.SetStartMonth(id, role.StartMonth+1)
	case "[":
		if role.StartMonth <= planner.ClampStartMonth(role.StartMonth-1) {
			return a, nil
		}
		a.planner.SetStartMonth(id, role.StartMonth-1)
	case ">", ".":
		a.planner.SetSalary(id, role.Salary+salaryStep)
	case "<", ",":
		if role.Salary == 0 {
			return a, nil
		}
		a.planner.SetSalary(id, role.Salary-salaryStep)
	case "e", "enter":
		a.hiring.editing = true
		a.hiring.err = ""
		a.hiring.input.SetValue(fmt.Sprintf("%.0f", role.Salary))
		a.hiring.input.CursorEnd()
		a.hiring.input.Focus()
		return a, a.hiring.input.Cursor.BlinkCmd()
	default:
		return a, nil
	}

	a.rosterChanged()
	return a, nil
}

func (a App) updateSalaryInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		v, err := cli.ParseAmount(a.hiring.input.Value())
		if err != nil {
			a.hiring.err = "invalid salary"
			return a, nil
		}
		a.hiring.editing = false
		a.hiring.err = ""
		a.hiring.input.Blur()
		a.planner.SetSalary(a.selectedRoleID(), v)
		a.rosterChanged()
		return a, nil
	case "esc":
		a.hiring.editing = false
		a.hiring.err = ""
		a.hiring.input.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.hiring.input, cmd = a.hiring.input.Update(msg)
	return a, cmd
}

func (a App) renderHiringTab(cw int) string {
	t := theme.Active
	s := a.activeSummary()

	metrics := []components.Metric{
		{Label: "New Hires", Value: cli.FormatNumber(int64(a.planner.TotalNewHires())), Color: t.Accent},
		{Label: "Payroll Increase", Value: cli.FormatCost(a.impact.TotalMonthlyIncrease) + "/mo", Color: t.Orange},
		{
			Label: "Runway",
			Value: cli.FormatRunway(s.RunwayMonths, s.Profitable),
			Delta: runwayDelta(a.baseline.RunwayMonths, s.RunwayMonths, a.baseline.Profitable, s.Profitable),
			Color: t.RunwayColor(s.RunwayMonths, s.Profitable),
		},
		{Label: "Net Burn", Value: cli.FormatCost(s.WithHires.NetBurn) + "/mo", Color: t.CashColor(-s.WithHires.NetBurn)},
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Roster", a.renderRoster(components.CardInnerWidth(cw)), cw))
	return b.String()
}

// runwayDelta describes how the roster moves runway relative to no hires.
func runwayDelta(before, after float64, beforeProfitable, afterProfitable bool) string {
	switch {
	case beforeProfitable && afterProfitable:
		return "still profitable"
	case beforeProfitable:
		return "was ∞"
	case afterProfitable:
		return "now profitable"
	}
	d := after - before
	if d > -0.05 && d < 0.05 {
		return "no change"
	}
	return fmt.Sprintf("%+.1f mo vs no hires", d)
}

func (a App) renderRoster(innerW int) string {
	t := theme.Active

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	errStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)

	if len(a.impact.Roles) == 0 {
		return mutedStyle.Render("No roles in plan. Press 0 to load the default roster.")
	}

	titleW := max(innerW-58, 10)
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("  %-*s %7s %12s %7s %14s %10s",
		titleW, "Role", "Hires", "Salary", "Start", "Monthly Cost", "Share")))
	b.WriteString("\n")

	for i, r := range a.impact.Roles {
		swatch := lipgloss.NewStyle().Foreground(t.RoleColor(i, r.Color)).Background(t.Surface).Render("■")

		share := 0.0
		if a.impact.TotalMonthlyIncrease > 0 {
			share = r.MonthlyCost() / a.impact.TotalMonthlyIncrease
		}
		salary := cli.FormatCost(r.Salary)
		if a.hiring.editing && i == a.hiring.cursor {
			salary = a.hiring.input.Value() + "▏"
		}

		line := fmt.Sprintf(" %-*s %7d %12s %7s %14s %10s",
			titleW, truncStr(r.Title, titleW),
			r.Count, salary, cli.FormatMonth(r.StartMonth),
			cli.FormatCost(r.MonthlyCost()), cli.FormatPercent(share))

		style := rowStyle
		if r.Count == 0 {
			style = mutedStyle
		}
		if i == a.hiring.cursor {
			style = selStyle
		}
		b.WriteString(swatch)
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	s := a.activeSummary()
	b.WriteString("\n")
	b.WriteString(components.CompactRunwayBar("Runway",
		cli.FormatRunway(s.RunwayMonths, s.Profitable),
		s.RunwayMonths, s.Profitable, a.months(), min(innerW, 60)))

	if a.hiring.err != "" {
		b.WriteString("\n")
		b.WriteString(errStyle.Render(a.hiring.err))
	}

	return strings.TrimSuffix(b.String(), "\n")
}
