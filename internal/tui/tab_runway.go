package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/runway/internal/cli"
	"github.com/theirongolddev/runway/internal/pipeline"
	"github.com/theirongolddev/runway/internal/tui/components"
	"github.com/theirongolddev/runway/internal/tui/theme"
)

func (a App) renderRunwayTab(cw int) string {
	t := theme.Active
	s := a.activeSummary()

	zeroMonth := "never"
	zeroColor := t.Green
	if s.ZeroCashMonth > 0 {
		zeroMonth = cli.FormatMonth(s.ZeroCashMonth)
		zeroColor = t.Red
	}

	metrics := []components.Metric{
		{Label: "Starting Cash", Value: cli.FormatCompact(s.StartingCash), Color: t.TextPrimary},
		{
			Label: "Ending Cash",
			Value: cli.FormatCompact(s.EndingCash),
			Delta: cli.FormatDelta(s.EndingCash, a.baseline.EndingCash) + " vs no hires",
			Color: t.CashColor(s.EndingCash),
		},
		{Label: "Cash Runs Out", Value: zeroMonth, Color: zeroColor},
		{Label: "Runway", Value: cli.FormatRunway(s.RunwayMonths, s.Profitable), Color: t.RunwayColor(s.RunwayMonths, s.Profitable)},
	}

	n := len(s.Months)
	cash := make([]float64, n)
	for i, p := range s.Months {
		cash[i] = p.Cash
	}
	payroll := pipeline.ImpactByMonth(a.impact, n)
	labels := components.MonthLabels(n)

	innerW := components.CardInnerWidth(cw)
	halves := components.LayoutRow(cw, 2)

	cashChart := components.ContentCard("Cash Balance",
		components.BarChart(cash, labels, t.Blue, components.CardInnerWidth(halves[0]), 10), halves[0])
	payrollChart := components.ContentCard("Added Payroll",
		components.BarChart(payroll, labels, t.Orange, components.CardInnerWidth(halves[1]), 10), halves[1])

	labelW := 12
	barW := max(innerW-labelW-14, 10)
	var gauges strings.Builder
	gauges.WriteString(components.RunwayBar("No hires",
		cli.FormatRunway(a.baseline.RunwayMonths, a.baseline.Profitable),
		a.baseline.RunwayMonths, a.baseline.Profitable, a.months(), labelW, barW))
	gauges.WriteString("\n")
	gauges.WriteString(components.RunwayBar("With hires",
		cli.FormatRunway(s.RunwayMonths, s.Profitable),
		s.RunwayMonths, s.Profitable, a.months(), labelW, barW))

	muted := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	gauges.WriteString("\n")
	gauges.WriteString(muted.Render(fmt.Sprintf("Net burn %s/mo now, %s/mo with hires · source: %s",
		cli.FormatCost(s.Baseline.NetBurn), cli.FormatCost(s.WithHires.NetBurn), s.Source)))

	var b strings.Builder
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")
	b.WriteString(components.CardRow([]string{cashChart, payrollChart}))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Runway", gauges.String(), cw))
	return b.String()
}
