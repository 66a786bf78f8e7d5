package pipeline

import (
	"math"

	"github.com/theirongolddev/runway/internal/model"
)

// BurnRate computes gross/net burn and runway for the baseline plus a
// monthly payroll delta.
func BurnRate(b model.Baseline, payroll float64) model.BurnMetrics {
	m := model.BurnMetrics{
		GrossBurn: b.MonthlyExpenses + payroll,
	}
	m.NetBurn = m.GrossBurn - b.MonthlyRevenue

	if m.NetBurn <= 0 {
		m.Profitable = true
		return m
	}
	if b.Cash > 0 {
		m.RunwayMonths = b.Cash / m.NetBurn
	}
	return m
}

// Simulate projects cash month by month for months 1..months.
// Revenue and base expenses compound from month 1; payroll comes from
// impact.ImpactAtMonth. Cash may go negative.
func Simulate(b model.Baseline, impact model.HiringImpact, months int) []model.MonthProjection {
	if months <= 0 {
		months = model.ProjectionMonths
	}

	out := make([]model.MonthProjection, months)
	cash := b.Cash
	for i := range out {
		month := i + 1
		revenue := b.MonthlyRevenue * math.Pow(1+b.RevenueGrowth, float64(i))
		base := b.MonthlyExpenses * math.Pow(1+b.ExpenseGrowth, float64(i))
		payroll := impact.ImpactAtMonth(month)
		total := base + payroll
		net := total - revenue
		cash -= net

		out[i] = model.MonthProjection{
			Month:         month,
			Revenue:       revenue,
			BaseExpenses:  base,
			Payroll:       payroll,
			TotalExpenses: total,
			NetBurn:       net,
			Cash:          cash,
		}
	}
	return out
}

// Summarize folds a projection into a RunwaySummary. projections must be
// the output of Simulate for the same baseline and impact.
func Summarize(b model.Baseline, impact model.HiringImpact, projections []model.MonthProjection) model.RunwaySummary {
	s := model.RunwaySummary{
		Months:       projections,
		StartingCash: b.Cash,
		EndingCash:   b.Cash,
		Baseline:     BurnRate(b, 0),
		WithHires:    BurnRate(b, impact.TotalMonthlyIncrease),
		Source:       model.SourceLocal,
	}
	if len(projections) > 0 {
		s.EndingCash = projections[len(projections)-1].Cash
	}

	prevCash := b.Cash
	for _, p := range projections {
		if p.Cash < 0 {
			s.ZeroCashMonth = p.Month
			// Interpolate inside the month the balance crosses zero
			frac := 0.0
			if p.NetBurn > 0 && prevCash > 0 {
				frac = prevCash / p.NetBurn
			}
			s.RunwayMonths = float64(p.Month-1) + frac
			return s
		}
		prevCash = p.Cash
	}

	// Never ran out within the window: fall back to steady-state runway
	s.Profitable = s.WithHires.Profitable
	s.RunwayMonths = s.WithHires.RunwayMonths
	if !s.Profitable && s.RunwayMonths < float64(len(projections)) {
		// Growth kept cash positive past the steady-state estimate
		s.RunwayMonths = float64(len(projections))
	}
	return s
}

// Run is Simulate followed by Summarize.
func Run(b model.Baseline, impact model.HiringImpact, months int) model.RunwaySummary {
	return Summarize(b, impact, Simulate(b, impact, months))
}
