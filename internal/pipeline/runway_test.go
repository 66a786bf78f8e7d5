package pipeline

import (
	"math"
	"testing"

	"github.com/theirongolddev/runway/internal/model"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestBurnRate(t *testing.T) {
	b := model.Baseline{Cash: 120000, MonthlyRevenue: 10000, MonthlyExpenses: 30000}

	m := BurnRate(b, 0)
	if m.GrossBurn != 30000 || m.NetBurn != 20000 {
		t.Fatalf("burn = %+v, want gross 30000 net 20000", m)
	}
	if !approx(m.RunwayMonths, 6) {
		t.Fatalf("RunwayMonths = %.2f, want 6", m.RunwayMonths)
	}

	m = BurnRate(b, 10000)
	if !approx(m.RunwayMonths, 4) {
		t.Fatalf("RunwayMonths with payroll = %.2f, want 4", m.RunwayMonths)
	}

	m = BurnRate(model.Baseline{Cash: 1, MonthlyRevenue: 50000, MonthlyExpenses: 30000}, 0)
	if !m.Profitable || m.RunwayMonths != 0 {
		t.Fatalf("profitable burn = %+v, want Profitable with 0 runway", m)
	}
}

func TestSimulateFlat(t *testing.T) {
	b := model.Baseline{Cash: 100000, MonthlyRevenue: 10000, MonthlyExpenses: 20000}
	impact := ComputeImpact([]model.Role{{ID: "eng", Salary: 5000, Count: 2, StartMonth: 3}})

	months := Simulate(b, impact, 6)
	if len(months) != 6 {
		t.Fatalf("len = %d, want 6", len(months))
	}

	wantCash := []float64{90000, 80000, 60000, 40000, 20000, 0}
	for i, p := range months {
		if p.Month != i+1 {
			t.Fatalf("projection %d month = %d", i, p.Month)
		}
		if !approx(p.Cash, wantCash[i]) {
			t.Fatalf("month %d cash = %.0f, want %.0f", p.Month, p.Cash, wantCash[i])
		}
	}
	if months[1].Payroll != 0 || months[2].Payroll != 10000 {
		t.Fatalf("payroll m2=%.0f m3=%.0f, want 0 and 10000", months[1].Payroll, months[2].Payroll)
	}
}

func TestSimulateCompoundsGrowth(t *testing.T) {
	b := model.Baseline{MonthlyRevenue: 1000, RevenueGrowth: 0.1, MonthlyExpenses: 1000, ExpenseGrowth: -0.5}
	months := Simulate(b, ComputeImpact(nil), 3)

	if !approx(months[2].Revenue, 1210) {
		t.Fatalf("month 3 revenue = %.2f, want 1210", months[2].Revenue)
	}
	if !approx(months[2].BaseExpenses, 250) {
		t.Fatalf("month 3 expenses = %.2f, want 250", months[2].BaseExpenses)
	}
}

func TestSummarizeInterpolatesZeroCash(t *testing.T) {
	b := model.Baseline{Cash: 50000, MonthlyExpenses: 20000}
	s := Run(b, ComputeImpact(nil), 12)

	if s.ZeroCashMonth != 3 {
		t.Fatalf("ZeroCashMonth = %d, want 3", s.ZeroCashMonth)
	}
	if !approx(s.RunwayMonths, 2.5) {
		t.Fatalf("RunwayMonths = %.2f, want 2.5", s.RunwayMonths)
	}
	if s.Source != model.SourceLocal {
		t.Fatalf("Source = %q, want local", s.Source)
	}
}

func TestSummarizeHiresShortenRunway(t *testing.T) {
	b := model.Baseline{Cash: 240000, MonthlyRevenue: 10000, MonthlyExpenses: 20000}
	without := Run(b, ComputeImpact(nil), 24)
	with := Run(b, ComputeImpact([]model.Role{{ID: "eng", Salary: 10000, Count: 1, StartMonth: 1}}), 24)

	if without.ZeroCashMonth != 0 {
		t.Fatalf("baseline ZeroCashMonth = %d, want 0 (cash lasts exactly 24 months)", without.ZeroCashMonth)
	}
	if with.ZeroCashMonth != 13 {
		t.Fatalf("with hires ZeroCashMonth = %d, want 13", with.ZeroCashMonth)
	}
	if !approx(with.RunwayMonths, 12) {
		t.Fatalf("with hires RunwayMonths = %.2f, want 12", with.RunwayMonths)
	}
	if with.WithHires.NetBurn != 20000 || with.Baseline.NetBurn != 10000 {
		t.Fatalf("burn metrics = %+v / %+v", with.Baseline, with.WithHires)
	}
}

func TestSummarizeProfitable(t *testing.T) {
	b := model.Baseline{Cash: 1000, MonthlyRevenue: 30000, MonthlyExpenses: 20000}
	s := Run(b, ComputeImpact(nil), 6)

	if !s.Profitable {
		t.Fatal("expected Profitable")
	}
	if s.ZeroCashMonth != 0 {
		t.Fatalf("ZeroCashMonth = %d, want 0", s.ZeroCashMonth)
	}
	if !approx(s.EndingCash, 61000) {
		t.Fatalf("EndingCash = %.0f, want 61000", s.EndingCash)
	}
}
