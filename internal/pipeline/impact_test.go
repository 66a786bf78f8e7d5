package pipeline

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/theirongolddev/runway/internal/model"
)

func randomRoster(rng *rand.Rand) []model.Role {
	n := 1 + rng.Intn(8)
	roles := make([]model.Role, n)
	for i := range roles {
		roles[i] = model.Role{
			ID:         fmt.Sprintf("r%d", i),
			Title:      fmt.Sprintf("Role %d", i),
			Salary:     rng.Float64() * 20000,
			Count:      rng.Intn(4),
			StartMonth: 1 + rng.Intn(model.MaxStartMonth),
		}
	}
	return roles
}

func TestImpactAtMonthMatchesLastEvent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for iter := 0; iter < 200; iter++ {
		roles := randomRoster(rng)
		impact := ComputeImpact(roles)

		for m := 1; m <= model.ProjectionMonths; m++ {
			want := 0.0
			if evs := EventsUpTo(impact.HireEvents, m); len(evs) > 0 {
				want = evs[len(evs)-1].CumulativeImpact
			}
			if got := impact.ImpactAtMonth(m); got != want {
				t.Fatalf("iter %d: ImpactAtMonth(%d) = %v, want last cumulative %v (roster %+v)",
					iter, m, got, want, roles)
			}
		}
	}
}

func TestFractionalSalariesSumIndependentOfOrder(t *testing.T) {
	impact := ComputeImpact([]model.Role{
		{ID: "a", Salary: 0.1, Count: 1, StartMonth: 2},
		{ID: "b", Salary: 0.2, Count: 1, StartMonth: 1},
		{ID: "c", Salary: 0.3, Count: 1, StartMonth: 1},
	})

	last := impact.HireEvents[len(impact.HireEvents)-1]
	if got := impact.ImpactAtMonth(2); got != last.CumulativeImpact {
		t.Fatalf("ImpactAtMonth(2) = %v, want last cumulative %v", got, last.CumulativeImpact)
	}
	if got := impact.ImpactAtMonth(2); got != 0.6 {
		t.Fatalf("ImpactAtMonth(2) = %v, want 0.6", got)
	}
	if impact.TotalMonthlyIncrease != 0.6 {
		t.Fatalf("TotalMonthlyIncrease = %v, want 0.6", impact.TotalMonthlyIncrease)
	}
	if got := impact.ImpactAtMonth(1); got != 0.5 {
		t.Fatalf("ImpactAtMonth(1) = %v, want 0.5", got)
	}
}

func TestHireEventsOrdered(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for iter := 0; iter < 200; iter++ {
		roles := randomRoster(rng)
		impact := ComputeImpact(roles)

		active := 0
		var cents int64
		for _, r := range roles {
			if r.Count > 0 {
				active++
			}
			cents += r.MonthlyCostCents()
		}
		total := model.FromCents(cents)
		if len(impact.HireEvents) != active {
			t.Fatalf("iter %d: %d events, want %d", iter, len(impact.HireEvents), active)
		}
		if impact.TotalMonthlyIncrease != total {
			t.Fatalf("iter %d: TotalMonthlyIncrease = %v, want %v", iter, impact.TotalMonthlyIncrease, total)
		}

		for i := 1; i < len(impact.HireEvents); i++ {
			prev, cur := impact.HireEvents[i-1], impact.HireEvents[i]
			if cur.Month < prev.Month {
				t.Fatalf("iter %d: events out of order at %d: %d after %d", iter, i, cur.Month, prev.Month)
			}
			if cur.CumulativeImpact < prev.CumulativeImpact {
				t.Fatalf("iter %d: cumulative decreased at %d", iter, i)
			}
		}
	}
}

func TestTotalIgnoresStartMonth(t *testing.T) {
	roles := []model.Role{
		{ID: "a", Salary: 1000, Count: 2, StartMonth: 24},
		{ID: "b", Salary: 500, Count: 1, StartMonth: 1},
		{ID: "c", Salary: 9000, Count: 0, StartMonth: 1},
	}
	impact := ComputeImpact(roles)
	if impact.TotalMonthlyIncrease != 2500 {
		t.Fatalf("TotalMonthlyIncrease = %.0f, want 2500", impact.TotalMonthlyIncrease)
	}
	if got := impact.ImpactAtMonth(23); got != 500 {
		t.Fatalf("ImpactAtMonth(23) = %.0f, want 500", got)
	}
}

func TestComputeImpactCopiesRoster(t *testing.T) {
	roles := []model.Role{{ID: "a", Salary: 1000, Count: 1, StartMonth: 1}}
	impact := ComputeImpact(roles)
	roles[0].Count = 5

	if got := impact.ImpactAtMonth(1); got != 1000 {
		t.Fatalf("ImpactAtMonth(1) after caller mutation = %.0f, want 1000", got)
	}
}

func TestImpactByMonth(t *testing.T) {
	impact := ComputeImpact([]model.Role{
		{ID: "a", Salary: 100, Count: 1, StartMonth: 2},
		{ID: "b", Salary: 50, Count: 2, StartMonth: 4},
	})

	got := ImpactByMonth(impact, 5)
	want := []float64{0, 100, 100, 200, 200}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("month %d = %.0f, want %.0f", i+1, got[i], want[i])
		}
	}

	if n := len(ImpactByMonth(impact, 0)); n != model.ProjectionMonths {
		t.Fatalf("default window len = %d, want %d", n, model.ProjectionMonths)
	}
}
