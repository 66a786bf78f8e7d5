// Package pipeline computes hiring impact aggregates and runway projections.
package pipeline

import (
	"sort"

	"github.com/theirongolddev/runway/internal/model"
)

// ComputeImpact derives the hiring impact snapshot for a roster.
// The roster is copied; the result never aliases the caller's slice.
func ComputeImpact(roles []model.Role) model.HiringImpact {
	impact := model.HiringImpact{
		Roles:      append([]model.Role(nil), roles...),
		HireEvents: []model.HireEvent{},
	}

	var total int64
	for _, r := range roles {
		total += r.MonthlyCostCents()
	}
	impact.TotalMonthlyIncrease = model.FromCents(total)

	// Distinct start months among active roles, ascending
	seen := make(map[int]struct{})
	var months []int
	for _, r := range roles {
		if r.Count <= 0 {
			continue
		}
		if _, ok := seen[r.StartMonth]; ok {
			continue
		}
		seen[r.StartMonth] = struct{}{}
		months = append(months, r.StartMonth)
	}
	sort.Ints(months)

	// Within a month, events follow roster order
	var cumulative int64
	for _, m := range months {
		for _, r := range roles {
			if r.Count <= 0 || r.StartMonth != m {
				continue
			}
			cumulative += r.MonthlyCostCents()
			impact.HireEvents = append(impact.HireEvents, model.HireEvent{
				Month:            m,
				RoleID:           r.ID,
				RoleTitle:        r.Title,
				Count:            r.Count,
				Salary:           r.Salary,
				Color:            r.Color,
				CumulativeImpact: model.FromCents(cumulative),
			})
		}
	}

	return impact
}

// ImpactByMonth returns ImpactAtMonth for months 1..months.
func ImpactByMonth(impact model.HiringImpact, months int) []float64 {
	if months <= 0 {
		months = model.ProjectionMonths
	}
	out := make([]float64, months)
	for i := range out {
		out[i] = impact.ImpactAtMonth(i + 1)
	}
	return out
}

// TotalNewHires sums headcount across the roster.
func TotalNewHires(roles []model.Role) int {
	total := 0
	for _, r := range roles {
		total += r.Count
	}
	return total
}

// EventsUpTo returns the hire events whose month is at or before month.
func EventsUpTo(events []model.HireEvent, month int) []model.HireEvent {
	n := sort.Search(len(events), func(i int) bool {
		return events[i].Month > month
	})
	return events[:n]
}
