// Package model defines domain types for hiring plans and runway projections.
package model

import "math"

const (
	// MinStartMonth is the earliest month a role's cost can begin.
	MinStartMonth = 1
	// MaxStartMonth is the last month a role's cost can begin.
	MaxStartMonth = 24
	// ProjectionMonths is the default projection window.
	ProjectionMonths = 24
)

// Role is one planned hiring line item.
type Role struct {
	ID         string  `json:"id" toml:"id" yaml:"id" validate:"required"`
	Title      string  `json:"title" toml:"title" yaml:"title"`
	Salary     float64 `json:"salary" toml:"salary" yaml:"salary"`
	Count      int     `json:"count" toml:"count" yaml:"count"`
	StartMonth int     `json:"start_month" toml:"start_month" yaml:"start_month"`
	Color      string  `json:"color,omitempty" toml:"color,omitempty" yaml:"color,omitempty"`
}

// MonthlyCost is the payroll contribution of the role once it has started.
func (r Role) MonthlyCost() float64 {
	return FromCents(r.MonthlyCostCents())
}

// MonthlyCostCents is MonthlyCost in whole cents. Payroll sums are taken
// over cents so they do not depend on summation order.
func (r Role) MonthlyCostCents() int64 {
	return ToCents(r.Salary) * int64(r.Count)
}

// ToCents rounds an amount to whole cents.
func ToCents(v float64) int64 {
	return int64(math.Round(v * 100))
}

// FromCents converts whole cents back to an amount.
func FromCents(c int64) float64 {
	return float64(c) / 100
}

// RolePatch carries a partial role update. Nil fields are left unchanged.
type RolePatch struct {
	Title      *string  `json:"title,omitempty"`
	Salary     *float64 `json:"salary,omitempty"`
	Count      *int     `json:"count,omitempty"`
	StartMonth *int     `json:"start_month,omitempty"`
	Color      *string  `json:"color,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p RolePatch) IsEmpty() bool {
	return p.Title == nil && p.Salary == nil && p.Count == nil &&
		p.StartMonth == nil && p.Color == nil
}

// HireEvent marks the month at which a role's cost starts contributing.
type HireEvent struct {
	Month            int     `json:"month"`
	RoleID           string  `json:"role_id"`
	RoleTitle        string  `json:"role_title"`
	Count            int     `json:"count"`
	Salary           float64 `json:"salary"`
	Color            string  `json:"color,omitempty"`
	CumulativeImpact float64 `json:"cumulative_impact"`
}

// HiringImpact is the aggregate snapshot derived from a roster.
type HiringImpact struct {
	TotalMonthlyIncrease float64     `json:"total_monthly_increase"`
	Roles                []Role      `json:"roles"`
	HireEvents           []HireEvent `json:"hire_events"`
}

// ImpactAtMonth returns the payroll delta active at the given month.
// It sums over Roles directly and does not consult HireEvents.
func (h HiringImpact) ImpactAtMonth(month int) float64 {
	var total int64
	for _, r := range h.Roles {
		if r.Count > 0 && r.StartMonth <= month {
			total += r.MonthlyCostCents()
		}
	}
	return FromCents(total)
}
