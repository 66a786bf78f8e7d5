// Package planner owns a hiring roster and keeps its derived impact current.
//
// A Planner is the session-scoped view model behind every surface: the CLI
// loads one from the plan file, the TUI holds one for its lifetime, and the
// HTTP server keeps one per session. Planner is not safe for concurrent use.
package planner

import (
	"errors"
	"fmt"
	"math"

	"github.com/theirongolddev/runway/internal/model"
	"github.com/theirongolddev/runway/internal/pipeline"
)

var (
	// ErrDuplicateRole is returned when a roster repeats a role id.
	ErrDuplicateRole = errors.New("planner: duplicate role id")
	// ErrEmptyRoleID is returned when a roster contains a role without an id.
	ErrEmptyRoleID = errors.New("planner: empty role id")
)

var defaultRoster = []model.Role{
	{ID: "eng", Title: "Engineer", Salary: 12000, StartMonth: 1, Color: "#4385BE"},
	{ID: "sales", Title: "Sales", Salary: 8000, StartMonth: 1, Color: "#879A39"},
	{ID: "support", Title: "Support", Salary: 5000, StartMonth: 1, Color: "#DA702C"},
	{ID: "marketing", Title: "Marketing", Salary: 9000, StartMonth: 1, Color: "#8B7EC8"},
}

// DefaultRoster returns a fresh copy of the seed roster. Every count is 0.
func DefaultRoster() []model.Role {
	return append([]model.Role(nil), defaultRoster...)
}

// Planner holds a mutable roster.
type Planner struct {
	roles []model.Role
}

// NewDefault returns a planner seeded with the default roster.
func NewDefault() *Planner {
	return &Planner{roles: DefaultRoster()}
}

// New returns a planner over a copy of roles. Numeric fields are clamped;
// empty or repeated ids are rejected.
func New(roles []model.Role) (*Planner, error) {
	if err := ValidateIDs(roles); err != nil {
		return nil, err
	}
	p := &Planner{roles: make([]model.Role, len(roles))}
	for i, r := range roles {
		p.roles[i] = clampRole(r)
	}
	return p, nil
}

// ValidateIDs checks that every role has a unique, non-empty id.
func ValidateIDs(roles []model.Role) error {
	seen := make(map[string]struct{}, len(roles))
	for i, r := range roles {
		if r.ID == "" {
			return fmt.Errorf("role %d: %w", i, ErrEmptyRoleID)
		}
		if _, ok := seen[r.ID]; ok {
			return fmt.Errorf("role %q: %w", r.ID, ErrDuplicateRole)
		}
		seen[r.ID] = struct{}{}
	}
	return nil
}

// Roles returns a copy of the current roster in roster order.
func (p *Planner) Roles() []model.Role {
	return append([]model.Role(nil), p.roles...)
}

// Role looks up a role by id.
func (p *Planner) Role(id string) (model.Role, bool) {
	if i := p.index(id); i >= 0 {
		return p.roles[i], true
	}
	return model.Role{}, false
}

// UpdateRole applies patch to the role with the given id and returns the
// new roster. An unknown id leaves the roster unchanged.
func (p *Planner) UpdateRole(id string, patch model.RolePatch) []model.Role {
	i := p.index(id)
	if i < 0 {
		return p.Roles()
	}

	r := p.roles[i]
	if patch.Title != nil {
		r.Title = *patch.Title
	}
	if patch.Salary != nil {
		r.Salary = ClampSalary(*patch.Salary)
	}
	if patch.Count != nil {
		r.Count = ClampCount(*patch.Count)
	}
	if patch.StartMonth != nil {
		r.StartMonth = ClampStartMonth(*patch.StartMonth)
	}
	if patch.Color != nil {
		r.Color = *patch.Color
	}
	p.roles[i] = r

	return p.Roles()
}

// SetCount sets a role's headcount, clamped to max(0, count).
func (p *Planner) SetCount(id string, count int) []model.Role {
	count = ClampCount(count)
	return p.UpdateRole(id, model.RolePatch{Count: &count})
}

// SetStartMonth sets a role's start month, clamped to [1, 24].
func (p *Planner) SetStartMonth(id string, month int) []model.Role {
	month = ClampStartMonth(month)
	return p.UpdateRole(id, model.RolePatch{StartMonth: &month})
}

// SetSalary sets a role's monthly salary, clamped to max(0, salary).
func (p *Planner) SetSalary(id string, salary float64) []model.Role {
	salary = ClampSalary(salary)
	return p.UpdateRole(id, model.RolePatch{Salary: &salary})
}

// Reset replaces the roster with the default roster.
func (p *Planner) Reset() []model.Role {
	p.roles = DefaultRoster()
	return p.Roles()
}

// TotalNewHires sums headcount across the roster.
func (p *Planner) TotalNewHires() int {
	return pipeline.TotalNewHires(p.roles)
}

// Impact recomputes the hiring impact for the current roster.
func (p *Planner) Impact() model.HiringImpact {
	return pipeline.ComputeImpact(p.roles)
}

func (p *Planner) index(id string) int {
	for i := range p.roles {
		if p.roles[i].ID == id {
			return i
		}
	}
	return -1
}

// ClampCount returns max(0, n).
func ClampCount(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// ClampStartMonth returns month limited to [MinStartMonth, MaxStartMonth].
func ClampStartMonth(month int) int {
	if month < model.MinStartMonth {
		return model.MinStartMonth
	}
	if month > model.MaxStartMonth {
		return model.MaxStartMonth
	}
	return month
}

// ClampSalary returns max(0, s). NaN becomes 0.
func ClampSalary(s float64) float64 {
	if s < 0 || math.IsNaN(s) {
		return 0
	}
	return s
}

func clampRole(r model.Role) model.Role {
	r.Count = ClampCount(r.Count)
	r.StartMonth = ClampStartMonth(r.StartMonth)
	r.Salary = ClampSalary(r.Salary)
	return r
}
