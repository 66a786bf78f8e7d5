package planner

import (
	"errors"
	"reflect"
	"testing"

	"github.com/theirongolddev/runway/internal/model"
)

func TestDefaultRosterAllInactive(t *testing.T) {
	p := NewDefault()
	roles := p.Roles()
	if len(roles) != 4 {
		t.Fatalf("default roster len = %d, want 4", len(roles))
	}
	for _, r := range roles {
		if r.Count != 0 {
			t.Fatalf("role %s count = %d, want 0", r.ID, r.Count)
		}
	}

	impact := p.Impact()
	if impact.TotalMonthlyIncrease != 0 {
		t.Fatalf("TotalMonthlyIncrease = %.0f, want 0", impact.TotalMonthlyIncrease)
	}
	if len(impact.HireEvents) != 0 {
		t.Fatalf("HireEvents len = %d, want 0", len(impact.HireEvents))
	}
	if got := impact.ImpactAtMonth(12); got != 0 {
		t.Fatalf("ImpactAtMonth(12) = %.0f, want 0", got)
	}
}

func TestSameMonthEventsFollowRosterOrder(t *testing.T) {
	p := NewDefault()
	p.SetCount("eng", 2)
	p.SetStartMonth("eng", 3)
	p.SetCount("sales", 1)
	p.SetStartMonth("sales", 3)

	impact := p.Impact()
	if impact.TotalMonthlyIncrease != 32000 {
		t.Fatalf("TotalMonthlyIncrease = %.0f, want 32000", impact.TotalMonthlyIncrease)
	}
	if len(impact.HireEvents) != 2 {
		t.Fatalf("HireEvents len = %d, want 2", len(impact.HireEvents))
	}

	first, second := impact.HireEvents[0], impact.HireEvents[1]
	if first.RoleID != "eng" || first.Month != 3 || first.CumulativeImpact != 24000 {
		t.Fatalf("first event = %+v, want eng@3 cumulative 24000", first)
	}
	if second.RoleID != "sales" || second.Month != 3 || second.CumulativeImpact != 32000 {
		t.Fatalf("second event = %+v, want sales@3 cumulative 32000", second)
	}

	for _, tc := range []struct {
		month int
		want  float64
	}{
		{2, 0},
		{3, 32000},
		{24, 32000},
	} {
		if got := impact.ImpactAtMonth(tc.month); got != tc.want {
			t.Fatalf("ImpactAtMonth(%d) = %.0f, want %.0f", tc.month, got, tc.want)
		}
	}
}

func TestEventsSortedAcrossMonths(t *testing.T) {
	p := NewDefault()
	p.SetCount("support", 1)
	p.SetSalary("support", 5000)
	p.SetStartMonth("support", 1)
	p.SetCount("eng", 1)
	p.SetSalary("eng", 12000)
	p.SetStartMonth("eng", 6)

	impact := p.Impact()
	if len(impact.HireEvents) != 2 {
		t.Fatalf("HireEvents len = %d, want 2", len(impact.HireEvents))
	}
	if ev := impact.HireEvents[0]; ev.RoleID != "support" || ev.Month != 1 || ev.CumulativeImpact != 5000 {
		t.Fatalf("first event = %+v, want support@1 cumulative 5000", ev)
	}
	if ev := impact.HireEvents[1]; ev.RoleID != "eng" || ev.Month != 6 || ev.CumulativeImpact != 17000 {
		t.Fatalf("second event = %+v, want eng@6 cumulative 17000", ev)
	}
	if got := impact.ImpactAtMonth(5); got != 5000 {
		t.Fatalf("ImpactAtMonth(5) = %.0f, want 5000", got)
	}
	if got := impact.ImpactAtMonth(6); got != 17000 {
		t.Fatalf("ImpactAtMonth(6) = %.0f, want 17000", got)
	}
}

func TestSettersClamp(t *testing.T) {
	p := NewDefault()

	p.SetCount("eng", -5)
	if r, _ := p.Role("eng"); r.Count != 0 {
		t.Fatalf("count after SetCount(-5) = %d, want 0", r.Count)
	}

	p.SetStartMonth("sales", 99)
	if r, _ := p.Role("sales"); r.StartMonth != 24 {
		t.Fatalf("start month after SetStartMonth(99) = %d, want 24", r.StartMonth)
	}

	p.SetStartMonth("sales", -3)
	if r, _ := p.Role("sales"); r.StartMonth != 1 {
		t.Fatalf("start month after SetStartMonth(-3) = %d, want 1", r.StartMonth)
	}

	p.SetSalary("support", -100)
	if r, _ := p.Role("support"); r.Salary != 0 {
		t.Fatalf("salary after SetSalary(-100) = %.0f, want 0", r.Salary)
	}
}

func TestSettersClampProperty(t *testing.T) {
	for _, c := range []int{-100, -1, 0, 1, 7, 1000} {
		p := NewDefault()
		p.SetCount("marketing", c)
		r, _ := p.Role("marketing")
		if want := max(0, c); r.Count != want {
			t.Fatalf("SetCount(%d) stored %d, want %d", c, r.Count, want)
		}
	}
	for _, m := range []int{-10, 0, 1, 12, 24, 25, 99} {
		p := NewDefault()
		p.SetStartMonth("marketing", m)
		r, _ := p.Role("marketing")
		if want := min(24, max(1, m)); r.StartMonth != want {
			t.Fatalf("SetStartMonth(%d) stored %d, want %d", m, r.StartMonth, want)
		}
	}
	for _, s := range []float64{-5000, -0.5, 0, 4200.5} {
		p := NewDefault()
		p.SetSalary("marketing", s)
		r, _ := p.Role("marketing")
		if want := max(0, s); r.Salary != want {
			t.Fatalf("SetSalary(%.1f) stored %.1f, want %.1f", s, r.Salary, want)
		}
	}
}

func TestUpdateRoleUnknownIDIsNoop(t *testing.T) {
	p := NewDefault()
	p.SetCount("eng", 3)
	before := p.Roles()
	hiresBefore := p.TotalNewHires()

	count := 10
	after := p.UpdateRole("nonexistent", model.RolePatch{Count: &count})

	if !reflect.DeepEqual(before, after) {
		t.Fatalf("roster changed on unknown id:\nbefore %+v\nafter  %+v", before, after)
	}
	if !reflect.DeepEqual(before, p.Roles()) {
		t.Fatal("stored roster changed on unknown id")
	}
	if got := p.TotalNewHires(); got != hiresBefore {
		t.Fatalf("TotalNewHires = %d, want %d", got, hiresBefore)
	}
}

func TestUpdateRoleAppliesOnlyGivenFields(t *testing.T) {
	p := NewDefault()
	title := "Staff Engineer"
	month := 40
	roles := p.UpdateRole("eng", model.RolePatch{Title: &title, StartMonth: &month})

	r := roles[0]
	if r.Title != "Staff Engineer" {
		t.Fatalf("title = %q, want Staff Engineer", r.Title)
	}
	if r.StartMonth != 24 {
		t.Fatalf("start month = %d, want clamped 24", r.StartMonth)
	}
	if r.Salary != 12000 || r.Count != 0 {
		t.Fatalf("untouched fields changed: %+v", r)
	}
}

func TestResetRoles(t *testing.T) {
	p := NewDefault()
	p.SetCount("eng", 4)
	p.SetCount("sales", 2)
	p.SetSalary("support", 1)

	p.Reset()
	if got := p.TotalNewHires(); got != 0 {
		t.Fatalf("TotalNewHires after reset = %d, want 0", got)
	}
	if !reflect.DeepEqual(p.Roles(), DefaultRoster()) {
		t.Fatalf("roster after reset = %+v, want default", p.Roles())
	}
}

func TestRolesReturnsCopy(t *testing.T) {
	p := NewDefault()
	roles := p.Roles()
	roles[0].Count = 99

	if r, _ := p.Role("eng"); r.Count != 0 {
		t.Fatalf("mutating Roles() result leaked into planner: count = %d", r.Count)
	}
	if DefaultRoster()[0].Count != 0 {
		t.Fatal("mutating Roles() result leaked into default roster")
	}
}

func TestNewRejectsBadIDs(t *testing.T) {
	_, err := New([]model.Role{{ID: "a"}, {ID: "a"}})
	if !errors.Is(err, ErrDuplicateRole) {
		t.Fatalf("New(duplicate) err = %v, want ErrDuplicateRole", err)
	}

	_, err = New([]model.Role{{ID: ""}})
	if !errors.Is(err, ErrEmptyRoleID) {
		t.Fatalf("New(empty id) err = %v, want ErrEmptyRoleID", err)
	}
}

func TestNewClampsInput(t *testing.T) {
	p, err := New([]model.Role{{ID: "x", Salary: -1, Count: -2, StartMonth: 0}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r, ok := p.Role("x")
	if !ok {
		t.Fatal("role x missing")
	}
	if r.Salary != 0 || r.Count != 0 || r.StartMonth != 1 {
		t.Fatalf("role = %+v, want salary 0 count 0 start 1", r)
	}
}
