package shift

import (
	"context"
	"testing"
	"time"

	"github.com/clockwise-hr/attendance-engine-go/internal/domain/employee"
	"github.com/clockwise-hr/attendance-engine-go/internal/domain/shift"
	"github.com/clockwise-hr/attendance-engine-go/internal/pkg/weekend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestPickCovering_LatestEffectiveDateWins(t *testing.T) {
	t.Parallel()

	intervals := []shift.AssignmentInterval{
		{EmployeeCode: "E1", ShiftCode: "D", EffectiveDate: date(2025, 1, 1), EndDate: datePtr(2025, 2, 28)},
		{EmployeeCode: "E1", ShiftCode: "N1", EffectiveDate: date(2025, 3, 1), EndDate: nil},
	}

	code, ok := pickCovering(intervals, date(2025, 2, 10))
	assert.True(t, ok)
	assert.Equal(t, "D", code)

	code, ok = pickCovering(intervals, date(2025, 3, 15))
	assert.True(t, ok)
	assert.Equal(t, "N1", code)

	// Boundary days belong to their intervals.
	code, _ = pickCovering(intervals, date(2025, 2, 28))
	assert.Equal(t, "D", code)
	code, _ = pickCovering(intervals, date(2025, 3, 1))
	assert.Equal(t, "N1", code)
}

func TestPickCovering_CorruptedOverlapIsDeterministic(t *testing.T) {
	t.Parallel()

	// Two intervals mistakenly cover the same date.
	intervals := []shift.AssignmentInterval{
		{EmployeeCode: "E1", ShiftCode: "D", EffectiveDate: date(2025, 1, 1), EndDate: nil},
		{EmployeeCode: "E1", ShiftCode: "N2", EffectiveDate: date(2025, 2, 1), EndDate: nil},
	}

	code, ok := pickCovering(intervals, date(2025, 2, 10))
	assert.True(t, ok)
	assert.Equal(t, "N2", code, "latest effective date must win")
}

func TestPickCovering_NoMatchBeforeFirstAssignment(t *testing.T) {
	t.Parallel()

	intervals := []shift.AssignmentInterval{
		{EmployeeCode: "E1", ShiftCode: "N1", EffectiveDate: date(2025, 3, 1), EndDate: nil},
	}

	_, ok := pickCovering(intervals, date(2025, 2, 10))
	assert.False(t, ok)
}

func TestHistoryCorrupted(t *testing.T) {
	t.Parallel()

	allSame := []shift.AssignmentInterval{
		{ShiftCode: "N2", EffectiveDate: date(2025, 1, 1), EndDate: datePtr(2025, 2, 28)},
		{ShiftCode: "N2", EffectiveDate: date(2025, 3, 1), EndDate: nil},
	}
	mixed := []shift.AssignmentInterval{
		{ShiftCode: "D", EffectiveDate: date(2025, 1, 1), EndDate: datePtr(2025, 2, 28)},
		{ShiftCode: "N2", EffectiveDate: date(2025, 3, 1), EndDate: nil},
	}

	assert.True(t, historyCorrupted(allSame, "N2"))
	assert.False(t, historyCorrupted(mixed, "N2"))
	assert.False(t, historyCorrupted(nil, "N2"))
	assert.False(t, historyCorrupted(allSame, ""))
}

func TestCovers(t *testing.T) {
	t.Parallel()

	open := shift.AssignmentInterval{EffectiveDate: date(2025, 3, 1)}
	assert.False(t, open.Covers(date(2025, 2, 28)))
	assert.True(t, open.Covers(date(2025, 3, 1)))
	assert.True(t, open.Covers(date(2030, 1, 1)))

	closed := shift.AssignmentInterval{EffectiveDate: date(2025, 3, 1), EndDate: datePtr(2025, 3, 31)}
	assert.True(t, closed.Covers(date(2025, 3, 31)))
	assert.False(t, closed.Covers(date(2025, 4, 1)))
}

type fakeAssignmentRepo struct {
	intervals []shift.AssignmentInterval
}

func (f *fakeAssignmentRepo) ListByEmployee(ctx context.Context, employeeCode string) ([]shift.AssignmentInterval, error) {
	var out []shift.AssignmentInterval
	for _, iv := range f.intervals {
		if iv.EmployeeCode == employeeCode {
			out = append(out, iv)
		}
	}
	return out, nil
}

func (f *fakeAssignmentRepo) ListInRange(ctx context.Context, employeeCodes []string, from, to time.Time) ([]shift.AssignmentInterval, error) {
	want := make(map[string]struct{}, len(employeeCodes))
	for _, c := range employeeCodes {
		want[c] = struct{}{}
	}
	var out []shift.AssignmentInterval
	for _, iv := range f.intervals {
		if _, ok := want[iv.EmployeeCode]; !ok && len(employeeCodes) > 0 {
			continue
		}
		if iv.EffectiveDate.After(to) {
			continue
		}
		if iv.EndDate != nil && iv.EndDate.Before(from) {
			continue
		}
		out = append(out, iv)
	}
	return out, nil
}

func (f *fakeAssignmentRepo) GetOpenInterval(ctx context.Context, employeeCode string) (*shift.AssignmentInterval, error) {
	for i := range f.intervals {
		if f.intervals[i].EmployeeCode == employeeCode && f.intervals[i].EndDate == nil {
			return &f.intervals[i], nil
		}
	}
	return nil, nil
}

func (f *fakeAssignmentRepo) CloseInterval(ctx context.Context, id string, endDate time.Time) error {
	for i := range f.intervals {
		if f.intervals[i].ID == id {
			f.intervals[i].EndDate = &endDate
			return nil
		}
	}
	return shift.ErrNoOpenInterval
}

func (f *fakeAssignmentRepo) Create(ctx context.Context, interval shift.AssignmentInterval) (shift.AssignmentInterval, error) {
	f.intervals = append(f.intervals, interval)
	return interval, nil
}

func (f *fakeAssignmentRepo) Delete(ctx context.Context, id string) error {
	for i := range f.intervals {
		if f.intervals[i].ID == id {
			f.intervals = append(f.intervals[:i], f.intervals[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (f *fakeEmployeeRepo) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	emp, ok := f.employees[code]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeEmployeeRepo) ListActive(ctx context.Context) ([]employee.Employee, error) {
	out := make([]employee.Employee, 0, len(f.employees))
	for _, e := range f.employees {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEmployeeRepo) GetSaturdayPolicy(ctx context.Context, department string) (weekend.DepartmentPolicy, error) {
	return weekend.PolicyAlternate, nil
}

func TestResolveRange(t *testing.T) {
	t.Parallel()

	assignments := &fakeAssignmentRepo{intervals: []shift.AssignmentInterval{
		{ID: "i1", EmployeeCode: "E1", ShiftCode: "D", EffectiveDate: date(2025, 1, 1), EndDate: datePtr(2025, 2, 28)},
		{ID: "i2", EmployeeCode: "E1", ShiftCode: "N1", EffectiveDate: date(2025, 3, 1), EndDate: nil},
		// E3's history is corrupted with two open intervals over the range.
		{ID: "i3", EmployeeCode: "E3", ShiftCode: "D", EffectiveDate: date(2025, 1, 1), EndDate: nil},
		{ID: "i4", EmployeeCode: "E3", ShiftCode: "N2", EffectiveDate: date(2025, 2, 1), EndDate: nil},
	}}
	employees := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"E1": {Code: "E1", CurrentShiftCode: "D"},
		"E2": {Code: "E2", CurrentShiftCode: "N2"},
		"E3": {Code: "E3", CurrentShiftCode: "N2"},
	}}
	svc := NewHistoryService(nil, assignments, employees)

	resolved, err := svc.ResolveRange(context.Background(), []string{"E1", "E2", "E3", "E4"},
		date(2025, 2, 27), date(2025, 3, 2))
	require.NoError(t, err)

	// E1 spans the closed-to-open interval boundary.
	assert.Equal(t, "D", resolved["E1"]["2025-02-27"])
	assert.Equal(t, "D", resolved["E1"]["2025-02-28"])
	assert.Equal(t, "N1", resolved["E1"]["2025-03-01"])
	assert.Equal(t, "N1", resolved["E1"]["2025-03-02"])

	// E2 has no intervals at all: current shift everywhere.
	assert.Equal(t, "N2", resolved["E2"]["2025-02-27"])
	assert.Equal(t, "N2", resolved["E2"]["2025-03-02"])

	// E3's overlapping open intervals resolve to the latest effective date.
	assert.Equal(t, "N2", resolved["E3"]["2025-02-27"])

	// E4 is unknown: every date resolves to the empty code, not an error.
	assert.Equal(t, "", resolved["E4"]["2025-03-01"])
}

func TestResolveRange_MatchesPerDayResolution(t *testing.T) {
	t.Parallel()

	assignments := &fakeAssignmentRepo{intervals: []shift.AssignmentInterval{
		{ID: "i1", EmployeeCode: "E1", ShiftCode: "D", EffectiveDate: date(2025, 1, 1), EndDate: datePtr(2025, 2, 28)},
		{ID: "i2", EmployeeCode: "E1", ShiftCode: "N1", EffectiveDate: date(2025, 3, 1), EndDate: nil},
	}}
	employees := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"E1": {Code: "E1", CurrentShiftCode: "D"},
	}}
	svc := NewHistoryService(nil, assignments, employees)

	from, to := date(2025, 2, 26), date(2025, 3, 3)
	resolved, err := svc.ResolveRange(context.Background(), []string{"E1"}, from, to)
	require.NoError(t, err)

	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		single, err := svc.ResolveShift(context.Background(), "E1", d)
		require.NoError(t, err)
		assert.Equal(t, single, resolved["E1"][d.Format("2006-01-02")], "date %s", d.Format("2006-01-02"))
	}
}
