package payroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/clockwise-hr/attendance-engine-go/internal/config"
	"github.com/clockwise-hr/attendance-engine-go/internal/domain/attendance"
	"github.com/clockwise-hr/attendance-engine-go/internal/domain/employee"
	"github.com/clockwise-hr/attendance-engine-go/internal/domain/payroll"
	"github.com/clockwise-hr/attendance-engine-go/internal/pkg/weekend"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRuleRepo struct {
	cfg payroll.RuleConfig
	err error
}

func (f *fakeRuleRepo) GetActive(ctx context.Context) (payroll.RuleConfig, error) {
	if f.err != nil {
		return payroll.RuleConfig{}, f.err
	}
	return f.cfg, nil
}

type fakeLeaveRepo struct {
	leave map[string]payroll.MonthlyLeave
	err   error
}

func (f *fakeLeaveRepo) GetMonthlyLeave(ctx context.Context, employeeCode string, year int, month time.Month) (payroll.MonthlyLeave, error) {
	if f.err != nil {
		return payroll.MonthlyLeave{}, f.err
	}
	return f.leave[employeeCode], nil
}

type fakeResultRepo struct {
	saved map[string]payroll.Result
}

func (f *fakeResultRepo) Upsert(ctx context.Context, result payroll.Result) (payroll.Result, error) {
	if f.saved == nil {
		f.saved = make(map[string]payroll.Result)
	}
	result.ID = "result-" + result.EmployeeCode
	f.saved[result.EmployeeCode] = result
	return result, nil
}

func (f *fakeResultRepo) GetByEmployeeAndPeriod(ctx context.Context, employeeCode string, period payroll.Period) (payroll.Result, error) {
	r, ok := f.saved[employeeCode]
	if !ok {
		return payroll.Result{}, payroll.ErrResultNotFound
	}
	return r, nil
}

func (f *fakeResultRepo) ListByPeriod(ctx context.Context, period payroll.Period) ([]payroll.Result, error) {
	out := make([]payroll.Result, 0, len(f.saved))
	for _, r := range f.saved {
		out = append(out, r)
	}
	return out, nil
}

type fakeFactRepo struct {
	facts map[string][]attendance.DailyFact
	err   map[string]error
}

func (f *fakeFactRepo) Upsert(ctx context.Context, fact attendance.DailyFact) (attendance.DailyFact, error) {
	return fact, nil
}

func (f *fakeFactRepo) GetByEmployeeAndDate(ctx context.Context, employeeCode string, businessDate time.Time) (attendance.DailyFact, error) {
	return attendance.DailyFact{}, attendance.ErrFactNotFound
}

func (f *fakeFactRepo) ListByEmployeeRange(ctx context.Context, employeeCode string, from, to time.Time) ([]attendance.DailyFact, error) {
	if err := f.err[employeeCode]; err != nil {
		return nil, err
	}
	return f.facts[employeeCode], nil
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

func engineConfig() config.EngineConfig {
	return config.EngineConfig{
		TimezoneOffsetMinutes: 330,
		AccessEventType:       "access",
		FirstNightShiftCode:   "N1",
		SecondNightShiftCode:  "N2",
		DefaultGraceMinutes:   15,
		BatchWorkers:          4,
	}
}

func lateFact(code string, date time.Time, minutes int) attendance.DailyFact {
	return attendance.DailyFact{
		EmployeeCode: code,
		BusinessDate: date,
		Status:       attendance.StatusLate,
		Late:         true,
		LateMinutes:  minutes,
	}
}

func TestComputeEmployeeMonth_SteppedScheduleAndSalary(t *testing.T) {
	t.Parallel()

	march := func(day int) time.Time {
		return time.Date(2025, time.March, day, 0, 0, 0, 0, time.UTC)
	}
	facts := []attendance.DailyFact{
		lateFact("E042", march(3), 15),
		lateFact("E042", march(5), 20),
		lateFact("E042", march(10), 10),
		lateFact("E042", march(17), 30),
		lateFact("E042", march(24), 45),
	}

	results := &fakeResultRepo{}
	svc := NewPayrollService(
		engineConfig(),
		&fakeRuleRepo{cfg: payroll.DefaultRuleConfig()},
		&fakeLeaveRepo{},
		results,
		&fakeFactRepo{facts: map[string][]attendance.DailyFact{"E042": facts}},
		&fakeEmployeeRepo{employees: map[string]employee.Employee{
			"E042": {Code: "E042", GrossSalary: decimal.NewFromInt(31000), Active: true},
		}},
	)

	got, err := svc.ComputeEmployeeMonth(context.Background(), "E042", payroll.Period{Year: 2025, Month: time.March})
	require.NoError(t, err)

	// Violations 1-2 free, 3rd a full day, 4th and 5th per-minute:
	// 30*0.007 + 45*0.007 = 0.525.
	assert.True(t, got.ViolationFullDays.Equal(decimal.NewFromInt(1)), "full days: %s", got.ViolationFullDays)
	assert.True(t, got.PerMinuteFineDays.Equal(decimal.NewFromFloat(0.525)), "per-minute: %s", got.PerMinuteFineDays)
	assert.True(t, got.TotalDeductionDays.Equal(decimal.NewFromFloat(1.525)), "total: %s", got.TotalDeductionDays)

	// March has 31 days: 31000/31 = 1000 per day, deduction 1525.
	assert.True(t, got.PerDaySalary.Equal(decimal.NewFromInt(1000)), "per-day: %s", got.PerDaySalary)
	assert.True(t, got.DeductionAmount.Equal(decimal.NewFromInt(1525)), "deduction: %s", got.DeductionAmount)
	assert.True(t, got.NetSalary.Equal(decimal.NewFromInt(29475)), "net: %s", got.NetSalary)

	assert.Contains(t, results.saved, "E042", "result must be persisted")
}

func TestComputeEmployeeMonth_ViolationOrderIsChronological(t *testing.T) {
	t.Parallel()

	march := func(day int) time.Time {
		return time.Date(2025, time.March, day, 0, 0, 0, 0, time.UTC)
	}
	// Facts arrive out of order; the 400-minute day must still be numbered 1
	// (free) once sorted, leaving only the 3rd violation's full day.
	facts := []attendance.DailyFact{
		lateFact("E042", march(20), 5),
		lateFact("E042", march(1), 400),
		lateFact("E042", march(10), 5),
	}

	svc := NewPayrollService(
		engineConfig(),
		&fakeRuleRepo{cfg: payroll.DefaultRuleConfig()},
		&fakeLeaveRepo{},
		&fakeResultRepo{},
		&fakeFactRepo{facts: map[string][]attendance.DailyFact{"E042": facts}},
		&fakeEmployeeRepo{employees: map[string]employee.Employee{
			"E042": {Code: "E042", GrossSalary: decimal.NewFromInt(30000), Active: true},
		}},
	)

	got, err := svc.ComputeEmployeeMonth(context.Background(), "E042", payroll.Period{Year: 2025, Month: time.March})
	require.NoError(t, err)
	assert.True(t, got.ViolationFullDays.Equal(decimal.NewFromInt(1)))
	assert.True(t, got.PerMinuteFineDays.IsZero(), "per-minute: %s", got.PerMinuteFineDays)
}

func TestComputeEmployeeMonth_LateAndEarlyLeaveSameDayAreTwoViolations(t *testing.T) {
	t.Parallel()

	date := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	facts := []attendance.DailyFact{{
		EmployeeCode: "E042",
		BusinessDate: date,
		Status:       attendance.StatusLate,
		Late:         true,
		LateMinutes:  10,
		EarlyLeave:   true,
		EarlyMinutes: 100,
	}, lateFact("E042", date.AddDate(0, 0, 1), 50)}

	svc := NewPayrollService(
		engineConfig(),
		&fakeRuleRepo{cfg: payroll.DefaultRuleConfig()},
		&fakeLeaveRepo{},
		&fakeResultRepo{},
		&fakeFactRepo{facts: map[string][]attendance.DailyFact{"E042": facts}},
		&fakeEmployeeRepo{employees: map[string]employee.Employee{
			"E042": {Code: "E042", GrossSalary: decimal.NewFromInt(30000), Active: true},
		}},
	)

	got, err := svc.ComputeEmployeeMonth(context.Background(), "E042", payroll.Period{Year: 2025, Month: time.March})
	require.NoError(t, err)

	// Three violations total: late(10) #1 free, early(100) #2 free,
	// next-day late(50) #3 milestone full day.
	assert.True(t, got.ViolationFullDays.Equal(decimal.NewFromInt(1)), "full days: %s", got.ViolationFullDays)
	assert.True(t, got.PerMinuteFineDays.IsZero())
}

func TestComputeEmployeeMonth_LeaveDatesExcludedFromAbsences(t *testing.T) {
	t.Parallel()

	absentOn := func(day int) attendance.DailyFact {
		return attendance.DailyFact{
			EmployeeCode: "E042",
			BusinessDate: time.Date(2025, time.March, day, 0, 0, 0, 0, time.UTC),
			Status:       attendance.StatusAbsent,
		}
	}
	facts := []attendance.DailyFact{absentOn(3), absentOn(4), {
		EmployeeCode: "E042",
		BusinessDate: time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC),
		Status:       attendance.StatusPartialPunch,
	}}

	leave := payroll.MonthlyLeave{
		Counts: payroll.LeaveCounts{UnpaidLeave: 1},
		Dates:  map[string]struct{}{"2025-03-03": {}},
	}

	svc := NewPayrollService(
		engineConfig(),
		&fakeRuleRepo{cfg: payroll.DefaultRuleConfig()},
		&fakeLeaveRepo{leave: map[string]payroll.MonthlyLeave{"E042": leave}},
		&fakeResultRepo{},
		&fakeFactRepo{facts: map[string][]attendance.DailyFact{"E042": facts}},
		&fakeEmployeeRepo{employees: map[string]employee.Employee{
			"E042": {Code: "E042", GrossSalary: decimal.NewFromInt(30000), Active: true},
		}},
	)

	got, err := svc.ComputeEmployeeMonth(context.Background(), "E042", payroll.Period{Year: 2025, Month: time.March})
	require.NoError(t, err)

	// March 3 is covered by unpaid leave (1 day); March 4 counts as a
	// both-missing absence (1 day) and March 5 as partial punch (0.5).
	assert.True(t, got.LeaveDeductionDays.Equal(decimal.NewFromInt(1)), "leave: %s", got.LeaveDeductionDays)
	assert.True(t, got.AbsentDeductionDays.Equal(decimal.NewFromFloat(1.5)), "absent: %s", got.AbsentDeductionDays)
	assert.True(t, got.TotalDeductionDays.Equal(decimal.NewFromFloat(2.5)), "total: %s", got.TotalDeductionDays)
}

func TestComputeEmployeeMonth_LeaveFailureIsWarningOnly(t *testing.T) {
	t.Parallel()

	svc := NewPayrollService(
		engineConfig(),
		&fakeRuleRepo{cfg: payroll.DefaultRuleConfig()},
		&fakeLeaveRepo{err: errors.New("leave store down")},
		&fakeResultRepo{},
		&fakeFactRepo{facts: map[string][]attendance.DailyFact{"E042": {
			lateFact("E042", time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC), 10),
		}}},
		&fakeEmployeeRepo{employees: map[string]employee.Employee{
			"E042": {Code: "E042", GrossSalary: decimal.NewFromInt(30000), Active: true},
		}},
	)

	got, err := svc.ComputeEmployeeMonth(context.Background(), "E042", payroll.Period{Year: 2025, Month: time.March})
	require.NoError(t, err)
	assert.NotEmpty(t, got.Warnings)
	assert.True(t, got.LeaveDeductionDays.IsZero())
}

func TestComputeEmployeeMonth_MissingRuleConfigUsesDefaults(t *testing.T) {
	t.Parallel()

	svc := NewPayrollService(
		engineConfig(),
		&fakeRuleRepo{err: payroll.ErrRuleConfigNotFound},
		&fakeLeaveRepo{},
		&fakeResultRepo{},
		&fakeFactRepo{},
		&fakeEmployeeRepo{employees: map[string]employee.Employee{
			"E042": {Code: "E042", GrossSalary: decimal.NewFromInt(30000), Active: true},
		}},
	)

	got, err := svc.ComputeEmployeeMonth(context.Background(), "E042", payroll.Period{Year: 2025, Month: time.March})
	require.NoError(t, err)
	assert.True(t, got.TotalDeductionDays.IsZero())
	assert.True(t, got.NetSalary.Equal(decimal.NewFromInt(30000)))
}

func TestComputeMonth_IsolatesFailingEmployees(t *testing.T) {
	t.Parallel()

	svc := NewPayrollService(
		engineConfig(),
		&fakeRuleRepo{cfg: payroll.DefaultRuleConfig()},
		&fakeLeaveRepo{},
		&fakeResultRepo{},
		&fakeFactRepo{
			facts: map[string][]attendance.DailyFact{},
			err:   map[string]error{"E002": errors.New("facts unreadable")},
		},
		&fakeEmployeeRepo{employees: map[string]employee.Employee{
			"E001": {Code: "E001", GrossSalary: decimal.NewFromInt(30000), Active: true},
			"E002": {Code: "E002", GrossSalary: decimal.NewFromInt(30000), Active: true},
			"E003": {Code: "E003", GrossSalary: decimal.NewFromInt(30000), Active: true},
		}},
	)

	got, err := svc.ComputeMonth(context.Background(), payroll.Period{Year: 2025, Month: time.March})
	require.NoError(t, err)

	require.Len(t, got.Results, 2)
	assert.Equal(t, "E001", got.Results[0].EmployeeCode)
	assert.Equal(t, "E003", got.Results[1].EmployeeCode)
	require.Len(t, got.Warnings, 1)
	assert.Contains(t, got.Warnings[0], "E002")
}
