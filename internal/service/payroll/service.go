package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/clockwise-hr/attendance-engine-go/internal/config"
	"github.com/clockwise-hr/attendance-engine-go/internal/domain/attendance"
	"github.com/clockwise-hr/attendance-engine-go/internal/domain/employee"
	"github.com/clockwise-hr/attendance-engine-go/internal/domain/payroll"
	"github.com/clockwise-hr/attendance-engine-go/internal/pkg/timeutil"
)

type PayrollServiceImpl struct {
	cfg  config.EngineConfig
	loc  *time.Location
	calc *DeductionCalculator

	ruleRepo     payroll.RuleConfigRepository
	leaveRepo    payroll.LeaveRepository
	resultRepo   payroll.ResultRepository
	factRepo     attendance.FactRepository
	employeeRepo employee.EmployeeRepository
}

func NewPayrollService(
	cfg config.EngineConfig,
	ruleRepo payroll.RuleConfigRepository,
	leaveRepo payroll.LeaveRepository,
	resultRepo payroll.ResultRepository,
	factRepo attendance.FactRepository,
	employeeRepo employee.EmployeeRepository,
) payroll.Service {
	return &PayrollServiceImpl{
		cfg:          cfg,
		loc:          timeutil.FixedZone(cfg.TimezoneOffsetMinutes),
		calc:         NewDeductionCalculator(),
		ruleRepo:     ruleRepo,
		leaveRepo:    leaveRepo,
		resultRepo:   resultRepo,
		factRepo:     factRepo,
		employeeRepo: employeeRepo,
	}
}

// ComputeEmployeeMonth implements payroll.Service.
func (s *PayrollServiceImpl) ComputeEmployeeMonth(ctx context.Context, employeeCode string, period payroll.Period) (payroll.Result, error) {
	rule := s.loadRuleConfig(ctx)

	emp, err := s.employeeRepo.GetByCode(ctx, employeeCode)
	if err != nil {
		return payroll.Result{}, fmt.Errorf("failed to get employee: %w", err)
	}

	result, err := s.computeEmployee(ctx, rule, emp, period)
	if err != nil {
		return payroll.Result{}, err
	}

	saved, err := s.resultRepo.Upsert(ctx, result)
	if err != nil {
		return payroll.Result{}, fmt.Errorf("failed to persist payroll result: %w", err)
	}
	return saved, nil
}

// ComputeMonth implements payroll.Service. The rule config is loaded once and
// shared as an immutable snapshot. Employees are independent, so the pass
// fans out over a bounded worker pool; one employee's failure becomes a
// warning, never an aborted batch.
func (s *PayrollServiceImpl) ComputeMonth(ctx context.Context, period payroll.Period) (payroll.ComputeMonthResult, error) {
	var out payroll.ComputeMonthResult

	rule := s.loadRuleConfig(ctx)

	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return out, fmt.Errorf("failed to list active employees: %w", err)
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	sem := make(chan struct{}, s.cfg.BatchWorkers)

	for _, emp := range employees {
		wg.Add(1)
		sem <- struct{}{}
		go func(emp employee.Employee) {
			defer wg.Done()
			defer func() { <-sem }()

			result, err := s.computeEmployee(ctx, rule, emp, period)
			if err == nil {
				result, err = s.resultRepo.Upsert(ctx, result)
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				slog.Error("payroll computation failed for employee",
					"employee_code", emp.Code, "year", period.Year, "month", int(period.Month), "error", err)
				out.Warnings = append(out.Warnings, fmt.Sprintf("employee %s: %v", emp.Code, err))
				return
			}
			out.Results = append(out.Results, result)
		}(emp)
	}
	wg.Wait()

	sort.Slice(out.Results, func(i, j int) bool {
		return out.Results[i].EmployeeCode < out.Results[j].EmployeeCode
	})

	slog.Info("monthly payroll pass complete",
		"year", period.Year, "month", int(period.Month),
		"employees", len(employees), "failed", len(out.Warnings))
	return out, nil
}

// computeEmployee runs the violation -> deduction -> net-salary pipeline for
// one employee without persisting the result.
func (s *PayrollServiceImpl) computeEmployee(ctx context.Context, rule payroll.RuleConfig, emp employee.Employee, period payroll.Period) (payroll.Result, error) {
	from := time.Date(period.Year, period.Month, 1, 0, 0, 0, 0, s.loc)
	to := from.AddDate(0, 1, -1)

	facts, err := s.factRepo.ListByEmployeeRange(ctx, emp.Code, from, to)
	if err != nil {
		return payroll.Result{}, fmt.Errorf("failed to list attendance facts: %w", err)
	}

	result := payroll.Result{
		EmployeeCode: emp.Code,
		Year:         period.Year,
		Month:        period.Month,
		ComputedAt:   time.Now().UTC(),
	}

	leave, err := s.leaveRepo.GetMonthlyLeave(ctx, emp.Code, period.Year, period.Month)
	if err != nil {
		// Missing leave data is a warning, not a failure: the punch-derived
		// deductions still stand.
		result.Warnings = append(result.Warnings, fmt.Sprintf("leave facts unavailable: %v", err))
		leave = payroll.MonthlyLeave{}
	}

	violations := buildViolations(facts)
	absence := countAbsences(facts, leave.Dates)

	violationDed := s.calc.CalculateViolationDeductions(rule, violations)
	leaveDays := s.calc.CalculateLeaveDeductions(rule, leave.Counts)
	halfDayDays := s.calc.CalculateHalfDayDeductions(rule, leave.Counts.HalfDay)
	absentDays := s.calc.CalculateAbsenceDeductions(rule, absence)

	total := s.calc.CalculateTotalDeductionDays(payroll.DeductionBreakdown{
		ViolationFullDays:   violationDed.ViolationFullDays,
		PerMinuteFineDays:   violationDed.PerMinuteFineDays,
		LeaveDeductionDays:  leaveDays,
		AbsentDeductionDays: absentDays,
		HalfDayDays:         halfDayDays,
	})

	days := timeutil.DaysInMonth(period.Year, period.Month)
	if days <= 0 {
		// Fallback only; the actual month length is normally always known.
		days = rule.DaysPerMonth
	}
	amounts := s.calc.CalculateSalaryAmounts(emp.GrossSalary, total, days)

	result.ViolationFullDays = violationDed.ViolationFullDays
	result.PerMinuteFineDays = violationDed.PerMinuteFineDays
	result.LeaveDeductionDays = leaveDays.Add(halfDayDays)
	result.AbsentDeductionDays = absentDays
	result.TotalDeductionDays = total
	result.PerDaySalary = amounts.PerDaySalary
	result.DeductionAmount = amounts.DeductionAmount
	result.NetSalary = amounts.NetSalary
	return result, nil
}

// buildViolations turns daily facts into the numbered violation sequence the
// stepped schedule depends on. Facts are sorted by business date; a day that
// is both late and an early leave contributes two violations, late first.
func buildViolations(facts []attendance.DailyFact) []attendance.Violation {
	sorted := make([]attendance.DailyFact, len(facts))
	copy(sorted, facts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].BusinessDate.Before(sorted[j].BusinessDate)
	})

	var violations []attendance.Violation
	number := 0
	for _, f := range sorted {
		if f.Late {
			number++
			violations = append(violations, attendance.Violation{
				EmployeeCode: f.EmployeeCode,
				BusinessDate: f.BusinessDate,
				Kind:         attendance.ViolationLate,
				Number:       number,
				Minutes:      f.LateMinutes,
			})
		}
		if f.EarlyLeave {
			number++
			violations = append(violations, attendance.Violation{
				EmployeeCode: f.EmployeeCode,
				BusinessDate: f.BusinessDate,
				Kind:         attendance.ViolationEarlyLeave,
				Number:       number,
				Minutes:      f.EarlyMinutes,
			})
		}
	}
	return violations
}

// countAbsences tallies punch absences, skipping days already covered by a
// recorded leave so a day is never deducted twice.
func countAbsences(facts []attendance.DailyFact, leaveDates map[string]struct{}) payroll.AbsenceCounts {
	var counts payroll.AbsenceCounts
	for _, f := range facts {
		if _, onLeave := leaveDates[timeutil.FormatDate(f.BusinessDate)]; onLeave {
			continue
		}
		switch f.Status {
		case attendance.StatusAbsent:
			counts.BothMissing++
		case attendance.StatusPartialPunch:
			counts.PartialPunch++
		}
	}
	return counts
}

// loadRuleConfig returns the stored config or the operational defaults when
// none exists. Missing config is a warning, never a fatal error.
func (s *PayrollServiceImpl) loadRuleConfig(ctx context.Context) payroll.RuleConfig {
	rule, err := s.ruleRepo.GetActive(ctx)
	if err != nil {
		if !errors.Is(err, payroll.ErrRuleConfigNotFound) {
			slog.Warn("failed to load deduction rule config, using defaults", "error", err)
		} else {
			slog.Warn("no deduction rule config stored, using defaults")
		}
		return payroll.DefaultRuleConfig()
	}
	return rule
}
