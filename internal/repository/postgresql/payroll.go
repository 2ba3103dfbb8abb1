package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clockwise-hr/attendance-engine-go/internal/domain/payroll"
	"github.com/clockwise-hr/attendance-engine-go/internal/pkg/database"
	"github.com/clockwise-hr/attendance-engine-go/internal/pkg/timeutil"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ruleConfigRepository struct {
	db *database.DB
}

func NewRuleConfigRepository(db *database.DB) payroll.RuleConfigRepository {
	return &ruleConfigRepository{db: db}
}

// GetActive implements payroll.RuleConfigRepository.
func (r *ruleConfigRepository) GetActive(ctx context.Context) (payroll.RuleConfig, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, free_violations, milestone_interval, per_minute_rate, max_per_minute_fine,
			   both_missing_days, partial_punch_days, leave_without_inform_days,
			   unpaid_leave_days, sick_leave_days, half_day_days, paid_leave_days,
			   days_per_month, updated_at
		FROM deduction_rule_configs
		WHERE active = TRUE
		ORDER BY updated_at DESC
		LIMIT 1
	`

	var cfg payroll.RuleConfig
	err := q.QueryRow(ctx, query).Scan(
		&cfg.ID, &cfg.FreeViolations, &cfg.MilestoneInterval, &cfg.PerMinuteRate, &cfg.MaxPerMinuteFine,
		&cfg.BothMissingDays, &cfg.PartialPunchDays, &cfg.LeaveWithoutInformDays,
		&cfg.UnpaidLeaveDays, &cfg.SickLeaveDays, &cfg.HalfDayDays, &cfg.PaidLeaveDays,
		&cfg.DaysPerMonth, &cfg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.RuleConfig{}, payroll.ErrRuleConfigNotFound
		}
		return payroll.RuleConfig{}, fmt.Errorf("failed to get deduction rule config: %w", err)
	}

	return cfg, nil
}

type leaveRepository struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) payroll.LeaveRepository {
	return &leaveRepository{db: db}
}

// GetMonthlyLeave implements payroll.LeaveRepository. Leave records are
// written by the external leave-request workflow; the engine only tallies
// approved days inside the payroll month.
func (r *leaveRepository) GetMonthlyLeave(ctx context.Context, employeeCode string, year int, month time.Month) (payroll.MonthlyLeave, error) {
	q := GetQuerier(ctx, r.db)

	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	query := `
		SELECT leave_date, leave_type
		FROM leave_records
		WHERE employee_code = $1
		  AND status = 'approved'
		  AND leave_date >= $2
		  AND leave_date < $3
		ORDER BY leave_date ASC
	`

	rows, err := q.Query(ctx, query, employeeCode, from, to)
	if err != nil {
		return payroll.MonthlyLeave{}, fmt.Errorf("failed to list leave records: %w", err)
	}
	defer rows.Close()

	leave := payroll.MonthlyLeave{Dates: make(map[string]struct{})}
	for rows.Next() {
		var (
			date      time.Time
			leaveType string
		)
		if err := rows.Scan(&date, &leaveType); err != nil {
			return payroll.MonthlyLeave{}, fmt.Errorf("failed to scan leave record: %w", err)
		}

		leave.Dates[timeutil.FormatDate(date)] = struct{}{}
		switch leaveType {
		case "unpaid":
			leave.Counts.UnpaidLeave++
		case "sick":
			leave.Counts.SickLeave++
		case "paid":
			leave.Counts.PaidLeave++
		case "without_inform":
			leave.Counts.LeaveWithoutInform++
		case "half_day":
			leave.Counts.HalfDay++
		}
	}
	if err := rows.Err(); err != nil {
		return payroll.MonthlyLeave{}, fmt.Errorf("failed to iterate leave records: %w", err)
	}

	return leave, nil
}

type payrollResultRepository struct {
	db *database.DB
}

func NewPayrollResultRepository(db *database.DB) payroll.ResultRepository {
	return &payrollResultRepository{db: db}
}

// Upsert implements payroll.ResultRepository. Results are derived data, so a
// recomputation always replaces the previous row for the employee month.
func (r *payrollResultRepository) Upsert(ctx context.Context, result payroll.Result) (payroll.Result, error) {
	q := GetQuerier(ctx, r.db)

	if result.ID == "" {
		result.ID = uuid.NewString()
	}

	query := `
		INSERT INTO payroll_results (
			id, employee_code, year, month,
			violation_full_days, per_minute_fine_days, leave_deduction_days,
			absent_deduction_days, total_deduction_days,
			per_day_salary, deduction_amount, net_salary,
			warnings, computed_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)
		ON CONFLICT (employee_code, year, month) DO UPDATE SET
			violation_full_days   = EXCLUDED.violation_full_days,
			per_minute_fine_days  = EXCLUDED.per_minute_fine_days,
			leave_deduction_days  = EXCLUDED.leave_deduction_days,
			absent_deduction_days = EXCLUDED.absent_deduction_days,
			total_deduction_days  = EXCLUDED.total_deduction_days,
			per_day_salary        = EXCLUDED.per_day_salary,
			deduction_amount      = EXCLUDED.deduction_amount,
			net_salary            = EXCLUDED.net_salary,
			warnings              = EXCLUDED.warnings,
			computed_at           = EXCLUDED.computed_at
		RETURNING id
	`

	err := q.QueryRow(ctx, query,
		result.ID, result.EmployeeCode, result.Year, int(result.Month),
		result.ViolationFullDays, result.PerMinuteFineDays, result.LeaveDeductionDays,
		result.AbsentDeductionDays, result.TotalDeductionDays,
		result.PerDaySalary, result.DeductionAmount, result.NetSalary,
		result.Warnings, result.ComputedAt,
	).Scan(&result.ID)
	if err != nil {
		return payroll.Result{}, fmt.Errorf("failed to upsert payroll result: %w", err)
	}

	return result, nil
}

// GetByEmployeeAndPeriod implements payroll.ResultRepository.
func (r *payrollResultRepository) GetByEmployeeAndPeriod(ctx context.Context, employeeCode string, period payroll.Period) (payroll.Result, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_code, year, month,
			   violation_full_days, per_minute_fine_days, leave_deduction_days,
			   absent_deduction_days, total_deduction_days,
			   per_day_salary, deduction_amount, net_salary,
			   warnings, computed_at
		FROM payroll_results
		WHERE employee_code = $1
		  AND year = $2
		  AND month = $3
	`

	result, err := scanPayrollResult(q.QueryRow(ctx, query, employeeCode, period.Year, int(period.Month)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Result{}, payroll.ErrResultNotFound
		}
		return payroll.Result{}, fmt.Errorf("failed to get payroll result: %w", err)
	}

	return result, nil
}

// ListByPeriod implements payroll.ResultRepository.
func (r *payrollResultRepository) ListByPeriod(ctx context.Context, period payroll.Period) ([]payroll.Result, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_code, year, month,
			   violation_full_days, per_minute_fine_days, leave_deduction_days,
			   absent_deduction_days, total_deduction_days,
			   per_day_salary, deduction_amount, net_salary,
			   warnings, computed_at
		FROM payroll_results
		WHERE year = $1
		  AND month = $2
		ORDER BY employee_code ASC
	`

	rows, err := q.Query(ctx, query, period.Year, int(period.Month))
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll results: %w", err)
	}
	defer rows.Close()

	var results []payroll.Result
	for rows.Next() {
		result, err := scanPayrollResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll result: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payroll results: %w", err)
	}

	return results, nil
}

func scanPayrollResult(row pgx.Row) (payroll.Result, error) {
	var (
		result payroll.Result
		month  int
	)
	err := row.Scan(
		&result.ID, &result.EmployeeCode, &result.Year, &month,
		&result.ViolationFullDays, &result.PerMinuteFineDays, &result.LeaveDeductionDays,
		&result.AbsentDeductionDays, &result.TotalDeductionDays,
		&result.PerDaySalary, &result.DeductionAmount, &result.NetSalary,
		&result.Warnings, &result.ComputedAt,
	)
	if err != nil {
		return payroll.Result{}, err
	}
	result.Month = time.Month(month)
	return result, nil
}
