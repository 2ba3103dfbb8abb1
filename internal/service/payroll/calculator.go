package payroll

import (
	"github.com/clockwise-hr/attendance-engine-go/internal/domain/attendance"
	"github.com/clockwise-hr/attendance-engine-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// Rounding scale for deduction-day totals and currency amounts. decimal.Round
// rounds half away from zero, which is half-up for the non-negative
// quantities handled here; the same mode is used everywhere so totals never
// drift between recomputations.
const (
	dayScale      = 3
	currencyScale = 2
)

// DeductionCalculator converts violations and absence/leave facts into
// deduction days, and deduction days into salary amounts. It is stateless;
// every method is a pure function of the rule config and its inputs.
type DeductionCalculator struct{}

func NewDeductionCalculator() *DeductionCalculator {
	return &DeductionCalculator{}
}

// CalculateViolationDeductions applies the stepped fine schedule in the
// caller-assigned sequential order: violations numbered within the free
// allowance cost nothing, every milestone violation costs one full day, and
// the rest cost per-minute capped at the configured maximum.
func (c *DeductionCalculator) CalculateViolationDeductions(cfg payroll.RuleConfig, violations []attendance.Violation) payroll.ViolationDeductions {
	fullDays := decimal.Zero
	perMinute := decimal.Zero

	for _, v := range violations {
		if v.Number <= cfg.FreeViolations {
			continue
		}
		if cfg.MilestoneInterval > 0 && v.Number%cfg.MilestoneInterval == 0 {
			fullDays = fullDays.Add(decimal.NewFromInt(1))
			continue
		}
		fine := cfg.PerMinuteRate.Mul(decimal.NewFromInt(int64(v.Minutes)))
		if fine.GreaterThan(cfg.MaxPerMinuteFine) {
			fine = cfg.MaxPerMinuteFine
		}
		perMinute = perMinute.Add(fine)
	}

	return payroll.ViolationDeductions{
		ViolationFullDays:  fullDays,
		PerMinuteFineDays:  perMinute.Round(dayScale),
		TotalViolationDays: fullDays.Add(perMinute).Round(dayScale),
	}
}

// CalculateLeaveDeductions converts per-category leave occurrences into
// deduction days. Paid leave is configured at zero but still flows through
// the lookup so the config stays the single authority.
func (c *DeductionCalculator) CalculateLeaveDeductions(cfg payroll.RuleConfig, counts payroll.LeaveCounts) decimal.Decimal {
	total := decimal.Zero
	total = total.Add(cfg.UnpaidLeaveDays.Mul(decimal.NewFromInt(int64(counts.UnpaidLeave))))
	total = total.Add(cfg.SickLeaveDays.Mul(decimal.NewFromInt(int64(counts.SickLeave))))
	total = total.Add(cfg.PaidLeaveDays.Mul(decimal.NewFromInt(int64(counts.PaidLeave))))
	total = total.Add(cfg.LeaveWithoutInformDays.Mul(decimal.NewFromInt(int64(counts.LeaveWithoutInform))))
	return total.Round(dayScale)
}

// CalculateAbsenceDeductions converts punch-absence occurrences into
// deduction days.
func (c *DeductionCalculator) CalculateAbsenceDeductions(cfg payroll.RuleConfig, counts payroll.AbsenceCounts) decimal.Decimal {
	total := decimal.Zero
	total = total.Add(cfg.BothMissingDays.Mul(decimal.NewFromInt(int64(counts.BothMissing))))
	total = total.Add(cfg.PartialPunchDays.Mul(decimal.NewFromInt(int64(counts.PartialPunch))))
	return total.Round(dayScale)
}

// CalculateHalfDayDeductions converts half-day occurrences into deduction days.
func (c *DeductionCalculator) CalculateHalfDayDeductions(cfg payroll.RuleConfig, halfDays int) decimal.Decimal {
	return cfg.HalfDayDays.Mul(decimal.NewFromInt(int64(halfDays))).Round(dayScale)
}

// CalculateTotalDeductionDays sums every category total. This sum is the
// single source of truth for "days to deduct"; no other formula may produce it.
func (c *DeductionCalculator) CalculateTotalDeductionDays(b payroll.DeductionBreakdown) decimal.Decimal {
	return b.ViolationFullDays.
		Add(b.PerMinuteFineDays).
		Add(b.LeaveDeductionDays).
		Add(b.AbsentDeductionDays).
		Add(b.HalfDayDays).
		Round(dayScale)
}

// CalculateSalaryAmounts converts gross salary and deduction days into the
// per-day salary, deduction amount, and net salary, all at 2 decimals.
// daysInMonth must be the actual calendar month length; callers fall back to
// the configured default only when the actual length is unavailable. A
// non-positive gross yields all zeros: no division by zero, no negative
// inference.
func (c *DeductionCalculator) CalculateSalaryAmounts(gross decimal.Decimal, deductionDays decimal.Decimal, daysInMonth int) payroll.SalaryAmounts {
	if gross.LessThanOrEqual(decimal.Zero) || daysInMonth <= 0 {
		return payroll.SalaryAmounts{
			PerDaySalary:    decimal.Zero,
			DeductionAmount: decimal.Zero,
			NetSalary:       decimal.Zero,
		}
	}

	perDay := gross.Div(decimal.NewFromInt(int64(daysInMonth)))
	deduction := perDay.Mul(deductionDays).Round(currencyScale)

	return payroll.SalaryAmounts{
		PerDaySalary:    perDay.Round(currencyScale),
		DeductionAmount: deduction,
		NetSalary:       gross.Sub(deduction).Round(currencyScale),
	}
}
