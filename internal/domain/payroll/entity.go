package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// RuleConfig is the deduction rule configuration, loaded once at the start of
// each computation run and treated as an immutable snapshot. All formulas are
// pure functions of this config plus input facts.
type RuleConfig struct {
	ID string

	// Stepped violation schedule
	FreeViolations    int             // violations numbered <= this cost nothing
	MilestoneInterval int             // every Nth violation costs one full day
	PerMinuteRate     decimal.Decimal // days per violation minute
	MaxPerMinuteFine  decimal.Decimal // cap on a single violation's per-minute fine, in days

	// Flat per-occurrence deductions, in days
	BothMissingDays        decimal.Decimal
	PartialPunchDays       decimal.Decimal
	LeaveWithoutInformDays decimal.Decimal
	UnpaidLeaveDays        decimal.Decimal
	SickLeaveDays          decimal.Decimal
	HalfDayDays            decimal.Decimal
	PaidLeaveDays          decimal.Decimal

	// DaysPerMonth is a fallback only; the salary calculator always prefers
	// the actual calendar month length.
	DaysPerMonth int

	UpdatedAt time.Time
}

// DefaultRuleConfig returns the operational defaults used when no stored
// config exists.
func DefaultRuleConfig() RuleConfig {
	return RuleConfig{
		FreeViolations:         2,
		MilestoneInterval:      3,
		PerMinuteRate:          decimal.NewFromFloat(0.007),
		MaxPerMinuteFine:       decimal.NewFromInt(1),
		BothMissingDays:        decimal.NewFromInt(1),
		PartialPunchDays:       decimal.NewFromFloat(0.5),
		LeaveWithoutInformDays: decimal.NewFromInt(2),
		UnpaidLeaveDays:        decimal.NewFromInt(1),
		SickLeaveDays:          decimal.NewFromFloat(0.5),
		HalfDayDays:            decimal.NewFromFloat(0.5),
		PaidLeaveDays:          decimal.Zero,
		DaysPerMonth:           30,
	}
}

// LeaveCounts are the per-category leave occurrences inside one payroll month.
type LeaveCounts struct {
	UnpaidLeave        int
	SickLeave          int
	PaidLeave          int
	LeaveWithoutInform int
	HalfDay            int
}

// MonthlyLeave is one employee's leave facts for a payroll month. Dates holds
// every covered date (YYYY-MM-DD) so absence counting can skip days already
// accounted for as leave.
type MonthlyLeave struct {
	Counts LeaveCounts
	Dates  map[string]struct{}
}

// AbsenceCounts are the punch-absence occurrences inside one payroll month.
type AbsenceCounts struct {
	BothMissing  int // no punches on a working day
	PartialPunch int // check-in without check-out
}

// ViolationDeductions is the stepped schedule's output.
type ViolationDeductions struct {
	ViolationFullDays  decimal.Decimal
	PerMinuteFineDays  decimal.Decimal
	TotalViolationDays decimal.Decimal
}

// DeductionBreakdown collects every category total feeding the single
// source-of-truth sum in CalculateTotalDeductionDays.
type DeductionBreakdown struct {
	ViolationFullDays   decimal.Decimal
	PerMinuteFineDays   decimal.Decimal
	LeaveDeductionDays  decimal.Decimal
	AbsentDeductionDays decimal.Decimal
	HalfDayDays         decimal.Decimal
}

// SalaryAmounts is the salary calculator's output, all rounded to 2 decimals.
type SalaryAmounts struct {
	PerDaySalary    decimal.Decimal
	DeductionAmount decimal.Decimal
	NetSalary       decimal.Decimal
}

// Result is the per-employee, per-month payroll outcome. Derived and
// recomputable at any time; never hand-edited.
type Result struct {
	ID           string
	EmployeeCode string
	Year         int
	Month        time.Month

	ViolationFullDays   decimal.Decimal
	PerMinuteFineDays   decimal.Decimal
	LeaveDeductionDays  decimal.Decimal
	AbsentDeductionDays decimal.Decimal
	TotalDeductionDays  decimal.Decimal

	PerDaySalary    decimal.Decimal
	DeductionAmount decimal.Decimal
	NetSalary       decimal.Decimal

	Warnings   []string
	ComputedAt time.Time
}
