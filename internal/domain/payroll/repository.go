package payroll

import (
	"context"
	"time"
)

// RuleConfigRepository loads the active deduction rule configuration.
type RuleConfigRepository interface {
	// GetActive returns the current config, ErrRuleConfigNotFound when none is stored
	GetActive(ctx context.Context) (RuleConfig, error)
}

// LeaveRepository exposes the monthly leave facts recorded by the external
// leave-request workflow.
type LeaveRepository interface {
	GetMonthlyLeave(ctx context.Context, employeeCode string, year int, month time.Month) (MonthlyLeave, error)
}

// ResultRepository defines data access for computed payroll results.
type ResultRepository interface {
	// Upsert writes a result, replacing any previous computation of the same
	// employee month
	Upsert(ctx context.Context, result Result) (Result, error)

	// GetByEmployeeAndPeriod retrieves one result, ErrResultNotFound when absent
	GetByEmployeeAndPeriod(ctx context.Context, employeeCode string, period Period) (Result, error)

	// ListByPeriod returns all results for a month, ascending by employee code
	ListByPeriod(ctx context.Context, period Period) ([]Result, error)
}
