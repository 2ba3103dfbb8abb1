package payroll

import "context"

// Service defines the violation -> deduction -> net-salary pipeline.
type Service interface {
	// ComputeEmployeeMonth computes and persists one employee's payroll result
	// for the period.
	ComputeEmployeeMonth(ctx context.Context, employeeCode string, period Period) (Result, error)

	// ComputeMonth runs the batch pass over every active employee. Employees
	// are independent and computed concurrently; one employee's bad data is
	// reported in Warnings and never aborts the pass.
	ComputeMonth(ctx context.Context, period Period) (ComputeMonthResult, error)
}
