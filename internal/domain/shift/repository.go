package shift

import (
	"context"
	"time"
)

// DefinitionRepository defines read access to the shift-definition catalog.
type DefinitionRepository interface {
	// GetByCode retrieves a single shift definition
	GetByCode(ctx context.Context, code string) (Definition, error)

	// ListAll loads the whole catalog, used to build the per-run snapshot
	ListAll(ctx context.Context) ([]Definition, error)
}

// AssignmentRepository defines data access for shift-assignment intervals.
type AssignmentRepository interface {
	// ListByEmployee returns all intervals for one employee, any order
	ListByEmployee(ctx context.Context, employeeCode string) ([]AssignmentInterval, error)

	// ListInRange returns every interval that could cover a date in [from, to]
	// for the given employees (all employees when the slice is empty)
	ListInRange(ctx context.Context, employeeCodes []string, from, to time.Time) ([]AssignmentInterval, error)

	// GetOpenInterval returns the interval with a null end date, nil when none exists
	GetOpenInterval(ctx context.Context, employeeCode string) (*AssignmentInterval, error)

	// CloseInterval sets the end date of an open interval
	CloseInterval(ctx context.Context, id string, endDate time.Time) error

	// Create inserts a new interval
	Create(ctx context.Context, interval AssignmentInterval) (AssignmentInterval, error)

	// Delete removes an interval; only the history repair operation may use it
	Delete(ctx context.Context, id string) error
}
