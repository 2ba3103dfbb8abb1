package employee

import (
	"context"

	"github.com/clockwise-hr/attendance-engine-go/internal/pkg/weekend"
)

// EmployeeRepository defines read access to the employee directory. The
// directory itself (search, pagination, profile edits) is owned by an
// external collaborator.
type EmployeeRepository interface {
	// GetByCode retrieves a single employee
	GetByCode(ctx context.Context, code string) (Employee, error)

	// ListActive returns all active employees, the population of a batch pass
	ListActive(ctx context.Context) ([]Employee, error)

	// GetSaturdayPolicy returns the department-level Saturday policy,
	// PolicyAlternate when the department has none recorded
	GetSaturdayPolicy(ctx context.Context, department string) (weekend.DepartmentPolicy, error)
}
