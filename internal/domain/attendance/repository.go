package attendance

import (
	"context"
	"time"
)

// FactRepository defines data access for derived daily attendance facts.
type FactRepository interface {
	// Upsert writes a fact, replacing any previous evaluation of the same
	// employee business day
	Upsert(ctx context.Context, fact DailyFact) (DailyFact, error)

	// GetByEmployeeAndDate retrieves one fact, ErrFactNotFound when absent
	GetByEmployeeAndDate(ctx context.Context, employeeCode string, businessDate time.Time) (DailyFact, error)

	// ListByEmployeeRange returns facts for [from, to] ascending by date
	ListByEmployeeRange(ctx context.Context, employeeCode string, from, to time.Time) ([]DailyFact, error)
}
