package attendance

import (
	"context"
	"time"
)

// Service defines the daily attendance evaluation pipeline: punch
// aggregation, shift resolution, violation detection, status normalization.
type Service interface {
	// EvaluateDay computes and persists the attendance fact for one employee
	// business day. Missing reference data resolves to a safe fact, not an error.
	EvaluateDay(ctx context.Context, req DayRequest) (DailyFact, error)

	// EvaluateRange evaluates every date in [from, to] for the given employees
	// (all active employees when the slice is empty), isolating per-employee
	// failures.
	EvaluateRange(ctx context.Context, employeeCodes []string, from, to time.Time) (EvaluateRangeResult, error)
}
