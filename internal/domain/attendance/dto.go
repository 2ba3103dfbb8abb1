package attendance

import "time"

// EvaluateRangeResult carries one batch pass's outcome. Failures are isolated
// per employee: a bad employee lands in Warnings, never aborts the pass.
type EvaluateRangeResult struct {
	Facts    []DailyFact
	Warnings []string
}

// DayRequest identifies one employee business day to evaluate.
type DayRequest struct {
	EmployeeCode string
	BusinessDate time.Time
}
