package payroll

import "time"

// ComputeMonthResult carries a monthly batch pass's outcome with per-employee
// failure isolation.
type ComputeMonthResult struct {
	Results  []Result
	Warnings []string
}

// Period identifies one payroll month.
type Period struct {
	Year  int
	Month time.Month
}
