package punch

import (
	"time"
)

// Aggregator reduces a window of punch events to a daily summary.
type Aggregator interface {
	// Summarize reduces events inside one business-day window. The boolean is
	// false when no valid check-in exists for the business date.
	Summarize(employeeCode string, businessDate time.Time, events []Event, crossesMidnight bool) (DailySummary, bool)
}
