package punch

import (
	"time"
)

// Event is a raw device punch, appended by the external ingestion
// collaborator. Events are immutable; ordering is defined by Timestamp.
type Event struct {
	ID           string
	EmployeeCode string
	Timestamp    time.Time // UTC instant
	EventType    string    // device event subtype, only access events count as punches
	DeviceCode   *string
	CreatedAt    time.Time
}

// DailySummary is the reduction of one employee's punches inside a single
// business-day window. LastPunch is nil on single-punch days: one punch means
// check-in only, never a zero-length shift. Recomputed on demand, never
// partially mutated.
type DailySummary struct {
	EmployeeCode string
	BusinessDate time.Time
	FirstPunch   time.Time
	LastPunch    *time.Time
	PunchCount   int
}
