package attendance

import (
	"time"
)

// Status classifies one employee business day after evaluation.
type Status string

const (
	StatusPresent      Status = "present"
	StatusLate         Status = "late"
	StatusEarlyLeave   Status = "early_leave"
	StatusAbsent       Status = "absent"        // working day, both punches missing
	StatusPartialPunch Status = "partial_punch" // check-in only, no check-out
	StatusHoliday      Status = "holiday"       // off day with zero punches
)

// DailyFact is the per-day attendance record the engine derives and exposes
// to reporting collaborators. Recomputable at any time from stored punches.
type DailyFact struct {
	ID           string
	EmployeeCode string
	BusinessDate time.Time
	ShiftCode    string
	CheckIn      *time.Time
	CheckOut     *time.Time
	PunchCount   int
	Status       Status
	Late         bool
	EarlyLeave   bool
	LateMinutes  int // excess beyond the grace period
	EarlyMinutes int // excess beyond the grace period
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ViolationKind distinguishes the two punch violations.
type ViolationKind string

const (
	ViolationLate       ViolationKind = "late"
	ViolationEarlyLeave ViolationKind = "early_leave"
)

// Violation is one late or early-leave occurrence. Number is the 1-based
// sequence within the evaluation period, assigned in sorted business-date
// order per employee; the deduction schedule depends on that ordering.
type Violation struct {
	EmployeeCode string
	BusinessDate time.Time
	Kind         ViolationKind
	Number       int
	Minutes      int
}

// LateEarlyResult is the violation detector's output for one day.
type LateEarlyResult struct {
	Late         bool
	EarlyLeave   bool
	LateMinutes  int
	EarlyMinutes int
}
