package shift

import "time"

// Definition is immutable reference data describing one shift's timing.
// CrossesMidnight means EndTime is numerically earlier than StartTime
// (e.g. 21:00-06:00); the end belongs to the next calendar day.
type Definition struct {
	Code               string
	Name               string
	StartTime          string // local HH:MM
	EndTime            string // local HH:MM
	GracePeriodMinutes int    // 0 means unset; the engine default applies
	CrossesMidnight    bool
}

// Catalog is the shift-definition set loaded once per computation run and
// treated as an immutable snapshot for the run's duration.
type Catalog map[string]Definition

// AssignmentInterval records that ShiftCode was in effect for an employee
// over [EffectiveDate, EndDate]. A nil EndDate marks the currently open
// interval. For a given employee intervals must not overlap and at most one
// may be open.
type AssignmentInterval struct {
	ID            string
	EmployeeCode  string
	ShiftCode     string
	EffectiveDate time.Time
	EndDate       *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Covers reports whether the interval is in effect on the given date.
func (i AssignmentInterval) Covers(date time.Time) bool {
	if i.EffectiveDate.After(date) {
		return false
	}
	return i.EndDate == nil || !i.EndDate.Before(date)
}
