package shift

import "time"

// AssignShiftRequest opens a new assignment interval for an employee. Any
// previously open interval is closed to EffectiveDate-1 in the same
// transaction.
type AssignShiftRequest struct {
	EmployeeCode  string
	ShiftCode     string
	EffectiveDate time.Time
}

// RepairHistoryRequest describes the one documented repair for a corrupted
// history: every stored interval mistakenly carries the new shift's code. The
// corrupted interval is deleted and replaced by one for the employee's true
// prior shift, ending the day before NewEffectiveDate.
type RepairHistoryRequest struct {
	EmployeeCode     string
	PriorShiftCode   string
	NewEffectiveDate time.Time
}
