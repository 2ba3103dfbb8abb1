package shift

import "errors"

// Shift domain errors
var (
	ErrShiftNotFound       = errors.New("shift definition not found")
	ErrIntervalOverlap     = errors.New("shift assignment interval overlaps an existing interval")
	ErrNoOpenInterval      = errors.New("employee has no open shift assignment interval")
	ErrHistoryNotCorrupted = errors.New("shift history does not match the corruption precondition")
)
