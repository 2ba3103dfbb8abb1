package attendance

import "errors"

// Attendance domain errors
var (
	ErrFactNotFound = errors.New("attendance fact not found")
)
