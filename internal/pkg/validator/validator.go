package validator

import (
	"regexp"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

var employeeCodeRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)

// IsValidEmployeeCode checks a device-badge employee code.
func IsValidEmployeeCode(code string) bool {
	return employeeCodeRegex.MatchString(code)
}

var shiftCodeRegex = regexp.MustCompile(`^[A-Za-z0-9]{1,16}$`)

// IsValidShiftCode checks a shift catalog code.
func IsValidShiftCode(code string) bool {
	return shiftCodeRegex.MatchString(code)
}

var clockRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// IsValidClock checks an HH:MM local wall-clock string.
func IsValidClock(s string) bool {
	return clockRegex.MatchString(s)
}
