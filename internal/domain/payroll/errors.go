package payroll

import "errors"

// Payroll domain errors
var (
	ErrRuleConfigNotFound = errors.New("deduction rule config not found")
	ErrResultNotFound     = errors.New("payroll result not found")
)
