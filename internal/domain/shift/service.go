package shift

import (
	"context"
	"time"
)

// HistoryService resolves which shift applied to an employee on a date and
// manages assignment intervals.
type HistoryService interface {
	// ResolveShift returns the shift code effective for the employee on the
	// date. Resolution order: covering assignment interval (latest effective
	// date wins on corrupted overlaps), then the employee's current shift,
	// then the empty code. An empty code means "no violation computable" and
	// is never an error.
	ResolveShift(ctx context.Context, employeeCode string, date time.Time) (string, error)

	// ResolveRange resolves every date in [from, to] for many employees in one
	// pass. Keys of the outer map are employee codes, keys of the inner map
	// are YYYY-MM-DD dates.
	ResolveRange(ctx context.Context, employeeCodes []string, from, to time.Time) (map[string]map[string]string, error)

	// AssignShift closes any open interval and opens a new one as a single
	// logical transaction, preserving the no-overlap invariant.
	AssignShift(ctx context.Context, req AssignShiftRequest) error

	// RepairHistory runs the documented repair transaction after verifying its
	// precondition. Returns ErrHistoryNotCorrupted when the stored intervals
	// do not all share the new shift's code.
	RepairHistory(ctx context.Context, req RepairHistoryRequest) error
}
