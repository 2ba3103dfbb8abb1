package shift

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/clockwise-hr/attendance-engine-go/internal/domain/employee"
	"github.com/clockwise-hr/attendance-engine-go/internal/domain/shift"
	"github.com/clockwise-hr/attendance-engine-go/internal/pkg/database"
	"github.com/clockwise-hr/attendance-engine-go/internal/pkg/timeutil"
	"github.com/clockwise-hr/attendance-engine-go/internal/pkg/validator"
	"github.com/clockwise-hr/attendance-engine-go/internal/repository/postgresql"
	"github.com/google/uuid"
)

type HistoryServiceImpl struct {
	db *database.DB
	shift.AssignmentRepository
	employee.EmployeeRepository
}

func NewHistoryService(
	db *database.DB,
	assignmentRepo shift.AssignmentRepository,
	employeeRepo employee.EmployeeRepository,
) shift.HistoryService {
	return &HistoryServiceImpl{
		db:                   db,
		AssignmentRepository: assignmentRepo,
		EmployeeRepository:   employeeRepo,
	}
}

// ResolveShift implements shift.HistoryService.
func (s *HistoryServiceImpl) ResolveShift(ctx context.Context, employeeCode string, date time.Time) (string, error) {
	intervals, err := s.AssignmentRepository.ListByEmployee(ctx, employeeCode)
	if err != nil {
		return "", fmt.Errorf("failed to list assignment intervals: %w", err)
	}

	if code, ok := pickCovering(intervals, date); ok {
		return code, nil
	}

	// No interval hit: fall back to the employee's current shift. Dates before
	// the first recorded assignment land here.
	emp, err := s.EmployeeRepository.GetByCode(ctx, employeeCode)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			slog.Warn("no shift resolvable, no violation computable",
				"employee_code", employeeCode,
				"date", timeutil.FormatDate(date))
			return "", nil
		}
		return "", fmt.Errorf("failed to get employee for shift fallback: %w", err)
	}

	if emp.CurrentShiftCode == "" {
		slog.Warn("employee has no current shift, no violation computable",
			"employee_code", employeeCode,
			"date", timeutil.FormatDate(date))
	}
	return emp.CurrentShiftCode, nil
}

// pickCovering selects the covering interval with the latest effective date.
// A corrupted dataset may hold more than one covering interval; the latest
// effective date wins deterministically.
func pickCovering(intervals []shift.AssignmentInterval, date time.Time) (string, bool) {
	var best *shift.AssignmentInterval
	matches := 0
	for i := range intervals {
		iv := &intervals[i]
		if !iv.Covers(date) {
			continue
		}
		matches++
		if best == nil || iv.EffectiveDate.After(best.EffectiveDate) {
			best = iv
		}
	}
	if best == nil {
		return "", false
	}
	if matches > 1 {
		slog.Warn("overlapping shift assignment intervals, latest effective date wins",
			"employee_code", best.EmployeeCode,
			"date", timeutil.FormatDate(date),
			"matches", matches)
	}
	return best.ShiftCode, true
}

// ResolveRange implements shift.HistoryService. All candidate intervals are
// loaded once, grouped per employee and sorted by effective date descending,
// then each date is a linear scan.
func (s *HistoryServiceImpl) ResolveRange(ctx context.Context, employeeCodes []string, from, to time.Time) (map[string]map[string]string, error) {
	intervals, err := s.AssignmentRepository.ListInRange(ctx, employeeCodes, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignment intervals in range: %w", err)
	}

	byEmployee := make(map[string][]shift.AssignmentInterval)
	for _, iv := range intervals {
		byEmployee[iv.EmployeeCode] = append(byEmployee[iv.EmployeeCode], iv)
	}
	for code := range byEmployee {
		ivs := byEmployee[code]
		sort.Slice(ivs, func(i, j int) bool {
			return ivs[i].EffectiveDate.After(ivs[j].EffectiveDate)
		})
	}

	resolved := make(map[string]map[string]string, len(employeeCodes))
	for _, code := range employeeCodes {
		perDate := make(map[string]string)

		var fallback string
		emp, err := s.EmployeeRepository.GetByCode(ctx, code)
		if err == nil {
			fallback = emp.CurrentShiftCode
		} else if !errors.Is(err, employee.ErrEmployeeNotFound) {
			return nil, fmt.Errorf("failed to get employee %s: %w", code, err)
		}

		ivs := byEmployee[code]
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			shiftCode := fallback
			for i := range ivs {
				if ivs[i].Covers(d) {
					shiftCode = ivs[i].ShiftCode
					break // sorted descending, the first hit has the latest effective date
				}
			}
			perDate[timeutil.FormatDate(d)] = shiftCode
		}
		resolved[code] = perDate
	}

	return resolved, nil
}

// AssignShift implements shift.HistoryService. Closing the open interval and
// opening the new one is a single transaction; partial application would
// break the no-overlap invariant.
func (s *HistoryServiceImpl) AssignShift(ctx context.Context, req shift.AssignShiftRequest) error {
	if errs := validateAssignRequest(req); len(errs) > 0 {
		return errs
	}
	effective := truncateToDay(req.EffectiveDate)

	return postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		intervals, err := s.AssignmentRepository.ListByEmployee(txCtx, req.EmployeeCode)
		if err != nil {
			return fmt.Errorf("failed to list assignment intervals: %w", err)
		}

		if historyCorrupted(intervals, req.ShiftCode) {
			// Every stored interval already carries the new shift's code, so
			// the history lost the employee's true prior shift. Repair with
			// the current shift recorded on the employee before assigning.
			emp, err := s.EmployeeRepository.GetByCode(txCtx, req.EmployeeCode)
			if err != nil {
				return fmt.Errorf("failed to get employee for history repair: %w", err)
			}
			if err := s.repairLocked(txCtx, intervals, shift.RepairHistoryRequest{
				EmployeeCode:     req.EmployeeCode,
				PriorShiftCode:   emp.CurrentShiftCode,
				NewEffectiveDate: effective,
			}); err != nil {
				return err
			}
		} else if open, err := s.AssignmentRepository.GetOpenInterval(txCtx, req.EmployeeCode); err != nil {
			return fmt.Errorf("failed to get open interval: %w", err)
		} else if open != nil {
			if !open.EffectiveDate.Before(effective) {
				return shift.ErrIntervalOverlap
			}
			if err := s.AssignmentRepository.CloseInterval(txCtx, open.ID, effective.AddDate(0, 0, -1)); err != nil {
				return fmt.Errorf("failed to close open interval: %w", err)
			}
		}

		_, err = s.AssignmentRepository.Create(txCtx, shift.AssignmentInterval{
			ID:            uuid.NewString(),
			EmployeeCode:  req.EmployeeCode,
			ShiftCode:     req.ShiftCode,
			EffectiveDate: effective,
			EndDate:       nil,
		})
		if err != nil {
			return fmt.Errorf("failed to create assignment interval: %w", err)
		}
		return nil
	})
}

// RepairHistory implements shift.HistoryService.
func (s *HistoryServiceImpl) RepairHistory(ctx context.Context, req shift.RepairHistoryRequest) error {
	return postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		intervals, err := s.AssignmentRepository.ListByEmployee(txCtx, req.EmployeeCode)
		if err != nil {
			return fmt.Errorf("failed to list assignment intervals: %w", err)
		}
		shared := sharedCode(intervals)
		if !historyCorrupted(intervals, shared) || req.PriorShiftCode == shared {
			return shift.ErrHistoryNotCorrupted
		}
		return s.repairLocked(txCtx, intervals, req)
	})
}

// repairLocked deletes the corrupted open interval and records the employee's
// true prior shift ending the day before the new interval starts. Must run
// inside a transaction.
func (s *HistoryServiceImpl) repairLocked(ctx context.Context, intervals []shift.AssignmentInterval, req shift.RepairHistoryRequest) error {
	var corrupted *shift.AssignmentInterval
	for i := range intervals {
		if intervals[i].EndDate == nil {
			corrupted = &intervals[i]
			break
		}
	}
	if corrupted == nil {
		return shift.ErrNoOpenInterval
	}

	if err := s.AssignmentRepository.Delete(ctx, corrupted.ID); err != nil {
		return fmt.Errorf("failed to delete corrupted interval: %w", err)
	}

	endDate := req.NewEffectiveDate.AddDate(0, 0, -1)
	_, err := s.AssignmentRepository.Create(ctx, shift.AssignmentInterval{
		ID:            uuid.NewString(),
		EmployeeCode:  req.EmployeeCode,
		ShiftCode:     req.PriorShiftCode,
		EffectiveDate: corrupted.EffectiveDate,
		EndDate:       &endDate,
	})
	if err != nil {
		return fmt.Errorf("failed to insert prior-shift interval: %w", err)
	}

	slog.Warn("repaired corrupted shift assignment history",
		"employee_code", req.EmployeeCode,
		"deleted_interval", corrupted.ID,
		"prior_shift", req.PriorShiftCode,
		"prior_end", timeutil.FormatDate(endDate))
	return nil
}

// historyCorrupted reports the documented corruption precondition: every
// stored interval carries the shift code about to be assigned.
func historyCorrupted(intervals []shift.AssignmentInterval, newShiftCode string) bool {
	if len(intervals) == 0 || newShiftCode == "" {
		return false
	}
	for _, iv := range intervals {
		if iv.ShiftCode != newShiftCode {
			return false
		}
	}
	return true
}

func sharedCode(intervals []shift.AssignmentInterval) string {
	if len(intervals) == 0 {
		return ""
	}
	return intervals[0].ShiftCode
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func validateAssignRequest(req shift.AssignShiftRequest) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if !validator.IsValidEmployeeCode(req.EmployeeCode) {
		errs = append(errs, validator.ValidationError{Field: "employee_code", Message: "invalid employee code"})
	}
	if !validator.IsValidShiftCode(req.ShiftCode) {
		errs = append(errs, validator.ValidationError{Field: "shift_code", Message: "invalid shift code"})
	}
	if req.EffectiveDate.IsZero() {
		errs = append(errs, validator.ValidationError{Field: "effective_date", Message: "effective date is required"})
	}
	return errs
}
