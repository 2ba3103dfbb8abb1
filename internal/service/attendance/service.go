package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/clockwise-hr/attendance-engine-go/internal/config"
	"github.com/clockwise-hr/attendance-engine-go/internal/domain/attendance"
	"github.com/clockwise-hr/attendance-engine-go/internal/domain/employee"
	"github.com/clockwise-hr/attendance-engine-go/internal/domain/punch"
	"github.com/clockwise-hr/attendance-engine-go/internal/domain/shift"
	"github.com/clockwise-hr/attendance-engine-go/internal/pkg/timeutil"
	"github.com/clockwise-hr/attendance-engine-go/internal/pkg/validator"
	"github.com/clockwise-hr/attendance-engine-go/internal/pkg/weekend"
)

type ServiceImpl struct {
	cfg config.EngineConfig
	loc *time.Location

	factRepo     attendance.FactRepository
	eventRepo    punch.EventRepository
	defRepo      shift.DefinitionRepository
	aggregator   punch.Aggregator
	history      shift.HistoryService
	employeeRepo employee.EmployeeRepository
}

func NewService(
	cfg config.EngineConfig,
	factRepo attendance.FactRepository,
	eventRepo punch.EventRepository,
	defRepo shift.DefinitionRepository,
	aggregator punch.Aggregator,
	history shift.HistoryService,
	employeeRepo employee.EmployeeRepository,
) attendance.Service {
	return &ServiceImpl{
		cfg:          cfg,
		loc:          timeutil.FixedZone(cfg.TimezoneOffsetMinutes),
		factRepo:     factRepo,
		eventRepo:    eventRepo,
		defRepo:      defRepo,
		aggregator:   aggregator,
		history:      history,
		employeeRepo: employeeRepo,
	}
}

// EvaluateDay implements attendance.Service.
func (s *ServiceImpl) EvaluateDay(ctx context.Context, req attendance.DayRequest) (attendance.DailyFact, error) {
	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		return attendance.DailyFact{}, err
	}
	detector := NewDetector(s.loc, catalog, s.cfg.FirstNightShiftCode, s.cfg.SecondNightShiftCode, s.cfg.DefaultGraceMinutes)

	fact, err := s.evaluateDay(ctx, catalog, detector, req)
	if err != nil {
		return attendance.DailyFact{}, err
	}

	saved, err := s.factRepo.Upsert(ctx, fact)
	if err != nil {
		return attendance.DailyFact{}, fmt.Errorf("failed to persist attendance fact: %w", err)
	}
	return saved, nil
}

// EvaluateRange implements attendance.Service. The shift catalog is loaded
// once and shared as an immutable snapshot; employees are independent, so a
// failure is recorded as a warning and the pass continues.
func (s *ServiceImpl) EvaluateRange(ctx context.Context, employeeCodes []string, from, to time.Time) (attendance.EvaluateRangeResult, error) {
	var result attendance.EvaluateRangeResult

	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		return result, err
	}
	detector := NewDetector(s.loc, catalog, s.cfg.FirstNightShiftCode, s.cfg.SecondNightShiftCode, s.cfg.DefaultGraceMinutes)

	if len(employeeCodes) == 0 {
		employees, err := s.employeeRepo.ListActive(ctx)
		if err != nil {
			return result, fmt.Errorf("failed to list active employees: %w", err)
		}
		for _, emp := range employees {
			employeeCodes = append(employeeCodes, emp.Code)
		}
	}

	from = timeutil.DateOf(from, s.loc)
	to = timeutil.DateOf(to, s.loc)

	// One batch resolution for the whole range; per-day lookups after this
	// are map reads, not interval queries.
	resolved, err := s.history.ResolveRange(ctx, employeeCodes, from, to)
	if err != nil {
		return result, fmt.Errorf("failed to resolve shifts for range: %w", err)
	}

	for _, code := range employeeCodes {
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			shiftCode := resolved[code][timeutil.FormatDate(d)]
			fact, err := s.evaluateResolvedDay(ctx, catalog, detector, attendance.DayRequest{EmployeeCode: code, BusinessDate: d}, shiftCode)
			if err != nil {
				warning := fmt.Sprintf("employee %s, %s: %v", code, timeutil.FormatDate(d), err)
				slog.Warn("day evaluation failed", "employee_code", code, "date", timeutil.FormatDate(d), "error", err)
				result.Warnings = append(result.Warnings, warning)
				continue
			}
			saved, err := s.factRepo.Upsert(ctx, fact)
			if err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("employee %s, %s: persist: %v", code, timeutil.FormatDate(d), err))
				continue
			}
			result.Facts = append(result.Facts, saved)
		}
	}

	return result, nil
}

// evaluateDay computes one employee business day without persisting it.
func (s *ServiceImpl) evaluateDay(ctx context.Context, catalog shift.Catalog, detector *Detector, req attendance.DayRequest) (attendance.DailyFact, error) {
	shiftCode, err := s.history.ResolveShift(ctx, req.EmployeeCode, timeutil.DateOf(req.BusinessDate, s.loc))
	if err != nil {
		return attendance.DailyFact{}, fmt.Errorf("failed to resolve shift: %w", err)
	}
	return s.evaluateResolvedDay(ctx, catalog, detector, req, shiftCode)
}

// evaluateResolvedDay evaluates a day whose shift code is already resolved,
// either per-day or through a batch ResolveRange pass.
func (s *ServiceImpl) evaluateResolvedDay(ctx context.Context, catalog shift.Catalog, detector *Detector, req attendance.DayRequest, shiftCode string) (attendance.DailyFact, error) {
	businessDate := timeutil.DateOf(req.BusinessDate, s.loc)

	emp, err := s.employeeRepo.GetByCode(ctx, req.EmployeeCode)
	if err != nil {
		return attendance.DailyFact{}, fmt.Errorf("failed to get employee: %w", err)
	}

	policy, err := s.employeeRepo.GetSaturdayPolicy(ctx, emp.Department)
	if err != nil {
		slog.Warn("no Saturday policy for department, defaulting to alternation",
			"department", emp.Department, "error", err)
		policy = weekend.PolicyAlternate
	}
	dayOff := weekend.IsDayOff(businessDate, emp.SaturdayGroup, policy)

	def, known := catalog[shiftCode]
	if shiftCode != "" && !known {
		slog.Warn("resolved shift code missing from catalog, no violation computable",
			"employee_code", req.EmployeeCode, "shift_code", shiftCode)
	}

	windowStart, windowEnd := timeutil.BusinessDayWindow(businessDate, s.loc)
	events, err := s.eventRepo.ListAccessEvents(ctx, req.EmployeeCode, windowStart, windowEnd, s.cfg.AccessEventType)
	if err != nil {
		return attendance.DailyFact{}, fmt.Errorf("failed to list punch events: %w", err)
	}

	fact := attendance.DailyFact{
		EmployeeCode: req.EmployeeCode,
		BusinessDate: businessDate,
		ShiftCode:    shiftCode,
	}

	summary, ok := s.aggregator.Summarize(req.EmployeeCode, businessDate, events, def.CrossesMidnight)
	if !ok {
		if dayOff {
			// An off day with zero punches is a holiday, not an absence.
			fact.Status = attendance.StatusHoliday
		} else {
			fact.Status = attendance.StatusAbsent
		}
		return fact, nil
	}

	checkIn := summary.FirstPunch
	fact.CheckIn = &checkIn
	fact.CheckOut = summary.LastPunch
	fact.PunchCount = summary.PunchCount

	res := detector.ComputeLateEarly(def, fact.CheckIn, fact.CheckOut)
	fact.Late = res.Late
	fact.EarlyLeave = res.EarlyLeave
	fact.LateMinutes = res.LateMinutes
	fact.EarlyMinutes = res.EarlyMinutes

	switch {
	case summary.LastPunch == nil:
		fact.Status = attendance.StatusPartialPunch
	case res.Late:
		fact.Status = attendance.StatusLate
	case res.EarlyLeave:
		fact.Status = attendance.StatusEarlyLeave
	default:
		fact.Status = attendance.StatusPresent
	}

	return fact, nil
}

func (s *ServiceImpl) loadCatalog(ctx context.Context) (shift.Catalog, error) {
	defs, err := s.defRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load shift catalog: %w", err)
	}
	catalog := make(shift.Catalog, len(defs))
	for _, def := range defs {
		// Malformed times still enter the catalog (the detector parses them to
		// 00:00), but operators should hear about the bad reference data.
		if !validator.IsValidClock(def.StartTime) || !validator.IsValidClock(def.EndTime) {
			slog.Warn("shift definition has malformed times",
				"shift_code", def.Code, "start_time", def.StartTime, "end_time", def.EndTime)
		}
		catalog[def.Code] = def
	}
	return catalog, nil
}
