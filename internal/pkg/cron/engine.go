package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/clockwise-hr/attendance-engine-go/internal/config"
	"github.com/clockwise-hr/attendance-engine-go/internal/domain/attendance"
	"github.com/clockwise-hr/attendance-engine-go/internal/domain/payroll"
	"github.com/clockwise-hr/attendance-engine-go/internal/pkg/timeutil"
)

// EngineJobs recomputes derived data on a schedule. Evaluation and payroll
// are idempotent, so re-running over already-computed days is safe.
type EngineJobs struct {
	cfg           config.EngineConfig
	loc           *time.Location
	attendanceSvc attendance.Service
	payrollSvc    payroll.Service
}

func NewEngineJobs(cfg config.EngineConfig, attendanceSvc attendance.Service, payrollSvc payroll.Service) *EngineJobs {
	return &EngineJobs{
		cfg:           cfg,
		loc:           timeutil.FixedZone(cfg.TimezoneOffsetMinutes),
		attendanceSvc: attendanceSvc,
		payrollSvc:    payrollSvc,
	}
}

func (j *EngineJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("recompute_current_period", j.cfg.RecomputeInterval, j.RecomputeCurrentPeriod)
	scheduler.AddJob("finalize_previous_month", 6*time.Hour, j.FinalizePreviousMonth)
}

// RecomputeCurrentPeriod re-evaluates the current month's attendance facts
// and refreshes the running payroll results. Yesterday's business day is
// included because its window extends past midnight.
func (j *EngineJobs) RecomputeCurrentPeriod(ctx context.Context) error {
	now := time.Now().In(j.loc)
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, j.loc)
	to := timeutil.DateOf(now, j.loc)

	evalRes, err := j.attendanceSvc.EvaluateRange(ctx, nil, from, to)
	if err != nil {
		return fmt.Errorf("failed to evaluate current month: %w", err)
	}
	for _, w := range evalRes.Warnings {
		slog.Warn("Cron: attendance evaluation warning", "warning", w)
	}

	payRes, err := j.payrollSvc.ComputeMonth(ctx, payroll.Period{Year: now.Year(), Month: now.Month()})
	if err != nil {
		return fmt.Errorf("failed to compute current month payroll: %w", err)
	}
	for _, w := range payRes.Warnings {
		slog.Warn("Cron: payroll computation warning", "warning", w)
	}

	slog.Info("Cron: current period recomputed",
		"facts", len(evalRes.Facts), "payroll_results", len(payRes.Results))
	return nil
}

// FinalizePreviousMonth re-runs the previous month during the first days of a
// new month, picking up punches and leave records that arrived after the
// month rolled over.
func (j *EngineJobs) FinalizePreviousMonth(ctx context.Context) error {
	now := time.Now().In(j.loc)
	if now.Day() > 5 {
		return nil
	}

	prev := now.AddDate(0, -1, -now.Day()+1)
	from := time.Date(prev.Year(), prev.Month(), 1, 0, 0, 0, 0, j.loc)
	to := from.AddDate(0, 1, -1)

	evalRes, err := j.attendanceSvc.EvaluateRange(ctx, nil, from, to)
	if err != nil {
		return fmt.Errorf("failed to evaluate previous month: %w", err)
	}

	payRes, err := j.payrollSvc.ComputeMonth(ctx, payroll.Period{Year: prev.Year(), Month: prev.Month()})
	if err != nil {
		return fmt.Errorf("failed to compute previous month payroll: %w", err)
	}

	slog.Info("Cron: previous month finalized",
		"year", prev.Year(), "month", int(prev.Month()),
		"facts", len(evalRes.Facts), "payroll_results", len(payRes.Results),
		"warnings", len(evalRes.Warnings)+len(payRes.Warnings))
	return nil
}
