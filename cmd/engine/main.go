package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/clockwise-hr/attendance-engine-go/internal/config"
	"github.com/clockwise-hr/attendance-engine-go/internal/pkg/cron"
	"github.com/clockwise-hr/attendance-engine-go/internal/pkg/database"
	"github.com/clockwise-hr/attendance-engine-go/internal/pkg/timeutil"
	"github.com/clockwise-hr/attendance-engine-go/internal/repository/postgresql"
	attendanceService "github.com/clockwise-hr/attendance-engine-go/internal/service/attendance"
	payrollService "github.com/clockwise-hr/attendance-engine-go/internal/service/payroll"
	punchService "github.com/clockwise-hr/attendance-engine-go/internal/service/punch"
	shiftService "github.com/clockwise-hr/attendance-engine-go/internal/service/shift"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Error loading config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.App.LogLevel)

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	punchEventRepo := postgresql.NewPunchEventRepository(db)
	shiftDefinitionRepo := postgresql.NewShiftDefinitionRepository(db)
	shiftAssignmentRepo := postgresql.NewShiftAssignmentRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceFactRepo := postgresql.NewAttendanceFactRepository(db)
	ruleConfigRepo := postgresql.NewRuleConfigRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	payrollResultRepo := postgresql.NewPayrollResultRepository(db)

	loc := timeutil.FixedZone(cfg.Engine.TimezoneOffsetMinutes)
	aggregator := punchService.NewAggregator(loc)
	historyService := shiftService.NewHistoryService(db, shiftAssignmentRepo, employeeRepo)
	attendanceSvc := attendanceService.NewService(
		cfg.Engine,
		attendanceFactRepo,
		punchEventRepo,
		shiftDefinitionRepo,
		aggregator,
		historyService,
		employeeRepo,
	)
	payrollSvc := payrollService.NewPayrollService(
		cfg.Engine,
		ruleConfigRepo,
		leaveRepo,
		payrollResultRepo,
		attendanceFactRepo,
		employeeRepo,
	)

	scheduler := cron.NewScheduler()
	engineJobs := cron.NewEngineJobs(cfg.Engine, attendanceSvc, payrollSvc)
	engineJobs.RegisterJobs(scheduler)
	scheduler.Start()

	slog.Info("Attendance engine started",
		"env", cfg.App.Env,
		"tz_offset_minutes", cfg.Engine.TimezoneOffsetMinutes,
		"recompute_interval", cfg.Engine.RecomputeInterval)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down...")
	scheduler.Stop()
}

func setupLogger(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
