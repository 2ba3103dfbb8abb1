package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clockwise-hr/attendance-engine-go/internal/domain/attendance"
	"github.com/clockwise-hr/attendance-engine-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type attendanceFactRepository struct {
	db *database.DB
}

func NewAttendanceFactRepository(db *database.DB) attendance.FactRepository {
	return &attendanceFactRepository{db: db}
}

// Upsert implements attendance.FactRepository. Facts are derived data, so a
// re-evaluation always replaces the previous row for the employee day.
func (r *attendanceFactRepository) Upsert(ctx context.Context, fact attendance.DailyFact) (attendance.DailyFact, error) {
	q := GetQuerier(ctx, r.db)

	if fact.ID == "" {
		fact.ID = uuid.NewString()
	}

	query := `
		INSERT INTO attendance_facts (
			id, employee_code, business_date, shift_code,
			check_in, check_out, punch_count, status,
			late, early_leave, late_minutes, early_minutes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
		ON CONFLICT (employee_code, business_date) DO UPDATE SET
			shift_code    = EXCLUDED.shift_code,
			check_in      = EXCLUDED.check_in,
			check_out     = EXCLUDED.check_out,
			punch_count   = EXCLUDED.punch_count,
			status        = EXCLUDED.status,
			late          = EXCLUDED.late,
			early_leave   = EXCLUDED.early_leave,
			late_minutes  = EXCLUDED.late_minutes,
			early_minutes = EXCLUDED.early_minutes,
			updated_at    = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		fact.ID, fact.EmployeeCode, fact.BusinessDate, fact.ShiftCode,
		fact.CheckIn, fact.CheckOut, fact.PunchCount, fact.Status,
		fact.Late, fact.EarlyLeave, fact.LateMinutes, fact.EarlyMinutes,
	).Scan(&fact.ID, &fact.CreatedAt, &fact.UpdatedAt)
	if err != nil {
		return attendance.DailyFact{}, fmt.Errorf("failed to upsert attendance fact: %w", err)
	}

	return fact, nil
}

// GetByEmployeeAndDate implements attendance.FactRepository.
func (r *attendanceFactRepository) GetByEmployeeAndDate(ctx context.Context, employeeCode string, businessDate time.Time) (attendance.DailyFact, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_code, business_date, shift_code,
			   check_in, check_out, punch_count, status,
			   late, early_leave, late_minutes, early_minutes,
			   created_at, updated_at
		FROM attendance_facts
		WHERE employee_code = $1
		  AND business_date = $2
	`

	var fact attendance.DailyFact
	err := q.QueryRow(ctx, query, employeeCode, businessDate).Scan(
		&fact.ID, &fact.EmployeeCode, &fact.BusinessDate, &fact.ShiftCode,
		&fact.CheckIn, &fact.CheckOut, &fact.PunchCount, &fact.Status,
		&fact.Late, &fact.EarlyLeave, &fact.LateMinutes, &fact.EarlyMinutes,
		&fact.CreatedAt, &fact.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.DailyFact{}, attendance.ErrFactNotFound
		}
		return attendance.DailyFact{}, fmt.Errorf("failed to get attendance fact: %w", err)
	}

	return fact, nil
}

// ListByEmployeeRange implements attendance.FactRepository.
func (r *attendanceFactRepository) ListByEmployeeRange(ctx context.Context, employeeCode string, from, to time.Time) ([]attendance.DailyFact, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_code, business_date, shift_code,
			   check_in, check_out, punch_count, status,
			   late, early_leave, late_minutes, early_minutes,
			   created_at, updated_at
		FROM attendance_facts
		WHERE employee_code = $1
		  AND business_date >= $2
		  AND business_date <= $3
		ORDER BY business_date ASC
	`

	rows, err := q.Query(ctx, query, employeeCode, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance facts: %w", err)
	}
	defer rows.Close()

	var facts []attendance.DailyFact
	for rows.Next() {
		var fact attendance.DailyFact
		if err := rows.Scan(
			&fact.ID, &fact.EmployeeCode, &fact.BusinessDate, &fact.ShiftCode,
			&fact.CheckIn, &fact.CheckOut, &fact.PunchCount, &fact.Status,
			&fact.Late, &fact.EarlyLeave, &fact.LateMinutes, &fact.EarlyMinutes,
			&fact.CreatedAt, &fact.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance fact: %w", err)
		}
		facts = append(facts, fact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance facts: %w", err)
	}

	return facts, nil
}
