package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clockwise-hr/attendance-engine-go/internal/domain/shift"
	"github.com/clockwise-hr/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type shiftDefinitionRepository struct {
	db *database.DB
}

func NewShiftDefinitionRepository(db *database.DB) shift.DefinitionRepository {
	return &shiftDefinitionRepository{db: db}
}

// GetByCode implements shift.DefinitionRepository.
func (r *shiftDefinitionRepository) GetByCode(ctx context.Context, code string) (shift.Definition, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT code, name, start_time, end_time, grace_period_minutes, crosses_midnight
		FROM shift_definitions
		WHERE code = $1
	`

	var def shift.Definition
	err := q.QueryRow(ctx, query, code).Scan(
		&def.Code, &def.Name, &def.StartTime, &def.EndTime,
		&def.GracePeriodMinutes, &def.CrossesMidnight,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Definition{}, shift.ErrShiftNotFound
		}
		return shift.Definition{}, fmt.Errorf("failed to get shift definition: %w", err)
	}

	return def, nil
}

// ListAll implements shift.DefinitionRepository.
func (r *shiftDefinitionRepository) ListAll(ctx context.Context) ([]shift.Definition, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT code, name, start_time, end_time, grace_period_minutes, crosses_midnight
		FROM shift_definitions
		ORDER BY code ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift definitions: %w", err)
	}
	defer rows.Close()

	var defs []shift.Definition
	for rows.Next() {
		var def shift.Definition
		if err := rows.Scan(&def.Code, &def.Name, &def.StartTime, &def.EndTime,
			&def.GracePeriodMinutes, &def.CrossesMidnight); err != nil {
			return nil, fmt.Errorf("failed to scan shift definition: %w", err)
		}
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shift definitions: %w", err)
	}

	return defs, nil
}

type shiftAssignmentRepository struct {
	db *database.DB
}

func NewShiftAssignmentRepository(db *database.DB) shift.AssignmentRepository {
	return &shiftAssignmentRepository{db: db}
}

// ListByEmployee implements shift.AssignmentRepository.
func (r *shiftAssignmentRepository) ListByEmployee(ctx context.Context, employeeCode string) ([]shift.AssignmentInterval, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_code, shift_code, effective_date, end_date, created_at, updated_at
		FROM shift_assignments
		WHERE employee_code = $1
		ORDER BY effective_date ASC
	`

	rows, err := q.Query(ctx, query, employeeCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift assignments: %w", err)
	}
	defer rows.Close()

	return scanAssignments(rows)
}

// ListInRange implements shift.AssignmentRepository.
func (r *shiftAssignmentRepository) ListInRange(ctx context.Context, employeeCodes []string, from, to time.Time) ([]shift.AssignmentInterval, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_code, shift_code, effective_date, end_date, created_at, updated_at
		FROM shift_assignments
		WHERE effective_date <= $1
		  AND (end_date IS NULL OR end_date >= $2)
		  AND ($3::text[] IS NULL OR employee_code = ANY($3))
		ORDER BY employee_code ASC, effective_date ASC
	`

	var codes any
	if len(employeeCodes) > 0 {
		codes = employeeCodes
	}

	rows, err := q.Query(ctx, query, to, from, codes)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift assignments in range: %w", err)
	}
	defer rows.Close()

	return scanAssignments(rows)
}

// GetOpenInterval implements shift.AssignmentRepository.
func (r *shiftAssignmentRepository) GetOpenInterval(ctx context.Context, employeeCode string) (*shift.AssignmentInterval, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_code, shift_code, effective_date, end_date, created_at, updated_at
		FROM shift_assignments
		WHERE employee_code = $1
		  AND end_date IS NULL
		ORDER BY effective_date DESC
		LIMIT 1
	`

	var iv shift.AssignmentInterval
	err := q.QueryRow(ctx, query, employeeCode).Scan(
		&iv.ID, &iv.EmployeeCode, &iv.ShiftCode,
		&iv.EffectiveDate, &iv.EndDate, &iv.CreatedAt, &iv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open shift assignment: %w", err)
	}

	return &iv, nil
}

// CloseInterval implements shift.AssignmentRepository.
func (r *shiftAssignmentRepository) CloseInterval(ctx context.Context, id string, endDate time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_assignments
		SET end_date = $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id, endDate)
	if err != nil {
		return fmt.Errorf("failed to close shift assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrNoOpenInterval
	}

	return nil
}

// Create implements shift.AssignmentRepository.
func (r *shiftAssignmentRepository) Create(ctx context.Context, interval shift.AssignmentInterval) (shift.AssignmentInterval, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shift_assignments (id, employee_code, shift_code, effective_date, end_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		interval.ID, interval.EmployeeCode, interval.ShiftCode,
		interval.EffectiveDate, interval.EndDate,
	).Scan(&interval.CreatedAt, &interval.UpdatedAt)
	if err != nil {
		return shift.AssignmentInterval{}, fmt.Errorf("failed to create shift assignment: %w", err)
	}

	return interval, nil
}

// Delete implements shift.AssignmentRepository.
func (r *shiftAssignmentRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM shift_assignments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete shift assignment: %w", err)
	}

	return nil
}

func scanAssignments(rows pgx.Rows) ([]shift.AssignmentInterval, error) {
	var intervals []shift.AssignmentInterval
	for rows.Next() {
		var iv shift.AssignmentInterval
		if err := rows.Scan(&iv.ID, &iv.EmployeeCode, &iv.ShiftCode,
			&iv.EffectiveDate, &iv.EndDate, &iv.CreatedAt, &iv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shift assignment: %w", err)
		}
		intervals = append(intervals, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shift assignments: %w", err)
	}
	return intervals, nil
}
