package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/clockwise-hr/attendance-engine-go/internal/domain/punch"
	"github.com/clockwise-hr/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type punchEventRepository struct {
	db *database.DB
}

func NewPunchEventRepository(db *database.DB) punch.EventRepository {
	return &punchEventRepository{db: db}
}

// ListAccessEvents implements punch.EventRepository.
func (r *punchEventRepository) ListAccessEvents(ctx context.Context, employeeCode string, from, to time.Time, eventType string) ([]punch.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_code, event_timestamp, event_type, device_code, created_at
		FROM punch_events
		WHERE employee_code = $1
		  AND event_type = $2
		  AND event_timestamp >= $3
		  AND event_timestamp < $4
		ORDER BY event_timestamp ASC
	`

	rows, err := q.Query(ctx, query, employeeCode, eventType, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list punch events: %w", err)
	}
	defer rows.Close()

	return scanPunchEvents(rows)
}

// ListAccessEventsForAll implements punch.EventRepository.
func (r *punchEventRepository) ListAccessEventsForAll(ctx context.Context, from, to time.Time, eventType string) ([]punch.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_code, event_timestamp, event_type, device_code, created_at
		FROM punch_events
		WHERE event_type = $1
		  AND event_timestamp >= $2
		  AND event_timestamp < $3
		ORDER BY employee_code ASC, event_timestamp ASC
	`

	rows, err := q.Query(ctx, query, eventType, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list punch events: %w", err)
	}
	defer rows.Close()

	return scanPunchEvents(rows)
}

func scanPunchEvents(rows pgx.Rows) ([]punch.Event, error) {
	var events []punch.Event
	for rows.Next() {
		var e punch.Event
		if err := rows.Scan(&e.ID, &e.EmployeeCode, &e.Timestamp, &e.EventType, &e.DeviceCode, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan punch event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate punch events: %w", err)
	}
	return events, nil
}
