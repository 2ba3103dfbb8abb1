package punch

import (
	"context"
	"time"
)

// EventRepository defines read access to the raw punch event store. The
// ingestion sync loop writes these rows; the engine only reads them.
type EventRepository interface {
	// ListAccessEvents returns one employee's access-typed events with
	// timestamps in [from, to), ascending.
	ListAccessEvents(ctx context.Context, employeeCode string, from, to time.Time, eventType string) ([]Event, error)

	// ListAccessEventsForAll returns access-typed events for every employee
	// in [from, to), ascending by employee then timestamp. Used by batch passes.
	ListAccessEventsForAll(ctx context.Context, from, to time.Time, eventType string) ([]Event, error)
}
