package billing

import "context"

// EventRepository persists provider notification audit records.
type EventRepository interface {
	// Record inserts a pending event. If a row with the same provider event
	// ID already exists the stored row is returned unchanged and the second
	// return value is true. The uniqueness constraint on the event ID makes
	// this safe under concurrent duplicate delivery: exactly one caller
	// observes a fresh insert.
	Record(ctx context.Context, event *Event) (*Event, bool, error)

	// Update persists status, processed time and error message.
	Update(ctx context.Context, event *Event) error

	GetByEventID(ctx context.Context, eventID string) (*Event, error)
	ListByStatus(ctx context.Context, status EventStatus, limit int) ([]*Event, error)
}
