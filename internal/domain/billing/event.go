package billing

import (
	"fmt"
	"time"
)

// EventStatus is the processing state of a recorded provider notification.
type EventStatus string

const (
	EventStatusPending   EventStatus = "pending"
	EventStatusProcessed EventStatus = "processed"
	EventStatusFailed    EventStatus = "failed"
)

// ValidEventStatuses enumerates the allowed statuses.
var ValidEventStatuses = map[EventStatus]bool{
	EventStatusPending:   true,
	EventStatusProcessed: true,
	EventStatusFailed:    true,
}

// Event is the audit record for one distinct provider notification. The
// provider-assigned event ID is the sole deduplication key; the raw payload
// is retained as received for audit and replay.
type Event struct {
	id           uint
	eventID      string
	kind         string
	status       EventStatus
	processedAt  *time.Time
	errorMessage *string
	payload      []byte
	createdAt    time.Time
	updatedAt    time.Time
}

// NewEvent creates a pending event record for a freshly received notification.
func NewEvent(eventID, kind string, payload []byte) (*Event, error) {
	if eventID == "" {
		return nil, fmt.Errorf("event ID is required")
	}
	if kind == "" {
		return nil, fmt.Errorf("event kind is required")
	}

	now := time.Now()
	return &Event{
		eventID:   eventID,
		kind:      kind,
		status:    EventStatusPending,
		payload:   payload,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructEvent reconstructs an event from persistence.
func ReconstructEvent(
	id uint,
	eventID, kind string,
	status EventStatus,
	processedAt *time.Time,
	errorMessage *string,
	payload []byte,
	createdAt, updatedAt time.Time,
) (*Event, error) {
	if id == 0 {
		return nil, fmt.Errorf("event ID cannot be zero")
	}
	if eventID == "" {
		return nil, fmt.Errorf("event ID is required")
	}
	if !ValidEventStatuses[status] {
		return nil, fmt.Errorf("invalid event status: %s", status)
	}

	return &Event{
		id:           id,
		eventID:      eventID,
		kind:         kind,
		status:       status,
		processedAt:  processedAt,
		errorMessage: errorMessage,
		payload:      payload,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

func (e *Event) ID() uint              { return e.id }
func (e *Event) EventID() string       { return e.eventID }
func (e *Event) Kind() string          { return e.kind }
func (e *Event) Status() EventStatus   { return e.status }
func (e *Event) ProcessedAt() *time.Time { return e.processedAt }
func (e *Event) ErrorMessage() *string { return e.errorMessage }
func (e *Event) Payload() []byte       { return e.payload }
func (e *Event) CreatedAt() time.Time  { return e.createdAt }
func (e *Event) UpdatedAt() time.Time  { return e.updatedAt }

func (e *Event) IsPending() bool   { return e.status == EventStatusPending }
func (e *Event) IsProcessed() bool { return e.status == EventStatusProcessed }
func (e *Event) IsFailed() bool    { return e.status == EventStatusFailed }

// SetID assigns the persistence identity after the initial insert.
func (e *Event) SetID(id uint) error {
	if e.id != 0 {
		return fmt.Errorf("event ID already set")
	}
	if id == 0 {
		return fmt.Errorf("event ID cannot be zero")
	}
	e.id = id
	return nil
}

// MarkProcessed records terminal successful processing.
func (e *Event) MarkProcessed() {
	now := time.Now()
	e.status = EventStatusProcessed
	e.processedAt = &now
	e.errorMessage = nil
	e.updatedAt = now
}

// MarkFailed records terminal handler failure. Failed events are complete
// from the delivery protocol's point of view; recovery is operational.
func (e *Event) MarkFailed(handlerErr error) {
	now := time.Now()
	msg := "unknown error"
	if handlerErr != nil {
		msg = handlerErr.Error()
	}
	e.status = EventStatusFailed
	e.processedAt = &now
	e.errorMessage = &msg
	e.updatedAt = now
}
