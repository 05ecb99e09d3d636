package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType names a domain event.
type EventType string

const (
	EventAccountRegistered    EventType = "account.registered"
	EventOrderPlaced          EventType = "order.placed"
	EventOrderStatusChanged   EventType = "order.status_changed"
	EventOrderCompleted       EventType = "order.completed"
	EventOrderCancelled       EventType = "order.cancelled"
	EventPointsCredited       EventType = "points.credited"
	EventPointsDebited        EventType = "points.debited"
	EventRedemptionCreated    EventType = "redemption.created"
	EventReservationCreated   EventType = "reservation.created"
	EventReservationConfirmed EventType = "reservation.confirmed"
	EventReservationCancelled EventType = "reservation.cancelled"
)

// EventStatus tracks outbox delivery.
type EventStatus string

const (
	EventStatusNew     EventStatus = "NEW"
	EventStatusSending EventStatus = "SENDING"
	EventStatusSent    EventStatus = "SENT"
)

// Event is a domain event stored in the outbox.
type Event struct {
	ID         int64
	UUID       uuid.UUID
	Type       EventType
	Payload    json.RawMessage
	Status     EventStatus
	Attempts   int
	CreatedAt  time.Time
	OccurredAt time.Time
}

// NewEvent builds an event with a fresh UUID and JSON encoded payload.
func NewEvent(eventType EventType, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		UUID:       uuid.New(),
		Type:       eventType,
		Payload:    raw,
		Status:     EventStatusNew,
		OccurredAt: time.Now().UTC(),
	}, nil
}
