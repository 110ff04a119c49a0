// Package events carries domain events from the position service to the
// message bus. Events are immutable once built; Envelope is their wire form.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DomainEvent is published after a state change, keyed by its aggregate so
// events for one portfolio or transaction keep their order on a partition.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateID() uuid.UUID
	AggregateType() string
	OccurredAt() time.Time
	// Payload is the JSON-encoded event body, or nil.
	Payload() []byte
}

// BaseEvent holds the envelope fields; concrete events embed it and add
// their typed payload.
type BaseEvent struct {
	id            uuid.UUID
	eventType     string
	aggregateID   uuid.UUID
	aggregateType string
	occurredAt    time.Time
	payload       []byte
}

// NewBaseEvent stamps a fresh event ID and the current UTC time.
func NewBaseEvent(eventType string, aggregateID uuid.UUID, aggregateType string, payload []byte) BaseEvent {
	return BaseEvent{
		id:            uuid.New(),
		eventType:     eventType,
		aggregateID:   aggregateID,
		aggregateType: aggregateType,
		occurredAt:    time.Now().UTC(),
		payload:       payload,
	}
}

func (e BaseEvent) EventID() uuid.UUID     { return e.id }
func (e BaseEvent) EventType() string      { return e.eventType }
func (e BaseEvent) AggregateID() uuid.UUID { return e.aggregateID }
func (e BaseEvent) AggregateType() string  { return e.aggregateType }
func (e BaseEvent) OccurredAt() time.Time  { return e.occurredAt }
func (e BaseEvent) Payload() []byte        { return e.payload }

// Envelope is the JSON wire form of a DomainEvent on the message bus.
type Envelope struct {
	ID            uuid.UUID       `json:"id"`
	Type          string          `json:"type"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

// NewEnvelope wraps event for publishing. An empty payload becomes JSON null.
func NewEnvelope(event DomainEvent) Envelope {
	payload := json.RawMessage(event.Payload())
	if len(payload) == 0 {
		payload = json.RawMessage("null")
	}
	return Envelope{
		ID:            event.EventID(),
		Type:          event.EventType(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		OccurredAt:    event.OccurredAt(),
		Payload:       payload,
	}
}
