package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/monowai/beancounter-sub001/internal/domain/port"
	"github.com/monowai/beancounter-sub001/pkg/events"
	pkgkafka "github.com/monowai/beancounter-sub001/pkg/kafka"
)

// Compile-time interface check.
var _ port.EventPublisher = (*EventPublisher)(nil)

// MessageWriter is the subset of *pkgkafka.Producer the publisher needs.
type MessageWriter interface {
	Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error
}

// EventPublisher writes domain events to Kafka as JSON envelopes keyed by
// aggregate ID, so events for one portfolio or transaction stay ordered.
type EventPublisher struct {
	writer MessageWriter
}

// NewEventPublisher creates a new EventPublisher.
func NewEventPublisher(writer MessageWriter) *EventPublisher {
	return &EventPublisher{writer: writer}
}

// Publish sends evts to topic in a single write.
func (p *EventPublisher) Publish(ctx context.Context, topic string, evts ...events.DomainEvent) error {
	if len(evts) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, 0, len(evts))
	for _, evt := range evts {
		value, err := json.Marshal(events.NewEnvelope(evt))
		if err != nil {
			return fmt.Errorf("marshal %s event: %w", evt.EventType(), err)
		}
		msgs = append(msgs, pkgkafka.Message{
			Key:   []byte(evt.AggregateID().String()),
			Value: value,
			Headers: map[string]string{
				"content-type": "application/json",
				"event-type":   evt.EventType(),
			},
		})
	}
	return p.writer.Publish(ctx, topic, msgs...)
}
