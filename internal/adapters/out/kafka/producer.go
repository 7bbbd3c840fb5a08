// Package kafka publishes domain events to Kafka once the unit of work that raised them commits.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"

	kafkago "github.com/segmentio/kafka-go"
)

const eventNameHeader = "event-name"

// messageWriter is the part of kafka.Writer the producer uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Envelope is the message value. Payload is the event itself as JSON.
type Envelope struct {
	EventName   string          `json:"eventName"`
	AggregateID string          `json:"aggregateId"`
	PublishedAt time.Time       `json:"publishedAt"`
	Payload     json.RawMessage `json:"payload"`
}

// OrderEventProducer writes order events keyed by order id, so every event of one order lands
// on the same partition and keeps its order.
type OrderEventProducer struct {
	w   messageWriter
	now func() time.Time
}

// NewOrderEventProducer creates a producer over a kafka-go writer.
//   - Hash balancer with the order id as key keeps per-order ordering.
//   - RequireAll waits for every in-sync replica.
func NewOrderEventProducer(brokers []string, topic string) *OrderEventProducer {
	return newOrderEventProducer(&kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		MaxAttempts:  5,
		WriteTimeout: 5 * time.Second,
		ReadTimeout:  5 * time.Second,
		BatchTimeout: 50 * time.Millisecond,
	})
}

func newOrderEventProducer(w messageWriter) *OrderEventProducer {
	return &OrderEventProducer{w: w, now: time.Now}
}

func (p *OrderEventProducer) Close() error {
	return p.w.Close()
}

// Publish writes all events in one batch. Either the whole batch is acknowledged or an error
// is returned.
func (p *OrderEventProducer) Publish(ctx context.Context, events ...kernel.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafkago.Message, 0, len(events))
	for _, e := range events {
		msg, err := p.message(e)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	if err := p.w.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d events: %w", len(msgs), err)
	}
	return nil
}

func (p *OrderEventProducer) message(e kernel.DomainEvent) (kafkago.Message, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("marshal %s: %w", e.EventName(), err)
	}

	key := e.AggregateID().String()
	value, err := json.Marshal(Envelope{
		EventName:   e.EventName(),
		AggregateID: key,
		PublishedAt: p.now().UTC(),
		Payload:     payload,
	})
	if err != nil {
		return kafkago.Message{}, err
	}

	return kafkago.Message{
		Key:     []byte(key),
		Value:   value,
		Headers: []kafkago.Header{{Key: eventNameHeader, Value: []byte(e.EventName())}},
	}, nil
}
