package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TopicOrderCreated   = "order.created"
	TopicOrderModified  = "order.modified"
	TopicOrderCancelled = "order.cancelled"
)

type orderEvent struct {
	OrderID    string    `json:"order_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventBus publishes order lifecycle events to Kafka, one topic per event
// type, keyed by order id so a single order's events stay in partition order.
type EventBus struct {
	writer *kafka.Writer
}

// NewEventBus constructs a Kafka-backed event publisher.
func NewEventBus(brokers []string) *EventBus {
	return &EventBus{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

func (b *EventBus) PublishOrderCreated(ctx context.Context, orderID string) error {
	return b.publish(ctx, TopicOrderCreated, orderID)
}

func (b *EventBus) PublishOrderModified(ctx context.Context, orderID string) error {
	return b.publish(ctx, TopicOrderModified, orderID)
}

func (b *EventBus) PublishOrderCancelled(ctx context.Context, orderID string) error {
	return b.publish(ctx, TopicOrderCancelled, orderID)
}

func (b *EventBus) publish(ctx context.Context, topic, orderID string) error {
	payload, err := json.Marshal(orderEvent{
		OrderID:    orderID,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = b.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(orderID),
		Value: payload,
		Time:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}

	return nil
}

// Close flushes and closes the underlying writer.
func (b *EventBus) Close() error {
	return b.writer.Close()
}
