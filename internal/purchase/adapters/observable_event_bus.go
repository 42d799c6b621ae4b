package adapters

import (
	"context"
	"time"

	"github.com/dejobratic/staffstore/internal/kafka"
	"github.com/dejobratic/staffstore/internal/purchase/ports"
	"github.com/dejobratic/staffstore/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type ObservableEventBus struct {
	bus     ports.EventBus
	metrics *kafka.Metrics
}

func NewObservableEventBus(bus ports.EventBus, metrics *kafka.Metrics) *ObservableEventBus {
	return &ObservableEventBus{
		bus:     bus,
		metrics: metrics,
	}
}

func (e *ObservableEventBus) PublishOrderCreated(ctx context.Context, orderID string) error {
	return e.publish(ctx, "order.created", orderID, e.bus.PublishOrderCreated)
}

func (e *ObservableEventBus) PublishOrderModified(ctx context.Context, orderID string) error {
	return e.publish(ctx, "order.modified", orderID, e.bus.PublishOrderModified)
}

func (e *ObservableEventBus) PublishOrderCancelled(ctx context.Context, orderID string) error {
	return e.publish(ctx, "order.cancelled", orderID, e.bus.PublishOrderCancelled)
}

func (e *ObservableEventBus) publish(ctx context.Context, topic, orderID string, fn func(context.Context, string) error) error {
	ctx, span := telemetry.StartSpan(ctx, "EventBus.Publish")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", orderID),
		attribute.String("event.type", topic),
		attribute.String("topic", topic),
	)

	start := time.Now()
	err := fn(ctx, orderID)
	duration := time.Since(start).Seconds()

	e.metrics.RecordPublish(ctx, topic, duration, err == nil)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}
