package ports

import "context"

// EventBus defines the contract for publishing order lifecycle events.
// Publish failures never fail the lifecycle operation that produced them.
type EventBus interface {
	PublishOrderCreated(ctx context.Context, orderID string) error
	PublishOrderModified(ctx context.Context, orderID string) error
	PublishOrderCancelled(ctx context.Context, orderID string) error
}
