package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dejobratic/staffstore/internal/purchase/domain"
	"github.com/dejobratic/staffstore/internal/purchase/ports"
)

// CancelOrderCommand withdraws an order, returning every quantity it held.
type CancelOrderCommand struct {
	OrderID string
}

// Validate rejects malformed input before any state is read or written.
func (c CancelOrderCommand) Validate() error {
	if strings.TrimSpace(c.OrderID) == "" {
		return &domain.ValidationError{Field: "order_id", Reason: "is required"}
	}
	return nil
}

// CancelHandler is implemented by the core handler and its observable decorator.
type CancelHandler interface {
	Handle(ctx context.Context, cmd CancelOrderCommand) (*domain.Order, error)
}

type CancelOrderCommandHandler struct {
	catalog ports.CatalogRepository
	orders  ports.OrderRepository
	events  ports.EventBus
	locks   *EntityLocks
}

func NewCancelOrderCommandHandler(
	catalog ports.CatalogRepository,
	orders ports.OrderRepository,
	events ports.EventBus,
	locks *EntityLocks,
) *CancelOrderCommandHandler {
	return &CancelOrderCommandHandler{
		catalog: catalog,
		orders:  orders,
		events:  events,
		locks:   locks,
	}
}

// Handle restores the cancelled order's quantities and removes the order.
// Cancelling a nonexistent order fails with ErrOrderNotFound, never
// silently. Returns the order as it was before cancellation.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*domain.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	releaseOrder := h.locks.Acquire(orderKey(cmd.OrderID))
	defer releaseOrder()

	order, err := h.orders.GetByID(ctx, cmd.OrderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("load order: %w", err)
	}

	releaseProducts := h.locks.Acquire(productKeys(itemProductIDs(order.Items))...)
	defer releaseProducts()

	if err := applyQuantities(ctx, h.catalog, order.Items, +1); err != nil {
		return nil, err
	}

	if err := h.orders.Delete(ctx, order.ID); err != nil {
		revertQuantities(ctx, h.catalog, order.Items, +1)
		return nil, fmt.Errorf("delete order: %w", err)
	}

	_ = h.events.PublishOrderCancelled(ctx, order.ID)

	return order, nil
}
