package queries

import (
	"context"

	"github.com/dejobratic/staffstore/internal/purchase/domain"
	"github.com/dejobratic/staffstore/internal/purchase/ports"
)

// ListOrdersQueryHandler returns orders matching a filter.
type ListOrdersQueryHandler struct {
	orders ports.OrderRepository
}

// NewListOrdersQueryHandler constructs a ListOrdersQueryHandler.
func NewListOrdersQueryHandler(orders ports.OrderRepository) *ListOrdersQueryHandler {
	return &ListOrdersQueryHandler{orders: orders}
}

// Handle executes the list query.
func (h *ListOrdersQueryHandler) Handle(ctx context.Context, filter ports.OrderFilter) ([]domain.Order, error) {
	return h.orders.List(ctx, filter)
}
