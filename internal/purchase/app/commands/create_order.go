package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dejobratic/staffstore/internal/purchase/domain"
	"github.com/dejobratic/staffstore/internal/purchase/ports"
	"github.com/google/uuid"
)

// CreateOrderCommand captures a checkout request: the cart contents plus
// the declared cash and voucher amounts.
type CreateOrderCommand struct {
	UserName     string
	Items        []domain.ItemRequest
	CashCents    int64
	VoucherCents int64
}

// Validate rejects malformed input before any state is read or written.
func (c CreateOrderCommand) Validate() error {
	if strings.TrimSpace(c.UserName) == "" {
		return &domain.ValidationError{Field: "user_name", Reason: "is required"}
	}
	if len(c.Items) == 0 {
		return &domain.ValidationError{Field: "items", Reason: "must not be empty"}
	}
	if c.CashCents < 0 {
		return &domain.ValidationError{Field: "cash_cents", Reason: "must not be negative"}
	}
	if c.VoucherCents < 0 {
		return &domain.ValidationError{Field: "voucher_cents", Reason: "must not be negative"}
	}
	return validateItemRequests(c.Items)
}

// CreateHandler is implemented by the core handler and its observable decorator.
type CreateHandler interface {
	Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error)
}

type CreateOrderCommandHandler struct {
	catalog ports.CatalogRepository
	orders  ports.OrderRepository
	events  ports.EventBus
	locks   *EntityLocks
}

func NewCreateOrderCommandHandler(
	catalog ports.CatalogRepository,
	orders ports.OrderRepository,
	events ports.EventBus,
	locks *EntityLocks,
) *CreateOrderCommandHandler {
	return &CreateOrderCommandHandler{
		catalog: catalog,
		orders:  orders,
		events:  events,
		locks:   locks,
	}
}

// Handle runs the checkout sequence: validate everything first, then
// persist the order and deduct stock. Steps 1-5 never mutate anything;
// a failed deduction compensates whatever it already applied and removes
// the order row again.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	release := h.locks.Acquire(productKeys(requestProductIDs(cmd.Items))...)
	defer release()

	items, products, err := snapshotItems(ctx, h.catalog, cmd.Items)
	if err != nil {
		return nil, err
	}

	if err := checkStock(items, products); err != nil {
		return nil, err
	}

	if err := checkQuotas(ctx, h.orders, cmd.UserName, items, products, ""); err != nil {
		return nil, err
	}

	totalItems, originalCents, discount, method, err := priceOrder(items, cmd.CashCents, cmd.VoucherCents)
	if err != nil {
		return nil, err
	}

	order := domain.Order{
		ID:            uuid.NewString(),
		UserName:      cmd.UserName,
		Items:         items,
		TotalItems:    totalItems,
		OriginalCents: originalCents,
		DiscountRate:  discount.Rate,
		DiscountLabel: discount.Label,
		SavingsCents:  discount.SavingsCents,
		TotalCents:    discount.TotalCents,
		PaymentMethod: method,
		CashCents:     cmd.CashCents,
		VoucherCents:  cmd.VoucherCents,
		CreatedAt:     time.Now().UTC(),
	}

	if err := order.Validate(); err != nil {
		return nil, err
	}

	if err := h.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	if err := applyQuantities(ctx, h.catalog, order.Items, -1); err != nil {
		_ = h.orders.Delete(ctx, order.ID)
		return nil, err
	}

	// Event delivery is best effort; failures are recorded by the bus
	// decorator and never fail a committed order.
	_ = h.events.PublishOrderCreated(ctx, order.ID)

	return &order, nil
}
