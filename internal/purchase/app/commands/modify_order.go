package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dejobratic/staffstore/internal/purchase/domain"
	"github.com/dejobratic/staffstore/internal/purchase/ports"
)

// ModifyOrderCommand replaces an active order's items and payment. An empty
// item list is equivalent to cancelling the order.
type ModifyOrderCommand struct {
	OrderID      string
	Items        []domain.ItemRequest
	CashCents    int64
	VoucherCents int64
}

// Validate rejects malformed input before any state is read or written.
func (c ModifyOrderCommand) Validate() error {
	if strings.TrimSpace(c.OrderID) == "" {
		return &domain.ValidationError{Field: "order_id", Reason: "is required"}
	}
	if c.CashCents < 0 {
		return &domain.ValidationError{Field: "cash_cents", Reason: "must not be negative"}
	}
	if c.VoucherCents < 0 {
		return &domain.ValidationError{Field: "voucher_cents", Reason: "must not be negative"}
	}
	return validateItemRequests(c.Items)
}

// ModifyOutcome reports what a modification did. Order is nil when the
// edit emptied the item list and the order was removed.
type ModifyOutcome struct {
	Order     *domain.Order
	Cancelled bool
}

// ModifyHandler is implemented by the core handler and its observable decorator.
type ModifyHandler interface {
	Handle(ctx context.Context, cmd ModifyOrderCommand) (*ModifyOutcome, error)
}

type ModifyOrderCommandHandler struct {
	catalog ports.CatalogRepository
	orders  ports.OrderRepository
	events  ports.EventBus
	locks   *EntityLocks
}

func NewModifyOrderCommandHandler(
	catalog ports.CatalogRepository,
	orders ports.OrderRepository,
	events ports.EventBus,
	locks *EntityLocks,
) *ModifyOrderCommandHandler {
	return &ModifyOrderCommandHandler{
		catalog: catalog,
		orders:  orders,
		events:  events,
		locks:   locks,
	}
}

// Handle edits an order in two explicit stock phases: restoreStock first
// returns every reserved quantity so validation sees true availability
// (and quantity can shift between items in one edit), then the new
// quantities are deducted. Every failure after the restore re-deducts the
// original quantities before surfacing, so a failed edit never leaves
// phantom available stock.
func (h *ModifyOrderCommandHandler) Handle(ctx context.Context, cmd ModifyOrderCommand) (*ModifyOutcome, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	releaseOrder := h.locks.Acquire(orderKey(cmd.OrderID))
	defer releaseOrder()

	current, err := h.orders.GetByID(ctx, cmd.OrderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("load order: %w", err)
	}

	involved := itemProductIDs(current.Items)
	involved = append(involved, requestProductIDs(cmd.Items)...)
	releaseProducts := h.locks.Acquire(productKeys(involved)...)
	defer releaseProducts()

	if err := h.restoreStock(ctx, current.Items); err != nil {
		return nil, err
	}

	outcome, err := h.applyEdit(ctx, current, cmd)
	if err != nil {
		if redeductErr := h.redeductStock(ctx, current.Items); redeductErr != nil {
			return nil, fmt.Errorf("rollback after failed edit: %w (edit failed: %w)", redeductErr, err)
		}
		return nil, err
	}

	return outcome, nil
}

// restoreStock is the first phase of an edit: it returns every quantity the
// order holds back to the catalog.
func (h *ModifyOrderCommandHandler) restoreStock(ctx context.Context, items []domain.OrderItem) error {
	return applyQuantities(ctx, h.catalog, items, +1)
}

// redeductStock is the compensating phase: it re-deducts the original
// quantities after a failed edit, restoring the pre-edit stock state.
func (h *ModifyOrderCommandHandler) redeductStock(ctx context.Context, items []domain.OrderItem) error {
	return applyQuantities(ctx, h.catalog, items, -1)
}

// applyEdit runs with the original quantities already restored. Any error
// return triggers redeductStock in the caller.
func (h *ModifyOrderCommandHandler) applyEdit(ctx context.Context, current *domain.Order, cmd ModifyOrderCommand) (*ModifyOutcome, error) {
	if len(cmd.Items) == 0 {
		// Stock is already restored; removing the order completes the
		// cancellation.
		if err := h.orders.Delete(ctx, current.ID); err != nil {
			return nil, fmt.Errorf("delete emptied order: %w", err)
		}
		_ = h.events.PublishOrderCancelled(ctx, current.ID)
		return &ModifyOutcome{Cancelled: true}, nil
	}

	items, products, err := snapshotItems(ctx, h.catalog, cmd.Items)
	if err != nil {
		return nil, err
	}

	if err := checkStock(items, products); err != nil {
		return nil, err
	}

	if err := checkQuotas(ctx, h.orders, current.UserName, items, products, current.ID); err != nil {
		return nil, err
	}

	totalItems, originalCents, discount, method, err := priceOrder(items, cmd.CashCents, cmd.VoucherCents)
	if err != nil {
		return nil, err
	}

	if err := applyQuantities(ctx, h.catalog, items, -1); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	updated := *current
	updated.Items = items
	updated.TotalItems = totalItems
	updated.OriginalCents = originalCents
	updated.DiscountRate = discount.Rate
	updated.DiscountLabel = discount.Label
	updated.SavingsCents = discount.SavingsCents
	updated.TotalCents = discount.TotalCents
	updated.PaymentMethod = method
	updated.CashCents = cmd.CashCents
	updated.VoucherCents = cmd.VoucherCents
	updated.ModifiedAt = &now

	if err := updated.Validate(); err != nil {
		revertQuantities(ctx, h.catalog, items, -1)
		return nil, err
	}

	if err := h.orders.Update(ctx, updated); err != nil {
		revertQuantities(ctx, h.catalog, items, -1)
		return nil, fmt.Errorf("persist modified order: %w", err)
	}

	_ = h.events.PublishOrderModified(ctx, updated.ID)

	return &ModifyOutcome{Order: &updated}, nil
}
