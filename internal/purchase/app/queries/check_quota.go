package queries

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dejobratic/staffstore/internal/purchase/domain"
	"github.com/dejobratic/staffstore/internal/purchase/ports"
)

// CheckQuotaQuery is an incremental pre-check: would adding this quantity,
// on top of what the cart already holds in flight, still fit within the
// product's purchase limit? It reads but never mutates.
type CheckQuotaQuery struct {
	UserName  string
	ProductID string
	InFlight  int
	Requested int
}

// Validate ensures the query has valid parameters.
func (q CheckQuotaQuery) Validate() error {
	if strings.TrimSpace(q.UserName) == "" {
		return &domain.ValidationError{Field: "user_name", Reason: "is required"}
	}
	if strings.TrimSpace(q.ProductID) == "" {
		return &domain.ValidationError{Field: "product_id", Reason: "is required"}
	}
	if q.InFlight < 0 {
		return &domain.ValidationError{Field: "in_flight", Reason: "must not be negative"}
	}
	if q.Requested <= 0 {
		return &domain.ValidationError{Field: "requested", Reason: "must be positive"}
	}
	return nil
}

// QuotaStatus reports the full accounting behind an admit/reject decision;
// callers need the breakdown, not just the verdict.
type QuotaStatus struct {
	Allowed    bool `json:"allowed"`
	Historical int  `json:"historical"`
	InFlight   int  `json:"in_flight"`
	Requested  int  `json:"requested"`
	Limit      int  `json:"limit"`
}

// CheckQuotaQueryHandler executes CheckQuotaQuery.
type CheckQuotaQueryHandler struct {
	catalog ports.CatalogRepository
	orders  ports.OrderRepository
}

// NewCheckQuotaQueryHandler constructs a CheckQuotaQueryHandler.
func NewCheckQuotaQueryHandler(catalog ports.CatalogRepository, orders ports.OrderRepository) *CheckQuotaQueryHandler {
	return &CheckQuotaQueryHandler{catalog: catalog, orders: orders}
}

// Handle derives the user's historical quantity and runs the quota decision.
func (h *CheckQuotaQueryHandler) Handle(ctx context.Context, query CheckQuotaQuery) (*QuotaStatus, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	product, err := h.catalog.GetByID(ctx, query.ProductID)
	if err != nil {
		return nil, err
	}

	historical := 0
	if product.PurchaseLimit > 0 {
		historical, err = h.orders.PurchasedQuantity(ctx, query.UserName, query.ProductID, "")
		if err != nil {
			return nil, fmt.Errorf("purchase history for %s: %w", query.ProductID, err)
		}
	}

	status := &QuotaStatus{
		Allowed:    true,
		Historical: historical,
		InFlight:   query.InFlight,
		Requested:  query.Requested,
		Limit:      product.PurchaseLimit,
	}

	if err := domain.CheckQuota(query.ProductID, historical, query.InFlight, query.Requested, product.PurchaseLimit); err != nil {
		var quotaErr *domain.QuotaExceededError
		if errors.As(err, &quotaErr) {
			status.Allowed = false
			return status, nil
		}
		return nil, err
	}

	return status, nil
}
