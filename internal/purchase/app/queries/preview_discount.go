package queries

import (
	"github.com/dejobratic/staffstore/internal/purchase/domain"
)

// PreviewDiscountQuery asks what a cart would cost with the tiered
// discount applied; used for live price previews before checkout.
type PreviewDiscountQuery struct {
	TotalItems    int
	VoucherCents  int64
	OriginalCents int64
}

// Validate ensures the query has valid parameters.
func (q PreviewDiscountQuery) Validate() error {
	if q.TotalItems < 0 {
		return &domain.ValidationError{Field: "total_items", Reason: "must not be negative"}
	}
	if q.VoucherCents < 0 {
		return &domain.ValidationError{Field: "voucher_cents", Reason: "must not be negative"}
	}
	if q.OriginalCents < 0 {
		return &domain.ValidationError{Field: "original_cents", Reason: "must not be negative"}
	}
	return nil
}

// PreviewDiscountQueryHandler executes PreviewDiscountQuery. The
// computation is pure; the handler exists so the HTTP facade treats it
// like every other query.
type PreviewDiscountQueryHandler struct{}

// NewPreviewDiscountQueryHandler constructs a PreviewDiscountQueryHandler.
func NewPreviewDiscountQueryHandler() *PreviewDiscountQueryHandler {
	return &PreviewDiscountQueryHandler{}
}

// Handle computes the discount for the given cart shape.
func (h *PreviewDiscountQueryHandler) Handle(query PreviewDiscountQuery) (*domain.Discount, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	discount := domain.ComputeDiscount(query.TotalItems, query.VoucherCents, query.OriginalCents)
	return &discount, nil
}
