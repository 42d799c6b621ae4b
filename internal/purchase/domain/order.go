package domain

import (
	"strings"
	"time"
)

// PaymentMethod is derived from which payment channels carry a positive
// amount; it is never supplied by the caller.
type PaymentMethod string

const (
	PaymentMixed   PaymentMethod = "mixed"
	PaymentCash    PaymentMethod = "cash"
	PaymentVoucher PaymentMethod = "voucher"
	PaymentNone    PaymentMethod = "none"
)

// DerivePaymentMethod classifies a payment by its positive channels.
func DerivePaymentMethod(cashCents, voucherCents int64) PaymentMethod {
	switch {
	case cashCents > 0 && voucherCents > 0:
		return PaymentMixed
	case cashCents > 0:
		return PaymentCash
	case voucherCents > 0:
		return PaymentVoucher
	default:
		return PaymentNone
	}
}

// ItemRequest is a caller's ask for a product, before catalog snapshots
// are taken. Cart contents and order edits both arrive in this shape.
type ItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// OrderItem is an order line with the product name and unit price
// snapshotted at the time the order was created or last modified.
type OrderItem struct {
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`
}

// Order is a committed purchase. The amount fields are all recomputed
// from Items on every create and modify, never carried over.
type Order struct {
	ID            string        `json:"id"`
	UserName      string        `json:"user_name"`
	Items         []OrderItem   `json:"items"`
	TotalItems    int           `json:"total_items"`
	OriginalCents int64         `json:"original_cents"`
	DiscountRate  float64       `json:"discount_rate"`
	DiscountLabel string        `json:"discount_label"`
	SavingsCents  int64         `json:"savings_cents"`
	TotalCents    int64         `json:"total_cents"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	CashCents     int64         `json:"cash_cents"`
	VoucherCents  int64         `json:"voucher_cents"`
	CreatedAt     time.Time     `json:"created_at"`
	ModifiedAt    *time.Time    `json:"modified_at,omitempty"`
}

// Validate checks the invariants an active order must hold.
func (o Order) Validate() error {
	if strings.TrimSpace(o.ID) == "" {
		return &ValidationError{Field: "id", Reason: "is required"}
	}
	if strings.TrimSpace(o.UserName) == "" {
		return &ValidationError{Field: "user_name", Reason: "is required"}
	}
	if len(o.Items) == 0 {
		return &ValidationError{Field: "items", Reason: "must not be empty"}
	}
	for _, item := range o.Items {
		if item.Quantity <= 0 {
			return &ValidationError{Field: "items", Reason: "quantity must be positive"}
		}
		if item.UnitPriceCents < 0 {
			return &ValidationError{Field: "items", Reason: "unit price must not be negative"}
		}
	}
	if o.TotalCents != o.OriginalCents-o.SavingsCents {
		return &ValidationError{Field: "total_cents", Reason: "must equal original minus savings"}
	}
	if o.CashCents+o.VoucherCents < o.TotalCents {
		return &ValidationError{Field: "payment", Reason: "must cover the payable amount"}
	}
	return nil
}

// Totals sums quantity and price over a prospective item list.
func Totals(items []OrderItem) (totalItems int, originalCents int64) {
	for _, item := range items {
		totalItems += item.Quantity
		originalCents += item.UnitPriceCents * int64(item.Quantity)
	}
	return totalItems, originalCents
}
