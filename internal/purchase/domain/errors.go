package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrProductNotFound is returned when the requested product does not exist.
	ErrProductNotFound = errors.New("product not found")

	// ErrOrderNotFound is returned when the requested order does not exist.
	ErrOrderNotFound = errors.New("order not found")
)

// ValidationError reports malformed input before any state is touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// InsufficientStockError names the product whose stock cannot cover a request.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}

// QuotaExceededError carries the full accounting that drove a rejection.
// Callers surface the breakdown, not just the verdict.
type QuotaExceededError struct {
	ProductID  string
	Historical int
	InFlight   int
	Requested  int
	Limit      int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("purchase limit exceeded for product %s: historical %d + in-flight %d + requested %d > limit %d",
		e.ProductID, e.Historical, e.InFlight, e.Requested, e.Limit)
}

// InsufficientPaymentError reports the shortfall between the payable
// amount and what the caller offered.
type InsufficientPaymentError struct {
	RequiredCents int64
	ProvidedCents int64
}

func (e *InsufficientPaymentError) Error() string {
	return fmt.Sprintf("insufficient payment: required %d, provided %d (short %d)",
		e.RequiredCents, e.ProvidedCents, e.RequiredCents-e.ProvidedCents)
}
