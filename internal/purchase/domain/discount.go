package domain

import "math"

// Discount is the outcome of the tiered cash-only discount computation.
type Discount struct {
	Rate         float64 `json:"rate"`
	Label        string  `json:"label"`
	SavingsCents int64   `json:"savings_cents"`
	TotalCents   int64   `json:"total_cents"`
}

const (
	rateFull       = 1.0
	rateOneItem    = 0.85
	rateTwoItems   = 0.80
	rateThreePlus  = 0.75
	labelNone      = "no discount"
	labelVoucher   = "voucher payment, no discount"
	labelOneItem   = "15% off"
	labelTwoItems  = "20% off"
	labelThreePlus = "25% off"
)

// ComputeDiscount derives the discount rate, the cash savings, and the
// final payable amount. Any voucher usage disables the discount outright;
// otherwise the rate steps down with the total unit count. Savings round
// to the nearest cent.
func ComputeDiscount(totalItems int, voucherCents, originalCents int64) Discount {
	rate, label := discountRate(totalItems, voucherCents)
	savings := int64(math.Round(float64(originalCents) * (1 - rate)))
	return Discount{
		Rate:         rate,
		Label:        label,
		SavingsCents: savings,
		TotalCents:   originalCents - savings,
	}
}

func discountRate(totalItems int, voucherCents int64) (float64, string) {
	if voucherCents > 0 {
		return rateFull, labelVoucher
	}
	switch {
	case totalItems <= 0:
		return rateFull, labelNone
	case totalItems == 1:
		return rateOneItem, labelOneItem
	case totalItems == 2:
		return rateTwoItems, labelTwoItems
	default:
		return rateThreePlus, labelThreePlus
	}
}
