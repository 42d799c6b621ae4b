package domain_test

import (
	"testing"

	"github.com/dejobratic/staffstore/internal/purchase/domain"
)

func TestComputeDiscountRates(t *testing.T) {
	tests := []struct {
		name         string
		totalItems   int
		voucherCents int64
		wantRate     float64
	}{
		{name: "no items", totalItems: 0, wantRate: 1.0},
		{name: "one item", totalItems: 1, wantRate: 0.85},
		{name: "two items", totalItems: 2, wantRate: 0.80},
		{name: "three items", totalItems: 3, wantRate: 0.75},
		{name: "ten items", totalItems: 10, wantRate: 0.75},
		{name: "voucher disables discount for one item", totalItems: 1, voucherCents: 1, wantRate: 1.0},
		{name: "voucher disables discount for many items", totalItems: 10, voucherCents: 500, wantRate: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := domain.ComputeDiscount(tt.totalItems, tt.voucherCents, 10000)
			if d.Rate != tt.wantRate {
				t.Errorf("expected rate %v, got %v", tt.wantRate, d.Rate)
			}
		})
	}
}

func TestComputeDiscountAmounts(t *testing.T) {
	t.Run("savings and total derive from the rate", func(t *testing.T) {
		d := domain.ComputeDiscount(2, 0, 10000)
		if d.SavingsCents != 2000 {
			t.Errorf("expected savings 2000, got %d", d.SavingsCents)
		}
		if d.TotalCents != 8000 {
			t.Errorf("expected total 8000, got %d", d.TotalCents)
		}
	})

	t.Run("total always equals original minus savings", func(t *testing.T) {
		for items := 0; items <= 5; items++ {
			for _, original := range []int64{0, 1, 99, 101, 9999} {
				d := domain.ComputeDiscount(items, 0, original)
				if d.TotalCents != original-d.SavingsCents {
					t.Fatalf("items=%d original=%d: total %d != original %d - savings %d",
						items, original, d.TotalCents, original, d.SavingsCents)
				}
			}
		}
	})

	t.Run("savings round to the nearest cent", func(t *testing.T) {
		// 101 * 0.15 = 15.15, rounds to 15.
		d := domain.ComputeDiscount(1, 0, 101)
		if d.SavingsCents != 15 {
			t.Errorf("expected savings 15, got %d", d.SavingsCents)
		}
		if d.TotalCents != 86 {
			t.Errorf("expected total 86, got %d", d.TotalCents)
		}
	})

	t.Run("voucher payment keeps the full amount payable", func(t *testing.T) {
		d := domain.ComputeDiscount(3, 100, 10000)
		if d.SavingsCents != 0 {
			t.Errorf("expected no savings, got %d", d.SavingsCents)
		}
		if d.TotalCents != 10000 {
			t.Errorf("expected total 10000, got %d", d.TotalCents)
		}
	})
}
