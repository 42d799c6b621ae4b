package commands

import (
	"context"
	"fmt"

	"github.com/dejobratic/staffstore/internal/purchase/domain"
	"github.com/dejobratic/staffstore/internal/purchase/ports"
)

// applyQuantities adjusts stock by sign·quantity for every item, in order.
// If an adjustment fails part-way, the adjustments already applied are
// reverted before the error returns, so no partial application is ever
// observable after a failure.
func applyQuantities(ctx context.Context, catalog ports.CatalogRepository, items []domain.OrderItem, sign int) error {
	for i, item := range items {
		if _, err := catalog.AdjustStock(ctx, item.ProductID, sign*item.Quantity); err != nil {
			revertQuantities(ctx, catalog, items[:i], sign)
			return fmt.Errorf("adjust stock for %s: %w", item.ProductID, err)
		}
	}
	return nil
}

// revertQuantities undoes a prefix of applyQuantities. Errors here mean the
// store itself is failing mid-compensation; there is nothing better to do
// than keep reverting the remaining items.
func revertQuantities(ctx context.Context, catalog ports.CatalogRepository, items []domain.OrderItem, sign int) {
	for _, item := range items {
		_, _ = catalog.AdjustStock(ctx, item.ProductID, -sign*item.Quantity)
	}
}
