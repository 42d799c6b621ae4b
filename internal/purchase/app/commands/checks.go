package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/dejobratic/staffstore/internal/purchase/domain"
	"github.com/dejobratic/staffstore/internal/purchase/ports"
)

// snapshotItems resolves each requested product against the catalog and
// builds order lines carrying name and unit-price snapshots. Unknown
// products are a validation failure, not a storage one.
func snapshotItems(
	ctx context.Context,
	catalog ports.CatalogRepository,
	requests []domain.ItemRequest,
) ([]domain.OrderItem, map[string]*domain.Product, error) {
	items := make([]domain.OrderItem, 0, len(requests))
	products := make(map[string]*domain.Product, len(requests))

	for _, req := range requests {
		product, ok := products[req.ProductID]
		if !ok {
			var err error
			product, err = catalog.GetByID(ctx, req.ProductID)
			if err != nil {
				if errors.Is(err, domain.ErrProductNotFound) {
					return nil, nil, &domain.ValidationError{
						Field:  "items",
						Reason: fmt.Sprintf("unknown product %q", req.ProductID),
					}
				}
				return nil, nil, fmt.Errorf("load product %s: %w", req.ProductID, err)
			}
			products[req.ProductID] = product
		}

		items = append(items, domain.OrderItem{
			ProductID:      product.ID,
			ProductName:    product.Name,
			UnitPriceCents: product.PriceCents,
			Quantity:       req.Quantity,
		})
	}

	return items, products, nil
}

// checkStock verifies that the aggregate requested quantity per product
// fits within its current stock, before anything is deducted.
func checkStock(items []domain.OrderItem, products map[string]*domain.Product) error {
	requested := make(map[string]int, len(products))
	for _, item := range items {
		requested[item.ProductID] += item.Quantity
	}

	for _, item := range items {
		product := products[item.ProductID]
		if total := requested[item.ProductID]; total > product.Stock {
			return &domain.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   total,
				Available:   product.Stock,
			}
		}
	}
	return nil
}

// checkQuotas runs the quota decision for every limited item. The in-flight
// quantity for a line is whatever the same product holds elsewhere in the
// same request; historical quantity is derived by scanning the order set,
// excluding excludeOrderID when an existing order is being edited.
func checkQuotas(
	ctx context.Context,
	orders ports.OrderRepository,
	userName string,
	items []domain.OrderItem,
	products map[string]*domain.Product,
	excludeOrderID string,
) error {
	for i, item := range items {
		product := products[item.ProductID]
		if product.PurchaseLimit <= 0 {
			continue
		}

		inFlight := 0
		for j, other := range items {
			if j != i && other.ProductID == item.ProductID {
				inFlight += other.Quantity
			}
		}

		historical, err := orders.PurchasedQuantity(ctx, userName, item.ProductID, excludeOrderID)
		if err != nil {
			return fmt.Errorf("purchase history for %s: %w", item.ProductID, err)
		}

		if err := domain.CheckQuota(item.ProductID, historical, inFlight, item.Quantity, product.PurchaseLimit); err != nil {
			return err
		}
	}
	return nil
}

// priceOrder recomputes totals and discount from the current item list and
// validates payment sufficiency. Overpayment is permitted and recorded.
func priceOrder(items []domain.OrderItem, cashCents, voucherCents int64) (int, int64, domain.Discount, domain.PaymentMethod, error) {
	totalItems, originalCents := domain.Totals(items)
	discount := domain.ComputeDiscount(totalItems, voucherCents, originalCents)

	if provided := cashCents + voucherCents; provided < discount.TotalCents {
		return 0, 0, domain.Discount{}, "", &domain.InsufficientPaymentError{
			RequiredCents: discount.TotalCents,
			ProvidedCents: provided,
		}
	}

	return totalItems, originalCents, discount, domain.DerivePaymentMethod(cashCents, voucherCents), nil
}

func validateItemRequests(requests []domain.ItemRequest) error {
	for _, req := range requests {
		if req.ProductID == "" {
			return &domain.ValidationError{Field: "items", Reason: "product_id is required"}
		}
		if req.Quantity <= 0 {
			return &domain.ValidationError{Field: "items", Reason: "quantity must be positive"}
		}
	}
	return nil
}

func requestProductIDs(requests []domain.ItemRequest) []string {
	seen := make(map[string]struct{}, len(requests))
	ids := make([]string, 0, len(requests))
	for _, req := range requests {
		if _, ok := seen[req.ProductID]; ok {
			continue
		}
		seen[req.ProductID] = struct{}{}
		ids = append(ids, req.ProductID)
	}
	return ids
}

func itemProductIDs(items []domain.OrderItem) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}
