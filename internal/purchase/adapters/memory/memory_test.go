package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dejobratic/staffstore/internal/purchase/adapters/memory"
	"github.com/dejobratic/staffstore/internal/purchase/domain"
	"github.com/dejobratic/staffstore/internal/purchase/ports"
)

func product(id string, stock int) domain.Product {
	return domain.Product{
		ID:         id,
		Name:       "product " + id,
		PriceCents: 100,
		Stock:      stock,
		CreatedAt:  time.Now().UTC(),
	}
}

func order(id, user string, items ...domain.OrderItem) domain.Order {
	totalItems, original := domain.Totals(items)
	return domain.Order{
		ID:            id,
		UserName:      user,
		Items:         items,
		TotalItems:    totalItems,
		OriginalCents: original,
		DiscountRate:  1.0,
		TotalCents:    original,
		PaymentMethod: domain.PaymentCash,
		CashCents:     original,
		CreatedAt:     time.Now().UTC(),
	}
}

func TestCatalogAdjustStock(t *testing.T) {
	ctx := context.Background()

	t.Run("applies positive and negative deltas", func(t *testing.T) {
		repo := memory.NewCatalogRepository()
		if err := repo.Upsert(ctx, product("p1", 5)); err != nil {
			t.Fatalf("upsert: %v", err)
		}

		newStock, err := repo.AdjustStock(ctx, "p1", -3)
		if err != nil {
			t.Fatalf("deduct: %v", err)
		}
		if newStock != 2 {
			t.Errorf("expected 2, got %d", newStock)
		}

		newStock, err = repo.AdjustStock(ctx, "p1", 4)
		if err != nil {
			t.Fatalf("restore: %v", err)
		}
		if newStock != 6 {
			t.Errorf("expected 6, got %d", newStock)
		}
	})

	t.Run("refuses to go negative", func(t *testing.T) {
		repo := memory.NewCatalogRepository()
		if err := repo.Upsert(ctx, product("p1", 2)); err != nil {
			t.Fatalf("upsert: %v", err)
		}

		_, err := repo.AdjustStock(ctx, "p1", -3)
		var stockErr *domain.InsufficientStockError
		if !errors.As(err, &stockErr) {
			t.Fatalf("expected InsufficientStockError, got: %v", err)
		}
		if stockErr.Requested != 3 || stockErr.Available != 2 {
			t.Errorf("unexpected breakdown: %+v", stockErr)
		}

		p, err := repo.GetByID(ctx, "p1")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if p.Stock != 2 {
			t.Errorf("stock must be unchanged, got %d", p.Stock)
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		repo := memory.NewCatalogRepository()
		_, err := repo.AdjustStock(ctx, "ghost", 1)
		if !errors.Is(err, domain.ErrProductNotFound) {
			t.Fatalf("expected ErrProductNotFound, got: %v", err)
		}
	})
}

func TestOrderRepositoryPurchasedQuantity(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOrderRepository()

	seed := []domain.Order{
		order("o1", "alice", domain.OrderItem{ProductID: "p1", UnitPriceCents: 100, Quantity: 2}),
		order("o2", "alice",
			domain.OrderItem{ProductID: "p1", UnitPriceCents: 100, Quantity: 3},
			domain.OrderItem{ProductID: "p2", UnitPriceCents: 100, Quantity: 1},
		),
		order("o3", "bob", domain.OrderItem{ProductID: "p1", UnitPriceCents: 100, Quantity: 7}),
	}
	for _, o := range seed {
		if err := repo.Create(ctx, o); err != nil {
			t.Fatalf("create %s: %v", o.ID, err)
		}
	}

	t.Run("sums across the user's orders only", func(t *testing.T) {
		got, err := repo.PurchasedQuantity(ctx, "alice", "p1", "")
		if err != nil {
			t.Fatalf("purchased quantity: %v", err)
		}
		if got != 5 {
			t.Errorf("expected 5, got %d", got)
		}
	})

	t.Run("excludes one order on request", func(t *testing.T) {
		got, err := repo.PurchasedQuantity(ctx, "alice", "p1", "o2")
		if err != nil {
			t.Fatalf("purchased quantity: %v", err)
		}
		if got != 2 {
			t.Errorf("expected 2, got %d", got)
		}
	})

	t.Run("zero for unseen product", func(t *testing.T) {
		got, err := repo.PurchasedQuantity(ctx, "alice", "ghost", "")
		if err != nil {
			t.Fatalf("purchased quantity: %v", err)
		}
		if got != 0 {
			t.Errorf("expected 0, got %d", got)
		}
	})
}

func TestOrderRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOrderRepository()

	o := order("o1", "alice", domain.OrderItem{ProductID: "p1", UnitPriceCents: 100, Quantity: 2})
	if err := repo.Create(ctx, o); err != nil {
		t.Fatalf("create: %v", err)
	}

	t.Run("get returns an isolated copy", func(t *testing.T) {
		got, err := repo.GetByID(ctx, "o1")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		got.Items[0].Quantity = 99

		again, err := repo.GetByID(ctx, "o1")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if again.Items[0].Quantity != 2 {
			t.Errorf("stored order must not alias callers, got quantity %d", again.Items[0].Quantity)
		}
	})

	t.Run("update requires existence", func(t *testing.T) {
		missing := order("ghost", "alice", domain.OrderItem{ProductID: "p1", UnitPriceCents: 100, Quantity: 1})
		if err := repo.Update(ctx, missing); !errors.Is(err, domain.ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got: %v", err)
		}
	})

	t.Run("delete then get fails", func(t *testing.T) {
		if err := repo.Delete(ctx, "o1"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := repo.GetByID(ctx, "o1"); !errors.Is(err, domain.ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got: %v", err)
		}
		if err := repo.Delete(ctx, "o1"); !errors.Is(err, domain.ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound on repeat delete, got: %v", err)
		}
	})
}

func TestOrderRepositoryList(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOrderRepository()

	base := time.Now().UTC()
	for i, id := range []string{"o1", "o2", "o3"} {
		o := order(id, "alice", domain.OrderItem{ProductID: "p1", UnitPriceCents: 100, Quantity: 1})
		o.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := repo.Create(ctx, o); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	orders, err := repo.List(ctx, ports.OrderFilter{UserName: "alice", Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	if orders[0].ID != "o3" {
		t.Errorf("expected newest first, got %s", orders[0].ID)
	}
}
