package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dejobratic/staffstore/internal/purchase/app/commands"
	"github.com/dejobratic/staffstore/internal/purchase/domain"
)

func TestModifyOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("restore then reapply lets a quantity grow past remaining stock", func(t *testing.T) {
		// Order holds 2 of P; visible stock 4 (6 originally). Raising the
		// quantity to 5 must pass because the restore phase first returns
		// the reserved 2.
		e := newEngine(t)
		e.seedProduct(t, "P", 500, 4, 0)
		orderID := seedOrder(t, e, "alice", "P", 2)

		outcome, err := e.modify.Handle(ctx, commands.ModifyOrderCommand{
			OrderID:   orderID,
			Items:     []domain.ItemRequest{{ProductID: "P", Quantity: 5}},
			CashCents: 10000,
		})
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if outcome.Cancelled {
			t.Fatal("expected order to survive the edit")
		}
		if outcome.Order.Items[0].Quantity != 5 {
			t.Errorf("expected quantity 5, got %d", outcome.Order.Items[0].Quantity)
		}
		if got := e.stock(t, "P"); got != 1 {
			t.Errorf("expected stock 1, got %d", got)
		}
	})

	t.Run("shifts quantity between items in one edit", func(t *testing.T) {
		e := newEngine(t)
		e.seedProduct(t, "a", 100, 0, 0)
		e.seedProduct(t, "b", 100, 3, 0)
		orderID := seedOrder(t, e, "alice", "a", 3)

		outcome, err := e.modify.Handle(ctx, commands.ModifyOrderCommand{
			OrderID: orderID,
			Items: []domain.ItemRequest{
				{ProductID: "a", Quantity: 1},
				{ProductID: "b", Quantity: 2},
			},
			CashCents: 10000,
		})
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if outcome.Order.TotalItems != 3 {
			t.Errorf("expected 3 total items, got %d", outcome.Order.TotalItems)
		}
		if got := e.stock(t, "a"); got != 2 {
			t.Errorf("expected a stock 2, got %d", got)
		}
		if got := e.stock(t, "b"); got != 1 {
			t.Errorf("expected b stock 1, got %d", got)
		}
	})

	t.Run("recomputes discount and payment from the new items", func(t *testing.T) {
		e := newEngine(t)
		e.seedProduct(t, "p1", 1000, 10, 0)
		orderID := seedOrder(t, e, "alice", "p1", 1)

		outcome, err := e.modify.Handle(ctx, commands.ModifyOrderCommand{
			OrderID:   orderID,
			Items:     []domain.ItemRequest{{ProductID: "p1", Quantity: 3}},
			CashCents: 2250,
		})
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if outcome.Order.DiscountRate != 0.75 {
			t.Errorf("expected rate 0.75, got %v", outcome.Order.DiscountRate)
		}
		if outcome.Order.TotalCents != 2250 {
			t.Errorf("expected total 2250, got %d", outcome.Order.TotalCents)
		}
		if outcome.Order.ModifiedAt == nil {
			t.Error("expected modified time to be set")
		}
	})

	t.Run("excludes the edited order from its own quota accounting", func(t *testing.T) {
		// alice already holds 2 of P inside this very order; limit 3.
		// Raising to 3 only passes if the order's own quantity is excluded.
		e := newEngine(t)
		e.seedProduct(t, "P", 500, 10, 3)
		orderID := seedOrder(t, e, "alice", "P", 2)

		_, err := e.modify.Handle(ctx, commands.ModifyOrderCommand{
			OrderID:   orderID,
			Items:     []domain.ItemRequest{{ProductID: "P", Quantity: 3}},
			CashCents: 10000,
		})
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
	})

	t.Run("still counts other orders against quota", func(t *testing.T) {
		e := newEngine(t)
		e.seedProduct(t, "P", 500, 10, 3)
		seedOrder(t, e, "alice", "P", 2)
		orderID := seedOrder(t, e, "alice", "P", 1)

		_, err := e.modify.Handle(ctx, commands.ModifyOrderCommand{
			OrderID:   orderID,
			Items:     []domain.ItemRequest{{ProductID: "P", Quantity: 2}},
			CashCents: 10000,
		})

		var quotaErr *domain.QuotaExceededError
		if !errors.As(err, &quotaErr) {
			t.Fatalf("expected QuotaExceededError, got: %v", err)
		}
		if quotaErr.Historical != 2 || quotaErr.Requested != 2 || quotaErr.Limit != 3 {
			t.Errorf("unexpected breakdown: %+v", quotaErr)
		}
	})

	t.Run("empty item list cancels the order", func(t *testing.T) {
		e := newEngine(t)
		e.seedProduct(t, "p1", 500, 3, 0)
		orderID := seedOrder(t, e, "alice", "p1", 2)

		outcome, err := e.modify.Handle(ctx, commands.ModifyOrderCommand{OrderID: orderID})
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if !outcome.Cancelled {
			t.Fatal("expected cancellation outcome")
		}
		if got := e.stock(t, "p1"); got != 5 {
			t.Errorf("expected stock fully restored to 5, got %d", got)
		}

		_, err = e.modify.Handle(ctx, commands.ModifyOrderCommand{
			OrderID:   orderID,
			Items:     []domain.ItemRequest{{ProductID: "p1", Quantity: 1}},
			CashCents: 10000,
		})
		if !errors.Is(err, domain.ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound after deletion, got: %v", err)
		}
	})

	t.Run("failed edit re-deducts restored stock", func(t *testing.T) {
		e := newEngine(t)
		e.seedProduct(t, "p1", 1000, 4, 0)
		orderID := seedOrder(t, e, "alice", "p1", 2)

		// Payment far short of the new total: the edit must fail and the
		// visible stock must come back to exactly its pre-edit value.
		_, err := e.modify.Handle(ctx, commands.ModifyOrderCommand{
			OrderID:   orderID,
			Items:     []domain.ItemRequest{{ProductID: "p1", Quantity: 3}},
			CashCents: 1,
		})
		var payErr *domain.InsufficientPaymentError
		if !errors.As(err, &payErr) {
			t.Fatalf("expected InsufficientPaymentError, got: %v", err)
		}
		if got := e.stock(t, "p1"); got != 4 {
			t.Errorf("expected stock back at 4 after rollback, got %d", got)
		}

		current, err := e.orders.GetByID(ctx, orderID)
		if err != nil {
			t.Fatalf("order must survive a failed edit: %v", err)
		}
		if current.Items[0].Quantity != 2 {
			t.Errorf("expected original quantity 2, got %d", current.Items[0].Quantity)
		}
	})

	t.Run("failed quota check re-deducts restored stock", func(t *testing.T) {
		e := newEngine(t)
		e.seedProduct(t, "P", 500, 4, 3)
		seedOrder(t, e, "alice", "P", 2)
		orderID := seedOrder(t, e, "alice", "P", 1)

		_, err := e.modify.Handle(ctx, commands.ModifyOrderCommand{
			OrderID:   orderID,
			Items:     []domain.ItemRequest{{ProductID: "P", Quantity: 3}},
			CashCents: 10000,
		})
		var quotaErr *domain.QuotaExceededError
		if !errors.As(err, &quotaErr) {
			t.Fatalf("expected QuotaExceededError, got: %v", err)
		}
		if got := e.stock(t, "P"); got != 4 {
			t.Errorf("expected stock back at 4 after rollback, got %d", got)
		}
	})

	t.Run("modifying a nonexistent order fails", func(t *testing.T) {
		e := newEngine(t)

		_, err := e.modify.Handle(ctx, commands.ModifyOrderCommand{
			OrderID:   "ghost",
			Items:     []domain.ItemRequest{{ProductID: "p1", Quantity: 1}},
			CashCents: 100,
		})
		if !errors.Is(err, domain.ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got: %v", err)
		}
	})

	t.Run("stock drop below an existing order quantity blocks the edit", func(t *testing.T) {
		// Order holds 1 of P, stock 0 outside the order. Asking for 3
		// exceeds the 1 available after restore.
		e := newEngine(t)
		e.seedProduct(t, "P", 500, 0, 0)
		orderID := seedOrder(t, e, "alice", "P", 1)

		_, err := e.modify.Handle(ctx, commands.ModifyOrderCommand{
			OrderID:   orderID,
			Items:     []domain.ItemRequest{{ProductID: "P", Quantity: 3}},
			CashCents: 10000,
		})
		var stockErr *domain.InsufficientStockError
		if !errors.As(err, &stockErr) {
			t.Fatalf("expected InsufficientStockError, got: %v", err)
		}
		if stockErr.Available != 1 {
			t.Errorf("expected 1 available after restore, got %d", stockErr.Available)
		}
		if got := e.stock(t, "P"); got != 0 {
			t.Errorf("expected stock back at 0 after rollback, got %d", got)
		}
	})
}

func TestCancelOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("restores exactly the held quantities and removes the order", func(t *testing.T) {
		e := newEngine(t)
		e.seedProduct(t, "p1", 500, 3, 0)
		orderID := seedOrder(t, e, "alice", "p1", 2)

		order, err := e.cancel.Handle(ctx, commands.CancelOrderCommand{OrderID: orderID})
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if order.ID != orderID {
			t.Errorf("expected cancelled order %s, got %s", orderID, order.ID)
		}
		if got := e.stock(t, "p1"); got != 5 {
			t.Errorf("expected stock 5, got %d", got)
		}

		_, err = e.orders.GetByID(ctx, orderID)
		if !errors.Is(err, domain.ErrOrderNotFound) {
			t.Fatalf("expected order to be gone, got: %v", err)
		}
	})

	t.Run("create then cancel round-trips stock to the baseline", func(t *testing.T) {
		e := newEngine(t)
		e.seedProduct(t, "p1", 500, 7, 0)
		e.seedProduct(t, "p2", 300, 4, 0)

		order, err := e.create.Handle(ctx, commands.CreateOrderCommand{
			UserName: "alice",
			Items: []domain.ItemRequest{
				{ProductID: "p1", Quantity: 3},
				{ProductID: "p2", Quantity: 2},
			},
			CashCents: 100000,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		if _, err := e.cancel.Handle(ctx, commands.CancelOrderCommand{OrderID: order.ID}); err != nil {
			t.Fatalf("cancel: %v", err)
		}

		if got := e.stock(t, "p1"); got != 7 {
			t.Errorf("expected p1 back at 7, got %d", got)
		}
		if got := e.stock(t, "p2"); got != 4 {
			t.Errorf("expected p2 back at 4, got %d", got)
		}
	})

	t.Run("cancelling a nonexistent order fails loudly", func(t *testing.T) {
		e := newEngine(t)

		_, err := e.cancel.Handle(ctx, commands.CancelOrderCommand{OrderID: "ghost"})
		if !errors.Is(err, domain.ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got: %v", err)
		}
	})
}
