package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dejobratic/staffstore/internal/purchase/domain"
	"github.com/dejobratic/staffstore/internal/purchase/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) Create(ctx context.Context, order domain.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO orders (id, user_name, total_items, original_cents, discount_rate, discount_label,
			savings_cents, total_cents, payment_method, cash_cents, voucher_cents, created_at, modified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = tx.Exec(ctx, query,
		order.ID,
		order.UserName,
		order.TotalItems,
		order.OriginalCents,
		order.DiscountRate,
		order.DiscountLabel,
		order.SavingsCents,
		order.TotalCents,
		order.PaymentMethod,
		order.CashCents,
		order.VoucherCents,
		order.CreatedAt,
		order.ModifiedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	if err := insertItems(ctx, tx, order.ID, order.Items); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT id, user_name, total_items, original_cents, discount_rate, discount_label,
			savings_cents, total_cents, payment_method, cash_cents, voucher_cents, created_at, modified_at
		FROM orders
		WHERE id = $1
	`

	var order domain.Order
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.UserName,
		&order.TotalItems,
		&order.OriginalCents,
		&order.DiscountRate,
		&order.DiscountLabel,
		&order.SavingsCents,
		&order.TotalCents,
		&order.PaymentMethod,
		&order.CashCents,
		&order.VoucherCents,
		&order.CreatedAt,
		&order.ModifiedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	items, err := r.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return &order, nil
}

func (r *OrderRepository) List(ctx context.Context, filter ports.OrderFilter) ([]domain.Order, error) {
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	query := `
		SELECT id, user_name, total_items, original_cents, discount_rate, discount_label,
			savings_cents, total_cents, payment_method, cash_cents, voucher_cents, created_at, modified_at
		FROM orders
		WHERE ($1 = '' OR user_name = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	offset := (page - 1) * pageSize

	rows, err := r.pool.Query(ctx, query, filter.UserName, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.UserName,
			&order.TotalItems,
			&order.OriginalCents,
			&order.DiscountRate,
			&order.DiscountLabel,
			&order.SavingsCents,
			&order.TotalCents,
			&order.PaymentMethod,
			&order.CashCents,
			&order.VoucherCents,
			&order.CreatedAt,
			&order.ModifiedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	for i := range orders {
		items, err := r.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

func (r *OrderRepository) Update(ctx context.Context, order domain.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE orders
		SET total_items = $2, original_cents = $3, discount_rate = $4, discount_label = $5,
			savings_cents = $6, total_cents = $7, payment_method = $8, cash_cents = $9,
			voucher_cents = $10, modified_at = $11
		WHERE id = $1
	`

	result, err := tx.Exec(ctx, query,
		order.ID,
		order.TotalItems,
		order.OriginalCents,
		order.DiscountRate,
		order.DiscountLabel,
		order.SavingsCents,
		order.TotalCents,
		order.PaymentMethod,
		order.CashCents,
		order.VoucherCents,
		order.ModifiedAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, order.ID); err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}
	if err := insertItems(ctx, tx, order.ID, order.Items); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	// order_items cascades on delete.
	result, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) PurchasedQuantity(ctx context.Context, userName, productID, excludeOrderID string) (int, error) {
	query := `
		SELECT COALESCE(SUM(i.quantity), 0)
		FROM order_items i
		JOIN orders o ON o.id = i.order_id
		WHERE o.user_name = $1 AND i.product_id = $2 AND o.id <> $3
	`

	var total int
	if err := r.pool.QueryRow(ctx, query, userName, productID, excludeOrderID).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum purchased quantity: %w", err)
	}
	return total, nil
}

func (r *OrderRepository) loadItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	query := `
		SELECT product_id, product_name, unit_price_cents, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY position
	`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ProductID,
			&item.ProductName,
			&item.UnitPriceCents,
			&item.Quantity,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return items, nil
}

func insertItems(ctx context.Context, tx pgx.Tx, orderID string, items []domain.OrderItem) error {
	query := `
		INSERT INTO order_items (order_id, position, product_id, product_name, unit_price_cents, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for i, item := range items {
		if _, err := tx.Exec(ctx, query,
			orderID,
			i,
			item.ProductID,
			item.ProductName,
			item.UnitPriceCents,
			item.Quantity,
		); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}
