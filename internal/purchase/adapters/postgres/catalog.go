package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dejobratic/staffstore/internal/purchase/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CatalogRepository struct {
	pool *pgxpool.Pool
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

func (r *CatalogRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `
		SELECT id, name, barcode, category, description, price_cents, stock, purchase_limit, created_at
		FROM products
		WHERE id = $1
	`

	var product domain.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Barcode,
		&product.Category,
		&product.Description,
		&product.PriceCents,
		&product.Stock,
		&product.PurchaseLimit,
		&product.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("select product: %w", err)
	}

	return &product, nil
}

func (r *CatalogRepository) List(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, name, barcode, category, description, price_cents, stock, purchase_limit, created_at
		FROM products
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Barcode,
			&product.Category,
			&product.Description,
			&product.PriceCents,
			&product.Stock,
			&product.PurchaseLimit,
			&product.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

func (r *CatalogRepository) Upsert(ctx context.Context, product domain.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO products (id, name, barcode, category, description, price_cents, stock, purchase_limit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			barcode = EXCLUDED.barcode,
			category = EXCLUDED.category,
			description = EXCLUDED.description,
			price_cents = EXCLUDED.price_cents,
			stock = EXCLUDED.stock,
			purchase_limit = EXCLUDED.purchase_limit
	`

	_, err := r.pool.Exec(ctx, query,
		product.ID,
		product.Name,
		product.Barcode,
		product.Category,
		product.Description,
		product.PriceCents,
		product.Stock,
		product.PurchaseLimit,
		product.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}

	return nil
}

func (r *CatalogRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// AdjustStock applies a delta atomically. The WHERE clause guards against
// negative stock so a concurrent writer can never oversell.
func (r *CatalogRepository) AdjustStock(ctx context.Context, id string, delta int) (int, error) {
	query := `
		UPDATE products
		SET stock = stock + $2
		WHERE id = $1 AND stock + $2 >= 0
		RETURNING stock
	`

	var newStock int
	err := r.pool.QueryRow(ctx, query, id, delta).Scan(&newStock)
	if err == nil {
		return newStock, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("adjust stock: %w", err)
	}

	// The guarded update matched no row: either the product is missing or
	// the delta would drive stock negative. Read back to tell them apart.
	product, getErr := r.GetByID(ctx, id)
	if getErr != nil {
		return 0, getErr
	}
	return 0, &domain.InsufficientStockError{
		ProductID:   product.ID,
		ProductName: product.Name,
		Requested:   -delta,
		Available:   product.Stock,
	}
}
