package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/dejobratic/staffstore/internal/purchase/domain"
)

// CatalogRepository provides an in-memory product store useful for local
// development and tests.
type CatalogRepository struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

// NewCatalogRepository constructs a new in-memory catalog.
func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{products: make(map[string]domain.Product)}
}

// GetByID fetches a single product by identifier.
func (r *CatalogRepository) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	copy := product
	return &copy, nil
}

// List returns all products sorted by name.
func (r *CatalogRepository) List(_ context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Product, 0, len(r.products))
	for _, product := range r.products {
		result = append(result, product)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// Upsert stores or replaces a product.
func (r *CatalogRepository) Upsert(_ context.Context, product domain.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = product
	return nil
}

// Delete removes a product.
func (r *CatalogRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

// AdjustStock applies a delta to a product's stock, refusing any
// adjustment that would drive it negative.
func (r *CatalogRepository) AdjustStock(_ context.Context, id string, delta int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return 0, domain.ErrProductNotFound
	}

	newStock := product.Stock + delta
	if newStock < 0 {
		return 0, &domain.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   -delta,
			Available:   product.Stock,
		}
	}

	product.Stock = newStock
	r.products[id] = product
	return newStock, nil
}
