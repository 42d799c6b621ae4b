package ports

import (
	"context"

	"github.com/dejobratic/staffstore/internal/purchase/domain"
)

// CatalogRepository exposes the product store. AdjustStock is the single
// mutation path for stock counts; it fails with a typed
// domain.InsufficientStockError when the adjustment would go negative and
// returns the new stock level otherwise.
type CatalogRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Upsert(ctx context.Context, product domain.Product) error
	Delete(ctx context.Context, id string) error
	AdjustStock(ctx context.Context, id string, delta int) (int, error)
}

// OrderRepository exposes persistence for committed orders.
//
// PurchasedQuantity derives a user's cumulative committed quantity for one
// product by scanning the current order set on every call; there is no
// maintained counter to go stale. excludeOrderID skips one order, so an
// in-progress edit does not double-count against its own quota.
type OrderRepository interface {
	Create(ctx context.Context, order domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, error)
	Update(ctx context.Context, order domain.Order) error
	Delete(ctx context.Context, id string) error
	PurchasedQuantity(ctx context.Context, userName, productID, excludeOrderID string) (int, error)
}

// OrderFilter narrows list queries by user and pagination.
type OrderFilter struct {
	UserName string
	Page     int
	PageSize int
}
