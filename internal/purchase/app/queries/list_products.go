package queries

import (
	"context"
	"strings"

	"github.com/dejobratic/staffstore/internal/purchase/domain"
	"github.com/dejobratic/staffstore/internal/purchase/ports"
)

// ListProductsQueryHandler returns the full catalog.
type ListProductsQueryHandler struct {
	catalog ports.CatalogRepository
}

// NewListProductsQueryHandler constructs a ListProductsQueryHandler.
func NewListProductsQueryHandler(catalog ports.CatalogRepository) *ListProductsQueryHandler {
	return &ListProductsQueryHandler{catalog: catalog}
}

// Handle executes the list query.
func (h *ListProductsQueryHandler) Handle(ctx context.Context) ([]domain.Product, error) {
	return h.catalog.List(ctx)
}

// GetProductQuery represents a request to retrieve a product by its ID.
type GetProductQuery struct {
	ProductID string
}

// Validate ensures the query has valid parameters.
func (q GetProductQuery) Validate() error {
	if strings.TrimSpace(q.ProductID) == "" {
		return &domain.ValidationError{Field: "product_id", Reason: "is required"}
	}
	return nil
}

// GetProductQueryHandler executes GetProductQuery.
type GetProductQueryHandler struct {
	catalog ports.CatalogRepository
}

// NewGetProductQueryHandler constructs a GetProductQueryHandler.
func NewGetProductQueryHandler(catalog ports.CatalogRepository) *GetProductQueryHandler {
	return &GetProductQueryHandler{catalog: catalog}
}

// Handle executes the query and retrieves the product.
func (h *GetProductQueryHandler) Handle(ctx context.Context, query GetProductQuery) (*domain.Product, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return h.catalog.GetByID(ctx, query.ProductID)
}
