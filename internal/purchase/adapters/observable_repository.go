package adapters

import (
	"context"
	"time"

	"github.com/dejobratic/staffstore/internal/database"
	"github.com/dejobratic/staffstore/internal/purchase/domain"
	"github.com/dejobratic/staffstore/internal/purchase/ports"
	"github.com/dejobratic/staffstore/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type ObservableOrderRepository struct {
	repo    ports.OrderRepository
	metrics *database.Metrics
}

func NewObservableOrderRepository(repo ports.OrderRepository, metrics *database.Metrics) *ObservableOrderRepository {
	return &ObservableOrderRepository{
		repo:    repo,
		metrics: metrics,
	}
}

func (r *ObservableOrderRepository) Create(ctx context.Context, order domain.Order) error {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.Create")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", order.ID),
		attribute.String("operation", "create"),
	)

	start := time.Now()
	err := r.repo.Create(ctx, order)
	duration := time.Since(start).Seconds()

	r.metrics.RecordQuery(ctx, "create_order", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}

func (r *ObservableOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.GetByID")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", id),
		attribute.String("operation", "get_by_id"),
	)

	start := time.Now()
	order, err := r.repo.GetByID(ctx, id)
	duration := time.Since(start).Seconds()

	r.metrics.RecordQuery(ctx, "get_order_by_id", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return nil, err
	}

	telemetry.SetSpanSuccess(span)
	return order, nil
}

func (r *ObservableOrderRepository) List(ctx context.Context, filter ports.OrderFilter) ([]domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.List")
	defer span.End()

	attrs := []attribute.KeyValue{
		attribute.String("operation", "list"),
		attribute.Int("page", filter.Page),
		attribute.Int("page_size", filter.PageSize),
	}
	if filter.UserName != "" {
		attrs = append(attrs, attribute.String("filter.user_name", filter.UserName))
	}
	telemetry.AddSpanAttributes(span, attrs...)

	start := time.Now()
	orders, err := r.repo.List(ctx, filter)
	duration := time.Since(start).Seconds()

	r.metrics.RecordQuery(ctx, "list_orders", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return nil, err
	}

	telemetry.AddSpanAttributes(span, attribute.Int("result.count", len(orders)))
	telemetry.SetSpanSuccess(span)
	return orders, nil
}

func (r *ObservableOrderRepository) Update(ctx context.Context, order domain.Order) error {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.Update")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", order.ID),
		attribute.String("operation", "update"),
	)

	start := time.Now()
	err := r.repo.Update(ctx, order)
	duration := time.Since(start).Seconds()

	r.metrics.RecordQuery(ctx, "update_order", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}

func (r *ObservableOrderRepository) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.Delete")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", id),
		attribute.String("operation", "delete"),
	)

	start := time.Now()
	err := r.repo.Delete(ctx, id)
	duration := time.Since(start).Seconds()

	r.metrics.RecordQuery(ctx, "delete_order", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}

func (r *ObservableOrderRepository) PurchasedQuantity(ctx context.Context, userName, productID, excludeOrderID string) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.PurchasedQuantity")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("user.name", userName),
		attribute.String("product.id", productID),
		attribute.String("operation", "purchased_quantity"),
	)

	start := time.Now()
	qty, err := r.repo.PurchasedQuantity(ctx, userName, productID, excludeOrderID)
	duration := time.Since(start).Seconds()

	r.metrics.RecordQuery(ctx, "sum_purchased_quantity", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return 0, err
	}

	telemetry.SetSpanSuccess(span)
	return qty, nil
}

type ObservableCatalogRepository struct {
	repo    ports.CatalogRepository
	metrics *database.Metrics
}

func NewObservableCatalogRepository(repo ports.CatalogRepository, metrics *database.Metrics) *ObservableCatalogRepository {
	return &ObservableCatalogRepository{
		repo:    repo,
		metrics: metrics,
	}
}

func (r *ObservableCatalogRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := telemetry.StartSpan(ctx, "CatalogRepository.GetByID")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("product.id", id),
		attribute.String("operation", "get_by_id"),
	)

	start := time.Now()
	product, err := r.repo.GetByID(ctx, id)
	duration := time.Since(start).Seconds()

	r.metrics.RecordQuery(ctx, "get_product_by_id", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return nil, err
	}

	telemetry.SetSpanSuccess(span)
	return product, nil
}

func (r *ObservableCatalogRepository) List(ctx context.Context) ([]domain.Product, error) {
	ctx, span := telemetry.StartSpan(ctx, "CatalogRepository.List")
	defer span.End()

	start := time.Now()
	products, err := r.repo.List(ctx)
	duration := time.Since(start).Seconds()

	r.metrics.RecordQuery(ctx, "list_products", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return nil, err
	}

	telemetry.AddSpanAttributes(span, attribute.Int("result.count", len(products)))
	telemetry.SetSpanSuccess(span)
	return products, nil
}

func (r *ObservableCatalogRepository) Upsert(ctx context.Context, product domain.Product) error {
	ctx, span := telemetry.StartSpan(ctx, "CatalogRepository.Upsert")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("product.id", product.ID),
		attribute.String("operation", "upsert"),
	)

	start := time.Now()
	err := r.repo.Upsert(ctx, product)
	duration := time.Since(start).Seconds()

	r.metrics.RecordQuery(ctx, "upsert_product", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}

func (r *ObservableCatalogRepository) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "CatalogRepository.Delete")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("product.id", id),
		attribute.String("operation", "delete"),
	)

	start := time.Now()
	err := r.repo.Delete(ctx, id)
	duration := time.Since(start).Seconds()

	r.metrics.RecordQuery(ctx, "delete_product", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}

func (r *ObservableCatalogRepository) AdjustStock(ctx context.Context, id string, delta int) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "CatalogRepository.AdjustStock")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("product.id", id),
		attribute.Int("stock.delta", delta),
		attribute.String("operation", "adjust_stock"),
	)

	start := time.Now()
	newStock, err := r.repo.AdjustStock(ctx, id, delta)
	duration := time.Since(start).Seconds()

	r.metrics.RecordQuery(ctx, "adjust_stock", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return 0, err
	}

	telemetry.AddSpanAttributes(span, attribute.Int("stock.new", newStock))
	telemetry.SetSpanSuccess(span)
	return newStock, nil
}
