package app

import (
	"context"
	"log/slog"

	"github.com/dejobratic/staffstore/internal/purchase/app/commands"
	"github.com/dejobratic/staffstore/internal/purchase/app/queries"
	"github.com/dejobratic/staffstore/internal/purchase/domain"
	"github.com/dejobratic/staffstore/internal/purchase/metrics"
	"github.com/dejobratic/staffstore/internal/purchase/ports"
)

// Service bundles the order and catalog use cases exposed to the API.
type Service struct {
	catalog   ports.CatalogRepository
	orders    ports.OrderRepository
	idemStore ports.IdempotencyStore

	createHandler commands.CreateHandler
	modifyHandler commands.ModifyHandler
	cancelHandler commands.CancelHandler

	getOrder        *queries.GetOrderQueryHandler
	listOrders      *queries.ListOrdersQueryHandler
	listProducts    *queries.ListProductsQueryHandler
	getProduct      *queries.GetProductQueryHandler
	checkQuota      *queries.CheckQuotaQueryHandler
	previewDiscount *queries.PreviewDiscountQueryHandler
}

// NewService wires required dependencies. All lifecycle commands share one
// lock table so concurrent mutations of the same product or order serialize.
func NewService(
	catalog ports.CatalogRepository,
	orders ports.OrderRepository,
	events ports.EventBus,
	idem ports.IdempotencyStore,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Service {
	locks := commands.NewEntityLocks()

	return &Service{
		catalog:   catalog,
		orders:    orders,
		idemStore: idem,
		createHandler: commands.NewObservableCreateHandler(
			commands.NewCreateOrderCommandHandler(catalog, orders, events, locks), logger, m),
		modifyHandler: commands.NewObservableModifyHandler(
			commands.NewModifyOrderCommandHandler(catalog, orders, events, locks), logger, m),
		cancelHandler: commands.NewObservableCancelHandler(
			commands.NewCancelOrderCommandHandler(catalog, orders, events, locks), logger, m),
		getOrder:        queries.NewGetOrderQueryHandler(orders),
		listOrders:      queries.NewListOrdersQueryHandler(orders),
		listProducts:    queries.NewListProductsQueryHandler(catalog),
		getProduct:      queries.NewGetProductQueryHandler(catalog),
		checkQuota:      queries.NewCheckQuotaQueryHandler(catalog, orders),
		previewDiscount: queries.NewPreviewDiscountQueryHandler(),
	}
}

// CreateOrderInput captures payload for creating an order.
type CreateOrderInput struct {
	UserName     string               `json:"user_name"`
	Items        []domain.ItemRequest `json:"items"`
	CashCents    int64                `json:"cash_cents"`
	VoucherCents int64                `json:"voucher_cents"`
}

// CreateOrder runs checkout: validation, quota and stock checks, discount
// and payment computation, then the atomic order write plus stock deduction.
func (s *Service) CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	return s.createHandler.Handle(ctx, commands.CreateOrderCommand{
		UserName:     input.UserName,
		Items:        input.Items,
		CashCents:    input.CashCents,
		VoucherCents: input.VoucherCents,
	})
}

// ModifyOrderInput captures payload for replacing an order's items and payment.
type ModifyOrderInput struct {
	Items        []domain.ItemRequest `json:"items"`
	CashCents    int64                `json:"cash_cents"`
	VoucherCents int64                `json:"voucher_cents"`
}

// ModifyOrder edits an active order; an empty item list cancels it.
func (s *Service) ModifyOrder(ctx context.Context, orderID string, input ModifyOrderInput) (*commands.ModifyOutcome, error) {
	return s.modifyHandler.Handle(ctx, commands.ModifyOrderCommand{
		OrderID:      orderID,
		Items:        input.Items,
		CashCents:    input.CashCents,
		VoucherCents: input.VoucherCents,
	})
}

// CancelOrder withdraws an order and restores its stock.
func (s *Service) CancelOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.cancelHandler.Handle(ctx, commands.CancelOrderCommand{OrderID: orderID})
}

// GetOrder retrieves an order by ID.
func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.getOrder.Handle(ctx, queries.GetOrderQuery{OrderID: id})
}

// ListOrders returns orders using a filter.
func (s *Service) ListOrders(ctx context.Context, filter ports.OrderFilter) ([]domain.Order, error) {
	return s.listOrders.Handle(ctx, filter)
}

// ListProducts returns the catalog.
func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.listProducts.Handle(ctx)
}

// GetProduct retrieves a product by ID.
func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.getProduct.Handle(ctx, queries.GetProductQuery{ProductID: id})
}

// CheckQuota runs the purchase-limit pre-check for an add-to-cart flow.
func (s *Service) CheckQuota(ctx context.Context, query queries.CheckQuotaQuery) (*queries.QuotaStatus, error) {
	return s.checkQuota.Handle(ctx, query)
}

// PreviewDiscount computes the discount a cart would receive.
func (s *Service) PreviewDiscount(query queries.PreviewDiscountQuery) (*domain.Discount, error) {
	return s.previewDiscount.Handle(query)
}

// SaveIdempotentResponse writes response details for a key.
func (s *Service) SaveIdempotentResponse(ctx context.Context, key string, response ports.StoredResponse) error {
	return s.idemStore.Save(ctx, key, response)
}

// GetIdempotentResponse retrieves previously stored response data.
func (s *Service) GetIdempotentResponse(ctx context.Context, key string) (*ports.StoredResponse, error) {
	return s.idemStore.Get(ctx, key)
}
