package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dejobratic/staffstore/internal/purchase/domain"
	"github.com/dejobratic/staffstore/internal/purchase/metrics"
	"github.com/dejobratic/staffstore/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ObservableCreateHandler wraps order creation with a span, structured
// logs, and lifecycle metrics.
type ObservableCreateHandler struct {
	handler CreateHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableCreateHandler(handler CreateHandler, logger *slog.Logger, m *metrics.Metrics) *ObservableCreateHandler {
	return &ObservableCreateHandler{handler: handler, logger: logger, metrics: m}
}

func (o *ObservableCreateHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "CreateOrderCommand.Handle")
	defer span.End()

	start := time.Now()
	var success bool
	defer func() {
		o.metrics.RecordOperation(ctx, "create", success, time.Since(start).Seconds())
	}()

	o.logger.InfoContext(ctx, "creating order",
		"user_name", cmd.UserName,
		"item_lines", len(cmd.Items),
		"cash_cents", cmd.CashCents,
		"voucher_cents", cmd.VoucherCents,
	)

	order, err := o.handler.Handle(ctx, cmd)
	if err != nil {
		o.recordFailure(ctx, span, "failed to create order", cmd.UserName, err)
		return nil, err
	}

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", order.ID),
		attribute.String("order.user_name", order.UserName),
		attribute.Int("order.total_items", order.TotalItems),
		attribute.Int64("order.total_cents", order.TotalCents),
		attribute.String("order.payment_method", string(order.PaymentMethod)),
	)

	o.logger.InfoContext(ctx, "order created",
		"order_id", order.ID,
		"user_name", order.UserName,
		"total_cents", order.TotalCents,
		"discount_rate", order.DiscountRate,
	)

	success = true
	telemetry.SetSpanSuccess(span)
	return order, nil
}

func (o *ObservableCreateHandler) recordFailure(ctx context.Context, span trace.Span, msg, userName string, err error) {
	telemetry.RecordSpanError(span, err)
	var quotaErr *domain.QuotaExceededError
	if errors.As(err, &quotaErr) {
		o.metrics.RecordQuotaRejection(ctx, quotaErr.ProductID)
	}
	o.logger.ErrorContext(ctx, msg, "error", err, "user_name", userName)
}

// ObservableModifyHandler wraps order modification with a span, structured
// logs, and lifecycle metrics.
type ObservableModifyHandler struct {
	handler ModifyHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableModifyHandler(handler ModifyHandler, logger *slog.Logger, m *metrics.Metrics) *ObservableModifyHandler {
	return &ObservableModifyHandler{handler: handler, logger: logger, metrics: m}
}

func (o *ObservableModifyHandler) Handle(ctx context.Context, cmd ModifyOrderCommand) (*ModifyOutcome, error) {
	ctx, span := telemetry.StartSpan(ctx, "ModifyOrderCommand.Handle")
	defer span.End()

	start := time.Now()
	var success bool
	defer func() {
		o.metrics.RecordOperation(ctx, "modify", success, time.Since(start).Seconds())
	}()

	o.logger.InfoContext(ctx, "modifying order",
		"order_id", cmd.OrderID,
		"item_lines", len(cmd.Items),
	)

	outcome, err := o.handler.Handle(ctx, cmd)
	if err != nil {
		telemetry.RecordSpanError(span, err)
		var quotaErr *domain.QuotaExceededError
		if errors.As(err, &quotaErr) {
			o.metrics.RecordQuotaRejection(ctx, quotaErr.ProductID)
		}
		o.logger.ErrorContext(ctx, "failed to modify order", "error", err, "order_id", cmd.OrderID)
		return nil, err
	}

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", cmd.OrderID),
		attribute.Bool("order.cancelled", outcome.Cancelled),
	)

	if outcome.Cancelled {
		o.logger.InfoContext(ctx, "order emptied and removed", "order_id", cmd.OrderID)
	} else {
		o.logger.InfoContext(ctx, "order modified",
			"order_id", outcome.Order.ID,
			"total_cents", outcome.Order.TotalCents,
		)
	}

	success = true
	telemetry.SetSpanSuccess(span)
	return outcome, nil
}

// ObservableCancelHandler wraps order cancellation with a span, structured
// logs, and lifecycle metrics.
type ObservableCancelHandler struct {
	handler CancelHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableCancelHandler(handler CancelHandler, logger *slog.Logger, m *metrics.Metrics) *ObservableCancelHandler {
	return &ObservableCancelHandler{handler: handler, logger: logger, metrics: m}
}

func (o *ObservableCancelHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "CancelOrderCommand.Handle")
	defer span.End()

	start := time.Now()
	var success bool
	defer func() {
		o.metrics.RecordOperation(ctx, "cancel", success, time.Since(start).Seconds())
	}()

	order, err := o.handler.Handle(ctx, cmd)
	if err != nil {
		telemetry.RecordSpanError(span, err)
		o.logger.ErrorContext(ctx, "failed to cancel order", "error", err, "order_id", cmd.OrderID)
		return nil, err
	}

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", order.ID),
		attribute.Int("order.total_items", order.TotalItems),
	)

	o.logger.InfoContext(ctx, "order cancelled", "order_id", order.ID, "user_name", order.UserName)

	success = true
	telemetry.SetSpanSuccess(span)
	return order, nil
}
