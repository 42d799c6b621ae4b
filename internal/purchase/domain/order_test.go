package domain_test

import (
	"testing"
	"time"

	"github.com/dejobratic/staffstore/internal/purchase/domain"
)

func validOrder() domain.Order {
	return domain.Order{
		ID:       "order-1",
		UserName: "alice",
		Items: []domain.OrderItem{
			{ProductID: "p1", ProductName: "coffee", UnitPriceCents: 500, Quantity: 2},
		},
		TotalItems:    2,
		OriginalCents: 1000,
		DiscountRate:  0.80,
		SavingsCents:  200,
		TotalCents:    800,
		PaymentMethod: domain.PaymentCash,
		CashCents:     800,
		CreatedAt:     time.Now().UTC(),
	}
}

func TestOrderValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.Order)
		wantErr bool
	}{
		{name: "valid order", mutate: func(o *domain.Order) {}},
		{name: "missing id", mutate: func(o *domain.Order) { o.ID = "" }, wantErr: true},
		{name: "whitespace user name", mutate: func(o *domain.Order) { o.UserName = "   " }, wantErr: true},
		{name: "empty items", mutate: func(o *domain.Order) { o.Items = nil }, wantErr: true},
		{name: "zero quantity item", mutate: func(o *domain.Order) { o.Items[0].Quantity = 0 }, wantErr: true},
		{name: "negative unit price", mutate: func(o *domain.Order) { o.Items[0].UnitPriceCents = -1 }, wantErr: true},
		{name: "total does not match savings", mutate: func(o *domain.Order) { o.TotalCents = 900 }, wantErr: true},
		{name: "payment short of total", mutate: func(o *domain.Order) { o.CashCents = 799 }, wantErr: true},
		{name: "overpayment is allowed", mutate: func(o *domain.Order) { o.CashCents = 10000 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := validOrder()
			tt.mutate(&order)
			err := order.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
		})
	}
}

func TestDerivePaymentMethod(t *testing.T) {
	tests := []struct {
		name    string
		cash    int64
		voucher int64
		want    domain.PaymentMethod
	}{
		{name: "both channels", cash: 100, voucher: 100, want: domain.PaymentMixed},
		{name: "cash only", cash: 100, want: domain.PaymentCash},
		{name: "voucher only", voucher: 100, want: domain.PaymentVoucher},
		{name: "neither channel", want: domain.PaymentNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := domain.DerivePaymentMethod(tt.cash, tt.voucher); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestTotals(t *testing.T) {
	items := []domain.OrderItem{
		{ProductID: "p1", UnitPriceCents: 500, Quantity: 2},
		{ProductID: "p2", UnitPriceCents: 150, Quantity: 3},
	}

	totalItems, originalCents := domain.Totals(items)
	if totalItems != 5 {
		t.Errorf("expected 5 total items, got %d", totalItems)
	}
	if originalCents != 1450 {
		t.Errorf("expected 1450 cents, got %d", originalCents)
	}
}
