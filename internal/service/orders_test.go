package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"shilohridge/backend/internal/domain"
	"shilohridge/backend/internal/store"
	"shilohridge/backend/internal/store/memory"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return New(memory.NewSeeded(), nil, 0)
}

func adminContext() context.Context {
	return WithActor(context.Background(), domain.Actor{Username: "admin", Role: "admin"})
}

func TestSubmitOrderPersistsResolvedPrices(t *testing.T) {
	svc := newTestService(t)

	order, err := svc.SubmitOrder(context.Background(), domain.OrderCreateRequest{
		CustomerName:  "Dana Whitfield",
		CustomerEmail: "dana@example.com",
		Items: []domain.OrderLineRequest{
			{ProductID: "prod-eggs", Quantity: 3},
		},
	})
	if err != nil {
		t.Fatalf("submit order: %v", err)
	}

	if order.Status != domain.OrderStatusPending {
		t.Fatalf("expected pending order, got %s", order.Status)
	}
	if len(order.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(order.Items))
	}
	line := order.Items[0]
	if !line.PricePerUnit.Equal(decimal.RequireFromString("8.00")) {
		t.Fatalf("expected persisted unit price 8.00, got %s", line.PricePerUnit)
	}
	if !order.TotalAmount.Equal(decimal.RequireFromString("24.00")) {
		t.Fatalf("expected total 24.00, got %s", order.TotalAmount)
	}
	if line.PricingTier != domain.PricingTierNormalized {
		t.Fatalf("flat products settle on the normalized tier, got %q", line.PricingTier)
	}
}

func TestSubmitOrderCutsMatrix(t *testing.T) {
	svc := newTestService(t)

	order, err := svc.SubmitOrder(context.Background(), domain.OrderCreateRequest{
		CustomerName:  "Robin Ellis",
		CustomerEmail: "robin@example.com",
		Items: []domain.OrderLineRequest{
			{ProductID: "prod-half-hog", Quantity: 1, Cut: "loin", PricingTier: domain.PricingTierPremium},
		},
	})
	if err != nil {
		t.Fatalf("submit order: %v", err)
	}
	if !order.TotalAmount.Equal(decimal.RequireFromString("4.50")) {
		t.Fatalf("expected premium loin total 4.50, got %s", order.TotalAmount)
	}
}

func TestSubmitOrderAllOrNothing(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.SubmitOrder(context.Background(), domain.OrderCreateRequest{
		CustomerName:  "Dana Whitfield",
		CustomerEmail: "dana@example.com",
		Items: []domain.OrderLineRequest{
			{ProductID: "prod-eggs", Quantity: 2},
			{ProductID: "prod-missing", Quantity: 1},
		},
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not-found for missing product, got %v", err)
	}

	orders, err := svc.ListOrders(adminContext(), "", 100)
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("a failed line must leave no order behind, found %d", len(orders))
	}
}

func TestSubmitOrderEnforcesQuantityBounds(t *testing.T) {
	svc := newTestService(t)

	// Seeded eggs allow at most 12 dozen per order.
	_, err := svc.SubmitOrder(context.Background(), domain.OrderCreateRequest{
		CustomerName:  "Dana Whitfield",
		CustomerEmail: "dana@example.com",
		Items: []domain.OrderLineRequest{
			{ProductID: "prod-eggs", Quantity: 13},
		},
	})
	if !errors.Is(err, store.ErrValidation) {
		t.Fatalf("expected validation error over max order, got %v", err)
	}
}

func TestUpdateOrderStatusRequiresAdmin(t *testing.T) {
	svc := newTestService(t)

	order, err := svc.SubmitOrder(context.Background(), domain.OrderCreateRequest{
		CustomerName:  "Dana Whitfield",
		CustomerEmail: "dana@example.com",
		Items:         []domain.OrderLineRequest{{ProductID: "prod-eggs", Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("submit order: %v", err)
	}

	if _, err := svc.UpdateOrderStatus(context.Background(), order.ID, domain.OrderStatusConfirmed); err == nil {
		t.Fatalf("expected anonymous status update to be rejected")
	}

	updated, err := svc.UpdateOrderStatus(adminContext(), order.ID, domain.OrderStatusConfirmed)
	if err != nil {
		t.Fatalf("update order status: %v", err)
	}
	if updated.Status != domain.OrderStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", updated.Status)
	}

	if _, err := svc.UpdateOrderStatus(adminContext(), order.ID, "lost"); !errors.Is(err, store.ErrValidation) {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}
}
