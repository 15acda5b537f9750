package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shilohridge/backend/internal/domain"
	"shilohridge/backend/internal/store"
)

// SubmitOrder settles a public storefront order. Every line is validated and
// priced before anything is written; a failure on any line leaves no order
// behind. The resolved unit prices are embedded in the persisted order so
// later catalog edits cannot alter historical totals. No inventory or catalog
// state is mutated by this path.
func (s *Service) SubmitOrder(ctx context.Context, req domain.OrderCreateRequest) (domain.Order, error) {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)
	req.CustomerPhone = strings.TrimSpace(req.CustomerPhone)

	if req.CustomerName == "" || req.CustomerEmail == "" {
		return domain.Order{}, fmt.Errorf("%w: customer name and email are required", store.ErrValidation)
	}
	if len(req.Items) == 0 {
		return domain.Order{}, fmt.Errorf("%w: order needs at least one item", store.ErrValidation)
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	total := decimal.Zero

	for _, line := range req.Items {
		productID := strings.TrimSpace(line.ProductID)
		if productID == "" {
			return domain.Order{}, fmt.Errorf("%w: product id required on every line", store.ErrValidation)
		}
		if line.Quantity < 1 {
			return domain.Order{}, fmt.Errorf("%w: quantity must be positive for product %s", store.ErrValidation, productID)
		}

		product, err := s.repo.GetProduct(ctx, productID)
		if err != nil {
			return domain.Order{}, fmt.Errorf("product %s: %w", productID, err)
		}
		if !product.Available {
			return domain.Order{}, fmt.Errorf("%w: product %s is not available", store.ErrInvalidState, product.Name)
		}
		if product.MinOrder > 0 && line.Quantity < product.MinOrder {
			return domain.Order{}, fmt.Errorf("%w: minimum order for %s is %d", store.ErrValidation, product.Name, product.MinOrder)
		}
		if product.MaxOrder > 0 && line.Quantity > product.MaxOrder {
			return domain.Order{}, fmt.Errorf("%w: maximum order for %s is %d", store.ErrValidation, product.Name, product.MaxOrder)
		}

		unitPrice, err := ResolvePrice(*product, line.Cut, line.PricingTier)
		if err != nil {
			return domain.Order{}, err
		}

		tier := strings.TrimSpace(line.PricingTier)
		if tier != domain.PricingTierNormalized && tier != domain.PricingTierPremium {
			tier = domain.PricingTierNormalized
		}
		if len(product.Cuts) == 0 {
			tier = domain.PricingTierNormalized
		}

		subtotal := unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		items = append(items, domain.OrderItem{
			ProductID:    product.ID,
			ProductName:  product.Name,
			Quantity:     line.Quantity,
			Cut:          strings.TrimSpace(line.Cut),
			PricingTier:  tier,
			PricePerUnit: unitPrice,
			Subtotal:     subtotal,
		})
		total = total.Add(subtotal)
	}

	now := time.Now().UTC()
	order := domain.Order{
		ID:            uuid.NewString(),
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Address:       strings.TrimSpace(req.Address),
		Items:         items,
		TotalAmount:   total,
		Status:        domain.OrderStatusPending,
		Notes:         strings.TrimSpace(req.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		return domain.Order{}, err
	}

	s.logAudit(ctx, "order_submit", "order", created.ID, fmt.Sprintf("items=%d,total=%s", len(created.Items), created.TotalAmount.StringFixed(2)))
	return *created, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: order id required", store.ErrValidation)
	}
	return s.repo.GetOrder(ctx, id)
}

func (s *Service) ListOrders(ctx context.Context, status string, limit int) ([]domain.Order, error) {
	status = strings.TrimSpace(status)
	if status != "" && !isValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: unknown order status %q", store.ErrValidation, status)
	}
	if limit < 1 {
		limit = 200
	}
	return s.repo.ListOrders(ctx, status, limit)
}

// UpdateOrderStatus accepts only the enumerated lifecycle statuses. No
// transition graph is enforced beyond membership in the set.
func (s *Service) UpdateOrderStatus(ctx context.Context, id string, status string) (domain.Order, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.Order{}, err
	}

	id = strings.TrimSpace(id)
	status = strings.TrimSpace(status)
	if id == "" {
		return domain.Order{}, fmt.Errorf("%w: order id required", store.ErrValidation)
	}
	if !isValidOrderStatus(status) {
		return domain.Order{}, fmt.Errorf("%w: unknown order status %q", store.ErrValidation, status)
	}

	updated, err := s.repo.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return domain.Order{}, err
	}

	s.logAudit(ctx, "order_status_update", "order", updated.ID, fmt.Sprintf("status=%s", status))
	return *updated, nil
}

func isValidOrderStatus(status string) bool {
	switch status {
	case domain.OrderStatusPending, domain.OrderStatusConfirmed, domain.OrderStatusProcessing,
		domain.OrderStatusReady, domain.OrderStatusCompleted, domain.OrderStatusCancelled:
		return true
	default:
		return false
	}
}
