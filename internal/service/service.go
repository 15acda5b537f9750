package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shilohridge/backend/internal/cache"
	"shilohridge/backend/internal/domain"
	"shilohridge/backend/internal/store"
	"shilohridge/backend/internal/xid"
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

type Service struct {
	repo     store.Repository
	catalog  cache.CatalogCache
	cacheTTL time.Duration
}

func New(repo store.Repository, catalog cache.CatalogCache, cacheTTL time.Duration) *Service {
	if catalog == nil {
		catalog = cache.NoopCatalogCache{}
	}
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}

	return &Service{
		repo:     repo,
		catalog:  catalog,
		cacheTTL: cacheTTL,
	}
}

// ResolvePrice determines the effective unit price for a catalog entry and an
// order-line selection. Pure and deterministic for a given product value.
//
// Products with a cuts matrix require a cut selection; the tier falls back to
// "normalized" when the requested tier is unrecognized or absent for that cut.
// Flat-priced products ignore cut and tier entirely.
func ResolvePrice(product domain.Product, cut string, tier string) (decimal.Decimal, error) {
	cut = strings.TrimSpace(cut)
	tier = strings.TrimSpace(tier)

	if len(product.Cuts) > 0 {
		if cut == "" {
			return decimal.Zero, fmt.Errorf("%w: cut required for product %s", store.ErrValidation, product.Name)
		}
		tiers, ok := product.Cuts[cut]
		if !ok {
			return decimal.Zero, fmt.Errorf("%w: unknown cut %q for product %s", store.ErrValidation, cut, product.Name)
		}
		if tier != domain.PricingTierNormalized && tier != domain.PricingTierPremium {
			tier = domain.PricingTierNormalized
		}
		if price, ok := tiers[tier]; ok {
			return price, nil
		}
		if price, ok := tiers[domain.PricingTierNormalized]; ok {
			return price, nil
		}
		return decimal.Zero, fmt.Errorf("%w: no price set for cut %q of product %s", store.ErrValidation, cut, product.Name)
	}

	if product.PricePerUnit == nil {
		return decimal.Zero, fmt.Errorf("%w: no price set for product %s", store.ErrValidation, product.Name)
	}
	return *product.PricePerUnit, nil
}

func (s *Service) ListProducts(ctx context.Context, includeUnavailable bool) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx, includeUnavailable)
}

// PublicProducts returns the storefront catalog (available products only),
// served from cache when a fresh snapshot exists.
func (s *Service) PublicProducts(ctx context.Context) ([]domain.Product, error) {
	if snapshot, ok, err := s.catalog.Get(ctx, cache.KeyProducts); err == nil && ok {
		return snapshot.Products, nil
	} else if err != nil {
		log.Printf("[service] WARN: catalog cache read failed: %v", err)
	}

	products, err := s.repo.ListProducts(ctx, false)
	if err != nil {
		return nil, err
	}

	if err := s.catalog.Set(ctx, cache.KeyProducts, &domain.CatalogSnapshot{
		Products:  products,
		FetchedAt: time.Now().UTC(),
	}, s.cacheTTL); err != nil {
		log.Printf("[service] WARN: catalog cache write failed: %v", err)
	}

	return products, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: product id required", store.ErrValidation)
	}
	return s.repo.GetProduct(ctx, id)
}

func (s *Service) CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.Product{}, fmt.Errorf("admin role required")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)
	req.Unit = strings.TrimSpace(req.Unit)

	if req.Name == "" || req.Category == "" {
		return domain.Product{}, fmt.Errorf("%w: name and category are required", store.ErrValidation)
	}
	if len(req.Cuts) == 0 && req.PricePerUnit == nil {
		return domain.Product{}, fmt.Errorf("%w: product needs a flat price or a cuts matrix", store.ErrValidation)
	}
	if req.PricePerUnit != nil && req.PricePerUnit.IsNegative() {
		return domain.Product{}, fmt.Errorf("%w: price_per_unit must not be negative", store.ErrValidation)
	}
	if err := validateCuts(req.Cuts); err != nil {
		return domain.Product{}, err
	}
	if req.MinOrder < 0 || req.MaxOrder < 0 || (req.MaxOrder > 0 && req.MaxOrder < req.MinOrder) {
		return domain.Product{}, fmt.Errorf("%w: invalid order quantity bounds", store.ErrValidation)
	}

	now := time.Now().UTC()
	available := true
	if req.Available != nil {
		available = *req.Available
	}

	product := domain.Product{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Description:  strings.TrimSpace(req.Description),
		Category:     req.Category,
		PricePerUnit: req.PricePerUnit,
		Unit:         req.Unit,
		Cuts:         req.Cuts,
		Available:    available,
		MinOrder:     req.MinOrder,
		MaxOrder:     req.MaxOrder,
		ImageURL:     strings.TrimSpace(req.ImageURL),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}

	s.logAudit(ctx, "product_create", "product", created.ID, fmt.Sprintf("name=%s,category=%s", created.Name, created.Category))
	return *created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, req domain.ProductUpdateRequest) (domain.Product, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.Product{}, fmt.Errorf("admin role required")
	}

	existing, err := s.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Product{}, fmt.Errorf("%w: name must not be empty", store.ErrValidation)
		}
		updated.Name = name
	}
	if req.Description != nil {
		updated.Description = strings.TrimSpace(*req.Description)
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			return domain.Product{}, fmt.Errorf("%w: category must not be empty", store.ErrValidation)
		}
		updated.Category = category
	}
	if req.PricePerUnit != nil {
		if req.PricePerUnit.IsNegative() {
			return domain.Product{}, fmt.Errorf("%w: price_per_unit must not be negative", store.ErrValidation)
		}
		updated.PricePerUnit = req.PricePerUnit
	}
	if req.Unit != nil {
		updated.Unit = strings.TrimSpace(*req.Unit)
	}
	if req.Cuts != nil {
		if err := validateCuts(req.Cuts); err != nil {
			return domain.Product{}, err
		}
		updated.Cuts = req.Cuts
	}
	if req.Available != nil {
		updated.Available = *req.Available
	}
	if req.MinOrder != nil {
		updated.MinOrder = *req.MinOrder
	}
	if req.MaxOrder != nil {
		updated.MaxOrder = *req.MaxOrder
	}
	if req.ImageURL != nil {
		updated.ImageURL = strings.TrimSpace(*req.ImageURL)
	}
	if updated.MinOrder < 0 || updated.MaxOrder < 0 || (updated.MaxOrder > 0 && updated.MaxOrder < updated.MinOrder) {
		return domain.Product{}, fmt.Errorf("%w: invalid order quantity bounds", store.ErrValidation)
	}
	updated.UpdatedAt = time.Now().UTC()

	saved, err := s.repo.UpdateProduct(ctx, updated)
	if err != nil {
		return domain.Product{}, err
	}

	s.logAudit(ctx, "product_update", "product", saved.ID, fmt.Sprintf("available=%t", saved.Available))
	return *saved, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return fmt.Errorf("admin role required")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: product id required", store.ErrValidation)
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.logAudit(ctx, "product_delete", "product", id, "")
	return nil
}

func (s *Service) ListAuditLogs(ctx context.Context, entityType string, limit int) ([]domain.AuditLog, error) {
	if limit < 1 {
		limit = 100
	}
	return s.repo.ListAuditLogs(ctx, strings.TrimSpace(entityType), limit)
}

func validateCuts(cuts map[string]map[string]decimal.Decimal) error {
	for cut, tiers := range cuts {
		if strings.TrimSpace(cut) == "" {
			return fmt.Errorf("%w: cut name must not be empty", store.ErrValidation)
		}
		if len(tiers) == 0 {
			return fmt.Errorf("%w: cut %q has no tier prices", store.ErrValidation, cut)
		}
		for tier, price := range tiers {
			if tier != domain.PricingTierNormalized && tier != domain.PricingTierPremium {
				return fmt.Errorf("%w: unknown pricing tier %q for cut %q", store.ErrValidation, tier, cut)
			}
			if price.IsNegative() {
				return fmt.Errorf("%w: negative price for cut %q tier %q", store.ErrValidation, cut, tier)
			}
		}
	}
	return nil
}

func (s *Service) logAudit(ctx context.Context, action string, entityType string, entityID string, detail string) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		actor = domain.Actor{Username: "system", Role: "system"}
	}

	if err := s.repo.CreateAuditLog(ctx, domain.AuditLog{
		ID:            xid.New("audit"),
		ActorUsername: actor.Username,
		ActorRole:     actor.Role,
		Action:        action,
		EntityType:    entityType,
		EntityID:      entityID,
		Detail:        detail,
		CreatedAt:     time.Now().UTC(),
	}); err != nil {
		log.Printf("[audit] WARN: failed to write audit log action=%s entity=%s/%s: %v", action, entityType, entityID, err)
	}
}

func requireAdmin(ctx context.Context) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return fmt.Errorf("admin role required")
	}
	return nil
}

// isDateInRange filters YYYY-MM-DD strings lexicographically; empty bounds
// are open.
func isDateInRange(date string, from string, to string) bool {
	if from != "" && date < from {
		return false
	}
	if to != "" && date > to {
		return false
	}
	return true
}

func isValidDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}
