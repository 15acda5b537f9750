package service

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"shilohridge/backend/internal/domain"
	"shilohridge/backend/internal/store"
)

func flatProduct(price string) domain.Product {
	p := decimal.RequireFromString(price)
	return domain.Product{ID: "p1", Name: "Farm Fresh Eggs", PricePerUnit: &p}
}

func cutsProduct() domain.Product {
	return domain.Product{
		ID:   "p2",
		Name: "Half Hog",
		Cuts: map[string]map[string]decimal.Decimal{
			"loin": {
				domain.PricingTierNormalized: decimal.RequireFromString("3.50"),
				domain.PricingTierPremium:    decimal.RequireFromString("4.50"),
			},
			"ham": {
				domain.PricingTierNormalized: decimal.RequireFromString("3.10"),
			},
		},
	}
}

func TestResolvePriceFlatIgnoresCutAndTier(t *testing.T) {
	price, err := ResolvePrice(flatProduct("8.00"), "loin", "premium")
	if err != nil {
		t.Fatalf("resolve flat price: %v", err)
	}
	if !price.Equal(decimal.RequireFromString("8.00")) {
		t.Fatalf("expected 8.00, got %s", price)
	}
}

func TestResolvePriceCutRequired(t *testing.T) {
	_, err := ResolvePrice(cutsProduct(), "", "")
	if !errors.Is(err, store.ErrValidation) {
		t.Fatalf("expected validation error for missing cut, got %v", err)
	}
}

func TestResolvePriceUnknownCut(t *testing.T) {
	_, err := ResolvePrice(cutsProduct(), "ribs", "")
	if !errors.Is(err, store.ErrValidation) {
		t.Fatalf("expected validation error for unknown cut, got %v", err)
	}
}

func TestResolvePriceTierSelection(t *testing.T) {
	product := cutsProduct()

	price, err := ResolvePrice(product, "loin", domain.PricingTierPremium)
	if err != nil {
		t.Fatalf("resolve premium loin: %v", err)
	}
	if !price.Equal(decimal.RequireFromString("4.50")) {
		t.Fatalf("expected premium loin 4.50, got %s", price)
	}

	price, err = ResolvePrice(product, "loin", "")
	if err != nil {
		t.Fatalf("resolve default-tier loin: %v", err)
	}
	if !price.Equal(decimal.RequireFromString("3.50")) {
		t.Fatalf("expected normalized loin 3.50, got %s", price)
	}

	// Garbage tier strings fall back to normalized rather than erroring.
	price, err = ResolvePrice(product, "loin", "deluxe")
	if err != nil {
		t.Fatalf("resolve garbage-tier loin: %v", err)
	}
	if !price.Equal(decimal.RequireFromString("3.50")) {
		t.Fatalf("expected normalized fallback 3.50, got %s", price)
	}
}

func TestResolvePricePremiumFallsBackToNormalized(t *testing.T) {
	price, err := ResolvePrice(cutsProduct(), "ham", domain.PricingTierPremium)
	if err != nil {
		t.Fatalf("resolve premium ham: %v", err)
	}
	if !price.Equal(decimal.RequireFromString("3.10")) {
		t.Fatalf("expected normalized fallback 3.10 for cut without premium price, got %s", price)
	}
}

func TestResolvePriceNoPriceAtAll(t *testing.T) {
	_, err := ResolvePrice(domain.Product{ID: "p3", Name: "Misconfigured"}, "", "")
	if !errors.Is(err, store.ErrValidation) {
		t.Fatalf("expected validation error for unpriced product, got %v", err)
	}
}
