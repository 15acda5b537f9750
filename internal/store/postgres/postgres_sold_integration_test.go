package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"shilohridge/backend/internal/domain"
	"shilohridge/backend/internal/store"
)

func TestMarkInventorySoldIsConditional(t *testing.T) {
	databaseURL := os.Getenv("SHILOHRIDGE_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set SHILOHRIDGE_TEST_DATABASE_URL to run postgres integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})

	stamp := time.Now().UnixNano()
	id := fmt.Sprintf("inv-sold-it-%d", stamp)
	animalID := fmt.Sprintf("KT-SOLD-IT-%d", stamp)

	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	})

	now := time.Now().UTC()
	if _, err := s.CreateInventoryItem(ctx, domain.InventoryItem{
		ID:            id,
		AnimalID:      animalID,
		AnimalType:    "sheep",
		Breed:         "Katahdin",
		Sex:           "ewe",
		BirthType:     "twin",
		DateOfBirth:   "2025-02-14",
		WeightUnit:    "lb",
		Status:        domain.InventoryStatusMarket,
		HealthRecords: []domain.HealthRecord{},
		Photos:        []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}); err != nil {
		t.Fatalf("create inventory item: %v", err)
	}

	price := decimal.RequireFromString("375.00")
	item, err := s.MarkInventorySold(ctx, id, price)
	if err != nil {
		t.Fatalf("first sold transition: %v", err)
	}
	if item.Status != domain.InventoryStatusSold {
		t.Fatalf("expected status sold, got %s", item.Status)
	}
	if item.SalePrice == nil || !item.SalePrice.Equal(price) {
		t.Fatalf("expected sale price %s, got %v", price, item.SalePrice)
	}

	if _, err := s.MarkInventorySold(ctx, id, price); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected ErrConflict on second sold transition, got %v", err)
	}

	if _, err := s.MarkInventorySold(ctx, "inv-missing", price); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing item, got %v", err)
	}
}
