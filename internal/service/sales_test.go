package service

import (
	"errors"
	"regexp"
	"testing"

	"github.com/shopspring/decimal"

	"shilohridge/backend/internal/domain"
	"shilohridge/backend/internal/store"
)

var invoicePattern = regexp.MustCompile(`^INV-\d{8}-[A-Z0-9]{8}$`)

func mustCreateCustomer(t *testing.T, svc *Service) domain.Customer {
	t.Helper()
	customer, err := svc.CreateCustomer(adminContext(), domain.CustomerCreateRequest{
		Name:         "Morgan Reyes",
		Email:        "morgan@example.com",
		Phone:        "555-0144",
		Address:      "12 Creek Rd",
		CustomerType: domain.CustomerTypeBreeder,
	})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	return customer
}

func TestCreateSaleSettlement(t *testing.T) {
	svc := newTestService(t)
	customer := mustCreateCustomer(t, svc)

	sale, err := svc.CreateSale(adminContext(), domain.SaleCreateRequest{
		CustomerID: customer.ID,
		SaleType:   domain.SaleTypeBreedingStock,
		Items: []domain.SaleItem{
			{InventoryID: "inv-207", Quantity: 1, UnitPrice: decimal.RequireFromString("150.00")},
		},
		TaxAmount:      decimal.RequireFromString("10.00"),
		DiscountAmount: decimal.RequireFromString("5.00"),
		PaymentMethod:  "check",
	})
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}

	if !invoicePattern.MatchString(sale.InvoiceID) {
		t.Fatalf("unexpected invoice id format %q", sale.InvoiceID)
	}
	if !sale.Subtotal.Equal(decimal.RequireFromString("150.00")) {
		t.Fatalf("expected subtotal 150.00, got %s", sale.Subtotal)
	}
	if !sale.TotalAmount.Equal(decimal.RequireFromString("155.00")) {
		t.Fatalf("expected total 155.00, got %s", sale.TotalAmount)
	}
	if sale.CustomerInfo.Name != customer.Name || sale.CustomerInfo.Address != customer.Address {
		t.Fatalf("expected customer snapshot on sale, got %+v", sale.CustomerInfo)
	}
	if sale.Items[0].AnimalID != "KT-207" {
		t.Fatalf("expected animal tag from inventory, got %q", sale.Items[0].AnimalID)
	}

	unit, err := svc.GetInventoryItem(adminContext(), "inv-207")
	if err != nil {
		t.Fatalf("get inventory: %v", err)
	}
	if unit.Status != domain.InventoryStatusSold {
		t.Fatalf("expected inventory sold after settlement, got %s", unit.Status)
	}
	if unit.SalePrice == nil || !unit.SalePrice.Equal(decimal.RequireFromString("150.00")) {
		t.Fatalf("expected closed sale price 150.00 on unit, got %v", unit.SalePrice)
	}
}

func TestCreateSaleSnapshotSurvivesCustomerEdit(t *testing.T) {
	svc := newTestService(t)
	customer := mustCreateCustomer(t, svc)

	sale, err := svc.CreateSale(adminContext(), domain.SaleCreateRequest{
		CustomerID: customer.ID,
		Items: []domain.SaleItem{
			{InventoryID: "inv-207", Quantity: 1, UnitPrice: decimal.RequireFromString("200.00")},
		},
	})
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}

	newName := "Morgan Reyes-Whitfield"
	if _, err := svc.UpdateCustomer(adminContext(), customer.ID, domain.CustomerUpdateRequest{Name: &newName}); err != nil {
		t.Fatalf("update customer: %v", err)
	}

	reloaded, err := svc.GetSale(adminContext(), sale.ID)
	if err != nil {
		t.Fatalf("get sale: %v", err)
	}
	if reloaded.CustomerInfo.Name != "Morgan Reyes" {
		t.Fatalf("customer edits must not rewrite the sale snapshot, got %q", reloaded.CustomerInfo.Name)
	}
}

func TestCreateSaleRejectsAlreadySoldUnit(t *testing.T) {
	svc := newTestService(t)
	customer := mustCreateCustomer(t, svc)

	first := domain.SaleCreateRequest{
		CustomerID: customer.ID,
		Items: []domain.SaleItem{
			{InventoryID: "inv-207", Quantity: 1, UnitPrice: decimal.RequireFromString("150.00")},
		},
	}
	if _, err := svc.CreateSale(adminContext(), first); err != nil {
		t.Fatalf("first sale: %v", err)
	}

	if _, err := svc.CreateSale(adminContext(), first); !errors.Is(err, store.ErrInvalidState) {
		t.Fatalf("expected invalid-state on second sale of the same animal, got %v", err)
	}
}

func TestCreateSaleChecksAllItemsBeforeWriting(t *testing.T) {
	svc := newTestService(t)
	customer := mustCreateCustomer(t, svc)

	_, err := svc.CreateSale(adminContext(), domain.SaleCreateRequest{
		CustomerID: customer.ID,
		Items: []domain.SaleItem{
			{InventoryID: "inv-207", Quantity: 1, UnitPrice: decimal.RequireFromString("150.00")},
			{InventoryID: "inv-missing", Quantity: 1, UnitPrice: decimal.RequireFromString("90.00")},
		},
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not-found for missing inventory, got %v", err)
	}

	// The valid unit must remain untouched.
	unit, err := svc.GetInventoryItem(adminContext(), "inv-207")
	if err != nil {
		t.Fatalf("get inventory: %v", err)
	}
	if unit.Status == domain.InventoryStatusSold {
		t.Fatalf("failed sale must not mark inventory sold")
	}

	sales, err := svc.ListSales(adminContext(), domain.SaleFilter{})
	if err != nil {
		t.Fatalf("list sales: %v", err)
	}
	if len(sales) != 0 {
		t.Fatalf("failed sale must leave no record, found %d", len(sales))
	}
}

func TestUpdateSaleStatus(t *testing.T) {
	svc := newTestService(t)
	customer := mustCreateCustomer(t, svc)

	sale, err := svc.CreateSale(adminContext(), domain.SaleCreateRequest{
		CustomerID: customer.ID,
		Items: []domain.SaleItem{
			{InventoryID: "inv-207", Quantity: 1, UnitPrice: decimal.RequireFromString("150.00")},
		},
	})
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}

	paid := domain.PaymentStatusPaid
	updated, err := svc.UpdateSaleStatus(adminContext(), sale.ID, domain.SaleStatusUpdateRequest{PaymentStatus: &paid})
	if err != nil {
		t.Fatalf("update sale status: %v", err)
	}
	if updated.PaymentStatus != domain.PaymentStatusPaid {
		t.Fatalf("expected paid, got %s", updated.PaymentStatus)
	}
	if updated.DeliveryStatus != domain.DeliveryStatusPending {
		t.Fatalf("unspecified delivery status must stay pending, got %s", updated.DeliveryStatus)
	}

	if _, err := svc.UpdateSaleStatus(adminContext(), sale.ID, domain.SaleStatusUpdateRequest{}); !errors.Is(err, store.ErrValidation) {
		t.Fatalf("expected validation error with nothing to update, got %v", err)
	}
}

func TestSaleStatsGrouping(t *testing.T) {
	svc := newTestService(t)
	customer := mustCreateCustomer(t, svc)

	if _, err := svc.CreateSale(adminContext(), domain.SaleCreateRequest{
		CustomerID:    customer.ID,
		SaleType:      domain.SaleTypeMarket,
		PaymentStatus: domain.PaymentStatusPaid,
		Items: []domain.SaleItem{
			{InventoryID: "inv-207", Quantity: 1, UnitPrice: decimal.RequireFromString("450.00")},
		},
	}); err != nil {
		t.Fatalf("create sale: %v", err)
	}

	stats, err := svc.SaleStats(adminContext(), domain.SaleFilter{})
	if err != nil {
		t.Fatalf("sale stats: %v", err)
	}
	if stats.TotalSales != 1 {
		t.Fatalf("expected 1 sale, got %d", stats.TotalSales)
	}
	if !stats.GrandTotal.Equal(decimal.RequireFromString("450.00")) {
		t.Fatalf("expected grand total 450.00, got %s", stats.GrandTotal)
	}
	if len(stats.Buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(stats.Buckets))
	}
	bucket := stats.Buckets[0]
	if bucket.PaymentStatus != domain.PaymentStatusPaid || bucket.SaleType != domain.SaleTypeMarket {
		t.Fatalf("unexpected bucket %+v", bucket)
	}
}

func TestCreateSaleTwoItemSubtotal(t *testing.T) {
	svc := newTestService(t)
	customer := mustCreateCustomer(t, svc)

	sale, err := svc.CreateSale(adminContext(), domain.SaleCreateRequest{
		CustomerID: customer.ID,
		SaleType:   domain.SaleTypeMarket,
		Items: []domain.SaleItem{
			{InventoryID: "inv-101", Quantity: 1, UnitPrice: decimal.RequireFromString("100.00")},
			{InventoryID: "inv-207", Quantity: 1, UnitPrice: decimal.RequireFromString("50.00")},
		},
		TaxAmount:      decimal.RequireFromString("10.00"),
		DiscountAmount: decimal.RequireFromString("5.00"),
	})
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}

	if !sale.Subtotal.Equal(decimal.RequireFromString("150.00")) {
		t.Fatalf("expected subtotal 150.00, got %s", sale.Subtotal)
	}
	if !sale.TotalAmount.Equal(decimal.RequireFromString("155.00")) {
		t.Fatalf("expected total 155.00, got %s", sale.TotalAmount)
	}
	if len(sale.Items) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(sale.Items))
	}

	for _, id := range []string{"inv-101", "inv-207"} {
		unit, err := svc.GetInventoryItem(adminContext(), id)
		if err != nil {
			t.Fatalf("get inventory %s: %v", id, err)
		}
		if unit.Status != domain.InventoryStatusSold {
			t.Fatalf("expected %s sold after settlement, got %s", id, unit.Status)
		}
	}
}

func TestCreateSalePreservesNegativeTotal(t *testing.T) {
	svc := newTestService(t)
	customer := mustCreateCustomer(t, svc)

	sale, err := svc.CreateSale(adminContext(), domain.SaleCreateRequest{
		CustomerID: customer.ID,
		SaleType:   domain.SaleTypeMarket,
		Items: []domain.SaleItem{
			{InventoryID: "inv-207", Quantity: 1, UnitPrice: decimal.RequireFromString("50.00")},
		},
		TaxAmount:      decimal.RequireFromString("5.00"),
		DiscountAmount: decimal.RequireFromString("100.00"),
	})
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}

	if !sale.TotalAmount.Equal(decimal.RequireFromString("-45.00")) {
		t.Fatalf("expected total -45.00 preserved, got %s", sale.TotalAmount)
	}

	stored, err := svc.GetSale(adminContext(), sale.ID)
	if err != nil {
		t.Fatalf("get sale: %v", err)
	}
	if !stored.TotalAmount.Equal(decimal.RequireFromString("-45.00")) {
		t.Fatalf("expected persisted total -45.00, got %s", stored.TotalAmount)
	}
}

func TestCreateSaleRejectsZeroQuantity(t *testing.T) {
	svc := newTestService(t)
	customer := mustCreateCustomer(t, svc)

	_, err := svc.CreateSale(adminContext(), domain.SaleCreateRequest{
		CustomerID: customer.ID,
		SaleType:   domain.SaleTypeMarket,
		Items: []domain.SaleItem{
			{InventoryID: "inv-207", Quantity: 0, UnitPrice: decimal.RequireFromString("150.00")},
		},
	})
	if !errors.Is(err, store.ErrValidation) {
		t.Fatalf("expected validation error for zero quantity, got %v", err)
	}

	unit, err := svc.GetInventoryItem(adminContext(), "inv-207")
	if err != nil {
		t.Fatalf("get inventory: %v", err)
	}
	if unit.Status == domain.InventoryStatusSold {
		t.Fatalf("rejected sale must not mark inventory sold")
	}
}
