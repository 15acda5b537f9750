package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shilohridge/backend/internal/domain"
	"shilohridge/backend/internal/store"
)

func (s *Service) CreateCustomer(ctx context.Context, req domain.CustomerCreateRequest) (domain.Customer, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.Customer{}, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" {
		return domain.Customer{}, fmt.Errorf("%w: customer name is required", store.ErrValidation)
	}
	customerType := normalizeCustomerType(req.CustomerType)
	if customerType == "" {
		return domain.Customer{}, fmt.Errorf("%w: unknown customer type %q", store.ErrValidation, req.CustomerType)
	}

	now := time.Now().UTC()
	customer := domain.Customer{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        strings.TrimSpace(req.Phone),
		Address:      strings.TrimSpace(req.Address),
		CustomerType: customerType,
		Notes:        strings.TrimSpace(req.Notes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.CreateCustomer(ctx, customer)
	if err != nil {
		return domain.Customer{}, err
	}

	s.logAudit(ctx, "customer_create", "customer", created.ID, fmt.Sprintf("name=%s,type=%s", created.Name, created.CustomerType))
	return *created, nil
}

func (s *Service) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: customer id required", store.ErrValidation)
	}
	return s.repo.GetCustomer(ctx, id)
}

func (s *Service) ListCustomers(ctx context.Context, customerType string, search string) ([]domain.Customer, error) {
	customerType = strings.TrimSpace(customerType)
	if customerType != "" {
		customerType = normalizeCustomerType(customerType)
		if customerType == "" {
			return nil, fmt.Errorf("%w: unknown customer type", store.ErrValidation)
		}
	}
	return s.repo.ListCustomers(ctx, customerType, strings.TrimSpace(search))
}

func (s *Service) UpdateCustomer(ctx context.Context, id string, req domain.CustomerUpdateRequest) (domain.Customer, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.Customer{}, err
	}

	existing, err := s.GetCustomer(ctx, id)
	if err != nil {
		return domain.Customer{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Customer{}, fmt.Errorf("%w: customer name must not be empty", store.ErrValidation)
		}
		updated.Name = name
	}
	if req.Email != nil {
		updated.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		updated.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		updated.Address = strings.TrimSpace(*req.Address)
	}
	if req.CustomerType != nil {
		customerType := normalizeCustomerType(*req.CustomerType)
		if customerType == "" {
			return domain.Customer{}, fmt.Errorf("%w: unknown customer type %q", store.ErrValidation, *req.CustomerType)
		}
		updated.CustomerType = customerType
	}
	if req.Notes != nil {
		updated.Notes = strings.TrimSpace(*req.Notes)
	}
	updated.UpdatedAt = time.Now().UTC()

	saved, err := s.repo.UpdateCustomer(ctx, updated)
	if err != nil {
		return domain.Customer{}, err
	}

	s.logAudit(ctx, "customer_update", "customer", saved.ID, "")
	return *saved, nil
}

func (s *Service) DeleteCustomer(ctx context.Context, id string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: customer id required", store.ErrValidation)
	}
	if err := s.repo.DeleteCustomer(ctx, id); err != nil {
		return err
	}
	s.logAudit(ctx, "customer_delete", "customer", id, "")
	return nil
}

// newInvoiceID builds an invoice identifier of the form
// INV-YYYYMMDD-XXXXXXXX where the date is the settlement date and the suffix
// is 8 uppercase alphanumerics. Collisions are statistically negligible; no
// uniqueness retry is attempted.
func newInvoiceID(settledAt time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("INV-%s-%s", settledAt.Format("20060102"), suffix)
}

// CreateSale settles an admin-side sale against named inventory units.
//
// The customer's contact fields are snapshotted into the record, every
// referenced unit is checked before anything is written, and the sold
// transition runs after the sale record persists. A crash between those two
// steps leaves a sale pointing at still-available inventory; the conditional
// sold-transition in the store surfaces the race as a conflict rather than a
// silent double sale.
func (s *Service) CreateSale(ctx context.Context, req domain.SaleCreateRequest) (domain.SaleRecord, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.SaleRecord{}, err
	}

	customerID := strings.TrimSpace(req.CustomerID)
	if customerID == "" {
		return domain.SaleRecord{}, fmt.Errorf("%w: customer id required", store.ErrValidation)
	}
	if len(req.Items) == 0 {
		return domain.SaleRecord{}, fmt.Errorf("%w: sale needs at least one item", store.ErrValidation)
	}

	customer, err := s.repo.GetCustomer(ctx, customerID)
	if err != nil {
		return domain.SaleRecord{}, fmt.Errorf("customer %s: %w", customerID, err)
	}

	items := make([]domain.SaleItem, 0, len(req.Items))
	subtotal := decimal.Zero
	for _, item := range req.Items {
		inventoryID := strings.TrimSpace(item.InventoryID)
		if inventoryID == "" {
			return domain.SaleRecord{}, fmt.Errorf("%w: inventory id required on every item", store.ErrValidation)
		}
		if item.Quantity < 1 {
			return domain.SaleRecord{}, fmt.Errorf("%w: quantity must be positive for inventory %s", store.ErrValidation, inventoryID)
		}
		if item.UnitPrice.IsNegative() {
			return domain.SaleRecord{}, fmt.Errorf("%w: unit price must not be negative", store.ErrValidation)
		}

		unit, err := s.repo.GetInventoryItem(ctx, inventoryID)
		if err != nil {
			return domain.SaleRecord{}, fmt.Errorf("inventory %s: %w", inventoryID, err)
		}
		if unit.Status == domain.InventoryStatusSold {
			return domain.SaleRecord{}, fmt.Errorf("%w: animal %s already sold", store.ErrInvalidState, unit.AnimalID)
		}

		item.InventoryID = unit.ID
		item.AnimalID = unit.AnimalID
		item.AnimalType = unit.AnimalType
		items = append(items, item)
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	total := subtotal.Add(req.TaxAmount).Sub(req.DiscountAmount)
	if total.IsNegative() {
		log.Printf("[service] WARN: sale for customer %s settles negative (total=%s)", customerID, total.StringFixed(2))
	}

	now := time.Now().UTC()
	saleDate := strings.TrimSpace(req.SaleDate)
	if saleDate == "" {
		saleDate = now.Format("2006-01-02")
	} else if !isValidDate(saleDate) {
		return domain.SaleRecord{}, fmt.Errorf("%w: sale_date must be YYYY-MM-DD", store.ErrValidation)
	}

	sale := domain.SaleRecord{
		ID:         uuid.NewString(),
		InvoiceID:  newInvoiceID(now),
		SaleDate:   saleDate,
		CustomerID: customer.ID,
		CustomerInfo: domain.CustomerSnapshot{
			Name:    customer.Name,
			Email:   customer.Email,
			Phone:   customer.Phone,
			Address: customer.Address,
		},
		SaleType:       defaultString(req.SaleType, domain.SaleTypeMarket),
		Items:          items,
		Subtotal:       subtotal,
		TaxAmount:      req.TaxAmount,
		DiscountAmount: req.DiscountAmount,
		TotalAmount:    total,
		PaymentMethod:  defaultString(req.PaymentMethod, "cash"),
		PaymentStatus:  defaultString(req.PaymentStatus, domain.PaymentStatusPending),
		DeliveryStatus: defaultString(req.DeliveryStatus, domain.DeliveryStatusPending),
		Notes:          strings.TrimSpace(req.Notes),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if !isValidSaleType(sale.SaleType) {
		return domain.SaleRecord{}, fmt.Errorf("%w: unknown sale type %q", store.ErrValidation, sale.SaleType)
	}
	if !isValidPaymentMethod(sale.PaymentMethod) {
		return domain.SaleRecord{}, fmt.Errorf("%w: unknown payment method %q", store.ErrValidation, sale.PaymentMethod)
	}
	if !isValidPaymentStatus(sale.PaymentStatus) {
		return domain.SaleRecord{}, fmt.Errorf("%w: unknown payment status %q", store.ErrValidation, sale.PaymentStatus)
	}
	if !isValidDeliveryStatus(sale.DeliveryStatus) {
		return domain.SaleRecord{}, fmt.Errorf("%w: unknown delivery status %q", store.ErrValidation, sale.DeliveryStatus)
	}

	created, err := s.repo.CreateSale(ctx, sale)
	if err != nil {
		return domain.SaleRecord{}, err
	}

	for _, item := range created.Items {
		if _, err := s.repo.MarkInventorySold(ctx, item.InventoryID, item.UnitPrice); err != nil {
			// The sale record already exists at this point; surface the error
			// so the caller can reconcile instead of hiding the gap.
			return *created, fmt.Errorf("sale %s persisted but inventory %s not marked sold: %w", created.InvoiceID, item.InventoryID, err)
		}
	}

	s.logAudit(ctx, "sale_create", "sale", created.ID, fmt.Sprintf("invoice=%s,items=%d,total=%s", created.InvoiceID, len(created.Items), created.TotalAmount.StringFixed(2)))
	return *created, nil
}

func (s *Service) GetSale(ctx context.Context, id string) (*domain.SaleRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: sale id required", store.ErrValidation)
	}
	return s.repo.GetSale(ctx, id)
}

func (s *Service) ListSales(ctx context.Context, filter domain.SaleFilter) ([]domain.SaleRecord, error) {
	filter.PaymentStatus = strings.TrimSpace(filter.PaymentStatus)
	if filter.PaymentStatus != "" && !isValidPaymentStatus(filter.PaymentStatus) {
		return nil, fmt.Errorf("%w: unknown payment status %q", store.ErrValidation, filter.PaymentStatus)
	}
	return s.repo.ListSales(ctx, filter)
}

func (s *Service) UpdateSaleStatus(ctx context.Context, id string, req domain.SaleStatusUpdateRequest) (domain.SaleRecord, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.SaleRecord{}, err
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return domain.SaleRecord{}, fmt.Errorf("%w: sale id required", store.ErrValidation)
	}
	if req.PaymentStatus == nil && req.DeliveryStatus == nil {
		return domain.SaleRecord{}, fmt.Errorf("%w: nothing to update", store.ErrValidation)
	}
	if req.PaymentStatus != nil && !isValidPaymentStatus(*req.PaymentStatus) {
		return domain.SaleRecord{}, fmt.Errorf("%w: unknown payment status %q", store.ErrValidation, *req.PaymentStatus)
	}
	if req.DeliveryStatus != nil && !isValidDeliveryStatus(*req.DeliveryStatus) {
		return domain.SaleRecord{}, fmt.Errorf("%w: unknown delivery status %q", store.ErrValidation, *req.DeliveryStatus)
	}

	updated, err := s.repo.UpdateSaleStatus(ctx, id, req.PaymentStatus, req.DeliveryStatus)
	if err != nil {
		return domain.SaleRecord{}, err
	}

	s.logAudit(ctx, "sale_status_update", "sale", updated.ID, fmt.Sprintf("payment=%s,delivery=%s", updated.PaymentStatus, updated.DeliveryStatus))
	return *updated, nil
}

func (s *Service) DeleteSale(ctx context.Context, id string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: sale id required", store.ErrValidation)
	}
	if err := s.repo.DeleteSale(ctx, id); err != nil {
		return err
	}
	s.logAudit(ctx, "sale_delete", "sale", id, "")
	return nil
}

// SaleStats groups sales by payment_status x sale_type in process over a
// materialized scan; no store-side aggregation is involved.
func (s *Service) SaleStats(ctx context.Context, filter domain.SaleFilter) (domain.SaleStatsSummary, error) {
	sales, err := s.ListSales(ctx, filter)
	if err != nil {
		return domain.SaleStatsSummary{}, err
	}

	type key struct {
		payment  string
		saleType string
	}
	buckets := make(map[key]*domain.SaleStatsBucket)
	grand := decimal.Zero

	for _, sale := range sales {
		k := key{payment: sale.PaymentStatus, saleType: sale.SaleType}
		bucket, ok := buckets[k]
		if !ok {
			bucket = &domain.SaleStatsBucket{
				PaymentStatus: sale.PaymentStatus,
				SaleType:      sale.SaleType,
				TotalAmount:   decimal.Zero,
				TotalTax:      decimal.Zero,
			}
			buckets[k] = bucket
		}
		bucket.Count++
		bucket.TotalAmount = bucket.TotalAmount.Add(sale.TotalAmount)
		bucket.TotalTax = bucket.TotalTax.Add(sale.TaxAmount)
		grand = grand.Add(sale.TotalAmount)
	}

	summary := domain.SaleStatsSummary{
		Buckets:    make([]domain.SaleStatsBucket, 0, len(buckets)),
		TotalSales: len(sales),
		GrandTotal: grand,
	}
	for _, bucket := range buckets {
		summary.Buckets = append(summary.Buckets, *bucket)
	}
	sort.Slice(summary.Buckets, func(i, j int) bool {
		if summary.Buckets[i].PaymentStatus == summary.Buckets[j].PaymentStatus {
			return summary.Buckets[i].SaleType < summary.Buckets[j].SaleType
		}
		return summary.Buckets[i].PaymentStatus < summary.Buckets[j].PaymentStatus
	})

	return summary, nil
}

func normalizeCustomerType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", domain.CustomerTypeIndividual:
		return domain.CustomerTypeIndividual
	case domain.CustomerTypeBusiness:
		return domain.CustomerTypeBusiness
	case domain.CustomerTypeBreeder:
		return domain.CustomerTypeBreeder
	default:
		return ""
	}
}

func isValidSaleType(saleType string) bool {
	switch saleType {
	case domain.SaleTypeMarket, domain.SaleTypeBreedingStock, domain.SaleTypeMeat,
		domain.SaleTypeShow, domain.SaleTypeCustomOrder:
		return true
	default:
		return false
	}
}

func isValidPaymentStatus(status string) bool {
	switch status {
	case domain.PaymentStatusPending, domain.PaymentStatusPaid,
		domain.PaymentStatusOverdue, domain.PaymentStatusCancelled:
		return true
	default:
		return false
	}
}

func isValidDeliveryStatus(status string) bool {
	switch status {
	case domain.DeliveryStatusPending, domain.DeliveryStatusShipped,
		domain.DeliveryStatusDelivered, domain.DeliveryStatusPickup:
		return true
	default:
		return false
	}
}

func isValidPaymentMethod(method string) bool {
	switch method {
	case "cash", "check", "online", "crypto", "nft":
		return true
	default:
		return false
	}
}

func defaultString(value string, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}
