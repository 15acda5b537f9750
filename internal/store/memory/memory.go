package memory

import (
	"context"
	"log"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"shilohridge/backend/internal/domain"
	"shilohridge/backend/internal/store"
	"shilohridge/backend/internal/xid"
)

type Store struct {
	mu                  sync.RWMutex
	products            map[string]domain.Product
	orders              map[string]domain.Order
	customers           map[string]domain.Customer
	sales               map[string]domain.SaleRecord
	inventory           map[string]domain.InventoryItem
	inventoryByAnimalID map[string]string
	expenses            map[string]domain.Expense
	revenues            map[string]domain.Revenue
	livestock           map[string]domain.Livestock
	documents           map[string]domain.Document
	contactForms        map[string]domain.ContactForm
	about               *domain.AboutContent
	settings            *domain.SiteSettings
	blogPosts           map[string]domain.BlogPost
	nftRecords          map[string]domain.NFTRecord
	usersByUsername     map[string]domain.UserAccount
	auditLogs           []domain.AuditLog
}

// seedUsers builds the initial in-memory admin account for dev/demo mode.
// The credential is read from the SEED_ADMIN_PASSWORD environment variable.
// If unset, a hardcoded dev default is used with a warning printed to stdout.
// These credentials are never used in production (the backend uses PostgreSQL
// when DATABASE_URL is set).
func seedUsers() map[string]domain.UserAccount {
	adminPwd := envOr("SEED_ADMIN_PASSWORD", "admin123")
	if os.Getenv("SEED_ADMIN_PASSWORD") == "" {
		log.Println("[memory-store] WARNING: using default dev credentials. Set SEED_ADMIN_PASSWORD to override.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPwd), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("[memory-store] failed to hash seed password: %v", err)
	}

	return map[string]domain.UserAccount{
		"admin": {
			Username:  "admin",
			Password:  string(hash),
			Role:      "admin",
			Active:    true,
			CreatedAt: time.Now().UTC(),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func decPtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func NewSeeded() *Store {
	now := time.Now().UTC()

	eggs := dec("8.00")
	products := []domain.Product{
		{
			ID:           "prod-eggs",
			Name:         "Farm Fresh Eggs",
			Description:  "Pasture-raised eggs collected daily.",
			Category:     "eggs",
			PricePerUnit: &eggs,
			Unit:         "dozen",
			Available:    true,
			MinOrder:     1,
			MaxOrder:     12,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			ID:          "prod-half-hog",
			Name:        "Half Hog",
			Description: "Custom-cut half hog, deposit required.",
			Category:    "pork",
			Unit:        "share",
			Cuts: map[string]map[string]decimal.Decimal{
				"loin":     {domain.PricingTierNormalized: dec("3.50"), domain.PricingTierPremium: dec("4.50")},
				"shoulder": {domain.PricingTierNormalized: dec("2.75"), domain.PricingTierPremium: dec("3.40")},
				"belly":    {domain.PricingTierNormalized: dec("4.25"), domain.PricingTierPremium: dec("5.25")},
				"ham":      {domain.PricingTierNormalized: dec("3.10")},
			},
			Available: true,
			MinOrder:  1,
			MaxOrder:  2,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:           "prod-lamb-whole",
			Name:         "Whole Lamb",
			Description:  "Grass-fed Katahdin lamb, processed to order.",
			Category:     "lamb",
			PricePerUnit: decPtr("425.00"),
			Unit:         "each",
			Available:    true,
			MinOrder:     1,
			MaxOrder:     3,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}

	animals := []domain.Livestock{
		{
			ID:                 "lv-ewe-101",
			Name:               "Shiloh Belle",
			Type:               "sheep",
			Breed:              "Katahdin",
			Description:        "Proven ewe, twin lambings two years running.",
			DateOfBirth:        "2023-03-14",
			Weight:             decPtr("145"),
			Price:              decPtr("650.00"),
			Available:          true,
			TagNumber:          "101",
			RegistrationNumber: "KHSI-240101",
			Sire:               "Ridge Runner",
			Dam:                "Meadow Rose",
			BirthType:          "twin",
			Sex:                "female",
			BloodPercentage:    decPtr("100"),
			CoatType:           "A",
			ParentsRegistered:  true,
			Inspected:          true,
			CreatedAt:          now,
			UpdatedAt:          now,
		},
		{
			ID:                "lv-ram-07",
			Name:              "Ridge Sentinel",
			Type:              "sheep",
			Breed:             "Katahdin",
			Description:       "Ram lamb out of registered stock, not yet inspected.",
			DateOfBirth:       "2025-02-02",
			Weight:            decPtr("88"),
			Price:             decPtr("450.00"),
			Available:         true,
			TagNumber:         "207",
			Sire:              "Ridge Runner",
			Dam:               "Shiloh Belle",
			BirthType:         "single",
			Sex:               "male",
			BloodPercentage:   decPtr("93.75"),
			CoatType:          "B",
			ParentsRegistered: true,
			CreatedAt:         now,
			UpdatedAt:         now,
		},
		{
			ID:          "lv-hens",
			Name:        "Laying Flock",
			Type:        "chicken",
			Breed:       "Rhode Island Red",
			Description: "Point-of-lay pullets from our spring hatch.",
			Price:       decPtr("28.00"),
			Available:   true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "lv-lgd-01",
			Name:        "Bear",
			Type:        "dog",
			Breed:       "Great Pyrenees",
			Description: "Working livestock guardian, raised with the flock.",
			DateOfBirth: "2024-06-20",
			Available:   false,
			Sex:         "male",
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}

	units := []domain.InventoryItem{
		{
			ID:            "inv-101",
			AnimalID:      "KT-101",
			AnimalType:    "sheep",
			Breed:         "Katahdin",
			Bloodline:     "Ridge Runner",
			Sex:           "female",
			BirthType:     "twin",
			DateOfBirth:   "2023-03-14",
			CurrentWeight: decPtr("145"),
			WeightUnit:    "lbs",
			Status:        domain.InventoryStatusBreeding,
			HealthRecords: []domain.HealthRecord{},
			Photos:        []string{},
			Location:      "north pasture",
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		{
			ID:             "inv-207",
			AnimalID:       "KT-207",
			AnimalType:     "sheep",
			Breed:          "Katahdin",
			Sex:            "male",
			BirthType:      "single",
			DateOfBirth:    "2025-02-02",
			CurrentWeight:  decPtr("88"),
			WeightUnit:     "lbs",
			Status:         domain.InventoryStatusMarket,
			EstimatedValue: decPtr("450.00"),
			HealthRecords:  []domain.HealthRecord{},
			Photos:         []string{},
			Location:       "barn lot",
			CreatedAt:      now,
			UpdatedAt:      now,
		},
	}

	productMap := make(map[string]domain.Product, len(products))
	for _, p := range products {
		productMap[p.ID] = p
	}
	animalMap := make(map[string]domain.Livestock, len(animals))
	for _, a := range animals {
		animalMap[a.ID] = a
	}
	unitMap := make(map[string]domain.InventoryItem, len(units))
	byAnimalID := make(map[string]string, len(units))
	for _, u := range units {
		unitMap[u.ID] = u
		byAnimalID[u.AnimalID] = u.ID
	}

	return &Store{
		products:            productMap,
		orders:              make(map[string]domain.Order),
		customers:           make(map[string]domain.Customer),
		sales:               make(map[string]domain.SaleRecord),
		inventory:           unitMap,
		inventoryByAnimalID: byAnimalID,
		expenses:            make(map[string]domain.Expense),
		revenues:            make(map[string]domain.Revenue),
		livestock:           animalMap,
		documents:           make(map[string]domain.Document),
		contactForms:        make(map[string]domain.ContactForm),
		about: &domain.AboutContent{
			Title:     "Shiloh Ridge Farm",
			Body:      "A family farm raising registered Katahdin sheep, pastured hogs, and laying hens.",
			Mission:   "Honest food, raised well.",
			UpdatedAt: now,
		},
		settings: &domain.SiteSettings{
			FarmName:     "Shiloh Ridge Farm",
			ContactEmail: "hello@shilohridge.example",
			UpdatedAt:    now,
		},
		blogPosts:       make(map[string]domain.BlogPost),
		nftRecords:      make(map[string]domain.NFTRecord),
		usersByUsername: seedUsers(),
		auditLogs:       make([]domain.AuditLog, 0, 128),
	}
}

func cmpString(a, b string) int {
	return strings.Compare(a, b)
}

func cloneProduct(p domain.Product) domain.Product {
	out := p
	if p.Cuts != nil {
		cuts := make(map[string]map[string]decimal.Decimal, len(p.Cuts))
		for cut, tiers := range p.Cuts {
			inner := make(map[string]decimal.Decimal, len(tiers))
			for tier, price := range tiers {
				inner[tier] = price
			}
			cuts[cut] = inner
		}
		out.Cuts = cuts
	}
	return out
}

func cloneOrder(o domain.Order) domain.Order {
	out := o
	out.Items = slices.Clone(o.Items)
	return out
}

func cloneSale(s domain.SaleRecord) domain.SaleRecord {
	out := s
	out.Items = slices.Clone(s.Items)
	return out
}

func cloneInventoryItem(it domain.InventoryItem) domain.InventoryItem {
	out := it
	out.HealthRecords = slices.Clone(it.HealthRecords)
	out.Photos = slices.Clone(it.Photos)
	return out
}

func (s *Store) ListProducts(_ context.Context, includeUnavailable bool) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if !includeUnavailable && !p.Available {
			continue
		}
		products = append(products, cloneProduct(p))
	}

	slices.SortFunc(products, func(a, b domain.Product) int {
		if a.Category == b.Category {
			return cmpString(a.Name, b.Name)
		}
		return cmpString(a.Category, b.Category)
	})

	return products, nil
}

func (s *Store) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, exists := s.products[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	out := cloneProduct(product)
	return &out, nil
}

func (s *Store) CreateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.ID == "" {
		product.ID = xid.New("prod")
	}
	if _, exists := s.products[product.ID]; exists {
		return nil, store.ErrConflict
	}

	s.products[product.ID] = cloneProduct(product)
	created := cloneProduct(product)
	return &created, nil
}

func (s *Store) UpdateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[product.ID]; !exists {
		return nil, store.ErrNotFound
	}

	s.products[product.ID] = cloneProduct(product)
	updated := cloneProduct(product)
	return &updated, nil
}

func (s *Store) DeleteProduct(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *Store) CreateOrder(_ context.Context, order domain.Order) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if order.ID == "" {
		order.ID = xid.New("ord")
	}
	if _, exists := s.orders[order.ID]; exists {
		return nil, store.ErrConflict
	}

	s.orders[order.ID] = cloneOrder(order)
	created := cloneOrder(order)
	return &created, nil
}

func (s *Store) GetOrder(_ context.Context, id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, exists := s.orders[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	out := cloneOrder(order)
	return &out, nil
}

func (s *Store) ListOrders(_ context.Context, status string, limit int) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if status != "" && o.Status != status {
			continue
		}
		orders = append(orders, cloneOrder(o))
	}

	slices.SortFunc(orders, func(a, b domain.Order) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return cmpString(b.ID, a.ID)
		}
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		return 1
	})
	if limit > 0 && len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

func (s *Store) UpdateOrderStatus(_ context.Context, id string, status string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, exists := s.orders[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	order.Status = status
	order.UpdatedAt = time.Now().UTC()
	s.orders[id] = order

	out := cloneOrder(order)
	return &out, nil
}

func (s *Store) CreateCustomer(_ context.Context, customer domain.Customer) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if customer.ID == "" {
		customer.ID = xid.New("cust")
	}
	if _, exists := s.customers[customer.ID]; exists {
		return nil, store.ErrConflict
	}

	s.customers[customer.ID] = customer
	created := customer
	return &created, nil
}

func (s *Store) GetCustomer(_ context.Context, id string) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	customer, exists := s.customers[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	out := customer
	return &out, nil
}

func (s *Store) ListCustomers(_ context.Context, customerType string, search string) ([]domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search = strings.ToLower(search)
	customers := make([]domain.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		if customerType != "" && c.CustomerType != customerType {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Name), search) &&
			!strings.Contains(strings.ToLower(c.Email), search) {
			continue
		}
		customers = append(customers, c)
	}

	slices.SortFunc(customers, func(a, b domain.Customer) int {
		return cmpString(a.Name, b.Name)
	})
	return customers, nil
}

func (s *Store) UpdateCustomer(_ context.Context, customer domain.Customer) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.customers[customer.ID]; !exists {
		return nil, store.ErrNotFound
	}
	s.customers[customer.ID] = customer
	updated := customer
	return &updated, nil
}

func (s *Store) DeleteCustomer(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.customers[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.customers, id)
	return nil
}

func (s *Store) CreateSale(_ context.Context, sale domain.SaleRecord) (*domain.SaleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sale.ID == "" {
		sale.ID = xid.New("sale")
	}
	if _, exists := s.sales[sale.ID]; exists {
		return nil, store.ErrConflict
	}

	s.sales[sale.ID] = cloneSale(sale)
	created := cloneSale(sale)
	return &created, nil
}

func (s *Store) GetSale(_ context.Context, id string) (*domain.SaleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sale, exists := s.sales[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	out := cloneSale(sale)
	return &out, nil
}

func (s *Store) ListSales(_ context.Context, filter domain.SaleFilter) ([]domain.SaleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sales := make([]domain.SaleRecord, 0, len(s.sales))
	for _, sale := range s.sales {
		if filter.PaymentStatus != "" && sale.PaymentStatus != filter.PaymentStatus {
			continue
		}
		if filter.CustomerID != "" && sale.CustomerID != filter.CustomerID {
			continue
		}
		if filter.FromDate != "" && sale.SaleDate < filter.FromDate {
			continue
		}
		if filter.ToDate != "" && sale.SaleDate > filter.ToDate {
			continue
		}
		sales = append(sales, cloneSale(sale))
	}

	slices.SortFunc(sales, func(a, b domain.SaleRecord) int {
		if a.SaleDate == b.SaleDate {
			return cmpString(b.InvoiceID, a.InvoiceID)
		}
		return cmpString(b.SaleDate, a.SaleDate)
	})
	return sales, nil
}

func (s *Store) UpdateSaleStatus(_ context.Context, id string, paymentStatus *string, deliveryStatus *string) (*domain.SaleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sale, exists := s.sales[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	if paymentStatus != nil {
		sale.PaymentStatus = *paymentStatus
	}
	if deliveryStatus != nil {
		sale.DeliveryStatus = *deliveryStatus
	}
	sale.UpdatedAt = time.Now().UTC()
	s.sales[id] = sale

	out := cloneSale(sale)
	return &out, nil
}

func (s *Store) DeleteSale(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sales[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.sales, id)
	return nil
}

func (s *Store) CreateInventoryItem(_ context.Context, item domain.InventoryItem) (*domain.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == "" {
		item.ID = xid.New("inv")
	}
	if _, exists := s.inventory[item.ID]; exists {
		return nil, store.ErrConflict
	}
	if _, exists := s.inventoryByAnimalID[item.AnimalID]; exists {
		return nil, store.ErrConflict
	}

	s.inventory[item.ID] = cloneInventoryItem(item)
	s.inventoryByAnimalID[item.AnimalID] = item.ID
	created := cloneInventoryItem(item)
	return &created, nil
}

func (s *Store) GetInventoryItem(_ context.Context, id string) (*domain.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.inventory[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	out := cloneInventoryItem(item)
	return &out, nil
}

func (s *Store) GetInventoryItemByAnimalID(_ context.Context, animalID string) (*domain.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.inventoryByAnimalID[animalID]
	if !exists {
		return nil, store.ErrNotFound
	}
	item := s.inventory[id]
	out := cloneInventoryItem(item)
	return &out, nil
}

func (s *Store) ListInventory(_ context.Context, filter domain.InventoryFilter) ([]domain.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.InventoryItem, 0, len(s.inventory))
	for _, item := range s.inventory {
		if filter.AnimalType != "" && item.AnimalType != filter.AnimalType {
			continue
		}
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		if filter.Breed != "" && !strings.EqualFold(item.Breed, filter.Breed) {
			continue
		}
		if filter.MinWeight != nil && (item.CurrentWeight == nil || item.CurrentWeight.LessThan(*filter.MinWeight)) {
			continue
		}
		if filter.MaxWeight != nil && (item.CurrentWeight == nil || item.CurrentWeight.GreaterThan(*filter.MaxWeight)) {
			continue
		}
		items = append(items, cloneInventoryItem(item))
	}

	slices.SortFunc(items, func(a, b domain.InventoryItem) int {
		if a.AnimalType == b.AnimalType {
			return cmpString(a.AnimalID, b.AnimalID)
		}
		return cmpString(a.AnimalType, b.AnimalType)
	})
	return items, nil
}

func (s *Store) UpdateInventoryItem(_ context.Context, item domain.InventoryItem) (*domain.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.inventory[item.ID]
	if !exists {
		return nil, store.ErrNotFound
	}
	if item.AnimalID != existing.AnimalID {
		if _, taken := s.inventoryByAnimalID[item.AnimalID]; taken {
			return nil, store.ErrConflict
		}
		delete(s.inventoryByAnimalID, existing.AnimalID)
		s.inventoryByAnimalID[item.AnimalID] = item.ID
	}

	s.inventory[item.ID] = cloneInventoryItem(item)
	updated := cloneInventoryItem(item)
	return &updated, nil
}

func (s *Store) DeleteInventoryItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.inventory[id]
	if !exists {
		return store.ErrNotFound
	}
	delete(s.inventoryByAnimalID, item.AnimalID)
	delete(s.inventory, id)
	return nil
}

func (s *Store) SetInventoryStatus(_ context.Context, id string, status string) (*domain.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.inventory[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	item.Status = status
	item.UpdatedAt = time.Now().UTC()
	s.inventory[id] = item

	out := cloneInventoryItem(item)
	return &out, nil
}

func (s *Store) MarkInventorySold(_ context.Context, id string, salePrice decimal.Decimal) (*domain.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.inventory[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	if item.Status == domain.InventoryStatusSold {
		return nil, store.ErrConflict
	}
	item.Status = domain.InventoryStatusSold
	item.SalePrice = &salePrice
	item.UpdatedAt = time.Now().UTC()
	s.inventory[id] = item

	out := cloneInventoryItem(item)
	return &out, nil
}

func (s *Store) AddHealthRecord(_ context.Context, itemID string, record domain.HealthRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.inventory[itemID]
	if !exists {
		return store.ErrNotFound
	}
	item.HealthRecords = append(slices.Clone(item.HealthRecords), record)
	item.UpdatedAt = time.Now().UTC()
	s.inventory[itemID] = item
	return nil
}

func (s *Store) CreateExpense(_ context.Context, expense domain.Expense) (*domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expense.ID == "" {
		expense.ID = xid.New("exp")
	}
	if _, exists := s.expenses[expense.ID]; exists {
		return nil, store.ErrConflict
	}

	s.expenses[expense.ID] = expense
	created := expense
	return &created, nil
}

func (s *Store) GetExpense(_ context.Context, id string) (*domain.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expense, exists := s.expenses[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	out := expense
	return &out, nil
}

func (s *Store) ListExpenses(_ context.Context, filter domain.LedgerFilter) ([]domain.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expenses := make([]domain.Expense, 0, len(s.expenses))
	for _, e := range s.expenses {
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		if filter.PaymentStatus != "" && e.PaymentStatus != filter.PaymentStatus {
			continue
		}
		if filter.FromDate != "" && e.Date < filter.FromDate {
			continue
		}
		if filter.ToDate != "" && e.Date > filter.ToDate {
			continue
		}
		expenses = append(expenses, e)
	}

	slices.SortFunc(expenses, func(a, b domain.Expense) int {
		if a.Date == b.Date {
			return cmpString(b.ID, a.ID)
		}
		return cmpString(b.Date, a.Date)
	})
	return expenses, nil
}

func (s *Store) UpdateExpense(_ context.Context, expense domain.Expense) (*domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.expenses[expense.ID]; !exists {
		return nil, store.ErrNotFound
	}
	s.expenses[expense.ID] = expense
	updated := expense
	return &updated, nil
}

func (s *Store) DeleteExpense(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.expenses[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.expenses, id)
	return nil
}

func (s *Store) CreateRevenue(_ context.Context, revenue domain.Revenue) (*domain.Revenue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if revenue.ID == "" {
		revenue.ID = xid.New("rev")
	}
	if _, exists := s.revenues[revenue.ID]; exists {
		return nil, store.ErrConflict
	}

	s.revenues[revenue.ID] = revenue
	created := revenue
	return &created, nil
}

func (s *Store) GetRevenue(_ context.Context, id string) (*domain.Revenue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	revenue, exists := s.revenues[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	out := revenue
	return &out, nil
}

func (s *Store) ListRevenue(_ context.Context, filter domain.LedgerFilter) ([]domain.Revenue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	revenues := make([]domain.Revenue, 0, len(s.revenues))
	for _, r := range s.revenues {
		if filter.Category != "" && r.Type != filter.Category {
			continue
		}
		if filter.PaymentStatus != "" && r.PaymentStatus != filter.PaymentStatus {
			continue
		}
		if filter.FromDate != "" && r.Date < filter.FromDate {
			continue
		}
		if filter.ToDate != "" && r.Date > filter.ToDate {
			continue
		}
		revenues = append(revenues, r)
	}

	slices.SortFunc(revenues, func(a, b domain.Revenue) int {
		if a.Date == b.Date {
			return cmpString(b.ID, a.ID)
		}
		return cmpString(b.Date, a.Date)
	})
	return revenues, nil
}

func (s *Store) UpdateRevenue(_ context.Context, revenue domain.Revenue) (*domain.Revenue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.revenues[revenue.ID]; !exists {
		return nil, store.ErrNotFound
	}
	s.revenues[revenue.ID] = revenue
	updated := revenue
	return &updated, nil
}

func (s *Store) DeleteRevenue(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.revenues[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.revenues, id)
	return nil
}

func (s *Store) CreateLivestock(_ context.Context, animal domain.Livestock) (*domain.Livestock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if animal.ID == "" {
		animal.ID = xid.New("lv")
	}
	if _, exists := s.livestock[animal.ID]; exists {
		return nil, store.ErrConflict
	}

	s.livestock[animal.ID] = animal
	created := animal
	return &created, nil
}

func (s *Store) GetLivestock(_ context.Context, id string) (*domain.Livestock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	animal, exists := s.livestock[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	out := animal
	return &out, nil
}

func (s *Store) ListLivestock(_ context.Context, availableOnly bool) ([]domain.Livestock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	animals := make([]domain.Livestock, 0, len(s.livestock))
	for _, a := range s.livestock {
		if availableOnly && !a.Available {
			continue
		}
		animals = append(animals, a)
	}

	slices.SortFunc(animals, func(a, b domain.Livestock) int {
		if a.Type == b.Type {
			return cmpString(a.Name, b.Name)
		}
		return cmpString(a.Type, b.Type)
	})
	return animals, nil
}

func (s *Store) UpdateLivestock(_ context.Context, animal domain.Livestock) (*domain.Livestock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.livestock[animal.ID]; !exists {
		return nil, store.ErrNotFound
	}
	s.livestock[animal.ID] = animal
	updated := animal
	return &updated, nil
}

func (s *Store) DeleteLivestock(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.livestock[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.livestock, id)
	return nil
}

func (s *Store) CreateDocument(_ context.Context, doc domain.Document) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.ID == "" {
		doc.ID = xid.New("doc")
	}
	if _, exists := s.documents[doc.ID]; exists {
		return nil, store.ErrConflict
	}

	s.documents[doc.ID] = doc
	created := doc
	return &created, nil
}

func (s *Store) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, exists := s.documents[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	out := doc
	return &out, nil
}

func (s *Store) ListDocuments(_ context.Context, category string, publicOnly bool) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]domain.Document, 0, len(s.documents))
	for _, d := range s.documents {
		if category != "" && d.Category != category {
			continue
		}
		if publicOnly && !d.IsPublic {
			continue
		}
		docs = append(docs, d)
	}

	slices.SortFunc(docs, func(a, b domain.Document) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return cmpString(b.ID, a.ID)
		}
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		return 1
	})
	return docs, nil
}

func (s *Store) UpdateDocument(_ context.Context, doc domain.Document) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.documents[doc.ID]; !exists {
		return nil, store.ErrNotFound
	}
	s.documents[doc.ID] = doc
	updated := doc
	return &updated, nil
}

func (s *Store) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.documents[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.documents, id)
	return nil
}

func (s *Store) CreateContactForm(_ context.Context, form domain.ContactForm) (*domain.ContactForm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if form.ID == "" {
		form.ID = xid.New("contact")
	}
	s.contactForms[form.ID] = form
	created := form
	return &created, nil
}

func (s *Store) ListContactForms(_ context.Context, unreadOnly bool) ([]domain.ContactForm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	forms := make([]domain.ContactForm, 0, len(s.contactForms))
	for _, f := range s.contactForms {
		if unreadOnly && f.Read {
			continue
		}
		forms = append(forms, f)
	}

	slices.SortFunc(forms, func(a, b domain.ContactForm) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return cmpString(b.ID, a.ID)
		}
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		return 1
	})
	return forms, nil
}

func (s *Store) MarkContactFormRead(_ context.Context, id string) (*domain.ContactForm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	form, exists := s.contactForms[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	form.Read = true
	s.contactForms[id] = form

	out := form
	return &out, nil
}

func (s *Store) GetAbout(_ context.Context) (*domain.AboutContent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.about == nil {
		return nil, store.ErrNotFound
	}
	out := *s.about
	return &out, nil
}

func (s *Store) UpsertAbout(_ context.Context, content domain.AboutContent) (*domain.AboutContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.about = &content
	out := content
	return &out, nil
}

func (s *Store) GetSettings(_ context.Context) (*domain.SiteSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.settings == nil {
		return nil, store.ErrNotFound
	}
	out := *s.settings
	return &out, nil
}

func (s *Store) UpsertSettings(_ context.Context, settings domain.SiteSettings) (*domain.SiteSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = &settings
	out := settings
	return &out, nil
}

func (s *Store) CreateBlogPost(_ context.Context, post domain.BlogPost) (*domain.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if post.ID == "" {
		post.ID = xid.New("blog")
	}
	if _, exists := s.blogPosts[post.ID]; exists {
		return nil, store.ErrConflict
	}

	s.blogPosts[post.ID] = post
	created := post
	return &created, nil
}

func (s *Store) GetBlogPost(_ context.Context, id string) (*domain.BlogPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, exists := s.blogPosts[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	out := post
	return &out, nil
}

func (s *Store) ListBlogPosts(_ context.Context, publishedOnly bool) ([]domain.BlogPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]domain.BlogPost, 0, len(s.blogPosts))
	for _, p := range s.blogPosts {
		if publishedOnly && !p.Published {
			continue
		}
		posts = append(posts, p)
	}

	slices.SortFunc(posts, func(a, b domain.BlogPost) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return cmpString(b.ID, a.ID)
		}
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		return 1
	})
	return posts, nil
}

func (s *Store) UpdateBlogPost(_ context.Context, post domain.BlogPost) (*domain.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.blogPosts[post.ID]; !exists {
		return nil, store.ErrNotFound
	}
	s.blogPosts[post.ID] = post
	updated := post
	return &updated, nil
}

func (s *Store) DeleteBlogPost(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.blogPosts[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.blogPosts, id)
	return nil
}

func (s *Store) CreateNFTRecord(_ context.Context, record domain.NFTRecord) (*domain.NFTRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record.ID == "" {
		record.ID = xid.New("nft")
	}
	if _, exists := s.nftRecords[record.ID]; exists {
		return nil, store.ErrConflict
	}

	s.nftRecords[record.ID] = record
	created := record
	return &created, nil
}

func (s *Store) ListNFTRecords(_ context.Context, inventoryID string) ([]domain.NFTRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]domain.NFTRecord, 0, len(s.nftRecords))
	for _, r := range s.nftRecords {
		if inventoryID != "" && r.InventoryID != inventoryID {
			continue
		}
		records = append(records, r)
	}

	slices.SortFunc(records, func(a, b domain.NFTRecord) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return cmpString(b.ID, a.ID)
		}
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		return 1
	})
	return records, nil
}

func (s *Store) DeleteNFTRecord(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nftRecords[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.nftRecords, id)
	return nil
}

func (s *Store) CreateUser(_ context.Context, user domain.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByUsername[user.Username]; exists {
		return store.ErrConflict
	}
	s.usersByUsername[user.Username] = user
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.UserAccount, 0, len(s.usersByUsername))
	for _, u := range s.usersByUsername {
		users = append(users, u)
	}
	slices.SortFunc(users, func(a, b domain.UserAccount) int {
		return cmpString(a.Username, b.Username)
	})
	return users, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, username string, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.usersByUsername[username]
	if !exists {
		return store.ErrNotFound
	}
	user.Password = password
	s.usersByUsername[username] = user
	return nil
}

func (s *Store) CreateAuditLog(_ context.Context, entry domain.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = xid.New("audit")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	s.auditLogs = append(s.auditLogs, entry)
	return nil
}

func (s *Store) ListAuditLogs(_ context.Context, entityType string, limit int) ([]domain.AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	logs := make([]domain.AuditLog, 0, len(s.auditLogs))
	for _, entry := range s.auditLogs {
		if entityType != "" && entry.EntityType != entityType {
			continue
		}
		logs = append(logs, entry)
	}

	slices.SortFunc(logs, func(a, b domain.AuditLog) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return cmpString(b.ID, a.ID)
		}
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		return 1
	})
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}
