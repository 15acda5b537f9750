package store

import (
	"context"
	"errors"

	"shilohridge/backend/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
)

type Repository interface {
	ListProducts(ctx context.Context, includeUnavailable bool) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	CreateOrder(ctx context.Context, order domain.Order) (*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, status string, limit int) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status string) (*domain.Order, error)

	CreateCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error)
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, customerType string, search string) ([]domain.Customer, error)
	UpdateCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error

	CreateSale(ctx context.Context, sale domain.SaleRecord) (*domain.SaleRecord, error)
	GetSale(ctx context.Context, id string) (*domain.SaleRecord, error)
	ListSales(ctx context.Context, filter domain.SaleFilter) ([]domain.SaleRecord, error)
	UpdateSaleStatus(ctx context.Context, id string, paymentStatus *string, deliveryStatus *string) (*domain.SaleRecord, error)
	DeleteSale(ctx context.Context, id string) error

	CreateInventoryItem(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error)
	GetInventoryItem(ctx context.Context, id string) (*domain.InventoryItem, error)
	GetInventoryItemByAnimalID(ctx context.Context, animalID string) (*domain.InventoryItem, error)
	ListInventory(ctx context.Context, filter domain.InventoryFilter) ([]domain.InventoryItem, error)
	UpdateInventoryItem(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error)
	DeleteInventoryItem(ctx context.Context, id string) error
	SetInventoryStatus(ctx context.Context, id string, status string) (*domain.InventoryItem, error)
	// MarkInventorySold transitions an item to sold and records the closed
	// price. The transition is conditional on the item not already being sold;
	// a lost race returns ErrConflict.
	MarkInventorySold(ctx context.Context, id string, salePrice decimal.Decimal) (*domain.InventoryItem, error)
	AddHealthRecord(ctx context.Context, itemID string, record domain.HealthRecord) error

	CreateExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error)
	GetExpense(ctx context.Context, id string) (*domain.Expense, error)
	ListExpenses(ctx context.Context, filter domain.LedgerFilter) ([]domain.Expense, error)
	UpdateExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, id string) error
	CreateRevenue(ctx context.Context, revenue domain.Revenue) (*domain.Revenue, error)
	GetRevenue(ctx context.Context, id string) (*domain.Revenue, error)
	ListRevenue(ctx context.Context, filter domain.LedgerFilter) ([]domain.Revenue, error)
	UpdateRevenue(ctx context.Context, revenue domain.Revenue) (*domain.Revenue, error)
	DeleteRevenue(ctx context.Context, id string) error

	CreateLivestock(ctx context.Context, animal domain.Livestock) (*domain.Livestock, error)
	GetLivestock(ctx context.Context, id string) (*domain.Livestock, error)
	ListLivestock(ctx context.Context, availableOnly bool) ([]domain.Livestock, error)
	UpdateLivestock(ctx context.Context, animal domain.Livestock) (*domain.Livestock, error)
	DeleteLivestock(ctx context.Context, id string) error

	CreateDocument(ctx context.Context, doc domain.Document) (*domain.Document, error)
	GetDocument(ctx context.Context, id string) (*domain.Document, error)
	ListDocuments(ctx context.Context, category string, publicOnly bool) ([]domain.Document, error)
	UpdateDocument(ctx context.Context, doc domain.Document) (*domain.Document, error)
	DeleteDocument(ctx context.Context, id string) error

	CreateContactForm(ctx context.Context, form domain.ContactForm) (*domain.ContactForm, error)
	ListContactForms(ctx context.Context, unreadOnly bool) ([]domain.ContactForm, error)
	MarkContactFormRead(ctx context.Context, id string) (*domain.ContactForm, error)

	GetAbout(ctx context.Context) (*domain.AboutContent, error)
	UpsertAbout(ctx context.Context, content domain.AboutContent) (*domain.AboutContent, error)
	GetSettings(ctx context.Context) (*domain.SiteSettings, error)
	UpsertSettings(ctx context.Context, settings domain.SiteSettings) (*domain.SiteSettings, error)

	CreateBlogPost(ctx context.Context, post domain.BlogPost) (*domain.BlogPost, error)
	GetBlogPost(ctx context.Context, id string) (*domain.BlogPost, error)
	ListBlogPosts(ctx context.Context, publishedOnly bool) ([]domain.BlogPost, error)
	UpdateBlogPost(ctx context.Context, post domain.BlogPost) (*domain.BlogPost, error)
	DeleteBlogPost(ctx context.Context, id string) error

	CreateNFTRecord(ctx context.Context, record domain.NFTRecord) (*domain.NFTRecord, error)
	ListNFTRecords(ctx context.Context, inventoryID string) ([]domain.NFTRecord, error)
	DeleteNFTRecord(ctx context.Context, id string) error

	CreateUser(ctx context.Context, user domain.UserAccount) error
	ListUsers(ctx context.Context) ([]domain.UserAccount, error)
	UpdateUserPassword(ctx context.Context, username string, password string) error

	CreateAuditLog(ctx context.Context, entry domain.AuditLog) error
	ListAuditLogs(ctx context.Context, entityType string, limit int) ([]domain.AuditLog, error)
}
