package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PricingTierNormalized = "normalized"
	PricingTierPremium    = "premium"
)

// Product is a storefront catalog entry. A product either carries a flat
// per-unit price or a cuts matrix (cut name -> pricing tier -> unit price).
// When Cuts is non-empty, PricePerUnit is ignored.
type Product struct {
	ID           string                                `json:"id"`
	Name         string                                `json:"name"`
	Description  string                                `json:"description"`
	Category     string                                `json:"category"`
	PricePerUnit *decimal.Decimal                      `json:"price_per_unit,omitempty"`
	Unit         string                                `json:"unit"`
	Cuts         map[string]map[string]decimal.Decimal `json:"cuts,omitempty"`
	Available    bool                                  `json:"available"`
	MinOrder     int                                   `json:"min_order"`
	MaxOrder     int                                   `json:"max_order"`
	ImageURL     string                                `json:"image_url,omitempty"`
	CreatedAt    time.Time                             `json:"created_at"`
	UpdatedAt    time.Time                             `json:"updated_at"`
}

type ProductCreateRequest struct {
	Name         string                                `json:"name"`
	Description  string                                `json:"description"`
	Category     string                                `json:"category"`
	PricePerUnit *decimal.Decimal                      `json:"price_per_unit,omitempty"`
	Unit         string                                `json:"unit"`
	Cuts         map[string]map[string]decimal.Decimal `json:"cuts,omitempty"`
	Available    *bool                                 `json:"available,omitempty"`
	MinOrder     int                                   `json:"min_order"`
	MaxOrder     int                                   `json:"max_order"`
	ImageURL     string                                `json:"image_url,omitempty"`
}

type ProductUpdateRequest struct {
	Name         *string                               `json:"name,omitempty"`
	Description  *string                               `json:"description,omitempty"`
	Category     *string                               `json:"category,omitempty"`
	PricePerUnit *decimal.Decimal                      `json:"price_per_unit,omitempty"`
	Unit         *string                               `json:"unit,omitempty"`
	Cuts         map[string]map[string]decimal.Decimal `json:"cuts,omitempty"`
	Available    *bool                                 `json:"available,omitempty"`
	MinOrder     *int                                  `json:"min_order,omitempty"`
	MaxOrder     *int                                  `json:"max_order,omitempty"`
	ImageURL     *string                               `json:"image_url,omitempty"`
}

const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusReady      = "ready"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// OrderItem carries the price resolved at settlement time so later catalog
// edits never change a historical order.
type OrderItem struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Quantity     int             `json:"quantity"`
	Cut          string          `json:"cut,omitempty"`
	PricingTier  string          `json:"pricing_tier"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

type Order struct {
	ID            string          `json:"id"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	CustomerPhone string          `json:"customer_phone"`
	Address       string          `json:"address,omitempty"`
	Items         []OrderItem     `json:"items"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Status        string          `json:"status"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type OrderLineRequest struct {
	ProductID   string `json:"product_id"`
	Quantity    int    `json:"quantity"`
	Cut         string `json:"cut,omitempty"`
	PricingTier string `json:"pricing_tier,omitempty"`
}

type OrderCreateRequest struct {
	CustomerName  string             `json:"customer_name"`
	CustomerEmail string             `json:"customer_email"`
	CustomerPhone string             `json:"customer_phone"`
	Address       string             `json:"address,omitempty"`
	Items         []OrderLineRequest `json:"items"`
	Notes         string             `json:"notes,omitempty"`
}

const (
	CustomerTypeIndividual = "individual"
	CustomerTypeBusiness   = "business"
	CustomerTypeBreeder    = "breeder"
)

type Customer struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	CustomerType string    `json:"customer_type"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CustomerCreateRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	CustomerType string `json:"customer_type"`
	Notes        string `json:"notes,omitempty"`
}

type CustomerUpdateRequest struct {
	Name         *string `json:"name,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Address      *string `json:"address,omitempty"`
	CustomerType *string `json:"customer_type,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

const (
	SaleTypeMarket        = "market"
	SaleTypeBreedingStock = "breeding_stock"
	SaleTypeMeat          = "meat"
	SaleTypeShow          = "show"
	SaleTypeCustomOrder   = "custom_order"

	PaymentStatusPending   = "pending"
	PaymentStatusPaid      = "paid"
	PaymentStatusOverdue   = "overdue"
	PaymentStatusCancelled = "cancelled"

	DeliveryStatusPending   = "pending"
	DeliveryStatusShipped   = "shipped"
	DeliveryStatusDelivered = "delivered"
	DeliveryStatusPickup    = "pickup"
)

// CustomerSnapshot is the customer's contact fields copied by value into a
// sale record at settlement time. Later customer edits do not touch it.
type CustomerSnapshot struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type SaleItem struct {
	InventoryID string           `json:"inventory_id"`
	AnimalID    string           `json:"animal_id"`
	AnimalType  string           `json:"animal_type"`
	Quantity    int              `json:"quantity"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	Weight      *decimal.Decimal `json:"weight,omitempty"`
	Description string           `json:"description,omitempty"`
}

type SaleRecord struct {
	ID             string           `json:"id"`
	InvoiceID      string           `json:"invoice_id"`
	SaleDate       string           `json:"sale_date"`
	CustomerID     string           `json:"customer_id"`
	CustomerInfo   CustomerSnapshot `json:"customer_info"`
	SaleType       string           `json:"sale_type"`
	Items          []SaleItem       `json:"items"`
	Subtotal       decimal.Decimal  `json:"subtotal"`
	TaxAmount      decimal.Decimal  `json:"tax_amount"`
	DiscountAmount decimal.Decimal  `json:"discount_amount"`
	TotalAmount    decimal.Decimal  `json:"total_amount"`
	PaymentMethod  string           `json:"payment_method"`
	PaymentStatus  string           `json:"payment_status"`
	DeliveryStatus string           `json:"delivery_status"`
	Notes          string           `json:"notes,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

type SaleCreateRequest struct {
	CustomerID     string          `json:"customer_id"`
	SaleDate       string          `json:"sale_date"`
	SaleType       string          `json:"sale_type"`
	Items          []SaleItem      `json:"items"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	PaymentMethod  string          `json:"payment_method"`
	PaymentStatus  string          `json:"payment_status"`
	DeliveryStatus string          `json:"delivery_status"`
	Notes          string          `json:"notes,omitempty"`
}

type SaleStatusUpdateRequest struct {
	PaymentStatus  *string `json:"payment_status,omitempty"`
	DeliveryStatus *string `json:"delivery_status,omitempty"`
}

type SaleFilter struct {
	PaymentStatus string
	CustomerID    string
	FromDate      string
	ToDate        string
}

// SaleStatsBucket is one payment_status x sale_type grouping in the sales
// summary.
type SaleStatsBucket struct {
	PaymentStatus string          `json:"payment_status"`
	SaleType      string          `json:"sale_type"`
	Count         int             `json:"count"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TotalTax      decimal.Decimal `json:"total_tax"`
}

type SaleStatsSummary struct {
	Buckets    []SaleStatsBucket `json:"buckets"`
	TotalSales int               `json:"total_sales"`
	GrandTotal decimal.Decimal   `json:"grand_total"`
}

const (
	InventoryStatusAvailable = "available"
	InventoryStatusWeaned    = "weaned"
	InventoryStatusBreeding  = "breeding"
	InventoryStatusMarket    = "market"
	InventoryStatusSold      = "sold"
	InventoryStatusArchived  = "archived"
)

type HealthRecord struct {
	ID           string           `json:"id"`
	Date         string           `json:"date"`
	Type         string           `json:"type"`
	Description  string           `json:"description"`
	Veterinarian string           `json:"veterinarian,omitempty"`
	Cost         *decimal.Decimal `json:"cost,omitempty"`
	Notes        string           `json:"notes,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// InventoryItem is one uniquely identified livestock unit tracked through a
// status lifecycle. SalePrice is the closed price set at sale settlement;
// EstimatedValue is the asking valuation.
type InventoryItem struct {
	ID                 string           `json:"id"`
	AnimalID           string           `json:"animal_id"`
	AnimalType         string           `json:"animal_type"`
	Breed              string           `json:"breed"`
	Bloodline          string           `json:"bloodline"`
	Sex                string           `json:"sex"`
	BirthType          string           `json:"birth_type"`
	DateOfBirth        string           `json:"date_of_birth"`
	RegistrationNumber string           `json:"registration_number,omitempty"`
	SireName           string           `json:"sire_name,omitempty"`
	SireTag            string           `json:"sire_tag,omitempty"`
	DamName            string           `json:"dam_name,omitempty"`
	DamTag             string           `json:"dam_tag,omitempty"`
	CurrentWeight      *decimal.Decimal `json:"current_weight,omitempty"`
	WeightUnit         string           `json:"weight_unit"`
	Status             string           `json:"status"`
	HealthRecords      []HealthRecord   `json:"health_records"`
	SalePrice          *decimal.Decimal `json:"sale_price,omitempty"`
	EstimatedValue     *decimal.Decimal `json:"estimated_value,omitempty"`
	BlockchainID       string           `json:"blockchain_id,omitempty"`
	Location           string           `json:"location,omitempty"`
	Notes              string           `json:"notes,omitempty"`
	Photos             []string         `json:"photos"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

type InventoryCreateRequest struct {
	AnimalID           string           `json:"animal_id"`
	AnimalType         string           `json:"animal_type"`
	Breed              string           `json:"breed"`
	Bloodline          string           `json:"bloodline"`
	Sex                string           `json:"sex"`
	BirthType          string           `json:"birth_type"`
	DateOfBirth        string           `json:"date_of_birth"`
	RegistrationNumber string           `json:"registration_number,omitempty"`
	SireName           string           `json:"sire_name,omitempty"`
	SireTag            string           `json:"sire_tag,omitempty"`
	DamName            string           `json:"dam_name,omitempty"`
	DamTag             string           `json:"dam_tag,omitempty"`
	CurrentWeight      *decimal.Decimal `json:"current_weight,omitempty"`
	WeightUnit         string           `json:"weight_unit"`
	Status             string           `json:"status"`
	SalePrice          *decimal.Decimal `json:"sale_price,omitempty"`
	EstimatedValue     *decimal.Decimal `json:"estimated_value,omitempty"`
	BlockchainID       string           `json:"blockchain_id,omitempty"`
	Location           string           `json:"location,omitempty"`
	Notes              string           `json:"notes,omitempty"`
	Photos             []string         `json:"photos,omitempty"`
}

type HealthRecordRequest struct {
	Date         string           `json:"date"`
	Type         string           `json:"type"`
	Description  string           `json:"description"`
	Veterinarian string           `json:"veterinarian,omitempty"`
	Cost         *decimal.Decimal `json:"cost,omitempty"`
	Notes        string           `json:"notes,omitempty"`
}

type InventoryFilter struct {
	AnimalType string
	Status     string
	Breed      string
	MinWeight  *decimal.Decimal
	MaxWeight  *decimal.Decimal
}

type InventoryStatusBreakdown struct {
	Status     string          `json:"status"`
	Count      int             `json:"count"`
	TotalValue decimal.Decimal `json:"total_value"`
	AvgWeight  decimal.Decimal `json:"avg_weight"`
}

type InventoryTypeSummary struct {
	AnimalType string                     `json:"animal_type"`
	Statuses   []InventoryStatusBreakdown `json:"statuses"`
	TotalCount int                        `json:"total_count"`
	TotalValue decimal.Decimal            `json:"total_value"`
}

const (
	ExpensePaymentPaid      = "paid"
	ExpensePaymentPending   = "pending"
	ExpensePaymentScheduled = "scheduled"

	RevenuePaymentReceived = "received"
	RevenuePaymentPending  = "pending"
	RevenuePaymentOverdue  = "overdue"
)

type Expense struct {
	ID                 string          `json:"id"`
	Category           string          `json:"category"`
	Subcategory        string          `json:"subcategory,omitempty"`
	Description        string          `json:"description"`
	Amount             decimal.Decimal `json:"amount"`
	Date               string          `json:"date"`
	VendorSupplier     string          `json:"vendor_supplier,omitempty"`
	PaymentMethod      string          `json:"payment_method"`
	PaymentStatus      string          `json:"payment_status"`
	IsRecurring        bool            `json:"is_recurring"`
	RecurringFrequency string          `json:"recurring_frequency,omitempty"`
	NextDueDate        string          `json:"next_due_date,omitempty"`
	ReferenceID        string          `json:"reference_id,omitempty"`
	ReferenceType      string          `json:"reference_type,omitempty"`
	TaxDeductible      bool            `json:"tax_deductible"`
	Notes              string          `json:"notes,omitempty"`
	Receipts           []string        `json:"receipts"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

type ExpenseCreateRequest struct {
	Category           string          `json:"category"`
	Subcategory        string          `json:"subcategory,omitempty"`
	Description        string          `json:"description"`
	Amount             decimal.Decimal `json:"amount"`
	Date               string          `json:"date"`
	VendorSupplier     string          `json:"vendor_supplier,omitempty"`
	PaymentMethod      string          `json:"payment_method"`
	PaymentStatus      string          `json:"payment_status"`
	IsRecurring        bool            `json:"is_recurring"`
	RecurringFrequency string          `json:"recurring_frequency,omitempty"`
	NextDueDate        string          `json:"next_due_date,omitempty"`
	ReferenceID        string          `json:"reference_id,omitempty"`
	ReferenceType      string          `json:"reference_type,omitempty"`
	TaxDeductible      bool            `json:"tax_deductible"`
	Notes              string          `json:"notes,omitempty"`
	Receipts           []string        `json:"receipts,omitempty"`
}

type Revenue struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date"`
	Source        string          `json:"source,omitempty"`
	PaymentMethod string          `json:"payment_method"`
	PaymentStatus string          `json:"payment_status"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	ReferenceType string          `json:"reference_type,omitempty"`
	TaxCategory   string          `json:"tax_category,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type RevenueCreateRequest struct {
	Type          string          `json:"type"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date"`
	Source        string          `json:"source,omitempty"`
	PaymentMethod string          `json:"payment_method"`
	PaymentStatus string          `json:"payment_status"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	ReferenceType string          `json:"reference_type,omitempty"`
	TaxCategory   string          `json:"tax_category,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

type LedgerFilter struct {
	Category      string
	PaymentStatus string
	FromDate      string
	ToDate        string
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

type FinancialSummary struct {
	FromDate      string          `json:"from_date,omitempty"`
	ToDate        string          `json:"to_date,omitempty"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	NetProfit     decimal.Decimal `json:"net_profit"`
	ProfitMargin  decimal.Decimal `json:"profit_margin"`
	ByExpense     []CategoryTotal `json:"expenses_by_category"`
	ByRevenue     []CategoryTotal `json:"revenue_by_type"`
}

type MonthlyBucket struct {
	Month    string          `json:"month"`
	Expenses decimal.Decimal `json:"expenses"`
	Revenue  decimal.Decimal `json:"revenue"`
	Profit   decimal.Decimal `json:"profit"`
}

type MonthlyReport struct {
	Year    int             `json:"year"`
	Monthly []MonthlyBucket `json:"monthly"`
}

type ExpenseCategory struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Livestock is a public gallery record with the KHSI-style registry fields.
type Livestock struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Type               string           `json:"type"`
	Breed              string           `json:"breed"`
	Description        string           `json:"description"`
	DateOfBirth        string           `json:"date_of_birth,omitempty"`
	Weight             *decimal.Decimal `json:"weight,omitempty"`
	Price              *decimal.Decimal `json:"price,omitempty"`
	Available          bool             `json:"available"`
	ImageURL           string           `json:"image_url,omitempty"`
	TagNumber          string           `json:"tag_number,omitempty"`
	RegistrationNumber string           `json:"registration_number,omitempty"`
	Sire               string           `json:"sire,omitempty"`
	Dam                string           `json:"dam,omitempty"`
	BirthType          string           `json:"birth_type,omitempty"`
	Sex                string           `json:"sex,omitempty"`
	BloodPercentage    *decimal.Decimal `json:"blood_percentage,omitempty"`
	CoatType           string           `json:"coat_type,omitempty"`
	ParentsRegistered  bool             `json:"parents_registered"`
	Inspected          bool             `json:"inspected"`
	TransferInfo       *TransferInfo    `json:"transfer_info,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// TransferInfo is the buyer recorded on an animal for transfer paperwork.
type TransferInfo struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
}

type LivestockCreateRequest struct {
	Name               string           `json:"name"`
	Type               string           `json:"type"`
	Breed              string           `json:"breed"`
	Description        string           `json:"description"`
	DateOfBirth        string           `json:"date_of_birth,omitempty"`
	Weight             *decimal.Decimal `json:"weight,omitempty"`
	Price              *decimal.Decimal `json:"price,omitempty"`
	Available          *bool            `json:"available,omitempty"`
	ImageURL           string           `json:"image_url,omitempty"`
	TagNumber          string           `json:"tag_number,omitempty"`
	RegistrationNumber string           `json:"registration_number,omitempty"`
	Sire               string           `json:"sire,omitempty"`
	Dam                string           `json:"dam,omitempty"`
	BirthType          string           `json:"birth_type,omitempty"`
	Sex                string           `json:"sex,omitempty"`
	BloodPercentage    *decimal.Decimal `json:"blood_percentage,omitempty"`
	CoatType           string           `json:"coat_type,omitempty"`
	ParentsRegistered  bool             `json:"parents_registered"`
	Inspected          bool             `json:"inspected"`
	TransferInfo       *TransferInfo    `json:"transfer_info,omitempty"`
}

const (
	ComplianceRegistrationEligible = "registration_eligible"
	ComplianceRecordingEligible    = "recording_eligible"
	ComplianceNotEligible          = "not_eligible"
)

type RegistryCompliance struct {
	Status            string   `json:"status"`
	Notes             []string `json:"notes"`
	InspectionPending bool     `json:"inspection_pending"`
}

const (
	DocumentCategoryCertificates = "certificates"
	DocumentCategoryReports      = "reports"
	DocumentCategoryApplications = "applications"
	DocumentCategoryOther        = "other"
)

type Document struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Filename    string    `json:"filename"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	FilePath    string    `json:"file_path"`
	FileSize    int64     `json:"file_size"`
	MimeType    string    `json:"mime_type"`
	IsPublic    bool      `json:"is_public"`
	UploadedBy  string    `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type DocumentUpdateRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	IsPublic    *bool   `json:"is_public,omitempty"`
}

type ContactForm struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type ContactFormRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type AboutContent struct {
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Mission   string    `json:"mission,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SiteSettings struct {
	FarmName     string            `json:"farm_name"`
	ContactEmail string            `json:"contact_email"`
	ContactPhone string            `json:"contact_phone"`
	Address      string            `json:"address"`
	SocialLinks  map[string]string `json:"social_links,omitempty"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

type BlogPost struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Author    string    `json:"author"`
	Published bool      `json:"published"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BlogPostCreateRequest struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Author    string `json:"author"`
	Published bool   `json:"published"`
	ImageURL  string `json:"image_url,omitempty"`
}

type NFTRecord struct {
	ID          string    `json:"id"`
	InventoryID string    `json:"inventory_id"`
	TokenID     string    `json:"token_id"`
	Chain       string    `json:"chain"`
	MetadataURL string    `json:"metadata_url,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type NFTRecordCreateRequest struct {
	InventoryID string `json:"inventory_id"`
	TokenID     string `json:"token_id"`
	Chain       string `json:"chain"`
	MetadataURL string `json:"metadata_url,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

type TickerQuote struct {
	Symbol string          `json:"symbol"`
	Label  string          `json:"label"`
	Price  decimal.Decimal `json:"price"`
	Unit   string          `json:"unit"`
}

// CatalogSnapshot is the cacheable public storefront payload.
type CatalogSnapshot struct {
	Products  []Product   `json:"products,omitempty"`
	Livestock []Livestock `json:"livestock,omitempty"`
	FetchedAt time.Time   `json:"fetched_at"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

type Actor struct {
	Username string
	Role     string
}

type UserAccount struct {
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type AuditLog struct {
	ID            string    `json:"id"`
	ActorUsername string    `json:"actor_username"`
	ActorRole     string    `json:"actor_role"`
	Action        string    `json:"action"`
	EntityType    string    `json:"entity_type"`
	EntityID      string    `json:"entity_id"`
	Detail        string    `json:"detail"`
	CreatedAt     time.Time `json:"created_at"`
}
