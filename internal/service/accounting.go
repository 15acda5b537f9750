package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shilohridge/backend/internal/domain"
	"shilohridge/backend/internal/store"
)

var ExpenseCategories = []domain.ExpenseCategory{
	{ID: "feed_supplements", Name: "Feed & Supplements", Description: "Animal feed, hay, grain, mineral supplements"},
	{ID: "veterinary_health", Name: "Veterinary & Health", Description: "Vet visits, medications, vaccinations"},
	{ID: "equipment_supplies", Name: "Equipment & Supplies", Description: "Fencing, tools, farm supplies"},
	{ID: "fuel_maintenance", Name: "Fuel & Maintenance", Description: "Vehicle fuel, equipment maintenance"},
	{ID: "utilities", Name: "Utilities", Description: "Electricity, water, internet, phone"},
	{ID: "labor_services", Name: "Labor & Services", Description: "Hired help, professional services"},
	{ID: "facilities_housing", Name: "Facilities & Housing", Description: "Barn repairs, housing improvements"},
	{ID: "marketing_advertising", Name: "Marketing & Advertising", Description: "Website, advertising, show fees"},
	{ID: "insurance_taxes", Name: "Insurance & Taxes", Description: "Property insurance, business taxes"},
	{ID: "other", Name: "Other Expenses", Description: "Miscellaneous farm expenses"},
}

var RevenueCategories = []domain.ExpenseCategory{
	{ID: "livestock_sales", Name: "Livestock Sales", Description: "Sale of animals"},
	{ID: "wool_fiber", Name: "Wool & Fiber", Description: "Wool, mohair, fiber sales"},
	{ID: "milk_products", Name: "Milk Products", Description: "Milk, cheese, dairy products"},
	{ID: "breeding_fees", Name: "Breeding Fees", Description: "Breeding service fees"},
	{ID: "grants_subsidies", Name: "Grants & Subsidies", Description: "Government payments, grants"},
	{ID: "other_revenue", Name: "Other Revenue", Description: "Miscellaneous income"},
}

func (s *Service) CreateExpense(ctx context.Context, req domain.ExpenseCreateRequest) (domain.Expense, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.Expense{}, err
	}

	req.Category = strings.TrimSpace(req.Category)
	req.Description = strings.TrimSpace(req.Description)
	req.Date = strings.TrimSpace(req.Date)
	if req.Description == "" {
		return domain.Expense{}, fmt.Errorf("%w: description is required", store.ErrValidation)
	}
	if !isExpenseCategory(req.Category) {
		return domain.Expense{}, fmt.Errorf("%w: unknown expense category %q", store.ErrValidation, req.Category)
	}
	if !isValidDate(req.Date) {
		return domain.Expense{}, fmt.Errorf("%w: date must be YYYY-MM-DD", store.ErrValidation)
	}

	now := time.Now().UTC()
	expense := domain.Expense{
		ID:                 uuid.NewString(),
		Category:           req.Category,
		Subcategory:        strings.TrimSpace(req.Subcategory),
		Description:        req.Description,
		Amount:             req.Amount,
		Date:               req.Date,
		VendorSupplier:     strings.TrimSpace(req.VendorSupplier),
		PaymentMethod:      defaultString(req.PaymentMethod, "cash"),
		PaymentStatus:      defaultString(req.PaymentStatus, domain.ExpensePaymentPaid),
		IsRecurring:        req.IsRecurring,
		RecurringFrequency: strings.TrimSpace(req.RecurringFrequency),
		NextDueDate:        strings.TrimSpace(req.NextDueDate),
		ReferenceID:        strings.TrimSpace(req.ReferenceID),
		ReferenceType:      strings.TrimSpace(req.ReferenceType),
		TaxDeductible:      req.TaxDeductible,
		Notes:              strings.TrimSpace(req.Notes),
		Receipts:           req.Receipts,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if expense.Receipts == nil {
		expense.Receipts = []string{}
	}

	created, err := s.repo.CreateExpense(ctx, expense)
	if err != nil {
		return domain.Expense{}, err
	}

	s.logAudit(ctx, "expense_create", "expense", created.ID, fmt.Sprintf("category=%s,amount=%s", created.Category, created.Amount.StringFixed(2)))
	return *created, nil
}

func (s *Service) GetExpense(ctx context.Context, id string) (*domain.Expense, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: expense id required", store.ErrValidation)
	}
	return s.repo.GetExpense(ctx, id)
}

func (s *Service) ListExpenses(ctx context.Context, filter domain.LedgerFilter) ([]domain.Expense, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	if filter.Category != "" && !isExpenseCategory(filter.Category) {
		return nil, fmt.Errorf("%w: unknown expense category %q", store.ErrValidation, filter.Category)
	}
	return s.repo.ListExpenses(ctx, filter)
}

func (s *Service) UpdateExpense(ctx context.Context, id string, req domain.ExpenseCreateRequest) (domain.Expense, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.Expense{}, err
	}

	existing, err := s.GetExpense(ctx, id)
	if err != nil {
		return domain.Expense{}, err
	}

	req.Category = defaultString(req.Category, existing.Category)
	req.Date = defaultString(req.Date, existing.Date)
	if !isExpenseCategory(req.Category) {
		return domain.Expense{}, fmt.Errorf("%w: unknown expense category %q", store.ErrValidation, req.Category)
	}
	if !isValidDate(req.Date) {
		return domain.Expense{}, fmt.Errorf("%w: date must be YYYY-MM-DD", store.ErrValidation)
	}

	updated := *existing
	updated.Category = req.Category
	updated.Subcategory = strings.TrimSpace(req.Subcategory)
	updated.Description = defaultString(req.Description, existing.Description)
	updated.Amount = req.Amount
	updated.Date = req.Date
	updated.VendorSupplier = strings.TrimSpace(req.VendorSupplier)
	updated.PaymentMethod = defaultString(req.PaymentMethod, existing.PaymentMethod)
	updated.PaymentStatus = defaultString(req.PaymentStatus, existing.PaymentStatus)
	updated.IsRecurring = req.IsRecurring
	updated.RecurringFrequency = strings.TrimSpace(req.RecurringFrequency)
	updated.NextDueDate = strings.TrimSpace(req.NextDueDate)
	updated.ReferenceID = strings.TrimSpace(req.ReferenceID)
	updated.ReferenceType = strings.TrimSpace(req.ReferenceType)
	updated.TaxDeductible = req.TaxDeductible
	updated.Notes = strings.TrimSpace(req.Notes)
	if req.Receipts != nil {
		updated.Receipts = req.Receipts
	}
	updated.UpdatedAt = time.Now().UTC()

	saved, err := s.repo.UpdateExpense(ctx, updated)
	if err != nil {
		return domain.Expense{}, err
	}

	s.logAudit(ctx, "expense_update", "expense", saved.ID, "")
	return *saved, nil
}

func (s *Service) DeleteExpense(ctx context.Context, id string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: expense id required", store.ErrValidation)
	}
	if err := s.repo.DeleteExpense(ctx, id); err != nil {
		return err
	}
	s.logAudit(ctx, "expense_delete", "expense", id, "")
	return nil
}

func (s *Service) CreateRevenue(ctx context.Context, req domain.RevenueCreateRequest) (domain.Revenue, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.Revenue{}, err
	}

	req.Type = strings.TrimSpace(req.Type)
	req.Description = strings.TrimSpace(req.Description)
	req.Date = strings.TrimSpace(req.Date)
	if req.Description == "" {
		return domain.Revenue{}, fmt.Errorf("%w: description is required", store.ErrValidation)
	}
	if !isRevenueType(req.Type) {
		return domain.Revenue{}, fmt.Errorf("%w: unknown revenue type %q", store.ErrValidation, req.Type)
	}
	if !isValidDate(req.Date) {
		return domain.Revenue{}, fmt.Errorf("%w: date must be YYYY-MM-DD", store.ErrValidation)
	}

	now := time.Now().UTC()
	revenue := domain.Revenue{
		ID:            uuid.NewString(),
		Type:          req.Type,
		Description:   req.Description,
		Amount:        req.Amount,
		Date:          req.Date,
		Source:        strings.TrimSpace(req.Source),
		PaymentMethod: defaultString(req.PaymentMethod, "cash"),
		PaymentStatus: defaultString(req.PaymentStatus, domain.RevenuePaymentReceived),
		ReferenceID:   strings.TrimSpace(req.ReferenceID),
		ReferenceType: strings.TrimSpace(req.ReferenceType),
		TaxCategory:   strings.TrimSpace(req.TaxCategory),
		Notes:         strings.TrimSpace(req.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := s.repo.CreateRevenue(ctx, revenue)
	if err != nil {
		return domain.Revenue{}, err
	}

	s.logAudit(ctx, "revenue_create", "revenue", created.ID, fmt.Sprintf("type=%s,amount=%s", created.Type, created.Amount.StringFixed(2)))
	return *created, nil
}

func (s *Service) ListRevenue(ctx context.Context, filter domain.LedgerFilter) ([]domain.Revenue, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	if filter.Category != "" && !isRevenueType(filter.Category) {
		return nil, fmt.Errorf("%w: unknown revenue type %q", store.ErrValidation, filter.Category)
	}
	return s.repo.ListRevenue(ctx, filter)
}

func (s *Service) UpdateRevenue(ctx context.Context, id string, req domain.RevenueCreateRequest) (domain.Revenue, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.Revenue{}, err
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Revenue{}, fmt.Errorf("%w: revenue id required", store.ErrValidation)
	}
	existing, err := s.repo.GetRevenue(ctx, id)
	if err != nil {
		return domain.Revenue{}, err
	}

	req.Type = defaultString(req.Type, existing.Type)
	req.Date = defaultString(req.Date, existing.Date)
	if !isRevenueType(req.Type) {
		return domain.Revenue{}, fmt.Errorf("%w: unknown revenue type %q", store.ErrValidation, req.Type)
	}
	if !isValidDate(req.Date) {
		return domain.Revenue{}, fmt.Errorf("%w: date must be YYYY-MM-DD", store.ErrValidation)
	}

	updated := *existing
	updated.Type = req.Type
	updated.Description = defaultString(req.Description, existing.Description)
	updated.Amount = req.Amount
	updated.Date = req.Date
	updated.Source = strings.TrimSpace(req.Source)
	updated.PaymentMethod = defaultString(req.PaymentMethod, existing.PaymentMethod)
	updated.PaymentStatus = defaultString(req.PaymentStatus, existing.PaymentStatus)
	updated.ReferenceID = strings.TrimSpace(req.ReferenceID)
	updated.ReferenceType = strings.TrimSpace(req.ReferenceType)
	updated.TaxCategory = strings.TrimSpace(req.TaxCategory)
	updated.Notes = strings.TrimSpace(req.Notes)
	updated.UpdatedAt = time.Now().UTC()

	saved, err := s.repo.UpdateRevenue(ctx, updated)
	if err != nil {
		return domain.Revenue{}, err
	}

	s.logAudit(ctx, "revenue_update", "revenue", saved.ID, "")
	return *saved, nil
}

func (s *Service) DeleteRevenue(ctx context.Context, id string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: revenue id required", store.ErrValidation)
	}
	if err := s.repo.DeleteRevenue(ctx, id); err != nil {
		return err
	}
	s.logAudit(ctx, "revenue_delete", "revenue", id, "")
	return nil
}

// FinancialSummary aggregates date-ranged expenses and revenue in process:
// per-category totals plus net profit and margin.
func (s *Service) FinancialSummary(ctx context.Context, fromDate string, toDate string) (domain.FinancialSummary, error) {
	filter := domain.LedgerFilter{FromDate: strings.TrimSpace(fromDate), ToDate: strings.TrimSpace(toDate)}

	expenses, err := s.repo.ListExpenses(ctx, filter)
	if err != nil {
		return domain.FinancialSummary{}, err
	}
	revenue, err := s.repo.ListRevenue(ctx, filter)
	if err != nil {
		return domain.FinancialSummary{}, err
	}

	summary := domain.FinancialSummary{
		FromDate:      filter.FromDate,
		ToDate:        filter.ToDate,
		TotalExpenses: decimal.Zero,
		TotalRevenue:  decimal.Zero,
	}

	expenseTotals := make(map[string]*domain.CategoryTotal)
	for _, expense := range expenses {
		entry, ok := expenseTotals[expense.Category]
		if !ok {
			entry = &domain.CategoryTotal{Category: expense.Category, Total: decimal.Zero}
			expenseTotals[expense.Category] = entry
		}
		entry.Total = entry.Total.Add(expense.Amount)
		entry.Count++
		summary.TotalExpenses = summary.TotalExpenses.Add(expense.Amount)
	}

	revenueTotals := make(map[string]*domain.CategoryTotal)
	for _, record := range revenue {
		entry, ok := revenueTotals[record.Type]
		if !ok {
			entry = &domain.CategoryTotal{Category: record.Type, Total: decimal.Zero}
			revenueTotals[record.Type] = entry
		}
		entry.Total = entry.Total.Add(record.Amount)
		entry.Count++
		summary.TotalRevenue = summary.TotalRevenue.Add(record.Amount)
	}

	summary.ByExpense = sortedCategoryTotals(expenseTotals)
	summary.ByRevenue = sortedCategoryTotals(revenueTotals)
	summary.NetProfit = summary.TotalRevenue.Sub(summary.TotalExpenses)
	if summary.TotalRevenue.IsPositive() {
		summary.ProfitMargin = summary.NetProfit.Div(summary.TotalRevenue).Mul(decimal.NewFromInt(100)).Round(2)
	} else {
		summary.ProfitMargin = decimal.Zero
	}

	return summary, nil
}

// MonthlyReport returns twelve buckets for the year, "01" through "12",
// pre-filled with zeros so inactive months are present rather than absent.
// The computation is a pure fold over the ledgers, so repeated calls with no
// intervening writes return identical output.
func (s *Service) MonthlyReport(ctx context.Context, year int) (domain.MonthlyReport, error) {
	if year < 1900 || year > 9999 {
		return domain.MonthlyReport{}, fmt.Errorf("%w: year out of range", store.ErrValidation)
	}

	filter := domain.LedgerFilter{
		FromDate: fmt.Sprintf("%d-01-01", year),
		ToDate:   fmt.Sprintf("%d-12-31", year),
	}

	expenses, err := s.repo.ListExpenses(ctx, filter)
	if err != nil {
		return domain.MonthlyReport{}, err
	}
	revenue, err := s.repo.ListRevenue(ctx, filter)
	if err != nil {
		return domain.MonthlyReport{}, err
	}

	report := domain.MonthlyReport{Year: year, Monthly: make([]domain.MonthlyBucket, 12)}
	index := make(map[string]*domain.MonthlyBucket, 12)
	for i := 0; i < 12; i++ {
		month := fmt.Sprintf("%02d", i+1)
		report.Monthly[i] = domain.MonthlyBucket{
			Month:    month,
			Expenses: decimal.Zero,
			Revenue:  decimal.Zero,
			Profit:   decimal.Zero,
		}
		index[month] = &report.Monthly[i]
	}

	for _, expense := range expenses {
		if bucket, ok := index[monthOf(expense.Date)]; ok {
			bucket.Expenses = bucket.Expenses.Add(expense.Amount)
		}
	}
	for _, record := range revenue {
		if bucket, ok := index[monthOf(record.Date)]; ok {
			bucket.Revenue = bucket.Revenue.Add(record.Amount)
		}
	}
	for i := range report.Monthly {
		report.Monthly[i].Profit = report.Monthly[i].Revenue.Sub(report.Monthly[i].Expenses)
	}

	return report, nil
}

// monthOf extracts the "MM" component of a YYYY-MM-DD date string.
func monthOf(date string) string {
	if len(date) < 7 {
		return ""
	}
	return date[5:7]
}

func sortedCategoryTotals(totals map[string]*domain.CategoryTotal) []domain.CategoryTotal {
	result := make([]domain.CategoryTotal, 0, len(totals))
	for _, entry := range totals {
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Category < result[j].Category
	})
	return result
}

func isExpenseCategory(id string) bool {
	for _, category := range ExpenseCategories {
		if category.ID == id {
			return true
		}
	}
	return false
}

func isRevenueType(id string) bool {
	for _, category := range RevenueCategories {
		if category.ID == id {
			return true
		}
	}
	return false
}
