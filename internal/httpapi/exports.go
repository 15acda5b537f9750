package httpapi

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"shilohridge/backend/internal/domain"
)

func (a *API) handleInventoryCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	items, err := a.service.ListInventory(r.Context(), inventoryFilterFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "inventory_"+time.Now().UTC().Format("20060102")+".csv"))
	_, _ = w.Write([]byte(inventoryToCSV(items)))
}

func inventoryToCSV(items []domain.InventoryItem) string {
	lines := make([]string, 0, len(items)+1)
	lines = append(lines, csvLine(
		"Animal ID", "Type", "Breed", "Bloodline", "Sex", "Birth Type",
		"Date of Birth", "Registration", "Sire Name", "Dam Name",
		"Current Weight", "Weight Unit", "Status", "Sale Price",
		"Estimated Value", "Location", "Notes", "Created At",
	))
	for _, item := range items {
		lines = append(lines, csvLine(
			item.AnimalID,
			item.AnimalType,
			item.Breed,
			item.Bloodline,
			item.Sex,
			item.BirthType,
			item.DateOfBirth,
			item.RegistrationNumber,
			item.SireName,
			item.DamName,
			decimalOrEmpty(item.CurrentWeight),
			item.WeightUnit,
			item.Status,
			decimalOrEmpty(item.SalePrice),
			decimalOrEmpty(item.EstimatedValue),
			item.Location,
			item.Notes,
			item.CreatedAt.UTC().Format(time.RFC3339),
		))
	}
	return strings.Join(lines, "\n") + "\n"
}

func (a *API) handleAccountingCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	filter := ledgerFilterFromQuery(r)
	expenses, err := a.service.ListExpenses(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	revenue, err := a.service.ListRevenue(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "accounting_"+time.Now().UTC().Format("20060102")+".csv"))
	_, _ = w.Write([]byte(accountingToCSV(expenses, revenue)))
}

func accountingToCSV(expenses []domain.Expense, revenue []domain.Revenue) string {
	lines := make([]string, 0, len(expenses)+len(revenue)+1)
	lines = append(lines, csvLine(
		"Type", "Category", "Description", "Amount", "Date",
		"Vendor/Supplier", "Payment Method", "Payment Status",
		"Tax Deductible", "Notes", "Created At",
	))
	for _, e := range expenses {
		lines = append(lines, csvLine(
			"expense",
			e.Category,
			e.Description,
			e.Amount.String(),
			e.Date,
			e.VendorSupplier,
			e.PaymentMethod,
			e.PaymentStatus,
			fmt.Sprintf("%t", e.TaxDeductible),
			e.Notes,
			e.CreatedAt.UTC().Format(time.RFC3339),
		))
	}
	for _, rv := range revenue {
		lines = append(lines, csvLine(
			"revenue",
			rv.Type,
			rv.Description,
			rv.Amount.String(),
			rv.Date,
			rv.Source,
			rv.PaymentMethod,
			rv.PaymentStatus,
			"",
			rv.Notes,
			rv.CreatedAt.UTC().Format(time.RFC3339),
		))
	}
	return strings.Join(lines, "\n") + "\n"
}

func (a *API) handleSalesCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	sales, err := a.service.ListSales(r.Context(), saleFilterFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	lines := make([]string, 0, len(sales)+1)
	lines = append(lines, csvLine(
		"Invoice", "Sale Date", "Customer", "Sale Type", "Subtotal",
		"Tax", "Discount", "Total", "Payment Method", "Payment Status",
		"Delivery Status", "Created At",
	))
	for _, sale := range sales {
		lines = append(lines, csvLine(
			sale.InvoiceID,
			sale.SaleDate,
			sale.CustomerInfo.Name,
			sale.SaleType,
			sale.Subtotal.String(),
			sale.TaxAmount.String(),
			sale.DiscountAmount.String(),
			sale.TotalAmount.String(),
			sale.PaymentMethod,
			sale.PaymentStatus,
			sale.DeliveryStatus,
			sale.CreatedAt.UTC().Format(time.RFC3339),
		))
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "sales_"+time.Now().UTC().Format("20060102")+".csv"))
	_, _ = w.Write([]byte(strings.Join(lines, "\n") + "\n"))
}

// csvLine joins fields with commas, quoting any field that contains a comma,
// quote or newline.
func csvLine(fields ...string) string {
	escaped := make([]string, len(fields))
	for i, field := range fields {
		if strings.ContainsAny(field, ",\"\n") {
			field = "\"" + strings.ReplaceAll(field, "\"", "\"\"") + "\""
		}
		escaped[i] = field
	}
	return strings.Join(escaped, ",")
}

func decimalOrEmpty(value *decimal.Decimal) string {
	if value == nil {
		return ""
	}
	return value.String()
}

const inventoryPrintLimit = 50

var inventoryPrintTmpl = template.Must(template.New("inventoryPrint").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Inventory Report</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
h1 { font-size: 1.4rem; }
table { border-collapse: collapse; width: 100%; margin-top: 1rem; }
th, td { border: 1px solid #999; padding: 4px 8px; text-align: left; font-size: 0.85rem; }
th { background: #eee; }
.meta { color: #555; font-size: 0.85rem; }
@media print { body { margin: 0.5rem; } }
</style>
</head>
<body>
<h1>{{.FarmName}} - Livestock Inventory</h1>
<p class="meta">Generated {{.GeneratedAt}} · {{.Total}} animals</p>
<table>
<tr><th>Animal ID</th><th>Type</th><th>Breed</th><th>Sex</th><th>DOB</th><th>Weight</th><th>Status</th><th>Est. Value</th><th>Location</th></tr>
{{range .Rows}}<tr><td>{{.AnimalID}}</td><td>{{.AnimalType}}</td><td>{{.Breed}}</td><td>{{.Sex}}</td><td>{{.DateOfBirth}}</td><td>{{.Weight}}</td><td>{{.Status}}</td><td>{{.EstimatedValue}}</td><td>{{.Location}}</td></tr>
{{end}}</table>
{{if .Truncated}}<p class="meta">... and {{.Truncated}} more animals</p>{{end}}
</body>
</html>`))

type inventoryPrintRow struct {
	AnimalID       string
	AnimalType     string
	Breed          string
	Sex            string
	DateOfBirth    string
	Weight         string
	Status         string
	EstimatedValue string
	Location       string
}

func (a *API) handleInventoryPrint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	items, err := a.service.ListInventory(r.Context(), inventoryFilterFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	settings, err := a.service.GetSettings(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	total := len(items)
	truncated := 0
	if len(items) > inventoryPrintLimit {
		truncated = len(items) - inventoryPrintLimit
		items = items[:inventoryPrintLimit]
	}
	rows := make([]inventoryPrintRow, 0, len(items))
	for _, item := range items {
		weight := decimalOrEmpty(item.CurrentWeight)
		if weight != "" && item.WeightUnit != "" {
			weight += " " + item.WeightUnit
		}
		rows = append(rows, inventoryPrintRow{
			AnimalID:       item.AnimalID,
			AnimalType:     item.AnimalType,
			Breed:          item.Breed,
			Sex:            item.Sex,
			DateOfBirth:    item.DateOfBirth,
			Weight:         weight,
			Status:         item.Status,
			EstimatedValue: decimalOrEmpty(item.EstimatedValue),
			Location:       item.Location,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = inventoryPrintTmpl.Execute(w, map[string]any{
		"FarmName":    settings.FarmName,
		"GeneratedAt": time.Now().UTC().Format("2006-01-02 15:04 MST"),
		"Total":       total,
		"Rows":        rows,
		"Truncated":   truncated,
	})
}

const accountingPrintLimit = 30

var accountingPrintTmpl = template.Must(template.New("accountingPrint").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Accounting Report</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
h1 { font-size: 1.4rem; }
h2 { font-size: 1.1rem; margin-top: 1.5rem; }
table { border-collapse: collapse; width: 100%; margin-top: 0.5rem; }
th, td { border: 1px solid #999; padding: 4px 8px; text-align: left; font-size: 0.85rem; }
th { background: #eee; }
td.amount { text-align: right; }
.meta { color: #555; font-size: 0.85rem; }
.totals { margin-top: 1rem; font-size: 1rem; }
@media print { body { margin: 0.5rem; } }
</style>
</head>
<body>
<h1>{{.FarmName}} - Accounting Report</h1>
<p class="meta">Generated {{.GeneratedAt}}{{if .Range}} · {{.Range}}{{end}}</p>
<h2>Expenses</h2>
<table>
<tr><th>Date</th><th>Category</th><th>Description</th><th>Vendor</th><th>Status</th><th>Amount</th></tr>
{{range .Expenses}}<tr><td>{{.Date}}</td><td>{{.Category}}</td><td>{{.Description}}</td><td>{{.VendorSupplier}}</td><td>{{.PaymentStatus}}</td><td class="amount">{{.Amount}}</td></tr>
{{end}}</table>
{{if .ExpensesTruncated}}<p class="meta">... and {{.ExpensesTruncated}} more expenses</p>{{end}}
<h2>Revenue</h2>
<table>
<tr><th>Date</th><th>Type</th><th>Description</th><th>Source</th><th>Status</th><th>Amount</th></tr>
{{range .Revenue}}<tr><td>{{.Date}}</td><td>{{.Type}}</td><td>{{.Description}}</td><td>{{.Source}}</td><td>{{.PaymentStatus}}</td><td class="amount">{{.Amount}}</td></tr>
{{end}}</table>
{{if .RevenueTruncated}}<p class="meta">... and {{.RevenueTruncated}} more entries</p>{{end}}
<p class="totals">Total expenses: {{.TotalExpenses}} · Total revenue: {{.TotalRevenue}} · Net: {{.Net}}</p>
</body>
</html>`))

func (a *API) handleAccountingPrint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	filter := ledgerFilterFromQuery(r)
	expenses, err := a.service.ListExpenses(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	revenue, err := a.service.ListRevenue(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	settings, err := a.service.GetSettings(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	totalExpenses := decimal.Zero
	for _, e := range expenses {
		totalExpenses = totalExpenses.Add(e.Amount)
	}
	totalRevenue := decimal.Zero
	for _, rv := range revenue {
		totalRevenue = totalRevenue.Add(rv.Amount)
	}

	expensesTruncated := 0
	if len(expenses) > accountingPrintLimit {
		expensesTruncated = len(expenses) - accountingPrintLimit
		expenses = expenses[:accountingPrintLimit]
	}
	revenueTruncated := 0
	if len(revenue) > accountingPrintLimit {
		revenueTruncated = len(revenue) - accountingPrintLimit
		revenue = revenue[:accountingPrintLimit]
	}

	dateRange := ""
	if filter.FromDate != "" || filter.ToDate != "" {
		dateRange = strings.TrimSpace(filter.FromDate + " to " + filter.ToDate)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = accountingPrintTmpl.Execute(w, map[string]any{
		"FarmName":          settings.FarmName,
		"GeneratedAt":       time.Now().UTC().Format("2006-01-02 15:04 MST"),
		"Range":             dateRange,
		"Expenses":          expenses,
		"ExpensesTruncated": expensesTruncated,
		"Revenue":           revenue,
		"RevenueTruncated":  revenueTruncated,
		"TotalExpenses":     totalExpenses.StringFixed(2),
		"TotalRevenue":      totalRevenue.StringFixed(2),
		"Net":               totalRevenue.Sub(totalExpenses).StringFixed(2),
	})
}

const salesPrintLimit = 50

var salesPrintTmpl = template.Must(template.New("salesPrint").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Sales Report</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
h1 { font-size: 1.4rem; }
table { border-collapse: collapse; width: 100%; margin-top: 1rem; }
th, td { border: 1px solid #999; padding: 4px 8px; text-align: left; font-size: 0.85rem; }
th { background: #eee; }
td.amount { text-align: right; }
.meta { color: #555; font-size: 0.85rem; }
.summary { margin-top: 1rem; font-size: 0.95rem; }
@media print { body { margin: 0.5rem; } }
</style>
</head>
<body>
<h1>{{.FarmName}} - Sales Report</h1>
<p class="meta">Generated {{.GeneratedAt}}{{if .Range}} · {{.Range}}{{end}}</p>
<p class="summary">Total sales: {{.TotalSales}} · Total revenue: {{.TotalRevenue}} · Paid: {{.PaidCount}} · Pending: {{.PendingCount}}</p>
<table>
<tr><th>Invoice</th><th>Sale Date</th><th>Customer</th><th>Type</th><th class="amount">Total</th><th>Payment</th><th>Status</th></tr>
{{range .Rows}}<tr><td>{{.InvoiceID}}</td><td>{{.SaleDate}}</td><td>{{.Customer}}</td><td>{{.SaleType}}</td><td class="amount">{{.Total}}</td><td>{{.PaymentMethod}}</td><td>{{.PaymentStatus}}</td></tr>
{{end}}</table>
{{if .Truncated}}<p class="meta">... and {{.Truncated}} more sales</p>{{end}}
</body>
</html>`))

type salesPrintRow struct {
	InvoiceID     string
	SaleDate      string
	Customer      string
	SaleType      string
	Total         string
	PaymentMethod string
	PaymentStatus string
}

func (a *API) handleSalesPrint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	filter := saleFilterFromQuery(r)
	sales, err := a.service.ListSales(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	settings, err := a.service.GetSettings(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	totalRevenue := decimal.Zero
	paidCount, pendingCount := 0, 0
	for _, sale := range sales {
		totalRevenue = totalRevenue.Add(sale.TotalAmount)
		switch sale.PaymentStatus {
		case domain.PaymentStatusPaid:
			paidCount++
		case domain.PaymentStatusPending:
			pendingCount++
		}
	}

	total := len(sales)
	truncated := 0
	if len(sales) > salesPrintLimit {
		truncated = len(sales) - salesPrintLimit
		sales = sales[:salesPrintLimit]
	}
	rows := make([]salesPrintRow, 0, len(sales))
	for _, sale := range sales {
		rows = append(rows, salesPrintRow{
			InvoiceID:     sale.InvoiceID,
			SaleDate:      sale.SaleDate,
			Customer:      sale.CustomerInfo.Name,
			SaleType:      sale.SaleType,
			Total:         sale.TotalAmount.StringFixed(2),
			PaymentMethod: sale.PaymentMethod,
			PaymentStatus: sale.PaymentStatus,
		})
	}

	dateRange := ""
	if filter.FromDate != "" || filter.ToDate != "" {
		dateRange = strings.TrimSpace(filter.FromDate + " to " + filter.ToDate)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = salesPrintTmpl.Execute(w, map[string]any{
		"FarmName":     settings.FarmName,
		"GeneratedAt":  time.Now().UTC().Format("2006-01-02 15:04 MST"),
		"Range":        dateRange,
		"TotalSales":   total,
		"TotalRevenue": totalRevenue.StringFixed(2),
		"PaidCount":    paidCount,
		"PendingCount": pendingCount,
		"Rows":         rows,
		"Truncated":    truncated,
	})
}

var certificatePrintTmpl = template.Must(template.New("certificatePrint").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Registration Certificate</title>
<style>
body { font-family: sans-serif; margin: 2rem; max-width: 42rem; }
h1 { font-size: 1.3rem; text-align: center; }
h2 { font-size: 1rem; text-align: center; color: #555; }
table { border-collapse: collapse; width: 100%; margin-top: 1.5rem; }
td { border: 1px solid #999; padding: 6px 10px; font-size: 0.9rem; }
td.label { background: #eee; width: 35%; }
@media print { body { margin: 0.5rem; } }
</style>
</head>
<body>
<h1>KHSI Registration Certificate</h1>
<h2>{{.FarmName}}</h2>
<table>
{{range .Fields}}<tr><td class="label">{{.Label}}</td><td>{{.Value}}</td></tr>
{{end}}</table>
</body>
</html>`))

type certificateField struct {
	Label string
	Value string
}

func (a *API) handleLivestockCertificate(w http.ResponseWriter, r *http.Request, id string) {
	animal, err := a.service.GetLivestock(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	settings, err := a.service.GetSettings(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	fields := []certificateField{
		{"Name", animal.Name},
		{"Type", animal.Type},
		{"Breed", animal.Breed},
		{"Tag Number", animal.TagNumber},
		{"Registration Number", animal.RegistrationNumber},
		{"Date of Birth", animal.DateOfBirth},
		{"Sex", animal.Sex},
		{"Birth Type", animal.BirthType},
		{"Sire", animal.Sire},
		{"Dam", animal.Dam},
		{"Blood Percentage", decimalOrEmpty(animal.BloodPercentage)},
		{"Coat Type", animal.CoatType},
		{"Parents Registered", fmt.Sprintf("%t", animal.ParentsRegistered)},
		{"Inspected", fmt.Sprintf("%t", animal.Inspected)},
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "certificate_"+animal.ID+".html"))
	_ = certificatePrintTmpl.Execute(w, map[string]any{
		"FarmName": settings.FarmName,
		"Fields":   fields,
	})
}

var transferPrintTmpl = template.Must(template.New("transferPrint").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Transfer Paperwork</title>
<style>
body { font-family: sans-serif; margin: 2rem; max-width: 42rem; }
h1 { font-size: 1.3rem; text-align: center; }
h2 { font-size: 1rem; text-align: center; color: #555; }
table { border-collapse: collapse; width: 100%; margin-top: 1.5rem; }
td { border: 1px solid #999; padding: 6px 10px; font-size: 0.9rem; }
td.label { background: #eee; width: 35%; }
@media print { body { margin: 0.5rem; } }
</style>
</head>
<body>
<h1>KHSI Transfer Paperwork</h1>
<h2>{{.FarmName}}</h2>
<table>
<tr><td class="label">Animal</td><td>{{.AnimalName}}</td></tr>
<tr><td class="label">Tag Number</td><td>{{.TagNumber}}</td></tr>
<tr><td class="label">Registration Number</td><td>{{.RegistrationNumber}}</td></tr>
<tr><td class="label">Buyer Name</td><td>{{.BuyerName}}</td></tr>
<tr><td class="label">Buyer Address</td><td>{{.BuyerAddress}}</td></tr>
</table>
</body>
</html>`))

func (a *API) handleTransferPaperwork(w http.ResponseWriter, r *http.Request, id string) {
	animal, err := a.service.GetLivestock(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	settings, err := a.service.GetSettings(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	buyerName, buyerAddress := "", ""
	if animal.TransferInfo != nil {
		buyerName = animal.TransferInfo.Name
		buyerAddress = animal.TransferInfo.Address
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "transfer_"+animal.ID+".html"))
	_ = transferPrintTmpl.Execute(w, map[string]any{
		"FarmName":           settings.FarmName,
		"AnimalName":         animal.Name,
		"TagNumber":          animal.TagNumber,
		"RegistrationNumber": animal.RegistrationNumber,
		"BuyerName":          buyerName,
		"BuyerAddress":       buyerAddress,
	})
}

var invoicePrintTmpl = template.Must(template.New("invoicePrint").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Invoice {{.Sale.InvoiceID}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; max-width: 48rem; }
h1 { font-size: 1.4rem; }
table { border-collapse: collapse; width: 100%; margin-top: 1rem; }
th, td { border: 1px solid #999; padding: 6px 10px; text-align: left; font-size: 0.9rem; }
th { background: #eee; }
td.amount, th.amount { text-align: right; }
.meta { color: #555; font-size: 0.85rem; }
.totals td { border: none; font-size: 0.95rem; }
.totals tr.grand td { font-weight: bold; border-top: 2px solid #333; }
@media print { body { margin: 0.5rem; } }
</style>
</head>
<body>
<h1>{{.FarmName}}</h1>
<p class="meta">Invoice {{.Sale.InvoiceID}} · Sale date {{.Sale.SaleDate}} · {{.Sale.SaleType}}</p>
<p>
<strong>Bill to:</strong> {{.Sale.CustomerInfo.Name}}<br>
{{if .Sale.CustomerInfo.Email}}{{.Sale.CustomerInfo.Email}}<br>{{end}}
{{if .Sale.CustomerInfo.Phone}}{{.Sale.CustomerInfo.Phone}}<br>{{end}}
{{if .Sale.CustomerInfo.Address}}{{.Sale.CustomerInfo.Address}}{{end}}
</p>
<table>
<tr><th>Animal</th><th>Type</th><th>Description</th><th class="amount">Qty</th><th class="amount">Unit Price</th><th class="amount">Line Total</th></tr>
{{range .Lines}}<tr><td>{{.AnimalID}}</td><td>{{.AnimalType}}</td><td>{{.Description}}</td><td class="amount">{{.Quantity}}</td><td class="amount">{{.UnitPrice}}</td><td class="amount">{{.LineTotal}}</td></tr>
{{end}}</table>
<table class="totals">
<tr><td>Subtotal</td><td class="amount">{{.Subtotal}}</td></tr>
<tr><td>Tax</td><td class="amount">{{.Tax}}</td></tr>
<tr><td>Discount</td><td class="amount">-{{.Discount}}</td></tr>
<tr class="grand"><td>Total</td><td class="amount">{{.Total}}</td></tr>
</table>
<p class="meta">Payment: {{.Sale.PaymentMethod}} ({{.Sale.PaymentStatus}}) · Delivery: {{.Sale.DeliveryStatus}}</p>
{{if .Sale.Notes}}<p class="meta">{{.Sale.Notes}}</p>{{end}}
</body>
</html>`))

type invoiceLine struct {
	AnimalID    string
	AnimalType  string
	Description string
	Quantity    int
	UnitPrice   string
	LineTotal   string
}

func (a *API) handleSaleInvoice(w http.ResponseWriter, r *http.Request, id string) {
	sale, err := a.service.GetSale(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	settings, err := a.service.GetSettings(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if sale.InvoiceID == "" {
		writeError(w, http.StatusUnprocessableEntity, errors.New("sale has no invoice"))
		return
	}

	lines := make([]invoiceLine, 0, len(sale.Items))
	for _, item := range sale.Items {
		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		lines = append(lines, invoiceLine{
			AnimalID:    item.AnimalID,
			AnimalType:  item.AnimalType,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.StringFixed(2),
			LineTotal:   lineTotal.StringFixed(2),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = invoicePrintTmpl.Execute(w, map[string]any{
		"FarmName": settings.FarmName,
		"Sale":     sale,
		"Lines":    lines,
		"Subtotal": sale.Subtotal.StringFixed(2),
		"Tax":      sale.TaxAmount.StringFixed(2),
		"Discount": sale.DiscountAmount.StringFixed(2),
		"Total":    sale.TotalAmount.StringFixed(2),
	})
}
