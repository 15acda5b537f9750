package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"shilohridge/backend/internal/domain"
	"shilohridge/backend/internal/store"
)

func seedLedger(t *testing.T, svc *Service) {
	t.Helper()

	if _, err := svc.CreateExpense(adminContext(), domain.ExpenseCreateRequest{
		Category:    "feed_supplements",
		Description: "Winter hay",
		Amount:      decimal.RequireFromString("600.00"),
		Date:        "2026-01-12",
	}); err != nil {
		t.Fatalf("create expense: %v", err)
	}
	if _, err := svc.CreateExpense(adminContext(), domain.ExpenseCreateRequest{
		Category:    "veterinary_health",
		Description: "Spring vaccinations",
		Amount:      decimal.RequireFromString("240.00"),
		Date:        "2026-03-02",
	}); err != nil {
		t.Fatalf("create expense: %v", err)
	}
	if _, err := svc.CreateRevenue(adminContext(), domain.RevenueCreateRequest{
		Type:        "livestock_sales",
		Description: "Two market lambs",
		Amount:      decimal.RequireFromString("900.00"),
		Date:        "2026-03-20",
	}); err != nil {
		t.Fatalf("create revenue: %v", err)
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateExpense(adminContext(), domain.ExpenseCreateRequest{
		Category:    "groceries",
		Description: "not a farm category",
		Amount:      decimal.RequireFromString("10.00"),
		Date:        "2026-01-01",
	})
	if !errors.Is(err, store.ErrValidation) {
		t.Fatalf("expected validation error for unknown category, got %v", err)
	}

	_, err = svc.CreateExpense(adminContext(), domain.ExpenseCreateRequest{
		Category:    "feed_supplements",
		Description: "bad date",
		Amount:      decimal.RequireFromString("10.00"),
		Date:        "01/12/2026",
	})
	if !errors.Is(err, store.ErrValidation) {
		t.Fatalf("expected validation error for bad date, got %v", err)
	}
}

func TestFinancialSummaryTotals(t *testing.T) {
	svc := newTestService(t)
	seedLedger(t, svc)

	summary, err := svc.FinancialSummary(adminContext(), "2026-01-01", "2026-12-31")
	if err != nil {
		t.Fatalf("financial summary: %v", err)
	}

	if !summary.TotalExpenses.Equal(decimal.RequireFromString("840.00")) {
		t.Fatalf("expected total expenses 840.00, got %s", summary.TotalExpenses)
	}
	if !summary.TotalRevenue.Equal(decimal.RequireFromString("900.00")) {
		t.Fatalf("expected total revenue 900.00, got %s", summary.TotalRevenue)
	}
	if !summary.NetProfit.Equal(decimal.RequireFromString("60.00")) {
		t.Fatalf("expected net profit 60.00, got %s", summary.NetProfit)
	}
	if len(summary.ByExpense) != 2 {
		t.Fatalf("expected 2 expense categories, got %d", len(summary.ByExpense))
	}
	// Margin is 60/900 expressed as a percentage.
	if !summary.ProfitMargin.Equal(decimal.RequireFromString("6.67")) {
		t.Fatalf("expected profit margin 6.67, got %s", summary.ProfitMargin)
	}
}

func TestFinancialSummaryRangeFilters(t *testing.T) {
	svc := newTestService(t)
	seedLedger(t, svc)

	summary, err := svc.FinancialSummary(adminContext(), "2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatalf("financial summary: %v", err)
	}
	if !summary.TotalExpenses.Equal(decimal.RequireFromString("240.00")) {
		t.Fatalf("expected March-only expenses 240.00, got %s", summary.TotalExpenses)
	}
	if !summary.TotalRevenue.Equal(decimal.RequireFromString("900.00")) {
		t.Fatalf("expected March revenue 900.00, got %s", summary.TotalRevenue)
	}
}

func TestMonthlyReportZeroFillsTwelveBuckets(t *testing.T) {
	svc := newTestService(t)
	seedLedger(t, svc)

	report, err := svc.MonthlyReport(adminContext(), 2026)
	if err != nil {
		t.Fatalf("monthly report: %v", err)
	}
	if len(report.Monthly) != 12 {
		t.Fatalf("expected 12 buckets, got %d", len(report.Monthly))
	}
	if report.Monthly[0].Month != "01" || report.Monthly[11].Month != "12" {
		t.Fatalf("buckets must run 01 through 12, got %s..%s", report.Monthly[0].Month, report.Monthly[11].Month)
	}

	january := report.Monthly[0]
	if !january.Expenses.Equal(decimal.RequireFromString("600.00")) {
		t.Fatalf("expected January expenses 600.00, got %s", january.Expenses)
	}
	march := report.Monthly[2]
	if !march.Profit.Equal(decimal.RequireFromString("660.00")) {
		t.Fatalf("expected March profit 660.00, got %s", march.Profit)
	}

	// A quiet month is present with zeros, not missing.
	july := report.Monthly[6]
	if !july.Expenses.IsZero() || !july.Revenue.IsZero() || !july.Profit.IsZero() {
		t.Fatalf("expected zero-filled July, got %+v", july)
	}

	if _, err := svc.MonthlyReport(adminContext(), 180); !errors.Is(err, store.ErrValidation) {
		t.Fatalf("expected validation error for out-of-range year, got %v", err)
	}
}

func TestLedgerWritesRequireAdmin(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateExpense(context.Background(), domain.ExpenseCreateRequest{
		Category:    "feed_supplements",
		Description: "anonymous write",
		Amount:      decimal.RequireFromString("10.00"),
		Date:        "2026-01-01",
	})
	if err == nil {
		t.Fatalf("expected anonymous expense create to be rejected")
	}
}
