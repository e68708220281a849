package core_test

import (
	"testing"
	"time"

	"shop-backoffice/internal/core"

	"github.com/shopspring/decimal"
)

func TestReporting_TotalsOnEmptyStoreAreZero(t *testing.T) {
	svc, ctx := setupServices(t)

	totals, err := svc.reports.GetTotals(ctx)
	if err != nil {
		t.Fatalf("GetTotals failed: %v", err)
	}
	if !totals.Revenue.IsZero() || totals.SaleCount != 0 || totals.StockQuantity != 0 ||
		!totals.StockValue.IsZero() || !totals.Expenses.IsZero() {
		t.Errorf("expected all-zero totals, got %+v", totals)
	}
}

func TestReporting_DashboardAndAnalytics(t *testing.T) {
	svc, ctx := setupServices(t)
	addStock(t, ctx, svc, "Widget", 50, 10, 20, "", false)
	addStock(t, ctx, svc, "Gadget", 5, 4, 8, "", false)

	for _, q := range []int{5, 2} {
		if _, err := svc.sales.CreateSale(ctx, core.SaleRequest{
			Mode:  core.SaleModeQuick,
			Items: []core.SaleLineInput{{ProductName: "Widget", Quantity: q}},
		}); err != nil {
			t.Fatalf("CreateSale failed: %v", err)
		}
	}
	if _, err := svc.expenses.AddExpense(ctx, core.ExpenseInput{Category: "Rent", Amount: decimal.NewFromInt(40)}); err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	now := time.Now()
	dash, err := svc.reports.GetDashboard(ctx, now, 10)
	if err != nil {
		t.Fatalf("GetDashboard failed: %v", err)
	}
	// revenue 7 × 20 = 140; stock left 43 + 5
	if !dash.Revenue.Equal(decimal.NewFromInt(140)) || dash.SaleCount != 2 || dash.StockQuantity != 48 {
		t.Errorf("unexpected totals: %+v", dash.Totals)
	}
	if !dash.Profit.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected dashboard profit 100, got %s", dash.Profit)
	}
	if len(dash.TopProducts) != 1 || dash.TopProducts[0].ProductName != "Widget" || dash.TopProducts[0].SoldQuantity != 7 {
		t.Errorf("unexpected top products: %+v", dash.TopProducts)
	}
	if len(dash.LowStock) != 1 || dash.LowStock[0].ProductName != "Gadget" {
		t.Errorf("unexpected low stock: %+v", dash.LowStock)
	}
	if len(dash.MonthlyRevenue) != 1 || !dash.MonthlyRevenue[0].Revenue.Equal(decimal.NewFromInt(140)) {
		t.Errorf("unexpected monthly revenue: %+v", dash.MonthlyRevenue)
	}

	an, err := svc.reports.GetAnalytics(ctx, now)
	if err != nil {
		t.Fatalf("GetAnalytics failed: %v", err)
	}
	// 140 - 40 - (43×10 + 5×4) = -350
	if !an.ProfitLoss.Equal(decimal.NewFromInt(-350)) {
		t.Errorf("expected profit_loss -350, got %s", an.ProfitLoss)
	}
	if len(an.Yearly) != 1 {
		t.Fatalf("expected 1 yearly row, got %d", len(an.Yearly))
	}
	y := an.Yearly[0]
	if !y.Expenses.Equal(decimal.NewFromInt(40)) || !y.Profit.Equal(decimal.NewFromInt(100)) {
		t.Errorf("unexpected yearly row: %+v", y)
	}
}

func TestReporting_SalesSummary(t *testing.T) {
	svc, ctx := setupServices(t)
	addStock(t, ctx, svc, "Pen", 100, 1, 2, "", false)
	for i := 0; i < 7; i++ {
		if _, err := svc.sales.CreateSale(ctx, core.SaleRequest{
			Mode:  core.SaleModeQuick,
			Items: []core.SaleLineInput{{ProductName: "Pen", Quantity: 1}},
		}); err != nil {
			t.Fatalf("CreateSale failed: %v", err)
		}
	}

	sum, err := svc.reports.GetSalesSummary(ctx, time.Now())
	if err != nil {
		t.Fatalf("GetSalesSummary failed: %v", err)
	}
	if sum.TodayCount != 7 || sum.TotalCount != 7 || !sum.TotalAmount.Equal(decimal.NewFromInt(14)) {
		t.Errorf("unexpected summary: %+v", sum)
	}
	if len(sum.RecentSales) != 5 {
		t.Errorf("expected 5 recent sales, got %d", len(sum.RecentSales))
	}

	yesterday := time.Now().AddDate(0, 0, -1)
	count, amount, err := svc.reports.GetTodaySales(ctx, yesterday)
	if err != nil {
		t.Fatalf("GetTodaySales failed: %v", err)
	}
	if count != 0 || !amount.IsZero() {
		t.Errorf("expected nothing sold yesterday, got %d / %s", count, amount)
	}
}

func TestReporting_ReadsAreIdempotent(t *testing.T) {
	svc, ctx := setupServices(t)
	addStock(t, ctx, svc, "Widget", 50, 10, 20, "", false)
	if _, err := svc.sales.CreateSale(ctx, core.SaleRequest{
		Mode:  core.SaleModeQuick,
		Items: []core.SaleLineInput{{ProductName: "Widget", Quantity: 3}},
	}); err != nil {
		t.Fatalf("CreateSale failed: %v", err)
	}

	first, err := svc.reports.GetTotals(ctx)
	if err != nil {
		t.Fatalf("GetTotals failed: %v", err)
	}
	second, err := svc.reports.GetTotals(ctx)
	if err != nil {
		t.Fatalf("GetTotals failed: %v", err)
	}
	if !first.Revenue.Equal(second.Revenue) || first.SaleCount != second.SaleCount ||
		first.StockQuantity != second.StockQuantity || !first.StockValue.Equal(second.StockValue) ||
		!first.Expenses.Equal(second.Expenses) {
		t.Errorf("repeated reads differ: %+v vs %+v", first, second)
	}
}
