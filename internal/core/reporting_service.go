package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ── Report types ──────────────────────────────────────────────────────────────

// Totals are whole-collection sums. Empty collections yield zero, never null.
type Totals struct {
	Revenue       decimal.Decimal `json:"total_revenue"`
	SaleCount     int             `json:"total_sales"`
	StockQuantity int             `json:"total_stock"`
	StockValue    decimal.Decimal `json:"stock_value"`
	Expenses      decimal.Decimal `json:"total_expenses"`
}

// PeriodRow is one time bucket. Period is "YYYY" for yearly rows and "MM"
// for monthly rows. Revenue-only queries leave Expenses at zero.
type PeriodRow struct {
	Period   string          `json:"period"`
	Revenue  decimal.Decimal `json:"revenue"`
	Expenses decimal.Decimal `json:"expenses"`
	Profit   decimal.Decimal `json:"profit"`
}

// TopSeller is an item ranked by cumulative units sold.
type TopSeller struct {
	ProductName  string `json:"product_name"`
	SoldQuantity int    `json:"sold_quantity"`
}

// Dashboard is the landing-page summary. Profit here is revenue minus
// expenses; stock valuation is not subtracted.
type Dashboard struct {
	Totals
	Profit         decimal.Decimal `json:"profit"`
	YearlyRevenue  []PeriodRow     `json:"yearly_data"`
	MonthlyRevenue []PeriodRow     `json:"monthly_data"`
	TopProducts    []TopSeller     `json:"top_products"`
	LowStock       []InventoryItem `json:"low_stock"`
	Stock          []InventoryItem `json:"stock_data"`
	CurrentYear    int             `json:"current_year"`
}

// Analytics is the profit/loss breakdown. ProfitLoss subtracts expenses and
// the remaining stock valuation from revenue: three independent sums, not a
// ledger balance.
type Analytics struct {
	Totals
	ProfitLoss  decimal.Decimal `json:"profit_loss"`
	Monthly     []PeriodRow     `json:"monthly_data"`
	Yearly      []PeriodRow     `json:"yearly_data"`
	CurrentYear int             `json:"current_year"`
}

type SalesSummary struct {
	TodayCount  int             `json:"today_count"`
	TodayAmount decimal.Decimal `json:"today_amount"`
	TotalCount  int             `json:"total_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	RecentSales []SaleRecord    `json:"recent_sales"`
}

// ── Interface ─────────────────────────────────────────────────────────────────

// ReportingService provides read-only aggregate queries. Every method takes
// the reference time explicitly so "today" and "current year" are testable.
type ReportingService interface {
	GetTotals(ctx context.Context) (*Totals, error)
	GetDashboard(ctx context.Context, now time.Time, lowStockThreshold int) (*Dashboard, error)
	GetAnalytics(ctx context.Context, now time.Time) (*Analytics, error)
	GetSalesSummary(ctx context.Context, now time.Time) (*SalesSummary, error)
	// GetTodaySales returns count and revenue of sales since local midnight of now.
	GetTodaySales(ctx context.Context, now time.Time) (int, decimal.Decimal, error)
	GetTopSellers(ctx context.Context, limit int) ([]TopSeller, error)
}

type reportingService struct {
	pool      *pgxpool.Pool
	inventory InventoryService
	sales     SaleService
}

func NewReportingService(pool *pgxpool.Pool, inventory InventoryService, sales SaleService) ReportingService {
	return &reportingService{pool: pool, inventory: inventory, sales: sales}
}

const (
	topSellerLimit   = 5
	recentSalesLimit = 5
)

func (s *reportingService) GetTotals(ctx context.Context) (*Totals, error) {
	var t Totals
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT COALESCE(SUM(total_amount), 0) FROM sales),
			(SELECT COUNT(*) FROM sales),
			(SELECT COALESCE(SUM(quantity), 0) FROM stock_items),
			(SELECT COALESCE(SUM(quantity * purchase_price), 0) FROM stock_items),
			(SELECT COALESCE(SUM(amount), 0) FROM expenses)
	`).Scan(&t.Revenue, &t.SaleCount, &t.StockQuantity, &t.StockValue, &t.Expenses)
	if err != nil {
		return nil, fmt.Errorf("failed to compute totals: %w", err)
	}
	return &t, nil
}

func (s *reportingService) GetDashboard(ctx context.Context, now time.Time, lowStockThreshold int) (*Dashboard, error) {
	totals, err := s.GetTotals(ctx)
	if err != nil {
		return nil, err
	}
	d := &Dashboard{
		Totals:      *totals,
		Profit:      totals.Revenue.Sub(totals.Expenses),
		CurrentYear: now.Year(),
	}

	if d.YearlyRevenue, err = s.periodRows(ctx, yearlyRevenueSQL); err != nil {
		return nil, err
	}
	if d.MonthlyRevenue, err = s.periodRows(ctx, monthlyRevenueSQL, now.Year()); err != nil {
		return nil, err
	}
	if d.TopProducts, err = s.GetTopSellers(ctx, topSellerLimit); err != nil {
		return nil, err
	}
	if d.LowStock, err = s.inventory.LowStock(ctx, lowStockThreshold); err != nil {
		return nil, err
	}
	if d.Stock, err = s.inventory.ListStock(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *reportingService) GetAnalytics(ctx context.Context, now time.Time) (*Analytics, error) {
	totals, err := s.GetTotals(ctx)
	if err != nil {
		return nil, err
	}
	a := &Analytics{
		Totals:      *totals,
		ProfitLoss:  totals.Revenue.Sub(totals.Expenses).Sub(totals.StockValue),
		CurrentYear: now.Year(),
	}
	if a.Monthly, err = s.periodRows(ctx, monthlyProfitSQL, now.Year()); err != nil {
		return nil, err
	}
	if a.Yearly, err = s.periodRows(ctx, yearlyProfitSQL); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *reportingService) GetSalesSummary(ctx context.Context, now time.Time) (*SalesSummary, error) {
	var sum SalesSummary
	var err error
	if sum.TodayCount, sum.TodayAmount, err = s.GetTodaySales(ctx, now); err != nil {
		return nil, err
	}
	err = s.pool.QueryRow(ctx, `SELECT COUNT(*), COALESCE(SUM(total_amount), 0) FROM sales`).
		Scan(&sum.TotalCount, &sum.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("failed to compute sales totals: %w", err)
	}
	if sum.RecentSales, err = s.sales.RecentSales(ctx, recentSalesLimit); err != nil {
		return nil, err
	}
	return &sum, nil
}

func (s *reportingService) GetTodaySales(ctx context.Context, now time.Time) (int, decimal.Decimal, error) {
	start, end := dayBounds(now)
	var count int
	var amount decimal.Decimal
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM sales
		WHERE sale_date >= $1 AND sale_date < $2
	`, start, end).Scan(&count, &amount)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("failed to compute today's sales: %w", err)
	}
	return count, amount, nil
}

func (s *reportingService) GetTopSellers(ctx context.Context, limit int) ([]TopSeller, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT product_name, sold_quantity
		FROM stock_items
		WHERE sold_quantity > 0
		ORDER BY sold_quantity DESC, id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top sellers: %w", err)
	}
	defer rows.Close()

	var out []TopSeller
	for rows.Next() {
		var ts TopSeller
		if err := rows.Scan(&ts.ProductName, &ts.SoldQuantity); err != nil {
			return nil, fmt.Errorf("failed to scan top seller: %w", err)
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}

// ── Time buckets ──────────────────────────────────────────────────────────────

// Only periods with at least one sale produce a row. Expenses are matched to
// the same calendar period. Periods follow the session time zone, which
// db.NewPool pins to the process zone.
const (
	yearlyRevenueSQL = `
		SELECT to_char(sale_date, 'YYYY') AS period, SUM(total_amount), 0::numeric
		FROM sales
		GROUP BY period
		ORDER BY period`

	monthlyRevenueSQL = `
		SELECT to_char(sale_date, 'MM') AS period, SUM(total_amount), 0::numeric
		FROM sales
		WHERE EXTRACT(YEAR FROM sale_date) = $1
		GROUP BY period
		ORDER BY period`

	yearlyProfitSQL = `
		SELECT s.period, s.revenue, COALESCE(e.expenses, 0)
		FROM (
			SELECT to_char(sale_date, 'YYYY') AS period, SUM(total_amount) AS revenue
			FROM sales GROUP BY 1
		) s
		LEFT JOIN (
			SELECT to_char(date, 'YYYY') AS period, SUM(amount) AS expenses
			FROM expenses GROUP BY 1
		) e ON e.period = s.period
		ORDER BY s.period`

	monthlyProfitSQL = `
		SELECT s.period, s.revenue, COALESCE(e.expenses, 0)
		FROM (
			SELECT to_char(sale_date, 'MM') AS period, SUM(total_amount) AS revenue
			FROM sales WHERE EXTRACT(YEAR FROM sale_date) = $1 GROUP BY 1
		) s
		LEFT JOIN (
			SELECT to_char(date, 'MM') AS period, SUM(amount) AS expenses
			FROM expenses WHERE EXTRACT(YEAR FROM date) = $1 GROUP BY 1
		) e ON e.period = s.period
		ORDER BY s.period`
)

func (s *reportingService) periodRows(ctx context.Context, q string, args ...any) ([]PeriodRow, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query period totals: %w", err)
	}
	defer rows.Close()

	var out []PeriodRow
	for rows.Next() {
		var r PeriodRow
		if err := rows.Scan(&r.Period, &r.Revenue, &r.Expenses); err != nil {
			return nil, fmt.Errorf("failed to scan period row: %w", err)
		}
		r.Profit = r.Revenue.Sub(r.Expenses)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("period row iteration error: %w", err)
	}
	return out, nil
}

// dayBounds returns [local midnight, next local midnight) around now.
func dayBounds(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}
