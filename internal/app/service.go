package app

import (
	"context"
	"io"

	"shop-backoffice/internal/core"
)

// ApplicationService is the single interface all UI adapters (CLI, REPL, Web) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// ShopInfo returns the display settings shared by every adapter.
	ShopInfo() ShopInfo

	// ── Inventory ──

	ListStock(ctx context.Context) ([]core.InventoryItem, error)
	GetStock(ctx context.Context, id int64) (*core.InventoryItem, error)

	// AddStock creates a new inventory row and, when requested, posts a supplier credit.
	AddStock(ctx context.Context, req AddStockRequest) (*StockResult, error)
	UpdateStock(ctx context.Context, id int64, req UpdateStockRequest) (*core.InventoryItem, error)

	// DeleteStock removes an inventory row and returns what was removed.
	DeleteStock(ctx context.Context, id int64) (*core.InventoryItem, error)

	// GetProductInfo returns price and availability for a product name.
	GetProductInfo(ctx context.Context, name string) (*ProductInfoResult, error)

	// ListAvailableStock returns items that can currently be sold.
	ListAvailableStock(ctx context.Context) ([]core.InventoryItem, error)

	// LowStock lists items below threshold. threshold <= 0 uses the configured default.
	LowStock(ctx context.Context, threshold int) ([]core.InventoryItem, error)

	// ── Sales ──

	// CreateSale records a sale and, for invoice-style sales that ask for it,
	// queues a receipt notification. Notification problems never fail the sale.
	CreateSale(ctx context.Context, req CreateSaleRequest) (*SaleResult, error)
	ListSales(ctx context.Context) ([]core.SaleRecord, error)
	GetInvoice(ctx context.Context, invoiceNo string) (*core.SaleRecord, error)
	GetSalesSummary(ctx context.Context) (*core.SalesSummary, error)

	// ── Returns, expenses, credits ──

	AddReturn(ctx context.Context, req AddReturnRequest) (*ReturnResult, error)
	ListReturns(ctx context.Context) ([]core.ReturnEntry, error)
	AddExpense(ctx context.Context, req AddExpenseRequest) (*core.ExpenseEntry, error)
	ListExpenses(ctx context.Context) ([]core.ExpenseEntry, error)
	ListCredits(ctx context.Context) ([]core.CreditEntry, error)

	// ── Reporting ──

	GetDashboard(ctx context.Context) (*core.Dashboard, error)
	GetAnalytics(ctx context.Context) (*core.Analytics, error)

	// Chat answers a free-text question about the shop's figures.
	Chat(ctx context.Context, query string) (*ChatResult, error)

	// ── Export ──

	// ExportSales writes an .xlsx workbook of all sales to w.
	ExportSales(ctx context.Context, w io.Writer) error
	// ExportStock writes an .xlsx workbook of all inventory to w.
	ExportStock(ctx context.Context, w io.Writer) error
}
