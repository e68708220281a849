package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"shop-backoffice/internal/ai"
	"shop-backoffice/internal/core"
	"shop-backoffice/internal/export"
	"shop-backoffice/internal/notify"
)

// Notifier accepts receipt jobs without blocking. *notify.Dispatcher satisfies it.
type Notifier interface {
	Enqueue(job notify.Job) bool
}

// Dependencies are the collaborators of the application service.
// Agent may be nil, in which case unmatched chat questions get the help text.
type Dependencies struct {
	Inventory core.InventoryService
	Sales     core.SaleService
	Ledger    core.CreditLedger
	Expenses  core.ExpenseService
	Returns   core.ReturnService
	Reports   core.ReportingService
	Notifier  Notifier
	Agent     ai.AgentService
	Logger    logrus.FieldLogger

	Shop        ShopInfo
	PhoneRegion string
	// Now defaults to time.Now.
	Now func() time.Time
}

type appService struct {
	Dependencies
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(deps Dependencies) ApplicationService {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = logrus.New()
	}
	if deps.Shop.LowStockThreshold <= 0 {
		deps.Shop.LowStockThreshold = 10
	}
	return &appService{Dependencies: deps}
}

func (s *appService) ShopInfo() ShopInfo {
	return s.Shop
}

// ── Inventory ─────────────────────────────────────────────────────────────────

func (s *appService) ListStock(ctx context.Context) ([]core.InventoryItem, error) {
	return s.Inventory.ListStock(ctx)
}

func (s *appService) GetStock(ctx context.Context, id int64) (*core.InventoryItem, error) {
	return s.Inventory.GetStock(ctx, id)
}

func (s *appService) AddStock(ctx context.Context, req AddStockRequest) (*StockResult, error) {
	item, credit, err := s.Inventory.AddStock(ctx, core.StockInput{
		ProductName:   req.ProductName,
		Quantity:      req.Quantity,
		PurchasePrice: req.PurchasePrice,
		SellingPrice:  req.SellingPrice,
		Supplier:      req.Supplier,
	}, req.AddToCredit)
	if err != nil {
		return nil, err
	}
	return &StockResult{Item: item, Credit: credit}, nil
}

func (s *appService) UpdateStock(ctx context.Context, id int64, req UpdateStockRequest) (*core.InventoryItem, error) {
	return s.Inventory.UpdateStock(ctx, id, core.StockInput{
		ProductName:   req.ProductName,
		Quantity:      req.Quantity,
		PurchasePrice: req.PurchasePrice,
		SellingPrice:  req.SellingPrice,
		Supplier:      req.Supplier,
	})
}

func (s *appService) DeleteStock(ctx context.Context, id int64) (*core.InventoryItem, error) {
	return s.Inventory.DeleteStock(ctx, id)
}

func (s *appService) GetProductInfo(ctx context.Context, name string) (*ProductInfoResult, error) {
	item, err := s.Inventory.ProductInfo(ctx, name)
	if err != nil {
		return nil, err
	}
	return &ProductInfoResult{
		ProductName:  item.ProductName,
		Price:        item.SellingPrice,
		AvailableQty: item.Quantity,
	}, nil
}

func (s *appService) ListAvailableStock(ctx context.Context) ([]core.InventoryItem, error) {
	return s.Inventory.ListAvailable(ctx)
}

func (s *appService) LowStock(ctx context.Context, threshold int) ([]core.InventoryItem, error) {
	if threshold <= 0 {
		threshold = s.Shop.LowStockThreshold
	}
	return s.Inventory.LowStock(ctx, threshold)
}

// ── Sales ─────────────────────────────────────────────────────────────────────

func (s *appService) CreateSale(ctx context.Context, req CreateSaleRequest) (*SaleResult, error) {
	lines := make([]core.SaleLineInput, len(req.Items))
	for i, l := range req.Items {
		lines[i] = core.SaleLineInput{
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			Price:       l.Price,
			Total:       l.Total,
		}
	}

	res, err := s.Sales.CreateSale(ctx, core.SaleRequest{
		Mode:          req.Mode,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		PaymentType:   req.PaymentType,
		Items:         lines,
	})
	if err != nil {
		return nil, err
	}

	out := &SaleResult{Sale: res.Sale, Credit: res.Credit}
	if req.SendWhatsApp && req.Mode != core.SaleModeQuick && res.Sale.CustomerPhone != "" && s.Notifier != nil {
		job := notify.NewInvoiceJob(res.Sale, s.Shop.Currency, s.PhoneRegion)
		out.NotificationQueued = s.Notifier.Enqueue(job)
	}
	return out, nil
}

func (s *appService) ListSales(ctx context.Context) ([]core.SaleRecord, error) {
	return s.Sales.ListSales(ctx)
}

func (s *appService) GetInvoice(ctx context.Context, invoiceNo string) (*core.SaleRecord, error) {
	return s.Sales.GetSaleByInvoice(ctx, invoiceNo)
}

func (s *appService) GetSalesSummary(ctx context.Context) (*core.SalesSummary, error) {
	return s.Reports.GetSalesSummary(ctx, s.Now())
}

// ── Returns, expenses, credits ────────────────────────────────────────────────

func (s *appService) AddReturn(ctx context.Context, req AddReturnRequest) (*ReturnResult, error) {
	entry, restocked, err := s.Returns.AddReturn(ctx, core.ReturnInput{
		ProductName:  req.ProductName,
		Quantity:     req.Quantity,
		Reason:       req.Reason,
		CustomerName: req.CustomerName,
	})
	if err != nil {
		return nil, err
	}
	return &ReturnResult{Entry: entry, Restocked: restocked}, nil
}

func (s *appService) ListReturns(ctx context.Context) ([]core.ReturnEntry, error) {
	return s.Returns.ListReturns(ctx)
}

func (s *appService) AddExpense(ctx context.Context, req AddExpenseRequest) (*core.ExpenseEntry, error) {
	return s.Expenses.AddExpense(ctx, core.ExpenseInput{
		Category:    req.Category,
		Amount:      req.Amount,
		Description: req.Description,
	})
}

func (s *appService) ListExpenses(ctx context.Context) ([]core.ExpenseEntry, error) {
	return s.Expenses.ListExpenses(ctx)
}

func (s *appService) ListCredits(ctx context.Context) ([]core.CreditEntry, error) {
	return s.Ledger.List(ctx)
}

// ── Reporting ─────────────────────────────────────────────────────────────────

func (s *appService) GetDashboard(ctx context.Context) (*core.Dashboard, error) {
	return s.Reports.GetDashboard(ctx, s.Now(), s.Shop.LowStockThreshold)
}

func (s *appService) GetAnalytics(ctx context.Context) (*core.Analytics, error) {
	return s.Reports.GetAnalytics(ctx, s.Now())
}

// ── Export ────────────────────────────────────────────────────────────────────

func (s *appService) ExportSales(ctx context.Context, w io.Writer) error {
	sales, err := s.Sales.ListSales(ctx)
	if err != nil {
		return err
	}
	f, err := export.SalesWorkbook(sales)
	if err != nil {
		return fmt.Errorf("failed to build sales workbook: %w", err)
	}
	return export.Write(f, w)
}

func (s *appService) ExportStock(ctx context.Context, w io.Writer) error {
	items, err := s.Inventory.ListStock(ctx)
	if err != nil {
		return err
	}
	f, err := export.StockWorkbook(items)
	if err != nil {
		return fmt.Errorf("failed to build stock workbook: %w", err)
	}
	return export.Write(f, w)
}
