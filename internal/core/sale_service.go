package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// SaleMode selects which sale entry point an attempt came through.
type SaleMode string

const (
	// SaleModeQuick is the cash-only counter sale.
	SaleModeQuick   SaleMode = "quick"
	SaleModeInvoice SaleMode = "invoice"
	SaleModeSimple  SaleMode = "simple"
)

const (
	quickSaleCustomer  = "Walk-in Customer"
	simpleSaleCustomer = "Walk-in"
)

// SaleLineInput is one requested line. Zero Price means "use the stock selling
// price"; zero Total means quantity × price.
type SaleLineInput struct {
	ProductName string
	Quantity    int
	Price       decimal.Decimal
	Total       decimal.Decimal
}

type SaleRequest struct {
	Mode          SaleMode
	CustomerName  string
	CustomerPhone string
	PaymentType   string
	Items         []SaleLineInput
}

// SaleResult is what a completed attempt produced. Credit is nil unless the
// sale was on deferred payment.
type SaleResult struct {
	Sale   SaleRecord
	Credit *CreditEntry
}

// SaleService records sales. An attempt moves Validating → Rejected, or
// Validating → Persisting → StockAdjusting → Complete, inside a single
// transaction: either everything lands or nothing does.
type SaleService interface {
	CreateSale(ctx context.Context, req SaleRequest) (*SaleResult, error)
	// ListSales returns every sale, newest first.
	ListSales(ctx context.Context) ([]SaleRecord, error)
	GetSaleByInvoice(ctx context.Context, invoiceNo string) (*SaleRecord, error)
	// RecentSales returns at most limit sales, newest first.
	RecentSales(ctx context.Context, limit int) ([]SaleRecord, error)
}

type saleService struct {
	pool      *pgxpool.Pool
	inventory InventoryService
	ledger    CreditLedger
	numbers   *InvoiceNumbers
	logger    logrus.FieldLogger
}

func NewSaleService(pool *pgxpool.Pool, inventory InventoryService, ledger CreditLedger, numbers *InvoiceNumbers, logger logrus.FieldLogger) SaleService {
	return &saleService{pool: pool, inventory: inventory, ledger: ledger, numbers: numbers, logger: logger}
}

func (s *saleService) CreateSale(ctx context.Context, req SaleRequest) (*SaleResult, error) {
	req = normalizeSaleRequest(req)
	log := s.logger.WithFields(logrus.Fields{"mode": req.Mode, "lines": len(req.Items)})

	if err := validateSaleRequest(req); err != nil {
		log.WithField("stage", "rejected").Info("sale request malformed")
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Validating. Rows are locked in name order so two concurrent sales
	// touching the same products cannot deadlock.
	stock := make(map[string]*InventoryItem)
	for _, key := range distinctProductKeys(req.Items) {
		item, err := s.inventory.LockByNameTx(ctx, tx, key)
		if err != nil {
			return nil, err
		}
		stock[key] = item
	}
	if reasons := checkAvailability(req.Items, stock); len(reasons) > 0 {
		log.WithFields(logrus.Fields{"stage": "rejected", "failures": len(reasons)}).Info("sale rejected")
		return nil, &ValidationError{Reasons: reasons}
	}

	// Persisting.
	lines := buildLineItems(req.Items, stock)
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Total)
	}
	itemsJSON, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("failed to encode line items: %w", err)
	}

	prefix := InvoicePrefixInvoice
	if req.Mode == SaleModeQuick {
		prefix = InvoicePrefixQuick
	}
	sale := SaleRecord{
		InvoiceNo:     s.numbers.Next(prefix),
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Items:         lines,
		TotalAmount:   total,
		PaymentType:   req.PaymentType,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO sales (invoice_no, customer_name, customer_phone, items, total_amount, payment_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, sale_date
	`, sale.InvoiceNo, sale.CustomerName, sale.CustomerPhone, itemsJSON, sale.TotalAmount, sale.PaymentType).Scan(&sale.ID, &sale.SaleDate)
	if err != nil {
		return nil, fmt.Errorf("failed to insert sale %s: %w", sale.InvoiceNo, err)
	}
	log = log.WithField("invoice_no", sale.InvoiceNo)
	log.WithField("stage", "persisted").Debug("sale row written")

	// StockAdjusting.
	for _, in := range req.Items {
		item := stock[productKey(in.ProductName)]
		if err := s.inventory.DecrementStockTx(ctx, tx, item.ID, in.Quantity); err != nil {
			return nil, err
		}
	}
	log.WithField("stage", "stock_adjusted").Debug("stock decremented")

	result := &SaleResult{Sale: sale}
	if req.Mode != SaleModeQuick && req.PaymentType == PaymentCredit && req.CustomerName != "" {
		credit, err := s.ledger.PostTx(ctx, tx, CreditEntry{
			Type:        PartyCustomer,
			Name:        req.CustomerName,
			Amount:      total,
			Description: fmt.Sprintf("Sale: %s", sale.InvoiceNo),
		})
		if err != nil {
			return nil, err
		}
		result.Credit = credit
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit sale %s: %w", sale.InvoiceNo, err)
	}
	log.WithFields(logrus.Fields{"stage": "complete", "total": total.StringFixed(2)}).Info("sale recorded")
	return result, nil
}

const saleColumns = `id, invoice_no, customer_name, customer_phone, items, total_amount, payment_type, sale_date`

func scanSale(row pgx.Row) (*SaleRecord, error) {
	var sr SaleRecord
	var items []byte
	if err := row.Scan(&sr.ID, &sr.InvoiceNo, &sr.CustomerName, &sr.CustomerPhone, &items,
		&sr.TotalAmount, &sr.PaymentType, &sr.SaleDate); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &sr.Items); err != nil {
		return nil, fmt.Errorf("failed to decode items of %s: %w", sr.InvoiceNo, err)
	}
	return &sr, nil
}

func (s *saleService) querySales(ctx context.Context, q string, args ...any) ([]SaleRecord, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	var sales []SaleRecord
	for rows.Next() {
		sr, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, *sr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sale row iteration error: %w", err)
	}
	return sales, nil
}

func (s *saleService) ListSales(ctx context.Context) ([]SaleRecord, error) {
	return s.querySales(ctx, `SELECT `+saleColumns+` FROM sales ORDER BY sale_date DESC, id DESC`)
}

func (s *saleService) RecentSales(ctx context.Context, limit int) ([]SaleRecord, error) {
	return s.querySales(ctx, `SELECT `+saleColumns+` FROM sales ORDER BY sale_date DESC, id DESC LIMIT $1`, limit)
}

func (s *saleService) GetSaleByInvoice(ctx context.Context, invoiceNo string) (*SaleRecord, error) {
	sr, err := scanSale(s.pool.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE invoice_no = $1`, invoiceNo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("invoice %s: %w", invoiceNo, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch invoice %s: %w", invoiceNo, err)
	}
	return sr, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func productKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func normalizeSaleRequest(req SaleRequest) SaleRequest {
	if req.Mode == "" {
		req.Mode = SaleModeInvoice
	}
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerPhone = strings.TrimSpace(req.CustomerPhone)
	req.PaymentType = strings.ToLower(strings.TrimSpace(req.PaymentType))

	switch req.Mode {
	case SaleModeQuick:
		req.PaymentType = PaymentCash
		req.CustomerPhone = ""
		if req.CustomerName == "" {
			req.CustomerName = quickSaleCustomer
		}
	case SaleModeSimple:
		if req.CustomerName == "" {
			req.CustomerName = simpleSaleCustomer
		}
	}

	items := make([]SaleLineInput, len(req.Items))
	for i, in := range req.Items {
		in.ProductName = strings.TrimSpace(in.ProductName)
		items[i] = in
	}
	req.Items = items
	return req
}

// validateSaleRequest checks the request shape before any stock is read.
func validateSaleRequest(req SaleRequest) error {
	var reasons []string
	switch req.Mode {
	case SaleModeQuick, SaleModeInvoice, SaleModeSimple:
	default:
		reasons = append(reasons, fmt.Sprintf("unknown sale mode %q", req.Mode))
	}
	if req.Mode == SaleModeInvoice && req.CustomerName == "" {
		reasons = append(reasons, "customer name is required")
	}
	if req.PaymentType == "" {
		reasons = append(reasons, "payment type is required")
	}
	if len(req.Items) == 0 {
		reasons = append(reasons, "at least one item is required")
	}
	for i, in := range req.Items {
		if in.ProductName == "" {
			reasons = append(reasons, fmt.Sprintf("item %d: product name is required", i+1))
		}
		if in.Quantity <= 0 {
			reasons = append(reasons, fmt.Sprintf("item %d: quantity must be positive, got %d", i+1, in.Quantity))
		}
		if in.Price.IsNegative() || in.Total.IsNegative() {
			reasons = append(reasons, fmt.Sprintf("item %d: amounts cannot be negative", i+1))
		}
	}
	if len(reasons) > 0 {
		return &ValidationError{Reasons: reasons}
	}
	return nil
}

func distinctProductKeys(items []SaleLineInput) []string {
	seen := make(map[string]bool, len(items))
	var keys []string
	for _, in := range items {
		k := productKey(in.ProductName)
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// checkAvailability returns one reason per failing line, in request order.
// Lines naming the same product draw down the same on-hand quantity.
func checkAvailability(items []SaleLineInput, stock map[string]*InventoryItem) []string {
	var reasons []string
	demand := make(map[string]int, len(stock))
	for _, in := range items {
		key := productKey(in.ProductName)
		item := stock[key]
		if item == nil {
			reasons = append(reasons, fmt.Sprintf("Product '%s' not found in stock", in.ProductName))
			continue
		}
		demand[key] += in.Quantity
		if demand[key] > item.Quantity {
			reasons = append(reasons, fmt.Sprintf("Insufficient stock for '%s'. Available: %d", in.ProductName, item.Quantity))
		}
	}
	return reasons
}

// moneyScale matches the NUMERIC(14,2) money columns.
const moneyScale = 2

func buildLineItems(items []SaleLineInput, stock map[string]*InventoryItem) []LineItem {
	lines := make([]LineItem, 0, len(items))
	for _, in := range items {
		price := in.Price
		if price.IsZero() {
			if item := stock[productKey(in.ProductName)]; item != nil {
				price = item.SellingPrice
			}
		}
		price = price.Round(moneyScale)
		total := in.Total
		if total.IsZero() {
			total = price.Mul(decimal.NewFromInt(int64(in.Quantity)))
		}
		// Stored columns are NUMERIC(14,2); rounding here keeps the items JSON summing to total_amount.
		total = total.Round(moneyScale)
		lines = append(lines, LineItem{
			ProductName: in.ProductName,
			Quantity:    in.Quantity,
			Price:       price,
			Total:       total,
		})
	}
	return lines
}
