package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// StockInput carries the editable fields of an inventory item.
type StockInput struct {
	ProductName   string
	Quantity      int
	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
	Supplier      string
}

// InventoryService manages stock entries and the quantity adjustments tied to sales and returns.
type InventoryService interface {
	// Standalone operations (manage their own transactions).
	ListStock(ctx context.Context) ([]InventoryItem, error)
	GetStock(ctx context.Context, id int64) (*InventoryItem, error)
	// AddStock always inserts a new row, even when the name already exists.
	// With addToCredit and a supplier, a supplier credit of qty × purchase price
	// is posted in the same transaction.
	AddStock(ctx context.Context, in StockInput, addToCredit bool) (*InventoryItem, *CreditEntry, error)
	UpdateStock(ctx context.Context, id int64, in StockInput) (*InventoryItem, error)
	DeleteStock(ctx context.Context, id int64) (*InventoryItem, error)
	// ProductInfo resolves a product by case-insensitive name.
	ProductInfo(ctx context.Context, name string) (*InventoryItem, error)
	// ListAvailable returns items with quantity > 0, ordered by name.
	ListAvailable(ctx context.Context) ([]InventoryItem, error)
	// LowStock returns items whose quantity is below threshold.
	LowStock(ctx context.Context, threshold int) ([]InventoryItem, error)

	// TX-scoped operations: work within a caller-provided transaction.

	// LockByNameTx finds the oldest item matching name and locks its row.
	// Returns (nil, nil) when no item matches.
	LockByNameTx(ctx context.Context, tx pgx.Tx, name string) (*InventoryItem, error)
	// DecrementStockTx moves qty from on-hand to sold. Fails without writing
	// when fewer than qty units are on hand.
	DecrementStockTx(ctx context.Context, tx pgx.Tx, itemID int64, qty int) error
	// IncrementStockTx restocks the oldest item matching name.
	// Reports false (and writes nothing) when no item matches.
	IncrementStockTx(ctx context.Context, tx pgx.Tx, name string, qty int) (bool, error)
}

type inventoryService struct {
	pool   *pgxpool.Pool
	ledger CreditLedger
}

func NewInventoryService(pool *pgxpool.Pool, ledger CreditLedger) InventoryService {
	return &inventoryService{pool: pool, ledger: ledger}
}

const stockColumns = `id, product_name, quantity, sold_quantity, purchase_price, selling_price, supplier, date_added`

func scanItem(row pgx.Row) (*InventoryItem, error) {
	var it InventoryItem
	if err := row.Scan(&it.ID, &it.ProductName, &it.Quantity, &it.SoldQuantity,
		&it.PurchasePrice, &it.SellingPrice, &it.Supplier, &it.DateAdded); err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *inventoryService) queryItems(ctx context.Context, q string, args ...any) ([]InventoryItem, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock: %w", err)
	}
	defer rows.Close()

	var items []InventoryItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock item: %w", err)
		}
		items = append(items, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("stock row iteration error: %w", err)
	}
	return items, nil
}

// ── Standalone operations ─────────────────────────────────────────────────────

func (s *inventoryService) ListStock(ctx context.Context) ([]InventoryItem, error) {
	return s.queryItems(ctx, `SELECT `+stockColumns+` FROM stock_items ORDER BY id`)
}

func (s *inventoryService) GetStock(ctx context.Context, id int64) (*InventoryItem, error) {
	it, err := scanItem(s.pool.QueryRow(ctx, `SELECT `+stockColumns+` FROM stock_items WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("stock item %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch stock item %d: %w", id, err)
	}
	return it, nil
}

func (s *inventoryService) AddStock(ctx context.Context, in StockInput, addToCredit bool) (*InventoryItem, *CreditEntry, error) {
	in = normalizeStockInput(in)
	if err := validateStockInput(in); err != nil {
		return nil, nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	item, err := scanItem(tx.QueryRow(ctx, `
		INSERT INTO stock_items (product_name, quantity, sold_quantity, purchase_price, selling_price, supplier)
		VALUES ($1, $2, 0, $3, $4, $5)
		RETURNING `+stockColumns,
		in.ProductName, in.Quantity, in.PurchasePrice, in.SellingPrice, in.Supplier))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to insert stock item: %w", err)
	}

	var credit *CreditEntry
	if addToCredit && in.Supplier != "" {
		credit, err = s.ledger.PostTx(ctx, tx, CreditEntry{
			Type:        PartySupplier,
			Name:        in.Supplier,
			Amount:      in.PurchasePrice.Mul(decimal.NewFromInt(int64(in.Quantity))),
			Description: fmt.Sprintf("Stock purchase: %s", in.ProductName),
		})
		if err != nil {
			return nil, nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit stock intake: %w", err)
	}
	return item, credit, nil
}

func (s *inventoryService) UpdateStock(ctx context.Context, id int64, in StockInput) (*InventoryItem, error) {
	in = normalizeStockInput(in)
	if err := validateStockInput(in); err != nil {
		return nil, err
	}

	it, err := scanItem(s.pool.QueryRow(ctx, `
		UPDATE stock_items
		SET product_name = $1, quantity = $2, purchase_price = $3, selling_price = $4, supplier = $5
		WHERE id = $6
		RETURNING `+stockColumns,
		in.ProductName, in.Quantity, in.PurchasePrice, in.SellingPrice, in.Supplier, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("stock item %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update stock item %d: %w", id, err)
	}
	return it, nil
}

func (s *inventoryService) DeleteStock(ctx context.Context, id int64) (*InventoryItem, error) {
	it, err := scanItem(s.pool.QueryRow(ctx,
		`DELETE FROM stock_items WHERE id = $1 RETURNING `+stockColumns, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("stock item %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to delete stock item %d: %w", id, err)
	}
	return it, nil
}

func (s *inventoryService) ProductInfo(ctx context.Context, name string) (*InventoryItem, error) {
	it, err := scanItem(s.pool.QueryRow(ctx, `
		SELECT `+stockColumns+`
		FROM stock_items
		WHERE LOWER(product_name) = LOWER($1)
		ORDER BY id
		LIMIT 1
	`, strings.TrimSpace(name)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %q: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to look up product %q: %w", name, err)
	}
	return it, nil
}

func (s *inventoryService) ListAvailable(ctx context.Context) ([]InventoryItem, error) {
	return s.queryItems(ctx, `SELECT `+stockColumns+` FROM stock_items WHERE quantity > 0 ORDER BY product_name, id`)
}

func (s *inventoryService) LowStock(ctx context.Context, threshold int) ([]InventoryItem, error) {
	return s.queryItems(ctx, `SELECT `+stockColumns+` FROM stock_items WHERE quantity < $1 ORDER BY quantity, id`, threshold)
}

// ── TX-scoped operations ──────────────────────────────────────────────────────

func (s *inventoryService) LockByNameTx(ctx context.Context, tx pgx.Tx, name string) (*InventoryItem, error) {
	it, err := scanItem(tx.QueryRow(ctx, `
		SELECT `+stockColumns+`
		FROM stock_items
		WHERE LOWER(product_name) = LOWER($1)
		ORDER BY id
		LIMIT 1
		FOR UPDATE
	`, strings.TrimSpace(name)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock stock item %q: %w", name, err)
	}
	return it, nil
}

func (s *inventoryService) DecrementStockTx(ctx context.Context, tx pgx.Tx, itemID int64, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("decrement quantity must be positive, got %d", qty)
	}
	tag, err := tx.Exec(ctx, `
		UPDATE stock_items
		SET quantity = quantity - $1, sold_quantity = sold_quantity + $1
		WHERE id = $2 AND quantity >= $1
	`, qty, itemID)
	if err != nil {
		return fmt.Errorf("failed to decrement stock item %d: %w", itemID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("insufficient stock on item %d for %d units", itemID, qty)
	}
	return nil
}

func (s *inventoryService) IncrementStockTx(ctx context.Context, tx pgx.Tx, name string, qty int) (bool, error) {
	if qty <= 0 {
		return false, fmt.Errorf("increment quantity must be positive, got %d", qty)
	}
	item, err := s.LockByNameTx(ctx, tx, name)
	if err != nil || item == nil {
		return false, err
	}
	if _, err := tx.Exec(ctx, `UPDATE stock_items SET quantity = quantity + $1 WHERE id = $2`, qty, item.ID); err != nil {
		return false, fmt.Errorf("failed to restock %q: %w", name, err)
	}
	return true, nil
}

func normalizeStockInput(in StockInput) StockInput {
	in.ProductName = strings.TrimSpace(in.ProductName)
	in.Supplier = strings.TrimSpace(in.Supplier)
	return in
}

func validateStockInput(in StockInput) error {
	var reasons []string
	if in.ProductName == "" {
		reasons = append(reasons, "product name is required")
	}
	if in.Quantity < 0 {
		reasons = append(reasons, fmt.Sprintf("quantity cannot be negative, got %d", in.Quantity))
	}
	if in.PurchasePrice.IsNegative() {
		reasons = append(reasons, fmt.Sprintf("purchase price cannot be negative, got %s", in.PurchasePrice))
	}
	if in.SellingPrice.IsNegative() {
		reasons = append(reasons, fmt.Sprintf("selling price cannot be negative, got %s", in.SellingPrice))
	}
	if len(reasons) > 0 {
		return &ValidationError{Reasons: reasons}
	}
	return nil
}
