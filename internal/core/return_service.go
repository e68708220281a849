package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

type ReturnInput struct {
	ProductName  string
	Quantity     int
	Reason       string
	CustomerName string
}

// ReturnService records customer returns and puts the goods back on the shelf.
type ReturnService interface {
	// AddReturn always appends a ReturnEntry. restocked reports whether a
	// matching inventory item was found and incremented.
	AddReturn(ctx context.Context, in ReturnInput) (entry *ReturnEntry, restocked bool, err error)
	ListReturns(ctx context.Context) ([]ReturnEntry, error)
}

type returnService struct {
	pool      *pgxpool.Pool
	inventory InventoryService
	logger    logrus.FieldLogger
}

func NewReturnService(pool *pgxpool.Pool, inventory InventoryService, logger logrus.FieldLogger) ReturnService {
	return &returnService{pool: pool, inventory: inventory, logger: logger}
}

func (s *returnService) AddReturn(ctx context.Context, in ReturnInput) (*ReturnEntry, bool, error) {
	in.ProductName = strings.TrimSpace(in.ProductName)
	in.Reason = strings.TrimSpace(in.Reason)
	in.CustomerName = strings.TrimSpace(in.CustomerName)

	var reasons []string
	if in.ProductName == "" {
		reasons = append(reasons, "product name is required")
	}
	if in.Quantity <= 0 {
		reasons = append(reasons, fmt.Sprintf("return quantity must be positive, got %d", in.Quantity))
	}
	if len(reasons) > 0 {
		return nil, false, &ValidationError{Reasons: reasons}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	r := ReturnEntry{ProductName: in.ProductName, Quantity: in.Quantity, Reason: in.Reason, CustomerName: in.CustomerName}
	err = tx.QueryRow(ctx, `
		INSERT INTO returns (product_name, quantity, reason, customer_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, return_date
	`, r.ProductName, r.Quantity, r.Reason, r.CustomerName).Scan(&r.ID, &r.ReturnDate)
	if err != nil {
		return nil, false, fmt.Errorf("failed to insert return: %w", err)
	}

	restocked, err := s.inventory.IncrementStockTx(ctx, tx, r.ProductName, r.Quantity)
	if err != nil {
		return nil, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("failed to commit return: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"product":   r.ProductName,
		"quantity":  r.Quantity,
		"restocked": restocked,
	}).Info("return recorded")
	return &r, restocked, nil
}

func (s *returnService) ListReturns(ctx context.Context) ([]ReturnEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, product_name, quantity, reason, customer_name, return_date
		FROM returns
		ORDER BY return_date DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query returns: %w", err)
	}
	defer rows.Close()

	var out []ReturnEntry
	for rows.Next() {
		var r ReturnEntry
		if err := rows.Scan(&r.ID, &r.ProductName, &r.Quantity, &r.Reason, &r.CustomerName, &r.ReturnDate); err != nil {
			return nil, fmt.Errorf("failed to scan return: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("return row iteration error: %w", err)
	}
	return out, nil
}
