package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type ExpenseInput struct {
	Category    string
	Amount      decimal.Decimal
	Description string
}

// ExpenseService keeps the append-only expense log.
type ExpenseService interface {
	AddExpense(ctx context.Context, in ExpenseInput) (*ExpenseEntry, error)
	ListExpenses(ctx context.Context) ([]ExpenseEntry, error)
}

type expenseService struct {
	pool *pgxpool.Pool
}

func NewExpenseService(pool *pgxpool.Pool) ExpenseService {
	return &expenseService{pool: pool}
}

func (s *expenseService) AddExpense(ctx context.Context, in ExpenseInput) (*ExpenseEntry, error) {
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)

	var reasons []string
	if in.Category == "" {
		reasons = append(reasons, "expense category is required")
	}
	if in.Amount.IsNegative() {
		reasons = append(reasons, fmt.Sprintf("expense amount cannot be negative, got %s", in.Amount))
	}
	if len(reasons) > 0 {
		return nil, &ValidationError{Reasons: reasons}
	}

	e := ExpenseEntry{Category: in.Category, Amount: in.Amount, Description: in.Description}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO expenses (category, amount, description)
		VALUES ($1, $2, $3)
		RETURNING id, date
	`, e.Category, e.Amount, e.Description).Scan(&e.ID, &e.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to insert expense: %w", err)
	}
	return &e, nil
}

func (s *expenseService) ListExpenses(ctx context.Context) ([]ExpenseEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, category, amount, description, date
		FROM expenses
		ORDER BY date DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var out []ExpenseEntry
	for rows.Next() {
		var e ExpenseEntry
		if err := rows.Scan(&e.ID, &e.Category, &e.Amount, &e.Description, &e.Date); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("expense row iteration error: %w", err)
	}
	return out, nil
}
