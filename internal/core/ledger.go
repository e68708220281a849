package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// CreditLedger is the append-only list of supplier and customer credit entries.
// Entries are never netted against payments.
type CreditLedger interface {
	Post(ctx context.Context, entry CreditEntry) (*CreditEntry, error)
	// PostTx appends an entry inside the caller's transaction so it lands
	// together with the sale or stock intake that caused it.
	PostTx(ctx context.Context, q pgxQuerier, entry CreditEntry) (*CreditEntry, error)
	List(ctx context.Context) ([]CreditEntry, error)
}

type Ledger struct {
	pool *pgxpool.Pool
}

func NewLedger(pool *pgxpool.Pool) *Ledger {
	return &Ledger{pool: pool}
}

func (l *Ledger) Post(ctx context.Context, entry CreditEntry) (*CreditEntry, error) {
	return l.PostTx(ctx, l.pool, entry)
}

func (l *Ledger) PostTx(ctx context.Context, q pgxQuerier, entry CreditEntry) (*CreditEntry, error) {
	if err := validateCredit(entry); err != nil {
		return nil, err
	}

	out := entry
	err := q.QueryRow(ctx, `
		INSERT INTO credits (type, name, amount, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, date
	`, string(entry.Type), entry.Name, entry.Amount, entry.Description).Scan(&out.ID, &out.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to post %s credit for %s: %w", entry.Type, entry.Name, err)
	}
	return &out, nil
}

// List returns every credit entry, newest first.
func (l *Ledger) List(ctx context.Context) ([]CreditEntry, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT id, type, name, amount, description, date
		FROM credits
		ORDER BY date DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query credits: %w", err)
	}
	defer rows.Close()

	var entries []CreditEntry
	for rows.Next() {
		var c CreditEntry
		var partyType string
		if err := rows.Scan(&c.ID, &partyType, &c.Name, &c.Amount, &c.Description, &c.Date); err != nil {
			return nil, fmt.Errorf("failed to scan credit entry: %w", err)
		}
		c.Type = PartyType(partyType)
		entries = append(entries, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("credit row iteration error: %w", err)
	}
	return entries, nil
}

func validateCredit(entry CreditEntry) error {
	var reasons []string
	if entry.Type != PartySupplier && entry.Type != PartyCustomer {
		reasons = append(reasons, fmt.Sprintf("credit type must be supplier or customer, got %q", entry.Type))
	}
	if strings.TrimSpace(entry.Name) == "" {
		reasons = append(reasons, "credit party name is required")
	}
	if entry.Amount.LessThan(decimal.Zero) {
		reasons = append(reasons, fmt.Sprintf("credit amount cannot be negative, got %s", entry.Amount))
	}
	if len(reasons) > 0 {
		return &ValidationError{Reasons: reasons}
	}
	return nil
}
