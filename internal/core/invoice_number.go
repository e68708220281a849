package core

import (
	"fmt"
	"sync"
	"time"
)

const (
	InvoicePrefixQuick   = "QS"
	InvoicePrefixInvoice = "INV"
)

// InvoiceNumbers hands out time-derived invoice numbers of the form
// PREFIX + YYYYMMDDHHMMSS + mmm. Numbers from one generator never repeat and
// never go backwards, even if the clock does; the UNIQUE constraint on
// sales.invoice_no covers multiple processes.
type InvoiceNumbers struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

func NewInvoiceNumbers() *InvoiceNumbers {
	return &InvoiceNumbers{now: time.Now}
}

// Next returns the next invoice number with the given prefix.
func (g *InvoiceNumbers) Next(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	t := g.now().Truncate(time.Millisecond)
	if !t.After(g.last) {
		t = g.last.Add(time.Millisecond)
	}
	g.last = t
	return formatInvoiceNo(prefix, t)
}

func formatInvoiceNo(prefix string, t time.Time) string {
	return fmt.Sprintf("%s%s%03d", prefix, t.Format("20060102150405"), t.Nanosecond()/int(time.Millisecond))
}
