package core

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestInvoiceNumbers_Format(t *testing.T) {
	fixed := time.Date(2024, 3, 9, 14, 5, 7, 42*int(time.Millisecond)+999, time.UTC)
	g := &InvoiceNumbers{now: func() time.Time { return fixed }}

	if got, want := g.Next(InvoicePrefixInvoice), "INV20240309140507042"; got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestInvoiceNumbers_StrictlyIncreasingOnFrozenClock(t *testing.T) {
	fixed := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	g := &InvoiceNumbers{now: func() time.Time { return fixed }}

	first := g.Next(InvoicePrefixQuick)
	second := g.Next(InvoicePrefixQuick)
	third := g.Next(InvoicePrefixQuick)

	if first != "QS20240309140507000" || second != "QS20240309140507001" || third != "QS20240309140507002" {
		t.Errorf("unexpected sequence: %s %s %s", first, second, third)
	}
}

func TestInvoiceNumbers_ClockGoingBackwards(t *testing.T) {
	times := []time.Time{
		time.Date(2024, 3, 9, 14, 5, 7, 500*int(time.Millisecond), time.UTC),
		time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC),
	}
	i := 0
	g := &InvoiceNumbers{now: func() time.Time { t := times[i]; i++; return t }}

	a := g.Next(InvoicePrefixInvoice)
	b := g.Next(InvoicePrefixInvoice)
	if b <= a {
		t.Errorf("expected %s > %s", b, a)
	}
}

func TestInvoiceNumbers_ConcurrentUnique(t *testing.T) {
	g := NewInvoiceNumbers()
	const n = 200

	var mu sync.Mutex
	seen := make(map[string]bool, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			no := g.Next(InvoicePrefixInvoice)
			mu.Lock()
			seen[no] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(seen) != n {
		t.Fatalf("expected %d unique invoice numbers, got %d", n, len(seen))
	}
	for no := range seen {
		if !strings.HasPrefix(no, "INV") || len(no) != len("INV")+17 {
			t.Errorf("malformed invoice number %q", no)
		}
	}
}
