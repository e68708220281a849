package web

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"shop-backoffice/internal/core"
	"shop-backoffice/web/templates/layouts"
)

// render executes a page into a buffer first so a template failure can still
// answer 500 instead of a half-written page.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, page, title string, data any) {
	t, found := h.pages[page]
	if !found {
		writePageError(w, http.StatusInternalServerError, fmt.Errorf("unknown page %q", page))
		return
	}
	shop := h.svc.ShopInfo()
	var buf bytes.Buffer
	err := t.Execute(&buf, layouts.PageData{
		Title:        title,
		ShopName:     shop.Name,
		Currency:     shop.Currency,
		ActiveNav:    page,
		LowThreshold: shop.LowStockThreshold,
		Data:         data,
	})
	if err != nil {
		h.pageFailed(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (h *Handler) pageFailed(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.WithFields(logrus.Fields{
		"request_id": requestIDFromContext(r.Context()),
		"path":       r.URL.Path,
	}).WithError(err).Error("page failed")
	writePageError(w, http.StatusInternalServerError, err)
}

// ── Pages ─────────────────────────────────────────────────────────────────────

func (h *Handler) dashboardPage(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.GetDashboard(r.Context())
	if err != nil {
		h.pageFailed(w, r, err)
		return
	}
	h.render(w, r, "dashboard", "Dashboard", d)
}

func (h *Handler) stockPage(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListStock(r.Context())
	if err != nil {
		h.pageFailed(w, r, err)
		return
	}
	h.render(w, r, "stock", "Stock", items)
}

type salesPageData struct {
	Stock   []core.InventoryItem
	Summary *core.SalesSummary
}

func (h *Handler) salesPage(w http.ResponseWriter, r *http.Request) {
	stock, err := h.svc.ListAvailableStock(r.Context())
	if err != nil {
		h.pageFailed(w, r, err)
		return
	}
	summary, err := h.svc.GetSalesSummary(r.Context())
	if err != nil {
		h.pageFailed(w, r, err)
		return
	}
	h.render(w, r, "sales", "Sales", salesPageData{Stock: stock, Summary: summary})
}

func (h *Handler) returnsPage(w http.ResponseWriter, r *http.Request) {
	returns, err := h.svc.ListReturns(r.Context())
	if err != nil {
		h.pageFailed(w, r, err)
		return
	}
	h.render(w, r, "returns", "Returns", returns)
}

func (h *Handler) analyticsPage(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.GetAnalytics(r.Context())
	if err != nil {
		h.pageFailed(w, r, err)
		return
	}
	h.render(w, r, "analytics", "Analytics", a)
}

func (h *Handler) ledgerPage(w http.ResponseWriter, r *http.Request) {
	credits, err := h.svc.ListCredits(r.Context())
	if err != nil {
		h.pageFailed(w, r, err)
		return
	}
	h.render(w, r, "ledger", "Credit ledger", credits)
}

func (h *Handler) expensesPage(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.svc.ListExpenses(r.Context())
	if err != nil {
		h.pageFailed(w, r, err)
		return
	}
	h.render(w, r, "expenses", "Expenses", expenses)
}

// printInvoicePage handles GET /print_invoice/{invoiceNo}.
func (h *Handler) printInvoicePage(w http.ResponseWriter, r *http.Request) {
	sale, err := h.svc.GetInvoice(r.Context(), chi.URLParam(r, "invoiceNo"))
	if errors.Is(err, core.ErrNotFound) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("Invoice not found"))
		return
	}
	if err != nil {
		h.pageFailed(w, r, err)
		return
	}
	h.render(w, r, "invoice", "Invoice "+sale.InvoiceNo, sale)
}
