package web

import (
	"net/http"

	"shop-backoffice/internal/app"
	"shop-backoffice/internal/core"
)

// ── Sales ─────────────────────────────────────────────────────────────────────

// createQuickSale handles POST /create_sale: cash, walk-in, no receipt.
func (h *Handler) createQuickSale(w http.ResponseWriter, r *http.Request) {
	res, done := h.createSale(w, r, core.SaleModeQuick)
	if done {
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"invoice": res.Sale.InvoiceNo, "total": res.Sale.TotalAmount}))
}

// createInvoice handles POST /create_invoice.
func (h *Handler) createInvoice(w http.ResponseWriter, r *http.Request) {
	res, done := h.createSale(w, r, core.SaleModeInvoice)
	if done {
		return
	}
	writeJSON(w, http.StatusOK, ok(saleFields(res)))
}

// simpleCreateSale handles POST /simple_create_sale.
func (h *Handler) simpleCreateSale(w http.ResponseWriter, r *http.Request) {
	res, done := h.createSale(w, r, core.SaleModeSimple)
	if done {
		return
	}
	out := saleFields(res)
	out["total"] = res.Sale.TotalAmount
	writeJSON(w, http.StatusOK, ok(out))
}

// createSale decodes the body and records the sale in mode. done is true when
// a response has already been written.
func (h *Handler) createSale(w http.ResponseWriter, r *http.Request, mode core.SaleMode) (res *app.SaleResult, done bool) {
	var body saleBody
	if !h.decodeJSON(w, r, &body) {
		return nil, true
	}
	lines := make([]app.SaleLine, len(body.Items))
	for i, it := range body.Items {
		lines[i] = app.SaleLine{
			ProductName: it.product(),
			Quantity:    it.Quantity,
			Price:       it.Price,
			Total:       it.Total,
		}
	}
	res, err := h.svc.CreateSale(r.Context(), app.CreateSaleRequest{
		Mode:          mode,
		CustomerName:  body.customerName(),
		CustomerPhone: body.CustomerPhone,
		PaymentType:   body.PaymentType,
		SendWhatsApp:  body.SendWhatsApp,
		Items:         lines,
	})
	if err != nil {
		h.writeServiceError(w, r, err, "")
		return nil, true
	}
	return res, false
}

func saleFields(res *app.SaleResult) envelope {
	out := envelope{
		"invoice_no":          res.Sale.InvoiceNo,
		"notification_queued": res.NotificationQueued,
	}
	if res.Credit != nil {
		out["credit"] = res.Credit
	}
	return out
}

// getSalesSummary handles GET /get_sales_summary.
func (h *Handler) getSalesSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.GetSalesSummary(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{
		"today_count":  sum.TodayCount,
		"today_amount": sum.TodayAmount,
		"total_count":  sum.TotalCount,
		"total_amount": sum.TotalAmount,
		"recent_sales": sum.RecentSales,
	}))
}

// apiSales handles GET /api/sales.
func (h *Handler) apiSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.svc.ListSales(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"sales": sales}))
}
