package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"shop-backoffice/internal/app"
	"shop-backoffice/internal/core"
)

// ── Stock ─────────────────────────────────────────────────────────────────────

// addStock handles POST /add_stock.
func (h *Handler) addStock(w http.ResponseWriter, r *http.Request) {
	var body stockBody
	if !h.decodeJSON(w, r, &body) {
		return
	}
	res, err := h.svc.AddStock(r.Context(), app.AddStockRequest{
		ProductName:   body.ProductName,
		Quantity:      body.Quantity,
		PurchasePrice: body.PurchasePrice,
		SellingPrice:  body.SellingPrice,
		Supplier:      body.Supplier,
		AddToCredit:   body.AddToCredit,
	})
	if err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	out := envelope{"stock": res.Item}
	if res.Credit != nil {
		out["credit"] = res.Credit
	}
	writeJSON(w, http.StatusOK, ok(out))
}

// editStock handles PUT /edit_stock/{id}.
func (h *Handler) editStock(w http.ResponseWriter, r *http.Request) {
	id, valid := idParam(w, r)
	if !valid {
		return
	}
	var body stockBody
	if !h.decodeJSON(w, r, &body) {
		return
	}
	item, err := h.svc.UpdateStock(r.Context(), id, app.UpdateStockRequest{
		ProductName:   body.ProductName,
		Quantity:      body.Quantity,
		PurchasePrice: body.PurchasePrice,
		SellingPrice:  body.SellingPrice,
		Supplier:      body.Supplier,
	})
	if err != nil {
		h.writeServiceError(w, r, err, "Stock not found")
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"message": "Stock updated successfully", "stock": item}))
}

// deleteStock handles DELETE /delete_stock/{id}.
func (h *Handler) deleteStock(w http.ResponseWriter, r *http.Request) {
	id, valid := idParam(w, r)
	if !valid {
		return
	}
	item, err := h.svc.DeleteStock(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err, "Stock item not found")
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"message": fmt.Sprintf("Deleted %s successfully", item.ProductName)}))
}

// getStock handles GET /get_stock/{id}.
func (h *Handler) getStock(w http.ResponseWriter, r *http.Request) {
	id, valid := idParam(w, r)
	if !valid {
		return
	}
	item, err := h.svc.GetStock(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err, "Stock not found")
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"stock": item}))
}

// getProductInfo handles GET /get_product_info/{name}. A missing product is an
// ordinary answer for the sales form, so it stays 200.
func (h *Handler) getProductInfo(w http.ResponseWriter, r *http.Request) {
	// chi hands back the escaped segment when the client's encoding differs from Go's.
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, r, "invalid product name", http.StatusOK)
		return
	}
	info, err := h.svc.GetProductInfo(r.Context(), name)
	if errors.Is(err, core.ErrNotFound) {
		writeJSON(w, http.StatusOK, envelope{"success": false, "message": "Product not found in stock"})
		return
	}
	if err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{
		"product_name":  info.ProductName,
		"price":         info.Price,
		"available_qty": info.AvailableQty,
	}))
}

type availableItem struct {
	ProductName  string          `json:"product_name"`
	Quantity     int             `json:"quantity"`
	SellingPrice decimal.Decimal `json:"selling_price"`
}

// getAllStock handles GET /get_all_stock: sellable items for the sales form.
func (h *Handler) getAllStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListAvailableStock(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	out := make([]availableItem, len(items))
	for i, it := range items {
		out[i] = availableItem{ProductName: it.ProductName, Quantity: it.Quantity, SellingPrice: it.SellingPrice}
	}
	writeJSON(w, http.StatusOK, ok(envelope{"stock": out}))
}
