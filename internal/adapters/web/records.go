package web

import (
	"net/http"

	"shop-backoffice/internal/app"
)

// ── Returns, expenses, credits, reports ───────────────────────────────────────

// addReturn handles POST /add_return.
func (h *Handler) addReturn(w http.ResponseWriter, r *http.Request) {
	var body returnBody
	if !h.decodeJSON(w, r, &body) {
		return
	}
	res, err := h.svc.AddReturn(r.Context(), app.AddReturnRequest{
		ProductName:  body.ProductName,
		Quantity:     body.Quantity,
		Reason:       body.Reason,
		CustomerName: body.CustomerName,
	})
	if err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	msg := "Return processed and stock updated"
	if !res.Restocked {
		msg = "Return recorded; product not in stock, nothing restocked"
	}
	writeJSON(w, http.StatusOK, ok(envelope{"message": msg, "return": res.Entry, "restocked": res.Restocked}))
}

// addExpense handles POST /add_expense.
func (h *Handler) addExpense(w http.ResponseWriter, r *http.Request) {
	var body expenseBody
	if !h.decodeJSON(w, r, &body) {
		return
	}
	entry, err := h.svc.AddExpense(r.Context(), app.AddExpenseRequest{
		Category:    body.Category,
		Amount:      body.Amount,
		Description: body.Description,
	})
	if err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"expense": entry}))
}

func (h *Handler) apiReturns(w http.ResponseWriter, r *http.Request) {
	returns, err := h.svc.ListReturns(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"returns": returns}))
}

func (h *Handler) apiExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.svc.ListExpenses(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"expenses": expenses}))
}

func (h *Handler) apiLedger(w http.ResponseWriter, r *http.Request) {
	credits, err := h.svc.ListCredits(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"credits": credits}))
}

func (h *Handler) apiDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.GetDashboard(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"dashboard": d}))
}

func (h *Handler) apiAnalytics(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.GetAnalytics(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"analytics": a}))
}
