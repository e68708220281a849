package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"shop-backoffice/internal/app"
	webui "shop-backoffice/web"
)

// Options configures NewHandler.
type Options struct {
	AllowedOrigins string
	// RateLimit is a limiter rate such as "300-M". Empty disables limiting.
	RateLimit string
	Logger    logrus.FieldLogger
}

// Handler holds the ApplicationService and the parsed page templates.
type Handler struct {
	svc      app.ApplicationService
	logger   logrus.FieldLogger
	validate *validator.Validate
	pages    map[string]*template.Template
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, opts Options) (http.Handler, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
	}
	pages, err := webui.ParsePages()
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}
	limit, err := RateLimit(opts.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit %q: %w", opts.RateLimit, err)
	}

	h := &Handler{
		svc:      svc,
		logger:   logger,
		validate: newValidator(),
		pages:    pages,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recoverer(logger))
	r.Use(CORS(opts.AllowedOrigins))
	r.Use(limit)

	// ── Health ────────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)

	// ── Pages ─────────────────────────────────────────────────────────────────
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/dashboard", http.StatusFound)
	})
	r.Get("/dashboard", h.dashboardPage)
	r.Get("/stock", h.stockPage)
	r.Get("/sales", h.salesPage)
	r.Get("/returns", h.returnsPage)
	r.Get("/analytics", h.analyticsPage)
	r.Get("/ledger", h.ledgerPage)
	r.Get("/expenses", h.expensesPage)
	r.Get("/print_invoice/{invoiceNo}", h.printInvoicePage)

	// ── Exports ───────────────────────────────────────────────────────────────
	r.Get("/export/sales.xlsx", h.exportSales)
	r.Get("/export/stock.xlsx", h.exportStock)

	// ── JSON reads ────────────────────────────────────────────────────────────
	r.Get("/get_stock/{id}", h.getStock)
	r.Get("/get_product_info/{name}", h.getProductInfo)
	r.Get("/get_all_stock", h.getAllStock)
	r.Get("/get_sales_summary", h.getSalesSummary)
	r.Get("/api/dashboard", h.apiDashboard)
	r.Get("/api/analytics", h.apiAnalytics)
	r.Get("/api/ledger", h.apiLedger)
	r.Get("/api/expenses", h.apiExpenses)
	r.Get("/api/returns", h.apiReturns)
	r.Get("/api/sales", h.apiSales)

	// ── JSON writes: 1 MB body limit ──────────────────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20))

		r.Post("/add_stock", h.addStock)
		r.Put("/edit_stock/{id}", h.editStock)
		r.Delete("/delete_stock/{id}", h.deleteStock)

		r.Post("/create_sale", h.createQuickSale)
		r.Post("/create_invoice", h.createInvoice)
		r.Post("/simple_create_sale", h.simpleCreateSale)

		r.Post("/add_return", h.addReturn)
		r.Post("/add_expense", h.addExpense)
		r.Post("/ai_chat", h.aiChat)
	})

	return r, nil
}

// health returns service status and the shop name.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
		Shop   string `json:"shop"`
	}
	writeJSON(w, http.StatusOK, response{Status: "ok", Shop: h.svc.ShopInfo().Name})
}

// decodeJSON decodes the request body into v and validates it. On failure it
// writes the response and returns false: 413 when the body exceeds the size
// limit set by RequestBodyLimit, otherwise a 200 envelope with success=false
// for malformed JSON and field errors alike.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), http.StatusOK)
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		writeValidation(w, validationMessages(err))
		return false
	}
	return true
}

// idParam extracts the {id} URL parameter, answering the 200 failure envelope
// when it is not a positive integer.
func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, "invalid id", http.StatusOK)
		return 0, false
	}
	return id, true
}
