package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"shop-backoffice/internal/app"
	"shop-backoffice/internal/core"
	"shop-backoffice/internal/logging"
)

// fakeService embeds the interface; unimplemented methods panic, which the
// Recoverer turns into a 500.
type fakeService struct {
	app.ApplicationService

	items     map[int64]core.InventoryItem
	sale      *app.SaleResult
	saleErr   error
	gotSale   app.CreateSaleRequest
	invoice   *core.SaleRecord
	chat      string
	gotQuery  string
	exportErr error
}

func (f *fakeService) ShopInfo() app.ShopInfo {
	return app.ShopInfo{Name: "Corner Shop", Currency: "PKR", LowStockThreshold: 10}
}

func (f *fakeService) GetStock(_ context.Context, id int64) (*core.InventoryItem, error) {
	it, found := f.items[id]
	if !found {
		return nil, core.ErrNotFound
	}
	return &it, nil
}

func (f *fakeService) ListStock(context.Context) ([]core.InventoryItem, error) {
	var out []core.InventoryItem
	for _, it := range f.items {
		out = append(out, it)
	}
	return out, nil
}

func (f *fakeService) DeleteStock(ctx context.Context, id int64) (*core.InventoryItem, error) {
	it, err := f.GetStock(ctx, id)
	if err != nil {
		return nil, err
	}
	delete(f.items, id)
	return it, nil
}

func (f *fakeService) GetProductInfo(_ context.Context, name string) (*app.ProductInfoResult, error) {
	for _, it := range f.items {
		if strings.EqualFold(it.ProductName, name) {
			return &app.ProductInfoResult{ProductName: it.ProductName, Price: it.SellingPrice, AvailableQty: it.Quantity}, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeService) CreateSale(_ context.Context, req app.CreateSaleRequest) (*app.SaleResult, error) {
	f.gotSale = req
	return f.sale, f.saleErr
}

func (f *fakeService) GetInvoice(_ context.Context, invoiceNo string) (*core.SaleRecord, error) {
	if f.invoice == nil || f.invoice.InvoiceNo != invoiceNo {
		return nil, core.ErrNotFound
	}
	return f.invoice, nil
}

func (f *fakeService) Chat(_ context.Context, query string) (*app.ChatResult, error) {
	f.gotQuery = query
	return &app.ChatResult{Response: f.chat, Source: app.ChatSourceKeyword}, nil
}

func (f *fakeService) ListCredits(context.Context) ([]core.CreditEntry, error) {
	return []core.CreditEntry{{Type: core.PartyCustomer, Name: "Ali", Amount: decimal.NewFromInt(250), Description: "Sale: INV1", Date: time.Now()}}, nil
}

func (f *fakeService) ExportStock(_ context.Context, w io.Writer) error {
	if f.exportErr != nil {
		return f.exportErr
	}
	_, err := w.Write([]byte("PK"))
	return err
}

func newTestHandler(t *testing.T, svc *fakeService, rate string) http.Handler {
	t.Helper()
	h, err := NewHandler(svc, Options{RateLimit: rate, Logger: logging.Discard()})
	if err != nil {
		t.Fatalf("NewHandler failed: %v", err)
	}
	return h
}

func widgetService() *fakeService {
	return &fakeService{items: map[int64]core.InventoryItem{
		1: {ID: 1, ProductName: "Widget", Quantity: 5, SellingPrice: decimal.NewFromInt(100), PurchasePrice: decimal.NewFromInt(60)},
	}}
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, rec.Body.String())
	}
	return out
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t, widgetService(), "")
	rec := do(h, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "ok" || body["shop"] != "Corner Shop" {
		t.Errorf("unexpected body %v", body)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestRootRedirectsToDashboard(t *testing.T) {
	rec := do(newTestHandler(t, widgetService(), ""), http.MethodGet, "/", "")
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/dashboard" {
		t.Errorf("got %d to %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestGetStock(t *testing.T) {
	h := newTestHandler(t, widgetService(), "")

	rec := do(h, http.MethodGet, "/get_stock/1", "")
	body := decodeBody(t, rec)
	if rec.Code != http.StatusOK || body["success"] != true {
		t.Fatalf("status %d body %v", rec.Code, body)
	}
	stock := body["stock"].(map[string]any)
	if stock["product_name"] != "Widget" || stock["selling_price"] != "100" {
		t.Errorf("unexpected stock %v", stock)
	}

	rec = do(h, http.MethodGet, "/get_stock/99", "")
	body = decodeBody(t, rec)
	if rec.Code != http.StatusNotFound || body["success"] != false || body["error"] != "Stock not found" {
		t.Errorf("missing id: status %d body %v", rec.Code, body)
	}

	rec = do(h, http.MethodGet, "/get_stock/abc", "")
	body = decodeBody(t, rec)
	if rec.Code != http.StatusOK || body["success"] != false || body["error"] != "invalid id" {
		t.Errorf("bad id: status %d body %v", rec.Code, body)
	}
}

func TestDeleteStock(t *testing.T) {
	svc := widgetService()
	h := newTestHandler(t, svc, "")

	rec := do(h, http.MethodDelete, "/delete_stock/1", "")
	body := decodeBody(t, rec)
	if body["message"] != "Deleted Widget successfully" {
		t.Errorf("unexpected body %v", body)
	}
	if _, still := svc.items[1]; still {
		t.Error("item not deleted")
	}

	rec = do(h, http.MethodDelete, "/delete_stock/1", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete: status %d", rec.Code)
	}
}

func TestGetProductInfo(t *testing.T) {
	h := newTestHandler(t, widgetService(), "")

	body := decodeBody(t, do(h, http.MethodGet, "/get_product_info/widget", ""))
	if body["success"] != true || body["price"] != "100" || body["available_qty"] != float64(5) {
		t.Errorf("unexpected body %v", body)
	}

	rec := do(h, http.MethodGet, "/get_product_info/Ghost", "")
	body = decodeBody(t, rec)
	if rec.Code != http.StatusOK || body["success"] != false || body["message"] != "Product not found in stock" {
		t.Errorf("missing product: status %d body %v", rec.Code, body)
	}
}

func TestGetProductInfo_EscapedNames(t *testing.T) {
	svc := widgetService()
	svc.items[2] = core.InventoryItem{ID: 2, ProductName: "Salt & Pepper", Quantity: 4, SellingPrice: decimal.NewFromInt(80)}
	svc.items[3] = core.InventoryItem{ID: 3, ProductName: "Gel+Foam", Quantity: 2, SellingPrice: decimal.NewFromInt(300)}
	h := newTestHandler(t, svc, "")

	tests := []struct {
		target string
		want   string
	}{
		{"/get_product_info/Salt%20%26%20Pepper", "Salt & Pepper"},
		{"/get_product_info/Gel%2BFoam", "Gel+Foam"},
		{"/get_product_info/Gel+Foam", "Gel+Foam"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			body := decodeBody(t, do(h, http.MethodGet, tt.target, ""))
			if body["success"] != true || body["product_name"] != tt.want {
				t.Errorf("unexpected body %v", body)
			}
		})
	}
}

func TestCreateInvoice(t *testing.T) {
	svc := widgetService()
	svc.sale = &app.SaleResult{
		Sale:               core.SaleRecord{InvoiceNo: "INV20240309120000123", TotalAmount: decimal.NewFromInt(200)},
		NotificationQueued: true,
	}
	h := newTestHandler(t, svc, "")

	rec := do(h, http.MethodPost, "/create_invoice",
		`{"customer_name":"Ali","customer_phone":"0300","payment_type":"cash","send_whatsapp":true,"items":[{"product_name":"Widget","quantity":2,"price":100,"total":200}]}`)
	body := decodeBody(t, rec)
	if body["success"] != true || body["invoice_no"] != "INV20240309120000123" || body["notification_queued"] != true {
		t.Fatalf("unexpected body %v", body)
	}
	got := svc.gotSale
	if got.Mode != core.SaleModeInvoice || got.CustomerName != "Ali" || !got.SendWhatsApp {
		t.Errorf("unexpected request %+v", got)
	}
	if len(got.Items) != 1 || got.Items[0].Quantity != 2 || !got.Items[0].Price.Equal(decimal.NewFromInt(100)) {
		t.Errorf("unexpected items %+v", got.Items)
	}
}

func TestQuickSaleAcceptsLegacyFieldNames(t *testing.T) {
	svc := widgetService()
	svc.sale = &app.SaleResult{Sale: core.SaleRecord{InvoiceNo: "QS1", TotalAmount: decimal.NewFromInt(100)}}
	h := newTestHandler(t, svc, "")

	body := decodeBody(t, do(h, http.MethodPost, "/create_sale",
		`{"customer":"Bob","items":[{"name":"Widget","quantity":1,"price":"100","total":"100"}]}`))
	if body["invoice"] != "QS1" || body["total"] != "100" {
		t.Errorf("unexpected body %v", body)
	}
	if svc.gotSale.Mode != core.SaleModeQuick || svc.gotSale.CustomerName != "Bob" || svc.gotSale.Items[0].ProductName != "Widget" {
		t.Errorf("unexpected request %+v", svc.gotSale)
	}
}

func TestSimpleSaleReturnsTotal(t *testing.T) {
	svc := widgetService()
	svc.sale = &app.SaleResult{Sale: core.SaleRecord{InvoiceNo: "INV2", TotalAmount: decimal.RequireFromString("150.50")}}
	h := newTestHandler(t, svc, "")

	body := decodeBody(t, do(h, http.MethodPost, "/simple_create_sale",
		`{"payment_type":"cash","items":[{"product_name":"Widget","quantity":1}]}`))
	if body["invoice_no"] != "INV2" || body["total"] != "150.5" {
		t.Errorf("unexpected body %v", body)
	}
	if svc.gotSale.Mode != core.SaleModeSimple {
		t.Errorf("mode = %q", svc.gotSale.Mode)
	}
}

func TestCreateSale_ValidationEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		saleErr error
		body    string
		want    []string
	}{
		{
			name: "field errors",
			body: `{"items":[{"quantity":0}]}`,
			want: []string{"items[0].product_name is required", "items[0].quantity must be greater than 0"},
		},
		{
			name: "no items",
			body: `{"items":[]}`,
			want: []string{"items must have at least 1 entries"},
		},
		{
			name:    "stock errors from the service",
			saleErr: &core.ValidationError{Reasons: []string{"Product 'Ghost' not found in stock", "Insufficient stock for 'Widget'. Available: 5"}},
			body:    `{"customer_name":"Ali","payment_type":"cash","items":[{"product_name":"Ghost","quantity":1},{"product_name":"Widget","quantity":7}]}`,
			want:    []string{"Product 'Ghost' not found in stock", "Insufficient stock for 'Widget'. Available: 5"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := widgetService()
			svc.saleErr = tt.saleErr
			rec := do(newTestHandler(t, svc, ""), http.MethodPost, "/create_invoice", tt.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			body := decodeBody(t, rec)
			if body["success"] != false {
				t.Fatalf("expected failure, got %v", body)
			}
			errs, _ := body["errors"].([]any)
			if len(errs) != len(tt.want) {
				t.Fatalf("errors = %v, want %v", errs, tt.want)
			}
			for i, w := range tt.want {
				if errs[i] != w {
					t.Errorf("errors[%d] = %v, want %q", i, errs[i], w)
				}
			}
		})
	}
}

func TestMalformedJSON(t *testing.T) {
	h := newTestHandler(t, widgetService(), "")
	tests := []struct {
		name   string
		target string
		body   string
	}{
		{"truncated body", "/create_invoice", `{"items":`},
		{"wrong field type", "/add_stock", `{"product_name":"Widget","quantity":"ten","purchase_price":"1","selling_price":"2"}`},
		{"not an object", "/add_expense", `[1,2]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, http.MethodPost, tt.target, tt.body)
			body := decodeBody(t, rec)
			msg, _ := body["error"].(string)
			if rec.Code != http.StatusOK || body["success"] != false || !strings.HasPrefix(msg, "invalid JSON body") {
				t.Errorf("status %d body %v", rec.Code, body)
			}
		})
	}
}

func TestServiceFailureIs500(t *testing.T) {
	svc := widgetService()
	svc.saleErr = errors.New("connection reset")
	rec := do(newTestHandler(t, svc, ""), http.MethodPost, "/create_invoice",
		`{"customer_name":"Ali","payment_type":"cash","items":[{"product_name":"Widget","quantity":1}]}`)
	body := decodeBody(t, rec)
	if rec.Code != http.StatusInternalServerError || body["error"] != "connection reset" || body["request_id"] == nil {
		t.Errorf("status %d body %v", rec.Code, body)
	}
}

func TestAIChat(t *testing.T) {
	svc := widgetService()
	svc.chat = "All items well stocked!"
	h := newTestHandler(t, svc, "")

	body := decodeBody(t, do(h, http.MethodPost, "/ai_chat", `{"query":"low stock?"}`))
	if body["success"] != true || body["response"] != "All items well stocked!" || body["source"] != "keyword" {
		t.Errorf("unexpected body %v", body)
	}
	if svc.gotQuery != "low stock?" {
		t.Errorf("query = %q", svc.gotQuery)
	}
}

func TestPrintInvoice(t *testing.T) {
	svc := widgetService()
	svc.invoice = &core.SaleRecord{
		InvoiceNo:    "INV1",
		CustomerName: "Ali",
		PaymentType:  "cash",
		Items:        []core.LineItem{{ProductName: "Widget", Quantity: 2, Price: decimal.NewFromInt(100), Total: decimal.NewFromInt(200)}},
		TotalAmount:  decimal.NewFromInt(200),
		SaleDate:     time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC),
	}
	h := newTestHandler(t, svc, "")

	rec := do(h, http.MethodGet, "/print_invoice/INV1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	page := rec.Body.String()
	for _, want := range []string{"Corner Shop", "INV1", "Ali", "Widget", "PKR 200.00"} {
		if !strings.Contains(page, want) {
			t.Errorf("invoice page missing %q", want)
		}
	}

	rec = do(h, http.MethodGet, "/print_invoice/NOPE", "")
	if rec.Code != http.StatusNotFound || rec.Body.String() != "Invoice not found" {
		t.Errorf("missing invoice: %d %q", rec.Code, rec.Body.String())
	}
}

func TestPages(t *testing.T) {
	h := newTestHandler(t, widgetService(), "")

	rec := do(h, http.MethodGet, "/stock", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Widget") {
		t.Errorf("stock page: %d", rec.Code)
	}
	rec = do(h, http.MethodGet, "/ledger", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Sale: INV1") {
		t.Errorf("ledger page: %d", rec.Code)
	}
}

func TestExportFailureIsPlainText(t *testing.T) {
	svc := widgetService()
	svc.exportErr = errors.New("disk full")
	h := newTestHandler(t, svc, "")

	rec := do(h, http.MethodGet, "/export/stock.xlsx", "")
	if rec.Code != http.StatusInternalServerError || rec.Body.String() != "Error: disk full" {
		t.Errorf("export failure: %d %q", rec.Code, rec.Body.String())
	}
}

func TestExportStock(t *testing.T) {
	rec := do(newTestHandler(t, widgetService(), ""), http.MethodGet, "/export/stock.xlsx", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "stock.xlsx") {
		t.Errorf("unexpected disposition %q", rec.Header().Get("Content-Disposition"))
	}
	if rec.Body.String() != "PK" {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestRateLimit(t *testing.T) {
	h := newTestHandler(t, widgetService(), "2-M")
	for i := 0; i < 2; i++ {
		if rec := do(h, http.MethodGet, "/api/health", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i+1, rec.Code)
		}
	}
	rec := do(h, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", rec.Code)
	}
}

func TestInvalidRateLimit(t *testing.T) {
	if _, err := NewHandler(widgetService(), Options{RateLimit: "lots"}); err == nil {
		t.Error("expected error for malformed rate")
	}
}
