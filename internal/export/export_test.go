package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"shop-backoffice/internal/core"
)

func TestSalesWorkbook_RoundTrip(t *testing.T) {
	sales := []core.SaleRecord{
		{
			InvoiceNo:    "INV20240309140507042",
			CustomerName: "Ali",
			PaymentType:  "cash",
			TotalAmount:  decimal.NewFromInt(130),
			SaleDate:     time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC),
			Items: []core.LineItem{
				{ProductName: "Widget", Quantity: 5, Price: decimal.NewFromInt(20), Total: decimal.NewFromInt(100)},
				{ProductName: "Gadget", Quantity: 1, Price: decimal.NewFromInt(30), Total: decimal.NewFromInt(30)},
			},
		},
	}

	f, err := SalesWorkbook(sales)
	if err != nil {
		t.Fatalf("SalesWorkbook failed: %v", err)
	}
	var buf bytes.Buffer
	if err := Write(f, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	back, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer back.Close()

	rows, err := back.GetRows(SalesSheet)
	if err != nil {
		t.Fatalf("GetRows(%s) failed: %v", SalesSheet, err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 sale row, got %d", len(rows))
	}
	if rows[0][0] != "Invoice" || rows[1][0] != "INV20240309140507042" || rows[1][6] != "130" {
		t.Errorf("unexpected sales rows: %v", rows)
	}

	lines, err := back.GetRows(LinesSheet)
	if err != nil {
		t.Fatalf("GetRows(%s) failed: %v", LinesSheet, err)
	}
	if len(lines) != 3 || lines[2][1] != "Gadget" {
		t.Errorf("unexpected line rows: %v", lines)
	}
}

func TestStockWorkbook_StockValue(t *testing.T) {
	items := []core.InventoryItem{
		{ID: 1, ProductName: "Widget", Quantity: 45, SoldQuantity: 5,
			PurchasePrice: decimal.NewFromInt(10), SellingPrice: decimal.NewFromInt(20)},
	}
	f, err := StockWorkbook(items)
	if err != nil {
		t.Fatalf("StockWorkbook failed: %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue(StockSheet, "H2")
	if err != nil {
		t.Fatalf("GetCellValue failed: %v", err)
	}
	if got != "450" {
		t.Errorf("expected stock value 450, got %q", got)
	}
}
