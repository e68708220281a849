package core_test

import (
	"context"
	"errors"
	"testing"

	"shop-backoffice/internal/core"

	"github.com/shopspring/decimal"
)

func addStock(t *testing.T, ctx context.Context, svc *services, name string, qty int, cost, price int64, supplier string, toCredit bool) *core.InventoryItem {
	t.Helper()
	item, _, err := svc.inventory.AddStock(ctx, core.StockInput{
		ProductName:   name,
		Quantity:      qty,
		PurchasePrice: decimal.NewFromInt(cost),
		SellingPrice:  decimal.NewFromInt(price),
		Supplier:      supplier,
	}, toCredit)
	if err != nil {
		t.Fatalf("AddStock(%s) failed: %v", name, err)
	}
	return item
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestInventory_AddStock(t *testing.T) {
	svc, ctx := setupServices(t)

	item := addStock(t, ctx, svc, "Widget", 50, 10, 20, "", false)
	if item.Quantity != 50 || item.SoldQuantity != 0 {
		t.Errorf("expected qty 50 sold 0, got qty %d sold %d", item.Quantity, item.SoldQuantity)
	}

	got, err := svc.inventory.GetStock(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetStock failed: %v", err)
	}
	if got.ProductName != "Widget" || !got.SellingPrice.Equal(decimal.NewFromInt(20)) {
		t.Errorf("unexpected stored item: %+v", got)
	}

	credits, _ := svc.ledger.List(ctx)
	if len(credits) != 0 {
		t.Errorf("expected no credit without add_to_credit, got %d", len(credits))
	}
}

func TestInventory_AddStockPostsSupplierCredit(t *testing.T) {
	svc, ctx := setupServices(t)

	_, credit, err := svc.inventory.AddStock(ctx, core.StockInput{
		ProductName:   "Bolt",
		Quantity:      12,
		PurchasePrice: decimal.RequireFromString("2.50"),
		SellingPrice:  decimal.NewFromInt(4),
		Supplier:      "Acme",
	}, true)
	if err != nil {
		t.Fatalf("AddStock failed: %v", err)
	}
	if credit == nil {
		t.Fatal("expected a supplier credit")
	}

	credits, err := svc.ledger.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(credits) != 1 {
		t.Fatalf("expected exactly 1 credit, got %d", len(credits))
	}
	c := credits[0]
	if c.Type != core.PartySupplier || c.Name != "Acme" || !c.Amount.Equal(decimal.NewFromInt(30)) {
		t.Errorf("unexpected credit: %+v", c)
	}
	if c.Description != "Stock purchase: Bolt" {
		t.Errorf("unexpected description %q", c.Description)
	}
}

func TestInventory_AddStockCreditNeedsSupplier(t *testing.T) {
	svc, ctx := setupServices(t)

	addStock(t, ctx, svc, "Nut", 5, 1, 2, "", true)

	credits, _ := svc.ledger.List(ctx)
	if len(credits) != 0 {
		t.Errorf("expected no credit without supplier, got %d", len(credits))
	}
}

func TestInventory_UpdateAndDelete(t *testing.T) {
	svc, ctx := setupServices(t)
	item := addStock(t, ctx, svc, "Lamp", 3, 100, 150, "Lumen", false)

	updated, err := svc.inventory.UpdateStock(ctx, item.ID, core.StockInput{
		ProductName:   "Desk Lamp",
		Quantity:      7,
		PurchasePrice: decimal.NewFromInt(90),
		SellingPrice:  decimal.NewFromInt(160),
		Supplier:      "Lumen",
	})
	if err != nil {
		t.Fatalf("UpdateStock failed: %v", err)
	}
	if updated.ProductName != "Desk Lamp" || updated.Quantity != 7 {
		t.Errorf("unexpected update result: %+v", updated)
	}

	deleted, err := svc.inventory.DeleteStock(ctx, item.ID)
	if err != nil {
		t.Fatalf("DeleteStock failed: %v", err)
	}
	if deleted.ProductName != "Desk Lamp" {
		t.Errorf("expected deleted item name Desk Lamp, got %s", deleted.ProductName)
	}

	if _, err := svc.inventory.GetStock(ctx, item.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if _, err := svc.inventory.DeleteStock(ctx, item.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
	if _, err := svc.inventory.UpdateStock(ctx, 9999, core.StockInput{ProductName: "x"}); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound on missing update, got %v", err)
	}
}

func TestInventory_ProductInfoPicksOldestDuplicate(t *testing.T) {
	svc, ctx := setupServices(t)
	first := addStock(t, ctx, svc, "Cable", 4, 1, 5, "", false)
	addStock(t, ctx, svc, "cable", 40, 1, 6, "", false)

	info, err := svc.inventory.ProductInfo(ctx, "CABLE")
	if err != nil {
		t.Fatalf("ProductInfo failed: %v", err)
	}
	if info.ID != first.ID || info.Quantity != 4 {
		t.Errorf("expected oldest row %d, got %+v", first.ID, info)
	}

	if _, err := svc.inventory.ProductInfo(ctx, "Ghost"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestInventory_LowStockAndAvailable(t *testing.T) {
	svc, ctx := setupServices(t)
	addStock(t, ctx, svc, "Zeta", 2, 1, 2, "", false)
	addStock(t, ctx, svc, "Alpha", 25, 1, 2, "", false)
	addStock(t, ctx, svc, "Empty", 0, 1, 2, "", false)

	low, err := svc.inventory.LowStock(ctx, 10)
	if err != nil {
		t.Fatalf("LowStock failed: %v", err)
	}
	if len(low) != 2 {
		t.Errorf("expected 2 low-stock items, got %d", len(low))
	}

	avail, err := svc.inventory.ListAvailable(ctx)
	if err != nil {
		t.Fatalf("ListAvailable failed: %v", err)
	}
	if len(avail) != 2 || avail[0].ProductName != "Alpha" || avail[1].ProductName != "Zeta" {
		t.Errorf("expected [Alpha Zeta], got %+v", avail)
	}
}

func TestInventory_RejectsInvalidInput(t *testing.T) {
	svc, ctx := setupServices(t)

	_, _, err := svc.inventory.AddStock(ctx, core.StockInput{ProductName: " ", Quantity: -1}, false)
	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	items, _ := svc.inventory.ListStock(ctx)
	if len(items) != 0 {
		t.Errorf("expected nothing inserted, got %d items", len(items))
	}
}
