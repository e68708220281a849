package core_test

import (
	"errors"
	"testing"

	"shop-backoffice/internal/core"

	"github.com/shopspring/decimal"
)

func TestReturn_KnownProductRestocks(t *testing.T) {
	svc, ctx := setupServices(t)
	item := addStock(t, ctx, svc, "Widget", 10, 10, 20, "", false)

	entry, restocked, err := svc.returns.AddReturn(ctx, core.ReturnInput{
		ProductName: "widget", Quantity: 3, Reason: "damaged", CustomerName: "Ali",
	})
	if err != nil {
		t.Fatalf("AddReturn failed: %v", err)
	}
	if !restocked {
		t.Error("expected restocked=true for a known product")
	}
	if entry.ID == 0 || entry.ReturnDate.IsZero() {
		t.Errorf("expected id and date assigned, got %+v", entry)
	}

	after, _ := svc.inventory.GetStock(ctx, item.ID)
	if after.Quantity != 13 {
		t.Errorf("expected quantity 13, got %d", after.Quantity)
	}

	list, err := svc.returns.ListReturns(ctx)
	if err != nil {
		t.Fatalf("ListReturns failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 return entry, got %d", len(list))
	}
}

func TestReturn_UnknownProductOnlyRecords(t *testing.T) {
	svc, ctx := setupServices(t)
	item := addStock(t, ctx, svc, "Widget", 10, 10, 20, "", false)

	_, restocked, err := svc.returns.AddReturn(ctx, core.ReturnInput{ProductName: "Ghost", Quantity: 2})
	if err != nil {
		t.Fatalf("AddReturn failed: %v", err)
	}
	if restocked {
		t.Error("expected restocked=false for an unknown product")
	}

	list, _ := svc.returns.ListReturns(ctx)
	if len(list) != 1 {
		t.Errorf("expected 1 return entry, got %d", len(list))
	}
	after, _ := svc.inventory.GetStock(ctx, item.ID)
	if after.Quantity != 10 {
		t.Errorf("expected inventory untouched at 10, got %d", after.Quantity)
	}
}

func TestReturn_RejectsNonPositiveQuantity(t *testing.T) {
	svc, ctx := setupServices(t)

	_, _, err := svc.returns.AddReturn(ctx, core.ReturnInput{ProductName: "Widget", Quantity: 0})
	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
}

func TestExpense_AddAndList(t *testing.T) {
	svc, ctx := setupServices(t)

	for _, in := range []core.ExpenseInput{
		{Category: "Rent", Amount: decimal.NewFromInt(1000), Description: "March"},
		{Category: "Utilities", Amount: decimal.RequireFromString("245.50")},
	} {
		if _, err := svc.expenses.AddExpense(ctx, in); err != nil {
			t.Fatalf("AddExpense failed: %v", err)
		}
	}

	list, err := svc.expenses.ListExpenses(ctx)
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(list) != 2 || list[0].Category != "Utilities" {
		t.Errorf("expected newest first, got %+v", list)
	}

	_, err = svc.expenses.AddExpense(ctx, core.ExpenseInput{Category: "", Amount: decimal.NewFromInt(-5)})
	var verr *core.ValidationError
	if !errors.As(err, &verr) || len(verr.Reasons) != 2 {
		t.Errorf("expected 2 validation reasons, got %v", err)
	}
}
