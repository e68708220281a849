package app

import (
	"github.com/shopspring/decimal"

	"shop-backoffice/internal/core"
)

// AddStockRequest is the input for creating a new inventory row.
type AddStockRequest struct {
	ProductName   string
	Quantity      int
	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
	Supplier      string
	AddToCredit   bool // post qty × purchase price to the supplier's credit
}

// UpdateStockRequest replaces every editable field of an inventory row.
type UpdateStockRequest struct {
	ProductName   string
	Quantity      int
	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
	Supplier      string
}

// CreateSaleRequest is the input for all three sale entry points.
type CreateSaleRequest struct {
	Mode          core.SaleMode
	CustomerName  string
	CustomerPhone string
	PaymentType   string
	SendWhatsApp  bool
	Items         []SaleLine
}

// SaleLine is one requested line. Zero Price uses the stock selling price;
// zero Total uses quantity × price.
type SaleLine struct {
	ProductName string
	Quantity    int
	Price       decimal.Decimal
	Total       decimal.Decimal
}

type AddReturnRequest struct {
	ProductName  string
	Quantity     int
	Reason       string
	CustomerName string
}

type AddExpenseRequest struct {
	Category    string
	Amount      decimal.Decimal
	Description string
}
