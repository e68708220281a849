package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// PartyType distinguishes who owes money on a credit entry.
type PartyType string

const (
	PartySupplier PartyType = "supplier"
	PartyCustomer PartyType = "customer"
)

// PaymentCredit is the deferred payment type; sales paid this way post a customer credit.
const PaymentCredit = "credit"

// PaymentCash is the only payment type accepted by quick sales.
const PaymentCash = "cash"

// InventoryItem is one stock entry. Names are not unique; lookups by name
// match case-insensitively and pick the oldest row.
type InventoryItem struct {
	ID            int64           `json:"id"`
	ProductName   string          `json:"product_name"`
	Quantity      int             `json:"quantity"`
	SoldQuantity  int             `json:"sold_quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	Supplier      string          `json:"supplier"`
	DateAdded     time.Time       `json:"date_added"`
}

// StockValue is quantity on hand valued at purchase price.
func (i InventoryItem) StockValue() decimal.Decimal {
	return i.PurchasePrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// LineItem is one line of a sale as persisted in the items JSON blob.
type LineItem struct {
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
}

// SaleRecord is an immutable invoice.
type SaleRecord struct {
	ID            int64           `json:"id"`
	InvoiceNo     string          `json:"invoice_no"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	Items         []LineItem      `json:"items"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentType   string          `json:"payment_type"`
	SaleDate      time.Time       `json:"sale_date"`
}

// CreditEntry is an append-only record of money owed.
type CreditEntry struct {
	ID          int64           `json:"id"`
	Type        PartyType       `json:"type"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
}

type ExpenseEntry struct {
	ID          int64           `json:"id"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
}

// ReturnEntry records goods brought back by a customer.
type ReturnEntry struct {
	ID           int64     `json:"id"`
	ProductName  string    `json:"product_name"`
	Quantity     int       `json:"quantity"`
	Reason       string    `json:"reason"`
	CustomerName string    `json:"customer_name"`
	ReturnDate   time.Time `json:"return_date"`
}
