package app

import (
	"github.com/shopspring/decimal"

	"shop-backoffice/internal/core"
)

// ShopInfo carries display settings for adapters.
type ShopInfo struct {
	Name              string
	Currency          string
	LowStockThreshold int
}

// StockResult is returned by AddStock. Credit is nil when none was posted.
type StockResult struct {
	Item   *core.InventoryItem
	Credit *core.CreditEntry
}

// ProductInfoResult is returned by GetProductInfo.
type ProductInfoResult struct {
	ProductName  string
	Price        decimal.Decimal
	AvailableQty int
}

// SaleResult is returned by CreateSale.
type SaleResult struct {
	Sale               core.SaleRecord
	Credit             *core.CreditEntry
	NotificationQueued bool
}

// ReturnResult is returned by AddReturn.
type ReturnResult struct {
	Entry     *core.ReturnEntry
	Restocked bool
}

// ChatSource says which path produced a chat answer.
type ChatSource string

const (
	ChatSourceKeyword   ChatSource = "keyword"
	ChatSourceAssistant ChatSource = "assistant"
	ChatSourceHelp      ChatSource = "help"
)

// ChatResult is returned by Chat.
type ChatResult struct {
	Response string
	Source   ChatSource
}
