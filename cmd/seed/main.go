// seed loads a small demo catalogue, an opening expense, and one sale.
// With --reset it first wipes every shop table; that requires --confirm=RESET.
//
// Usage: go run ./cmd/seed [--reset --confirm=RESET]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"shop-backoffice/internal/app"
	"shop-backoffice/internal/config"
	"shop-backoffice/internal/core"
	"shop-backoffice/internal/logging"
)

type seedItem struct {
	name     string
	qty      int
	cost     string
	price    string
	supplier string
	credit   bool
}

var catalogue = []seedItem{
	{"Basmati Rice 5kg", 40, "1450", "1750", "Al-Noor Traders", true},
	{"Cooking Oil 1L", 60, "480", "560", "Al-Noor Traders", false},
	{"Sugar 1kg", 80, "140", "165", "City Wholesale", false},
	{"Tea 450g", 25, "950", "1150", "City Wholesale", true},
	{"Dish Soap", 8, "120", "160", "", false},
}

func main() {
	reset := flag.Bool("reset", false, "Delete all stock, sales, credits, expenses and returns first")
	confirm := flag.String("confirm", "", "Type RESET to proceed with --reset")
	flag.Parse()

	if *reset && strings.TrimSpace(*confirm) != "RESET" {
		fmt.Fprintln(os.Stderr, "set --confirm=RESET to proceed")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	rt, err := app.Bootstrap(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("startup failed")
	}
	defer func() {
		if err := rt.Close(context.Background()); err != nil {
			logger.WithError(err).Warn("close")
		}
	}()

	if *reset {
		_, err := rt.Pool.Exec(ctx, "TRUNCATE stock_items, sales, credits, expenses, returns RESTART IDENTITY")
		if err != nil {
			logger.WithError(err).Fatal("reset")
		}
		logger.Warn("all shop tables cleared")
	}

	svc := rt.Service
	for _, it := range catalogue {
		res, err := svc.AddStock(ctx, app.AddStockRequest{
			ProductName:   it.name,
			Quantity:      it.qty,
			PurchasePrice: decimal.RequireFromString(it.cost),
			SellingPrice:  decimal.RequireFromString(it.price),
			Supplier:      it.supplier,
			AddToCredit:   it.credit,
		})
		if err != nil {
			logger.WithError(err).WithField("product", it.name).Fatal("add stock")
		}
		logger.WithFields(logrus.Fields{"id": res.Item.ID, "product": it.name, "credit": res.Credit != nil}).Info("stock added")
	}

	if _, err := svc.AddExpense(ctx, app.AddExpenseRequest{
		Category:    "Rent",
		Amount:      decimal.NewFromInt(25000),
		Description: "Shop rent",
	}); err != nil {
		logger.WithError(err).Fatal("add expense")
	}

	sale, err := svc.CreateSale(ctx, app.CreateSaleRequest{
		Mode:         core.SaleModeSimple,
		CustomerName: "Walk-in",
		PaymentType:  core.PaymentCash,
		Items: []app.SaleLine{
			{ProductName: "Sugar 1kg", Quantity: 3},
			{ProductName: "Tea 450g", Quantity: 1},
		},
	})
	if err != nil {
		logger.WithError(err).Fatal("create sale")
	}
	logger.WithFields(logrus.Fields{
		"invoice_no": sale.Sale.InvoiceNo,
		"total":      sale.Sale.TotalAmount.StringFixed(2),
	}).Info("seed complete")
}
