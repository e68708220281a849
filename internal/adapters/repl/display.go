package repl

import (
	"fmt"
	"io"
	"strings"

	"shop-backoffice/internal/app"
	"shop-backoffice/internal/core"
)

// PrintStock writes an inventory table. Quantities below lowThreshold are flagged.
func PrintStock(w io.Writer, items []core.InventoryItem, currency string, lowThreshold int) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 84))
	fmt.Fprintf(w, "  STOCK (%s)\n", currency)
	fmt.Fprintln(w, strings.Repeat("=", 84))
	if len(items) == 0 {
		fmt.Fprintln(w, "  No stock found.")
		fmt.Fprintln(w, strings.Repeat("=", 84))
		return
	}
	fmt.Fprintf(w, "  %-5s %-26s %6s %6s %10s %10s  %s\n", "ID", "PRODUCT", "QTY", "SOLD", "COST", "PRICE", "SUPPLIER")
	fmt.Fprintln(w, strings.Repeat("-", 84))
	for _, it := range items {
		flag := " "
		if it.Quantity < lowThreshold {
			flag = "!"
		}
		fmt.Fprintf(w, "  %-5d %-26s %5d%s %6d %10s %10s  %s\n",
			it.ID, truncate(it.ProductName, 26), it.Quantity, flag, it.SoldQuantity,
			it.PurchasePrice.StringFixed(2), it.SellingPrice.StringFixed(2), it.Supplier)
	}
	fmt.Fprintln(w, strings.Repeat("=", 84))
}

// PrintSales writes one row per invoice.
func PrintSales(w io.Writer, sales []core.SaleRecord, currency string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 84))
	fmt.Fprintf(w, "  SALES (%s)\n", currency)
	fmt.Fprintln(w, strings.Repeat("=", 84))
	if len(sales) == 0 {
		fmt.Fprintln(w, "  No sales found.")
		fmt.Fprintln(w, strings.Repeat("=", 84))
		return
	}
	fmt.Fprintf(w, "  %-22s %-22s %-8s %12s  %s\n", "INVOICE", "CUSTOMER", "PAYMENT", "TOTAL", "DATE")
	fmt.Fprintln(w, strings.Repeat("-", 84))
	for _, s := range sales {
		fmt.Fprintf(w, "  %-22s %-22s %-8s %12s  %s\n",
			s.InvoiceNo, truncate(s.CustomerName, 22), s.PaymentType,
			s.TotalAmount.StringFixed(2), s.SaleDate.Format("2006-01-02 15:04"))
	}
	fmt.Fprintln(w, strings.Repeat("=", 84))
}

// PrintInvoice writes a single sale with its lines.
func PrintInvoice(w io.Writer, s *core.SaleRecord, currency string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("-", 64))
	fmt.Fprintf(w, "  Invoice:   %s\n", s.InvoiceNo)
	fmt.Fprintf(w, "  Customer:  %s\n", s.CustomerName)
	if s.CustomerPhone != "" {
		fmt.Fprintf(w, "  Phone:     %s\n", s.CustomerPhone)
	}
	fmt.Fprintf(w, "  Payment:   %s\n", s.PaymentType)
	fmt.Fprintf(w, "  Date:      %s\n", s.SaleDate.Format("2006-01-02 15:04"))
	fmt.Fprintln(w, strings.Repeat("-", 64))
	fmt.Fprintf(w, "  %-28s %6s %12s %12s\n", "PRODUCT", "QTY", "PRICE", "TOTAL")
	fmt.Fprintln(w, strings.Repeat("-", 64))
	for _, l := range s.Items {
		fmt.Fprintf(w, "  %-28s %6d %12s %12s\n",
			truncate(l.ProductName, 28), l.Quantity, l.Price.StringFixed(2), l.Total.StringFixed(2))
	}
	fmt.Fprintln(w, strings.Repeat("-", 64))
	fmt.Fprintf(w, "  %-48s %12s\n", "TOTAL "+currency, s.TotalAmount.StringFixed(2))
	fmt.Fprintln(w, strings.Repeat("-", 64))
}

// PrintSummary writes the dashboard headline figures.
func PrintSummary(w io.Writer, d *core.Dashboard, shop app.ShopInfo) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 48))
	fmt.Fprintf(w, "  %s — %d\n", shop.Name, d.CurrentYear)
	fmt.Fprintln(w, strings.Repeat("=", 48))
	row := func(label, value string) { fmt.Fprintf(w, "  %-20s %24s\n", label, value) }
	row("Sales", fmt.Sprintf("%d", d.SaleCount))
	row("Revenue", shop.Currency+" "+d.Revenue.StringFixed(2))
	row("Expenses", shop.Currency+" "+d.Expenses.StringFixed(2))
	row("Profit", shop.Currency+" "+d.Profit.StringFixed(2))
	row("Units in stock", fmt.Sprintf("%d", d.StockQuantity))
	row("Stock value", shop.Currency+" "+d.StockValue.StringFixed(2))
	fmt.Fprintln(w, strings.Repeat("-", 48))
	if len(d.LowStock) == 0 {
		fmt.Fprintln(w, "  All items well stocked.")
	} else {
		fmt.Fprintln(w, "  Low stock:")
		for _, it := range d.LowStock {
			fmt.Fprintf(w, "    %-30s %5d left\n", truncate(it.ProductName, 30), it.Quantity)
		}
	}
	fmt.Fprintln(w, strings.Repeat("=", 48))
}

func printCredits(w io.Writer, credits []core.CreditEntry, currency string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 84))
	fmt.Fprintf(w, "  CREDIT LEDGER (%s)\n", currency)
	fmt.Fprintln(w, strings.Repeat("=", 84))
	if len(credits) == 0 {
		fmt.Fprintln(w, "  No credit entries.")
		fmt.Fprintln(w, strings.Repeat("=", 84))
		return
	}
	fmt.Fprintf(w, "  %-10s %-9s %-22s %12s  %s\n", "DATE", "TYPE", "NAME", "AMOUNT", "DESCRIPTION")
	fmt.Fprintln(w, strings.Repeat("-", 84))
	for _, c := range credits {
		fmt.Fprintf(w, "  %-10s %-9s %-22s %12s  %s\n",
			c.Date.Format("2006-01-02"), c.Type, truncate(c.Name, 22), c.Amount.StringFixed(2), c.Description)
	}
	fmt.Fprintln(w, strings.Repeat("=", 84))
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "SHOP BACK-OFFICE — COMMANDS")
	fmt.Fprintln(w, strings.Repeat("=", 62))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  STOCK")
	fmt.Fprintln(w, "  /stock                           List inventory")
	fmt.Fprintln(w, "  /low [threshold]                 Items below the low-stock threshold")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  SALES")
	fmt.Fprintln(w, "  /sell [quick|invoice|simple]     Record a sale (interactive)")
	fmt.Fprintln(w, "  /sales                           List sales")
	fmt.Fprintln(w, "  /invoice <invoice-no>            Show one invoice")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  BOOKS")
	fmt.Fprintln(w, "  /expense <category> <amount> [description]")
	fmt.Fprintln(w, "  /return <qty> <product name>     Record a customer return")
	fmt.Fprintln(w, "  /credits                         Credit ledger")
	fmt.Fprintln(w, "  /summary                         Dashboard figures")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  SESSION")
	fmt.Fprintln(w, "  /help                            Show this help")
	fmt.Fprintln(w, "  /exit                            Exit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  ASK  (no / prefix)")
	fmt.Fprintln(w, "  Ask about stock, sales or profit in plain words.")
	fmt.Fprintln(w, "  Example: \"any low stock?\"")
	fmt.Fprintln(w, strings.Repeat("=", 62))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
