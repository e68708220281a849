package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"shop-backoffice/internal/app"
	"shop-backoffice/internal/core"
)

// handleNewSale runs an interactive sale entry session.
func handleNewSale(ctx context.Context, reader *bufio.Reader, w io.Writer, svc app.ApplicationService, mode core.SaleMode) {
	shop := svc.ShopInfo()
	fmt.Fprintf(w, "New %s sale.\n", mode)
	fmt.Fprintln(w, "Enter sale lines. Type 'done' when finished, 'cancel' to abort.")
	fmt.Fprintln(w, "Format per line: <product name>, <quantity> [, unit-price]")
	fmt.Fprintln(w, "  Example: Sugar 1kg, 3")
	fmt.Fprintln(w, "  Example: Tea 450g, 1, 1100   (overrides the stock selling price)")

	var lines []app.SaleLine
	lineNum := 1
	for {
		fmt.Fprintf(w, "  Line %d: ", lineNum)
		raw, err := reader.ReadString('\n')
		raw = strings.TrimSpace(raw)
		if strings.EqualFold(raw, "cancel") || (err != nil && raw == "") {
			fmt.Fprintln(w, "Sale cancelled.")
			return
		}
		if strings.EqualFold(raw, "done") {
			break
		}
		if raw == "" {
			continue
		}
		line, perr := parseSaleLine(raw)
		if perr != nil {
			fmt.Fprintf(w, "  %v\n", perr)
			continue
		}
		lines = append(lines, line)
		lineNum++
	}

	if len(lines) == 0 {
		fmt.Fprintln(w, "No lines entered. Sale not recorded.")
		return
	}

	req := app.CreateSaleRequest{Mode: mode, Items: lines, PaymentType: core.PaymentCash}
	if mode != core.SaleModeQuick {
		req.CustomerName = prompt(reader, w, "Customer name: ")
		req.CustomerPhone = prompt(reader, w, "Customer phone (optional): ")
		if p := prompt(reader, w, "Payment type [cash]: "); p != "" {
			req.PaymentType = strings.ToLower(p)
		}
		if req.CustomerPhone != "" {
			answer := strings.ToLower(prompt(reader, w, "Send WhatsApp receipt? (y/n): "))
			req.SendWhatsApp = answer == "y" || answer == "yes"
		}
	}

	result, err := svc.CreateSale(ctx, req)
	if err != nil {
		printError(w, err)
		return
	}
	fmt.Fprintln(w, "\nSale RECORDED.")
	PrintInvoice(w, &result.Sale, shop.Currency)
	if result.Credit != nil {
		fmt.Fprintf(w, "Credit posted: %s owes %s %s.\n", result.Credit.Name, shop.Currency, result.Credit.Amount.StringFixed(2))
	}
	if result.NotificationQueued {
		fmt.Fprintln(w, "WhatsApp receipt queued.")
	}
}

// parseSaleLine reads "<product>, <qty>[, <price>]".
func parseSaleLine(raw string) (app.SaleLine, error) {
	parts := strings.Split(raw, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return app.SaleLine{}, errors.New("invalid format. Use: <product name>, <quantity> [, unit-price]")
	}
	name := strings.TrimSpace(parts[0])
	if name == "" {
		return app.SaleLine{}, errors.New("product name is required")
	}
	qty, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || qty <= 0 {
		return app.SaleLine{}, errors.New("invalid quantity")
	}
	line := app.SaleLine{ProductName: name, Quantity: qty}
	if len(parts) == 3 {
		price, err := decimal.NewFromString(strings.TrimSpace(parts[2]))
		if err != nil || price.IsNegative() {
			return app.SaleLine{}, errors.New("invalid price")
		}
		line.Price = price
	}
	return line, nil
}

func prompt(reader *bufio.Reader, w io.Writer, label string) string {
	fmt.Fprint(w, label)
	s, _ := reader.ReadString('\n')
	return strings.TrimSpace(s)
}

// printError lists every reason of a validation error on its own line.
func printError(w io.Writer, err error) {
	var verr *core.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintln(w, "Rejected:")
		for _, r := range verr.Reasons {
			fmt.Fprintf(w, "  - %s\n", r)
		}
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
