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

var errExit = errors.New("exit")

// Run starts the interactive REPL loop.
// It reads commands from reader, dispatches slash commands deterministically,
// and sends anything else to Chat.
func Run(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader, w io.Writer) {
	shop := svc.ShopInfo()
	fmt.Fprintln(w, shop.Name)
	fmt.Fprintf(w, "Currency: %s  Low-stock threshold: %d\n", shop.Currency, shop.LowStockThreshold)
	fmt.Fprintln(w, "Ask a question about the shop, or use /help for commands.")
	fmt.Fprintln(w, strings.Repeat("-", 70))

	for {
		fmt.Fprint(w, "\n> ")
		input, readErr := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "" {
			if readErr != nil {
				return
			}
			continue
		}

		// Slash prefix → deterministic command dispatcher.
		if strings.HasPrefix(input, "/") {
			if err := dispatch(ctx, svc, reader, w, input); err != nil {
				if errors.Is(err, errExit) {
					fmt.Fprintln(w, "Goodbye!")
					return
				}
				printError(w, err)
			}
			continue
		}

		res, err := svc.Chat(ctx, input)
		if err != nil {
			printError(w, err)
			continue
		}
		fmt.Fprintf(w, "[%s] %s\n", res.Source, res.Response)
	}
}

func dispatch(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader, w io.Writer, input string) error {
	tokens := strings.Fields(strings.TrimPrefix(input, "/"))
	if len(tokens) == 0 {
		return nil
	}
	cmd := strings.ToLower(tokens[0])
	args := tokens[1:]
	shop := svc.ShopInfo()

	switch cmd {
	case "stock":
		items, err := svc.ListStock(ctx)
		if err != nil {
			return err
		}
		PrintStock(w, items, shop.Currency, shop.LowStockThreshold)

	case "low":
		threshold := 0
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				fmt.Fprintf(w, "Invalid threshold: %s\n", args[0])
				return nil
			}
			threshold = n
		}
		items, err := svc.LowStock(ctx, threshold)
		if err != nil {
			return err
		}
		if threshold == 0 {
			threshold = shop.LowStockThreshold
		}
		PrintStock(w, items, shop.Currency, threshold)

	case "sell":
		mode := core.SaleModeInvoice
		if len(args) > 0 {
			mode = core.SaleMode(strings.ToLower(args[0]))
		}
		switch mode {
		case core.SaleModeQuick, core.SaleModeInvoice, core.SaleModeSimple:
		default:
			fmt.Fprintln(w, "Usage: /sell [quick|invoice|simple]")
			return nil
		}
		handleNewSale(ctx, reader, w, svc, mode)

	case "sales":
		sales, err := svc.ListSales(ctx)
		if err != nil {
			return err
		}
		PrintSales(w, sales, shop.Currency)

	case "invoice":
		if len(args) < 1 {
			fmt.Fprintln(w, "Usage: /invoice <invoice-no>")
			return nil
		}
		sale, err := svc.GetInvoice(ctx, args[0])
		if errors.Is(err, core.ErrNotFound) {
			fmt.Fprintf(w, "Invoice %s not found.\n", args[0])
			return nil
		}
		if err != nil {
			return err
		}
		PrintInvoice(w, sale, shop.Currency)

	case "expense":
		if len(args) < 2 {
			fmt.Fprintln(w, "Usage: /expense <category> <amount> [description]")
			return nil
		}
		amount, err := decimal.NewFromString(args[1])
		if err != nil {
			fmt.Fprintf(w, "Invalid amount: %s\n", args[1])
			return nil
		}
		entry, err := svc.AddExpense(ctx, app.AddExpenseRequest{
			Category:    args[0],
			Amount:      amount,
			Description: strings.Join(args[2:], " "),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Expense recorded: %s %s %s.\n", entry.Category, shop.Currency, entry.Amount.StringFixed(2))

	case "return":
		if len(args) < 2 {
			fmt.Fprintln(w, "Usage: /return <qty> <product name>")
			return nil
		}
		qty, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(w, "Invalid quantity: %s\n", args[0])
			return nil
		}
		res, err := svc.AddReturn(ctx, app.AddReturnRequest{
			ProductName: strings.Join(args[1:], " "),
			Quantity:    qty,
			Reason:      prompt(reader, w, "Reason (optional): "),
		})
		if err != nil {
			return err
		}
		if res.Restocked {
			fmt.Fprintf(w, "Return recorded; %d x %s back in stock.\n", res.Entry.Quantity, res.Entry.ProductName)
		} else {
			fmt.Fprintf(w, "Return recorded; %s is not in stock so nothing was restocked.\n", res.Entry.ProductName)
		}

	case "credits":
		credits, err := svc.ListCredits(ctx)
		if err != nil {
			return err
		}
		printCredits(w, credits, shop.Currency)

	case "summary":
		d, err := svc.GetDashboard(ctx)
		if err != nil {
			return err
		}
		PrintSummary(w, d, shop)

	case "help", "h":
		printHelp(w)

	case "exit", "quit", "e", "q":
		return errExit

	default:
		fmt.Fprintf(w, "Unknown command: /%s  (type /help for all commands)\n", cmd)
	}
	return nil
}
