package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"shop-backoffice/internal/adapters/repl"
	"shop-backoffice/internal/app"
	"shop-backoffice/internal/core"
)

const usage = "Available: summary, stock, low-stock [threshold], sales, invoice <no>, ask \"<question>\", export sales|stock <file>"

// Run executes a one-shot CLI command, writing results to w.
// args is os.Args[1:]; the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string, w io.Writer) error {
	if len(args) == 0 {
		return errors.New(usage)
	}
	shop := svc.ShopInfo()

	switch args[0] {
	case "summary", "sum":
		d, err := svc.GetDashboard(ctx)
		if err != nil {
			return err
		}
		repl.PrintSummary(w, d, shop)

	case "stock":
		items, err := svc.ListStock(ctx)
		if err != nil {
			return err
		}
		repl.PrintStock(w, items, shop.Currency, shop.LowStockThreshold)

	case "low-stock", "low":
		threshold := 0
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid threshold %q", args[1])
			}
			threshold = n
		}
		items, err := svc.LowStock(ctx, threshold)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(items)

	case "sales":
		sales, err := svc.ListSales(ctx)
		if err != nil {
			return err
		}
		repl.PrintSales(w, sales, shop.Currency)

	case "invoice", "inv":
		if len(args) < 2 {
			return errors.New("usage: app invoice <invoice-no>")
		}
		sale, err := svc.GetInvoice(ctx, args[1])
		if errors.Is(err, core.ErrNotFound) {
			return fmt.Errorf("invoice %s not found", args[1])
		}
		if err != nil {
			return err
		}
		repl.PrintInvoice(w, sale, shop.Currency)

	case "ask":
		if len(args) < 2 {
			return errors.New("usage: app ask \"<question>\"")
		}
		res, err := svc.Chat(ctx, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(w, res.Response)

	case "export":
		if len(args) < 3 {
			return errors.New("usage: app export sales|stock <file.xlsx>")
		}
		var export func(context.Context, io.Writer) error
		switch args[1] {
		case "sales":
			export = svc.ExportSales
		case "stock":
			export = svc.ExportStock
		default:
			return fmt.Errorf("unknown export %q (want sales or stock)", args[1])
		}
		return writeFile(ctx, args[2], export)

	default:
		return fmt.Errorf("unknown command: %s\n%s", args[0], usage)
	}
	return nil
}

func writeFile(ctx context.Context, path string, export func(context.Context, io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return export(ctx, f)
}
