// Package export builds .xlsx workbooks of sales and inventory.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"shop-backoffice/internal/core"
)

const (
	SalesSheet = "Sales"
	LinesSheet = "Lines"
	StockSheet = "Stock"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	salesHeadings = []string{"Invoice", "Date", "Customer", "Phone", "Payment", "Items", "Total"}
	lineHeadings  = []string{"Invoice", "Product", "Quantity", "Price", "Total"}
	stockHeadings = []string{"ID", "Product", "Quantity", "Sold", "Purchase Price", "Selling Price", "Supplier", "Stock Value", "Date Added"}
)

// SalesWorkbook returns a workbook with one row per sale on the Sales sheet
// and one row per line item on the Lines sheet.
func SalesWorkbook(sales []core.SaleRecord) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SalesSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(LinesSheet); err != nil {
		return nil, err
	}
	if err := writeRow(f, SalesSheet, 1, toRow(salesHeadings)); err != nil {
		return nil, err
	}
	if err := writeRow(f, LinesSheet, 1, toRow(lineHeadings)); err != nil {
		return nil, err
	}

	lineRow := 2
	for i, s := range sales {
		err := writeRow(f, SalesSheet, i+2, []any{
			s.InvoiceNo,
			s.SaleDate.Format("2006-01-02 15:04:05"),
			s.CustomerName,
			s.CustomerPhone,
			s.PaymentType,
			len(s.Items),
			s.TotalAmount.InexactFloat64(),
		})
		if err != nil {
			return nil, err
		}
		for _, l := range s.Items {
			err := writeRow(f, LinesSheet, lineRow, []any{
				s.InvoiceNo, l.ProductName, l.Quantity, l.Price.InexactFloat64(), l.Total.InexactFloat64(),
			})
			if err != nil {
				return nil, err
			}
			lineRow++
		}
	}
	return f, nil
}

// StockWorkbook returns a workbook with one row per inventory item.
func StockWorkbook(items []core.InventoryItem) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", StockSheet); err != nil {
		return nil, err
	}
	if err := writeRow(f, StockSheet, 1, toRow(stockHeadings)); err != nil {
		return nil, err
	}
	for i, it := range items {
		err := writeRow(f, StockSheet, i+2, []any{
			it.ID,
			it.ProductName,
			it.Quantity,
			it.SoldQuantity,
			it.PurchasePrice.InexactFloat64(),
			it.SellingPrice.InexactFloat64(),
			it.Supplier,
			it.StockValue().InexactFloat64(),
			it.DateAdded.Format("2006-01-02"),
		})
		if err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Write streams f to w and closes it.
func Write(f *excelize.File, w io.Writer) error {
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toRow(headings []string) []any {
	row := make([]any, len(headings))
	for i, h := range headings {
		row[i] = h
	}
	return row
}
