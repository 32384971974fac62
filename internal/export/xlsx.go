// Package export renders a finished invoice to an XLSX workbook: one item
// row per line with display-formatted dates and dollar figures, then the
// tax summary block. All numbers come from the billing engine; this package
// only lays them out.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/str8builders/invoice/internal/billing"
	"github.com/str8builders/invoice/internal/logger"
	"github.com/str8builders/invoice/pkg/models"
)

const sheetName = "Invoice"

var itemHeaders = []string{"Date", "Type", "Description", "Hrs/Qty", "Rate", "Amount"}

// WriteXLSX writes the invoice workbook to path, replacing any existing file.
func WriteXLSX(path string, inv models.Invoice) error {
	const op = "WriteXLSX"
	log := logger.WithComponent("export")

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	write := func(col, row int, value any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheetName, cell, value)
	}

	// Heading block: who, to whom, which invoice.
	write(1, 1, inv.Business.Name)
	write(1, 2, inv.Business.Address)
	if inv.Business.GSTNumber != "" {
		write(1, 3, "GST "+inv.Business.GSTNumber)
	}
	write(5, 1, "Invoice")
	write(6, 1, inv.Number)
	write(5, 2, "Date")
	write(6, 2, billing.DisplayDate(inv.Date))
	if inv.Client.Name != "" {
		write(1, 5, "Bill to:")
		write(2, 5, inv.Client.Name)
		write(2, 6, inv.Client.Address)
	}

	headerRow := 8
	for i, h := range itemHeaders {
		write(i+1, headerRow, h)
	}

	row := headerRow + 1
	for _, item := range inv.Items {
		write(1, row, billing.DisplayDate(item.Date))
		write(2, row, string(item.Category))
		write(3, row, item.Description)
		write(4, row, item.Hours)
		write(5, row, billing.FormatNZD(item.Rate))
		write(6, row, billing.FormatNZD(item.Amount))
		row++
	}

	totals := billing.CalculateTotals(inv.Items)
	row++
	summary := []struct {
		label  string
		amount float64
	}{
		{"Subtotal", totals.Gross},
		{"GST (15% on labour)", totals.GST},
		{"Total payable", totals.Payable},
		{"Withholding tax", totals.WithholdingTax},
		{"Net retained", totals.NetRetained},
	}
	for _, line := range summary {
		write(5, row, line.label)
		write(6, row, billing.FormatNZD(line.amount))
		row++
	}

	if bank := inv.Business.BankAccount; bank != "" {
		row++
		write(1, row, "Please pay to "+bank)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("%s: saving %s: %w", op, path, err)
	}

	log.Info().
		Str("path", path).
		Str("invoice", inv.Number).
		Int("items", len(inv.Items)).
		Msg("Invoice exported to XLSX")
	return nil
}
