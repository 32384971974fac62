package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/str8builders/invoice/internal/export"
	"github.com/str8builders/invoice/internal/logger"
	"github.com/str8builders/invoice/internal/sheets"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export an invoice to a spreadsheet",
	Long: `Write an invoice draft out for sending or record-keeping: an XLSX
workbook with --xlsx, or rows appended to the business's shared Google
Sheet with --sheet (configured by GOOGLE_SHEET_URL).

Both outputs carry the same display formatting as 'show': dates as
DD/MM/YYYY, whole-dollar amounts, and the GST/withholding summary.`,
	Example: `  # Write a workbook next to the job file
  str8invoice export --xlsx invoice.xlsx

  # Append to the shared ledger sheet
  str8invoice export --sheet`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().String("xlsx", "", "Write an XLSX workbook to this path")
	exportCmd.Flags().Bool("sheet", false, "Append to the configured Google Sheet")
	exportCmd.Flags().String("invoice", "", "Invoice number to export (default: current)")
	exportCmd.Flags().Int("timeout", 60, "Sheets export timeout in seconds")
}

func runExport(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("export")

	xlsxPath, _ := cmd.Flags().GetString("xlsx")
	toSheet, _ := cmd.Flags().GetBool("sheet")
	invoiceName, _ := cmd.Flags().GetString("invoice")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	if xlsxPath == "" && !toSheet {
		return fmt.Errorf("nothing to do: pass --xlsx <path> and/or --sheet")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	kv, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer kv.Close()

	ctx, cancel := commandContext(time.Duration(timeoutSecs) * time.Second)
	defer cancel()

	inv, name, err := loadWorkingDraft(ctx, kv, invoiceName)
	if err != nil {
		return err
	}

	if xlsxPath != "" {
		if err := export.WriteXLSX(xlsxPath, inv); err != nil {
			return fmt.Errorf("exporting %s: %w", name, err)
		}
		fmt.Printf("Wrote %s to %s\n", name, xlsxPath)
	}

	if toSheet {
		if err := cfg.RequireSheets(); err != nil {
			return err
		}
		svc, err := sheets.NewService(ctx, cfg.GoogleSheetURL, cfg.GoogleServiceAccountKey)
		if err != nil {
			return fmt.Errorf("connecting to Google Sheets: %w", err)
		}
		if err := svc.AppendInvoice(ctx, cfg.GoogleSheetWorksheet, inv); err != nil {
			return fmt.Errorf("exporting %s to sheet: %w", name, err)
		}
		fmt.Printf("Appended %s to worksheet %q\n", name, cfg.GoogleSheetWorksheet)
	}

	log.Info().
		Str("invoice", name).
		Str("xlsx", xlsxPath).
		Bool("sheet", toSheet).
		Msg("Invoice exported")
	return nil
}
