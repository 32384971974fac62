package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/str8builders/invoice/internal/billing"
	"github.com/str8builders/invoice/internal/logger"
	"github.com/str8builders/invoice/internal/tabular"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import line items from a spreadsheet or CSV file",
	Long: `Read line-item rows from an .xlsx or .csv file and append them to an
invoice draft. The first row is the header; column names are matched
loosely (Description/Item/Details, Amount/Total/Cost, Hours/Qty, and so
on), and each row is classified as labour or expense from its wording.

Rows that only carry a total are completed: labour rows are snapped to a
whole-hour decomposition over the standard charge-out rates, expense rows
become quantity times unit cost around the given amount. Imported items are
always appended; existing items are never replaced.`,
	Example: `  # Import a supplier job sheet
  str8invoice import timesheet.xlsx

  # Import into a specific draft
  str8invoice import materials.csv --invoice STR8-20240315-01`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().String("invoice", "", "Invoice number to import into (default: current)")
}

func runImport(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("import")

	invoiceName, _ := cmd.Flags().GetString("invoice")
	path := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	kv, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer kv.Close()

	ctx := cmd.Context()
	inv, name, err := loadWorkingDraft(ctx, kv, invoiceName)
	if err != nil {
		return err
	}

	records, err := tabular.ReadRecords(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return fmt.Errorf("%s contains no data rows", path)
	}

	items := billing.NormalizeRecords(records)
	inv.Items = append(inv.Items, items...)

	if err := saveWorkingDraft(ctx, kv, name, inv); err != nil {
		return fmt.Errorf("saving draft: %w", err)
	}

	log.Info().
		Str("invoice", name).
		Str("file", path).
		Int("items", len(items)).
		Msg("Imported line items")

	fmt.Printf("Imported %d items from %s into %s\n", len(items), path, name)
	return nil
}
