package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/str8builders/invoice/internal/billing"
	"github.com/str8builders/invoice/internal/logger"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a line item to the current invoice",
	Long: `Append one line item to an invoice draft. Items are labour by default;
pass --expense for materials and other pass-through costs.

Hours and rate edits recompute the amount. Giving --amount on its own
finalises the line at that total: labour lines are snapped to the nearest
whole-hour decomposition over the standard charge-out rates, expense lines
become one unit at that cost.`,
	Example: `  # Four hours of labour at the default rate
  str8invoice add --desc "Deck framing" --hours 4

  # Labour priced by total; hours and rate are reverse-engineered
  str8invoice add --desc "Site consultation" --amount 130

  # Materials
  str8invoice add --expense --desc "Bunnings screws" --amount 45 --date 15/03/2024`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().Bool("expense", false, "Add an expense (materials) item instead of labour")
	addCmd.Flags().String("desc", "", "Line description")
	addCmd.Flags().String("date", "", "Item date (any recognisable format)")
	addCmd.Flags().Float64("hours", 0, "Hours worked (labour) or unit quantity (expense)")
	addCmd.Flags().Float64("rate", 0, "Hourly rate (labour) or unit cost (expense)")
	addCmd.Flags().Float64("amount", 0, "Line total; overrides hours and rate")
	addCmd.Flags().String("invoice", "", "Invoice number to add to (default: current)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("add")

	expense, _ := cmd.Flags().GetBool("expense")
	desc, _ := cmd.Flags().GetString("desc")
	dateText, _ := cmd.Flags().GetString("date")
	hours, _ := cmd.Flags().GetFloat64("hours")
	rate, _ := cmd.Flags().GetFloat64("rate")
	amount, _ := cmd.Flags().GetFloat64("amount")
	invoiceName, _ := cmd.Flags().GetString("invoice")

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

	item := billing.NewServiceItem()
	if expense {
		item = billing.NewExpenseItem()
	}
	item.Description = desc
	item.Date = billing.CanonicalDate(dateText)

	if cmd.Flags().Changed("hours") {
		billing.SetHours(&item, hours)
	}
	if cmd.Flags().Changed("rate") {
		billing.SetRate(&item, rate)
	}
	if cmd.Flags().Changed("amount") {
		billing.PreviewAmount(&item, amount)
		billing.CommitAmount(&item)
	}

	inv.Items = append(inv.Items, item)
	if err := saveWorkingDraft(ctx, kv, name, inv); err != nil {
		return fmt.Errorf("saving draft: %w", err)
	}

	log.Info().
		Str("invoice", name).
		Str("category", string(item.Category)).
		Float64("hours", item.Hours).
		Float64("rate", item.Rate).
		Float64("amount", item.Amount).
		Msg("Line item added")

	fmt.Printf("Added %s: %s - %s (%.4g x %s)\n",
		item.Category, item.Description, billing.FormatNZD(item.Amount),
		item.Hours, billing.FormatNZD(item.Rate))
	return nil
}
