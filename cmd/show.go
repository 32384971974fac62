package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/str8builders/invoice/internal/billing"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current invoice with totals",
	Long: `Print an invoice draft: every line item with its date, hours or
quantity, rate and amount, followed by the tax summary. GST and withholding
tax are calculated on the labour subtotal only.`,
	Example: `  # Show the current invoice
  str8invoice show

  # Show a specific draft
  str8invoice show --invoice STR8-20240315-01`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().String("invoice", "", "Invoice number to show (default: current)")
}

func runShow(cmd *cobra.Command, args []string) error {
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

	inv, name, err := loadWorkingDraft(cmd.Context(), kv, invoiceName)
	if err != nil {
		return err
	}

	fmt.Printf("Invoice %s\n", name)
	fmt.Printf("Issued:  %s\n", billing.DisplayDate(inv.Date))
	fmt.Printf("From:    %s\n", inv.Business.Name)
	if inv.Client.Name != "" {
		fmt.Printf("To:      %s\n", inv.Client.Name)
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tTYPE\tDESCRIPTION\tHRS/QTY\tRATE\tAMOUNT")
	for _, item := range inv.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.4g\t%s\t%s\n",
			billing.DisplayDate(item.Date),
			item.Category,
			item.Description,
			item.Hours,
			billing.FormatNZD(item.Rate),
			billing.FormatNZD(item.Amount))
	}
	w.Flush()

	totals := billing.CalculateTotals(inv.Items)
	fmt.Println()
	fmt.Printf("Subtotal:            %s\n", billing.FormatNZD(totals.Gross))
	fmt.Printf("GST (15%% on labour): %s\n", billing.FormatNZD(totals.GST))
	fmt.Printf("Total payable:       %s\n", billing.FormatNZD(totals.Payable))
	fmt.Printf("Withholding tax:     %s\n", billing.FormatNZD(totals.WithholdingTax))
	fmt.Printf("Net retained:        %s\n", billing.FormatNZD(totals.NetRetained))
	return nil
}
