package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/str8builders/invoice/internal/billing"
	"github.com/str8builders/invoice/internal/logger"
	"github.com/str8builders/invoice/internal/store"
	"github.com/str8builders/invoice/pkg/models"
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Start a new invoice draft",
	Long: `Create a new invoice draft with the next invoice number for today.
The business details come from configuration; numbers restart at 01 each
day (e.g. STR8-20240315-01). The new draft becomes the current invoice for
the commands that follow.`,
	Example: `  # Start an invoice for a client
  str8invoice new --client "J. Smith" --client-address "12 Example St, Auckland"

  # Back-date an invoice
  str8invoice new --client "J. Smith" --date 2024-03-01`,
	Args: cobra.NoArgs,
	RunE: runNew,
}

func init() {
	rootCmd.AddCommand(newCmd)

	newCmd.Flags().String("client", "", "Client name (the invoice To block)")
	newCmd.Flags().String("client-address", "", "Client postal address")
	newCmd.Flags().String("client-email", "", "Client email address")
	newCmd.Flags().String("date", "", "Issue date (default: today; any recognisable date format)")
}

func runNew(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("new")

	clientName, _ := cmd.Flags().GetString("client")
	clientAddress, _ := cmd.Flags().GetString("client-address")
	clientEmail, _ := cmd.Flags().GetString("client-email")
	dateText, _ := cmd.Flags().GetString("date")

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
	now := time.Now()

	number, err := store.NextInvoiceNumber(ctx, kv, cfg.InvoicePrefix, now)
	if err != nil {
		return fmt.Errorf("allocating invoice number: %w", err)
	}

	issueDate := now.Format("2006-01-02")
	if dateText != "" {
		issueDate = billing.CanonicalDate(dateText)
	}

	inv := models.Invoice{
		Number:   number,
		Date:     issueDate,
		Business: cfg.Business(),
		Client: models.Client{
			Name:    clientName,
			Address: clientAddress,
			Email:   clientEmail,
		},
		CreatedAt: now.UTC(),
	}

	if err := saveWorkingDraft(ctx, kv, number, inv); err != nil {
		return fmt.Errorf("saving draft: %w", err)
	}

	log.Info().
		Str("invoice", number).
		Str("client", clientName).
		Msg("Invoice draft created")

	fmt.Printf("Created invoice %s (issued %s)\n", number, billing.DisplayDate(issueDate))
	return nil
}
