package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/str8builders/invoice/internal/ai"
	"github.com/str8builders/invoice/internal/billing"
	"github.com/str8builders/invoice/internal/logger"
)

var notesCmd = &cobra.Command{
	Use:   "notes [file]",
	Short: "Turn free-form job notes into line items",
	Long: `Read job notes from a file (or standard input when the argument is "-")
and ask the AI assistant to break them into candidate line items. Each
candidate then goes through the same normalisation as an imported row:
category inference, date normalisation and hours/rate/amount
reconciliation.

Requires OPENAI_API_KEY. A failed extraction leaves the draft untouched.`,
	Example: `  # Extract items from a notes file
  str8invoice notes friday-jobs.txt

  # Pipe notes in
  pbpaste | str8invoice notes -`,
	Args: cobra.ExactArgs(1),
	RunE: runNotes,
}

func init() {
	rootCmd.AddCommand(notesCmd)

	notesCmd.Flags().String("invoice", "", "Invoice number to add to (default: current)")
	notesCmd.Flags().Int("timeout", 60, "Extraction timeout in seconds")
}

func runNotes(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("notes")

	invoiceName, _ := cmd.Flags().GetString("invoice")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	notes, err := readNotes(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireOpenAI(); err != nil {
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

	assistant, err := ai.NewService(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	if err != nil {
		return err
	}

	records, err := assistant.ExtractItems(ctx, notes)
	if err != nil {
		return fmt.Errorf("extracting items from notes: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("No line items found in the notes.")
		return nil
	}

	items := billing.NormalizeRecords(records)
	inv.Items = append(inv.Items, items...)

	if err := saveWorkingDraft(ctx, kv, name, inv); err != nil {
		return fmt.Errorf("saving draft: %w", err)
	}

	log.Info().
		Str("invoice", name).
		Int("items", len(items)).
		Msg("Added items from job notes")

	for _, item := range items {
		fmt.Printf("Added %s: %s - %s\n", item.Category, item.Description, billing.FormatNZD(item.Amount))
	}
	return nil
}

func readNotes(arg string) (string, error) {
	if arg == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading notes from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return "", fmt.Errorf("reading notes file: %w", err)
	}
	return string(data), nil
}
