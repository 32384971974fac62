package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/str8builders/invoice/internal/ai"
	"github.com/str8builders/invoice/internal/logger"
)

var polishCmd = &cobra.Command{
	Use:   "polish",
	Short: "Tidy line-item descriptions with AI assistance",
	Long: `Rewrite every line description on an invoice draft into short,
professional invoice wording. Hours, rates, amounts and dates are never
touched. A description whose rewrite fails keeps its original text.

Requires OPENAI_API_KEY.`,
	Example: `  # Polish the current invoice
  str8invoice polish

  # Polish a specific draft
  str8invoice polish --invoice STR8-20240315-01`,
	Args: cobra.NoArgs,
	RunE: runPolish,
}

func init() {
	rootCmd.AddCommand(polishCmd)

	polishCmd.Flags().String("invoice", "", "Invoice number to polish (default: current)")
	polishCmd.Flags().Int("timeout", 120, "Total timeout in seconds")
}

func runPolish(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("polish")

	invoiceName, _ := cmd.Flags().GetString("invoice")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

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
	if len(inv.Items) == 0 {
		fmt.Println("Nothing to polish; the invoice has no items.")
		return nil
	}

	assistant, err := ai.NewService(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	if err != nil {
		return err
	}

	polished := 0
	for i := range inv.Items {
		rewritten, err := assistant.Polish(ctx, inv.Items[i].Description)
		if err != nil {
			// Best-effort: keep the original wording and move on.
			log.Warn().
				Err(err).
				Str("description", inv.Items[i].Description).
				Msg("Polish failed, keeping original text")
			continue
		}
		if rewritten != inv.Items[i].Description {
			fmt.Printf("  %q -> %q\n", inv.Items[i].Description, rewritten)
			inv.Items[i].Description = rewritten
			polished++
		}
	}

	if polished > 0 {
		if err := saveWorkingDraft(ctx, kv, name, inv); err != nil {
			return fmt.Errorf("saving draft: %w", err)
		}
	}

	log.Info().
		Str("invoice", name).
		Int("polished", polished).
		Int("items", len(inv.Items)).
		Msg("Descriptions polished")

	fmt.Printf("Polished %d of %d descriptions on %s\n", polished, len(inv.Items), name)
	return nil
}
