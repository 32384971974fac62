package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/str8builders/invoice/internal/ai"
	"github.com/str8builders/invoice/internal/billing"
	"github.com/str8builders/invoice/internal/config"
	"github.com/str8builders/invoice/internal/docext"
	"github.com/str8builders/invoice/internal/logger"
	"github.com/str8builders/invoice/internal/ocr"
)

var scanCmd = &cobra.Command{
	Use:   "scan [pdf-file]",
	Short: "Pull line items out of a supplier invoice or receipt",
	Long: `Scan a supplier PDF (or a JPEG/PNG photo of a receipt) and append its
line items to an invoice draft.

Documents go through Google Document AI's invoice parser first; transient
API failures are retried with backoff. When the parser is not configured or
finds no line items, the document falls back to plain OCR and the AI item
extractor. Either way the detected rows run through the standard
normalisation before they reach the draft.

Requires Document AI settings (GOOGLE_CLOUD_PROJECT,
DOCUMENT_AI_PROCESSOR_ID) or OPENAI_API_KEY for the OCR fallback.`,
	Example: `  # Scan a supplier invoice
  str8invoice scan bunnings-invoice.pdf

  # Scan with a longer timeout
  str8invoice scan big-statement.pdf --timeout 180`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().String("invoice", "", "Invoice number to add to (default: current)")
	scanCmd.Flags().Int("timeout", 120, "Processing timeout in seconds")
}

func runScan(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("scan")

	invoiceName, _ := cmd.Flags().GetString("invoice")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")
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

	ctx, cancel := commandContext(time.Duration(timeoutSecs) * time.Second)
	defer cancel()

	inv, name, err := loadWorkingDraft(ctx, kv, invoiceName)
	if err != nil {
		return err
	}

	extractor, err := buildExtractor(cmd, cfg)
	if err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	log.Info().
		Str("invoice", name).
		Str("file", path).
		Msg("Scanning document for line items")

	records, err := extractor.ExtractRecords(ctx, file)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", path, err)
	}
	if len(records) == 0 {
		fmt.Println("No line items found in the document.")
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
		Msg("Added scanned line items")

	for _, item := range items {
		fmt.Printf("Added %s: %s - %s\n", item.Category, item.Description, billing.FormatNZD(item.Amount))
	}
	return nil
}

// buildExtractor assembles whichever extraction paths configuration allows:
// structured Document AI parsing, an OCR+AI fallback, or both.
func buildExtractor(cmd *cobra.Command, cfg *config.Config) (docext.Service, error) {
	ctx := cmd.Context()

	var structured docext.Service
	if cfg.RequireDocumentAI() == nil {
		s, err := docext.NewDocumentAIExtractor(ctx, docext.Config{
			ProjectID:   cfg.GoogleCloudProject,
			Location:    cfg.GoogleCloudLocation,
			ProcessorID: cfg.DocumentAIProcessorID,
		}, cfg.GoogleServiceAccountKey)
		if err != nil {
			return nil, err
		}
		structured = s
	}

	var scanner ocr.Service
	var items docext.TextExtractor
	if cfg.RequireOpenAI() == nil {
		v, err := ocr.NewVisionService(ctx, cfg.GoogleServiceAccountKey)
		if err == nil {
			scanner = v
			assistant, aiErr := ai.NewService(cfg.OpenAIAPIKey, cfg.OpenAIModel)
			if aiErr == nil {
				items = assistant
			}
		}
	}

	if structured == nil && (scanner == nil || items == nil) {
		return nil, fmt.Errorf("scanning needs Document AI settings or OPENAI_API_KEY; see 'str8invoice scan --help'")
	}
	return docext.NewFallbackExtractor(structured, scanner, items), nil
}
