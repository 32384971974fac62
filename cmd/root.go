package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/str8builders/invoice/internal/config"
	"github.com/str8builders/invoice/internal/logger"
	"github.com/str8builders/invoice/internal/store"
	"github.com/str8builders/invoice/pkg/models"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "str8invoice",
	Short: "Build, import and export invoices from the command line",
	Long: `str8invoice keeps a local book of invoice drafts for a building
business. Line items are either labour (hours at a charge-out rate, subject
to GST and withholding tax) or expenses (materials and other pass-through
costs, untaxed).

Items can be typed in directly, imported from spreadsheets, pulled out of
free-form job notes with AI assistance, or scanned from supplier PDFs.
However an item arrives, the same calculation engine reconciles its hours,
rate and amount and keeps the invoice totals consistent.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("str8invoice - invoice builder for STR8 Builders")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}

// currentDraftKey stores the name of the draft commands operate on when no
// --invoice flag is given.
const currentDraftKey = "meta/current"

// loadConfig re-reads configuration for one command invocation.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return cfg, nil
}

// openStore opens the local draft store configured by STORE_PATH.
func openStore(cfg *config.Config) (*store.SQLiteStore, error) {
	s, err := store.Open(cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("opening store %s: %w", cfg.StorePath, err)
	}
	return s, nil
}

// resolveDraftName picks the draft a command works on: the --invoice flag
// when given, otherwise the draft most recently created or touched.
func resolveDraftName(ctx context.Context, kv store.KV, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	data, found, err := kv.Get(ctx, currentDraftKey)
	if err != nil {
		return "", err
	}
	if !found || len(data) == 0 {
		return "", fmt.Errorf("no current invoice; run 'str8invoice new' first or pass --invoice")
	}
	return string(data), nil
}

// loadWorkingDraft loads the draft a command operates on.
func loadWorkingDraft(ctx context.Context, kv store.KV, flagValue string) (models.Invoice, string, error) {
	name, err := resolveDraftName(ctx, kv, flagValue)
	if err != nil {
		return models.Invoice{}, "", err
	}
	inv, err := store.LoadDraft(ctx, kv, name)
	if err != nil {
		return models.Invoice{}, "", err
	}
	return inv, name, nil
}

// saveWorkingDraft persists an edited draft and marks it current for the
// commands that follow.
func saveWorkingDraft(ctx context.Context, kv store.KV, name string, inv models.Invoice) error {
	inv.UpdatedAt = time.Now().UTC()
	if err := store.SaveDraft(ctx, kv, name, inv); err != nil {
		return err
	}
	return kv.Set(ctx, currentDraftKey, []byte(name))
}

// commandContext returns a context that is cancelled on Ctrl+C, with a
// timeout for commands that call external services.
func commandContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	if timeout <= 0 {
		return ctx, cancel
	}
	tctx, tcancel := context.WithTimeout(ctx, timeout)
	return tctx, func() {
		tcancel()
		cancel()
	}
}
