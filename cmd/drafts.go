package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/str8builders/invoice/internal/logger"
	"github.com/str8builders/invoice/internal/store"
)

var draftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "List saved invoice drafts",
	Example: `  # See every saved draft
  str8invoice drafts

  # Discard an abandoned draft
  str8invoice drafts --delete STR8-20240315-02`,
	Args: cobra.NoArgs,
	RunE: runDrafts,
}

func init() {
	rootCmd.AddCommand(draftsCmd)

	draftsCmd.Flags().String("delete", "", "Delete the named draft instead of listing")
}

func runDrafts(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("drafts")

	deleteName, _ := cmd.Flags().GetString("delete")

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

	if deleteName != "" {
		if err := store.DeleteDraft(ctx, kv, deleteName); err != nil {
			return fmt.Errorf("deleting draft %s: %w", deleteName, err)
		}
		log.Info().Str("invoice", deleteName).Msg("Draft deleted")
		fmt.Printf("Deleted draft %s\n", deleteName)
		return nil
	}

	names, err := store.ListDrafts(ctx, kv)
	if err != nil {
		return fmt.Errorf("listing drafts: %w", err)
	}
	if len(names) == 0 {
		fmt.Println("No saved drafts.")
		return nil
	}

	current, _ := resolveDraftName(ctx, kv, "")
	for _, name := range names {
		marker := " "
		if name == current {
			marker = "*"
		}
		fmt.Printf("%s %s\n", marker, name)
	}
	return nil
}
