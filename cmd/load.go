package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/northbuild/necbquery/internal/ingest"
)

var loadCmd = &cobra.Command{
	Use:   "load <snapshot.json>...",
	Short: "Load scraped corpus snapshots into the database",
	Long: `Imports one or more vintage snapshots produced by the scraping
pipeline. Each snapshot replaces its vintage atomically: queries see
the old edition until the import commits.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		d, store, err := openStore(cfg)
		if err != nil {
			return fmt.Errorf("opening corpus: %w", err)
		}
		defer d.Close()

		ctx := context.Background()
		for _, path := range args {
			snap, err := ingest.ReadSnapshotFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			if err := store.ReplaceVintage(ctx, *snap); err != nil {
				return fmt.Errorf("importing %s: %w", path, err)
			}
			fmt.Printf("Loaded vintage %s: %d sections, %d tables, %d requirements\n",
				snap.Vintage, len(snap.Sections), len(snap.Tables), len(snap.Requirements))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
}
