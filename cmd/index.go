package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/northbuild/necbquery/internal/indexer"
	"github.com/northbuild/necbquery/internal/progress"
)

var indexVintage string

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build or rebuild the vector index for a corpus vintage",
	Long: `Embeds every document unit of a vintage and swaps the result in as
the vintage's semantic index. The job is resumable: embeddings already
computed by an interrupted run are reused from a checkpoint, and the
index only becomes visible once the whole vintage commits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		embedder, err := createEmbedderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating embedder: %w", err)
		}

		d, store, err := openStore(cfg)
		if err != nil {
			return fmt.Errorf("opening corpus: %w", err)
		}
		defer d.Close()

		ctx := context.Background()
		vectors, err := loadVectors(ctx, cfg, embedder)
		if err != nil {
			return err
		}

		ix := indexer.New(store, vectors, embedder, cfg.Index.BatchSize, cfg.Index.StateDir, progress.NewReporter())

		summary, err := ix.IndexVintage(ctx, indexVintage)
		if err != nil {
			return err
		}

		if err := vectors.Persist(ctx, cfg.VectorDir); err != nil {
			return fmt.Errorf("persisting vector store: %w", err)
		}

		fmt.Printf("Indexed vintage %s: %d units (%d embedded, %d resumed) with %s in %s\n",
			summary.Vintage, summary.Units, summary.Embedded, summary.Resumed, summary.Model, summary.Duration.Round(time.Millisecond))
		return nil
	},
}

func init() {
	indexCmd.Flags().StringVar(&indexVintage, "vintage", "2020", "corpus vintage to index")
	rootCmd.AddCommand(indexCmd)
}
