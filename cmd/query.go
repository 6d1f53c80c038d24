package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/northbuild/necbquery/internal/search"
)

var (
	queryVintage     string
	queryTopK        int
	queryKeywordOnly bool
	queryNoExpansion bool
)

var queryCmd = &cobra.Command{
	Use:   "query <text>...",
	Short: "Search the corpus from the command line",
	Long: `Runs a hybrid search (or pure keyword search with --keyword) against
one vintage and prints the ranked results. Useful for debugging the
index without an MCP client.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		queryText := strings.Join(args, " ")

		d, store, err := openStore(cfg)
		if err != nil {
			return fmt.Errorf("opening corpus: %w", err)
		}
		defer d.Close()

		ctx := context.Background()

		if queryKeywordOnly {
			hits, err := store.KeywordSearch(ctx, queryText, queryVintage, "", queryTopK)
			if err != nil {
				return err
			}
			for _, h := range hits {
				fmt.Printf("%2d. [%s] %s (vintage %s)\n", h.Rank, h.Kind, h.Title, h.Vintage)
			}
			if len(hits) == 0 {
				fmt.Println("No results.")
			}
			return nil
		}

		embedder, err := createEmbedderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating embedder: %w", err)
		}
		vectors, err := loadVectors(ctx, cfg, embedder)
		if err != nil {
			return err
		}
		engine := newEngine(cfg, store, vectors)

		resp, err := engine.Search(ctx, queryVintage, queryText, queryTopK, !queryNoExpansion)
		if err != nil {
			if errors.Is(err, search.ErrSemanticIndexUnavailable) {
				return fmt.Errorf("no vector index for vintage %s; run `necbquery index --vintage %s` first", queryVintage, queryVintage)
			}
			return err
		}

		if resp.Mode == search.ModeKeywordOnly {
			fmt.Printf("(semantic leg unavailable: %s)\n", resp.DegradedCause)
		}
		if verbose && resp.ExpandedQuery != queryText {
			fmt.Printf("Expanded query: %s\n", resp.ExpandedQuery)
		}
		for i, r := range resp.Results {
			fmt.Printf("%2d. [%s] %s", i+1, r.Kind, r.Title)
			if r.Locator != "" {
				fmt.Printf(" (%s)", r.Locator)
			}
			fmt.Printf("  score=%.4f kw=%s sem=%s\n", r.Score, rankString(r.KeywordRank), rankString(r.SemanticRank))
		}
		if len(resp.Results) == 0 {
			fmt.Println("No results.")
		}
		return nil
	},
}

func rankString(rank int) string {
	if rank == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", rank)
}

func init() {
	queryCmd.Flags().StringVar(&queryVintage, "vintage", "2020", "corpus vintage to search")
	queryCmd.Flags().IntVar(&queryTopK, "top-k", 10, "number of results")
	queryCmd.Flags().BoolVar(&queryKeywordOnly, "keyword", false, "keyword search only, no embedding call")
	queryCmd.Flags().BoolVar(&queryNoExpansion, "no-expansion", false, "skip query understanding")
	rootCmd.AddCommand(queryCmd)
}
