package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/northbuild/necbquery/internal/mcp"
	"github.com/northbuild/necbquery/internal/vectordb"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing the code corpus query tools for AI agents.`,
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

		vectors, err := loadVectors(context.Background(), cfg, embedder)
		if err != nil {
			// The keyword tools still work without vectors; say so and continue
			// with an empty store.
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			fmt.Fprintf(os.Stderr, "Semantic queries will report the index as unavailable. Run `necbquery index` first.\n")
			vectors = vectordb.NewStore(embedder)
		}

		engine := newEngine(cfg, store, vectors)

		mcpserver.Version = Version
		fmt.Fprintf(os.Stderr, "necbquery MCP server started on stdio (db=%s, model=%s)\n",
			cfg.DatabasePath, embedder.Name())

		srv := mcpserver.NewServer(store, engine)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
