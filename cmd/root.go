package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "necbquery",
	Short: "Hybrid search over the National Energy Code for Buildings",
	Long: `necbquery indexes scraped NECB editions (sections, tables, and
extracted requirements) and answers natural-language and keyword
queries against them, combining SQLite full-text search with vector
similarity search fused by Reciprocal Rank Fusion. The query surface
is exposed as MCP tools for AI agents and as CLI commands.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".necbquery.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
