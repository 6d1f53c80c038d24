package cmd

import (
	"github.com/spf13/cobra"

	"github.com/northbuild/necbquery/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize necbquery configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the search engine and generates a .necbquery.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
