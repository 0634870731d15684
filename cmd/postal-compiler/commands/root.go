// Package commands defines the postal-compiler CLI.
package commands

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/thaigeo/postal/cmd/postal-compiler/ui"
)

var (
	cfgFile string
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "postal-compiler",
	Short: "Compile the Thai administrative hierarchy with postal-code bindings",
	Long: `postal-compiler merges the tumbon spreadsheet (provinces, districts,
sub-districts) with postal-code assignments scraped from the Thai Wikipedia
postal-code index or the legacy Thailand Post PDF, reconciles the two by
name, and exports the bound hierarchy.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		ui.Init(noColor)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
