// Package cmd implements the CLI commands for the lagerkoll server.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "lagerkoll",
	Short: "Track retail stock availability",
	Long: "An API-first service that tracks product availability across retail " +
		"stores, keeps an append-only snapshot history per item, and sends " +
		"email alerts when stock crosses configured thresholds.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.AddCommand(versionCommand())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
