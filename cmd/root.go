// Package cmd implements the capstack CLI commands.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:           "capstack",
	Short:         "Personal finance calculators and health score API",
	Long:          "CapStack scores financial health and runs loan, debt, retirement and emergency fund calculators.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Path to config.yaml (defaults apply when empty)")
}
