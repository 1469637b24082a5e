// Package cli provides the Cobra-based command-line interface for tokenwatch.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "tokenwatch",
	Short: "Usage analytics for LLM-serving admin panels",
	Long: `tokenwatch records per-request LLM usage events and serves
aggregated token, cost and latency statistics for an admin dashboard.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default $XDG_CONFIG_HOME/tokenwatch/config.yaml)")
}
