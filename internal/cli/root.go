// Package cli implements the relaywarden command line interface.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "relaywarden",
	Short: "Remote-side authority for relayed cross-domain instructions",
	Long:  "Authenticates instructions relayed from another domain, forwards approved calls to their targets verbatim, and keeps a tamper-evident ledger of every ownership and recovery change.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to config YAML (default ~/.relaywarden/config.yaml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
