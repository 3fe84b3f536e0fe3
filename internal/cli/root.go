// Package cli provides the command-line interface for the alerting application.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stonk-alerts/internal/app"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2024-01-01"
)

// NewRootCmd creates the root command for the CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stonkalerts",
		Short: "Stonk Alerts - sustained price drop notifications over Telegram",
		Long: `Stonk Alerts watches a list of ticker symbols for a sustained price drop
and sends a Telegram message when the drop from the recent peak exceeds a
configured threshold.

It is a single-run batch job meant to be invoked by cron or a systemd timer:
one pass over the tickers, one optional notification, then exit.

Use 'stonkalerts check' to run a pass.
Use 'stonkalerts config init' to generate a starter config file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "path to the config file (default: config.json)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "log debug output to stderr")

	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the CLI and returns the process exit code: 0 on a clean run,
// -1 on any fatal condition.
func Execute() int {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return app.ExitFailure
	}
	return app.ExitOK
}
