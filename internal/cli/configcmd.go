package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"stonk-alerts/internal/config"
)

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigValidateCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				path = config.DefaultConfigFile
			}

			if err := config.WriteTemplate(path); err != nil {
				return err
			}

			color.Green("Created %s", path)
			color.Yellow("💡 Fill in telegramBotId and telegramChatId before running 'stonkalerts check'")
			return nil
		},
	}
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and validate the config file without running a check",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}

			color.Green("Config OK: %d tickers, peak window %dd, trend window %dd, threshold %.2f%%",
				len(cfg.Tickers), cfg.RecentPeak, cfg.RecentTrend, cfg.PercentDropped)
			return nil
		},
	}
}
