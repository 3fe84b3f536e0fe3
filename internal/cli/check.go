package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"stonk-alerts/internal/app"
	"stonk-alerts/internal/config"
	"stonk-alerts/internal/logging"
	"stonk-alerts/internal/marketdata"
	"stonk-alerts/internal/notify"
)

// newCheckCmd creates the check command, the single-run batch pass.
func newCheckCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run the drop check once and alert on qualifying tickers",
		Long: `Fetch recent daily closing prices for every configured ticker, detect
sustained drops exceeding the threshold, and send the combined alert to the
configured Telegram chat. When nothing qualifies, probe the market data
provider so a silent run is distinguishable from provider downtime.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			debug, _ := cmd.Flags().GetBool("debug")

			// Config errors abort before any network activity.
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			logCfg := logging.DefaultLogConfig(cfg.LoggingEnabled, cfg.LogFileName)
			logCfg.Console = debug
			logger, err := logging.New(logCfg)
			if err != nil {
				return fmt.Errorf("setting up logging: %w", err)
			}

			application := &app.App{
				Config:   cfg,
				Provider: marketdata.NewYahooProvider(logger),
				Notifier: notify.NewTelegramNotifier(cfg.TelegramBotID, cfg.TelegramChatID, logger),
				Logger:   logger,
				DryRun:   dryRun,
			}

			result := application.Run(cmd.Context())

			out := NewOutput(cmd)
			if out.IsJSON() {
				if err := out.JSON(result); err != nil {
					return err
				}
			} else {
				renderRunResult(out, result, dryRun)
			}

			if result.ExitCode != app.ExitOK {
				return errors.New(result.FailureReason)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the alert message without sending it")
	return cmd
}

func renderRunResult(out *Output, result *app.RunResult, dryRun bool) {
	if len(result.Reports) == 0 {
		out.Info("No tickers crossed the drop threshold")
		return
	}

	out.Printf("%-10s %12s %12s %10s\n", "Symbol", "Today", "Peak", "Drop")
	for _, r := range result.Reports {
		out.Printf("%-10s %12.2f %12.2f %9.2f%%\n", r.Symbol, r.PriceToday, r.PeakPrice, -r.PercentDropped)
	}

	switch {
	case dryRun:
		out.Warning("Dry run, alert not sent")
	case result.Sent:
		out.Success("Alert sent")
	default:
		out.Error("Alert delivery failed")
	}
}
