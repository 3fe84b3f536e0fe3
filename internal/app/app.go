// Package app wires the detector and notifier into a single batch run.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"stonk-alerts/internal/config"
	"stonk-alerts/internal/detector"
	"stonk-alerts/internal/marketdata"
	"stonk-alerts/internal/models"
	"stonk-alerts/internal/notify"
)

// Process exit codes. The run always terminates with one of these two.
const (
	ExitOK      = 0
	ExitFailure = -1
)

// App holds the run dependencies. The provider and notifier are interfaces so
// tests can substitute fakes.
type App struct {
	Config   *config.Config
	Provider marketdata.Provider
	Notifier notify.Notifier
	Logger   zerolog.Logger
	DryRun   bool
}

// RunResult summarizes one pass for the caller.
type RunResult struct {
	Reports       []models.DropReport `json:"reports"`
	Message       string              `json:"message"`
	Sent          bool                `json:"sent"`
	ExitCode      int                 `json:"exit_code"`
	FailureReason string              `json:"failure_reason,omitempty"`
}

// Run performs exactly one pass: scan all tickers, deliver the alert if any
// ticker qualified, otherwise probe the provider so silence is
// distinguishable from provider downtime.
func (a *App) Run(ctx context.Context) *RunResult {
	det := detector.New(a.Provider, detector.Params{
		RecentPeak:    a.Config.RecentPeak,
		RecentTrend:   a.Config.RecentTrend,
		DropThreshold: a.Config.PercentDropped,
	}, a.Logger)

	reports := det.Scan(ctx, a.Config.Tickers)
	message := detector.Message(reports)

	result := &RunResult{
		Reports: reports,
		Message: message,
	}

	if message != "" {
		if a.DryRun {
			a.Logger.Info().Str("message", message).Msg("Dry run, skipping delivery")
			result.ExitCode = ExitOK
			return result
		}

		a.Logger.Debug().Str("message", message).Msg("Attempting to send alert")
		if err := a.Notifier.Send(ctx, message); err != nil {
			a.Logger.Error().Err(err).Msg("Failed to deliver alert")
			result.ExitCode = ExitFailure
			result.FailureReason = fmt.Sprintf("delivering alert: %v", err)
			return result
		}
		result.Sent = true
		result.ExitCode = ExitOK
		return result
	}

	// Nothing to report. Probe the provider so a silent run is not mistaken
	// for a healthy one while the data source is down.
	if err := a.Provider.Probe(ctx, marketdata.ReferenceSymbol); err != nil {
		a.Logger.WithLevel(zerolog.FatalLevel).Err(err).Msg("Failed to reach market data provider")
		outage := fmt.Sprintf("Failed to reach market data provider. Error: %v", err)
		// Best effort: the outage notification's own failure is not escalated
		// further, the exit code already reports the outage.
		if !a.DryRun {
			if sendErr := a.Notifier.Send(ctx, outage); sendErr != nil {
				a.Logger.Error().Err(sendErr).Msg("Failed to deliver outage notification")
			} else {
				result.Sent = true
			}
		}
		result.ExitCode = ExitFailure
		result.FailureReason = outage
		return result
	}

	result.ExitCode = ExitOK
	return result
}
