// Package detector implements the sustained price drop check.
package detector

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"stonk-alerts/internal/logging"
	"stonk-alerts/internal/marketdata"
	"stonk-alerts/internal/models"
)

// Params holds the three tuning knobs of the drop check.
type Params struct {
	// RecentPeak is the lookback window in days for the peak search.
	RecentPeak int
	// RecentTrend is the lookback window in days for the trend gate.
	// Must not exceed RecentPeak.
	RecentTrend int
	// DropThreshold is the alert threshold in percent, as a positive number.
	DropThreshold float64
}

// Detector decides which tickers dropped far enough to alert on.
type Detector struct {
	provider marketdata.Provider
	params   Params
	logger   zerolog.Logger
}

// New creates a Detector.
func New(provider marketdata.Provider, params Params, logger zerolog.Logger) *Detector {
	return &Detector{
		provider: provider,
		params:   params,
		logger:   logger,
	}
}

// Detect runs the drop check over all tickers and returns the combined alert
// message, one line per qualifying ticker in input order. An empty string
// means nothing to report.
func (d *Detector) Detect(ctx context.Context, tickers []string) string {
	return Message(d.Scan(ctx, tickers))
}

// Scan evaluates each ticker sequentially and returns the qualifying drops in
// input order. A single ticker's failure is logged and skipped; it never
// aborts the scan.
func (d *Detector) Scan(ctx context.Context, tickers []string) []models.DropReport {
	var reports []models.DropReport
	for _, symbol := range tickers {
		logger := logging.WithSymbol(d.logger, symbol)
		report, ok, err := d.scanTicker(ctx, symbol, logger)
		if err != nil {
			logger.Error().Err(err).Msg("Skipping ticker")
			continue
		}
		if ok {
			reports = append(reports, report)
		}
	}
	return reports
}

// scanTicker fetches one ticker's history and applies the trend gate and the
// drawdown threshold. ok is false when the ticker does not qualify.
func (d *Detector) scanTicker(ctx context.Context, symbol string, logger zerolog.Logger) (models.DropReport, bool, error) {
	history, err := d.provider.DailyCloses(ctx, symbol, d.params.RecentPeak)
	if err != nil {
		return models.DropReport{}, false, err
	}

	priceToday, err := history.CloseFromLatest(1)
	if err != nil {
		return models.DropReport{}, false, err
	}
	priceTrendAgo, err := history.CloseFromLatest(d.params.RecentTrend)
	if err != nil {
		return models.DropReport{}, false, err
	}

	// Rising over the trend window means this is not a qualifying downward
	// trend, however large the drawdown from the peak is.
	if priceTrendAgo < priceToday {
		logger.Debug().
			Float64("price_today", priceToday).
			Float64("price_trend_ago", priceTrendAgo).
			Int("trend_days", d.params.RecentTrend).
			Msg("Price is rising over the trend window, skipping")
		return models.DropReport{}, false, nil
	}

	maxPrice, err := history.MaxClose()
	if err != nil {
		return models.DropReport{}, false, err
	}

	percentDropped := (priceToday - maxPrice) / maxPrice * 100
	logger.Debug().
		Float64("max_price", maxPrice).
		Float64("price_today", priceToday).
		Float64("percent_dropped", percentDropped).
		Msg("Drawdown computed")

	if percentDropped >= -d.params.DropThreshold {
		return models.DropReport{}, false, nil
	}

	return models.DropReport{
		Symbol:         symbol,
		PriceToday:     priceToday,
		PeakPrice:      maxPrice,
		PercentDropped: percentDropped,
	}, true, nil
}

// Message renders the combined alert message, one line per report.
func Message(reports []models.DropReport) string {
	var b strings.Builder
	for _, r := range reports {
		b.WriteString(fmt.Sprintf("%s dropped %s%%\n", r.Symbol, formatDropMagnitude(r.PercentDropped)))
	}
	return b.String()
}

// formatDropMagnitude renders the positive drop magnitude rounded to two
// decimal places, trimming a trailing zero but keeping at least one decimal:
// -20 renders as "20.0", -20.55 as "20.55".
func formatDropMagnitude(percentDropped float64) string {
	magnitude := math.Round(-percentDropped*100) / 100
	s := strconv.FormatFloat(magnitude, 'f', 2, 64)
	if strings.HasSuffix(s, "0") {
		s = s[:len(s)-1]
	}
	return s
}
