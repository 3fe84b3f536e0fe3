// Package marketdata provides access to daily price history for securities.
package marketdata

import (
	"context"

	"stonk-alerts/internal/models"
)

// ReferenceSymbol is a liquid, always-listed symbol used to probe whether the
// provider itself is reachable when there is nothing else to report.
const ReferenceSymbol = "SPY"

// Provider defines the interface for a daily market data source.
type Provider interface {
	// DailyCloses fetches the closing-price history for the last `days`
	// calendar days, ordered oldest to newest.
	DailyCloses(ctx context.Context, symbol string, days int) (models.PriceHistory, error)

	// Probe performs a minimal metadata fetch for the symbol to verify the
	// provider is reachable. A probe failure means a systemic outage, not a
	// problem with any particular ticker.
	Probe(ctx context.Context, symbol string) error
}
