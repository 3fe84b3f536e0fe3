// Package models contains the core data structures for the alerting application.
package models

import (
	"time"

	"stonk-alerts/internal/errors"
)

// ClosingPrice represents the closing price of a security for one trading day.
type ClosingPrice struct {
	Date  time.Time
	Close float64
}

// PriceHistory is a daily closing-price series ordered oldest to newest.
// It is fetched fresh for every run and never cached.
type PriceHistory []ClosingPrice

// CloseFromLatest returns the n-th-from-last closing price, where n=1 is the
// most recent sample. It returns ErrInsufficientHistory when the series holds
// fewer than n samples, so short histories fail loudly instead of indexing
// into the wrong element.
func (h PriceHistory) CloseFromLatest(n int) (float64, error) {
	if n < 1 {
		return 0, errors.Wrapf(errors.ErrInsufficientHistory, "offset %d is not positive", n)
	}
	if n > len(h) {
		return 0, errors.Wrapf(errors.ErrInsufficientHistory, "need %d samples, have %d", n, len(h))
	}
	return h[len(h)-n].Close, nil
}

// MaxClose returns the highest closing price in the series.
func (h PriceHistory) MaxClose() (float64, error) {
	if len(h) == 0 {
		return 0, errors.ErrNoData
	}
	max := h[0].Close
	for _, p := range h[1:] {
		if p.Close > max {
			max = p.Close
		}
	}
	return max, nil
}

// DropReport describes one ticker that crossed the drop threshold.
type DropReport struct {
	Symbol         string  `json:"symbol"`
	PriceToday     float64 `json:"price_today"`
	PeakPrice      float64 `json:"peak_price"`
	PercentDropped float64 `json:"percent_dropped"` // negative: drop from peak
}
