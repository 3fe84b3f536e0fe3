package detector

import (
	"context"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/rs/zerolog"

	"stonk-alerts/internal/models"
)

// Property 1: a ticker whose price rose over the trend window never appears
// in the message, regardless of drawdown magnitude or threshold.
//
// Property 2: raising the threshold never adds lines to the message.

// closesGen generates a daily close series long enough for the trend window.
func closesGen(minLen, maxLen int) gopter.Gen {
	return gen.SliceOfN(maxLen, gen.Float64Range(1.0, 1000.0)).Map(func(closes []float64) []float64 {
		for len(closes) < minLen {
			closes = append(closes, closes[len(closes)-1])
		}
		return closes
	})
}

func detectorFor(closes []float64, trend int, threshold float64) *Detector {
	provider := &fakeProvider{histories: map[string]models.PriceHistory{
		"PROP": historyFromCloses(closes...),
	}}
	return New(provider, Params{
		RecentPeak:    len(closes),
		RecentTrend:   trend,
		DropThreshold: threshold,
	}, zerolog.Nop())
}

func TestRisingTrendNeverAlerts(t *testing.T) {
	const trendWindow = 3

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("rising trend is always gated out", prop.ForAll(
		func(closes []float64, threshold float64) bool {
			today := closes[len(closes)-1]
			trendAgo := closes[len(closes)-trendWindow]
			if trendAgo >= today {
				return true // not a rising trend, property does not apply
			}

			d := detectorFor(closes, trendWindow, threshold)
			message := d.Detect(context.Background(), []string{"PROP"})
			return message == ""
		},
		closesGen(trendWindow, 40),
		gen.Float64Range(0.01, 90.0),
	))

	properties.TestingRun(t)
}

func TestHigherThresholdNeverAddsLines(t *testing.T) {
	const trendWindow = 3

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("alert lines shrink as the threshold grows", prop.ForAll(
		func(closes []float64, threshold, bump float64) bool {
			low := detectorFor(closes, trendWindow, threshold)
			high := detectorFor(closes, trendWindow, threshold+bump)

			lowLines := strings.Count(low.Detect(context.Background(), []string{"PROP"}), "\n")
			highLines := strings.Count(high.Detect(context.Background(), []string{"PROP"}), "\n")
			return highLines <= lowLines
		},
		closesGen(trendWindow, 40),
		gen.Float64Range(0.01, 90.0),
		gen.Float64Range(0.01, 50.0),
	))

	properties.TestingRun(t)
}

func TestReportedDropAlwaysExceedsThreshold(t *testing.T) {
	const trendWindow = 3

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("every report is strictly beyond the threshold", prop.ForAll(
		func(closes []float64, threshold float64) bool {
			d := detectorFor(closes, trendWindow, threshold)
			reports := d.Scan(context.Background(), []string{"PROP"})
			for _, r := range reports {
				if !(r.PercentDropped < -threshold) {
					return false
				}
			}
			return true
		},
		closesGen(trendWindow, 40),
		gen.Float64Range(0.01, 90.0),
	))

	properties.TestingRun(t)
}
