package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"stonk-alerts/internal/errors"
	"stonk-alerts/internal/models"
)

const defaultChartBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// YahooProvider fetches daily price history from the Yahoo Finance chart API.
type YahooProvider struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewYahooProvider creates a YahooProvider with a default HTTP client.
func NewYahooProvider(logger zerolog.Logger) *YahooProvider {
	return &YahooProvider{
		baseURL: defaultChartBaseURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

// NewYahooProviderWithBaseURL creates a YahooProvider against a custom
// endpoint. Used by tests.
func NewYahooProviderWithBaseURL(baseURL string, client *http.Client, logger zerolog.Logger) *YahooProvider {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &YahooProvider{
		baseURL: baseURL,
		client:  client,
		logger:  logger,
	}
}

// chartResponse mirrors the subset of the Yahoo v8 chart payload this
// application reads. Quote fields are pointer slices because the API emits
// nulls for days with no data.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string  `json:"currency"`
				Symbol             string  `json:"symbol"`
				ExchangeName       string  `json:"exchangeName"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// DailyCloses fetches the closing-price history for the last `days` calendar
// days, ordered oldest to newest.
func (p *YahooProvider) DailyCloses(ctx context.Context, symbol string, days int) (models.PriceHistory, error) {
	body, err := p.fetchChart(ctx, symbol, fmt.Sprintf("%dd", days))
	if err != nil {
		return nil, err
	}
	return p.parseHistory(symbol, body)
}

// Probe fetches one day of chart metadata for the symbol.
func (p *YahooProvider) Probe(ctx context.Context, symbol string) error {
	body, err := p.fetchChart(ctx, symbol, "1d")
	if err != nil {
		return errors.Wrap(errors.ErrProviderUnavailable, err.Error())
	}

	var resp chartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return errors.Wrap(errors.ErrProviderUnavailable, err.Error())
	}
	if resp.Chart.Error != nil {
		return errors.Wrapf(errors.ErrProviderUnavailable, "%s: %s",
			resp.Chart.Error.Code, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 || resp.Chart.Result[0].Meta.Symbol == "" {
		return errors.Wrapf(errors.ErrProviderUnavailable, "no metadata for %s", symbol)
	}
	return nil
}

func (p *YahooProvider) fetchChart(ctx context.Context, symbol, rangeStr string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s?interval=1d&range=%s&includePrePost=false", p.baseURL, symbol, rangeStr)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.NewDataError("chart", symbol, "creating request", err)
	}
	req.Header.Set("User-Agent", "stonk-alerts/1.0")

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errors.NewDataError("chart", symbol, "request failed", err)
	}
	defer resp.Body.Close()

	p.logger.Debug().
		Str("symbol", symbol).
		Str("range", rangeStr).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Chart API call")

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.NewDataError("chart", symbol, "unknown symbol", errors.ErrSymbolNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewDataError("chart", symbol,
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewDataError("chart", symbol, "reading response", err)
	}
	return body, nil
}

func (p *YahooProvider) parseHistory(symbol string, body []byte) (models.PriceHistory, error) {
	var resp chartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.NewDataError("chart", symbol, "decoding response", err)
	}

	if resp.Chart.Error != nil {
		return nil, errors.NewDataError("chart", symbol,
			fmt.Sprintf("api error %s: %s", resp.Chart.Error.Code, resp.Chart.Error.Description), nil)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, errors.NewDataError("chart", symbol, "empty result", errors.ErrNoData)
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, errors.NewDataError("chart", symbol, "no quote data", errors.ErrNoData)
	}

	closes := result.Indicators.Quote[0].Close
	if len(result.Timestamp) != len(closes) {
		return nil, errors.NewDataError("chart", symbol, "timestamp/close length mismatch", nil)
	}

	history := make(models.PriceHistory, 0, len(closes))
	for i, ts := range result.Timestamp {
		// The API emits null closes for holidays and partial days.
		if closes[i] == nil || *closes[i] <= 0 {
			continue
		}
		history = append(history, models.ClosingPrice{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *closes[i],
		})
	}

	if len(history) == 0 {
		return nil, errors.NewDataError("chart", symbol, "no usable data points", errors.ErrNoData)
	}

	sort.Slice(history, func(i, j int) bool {
		return history[i].Date.Before(history[j].Date)
	})

	p.logger.Debug().
		Str("symbol", symbol).
		Int("points", len(history)).
		Time("first", history[0].Date).
		Time("last", history[len(history)-1].Date).
		Msg("Fetched price history")

	return history, nil
}
