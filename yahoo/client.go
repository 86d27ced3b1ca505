// Package yahoo fetches daily price history from the Yahoo Finance chart API.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/backtester/market"
)

const (
	// DefaultBaseURL is the public Yahoo Finance query host.
	DefaultBaseURL = "https://query1.finance.yahoo.com"

	// Yahoo rejects requests with Go's default agent string.
	userAgent = "Mozilla/5.0 (compatible; backtester/1.0)"
)

// validSymbol matches tickers like AAPL, MSFT, 600519.SS, 0700.HK
var validSymbol = regexp.MustCompile(`^[A-Za-z0-9]{1,10}(\.[A-Za-z]{1,4})?$`)

// validateSymbol checks if a symbol has valid format
func validateSymbol(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	if !validSymbol.MatchString(symbol) {
		return fmt.Errorf("invalid symbol format: %s", symbol)
	}
	return nil
}

// Client represents a Yahoo Finance chart API client
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient creates a new Yahoo Finance client
func NewClient(log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: log,
	}
}

// chartResponse represents the chart API response envelope
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int64    `json:"timestamp"`
	Indicators indicators `json:"indicators"`
}

type indicators struct {
	Quote []quoteIndicator `json:"quote"`
}

// quoteIndicator carries the OHLCV arrays; entries are nil on days Yahoo has
// no value for (halts, partial sessions).
type quoteIndicator struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

// FetchDaily fetches the daily bars for symbol in [from, to], oldest first.
// Days without a close are skipped. When the window holds no usable bars the
// returned error wraps market.ErrNoData.
func (c *Client) FetchDaily(ctx context.Context, symbol string, from, to time.Time) (market.Series, error) {
	if err := validateSymbol(symbol); err != nil {
		return nil, err
	}

	// Build URL
	apiURL := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		c.baseURL, symbol, from.Unix(), to.Unix())

	// Create HTTP request
	req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	c.log.Debug("fetching daily bars",
		zap.String("symbol", symbol),
		zap.Time("from", from),
		zap.Time("to", to))

	// Execute request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	// Check status code
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("symbol %s: %w", symbol, market.ErrNoData)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	// Parse response
	var apiResp chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return barsFromChart(symbol, &apiResp)
}

// barsFromChart converts a chart response into a validated daily series.
func barsFromChart(symbol string, apiResp *chartResponse) (market.Series, error) {
	if apiResp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo error for %s: %s", symbol, apiResp.Chart.Error.Description)
	}
	if len(apiResp.Chart.Result) == 0 || len(apiResp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("symbol %s: %w", symbol, market.ErrNoData)
	}

	r := apiResp.Chart.Result[0]
	quote := r.Indicators.Quote[0]

	series := make(market.Series, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		// Skip days with missing data
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}

		bar := market.Bar{
			Date:  time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Close: *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			bar.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			bar.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			bar.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		series = append(series, bar)
	}

	if len(series) == 0 {
		return nil, fmt.Errorf("symbol %s: %w", symbol, market.ErrNoData)
	}
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("yahoo data for %s: %w", symbol, err)
	}
	return series, nil
}
