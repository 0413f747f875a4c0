// Package pricing resolves tickers to current market prices. The oracle
// tries the Alpha Vantage quote endpoint when a live API key is configured
// and falls back to an injected reference table on any failure of that path,
// so a price lookup never fails outward.
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"stockfolio/internal/logger"
)

const (
	alphaVantageBaseURL = "https://www.alphavantage.co/query"

	// defaultPrice is returned for tickers absent from the fallback table.
	defaultPrice = 100.0
)

// Source resolves a ticker to its current price. Implementations used on the
// write path may fail; the Oracle implementation never does.
type Source interface {
	CurrentPrice(ctx context.Context, ticker string) (float64, error)
}

// StockInfo holds the current price for a ticker plus descriptive fields
// that are populated only when the live source succeeds.
type StockInfo struct {
	Ticker       string  `json:"ticker"`
	CurrentPrice float64 `json:"current_price"`
	Name         string  `json:"name,omitempty"`
	Sector       string  `json:"sector,omitempty"`
	Industry     string  `json:"industry,omitempty"`
}

// Oracle fetches quotes from Alpha Vantage with a static reference table as
// fallback. The table is copied at construction and never mutated.
type Oracle struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string // overridable for tests
	fallback   map[string]float64
}

// NewOracle creates a price oracle. fallback maps upper-case tickers to
// reference prices; pass ReferencePrices() for the standard table.
func NewOracle(httpClient *http.Client, apiKey string, fallback map[string]float64) *Oracle {
	table := make(map[string]float64, len(fallback))
	for ticker, price := range fallback {
		table[strings.ToUpper(ticker)] = price
	}
	return &Oracle{
		httpClient: httpClient,
		apiKey:     apiKey,
		baseURL:    alphaVantageBaseURL,
		fallback:   table,
	}
}

// ReferencePrices returns the standard fallback price table.
func ReferencePrices() map[string]float64 {
	return map[string]float64{
		"IBM":   288.37,
		"AAPL":  150.25,
		"MSFT":  300.75,
		"GOOGL": 2800.50,
		"TSLA":  250.00,
		"AMZN":  3200.00,
		"META":  350.75,
		"VTI":   220.50,
		"SPY":   450.25,
	}
}

// liveEnabled reports whether the live Alpha Vantage path should be tried.
// The "demo" key only serves canned data, so it is treated as disabled.
func (o *Oracle) liveEnabled() bool {
	return o.apiKey != "" && o.apiKey != "demo"
}

// CurrentPrice returns the current price for the ticker. The live source is
// tried first when enabled; any failure there falls back to the reference
// table, and unknown tickers resolve to a fixed default price. The returned
// error is always nil and exists only to satisfy the Source contract.
func (o *Oracle) CurrentPrice(ctx context.Context, ticker string) (float64, error) {
	upper := strings.ToUpper(ticker)

	if o.liveEnabled() {
		price, err := o.fetchQuote(ctx, upper)
		if err == nil {
			return price, nil
		}
		logger.Get().Warnw("live quote failed, using reference price",
			"ticker", upper,
			"error", err.Error(),
		)
	}

	if price, ok := o.fallback[upper]; ok {
		return price, nil
	}
	logger.Get().Warnw("unknown ticker, using default price", "ticker", upper)
	return defaultPrice, nil
}

// StockInfo returns the current price plus best-effort descriptive fields.
// The descriptive lookup is skipped when the live source is disabled and
// silently omitted when it fails.
func (o *Oracle) StockInfo(ctx context.Context, ticker string) *StockInfo {
	upper := strings.ToUpper(ticker)

	price, _ := o.CurrentPrice(ctx, upper)
	info := &StockInfo{Ticker: upper, CurrentPrice: price}

	if !o.liveEnabled() {
		return info
	}

	overview, err := o.fetchOverview(ctx, upper)
	if err != nil {
		logger.Get().Warnw("overview lookup failed",
			"ticker", upper,
			"error", err.Error(),
		)
		return info
	}
	info.Name = overview.Name
	info.Sector = overview.Sector
	info.Industry = overview.Industry
	return info
}

// quoteResponse is the Alpha Vantage GLOBAL_QUOTE payload. The quote object
// keys its fields with numbered labels like "05. price".
type quoteResponse struct {
	GlobalQuote map[string]string `json:"Global Quote"`
}

// overviewResponse is the subset of the Alpha Vantage OVERVIEW payload we use.
type overviewResponse struct {
	Name     string `json:"Name"`
	Sector   string `json:"Sector"`
	Industry string `json:"Industry"`
}

func (o *Oracle) fetchQuote(ctx context.Context, ticker string) (float64, error) {
	body, err := o.get(ctx, "GLOBAL_QUOTE", ticker)
	if err != nil {
		return 0, err
	}

	var quote quoteResponse
	if err := json.Unmarshal(body, &quote); err != nil {
		return 0, fmt.Errorf("decoding quote response: %w", err)
	}
	if len(quote.GlobalQuote) == 0 {
		return 0, fmt.Errorf("no quote data for %s", ticker)
	}

	raw, ok := quote.GlobalQuote["05. price"]
	if !ok || raw == "" {
		return 0, fmt.Errorf("price field missing for %s", ticker)
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing price %q: %w", raw, err)
	}
	return price, nil
}

func (o *Oracle) fetchOverview(ctx context.Context, ticker string) (*overviewResponse, error) {
	body, err := o.get(ctx, "OVERVIEW", ticker)
	if err != nil {
		return nil, err
	}

	var overview overviewResponse
	if err := json.Unmarshal(body, &overview); err != nil {
		return nil, fmt.Errorf("decoding overview response: %w", err)
	}
	if overview.Name == "" {
		return nil, fmt.Errorf("no overview data for %s", ticker)
	}
	return &overview, nil
}

// get performs a single bounded request against the Alpha Vantage API.
// There is no retry; the transport timeout is the only bound.
func (o *Oracle) get(ctx context.Context, function, ticker string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s?function=%s&symbol=%s&apikey=%s",
		o.baseURL, function, url.QueryEscape(ticker), url.QueryEscape(o.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	// Alpha Vantage reports errors and rate limiting inside a 200 response.
	if strings.Contains(string(body), "Error Message") || strings.Contains(string(body), "Invalid API call") {
		return nil, fmt.Errorf("api error for %s", ticker)
	}
	return body, nil
}
