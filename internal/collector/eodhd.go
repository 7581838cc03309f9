package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"SectorRRG/internal/model"
)

const (
	// DefaultEODHDBaseURL is the base URL for the EODHD API.
	DefaultEODHDBaseURL = "https://eodhd.com/api"

	// DefaultEODHDRateLimit is requests per second.
	DefaultEODHDRateLimit = 10
)

// APIError represents a non-200 answer from a price provider.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// EODHDFetcher implements Fetcher using the EODHD end-of-day REST API.
type EODHDFetcher struct {
	BaseURL  string
	APIKey   string
	Exchange string // suffix appended to bare tickers, e.g. "US"
	Client   *http.Client
	limiter  *rate.Limiter
}

// EODHDOption configures the fetcher.
type EODHDOption func(*EODHDFetcher)

// WithEODHDBaseURL sets a custom base URL.
func WithEODHDBaseURL(baseURL string) EODHDOption {
	return func(f *EODHDFetcher) {
		f.BaseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithEODHDRateLimit sets requests per second.
func WithEODHDRateLimit(requestsPerSecond int) EODHDOption {
	return func(f *EODHDFetcher) {
		if requestsPerSecond > 0 {
			f.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithEODHDProxy routes requests through an HTTP proxy.
func WithEODHDProxy(proxyURL string) EODHDOption {
	return func(f *EODHDFetcher) {
		if proxyURL == "" {
			return
		}
		if u, err := url.Parse(proxyURL); err == nil {
			f.Client.Transport = &http.Transport{Proxy: http.ProxyURL(u)}
		}
	}
}

// NewEODHDFetcher creates a new fetcher.
func NewEODHDFetcher(apiKey string, opts ...EODHDOption) *EODHDFetcher {
	f := &EODHDFetcher{
		BaseURL:  DefaultEODHDBaseURL,
		APIKey:   apiKey,
		Exchange: "US",
		Client:   &http.Client{Timeout: 30 * time.Second},
		limiter:  rate.NewLimiter(rate.Limit(DefaultEODHDRateLimit), DefaultEODHDRateLimit),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *EODHDFetcher) Name() string { return "eodhd" }

// eodBar is the JSON shape of one /eod row.
type eodBar struct {
	Date          string  `json:"date"`
	Close         float64 `json:"close"`
	AdjustedClose float64 `json:"adjusted_close"`
}

func (f *EODHDFetcher) eodSymbol(symbol string) string {
	if strings.Contains(symbol, ".") || f.Exchange == "" {
		return symbol
	}
	return symbol + "." + f.Exchange
}

// FetchAdjustedCloses retrieves the full daily history for symbol.
func (f *EODHDFetcher) FetchAdjustedCloses(ctx context.Context, symbol string) (model.PriceSeries, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return model.PriceSeries{}, fmt.Errorf("eodhd rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("api_token", f.APIKey)
	params.Set("fmt", "json")
	params.Set("period", "d")
	params.Set("order", "a")
	path := "/eod/" + url.PathEscape(f.eodSymbol(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return model.PriceSeries{}, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("eodhd fetch %s: %w", symbol, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return model.PriceSeries{}, &APIError{StatusCode: resp.StatusCode, Message: string(body), Endpoint: path}
	}

	var bars []eodBar
	if err := json.NewDecoder(resp.Body).Decode(&bars); err != nil {
		return model.PriceSeries{}, fmt.Errorf("decode bars: %w", err)
	}

	points := make([]model.PricePoint, 0, len(bars))
	for _, b := range bars {
		d, err := time.Parse("2006-01-02", b.Date)
		if err != nil {
			continue
		}
		c := b.AdjustedClose
		if c == 0 {
			c = b.Close
		}
		points = append(points, model.PricePoint{Date: d, Close: c})
	}

	points = normalizePoints(points)
	if len(points) == 0 {
		return model.PriceSeries{}, fmt.Errorf("eodhd %s: %w", symbol, ErrNoData)
	}
	return model.PriceSeries{Symbol: symbol, Points: points, FetchedAt: time.Now()}, nil
}
