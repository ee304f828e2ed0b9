// Package alphavantage adapts the structured data provider (company
// fundamentals and daily time series). The adapter never fails its
// caller: upstream errors, rate-limit notes, and malformed payloads all
// soft-fail to an explicit "no data" result.
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"companyintel/internal/adapters/config"
	"companyintel/internal/cache"
	"companyintel/internal/domain/company"
	"companyintel/internal/domain/stock"
	"companyintel/internal/metrics"
	"companyintel/pkg/logger"
)

const providerName = "alphavantage"

// Client fetches structured company data. Requests are throttled to the
// provider's per-minute budget and cached so back-to-back runs for the
// same symbol do not burn quota.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	store   cache.Store
	apiKey  string
	log     *logger.Logger
}

// NewClient creates a structured source adapter.
func NewClient(cfg config.AlphaVantageConfig, store cache.Store) *Client {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 5
	}

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout)

	return &Client{
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
		store:   store,
		apiKey:  cfg.APIKey,
		log:     logger.Get().With("adapter", providerName),
	}
}

type overviewPayload struct {
	Note                 string `json:"Note"`
	Information          string `json:"Information"`
	ErrorMessage         string `json:"Error Message"`
	Symbol               string `json:"Symbol"`
	Name                 string `json:"Name"`
	Sector               string `json:"Sector"`
	Industry             string `json:"Industry"`
	Description          string `json:"Description"`
	MarketCapitalization string `json:"MarketCapitalization"`
	PERatio              string `json:"PERatio"`
	DividendYield        string `json:"DividendYield"`
	FiftyTwoWeekHigh     string `json:"52WeekHigh"`
	FiftyTwoWeekLow      string `json:"52WeekLow"`
}

// CompanyOverview fetches fundamentals for a symbol. Returns nil when the
// provider has no data, is rate limited, or is unreachable.
func (c *Client) CompanyOverview(ctx context.Context, symbol string) *company.Company {
	symbol = strings.ToUpper(symbol)
	cacheKey := fmt.Sprintf("overview:%s", symbol)

	var cached company.Company
	if ok, err := c.store.Get(ctx, cacheKey, &cached); err == nil && ok {
		metrics.CacheRequests.WithLabelValues("overview", "hit").Inc()
		c.log.Infow("Using cached company overview", "symbol", symbol)
		return &cached
	}
	metrics.CacheRequests.WithLabelValues("overview", "miss").Inc()

	body := c.query(ctx, map[string]string{
		"function": "OVERVIEW",
		"symbol":   symbol,
	})
	if body == nil {
		return nil
	}

	var payload overviewPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		c.log.Warnw("Malformed overview payload", "symbol", symbol, "error", err)
		metrics.ProviderRequests.WithLabelValues(providerName, "error").Inc()
		return nil
	}
	if rateLimited(payload.Note, payload.Information, payload.ErrorMessage) {
		c.log.Warnw("Provider limit or error on overview", "symbol", symbol)
		metrics.ProviderRequests.WithLabelValues(providerName, "rate_limited").Inc()
		return nil
	}
	if payload.Symbol == "" {
		c.log.Warnw("No overview data for symbol", "symbol", symbol)
		metrics.ProviderRequests.WithLabelValues(providerName, "success").Inc()
		return nil
	}

	result := &company.Company{
		Symbol:           strings.ToUpper(payload.Symbol),
		Name:             payload.Name,
		Sector:           optString(payload.Sector),
		Industry:         optString(payload.Industry),
		Description:      optString(payload.Description),
		MarketCap:        nullDecimal(payload.MarketCapitalization),
		PERatio:          nullDecimal(payload.PERatio),
		DividendYield:    nullDecimal(payload.DividendYield),
		FiftyTwoWeekHigh: nullDecimal(payload.FiftyTwoWeekHigh),
		FiftyTwoWeekLow:  nullDecimal(payload.FiftyTwoWeekLow),
	}

	metrics.ProviderRequests.WithLabelValues(providerName, "success").Inc()
	_ = c.store.Set(ctx, cacheKey, result)
	return result
}

type seriesPayload struct {
	Note         string                       `json:"Note"`
	Information  string                       `json:"Information"`
	ErrorMessage string                       `json:"Error Message"`
	TimeSeries   map[string]map[string]string `json:"Time Series (Daily)"`
}

// DailySeries fetches up to days of daily OHLCV records, newest first.
// Returns an empty slice when the provider has no data or is unreachable.
func (c *Client) DailySeries(ctx context.Context, symbol string, days int) []stock.Record {
	symbol = strings.ToUpper(symbol)
	cacheKey := fmt.Sprintf("stock:%s:%d", symbol, days)

	var cached []stock.Record
	if ok, err := c.store.Get(ctx, cacheKey, &cached); err == nil && ok {
		metrics.CacheRequests.WithLabelValues("stock", "hit").Inc()
		c.log.Infow("Using cached stock data", "symbol", symbol)
		return cached
	}
	metrics.CacheRequests.WithLabelValues("stock", "miss").Inc()

	body := c.query(ctx, map[string]string{
		"function":   "TIME_SERIES_DAILY",
		"symbol":     symbol,
		"outputsize": "compact",
	})
	if body == nil {
		return nil
	}

	var payload seriesPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		c.log.Warnw("Malformed time series payload", "symbol", symbol, "error", err)
		metrics.ProviderRequests.WithLabelValues(providerName, "error").Inc()
		return nil
	}
	if rateLimited(payload.Note, payload.Information, payload.ErrorMessage) {
		c.log.Warnw("Provider limit or error on time series", "symbol", symbol)
		metrics.ProviderRequests.WithLabelValues(providerName, "rate_limited").Inc()
		return nil
	}
	if len(payload.TimeSeries) == 0 {
		c.log.Warnw("No time series data for symbol", "symbol", symbol)
		metrics.ProviderRequests.WithLabelValues(providerName, "success").Inc()
		return nil
	}

	dates := make([]string, 0, len(payload.TimeSeries))
	for d := range payload.TimeSeries {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if days > 0 && len(dates) > days {
		dates = dates[:days]
	}

	records := make([]stock.Record, 0, len(dates))
	for _, d := range dates {
		date, err := time.Parse("2006-01-02", d)
		if err != nil {
			continue
		}
		values := payload.TimeSeries[d]
		records = append(records, stock.Record{
			Symbol: symbol,
			Date:   date,
			Open:   nullDecimal(values["1. open"]),
			High:   nullDecimal(values["2. high"]),
			Low:    nullDecimal(values["3. low"]),
			Close:  nullDecimal(values["4. close"]),
			Volume: nullInt64(values["5. volume"]),
		})
	}

	metrics.ProviderRequests.WithLabelValues(providerName, "success").Inc()
	_ = c.store.Set(ctx, cacheKey, records)
	return records
}

// query performs one throttled GET against the provider, returning the
// raw body or nil on any transport-level failure.
func (c *Client) query(ctx context.Context, params map[string]string) []byte {
	if err := c.limiter.Wait(ctx); err != nil {
		c.log.Warnw("Rate limiter wait aborted", "error", err)
		return nil
	}

	params["apikey"] = c.apiKey
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get("")
	if err != nil {
		c.log.Warnw("Provider request failed", "error", err)
		metrics.ProviderRequests.WithLabelValues(providerName, "error").Inc()
		return nil
	}
	if resp.StatusCode() != http.StatusOK {
		c.log.Warnw("Provider returned non-OK status", "status", resp.StatusCode())
		metrics.ProviderRequests.WithLabelValues(providerName, "error").Inc()
		return nil
	}
	return resp.Body()
}

func rateLimited(note, information, errMessage string) bool {
	return note != "" || information != "" || errMessage != ""
}
