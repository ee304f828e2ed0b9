// Package newsapi adapts the unstructured data provider (news articles).
// When no credential is configured, or the provider misbehaves, the
// adapter returns a fixed mock article set with the same shape as live
// results so the rest of the pipeline keeps working.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"companyintel/internal/adapters/config"
	"companyintel/internal/cache"
	"companyintel/internal/domain/news"
	"companyintel/internal/metrics"
	"companyintel/pkg/logger"
)

const providerName = "newsapi"

// Client fetches news articles for a company within a date window.
type Client struct {
	http   *resty.Client
	store  cache.Store
	apiKey string
	log    *logger.Logger
}

// NewClient creates an unstructured source adapter.
func NewClient(cfg config.NewsAPIConfig, store cache.Store) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout)

	return &Client{
		http:   httpClient,
		store:  store,
		apiKey: cfg.APIKey,
		log:    logger.Get().With("adapter", providerName),
	}
}

type searchResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Author      string `json:"author"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Content     string `json:"content"`
	} `json:"articles"`
}

// CompanyNews returns up to maxArticles articles mentioning the company
// within the last days. Falls back to the deterministic mock set when no
// API key is configured or the provider errors.
func (c *Client) CompanyNews(ctx context.Context, companyName, symbol string, days, maxArticles int) []*news.Article {
	symbol = strings.ToUpper(symbol)

	if c.apiKey == "" {
		c.log.Warnw("News API key not set, using mock data", "symbol", symbol)
		metrics.ProviderRequests.WithLabelValues(providerName, "mock").Inc()
		return MockArticles(companyName, symbol)
	}

	cacheKey := fmt.Sprintf("news:%s:%d", symbol, days)
	var cached []*news.Article
	if ok, err := c.store.Get(ctx, cacheKey, &cached); err == nil && ok {
		metrics.CacheRequests.WithLabelValues("news", "hit").Inc()
		c.log.Infow("Using cached news", "symbol", symbol)
		return cached
	}
	metrics.CacheRequests.WithLabelValues("news", "miss").Inc()

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -days)

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":        fmt.Sprintf("%q OR %q", companyName, symbol),
			"from":     from.Format("2006-01-02"),
			"to":       to.Format("2006-01-02"),
			"language": "en",
			"sortBy":   "relevancy",
			"pageSize": fmt.Sprintf("%d", maxArticles),
			"apiKey":   c.apiKey,
		}).
		Get("/everything")
	if err != nil || resp.StatusCode() != http.StatusOK {
		c.log.Warnw("News request failed, using mock data", "symbol", symbol, "error", err)
		metrics.ProviderRequests.WithLabelValues(providerName, "error").Inc()
		return MockArticles(companyName, symbol)
	}

	var payload searchResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil || payload.Status != "ok" {
		c.log.Warnw("News provider error, using mock data",
			"symbol", symbol, "message", payload.Message)
		metrics.ProviderRequests.WithLabelValues(providerName, "error").Inc()
		return MockArticles(companyName, symbol)
	}

	articles := make([]*news.Article, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		content := a.Content
		if content == "" {
			content = a.Description
		}
		articles = append(articles, &news.Article{
			Symbol:      symbol,
			Title:       a.Title,
			Source:      opt(a.Source.Name),
			Author:      opt(a.Author),
			URL:         opt(a.URL),
			PublishedAt: parseTime(a.PublishedAt),
			Content:     opt(content),
		})
	}

	metrics.ProviderRequests.WithLabelValues(providerName, "success").Inc()
	_ = c.store.Set(ctx, cacheKey, articles)
	return articles
}

func opt(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
