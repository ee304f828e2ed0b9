// Package pipeline orchestrates a full ingestion run for one symbol:
// structured company data, daily prices, news, enrichment, summary, and
// persistence, executed as an ordered sequence of named steps.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"companyintel/internal/domain/company"
	"companyintel/internal/domain/news"
	"companyintel/internal/domain/run"
	"companyintel/internal/domain/stock"
	"companyintel/internal/metrics"
	"companyintel/pkg/logger"
)

// Step names, recorded on the run result in execution order.
const (
	StepFetchCompanyData = "fetch_company_data"
	StepFetchStockPrices = "fetch_stock_prices"
	StepFetchNews        = "fetch_news"
	StepEnrichArticles   = "enrich_articles"
	StepGenerateSummary  = "generate_summary"
	StepPersistData      = "persist_data"
)

// StructuredSource provides company fundamentals and price series.
// Implementations soft-fail: nil / empty means "no data", never an error.
type StructuredSource interface {
	CompanyOverview(ctx context.Context, symbol string) *company.Company
	DailySeries(ctx context.Context, symbol string, days int) []stock.Record
}

// NewsSource provides recent articles about a company.
type NewsSource interface {
	CompanyNews(ctx context.Context, companyName, symbol string, days, maxArticles int) []*news.Article
}

// Enricher analyzes articles and generates company summaries. EnrichArticle
// may return an error; the orchestrator isolates it to the single article.
type Enricher interface {
	EnrichArticle(ctx context.Context, a *news.Article, companyName string) (*news.Enrichment, error)
	SummarizeCompany(ctx context.Context, c *company.Company, articles []*news.Article) string
}

// Stores groups the persistence interfaces a run writes to.
type Stores struct {
	Companies company.Repository
	Stocks    stock.Repository
	News      news.Repository
}

// Options controls which steps a run executes and their fetch windows.
type Options struct {
	FetchStock    bool
	FetchNews     bool
	EnrichWithLLM bool
	StockDays     int
	NewsDays      int
	MaxArticles   int
}

// DefaultOptions enables every step with the standard windows.
func DefaultOptions() Options {
	return Options{
		FetchStock:    true,
		FetchNews:     true,
		EnrichWithLLM: true,
		StockDays:     30,
		NewsDays:      7,
		MaxArticles:   10,
	}
}

// Pipeline executes ingestion runs.
type Pipeline struct {
	structured StructuredSource
	newsSource NewsSource
	enricher   Enricher
	stores     Stores
	logger     *logger.Logger
}

// New creates a pipeline over the given sources and stores.
func New(structured StructuredSource, newsSource NewsSource, enricher Enricher, stores Stores) *Pipeline {
	return &Pipeline{
		structured: structured,
		newsSource: newsSource,
		enricher:   enricher,
		stores:     stores,
		logger:     logger.With("service", "pipeline"),
	}
}

// runState carries intermediate artifacts between steps of one run.
type runState struct {
	symbol   string
	opts     Options
	company  *company.Company
	records  []stock.Record
	articles []*news.Article
	// enrichments[i] pairs with articles[i]; nil when that article's
	// enrichment failed and the article is kept bare.
	enrichments []*news.Enrichment
	summary     string
}

type step struct {
	name    string
	enabled func() bool
	execute func(ctx context.Context) error
}

// Run executes all enabled steps in order, mutating result as it goes.
// The first failing step marks the run failed and skips the rest. Source
// steps soft-fail internally, so in practice only enrichment provider
// bugs or persistence errors fail a run.
func (p *Pipeline) Run(ctx context.Context, result *run.Result, opts Options) {
	symbol := result.Symbol()
	state := &runState{symbol: symbol, opts: opts}
	started := time.Now()

	p.logger.Infow("pipeline run started", "symbol", symbol,
		"fetch_stock", opts.FetchStock, "fetch_news", opts.FetchNews, "enrich", opts.EnrichWithLLM)

	steps := []step{
		{
			name:    StepFetchCompanyData,
			enabled: func() bool { return true },
			execute: func(ctx context.Context) error { return p.fetchCompanyData(ctx, state) },
		},
		{
			name:    StepFetchStockPrices,
			enabled: func() bool { return opts.FetchStock },
			execute: func(ctx context.Context) error { return p.fetchStockPrices(ctx, state) },
		},
		{
			name:    StepFetchNews,
			enabled: func() bool { return opts.FetchNews },
			execute: func(ctx context.Context) error { return p.fetchNews(ctx, state, result) },
		},
		{
			// Evaluated lazily: fetch_news decides how many articles exist.
			name:    StepEnrichArticles,
			enabled: func() bool { return opts.EnrichWithLLM && len(state.articles) > 0 },
			execute: func(ctx context.Context) error { return p.enrichArticles(ctx, state, result) },
		},
		{
			name:    StepGenerateSummary,
			enabled: func() bool { return opts.EnrichWithLLM },
			execute: func(ctx context.Context) error { return p.generateSummary(ctx, state) },
		},
		{
			name:    StepPersistData,
			enabled: func() bool { return true },
			execute: func(ctx context.Context) error { return p.persistData(ctx, state, result) },
		},
	}

	for _, s := range steps {
		if !s.enabled() {
			continue
		}
		result.SetCurrentStep(s.name)
		stepStart := time.Now()

		err := s.execute(ctx)
		metrics.PipelineStepDuration.WithLabelValues(s.name).Observe(time.Since(stepStart).Seconds())

		if err != nil {
			p.logger.Errorw("pipeline step failed", "symbol", symbol, "step", s.name, "error", err)
			result.Fail(err.Error())
			metrics.PipelineRuns.WithLabelValues("failed").Inc()
			metrics.PipelineDuration.WithLabelValues("failed").Observe(time.Since(started).Seconds())
			return
		}
		result.StepCompleted(s.name)
	}

	result.SetCurrentStep("")
	result.Complete()
	metrics.PipelineRuns.WithLabelValues("completed").Inc()
	metrics.PipelineDuration.WithLabelValues("completed").Observe(time.Since(started).Seconds())
	p.logger.Infow("pipeline run completed", "symbol", symbol, "duration", time.Since(started))
}

// fetchCompanyData never fails the run: a symbol with no upstream data
// gets a placeholder record so every later step has a usable entity.
func (p *Pipeline) fetchCompanyData(ctx context.Context, state *runState) error {
	c := p.structured.CompanyOverview(ctx, state.symbol)
	if c == nil {
		p.logger.Infow("no company data available, using placeholder", "symbol", state.symbol)
		c = company.Placeholder(state.symbol)
	}
	c.Normalize()
	state.company = c
	return nil
}

func (p *Pipeline) fetchStockPrices(ctx context.Context, state *runState) error {
	state.records = p.structured.DailySeries(ctx, state.symbol, state.opts.StockDays)
	p.logger.Infow("stock prices fetched", "symbol", state.symbol, "records", len(state.records))
	return nil
}

func (p *Pipeline) fetchNews(ctx context.Context, state *runState, result *run.Result) error {
	state.articles = p.newsSource.CompanyNews(ctx, state.company.Name, state.symbol,
		state.opts.NewsDays, state.opts.MaxArticles)
	result.SetArticlesIngested(len(state.articles))
	p.logger.Infow("news fetched", "symbol", state.symbol, "articles", len(state.articles))
	return nil
}

// enrichArticles processes articles sequentially in input order. A
// failure on one article leaves its enrichment nil and moves on; the
// step itself only reports success.
func (p *Pipeline) enrichArticles(ctx context.Context, state *runState, result *run.Result) error {
	state.enrichments = make([]*news.Enrichment, len(state.articles))
	for i, a := range state.articles {
		e, err := p.enricher.EnrichArticle(ctx, a, state.company.Name)
		if err != nil {
			p.logger.Warnw("article enrichment failed, keeping article unenriched",
				"symbol", state.symbol, "title", a.Title, "error", err)
			continue
		}
		state.enrichments[i] = e
		result.IncArticlesEnriched()
	}
	return nil
}

func (p *Pipeline) generateSummary(ctx context.Context, state *runState) error {
	state.summary = p.enricher.SummarizeCompany(ctx, state.company, state.articles)
	return nil
}

// persistData writes everything gathered by the run in one step, so a
// storage fault surfaces as a single failed step with the verbatim error.
func (p *Pipeline) persistData(ctx context.Context, state *runState, result *run.Result) error {
	if state.summary != "" {
		state.company.EnrichedSummary = &state.summary
	}
	if err := p.stores.Companies.Upsert(ctx, state.company); err != nil {
		return fmt.Errorf("persist company: %w", err)
	}

	if len(state.records) > 0 {
		added, err := p.stores.Stocks.AddRecords(ctx, state.symbol, state.records)
		if err != nil {
			return fmt.Errorf("persist stock records: %w", err)
		}
		result.SetStockRecordsAdded(added)
	}

	for i, a := range state.articles {
		stored, err := p.stores.News.Add(ctx, a)
		if err != nil {
			return fmt.Errorf("persist article: %w", err)
		}
		if e := state.enrichments; e != nil && i < len(e) && e[i] != nil && !stored.Enriched() {
			if err := p.stores.News.ApplyEnrichment(ctx, stored.ID, e[i]); err != nil {
				return fmt.Errorf("persist enrichment: %w", err)
			}
		}
	}
	return nil
}
