package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"companyintel/internal/domain/company"
	"companyintel/internal/domain/news"
	"companyintel/internal/domain/stock"
	"companyintel/internal/services/insights"
	"companyintel/internal/services/pipeline"
	"companyintel/pkg/errors"
	"companyintel/pkg/logger"
)

const (
	listDescriptionLimit = 200
	detailStockLimit     = 30
	detailNewsLimit      = 20
	defaultNewsLimit     = 20
)

// Handlers holds the JSON API endpoints.
type Handlers struct {
	pipeline  *pipeline.Service
	insights  *insights.Service
	companies company.Repository
	stocks    stock.Repository
	news      news.Repository
	log       *logger.Logger
}

// NewHandlers wires the API endpoints to their services.
func NewHandlers(
	pipelineSvc *pipeline.Service,
	insightsSvc *insights.Service,
	companies company.Repository,
	stocks stock.Repository,
	newsRepo news.Repository,
) *Handlers {
	return &Handlers{
		pipeline:  pipelineSvc,
		insights:  insightsSvc,
		companies: companies,
		stocks:    stocks,
		news:      newsRepo,
		log:       logger.With("component", "api"),
	}
}

type ingestRequest struct {
	Symbol        string `json:"symbol"`
	FetchNews     *bool  `json:"fetch_news"`
	FetchStock    *bool  `json:"fetch_stock"`
	EnrichWithLLM *bool  `json:"enrich_with_llm"`
}

type batchIngestRequest struct {
	Symbols       []string `json:"symbols"`
	FetchNews     *bool    `json:"fetch_news"`
	FetchStock    *bool    `json:"fetch_stock"`
	EnrichWithLLM *bool    `json:"enrich_with_llm"`
}

// HandleIngest triggers an asynchronous pipeline run.
// 202 on acceptance, 409 when a run for the symbol is already in flight.
func (h *Handlers) HandleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	opts := h.pipeline.Defaults()
	applyFlag(&opts.FetchNews, req.FetchNews)
	applyFlag(&opts.FetchStock, req.FetchStock)
	applyFlag(&opts.EnrichWithLLM, req.EnrichWithLLM)

	result, err := h.pipeline.Submit(r.Context(), req.Symbol, opts)
	if err != nil {
		switch {
		case errors.Is(err, errors.ErrAlreadyRunning):
			symbol := pipeline.NormalizeSymbol(req.Symbol)
			existing, _ := h.pipeline.Status(r.Context(), symbol)
			writeJSON(w, http.StatusConflict, map[string]interface{}{
				"message": fmt.Sprintf("Pipeline already running for %s", symbol),
				"status":  existing.Snapshot(),
			})
		case errors.Is(err, errors.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.log.Errorw("ingest submission failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"message":    fmt.Sprintf("Pipeline started for %s", result.Symbol()),
		"status_url": fmt.Sprintf("/api/status/%s", result.Symbol()),
	})
}

// HandleIngestBatch triggers sequential runs for several symbols. The
// batch executes in the background; per-symbol progress is polled via
// the status endpoint.
func (h *Handlers) HandleIngestBatch(w http.ResponseWriter, r *http.Request) {
	var req batchIngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Symbols) == 0 {
		writeError(w, http.StatusBadRequest, "symbols is required")
		return
	}

	opts := h.pipeline.Defaults()
	applyFlag(&opts.FetchNews, req.FetchNews)
	applyFlag(&opts.FetchStock, req.FetchStock)
	applyFlag(&opts.EnrichWithLLM, req.EnrichWithLLM)

	symbols := make([]string, 0, len(req.Symbols))
	for _, s := range req.Symbols {
		if normalized := pipeline.NormalizeSymbol(s); normalized != "" {
			symbols = append(symbols, normalized)
		}
	}

	// The batch outlives this request; detach it from the request context.
	go h.pipeline.SubmitBatch(context.Background(), symbols, opts)

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"message": fmt.Sprintf("Batch pipeline started for %d symbols", len(symbols)),
		"symbols": symbols,
	})
}

// HandleStatus returns the latest run for a symbol.
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")

	result, ok := h.pipeline.Status(r.Context(), symbol)
	if !ok {
		writeError(w, http.StatusNotFound,
			fmt.Sprintf("No pipeline found for %s", pipeline.NormalizeSymbol(symbol)))
		return
	}
	writeJSON(w, http.StatusOK, result.Snapshot())
}

type companyResponse struct {
	Symbol          string              `json:"symbol"`
	Name            string              `json:"name"`
	Sector          *string             `json:"sector"`
	Industry        *string             `json:"industry"`
	Description     *string             `json:"description"`
	MarketCap       decimal.NullDecimal `json:"market_cap"`
	PERatio         decimal.NullDecimal `json:"pe_ratio"`
	EnrichedSummary *string             `json:"enriched_summary"`
}

func toCompanyResponse(c *company.Company, truncateDescription bool) companyResponse {
	description := c.Description
	if truncateDescription && description != nil && len(*description) > listDescriptionLimit {
		short := (*description)[:listDescriptionLimit] + "..."
		description = &short
	}
	return companyResponse{
		Symbol:          c.Symbol,
		Name:            c.Name,
		Sector:          c.Sector,
		Industry:        c.Industry,
		Description:     description,
		MarketCap:       c.MarketCap,
		PERatio:         c.PERatio,
		EnrichedSummary: c.EnrichedSummary,
	}
}

// HandleListCompanies lists every company with a shortened description.
func (h *Handlers) HandleListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.companies.List(r.Context())
	if err != nil {
		h.log.Errorw("list companies failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]companyResponse, 0, len(companies))
	for _, c := range companies {
		out = append(out, toCompanyResponse(c, true))
	}
	writeJSON(w, http.StatusOK, out)
}

type stockPointResponse struct {
	Date   string          `json:"date"`
	Open   decimal.Decimal `json:"open_price"`
	High   decimal.Decimal `json:"high_price"`
	Low    decimal.Decimal `json:"low_price"`
	Close  decimal.Decimal `json:"close_price"`
	Volume int64           `json:"volume"`
}

func toStockPointResponse(rec stock.Record) stockPointResponse {
	volume := int64(0)
	if rec.Volume != nil {
		volume = *rec.Volume
	}
	return stockPointResponse{
		Date:   rec.Date.Format("2006-01-02"),
		Open:   rec.Open.Decimal,
		High:   rec.High.Decimal,
		Low:    rec.Low.Decimal,
		Close:  rec.Close.Decimal,
		Volume: volume,
	}
}

type articleResponse struct {
	ID             int64          `json:"id"`
	Title          string         `json:"title"`
	Source         *string        `json:"source"`
	URL            *string        `json:"url"`
	PublishedAt    *time.Time     `json:"published_at"`
	SentimentScore *float64       `json:"sentiment_score"`
	SentimentLabel *string        `json:"sentiment_label"`
	Classification *string        `json:"classification"`
	MarketImpact   *string        `json:"market_impact"`
	KeyInsights    *news.Insights `json:"key_insights"`
}

func toArticleResponse(a *news.Article) articleResponse {
	resp := articleResponse{
		ID:             a.ID,
		Title:          a.Title,
		Source:         a.Source,
		URL:            a.URL,
		PublishedAt:    a.PublishedAt,
		SentimentScore: a.SentimentScore,
		SentimentLabel: a.SentimentLabel,
		Classification: a.Classification,
		MarketImpact:   a.MarketImpact,
	}
	if a.Enriched() {
		ki := a.KeyInsights
		resp.KeyInsights = &ki
	}
	return resp
}

type companyDetailResponse struct {
	Company            companyResponse      `json:"company"`
	RecentStockData    []stockPointResponse `json:"recent_stock_data"`
	NewsArticles       []articleResponse    `json:"news_articles"`
	AggregateSentiment *float64             `json:"aggregate_sentiment"`
}

// HandleCompanyDetail returns one company with its recent prices, news,
// and aggregate sentiment. 404 when the symbol has never been ingested.
func (h *Handlers) HandleCompanyDetail(w http.ResponseWriter, r *http.Request) {
	symbol := pipeline.NormalizeSymbol(r.PathValue("symbol"))

	c, err := h.companies.GetBySymbol(r.Context(), symbol)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Company %s not found", symbol))
			return
		}
		h.log.Errorw("company lookup failed", "symbol", symbol, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	records, err := h.stocks.GetRecent(r.Context(), symbol, detailStockLimit)
	if err != nil {
		h.log.Errorw("stock lookup failed", "symbol", symbol, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	articles, err := h.news.GetBySymbol(r.Context(), symbol, detailNewsLimit)
	if err != nil {
		h.log.Errorw("news lookup failed", "symbol", symbol, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	avgSentiment, err := h.news.AverageSentiment(r.Context(), symbol)
	if err != nil {
		h.log.Errorw("sentiment lookup failed", "symbol", symbol, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	stockPoints := make([]stockPointResponse, 0, len(records))
	for _, rec := range records {
		stockPoints = append(stockPoints, toStockPointResponse(rec))
	}
	articleResponses := make([]articleResponse, 0, len(articles))
	for _, a := range articles {
		articleResponses = append(articleResponses, toArticleResponse(a))
	}

	writeJSON(w, http.StatusOK, companyDetailResponse{
		Company:            toCompanyResponse(c, false),
		RecentStockData:    stockPoints,
		NewsArticles:       articleResponses,
		AggregateSentiment: avgSentiment,
	})
}

// HandleInsights returns the cross-company aggregation.
func (h *Handlers) HandleInsights(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.insights.CompanyInsights(r.Context())
	if err != nil {
		h.log.Errorw("insights aggregation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

// HandleNews returns recent articles for a known company.
func (h *Handlers) HandleNews(w http.ResponseWriter, r *http.Request) {
	symbol := pipeline.NormalizeSymbol(r.PathValue("symbol"))

	limit := defaultNewsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	if _, err := h.companies.GetBySymbol(r.Context(), symbol); err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Company %s not found", symbol))
			return
		}
		h.log.Errorw("company lookup failed", "symbol", symbol, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	articles, err := h.news.GetBySymbol(r.Context(), symbol, limit)
	if err != nil {
		h.log.Errorw("news lookup failed", "symbol", symbol, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]articleResponse, 0, len(articles))
	for _, a := range articles {
		out = append(out, toArticleResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func applyFlag(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
