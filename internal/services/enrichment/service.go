// Package enrichment analyzes ingested articles and company records.
// The primary path asks a chat provider for structured JSON; every
// failure mode degrades to a deterministic keyword heuristic so
// enrichment never blocks the pipeline.
package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"companyintel/internal/adapters/ai"
	"companyintel/internal/domain/news"
	"companyintel/internal/metrics"
	"companyintel/pkg/logger"
)

// Service enriches articles and generates company summaries.
type Service struct {
	provider ai.ChatProvider // nil means fallback-only mode
	logger   *logger.Logger
}

// NewService creates an enrichment service. A nil provider is valid and
// selects the keyword fallback for every call.
func NewService(provider ai.ChatProvider) *Service {
	return &Service{
		provider: provider,
		logger:   logger.With("service", "enrichment"),
	}
}

const articlePromptTemplate = `Analyze this news article about %s and provide structured analysis.

ARTICLE TITLE: %s

ARTICLE CONTENT: %s

Provide your analysis in the following JSON format (no markdown, just raw JSON):
{
    "sentiment_score": <float between -1.0 (very negative) and 1.0 (very positive)>,
    "sentiment_label": "<one of: positive, negative, neutral>",
    "classification": "<one of: earnings, product, legal, market, executive, partnership, other>",
    "market_impact": "<one of: high, medium, low>",
    "key_insights": {
        "summary": "<one sentence summary of the key takeaway>",
        "risks": ["<risk 1>", "<risk 2>"],
        "opportunities": ["<opportunity 1>", "<opportunity 2>"],
        "action_items": ["<what investors should watch>"]
    }
}

Be objective and focused on financial/market implications. Only return valid JSON.`

// EnrichArticle produces the enrichment block for one article. It never
// returns an error: provider failures and unparsable output fall back to
// the keyword heuristic.
func (s *Service) EnrichArticle(ctx context.Context, a *news.Article, companyName string) (*news.Enrichment, error) {
	if s.provider == nil {
		metrics.EnrichmentCalls.WithLabelValues("fallback", "success").Inc()
		return fallbackEnrich(a), nil
	}

	content := ""
	if a.Content != nil {
		content = *a.Content
	}
	prompt := fmt.Sprintf(articlePromptTemplate, companyName, a.Title, content)

	raw, err := s.provider.Complete(ctx, prompt, 1024)
	if err != nil {
		s.logger.Warnw("enrichment provider call failed, using fallback",
			"provider", s.provider.Name(), "error", err)
		metrics.EnrichmentCalls.WithLabelValues("llm", "error").Inc()
		metrics.EnrichmentCalls.WithLabelValues("fallback", "success").Inc()
		return fallbackEnrich(a), nil
	}

	enrichment, err := parseEnrichment(raw)
	if err != nil {
		s.logger.Warnw("enrichment response unparsable, using fallback", "error", err)
		metrics.EnrichmentCalls.WithLabelValues("llm", "error").Inc()
		metrics.EnrichmentCalls.WithLabelValues("fallback", "success").Inc()
		return fallbackEnrich(a), nil
	}

	metrics.EnrichmentCalls.WithLabelValues("llm", "success").Inc()
	return enrichment, nil
}

// parseEnrichment extracts the JSON body from a model response and
// normalizes its fields. Models occasionally wrap JSON in code fences
// despite instructions.
func parseEnrichment(raw string) (*news.Enrichment, error) {
	cleaned := stripCodeFences(raw)

	var e news.Enrichment
	if err := json.Unmarshal([]byte(cleaned), &e); err != nil {
		return nil, fmt.Errorf("parse enrichment JSON: %w", err)
	}

	e.SentimentScore = clampScore(e.SentimentScore)
	e.SentimentLabel = normalizeChoice(e.SentimentLabel, news.SentimentNeutral,
		news.SentimentPositive, news.SentimentNegative, news.SentimentNeutral)
	e.Classification = normalizeChoice(e.Classification, "other", news.Classifications()...)
	e.MarketImpact = normalizeChoice(e.MarketImpact, news.ImpactMedium,
		news.ImpactHigh, news.ImpactMedium, news.ImpactLow)
	return &e, nil
}

func stripCodeFences(raw string) string {
	if idx := strings.Index(raw, "```json"); idx >= 0 {
		raw = raw[idx+len("```json"):]
		if end := strings.Index(raw, "```"); end >= 0 {
			raw = raw[:end]
		}
	} else if idx := strings.Index(raw, "```"); idx >= 0 {
		raw = raw[idx+len("```"):]
		if end := strings.Index(raw, "```"); end >= 0 {
			raw = raw[:end]
		}
	}
	return strings.TrimSpace(raw)
}

func normalizeChoice(value, fallback string, allowed ...string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, a := range allowed {
		if value == a {
			return value
		}
	}
	return fallback
}
