package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"companyintel/internal/domain/news"
)

var _ news.Repository = (*NewsRepository)(nil)

// NewsRepository is an in-memory news.Repository.
type NewsRepository struct {
	mu       sync.RWMutex
	articles []*news.Article
	nextID   int64
}

// NewNewsRepository creates an empty in-memory article repository.
func NewNewsRepository() *NewsRepository {
	return &NewsRepository{nextID: 1}
}

// Add inserts the article unless its URL is already stored.
func (r *NewsRepository) Add(_ context.Context, a *news.Article) (*news.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.URL != nil {
		for _, existing := range r.articles {
			if existing.URL != nil && *existing.URL == *a.URL {
				copied := *existing
				return &copied, nil
			}
		}
	}

	stored := *a
	stored.ID = r.nextID
	r.nextID++
	r.articles = append(r.articles, &stored)

	a.ID = stored.ID
	return a, nil
}

// ApplyEnrichment sets the enrichment block on an existing article.
func (r *NewsRepository) ApplyEnrichment(_ context.Context, id int64, e *news.Enrichment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.articles {
		if a.ID != id {
			continue
		}
		score := e.SentimentScore
		label := e.SentimentLabel
		class := e.Classification
		impact := e.MarketImpact
		now := time.Now().UTC()

		a.SentimentScore = &score
		a.SentimentLabel = &label
		a.Classification = &class
		a.MarketImpact = &impact
		a.KeyInsights = e.KeyInsights
		a.EnrichedAt = &now
		return nil
	}
	return nil
}

// GetBySymbol returns the most recent articles for a symbol, newest first.
func (r *NewsRepository) GetBySymbol(_ context.Context, symbol string, limit int) ([]*news.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*news.Article{}
	for _, a := range r.articles {
		if a.Symbol == symbol {
			copied := *a
			out = append(out, &copied)
		}
	}
	sortByPublished(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// GetUnenriched returns articles missing enrichment; empty symbol matches all.
func (r *NewsRepository) GetUnenriched(_ context.Context, symbol string) ([]*news.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*news.Article{}
	for _, a := range r.articles {
		if a.Enriched() {
			continue
		}
		if symbol != "" && a.Symbol != symbol {
			continue
		}
		copied := *a
		out = append(out, &copied)
	}
	sortByPublished(out)
	return out, nil
}

// AverageSentiment returns the mean score over enriched articles, or nil.
func (r *NewsRepository) AverageSentiment(_ context.Context, symbol string) (*float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sum := 0.0
	count := 0
	for _, a := range r.articles {
		if a.Symbol == symbol && a.Enriched() && a.SentimentScore != nil {
			sum += *a.SentimentScore
			count++
		}
	}
	if count == 0 {
		return nil, nil
	}
	avg := sum / float64(count)
	return &avg, nil
}

func sortByPublished(articles []*news.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		pi, pj := articles[i].PublishedAt, articles[j].PublishedAt
		switch {
		case pi == nil:
			return false
		case pj == nil:
			return true
		default:
			return pi.After(*pj)
		}
	})
}
