// Package insights aggregates enrichment results across every company
// on file into a ranked cross-company view.
package insights

import (
	"context"
	"math"
	"sort"

	"companyintel/internal/domain/company"
	"companyintel/internal/domain/news"
	"companyintel/pkg/errors"
	"companyintel/pkg/logger"
)

const (
	recentArticleWindow = 10
	maxClassifications  = 5
)

// Summary is one company's aggregated insight row.
type Summary struct {
	Symbol                string   `json:"symbol"`
	CompanyName           string   `json:"company_name"`
	AvgSentiment          float64  `json:"avg_sentiment"`
	ArticleCount          int      `json:"article_count"`
	RecentClassifications []string `json:"recent_classifications"`
	TopInsight            *string  `json:"top_insight"`
}

// Service computes cross-company insight summaries.
type Service struct {
	companies company.Repository
	news      news.Repository
	logger    *logger.Logger
}

// NewService creates an insights service over the read repositories.
func NewService(companies company.Repository, newsRepo news.Repository) *Service {
	return &Service{
		companies: companies,
		news:      newsRepo,
		logger:    logger.With("service", "insights"),
	}
}

// CompanyInsights aggregates the latest enrichment results per company.
// Companies with no enriched articles in their recent window are left
// out entirely. Output is sorted by sentiment strength, the absolute
// mean score, descending.
func (s *Service) CompanyInsights(ctx context.Context) ([]Summary, error) {
	companies, err := s.companies.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list companies")
	}

	summaries := []Summary{}
	for _, c := range companies {
		articles, err := s.news.GetBySymbol(ctx, c.Symbol, recentArticleWindow)
		if err != nil {
			return nil, errors.Wrapf(err, "load articles for %s", c.Symbol)
		}

		enriched := make([]*news.Article, 0, len(articles))
		for _, a := range articles {
			if a.Enriched() && a.SentimentScore != nil {
				enriched = append(enriched, a)
			}
		}
		if len(enriched) == 0 {
			continue
		}

		summaries = append(summaries, Summary{
			Symbol:                c.Symbol,
			CompanyName:           c.Name,
			AvgSentiment:          meanSentiment(enriched),
			ArticleCount:          len(enriched),
			RecentClassifications: distinctClassifications(enriched),
			TopInsight:            topInsight(enriched),
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return math.Abs(summaries[i].AvgSentiment) > math.Abs(summaries[j].AvgSentiment)
	})
	return summaries, nil
}

func meanSentiment(articles []*news.Article) float64 {
	sum := 0.0
	for _, a := range articles {
		sum += *a.SentimentScore
	}
	mean := sum / float64(len(articles))
	return math.Round(mean*1000) / 1000
}

// distinctClassifications keeps first-seen order, capped at five.
func distinctClassifications(articles []*news.Article) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, a := range articles {
		if a.Classification == nil || *a.Classification == "" {
			continue
		}
		if seen[*a.Classification] {
			continue
		}
		seen[*a.Classification] = true
		out = append(out, *a.Classification)
		if len(out) == maxClassifications {
			break
		}
	}
	return out
}

// topInsight returns the stored summary of the first high-impact article.
func topInsight(articles []*news.Article) *string {
	for _, a := range articles {
		if a.MarketImpact != nil && *a.MarketImpact == news.ImpactHigh && a.KeyInsights.Summary != "" {
			summary := a.KeyInsights.Summary
			return &summary
		}
	}
	return nil
}
