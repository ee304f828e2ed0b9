package enrichment

import (
	"fmt"
	"math"
	"strings"

	"companyintel/internal/domain/news"
)

// Keyword heuristics used when no chat provider is configured or the
// provider call fails. Deterministic so re-runs of the same article
// produce the same enrichment.
var (
	positiveKeywords = []string{"growth", "beats", "exceeds", "upgrade", "strong", "success", "innovation", "profit"}
	negativeKeywords = []string{"loss", "decline", "scrutiny", "investigation", "concern", "risk", "lawsuit", "miss"}

	// Checked in order; the first matching group wins.
	classificationGroups = []struct {
		name     string
		keywords []string
	}{
		{"earnings", []string{"earnings", "revenue", "profit", "quarter"}},
		{"product", []string{"product", "launch", "announce", "innovation"}},
		{"legal", []string{"lawsuit", "legal", "regulatory", "investigation"}},
		{"executive", []string{"ceo", "executive", "leadership", "management"}},
		{"market", []string{"market", "stock", "analyst", "upgrade"}},
	}
)

// fallbackEnrich analyzes the article text with keyword matching.
// Score magnitude grows with keyword count: ±(0.3 + 0.1×count), then
// clamped to [-1, 1].
func fallbackEnrich(a *news.Article) *news.Enrichment {
	text := strings.ToLower(a.Title)
	if a.Content != nil {
		text += " " + strings.ToLower(*a.Content)
	}

	positive := countMatches(text, positiveKeywords)
	negative := countMatches(text, negativeKeywords)

	var score float64
	label := news.SentimentNeutral
	switch {
	case positive > negative:
		score = 0.3 + float64(positive)*0.1
		label = news.SentimentPositive
	case negative > positive:
		score = -0.3 - float64(negative)*0.1
		label = news.SentimentNegative
	}
	score = clampScore(score)
	score = math.Round(score*100) / 100

	classification := "other"
	for _, group := range classificationGroups {
		if countMatches(text, group.keywords) > 0 {
			classification = group.name
			break
		}
	}

	return &news.Enrichment{
		SentimentScore: score,
		SentimentLabel: label,
		Classification: classification,
		MarketImpact:   news.ImpactMedium,
		KeyInsights: news.Insights{
			Summary:       fmt.Sprintf("Article discusses %s developments.", classification),
			Risks:         []string{"Market volatility"},
			Opportunities: []string{"Potential growth areas"},
			ActionItems:   []string{"Monitor for updates"},
		},
	}
}

func countMatches(text string, keywords []string) int {
	count := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			count++
		}
	}
	return count
}

func clampScore(score float64) float64 {
	return math.Max(-1.0, math.Min(1.0, score))
}
