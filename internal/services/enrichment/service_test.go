package enrichment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"companyintel/internal/domain/company"
	"companyintel/internal/domain/news"
	"companyintel/pkg/errors"
)

// fakeProvider scripts the chat provider for tests.
type fakeProvider struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(_ context.Context, prompt string, _ int) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func strPtr(s string) *string { return &s }

func article(title, content string) *news.Article {
	return &news.Article{Symbol: "ACME", Title: title, Content: strPtr(content)}
}

func TestFallbackEnrich_Positive(t *testing.T) {
	e := fallbackEnrich(article("Acme Reports Strong Growth, Beats Expectations", ""))

	assert.Equal(t, news.SentimentPositive, e.SentimentLabel)
	// Three positive keywords: strong, growth, beats.
	assert.InDelta(t, 0.6, e.SentimentScore, 0.001)
	assert.Equal(t, news.ImpactMedium, e.MarketImpact)
	assert.NotEmpty(t, e.KeyInsights.Summary)
	assert.NotEmpty(t, e.KeyInsights.Risks)
	assert.NotEmpty(t, e.KeyInsights.Opportunities)
	assert.NotEmpty(t, e.KeyInsights.ActionItems)
}

func TestFallbackEnrich_Negative(t *testing.T) {
	e := fallbackEnrich(article("Acme Faces Lawsuit and Regulatory Scrutiny", ""))

	assert.Equal(t, news.SentimentNegative, e.SentimentLabel)
	assert.InDelta(t, -0.5, e.SentimentScore, 0.001)
	assert.Equal(t, "legal", e.Classification)
}

func TestFallbackEnrich_Neutral(t *testing.T) {
	e := fallbackEnrich(article("Acme Holds Annual Meeting", ""))

	assert.Equal(t, news.SentimentNeutral, e.SentimentLabel)
	assert.Zero(t, e.SentimentScore)
	assert.Equal(t, "other", e.Classification)
}

func TestFallbackEnrich_ScoreBounds(t *testing.T) {
	// All eight positive keywords would push the raw score to 1.1.
	e := fallbackEnrich(article(
		"growth beats exceeds upgrade strong success innovation profit", ""))
	assert.LessOrEqual(t, e.SentimentScore, 1.0)
	assert.Equal(t, 1.0, e.SentimentScore)

	e = fallbackEnrich(article(
		"loss decline scrutiny investigation concern risk lawsuit miss", ""))
	assert.GreaterOrEqual(t, e.SentimentScore, -1.0)
	assert.Equal(t, -1.0, e.SentimentScore)
}

func TestFallbackEnrich_ClassificationPriority(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Quarterly revenue results released", "earnings"},
		{"New product launch announced", "product"},
		{"Company hit with lawsuit", "legal"},
		{"CEO steps down amid leadership change", "executive"},
		{"Analyst sees stock moving higher", "market"},
		{"Weekly roundup of industry happenings", "other"},
		// Earnings keywords outrank product keywords.
		{"Earnings call covers new product launch", "earnings"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			e := fallbackEnrich(article(tt.title, ""))
			assert.Equal(t, tt.want, e.Classification)
		})
	}
}

func TestFallbackEnrich_UsesContent(t *testing.T) {
	e := fallbackEnrich(article("Acme in the news", "The company posted strong growth this quarter."))
	assert.Equal(t, news.SentimentPositive, e.SentimentLabel)
	assert.Equal(t, "earnings", e.Classification)
}

func TestEnrichArticle_NoProviderUsesFallback(t *testing.T) {
	svc := NewService(nil)

	e, err := svc.EnrichArticle(context.Background(), article("Strong growth reported", ""), "Acme Corp")
	require.NoError(t, err)
	assert.Equal(t, news.SentimentPositive, e.SentimentLabel)
}

func TestEnrichArticle_ProviderJSON(t *testing.T) {
	provider := &fakeProvider{response: `{
		"sentiment_score": 0.85,
		"sentiment_label": "positive",
		"classification": "earnings",
		"market_impact": "high",
		"key_insights": {
			"summary": "Record quarter.",
			"risks": ["FX exposure"],
			"opportunities": ["Margin expansion"],
			"action_items": ["Watch guidance"]
		}
	}`}
	svc := NewService(provider)

	e, err := svc.EnrichArticle(context.Background(), article("Acme earnings", "body"), "Acme Corp")
	require.NoError(t, err)
	assert.Equal(t, 0.85, e.SentimentScore)
	assert.Equal(t, "positive", e.SentimentLabel)
	assert.Equal(t, "earnings", e.Classification)
	assert.Equal(t, "high", e.MarketImpact)
	assert.Equal(t, "Record quarter.", e.KeyInsights.Summary)

	require.Len(t, provider.prompts, 1)
	assert.Contains(t, provider.prompts[0], "Acme Corp")
	assert.Contains(t, provider.prompts[0], "Acme earnings")
}

func TestEnrichArticle_FencedJSON(t *testing.T) {
	provider := &fakeProvider{response: "Here is the analysis:\n```json\n" +
		`{"sentiment_score": -0.4, "sentiment_label": "negative", "classification": "legal", "market_impact": "low", "key_insights": {"summary": "Inquiry opened."}}` +
		"\n```"}
	svc := NewService(provider)

	e, err := svc.EnrichArticle(context.Background(), article("Acme probed", ""), "Acme Corp")
	require.NoError(t, err)
	assert.Equal(t, -0.4, e.SentimentScore)
	assert.Equal(t, "legal", e.Classification)
}

func TestEnrichArticle_ClampsAndNormalizes(t *testing.T) {
	provider := &fakeProvider{response: `{
		"sentiment_score": 7.5,
		"sentiment_label": "POSITIVE",
		"classification": "merger",
		"market_impact": "catastrophic",
		"key_insights": {"summary": "s"}
	}`}
	svc := NewService(provider)

	e, err := svc.EnrichArticle(context.Background(), article("t", ""), "Acme Corp")
	require.NoError(t, err)
	assert.Equal(t, 1.0, e.SentimentScore)
	assert.Equal(t, news.SentimentPositive, e.SentimentLabel)
	assert.Equal(t, "other", e.Classification)
	assert.Equal(t, news.ImpactMedium, e.MarketImpact)
}

func TestEnrichArticle_ProviderErrorFallsBack(t *testing.T) {
	provider := &fakeProvider{err: errors.ErrExternal}
	svc := NewService(provider)

	e, err := svc.EnrichArticle(context.Background(), article("Strong profit growth", ""), "Acme Corp")
	require.NoError(t, err)
	assert.Equal(t, news.SentimentPositive, e.SentimentLabel)
}

func TestEnrichArticle_UnparsableFallsBack(t *testing.T) {
	provider := &fakeProvider{response: "I cannot produce JSON today."}
	svc := NewService(provider)

	e, err := svc.EnrichArticle(context.Background(), article("Loss widens amid decline", ""), "Acme Corp")
	require.NoError(t, err)
	assert.Equal(t, news.SentimentNegative, e.SentimentLabel)
}

func TestSummarizeCompany_Provider(t *testing.T) {
	provider := &fakeProvider{response: "  Acme leads its sector.  "}
	svc := NewService(provider)

	c := &company.Company{Symbol: "ACME", Name: "Acme Corp", Sector: strPtr("Technology")}
	articles := []*news.Article{
		article("One", ""), article("Two", ""), article("Three", ""),
		article("Four", ""), article("Five", ""), article("Six", ""),
	}

	got := svc.SummarizeCompany(context.Background(), c, articles)
	assert.Equal(t, "Acme leads its sector.", got)

	require.Len(t, provider.prompts, 1)
	assert.Contains(t, provider.prompts[0], "5. Five")
	assert.NotContains(t, provider.prompts[0], "Six")
}

func TestSummarizeCompany_Fallback(t *testing.T) {
	svc := NewService(nil)

	c := &company.Company{Symbol: "ACME", Name: "Acme Corp", Sector: strPtr("Technology")}
	got := svc.SummarizeCompany(context.Background(), c, nil)
	assert.Contains(t, got, "Acme Corp")
	assert.Contains(t, got, "Technology")
}

func TestSummarizeCompany_FallbackOnProviderError(t *testing.T) {
	provider := &fakeProvider{err: errors.ErrTimeout}
	svc := NewService(provider)

	c := &company.Company{Symbol: "ACME", Name: "Acme Corp"}
	got := svc.SummarizeCompany(context.Background(), c, nil)
	assert.Contains(t, got, "Acme Corp")
}
