package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"companyintel/internal/domain/company"
	"companyintel/internal/domain/news"
	"companyintel/internal/domain/stock"
	pgrepo "companyintel/internal/repository/postgres"
	"companyintel/internal/testsupport"
	"companyintel/pkg/errors"
)

func strPtr(s string) *string { return &s }

func dec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestCompanyRepository_Integration(t *testing.T) {
	cfg := testsupport.LoadDatabaseConfigsFromEnv(t)
	helper := testsupport.NewPostgresTestHelper(t, cfg.Postgres)
	repo := pgrepo.NewCompanyRepository(helper.Tx())
	ctx := context.Background()

	t.Run("upsert and get", func(t *testing.T) {
		c := &company.Company{
			Symbol:    "ITACME",
			Name:      "Acme Corp",
			Sector:    strPtr("Technology"),
			MarketCap: dec("1000000000"),
		}
		require.NoError(t, repo.Upsert(ctx, c))
		assert.False(t, c.CreatedAt.IsZero())
		assert.False(t, c.UpdatedAt.IsZero())

		got, err := repo.GetBySymbol(ctx, "ITACME")
		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", got.Name)
		assert.Equal(t, "Technology", *got.Sector)
		assert.True(t, got.MarketCap.Decimal.Equal(decimal.RequireFromString("1000000000")))
	})

	t.Run("upsert preserves existing data on null fields", func(t *testing.T) {
		update := &company.Company{
			Symbol:  "ITACME",
			Name:    "Acme Corporation",
			PERatio: dec("31.4"),
		}
		require.NoError(t, repo.Upsert(ctx, update))

		got, err := repo.GetBySymbol(ctx, "ITACME")
		require.NoError(t, err)
		assert.Equal(t, "Acme Corporation", got.Name)
		require.NotNil(t, got.Sector, "null sector in update must not clear the stored one")
		assert.Equal(t, "Technology", *got.Sector)
		assert.True(t, got.MarketCap.Valid)
		assert.True(t, got.PERatio.Decimal.Equal(decimal.RequireFromString("31.4")))
	})

	t.Run("get unknown symbol", func(t *testing.T) {
		_, err := repo.GetBySymbol(ctx, "ITGHOST")
		assert.ErrorIs(t, err, errors.ErrNotFound)
	})

	t.Run("list ordered by name", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, &company.Company{Symbol: "ITZZZ", Name: "Zeta Industries"}))

		companies, err := repo.List(ctx)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(companies), 2)

		var names []string
		for _, c := range companies {
			names = append(names, c.Name)
		}
		assert.IsNonDecreasing(t, names)
	})
}

func TestStockRepository_Integration(t *testing.T) {
	cfg := testsupport.LoadDatabaseConfigsFromEnv(t)
	helper := testsupport.NewPostgresTestHelper(t, cfg.Postgres)
	repo := pgrepo.NewStockRepository(helper.Tx())
	ctx := context.Background()

	day := func(offset int) time.Time {
		return time.Date(2025, 6, 1+offset, 0, 0, 0, 0, time.UTC)
	}
	vol := int64(900000)
	records := []stock.Record{
		{Symbol: "ITACME", Date: day(0), Open: dec("10.0"), Close: dec("10.5"), Volume: &vol},
		{Symbol: "ITACME", Date: day(1), Open: dec("10.5"), Close: dec("11.0"), Volume: &vol},
		{Symbol: "ITACME", Date: day(2), Close: dec("11.2")},
	}

	inserted, err := repo.AddRecords(ctx, "ITACME", records)
	require.NoError(t, err)
	assert.Equal(t, 3, inserted)

	t.Run("reinsert is idempotent", func(t *testing.T) {
		again, err := repo.AddRecords(ctx, "ITACME", records)
		require.NoError(t, err)
		assert.Equal(t, 0, again)
	})

	t.Run("partial overlap counts only new rows", func(t *testing.T) {
		mixed := append(records[2:], stock.Record{Symbol: "ITACME", Date: day(3), Close: dec("11.4")})
		n, err := repo.AddRecords(ctx, "ITACME", mixed)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("recent is newest first and limited", func(t *testing.T) {
		recent, err := repo.GetRecent(ctx, "ITACME", 2)
		require.NoError(t, err)
		require.Len(t, recent, 2)
		assert.Equal(t, day(3), recent[0].Date.UTC())
		assert.Equal(t, day(2), recent[1].Date.UTC())
		assert.False(t, recent[1].Open.Valid, "sentinel prices stay null")
	})
}

func TestNewsRepository_Integration(t *testing.T) {
	cfg := testsupport.LoadDatabaseConfigsFromEnv(t)
	helper := testsupport.NewPostgresTestHelper(t, cfg.Postgres)
	repo := pgrepo.NewNewsRepository(helper.Tx())
	ctx := context.Background()

	published := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	article := &news.Article{
		Symbol:      "ITACME",
		Title:       "Acme beats earnings expectations",
		Source:      strPtr("Financial Times"),
		URL:         strPtr("https://example.com/it/acme-earnings"),
		PublishedAt: &published,
		Content:     strPtr("Strong quarter."),
	}

	stored, err := repo.Add(ctx, article)
	require.NoError(t, err)
	require.NotZero(t, stored.ID)

	t.Run("duplicate url returns existing row", func(t *testing.T) {
		dup, err := repo.Add(ctx, &news.Article{
			Symbol: "ITACME",
			Title:  "Different headline, same link",
			URL:    strPtr("https://example.com/it/acme-earnings"),
		})
		require.NoError(t, err)
		assert.Equal(t, stored.ID, dup.ID)
		assert.Equal(t, "Acme beats earnings expectations", dup.Title)
	})

	t.Run("null urls never collide", func(t *testing.T) {
		a, err := repo.Add(ctx, &news.Article{Symbol: "ITACME", Title: "No link one"})
		require.NoError(t, err)
		b, err := repo.Add(ctx, &news.Article{Symbol: "ITACME", Title: "No link two"})
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})

	t.Run("enrichment round trip", func(t *testing.T) {
		unenriched, err := repo.GetUnenriched(ctx, "ITACME")
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(unenriched), 3)

		e := &news.Enrichment{
			SentimentScore: 0.85,
			SentimentLabel: news.SentimentPositive,
			Classification: "earnings",
			MarketImpact:   news.ImpactHigh,
			KeyInsights: news.Insights{
				Summary: "Earnings beat expectations.",
				Risks:   []string{"Guidance uncertainty"},
			},
		}
		require.NoError(t, repo.ApplyEnrichment(ctx, stored.ID, e))

		articles, err := repo.GetBySymbol(ctx, "ITACME", 10)
		require.NoError(t, err)

		var got *news.Article
		for _, a := range articles {
			if a.ID == stored.ID {
				got = a
			}
		}
		require.NotNil(t, got)
		assert.True(t, got.Enriched())
		assert.Equal(t, 0.85, *got.SentimentScore)
		assert.Equal(t, news.SentimentPositive, *got.SentimentLabel)
		assert.Equal(t, "earnings", *got.Classification)
		assert.Equal(t, news.ImpactHigh, *got.MarketImpact)
		assert.Equal(t, "Earnings beat expectations.", got.KeyInsights.Summary)
		assert.Equal(t, []string{"Guidance uncertainty"}, got.KeyInsights.Risks)
	})

	t.Run("enrichment for unknown id is a no-op", func(t *testing.T) {
		err := repo.ApplyEnrichment(ctx, 999999999, &news.Enrichment{SentimentLabel: news.SentimentNeutral})
		assert.NoError(t, err)
	})

	t.Run("unenriched excludes enriched rows", func(t *testing.T) {
		unenriched, err := repo.GetUnenriched(ctx, "ITACME")
		require.NoError(t, err)
		for _, a := range unenriched {
			assert.NotEqual(t, stored.ID, a.ID)
		}
	})

	t.Run("average sentiment", func(t *testing.T) {
		avg, err := repo.AverageSentiment(ctx, "ITACME")
		require.NoError(t, err)
		require.NotNil(t, avg)
		assert.InDelta(t, 0.85, *avg, 1e-9)

		none, err := repo.AverageSentiment(ctx, "ITGHOST")
		require.NoError(t, err)
		assert.Nil(t, none)
	})
}
