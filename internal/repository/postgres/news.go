package postgres

import (
	"context"
	"database/sql"

	"companyintel/internal/domain/news"
	"companyintel/internal/metrics"
	"companyintel/pkg/errors"
)

// NewsRepository implements news.Repository
type NewsRepository struct {
	db DBTX
}

// NewNewsRepository creates a new article repository
func NewNewsRepository(db DBTX) *NewsRepository {
	return &NewsRepository{db: db}
}

const articleColumns = `
	id, symbol, title, source, author, url, published_at, content,
	sentiment_score, sentiment_label, classification, market_impact,
	key_insights, enriched_at
`

// Add inserts the article unless one with the same URL is already stored,
// in which case the existing row is returned unchanged. Articles without a
// URL are always inserted; there is nothing to deduplicate on.
func (r *NewsRepository) Add(ctx context.Context, a *news.Article) (*news.Article, error) {
	if a.URL != nil {
		existing := &news.Article{}
		err := r.db.GetContext(ctx, existing,
			`SELECT `+articleColumns+` FROM news_articles WHERE url = $1`, *a.URL)
		if err == nil {
			metrics.DBQueries.WithLabelValues("news_add", "duplicate").Inc()
			return existing, nil
		}
		if err != sql.ErrNoRows {
			metrics.DBQueries.WithLabelValues("news_add", "error").Inc()
			return nil, errors.Wrap(err, "check article url")
		}
	}

	query := `
		INSERT INTO news_articles (
			symbol, title, source, author, url, published_at, content
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		a.Symbol, a.Title, a.Source, a.Author, a.URL, a.PublishedAt, a.Content,
	).Scan(&a.ID)
	if err != nil {
		metrics.DBQueries.WithLabelValues("news_add", "error").Inc()
		return nil, errors.Wrap(err, "insert article")
	}
	metrics.DBQueries.WithLabelValues("news_add", "success").Inc()
	return a, nil
}

// ApplyEnrichment sets the full enrichment block plus enriched_at on an
// existing article. Unknown ids are a no-op.
func (r *NewsRepository) ApplyEnrichment(ctx context.Context, id int64, e *news.Enrichment) error {
	query := `
		UPDATE news_articles SET
			sentiment_score = $2,
			sentiment_label = $3,
			classification  = $4,
			market_impact   = $5,
			key_insights    = $6,
			enriched_at     = NOW()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		id, e.SentimentScore, e.SentimentLabel, e.Classification, e.MarketImpact, e.KeyInsights,
	)
	if err != nil {
		metrics.DBQueries.WithLabelValues("news_enrich", "error").Inc()
		return errors.Wrap(err, "apply enrichment")
	}
	metrics.DBQueries.WithLabelValues("news_enrich", "success").Inc()
	return nil
}

// GetBySymbol returns the most recent articles for a symbol, newest first
func (r *NewsRepository) GetBySymbol(ctx context.Context, symbol string, limit int) ([]*news.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM news_articles
		WHERE symbol = $1
		ORDER BY published_at DESC NULLS LAST, id DESC
		LIMIT $2
	`
	articles := []*news.Article{}
	if err := r.db.SelectContext(ctx, &articles, query, symbol, limit); err != nil {
		metrics.DBQueries.WithLabelValues("news_get", "error").Inc()
		return nil, errors.Wrap(err, "get articles by symbol")
	}
	metrics.DBQueries.WithLabelValues("news_get", "success").Inc()
	return articles, nil
}

// GetUnenriched returns articles missing enrichment. An empty symbol
// matches all companies.
func (r *NewsRepository) GetUnenriched(ctx context.Context, symbol string) ([]*news.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM news_articles
		WHERE enriched_at IS NULL
		  AND ($1 = '' OR symbol = $1)
		ORDER BY published_at DESC NULLS LAST, id DESC
	`
	articles := []*news.Article{}
	if err := r.db.SelectContext(ctx, &articles, query, symbol); err != nil {
		metrics.DBQueries.WithLabelValues("news_unenriched", "error").Inc()
		return nil, errors.Wrap(err, "get unenriched articles")
	}
	metrics.DBQueries.WithLabelValues("news_unenriched", "success").Inc()
	return articles, nil
}

// AverageSentiment returns the mean sentiment score across enriched
// articles, or nil when nothing is enriched yet.
func (r *NewsRepository) AverageSentiment(ctx context.Context, symbol string) (*float64, error) {
	query := `
		SELECT AVG(sentiment_score)
		FROM news_articles
		WHERE symbol = $1 AND enriched_at IS NOT NULL
	`
	var avg sql.NullFloat64
	if err := r.db.GetContext(ctx, &avg, query, symbol); err != nil {
		metrics.DBQueries.WithLabelValues("news_avg_sentiment", "error").Inc()
		return nil, errors.Wrap(err, "average sentiment")
	}
	metrics.DBQueries.WithLabelValues("news_avg_sentiment", "success").Inc()
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}
