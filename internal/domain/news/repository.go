package news

import "context"

// Repository defines the interface for article persistence.
type Repository interface {
	// Add inserts the article unless one with the same URL already
	// exists, in which case the existing row is returned unchanged.
	Add(ctx context.Context, a *Article) (*Article, error)

	// ApplyEnrichment sets all enrichment fields plus enriched_at on an
	// existing article. A no-op when the id is unknown.
	ApplyEnrichment(ctx context.Context, id int64, e *Enrichment) error

	// GetBySymbol returns the most recent articles for a symbol,
	// newest published first.
	GetBySymbol(ctx context.Context, symbol string, limit int) ([]*Article, error)

	// GetUnenriched returns articles that have not been enriched yet.
	// An empty symbol matches all companies.
	GetUnenriched(ctx context.Context, symbol string) ([]*Article, error)

	// AverageSentiment returns the mean sentiment score over enriched
	// articles for a symbol, or nil when none are enriched.
	AverageSentiment(ctx context.Context, symbol string) (*float64, error)
}
