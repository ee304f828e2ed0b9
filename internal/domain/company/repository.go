package company

import "context"

// Repository defines the interface for company persistence.
type Repository interface {
	// Upsert inserts the company or merges non-null fields onto the
	// existing record (bumping updated_at). Idempotent by symbol.
	Upsert(ctx context.Context, c *Company) error

	// GetBySymbol returns the company or errors.ErrNotFound.
	GetBySymbol(ctx context.Context, symbol string) (*Company, error)

	// List returns all companies ordered by display name.
	List(ctx context.Context) ([]*Company, error)
}
