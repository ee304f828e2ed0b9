package stock

import "context"

// Repository defines the interface for time-series persistence.
// Ingestion is additive-only: existing (symbol, date) rows are never updated.
type Repository interface {
	// AddRecords inserts records that do not yet exist for their
	// (symbol, date) key and returns the count actually inserted.
	AddRecords(ctx context.Context, symbol string, records []Record) (int, error)

	// GetRecent returns the most recent records for a symbol, newest first.
	GetRecent(ctx context.Context, symbol string, limit int) ([]Record, error)
}
