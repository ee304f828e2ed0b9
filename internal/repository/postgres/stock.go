package postgres

import (
	"context"

	"companyintel/internal/domain/stock"
	"companyintel/internal/metrics"
	"companyintel/pkg/errors"
)

// StockRepository implements stock.Repository
type StockRepository struct {
	db DBTX
}

// NewStockRepository creates a new stock record repository
func NewStockRepository(db DBTX) *StockRepository {
	return &StockRepository{db: db}
}

// AddRecords inserts records that do not yet exist for their (symbol, date)
// key. ON CONFLICT DO NOTHING makes re-ingestion a no-op; the returned count
// comes from RowsAffected so callers can report how many rows were new.
func (r *StockRepository) AddRecords(ctx context.Context, symbol string, records []stock.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO stock_records (
			symbol, date, open_price, high_price, low_price, close_price, volume
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (symbol, date) DO NOTHING
	`

	inserted := 0
	for _, rec := range records {
		res, err := r.db.ExecContext(ctx, query,
			symbol, rec.Date, rec.Open, rec.High, rec.Low, rec.Close, rec.Volume,
		)
		if err != nil {
			metrics.DBQueries.WithLabelValues("stock_insert", "error").Inc()
			return inserted, errors.Wrapf(err, "insert stock record %s %s", symbol, rec.Date.Format("2006-01-02"))
		}
		n, err := res.RowsAffected()
		if err != nil {
			return inserted, errors.Wrap(err, "rows affected")
		}
		inserted += int(n)
	}
	metrics.DBQueries.WithLabelValues("stock_insert", "success").Inc()
	return inserted, nil
}

// GetRecent returns the most recent records for a symbol, newest first
func (r *StockRepository) GetRecent(ctx context.Context, symbol string, limit int) ([]stock.Record, error) {
	query := `
		SELECT id, symbol, date, open_price, high_price, low_price, close_price, volume
		FROM stock_records
		WHERE symbol = $1
		ORDER BY date DESC
		LIMIT $2
	`

	records := []stock.Record{}
	if err := r.db.SelectContext(ctx, &records, query, symbol, limit); err != nil {
		metrics.DBQueries.WithLabelValues("stock_get", "error").Inc()
		return nil, errors.Wrap(err, "get recent stock records")
	}
	metrics.DBQueries.WithLabelValues("stock_get", "success").Inc()
	return records, nil
}
