package memory

import (
	"context"
	"sort"
	"sync"

	"companyintel/internal/domain/stock"
)

var _ stock.Repository = (*StockRepository)(nil)

type stockKey struct {
	symbol string
	date   string
}

// StockRepository is an in-memory stock.Repository.
type StockRepository struct {
	mu      sync.RWMutex
	records map[stockKey]stock.Record
	nextID  int64
}

// NewStockRepository creates an empty in-memory stock repository.
func NewStockRepository() *StockRepository {
	return &StockRepository{records: make(map[stockKey]stock.Record), nextID: 1}
}

// AddRecords inserts records missing for their (symbol, date) key and
// returns the count actually inserted.
func (r *StockRepository) AddRecords(_ context.Context, symbol string, records []stock.Record) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inserted := 0
	for _, rec := range records {
		key := stockKey{symbol: symbol, date: rec.Date.Format("2006-01-02")}
		if _, ok := r.records[key]; ok {
			continue
		}
		rec.ID = r.nextID
		rec.Symbol = symbol
		r.nextID++
		r.records[key] = rec
		inserted++
	}
	return inserted, nil
}

// GetRecent returns the most recent records for a symbol, newest first.
func (r *StockRepository) GetRecent(_ context.Context, symbol string, limit int) ([]stock.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []stock.Record{}
	for key, rec := range r.records {
		if key.symbol == symbol {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
