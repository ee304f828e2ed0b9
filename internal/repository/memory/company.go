// Package memory holds in-process repository implementations. The run
// registry is the production implementation (run state is ephemeral by
// design); the entity repositories back tests and local development
// without a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"companyintel/internal/domain/company"
	"companyintel/pkg/errors"
)

var _ company.Repository = (*CompanyRepository)(nil)

// CompanyRepository is an in-memory company.Repository.
type CompanyRepository struct {
	mu        sync.RWMutex
	companies map[string]*company.Company
}

// NewCompanyRepository creates an empty in-memory company repository.
func NewCompanyRepository() *CompanyRepository {
	return &CompanyRepository{companies: make(map[string]*company.Company)}
}

// Upsert inserts or merges, mirroring the COALESCE semantics of the
// Postgres implementation.
func (r *CompanyRepository) Upsert(_ context.Context, c *company.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.Normalize()
	now := time.Now().UTC()

	existing, ok := r.companies[c.Symbol]
	if !ok {
		stored := *c
		stored.CreatedAt = now
		stored.UpdatedAt = now
		r.companies[c.Symbol] = &stored
		c.CreatedAt = now
		c.UpdatedAt = now
		return nil
	}

	existing.ApplyUpdate(c)
	existing.UpdatedAt = now
	*c = *existing
	return nil
}

// GetBySymbol returns a copy of the stored company.
func (r *CompanyRepository) GetBySymbol(_ context.Context, symbol string) (*company.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.companies[symbol]
	if !ok {
		return nil, errors.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

// List returns all companies ordered by display name.
func (r *CompanyRepository) List(_ context.Context) ([]*company.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*company.Company, 0, len(r.companies))
	for _, c := range r.companies {
		copied := *c
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
