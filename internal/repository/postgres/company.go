package postgres

import (
	"context"
	"database/sql"

	"companyintel/internal/domain/company"
	"companyintel/internal/metrics"
	"companyintel/pkg/errors"
)

// CompanyRepository implements company.Repository
type CompanyRepository struct {
	db DBTX
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db DBTX) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// Upsert inserts the company or merges it onto the existing row.
// COALESCE keeps values already on file when the incoming field is NULL,
// so a later ingestion with less data never erases an earlier one.
func (r *CompanyRepository) Upsert(ctx context.Context, c *company.Company) error {
	c.Normalize()

	query := `
		INSERT INTO companies (
			symbol, name, sector, industry, description,
			market_cap, pe_ratio, dividend_yield,
			fifty_two_week_high, fifty_two_week_low, enriched_summary
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (symbol) DO UPDATE SET
			name                = EXCLUDED.name,
			sector              = COALESCE(EXCLUDED.sector, companies.sector),
			industry            = COALESCE(EXCLUDED.industry, companies.industry),
			description         = COALESCE(EXCLUDED.description, companies.description),
			market_cap          = COALESCE(EXCLUDED.market_cap, companies.market_cap),
			pe_ratio            = COALESCE(EXCLUDED.pe_ratio, companies.pe_ratio),
			dividend_yield      = COALESCE(EXCLUDED.dividend_yield, companies.dividend_yield),
			fifty_two_week_high = COALESCE(EXCLUDED.fifty_two_week_high, companies.fifty_two_week_high),
			fifty_two_week_low  = COALESCE(EXCLUDED.fifty_two_week_low, companies.fifty_two_week_low),
			enriched_summary    = COALESCE(EXCLUDED.enriched_summary, companies.enriched_summary),
			updated_at          = NOW()
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		c.Symbol, c.Name, c.Sector, c.Industry, c.Description,
		c.MarketCap, c.PERatio, c.DividendYield,
		c.FiftyTwoWeekHigh, c.FiftyTwoWeekLow, c.EnrichedSummary,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		metrics.DBQueries.WithLabelValues("company_upsert", "error").Inc()
		return errors.Wrap(err, "upsert company")
	}
	metrics.DBQueries.WithLabelValues("company_upsert", "success").Inc()
	return nil
}

// GetBySymbol retrieves a company by ticker symbol
func (r *CompanyRepository) GetBySymbol(ctx context.Context, symbol string) (*company.Company, error) {
	query := `
		SELECT symbol, name, sector, industry, description,
		       market_cap, pe_ratio, dividend_yield,
		       fifty_two_week_high, fifty_two_week_low,
		       enriched_summary, created_at, updated_at
		FROM companies
		WHERE symbol = $1
	`

	c := &company.Company{}
	err := r.db.GetContext(ctx, c, query, symbol)
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		metrics.DBQueries.WithLabelValues("company_get", "error").Inc()
		return nil, errors.Wrap(err, "get company by symbol")
	}
	metrics.DBQueries.WithLabelValues("company_get", "success").Inc()
	return c, nil
}

// List returns all companies ordered by display name
func (r *CompanyRepository) List(ctx context.Context) ([]*company.Company, error) {
	query := `
		SELECT symbol, name, sector, industry, description,
		       market_cap, pe_ratio, dividend_yield,
		       fifty_two_week_high, fifty_two_week_low,
		       enriched_summary, created_at, updated_at
		FROM companies
		ORDER BY name
	`

	companies := []*company.Company{}
	if err := r.db.SelectContext(ctx, &companies, query); err != nil {
		metrics.DBQueries.WithLabelValues("company_list", "error").Inc()
		return nil, errors.Wrap(err, "list companies")
	}
	metrics.DBQueries.WithLabelValues("company_list", "success").Inc()
	return companies, nil
}
