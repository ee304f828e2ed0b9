package company

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxDescriptionLength caps stored descriptions; upstream overview
// payloads can run to tens of kilobytes.
const MaxDescriptionLength = 2000

// Company is the core entity record, keyed by ticker symbol.
// Pointer and NullDecimal fields are nullable: an absent value from the
// structured source must never overwrite data already on file.
type Company struct {
	Symbol            string              `db:"symbol" json:"symbol"`
	Name              string              `db:"name" json:"name"`
	Sector            *string             `db:"sector" json:"sector,omitempty"`
	Industry          *string             `db:"industry" json:"industry,omitempty"`
	Description       *string             `db:"description" json:"description,omitempty"`
	MarketCap         decimal.NullDecimal `db:"market_cap" json:"market_cap"`
	PERatio           decimal.NullDecimal `db:"pe_ratio" json:"pe_ratio"`
	DividendYield     decimal.NullDecimal `db:"dividend_yield" json:"dividend_yield"`
	FiftyTwoWeekHigh  decimal.NullDecimal `db:"fifty_two_week_high" json:"fifty_two_week_high"`
	FiftyTwoWeekLow   decimal.NullDecimal `db:"fifty_two_week_low" json:"fifty_two_week_low"`
	EnrichedSummary   *string             `db:"enriched_summary" json:"enriched_summary,omitempty"`
	CreatedAt         time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time           `db:"updated_at" json:"updated_at"`
}

// Placeholder returns the minimal record used when the structured source
// has no data for a symbol, so downstream steps always have a usable entity.
func Placeholder(symbol string) *Company {
	sector := "Unknown"
	description := "Company data not available"
	return &Company{
		Symbol:      symbol,
		Name:        symbol,
		Sector:      &sector,
		Description: &description,
	}
}

// Normalize truncates oversized descriptions and backfills required fields.
func (c *Company) Normalize() {
	if c.Name == "" {
		c.Name = c.Symbol
	}
	if c.Description != nil && len(*c.Description) > MaxDescriptionLength {
		truncated := (*c.Description)[:MaxDescriptionLength] + "..."
		c.Description = &truncated
	}
}

// ApplyUpdate merges non-null fields from in onto c. Name is always taken
// from the incoming record (it is never null); every other field is copied
// only when present, so repeated ingestion cannot null out existing data.
func (c *Company) ApplyUpdate(in *Company) {
	if in.Name != "" {
		c.Name = in.Name
	}
	if in.Sector != nil {
		c.Sector = in.Sector
	}
	if in.Industry != nil {
		c.Industry = in.Industry
	}
	if in.Description != nil {
		c.Description = in.Description
	}
	if in.MarketCap.Valid {
		c.MarketCap = in.MarketCap
	}
	if in.PERatio.Valid {
		c.PERatio = in.PERatio
	}
	if in.DividendYield.Valid {
		c.DividendYield = in.DividendYield
	}
	if in.FiftyTwoWeekHigh.Valid {
		c.FiftyTwoWeekHigh = in.FiftyTwoWeekHigh
	}
	if in.FiftyTwoWeekLow.Valid {
		c.FiftyTwoWeekLow = in.FiftyTwoWeekLow
	}
	if in.EnrichedSummary != nil {
		c.EnrichedSummary = in.EnrichedSummary
	}
}
