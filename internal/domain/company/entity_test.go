package company

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func dec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestNormalize_BackfillsName(t *testing.T) {
	c := &Company{Symbol: "ACME"}
	c.Normalize()
	assert.Equal(t, "ACME", c.Name)

	c = &Company{Symbol: "ACME", Name: "Acme Corp"}
	c.Normalize()
	assert.Equal(t, "Acme Corp", c.Name)
}

func TestNormalize_TruncatesDescription(t *testing.T) {
	long := strings.Repeat("x", MaxDescriptionLength+500)
	c := &Company{Symbol: "ACME", Description: &long}
	c.Normalize()

	require.NotNil(t, c.Description)
	assert.Len(t, *c.Description, MaxDescriptionLength+3)
	assert.True(t, strings.HasSuffix(*c.Description, "..."))

	exact := strings.Repeat("y", MaxDescriptionLength)
	c = &Company{Symbol: "ACME", Description: &exact}
	c.Normalize()
	assert.Equal(t, exact, *c.Description)
}

func TestApplyUpdate_MergesNonNullFields(t *testing.T) {
	existing := &Company{
		Symbol:      "ACME",
		Name:        "Acme Corp",
		Sector:      strPtr("Technology"),
		Industry:    strPtr("Software"),
		Description: strPtr("Original description"),
		MarketCap:   dec("1000000"),
		PERatio:     dec("25.5"),
	}

	existing.ApplyUpdate(&Company{
		Symbol:    "ACME",
		Name:      "Acme Corporation",
		Sector:    strPtr("Industrials"),
		MarketCap: dec("2000000"),
	})

	assert.Equal(t, "Acme Corporation", existing.Name)
	assert.Equal(t, "Industrials", *existing.Sector)
	assert.Equal(t, "Software", *existing.Industry, "null field must not clear existing data")
	assert.Equal(t, "Original description", *existing.Description)
	assert.True(t, existing.MarketCap.Decimal.Equal(decimal.RequireFromString("2000000")))
	assert.True(t, existing.PERatio.Decimal.Equal(decimal.RequireFromString("25.5")))
}

func TestApplyUpdate_EmptyNameKeepsExisting(t *testing.T) {
	existing := &Company{Symbol: "ACME", Name: "Acme Corp"}
	existing.ApplyUpdate(&Company{Symbol: "ACME"})
	assert.Equal(t, "Acme Corp", existing.Name)
}

func TestApplyUpdate_SetsSummary(t *testing.T) {
	existing := &Company{Symbol: "ACME", Name: "Acme Corp", EnrichedSummary: strPtr("old")}

	existing.ApplyUpdate(&Company{Symbol: "ACME", Name: "Acme Corp"})
	assert.Equal(t, "old", *existing.EnrichedSummary)

	existing.ApplyUpdate(&Company{Symbol: "ACME", Name: "Acme Corp", EnrichedSummary: strPtr("new")})
	assert.Equal(t, "new", *existing.EnrichedSummary)
}

func TestPlaceholder(t *testing.T) {
	c := Placeholder("GHOST")
	assert.Equal(t, "GHOST", c.Symbol)
	assert.Equal(t, "GHOST", c.Name)
	assert.Equal(t, "Unknown", *c.Sector)
	assert.Equal(t, "Company data not available", *c.Description)
	assert.False(t, c.MarketCap.Valid)
}
