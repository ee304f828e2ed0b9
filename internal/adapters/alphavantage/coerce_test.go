package alphavantage

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullDecimal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  decimal.NullDecimal
	}{
		{"valid number", "123.45", decimal.NullDecimal{Decimal: decimal.RequireFromString("123.45"), Valid: true}},
		{"integer", "2500000000", decimal.NullDecimal{Decimal: decimal.RequireFromString("2500000000"), Valid: true}},
		{"empty string", "", decimal.NullDecimal{}},
		{"None sentinel", "None", decimal.NullDecimal{}},
		{"dash sentinel", "-", decimal.NullDecimal{}},
		{"garbage", "N/A%", decimal.NullDecimal{}},
		{"whitespace padded", "  9.5  ", decimal.NullDecimal{Decimal: decimal.RequireFromString("9.5"), Valid: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nullDecimal(tt.input)
			assert.Equal(t, tt.want.Valid, got.Valid)
			if tt.want.Valid {
				assert.True(t, tt.want.Decimal.Equal(got.Decimal))
			}
		})
	}
}

func TestNullInt64(t *testing.T) {
	got := nullInt64("12345678")
	require.NotNil(t, got)
	assert.Equal(t, int64(12345678), *got)

	// Providers occasionally deliver volumes in scientific notation.
	got = nullInt64("1.5e6")
	require.NotNil(t, got)
	assert.Equal(t, int64(1500000), *got)

	assert.Nil(t, nullInt64(""))
	assert.Nil(t, nullInt64("None"))
	assert.Nil(t, nullInt64("-"))
	assert.Nil(t, nullInt64("abc"))
}

func TestOptString(t *testing.T) {
	got := optString("Technology")
	require.NotNil(t, got)
	assert.Equal(t, "Technology", *got)

	assert.Nil(t, optString(""))
	assert.Nil(t, optString("   "))
}
