package alphavantage

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Upstream payloads encode absent numbers as sentinel strings. Coercion
// maps those (and anything unparsable) to an explicit null instead of
// failing the fetch.

func nullDecimal(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	if s == "" || s == "None" || s == "-" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func nullInt64(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "None" || s == "-" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	n := int64(f)
	return &n
}

func optString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
