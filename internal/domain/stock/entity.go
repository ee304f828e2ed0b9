package stock

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is one daily OHLCV data point. Natural key: (symbol, date).
// Price fields are nullable because upstream payloads routinely carry
// sentinel strings instead of numbers.
type Record struct {
	ID     int64               `db:"id" json:"-"`
	Symbol string              `db:"symbol" json:"symbol"`
	Date   time.Time           `db:"date" json:"date"`
	Open   decimal.NullDecimal `db:"open_price" json:"open_price"`
	High   decimal.NullDecimal `db:"high_price" json:"high_price"`
	Low    decimal.NullDecimal `db:"low_price" json:"low_price"`
	Close  decimal.NullDecimal `db:"close_price" json:"close_price"`
	Volume *int64              `db:"volume" json:"volume"`
}
