package news

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Sentiment labels
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Market impact levels
const (
	ImpactHigh   = "high"
	ImpactMedium = "medium"
	ImpactLow    = "low"
)

// Classifications returns the fixed article taxonomy.
func Classifications() []string {
	return []string{"earnings", "product", "legal", "market", "executive", "partnership", "other"}
}

// Insights is the structured insight payload attached during enrichment.
// Stored as a JSON column.
type Insights struct {
	Summary       string   `json:"summary"`
	Risks         []string `json:"risks"`
	Opportunities []string `json:"opportunities"`
	ActionItems   []string `json:"action_items"`
}

// Value implements driver.Valuer for JSON storage.
func (i Insights) Value() (driver.Value, error) {
	return json.Marshal(i)
}

// Scan implements sql.Scanner. NULL scans to the zero value; callers
// distinguish "never enriched" via EnrichedAt.
func (i *Insights) Scan(src interface{}) error {
	if src == nil {
		*i = Insights{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, i)
	case string:
		return json.Unmarshal([]byte(v), i)
	default:
		return fmt.Errorf("unsupported insights column type %T", src)
	}
}

// Enrichment is the all-or-nothing analysis block produced for one article.
type Enrichment struct {
	SentimentScore float64  `json:"sentiment_score"`
	SentimentLabel string   `json:"sentiment_label"`
	Classification string   `json:"classification"`
	MarketImpact   string   `json:"market_impact"`
	KeyInsights    Insights `json:"key_insights"`
}

// Article is one text item about a company. Natural key: source URL when
// present. Enrichment fields are set together or not at all; EnrichedAt
// non-null implies the sentiment fields are populated.
type Article struct {
	ID          int64      `db:"id" json:"id"`
	Symbol      string     `db:"symbol" json:"symbol"`
	Title       string     `db:"title" json:"title"`
	Source      *string    `db:"source" json:"source,omitempty"`
	Author      *string    `db:"author" json:"author,omitempty"`
	URL         *string    `db:"url" json:"url,omitempty"`
	PublishedAt *time.Time `db:"published_at" json:"published_at,omitempty"`
	Content     *string    `db:"content" json:"content,omitempty"`

	SentimentScore *float64   `db:"sentiment_score" json:"sentiment_score,omitempty"`
	SentimentLabel *string    `db:"sentiment_label" json:"sentiment_label,omitempty"`
	Classification *string    `db:"classification" json:"classification,omitempty"`
	MarketImpact   *string    `db:"market_impact" json:"market_impact,omitempty"`
	KeyInsights    Insights   `db:"key_insights" json:"key_insights"`
	EnrichedAt     *time.Time `db:"enriched_at" json:"enriched_at,omitempty"`
}

// Enriched reports whether the enrichment block has been applied.
func (a *Article) Enriched() bool {
	return a.EnrichedAt != nil
}
