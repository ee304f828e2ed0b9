package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"companyintel/pkg/errors"
)

type Config struct {
	App           AppConfig
	HTTP          HTTPConfig
	Postgres      PostgresConfig
	Redis         RedisConfig
	AlphaVantage  AlphaVantageConfig
	NewsAPI       NewsAPIConfig
	AI            AIConfig
	Pipeline      PipelineConfig
	ErrorTracking ErrorTrackingConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"companyintel"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Version  string `envconfig:"APP_VERSION" default:"dev"`
}

type HTTPConfig struct {
	Port int `envconfig:"HTTP_PORT" default:"8080"`
}

type PostgresConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" required:"true"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" required:"true"`
	Password string `envconfig:"POSTGRES_PASSWORD" required:"true"`
	Database string `envconfig:"POSTGRES_DB" required:"true"`
	SSLMode  string `envconfig:"POSTGRES_SSL_MODE" default:"disable"`
	MaxConns int    `envconfig:"POSTGRES_MAX_CONNS" default:"25"`
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisConfig is optional: an empty host selects the in-process fetch cache.
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

// AlphaVantageConfig drives the structured data source adapter.
// The public "demo" key works for a handful of symbols, which keeps
// the service functional without real credentials.
type AlphaVantageConfig struct {
	APIKey            string        `envconfig:"ALPHA_VANTAGE_API_KEY" default:"demo"`
	BaseURL           string        `envconfig:"ALPHA_VANTAGE_BASE_URL" default:"https://www.alphavantage.co/query"`
	RequestsPerMinute int           `envconfig:"ALPHA_VANTAGE_RPM" default:"5"`
	Timeout           time.Duration `envconfig:"ALPHA_VANTAGE_TIMEOUT" default:"30s"`
}

// NewsAPIConfig drives the unstructured data source adapter.
// An empty key selects the deterministic mock article set.
type NewsAPIConfig struct {
	APIKey  string        `envconfig:"NEWS_API_KEY"`
	BaseURL string        `envconfig:"NEWS_API_BASE_URL" default:"https://newsapi.org/v2"`
	Timeout time.Duration `envconfig:"NEWS_API_TIMEOUT" default:"30s"`
}

// AIConfig selects the LLM provider used for article enrichment.
// When no key is configured for the selected provider, enrichment
// runs entirely on the keyword fallback.
type AIConfig struct {
	ClaudeKey   string        `envconfig:"CLAUDE_API_KEY"`
	OpenAIKey   string        `envconfig:"OPENAI_API_KEY"`
	Provider    string        `envconfig:"AI_PROVIDER" default:"claude"`
	ClaudeModel string        `envconfig:"CLAUDE_MODEL" default:"claude-3-5-sonnet-latest"`
	OpenAIModel string        `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	Timeout     time.Duration `envconfig:"AI_TIMEOUT" default:"60s"`
}

type PipelineConfig struct {
	CacheTTL    time.Duration `envconfig:"FETCH_CACHE_TTL" default:"300s"`
	StockDays   int           `envconfig:"PIPELINE_STOCK_DAYS" default:"30"`
	NewsDays    int           `envconfig:"PIPELINE_NEWS_DAYS" default:"7"`
	MaxArticles int           `envconfig:"PIPELINE_MAX_ARTICLES" default:"10"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"true"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}
