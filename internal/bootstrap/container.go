// Package bootstrap assembles the application: configuration, data
// stores, source adapters, services, and the HTTP server, in
// initialization order.
package bootstrap

import (
	"context"

	goredis "github.com/redis/go-redis/v9"

	"companyintel/internal/adapters/ai"
	"companyintel/internal/adapters/alphavantage"
	"companyintel/internal/adapters/config"
	"companyintel/internal/adapters/newsapi"
	pgclient "companyintel/internal/adapters/postgres"
	redisclient "companyintel/internal/adapters/redis"
	"companyintel/internal/api"
	"companyintel/internal/api/health"
	"companyintel/internal/cache"
	"companyintel/internal/domain/company"
	"companyintel/internal/domain/news"
	"companyintel/internal/domain/run"
	"companyintel/internal/domain/stock"
	"companyintel/internal/repository/memory"
	pgrepo "companyintel/internal/repository/postgres"
	"companyintel/internal/services/enrichment"
	"companyintel/internal/services/insights"
	"companyintel/internal/services/pipeline"
	"companyintel/pkg/errors"
	"companyintel/pkg/logger"
)

// Container holds all application dependencies and their lifecycle
// Components are organized in initialization order
type Container struct {
	Config *config.Config
	Log    *logger.Logger

	// Infrastructure Layer (Data stores)
	PG    *pgclient.Client
	Redis *redisclient.Client // nil when Redis is not configured

	// Domain Layer - Repositories
	Repos *Repositories

	// Domain Layer - Services
	Services *Services

	// Application Layer
	Server *api.Server
}

// Repositories groups all domain repositories
type Repositories struct {
	Company  company.Repository
	Stock    stock.Repository
	News     news.Repository
	Registry run.Registry
}

// Services groups all domain services
type Services struct {
	Enrichment *enrichment.Service
	Pipeline   *pipeline.Service
	Insights   *insights.Service
}

// New builds the full dependency graph.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	log := logger.Get()

	// Data stores
	pg, err := pgclient.NewClient(cfg.Postgres)
	if err != nil {
		return nil, errors.Wrap(err, "connect postgres")
	}
	if err := pgrepo.EnsureSchema(ctx, pg.DB()); err != nil {
		_ = pg.Close()
		return nil, errors.Wrap(err, "ensure schema")
	}
	log.Info("Postgres connected, schema ensured")

	var redisCli *redisclient.Client
	var fetchCache cache.Store
	if cfg.Redis.Enabled() {
		redisCli, err = redisclient.NewClient(cfg.Redis)
		if err != nil {
			_ = pg.Close()
			return nil, errors.Wrap(err, "connect redis")
		}
		fetchCache = cache.NewRedisStore(redisCli, cfg.Pipeline.CacheTTL)
		log.Infow("fetch cache backed by Redis", "ttl", cfg.Pipeline.CacheTTL)
	} else {
		fetchCache = cache.NewMemoryStore(cfg.Pipeline.CacheTTL)
		log.Infow("fetch cache in-memory", "ttl", cfg.Pipeline.CacheTTL)
	}

	// Repositories
	repos := &Repositories{
		Company:  pgrepo.NewCompanyRepository(pg.DB()),
		Stock:    pgrepo.NewStockRepository(pg.DB()),
		News:     pgrepo.NewNewsRepository(pg.DB()),
		Registry: memory.NewRunRegistry(),
	}

	// Source adapters
	structured := alphavantage.NewClient(cfg.AlphaVantage, fetchCache)
	newsSource := newsapi.NewClient(cfg.NewsAPI, fetchCache)

	// Services
	enrichmentSvc := enrichment.NewService(ai.NewProvider(cfg.AI))
	pipe := pipeline.New(structured, newsSource, enrichmentSvc, pipeline.Stores{
		Companies: repos.Company,
		Stocks:    repos.Stock,
		News:      repos.News,
	})
	defaults := pipeline.DefaultOptions()
	defaults.StockDays = cfg.Pipeline.StockDays
	defaults.NewsDays = cfg.Pipeline.NewsDays
	defaults.MaxArticles = cfg.Pipeline.MaxArticles

	services := &Services{
		Enrichment: enrichmentSvc,
		Pipeline:   pipeline.NewService(pipe, repos.Registry, defaults),
		Insights:   insights.NewService(repos.Company, repos.News),
	}

	// HTTP layer
	var rawRedis *goredis.Client
	if redisCli != nil {
		rawRedis = redisCli.Client()
	}
	healthHandler := health.New(pg.DB(), rawRedis, cfg.App.Name, cfg.App.Version)
	handlers := api.NewHandlers(services.Pipeline, services.Insights,
		repos.Company, repos.Stock, repos.News)
	server := api.NewServer(api.ServerConfig{
		Port:        cfg.HTTP.Port,
		ServiceName: cfg.App.Name,
		Version:     cfg.App.Version,
	}, handlers, healthHandler)

	return &Container{
		Config:   cfg,
		Log:      log,
		PG:       pg,
		Redis:    redisCli,
		Repos:    repos,
		Services: services,
		Server:   server,
	}, nil
}

// Close releases infrastructure connections in reverse order.
func (c *Container) Close() {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Log.Warnw("redis close failed", "error", err)
		}
	}
	if err := c.PG.Close(); err != nil {
		c.Log.Warnw("postgres close failed", "error", err)
	}
}
