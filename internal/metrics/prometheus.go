package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Pipeline metrics
	PipelineRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "companyintel_pipeline_runs_total",
			Help: "Total number of pipeline runs",
		},
		[]string{"status"}, // status: completed|failed|rejected
	)

	PipelineDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "companyintel_pipeline_duration_seconds",
			Help:    "Pipeline run duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"status"},
	)

	PipelineStepDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "companyintel_pipeline_step_duration_seconds",
			Help:    "Per-step execution duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"step"},
	)

	// Enrichment metrics
	EnrichmentCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "companyintel_enrichment_calls_total",
			Help: "Total number of article enrichment calls",
		},
		[]string{"path", "status"}, // path: llm|fallback, status: success|error
	)

	// Upstream provider metrics
	ProviderRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "companyintel_provider_requests_total",
			Help: "Total number of upstream provider requests",
		},
		[]string{"provider", "status"}, // status: success|error|rate_limited|mock
	)

	// Fetch cache metrics
	CacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "companyintel_fetch_cache_requests_total",
			Help: "Total number of fetch cache lookups",
		},
		[]string{"source", "result"}, // result: hit|miss
	)

	// Database metrics
	DBQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "companyintel_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"}, // status: success|error
	)
)

func init() {
	prometheus.MustRegister(PipelineRuns)
	prometheus.MustRegister(PipelineDuration)
	prometheus.MustRegister(PipelineStepDuration)
	prometheus.MustRegister(EnrichmentCalls)
	prometheus.MustRegister(ProviderRequests)
	prometheus.MustRegister(CacheRequests)
	prometheus.MustRegister(DBQueries)
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
