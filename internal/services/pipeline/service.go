package pipeline

import (
	"context"
	"strings"
	"time"

	"companyintel/internal/domain/run"
	"companyintel/internal/metrics"
	"companyintel/pkg/errors"
	"companyintel/pkg/logger"
)

// Service accepts ingestion requests and tracks their runs. Submit is
// asynchronous: the run executes on its own goroutine and callers poll
// Status for progress.
type Service struct {
	pipeline *Pipeline
	registry run.Registry
	defaults Options
	logger   *logger.Logger

	// runTimeout bounds one full pipeline execution.
	runTimeout time.Duration
}

// NewService creates the submission service.
func NewService(pipeline *Pipeline, registry run.Registry, defaults Options) *Service {
	return &Service{
		pipeline:   pipeline,
		registry:   registry,
		defaults:   defaults,
		logger:     logger.With("service", "pipeline_submit"),
		runTimeout: 10 * time.Minute,
	}
}

// Defaults returns the configured default options for a run.
func (s *Service) Defaults() Options {
	return s.defaults
}

// Submit starts an asynchronous run for the symbol. Returns
// errors.ErrAlreadyRunning when a run for the same symbol is in flight,
// errors.ErrInvalidInput for an unusable symbol.
func (s *Service) Submit(ctx context.Context, symbol string, opts Options) (*run.Result, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "symbol is required")
	}

	result, err := s.registry.Claim(ctx, symbol)
	if err != nil {
		if errors.Is(err, errors.ErrAlreadyRunning) {
			metrics.PipelineRuns.WithLabelValues("rejected").Inc()
		}
		return nil, err
	}

	go func() {
		runCtx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
		defer cancel()
		s.pipeline.Run(runCtx, result, opts)
	}()

	s.logger.Infow("pipeline run submitted", "symbol", symbol)
	return result, nil
}

// Status returns the latest run for the symbol.
func (s *Service) Status(ctx context.Context, symbol string) (*run.Result, bool) {
	return s.registry.Get(ctx, NormalizeSymbol(symbol))
}

// SubmitBatch runs the pipeline for several symbols sequentially,
// pacing submissions so each run finishes before the next begins.
// Already-running symbols are skipped. Returns the accepted runs.
func (s *Service) SubmitBatch(ctx context.Context, symbols []string, opts Options) []*run.Result {
	results := make([]*run.Result, 0, len(symbols))
	for _, symbol := range symbols {
		result, err := s.Submit(ctx, symbol, opts)
		if err != nil {
			s.logger.Warnw("batch submission skipped", "symbol", symbol, "error", err)
			continue
		}
		results = append(results, result)

		// Wait for this run to reach a terminal state before moving on,
		// keeping upstream rate limits intact.
		for {
			select {
			case <-ctx.Done():
				return results
			case <-time.After(200 * time.Millisecond):
			}
			status := result.Status()
			if status == run.StatusCompleted || status == run.StatusFailed {
				break
			}
		}
	}
	return results
}

// NormalizeSymbol uppercases and trims a user-supplied ticker symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
