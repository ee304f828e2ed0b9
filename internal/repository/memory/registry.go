package memory

import (
	"context"
	"sync"

	"companyintel/internal/domain/run"
	"companyintel/pkg/errors"
)

var _ run.Registry = (*RunRegistry)(nil)

// RunRegistry is the in-process run.Registry. Claim performs the
// check-and-insert under one lock so two concurrent submissions for the
// same symbol can never both start a run.
type RunRegistry struct {
	mu   sync.Mutex
	runs map[string]*run.Result
}

// NewRunRegistry creates an empty registry.
func NewRunRegistry() *RunRegistry {
	return &RunRegistry{runs: make(map[string]*run.Result)}
}

// Claim registers a new running result for the symbol, rejecting the
// claim when the previous run has not reached a terminal state.
func (r *RunRegistry) Claim(_ context.Context, symbol string) (*run.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.runs[symbol]; ok && existing.Status() == run.StatusRunning {
		return nil, errors.ErrAlreadyRunning
	}

	result := run.NewResult(symbol)
	r.runs[symbol] = result
	return result, nil
}

// Get returns the latest result for the symbol.
func (r *RunRegistry) Get(_ context.Context, symbol string) (*run.Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result, ok := r.runs[symbol]
	return result, ok
}
