package run

import "context"

// Registry maps a symbol to its latest run result. Implementations must
// be safe for concurrent use; they hold references, so pollers always see
// the live state of an in-flight run via Snapshot.
type Registry interface {
	// Claim registers a new running result for the symbol. Returns
	// errors.ErrAlreadyRunning when the latest run for the symbol is
	// still in flight.
	Claim(ctx context.Context, symbol string) (*Result, error)

	// Get returns the latest result for the symbol, or false when no
	// run has ever been submitted for it.
	Get(ctx context.Context, symbol string) (*Result, bool)
}
