// Package cache provides the bounded-TTL fetch cache shared by the
// upstream adapters. It exists to keep repeated ingestion runs from
// exceeding provider rate limits, not to be a general-purpose cache:
// entries expire after a fixed TTL and are simply overwritten or ignored,
// never proactively purged.
package cache

import "context"

// Store is a TTL-bounded key/value store. Values are JSON-encoded so the
// in-process and Redis implementations behave identically.
//
// Two concurrent fetchers that both miss on the same key will both hit
// the upstream and both Set; the duplicate work is harmless because all
// downstream writes are idempotent.
type Store interface {
	// Get unmarshals the cached value into dest and reports whether a
	// live (non-expired) entry was found.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores the value, resetting its TTL.
	Set(ctx context.Context, key string, value interface{}) error
}
