// Package ai adapts the LLM providers used for article enrichment and
// company summaries. Providers expose a single-turn completion; all
// response shaping (JSON extraction, validation, fallback) lives in the
// enrichment service.
package ai

import "context"

// ChatProvider is the minimal contract the enrichment service needs.
type ChatProvider interface {
	Name() string

	// Complete sends a single user prompt and returns the text response.
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}
