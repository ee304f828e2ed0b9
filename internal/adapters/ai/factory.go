package ai

import (
	"companyintel/internal/adapters/config"
	"companyintel/pkg/logger"
)

// NewProvider builds the chat provider selected by configuration. It
// returns nil when no credential is available, which callers treat as
// "no LLM, use the deterministic fallback path".
func NewProvider(cfg config.AIConfig) ChatProvider {
	log := logger.Get()

	switch cfg.Provider {
	case "openai":
		if cfg.OpenAIKey != "" {
			log.Infow("AI provider configured", "provider", "openai", "model", cfg.OpenAIModel)
			return NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIModel, cfg.Timeout)
		}
	default:
		if cfg.ClaudeKey != "" {
			log.Infow("AI provider configured", "provider", "claude", "model", cfg.ClaudeModel)
			return NewClaudeProvider(cfg.ClaudeKey, cfg.ClaudeModel, cfg.Timeout)
		}
		// Fall through to OpenAI if the preferred provider has no key.
		if cfg.OpenAIKey != "" {
			log.Infow("AI provider configured", "provider", "openai", "model", cfg.OpenAIModel)
			return NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIModel, cfg.Timeout)
		}
	}

	log.Infow("no AI provider credentials, enrichment falls back to keyword analysis")
	return nil
}
