package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"companyintel/pkg/errors"
)

const claudeAPIURL = "https://api.anthropic.com/v1/messages"

// Ensure ClaudeProvider implements ChatProvider
var _ ChatProvider = (*ClaudeProvider)(nil)

// ClaudeProvider implements ChatProvider against the Anthropic messages API.
type ClaudeProvider struct {
	apiKey  string
	model   string
	timeout time.Duration
}

// NewClaudeProvider creates a new Claude provider.
func NewClaudeProvider(apiKey, model string, timeout time.Duration) *ClaudeProvider {
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &ClaudeProvider{apiKey: apiKey, model: model, timeout: timeout}
}

// Name returns the provider name.
func (p *ClaudeProvider) Name() string { return "claude" }

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Complete sends a single-turn request to the messages API.
func (p *ClaudeProvider) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if p.apiKey == "" {
		return "", errors.Wrap(errors.ErrInvalidInput, "claude API key not configured")
	}
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	body, err := json.Marshal(claudeRequest{
		Model:     p.model,
		MaxTokens: maxTokens,
		Messages:  []claudeMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", errors.Wrap(err, "marshal claude request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, claudeAPIURL, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "create HTTP request")
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", p.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	client := &http.Client{Timeout: p.timeout}
	resp, err := client.Do(httpReq)
	if err != nil {
		return "", errors.Wrap(err, "send claude request")
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "read claude response")
	}

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error struct {
				Type    string `json:"type"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Message != "" {
			return "", errors.Wrapf(errors.ErrExternal, "claude API error (%d): %s - %s",
				resp.StatusCode, errResp.Error.Type, errResp.Error.Message)
		}
		return "", errors.Wrapf(errors.ErrExternal, "claude API error (%d): %s",
			resp.StatusCode, string(respBody))
	}

	var claudeResp claudeResponse
	if err := json.Unmarshal(respBody, &claudeResp); err != nil {
		return "", errors.Wrap(err, "unmarshal claude response")
	}

	var sb strings.Builder
	for _, c := range claudeResp.Content {
		if c.Type == "text" {
			sb.WriteString(c.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.Wrap(errors.ErrExternal, "claude response contained no text")
	}
	return sb.String(), nil
}
