// Package llmcall provides LLM call recording for traceability.
// Every LLM API call is recorded with its prompt key, prompt version and metrics.
package llmcall

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wowstore/storefront/internal/providers"
)

// Call represents a recorded LLM API call.
type Call struct {
	// Unique identifier
	ID string `json:"id"`

	// Timing
	Timestamp time.Time `json:"timestamp"`
	LatencyMs int       `json:"latency_ms"`

	// Prompt traceability
	PromptKey     string `json:"prompt_key"`
	PromptVersion string `json:"prompt_version,omitempty"`

	// Model info
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	RequestID string `json:"request_id,omitempty"`

	// Token usage
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`

	// Status
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// RecordOptions provides context for recording an LLM call.
type RecordOptions struct {
	// Prompt identification (required for traceability)
	PromptKey     string
	PromptVersion string
}

// FromChatResult creates a Call from a ChatResult.
// Returns nil if result is nil.
func FromChatResult(result *providers.ChatResult, opts RecordOptions) *Call {
	if result == nil {
		return nil
	}

	call := &Call{
		ID:            uuid.New().String(),
		Timestamp:     time.Now(),
		LatencyMs:     int(result.ExecutionTime.Milliseconds()),
		PromptKey:     opts.PromptKey,
		PromptVersion: opts.PromptVersion,
		Provider:      result.Provider,
		Model:         result.ModelUsed,
		RequestID:     result.RequestID,
		InputTokens:   result.PromptTokens,
		OutputTokens:  result.CompletionTokens,
		Success:       result.Success,
	}

	if !result.Success {
		call.Error = result.ErrorMessage
	}

	return call
}

// LogValue renders the call as a slog group.
func (c *Call) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("id", c.ID),
		slog.String("prompt_key", c.PromptKey),
		slog.String("provider", c.Provider),
		slog.String("model", c.Model),
		slog.Int("latency_ms", c.LatencyMs),
		slog.Int("input_tokens", c.InputTokens),
		slog.Int("output_tokens", c.OutputTokens),
		slog.Bool("success", c.Success),
	}
	if c.PromptVersion != "" {
		attrs = append(attrs, slog.String("prompt_version", c.PromptVersion))
	}
	if c.RequestID != "" {
		attrs = append(attrs, slog.String("request_id", c.RequestID))
	}
	if c.Error != "" {
		attrs = append(attrs, slog.String("error", c.Error))
	}
	return slog.GroupValue(attrs...)
}
