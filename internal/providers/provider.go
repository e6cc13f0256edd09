package providers

import (
	"context"
	"time"
)

// Message roles understood by every client. Clients translate them to
// their backend's vocabulary ("model" for Gemini, "assistant" for OpenAI).
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// LLMClient is the interface for single-shot chat/completion requests.
type LLMClient interface {
	// Chat sends one chat completion request. Implementations make exactly
	// one upstream call and never retry.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error)

	// Name returns the client identifier (e.g., "gemini").
	Name() string
}

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// ChatRequest is a request to an LLM.
type ChatRequest struct {
	// System is an optional system instruction. Clients that support a
	// dedicated field send it there; others prepend it as a system message.
	System string `json:"system,omitempty"`

	// Required
	Messages []Message `json:"messages"`

	// Model selection (uses client default if empty)
	Model string `json:"model,omitempty"`

	// Generation parameters
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`

	// Request tracking
	RequestID string `json:"-"`
}

// ChatResult is the complete response from an LLM call.
type ChatResult struct {
	Content string `json:"content"`

	// Token counts
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	ExecutionTime time.Duration `json:"execution_time"`

	// Provider info
	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`

	RequestID string `json:"request_id"`

	// Success/error
	Success      bool   `json:"success"`
	ErrorType    string `json:"error_type,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// withSystem returns the messages with req.System prepended as a system
// message, for backends that take the instruction inline.
func withSystem(req *ChatRequest) []Message {
	if req.System == "" {
		return req.Messages
	}
	msgs := make([]Message, 0, len(req.Messages)+1)
	msgs = append(msgs, Message{Role: RoleSystem, Content: req.System})
	return append(msgs, req.Messages...)
}

// failed fills the error fields of result and returns err for chaining.
func failed(result *ChatResult, start time.Time, errType string, err error) (*ChatResult, error) {
	result.Success = false
	result.ErrorType = errType
	result.ErrorMessage = err.Error()
	result.ExecutionTime = time.Since(start)
	return result, err
}
