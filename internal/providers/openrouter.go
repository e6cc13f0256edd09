package providers

import (
	"time"

	"github.com/openai/openai-go/v3/option"
)

const (
	OpenRouterName         = "openrouter"
	OpenRouterBaseURL      = "https://openrouter.ai/api/v1"
	DefaultOpenRouterModel = "google/gemini-flash-1.5"
)

// OpenRouterConfig holds configuration for the OpenRouter client.
type OpenRouterConfig struct {
	APIKey       string
	BaseURL      string
	DefaultModel string
	Timeout      time.Duration
}

// OpenRouterClient implements LLMClient against OpenRouter's
// OpenAI-compatible chat completions API.
type OpenRouterClient struct {
	*OpenAIClient
}

// NewOpenRouterClient creates a new OpenRouter client.
func NewOpenRouterClient(cfg OpenRouterConfig) *OpenRouterClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = OpenRouterBaseURL
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = DefaultOpenRouterModel
	}

	return &OpenRouterClient{newCompatibleClient(OpenRouterName, OpenAIConfig{
		APIKey:       cfg.APIKey,
		BaseURL:      cfg.BaseURL,
		DefaultModel: cfg.DefaultModel,
		Timeout:      cfg.Timeout,
	}, option.WithHeader("X-Title", "Wow Store"))}
}

var _ LLMClient = (*OpenRouterClient)(nil)
