package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	OpenAIName         = "openai"
	DefaultOpenAIModel = "gpt-4o-mini"
)

// OpenAIConfig holds configuration for the OpenAI chat client.
type OpenAIConfig struct {
	APIKey       string
	DefaultModel string
	Timeout      time.Duration
	BaseURL      string       // Optional; OpenAI-compatible backends and tests
	HTTPClient   *http.Client // Optional (tests)
}

// OpenAIClient implements LLMClient using the official OpenAI SDK. It also
// serves OpenAI-compatible backends under another name.
type OpenAIClient struct {
	name         string
	apiKey       string
	baseURL      string
	defaultModel string
	client       openai.Client
}

// NewOpenAIClient creates a new OpenAI chat client. SDK retries are disabled.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = DefaultOpenAIModel
	}
	return newCompatibleClient(OpenAIName, cfg)
}

// newCompatibleClient builds a chat-completions client reporting as name.
func newCompatibleClient(name string, cfg OpenAIConfig, extra ...option.RequestOption) *OpenAIClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	opts = append(opts, extra...)

	return &OpenAIClient{
		name:         name,
		apiKey:       cfg.APIKey,
		baseURL:      cfg.BaseURL,
		defaultModel: cfg.DefaultModel,
		client:       openai.NewClient(opts...),
	}
}

// Name returns the client identifier.
func (c *OpenAIClient) Name() string {
	return c.name
}

// Chat sends a chat completion request.
func (c *OpenAIClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	start := time.Now()

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}
	model := req.Model
	if model == "" {
		model = c.defaultModel
	}

	result := &ChatResult{
		RequestID: requestID,
		Provider:  c.name,
		ModelUsed: model,
	}

	msgs := withSystem(req)
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs)),
	}
	for _, m := range msgs {
		switch m.Role {
		case RoleSystem:
			params.Messages = append(params.Messages, openai.SystemMessage(m.Content))
		case RoleAssistant, "model":
			params.Messages = append(params.Messages, openai.AssistantMessage(m.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(m.Content))
		}
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.MaxTokens))
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return failed(result, start, "api_error", mapAPIError(c.name, err))
	}
	if len(completion.Choices) == 0 {
		return failed(result, start, "empty_response", errors.New("no choices in response"))
	}

	result.Success = true
	result.Content = completion.Choices[0].Message.Content
	if completion.Model != "" {
		result.ModelUsed = completion.Model
	}
	result.PromptTokens = int(completion.Usage.PromptTokens)
	result.CompletionTokens = int(completion.Usage.CompletionTokens)
	result.TotalTokens = int(completion.Usage.TotalTokens)
	result.ExecutionTime = time.Since(start)

	return result, nil
}

func mapAPIError(name string, err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return fmt.Errorf("%s error (status %d): %s", name, apiErr.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("%s error (status %d)", name, apiErr.StatusCode)
	}
	return err
}

var _ LLMClient = (*OpenAIClient)(nil)
