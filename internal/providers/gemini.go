package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"
)

const (
	GeminiName            = "gemini"
	DefaultGeminiModel    = "gemini-1.5-pro"
	DefaultVertexLocation = "us-central1"
)

// GeminiConfig holds configuration for the Gemini client.
//
// With ProjectID set the client talks to Vertex AI using application
// default credentials. Otherwise APIKey selects the Gemini Developer API.
type GeminiConfig struct {
	APIKey       string
	ProjectID    string
	Location     string
	DefaultModel string
	BaseURL      string       // Optional (tests)
	HTTPClient   *http.Client // Optional (tests)
}

// GeminiClient implements LLMClient on google.golang.org/genai.
type GeminiClient struct {
	cfg          GeminiConfig
	defaultModel string
	client       *genai.Client
}

// NewGeminiClient creates a Gemini client for the configured backend.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = DefaultGeminiModel
	}

	cc := &genai.ClientConfig{HTTPClient: cfg.HTTPClient}
	switch {
	case cfg.ProjectID != "":
		if cfg.Location == "" {
			cfg.Location = DefaultVertexLocation
		}
		cc.Backend = genai.BackendVertexAI
		cc.Project = cfg.ProjectID
		cc.Location = cfg.Location
	case cfg.APIKey != "":
		cc.Backend = genai.BackendGeminiAPI
		cc.APIKey = cfg.APIKey
	default:
		return nil, errors.New("gemini: project_id or api_key is required")
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiClient{
		cfg:          cfg,
		defaultModel: cfg.DefaultModel,
		client:       client,
	}, nil
}

// Name returns the client identifier.
func (c *GeminiClient) Name() string {
	return GeminiName
}

// Chat sends one GenerateContent call.
func (c *GeminiClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
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
		Provider:  GeminiName,
		ModelUsed: model,
	}

	system := req.System
	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			if system != "" {
				system += "\n\n"
			}
			system += m.Content
		case RoleAssistant, "model":
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	if len(contents) == 0 {
		return failed(result, start, "invalid_request", errors.New("gemini: no user content"))
	}

	config := &genai.GenerateContentConfig{}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if req.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(req.Temperature))
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return failed(result, start, "api_error", fmt.Errorf("gemini generate failed: %w", err))
	}
	if len(resp.Candidates) == 0 {
		return failed(result, start, "empty_response", errors.New("no candidates in response"))
	}

	result.Success = true
	result.Content = resp.Text()
	if resp.ModelVersion != "" {
		result.ModelUsed = resp.ModelVersion
	}
	if u := resp.UsageMetadata; u != nil {
		result.PromptTokens = int(u.PromptTokenCount)
		result.CompletionTokens = int(u.CandidatesTokenCount)
		result.TotalTokens = int(u.TotalTokenCount)
	}
	result.ExecutionTime = time.Since(start)

	return result, nil
}

var _ LLMClient = (*GeminiClient)(nil)
