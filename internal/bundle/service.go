package bundle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wowstore/storefront/internal/llmcall"
	"github.com/wowstore/storefront/internal/providers"
)

// Config configures a bundle Service.
type Config struct {
	// Registry resolves Provider on every request so hot-reloaded
	// credentials take effect without a restart.
	Registry *providers.Registry
	Provider string
	Model    string // Optional; provider default when empty

	PromptVersion PromptVersion
	Recorder      *llmcall.Recorder
	Logger        *slog.Logger
}

// Request is one bundle generation request.
type Request struct {
	Products []Product `json:"products"`
	Theme    string    `json:"theme"`
}

// Service generates bundles with one model call per request.
type Service struct {
	registry *providers.Registry
	provider string
	model    string
	prompt   Prompt
	recorder *llmcall.Recorder
	logger   *slog.Logger
}

// NewService creates a bundle service.
func NewService(cfg Config) (*Service, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("bundle: provider registry is required")
	}
	if cfg.Provider == "" {
		return nil, fmt.Errorf("bundle: provider name is required")
	}
	prompt, err := LookupPrompt(cfg.PromptVersion)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		registry: cfg.Registry,
		provider: cfg.Provider,
		model:    cfg.Model,
		prompt:   prompt,
		recorder: cfg.Recorder,
		logger:   logger,
	}, nil
}

// Provider returns the configured provider name.
func (s *Service) Provider() string {
	return s.provider
}

// PromptVersion returns the active prompt version.
func (s *Service) PromptVersion() PromptVersion {
	return s.prompt.Version
}

// Generate builds a bundle for req. It returns ErrNoProducts without calling
// the model when req has no products. The model is called exactly once.
func (s *Service) Generate(ctx context.Context, req Request) (*Specification, error) {
	if len(req.Products) == 0 {
		return nil, ErrNoProducts
	}

	text, err := s.prompt.Render(req.Products, req.Theme)
	if err != nil {
		return nil, err
	}

	client, err := s.registry.GetLLM(s.provider)
	if err != nil {
		return nil, fmt.Errorf("bundle provider unavailable: %w", err)
	}

	result, err := client.Chat(ctx, &providers.ChatRequest{
		Model:    s.model,
		Messages: []providers.Message{{Role: providers.RoleUser, Content: text}},
	})
	s.recorder.Record(result, llmcall.RecordOptions{
		PromptKey:     PromptKey,
		PromptVersion: string(s.prompt.Version),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate bundle: %w", err)
	}

	spec := s.prompt.Parser.Parse(result.Content)
	applyPricing(&spec, req.Products)

	s.logger.Debug("generated bundle",
		"products", len(req.Products),
		"prompt_version", s.prompt.Version,
		"has_name", spec.Name != nil,
		"has_discount", spec.Discount != nil)

	return &spec, nil
}
