// Package assistant answers storefront chat messages with a fixed
// shopping-assistant persona.
package assistant

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wowstore/storefront/internal/llmcall"
	"github.com/wowstore/storefront/internal/providers"
)

//go:embed system.txt
var systemInstruction string

// PromptKey identifies chat calls in the LLM call log.
const PromptKey = "chat.reply"

var (
	// ErrEmptyMessage is returned when the chat message is blank.
	ErrEmptyMessage = errors.New("message is required")
	// ErrInvalidHistory is returned when history cannot be decoded.
	ErrInvalidHistory = errors.New("invalid history")
)

// SystemInstruction returns the persona sent with every chat call.
func SystemInstruction() string {
	return systemInstruction
}

// Config configures a chat Service.
type Config struct {
	Registry *providers.Registry
	Provider string
	Model    string

	Recorder *llmcall.Recorder
	Logger   *slog.Logger
}

// Service answers chat messages with one model call each.
type Service struct {
	registry *providers.Registry
	provider string
	model    string
	recorder *llmcall.Recorder
	logger   *slog.Logger
}

// NewService creates a chat service.
func NewService(cfg Config) (*Service, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("assistant: provider registry is required")
	}
	if cfg.Provider == "" {
		return nil, fmt.Errorf("assistant: provider name is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		registry: cfg.Registry,
		provider: cfg.Provider,
		model:    cfg.Model,
		recorder: cfg.Recorder,
		logger:   logger,
	}, nil
}

// Provider returns the configured provider name.
func (s *Service) Provider() string {
	return s.provider
}

// Reply sends message after history and returns the model's answer.
func (s *Service) Reply(ctx context.Context, message string, history []providers.Message) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", ErrEmptyMessage
	}

	client, err := s.registry.GetLLM(s.provider)
	if err != nil {
		return "", fmt.Errorf("chat provider unavailable: %w", err)
	}

	msgs := make([]providers.Message, 0, len(history)+1)
	msgs = append(msgs, history...)
	msgs = append(msgs, providers.Message{Role: providers.RoleUser, Content: message})

	result, err := client.Chat(ctx, &providers.ChatRequest{
		System:   systemInstruction,
		Model:    s.model,
		Messages: msgs,
	})
	s.recorder.Record(result, llmcall.RecordOptions{PromptKey: PromptKey})
	if err != nil {
		return "", fmt.Errorf("failed to get chat response: %w", err)
	}

	s.logger.Debug("chat reply", "history_turns", len(history), "provider", result.Provider)
	return result.Content, nil
}
