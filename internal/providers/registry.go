package providers

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Registry holds references to LLM clients by name.
// It supports config-driven instantiation, hot-reload, and provides thread-safe access.
type Registry struct {
	mu         sync.RWMutex
	llmClients map[string]LLMClient
	configs    map[string]LLMProviderConfig
	logger     *slog.Logger
}

// NewRegistry creates a new empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		llmClients: make(map[string]LLMClient),
		configs:    make(map[string]LLMProviderConfig),
		logger:     slog.Default(),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// RegisterLLM registers an LLM client by name.
func (r *Registry) RegisterLLM(name string, client LLMClient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.llmClients[name] = client
	delete(r.configs, name)
	if r.logger != nil {
		r.logger.Info("registered LLM client", "name", name)
	}
}

// UnregisterLLM removes an LLM client by name.
func (r *Registry) UnregisterLLM(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.llmClients, name)
	delete(r.configs, name)
	if r.logger != nil {
		r.logger.Info("unregistered LLM client", "name", name)
	}
}

// GetLLM returns an LLM client by name.
func (r *Registry) GetLLM(name string) (LLMClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.llmClients[name]
	if !ok {
		return nil, fmt.Errorf("LLM client not found: %s", name)
	}
	return client, nil
}

// ListLLM returns all registered LLM client names, sorted.
func (r *Registry) ListLLM() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.llmClients))
	for name := range r.llmClients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasLLM checks if an LLM client is registered.
func (r *Registry) HasLLM(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.llmClients[name]
	return ok
}

// RegistryConfig defines the providers to instantiate from config.
type RegistryConfig struct {
	// LLMProviders maps provider names to their config
	LLMProviders map[string]LLMProviderConfig
}

// LLMProviderConfig matches config.LLMProviderCfg with resolved credentials.
type LLMProviderConfig struct {
	Type      string // "gemini", "openai", "openrouter"
	Model     string
	APIKey    string
	ProjectID string // Vertex AI project (gemini only)
	Location  string // Vertex AI location (gemini only)
	BaseURL   string
	Enabled   bool
}

// usable reports whether the config carries enough credentials to build a client.
func (c LLMProviderConfig) usable() bool {
	if !c.Enabled {
		return false
	}
	if c.Type == GeminiName {
		return c.APIKey != "" || c.ProjectID != ""
	}
	return c.APIKey != ""
}

// NewRegistryFromConfig creates a registry with providers based on configuration.
// Only enabled providers with credentials will be registered.
func NewRegistryFromConfig(ctx context.Context, cfg RegistryConfig) *Registry {
	r := NewRegistry()
	r.Reload(ctx, cfg)
	return r
}

// Reload updates the registry based on new configuration.
// Providers that are no longer configured will be unregistered.
// Providers with changed settings will be re-created.
func (r *Registry) Reload(ctx context.Context, cfg RegistryConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := make(map[string]bool)

	for name, provCfg := range cfg.LLMProviders {
		if !provCfg.usable() {
			continue
		}
		want[name] = true

		existing, hasExisting := r.configs[name]
		if hasExisting && existing == provCfg {
			continue
		}

		client, err := createLLMClient(ctx, provCfg)
		if err != nil {
			if r.logger != nil {
				r.logger.Warn("failed to create LLM client", "name", name, "type", provCfg.Type, "error", err)
			}
			continue
		}
		r.llmClients[name] = client
		r.configs[name] = provCfg
		if r.logger != nil {
			if hasExisting {
				r.logger.Info("updated LLM client", "name", name, "type", provCfg.Type)
			} else {
				r.logger.Info("registered LLM client", "name", name, "type", provCfg.Type)
			}
		}
	}

	// Remove config-driven providers that are no longer configured.
	// Clients registered directly with RegisterLLM are left alone.
	for name := range r.configs {
		if !want[name] {
			delete(r.llmClients, name)
			delete(r.configs, name)
			if r.logger != nil {
				r.logger.Info("unregistered LLM client", "name", name)
			}
		}
	}
}

// createLLMClient creates an LLM client based on provider type.
func createLLMClient(ctx context.Context, cfg LLMProviderConfig) (LLMClient, error) {
	switch cfg.Type {
	case GeminiName:
		return NewGeminiClient(ctx, GeminiConfig{
			APIKey:       cfg.APIKey,
			ProjectID:    cfg.ProjectID,
			Location:     cfg.Location,
			DefaultModel: cfg.Model,
			BaseURL:      cfg.BaseURL,
		})
	case OpenAIName:
		return NewOpenAIClient(OpenAIConfig{
			APIKey:       cfg.APIKey,
			DefaultModel: cfg.Model,
			BaseURL:      cfg.BaseURL,
		}), nil
	case OpenRouterName:
		return NewOpenRouterClient(OpenRouterConfig{
			APIKey:       cfg.APIKey,
			DefaultModel: cfg.Model,
			BaseURL:      cfg.BaseURL,
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %q", cfg.Type)
	}
}
