package config

import (
	"github.com/wowstore/storefront/internal/bundle"
	"github.com/wowstore/storefront/internal/providers"
	"github.com/wowstore/storefront/internal/retail"
	"github.com/wowstore/storefront/internal/storefront"
)

// Config holds storefront configuration.
// Stored at: ~/.storefront/config.yaml
type Config struct {
	Server       ServerCfg                 `mapstructure:"server" yaml:"server" json:"server"`
	Retail       RetailCfg                 `mapstructure:"retail" yaml:"retail" json:"retail"`
	LLMProviders map[string]LLMProviderCfg `mapstructure:"llm_providers" yaml:"llm_providers" json:"llm_providers"`
	Defaults     DefaultsCfg               `mapstructure:"defaults" yaml:"defaults" json:"defaults"`
	Storefront   StorefrontCfg             `mapstructure:"storefront" yaml:"storefront" json:"storefront"`
}

// ServerCfg configures the HTTP listener.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host" json:"host"`
	Port string `mapstructure:"port" yaml:"port" json:"port"`
}

// RetailCfg addresses the managed retail catalog.
type RetailCfg struct {
	ProjectID string `mapstructure:"project_id" yaml:"project_id" json:"project_id"` // Supports ${ENV_VAR} syntax
	Location  string `mapstructure:"location" yaml:"location" json:"location"`
	CatalogID string `mapstructure:"catalog_id" yaml:"catalog_id" json:"catalog_id"`
	Branch    string `mapstructure:"branch" yaml:"branch" json:"branch"`
}

// LLMProviderCfg configures an LLM provider.
type LLMProviderCfg struct {
	Type      string `mapstructure:"type" yaml:"type" json:"type"`                   // "gemini", "openai", "openrouter"
	Model     string `mapstructure:"model" yaml:"model" json:"model"`                // Model name
	APIKey    string `mapstructure:"api_key" yaml:"api_key" json:"api_key"`          // API key (supports ${ENV_VAR} syntax)
	ProjectID string `mapstructure:"project_id" yaml:"project_id" json:"project_id"` // Vertex AI project (gemini)
	Location  string `mapstructure:"location" yaml:"location" json:"location"`       // Vertex AI location (gemini)
	BaseURL   string `mapstructure:"base_url" yaml:"base_url,omitempty" json:"base_url,omitempty"`
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
}

// DefaultsCfg specifies default provider selections.
type DefaultsCfg struct {
	BundleProvider      string `mapstructure:"bundle_provider" yaml:"bundle_provider" json:"bundle_provider"`
	ChatProvider        string `mapstructure:"chat_provider" yaml:"chat_provider" json:"chat_provider"`
	BundlePromptVersion string `mapstructure:"bundle_prompt_version" yaml:"bundle_prompt_version" json:"bundle_prompt_version"`
}

// StorefrontCfg addresses the commerce platform's Storefront API.
type StorefrontCfg struct {
	Endpoint   string `mapstructure:"endpoint" yaml:"endpoint" json:"endpoint"`
	Token      string `mapstructure:"token" yaml:"token" json:"token"` // Supports ${ENV_VAR} syntax
	APIVersion string `mapstructure:"api_version" yaml:"api_version" json:"api_version"`
	Currency   string `mapstructure:"currency" yaml:"currency" json:"currency"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerCfg{
			Host: "127.0.0.1",
			Port: "8080",
		},
		Retail: RetailCfg{
			ProjectID: "${GOOGLE_CLOUD_PROJECT_ID}",
			Location:  retail.DefaultLocation,
			CatalogID: retail.DefaultCatalog,
			Branch:    retail.DefaultBranch,
		},
		LLMProviders: map[string]LLMProviderCfg{
			"gemini": {
				Type:      providers.GeminiName,
				Model:     providers.DefaultGeminiModel,
				ProjectID: "${GOOGLE_CLOUD_PROJECT_ID}",
				Location:  "${VERTEX_AI_LOCATION}",
				Enabled:   true,
			},
			"openai": {
				Type:    providers.OpenAIName,
				Model:   providers.DefaultOpenAIModel,
				APIKey:  "${OPENAI_API_KEY}",
				Enabled: true,
			},
			"openrouter": {
				Type:    providers.OpenRouterName,
				Model:   "google/gemini-flash-1.5",
				APIKey:  "${OPENROUTER_API_KEY}",
				Enabled: true,
			},
		},
		Defaults: DefaultsCfg{
			BundleProvider:      "gemini",
			ChatProvider:        "gemini",
			BundlePromptVersion: string(bundle.DefaultPromptVersion),
		},
		Storefront: StorefrontCfg{
			Token:      "${SHOPIFY_STOREFRONT_TOKEN}",
			APIVersion: storefront.DefaultAPIVersion,
			Currency:   retail.DefaultCurrency,
		},
	}
}

// GetLLMProvider returns an LLM provider config by name.
func (c *Config) GetLLMProvider(name string) (LLMProviderCfg, bool) {
	cfg, ok := c.LLMProviders[name]
	return cfg, ok
}

// EnabledLLMProviders returns all enabled LLM providers.
func (c *Config) EnabledLLMProviders() map[string]LLMProviderCfg {
	result := make(map[string]LLMProviderCfg)
	for name, cfg := range c.LLMProviders {
		if cfg.Enabled {
			result[name] = cfg
		}
	}
	return result
}
