package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"github.com/wowstore/storefront/internal/bundle"
	"github.com/wowstore/storefront/internal/providers"
	"github.com/wowstore/storefront/internal/retail"
	"github.com/wowstore/storefront/internal/storefront"
)

// EnvPrefix prefixes environment overrides, e.g. STOREFRONT_SERVER_PORT.
const EnvPrefix = "STOREFRONT"

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	v         *viper.Viper
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a new config manager and loads initial config.
// An explicit cfgFile wins; otherwise config.yaml is searched for in
// searchDirs, defaulting to the working directory then ~/.storefront.
func NewManager(cfgFile string, searchDirs ...string) (*Manager, error) {
	cm := &Manager{
		v:         viper.New(),
		callbacks: make([]func(*Config), 0),
	}

	if err := cm.initViper(cfgFile, searchDirs); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults and config file.
func (cm *Manager) initViper(cfgFile string, searchDirs []string) error {
	v := cm.v
	d := DefaultConfig()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("retail.project_id", d.Retail.ProjectID)
	v.SetDefault("retail.location", d.Retail.Location)
	v.SetDefault("retail.catalog_id", d.Retail.CatalogID)
	v.SetDefault("retail.branch", d.Retail.Branch)
	v.SetDefault("llm_providers", d.LLMProviders)
	v.SetDefault("defaults.bundle_provider", d.Defaults.BundleProvider)
	v.SetDefault("defaults.chat_provider", d.Defaults.ChatProvider)
	v.SetDefault("defaults.bundle_prompt_version", d.Defaults.BundlePromptVersion)
	v.SetDefault("storefront.endpoint", d.Storefront.Endpoint)
	v.SetDefault("storefront.token", d.Storefront.Token)
	v.SetDefault("storefront.api_version", d.Storefront.APIVersion)
	v.SetDefault("storefront.currency", d.Storefront.Currency)

	// Environment variables with STOREFRONT_ prefix
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if len(searchDirs) == 0 {
			searchDirs = []string{".", "$HOME/.storefront"}
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, dir := range searchDirs {
			v.AddConfigPath(dir)
		}
	}

	// Try to read config file (not required)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := cm.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// ConfigFileUsed returns the path of the loaded config file, if any.
func (cm *Manager) ConfigFileUsed() string {
	return cm.v.ConfigFileUsed()
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration.
func (cm *Manager) WatchConfig() {
	cm.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	cm.v.WatchConfig()
}

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	return envVarPattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// ToProviderRegistryConfig converts the config to a format suitable for providers.Registry.
// It resolves all ${ENV_VAR} references in credentials.
func (c *Config) ToProviderRegistryConfig() providers.RegistryConfig {
	cfg := providers.RegistryConfig{
		LLMProviders: make(map[string]providers.LLMProviderConfig),
	}

	for name, llm := range c.LLMProviders {
		cfg.LLMProviders[name] = providers.LLMProviderConfig{
			Type:      llm.Type,
			Model:     llm.Model,
			APIKey:    ResolveEnvVars(llm.APIKey),
			ProjectID: ResolveEnvVars(llm.ProjectID),
			Location:  ResolveEnvVars(llm.Location),
			BaseURL:   llm.BaseURL,
			Enabled:   llm.Enabled,
		}
	}

	return cfg
}

// ToRetailConfig resolves the retail catalog address.
func (c *Config) ToRetailConfig() retail.Config {
	return retail.Config{
		ProjectID: ResolveEnvVars(c.Retail.ProjectID),
		Location:  ResolveEnvVars(c.Retail.Location),
		CatalogID: ResolveEnvVars(c.Retail.CatalogID),
		Branch:    ResolveEnvVars(c.Retail.Branch),
	}.WithDefaults()
}

// ToStorefrontConfig resolves the Storefront API settings.
func (c *Config) ToStorefrontConfig() storefront.Config {
	return storefront.Config{
		Endpoint:   ResolveEnvVars(c.Storefront.Endpoint),
		Token:      ResolveEnvVars(c.Storefront.Token),
		APIVersion: c.Storefront.APIVersion,
	}
}

// BundlePromptVersion returns the configured prompt version, or the default.
func (c *Config) BundlePromptVersion() bundle.PromptVersion {
	if c.Defaults.BundlePromptVersion == "" {
		return bundle.DefaultPromptVersion
	}
	return bundle.PromptVersion(c.Defaults.BundlePromptVersion)
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# Storefront configuration
# Credentials use ${ENV_VAR} syntax to reference environment variables
# Set these in your shell: export GOOGLE_CLOUD_PROJECT_ID=xxx OPENAI_API_KEY=xxx SHOPIFY_STOREFRONT_TOKEN=xxx

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
