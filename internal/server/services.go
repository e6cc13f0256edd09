package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wowstore/storefront/internal/assistant"
	"github.com/wowstore/storefront/internal/bundle"
	"github.com/wowstore/storefront/internal/catalog"
	"github.com/wowstore/storefront/internal/config"
	"github.com/wowstore/storefront/internal/llmcall"
	"github.com/wowstore/storefront/internal/providers"
	"github.com/wowstore/storefront/internal/retail"
	"github.com/wowstore/storefront/internal/storefront"
	"github.com/wowstore/storefront/internal/svcctx"
)

// ServicesConfig holds what BuildServices needs.
type ServicesConfig struct {
	Config   *config.Config
	Manager  *config.Manager // Optional; exposed to endpoints
	Registry *providers.Registry
	Logger   *slog.Logger
}

// BuildServices wires the service container from configuration. Upstreams
// that are not configured are left nil so their endpoints answer 503. The
// returned closer releases retail connections.
func BuildServices(ctx context.Context, cfg ServicesConfig) (*svcctx.Services, func() error, error) {
	if cfg.Config == nil {
		cfg.Config = config.DefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Registry == nil {
		cfg.Registry = providers.NewRegistryFromConfig(ctx, cfg.Config.ToProviderRegistryConfig())
	}
	c := cfg.Config
	logger := cfg.Logger
	recorder := llmcall.NewRecorder(logger)

	bundles, err := bundle.NewService(bundle.Config{
		Registry:      cfg.Registry,
		Provider:      c.Defaults.BundleProvider,
		PromptVersion: c.BundlePromptVersion(),
		Recorder:      recorder,
		Logger:        logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create bundle service: %w", err)
	}

	chat, err := assistant.NewService(assistant.Config{
		Registry: cfg.Registry,
		Provider: c.Defaults.ChatProvider,
		Recorder: recorder,
		Logger:   logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create chat service: %w", err)
	}

	s := &svcctx.Services{
		Registry:  cfg.Registry,
		Bundles:   bundles,
		Assistant: chat,
		Config:    cfg.Manager,
		Logger:    logger,
	}
	closer := func() error { return nil }

	sf, err := storefront.NewClient(c.ToStorefrontConfig())
	switch {
	case errors.Is(err, storefront.ErrNotConfigured):
		logger.Info("storefront API not configured; cart and catalog pull disabled")
	case err != nil:
		return nil, nil, fmt.Errorf("failed to create storefront client: %w", err)
	default:
		s.Storefront = sf
	}

	rc, err := retail.NewGoogleClient(ctx, retail.GoogleConfig{
		Config:   c.ToRetailConfig(),
		Currency: c.Storefront.Currency,
		Logger:   logger,
	})
	switch {
	case errors.Is(err, retail.ErrNotConfigured):
		logger.Info("retail project not configured; search, recommendations and events disabled")
	case err != nil:
		logger.Warn("failed to create retail client", "error", err)
	default:
		s.Retail = rc
		closer = rc.Close

		ixCfg := catalog.Config{Importer: rc, Logger: logger}
		if s.Storefront != nil {
			ixCfg.Source = s.Storefront
		}
		if s.Indexer, err = catalog.NewIndexer(ixCfg); err != nil {
			rc.Close()
			return nil, nil, fmt.Errorf("failed to create catalog indexer: %w", err)
		}
	}

	return s, closer, nil
}
