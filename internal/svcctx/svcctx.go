// Package svcctx provides service context for dependency injection via context.
// This package is separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/wowstore/storefront/internal/assistant"
	"github.com/wowstore/storefront/internal/bundle"
	"github.com/wowstore/storefront/internal/catalog"
	"github.com/wowstore/storefront/internal/config"
	"github.com/wowstore/storefront/internal/home"
	"github.com/wowstore/storefront/internal/providers"
	"github.com/wowstore/storefront/internal/retail"
	"github.com/wowstore/storefront/internal/storefront"
)

// Services holds all core services that flow through context.
// Optional services are nil when their upstream is not configured.
type Services struct {
	Registry   *providers.Registry
	Bundles    *bundle.Service
	Assistant  *assistant.Service
	Retail     retail.Service
	Storefront *storefront.Client
	Indexer    *catalog.Indexer
	Config     *config.Manager
	Logger     *slog.Logger
	Home       *home.Dir
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// RegistryFrom extracts the provider registry from context.
func RegistryFrom(ctx context.Context) *providers.Registry {
	if s := ServicesFrom(ctx); s != nil {
		return s.Registry
	}
	return nil
}

// BundlesFrom extracts the bundle service from context.
func BundlesFrom(ctx context.Context) *bundle.Service {
	if s := ServicesFrom(ctx); s != nil {
		return s.Bundles
	}
	return nil
}

// AssistantFrom extracts the chat assistant from context.
func AssistantFrom(ctx context.Context) *assistant.Service {
	if s := ServicesFrom(ctx); s != nil {
		return s.Assistant
	}
	return nil
}

// RetailFrom extracts the retail service from context.
func RetailFrom(ctx context.Context) retail.Service {
	if s := ServicesFrom(ctx); s != nil {
		return s.Retail
	}
	return nil
}

// StorefrontFrom extracts the Storefront API client from context.
func StorefrontFrom(ctx context.Context) *storefront.Client {
	if s := ServicesFrom(ctx); s != nil {
		return s.Storefront
	}
	return nil
}

// IndexerFrom extracts the catalog indexer from context.
func IndexerFrom(ctx context.Context) *catalog.Indexer {
	if s := ServicesFrom(ctx); s != nil {
		return s.Indexer
	}
	return nil
}

// ConfigFrom extracts the config manager from context.
func ConfigFrom(ctx context.Context) *config.Manager {
	if s := ServicesFrom(ctx); s != nil {
		return s.Config
	}
	return nil
}

// LoggerFrom extracts the logger from context, falling back to slog.Default.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil && s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// HomeFrom extracts the home directory from context.
func HomeFrom(ctx context.Context) *home.Dir {
	if s := ServicesFrom(ctx); s != nil {
		return s.Home
	}
	return nil
}
