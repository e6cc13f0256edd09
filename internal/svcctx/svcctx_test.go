package svcctx

import (
	"context"
	"log/slog"
	"testing"

	"github.com/wowstore/storefront/internal/providers"
)

func TestServicesFrom(t *testing.T) {
	t.Run("empty context", func(t *testing.T) {
		ctx := context.Background()
		if ServicesFrom(ctx) != nil {
			t.Error("ServicesFrom() should be nil without services")
		}
		if RegistryFrom(ctx) != nil || BundlesFrom(ctx) != nil || RetailFrom(ctx) != nil {
			t.Error("extractors should return nil without services")
		}
		if LoggerFrom(ctx) != slog.Default() {
			t.Error("LoggerFrom() should fall back to slog.Default")
		}
	})

	t.Run("round trip", func(t *testing.T) {
		reg := providers.NewRegistry()
		logger := slog.New(slog.DiscardHandler)
		ctx := WithServices(context.Background(), &Services{Registry: reg, Logger: logger})

		if RegistryFrom(ctx) != reg {
			t.Error("RegistryFrom() returned a different registry")
		}
		if LoggerFrom(ctx) != logger {
			t.Error("LoggerFrom() returned a different logger")
		}
		if AssistantFrom(ctx) != nil {
			t.Error("AssistantFrom() should be nil when unset")
		}
	})
}
