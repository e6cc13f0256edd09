package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/wowstore/storefront/internal/api"
	"github.com/wowstore/storefront/internal/config"
	"github.com/wowstore/storefront/internal/home"
	"github.com/wowstore/storefront/internal/providers"
	"github.com/wowstore/storefront/internal/server/endpoints"
	"github.com/wowstore/storefront/internal/svcctx"
)

// Server is the storefront HTTP server.
type Server struct {
	httpServer *http.Server
	registry   *providers.Registry
	configMgr  *config.Manager
	home       *home.Dir
	logger     *slog.Logger

	// services holds all core services for context enrichment
	services *svcctx.Services
	closer   func() error

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080)
	Port string
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Home is the storefront home directory
	Home *home.Dir
	// Services replaces the services built from config (tests)
	Services *svcctx.Services
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ConfigManager != nil {
		sc := cfg.ConfigManager.Get().Server
		if cfg.Host == "" {
			cfg.Host = sc.Host
		}
		if cfg.Port == "" {
			cfg.Port = sc.Port
		}
	}
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	// Create provider registry
	registry := providers.NewRegistry()
	registry.SetLogger(cfg.Logger)
	if cfg.Services != nil && cfg.Services.Registry != nil {
		registry = cfg.Services.Registry
	}

	s := &Server{
		registry:  registry,
		configMgr: cfg.ConfigManager,
		home:      cfg.Home,
		logger:    cfg.Logger,
		services:  cfg.Services,
		closer:    func() error { return nil },
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All() {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      s.withServices(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // Catalog indexing runs inline
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Start builds services and serves HTTP.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	if err := s.initServices(ctx); err != nil {
		s.setNotRunning()
		return err
	}

	// Listen before serving so bind errors surface synchronously
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		_ = s.shutdown()
		return fmt.Errorf("failed to listen: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			_ = s.shutdown()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// initServices builds the service container from config unless one was
// injected, and wires provider hot reload.
func (s *Server) initServices(ctx context.Context) error {
	if s.services != nil {
		return nil
	}

	cfg := config.DefaultConfig()
	if s.configMgr != nil {
		cfg = s.configMgr.Get()
	}
	s.registry.Reload(ctx, cfg.ToProviderRegistryConfig())

	if s.configMgr != nil {
		// Reload runs on the watcher goroutine, outside any request.
		s.configMgr.OnChange(func(c *config.Config) {
			s.registry.Reload(context.Background(), c.ToProviderRegistryConfig())
			s.logger.Info("provider registry reloaded from config")
		})
	}

	services, closer, err := BuildServices(ctx, ServicesConfig{
		Config:   cfg,
		Manager:  s.configMgr,
		Registry: s.registry,
		Logger:   s.logger,
	})
	if err != nil {
		return err
	}
	services.Home = s.home

	s.mu.Lock()
	s.services = services
	s.closer = closer
	s.mu.Unlock()

	s.logger.Info("services ready",
		"llm_providers", s.registry.ListLLM(),
		"bundle_provider", services.Bundles.Provider(),
		"chat_provider", services.Assistant.Provider(),
		"retail", services.Retail != nil,
		"storefront", services.Storefront != nil)
	return nil
}

// shutdown performs graceful shutdown of the HTTP server and upstream clients.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	if err := s.closer(); err != nil {
		s.logger.Error("upstream close error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Registry returns the provider registry.
func (s *Server) Registry() *providers.Registry {
	return s.registry
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		services := s.services
		s.mu.RUnlock()

		ctx := r.Context()
		if services != nil {
			ctx = svcctx.WithServices(ctx, services)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireInit is middleware that ensures services are built.
// Returns 503 Service Unavailable before Start has wired them.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svcctx.ServicesFrom(r.Context()) == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}
