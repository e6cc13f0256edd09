package endpoints

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/wowstore/storefront/internal/api"
	"github.com/wowstore/storefront/internal/svcctx"
)

// HealthResponse is the response for health check endpoints.
type HealthResponse struct {
	Status string `json:"status"`
}

// HealthEndpoint handles GET /health.
type HealthEndpoint struct{}

func (e *HealthEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/health", e.handler
}

func (e *HealthEndpoint) RequiresInit() bool { return false }

func (e *HealthEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (e *HealthEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/health", nil, &resp); err != nil {
				return err
			}
			fmt.Printf("Status: %s\n", resp.Status)
			return nil
		},
	}
}

// StatusResponse is the detailed status response.
type StatusResponse struct {
	Server     string          `json:"server"`
	Providers  ProvidersStatus `json:"providers"`
	Bundle     FeatureStatus   `json:"bundle"`
	Chat       FeatureStatus   `json:"chat"`
	Retail     RetailStatus    `json:"retail"`
	Storefront string          `json:"storefront"`
}

// ProvidersStatus shows registered LLM providers.
type ProvidersStatus struct {
	LLM []string `json:"llm"`
}

// FeatureStatus shows which provider a model-backed feature uses.
type FeatureStatus struct {
	Provider      string `json:"provider,omitempty"`
	PromptVersion string `json:"promptVersion,omitempty"`
	Ready         bool   `json:"ready"`
}

// RetailStatus shows the retail catalog in use.
type RetailStatus struct {
	Configured bool   `json:"configured"`
	Catalog    string `json:"catalog,omitempty"`
}

// StatusEndpoint handles GET /status.
type StatusEndpoint struct{}

func (e *StatusEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/status", e.handler
}

func (e *StatusEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Server status
//	@Description	Registered providers and upstream configuration
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	StatusResponse
//	@Router			/status [get]
func (e *StatusEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := StatusResponse{
		Server:     "running",
		Providers:  ProvidersStatus{LLM: []string{}},
		Storefront: "not_configured",
	}

	registry := svcctx.RegistryFrom(ctx)
	if registry != nil {
		resp.Providers.LLM = registry.ListLLM()
	}

	if b := svcctx.BundlesFrom(ctx); b != nil {
		resp.Bundle = FeatureStatus{
			Provider:      b.Provider(),
			PromptVersion: string(b.PromptVersion()),
			Ready:         registry != nil && registry.HasLLM(b.Provider()),
		}
	}
	if a := svcctx.AssistantFrom(ctx); a != nil {
		resp.Chat = FeatureStatus{
			Provider: a.Provider(),
			Ready:    registry != nil && registry.HasLLM(a.Provider()),
		}
	}

	if svcctx.RetailFrom(ctx) != nil {
		resp.Retail.Configured = true
		if mgr := svcctx.ConfigFrom(ctx); mgr != nil {
			resp.Retail.Catalog = mgr.Get().ToRetailConfig().CatalogPath()
		}
	}
	if svcctx.StorefrontFrom(ctx) != nil {
		resp.Storefront = "configured"
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *StatusEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get detailed server status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StatusResponse
			if err := client.Get(cmd.Context(), "/status", nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
