package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/wowstore/storefront/internal/api"
	"github.com/wowstore/storefront/internal/catalog"
	"github.com/wowstore/storefront/internal/retail"
	"github.com/wowstore/storefront/internal/svcctx"
)

// IndexRequest lists products to import. When empty, the whole commerce
// catalog is pulled.
type IndexRequest struct {
	Products []retail.CatalogProduct `json:"products,omitempty"`
}

// IndexResponse reports an import run.
type IndexResponse struct {
	Summary catalog.Summary `json:"summary"`
}

// CatalogIndexEndpoint handles POST /api/catalog/index.
type CatalogIndexEndpoint struct{}

func (e *CatalogIndexEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/catalog/index", e.handler
}

func (e *CatalogIndexEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Index the catalog
//	@Description	Import products into the retail catalog, pulling from the commerce platform when none are given
//	@Tags			catalog
//	@Accept			json
//	@Produce		json
//	@Param			request	body		IndexRequest	false	"Products to import"
//	@Success		200		{object}	IndexResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/catalog/index [post]
func (e *CatalogIndexEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req IndexRequest
	if err := decodeBody(r, &req, true); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ix := svcctx.IndexerFrom(r.Context())
	if ix == nil {
		writeError(w, http.StatusServiceUnavailable, retail.ErrNotConfigured.Error())
		return
	}

	var (
		summary catalog.Summary
		err     error
	)
	if len(req.Products) > 0 {
		summary, err = ix.Index(r.Context(), req.Products)
	} else {
		summary, err = ix.IndexAll(r.Context())
	}
	if err != nil {
		svcctx.LoggerFrom(r.Context()).Error("catalog index failed", "imported", summary.Imported, "error", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, IndexResponse{Summary: summary})
}

func (e *CatalogIndexEndpoint) Command(getServerURL func() string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Import products into the retail catalog via the server",
		Long: `Import products into the retail catalog.

With --file, the JSON array of products in the file is imported.
Without it, the server pulls every product from the commerce platform.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req IndexRequest
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("failed to read products file: %w", err)
				}
				if err := json.Unmarshal(data, &req.Products); err != nil {
					return fmt.Errorf("failed to parse products file: %w", err)
				}
			}
			client := api.NewClient(getServerURL())
			var resp IndexResponse
			if err := client.Post(cmd.Context(), "/api/catalog/index", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "JSON file with a products array")
	return cmd
}
