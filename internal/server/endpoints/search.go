package endpoints

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wowstore/storefront/internal/api"
	"github.com/wowstore/storefront/internal/retail"
	"github.com/wowstore/storefront/internal/svcctx"
)

// SearchResponse holds search results.
type SearchResponse struct {
	Results []retail.Product `json:"results"`
}

// SearchEndpoint handles GET /api/search.
type SearchEndpoint struct{}

func (e *SearchEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/search", e.handler
}

func (e *SearchEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Search products
//	@Tags			retail
//	@Produce		json
//	@Param			q			query		string	true	"Search text"
//	@Param			visitorId	query		string	false	"Visitor id"
//	@Success		200			{object}	SearchResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Failure		503			{object}	ErrorResponse
//	@Router			/api/search [get]
func (e *SearchEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	req := retail.SearchRequest{
		Query:     r.URL.Query().Get("q"),
		VisitorID: r.URL.Query().Get("visitorId"),
		PageSize:  retail.SearchPageSize,
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	svc := svcctx.RetailFrom(r.Context())
	if svc == nil {
		writeError(w, http.StatusServiceUnavailable, retail.ErrNotConfigured.Error())
		return
	}

	results, err := svc.Search(r.Context(), req)
	if err != nil {
		svcctx.LoggerFrom(r.Context()).Error("search failed", "error", err)
		writeServiceError(w, err)
		return
	}
	if results == nil {
		results = []retail.Product{}
	}

	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

func (e *SearchEndpoint) Command(getServerURL func() string) *cobra.Command {
	var visitorID string
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the product catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			q := url.Values{"q": {strings.Join(args, " ")}, "visitorId": {visitorID}}
			var resp SearchResponse
			if err := client.Get(cmd.Context(), "/api/search", q, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&visitorID, "visitor", "", "Visitor id")
	return cmd
}
