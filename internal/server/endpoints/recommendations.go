package endpoints

import (
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/wowstore/storefront/internal/api"
	"github.com/wowstore/storefront/internal/retail"
	"github.com/wowstore/storefront/internal/svcctx"
)

// RecommendationsResponse holds recommended products.
type RecommendationsResponse struct {
	Recommendations []retail.Product `json:"recommendations"`
}

// RecommendationsEndpoint handles GET /api/recommendations.
type RecommendationsEndpoint struct{}

func (e *RecommendationsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/recommendations", e.handler
}

func (e *RecommendationsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Recommend products
//	@Description	Products related to productId from the recommendation placement for type
//	@Tags			retail
//	@Produce		json
//	@Param			productId	query		string	true	"Product id"
//	@Param			type		query		string	false	"Recommendation type (default similar-items)"
//	@Param			visitorId	query		string	false	"Visitor id"
//	@Success		200			{object}	RecommendationsResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Failure		503			{object}	ErrorResponse
//	@Router			/api/recommendations [get]
func (e *RecommendationsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := retail.RecommendRequest{
		ProductID: q.Get("productId"),
		Type:      q.Get("type"),
		VisitorID: q.Get("visitorId"),
		PageSize:  retail.RecommendPageSize,
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

	recs, err := svc.Recommend(r.Context(), req)
	if err != nil {
		svcctx.LoggerFrom(r.Context()).Error("recommendations failed", "product_id", req.ProductID, "error", err)
		writeServiceError(w, err)
		return
	}
	if recs == nil {
		recs = []retail.Product{}
	}

	writeJSON(w, http.StatusOK, RecommendationsResponse{Recommendations: recs})
}

func (e *RecommendationsEndpoint) Command(getServerURL func() string) *cobra.Command {
	var recType, visitorID string
	cmd := &cobra.Command{
		Use:   "recommend <product-id>",
		Short: "Get product recommendations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			q := url.Values{"productId": {args[0]}, "type": {recType}, "visitorId": {visitorID}}
			var resp RecommendationsResponse
			if err := client.Get(cmd.Context(), "/api/recommendations", q, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&recType, "type", "", "Recommendation type (default similar-items)")
	cmd.Flags().StringVar(&visitorID, "visitor", "", "Visitor id")
	return cmd
}
