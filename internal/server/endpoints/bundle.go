package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wowstore/storefront/internal/api"
	"github.com/wowstore/storefront/internal/bundle"
	"github.com/wowstore/storefront/internal/storefront"
	"github.com/wowstore/storefront/internal/svcctx"
)

// BundleRequest is the request body for generating a bundle.
type BundleRequest = bundle.Request

// BundleResponse wraps a generated bundle.
type BundleResponse struct {
	Bundle *bundle.Specification `json:"bundle"`
}

// BundleEndpoint handles POST /api/bundle.
type BundleEndpoint struct{}

func (e *BundleEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/bundle", e.handler
}

func (e *BundleEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Generate a bundle
//	@Description	Ask the model for a named, discounted bundle of the given products
//	@Tags			bundle
//	@Accept			json
//	@Produce		json
//	@Param			request	body		BundleRequest	true	"Products and theme"
//	@Success		200		{object}	BundleResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/bundle [post]
func (e *BundleEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req BundleRequest
	if err := decodeBody(r, &req, true); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Products) == 0 {
		writeError(w, http.StatusBadRequest, bundle.ErrNoProducts.Error())
		return
	}

	svc := svcctx.BundlesFrom(r.Context())
	if svc == nil {
		writeError(w, http.StatusServiceUnavailable, "bundle service not initialized")
		return
	}

	spec, err := svc.Generate(r.Context(), req)
	if err != nil {
		svcctx.LoggerFrom(r.Context()).Error("bundle generation failed", "error", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, BundleResponse{Bundle: spec})
}

func (e *BundleEndpoint) Command(getServerURL func() string) *cobra.Command {
	var (
		theme        string
		products     []string
		productsFile string
	)
	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Generate a product bundle",
		Long: `Generate a product bundle from a list of products.

Products are given either as repeated --product "Title|Description" flags
or as a JSON array in --file.

Examples:
  storefront api bundle --theme "self-care sunday" \
    --product "Rose Quartz Roller|Cooling face roller" \
    --product "Silk Pillowcase|Mulberry silk"
  storefront api bundle --file products.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := BundleRequest{Theme: theme}
			if productsFile != "" {
				data, err := os.ReadFile(productsFile)
				if err != nil {
					return fmt.Errorf("failed to read products file: %w", err)
				}
				if err := json.Unmarshal(data, &req.Products); err != nil {
					return fmt.Errorf("failed to parse products file: %w", err)
				}
			}
			for _, p := range products {
				title, desc, _ := strings.Cut(p, "|")
				req.Products = append(req.Products, bundle.Product{
					Title:       strings.TrimSpace(title),
					Description: strings.TrimSpace(desc),
				})
			}

			client := api.NewClient(getServerURL())
			var resp BundleResponse
			if err := client.Post(cmd.Context(), "/api/bundle", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&theme, "theme", "", "Bundle theme")
	cmd.Flags().StringArrayVar(&products, "product", nil, `Product as "Title|Description" (repeatable)`)
	cmd.Flags().StringVar(&productsFile, "file", "", "JSON file with a products array")
	return cmd
}

// CartRequest is the request body for creating a bundle cart.
type CartRequest struct {
	Lines []storefront.CartLine `json:"lines"`
}

// CartResponse wraps a created cart.
type CartResponse struct {
	Cart *storefront.Cart `json:"cart"`
}

// BundleCartEndpoint handles POST /api/bundle/cart.
type BundleCartEndpoint struct{}

func (e *BundleCartEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/bundle/cart", e.handler
}

func (e *BundleCartEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Create a bundle cart
//	@Description	Create a commerce cart for the bundle lines and return its checkout URL
//	@Tags			bundle
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CartRequest	true	"Cart lines"
//	@Success		200		{object}	CartResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/bundle/cart [post]
func (e *BundleCartEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req CartRequest
	if err := decodeBody(r, &req, true); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	lines, err := storefront.ValidateLines(req.Lines)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	client := svcctx.StorefrontFrom(r.Context())
	if client == nil {
		writeError(w, http.StatusServiceUnavailable, storefront.ErrNotConfigured.Error())
		return
	}

	cart, err := client.CartCreate(r.Context(), lines)
	if err != nil {
		svcctx.LoggerFrom(r.Context()).Error("cart create failed", "lines", len(lines), "error", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CartResponse{Cart: cart})
}

func (e *BundleCartEndpoint) Command(getServerURL func() string) *cobra.Command {
	var quantity int
	cmd := &cobra.Command{
		Use:   "cart <merchandise-id>...",
		Short: "Create a cart for bundle variants",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := CartRequest{}
			for _, id := range args {
				req.Lines = append(req.Lines, storefront.CartLine{MerchandiseID: id, Quantity: quantity})
			}
			client := api.NewClient(getServerURL())
			var resp CartResponse
			if err := client.Post(cmd.Context(), "/api/bundle/cart", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().IntVar(&quantity, "quantity", 1, "Quantity for each line")
	return cmd
}
