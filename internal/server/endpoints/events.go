package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/wowstore/storefront/internal/api"
	"github.com/wowstore/storefront/internal/retail"
	"github.com/wowstore/storefront/internal/svcctx"
)

// EventRequest is a storefront user event.
type EventRequest = retail.Event

// EventResponse acknowledges a recorded event.
type EventResponse struct {
	Status string `json:"status"`
}

// EventsEndpoint handles POST /api/events.
type EventsEndpoint struct{}

func (e *EventsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/events", e.handler
}

func (e *EventsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Record a user event
//	@Tags			retail
//	@Accept			json
//	@Produce		json
//	@Param			request	body		EventRequest	true	"User event"
//	@Success		200		{object}	EventResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/events [post]
func (e *EventsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var ev EventRequest
	if err := decodeBody(r, &ev, true); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := ev.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	svc := svcctx.RetailFrom(r.Context())
	if svc == nil {
		writeError(w, http.StatusServiceUnavailable, retail.ErrNotConfigured.Error())
		return
	}

	if err := svc.WriteEvent(r.Context(), ev); err != nil {
		svcctx.LoggerFrom(r.Context()).Error("write event failed", "event_type", ev.Type, "error", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, EventResponse{Status: "ok"})
}

func (e *EventsEndpoint) Command(getServerURL func() string) *cobra.Command {
	var ev EventRequest
	cmd := &cobra.Command{
		Use:   "event <event-type>",
		Short: "Record a user event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ev.Type = args[0]
			client := api.NewClient(getServerURL())
			var resp EventResponse
			if err := client.Post(cmd.Context(), "/api/events", ev, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&ev.VisitorID, "visitor", "", "Visitor id")
	cmd.Flags().StringVar(&ev.UserID, "user", "", "User id")
	cmd.Flags().StringSliceVar(&ev.ProductIDs, "product", nil, "Product ids")
	cmd.Flags().StringVar(&ev.SearchQuery, "query", "", "Search query")
	cmd.Flags().StringVar(&ev.CartID, "cart", "", "Cart id")
	return cmd
}
