package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wowstore/storefront/internal/api"
	"github.com/wowstore/storefront/internal/assistant"
	"github.com/wowstore/storefront/internal/svcctx"
)

// ChatRequest is the request body for a chat turn. History is a JSON array
// of turns, optionally itself JSON-encoded as a string.
type ChatRequest struct {
	Message string          `json:"message"`
	History json.RawMessage `json:"history,omitempty"`
}

// ChatResponse is the assistant's reply.
type ChatResponse struct {
	Response string `json:"response"`
}

// ChatEndpoint handles POST /api/chat.
type ChatEndpoint struct{}

func (e *ChatEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/chat", e.handler
}

func (e *ChatEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Chat with the shopping assistant
//	@Tags			chat
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ChatRequest	true	"Message and prior turns"
//	@Success		200		{object}	ChatResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/chat [post]
func (e *ChatEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := decodeBody(r, &req, true); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, assistant.ErrEmptyMessage.Error())
		return
	}
	history, err := assistant.ParseHistory(req.History)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	svc := svcctx.AssistantFrom(r.Context())
	if svc == nil {
		writeError(w, http.StatusServiceUnavailable, "chat service not initialized")
		return
	}

	reply, err := svc.Reply(r.Context(), req.Message, history)
	if err != nil {
		svcctx.LoggerFrom(r.Context()).Error("chat failed", "history_turns", len(history), "error", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{Response: reply})
}

func (e *ChatEndpoint) Command(getServerURL func() string) *cobra.Command {
	var historyFile string
	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Send a message to the shopping assistant",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := ChatRequest{Message: strings.Join(args, " ")}
			if historyFile != "" {
				data, err := os.ReadFile(historyFile)
				if err != nil {
					return fmt.Errorf("failed to read history file: %w", err)
				}
				req.History = data
			}
			client := api.NewClient(getServerURL())
			var resp ChatResponse
			if err := client.Post(cmd.Context(), "/api/chat", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&historyFile, "history", "", "JSON file with prior turns")
	return cmd
}
