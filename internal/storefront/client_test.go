package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{Endpoint: server.URL, Token: "tok"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestNewClient(t *testing.T) {
	t.Run("requires endpoint", func(t *testing.T) {
		_, err := NewClient(Config{})
		if !errors.Is(err, ErrNotConfigured) {
			t.Errorf("NewClient() error = %v, want ErrNotConfigured", err)
		}
	})

	t.Run("builds versioned url", func(t *testing.T) {
		client, err := NewClient(Config{Endpoint: "https://shop.example.com/"})
		if err != nil {
			t.Fatalf("NewClient() error = %v", err)
		}
		want := "https://shop.example.com/api/" + DefaultAPIVersion + "/graphql.json"
		if client.url != want {
			t.Errorf("url = %q, want %q", client.url, want)
		}
		if client.httpClient.Timeout != 30*time.Second {
			t.Errorf("timeout = %v, want 30s", client.httpClient.Timeout)
		}
	})
}

func TestClient_Execute(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		response   string
		wantErr    bool
		wantGQLErr string
	}{
		{
			name:       "success",
			statusCode: http.StatusOK,
			response:   `{"data":{"shop":{"name":"Wow"}}}`,
		},
		{
			name:       "graphql error",
			statusCode: http.StatusOK,
			response:   `{"errors":[{"message":"field not found"}]}`,
			wantGQLErr: "field not found",
		},
		{
			name:       "server error",
			statusCode: http.StatusInternalServerError,
			response:   `internal error`,
			wantErr:    true,
		},
		{
			name:       "unauthorized",
			statusCode: http.StatusUnauthorized,
			response:   `{"errors":"Unauthorized"}`,
			wantErr:    true,
		},
		{
			name:       "malformed body",
			statusCode: http.StatusOK,
			response:   `not json`,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("method = %q, want POST", r.Method)
				}
				if got := r.Header.Get("X-Shopify-Storefront-Access-Token"); got != "tok" {
					t.Errorf("token header = %q, want %q", got, "tok")
				}
				if !strings.HasSuffix(r.URL.Path, "/graphql.json") {
					t.Errorf("path = %q, want graphql.json suffix", r.URL.Path)
				}
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.response))
			})

			resp, err := client.Execute(context.Background(), "{ shop { name } }", nil)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if got := resp.Error(); got != tt.wantGQLErr {
				t.Errorf("Error() = %q, want %q", got, tt.wantGQLErr)
			}
		})
	}
}

func TestClient_ExecuteSendsVariables(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req GQLRequest
		if err := json.Unmarshal(body, &req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if req.Variables["first"] != float64(5) {
			t.Errorf("variables[first] = %v, want 5", req.Variables["first"])
		}
		w.Write([]byte(`{"data":{}}`))
	})

	if _, err := client.Execute(context.Background(), "query", map[string]any{"first": 5}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
}

func TestClient_ContextCancellation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.Execute(ctx, "query", nil); err == nil {
		t.Error("expected error from cancelled context")
	}
}
