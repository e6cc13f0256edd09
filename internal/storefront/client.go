// Package storefront is a client for the commerce platform's Storefront
// GraphQL API.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultAPIVersion is the Storefront API version used when none is configured.
const DefaultAPIVersion = "2024-10"

// ErrNotConfigured is returned when no storefront endpoint is configured.
var ErrNotConfigured = errors.New("storefront endpoint is not configured")

// Config configures a Client.
type Config struct {
	Endpoint   string // Shop base URL, e.g. https://wow-store.myshopify.com
	Token      string // Storefront access token
	APIVersion string
	Timeout    time.Duration
}

// Client is a Storefront GraphQL client.
type Client struct {
	url        string
	token      string
	httpClient *http.Client
}

// NewClient creates a new Storefront client.
func NewClient(cfg Config) (*Client, error) {
	endpoint := strings.TrimSuffix(strings.TrimSpace(cfg.Endpoint), "/")
	if endpoint == "" {
		return nil, ErrNotConfigured
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		url:   endpoint + "/api/" + cfg.APIVersion + "/graphql.json",
		token: cfg.Token,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}, nil
}

// GQLRequest represents a GraphQL request.
type GQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// GQLResponse represents a GraphQL response. Data is left raw so callers
// decode into their own shapes.
type GQLResponse struct {
	Data   json.RawMessage `json:"data,omitempty"`
	Errors []GQLError      `json:"errors,omitempty"`
}

// GQLError represents a GraphQL error.
type GQLError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

// Error returns the first error message or empty string.
func (r *GQLResponse) Error() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// Execute sends a GraphQL request and returns the response.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]any) (*GQLResponse, error) {
	bodyBytes, err := json.Marshal(GQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("X-Shopify-Storefront-Access-Token", c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("storefront error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var gqlResp GQLResponse
	if err := json.Unmarshal(respBody, &gqlResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &gqlResp, nil
}

// query runs a request and decodes its data into out, turning GraphQL
// errors into Go errors.
func (c *Client) query(ctx context.Context, query string, variables map[string]any, out any) error {
	resp, err := c.Execute(ctx, query, variables)
	if err != nil {
		return err
	}
	if msg := resp.Error(); msg != "" {
		return fmt.Errorf("storefront graphql error: %s", msg)
	}
	if len(resp.Data) == 0 {
		return fmt.Errorf("storefront returned no data")
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to decode storefront data: %w", err)
	}
	return nil
}
