package storefront

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const productsPage = `{"data":{"products":{
  "pageInfo":{"hasNextPage":true,"endCursor":"c1"},
  "nodes":[{
    "id":"gid://shopify/Product/8837421",
    "handle":"rose-quartz-roller",
    "title":"Rose Quartz Roller",
    "description":"Cooling face roller.",
    "productType":"Tools",
    "vendor":"Wow",
    "tags":["face","tools"],
    "availableForSale":true,
    "images":{"nodes":[{"url":"https://cdn.example.com/a.jpg"}]},
    "variants":{"nodes":[{"id":"gid://shopify/ProductVariant/1","price":{"amount":"24.90","currencyCode":"EUR"}}]}
  }]
}}}`

func TestClient_Products(t *testing.T) {
	var gotVars map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req GQLRequest
		json.Unmarshal(body, &req)
		gotVars = req.Variables
		w.Write([]byte(productsPage))
	})

	page, err := client.Products(context.Background(), 50, "c0")
	if err != nil {
		t.Fatalf("Products() error = %v", err)
	}

	if !page.HasNextPage || page.EndCursor != "c1" {
		t.Errorf("page info = (%v, %q), want (true, %q)", page.HasNextPage, page.EndCursor, "c1")
	}
	if len(page.Products) != 1 {
		t.Fatalf("len(Products) = %d, want 1", len(page.Products))
	}
	if diff := cmp.Diff(map[string]any{"first": float64(50), "after": "c0"}, gotVars); diff != "" {
		t.Errorf("variables mismatch (-want +got):\n%s", diff)
	}

	p := page.Products[0]
	if got := p.LegacyID(); got != "8837421" {
		t.Errorf("LegacyID() = %q, want %q", got, "8837421")
	}
	v, ok := p.FirstVariant()
	if !ok || v.Price.Amount != "24.90" {
		t.Errorf("FirstVariant() = %+v, %v", v, ok)
	}
	if diff := cmp.Diff([]string{"https://cdn.example.com/a.jpg"}, p.ImageURLs()); diff != "" {
		t.Errorf("ImageURLs() mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_ProductsClampsPageSize(t *testing.T) {
	var first any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req GQLRequest
		json.Unmarshal(body, &req)
		first = req.Variables["first"]
		if _, ok := req.Variables["after"]; ok {
			t.Error("after should be omitted for the first page")
		}
		w.Write([]byte(`{"data":{"products":{"pageInfo":{},"nodes":[]}}}`))
	})

	if _, err := client.Products(context.Background(), 1000, ""); err != nil {
		t.Fatalf("Products() error = %v", err)
	}
	if first != float64(MaxPageSize) {
		t.Errorf("first = %v, want %d", first, MaxPageSize)
	}
}

func TestClient_ProductsGraphQLError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"throttled"}]}`))
	})

	if _, err := client.Products(context.Background(), 10, ""); err == nil {
		t.Error("expected error")
	}
}

func TestProduct_LegacyID(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"gid://shopify/Product/123", "123"},
		{"456", "456"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := (Product{ID: tt.id}).LegacyID(); got != tt.want {
			t.Errorf("LegacyID(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}
