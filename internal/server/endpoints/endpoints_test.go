package endpoints

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/wowstore/storefront/internal/api"
	"github.com/wowstore/storefront/internal/assistant"
	"github.com/wowstore/storefront/internal/bundle"
	"github.com/wowstore/storefront/internal/catalog"
	"github.com/wowstore/storefront/internal/providers"
	"github.com/wowstore/storefront/internal/retail"
	"github.com/wowstore/storefront/internal/storefront"
	"github.com/wowstore/storefront/internal/svcctx"
)

const bundleReply = `1. Bundle name: Glow Ritual
2. Bundle description: Everything for a calm evening routine.
3. Why these items work together: They layer.
4. Suggested discount percentage: 15%`

type fakeRetail struct {
	mu       sync.Mutex
	searches []retail.SearchRequest
	recs     []retail.RecommendRequest
	events   []retail.Event
	imported int
	err      error
}

func (f *fakeRetail) Search(ctx context.Context, req retail.SearchRequest) ([]retail.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, req)
	if f.err != nil {
		return nil, f.err
	}
	return []retail.Product{{ID: "8837421", Title: "Rose Quartz Roller"}}, nil
}

func (f *fakeRetail) Recommend(ctx context.Context, req retail.RecommendRequest) ([]retail.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recs = append(f.recs, req)
	if f.err != nil {
		return nil, f.err
	}
	return nil, nil
}

func (f *fakeRetail) WriteEvent(ctx context.Context, ev retail.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return f.err
}

func (f *fakeRetail) ImportProducts(ctx context.Context, products []retail.CatalogProduct) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.imported += len(products)
	return nil
}

func (f *fakeRetail) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.searches) + len(f.recs) + len(f.events)
}

type fixture struct {
	services *svcctx.Services
	llm      *providers.MockClient
	retail   *fakeRetail
	handler  http.Handler
}

func newFixture(t *testing.T, storefrontHandler http.HandlerFunc) *fixture {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)

	llm := providers.NewMockClient()
	llm.ResponseText = bundleReply
	registry := providers.NewRegistry()
	registry.SetLogger(logger)
	registry.RegisterLLM("gemini", llm)

	bundles, err := bundle.NewService(bundle.Config{Registry: registry, Provider: "gemini", Logger: logger})
	if err != nil {
		t.Fatalf("bundle.NewService() error = %v", err)
	}
	chat, err := assistant.NewService(assistant.Config{Registry: registry, Provider: "gemini", Logger: logger})
	if err != nil {
		t.Fatalf("assistant.NewService() error = %v", err)
	}

	fr := &fakeRetail{}
	services := &svcctx.Services{
		Registry:  registry,
		Bundles:   bundles,
		Assistant: chat,
		Retail:    fr,
		Logger:    logger,
	}

	if storefrontHandler != nil {
		srv := httptest.NewServer(storefrontHandler)
		t.Cleanup(srv.Close)
		sf, err := storefront.NewClient(storefront.Config{Endpoint: srv.URL, Token: "tok"})
		if err != nil {
			t.Fatalf("storefront.NewClient() error = %v", err)
		}
		services.Storefront = sf
	}

	ix, err := catalog.NewIndexer(catalog.Config{Importer: fr, Logger: logger, RetryDelay: 1})
	if err != nil {
		t.Fatalf("catalog.NewIndexer() error = %v", err)
	}
	services.Indexer = ix

	f := &fixture{services: services, llm: llm, retail: fr}
	f.handler = buildHandler(func() *svcctx.Services { return f.services })
	return f
}

func buildHandler(services func() *svcctx.Services) http.Handler {
	reg := api.NewRegistry()
	for _, ep := range All() {
		reg.Register(ep)
	}
	mux := http.NewServeMux()
	reg.RegisterRoutes(mux, func(next http.HandlerFunc) http.HandlerFunc { return next })
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s := services(); s != nil {
			r = r.WithContext(svcctx.WithServices(r.Context(), s))
		}
		mux.ServeHTTP(w, r)
	})
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&v); err != nil {
		t.Fatalf("failed to decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(t, "GET", "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := decode[HealthResponse](t, rec); got.Status != "ok" {
		t.Errorf("Status = %q, want ok", got.Status)
	}
}

func TestStatus(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(t, "GET", "/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	got := decode[StatusResponse](t, rec)
	if got.Bundle.Provider != "gemini" || !got.Bundle.Ready {
		t.Errorf("Bundle = %+v, want gemini ready", got.Bundle)
	}
	if got.Bundle.PromptVersion != string(bundle.DefaultPromptVersion) {
		t.Errorf("PromptVersion = %q", got.Bundle.PromptVersion)
	}
	if !got.Retail.Configured {
		t.Error("Retail.Configured = false, want true")
	}
	if got.Storefront != "not_configured" {
		t.Errorf("Storefront = %q, want not_configured", got.Storefront)
	}
}

func TestBundleEndpoint(t *testing.T) {
	t.Run("generates bundle", func(t *testing.T) {
		f := newFixture(t, nil)
		rec := f.do(t, "POST", "/api/bundle", `{"products":[
			{"title":"Rose Quartz Roller","description":"Cooling face roller","price":"20.00"},
			{"title":"Silk Pillowcase","description":"Mulberry silk","price":30}
		],"theme":"self-care"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}

		got := decode[BundleResponse](t, rec).Bundle
		if got.Name == nil || *got.Name != "Glow Ritual" {
			t.Errorf("Name = %v, want Glow Ritual", got.Name)
		}
		if got.Discount == nil || *got.Discount != 15 {
			t.Errorf("Discount = %v, want 15", got.Discount)
		}
		if got.OriginalPrice != 50 || got.BundlePrice != 42.5 {
			t.Errorf("prices = (%v, %v), want (50, 42.5)", got.OriginalPrice, got.BundlePrice)
		}
		if f.llm.RequestCount() != 1 {
			t.Errorf("model calls = %d, want 1", f.llm.RequestCount())
		}
	})

	for _, body := range []string{``, `{}`, `{"products":[]}`, `{"theme":"x"}`} {
		t.Run("rejects without calling model: "+body, func(t *testing.T) {
			f := newFixture(t, nil)
			rec := f.do(t, "POST", "/api/bundle", body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if got := decode[ErrorResponse](t, rec); got.Error != "products are required" {
				t.Errorf("error = %q", got.Error)
			}
			if f.llm.RequestCount() != 0 {
				t.Errorf("model calls = %d, want 0", f.llm.RequestCount())
			}
		})
	}

	t.Run("malformed body", func(t *testing.T) {
		f := newFixture(t, nil)
		if rec := f.do(t, "POST", "/api/bundle", `{"products":`); rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("model failure is 500", func(t *testing.T) {
		f := newFixture(t, nil)
		f.llm.ShouldFail = true
		rec := f.do(t, "POST", "/api/bundle", `{"products":[{"title":"A","description":"a"}]}`)
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
		if f.llm.RequestCount() != 1 {
			t.Errorf("model calls = %d, want exactly 1", f.llm.RequestCount())
		}
	})

	t.Run("unparseable reply still succeeds", func(t *testing.T) {
		f := newFixture(t, nil)
		f.llm.ResponseText = "I cannot help with that."
		rec := f.do(t, "POST", "/api/bundle", `{"products":[{"title":"A","description":"a"}]}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		got := decode[BundleResponse](t, rec).Bundle
		if got.Name != nil || got.Description != nil || got.Discount != nil {
			t.Errorf("bundle = %+v, want empty fields", got)
		}
	})

	t.Run("service missing is 503", func(t *testing.T) {
		f := newFixture(t, nil)
		f.services.Bundles = nil
		rec := f.do(t, "POST", "/api/bundle", `{"products":[{"title":"A"}]}`)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", rec.Code)
		}
	})
}

func TestBundleCartEndpoint(t *testing.T) {
	t.Run("creates cart", func(t *testing.T) {
		f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":{"cartCreate":{"cart":{"id":"c1","checkoutUrl":"https://shop.example.com/c1"},"userErrors":[]}}}`))
		})
		rec := f.do(t, "POST", "/api/bundle/cart", `{"lines":[{"merchandiseId":"gid://shopify/ProductVariant/1","quantity":1}]}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		if got := decode[CartResponse](t, rec); got.Cart.CheckoutURL != "https://shop.example.com/c1" {
			t.Errorf("CheckoutURL = %q", got.Cart.CheckoutURL)
		}
	})

	t.Run("empty lines is 400", func(t *testing.T) {
		f := newFixture(t, nil)
		if rec := f.do(t, "POST", "/api/bundle/cart", `{"lines":[]}`); rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("unconfigured storefront is 503", func(t *testing.T) {
		f := newFixture(t, nil)
		rec := f.do(t, "POST", "/api/bundle/cart", `{"lines":[{"merchandiseId":"v1"}]}`)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", rec.Code)
		}
	})
}

func TestChatEndpoint(t *testing.T) {
	t.Run("replies", func(t *testing.T) {
		f := newFixture(t, nil)
		f.llm.ResponseText = "Free shipping starts at €69."
		rec := f.do(t, "POST", "/api/chat", `{"message":"Do you ship free?","history":"[{\"role\":\"user\",\"text\":\"hi\"},{\"role\":\"model\",\"text\":\"hello\"}]"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		if got := decode[ChatResponse](t, rec); got.Response != "Free shipping starts at €69." {
			t.Errorf("Response = %q", got.Response)
		}
		last := f.llm.LastRequest()
		if len(last.Messages) != 3 {
			t.Errorf("messages sent = %d, want 3", len(last.Messages))
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{"empty message", `{"message":"  "}`},
		{"history not an array", `{"message":"hi","history":"{\"role\":\"user\"}"}`},
		{"unknown role", `{"message":"hi","history":[{"role":"system","text":"x"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			if rec := f.do(t, "POST", "/api/chat", tt.body); rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if f.llm.RequestCount() != 0 {
				t.Errorf("model calls = %d, want 0", f.llm.RequestCount())
			}
		})
	}

	t.Run("model failure is 500", func(t *testing.T) {
		f := newFixture(t, nil)
		f.llm.ShouldFail = true
		if rec := f.do(t, "POST", "/api/chat", `{"message":"hi"}`); rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
	})
}

func TestSearchEndpoint(t *testing.T) {
	t.Run("returns results", func(t *testing.T) {
		f := newFixture(t, nil)
		rec := f.do(t, "GET", "/api/search?q=roller&visitorId=v1", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		if got := decode[SearchResponse](t, rec); len(got.Results) != 1 {
			t.Errorf("results = %d, want 1", len(got.Results))
		}
		if req := f.retail.searches[0]; req.PageSize != retail.SearchPageSize || req.VisitorID != "v1" {
			t.Errorf("search request = %+v", req)
		}
	})

	t.Run("empty query is 400", func(t *testing.T) {
		f := newFixture(t, nil)
		if rec := f.do(t, "GET", "/api/search?q=", ""); rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
		if f.retail.calls() != 0 {
			t.Error("retail should not be called")
		}
	})

	t.Run("validation precedes missing service", func(t *testing.T) {
		f := newFixture(t, nil)
		f.services.Retail = nil
		if rec := f.do(t, "GET", "/api/search", ""); rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
		if rec := f.do(t, "GET", "/api/search?q=x", ""); rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", rec.Code)
		}
	})

	t.Run("upstream failure is 500", func(t *testing.T) {
		f := newFixture(t, nil)
		f.retail.err = errors.New("retail search failed: internal")
		if rec := f.do(t, "GET", "/api/search?q=x", ""); rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
	})
}

func TestRecommendationsEndpoint(t *testing.T) {
	t.Run("defaults page size", func(t *testing.T) {
		f := newFixture(t, nil)
		rec := f.do(t, "GET", "/api/recommendations?productId=8837421", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		got := decode[RecommendationsResponse](t, rec)
		if got.Recommendations == nil {
			t.Error("recommendations should be an empty array, not null")
		}
		if req := f.retail.recs[0]; req.PageSize != retail.RecommendPageSize || req.ProductID != "8837421" {
			t.Errorf("recommend request = %+v", req)
		}
	})

	tests := []struct {
		name  string
		query string
	}{
		{"missing productId", ""},
		{"bad productId", "?productId=../etc"},
		{"bad type", "?productId=1&type=a/b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			if rec := f.do(t, "GET", "/api/recommendations"+tt.query, ""); rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if f.retail.calls() != 0 {
				t.Error("retail should not be called")
			}
		})
	}
}

func TestEventsEndpoint(t *testing.T) {
	t.Run("records event", func(t *testing.T) {
		f := newFixture(t, nil)
		rec := f.do(t, "POST", "/api/events", `{"eventType":"add-to-cart","visitorId":"v1","productIds":["8837421"],"cartId":"c1"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		if ev := f.retail.events[0]; ev.Type != "add-to-cart" || ev.CartID != "c1" {
			t.Errorf("event = %+v", ev)
		}
	})

	t.Run("missing type is 400", func(t *testing.T) {
		f := newFixture(t, nil)
		if rec := f.do(t, "POST", "/api/events", `{"visitorId":"v1"}`); rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestCatalogIndexEndpoint(t *testing.T) {
	t.Run("imports given products", func(t *testing.T) {
		f := newFixture(t, nil)
		rec := f.do(t, "POST", "/api/catalog/index", `{"products":[{"id":"1","title":"One","price":"9.90"},{"id":"2","title":"Two"}]}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		if got := decode[IndexResponse](t, rec); got.Summary.Imported != 2 {
			t.Errorf("Imported = %d, want 2", got.Summary.Imported)
		}
	})

	t.Run("pull without source is 503", func(t *testing.T) {
		f := newFixture(t, nil)
		if rec := f.do(t, "POST", "/api/catalog/index", ""); rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", rec.Code)
		}
	})
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{bundle.ErrNoProducts, 400},
		{assistant.ErrEmptyMessage, 400},
		{retail.ErrEmptyQuery, 400},
		{storefront.ErrEmptyCart, 400},
		{retail.ErrNotConfigured, 503},
		{catalog.ErrNoSource, 503},
		{errors.New("boom"), 500},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
