package retail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	retailapi "cloud.google.com/go/retail/apiv2"
	"cloud.google.com/go/retail/apiv2/retailpb"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/types/known/structpb"
)

// GoogleClient implements Service on the Cloud Retail API.
type GoogleClient struct {
	cfg      Config
	currency string
	logger   *slog.Logger

	search   *retailapi.SearchClient
	predict  *retailapi.PredictionClient
	events   *retailapi.UserEventClient
	products *retailapi.ProductClient
}

// GoogleConfig configures a GoogleClient.
type GoogleConfig struct {
	Config
	Currency string // Default import currency
	Logger   *slog.Logger
	Options  []option.ClientOption
}

// NewGoogleClient dials the four retail services for cfg.
func NewGoogleClient(ctx context.Context, cfg GoogleConfig) (*GoogleClient, error) {
	rc := cfg.Config.WithDefaults()
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &GoogleClient{cfg: rc, currency: cfg.Currency, logger: logger}

	var err error
	if c.search, err = retailapi.NewSearchClient(ctx, cfg.Options...); err != nil {
		return nil, fmt.Errorf("failed to create retail search client: %w", err)
	}
	if c.predict, err = retailapi.NewPredictionClient(ctx, cfg.Options...); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create retail prediction client: %w", err)
	}
	if c.events, err = retailapi.NewUserEventClient(ctx, cfg.Options...); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create retail user event client: %w", err)
	}
	if c.products, err = retailapi.NewProductClient(ctx, cfg.Options...); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create retail product client: %w", err)
	}

	// Request-path calls are made exactly once.
	c.search.CallOptions.Search = nil
	c.predict.CallOptions.Predict = nil
	c.events.CallOptions.WriteUserEvent = nil
	// Catalog imports are retried by the caller.
	c.products.CallOptions.ImportProducts = nil
	return c, nil
}

// Config returns the resolved catalog location.
func (c *GoogleClient) Config() Config {
	return c.cfg
}

// Close releases the underlying connections.
func (c *GoogleClient) Close() error {
	var errs []error
	if c.search != nil {
		errs = append(errs, c.search.Close())
	}
	if c.predict != nil {
		errs = append(errs, c.predict.Close())
	}
	if c.events != nil {
		errs = append(errs, c.events.Close())
	}
	if c.products != nil {
		errs = append(errs, c.products.Close())
	}
	return errors.Join(errs...)
}

func visitorOrAnonymous(id string) string {
	if id != "" {
		return id
	}
	return uuid.New().String()
}

// Search runs a text search against the default search placement.
func (c *GoogleClient) Search(ctx context.Context, req SearchRequest) ([]Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = SearchPageSize
	}

	it := c.search.Search(ctx, &retailpb.SearchRequest{
		Placement: c.cfg.SearchPlacement(),
		Branch:    c.cfg.BranchPath(),
		Query:     req.Query,
		VisitorId: visitorOrAnonymous(req.VisitorID),
		PageSize:  int32(pageSize),
	})

	// Stop at one page so a request makes a single upstream call.
	results := make([]Product, 0, pageSize)
	for len(results) < pageSize {
		r, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("retail search failed: %w", err)
		}
		results = append(results, fromSearchResult(r))
	}
	return results, nil
}

// Recommend asks the recommendation placement for products related to req.ProductID.
func (c *GoogleClient) Recommend(ctx context.Context, req RecommendRequest) ([]Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	kind := req.Type
	if kind == "" {
		kind = DefaultRecommendationType
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = RecommendPageSize
	}

	resp, err := c.predict.Predict(ctx, &retailpb.PredictRequest{
		Placement: c.cfg.RecommendationPlacement(kind),
		UserEvent: &retailpb.UserEvent{
			EventType: "detail-page-view",
			VisitorId: visitorOrAnonymous(req.VisitorID),
			ProductDetails: []*retailpb.ProductDetail{
				{Product: &retailpb.Product{Id: req.ProductID}},
			},
		},
		PageSize: int32(pageSize),
		Params: map[string]*structpb.Value{
			"returnProduct": structpb.NewBoolValue(true),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("retail predict failed: %w", err)
	}

	results := make([]Product, 0, len(resp.GetResults()))
	for _, r := range resp.GetResults() {
		results = append(results, fromPrediction(r))
	}
	return results, nil
}

// WriteEvent records one user event on the catalog.
func (c *GoogleClient) WriteEvent(ctx context.Context, ev Event) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	ev.VisitorID = visitorOrAnonymous(ev.VisitorID)

	_, err := c.events.WriteUserEvent(ctx, &retailpb.WriteUserEventRequest{
		Parent:    c.cfg.CatalogPath(),
		UserEvent: toProtoEvent(ev),
	})
	if err != nil {
		return fmt.Errorf("retail write event failed: %w", err)
	}
	return nil
}

// ImportProducts imports products inline and waits for the operation.
func (c *GoogleClient) ImportProducts(ctx context.Context, products []CatalogProduct) error {
	if len(products) == 0 {
		return nil
	}
	protos := make([]*retailpb.Product, 0, len(products))
	for _, p := range products {
		if err := p.Validate(); err != nil {
			return err
		}
		protos = append(protos, toProtoProduct(c.cfg, p, c.currency))
	}

	op, err := c.products.ImportProducts(ctx, &retailpb.ImportProductsRequest{
		Parent: c.cfg.BranchPath(),
		InputConfig: &retailpb.ProductInputConfig{
			Source: &retailpb.ProductInputConfig_ProductInlineSource{
				ProductInlineSource: &retailpb.ProductInlineSource{Products: protos},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("retail import failed: %w", err)
	}
	resp, err := op.Wait(ctx)
	if err != nil {
		return fmt.Errorf("retail import operation failed: %w", err)
	}
	if samples := resp.GetErrorSamples(); len(samples) > 0 {
		return fmt.Errorf("%w: %d products: %s", ErrImportRejected, len(samples), samples[0].GetMessage())
	}

	c.logger.Info("imported products", "count", len(protos), "branch", c.cfg.BranchPath())
	return nil
}

var _ Service = (*GoogleClient)(nil)
