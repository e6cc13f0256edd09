package retail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrEmptyQuery is returned for a search without query text.
	ErrEmptyQuery = errors.New("q is required")
	// ErrMissingProductID is returned for a recommendation request without a product.
	ErrMissingProductID = errors.New("productId is required")
	// ErrMissingEventType is returned for a user event without a type.
	ErrMissingEventType = errors.New("eventType is required")
	// ErrImportRejected is returned when the import operation reports
	// per-product errors.
	ErrImportRejected = errors.New("retail import rejected products")
)

// IsClientError reports whether err was caused by invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrEmptyQuery) ||
		errors.Is(err, ErrMissingProductID) ||
		errors.Is(err, ErrMissingEventType)
}

// Product is a catalog product as returned by search and recommendations.
type Product struct {
	ID           string   `json:"id"`
	Name         string   `json:"name,omitempty"`
	Title        string   `json:"title,omitempty"`
	Description  string   `json:"description,omitempty"`
	URI          string   `json:"uri,omitempty"`
	Categories   []string `json:"categories,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	CurrencyCode string   `json:"currencyCode,omitempty"`
	Availability string   `json:"availability,omitempty"`
	Images       []string `json:"images,omitempty"`
}

// CatalogProduct is a commerce product to import into the retail catalog.
type CatalogProduct struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	ProductType string           `json:"productType,omitempty"`
	Vendor      string           `json:"vendor,omitempty"`
	Tags        []string         `json:"tags,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Currency    string           `json:"currency,omitempty"`
	Available   bool             `json:"availableForSale"`
	Images      []string         `json:"images,omitempty"`
}

// Validate checks the fields the catalog requires.
func (p CatalogProduct) Validate() error {
	if err := ValidateID(p.ID); err != nil {
		return err
	}
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("product %s: title is required", p.ID)
	}
	return nil
}

// SearchRequest is a text search.
type SearchRequest struct {
	Query     string
	VisitorID string
	PageSize  int
}

// Validate rejects blank queries.
func (r SearchRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return ErrEmptyQuery
	}
	return nil
}

// RecommendRequest asks for products related to ProductID.
type RecommendRequest struct {
	ProductID string
	Type      string // Placement suffix; DefaultRecommendationType when empty
	VisitorID string
	PageSize  int
}

// Validate checks ProductID and Type are safe resource name segments.
func (r RecommendRequest) Validate() error {
	if r.ProductID == "" {
		return ErrMissingProductID
	}
	if err := ValidateID(r.ProductID); err != nil {
		return fmt.Errorf("productId: %w", err)
	}
	if r.Type != "" {
		if err := ValidateID(r.Type); err != nil {
			return fmt.Errorf("type: %w", err)
		}
	}
	return nil
}

// Event is a storefront user event.
type Event struct {
	Type        string   `json:"eventType"`
	VisitorID   string   `json:"visitorId"`
	UserID      string   `json:"userId,omitempty"`
	ProductIDs  []string `json:"productIds,omitempty"`
	SearchQuery string   `json:"searchQuery,omitempty"`
	CartID      string   `json:"cartId,omitempty"`
}

// Validate checks the event has a type and usable product ids.
func (e Event) Validate() error {
	if strings.TrimSpace(e.Type) == "" {
		return ErrMissingEventType
	}
	for _, id := range e.ProductIDs {
		if err := ValidateID(id); err != nil {
			return fmt.Errorf("productIds: %w", err)
		}
	}
	return nil
}

// Searcher runs text searches.
type Searcher interface {
	Search(ctx context.Context, req SearchRequest) ([]Product, error)
}

// Recommender serves recommendations.
type Recommender interface {
	Recommend(ctx context.Context, req RecommendRequest) ([]Product, error)
}

// EventWriter records user events.
type EventWriter interface {
	WriteEvent(ctx context.Context, ev Event) error
}

// Importer loads products into the catalog.
type Importer interface {
	ImportProducts(ctx context.Context, products []CatalogProduct) error
}

// Service is the full retail surface used by the server.
type Service interface {
	Searcher
	Recommender
	EventWriter
	Importer
}
