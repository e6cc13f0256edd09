// Package retail talks to the managed retail search, recommendation and
// user-event service that backs storefront discovery.
package retail

import (
	"errors"
	"fmt"
)

const (
	DefaultLocation = "global"
	DefaultCatalog  = "default_catalog"
	DefaultBranch   = "default_branch"

	DefaultRecommendationType = "similar-items"

	SearchPageSize    = 10
	RecommendPageSize = 5
)

// ErrNotConfigured is returned when no project is configured.
var ErrNotConfigured = errors.New("retail project is not configured")

// Config locates a retail catalog. Zero fields take the documented defaults.
type Config struct {
	ProjectID string
	Location  string
	CatalogID string
	Branch    string
}

// WithDefaults returns c with empty fields set to their defaults.
func (c Config) WithDefaults() Config {
	if c.Location == "" {
		c.Location = DefaultLocation
	}
	if c.CatalogID == "" {
		c.CatalogID = DefaultCatalog
	}
	if c.Branch == "" {
		c.Branch = DefaultBranch
	}
	return c
}

// Validate reports ErrNotConfigured when ProjectID is empty.
func (c Config) Validate() error {
	if c.ProjectID == "" {
		return ErrNotConfigured
	}
	return nil
}

// CatalogPath is the user event parent.
func (c Config) CatalogPath() string {
	return fmt.Sprintf("projects/%s/locations/%s/catalogs/%s", c.ProjectID, c.Location, c.CatalogID)
}

// BranchPath is the product import parent.
func (c Config) BranchPath() string {
	return c.CatalogPath() + "/branches/" + c.Branch
}

// ProductPath is the full resource name of product id.
func (c Config) ProductPath(id string) string {
	return c.BranchPath() + "/products/" + id
}

// PlacementPath is the full resource name of a serving placement.
func (c Config) PlacementPath(placement string) string {
	return c.CatalogPath() + "/placements/" + placement
}

// SearchPlacement is the placement used for text search.
func (c Config) SearchPlacement() string {
	return c.PlacementPath("default_search")
}

// RecommendationPlacement is the placement serving recommendations of kind.
func (c Config) RecommendationPlacement(kind string) string {
	return c.PlacementPath("default_recommendation_" + kind)
}
