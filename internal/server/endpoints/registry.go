package endpoints

import (
	"github.com/wowstore/storefront/internal/api"
)

// All returns all endpoint instances.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&StatusEndpoint{},

		// Generative endpoints
		&BundleEndpoint{},
		&BundleCartEndpoint{},
		&ChatEndpoint{},

		// Retail endpoints
		&SearchEndpoint{},
		&RecommendationsEndpoint{},
		&EventsEndpoint{},
		&CatalogIndexEndpoint{},
	}
}
