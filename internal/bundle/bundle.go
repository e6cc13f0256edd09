// Package bundle turns a list of products into an AI-generated bundle offer.
//
// A bundle request renders a versioned prompt, makes one model call, and
// parses the reply into a Specification with the parser versioned alongside
// the prompt. Parsing never fails: fields the reply does not carry stay absent.
package bundle

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNoProducts is returned when a bundle request carries no products.
var ErrNoProducts = errors.New("products are required")

// Product is one item offered for bundling.
type Product struct {
	ID          string           `json:"id,omitempty"`
	VariantID   string           `json:"variantId,omitempty"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price,omitempty"`
}

// Specification is a generated bundle.
//
// Name, Description and Discount are filled from the model reply and stay nil
// when the reply does not carry them. Products, OriginalPrice and BundlePrice
// are owned by the caller; parsers leave them empty.
type Specification struct {
	Name          *string   `json:"name,omitempty"`
	Description   *string   `json:"description,omitempty"`
	Discount      *float64  `json:"discount,omitempty"`
	Products      []Product `json:"products"`
	OriginalPrice float64   `json:"originalPrice"`
	BundlePrice   float64   `json:"bundlePrice"`
}

func emptySpecification() Specification {
	return Specification{Products: []Product{}}
}
