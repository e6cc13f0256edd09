package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/wowstore/storefront/internal/retail"
	"github.com/wowstore/storefront/internal/storefront"
)

// FromStorefront maps a commerce product onto a catalog product. The
// retail id is the numeric tail of the global id. Currency is left to the
// retail client's configured default.
func FromStorefront(p storefront.Product) retail.CatalogProduct {
	out := retail.CatalogProduct{
		ID:          p.LegacyID(),
		Title:       p.Title,
		Description: p.Description,
		ProductType: p.ProductType,
		Vendor:      p.Vendor,
		Tags:        p.Tags,
		Available:   p.AvailableForSale,
		Images:      p.ImageURLs(),
	}
	if v, ok := p.FirstVariant(); ok && v.Price.Amount != "" {
		if price, err := decimal.NewFromString(v.Price.Amount); err == nil {
			out.Price = &price
		}
	}
	return out
}
