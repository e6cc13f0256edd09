package bundle

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// applyPricing fills the caller-owned fields of spec from the request products.
// Products without a price count as zero. A discount above 100 is not applied.
func applyPricing(spec *Specification, products []Product) {
	spec.Products = append([]Product{}, products...)

	total := decimal.Zero
	for _, p := range products {
		if p.Price != nil {
			total = total.Add(*p.Price)
		}
	}

	bundled := total
	if spec.Discount != nil && *spec.Discount <= 100 {
		off := decimal.NewFromFloat(*spec.Discount).Div(hundred)
		bundled = total.Mul(decimal.NewFromInt(1).Sub(off))
	}

	spec.OriginalPrice = total.Round(2).InexactFloat64()
	spec.BundlePrice = bundled.Round(2).InexactFloat64()
}
