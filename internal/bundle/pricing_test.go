package bundle

import (
	"testing"

	"github.com/shopspring/decimal"
)

func pricePtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestApplyPricing(t *testing.T) {
	products := []Product{
		{Title: "A", Price: pricePtr("19.99")},
		{Title: "B", Price: pricePtr("5.01")},
		{Title: "C"},
	}

	tests := []struct {
		name         string
		discount     *float64
		wantOriginal float64
		wantBundle   float64
	}{
		{"no discount", nil, 25.00, 25.00},
		{"fifteen percent", floatPtr(15), 25.00, 21.25},
		{"rounds to cents", floatPtr(33.3), 25.00, 16.68},
		{"zero discount", floatPtr(0), 25.00, 25.00},
		{"full discount", floatPtr(100), 25.00, 0},
		{"discount over 100 is ignored", floatPtr(150), 25.00, 25.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := emptySpecification()
			spec.Discount = tt.discount
			applyPricing(&spec, products)

			if spec.OriginalPrice != tt.wantOriginal {
				t.Errorf("OriginalPrice = %v, want %v", spec.OriginalPrice, tt.wantOriginal)
			}
			if spec.BundlePrice != tt.wantBundle {
				t.Errorf("BundlePrice = %v, want %v", spec.BundlePrice, tt.wantBundle)
			}
			if len(spec.Products) != len(products) {
				t.Errorf("Products = %d, want %d", len(spec.Products), len(products))
			}
		})
	}

	t.Run("no prices", func(t *testing.T) {
		spec := emptySpecification()
		spec.Discount = floatPtr(10)
		applyPricing(&spec, []Product{{Title: "A"}})

		if spec.OriginalPrice != 0 || spec.BundlePrice != 0 {
			t.Errorf("prices = %v/%v, want 0/0", spec.OriginalPrice, spec.BundlePrice)
		}
	})
}
