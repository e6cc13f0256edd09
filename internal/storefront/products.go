package storefront

import (
	"context"
	"fmt"
	"strings"
)

// MaxPageSize is the largest page the Storefront API serves.
const MaxPageSize = 250

const productsQuery = `query Products($first: Int!, $after: String) {
  products(first: $first, after: $after) {
    pageInfo { hasNextPage endCursor }
    nodes {
      id
      handle
      title
      description
      productType
      vendor
      tags
      availableForSale
      images(first: 10) { nodes { url } }
      variants(first: 1) { nodes { id price { amount currencyCode } } }
    }
  }
}`

// Money is a decimal amount as the API renders it.
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// Variant is a purchasable product variant.
type Variant struct {
	ID    string `json:"id"`
	Price Money  `json:"price"`
}

// Product is the subset of a Storefront product consumed here.
type Product struct {
	ID               string   `json:"id"`
	Handle           string   `json:"handle"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	ProductType      string   `json:"productType"`
	Vendor           string   `json:"vendor"`
	Tags             []string `json:"tags"`
	AvailableForSale bool     `json:"availableForSale"`
	Images           struct {
		Nodes []struct {
			URL string `json:"url"`
		} `json:"nodes"`
	} `json:"images"`
	Variants struct {
		Nodes []Variant `json:"nodes"`
	} `json:"variants"`
}

// LegacyID returns the trailing numeric part of a global ID such as
// gid://shopify/Product/8837421.
func (p Product) LegacyID() string {
	if i := strings.LastIndex(p.ID, "/"); i >= 0 {
		return p.ID[i+1:]
	}
	return p.ID
}

// FirstVariant returns the first variant, if any.
func (p Product) FirstVariant() (Variant, bool) {
	if len(p.Variants.Nodes) == 0 {
		return Variant{}, false
	}
	return p.Variants.Nodes[0], true
}

// ImageURLs lists the product image URLs.
func (p Product) ImageURLs() []string {
	urls := make([]string, 0, len(p.Images.Nodes))
	for _, n := range p.Images.Nodes {
		urls = append(urls, n.URL)
	}
	return urls
}

// ProductPage is one page of products.
type ProductPage struct {
	Products    []Product
	HasNextPage bool
	EndCursor   string
}

// Products fetches one page of products after cursor.
func (c *Client) Products(ctx context.Context, first int, after string) (*ProductPage, error) {
	if first <= 0 || first > MaxPageSize {
		first = MaxPageSize
	}
	vars := map[string]any{"first": first}
	if after != "" {
		vars["after"] = after
	}

	var data struct {
		Products struct {
			PageInfo struct {
				HasNextPage bool   `json:"hasNextPage"`
				EndCursor   string `json:"endCursor"`
			} `json:"pageInfo"`
			Nodes []Product `json:"nodes"`
		} `json:"products"`
	}
	if err := c.query(ctx, productsQuery, vars, &data); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return &ProductPage{
		Products:    data.Products.Nodes,
		HasNextPage: data.Products.PageInfo.HasNextPage,
		EndCursor:   data.Products.PageInfo.EndCursor,
	}, nil
}
