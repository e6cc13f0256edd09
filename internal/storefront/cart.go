package storefront

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyCart is returned when a cart is requested without lines.
var ErrEmptyCart = errors.New("lines are required")

const cartCreateMutation = `mutation CartCreate($input: CartInput!) {
  cartCreate(input: $input) {
    cart { id checkoutUrl }
    userErrors { field message }
  }
}`

// CartLine is one merchandise line to add to a new cart.
type CartLine struct {
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}

// Cart is a created cart.
type Cart struct {
	ID          string `json:"id"`
	CheckoutURL string `json:"checkoutUrl"`
}

// ValidateLines checks lines are non-empty with merchandise ids. Zero
// quantities default to one.
func ValidateLines(lines []CartLine) ([]CartLine, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	out := make([]CartLine, 0, len(lines))
	for i, l := range lines {
		if strings.TrimSpace(l.MerchandiseID) == "" {
			return nil, fmt.Errorf("%w: line %d has no merchandiseId", ErrEmptyCart, i)
		}
		if l.Quantity < 0 {
			return nil, fmt.Errorf("%w: line %d has negative quantity", ErrEmptyCart, i)
		}
		if l.Quantity == 0 {
			l.Quantity = 1
		}
		out = append(out, l)
	}
	return out, nil
}

// CartCreate creates a cart holding lines and returns its checkout URL.
func (c *Client) CartCreate(ctx context.Context, lines []CartLine) (*Cart, error) {
	lines, err := ValidateLines(lines)
	if err != nil {
		return nil, err
	}

	input := make([]map[string]any, 0, len(lines))
	for _, l := range lines {
		input = append(input, map[string]any{
			"merchandiseId": l.MerchandiseID,
			"quantity":      l.Quantity,
		})
	}

	var data struct {
		CartCreate struct {
			Cart       *Cart `json:"cart"`
			UserErrors []struct {
				Field   []string `json:"field"`
				Message string   `json:"message"`
			} `json:"userErrors"`
		} `json:"cartCreate"`
	}
	err = c.query(ctx, cartCreateMutation, map[string]any{"input": map[string]any{"lines": input}}, &data)
	if err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	if ue := data.CartCreate.UserErrors; len(ue) > 0 {
		return nil, fmt.Errorf("cart rejected: %s", ue[0].Message)
	}
	if data.CartCreate.Cart == nil {
		return nil, fmt.Errorf("cart create returned no cart")
	}
	return data.CartCreate.Cart, nil
}
