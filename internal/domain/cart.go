package domain

import "fmt"

// Cart is the pricing input: the lines, shipping cost and discount context of
// one checkout. All monetary values are int64 cents. The engine never
// mutates a cart.
type Cart struct {
	ShopID           string     `json:"shop_id"`
	Lines            []CartLine `json:"lines"`
	ShippingAmount   int64      `json:"shipping_amount"`
	DiscountCode     string     `json:"discount_code,omitempty"`
	CustomerID       string     `json:"customer_id,omitempty"`
	CustomerGroupIDs []string   `json:"customer_group_ids,omitempty"`
}

// CartLine is one product (and optional variant) with a quantity and unit
// price, prior to any discount.
type CartLine struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id,omitempty"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// Subtotal returns quantity times unit price in cents.
func (l CartLine) Subtotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// Validate checks the cart invariants: a resolvable shop, quantity >= 1 on
// every line and non-negative amounts. Lines may be empty.
func (c *Cart) Validate() error {
	if c.ShopID == "" {
		return fmt.Errorf("shop id is required")
	}
	if c.ShippingAmount < 0 {
		return fmt.Errorf("shipping amount must not be negative")
	}
	for i, line := range c.Lines {
		if line.ProductID == "" {
			return fmt.Errorf("line %d: product id is required", i)
		}
		if line.Quantity < 1 {
			return fmt.Errorf("line %d: quantity must be at least 1", i)
		}
		if line.UnitPrice < 0 {
			return fmt.Errorf("line %d: unit price must not be negative", i)
		}
	}
	return nil
}

// TotalQuantity returns the total unit count across all lines.
func (c *Cart) TotalQuantity() int {
	var total int
	for _, line := range c.Lines {
		total += line.Quantity
	}
	return total
}
