package domain

// DiscountAllocation is a receipt attributing a discount amount to one
// scope (a line, the order, or shipping). Immutable once created.
type DiscountAllocation struct {
	DiscountID  string `json:"discount_id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Method      string `json:"method"`
	Amount      int64  `json:"amount"`
	Description string `json:"description,omitempty"`
}

// CartLineResult is the priced outcome of one cart line. LineSubtotal is
// fixed at construction; LineDiscount only grows as product and
// buy-X-get-Y allocations are applied, and LineTotal is recomputed after
// each application.
type CartLineResult struct {
	ProductID    string               `json:"product_id"`
	VariantID    string               `json:"variant_id,omitempty"`
	Name         string               `json:"name"`
	Quantity     int                  `json:"quantity"`
	UnitPrice    int64                `json:"unit_price"`
	LineSubtotal int64                `json:"line_subtotal"`
	LineDiscount int64                `json:"line_discount"`
	LineTotal    int64                `json:"line_total"`
	Allocations  []DiscountAllocation `json:"discount_allocations"`
}

// NewCartLineResult starts a line result with no discounts applied.
func NewCartLineResult(line CartLine) *CartLineResult {
	subtotal := line.Subtotal()
	return &CartLineResult{
		ProductID:    line.ProductID,
		VariantID:    line.VariantID,
		Name:         line.Name,
		Quantity:     line.Quantity,
		UnitPrice:    line.UnitPrice,
		LineSubtotal: subtotal,
		LineTotal:    subtotal,
		Allocations:  []DiscountAllocation{},
	}
}

// Apply records an allocation against the line, growing the discount
// accumulator and recomputing the line total.
func (lr *CartLineResult) Apply(a DiscountAllocation) {
	lr.LineDiscount += a.Amount
	lr.LineTotal = lr.LineSubtotal - lr.LineDiscount
	lr.Allocations = append(lr.Allocations, a)
}

// CartResult is the final priced cart.
type CartResult struct {
	Lines []*CartLineResult `json:"lines"`

	Subtotal              int64 `json:"subtotal"`
	ProductDiscountTotal  int64 `json:"product_discount_total"`
	OrderDiscountTotal    int64 `json:"order_discount_total"`
	ShippingAmount        int64 `json:"shipping_amount"`
	ShippingDiscountTotal int64 `json:"shipping_discount_total"`
	TotalDiscounts        int64 `json:"total_discounts"`
	Total                 int64 `json:"total"`

	AppliedDiscounts []DiscountAllocation `json:"applied_discounts"`

	DiscountCode string `json:"discount_code,omitempty"`
	// DiscountCodeError is reserved for the caller: the engine never writes
	// it. The checkout layer sets it when a supplied code turned out to be
	// unknown or not applicable.
	DiscountCodeError string `json:"discount_code_error,omitempty"`
}

// EmptyCartResult is the short-circuit result for a cart with no lines.
func EmptyCartResult(discountCode string) *CartResult {
	return &CartResult{
		Lines:            []*CartLineResult{},
		AppliedDiscounts: []DiscountAllocation{},
		DiscountCode:     discountCode,
	}
}
