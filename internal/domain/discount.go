package domain

import (
	"slices"
	"time"
)

// Discount type constants.
const (
	DiscountTypeProduct  = "product"
	DiscountTypeOrder    = "order"
	DiscountTypeShipping = "shipping"
	DiscountTypeBuyXGetY = "buy_x_get_y"
)

// Discount method constants.
const (
	DiscountMethodAutomatic = "automatic"
	DiscountMethodCode      = "code"
)

// Discount value type constants. Percentage values are basis points
// (2000 = 20%); fixed amounts are cents.
const (
	ValueTypePercentage   = "percentage"
	ValueTypeFixedAmount  = "fixed_amount"
	ValueTypeFreeShipping = "free_shipping"
)

// Customer selection constants.
const (
	CustomerSelectionAll       = "all"
	CustomerSelectionCustomers = "customers"
	CustomerSelectionGroups    = "groups"
)

// DiscountDefinition is a point-in-time snapshot of one discount as
// configured in the admin. The engine only reads it.
type DiscountDefinition struct {
	ID       string `json:"id"`
	ShopID   string `json:"shop_id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Method   string `json:"method"`
	Code     string `json:"code,omitempty"`

	ValueType string `json:"value_type"`
	Value     int64  `json:"value"`

	// Priority orders candidate evaluation (lower first). It does not break
	// best-amount ties; those keep the first candidate encountered.
	Priority int `json:"priority"`

	// Target scope. Empty slices mean "applies to all products".
	ProductIDs    []string `json:"product_ids"`
	CollectionIDs []string `json:"collection_ids"`

	BuyQuantity int `json:"buy_quantity,omitempty"`
	GetQuantity int `json:"get_quantity,omitempty"`

	// Usage caps; zero means unlimited.
	UsageLimit            int `json:"usage_limit,omitempty"`
	UsageLimitPerCustomer int `json:"usage_limit_per_customer,omitempty"`

	CustomerSelection string   `json:"customer_selection"`
	CustomerIDs       []string `json:"customer_ids,omitempty"`
	CustomerGroupIDs  []string `json:"customer_group_ids,omitempty"`

	StartsAt *time.Time `json:"starts_at,omitempty"`
	EndsAt   *time.Time `json:"ends_at,omitempty"`
	IsActive bool       `json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsWithinWindow reports whether the discount's active window covers the
// given instant. A missing bound is open-ended.
func (d *DiscountDefinition) IsWithinWindow(now time.Time) bool {
	if d.StartsAt != nil && now.Before(*d.StartsAt) {
		return false
	}
	if d.EndsAt != nil && now.After(*d.EndsAt) {
		return false
	}
	return true
}

// AppliesToProduct reports whether a line with the given product ID is in
// the discount's target scope. An empty product list applies to every
// product. Collection membership is not evaluated here; only direct product
// targeting is checked.
func (d *DiscountDefinition) AppliesToProduct(productID string) bool {
	if len(d.ProductIDs) == 0 {
		return true
	}
	return slices.Contains(d.ProductIDs, productID)
}

// IsEligibleForCustomer checks the discount's customer targeting against the
// cart's customer identity.
func (d *DiscountDefinition) IsEligibleForCustomer(customerID string, groupIDs []string) bool {
	switch d.CustomerSelection {
	case CustomerSelectionAll, "":
		return true
	case CustomerSelectionCustomers:
		return customerID != "" && slices.Contains(d.CustomerIDs, customerID)
	case CustomerSelectionGroups:
		for _, g := range groupIDs {
			if slices.Contains(d.CustomerGroupIDs, g) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
