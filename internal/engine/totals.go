package engine

import (
	"github.com/vendra/pricing-service/internal/domain"
)

// bestOrderDiscount picks the single order-level discount producing the
// largest amount against the post-product-discount subtotal. Order discounts
// never stack. Returns nil when nothing yields a positive amount.
func bestOrderDiscount(subtotalAfterProducts int64, discounts []domain.DiscountDefinition) *domain.DiscountAllocation {
	var (
		bestAmount int64
		best       *domain.DiscountDefinition
	)

	for i := range discounts {
		d := &discounts[i]

		var amount int64
		switch d.ValueType {
		case domain.ValueTypePercentage:
			amount = percentAmount(subtotalAfterProducts, d.Value)
		case domain.ValueTypeFixedAmount:
			amount = min(d.Value, subtotalAfterProducts)
		}

		if amount > bestAmount {
			bestAmount = amount
			best = d
		}
	}

	if best == nil {
		return nil
	}

	return &domain.DiscountAllocation{
		DiscountID: best.ID,
		Name:       best.Name,
		Type:       best.Type,
		Method:     best.Method,
		Amount:     bestAmount,
	}
}

// bestShippingDiscount picks the single best shipping discount. The stage is
// skipped entirely when there is nothing to discount.
func bestShippingDiscount(shippingAmount int64, discounts []domain.DiscountDefinition) *domain.DiscountAllocation {
	if shippingAmount <= 0 || len(discounts) == 0 {
		return nil
	}

	var (
		bestAmount int64
		best       *domain.DiscountDefinition
	)

	for i := range discounts {
		d := &discounts[i]

		var amount int64
		switch d.ValueType {
		case domain.ValueTypeFreeShipping:
			amount = shippingAmount
		case domain.ValueTypePercentage:
			amount = percentAmount(shippingAmount, d.Value)
		case domain.ValueTypeFixedAmount:
			amount = min(d.Value, shippingAmount)
		}

		if amount > bestAmount {
			bestAmount = amount
			best = d
		}
	}

	if best == nil {
		return nil
	}

	return &domain.DiscountAllocation{
		DiscountID: best.ID,
		Name:       best.Name,
		Type:       best.Type,
		Method:     best.Method,
		Amount:     bestAmount,
	}
}
