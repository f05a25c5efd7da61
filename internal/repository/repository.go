package repository

import (
	"context"

	"github.com/vendra/pricing-service/internal/domain"
)

// DiscountRepository is the persistence interface for the discount catalog
// and its usage counters. The pricing engine only reads through it; usage
// counters are written by the order workflow when an order is placed.
type DiscountRepository interface {
	// FindActiveDiscounts returns the shop's active discount definitions in
	// ascending priority order. Code-method discounts are only included when
	// code matches exactly (case-sensitive).
	FindActiveDiscounts(ctx context.Context, shopID, code string) ([]domain.DiscountDefinition, error)

	// TotalUsageCount returns the number of recorded usages of a discount
	// across all customers.
	TotalUsageCount(ctx context.Context, discountID string) (int, error)

	// UsageCountForCustomer returns the number of recorded usages of a
	// discount by one customer.
	UsageCountForCustomer(ctx context.Context, discountID, customerID string) (int, error)
}
