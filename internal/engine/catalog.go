package engine

import (
	"context"
	"fmt"

	"github.com/vendra/pricing-service/internal/domain"
)

// loadCandidates returns the cart's eligible discount definitions in catalog
// (ascending priority) order. The catalog query already restricts to the
// shop's active rows and matches the code in SQL; the window, method, usage
// limit and customer targeting checks are re-applied here so the filter is
// deterministic against whatever snapshot the source returns.
func (e *Engine) loadCandidates(ctx context.Context, cart *domain.Cart) ([]domain.DiscountDefinition, error) {
	defs, err := e.catalog.FindActiveDiscounts(ctx, cart.ShopID, cart.DiscountCode)
	if err != nil {
		return nil, fmt.Errorf("find active discounts: %w", err)
	}

	now := e.now()
	candidates := make([]domain.DiscountDefinition, 0, len(defs))

	for _, d := range defs {
		if !d.IsActive || !d.IsWithinWindow(now) {
			continue
		}

		switch d.Method {
		case domain.DiscountMethodAutomatic:
			// Always a candidate.
		case domain.DiscountMethodCode:
			// No code supplied excludes code discounts outright. Matching is
			// case-sensitive and exact; the engine performs no normalization.
			if cart.DiscountCode == "" || d.Code != cart.DiscountCode {
				continue
			}
		default:
			continue
		}

		ok, err := e.underUsageLimits(ctx, &d, cart.CustomerID)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		if !d.IsEligibleForCustomer(cart.CustomerID, cart.CustomerGroupIDs) {
			continue
		}

		candidates = append(candidates, d)
	}

	return candidates, nil
}

// underUsageLimits checks the global and per-customer usage caps. The
// per-customer cap is only checked when a customer identity is present.
func (e *Engine) underUsageLimits(ctx context.Context, d *domain.DiscountDefinition, customerID string) (bool, error) {
	if d.UsageLimit > 0 {
		used, err := e.catalog.TotalUsageCount(ctx, d.ID)
		if err != nil {
			return false, fmt.Errorf("total usage count for discount %s: %w", d.ID, err)
		}
		if used >= d.UsageLimit {
			return false, nil
		}
	}

	if d.UsageLimitPerCustomer > 0 && customerID != "" {
		used, err := e.catalog.UsageCountForCustomer(ctx, d.ID, customerID)
		if err != nil {
			return false, fmt.Errorf("customer usage count for discount %s: %w", d.ID, err)
		}
		if used >= d.UsageLimitPerCustomer {
			return false, nil
		}
	}

	return true, nil
}
