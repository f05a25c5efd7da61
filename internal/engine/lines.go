package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/vendra/pricing-service/internal/domain"
)

// percentAmount computes a basis-point percentage of a cent amount, rounded
// half away from zero to the nearest cent.
func percentAmount(base, valueBps int64) int64 {
	return int64(math.Round(float64(base) * float64(valueBps) / 10000.0))
}

// lineDiscountAmount computes the candidate amount of a product discount
// against a line subtotal. Unsupported value types contribute nothing.
func lineDiscountAmount(d *domain.DiscountDefinition, lineSubtotal int64) int64 {
	switch d.ValueType {
	case domain.ValueTypePercentage:
		return percentAmount(lineSubtotal, d.Value)
	case domain.ValueTypeFixedAmount:
		return min(d.Value, lineSubtotal)
	default:
		return 0
	}
}

// applyProductDiscounts applies at most one product discount per line: the
// one with the strictly largest amount, first candidate winning ties.
// Product discounts do not stack with each other.
func applyProductDiscounts(lines []*domain.CartLineResult, discounts []domain.DiscountDefinition) {
	for _, lr := range lines {
		var (
			bestAmount int64
			best       *domain.DiscountDefinition
		)

		for i := range discounts {
			d := &discounts[i]
			if !d.AppliesToProduct(lr.ProductID) {
				continue
			}
			if amount := lineDiscountAmount(d, lr.LineSubtotal); amount > bestAmount {
				bestAmount = amount
				best = d
			}
		}

		if best == nil {
			continue
		}

		lr.Apply(domain.DiscountAllocation{
			DiscountID: best.ID,
			Name:       best.Name,
			Type:       best.Type,
			Method:     best.Method,
			Amount:     bestAmount,
		})
	}
}

// flatUnit is one physical unit of a line, used for buy-X-get-Y selection.
type flatUnit struct {
	lineIndex int
	unitPrice int64
}

// applyBuyXGetY evaluates each buy-X-get-Y promotion across the whole cart.
// Every promotion independently flattens the original line quantities: the
// cheapest sets*get units become free, each producing an allocation on its
// line. Overlapping promotions therefore stack and can discount the same
// physical unit more than once; that mirrors the source system.
func applyBuyXGetY(lines []*domain.CartLineResult, discounts []domain.DiscountDefinition) {
	var totalQty int
	for _, lr := range lines {
		totalQty += lr.Quantity
	}

	for i := range discounts {
		d := &discounts[i]
		if d.BuyQuantity <= 0 || d.GetQuantity <= 0 {
			continue
		}

		sets := totalQty / (d.BuyQuantity + d.GetQuantity)
		if sets <= 0 {
			continue
		}

		units := make([]flatUnit, 0, totalQty)
		for li, lr := range lines {
			for q := 0; q < lr.Quantity; q++ {
				units = append(units, flatUnit{lineIndex: li, unitPrice: lr.UnitPrice})
			}
		}

		// Cheapest units become the free ones. The stable sort keeps equal
		// prices in line order, so ties resolve to the earliest line.
		sort.SliceStable(units, func(a, b int) bool {
			return units[a].unitPrice < units[b].unitPrice
		})

		free := sets * d.GetQuantity
		if free > len(units) {
			free = len(units)
		}

		for _, u := range units[:free] {
			lines[u.lineIndex].Apply(domain.DiscountAllocation{
				DiscountID:  d.ID,
				Name:        d.Name,
				Type:        d.Type,
				Method:      d.Method,
				Amount:      u.unitPrice,
				Description: fmt.Sprintf("buy %d get %d free", d.BuyQuantity, d.GetQuantity),
			})
		}
	}
}
