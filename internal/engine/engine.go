package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vendra/pricing-service/internal/domain"
)

// CatalogSource supplies discount definitions and usage counters. The engine
// only reads; usage counters are incremented elsewhere, at order placement.
type CatalogSource interface {
	// FindActiveDiscounts returns the shop's active discount definitions in
	// ascending priority order. Code-method discounts are only returned when
	// the given code matches exactly.
	FindActiveDiscounts(ctx context.Context, shopID, code string) ([]domain.DiscountDefinition, error)

	// TotalUsageCount returns how many times the discount has been used
	// across all customers.
	TotalUsageCount(ctx context.Context, discountID string) (int, error)

	// UsageCountForCustomer returns how many times the given customer has
	// used the discount.
	UsageCountForCustomer(ctx context.Context, discountID, customerID string) (int, error)
}

// ClampObserver is notified when a computed cart total came out negative and
// was floored at zero. The deficit is the absolute value of the pre-clamp
// total. This indicates a misconfigured discount stack; the engine clamps
// rather than failing so checkout stays available.
type ClampObserver func(ctx context.Context, cart *domain.Cart, deficit int64)

// Engine evaluates a shop's active discounts against a cart and produces a
// priced result. It is stateless across calls and safe for concurrent use.
type Engine struct {
	catalog CatalogSource
	logger  *slog.Logger
	now     func() time.Time
	onClamp ClampObserver
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source used for active-window checks.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithClampObserver registers a callback for negative-total clamps.
func WithClampObserver(fn ClampObserver) Option {
	return func(e *Engine) { e.onClamp = fn }
}

// New creates a pricing engine over the given catalog.
func New(catalog CatalogSource, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		catalog: catalog,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Calculate prices the cart against the currently eligible discounts.
//
// Stages run strictly forward: candidate loading, per-line product
// discounts, buy-X-get-Y, order discount, shipping discount, aggregation.
// A cart with no lines short-circuits to an empty result without touching
// the catalog.
func (e *Engine) Calculate(ctx context.Context, cart *domain.Cart) (*domain.CartResult, error) {
	start := time.Now()

	if len(cart.Lines) == 0 {
		calculationsTotal.WithLabelValues(outcomeEmpty).Inc()
		return domain.EmptyCartResult(cart.DiscountCode), nil
	}

	candidates, err := e.loadCandidates(ctx, cart)
	if err != nil {
		calculationsTotal.WithLabelValues(outcomeError).Inc()
		return nil, fmt.Errorf("load discount candidates: %w", err)
	}

	byType := splitByType(candidates)

	lines := make([]*domain.CartLineResult, len(cart.Lines))
	for i, line := range cart.Lines {
		lines[i] = domain.NewCartLineResult(line)
	}

	applyProductDiscounts(lines, byType[domain.DiscountTypeProduct])
	applyBuyXGetY(lines, byType[domain.DiscountTypeBuyXGetY])

	var subtotal, productDiscountTotal int64
	for _, lr := range lines {
		subtotal += lr.LineSubtotal
		productDiscountTotal += lr.LineDiscount
	}

	orderAlloc := bestOrderDiscount(subtotal-productDiscountTotal, byType[domain.DiscountTypeOrder])
	shippingAlloc := bestShippingDiscount(cart.ShippingAmount, byType[domain.DiscountTypeShipping])

	result := e.aggregate(ctx, cart, lines, subtotal, productDiscountTotal, orderAlloc, shippingAlloc)

	calculationsTotal.WithLabelValues(outcomeOK).Inc()
	calculationDuration.Observe(time.Since(start).Seconds())

	return result, nil
}

// aggregate combines the stage outputs into the final result and enforces
// the totals invariants.
func (e *Engine) aggregate(
	ctx context.Context,
	cart *domain.Cart,
	lines []*domain.CartLineResult,
	subtotal, productDiscountTotal int64,
	orderAlloc, shippingAlloc *domain.DiscountAllocation,
) *domain.CartResult {
	result := &domain.CartResult{
		Lines:                lines,
		Subtotal:             subtotal,
		ProductDiscountTotal: productDiscountTotal,
		ShippingAmount:       cart.ShippingAmount,
		AppliedDiscounts:     []domain.DiscountAllocation{},
		DiscountCode:         cart.DiscountCode,
	}

	// Allocation ordering: line allocations in line order, then the order
	// allocation, then the shipping allocation.
	for _, lr := range lines {
		for _, a := range lr.Allocations {
			result.AppliedDiscounts = append(result.AppliedDiscounts, a)
			allocationsTotal.WithLabelValues(a.Type).Inc()
		}
	}

	if orderAlloc != nil {
		result.OrderDiscountTotal = orderAlloc.Amount
		result.AppliedDiscounts = append(result.AppliedDiscounts, *orderAlloc)
		allocationsTotal.WithLabelValues(domain.DiscountTypeOrder).Inc()
	}

	if shippingAlloc != nil {
		result.ShippingDiscountTotal = shippingAlloc.Amount
		result.AppliedDiscounts = append(result.AppliedDiscounts, *shippingAlloc)
		allocationsTotal.WithLabelValues(domain.DiscountTypeShipping).Inc()
	}

	result.TotalDiscounts = result.ProductDiscountTotal + result.OrderDiscountTotal + result.ShippingDiscountTotal

	total := result.Subtotal + result.ShippingAmount - result.TotalDiscounts
	if total < 0 {
		deficit := -total
		negativeTotalClamps.Inc()
		e.logger.WarnContext(ctx, "negative cart total clamped to zero",
			slog.String("shop_id", cart.ShopID),
			slog.Int64("subtotal", result.Subtotal),
			slog.Int64("total_discounts", result.TotalDiscounts),
			slog.Int64("deficit", deficit),
		)
		if e.onClamp != nil {
			e.onClamp(ctx, cart, deficit)
		}
		total = 0
	}
	result.Total = total

	return result
}

// splitByType buckets candidates by discount type, preserving order.
func splitByType(defs []domain.DiscountDefinition) map[string][]domain.DiscountDefinition {
	out := make(map[string][]domain.DiscountDefinition, 4)
	for _, d := range defs {
		out[d.Type] = append(out[d.Type], d)
	}
	return out
}
