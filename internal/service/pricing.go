package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/vendra/pricing-service/internal/domain"
	"github.com/vendra/pricing-service/internal/engine"
	"github.com/vendra/pricing-service/internal/event"
	"github.com/vendra/pricing-service/internal/repository"
	apperrors "github.com/vendra/pricing-service/pkg/errors"
)

type quoteIDKey struct{}

// PricingService implements the business logic for pricing a cart.
type PricingService struct {
	catalog  repository.DiscountRepository
	engine   *engine.Engine
	producer *event.Producer
	logger   *slog.Logger
}

// NewPricingService creates a new pricing service. The engine is constructed
// here so its clamp observer can publish clamp events with the quote ID of
// the request being priced.
func NewPricingService(catalog repository.DiscountRepository, producer *event.Producer, logger *slog.Logger, opts ...engine.Option) *PricingService {
	s := &PricingService{
		catalog:  catalog,
		producer: producer,
		logger:   logger,
	}
	opts = append(opts, engine.WithClampObserver(s.onTotalClamped))
	s.engine = engine.New(catalog, logger, opts...)
	return s
}

// LineInput is one cart line in a pricing request.
type LineInput struct {
	ProductID string
	VariantID string
	Name      string
	Quantity  int
	UnitPrice int64
}

// PriceCartInput holds the parameters for pricing a cart.
type PriceCartInput struct {
	ShopID           string
	Lines            []LineInput
	ShippingAmount   int64
	DiscountCode     string
	CustomerID       string
	CustomerGroupIDs []string
}

// PriceCart evaluates the shop's discounts against the cart and returns the
// priced result together with the quote ID assigned to it.
func (s *PricingService) PriceCart(ctx context.Context, input *PriceCartInput) (string, *domain.CartResult, error) {
	cart := &domain.Cart{
		ShopID:           input.ShopID,
		ShippingAmount:   input.ShippingAmount,
		DiscountCode:     input.DiscountCode,
		CustomerID:       input.CustomerID,
		CustomerGroupIDs: input.CustomerGroupIDs,
		Lines:            make([]domain.CartLine, 0, len(input.Lines)),
	}
	for _, l := range input.Lines {
		cart.Lines = append(cart.Lines, domain.CartLine{
			ProductID: l.ProductID,
			VariantID: l.VariantID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}

	if err := cart.Validate(); err != nil {
		return "", nil, apperrors.InvalidInput(err.Error())
	}

	quoteID := uuid.New().String()
	ctx = context.WithValue(ctx, quoteIDKey{}, quoteID)

	result, err := s.engine.Calculate(ctx, cart)
	if err != nil {
		// The engine only fails on catalog reads, so a failure here means the
		// catalog dependency is down, not that the request was bad.
		s.logger.ErrorContext(ctx, "discount catalog read failed",
			slog.String("shop_id", cart.ShopID),
			slog.String("error", err.Error()),
		)
		return "", nil, apperrors.Unavailable("discount catalog unavailable")
	}

	if cart.DiscountCode != "" && !hasCodeAllocation(result) {
		result.DiscountCodeError = "discount code is not valid or not applicable to this cart"
	}

	s.logger.InfoContext(ctx, "cart priced",
		slog.String("quote_id", quoteID),
		slog.String("shop_id", cart.ShopID),
		slog.Int("line_count", len(result.Lines)),
		slog.Int64("subtotal", result.Subtotal),
		slog.Int64("total_discounts", result.TotalDiscounts),
		slog.Int64("total", result.Total),
	)

	// Event delivery is best effort; a broker outage must not block pricing.
	if err := s.producer.PublishCartPriced(ctx, quoteID, cart, result); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart priced event",
			slog.String("quote_id", quoteID),
			slog.String("error", err.Error()),
		)
	}

	return quoteID, result, nil
}

// hasCodeAllocation reports whether any applied discount came from a code.
func hasCodeAllocation(result *domain.CartResult) bool {
	for _, a := range result.AppliedDiscounts {
		if a.Method == domain.DiscountMethodCode {
			return true
		}
	}
	return false
}

func (s *PricingService) onTotalClamped(ctx context.Context, cart *domain.Cart, deficit int64) {
	quoteID, _ := ctx.Value(quoteIDKey{}).(string)

	if err := s.producer.PublishTotalClamped(ctx, quoteID, cart.ShopID, -deficit); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish total clamped event",
			slog.String("quote_id", quoteID),
			slog.String("error", err.Error()),
		)
	}
}
