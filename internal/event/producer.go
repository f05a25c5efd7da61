package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vendra/pricing-service/internal/domain"
	pkgkafka "github.com/vendra/pricing-service/pkg/kafka"
)

// Kafka topic constants for pricing domain events.
const (
	TopicCartPriced   = "ecommerce.pricing.cart_priced"
	TopicTotalClamped = "ecommerce.pricing.total_clamped"
)

// Aggregate type constant.
const AggregateTypeCartQuote = "cart_quote"

// Source identifier for events originating from the pricing service.
const SourcePricingService = "pricing-service"

// CartPricedData is the payload for a pricing.cart_priced event.
type CartPricedData struct {
	QuoteID        string `json:"quote_id"`
	ShopID         string `json:"shop_id"`
	CustomerID     string `json:"customer_id,omitempty"`
	DiscountCode   string `json:"discount_code,omitempty"`
	LineCount      int    `json:"line_count"`
	Subtotal       int64  `json:"subtotal"`
	TotalDiscount  int64  `json:"total_discount"`
	ShippingAmount int64  `json:"shipping_amount"`
	Total          int64  `json:"total"`
}

// TotalClampedData is the payload for a pricing.total_clamped event.
type TotalClampedData struct {
	QuoteID      string `json:"quote_id"`
	ShopID       string `json:"shop_id"`
	RawTotal     int64  `json:"raw_total"`
	ClampedTotal int64  `json:"clamped_total"`
}

// Producer publishes pricing domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the pricing service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartPriced publishes a pricing.cart_priced event.
func (p *Producer) PublishCartPriced(ctx context.Context, quoteID string, cart *domain.Cart, result *domain.CartResult) error {
	data := CartPricedData{
		QuoteID:        quoteID,
		ShopID:         cart.ShopID,
		CustomerID:     cart.CustomerID,
		DiscountCode:   result.DiscountCode,
		LineCount:      len(result.Lines),
		Subtotal:       result.Subtotal,
		TotalDiscount:  result.TotalDiscounts,
		ShippingAmount: result.ShippingAmount,
		Total:          result.Total,
	}

	event, err := pkgkafka.NewEvent(TopicCartPriced, quoteID, AggregateTypeCartQuote, SourcePricingService, data)
	if err != nil {
		return fmt.Errorf("create pricing.cart_priced event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartPriced, event); err != nil {
		return fmt.Errorf("publish pricing.cart_priced event: %w", err)
	}

	p.logger.DebugContext(ctx, "published pricing.cart_priced event",
		slog.String("quote_id", quoteID),
		slog.String("shop_id", cart.ShopID),
		slog.Int64("total", result.Total),
	)

	return nil
}

// PublishTotalClamped publishes a pricing.total_clamped event.
func (p *Producer) PublishTotalClamped(ctx context.Context, quoteID, shopID string, rawTotal int64) error {
	data := TotalClampedData{
		QuoteID:      quoteID,
		ShopID:       shopID,
		RawTotal:     rawTotal,
		ClampedTotal: 0,
	}

	event, err := pkgkafka.NewEvent(TopicTotalClamped, quoteID, AggregateTypeCartQuote, SourcePricingService, data)
	if err != nil {
		return fmt.Errorf("create pricing.total_clamped event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicTotalClamped, event); err != nil {
		return fmt.Errorf("publish pricing.total_clamped event: %w", err)
	}

	p.logger.WarnContext(ctx, "published pricing.total_clamped event",
		slog.String("quote_id", quoteID),
		slog.String("shop_id", shopID),
		slog.Int64("raw_total", rawTotal),
	)

	return nil
}
