package http

import (
	"log/slog"
	"net/http"

	"github.com/vendra/pricing-service/internal/domain"
	"github.com/vendra/pricing-service/internal/service"
	"github.com/vendra/pricing-service/pkg/httputil"
	"github.com/vendra/pricing-service/pkg/validator"
)

// PricingHandler handles HTTP requests for pricing endpoints.
type PricingHandler struct {
	service *service.PricingService
	logger  *slog.Logger
}

// NewPricingHandler creates a new pricing HTTP handler.
func NewPricingHandler(svc *service.PricingService, logger *slog.Logger) *PricingHandler {
	return &PricingHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CartLineRequest is one cart line in a pricing request body.
type CartLineRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	VariantID string `json:"variant_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
	UnitPrice int64  `json:"unit_price" validate:"gte=0"`
}

// PriceCartRequest is the JSON request body for pricing a cart.
type PriceCartRequest struct {
	ShopID           string            `json:"shop_id" validate:"required"`
	Lines            []CartLineRequest `json:"lines" validate:"dive"`
	ShippingAmount   int64             `json:"shipping_amount" validate:"gte=0"`
	DiscountCode     string            `json:"discount_code" validate:"max=64"`
	CustomerID       string            `json:"customer_id"`
	CustomerGroupIDs []string          `json:"customer_group_ids"`
}

// PriceCartResponse wraps the priced result with its quote ID.
type PriceCartResponse struct {
	QuoteID string             `json:"quote_id"`
	Result  *domain.CartResult `json:"result"`
}

// --- Handlers ---

// PriceCart handles POST /api/v1/pricing/quote
func (h *PricingHandler) PriceCart(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	var req PriceCartRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := &service.PriceCartInput{
		ShopID:           req.ShopID,
		ShippingAmount:   req.ShippingAmount,
		DiscountCode:     req.DiscountCode,
		CustomerID:       req.CustomerID,
		CustomerGroupIDs: req.CustomerGroupIDs,
		Lines:            make([]service.LineInput, 0, len(req.Lines)),
	}
	for _, l := range req.Lines {
		input.Lines = append(input.Lines, service.LineInput{
			ProductID: l.ProductID,
			VariantID: l.VariantID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}

	quoteID, result, err := h.service.PriceCart(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: PriceCartResponse{
		QuoteID: quoteID,
		Result:  result,
	}})
}
