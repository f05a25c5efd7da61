package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vendra/pricing-service/internal/domain"
	"github.com/vendra/pricing-service/internal/event"
	"github.com/vendra/pricing-service/internal/service"
	pkgkafka "github.com/vendra/pricing-service/pkg/kafka"
)

// ============================================================================
// Mock repository
// ============================================================================

type mockDiscountRepository struct {
	mock.Mock
}

func (m *mockDiscountRepository) FindActiveDiscounts(ctx context.Context, shopID, code string) ([]domain.DiscountDefinition, error) {
	args := m.Called(ctx, shopID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DiscountDefinition), args.Error(1)
}

func (m *mockDiscountRepository) TotalUsageCount(ctx context.Context, discountID string) (int, error) {
	args := m.Called(ctx, discountID)
	return args.Int(0), args.Error(1)
}

func (m *mockDiscountRepository) UsageCountForCustomer(ctx context.Context, discountID, customerID string) (int, error) {
	args := m.Called(ctx, discountID, customerID)
	return args.Int(0), args.Error(1)
}

// ============================================================================
// Test helpers
// ============================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testEventProducer() *event.Producer {
	logger := testLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	kafkaProducer := pkgkafka.NewProducer(kafkaCfg, logger)
	return event.NewProducer(kafkaProducer, logger)
}

func testPricingHandler(repo *mockDiscountRepository) *PricingHandler {
	svc := service.NewPricingService(repo, testEventProducer(), testLogger())
	return NewPricingHandler(svc, testLogger())
}

// setupPricingRouter creates a chi router matching production route layout.
func setupPricingRouter(handler *PricingHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api/v1/pricing", func(r chi.Router) {
		r.Post("/quote", handler.PriceCart)
	})
	return r
}

func validPriceCartJSON() []byte {
	req := PriceCartRequest{
		ShopID: "shop-1",
		Lines: []CartLineRequest{
			{ProductID: "prod-1", Name: "Mug", Quantity: 2, UnitPrice: 1500},
			{ProductID: "prod-2", Name: "Shirt", Quantity: 1, UnitPrice: 4000},
		},
		ShippingAmount: 500,
	}
	body, _ := json.Marshal(req)
	return body
}

func postQuote(t *testing.T, router *chi.Mux, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pricing/quote", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// ============================================================================
// Tests
// ============================================================================

func TestPriceCart_Success(t *testing.T) {
	repo := new(mockDiscountRepository)
	router := setupPricingRouter(testPricingHandler(repo))

	repo.On("FindActiveDiscounts", mock.Anything, "shop-1", "").
		Return([]domain.DiscountDefinition{}, nil)

	rec := postQuote(t, router, validPriceCartJSON())
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data PriceCartResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	assert.NotEmpty(t, resp.Data.QuoteID)
	require.NotNil(t, resp.Data.Result)
	assert.Equal(t, int64(7000), resp.Data.Result.Subtotal)
	assert.Equal(t, int64(7500), resp.Data.Result.Total)
	repo.AssertExpectations(t)
}

func TestPriceCart_DiscountApplied(t *testing.T) {
	repo := new(mockDiscountRepository)
	router := setupPricingRouter(testPricingHandler(repo))

	repo.On("FindActiveDiscounts", mock.Anything, "shop-1", "").
		Return([]domain.DiscountDefinition{
			{
				ID:        "disc-1",
				ShopID:    "shop-1",
				Name:      "Summer Sale",
				Type:      domain.DiscountTypeProduct,
				Method:    domain.DiscountMethodAutomatic,
				ValueType: domain.ValueTypePercentage,
				Value:     2000,
				IsActive:  true,
			},
		}, nil)

	rec := postQuote(t, router, validPriceCartJSON())
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data PriceCartResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	assert.Equal(t, int64(1400), resp.Data.Result.TotalDiscounts)
	assert.Equal(t, int64(6100), resp.Data.Result.Total)
	assert.Len(t, resp.Data.Result.AppliedDiscounts, 2)
	repo.AssertExpectations(t)
}

func TestPriceCart_MissingShopID(t *testing.T) {
	repo := new(mockDiscountRepository)
	router := setupPricingRouter(testPricingHandler(repo))

	body, _ := json.Marshal(PriceCartRequest{
		Lines: []CartLineRequest{{ProductID: "prod-1", Quantity: 1, UnitPrice: 100}},
	})

	rec := postQuote(t, router, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "FindActiveDiscounts", mock.Anything, mock.Anything, mock.Anything)
}

func TestPriceCart_InvalidQuantity(t *testing.T) {
	repo := new(mockDiscountRepository)
	router := setupPricingRouter(testPricingHandler(repo))

	body, _ := json.Marshal(PriceCartRequest{
		ShopID: "shop-1",
		Lines:  []CartLineRequest{{ProductID: "prod-1", Quantity: 0, UnitPrice: 100}},
	})

	rec := postQuote(t, router, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPriceCart_MalformedJSON(t *testing.T) {
	repo := new(mockDiscountRepository)
	router := setupPricingRouter(testPricingHandler(repo))

	rec := postQuote(t, router, []byte(`{not json`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPriceCart_CatalogError(t *testing.T) {
	repo := new(mockDiscountRepository)
	router := setupPricingRouter(testPricingHandler(repo))

	repo.On("FindActiveDiscounts", mock.Anything, "shop-1", "").
		Return(nil, errors.New("connection refused"))

	rec := postQuote(t, router, validPriceCartJSON())
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	repo.AssertExpectations(t)
}

func TestPriceCart_UnknownCode(t *testing.T) {
	repo := new(mockDiscountRepository)
	router := setupPricingRouter(testPricingHandler(repo))

	repo.On("FindActiveDiscounts", mock.Anything, "shop-1", "BOGUS").
		Return([]domain.DiscountDefinition{}, nil)

	req := PriceCartRequest{
		ShopID:       "shop-1",
		Lines:        []CartLineRequest{{ProductID: "prod-1", Quantity: 1, UnitPrice: 1000}},
		DiscountCode: "BOGUS",
	}
	body, _ := json.Marshal(req)

	rec := postQuote(t, router, body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data PriceCartResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	assert.Equal(t, "BOGUS", resp.Data.Result.DiscountCode)
	assert.NotEmpty(t, resp.Data.Result.DiscountCodeError)
	repo.AssertExpectations(t)
}
