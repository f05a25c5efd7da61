package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vendra/pricing-service/internal/domain"
	"github.com/vendra/pricing-service/internal/repository"
)

// CatalogCache wraps a DiscountRepository with a Redis cache-aside layer on
// catalog reads. Usage counts are never cached since they change on every
// completed order. Redis failures degrade to the inner repository.
type CatalogCache struct {
	inner  repository.DiscountRepository
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCatalogCache creates a caching decorator over repo.
func NewCatalogCache(repo repository.DiscountRepository, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CatalogCache {
	return &CatalogCache{
		inner:  repo,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func catalogKey(shopID, code string) string {
	return fmt.Sprintf("pricing:discounts:%s:%s", shopID, code)
}

// FindActiveDiscounts serves the discount catalog from Redis when present,
// falling back to the inner repository and repopulating the cache on a miss.
func (c *CatalogCache) FindActiveDiscounts(ctx context.Context, shopID, code string) ([]domain.DiscountDefinition, error) {
	key := catalogKey(shopID, code)

	cached, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var discounts []domain.DiscountDefinition
		if err := json.Unmarshal(cached, &discounts); err == nil {
			return discounts, nil
		}
		c.logger.Warn("discarding corrupt catalog cache entry", "key", key)
	} else if err != redis.Nil {
		c.logger.Warn("catalog cache read failed", "key", key, "error", err)
	}

	discounts, err := c.inner.FindActiveDiscounts(ctx, shopID, code)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(discounts); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("catalog cache write failed", "key", key, "error", err)
		}
	}

	return discounts, nil
}

// TotalUsageCount passes through to the inner repository.
func (c *CatalogCache) TotalUsageCount(ctx context.Context, discountID string) (int, error) {
	return c.inner.TotalUsageCount(ctx, discountID)
}

// UsageCountForCustomer passes through to the inner repository.
func (c *CatalogCache) UsageCountForCustomer(ctx context.Context, discountID, customerID string) (int, error) {
	return c.inner.UsageCountForCustomer(ctx, discountID, customerID)
}
