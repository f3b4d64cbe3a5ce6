// catalog.go caches the serialized product aggregate listing in Valkey.
// Assembling the listing takes three queries plus in-memory joining, so
// repeated GET /products requests between writes skip the database entirely.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// productsKey is the Valkey key holding the cached listing JSON.
	productsKey = "catalog:products"

	// DefaultCatalogTTL is how long the listing stays cached without a write.
	DefaultCatalogTTL = 5 * time.Minute
)

// CatalogCache stores the rendered product listing with write invalidation.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache creates a catalog cache backed by the given Valkey client.
func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	if ttl == 0 {
		ttl = DefaultCatalogTTL
	}
	return &CatalogCache{client: client, ttl: ttl}
}

// GetProducts retrieves the cached listing JSON. Returns false on miss.
func (c *CatalogCache) GetProducts(ctx context.Context) ([]byte, bool) {
	val, err := c.client.Get(ctx, productsKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("catalog cache get error", "error", err)
		return nil, false
	}
	slog.Debug("catalog cache hit")
	return val, true
}

// SetProducts stores the listing JSON with the configured TTL.
func (c *CatalogCache) SetProducts(ctx context.Context, body []byte) {
	if err := c.client.Set(ctx, productsKey, body, c.ttl).Err(); err != nil {
		slog.Warn("catalog cache set error", "error", err)
	}
}

// Invalidate drops the cached listing. Called after every catalog write:
// category deletes, product writes, and image writes all change the listing.
func (c *CatalogCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, productsKey).Err(); err != nil {
		slog.Warn("catalog cache invalidate error", "error", err)
	}
	slog.Debug("catalog cache invalidated")
}
