package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/autoinvesthq/autoinvest-backend/internal/domain"
)

// quoteTTL bounds how long cached quotes live. Quotes are historical
// facts, so the TTL only bounds memory usage, not staleness.
const quoteTTL = 24 * time.Hour

// NewClient connects to redis and verifies the connection
func NewClient(addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return client, nil
}

// PriceCache decorates a domain.PriceSource with a redis lookaside
// cache keyed by (asset, instant). Simulations over long ranges issue
// the same end-of-day lookups run after run; serving them from redis
// keeps repeated runs cheap and stable.
type PriceCache struct {
	client *redis.Client
	source domain.PriceSource
}

// NewPriceCache creates a new PriceCache over the given source
func NewPriceCache(client *redis.Client, source domain.PriceSource) *PriceCache {
	return &PriceCache{
		client: client,
		source: source,
	}
}

// PriceAt returns the cached price for (assetID, at), falling back to
// the underlying source and caching its answer. Cache errors are never
// fatal; the source remains authoritative.
func (c *PriceCache) PriceAt(ctx context.Context, assetID uuid.UUID, at time.Time) (domain.Money, error) {
	key := priceKey(assetID, at)

	if cached, err := c.client.Get(ctx, key).Result(); err == nil {
		if minor, parseErr := strconv.ParseInt(cached, 10, 64); parseErr == nil {
			return domain.Money(minor), nil
		}
	}

	price, err := c.source.PriceAt(ctx, assetID, at)
	if err != nil {
		return 0, err
	}

	// Best effort: a failed write just means the next lookup hits the
	// source again
	c.client.Set(ctx, key, int64(price), quoteTTL)

	return price, nil
}

// priceKey builds the cache key for one (asset, instant) lookup
func priceKey(assetID uuid.UUID, at time.Time) string {
	return fmt.Sprintf("price:%s:%d", assetID, at.UTC().UnixMilli())
}
