// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"fundops_backend/internal/feature/marketdata/domain/entity"
	"fundops_backend/internal/feature/marketdata/usecase"
)

// cachedPage is the serialized form of one Find result.
type cachedPage struct {
	Items []entity.IndexPrice `json:"items"`
	Total int64               `json:"total"`
}

// CachingIndexPriceRepository decorates an IndexPriceRepository with Redis
// caching. It implements the decorator pattern, transparently adding caching
// without modifying the underlying repository. Only listings filtered to a
// single index code are cached; every write invalidates that code's entries.
type CachingIndexPriceRepository struct {
	inner     usecase.IndexPriceRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// Compile-time check to ensure the decorator satisfies the same interface it wraps.
var _ usecase.IndexPriceRepository = (*CachingIndexPriceRepository)(nil)

// NewCachingIndexPriceRepository decorates an IndexPriceRepository with Redis
// caching. If ttl is 0, it defaults to 5 minutes. If namespace is empty, it
// uses "index_prices". A nil client disables caching entirely.
func NewCachingIndexPriceRepository(rdb *redis.Client, ttl time.Duration, inner usecase.IndexPriceRepository, namespace string) *CachingIndexPriceRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "index_prices"
	}
	return &CachingIndexPriceRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create persists a new price and invalidates the code's cache entries.
func (c *CachingIndexPriceRepository) Create(ctx context.Context, price *entity.IndexPrice) error {
	if err := c.inner.Create(ctx, price); err != nil {
		return err
	}
	c.invalidate(ctx, price.IndexCode)
	return nil
}

// FindByID passes through uncached. A primary-key read is a single-row
// lookup; caching it would not be worth the invalidation bookkeeping.
func (c *CachingIndexPriceRepository) FindByID(ctx context.Context, id uint) (*entity.IndexPrice, error) {
	return c.inner.FindByID(ctx, id)
}

// Find retrieves prices, checking cache first then falling back to the
// database. Listings without an index code filter bypass the cache: any
// write could change their result, and per-code invalidation could not
// catch them.
func (c *CachingIndexPriceRepository) Find(ctx context.Context, filter usecase.Filter, offset, limit int) ([]entity.IndexPrice, int64, error) {
	if c.rdb == nil || filter.IndexCode == "" {
		return c.inner.Find(ctx, filter, offset, limit)
	}

	key := c.cacheKey(filter, offset, limit)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var page cachedPage
		if err := json.Unmarshal(b, &page); err == nil {
			return page.Items, page.Total, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	items, total, err := c.inner.Find(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(cachedPage{Items: items, Total: total}); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return items, total, nil
}

// Update persists changes and invalidates the code's cache entries.
func (c *CachingIndexPriceRepository) Update(ctx context.Context, price *entity.IndexPrice) error {
	if err := c.inner.Update(ctx, price); err != nil {
		return err
	}
	c.invalidate(ctx, price.IndexCode)
	return nil
}

// Delete removes the price and invalidates the code's cache entries.
func (c *CachingIndexPriceRepository) Delete(ctx context.Context, price *entity.IndexPrice) error {
	if err := c.inner.Delete(ctx, price); err != nil {
		return err
	}
	c.invalidate(ctx, price.IndexCode)
	return nil
}

// UpsertBatch inserts or updates prices and invalidates the cache entries of
// every index code the batch touches.
func (c *CachingIndexPriceRepository) UpsertBatch(ctx context.Context, prices []entity.IndexPrice) error {
	if err := c.inner.UpsertBatch(ctx, prices); err != nil {
		return err
	}
	if c.rdb == nil || len(prices) == 0 {
		return nil
	}

	seen := map[string]struct{}{}
	for _, p := range prices {
		if _, ok := seen[p.IndexCode]; ok {
			continue
		}
		seen[p.IndexCode] = struct{}{}
		c.invalidate(ctx, p.IndexCode)
	}
	return nil
}

// invalidate drops every cached listing for the given index code.
// Best effort: a stale entry expires with its TTL anyway.
func (c *CachingIndexPriceRepository) invalidate(ctx context.Context, indexCode string) {
	if c.rdb == nil {
		return
	}
	_ = c.deleteByPattern(ctx, c.cacheKeyPrefix(indexCode)+"*")
}

// cacheKey generates a cache key for a specific query.
func (c *CachingIndexPriceRepository) cacheKey(filter usecase.Filter, offset, limit int) string {
	return fmt.Sprintf("%s:%s:%s:%s:%d:%d",
		c.namespace,
		safe(filter.IndexCode),
		datePart(filter.From),
		datePart(filter.To),
		offset,
		limit,
	)
}

// cacheKeyPrefix generates a prefix for invalidating related cache entries.
func (c *CachingIndexPriceRepository) cacheKeyPrefix(indexCode string) string {
	return fmt.Sprintf("%s:%s:", c.namespace, safe(indexCode))
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingIndexPriceRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// datePart renders a date bound for a cache key. Zero means unbounded.
func datePart(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
