package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/polkiloo/gopherbistro/internal/domain/model"
	"github.com/polkiloo/gopherbistro/internal/domain/repository"
)

const (
	menuItemKeyPrefix = "bistro:menu:item:"
	menuListKey       = "bistro:menu:all"
)

// Client is the subset of the redis client used by the cache.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// MenuCache serves menu lookups from redis and falls back to the wrapped catalog.
// Redis failures never fail a lookup; the catalog stays authoritative.
type MenuCache struct {
	next   repository.MenuCatalog
	client Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewMenuCache wraps next with a redis read-through cache.
func NewMenuCache(next repository.MenuCatalog, client Client, ttl time.Duration, logger *slog.Logger) *MenuCache {
	return &MenuCache{next: next, client: client, ttl: ttl, logger: logger}
}

// GetMenuItem returns the cached item or loads it from the catalog.
func (c *MenuCache) GetMenuItem(ctx context.Context, id string) (*model.MenuItem, error) {
	key := menuItemKeyPrefix + id
	var item model.MenuItem
	if c.load(ctx, key, &item) {
		return &item, nil
	}

	loaded, err := c.next.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, loaded)
	return loaded, nil
}

// ListMenu returns the cached menu or loads it from the catalog.
func (c *MenuCache) ListMenu(ctx context.Context) ([]model.MenuItem, error) {
	var items []model.MenuItem
	if c.load(ctx, menuListKey, &items) {
		return items, nil
	}

	items, err := c.next.ListMenu(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, menuListKey, items)
	return items, nil
}

// UpsertMenuItem writes through to the catalog. The write may still be
// uncommitted, so entries are only evicted by InvalidateMenu.
func (c *MenuCache) UpsertMenuItem(ctx context.Context, item model.MenuItem) error {
	return c.next.UpsertMenuItem(ctx, item)
}

// InvalidateMenu evicts the given items and the cached listing.
func (c *MenuCache) InvalidateMenu(ctx context.Context, ids ...string) {
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, menuItemKeyPrefix+id)
	}
	keys = append(keys, menuListKey)
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("menu cache evict failed", slog.Any("items", ids), slog.String("error", err.Error()))
	}
}

func (c *MenuCache) load(ctx context.Context, key string, dst any) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("menu cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.logger.Warn("menu cache entry corrupt", slog.String("key", key), slog.String("error", err.Error()))
		return false
	}
	return true
}

func (c *MenuCache) store(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("menu cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}
