package cache

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/polkiloo/gopherbistro/internal/config"
	"github.com/polkiloo/gopherbistro/internal/domain/repository"
	"github.com/polkiloo/gopherbistro/internal/storage/postgres"
)

// Module provides the menu catalog, cached in redis when REDIS_URL is set.
var Module = fx.Provide(newMenuCatalog)

var newClient = func(opts *redis.Options) Client {
	return redis.NewClient(opts)
}

type menuParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Storage   *postgres.Storage
	Logger    *slog.Logger
}

func newMenuCatalog(p menuParams) (repository.MenuCatalog, error) {
	if p.Config.RedisURL == "" {
		return p.Storage.Menu(), nil
	}

	opts, err := redis.ParseURL(p.Config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := newClient(opts)

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				p.Logger.Warn("redis unavailable, menu served from database", slog.String("error", err.Error()))
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return NewMenuCache(p.Storage.Menu(), client, p.Config.MenuCacheTTL, p.Logger), nil
}
