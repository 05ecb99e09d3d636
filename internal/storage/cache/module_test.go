package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx/fxtest"

	"github.com/polkiloo/gopherbistro/internal/config"
	"github.com/polkiloo/gopherbistro/internal/storage/postgres"
)

func TestNewMenuCatalogWithoutRedis(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	catalog, err := newMenuCatalog(menuParams{
		Lifecycle: lc,
		Config:    &config.Config{},
		Storage:   &postgres.Storage{},
		Logger:    slog.New(slog.NewJSONHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := catalog.(*MenuCache); ok {
		t.Fatal("cache must be disabled without redis url")
	}
}

func TestNewMenuCatalogWithRedis(t *testing.T) {
	client := newFakeClient()
	client.pingErr = errors.New("down")
	t.Cleanup(func() {
		newClient = func(opts *redis.Options) Client { return redis.NewClient(opts) }
	})
	var addr string
	newClient = func(opts *redis.Options) Client {
		addr = opts.Addr
		return client
	}

	lc := fxtest.NewLifecycle(t)
	catalog, err := newMenuCatalog(menuParams{
		Lifecycle: lc,
		Config:    &config.Config{RedisURL: "redis://cache:6379/0"},
		Storage:   &postgres.Storage{},
		Logger:    slog.New(slog.NewJSONHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := catalog.(*MenuCache); !ok {
		t.Fatalf("expected cache, got %T", catalog)
	}
	if addr != "cache:6379" {
		t.Fatalf("unexpected addr %q", addr)
	}

	if err := lc.Start(context.Background()); err != nil {
		t.Fatalf("ping failure must not block start: %v", err)
	}
	if err := lc.Stop(context.Background()); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if !client.closed {
		t.Fatal("client must be closed on stop")
	}
}

func TestNewMenuCatalogBadURL(t *testing.T) {
	_, err := newMenuCatalog(menuParams{
		Lifecycle: fxtest.NewLifecycle(t),
		Config:    &config.Config{RedisURL: "ftp://nope"},
		Storage:   &postgres.Storage{},
		Logger:    slog.New(slog.NewJSONHandler(io.Discard, nil)),
	})
	if err == nil {
		t.Fatal("expected parse error")
	}
}
