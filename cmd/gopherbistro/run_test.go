package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/fx"
)

func TestRunStopsOnContextCancel(t *testing.T) {
	var stopped bool
	app := fx.New(
		fx.NopLogger,
		fx.Invoke(func(lc fx.Lifecycle) {
			lc.Append(fx.Hook{OnStop: func(context.Context) error {
				stopped = true
				return nil
			}})
		}),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := run(ctx, app); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !stopped {
		t.Fatal("expected stop hooks to run")
	}
}

func TestRunReportsStartFailure(t *testing.T) {
	boom := errors.New("boom")
	app := fx.New(
		fx.NopLogger,
		fx.Invoke(func(lc fx.Lifecycle) {
			lc.Append(fx.Hook{OnStart: func(context.Context) error { return boom }})
		}),
	)
	if err := run(context.Background(), app); !errors.Is(err, boom) {
		t.Fatalf("expected start error, got %v", err)
	}
}

func TestRunReportsStopFailure(t *testing.T) {
	boom := errors.New("boom")
	app := fx.New(
		fx.NopLogger,
		fx.Invoke(func(lc fx.Lifecycle) {
			lc.Append(fx.Hook{OnStop: func(context.Context) error { return boom }})
		}),
	)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := run(ctx, app); !errors.Is(err, boom) {
		t.Fatalf("expected stop error, got %v", err)
	}
}
