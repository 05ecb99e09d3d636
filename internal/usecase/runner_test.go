package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	domainErrors "github.com/polkiloo/gopherbistro/internal/domain/errors"
	"github.com/polkiloo/gopherbistro/internal/pkg/keylock"
	testhelpers "github.com/polkiloo/gopherbistro/internal/test"
)

func newTestRunner(retries int) *Runner {
	return NewRunner(testhelpers.NewMemoryStore(), keylock.New(), retries, slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func TestRunnerReturnsNonConflictErrorsImmediately(t *testing.T) {
	r := newTestRunner(3)
	calls := 0
	boom := errors.New("boom")
	err := r.Run(context.Background(), "op", []string{"k"}, func(context.Context) error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) || calls != 1 {
		t.Fatalf("expected single failing call, got %d calls and %v", calls, err)
	}
}

func TestRunnerRetriesConflicts(t *testing.T) {
	r := newTestRunner(3)
	calls := 0
	err := r.Run(context.Background(), "op", nil, func(context.Context) error {
		calls++
		if calls < 3 {
			return domainErrors.ErrConflict
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Fatalf("expected success on third call, got %d calls and %v", calls, err)
	}
}

func TestRunnerDefaultsToSingleAttempt(t *testing.T) {
	r := newTestRunner(0)
	calls := 0
	err := r.Run(context.Background(), "op", nil, func(context.Context) error {
		calls++
		return domainErrors.ErrConflict
	})
	if !errors.Is(err, domainErrors.ErrTransient) || calls != 1 {
		t.Fatalf("expected transient after one call, got %d calls and %v", calls, err)
	}
}

func TestRunnerStopsOnCancelledContext(t *testing.T) {
	r := newTestRunner(5)
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := r.Run(ctx, "op", nil, func(context.Context) error {
		calls++
		cancel()
		return domainErrors.ErrConflict
	})
	if !errors.Is(err, context.Canceled) || calls != 1 {
		t.Fatalf("expected cancellation after first call, got %d calls and %v", calls, err)
	}
}

func TestRunnerReleasesLocks(t *testing.T) {
	locks := keylock.New()
	r := NewRunner(testhelpers.NewMemoryStore(), locks, 1, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	_ = r.Run(context.Background(), "op", []string{"a", "b"}, func(context.Context) error { return nil })
	if held := locks.Held(); held != 0 {
		t.Fatalf("expected no held keys, got %d", held)
	}
}
