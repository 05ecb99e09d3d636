package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/polkiloo/gopherbistro/internal/adapter/notify"
	"github.com/polkiloo/gopherbistro/internal/domain/model"
	testhelpers "github.com/polkiloo/gopherbistro/internal/test"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func waitFor(t *testing.T, facade *testhelpers.OutboxFacadeStub, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.After(timeout)
	for {
		facade.Lock()
		ok := cond()
		facade.Unlock()
		if ok {
			return
		}
		select {
		case <-deadline:
			t.Fatal("timeout waiting for dispatcher")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestNewOutboxDispatcherDefaults(t *testing.T) {
	d := NewOutboxDispatcher(&testhelpers.OutboxFacadeStub{}, 0, 0, 0, testLogger())
	if d.batchSize != 1 || d.workers != 1 || d.pollInterval != time.Second {
		t.Fatalf("unexpected defaults: batch=%d workers=%d poll=%s", d.batchSize, d.workers, d.pollInterval)
	}
}

func TestOutboxDispatcherPublishesAndAcks(t *testing.T) {
	facade := &testhelpers.OutboxFacadeStub{Batches: [][]model.Event{
		{{ID: 1, Type: model.EventOrderPlaced}, {ID: 2, Type: model.EventOrderCompleted}},
	}}
	d := NewOutboxDispatcher(facade, 5*time.Millisecond, 10, 2, testLogger())

	d.Start(context.Background())
	waitFor(t, facade, time.Second, func() bool { return len(facade.Acked) == 2 })
	d.Stop()

	facade.Lock()
	defer facade.Unlock()
	if len(facade.Published) != 2 || len(facade.Nacked) != 0 {
		t.Fatalf("unexpected delivery: published=%v nacked=%v", facade.Published, facade.Nacked)
	}
}

func TestOutboxDispatcherReleasesFailedEvents(t *testing.T) {
	facade := &testhelpers.OutboxFacadeStub{
		Batches: [][]model.Event{{{ID: 7, Type: model.EventPointsCredited}}},
		PublishFn: func(context.Context, model.Event) error {
			return errors.New("broker down")
		},
	}
	d := NewOutboxDispatcher(facade, 5*time.Millisecond, 1, 1, testLogger())

	d.Start(context.Background())
	waitFor(t, facade, time.Second, func() bool { return len(facade.Nacked) == 1 })
	d.Stop()

	facade.Lock()
	defer facade.Unlock()
	if len(facade.Acked) != 0 || facade.Nacked[0] != 7 {
		t.Fatalf("failed event must be released, not acked: acked=%v nacked=%v", facade.Acked, facade.Nacked)
	}
}

func TestOutboxDispatcherHandlesRateLimiting(t *testing.T) {
	attempts := int32(0)
	facade := &testhelpers.OutboxFacadeStub{
		Batches: [][]model.Event{{{ID: 1}}, {{ID: 1}}},
		PublishFn: func(context.Context, model.Event) error {
			if atomic.AddInt32(&attempts, 1) == 1 {
				return notify.TooManyRequestsError{RetryAfter: 10 * time.Millisecond}
			}
			return nil
		},
	}
	d := NewOutboxDispatcher(facade, 5*time.Millisecond, 1, 1, testLogger())

	d.Start(context.Background())
	waitFor(t, facade, time.Second, func() bool { return len(facade.Acked) == 1 })
	d.Stop()

	facade.Lock()
	defer facade.Unlock()
	if len(facade.Nacked) != 1 {
		t.Fatalf("rate limited event must be released once, got %v", facade.Nacked)
	}
}

func TestOutboxDispatcherSurvivesClaimErrors(t *testing.T) {
	calls := int32(0)
	facade := &testhelpers.OutboxFacadeStub{}
	facade.ClaimFn = func(context.Context, int) ([]model.Event, error) {
		switch atomic.AddInt32(&calls, 1) {
		case 1:
			return nil, errors.New("db down")
		case 2:
			return []model.Event{{ID: 3}}, nil
		}
		return nil, nil
	}
	d := NewOutboxDispatcher(facade, 5*time.Millisecond, 1, 1, testLogger())

	d.Start(context.Background())
	waitFor(t, facade, time.Second, func() bool { return len(facade.Acked) == 1 })
	d.Stop()
}

func TestOutboxDispatcherStopIsIdempotent(t *testing.T) {
	d := NewOutboxDispatcher(&testhelpers.OutboxFacadeStub{}, time.Hour, 1, 1, testLogger())
	d.Start(context.Background())
	d.Stop()
	d.Stop()
}

func TestSleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	sleep(ctx, time.Minute)
	if time.Since(start) > time.Second {
		t.Fatal("sleep must return on cancelled context")
	}
}
