package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/gopherbistro/internal/adapter/notify"
	"github.com/polkiloo/gopherbistro/internal/domain/model"
)

// OutboxFacade exposes the subset of application functionality required by the dispatcher.
type OutboxFacade interface {
	ClaimEvents(ctx context.Context, limit int) ([]model.Event, error)
	PublishEvent(ctx context.Context, evt model.Event) error
	AckEvent(ctx context.Context, id int64) error
	NackEvent(ctx context.Context, id int64) error
}

// OutboxDispatcher polls the outbox and publishes claimed events concurrently.
// Delivery is at least once: an event is acked only after a successful publish.
type OutboxDispatcher struct {
	facade       OutboxFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Event
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewOutboxDispatcher constructs the dispatcher worker pool.
func NewOutboxDispatcher(facade OutboxFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *OutboxDispatcher {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &OutboxDispatcher{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Event, batchSize*workers),
	}
}

// Start launches background dispatching.
func (d *OutboxDispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx)
	}

	d.wg.Add(1)
	go d.poll(runCtx)
}

// Stop waits for all workers to finish.
func (d *OutboxDispatcher) Stop() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *OutboxDispatcher) poll(ctx context.Context) {
	defer d.wg.Done()
	defer close(d.jobs)
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.claimAndDispatch(ctx)
		}
	}
}

func (d *OutboxDispatcher) claimAndDispatch(ctx context.Context) {
	events, err := d.facade.ClaimEvents(ctx, d.batchSize)
	if err != nil {
		d.logger.Error("claim outbox events failed", slog.String("error", err.Error()))
		return
	}
	for i, evt := range events {
		select {
		case <-ctx.Done():
			d.release(events[i:])
			return
		case d.jobs <- evt:
		}
	}
}

func (d *OutboxDispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			d.drain()
			return
		case evt, ok := <-d.jobs:
			if !ok {
				return
			}
			d.handleEvent(ctx, evt)
		}
	}
}

// drain hands back events that were claimed but never picked up.
func (d *OutboxDispatcher) drain() {
	for {
		select {
		case evt, ok := <-d.jobs:
			if !ok {
				return
			}
			d.release([]model.Event{evt})
		default:
			return
		}
	}
}

func (d *OutboxDispatcher) release(events []model.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for _, evt := range events {
		if err := d.facade.NackEvent(ctx, evt.ID); err != nil {
			d.logger.Warn("release outbox event failed", slog.Int64("event", evt.ID), slog.String("error", err.Error()))
		}
	}
}

func (d *OutboxDispatcher) handleEvent(ctx context.Context, evt model.Event) {
	if err := d.facade.PublishEvent(ctx, evt); err != nil {
		var tooMany notify.TooManyRequestsError
		if errors.As(err, &tooMany) {
			d.logger.Warn("event receiver rate limited", slog.Duration("retry_after", tooMany.RetryAfter))
			d.release([]model.Event{evt})
			sleep(ctx, tooMany.RetryAfter)
			return
		}
		d.logger.Error("publish event failed",
			slog.Int64("event", evt.ID),
			slog.String("type", string(evt.Type)),
			slog.Int("attempt", evt.Attempts),
			slog.String("error", err.Error()),
		)
		d.release([]model.Event{evt})
		return
	}

	if err := d.facade.AckEvent(ctx, evt.ID); err != nil {
		d.logger.Error("ack event failed", slog.Int64("event", evt.ID), slog.String("error", err.Error()))
	}
}

func sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
