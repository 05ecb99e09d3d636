package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	domainErrors "github.com/polkiloo/gopherbistro/internal/domain/errors"
	"github.com/polkiloo/gopherbistro/internal/domain/repository"
	"github.com/polkiloo/gopherbistro/internal/pkg/keylock"
)

const retryBackoff = 5 * time.Millisecond

// Runner executes a unit of work while holding per-entity locks, inside one
// transaction, repeating it when storage reports a lost optimistic write.
type Runner struct {
	tx         repository.Transactor
	locks      *keylock.Locker
	maxRetries int
	logger     *slog.Logger
}

// NewRunner constructs Runner. maxRetries below one means a single attempt.
func NewRunner(tx repository.Transactor, locks *keylock.Locker, maxRetries int, logger *slog.Logger) *Runner {
	if maxRetries <= 0 {
		maxRetries = 1
	}
	return &Runner{tx: tx, locks: locks, maxRetries: maxRetries, logger: logger}
}

// Run locks keys, then runs fn transactionally. Exhausted retries surface as ErrTransient.
func (r *Runner) Run(ctx context.Context, op string, keys []string, fn func(ctx context.Context) error) error {
	release := r.locks.LockAll(keys...)
	defer release()

	var err error
	for attempt := 1; attempt <= r.maxRetries; attempt++ {
		err = r.tx.WithinTransaction(ctx, fn)
		if !errors.Is(err, domainErrors.ErrConflict) {
			return err
		}
		r.logger.Warn("conflicting write, retrying",
			slog.String("op", op),
			slog.Int("attempt", attempt),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * retryBackoff):
		}
	}
	return fmt.Errorf("%s: %w: %v", op, domainErrors.ErrTransient, err)
}

func accountKey(id int64) string     { return "account:" + strconv.FormatInt(id, 10) }
func orderKey(id int64) string       { return "order:" + strconv.FormatInt(id, 10) }
func reservationKey(id int64) string { return "reservation:" + strconv.FormatInt(id, 10) }
