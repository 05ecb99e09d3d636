package repository

import (
	"context"

	"github.com/polkiloo/gopherbistro/internal/domain/model"
)

// OutboxRepository stores domain events next to the state change that produced them.
type OutboxRepository interface {
	Enqueue(ctx context.Context, event model.Event) error
	// SelectBatchForDispatch claims up to limit undelivered events, moving them to SENDING.
	SelectBatchForDispatch(ctx context.Context, limit int) ([]model.Event, error)
	MarkDispatched(ctx context.Context, id int64) error
	// Release returns a claimed event to NEW so the next poll retries it.
	Release(ctx context.Context, id int64) error
}
