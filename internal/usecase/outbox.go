package usecase

import (
	"context"

	"github.com/polkiloo/gopherbistro/internal/domain/model"
	"github.com/polkiloo/gopherbistro/internal/domain/repository"
)

// OutboxUseCase hands stored domain events to the dispatcher.
type OutboxUseCase struct {
	outbox repository.OutboxRepository
	tx     repository.Transactor
}

// NewOutboxUseCase constructs OutboxUseCase.
func NewOutboxUseCase(outbox repository.OutboxRepository, tx repository.Transactor) *OutboxUseCase {
	return &OutboxUseCase{outbox: outbox, tx: tx}
}

// Claim reserves up to limit undelivered events for this process.
func (u *OutboxUseCase) Claim(ctx context.Context, limit int) ([]model.Event, error) {
	var events []model.Event
	err := u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		events, err = u.outbox.SelectBatchForDispatch(ctx, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// Ack marks an event delivered.
func (u *OutboxUseCase) Ack(ctx context.Context, id int64) error {
	return u.outbox.MarkDispatched(ctx, id)
}

// Nack returns an event to the queue after a failed delivery.
func (u *OutboxUseCase) Nack(ctx context.Context, id int64) error {
	return u.outbox.Release(ctx, id)
}
