package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/polkiloo/gopherbistro/internal/domain/model"
)

const outboxColumns = "id, event_id::text, event_type, payload::text, status, attempts, occurred_at, created_at"

type outboxRepository struct {
	storage *Storage
}

func (r *outboxRepository) Enqueue(ctx context.Context, event model.Event) error {
	status := event.Status
	if status == "" {
		status = model.EventStatusNew
	}
	_, err := r.storage.db(ctx).Exec(ctx,
		`INSERT INTO outbox_events (event_id, event_type, payload, status, occurred_at)
         VALUES ($1::uuid, $2, $3::jsonb, $4, $5)`,
		event.UUID.String(), event.Type, string(event.Payload), status, event.OccurredAt,
	)
	return mapError(err)
}

// SelectBatchForDispatch claims NEW events plus SENDING ones whose worker went
// silent, so a crashed dispatcher never strands an event.
func (r *outboxRepository) SelectBatchForDispatch(ctx context.Context, limit int) ([]model.Event, error) {
	rows, err := r.storage.db(ctx).Query(ctx,
		`UPDATE outbox_events SET status='SENDING', attempts=attempts+1, locked_at=NOW()
         WHERE id IN (
             SELECT id FROM outbox_events
             WHERE status='NEW' OR (status='SENDING' AND locked_at < NOW() - INTERVAL '5 minutes')
             ORDER BY id
             LIMIT $1
             FOR UPDATE SKIP LOCKED
         )
         RETURNING `+outboxColumns,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var (
			evt     model.Event
			eventID string
			payload string
		)
		if err := rows.Scan(&evt.ID, &eventID, &evt.Type, &payload, &evt.Status, &evt.Attempts, &evt.OccurredAt, &evt.CreatedAt); err != nil {
			return nil, err
		}
		if evt.UUID, err = uuid.Parse(eventID); err != nil {
			return nil, fmt.Errorf("parse event id: %w", err)
		}
		evt.Payload = json.RawMessage(payload)
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events, nil
}

func (r *outboxRepository) MarkDispatched(ctx context.Context, id int64) error {
	_, err := r.storage.db(ctx).Exec(ctx,
		"UPDATE outbox_events SET status='SENT', locked_at=NULL WHERE id=$1", id)
	return mapError(err)
}

func (r *outboxRepository) Release(ctx context.Context, id int64) error {
	_, err := r.storage.db(ctx).Exec(ctx,
		"UPDATE outbox_events SET status='NEW', locked_at=NULL WHERE id=$1 AND status='SENDING'", id)
	return mapError(err)
}
