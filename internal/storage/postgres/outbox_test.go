package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"

	"github.com/polkiloo/gopherbistro/internal/domain/model"
)

var outboxRowColumns = []string{"id", "event_id", "event_type", "payload", "status", "attempts", "occurred_at", "created_at"}

func TestOutboxRepositoryEnqueue(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &outboxRepository{storage: storage}

	evt, err := model.NewEvent(model.EventOrderPlaced, map[string]int64{"order_id": 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec("INSERT INTO outbox_events").
		WithArgs(evt.UUID.String(), model.EventOrderPlaced, `{"order_id":7}`, model.EventStatusNew, evt.OccurredAt).
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	if err := repo.Enqueue(context.Background(), evt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	evt.Status = ""
	mock.ExpectExec("INSERT INTO outbox_events").
		WithArgs(evt.UUID.String(), model.EventOrderPlaced, `{"order_id":7}`, model.EventStatusNew, evt.OccurredAt).
		WillReturnError(errors.New("insert"))
	if err := repo.Enqueue(context.Background(), evt); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOutboxRepositorySelectBatch(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &outboxRepository{storage: storage}

	now := time.Now()
	first, second := uuid.New(), uuid.New()

	mock.ExpectQuery("UPDATE outbox_events SET status='SENDING'").WithArgs(5).WillReturnRows(
		pgxmockv3.NewRows(outboxRowColumns).
			AddRow(int64(9), second.String(), model.EventOrderCompleted, `{"order_id":2}`, model.EventStatusSending, 1, now, now).
			AddRow(int64(4), first.String(), model.EventOrderPlaced, `{"order_id":2}`, model.EventStatusSending, 2, now, now))
	events, err := repo.SelectBatchForDispatch(context.Background(), 5)
	if err != nil || len(events) != 2 {
		t.Fatalf("unexpected events: %+v err=%v", events, err)
	}
	if events[0].ID != 4 || events[0].UUID != first || events[0].Attempts != 2 {
		t.Fatalf("events must be ordered by id: %+v", events)
	}
	var payload map[string]int64
	if err := json.Unmarshal(events[1].Payload, &payload); err != nil || payload["order_id"] != 2 {
		t.Fatalf("unexpected payload %s err=%v", events[1].Payload, err)
	}

	mock.ExpectQuery("UPDATE outbox_events SET status='SENDING'").WithArgs(1).WillReturnRows(pgxmockv3.NewRows(outboxRowColumns))
	events, err = repo.SelectBatchForDispatch(context.Background(), 1)
	if err != nil || len(events) != 0 {
		t.Fatalf("expected empty batch, got %+v err=%v", events, err)
	}

	mock.ExpectQuery("UPDATE outbox_events SET status='SENDING'").WithArgs(1).WillReturnRows(
		pgxmockv3.NewRows(outboxRowColumns).AddRow(int64(1), "not-a-uuid", model.EventOrderPlaced, `{}`, model.EventStatusSending, 1, now, now))
	if _, err := repo.SelectBatchForDispatch(context.Background(), 1); err == nil {
		t.Fatal("expected uuid parse error")
	}

	mock.ExpectQuery("UPDATE outbox_events SET status='SENDING'").WithArgs(1).WillReturnError(errors.New("query"))
	if _, err := repo.SelectBatchForDispatch(context.Background(), 1); err == nil {
		t.Fatal("expected error")
	}

	mock.ExpectQuery("UPDATE outbox_events SET status='SENDING'").WithArgs(1).WillReturnRows(
		pgxmockv3.NewRows(outboxRowColumns).AddRow("bad", first.String(), model.EventOrderPlaced, `{}`, model.EventStatusSending, 1, now, now))
	if _, err := repo.SelectBatchForDispatch(context.Background(), 1); err == nil {
		t.Fatal("expected scan error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOutboxRepositorySelectBatchRowsErrorInsideTransaction(t *testing.T) {
	rows := &errorRows{err: errors.New("rows err")}
	storage := &Storage{pool: &rowsErrorTxPool{tx: &rowsErrorTx{rows: rows}}}
	repo := &outboxRepository{storage: storage}

	err := storage.WithinTransaction(context.Background(), func(ctx context.Context) error {
		_, err := repo.SelectBatchForDispatch(ctx, 1)
		return err
	})
	if err == nil || err.Error() != "rows err" {
		t.Fatalf("expected rows err, got %v", err)
	}
}

func TestOutboxRepositoryAckAndRelease(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &outboxRepository{storage: storage}

	mock.ExpectExec("UPDATE outbox_events SET status='SENT'").WithArgs(int64(4)).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	if err := repo.MarkDispatched(context.Background(), 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec("UPDATE outbox_events SET status='NEW'").WithArgs(int64(5)).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	if err := repo.Release(context.Background(), 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec("UPDATE outbox_events SET status='SENT'").WithArgs(int64(6)).WillReturnError(errors.New("update"))
	if err := repo.MarkDispatched(context.Background(), 6); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}
