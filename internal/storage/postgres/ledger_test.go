package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"

	domainErrors "github.com/polkiloo/gopherbistro/internal/domain/errors"
	"github.com/polkiloo/gopherbistro/internal/domain/model"
)

var ledgerRowColumns = []string{"id", "account_id", "seq", "delta", "reason", "related_order_id", "running_balance", "created_at"}

func TestLedgerRepositoryHead(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &ledgerRepository{storage: storage}

	mock.ExpectQuery("SELECT seq, running_balance FROM ledger_entries").WithArgs(int64(1)).
		WillReturnRows(pgxmockv3.NewRows([]string{"seq", "running_balance"}).AddRow(int64(4), int64(620)))
	head, err := repo.Head(context.Background(), 1)
	if err != nil || head.Seq != 4 || head.Balance != 620 {
		t.Fatalf("unexpected head: %+v err=%v", head, err)
	}

	mock.ExpectQuery("SELECT seq, running_balance FROM ledger_entries").WithArgs(int64(2)).WillReturnError(pgx.ErrNoRows)
	head, err = repo.Head(context.Background(), 2)
	if err != nil || head != (model.LedgerHead{}) {
		t.Fatalf("empty ledger must report zero head, got %+v err=%v", head, err)
	}

	mock.ExpectQuery("SELECT seq, running_balance FROM ledger_entries").WithArgs(int64(3)).WillReturnError(errors.New("boom"))
	if _, err := repo.Head(context.Background(), 3); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestLedgerRepositoryAppend(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &ledgerRepository{storage: storage}

	orderID := int64(11)
	entry := model.LedgerEntry{AccountID: 1, Seq: 2, Delta: 32, Reason: model.ReasonOrderPurchase, RelatedOrderID: &orderID, RunningBalance: 532}
	now := time.Now()

	mock.ExpectQuery("INSERT INTO ledger_entries").WithArgs(int64(1), int64(2), int64(32), model.ReasonOrderPurchase, &orderID, int64(532)).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "created_at"}).AddRow(int64(40), now))
	stored, err := repo.Append(context.Background(), entry)
	if err != nil || stored.ID != 40 || stored.RunningBalance != 532 {
		t.Fatalf("unexpected entry: %+v err=%v", stored, err)
	}

	mock.ExpectQuery("INSERT INTO ledger_entries").WithArgs(int64(1), int64(2), int64(32), model.ReasonOrderPurchase, &orderID, int64(532)).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: constraintLedgerSeq})
	if _, err := repo.Append(context.Background(), entry); !errors.Is(err, domainErrors.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	mock.ExpectQuery("INSERT INTO ledger_entries").WithArgs(int64(1), int64(2), int64(32), model.ReasonOrderPurchase, &orderID, int64(532)).
		WillReturnError(&pgconn.PgError{Code: "23514", ConstraintName: "ledger_entries_running_balance_check"})
	if _, err := repo.Append(context.Background(), entry); err == nil || errors.Is(err, domainErrors.ErrConflict) {
		t.Fatalf("check violation must surface as is, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestLedgerRepositoryListAndNet(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &ledgerRepository{storage: storage}

	now := time.Now()
	orderID := int64(5)

	mock.ExpectQuery("SELECT id, account_id, seq, delta, reason, related_order_id, running_balance, created_at FROM ledger_entries").
		WithArgs(int64(1)).WillReturnRows(pgxmockv3.NewRows(ledgerRowColumns).
		AddRow(int64(2), int64(1), int64(2), int64(-100), model.ReasonRedemption, nil, int64(400), now).
		AddRow(int64(1), int64(1), int64(1), int64(500), model.ReasonReferralSignup, nil, int64(500), now))
	entries, err := repo.ListByAccount(context.Background(), 1)
	if err != nil || len(entries) != 2 || entries[0].Seq != 2 {
		t.Fatalf("unexpected entries: %+v err=%v", entries, err)
	}

	mock.ExpectQuery("FROM ledger_entries WHERE account_id=").WithArgs(int64(2)).WillReturnError(errors.New("query"))
	if _, err := repo.ListByAccount(context.Background(), 2); err == nil {
		t.Fatal("expected error")
	}

	mock.ExpectQuery("FROM ledger_entries WHERE account_id=").WithArgs(int64(3)).WillReturnRows(
		pgxmockv3.NewRows(ledgerRowColumns).AddRow("bad", int64(1), int64(1), int64(5), model.ReasonOrderPurchase, &orderID, int64(5), now))
	if _, err := repo.ListByAccount(context.Background(), 3); err == nil {
		t.Fatal("expected scan error")
	}

	mock.ExpectQuery("SELECT COALESCE").WithArgs(int64(1), int64(5)).
		WillReturnRows(pgxmockv3.NewRows([]string{"coalesce"}).AddRow(int64(32)))
	if net, err := repo.NetForOrder(context.Background(), 1, 5); err != nil || net != 32 {
		t.Fatalf("unexpected net: %d err=%v", net, err)
	}

	mock.ExpectQuery("SELECT COALESCE").WithArgs(int64(1), int64(6)).WillReturnError(errors.New("sum"))
	if _, err := repo.NetForOrder(context.Background(), 1, 6); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestLedgerRepositoryListRowsError(t *testing.T) {
	storage := &Storage{pool: &rowsErrorPool{rows: &errorRows{err: errors.New("rows err")}}}
	repo := &ledgerRepository{storage: storage}

	if _, err := repo.ListByAccount(context.Background(), 1); err == nil || err.Error() != "rows err" {
		t.Fatalf("expected rows err, got %v", err)
	}
}
