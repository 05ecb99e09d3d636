package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/polkiloo/gopherbistro/internal/domain/model"
)

const ledgerColumns = "id, account_id, seq, delta, reason, related_order_id, running_balance, created_at"

type ledgerRepository struct {
	storage *Storage
}

func (r *ledgerRepository) Head(ctx context.Context, accountID int64) (model.LedgerHead, error) {
	var head model.LedgerHead
	err := r.storage.db(ctx).QueryRow(ctx,
		"SELECT seq, running_balance FROM ledger_entries WHERE account_id=$1 ORDER BY seq DESC LIMIT 1",
		accountID,
	).Scan(&head.Seq, &head.Balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.LedgerHead{}, nil
	}
	if err != nil {
		return model.LedgerHead{}, mapError(err)
	}
	return head, nil
}

// Append relies on the (account_id, seq) unique key: two writers racing for the
// same seq leave exactly one row and the loser gets ErrConflict.
func (r *ledgerRepository) Append(ctx context.Context, entry model.LedgerEntry) (*model.LedgerEntry, error) {
	row := r.storage.db(ctx).QueryRow(ctx,
		`INSERT INTO ledger_entries (account_id, seq, delta, reason, related_order_id, running_balance)
         VALUES ($1, $2, $3, $4, $5, $6)
         RETURNING id, created_at`,
		entry.AccountID, entry.Seq, entry.Delta, entry.Reason, entry.RelatedOrderID, entry.RunningBalance,
	)
	if err := row.Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return &entry, nil
}

func (r *ledgerRepository) ListByAccount(ctx context.Context, accountID int64) ([]model.LedgerEntry, error) {
	rows, err := r.storage.db(ctx).Query(ctx,
		"SELECT "+ledgerColumns+" FROM ledger_entries WHERE account_id=$1 ORDER BY seq DESC", accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.LedgerEntry
	for rows.Next() {
		var e model.LedgerEntry
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Seq, &e.Delta, &e.Reason, &e.RelatedOrderID, &e.RunningBalance, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *ledgerRepository) NetForOrder(ctx context.Context, accountID, orderID int64) (int64, error) {
	var net int64
	err := r.storage.db(ctx).QueryRow(ctx,
		"SELECT COALESCE(SUM(delta), 0) FROM ledger_entries WHERE account_id=$1 AND related_order_id=$2",
		accountID, orderID,
	).Scan(&net)
	if err != nil {
		return 0, mapError(err)
	}
	return net, nil
}
