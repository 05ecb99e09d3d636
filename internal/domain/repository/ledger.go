package repository

import (
	"context"

	"github.com/polkiloo/gopherbistro/internal/domain/model"
)

// LedgerRepository stores the append-only points ledger.
type LedgerRepository interface {
	Head(ctx context.Context, accountID int64) (model.LedgerHead, error)
	// Append inserts entry at entry.Seq and fails with ErrConflict when that seq is taken.
	Append(ctx context.Context, entry model.LedgerEntry) (*model.LedgerEntry, error)
	ListByAccount(ctx context.Context, accountID int64) ([]model.LedgerEntry, error)
	NetForOrder(ctx context.Context, accountID, orderID int64) (int64, error)
}
