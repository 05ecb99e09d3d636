package usecase

import (
	"context"
	"fmt"

	domainErrors "github.com/polkiloo/gopherbistro/internal/domain/errors"
	"github.com/polkiloo/gopherbistro/internal/domain/model"
	"github.com/polkiloo/gopherbistro/internal/domain/repository"
)

// LedgerUseCase owns the append-only points ledger. Balances are never stored
// separately; they are the running balance of the latest entry.
type LedgerUseCase struct {
	accounts repository.AccountRepository
	ledger   repository.LedgerRepository
	outbox   repository.OutboxRepository
	runner   *Runner
}

// NewLedgerUseCase constructs LedgerUseCase.
func NewLedgerUseCase(accounts repository.AccountRepository, ledger repository.LedgerRepository, outbox repository.OutboxRepository, runner *Runner) *LedgerUseCase {
	return &LedgerUseCase{accounts: accounts, ledger: ledger, outbox: outbox, runner: runner}
}

// Credit appends a positive entry.
func (u *LedgerUseCase) Credit(ctx context.Context, accountID, amount int64, reason model.LedgerReason, relatedOrderID *int64) (*model.LedgerEntry, error) {
	var entry *model.LedgerEntry
	err := u.runner.Run(ctx, "ledger credit", []string{accountKey(accountID)}, func(ctx context.Context) error {
		var err error
		entry, err = u.credit(ctx, accountID, amount, reason, relatedOrderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Debit appends a negative entry, refusing to take the balance below zero.
func (u *LedgerUseCase) Debit(ctx context.Context, accountID, amount int64, reason model.LedgerReason, relatedOrderID *int64) (*model.LedgerEntry, error) {
	var entry *model.LedgerEntry
	err := u.runner.Run(ctx, "ledger debit", []string{accountKey(accountID)}, func(ctx context.Context) error {
		var err error
		entry, err = u.debit(ctx, accountID, amount, reason, relatedOrderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// BalanceOf returns the latest running balance, zero for an empty ledger.
func (u *LedgerUseCase) BalanceOf(ctx context.Context, accountID int64) (int64, error) {
	if _, err := u.accounts.GetByID(ctx, accountID); err != nil {
		return 0, err
	}
	head, err := u.ledger.Head(ctx, accountID)
	if err != nil {
		return 0, err
	}
	return head.Balance, nil
}

// History returns ledger entries newest first.
func (u *LedgerUseCase) History(ctx context.Context, accountID int64) ([]model.LedgerEntry, error) {
	if _, err := u.accounts.GetByID(ctx, accountID); err != nil {
		return nil, err
	}
	return u.ledger.ListByAccount(ctx, accountID)
}

func (u *LedgerUseCase) credit(ctx context.Context, accountID, amount int64, reason model.LedgerReason, relatedOrderID *int64) (*model.LedgerEntry, error) {
	if amount <= 0 {
		return nil, domainErrors.ErrInvalidAmount
	}
	return u.post(ctx, accountID, amount, reason, relatedOrderID)
}

func (u *LedgerUseCase) debit(ctx context.Context, accountID, amount int64, reason model.LedgerReason, relatedOrderID *int64) (*model.LedgerEntry, error) {
	if amount <= 0 {
		return nil, domainErrors.ErrInvalidAmount
	}
	return u.post(ctx, accountID, -amount, reason, relatedOrderID)
}

// post must run inside a transaction that already holds the account lock.
func (u *LedgerUseCase) post(ctx context.Context, accountID, delta int64, reason model.LedgerReason, relatedOrderID *int64) (*model.LedgerEntry, error) {
	if !reason.Valid() {
		return nil, fmt.Errorf("%w: unknown reason %q", domainErrors.ErrInvalidAmount, reason)
	}
	if _, err := u.accounts.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	head, err := u.ledger.Head(ctx, accountID)
	if err != nil {
		return nil, err
	}
	balance := head.Balance + delta
	if balance < 0 {
		return nil, domainErrors.ErrInsufficientBalance
	}

	entry, err := u.ledger.Append(ctx, model.LedgerEntry{
		AccountID:      accountID,
		Seq:            head.Seq + 1,
		Delta:          delta,
		Reason:         reason,
		RelatedOrderID: relatedOrderID,
		RunningBalance: balance,
	})
	if err != nil {
		return nil, err
	}

	eventType := model.EventPointsCredited
	if delta < 0 {
		eventType = model.EventPointsDebited
	}
	err = enqueue(ctx, u.outbox, eventType, pointsEvent{
		AccountID:      entry.AccountID,
		EntryID:        entry.ID,
		Seq:            entry.Seq,
		Delta:          entry.Delta,
		Reason:         entry.Reason,
		RelatedOrderID: entry.RelatedOrderID,
		Balance:        entry.RunningBalance,
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}
