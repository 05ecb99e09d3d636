package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/polkiloo/gopherbistro/internal/domain/model"
)

const accountColumns = "id, login, password_hash, referral_code, referred_by, first_order_completed, created_at"

type accountRepository struct {
	storage *Storage
}

func scanAccount(row pgx.Row) (*model.Account, error) {
	var account model.Account
	if err := row.Scan(
		&account.ID,
		&account.Login,
		&account.PasswordHash,
		&account.ReferralCode,
		&account.ReferredBy,
		&account.FirstOrderCompleted,
		&account.CreatedAt,
	); err != nil {
		return nil, mapError(err)
	}
	return &account, nil
}

func (r *accountRepository) Create(ctx context.Context, account model.Account) (*model.Account, error) {
	row := r.storage.db(ctx).QueryRow(ctx,
		`INSERT INTO accounts (login, password_hash, referral_code, referred_by)
         VALUES ($1, $2, $3, $4)
         RETURNING id, first_order_completed, created_at`,
		account.Login, account.PasswordHash, account.ReferralCode, account.ReferredBy,
	)
	if err := row.Scan(&account.ID, &account.FirstOrderCompleted, &account.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return &account, nil
}

func (r *accountRepository) GetByLogin(ctx context.Context, login string) (*model.Account, error) {
	return scanAccount(r.storage.db(ctx).QueryRow(ctx, "SELECT "+accountColumns+" FROM accounts WHERE login=$1", login))
}

func (r *accountRepository) GetByID(ctx context.Context, id int64) (*model.Account, error) {
	return scanAccount(r.storage.db(ctx).QueryRow(ctx, "SELECT "+accountColumns+" FROM accounts WHERE id=$1", id))
}

func (r *accountRepository) GetByReferralCode(ctx context.Context, code string) (*model.Account, error) {
	return scanAccount(r.storage.db(ctx).QueryRow(ctx, "SELECT "+accountColumns+" FROM accounts WHERE referral_code=$1", code))
}

func (r *accountRepository) MarkFirstOrderCompleted(ctx context.Context, id int64) (bool, error) {
	tag, err := r.storage.db(ctx).Exec(ctx,
		"UPDATE accounts SET first_order_completed=TRUE WHERE id=$1 AND NOT first_order_completed", id)
	if err != nil {
		return false, mapError(err)
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}
