package repository

import (
	"context"

	"github.com/polkiloo/gopherbistro/internal/domain/model"
)

// AccountRepository describes persistence operations for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account model.Account) (*model.Account, error)
	GetByLogin(ctx context.Context, login string) (*model.Account, error)
	GetByID(ctx context.Context, id int64) (*model.Account, error)
	GetByReferralCode(ctx context.Context, code string) (*model.Account, error)
	// MarkFirstOrderCompleted flips the flag once and reports whether this call flipped it.
	MarkFirstOrderCompleted(ctx context.Context, id int64) (bool, error)
}
