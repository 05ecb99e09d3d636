package repository

import (
	"context"

	"github.com/polkiloo/gopherbistro/internal/domain/model"
)

// MenuCatalog resolves authoritative menu prices.
type MenuCatalog interface {
	GetMenuItem(ctx context.Context, id string) (*model.MenuItem, error)
	ListMenu(ctx context.Context) ([]model.MenuItem, error)
	UpsertMenuItem(ctx context.Context, item model.MenuItem) error
}

// MenuInvalidator is implemented by catalogs that cache reads. Writers call it
// once the transaction holding their upserts has committed.
type MenuInvalidator interface {
	InvalidateMenu(ctx context.Context, ids ...string)
}

// RewardRepository manages redeemable items.
type RewardRepository interface {
	Get(ctx context.Context, id int64) (*model.RedeemableItem, error)
	List(ctx context.Context) ([]model.RedeemableItem, error)
	Update(ctx context.Context, id int64, update model.RewardUpdate) (*model.RedeemableItem, error)
	Upsert(ctx context.Context, item model.RedeemableItem) error
}

// RedemptionRepository stores the redemption history.
type RedemptionRepository interface {
	Create(ctx context.Context, redemption model.Redemption) (*model.Redemption, error)
	ListByAccount(ctx context.Context, accountID int64) ([]model.Redemption, error)
}
