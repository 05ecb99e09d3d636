package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/gopherbistro/internal/domain/model"
)

type menuRepository struct {
	storage *Storage
}

func (r *menuRepository) GetMenuItem(ctx context.Context, id string) (*model.MenuItem, error) {
	var (
		item  model.MenuItem
		price string
	)
	err := r.storage.db(ctx).QueryRow(ctx, "SELECT id, name, price::text FROM menu_items WHERE id=$1", id).
		Scan(&item.ID, &item.Name, &price)
	if err != nil {
		return nil, mapError(err)
	}
	if item.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("parse menu price: %w", err)
	}
	return &item, nil
}

func (r *menuRepository) ListMenu(ctx context.Context) ([]model.MenuItem, error) {
	rows, err := r.storage.db(ctx).Query(ctx, "SELECT id, name, price::text FROM menu_items ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.MenuItem
	for rows.Next() {
		var (
			item  model.MenuItem
			price string
		)
		if err := rows.Scan(&item.ID, &item.Name, &price); err != nil {
			return nil, err
		}
		if item.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("parse menu price: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *menuRepository) UpsertMenuItem(ctx context.Context, item model.MenuItem) error {
	_, err := r.storage.db(ctx).Exec(ctx,
		`INSERT INTO menu_items (id, name, price) VALUES ($1, $2, $3::numeric)
         ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name, price=EXCLUDED.price`,
		item.ID, item.Name, item.Price.StringFixed(2),
	)
	return mapError(err)
}

const rewardColumns = "id, name, points_cost, category, in_stock"

type rewardRepository struct {
	storage *Storage
}

func (r *rewardRepository) Get(ctx context.Context, id int64) (*model.RedeemableItem, error) {
	var item model.RedeemableItem
	err := r.storage.db(ctx).QueryRow(ctx, "SELECT "+rewardColumns+" FROM redeemable_items WHERE id=$1", id).
		Scan(&item.ID, &item.Name, &item.PointsCost, &item.Category, &item.InStock)
	if err != nil {
		return nil, mapError(err)
	}
	return &item, nil
}

func (r *rewardRepository) List(ctx context.Context) ([]model.RedeemableItem, error) {
	rows, err := r.storage.db(ctx).Query(ctx, "SELECT "+rewardColumns+" FROM redeemable_items ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.RedeemableItem
	for rows.Next() {
		var item model.RedeemableItem
		if err := rows.Scan(&item.ID, &item.Name, &item.PointsCost, &item.Category, &item.InStock); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *rewardRepository) Update(ctx context.Context, id int64, update model.RewardUpdate) (*model.RedeemableItem, error) {
	var item model.RedeemableItem
	err := r.storage.db(ctx).QueryRow(ctx,
		`UPDATE redeemable_items SET points_cost=COALESCE($2, points_cost), in_stock=COALESCE($3, in_stock)
         WHERE id=$1 RETURNING `+rewardColumns,
		id, update.PointsCost, update.InStock,
	).Scan(&item.ID, &item.Name, &item.PointsCost, &item.Category, &item.InStock)
	if err != nil {
		return nil, mapError(err)
	}
	return &item, nil
}

func (r *rewardRepository) Upsert(ctx context.Context, item model.RedeemableItem) error {
	_, err := r.storage.db(ctx).Exec(ctx,
		`INSERT INTO redeemable_items (id, name, points_cost, category, in_stock) VALUES ($1, $2, $3, $4, $5)
         ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name, points_cost=EXCLUDED.points_cost,
         category=EXCLUDED.category, in_stock=EXCLUDED.in_stock`,
		item.ID, item.Name, item.PointsCost, item.Category, item.InStock,
	)
	return mapError(err)
}

type redemptionRepository struct {
	storage *Storage
}

func (r *redemptionRepository) Create(ctx context.Context, redemption model.Redemption) (*model.Redemption, error) {
	err := r.storage.db(ctx).QueryRow(ctx,
		`INSERT INTO redemptions (account_id, item_id, item_name, points_spent, ledger_entry_id)
         VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		redemption.AccountID, redemption.ItemID, redemption.ItemName, redemption.PointsSpent, redemption.LedgerEntryID,
	).Scan(&redemption.ID, &redemption.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &redemption, nil
}

func (r *redemptionRepository) ListByAccount(ctx context.Context, accountID int64) ([]model.Redemption, error) {
	rows, err := r.storage.db(ctx).Query(ctx,
		`SELECT id, account_id, item_id, item_name, points_spent, ledger_entry_id, created_at
         FROM redemptions WHERE account_id=$1 ORDER BY created_at DESC, id DESC`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var redemptions []model.Redemption
	for rows.Next() {
		var rd model.Redemption
		if err := rows.Scan(&rd.ID, &rd.AccountID, &rd.ItemID, &rd.ItemName, &rd.PointsSpent, &rd.LedgerEntryID, &rd.CreatedAt); err != nil {
			return nil, err
		}
		redemptions = append(redemptions, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return redemptions, nil
}
