package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/gopherbistro/internal/domain/errors"
	"github.com/polkiloo/gopherbistro/internal/domain/model"
)

const orderColumns = "id, account_id, total::text, status, geofence_check_passed, points_earned, placed_at, updated_at"

type orderRepository struct {
	storage *Storage
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		order model.Order
		total string
	)
	if err := row.Scan(
		&order.ID,
		&order.AccountID,
		&total,
		&order.Status,
		&order.GeofenceCheckPassed,
		&order.PointsEarned,
		&order.PlacedAt,
		&order.UpdatedAt,
	); err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("parse order total: %w", err)
	}
	order.Total = amount
	return &order, nil
}

// Create stores the order header and its line items atomically.
func (r *orderRepository) Create(ctx context.Context, order model.Order) (*model.Order, error) {
	err := r.storage.WithinTransaction(ctx, func(ctx context.Context) error {
		db := r.storage.db(ctx)
		row := db.QueryRow(ctx,
			`INSERT INTO orders (account_id, total, status, geofence_check_passed)
             VALUES ($1, $2::numeric, $3, $4)
             RETURNING id, points_earned, placed_at, updated_at`,
			order.AccountID, order.Total.StringFixed(2), order.Status, order.GeofenceCheckPassed,
		)
		if err := row.Scan(&order.ID, &order.PointsEarned, &order.PlacedAt, &order.UpdatedAt); err != nil {
			return mapError(err)
		}
		for i, item := range order.Items {
			if _, err := db.Exec(ctx,
				`INSERT INTO order_items (order_id, line_no, menu_item_id, name, unit_price, quantity)
                 VALUES ($1, $2, $3, $4, $5::numeric, $6)`,
				order.ID, i+1, item.MenuItemID, item.Name, item.UnitPrice.StringFixed(2), item.Quantity,
			); err != nil {
				return mapError(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	order, err := scanOrder(r.storage.db(ctx).QueryRow(ctx, "SELECT "+orderColumns+" FROM orders WHERE id=$1", id))
	if err != nil {
		return nil, mapError(err)
	}
	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ListByAccount(ctx context.Context, accountID int64) ([]model.Order, error) {
	rows, err := r.storage.db(ctx).Query(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE account_id=$1 ORDER BY placed_at DESC, id DESC", accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *orderRepository) loadItems(ctx context.Context, order *model.Order) error {
	rows, err := r.storage.db(ctx).Query(ctx,
		"SELECT menu_item_id, name, unit_price::text, quantity FROM order_items WHERE order_id=$1 ORDER BY line_no", order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	order.Items = order.Items[:0]
	for rows.Next() {
		var (
			item  model.LineItem
			price string
		)
		if err := rows.Scan(&item.MenuItemID, &item.Name, &price, &item.Quantity); err != nil {
			return err
		}
		if item.UnitPrice, err = decimal.NewFromString(price); err != nil {
			return fmt.Errorf("parse unit price: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	return rows.Err()
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, from, to model.OrderStatus) (*model.Order, error) {
	row := r.storage.db(ctx).QueryRow(ctx,
		"UPDATE orders SET status=$3, updated_at=NOW() WHERE id=$1 AND status=$2 RETURNING "+orderColumns,
		id, from, to,
	)
	return r.afterUpdate(ctx, id, row)
}

func (r *orderRepository) MarkCompleted(ctx context.Context, id int64, pointsEarned int64) (*model.Order, error) {
	row := r.storage.db(ctx).QueryRow(ctx,
		"UPDATE orders SET status='completed', points_earned=$2, updated_at=NOW() WHERE id=$1 AND status='ready' RETURNING "+orderColumns,
		id, pointsEarned,
	)
	return r.afterUpdate(ctx, id, row)
}

// afterUpdate distinguishes a missing order from one whose status moved on.
func (r *orderRepository) afterUpdate(ctx context.Context, id int64, row pgx.Row) (*model.Order, error) {
	order, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, domainErrors.ErrInvalidTransition
	}
	if err != nil {
		return nil, mapError(err)
	}
	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}
