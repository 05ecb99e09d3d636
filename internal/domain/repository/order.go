package repository

import (
	"context"

	"github.com/polkiloo/gopherbistro/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, order model.Order) (*model.Order, error)
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	ListByAccount(ctx context.Context, accountID int64) ([]model.Order, error)
	// UpdateStatus moves the order from -> to and fails with ErrInvalidTransition when
	// the stored status is no longer from.
	UpdateStatus(ctx context.Context, id int64, from, to model.OrderStatus) (*model.Order, error)
	// MarkCompleted moves a ready order to completed recording points earned.
	MarkCompleted(ctx context.Context, id int64, pointsEarned int64) (*model.Order, error)
}
