package repository

import (
	"context"

	"github.com/polkiloo/gopherbistro/internal/domain/model"
)

// ReservationRepository stores table reservations.
type ReservationRepository interface {
	Create(ctx context.Context, reservation model.Reservation) (*model.Reservation, error)
	GetByID(ctx context.Context, id int64) (*model.Reservation, error)
	ListByAccount(ctx context.Context, accountID int64) ([]model.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, from, to model.ReservationStatus) (*model.Reservation, error)
}
