package handlers

import (
	"context"

	"github.com/polkiloo/gopherbistro/internal/domain/model"
	"github.com/polkiloo/gopherbistro/internal/pkg/geo"
)

// AuthFacade describes account capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password, referralCode string) (*model.Account, string, error)
	Authenticate(ctx context.Context, login, password string) (*model.Account, string, error)
	ParseToken(token string) (int64, error)
	Profile(ctx context.Context, accountID int64) (*model.AccountProfile, error)
	Ledger(ctx context.Context, accountID int64) ([]model.LedgerEntry, error)
}

// CatalogFacade exposes the geofence check and the menu.
type CatalogFacade interface {
	CheckGeofence(at geo.Coordinate) (bool, float64, error)
	Menu(ctx context.Context) ([]model.MenuItem, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	PlaceOrder(ctx context.Context, accountID *int64, lines []model.OrderLine, at *geo.Coordinate) (*model.PlacementResult, error)
	Order(ctx context.Context, orderID int64) (*model.Order, error)
	Orders(ctx context.Context, accountID int64) ([]model.Order, error)
	AdvanceOrder(ctx context.Context, orderID int64, status model.OrderStatus) (*model.Order, error)
	CompleteOrder(ctx context.Context, orderID int64) (*model.Order, error)
	CancelOrder(ctx context.Context, orderID int64) (*model.Order, error)
}

// ReservationFacade encapsulates table bookings.
type ReservationFacade interface {
	CreateReservation(ctx context.Context, accountID *int64, req model.ReservationRequest) (*model.Reservation, error)
	Reservation(ctx context.Context, id int64) (*model.Reservation, error)
	Reservations(ctx context.Context, accountID int64) ([]model.Reservation, error)
	ConfirmReservation(ctx context.Context, id int64) (*model.Reservation, error)
	CancelReservation(ctx context.Context, id int64) (*model.Reservation, error)
}

// RewardFacade provides redemption operations.
type RewardFacade interface {
	Rewards(ctx context.Context) ([]model.RedeemableItem, error)
	Redeem(ctx context.Context, accountID, itemID int64) (*model.Redemption, error)
	Redemptions(ctx context.Context, accountID int64) ([]model.Redemption, error)
	UpdateReward(ctx context.Context, itemID int64, update model.RewardUpdate) (*model.RedeemableItem, error)
}

// StaffFacade is the subset of operations reserved for staff.
type StaffFacade interface {
	AdvanceOrder(ctx context.Context, orderID int64, status model.OrderStatus) (*model.Order, error)
	CompleteOrder(ctx context.Context, orderID int64) (*model.Order, error)
	CancelOrder(ctx context.Context, orderID int64) (*model.Order, error)
	ConfirmReservation(ctx context.Context, id int64) (*model.Reservation, error)
	UpdateReward(ctx context.Context, itemID int64, update model.RewardUpdate) (*model.RedeemableItem, error)
}

// BistroFacade aggregates the full set of operations used across handlers.
type BistroFacade interface {
	AuthFacade
	CatalogFacade
	OrderFacade
	ReservationFacade
	RewardFacade
}
