package app

import (
	"context"

	"github.com/polkiloo/gopherbistro/internal/adapter/notify"
	"github.com/polkiloo/gopherbistro/internal/domain/model"
	"github.com/polkiloo/gopherbistro/internal/domain/repository"
	"github.com/polkiloo/gopherbistro/internal/pkg/geo"
	"github.com/polkiloo/gopherbistro/internal/usecase"
)

// BistroFacade is the single entry point used by HTTP handlers and the outbox dispatcher.
type BistroFacade struct {
	auth         *usecase.AuthUseCase
	ledger       *usecase.LedgerUseCase
	orders       *usecase.OrderUseCase
	reservations *usecase.ReservationUseCase
	redemptions  *usecase.RedemptionUseCase
	outbox       *usecase.OutboxUseCase
	menu         repository.MenuCatalog
	zone         geo.Zone
	publisher    notify.Publisher
}

// FacadeDeps lists collaborators of BistroFacade.
type FacadeDeps struct {
	Auth         *usecase.AuthUseCase
	Ledger       *usecase.LedgerUseCase
	Orders       *usecase.OrderUseCase
	Reservations *usecase.ReservationUseCase
	Redemptions  *usecase.RedemptionUseCase
	Outbox       *usecase.OutboxUseCase
	Menu         repository.MenuCatalog
	Zone         geo.Zone
	Publisher    notify.Publisher
}

func NewBistroFacade(d FacadeDeps) *BistroFacade {
	return &BistroFacade{
		auth:         d.Auth,
		ledger:       d.Ledger,
		orders:       d.Orders,
		reservations: d.Reservations,
		redemptions:  d.Redemptions,
		outbox:       d.Outbox,
		menu:         d.Menu,
		zone:         d.Zone,
		publisher:    d.Publisher,
	}
}

func (f *BistroFacade) Register(ctx context.Context, login, password, referralCode string) (*model.Account, string, error) {
	return f.auth.Register(ctx, login, password, referralCode)
}

func (f *BistroFacade) Authenticate(ctx context.Context, login, password string) (*model.Account, string, error) {
	return f.auth.Authenticate(ctx, login, password)
}

func (f *BistroFacade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

func (f *BistroFacade) Profile(ctx context.Context, accountID int64) (*model.AccountProfile, error) {
	return f.auth.Profile(ctx, accountID)
}

func (f *BistroFacade) Ledger(ctx context.Context, accountID int64) ([]model.LedgerEntry, error) {
	return f.ledger.History(ctx, accountID)
}

// CheckGeofence reports whether at lies inside the venue radius and how far it is.
func (f *BistroFacade) CheckGeofence(at geo.Coordinate) (bool, float64, error) {
	return geo.Check(at, f.zone)
}

func (f *BistroFacade) Menu(ctx context.Context) ([]model.MenuItem, error) {
	return f.menu.ListMenu(ctx)
}

func (f *BistroFacade) PlaceOrder(ctx context.Context, accountID *int64, lines []model.OrderLine, at *geo.Coordinate) (*model.PlacementResult, error) {
	return f.orders.PlaceOrder(ctx, accountID, lines, at)
}

func (f *BistroFacade) Order(ctx context.Context, orderID int64) (*model.Order, error) {
	return f.orders.Get(ctx, orderID)
}

func (f *BistroFacade) Orders(ctx context.Context, accountID int64) ([]model.Order, error) {
	return f.orders.ListByAccount(ctx, accountID)
}

func (f *BistroFacade) AdvanceOrder(ctx context.Context, orderID int64, status model.OrderStatus) (*model.Order, error) {
	return f.orders.Advance(ctx, orderID, status)
}

func (f *BistroFacade) CompleteOrder(ctx context.Context, orderID int64) (*model.Order, error) {
	return f.orders.Complete(ctx, orderID)
}

func (f *BistroFacade) CancelOrder(ctx context.Context, orderID int64) (*model.Order, error) {
	return f.orders.Cancel(ctx, orderID)
}

func (f *BistroFacade) CreateReservation(ctx context.Context, accountID *int64, req model.ReservationRequest) (*model.Reservation, error) {
	return f.reservations.Create(ctx, accountID, req)
}

func (f *BistroFacade) Reservation(ctx context.Context, id int64) (*model.Reservation, error) {
	return f.reservations.Get(ctx, id)
}

func (f *BistroFacade) Reservations(ctx context.Context, accountID int64) ([]model.Reservation, error) {
	return f.reservations.ListByAccount(ctx, accountID)
}

func (f *BistroFacade) ConfirmReservation(ctx context.Context, id int64) (*model.Reservation, error) {
	return f.reservations.Confirm(ctx, id)
}

func (f *BistroFacade) CancelReservation(ctx context.Context, id int64) (*model.Reservation, error) {
	return f.reservations.Cancel(ctx, id)
}

func (f *BistroFacade) Rewards(ctx context.Context) ([]model.RedeemableItem, error) {
	return f.redemptions.Rewards(ctx)
}

func (f *BistroFacade) Redeem(ctx context.Context, accountID, itemID int64) (*model.Redemption, error) {
	return f.redemptions.Redeem(ctx, accountID, itemID)
}

func (f *BistroFacade) Redemptions(ctx context.Context, accountID int64) ([]model.Redemption, error) {
	return f.redemptions.History(ctx, accountID)
}

func (f *BistroFacade) UpdateReward(ctx context.Context, itemID int64, update model.RewardUpdate) (*model.RedeemableItem, error) {
	return f.redemptions.UpdateReward(ctx, itemID, update)
}

func (f *BistroFacade) ClaimEvents(ctx context.Context, limit int) ([]model.Event, error) {
	return f.outbox.Claim(ctx, limit)
}

func (f *BistroFacade) PublishEvent(ctx context.Context, evt model.Event) error {
	return f.publisher.Publish(ctx, evt)
}

func (f *BistroFacade) AckEvent(ctx context.Context, id int64) error {
	return f.outbox.Ack(ctx, id)
}

func (f *BistroFacade) NackEvent(ctx context.Context, id int64) error {
	return f.outbox.Nack(ctx, id)
}
