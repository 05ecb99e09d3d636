package test

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/gopherbistro/internal/domain/model"
	"github.com/polkiloo/gopherbistro/internal/pkg/geo"
)

// CatalogFacadeStub controls geofence and menu responses.
type CatalogFacadeStub struct {
	CheckFn func(geo.Coordinate) (bool, float64, error)
	MenuFn  func(context.Context) ([]model.MenuItem, error)
}

// CheckGeofence reports every point as eligible by default.
func (s CatalogFacadeStub) CheckGeofence(at geo.Coordinate) (bool, float64, error) {
	if s.CheckFn != nil {
		return s.CheckFn(at)
	}
	return true, 0, nil
}

// Menu returns a single dish by default.
func (s CatalogFacadeStub) Menu(ctx context.Context) ([]model.MenuItem, error) {
	if s.MenuFn != nil {
		return s.MenuFn(ctx)
	}
	return []model.MenuItem{{ID: "soup", Name: "Soup", Price: decimal.RequireFromString("7.00")}}, nil
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	PlaceFn    func(context.Context, *int64, []model.OrderLine, *geo.Coordinate) (*model.PlacementResult, error)
	OrderFn    func(context.Context, int64) (*model.Order, error)
	OrdersFn   func(context.Context, int64) ([]model.Order, error)
	AdvanceFn  func(context.Context, int64, model.OrderStatus) (*model.Order, error)
	CompleteFn func(context.Context, int64) (*model.Order, error)
	CancelFn   func(context.Context, int64) (*model.Order, error)
}

// PlaceOrder delegates to provided function or returns a pending order.
func (s OrderFacadeStub) PlaceOrder(ctx context.Context, accountID *int64, lines []model.OrderLine, at *geo.Coordinate) (*model.PlacementResult, error) {
	if s.PlaceFn != nil {
		return s.PlaceFn(ctx, accountID, lines, at)
	}
	return &model.PlacementResult{Order: &model.Order{ID: 1, AccountID: accountID, Status: model.OrderStatusPending}}, nil
}

// Order returns a pending order with the requested id.
func (s OrderFacadeStub) Order(ctx context.Context, orderID int64) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, orderID)
	}
	return &model.Order{ID: orderID, Status: model.OrderStatusPending}, nil
}

// Orders returns predefined orders for given account.
func (s OrderFacadeStub) Orders(ctx context.Context, accountID int64) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, accountID)
	}
	return []model.Order{{ID: 1, AccountID: &accountID, Status: model.OrderStatusPending}}, nil
}

// AdvanceOrder returns the order in the requested status.
func (s OrderFacadeStub) AdvanceOrder(ctx context.Context, orderID int64, status model.OrderStatus) (*model.Order, error) {
	if s.AdvanceFn != nil {
		return s.AdvanceFn(ctx, orderID, status)
	}
	return &model.Order{ID: orderID, Status: status}, nil
}

// CompleteOrder returns a completed order.
func (s OrderFacadeStub) CompleteOrder(ctx context.Context, orderID int64) (*model.Order, error) {
	if s.CompleteFn != nil {
		return s.CompleteFn(ctx, orderID)
	}
	return &model.Order{ID: orderID, Status: model.OrderStatusCompleted}, nil
}

// CancelOrder returns a cancelled order.
func (s OrderFacadeStub) CancelOrder(ctx context.Context, orderID int64) (*model.Order, error) {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, orderID)
	}
	return &model.Order{ID: orderID, Status: model.OrderStatusCancelled}, nil
}

// ReservationFacadeStub simulates reservation operations.
type ReservationFacadeStub struct {
	CreateFn       func(context.Context, *int64, model.ReservationRequest) (*model.Reservation, error)
	ReservationFn  func(context.Context, int64) (*model.Reservation, error)
	ReservationsFn func(context.Context, int64) ([]model.Reservation, error)
	ConfirmFn      func(context.Context, int64) (*model.Reservation, error)
	CancelFn       func(context.Context, int64) (*model.Reservation, error)
}

// CreateReservation returns a pending reservation.
func (s ReservationFacadeStub) CreateReservation(ctx context.Context, accountID *int64, req model.ReservationRequest) (*model.Reservation, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, accountID, req)
	}
	return &model.Reservation{ID: 1, AccountID: accountID, Contact: req.Contact, PartySize: req.PartySize, Status: model.ReservationStatusPending}, nil
}

// Reservation returns a pending guest reservation.
func (s ReservationFacadeStub) Reservation(ctx context.Context, id int64) (*model.Reservation, error) {
	if s.ReservationFn != nil {
		return s.ReservationFn(ctx, id)
	}
	return &model.Reservation{ID: id, Status: model.ReservationStatusPending}, nil
}

// Reservations returns the account's reservations.
func (s ReservationFacadeStub) Reservations(ctx context.Context, accountID int64) ([]model.Reservation, error) {
	if s.ReservationsFn != nil {
		return s.ReservationsFn(ctx, accountID)
	}
	return []model.Reservation{{ID: 1, AccountID: &accountID, Status: model.ReservationStatusPending}}, nil
}

// ConfirmReservation returns a confirmed reservation.
func (s ReservationFacadeStub) ConfirmReservation(ctx context.Context, id int64) (*model.Reservation, error) {
	if s.ConfirmFn != nil {
		return s.ConfirmFn(ctx, id)
	}
	return &model.Reservation{ID: id, Status: model.ReservationStatusConfirmed}, nil
}

// CancelReservation returns a cancelled reservation.
func (s ReservationFacadeStub) CancelReservation(ctx context.Context, id int64) (*model.Reservation, error) {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, id)
	}
	return &model.Reservation{ID: id, Status: model.ReservationStatusCancelled}, nil
}

// RewardFacadeStub simulates reward operations.
type RewardFacadeStub struct {
	RewardsFn     func(context.Context) ([]model.RedeemableItem, error)
	RedeemFn      func(context.Context, int64, int64) (*model.Redemption, error)
	RedemptionsFn func(context.Context, int64) ([]model.Redemption, error)
	UpdateFn      func(context.Context, int64, model.RewardUpdate) (*model.RedeemableItem, error)
}

// Rewards returns a one item catalog.
func (s RewardFacadeStub) Rewards(ctx context.Context) ([]model.RedeemableItem, error) {
	if s.RewardsFn != nil {
		return s.RewardsFn(ctx)
	}
	return []model.RedeemableItem{{ID: 1, Name: "Mug", PointsCost: 300, Category: model.RewardCategoryMerchandise, InStock: true}}, nil
}

// Redeem returns a redemption of the requested item.
func (s RewardFacadeStub) Redeem(ctx context.Context, accountID, itemID int64) (*model.Redemption, error) {
	if s.RedeemFn != nil {
		return s.RedeemFn(ctx, accountID, itemID)
	}
	return &model.Redemption{ID: 1, AccountID: accountID, ItemID: itemID, ItemName: "Mug", PointsSpent: 300}, nil
}

// Redemptions returns preconfigured history.
func (s RewardFacadeStub) Redemptions(ctx context.Context, accountID int64) ([]model.Redemption, error) {
	if s.RedemptionsFn != nil {
		return s.RedemptionsFn(ctx, accountID)
	}
	return []model.Redemption{{ID: 1, AccountID: accountID, ItemID: 1, ItemName: "Mug", PointsSpent: 300}}, nil
}

// UpdateReward applies the update to a default item.
func (s RewardFacadeStub) UpdateReward(ctx context.Context, itemID int64, update model.RewardUpdate) (*model.RedeemableItem, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, itemID, update)
	}
	item := &model.RedeemableItem{ID: itemID, Name: "Mug", PointsCost: 300, Category: model.RewardCategoryMerchandise, InStock: true}
	if update.PointsCost != nil {
		item.PointsCost = *update.PointsCost
	}
	if update.InStock != nil {
		item.InStock = *update.InStock
	}
	return item, nil
}

// BistroFacadeStub aggregates facade dependencies for HTTP layer tests.
type BistroFacadeStub struct {
	AuthFacadeStub
	CatalogFacadeStub
	OrderFacadeStub
	ReservationFacadeStub
	RewardFacadeStub
}

// OutboxFacadeStub mimics dispatcher interactions with the application facade.
type OutboxFacadeStub struct {
	Batches   [][]model.Event
	ClaimFn   func(context.Context, int) ([]model.Event, error)
	PublishFn func(context.Context, model.Event) error
	Published []model.Event
	Acked     []int64
	Nacked    []int64

	mu         sync.Mutex
	claimCalls int32
}

// ClaimEvents returns configured batches sequentially.
func (s *OutboxFacadeStub) ClaimEvents(ctx context.Context, limit int) ([]model.Event, error) {
	if s.ClaimFn != nil {
		return s.ClaimFn(ctx, limit)
	}
	idx := int(atomic.AddInt32(&s.claimCalls, 1)) - 1
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < len(s.Batches) {
		return s.Batches[idx], nil
	}
	return nil, nil
}

// PublishEvent records the event unless the override fails.
func (s *OutboxFacadeStub) PublishEvent(ctx context.Context, event model.Event) error {
	if s.PublishFn != nil {
		if err := s.PublishFn(ctx, event); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Published = append(s.Published, event)
	return nil
}

// AckEvent records a delivered event.
func (s *OutboxFacadeStub) AckEvent(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Acked = append(s.Acked, id)
	return nil
}

// NackEvent records a failed event.
func (s *OutboxFacadeStub) NackEvent(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Nacked = append(s.Nacked, id)
	return nil
}

// Lock exposes the internal mutex for assertions.
func (s *OutboxFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases the internal mutex.
func (s *OutboxFacadeStub) Unlock() { s.mu.Unlock() }
