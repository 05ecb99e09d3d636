package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/gopherbistro/internal/domain/errors"
	"github.com/polkiloo/gopherbistro/internal/domain/model"
	"github.com/polkiloo/gopherbistro/internal/domain/repository"
	"github.com/polkiloo/gopherbistro/internal/pkg/geo"
)

// maxOrderTotal is the first amount that no longer fits NUMERIC(12,2).
var maxOrderTotal = decimal.New(1, 10)

// OrderUseCase drives the order state machine and the points it earns.
type OrderUseCase struct {
	orders   repository.OrderRepository
	accounts repository.AccountRepository
	menu     repository.MenuCatalog
	outbox   repository.OutboxRepository
	ledger   *LedgerUseCase
	runner   *Runner
	zone     geo.Zone
	points   PointsPolicy
	referral ReferralPolicy
	logger   *slog.Logger
}

// OrderDeps groups OrderUseCase collaborators.
type OrderDeps struct {
	Orders   repository.OrderRepository
	Accounts repository.AccountRepository
	Menu     repository.MenuCatalog
	Outbox   repository.OutboxRepository
	Ledger   *LedgerUseCase
	Runner   *Runner
	Zone     geo.Zone
	Points   PointsPolicy
	Referral ReferralPolicy
	Logger   *slog.Logger
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(d OrderDeps) *OrderUseCase {
	return &OrderUseCase{
		orders:   d.Orders,
		accounts: d.Accounts,
		menu:     d.Menu,
		outbox:   d.Outbox,
		ledger:   d.Ledger,
		runner:   d.Runner,
		zone:     d.Zone,
		points:   d.Points,
		referral: d.Referral,
		logger:   d.Logger,
	}
}

// PlaceOrder prices lines from the menu, records the geofence result when a
// coordinate is supplied and stores a pending order. A failed geofence check
// only raises the warning flag.
func (u *OrderUseCase) PlaceOrder(ctx context.Context, accountID *int64, lines []model.OrderLine, at *geo.Coordinate) (*model.PlacementResult, error) {
	if len(lines) == 0 {
		return nil, domainErrors.ErrEmptyOrder
	}
	for _, line := range lines {
		if line.Quantity < 1 || line.Quantity > math.MaxInt32 {
			return nil, fmt.Errorf("%w: %s x%d", domainErrors.ErrInvalidQuantity, line.MenuItemID, line.Quantity)
		}
	}

	var passed *bool
	if at != nil {
		eligible, err := geo.IsEligible(*at, u.zone)
		if err != nil {
			return nil, err
		}
		passed = &eligible
	}

	if accountID != nil {
		if _, err := u.accounts.GetByID(ctx, *accountID); err != nil {
			return nil, err
		}
	}

	items, total, err := u.price(ctx, lines)
	if err != nil {
		return nil, err
	}

	var placed *model.Order
	err = u.runner.Run(ctx, "place order", nil, func(ctx context.Context) error {
		order, err := u.orders.Create(ctx, model.Order{
			AccountID:           accountID,
			Items:               items,
			Total:               total,
			Status:              model.OrderStatusPending,
			GeofenceCheckPassed: passed,
		})
		if err != nil {
			return err
		}
		placed = order
		return enqueue(ctx, u.outbox, model.EventOrderPlaced, newOrderEvent(order, ""))
	})
	if err != nil {
		return nil, err
	}

	return &model.PlacementResult{Order: placed, GeofenceWarning: passed != nil && !*passed}, nil
}

func (u *OrderUseCase) price(ctx context.Context, lines []model.OrderLine) ([]model.LineItem, decimal.Decimal, error) {
	items := make([]model.LineItem, 0, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		menuItem, err := u.menu.GetMenuItem(ctx, line.MenuItemID)
		if err != nil {
			if errors.Is(err, domainErrors.ErrNotFound) {
				return nil, decimal.Zero, fmt.Errorf("%w: %s", domainErrors.ErrUnknownMenuItem, line.MenuItemID)
			}
			return nil, decimal.Zero, err
		}
		if menuItem.Price.IsNegative() {
			return nil, decimal.Zero, fmt.Errorf("%w: negative price for %s", domainErrors.ErrInvalidAmount, menuItem.ID)
		}
		item := model.LineItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			UnitPrice:  menuItem.Price,
			Quantity:   line.Quantity,
		}
		total = total.Add(item.Extension())
		if total.GreaterThanOrEqual(maxOrderTotal) {
			return nil, decimal.Zero, fmt.Errorf("%w: order total exceeds %s", domainErrors.ErrInvalidAmount, maxOrderTotal)
		}
		items = append(items, item)
	}
	return items, total, nil
}

// Advance moves an order to target. Completion and cancellation are delegated
// so their side effects always apply.
func (u *OrderUseCase) Advance(ctx context.Context, orderID int64, target model.OrderStatus) (*model.Order, error) {
	switch target {
	case model.OrderStatusCompleted:
		return u.Complete(ctx, orderID)
	case model.OrderStatusCancelled:
		return u.Cancel(ctx, orderID)
	}
	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domainErrors.ErrInvalidTransition, target)
	}

	var advanced *model.Order
	err := u.runner.Run(ctx, "advance order", []string{orderKey(orderID)}, func(ctx context.Context) error {
		order, err := u.orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if !order.Status.CanTransition(target) {
			return u.rejectTransition(order, target)
		}
		updated, err := u.orders.UpdateStatus(ctx, orderID, order.Status, target)
		if err != nil {
			return err
		}
		advanced = updated
		return enqueue(ctx, u.outbox, model.EventOrderStatusChanged, newOrderEvent(updated, order.Status))
	})
	if err != nil {
		return nil, err
	}
	return advanced, nil
}

// Complete finishes a ready order, credits purchase points to the owner and, on the
// owner's first completed order, pays the referrer. Completing twice is a no-op.
func (u *OrderUseCase) Complete(ctx context.Context, orderID int64) (*model.Order, error) {
	keys, err := u.lockKeys(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var completed *model.Order
	err = u.runner.Run(ctx, "complete order", keys, func(ctx context.Context) error {
		order, err := u.orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status == model.OrderStatusCompleted {
			completed = order
			return nil
		}
		if order.Status != model.OrderStatusReady {
			return u.rejectTransition(order, model.OrderStatusCompleted)
		}

		points := u.points.PointsFor(order.Total)
		updated, err := u.orders.MarkCompleted(ctx, orderID, points)
		if err != nil {
			if errors.Is(err, domainErrors.ErrInvalidTransition) {
				if current, getErr := u.orders.GetByID(ctx, orderID); getErr == nil && current.Status == model.OrderStatusCompleted {
					completed = current
					return nil
				}
			}
			return err
		}

		if updated.AccountID != nil {
			if err := u.awardPoints(ctx, *updated.AccountID, orderID, points); err != nil {
				return err
			}
		}

		completed = updated
		return enqueue(ctx, u.outbox, model.EventOrderCompleted, newOrderEvent(updated, order.Status))
	})
	if err != nil {
		return nil, err
	}
	return completed, nil
}

func (u *OrderUseCase) awardPoints(ctx context.Context, accountID, orderID, points int64) error {
	if points > 0 {
		if _, err := u.ledger.credit(ctx, accountID, points, model.ReasonOrderPurchase, &orderID); err != nil {
			return err
		}
	}

	first, err := u.accounts.MarkFirstOrderCompleted(ctx, accountID)
	if err != nil || !first {
		return err
	}
	acct, err := u.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if acct.ReferredBy == nil || u.referral.FirstOrderBonus <= 0 {
		return nil
	}
	_, err = u.ledger.credit(ctx, *acct.ReferredBy, u.referral.FirstOrderBonus, model.ReasonReferralFirstOrder, &orderID)
	return err
}

// Cancel is allowed from pending or preparing. Any purchase points already
// credited for the order are reversed.
func (u *OrderUseCase) Cancel(ctx context.Context, orderID int64) (*model.Order, error) {
	keys, err := u.lockKeys(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var cancelled *model.Order
	err = u.runner.Run(ctx, "cancel order", keys, func(ctx context.Context) error {
		order, err := u.orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if !order.Status.CanTransition(model.OrderStatusCancelled) {
			return u.rejectTransition(order, model.OrderStatusCancelled)
		}
		updated, err := u.orders.UpdateStatus(ctx, orderID, order.Status, model.OrderStatusCancelled)
		if err != nil {
			return err
		}

		if updated.AccountID != nil {
			net, err := u.ledger.ledger.NetForOrder(ctx, *updated.AccountID, orderID)
			if err != nil {
				return err
			}
			if net > 0 {
				if _, err := u.ledger.debit(ctx, *updated.AccountID, net, model.ReasonManualAdjustment, &orderID); err != nil {
					return err
				}
			}
		}

		cancelled = updated
		return enqueue(ctx, u.outbox, model.EventOrderCancelled, newOrderEvent(updated, order.Status))
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// Get returns an order by id.
func (u *OrderUseCase) Get(ctx context.Context, orderID int64) (*model.Order, error) {
	return u.orders.GetByID(ctx, orderID)
}

// ListByAccount returns the account's orders newest first.
func (u *OrderUseCase) ListByAccount(ctx context.Context, accountID int64) ([]model.Order, error) {
	return u.orders.ListByAccount(ctx, accountID)
}

// lockKeys resolves every ledger a terminal transition may touch. Ownership and
// referral links never change, so reading them before locking is safe.
func (u *OrderUseCase) lockKeys(ctx context.Context, orderID int64) ([]string, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	keys := []string{orderKey(orderID)}
	if order.AccountID == nil {
		return keys, nil
	}
	keys = append(keys, accountKey(*order.AccountID))
	acct, err := u.accounts.GetByID(ctx, *order.AccountID)
	if err != nil {
		return nil, err
	}
	if acct.ReferredBy != nil {
		keys = append(keys, accountKey(*acct.ReferredBy))
	}
	return keys, nil
}

func (u *OrderUseCase) rejectTransition(order *model.Order, target model.OrderStatus) error {
	u.logger.Warn("order transition rejected",
		slog.Int64("order_id", order.ID),
		slog.String("from", string(order.Status)),
		slog.String("to", string(target)),
	)
	return fmt.Errorf("%w: %s -> %s", domainErrors.ErrInvalidTransition, order.Status, target)
}
