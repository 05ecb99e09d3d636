package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/gopherbistro/internal/domain/model"
	pkgAuth "github.com/polkiloo/gopherbistro/internal/pkg/auth"
	"github.com/polkiloo/gopherbistro/internal/pkg/geo"
	"github.com/polkiloo/gopherbistro/internal/pkg/keylock"
	testhelpers "github.com/polkiloo/gopherbistro/internal/test"
)

var (
	venue         = geo.Coordinate{Lat: 40.7128, Lon: -74.0060}
	reservationAt = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
)

type fixture struct {
	store        *testhelpers.MemoryStore
	logger       *slog.Logger
	runner       *Runner
	ledger       *LedgerUseCase
	auth         *AuthUseCase
	orders       *OrderUseCase
	reservations *ReservationUseCase
	redemptions  *RedemptionUseCase
	outbox       *OutboxUseCase
}

type fixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	retries    int
	concurrent bool
	points     PointsPolicy
	referral   ReferralPolicy
}

func withRetries(n int) fixtureOption {
	return func(c *fixtureConfig) { c.retries = n }
}

// withConcurrentStore lets store transactions overlap so only the use case
// locks and the ledger seq check keep writes apart.
func withConcurrentStore() fixtureOption {
	return func(c *fixtureConfig) { c.concurrent = true }
}

func withPoints(p PointsPolicy) fixtureOption {
	return func(c *fixtureConfig) { c.points = p }
}

func newStrategyStub() testhelpers.StrategyStub {
	return testhelpers.StrategyStub{
		IssueFn: func(accountID int64) (string, error) {
			return fmt.Sprintf("token-%d", accountID), nil
		},
		ParseFn: func(token string) (int64, error) {
			var id int64
			if _, err := fmt.Sscanf(token, "token-%d", &id); err != nil {
				return 0, pkgAuth.ErrInvalidToken
			}
			return id, nil
		},
	}
}

func newFixture(opts ...fixtureOption) *fixture {
	cfg := fixtureConfig{
		retries:  3,
		points:   DefaultPointsPolicy(),
		referral: ReferralPolicy{SignupBonus: 500, FirstOrderBonus: 500},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	store := testhelpers.NewMemoryStore()
	store.Concurrent = cfg.concurrent
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	runner := NewRunner(store, keylock.New(), cfg.retries, logger)
	zone, err := geo.NewZone(venue, 500)
	if err != nil {
		panic(err)
	}

	ledger := NewLedgerUseCase(store.Accounts(), store.Ledger(), store.Outbox(), runner)
	reservations := NewReservationUseCase(store.Reservations(), store.Accounts(), store.Outbox(), runner, time.UTC)
	reservations.now = func() time.Time { return reservationAt }

	return &fixture{
		store:  store,
		logger: logger,
		runner: runner,
		ledger: ledger,
		auth: NewAuthUseCase(AuthDeps{
			Accounts: store.Accounts(),
			Ledger:   ledger,
			Outbox:   store.Outbox(),
			Runner:   runner,
			Hasher:   testhelpers.HasherStub{},
			Tokens:   newStrategyStub(),
			Referral: cfg.referral,
		}),
		orders: NewOrderUseCase(OrderDeps{
			Orders:   store.Orders(),
			Accounts: store.Accounts(),
			Menu:     store.Menu(),
			Outbox:   store.Outbox(),
			Ledger:   ledger,
			Runner:   runner,
			Zone:     zone,
			Points:   cfg.points,
			Referral: cfg.referral,
			Logger:   logger,
		}),
		reservations: reservations,
		redemptions:  NewRedemptionUseCase(store.Rewards(), store.Redemptions(), store.Outbox(), ledger, runner),
		outbox:       NewOutboxUseCase(store.Outbox(), store),
	}
}

func (f *fixture) register(login, referralCode string) (*model.Account, error) {
	acct, _, err := f.auth.Register(context.Background(), login, "secret", referralCode)
	return acct, err
}

func (f *fixture) seedMenu(items map[string]string) {
	for id, price := range items {
		_ = f.store.Menu().UpsertMenuItem(context.Background(), model.MenuItem{
			ID:    id,
			Name:  id,
			Price: decimal.RequireFromString(price),
		})
	}
}

// readyOrder places an order and walks it to ready.
func (f *fixture) readyOrder(accountID *int64, lines ...model.OrderLine) (*model.Order, error) {
	ctx := context.Background()
	placed, err := f.orders.PlaceOrder(ctx, accountID, lines, nil)
	if err != nil {
		return nil, err
	}
	if _, err := f.orders.Advance(ctx, placed.Order.ID, model.OrderStatusPreparing); err != nil {
		return nil, err
	}
	return f.orders.Advance(ctx, placed.Order.ID, model.OrderStatusReady)
}

// secondInstance builds a ledger that shares storage but not locks with f,
// the way another process would.
func (f *fixture) secondInstance(retries int) *LedgerUseCase {
	runner := NewRunner(f.store, keylock.New(), retries, f.logger)
	return NewLedgerUseCase(f.store.Accounts(), f.store.Ledger(), f.store.Outbox(), runner)
}

func ptr[T any](v T) *T { return &v }
