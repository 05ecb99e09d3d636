package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/gopherbistro/internal/config"
	"github.com/polkiloo/gopherbistro/internal/domain/repository"
	pkgAuth "github.com/polkiloo/gopherbistro/internal/pkg/auth"
	"github.com/polkiloo/gopherbistro/internal/pkg/geo"
	"github.com/polkiloo/gopherbistro/internal/pkg/keylock"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	keylock.New,
	newRunner,
	newPointsPolicy,
	newReferralPolicy,
	newZone,
	newLedgerUseCase,
	newAuthUseCase,
	newOrderUseCase,
	newReservationUseCase,
	NewRedemptionUseCase,
	NewOutboxUseCase,
)

func newRunner(cfg *config.Config, tx repository.Transactor, locks *keylock.Locker, logger *slog.Logger) *Runner {
	return NewRunner(tx, locks, cfg.LedgerMaxRetries, logger)
}

func newPointsPolicy(cfg *config.Config) (PointsPolicy, error) {
	return NewPointsPolicy(cfg.PointsPerCurrencyUnit, cfg.PointsRounding)
}

func newReferralPolicy(cfg *config.Config) ReferralPolicy {
	return ReferralPolicy{
		SignupBonus:     cfg.ReferralSignupBonus,
		FirstOrderBonus: cfg.ReferralFirstOrderBonus,
	}
}

func newZone(cfg *config.Config) (geo.Zone, error) {
	return geo.NewZone(geo.Coordinate{
		Lat: cfg.RestaurantLatitude,
		Lon: cfg.RestaurantLongitude,
	}, cfg.GeofenceRadiusMeters)
}

type ledgerParams struct {
	fx.In

	Accounts repository.AccountRepository
	Ledger   repository.LedgerRepository
	Outbox   repository.OutboxRepository
	Runner   *Runner
}

func newLedgerUseCase(p ledgerParams) *LedgerUseCase {
	return NewLedgerUseCase(p.Accounts, p.Ledger, p.Outbox, p.Runner)
}

type authParams struct {
	fx.In

	Accounts repository.AccountRepository
	Outbox   repository.OutboxRepository
	Ledger   *LedgerUseCase
	Runner   *Runner
	Hasher   pkgAuth.PasswordHasher
	Tokens   pkgAuth.Strategy
	Referral ReferralPolicy
}

func newAuthUseCase(p authParams) *AuthUseCase {
	return NewAuthUseCase(AuthDeps{
		Accounts: p.Accounts,
		Ledger:   p.Ledger,
		Outbox:   p.Outbox,
		Runner:   p.Runner,
		Hasher:   p.Hasher,
		Tokens:   p.Tokens,
		Referral: p.Referral,
	})
}

type orderParams struct {
	fx.In

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

func newOrderUseCase(p orderParams) *OrderUseCase {
	return NewOrderUseCase(OrderDeps{
		Orders:   p.Orders,
		Accounts: p.Accounts,
		Menu:     p.Menu,
		Outbox:   p.Outbox,
		Ledger:   p.Ledger,
		Runner:   p.Runner,
		Zone:     p.Zone,
		Points:   p.Points,
		Referral: p.Referral,
		Logger:   p.Logger,
	})
}

func newReservationUseCase(cfg *config.Config, reservations repository.ReservationRepository, accounts repository.AccountRepository, outbox repository.OutboxRepository, runner *Runner) *ReservationUseCase {
	return NewReservationUseCase(reservations, accounts, outbox, runner, cfg.VenueTimezone)
}
