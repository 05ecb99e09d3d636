package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/gopherbistro/internal/domain/errors"
	"github.com/polkiloo/gopherbistro/internal/domain/repository"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgSerializationFail   = "40001"
	pgDeadlockDetected    = "40P01"
	pgNumericOutOfRange   = "22003"

	constraintLedgerSeq    = "ledger_entries_account_seq_key"
	constraintReferralCode = "accounts_referral_code_key"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgxPool interface {
	querier
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

type txKey struct{}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Accounts returns the account repository.
func (s *Storage) Accounts() repository.AccountRepository { return &accountRepository{storage: s} }

// Ledger returns the ledger repository.
func (s *Storage) Ledger() repository.LedgerRepository { return &ledgerRepository{storage: s} }

// Orders returns the order repository.
func (s *Storage) Orders() repository.OrderRepository { return &orderRepository{storage: s} }

// Reservations returns the reservation repository.
func (s *Storage) Reservations() repository.ReservationRepository {
	return &reservationRepository{storage: s}
}

// Menu returns the menu catalog.
func (s *Storage) Menu() repository.MenuCatalog { return &menuRepository{storage: s} }

// Rewards returns the redeemable item repository.
func (s *Storage) Rewards() repository.RewardRepository { return &rewardRepository{storage: s} }

// Redemptions returns the redemption repository.
func (s *Storage) Redemptions() repository.RedemptionRepository {
	return &redemptionRepository{storage: s}
}

// Outbox returns the domain event outbox.
func (s *Storage) Outbox() repository.OutboxRepository { return &outboxRepository{storage: s} }

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
            id BIGSERIAL PRIMARY KEY,
            login TEXT NOT NULL CONSTRAINT accounts_login_key UNIQUE,
            password_hash TEXT NOT NULL,
            referral_code TEXT NOT NULL CONSTRAINT accounts_referral_code_key UNIQUE,
            referred_by BIGINT REFERENCES accounts(id),
            first_order_completed BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS ledger_entries (
            id BIGSERIAL PRIMARY KEY,
            account_id BIGINT NOT NULL REFERENCES accounts(id),
            seq BIGINT NOT NULL,
            delta BIGINT NOT NULL CHECK (delta <> 0),
            reason TEXT NOT NULL,
            related_order_id BIGINT,
            running_balance BIGINT NOT NULL CHECK (running_balance >= 0),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            CONSTRAINT ledger_entries_account_seq_key UNIQUE (account_id, seq)
        )`,
		`CREATE TABLE IF NOT EXISTS menu_items (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            price NUMERIC(12,2) NOT NULL CHECK (price >= 0)
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id BIGSERIAL PRIMARY KEY,
            account_id BIGINT REFERENCES accounts(id),
            total NUMERIC(12,2) NOT NULL,
            status TEXT NOT NULL,
            geofence_check_passed BOOLEAN,
            points_earned BIGINT NOT NULL DEFAULT 0,
            placed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            order_id BIGINT NOT NULL REFERENCES orders(id),
            line_no INT NOT NULL,
            menu_item_id TEXT NOT NULL,
            name TEXT NOT NULL,
            unit_price NUMERIC(12,2) NOT NULL CHECK (unit_price >= 0),
            quantity INT NOT NULL CHECK (quantity >= 1),
            PRIMARY KEY (order_id, line_no)
        )`,
		`CREATE TABLE IF NOT EXISTS reservations (
            id BIGSERIAL PRIMARY KEY,
            account_id BIGINT REFERENCES accounts(id),
            contact_name TEXT NOT NULL,
            contact_email TEXT NOT NULL,
            contact_phone TEXT,
            reserved_for TIMESTAMPTZ NOT NULL,
            party_size INT NOT NULL CHECK (party_size >= 1),
            status TEXT NOT NULL,
            special_requests TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS redeemable_items (
            id BIGINT PRIMARY KEY,
            name TEXT NOT NULL,
            points_cost BIGINT NOT NULL CHECK (points_cost > 0),
            category TEXT NOT NULL,
            in_stock BOOLEAN NOT NULL DEFAULT TRUE
        )`,
		`CREATE TABLE IF NOT EXISTS redemptions (
            id BIGSERIAL PRIMARY KEY,
            account_id BIGINT NOT NULL REFERENCES accounts(id),
            item_id BIGINT NOT NULL REFERENCES redeemable_items(id),
            item_name TEXT NOT NULL,
            points_spent BIGINT NOT NULL,
            ledger_entry_id BIGINT NOT NULL REFERENCES ledger_entries(id),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS outbox_events (
            id BIGSERIAL PRIMARY KEY,
            event_id UUID NOT NULL UNIQUE,
            event_type TEXT NOT NULL,
            payload JSONB NOT NULL,
            status TEXT NOT NULL DEFAULT 'NEW',
            attempts INT NOT NULL DEFAULT 0,
            occurred_at TIMESTAMPTZ NOT NULL,
            locked_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_entries_order ON ledger_entries(account_id, related_order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_account ON orders(account_id, placed_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_account ON reservations(account_id, reserved_for)`,
		`CREATE INDEX IF NOT EXISTS idx_redemptions_account ON redemptions(account_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_outbox_events_pending ON outbox_events(status, id)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// WithinTransaction executes fn inside a transaction carried by ctx. Repositories
// called with that ctx join it and nested calls reuse the outer transaction.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				s.logger.Warn("rollback failed", slog.String("error", rbErr.Error()))
			}
			return
		}
		err = mapError(tx.Commit(ctx))
	}()

	err = fn(context.WithValue(ctx, txKey{}, tx))
	return err
}

func (s *Storage) db(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return s.pool
}

// mapError translates driver failures into domain errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domainErrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		switch pgErr.ConstraintName {
		case constraintLedgerSeq, constraintReferralCode:
			return fmt.Errorf("%w: %s", domainErrors.ErrConflict, pgErr.ConstraintName)
		}
		return domainErrors.ErrAlreadyExists
	case pgForeignKeyViolation:
		return fmt.Errorf("%w: %s", domainErrors.ErrNotFound, pgErr.ConstraintName)
	case pgSerializationFail, pgDeadlockDetected:
		return fmt.Errorf("%w: %s", domainErrors.ErrConflict, pgErr.Code)
	case pgNumericOutOfRange:
		return fmt.Errorf("%w: %s", domainErrors.ErrInvalidAmount, pgErr.Message)
	}
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
