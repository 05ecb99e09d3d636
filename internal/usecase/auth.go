package usecase

import (
	"context"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/gopherbistro/internal/domain/errors"
	"github.com/polkiloo/gopherbistro/internal/domain/model"
	"github.com/polkiloo/gopherbistro/internal/domain/repository"
	pkgAuth "github.com/polkiloo/gopherbistro/internal/pkg/auth"
)

// AuthUseCase handles account lifecycle, referral signup and token management.
type AuthUseCase struct {
	accounts repository.AccountRepository
	ledger   *LedgerUseCase
	outbox   repository.OutboxRepository
	runner   *Runner
	hasher   pkgAuth.PasswordHasher
	tokens   pkgAuth.Strategy
	referral ReferralPolicy
	codes    func() string
}

// AuthDeps groups AuthUseCase collaborators.
type AuthDeps struct {
	Accounts repository.AccountRepository
	Ledger   *LedgerUseCase
	Outbox   repository.OutboxRepository
	Runner   *Runner
	Hasher   pkgAuth.PasswordHasher
	Tokens   pkgAuth.Strategy
	Referral ReferralPolicy
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(d AuthDeps) *AuthUseCase {
	return &AuthUseCase{
		accounts: d.Accounts,
		ledger:   d.Ledger,
		outbox:   d.Outbox,
		runner:   d.Runner,
		hasher:   d.Hasher,
		tokens:   d.Tokens,
		referral: d.Referral,
		codes:    newReferralCode,
	}
}

func newReferralCode() string {
	id := uuid.New()
	return strings.ToUpper(hex.EncodeToString(id[:4]))
}

// Register creates an account and returns an auth token. A non-empty referralCode
// links the account to its referrer and credits the signup bonus atomically.
func (u *AuthUseCase) Register(ctx context.Context, login, password, referralCode string) (*model.Account, string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}
	referralCode = strings.ToUpper(strings.TrimSpace(referralCode))

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, "", err
	}

	var created *model.Account
	err = u.runner.Run(ctx, "register account", nil, func(ctx context.Context) error {
		var referredBy *int64
		if referralCode != "" {
			referrer, err := u.accounts.GetByReferralCode(ctx, referralCode)
			if err != nil {
				if errors.Is(err, domainErrors.ErrNotFound) {
					return domainErrors.ErrInvalidReferralCode
				}
				return err
			}
			referredBy = &referrer.ID
		}

		acct, err := u.accounts.Create(ctx, model.Account{
			Login:        login,
			PasswordHash: hash,
			ReferralCode: u.codes(),
			ReferredBy:   referredBy,
		})
		if err != nil {
			return err
		}

		if referredBy != nil && u.referral.SignupBonus > 0 {
			if _, err := u.ledger.credit(ctx, acct.ID, u.referral.SignupBonus, model.ReasonReferralSignup, nil); err != nil {
				return err
			}
		}

		created = acct
		return enqueue(ctx, u.outbox, model.EventAccountRegistered, accountEvent{
			AccountID:  acct.ID,
			Login:      acct.Login,
			ReferredBy: acct.ReferredBy,
		})
	})
	if err != nil {
		return nil, "", err
	}

	token, err := u.tokens.IssueToken(created.ID)
	if err != nil {
		return nil, "", err
	}

	return created, token, nil
}

// Authenticate validates credentials and returns auth token.
func (u *AuthUseCase) Authenticate(ctx context.Context, login, password string) (*model.Account, string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	acct, err := u.accounts.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(acct.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.tokens.IssueToken(acct.ID)
	if err != nil {
		return nil, "", err
	}

	return acct, token, nil
}

// ParseToken extracts account ID from provided token.
func (u *AuthUseCase) ParseToken(token string) (int64, error) {
	if token == "" {
		return 0, pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// Profile returns the account together with its projected points balance.
func (u *AuthUseCase) Profile(ctx context.Context, accountID int64) (*model.AccountProfile, error) {
	acct, err := u.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	balance, err := u.ledger.BalanceOf(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &model.AccountProfile{Account: *acct, PointsBalance: balance}, nil
}
