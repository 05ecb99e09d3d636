package errors

import (
	"errors"

	"github.com/polkiloo/gopherbistro/internal/pkg/geo"
)

var (
	ErrAlreadyExists            = errors.New("already exists")
	ErrNotFound                 = errors.New("not found")
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrInsufficientBalance      = errors.New("insufficient balance")
	ErrInvalidAmount            = errors.New("invalid amount")
	ErrInvalidTransition        = errors.New("invalid status transition")
	ErrItemUnavailable          = errors.New("item unavailable")
	ErrInvalidReservationWindow = errors.New("invalid reservation window")
	ErrInvalidPartySize         = errors.New("invalid party size")
	ErrInvalidContact           = errors.New("invalid contact")
	ErrEmptyOrder               = errors.New("order has no items")
	ErrInvalidQuantity          = errors.New("invalid quantity")
	ErrUnknownMenuItem          = errors.New("unknown menu item")
	ErrInvalidReferralCode      = errors.New("invalid referral code")

	// ErrInvalidCoordinate is shared with the geo package so callers can match either.
	ErrInvalidCoordinate = geo.ErrInvalidCoordinate

	// ErrConflict signals a lost optimistic write; use cases retry on it.
	ErrConflict = errors.New("concurrent modification")
	// ErrTransient is returned once conflict retries are exhausted.
	ErrTransient = errors.New("transient failure, retry later")
)
