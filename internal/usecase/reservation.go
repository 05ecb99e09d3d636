package usecase

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/gopherbistro/internal/domain/errors"
	"github.com/polkiloo/gopherbistro/internal/domain/model"
	"github.com/polkiloo/gopherbistro/internal/domain/repository"
)

const reservationLayout = "2006-01-02 15:04"

// ReservationUseCase handles table bookings.
type ReservationUseCase struct {
	reservations repository.ReservationRepository
	accounts     repository.AccountRepository
	outbox       repository.OutboxRepository
	runner       *Runner
	loc          *time.Location
	now          func() time.Time
}

// NewReservationUseCase constructs ReservationUseCase. A nil location means UTC.
func NewReservationUseCase(reservations repository.ReservationRepository, accounts repository.AccountRepository, outbox repository.OutboxRepository, runner *Runner, loc *time.Location) *ReservationUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &ReservationUseCase{
		reservations: reservations,
		accounts:     accounts,
		outbox:       outbox,
		runner:       runner,
		loc:          loc,
		now:          time.Now,
	}
}

// Create books a table for a moment strictly in the future.
func (u *ReservationUseCase) Create(ctx context.Context, accountID *int64, req model.ReservationRequest) (*model.Reservation, error) {
	if req.PartySize < 1 {
		return nil, domainErrors.ErrInvalidPartySize
	}
	contact, err := normalizeContact(req.Contact)
	if err != nil {
		return nil, err
	}
	at, err := time.ParseInLocation(reservationLayout, strings.TrimSpace(req.Date)+" "+strings.TrimSpace(req.Time), u.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrInvalidReservationWindow, err)
	}
	if !at.After(u.now()) {
		return nil, fmt.Errorf("%w: %s is not in the future", domainErrors.ErrInvalidReservationWindow, at.Format(reservationLayout))
	}
	if accountID != nil {
		if _, err := u.accounts.GetByID(ctx, *accountID); err != nil {
			return nil, err
		}
	}

	var created *model.Reservation
	err = u.runner.Run(ctx, "create reservation", nil, func(ctx context.Context) error {
		r, err := u.reservations.Create(ctx, model.Reservation{
			AccountID:       accountID,
			Contact:         contact,
			ReservedFor:     at,
			PartySize:       req.PartySize,
			Status:          model.ReservationStatusPending,
			SpecialRequests: req.SpecialRequests,
		})
		if err != nil {
			return err
		}
		created = r
		return enqueue(ctx, u.outbox, model.EventReservationCreated, newReservationEvent(r))
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func normalizeContact(c model.Contact) (model.Contact, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	if c.Name == "" {
		return c, fmt.Errorf("%w: name is required", domainErrors.ErrInvalidContact)
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return c, fmt.Errorf("%w: %v", domainErrors.ErrInvalidContact, err)
	}
	if c.Phone != nil {
		phone := strings.TrimSpace(*c.Phone)
		if phone == "" {
			c.Phone = nil
		} else {
			c.Phone = &phone
		}
	}
	return c, nil
}

// Confirm moves a pending reservation to confirmed.
func (u *ReservationUseCase) Confirm(ctx context.Context, id int64) (*model.Reservation, error) {
	return u.transition(ctx, id, model.ReservationStatusConfirmed, model.EventReservationConfirmed)
}

// Cancel cancels a pending or confirmed reservation. Cancelling twice succeeds.
func (u *ReservationUseCase) Cancel(ctx context.Context, id int64) (*model.Reservation, error) {
	return u.transition(ctx, id, model.ReservationStatusCancelled, model.EventReservationCancelled)
}

func (u *ReservationUseCase) transition(ctx context.Context, id int64, target model.ReservationStatus, eventType model.EventType) (*model.Reservation, error) {
	var result *model.Reservation
	err := u.runner.Run(ctx, "reservation "+string(target), []string{reservationKey(id)}, func(ctx context.Context) error {
		r, err := u.reservations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if target == model.ReservationStatusCancelled && r.Status == model.ReservationStatusCancelled {
			result = r
			return nil
		}
		if !r.Status.CanTransition(target) {
			return fmt.Errorf("%w: %s -> %s", domainErrors.ErrInvalidTransition, r.Status, target)
		}
		updated, err := u.reservations.UpdateStatus(ctx, id, r.Status, target)
		if err != nil {
			return err
		}
		result = updated
		return enqueue(ctx, u.outbox, eventType, newReservationEvent(updated))
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Get returns a reservation by id.
func (u *ReservationUseCase) Get(ctx context.Context, id int64) (*model.Reservation, error) {
	return u.reservations.GetByID(ctx, id)
}

// ListByAccount returns the account's reservations.
func (u *ReservationUseCase) ListByAccount(ctx context.Context, accountID int64) ([]model.Reservation, error) {
	return u.reservations.ListByAccount(ctx, accountID)
}
