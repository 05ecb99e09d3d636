package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	domainErrors "github.com/polkiloo/gopherbistro/internal/domain/errors"
	"github.com/polkiloo/gopherbistro/internal/domain/model"
)

func tableFor(party int, date, at string) model.ReservationRequest {
	return model.ReservationRequest{
		Contact:   model.Contact{Name: "Ada", Email: "ada@example.com"},
		Date:      date,
		Time:      at,
		PartySize: party,
	}
}

func TestCreateReservation(t *testing.T) {
	f := newFixture()
	acct, _ := f.register("ada", "")
	notes := "window seat"
	req := tableFor(4, "2026-03-10", "19:30")
	req.SpecialRequests = &notes

	r, err := f.reservations.Create(context.Background(), &acct.ID, req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	want := time.Date(2026, time.March, 10, 19, 30, 0, 0, time.UTC)
	if !r.ReservedFor.Equal(want) || r.Status != model.ReservationStatusPending || r.PartySize != 4 {
		t.Fatalf("unexpected reservation %+v", r)
	}
	if r.SpecialRequests == nil || *r.SpecialRequests != notes {
		t.Fatalf("special requests lost")
	}
	if got := len(f.store.EventsOfType(model.EventReservationCreated)); got != 1 {
		t.Fatalf("expected created event, got %d", got)
	}
}

func TestCreateReservationValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	badEmail := tableFor(2, "2026-03-11", "18:00")
	badEmail.Contact.Email = "not-an-email"
	noName := tableFor(2, "2026-03-11", "18:00")
	noName.Contact.Name = "  "

	cases := []struct {
		name string
		req  model.ReservationRequest
		want error
	}{
		{"zero party", tableFor(0, "2026-03-11", "18:00"), domainErrors.ErrInvalidPartySize},
		{"past", tableFor(2, "2026-03-09", "18:00"), domainErrors.ErrInvalidReservationWindow},
		{"now is not future", tableFor(2, "2026-03-10", "12:00"), domainErrors.ErrInvalidReservationWindow},
		{"malformed date", tableFor(2, "10/03/2026", "18:00"), domainErrors.ErrInvalidReservationWindow},
		{"malformed time", tableFor(2, "2026-03-11", "25:00"), domainErrors.ErrInvalidReservationWindow},
		{"bad email", badEmail, domainErrors.ErrInvalidContact},
		{"no name", noName, domainErrors.ErrInvalidContact},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.reservations.Create(ctx, nil, tc.req); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateReservationUsesVenueTimezone(t *testing.T) {
	f := newFixture()
	loc := time.FixedZone("venue", -5*3600)
	f.reservations.loc = loc

	r, err := f.reservations.Create(context.Background(), nil, tableFor(2, "2026-03-10", "08:00"))
	if err != nil {
		t.Fatalf("08:00 at UTC-5 is 13:00 UTC and still ahead: %v", err)
	}
	if r.ReservedFor.UTC().Hour() != 13 {
		t.Fatalf("expected 13:00 UTC, got %v", r.ReservedFor.UTC())
	}
}

func TestReservationTransitions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	r, _ := f.reservations.Create(ctx, nil, tableFor(2, "2026-03-11", "18:00"))

	confirmed, err := f.reservations.Confirm(ctx, r.ID)
	if err != nil || confirmed.Status != model.ReservationStatusConfirmed {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := f.reservations.Confirm(ctx, r.ID); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("confirming twice must fail, got %v", err)
	}
	cancelled, err := f.reservations.Cancel(ctx, r.ID)
	if err != nil || cancelled.Status != model.ReservationStatusCancelled {
		t.Fatalf("cancel confirmed: %v", err)
	}
	again, err := f.reservations.Cancel(ctx, r.ID)
	if err != nil || again.Status != model.ReservationStatusCancelled {
		t.Fatalf("cancel must be idempotent: %v", err)
	}
	if _, err := f.reservations.Confirm(ctx, r.ID); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("cancelled reservation cannot be confirmed, got %v", err)
	}
	if got := len(f.store.EventsOfType(model.EventReservationCancelled)); got != 1 {
		t.Fatalf("idempotent cancel must not emit twice, got %d", got)
	}
	if _, err := f.reservations.Cancel(ctx, 404); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestReservationQueries(t *testing.T) {
	f := newFixture()
	acct, _ := f.register("ada", "")
	ctx := context.Background()
	late, _ := f.reservations.Create(ctx, &acct.ID, tableFor(2, "2026-03-12", "18:00"))
	early, _ := f.reservations.Create(ctx, &acct.ID, tableFor(2, "2026-03-11", "18:00"))
	_, _ = f.reservations.Create(ctx, nil, tableFor(2, "2026-03-11", "18:00"))

	list, err := f.reservations.ListByAccount(ctx, acct.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != early.ID || list[1].ID != late.ID {
		t.Fatalf("unexpected list %+v", list)
	}
	got, err := f.reservations.Get(ctx, late.ID)
	if err != nil || got.ID != late.ID {
		t.Fatalf("get: %v", err)
	}
}
