package model

import "time"

// ReservationStatus describes a table reservation lifecycle.
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationStatusPending:   {ReservationStatusConfirmed, ReservationStatusCancelled},
	ReservationStatusConfirmed: {ReservationStatusCancelled},
}

// CanTransition reports whether the reservation table allows from -> to.
func (s ReservationStatus) CanTransition(to ReservationStatus) bool {
	for _, next := range reservationTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Contact identifies the guest holding a reservation.
type Contact struct {
	Name  string
	Email string
	Phone *string
}

// Reservation is a table booking.
type Reservation struct {
	ID              int64
	AccountID       *int64
	Contact         Contact
	ReservedFor     time.Time
	PartySize       int
	Status          ReservationStatus
	SpecialRequests *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ReservationRequest carries raw booking input. Date is YYYY-MM-DD and Time is HH:MM
// in the venue time zone.
type ReservationRequest struct {
	Contact         Contact
	Date            string
	Time            string
	PartySize       int
	SpecialRequests *string
}
