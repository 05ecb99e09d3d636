package dto

import "time"

// ReservationRequest describes POST /api/reservations payload.
type ReservationRequest struct {
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Phone           *string `json:"phone,omitempty"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	PartySize       int     `json:"party_size"`
	SpecialRequests *string `json:"special_requests,omitempty"`
}

// ReservationResponse describes a table booking.
type ReservationResponse struct {
	ID              int64     `json:"id"`
	AccountID       *int64    `json:"account_id,omitempty"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           *string   `json:"phone,omitempty"`
	ReservedFor     time.Time `json:"reserved_for"`
	PartySize       int       `json:"party_size"`
	Status          string    `json:"status"`
	SpecialRequests *string   `json:"special_requests,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
