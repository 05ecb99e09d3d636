package dto

import "time"

// AuthRequest describes login/password payload. ReferralCode is only read on registration.
type AuthRequest struct {
	Login        string `json:"login"`
	Password     string `json:"password"`
	ReferralCode string `json:"referral_code,omitempty"`
}

// AccountResponse is the public view of an account.
type AccountResponse struct {
	ID                  int64     `json:"id"`
	Login               string    `json:"login"`
	ReferralCode        string    `json:"referral_code"`
	ReferredBy          *int64    `json:"referred_by,omitempty"`
	FirstOrderCompleted bool      `json:"first_order_completed"`
	PointsBalance       *int64    `json:"points_balance,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token   string          `json:"token"`
	Account AccountResponse `json:"account"`
}

// LedgerEntryResponse is one points movement.
type LedgerEntryResponse struct {
	ID             int64     `json:"id"`
	Seq            int64     `json:"seq"`
	Delta          int64     `json:"delta"`
	Reason         string    `json:"reason"`
	RelatedOrderID *int64    `json:"related_order_id,omitempty"`
	RunningBalance int64     `json:"running_balance"`
	CreatedAt      time.Time `json:"created_at"`
}

// ErrorResponse carries a stable machine readable error code.
type ErrorResponse struct {
	Error string `json:"error"`
}
