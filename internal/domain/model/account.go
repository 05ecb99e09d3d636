package model

import "time"

// Account represents a registered customer of the loyalty program.
type Account struct {
	ID                  int64
	Login               string
	PasswordHash        string
	ReferralCode        string
	ReferredBy          *int64
	FirstOrderCompleted bool
	CreatedAt           time.Time
}

// AccountProfile combines account data with the balance projected from its ledger.
type AccountProfile struct {
	Account       Account
	PointsBalance int64
}
