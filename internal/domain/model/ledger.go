package model

import "time"

// LedgerReason classifies a points movement.
type LedgerReason string

const (
	ReasonOrderPurchase      LedgerReason = "order_purchase"
	ReasonReferralSignup     LedgerReason = "referral_signup"
	ReasonReferralFirstOrder LedgerReason = "referral_first_order"
	ReasonRedemption         LedgerReason = "redemption"
	ReasonManualAdjustment   LedgerReason = "manual_adjustment"
)

// Valid reports whether r is a known reason.
func (r LedgerReason) Valid() bool {
	switch r {
	case ReasonOrderPurchase, ReasonReferralSignup, ReasonReferralFirstOrder, ReasonRedemption, ReasonManualAdjustment:
		return true
	}
	return false
}

// LedgerEntry is an immutable points movement. Seq is dense per account and
// RunningBalance equals the sum of all deltas up to and including this entry.
type LedgerEntry struct {
	ID             int64
	AccountID      int64
	Seq            int64
	Delta          int64
	Reason         LedgerReason
	RelatedOrderID *int64
	RunningBalance int64
	CreatedAt      time.Time
}

// LedgerHead is the latest position of an account ledger.
type LedgerHead struct {
	Seq     int64
	Balance int64
}
