package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuItem is an orderable dish.
type MenuItem struct {
	ID    string
	Name  string
	Price decimal.Decimal
}

// RewardCategory groups redeemable items.
type RewardCategory string

const (
	RewardCategoryMerchandise RewardCategory = "merchandise"
	RewardCategoryGiftCard    RewardCategory = "gift_card"
)

// RedeemableItem can be exchanged for points.
type RedeemableItem struct {
	ID         int64
	Name       string
	PointsCost int64
	Category   RewardCategory
	InStock    bool
}

// Available reports whether the item can be redeemed now. Gift cards never run out.
func (i RedeemableItem) Available() bool {
	if i.Category == RewardCategoryGiftCard {
		return true
	}
	return i.InStock
}

// RewardUpdate is a partial administrative change to a redeemable item.
type RewardUpdate struct {
	PointsCost *int64
	InStock    *bool
}

// Redemption records points exchanged for an item. PointsSpent is frozen at redemption time.
type Redemption struct {
	ID            int64
	AccountID     int64
	ItemID        int64
	ItemName      string
	PointsSpent   int64
	LedgerEntryID int64
	CreatedAt     time.Time
}
