package dto

import "time"

// GeofenceResponse reports a location check against the venue zone.
type GeofenceResponse struct {
	Eligible       bool    `json:"eligible"`
	DistanceMeters float64 `json:"distance_meters"`
}

// MenuItemResponse is an orderable dish.
type MenuItemResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

// RewardResponse is a redeemable catalog item.
type RewardResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	PointsCost int64  `json:"points_cost"`
	Category   string `json:"category"`
	InStock    bool   `json:"in_stock"`
	Available  bool   `json:"available"`
}

// RewardUpdateRequest is a partial staff update; omitted fields stay unchanged.
type RewardUpdateRequest struct {
	PointsCost *int64 `json:"points_cost,omitempty"`
	InStock    *bool  `json:"in_stock,omitempty"`
}

// RedemptionResponse records points exchanged for an item.
type RedemptionResponse struct {
	ID            int64     `json:"id"`
	ItemID        int64     `json:"item_id"`
	ItemName      string    `json:"item_name"`
	PointsSpent   int64     `json:"points_spent"`
	LedgerEntryID int64     `json:"ledger_entry_id"`
	CreatedAt     time.Time `json:"created_at"`
}
