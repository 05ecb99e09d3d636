package dto

import "time"

// Location is a customer coordinate in decimal degrees.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// OrderLineRequest is one requested menu item.
type OrderLineRequest struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
}

// PlaceOrderRequest describes POST /api/orders payload.
type PlaceOrderRequest struct {
	Items    []OrderLineRequest `json:"items"`
	Location *Location          `json:"location,omitempty"`
}

// LineItemResponse is a priced order line. Money is rendered with two decimals.
type LineItemResponse struct {
	MenuItemID string `json:"menu_item_id"`
	Name       string `json:"name"`
	UnitPrice  string `json:"unit_price"`
	Quantity   int    `json:"quantity"`
}

// OrderResponse describes an order.
type OrderResponse struct {
	ID                  int64              `json:"id"`
	AccountID           *int64             `json:"account_id,omitempty"`
	Items               []LineItemResponse `json:"items"`
	Total               string             `json:"total"`
	Status              string             `json:"status"`
	GeofenceCheckPassed *bool              `json:"geofence_check_passed,omitempty"`
	PointsEarned        int64              `json:"points_earned"`
	PlacedAt            time.Time          `json:"placed_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

// PlaceOrderResponse wraps the created order with the geofence outcome.
type PlaceOrderResponse struct {
	Order           OrderResponse `json:"order"`
	GeofenceWarning bool          `json:"geofence_warning"`
}

// OrderStatusRequest asks staff transitions to move an order to Status.
type OrderStatusRequest struct {
	Status string `json:"status"`
}
