package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus describes the kitchen lifecycle of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusCompleted},
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusReady, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether the order table allows from -> to.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// LineItem is a menu item snapshot captured when the order was placed.
type LineItem struct {
	MenuItemID string
	Name       string
	UnitPrice  decimal.Decimal
	Quantity   int
}

// Extension returns unit price times quantity.
func (l LineItem) Extension() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// OrderLine is a requested menu item and quantity.
type OrderLine struct {
	MenuItemID string
	Quantity   int
}

// Order describes a food order placed by a customer or a guest.
type Order struct {
	ID                  int64
	AccountID           *int64
	Items               []LineItem
	Total               decimal.Decimal
	Status              OrderStatus
	GeofenceCheckPassed *bool
	PointsEarned        int64
	PlacedAt            time.Time
	UpdatedAt           time.Time
}

// PlacementResult is the outcome of placing an order.
type PlacementResult struct {
	Order           *Order
	GeofenceWarning bool
}
