package usecase

import (
	"context"
	"fmt"

	"github.com/polkiloo/gopherbistro/internal/domain/model"
	"github.com/polkiloo/gopherbistro/internal/domain/repository"
)

type accountEvent struct {
	AccountID  int64  `json:"account_id"`
	Login      string `json:"login"`
	ReferredBy *int64 `json:"referred_by,omitempty"`
}

type pointsEvent struct {
	AccountID      int64              `json:"account_id"`
	EntryID        int64              `json:"entry_id"`
	Seq            int64              `json:"seq"`
	Delta          int64              `json:"delta"`
	Reason         model.LedgerReason `json:"reason"`
	RelatedOrderID *int64             `json:"related_order_id,omitempty"`
	Balance        int64              `json:"balance"`
}

type orderEvent struct {
	OrderID             int64             `json:"order_id"`
	AccountID           *int64            `json:"account_id,omitempty"`
	Status              model.OrderStatus `json:"status"`
	PreviousStatus      model.OrderStatus `json:"previous_status,omitempty"`
	Total               string            `json:"total"`
	PointsEarned        int64             `json:"points_earned"`
	GeofenceCheckPassed *bool             `json:"geofence_check_passed,omitempty"`
}

type reservationEvent struct {
	ReservationID int64                   `json:"reservation_id"`
	AccountID     *int64                  `json:"account_id,omitempty"`
	Status        model.ReservationStatus `json:"status"`
	ReservedFor   string                  `json:"reserved_for"`
	PartySize     int                     `json:"party_size"`
}

type redemptionEvent struct {
	RedemptionID int64 `json:"redemption_id"`
	AccountID    int64 `json:"account_id"`
	ItemID       int64 `json:"item_id"`
	PointsSpent  int64 `json:"points_spent"`
}

func newOrderEvent(o *model.Order, previous model.OrderStatus) orderEvent {
	return orderEvent{
		OrderID:             o.ID,
		AccountID:           o.AccountID,
		Status:              o.Status,
		PreviousStatus:      previous,
		Total:               o.Total.StringFixed(2),
		PointsEarned:        o.PointsEarned,
		GeofenceCheckPassed: o.GeofenceCheckPassed,
	}
}

func newReservationEvent(r *model.Reservation) reservationEvent {
	return reservationEvent{
		ReservationID: r.ID,
		AccountID:     r.AccountID,
		Status:        r.Status,
		ReservedFor:   r.ReservedFor.Format("2006-01-02T15:04:05Z07:00"),
		PartySize:     r.PartySize,
	}
}

func enqueue(ctx context.Context, outbox repository.OutboxRepository, eventType model.EventType, payload any) error {
	evt, err := model.NewEvent(eventType, payload)
	if err != nil {
		return fmt.Errorf("build %s event: %w", eventType, err)
	}
	if err := outbox.Enqueue(ctx, evt); err != nil {
		return fmt.Errorf("enqueue %s event: %w", eventType, err)
	}
	return nil
}
