package handlers

import (
	"github.com/polkiloo/gopherbistro/internal/domain/model"
	"github.com/polkiloo/gopherbistro/internal/server/http/dto"
)

func accountResponse(a model.Account, balance *int64) dto.AccountResponse {
	return dto.AccountResponse{
		ID:                  a.ID,
		Login:               a.Login,
		ReferralCode:        a.ReferralCode,
		ReferredBy:          a.ReferredBy,
		FirstOrderCompleted: a.FirstOrderCompleted,
		PointsBalance:       balance,
		CreatedAt:           a.CreatedAt,
	}
}

func ledgerResponse(entries []model.LedgerEntry) []dto.LedgerEntryResponse {
	resp := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, dto.LedgerEntryResponse{
			ID:             e.ID,
			Seq:            e.Seq,
			Delta:          e.Delta,
			Reason:         string(e.Reason),
			RelatedOrderID: e.RelatedOrderID,
			RunningBalance: e.RunningBalance,
			CreatedAt:      e.CreatedAt,
		})
	}
	return resp
}

func orderResponse(o *model.Order) dto.OrderResponse {
	items := make([]dto.LineItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.LineItemResponse{
			MenuItemID: it.MenuItemID,
			Name:       it.Name,
			UnitPrice:  it.UnitPrice.StringFixed(2),
			Quantity:   it.Quantity,
		})
	}
	return dto.OrderResponse{
		ID:                  o.ID,
		AccountID:           o.AccountID,
		Items:               items,
		Total:               o.Total.StringFixed(2),
		Status:              string(o.Status),
		GeofenceCheckPassed: o.GeofenceCheckPassed,
		PointsEarned:        o.PointsEarned,
		PlacedAt:            o.PlacedAt,
		UpdatedAt:           o.UpdatedAt,
	}
}

func reservationResponse(r *model.Reservation) dto.ReservationResponse {
	return dto.ReservationResponse{
		ID:              r.ID,
		AccountID:       r.AccountID,
		Name:            r.Contact.Name,
		Email:           r.Contact.Email,
		Phone:           r.Contact.Phone,
		ReservedFor:     r.ReservedFor,
		PartySize:       r.PartySize,
		Status:          string(r.Status),
		SpecialRequests: r.SpecialRequests,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func rewardResponse(i *model.RedeemableItem) dto.RewardResponse {
	return dto.RewardResponse{
		ID:         i.ID,
		Name:       i.Name,
		PointsCost: i.PointsCost,
		Category:   string(i.Category),
		InStock:    i.InStock,
		Available:  i.Available(),
	}
}

func redemptionResponse(r *model.Redemption) dto.RedemptionResponse {
	return dto.RedemptionResponse{
		ID:            r.ID,
		ItemID:        r.ItemID,
		ItemName:      r.ItemName,
		PointsSpent:   r.PointsSpent,
		LedgerEntryID: r.LedgerEntryID,
		CreatedAt:     r.CreatedAt,
	}
}
