package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/gopherbistro/internal/domain/model"
	"github.com/polkiloo/gopherbistro/internal/server/http/dto"
)

// StaffHandler drives kitchen and front-desk transitions.
type StaffHandler struct {
	facade StaffFacade
}

// NewStaffHandler constructs StaffHandler.
func NewStaffHandler(facade StaffFacade) *StaffHandler {
	return &StaffHandler{facade: facade}
}

// AdvanceOrder handles POST /api/staff/orders/:id/status.
func (h *StaffHandler) AdvanceOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.OrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	status := model.OrderStatus(req.Status)
	if !status.Valid() {
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "invalid_status"})
		return
	}
	h.respondOrder(c, func() (*model.Order, error) {
		return h.facade.AdvanceOrder(c.Request.Context(), id, status)
	})
}

// CompleteOrder handles POST /api/staff/orders/:id/complete.
func (h *StaffHandler) CompleteOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	h.respondOrder(c, func() (*model.Order, error) {
		return h.facade.CompleteOrder(c.Request.Context(), id)
	})
}

// CancelOrder handles POST /api/staff/orders/:id/cancel.
func (h *StaffHandler) CancelOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	h.respondOrder(c, func() (*model.Order, error) {
		return h.facade.CancelOrder(c.Request.Context(), id)
	})
}

func (h *StaffHandler) respondOrder(c *gin.Context, fn func() (*model.Order, error)) {
	order, err := fn()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderResponse(order))
}

// ConfirmReservation handles POST /api/staff/reservations/:id/confirm.
func (h *StaffHandler) ConfirmReservation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	r, err := h.facade.ConfirmReservation(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservationResponse(r))
}

// UpdateReward handles PATCH /api/staff/rewards/:id.
func (h *StaffHandler) UpdateReward(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.RewardUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.facade.UpdateReward(c.Request.Context(), id, model.RewardUpdate{
		PointsCost: req.PointsCost,
		InStock:    req.InStock,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rewardResponse(item))
}
