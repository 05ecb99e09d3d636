package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/gopherbistro/internal/domain/model"
	"github.com/polkiloo/gopherbistro/internal/server/http/dto"
)

// ReservationHandler serves table booking endpoints.
type ReservationHandler struct {
	facade ReservationFacade
}

// NewReservationHandler constructs ReservationHandler.
func NewReservationHandler(facade ReservationFacade) *ReservationHandler {
	return &ReservationHandler{facade: facade}
}

// Create handles POST /api/reservations.
func (h *ReservationHandler) Create(c *gin.Context) {
	var req dto.ReservationRequest
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.facade.CreateReservation(c.Request.Context(), optionalAccountID(c), model.ReservationRequest{
		Contact: model.Contact{
			Name:  req.Name,
			Email: req.Email,
			Phone: req.Phone,
		},
		Date:            req.Date,
		Time:            req.Time,
		PartySize:       req.PartySize,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reservationResponse(created))
}

// List handles GET /api/reservations.
func (h *ReservationHandler) List(c *gin.Context) {
	items, err := h.facade.Reservations(c.Request.Context(), CurrentAccountID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if len(items) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	resp := make([]dto.ReservationResponse, 0, len(items))
	for i := range items {
		resp = append(resp, reservationResponse(&items[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/reservations/:id.
func (h *ReservationHandler) Get(c *gin.Context) {
	r, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, reservationResponse(r))
}

// Cancel handles POST /api/reservations/:id/cancel. Cancelling twice is not an error.
func (h *ReservationHandler) Cancel(c *gin.Context) {
	r, ok := h.load(c)
	if !ok {
		return
	}
	cancelled, err := h.facade.CancelReservation(c.Request.Context(), r.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservationResponse(cancelled))
}

func (h *ReservationHandler) load(c *gin.Context) (*model.Reservation, bool) {
	id, ok := pathID(c)
	if !ok {
		return nil, false
	}
	r, err := h.facade.Reservation(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	if !ownedBy(c, r.AccountID) {
		writeNotFound(c)
		return nil, false
	}
	return r, true
}
