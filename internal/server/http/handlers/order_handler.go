package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/gopherbistro/internal/domain/model"
	"github.com/polkiloo/gopherbistro/internal/pkg/geo"
	"github.com/polkiloo/gopherbistro/internal/server/http/dto"
)

// OrderHandler serves customer facing order endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Place handles POST /api/orders for guests and signed-in customers.
func (h *OrderHandler) Place(c *gin.Context) {
	var req dto.PlaceOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	lines := make([]model.OrderLine, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, model.OrderLine{MenuItemID: it.MenuItemID, Quantity: it.Quantity})
	}
	var at *geo.Coordinate
	if req.Location != nil {
		at = &geo.Coordinate{Lat: req.Location.Lat, Lon: req.Location.Lon}
	}

	result, err := h.facade.PlaceOrder(c.Request.Context(), optionalAccountID(c), lines, at)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.PlaceOrderResponse{
		Order:           orderResponse(result.Order),
		GeofenceWarning: result.GeofenceWarning,
	})
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.facade.Orders(c.Request.Context(), CurrentAccountID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	resp := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, orderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/orders/:id. Account orders are only visible to their owner.
func (h *OrderHandler) Get(c *gin.Context) {
	order, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, orderResponse(order))
}

// Cancel handles POST /api/orders/:id/cancel for the owning customer.
func (h *OrderHandler) Cancel(c *gin.Context) {
	order, ok := h.load(c)
	if !ok {
		return
	}
	if order.AccountID == nil {
		writeNotFound(c)
		return
	}

	cancelled, err := h.facade.CancelOrder(c.Request.Context(), order.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderResponse(cancelled))
}

func (h *OrderHandler) load(c *gin.Context) (*model.Order, bool) {
	id, ok := pathID(c)
	if !ok {
		return nil, false
	}
	order, err := h.facade.Order(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	if !ownedBy(c, order.AccountID) {
		writeNotFound(c)
		return nil, false
	}
	return order, true
}
