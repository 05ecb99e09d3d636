package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/gopherbistro/internal/pkg/geo"
	"github.com/polkiloo/gopherbistro/internal/server/http/dto"
)

// CatalogHandler serves the menu and the geofence check.
type CatalogHandler struct {
	facade CatalogFacade
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(facade CatalogFacade) *CatalogHandler {
	return &CatalogHandler{facade: facade}
}

// Geofence handles GET /api/geofence?lat=&lon=.
func (h *CatalogHandler) Geofence(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "malformed_request"})
		return
	}

	eligible, distance, err := h.facade.CheckGeofence(geo.Coordinate{Lat: lat, Lon: lon})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.GeofenceResponse{Eligible: eligible, DistanceMeters: distance})
}

// Menu handles GET /api/menu.
func (h *CatalogHandler) Menu(c *gin.Context) {
	items, err := h.facade.Menu(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]dto.MenuItemResponse, 0, len(items))
	for _, it := range items {
		resp = append(resp, dto.MenuItemResponse{ID: it.ID, Name: it.Name, Price: it.Price.StringFixed(2)})
	}
	c.JSON(http.StatusOK, resp)
}
