package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/gopherbistro/internal/server/http/dto"
	"github.com/polkiloo/gopherbistro/internal/server/http/middleware"
)

// CurrentAccountID extracts authenticated account identifier from context.
func CurrentAccountID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.AccountIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

// optionalAccountID returns nil for guests.
func optionalAccountID(c *gin.Context) *int64 {
	if id := CurrentAccountID(c); id != 0 {
		return &id
	}
	return nil
}

// ownedBy reports whether the caller may see a resource owned by owner.
// Guest resources are visible to anyone holding their id.
func ownedBy(c *gin.Context, owner *int64) bool {
	return owner == nil || *owner == CurrentAccountID(c)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_id"})
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "malformed_request"})
		return false
	}
	return true
}
