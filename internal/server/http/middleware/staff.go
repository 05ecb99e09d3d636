package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// StaffKeyHeader carries the shared staff secret.
const StaffKeyHeader = "X-Staff-Key"

// StaffRequired admits requests presenting key. An empty key disables staff routes entirely.
func StaffRequired(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "staff_disabled"})
			return
		}
		supplied := c.GetHeader(StaffKeyHeader)
		if subtle.ConstantTimeCompare([]byte(supplied), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
