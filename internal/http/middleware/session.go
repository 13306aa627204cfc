// README: Session middleware; validates the :uid path segment and exposes it to handlers.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	ctxKeyUID    = "uid"
	maxUIDLength = 64
)

// isValidUID accepts letters, digits, '-' and '_' (UUIDs included).
func isValidUID(v string) bool {
	if v == "" || len(v) > maxUIDLength {
		return false
	}
	for _, c := range v {
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '-' || c == '_' {
			continue
		}
		return false
	}
	return true
}

// Session rejects requests whose :uid is not a usable session key. There is no
// authentication; the uid only partitions stored state.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.Param("uid")
		if !isValidUID(uid) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}
		c.Set(ctxKeyUID, uid)
		c.Next()
	}
}

// CallerUID returns the uid stored by Session.
func CallerUID(c *gin.Context) string {
	return c.GetString(ctxKeyUID)
}
