// Middleware: shared-secret gate for the refresh endpoint.
package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/UIGF-org/UIGF-API/internal/response"
)

const HeaderRefreshToken = "X-Refresh-Token"

// RefreshTokenMiddleware checks the X-Refresh-Token header against the
// configured shared secret with a constant-time compare; 403 on mismatch.
func RefreshTokenMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderRefreshToken)
		if raw == "" {
			response.AbortWithError(c, http.StatusForbidden, "missing X-Refresh-Token header")
			return
		}
		if subtle.ConstantTimeCompare([]byte(raw), []byte(token)) != 1 {
			response.AbortWithError(c, http.StatusForbidden, "token not accepted")
			return
		}
		c.Next()
	}
}
