// Middleware: panic recovery with a 500 response that leaks no stack to the client.
package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/UIGF-org/UIGF-API/internal/response"
)

// RecoveryMiddleware intercepts panics, logs them and returns 500 without
// exposing details to the client.
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("[PANIC] path=%s err=%v", c.Request.URL.Path, err)
				response.AbortWithError(c, http.StatusInternalServerError, "internal server error")
			}
		}()
		c.Next()
	}
}
