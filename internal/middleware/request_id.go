// Middleware: X-Request-ID propagation for log correlation.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const HeaderXRequestID = "X-Request-ID"

// RequestIDMiddleware echoes a client-supplied X-Request-ID (when it is a
// valid UUID) or generates one, and sets it on the response.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderXRequestID)
		if _, err := uuid.Parse(rid); err != nil {
			rid = uuid.NewString()
		}
		c.Set(HeaderXRequestID, rid)
		c.Header(HeaderXRequestID, rid)
		c.Next()
	}
}
