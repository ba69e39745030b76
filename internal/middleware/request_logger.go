// Middleware: per-request logging of method, path, status and duration.
package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLoggerMiddleware logs every request after handling: method, path,
// status, duration. Example: [API] POST /translate -> 200 (15ms)
func RequestLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method
		path := c.Request.URL.Path
		if path == "" {
			path = "/"
		}
		c.Next()
		status := c.Writer.Status()
		log.Printf("[API] %s %s -> %d (%v)", method, path, status, time.Since(start).Round(time.Millisecond))
	}
}
