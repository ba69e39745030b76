// Package response provides the API error body format: {"detail": message}.
package response

import (
	"github.com/gin-gonic/gin"
)

// Detail is the error payload for every non-2xx response.
type Detail struct {
	Detail string `json:"detail"`
}

// Error sends an error response with status code and detail message.
func Error(c *gin.Context, statusCode int, detail string) {
	c.JSON(statusCode, Detail{Detail: detail})
}

// AbortWithError aborts the chain and sends the error response (for middleware).
func AbortWithError(c *gin.Context, statusCode int, detail string) {
	c.AbortWithStatusJSON(statusCode, Detail{Detail: detail})
}
