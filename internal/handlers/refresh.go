// Refresh and checksum handlers.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/UIGF-org/UIGF-API/internal/game"
	"github.com/UIGF-org/UIGF-API/internal/refresh"
	"github.com/UIGF-org/UIGF-API/internal/response"
)

// Refresher schedules background work; results are never returned inline.
type Refresher interface {
	Trigger(gameName string) error
	ScheduleChecksum(gameName string) error
}

// Checksums is the read surface of the checksum cache.
type Checksums interface {
	Get(gameName string) (map[string]string, bool)
}

// Refresh returns the handler for GET /refresh/:game. The shared-secret gate
// runs as middleware before this. The response is always an acknowledgement;
// the refresh outcome is observed via /md5 and logs.
func Refresh(r Refresher) gin.HandlerFunc {
	return func(c *gin.Context) {
		gameName := c.Param("game")
		err := r.Trigger(gameName)
		switch {
		case errors.Is(err, game.ErrNotSupported):
			response.Error(c, http.StatusForbidden, "game not supported")
		case errors.Is(err, refresh.ErrAlreadyRunning):
			c.JSON(http.StatusAccepted, gin.H{"status": "refresh already in progress"})
		case err != nil:
			response.Error(c, http.StatusInternalServerError, "could not schedule refresh")
		default:
			c.JSON(http.StatusAccepted, gin.H{"status": "background refresh task added"})
		}
	}
}

// Checksum returns the handler for GET /md5/:game. A cold cache answers
// "pending" and schedules an async refresh instead of blocking the caller.
func Checksum(sums Checksums, r Refresher) gin.HandlerFunc {
	return func(c *gin.Context) {
		gameName := c.Param("game")
		if !game.Supported(gameName) {
			response.Error(c, http.StatusForbidden, "game not supported")
			return
		}
		if m, ok := sums.Get(gameName); ok {
			c.JSON(http.StatusOK, m)
			return
		}
		_ = r.ScheduleChecksum(gameName)
		c.JSON(http.StatusOK, gin.H{"status": "pending"})
	}
}
