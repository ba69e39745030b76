// Dictionary download handler: serves or lazily builds per-language artifacts.
package handlers

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/UIGF-org/UIGF-API/internal/game"
	"github.com/UIGF-org/UIGF-API/internal/language"
	"github.com/UIGF-org/UIGF-API/internal/response"
)

// Dictionaries is the materializer surface the handler needs.
type Dictionaries interface {
	Path(gameName, stem string) string
	GetOrBuild(ctx context.Context, gameName string, lang language.Language) (string, error)
}

// Dict returns the handler for GET /dict/:game/:file, where file is
// "<lang>.json", "all.json" or "md5.json".
func Dict(dict Dictionaries) gin.HandlerFunc {
	return func(c *gin.Context) {
		gameName := c.Param("game")
		file := c.Param("file")

		stem := strings.TrimSuffix(file, ".json")
		if stem == file {
			response.Error(c, http.StatusForbidden, "language not supported")
			return
		}
		stem = strings.ToLower(stem)

		if !game.Supported(gameName) {
			response.Error(c, http.StatusForbidden, "game not supported")
			return
		}

		// Synthetic tokens are served directly and never lazily built: the
		// aggregate and checksum files only exist after a refresh.
		if language.IsDictToken(stem) {
			path := dict.Path(gameName, stem)
			if _, err := os.Stat(path); err != nil {
				response.Error(c, http.StatusBadRequest, "artifact not available yet")
				return
			}
			c.FileAttachment(path, stem+".json")
			return
		}

		lang, err := language.Normalize(stem)
		if err != nil {
			response.Error(c, http.StatusForbidden, "language not supported")
			return
		}
		path, err := dict.GetOrBuild(c.Request.Context(), gameName, lang)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid request")
			return
		}
		c.FileAttachment(path, string(lang)+".json")
	}
}
