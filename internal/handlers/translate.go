// Translate handlers: text<->id resolution, item identification.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/UIGF-org/UIGF-API/internal/game"
	"github.com/UIGF-org/UIGF-API/internal/language"
	"github.com/UIGF-org/UIGF-API/internal/response"
	"github.com/UIGF-org/UIGF-API/internal/translator"
)

// Resolver is the translation surface the handlers need.
type Resolver interface {
	ResolveForward(ctx context.Context, gameName, langCode, itemName string) (translator.Result, error)
	ResolveReverse(ctx context.Context, gameName, langCode, itemID string) (translator.Result, error)
	Identify(ctx context.Context, gameName, text string) ([]translator.Match, error)
}

// TranslateRequest is the POST /translate body.
type TranslateRequest struct {
	Type     string `json:"type" binding:"required"`
	Lang     string `json:"lang" binding:"required"`
	Game     string `json:"game" binding:"required"`
	ItemName string `json:"item_name"`
	ItemID   string `json:"item_id"`
}

// Translate returns the handler for POST /translate.
func Translate(res Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TranslateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "type, lang and game must be provided")
			return
		}

		switch strings.ToLower(req.Type) {
		case "normal":
			if req.ItemName == "" {
				response.Error(c, http.StatusBadRequest, "item_name must be provided")
				return
			}
			result, err := res.ResolveForward(c.Request.Context(), req.Game, req.Lang, req.ItemName)
			if err != nil {
				translateError(c, err)
				return
			}
			if result.List {
				c.JSON(http.StatusOK, gin.H{"item_id": result.Values})
				return
			}
			c.JSON(http.StatusOK, gin.H{"item_id": result.Value, "item_name": req.ItemName})

		case "reverse":
			if req.ItemID == "" {
				response.Error(c, http.StatusBadRequest, "item_id must be provided")
				return
			}
			result, err := res.ResolveReverse(c.Request.Context(), req.Game, req.Lang, req.ItemID)
			if err != nil {
				translateError(c, err)
				return
			}
			if result.List {
				c.JSON(http.StatusOK, gin.H{"item_name": result.Values})
				return
			}
			c.JSON(http.StatusOK, gin.H{"item_name": result.Value, "item_id": req.ItemID})

		default:
			response.Error(c, http.StatusForbidden, "translate type not supported")
		}
	}
}

// Identify returns the handler for GET /identify/:game/:word.
func Identify(res Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		matches, err := res.Identify(c.Request.Context(), c.Param("game"), c.Param("word"))
		if err != nil {
			switch {
			case errors.Is(err, game.ErrNotSupported):
				response.Error(c, http.StatusNotFound, "game not supported")
			case errors.Is(err, translator.ErrItemNotFound):
				response.Error(c, http.StatusNotFound, "item not found")
			default:
				response.Error(c, http.StatusInternalServerError, "internal server error")
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(matches), "matched": matches})
	}
}

func translateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, language.ErrNotSupported):
		response.Error(c, http.StatusForbidden, "language not supported")
	case errors.Is(err, game.ErrNotSupported):
		response.Error(c, http.StatusForbidden, "game not supported")
	case errors.Is(err, translator.ErrMalformedList):
		response.Error(c, http.StatusBadRequest, "list input must be a valid JSON array")
	case errors.Is(err, translator.ErrItemNotFound):
		response.Error(c, http.StatusNotFound, "item not found")
	default:
		response.Error(c, http.StatusInternalServerError, "internal server error")
	}
}
