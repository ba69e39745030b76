// Router: gin engine assembly with recovery, security headers, CORS and the
// localization API routes.
package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/UIGF-org/UIGF-API/internal/handlers"
	"github.com/UIGF-org/UIGF-API/internal/middleware"
)

// Dependencies are the collaborators the routes need.
type Dependencies struct {
	Resolver     handlers.Resolver
	Dictionaries handlers.Dictionaries
	Checksums    handlers.Checksums
	Refresher    handlers.Refresher
	RefreshToken string
}

// New builds the gin engine: recovery and security headers globally, open
// CORS (the API is public and read-mostly), logging and request ids on every
// route, the shared-secret gate only on /refresh.
func New(deps Dependencies) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type", middleware.HeaderRefreshToken, middleware.HeaderXRequestID},
	}))
	r.Use(middleware.RequestLoggerMiddleware())
	r.Use(middleware.RequestIDMiddleware())

	r.GET("/healthz", handlers.Health())
	r.POST("/translate", handlers.Translate(deps.Resolver))
	r.GET("/identify/:game/:word", handlers.Identify(deps.Resolver))
	r.GET("/dict/:game/:file", handlers.Dict(deps.Dictionaries))
	r.GET("/md5/:game", handlers.Checksum(deps.Checksums, deps.Refresher))

	refreshGroup := r.Group("/refresh")
	refreshGroup.Use(middleware.RefreshTokenMiddleware(deps.RefreshToken))
	refreshGroup.GET("/:game", handlers.Refresh(deps.Refresher))

	return r
}
