package http

import (
	stdhttp "net/http"
	"strings"

	"github.com/benbjohnson/clock"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/alejandrobavaro/msjspantallaeventos/internal/catalog"
	"github.com/alejandrobavaro/msjspantallaeventos/internal/config"
	"github.com/alejandrobavaro/msjspantallaeventos/internal/display"
	"github.com/alejandrobavaro/msjspantallaeventos/internal/media"
)

// Deps are the services the HTTP layer drives.
type Deps struct {
	Display  *display.Display
	Ingester *media.Ingester
	Catalog  *catalog.Catalog
	// Clock drives rate limit windows. Defaults to the wall clock.
	Clock clock.Clock
}

// NewServer builds an HTTP server with REST API and WebSocket routes.
func NewServer(deps Deps, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(deps, cfg, logger),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

// NewRouter registers every route on a gin engine.
func NewRouter(deps Deps, cfg *config.Config, logger *zerolog.Logger) *gin.Engine {
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	if deps.Catalog == nil {
		deps.Catalog = catalog.New(catalog.Defaults())
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.CORSOrigins))

	router.GET("/health", healthHandler)
	router.GET("/ws", gin.WrapH(NewWSHandler(deps.Display, deps.Clock, cfg.WSRateLimit, logger)))

	messageHandlers := NewMessageHandlers(deps.Display, deps.Ingester.Registry(), logger)
	mediaHandlers := NewMediaHandlers(deps.Ingester, logger)
	displayHandlers := NewDisplayHandlers(deps.Display, deps.Catalog, logger)

	submitLimit := RateLimitMiddleware(newClientLimiter(deps.Clock, cfg.SubmitRateLimit), logger)

	api := router.Group("/api")
	{
		api.GET("/events", displayHandlers.ListEvents)
		api.GET("/display", displayHandlers.State)
		api.PUT("/display/room", displayHandlers.SelectRoom)

		api.POST("/messages", submitLimit, messageHandlers.Submit)
		api.PUT("/messages/:id", submitLimit, messageHandlers.Edit)
		api.DELETE("/messages/:id", messageHandlers.Delete)

		api.POST("/media", submitLimit, mediaHandlers.Upload)
		api.DELETE("/media", mediaHandlers.Release)

		presentation := api.Group("/presentation")
		presentation.POST("/enter", displayHandlers.Enter)
		presentation.POST("/exit", displayHandlers.Exit)
		presentation.POST("/next", displayHandlers.Next)
		presentation.POST("/previous", displayHandlers.Previous)
		presentation.PUT("/interval", displayHandlers.SetInterval)
	}

	router.GET("/media/blob/:id", mediaHandlers.Blob)

	return router
}

// CORSMiddleware allows the guest and screen pages to call the API from
// another origin. An empty list or "*" allows every origin.
func CORSMiddleware(origins []string) gin.HandlerFunc {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type"}
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}

	var allowed []string
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			allowed = nil
			break
		}
		if origin != "" {
			allowed = append(allowed, origin)
		}
	}
	if len(allowed) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = allowed
	}
	return cors.New(corsCfg)
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
