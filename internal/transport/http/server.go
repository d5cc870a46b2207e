package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/RRGcodex/collaborative-whiteboard/internal/config"
	"github.com/RRGcodex/collaborative-whiteboard/internal/core"
	"github.com/RRGcodex/collaborative-whiteboard/internal/metrics"
)

// NewServer builds the HTTP server: greeting, health, metrics and the
// websocket endpoint.
func NewServer(hub *core.Hub, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(LoggerMiddleware(logger), CORSMiddleware())

	router.GET("/", greetingHandler)
	router.GET("/health", healthHandler)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/ws", gin.WrapH(NewWSHandler(hub, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func greetingHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "Hello, world!")
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
