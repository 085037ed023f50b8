package server

import (
	"github.com/gin-gonic/gin"

	"triage-backend/internal/process"
	"triage-backend/internal/shared/config"
	"triage-backend/internal/shared/server/middleware"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config, handler *process.Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	api := r.Group("/api")
	handler.RegisterRoutes(api)

	// Finished artifacts are exposed read-only; the pipeline only ever hands
	// out paths under this prefix.
	r.Static("/downloads", cfg.DownloadDir)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":3000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
