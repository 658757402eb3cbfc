package http

import (
	"cuctask_bot/internal/http/handlers"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes mounts the operational endpoints. Tasks themselves are only
// reachable through the chat bot.
func RegisterRoutes(r *gin.Engine, deps map[string]handlers.Pinger, version string) {
	healthHandler := handlers.NewHealthHandler(deps, version)

	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
