package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"documate/internal/shared/metrics"
	"documate/internal/shared/server/middleware"
	"documate/internal/shared/server/respond"
)

// Routes is implemented by front ends that mount handlers on the engine.
type Routes interface {
	RegisterRoutes(r gin.IRouter)
}

// NewRouter constructs the Gin engine with middleware, health, metrics and the given routes.
func NewRouter(env string, routes ...Routes) *gin.Engine {
	if env == "dev" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.Identity(),
	)

	r.GET("/api/v1/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())

	for _, rt := range routes {
		rt.RegisterRoutes(r)
	}
	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "route not found", nil)
	})
	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
