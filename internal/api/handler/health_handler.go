package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health handles GET /health
func Health(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := deps.Health.HealthCheck(c.Request.Context()); err != nil {
			deps.Logger.Error("Health check failed", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"service": deps.Settings.ServiceName,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"service":  deps.Settings.ServiceName,
			"database": deps.Health.Stats(),
		})
	}
}
