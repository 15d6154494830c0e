package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const Version = "1.0.0"

type SystemHandler struct {
	environment string
	started     time.Time
}

func NewSystemHandler(environment string) *SystemHandler {
	return &SystemHandler{environment: environment, started: time.Now()}
}

// Banner godoc
// @Summary Service banner
// @Tags System
// @Success 200 {object} gin.H "message, version, timestamp, endpoints"
// @Router / [get]
func (h *SystemHandler) Banner(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "Coursell API",
		"version":   Version,
		"timestamp": time.Now().UTC(),
		"endpoints": gin.H{
			"user":     "/api/user",
			"admin":    "/api/admin",
			"courses":  "/api/courses",
			"purchase": "/api/purchase",
			"health":   "/health",
			"metrics":  "/metrics",
		},
	})
}

// Health godoc
// @Summary Liveness check
// @Tags System
// @Success 200 {object} gin.H "status, timestamp, uptime, environment"
// @Router /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"timestamp":   time.Now().UTC(),
		"uptime":      time.Since(h.started).Seconds(),
		"environment": h.environment,
	})
}
