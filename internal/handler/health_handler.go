package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ReadinessReporter reports the state of each dependency
type ReadinessReporter interface {
	Report(ctx context.Context) (map[string]string, bool)
}

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	readiness ReadinessReporter
}

func NewHealthHandler(r ReadinessReporter) *HealthHandler {
	return &HealthHandler{readiness: r}
}

// Live reports that the process is serving requests
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready returns 503 when any dependency check fails
func (h *HealthHandler) Ready(c *gin.Context) {
	report, healthy := h.readiness.Report(c.Request.Context())
	if !healthy {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "checks": report})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": report})
}

func (h *HealthHandler) RegisterHealthRoutes(r gin.IRoutes) {
	r.GET("/health", h.Live)
	r.GET("/ready", h.Ready)
}
