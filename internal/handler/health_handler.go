package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"privlens/internal/middleware"
	"privlens/internal/port"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	repo      port.AnalysisRepository
	reasoning port.HealthChecker
}

// NewHealthHandler creates a new HealthHandler. reasoning may be nil, in
// which case readiness only covers the analysis store.
func NewHealthHandler(repo port.AnalysisRepository, reasoning port.HealthChecker) *HealthHandler {
	return &HealthHandler{repo: repo, reasoning: reasoning}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
// An unreachable store makes the service unavailable. An unhealthy reasoning
// provider only marks it degraded: analyses still complete with neutral
// section records.
func (h *HealthHandler) Readiness(c *gin.Context) {
	log := middleware.GetLogger(c)
	if err := h.repo.Ping(c.Request.Context()); err != nil {
		log.Warn("healthHandler.Readiness: store not reachable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "analysis store not reachable"})
		return
	}

	if h.reasoning == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	if err := h.reasoning.Ping(c.Request.Context()); err != nil {
		log.Warn("healthHandler.Readiness: reasoning provider unhealthy", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"status": "degraded", "reasoning": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "reasoning": "ok"})
}
