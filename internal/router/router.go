package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"privlens/internal/handler"
	"privlens/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	policyH *handler.PolicyHandler,
	healthH *handler.HealthHandler,
	corsOrigins []string,
	logger *zap.Logger,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	policies := v1.Group("/policies")
	policies.POST("/analyze", policyH.Analyze)
	policies.POST("/analyze/upload", policyH.Upload)
	policies.GET("", policyH.List)
	policies.GET("/models", policyH.Models)
	policies.GET("/:id", policyH.GetByID)
	policies.GET("/:id/export", policyH.Export)

	return r
}
