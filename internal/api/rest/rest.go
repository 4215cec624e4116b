package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/feral-file/ff-bitmap/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig, rateCfg middleware.RateLimitConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes, rate limited per client
	v1 := router.Group("/api/v1", middleware.RateLimit(rateCfg))
	{
		// Raw pixel buffer encoding (requires authentication when credentials are configured)
		if authCfg.Enabled() {
			v1.POST("/images", middleware.Auth(authCfg), handler.EncodeImage)
		} else {
			v1.POST("/images", handler.EncodeImage)
		}

		// Fractal rendering (public)
		v1.GET("/fractals/mandelbrot", handler.RenderMandelbrot)
	}
}
