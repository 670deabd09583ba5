package http

import (
	"github.com/gin-gonic/gin"
	"github.com/mealcraft/backend/config"
	"github.com/mealcraft/backend/internal/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// multipartOverhead leaves room for form headers and boundaries around the
// audio part. The exact audio size is checked by the transcription service.
const multipartOverhead = 16 << 10

func uploadBodyLimit(maxUploadBytes int64) int64 {
	if maxUploadBytes <= 0 {
		return 0
	}
	return maxUploadBytes + multipartOverhead
}

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, log logger.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	if cfg.OpenAI.MaxUploadBytes > 0 {
		router.MaxMultipartMemory = cfg.OpenAI.MaxUploadBytes
	}

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(log))
	router.Use(LoggerMiddleware(log))
	router.Use(MetricsMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		v1.POST("/match", handler.MatchRecipes)
		v1.POST("/stt", BodyLimitMiddleware(uploadBodyLimit(cfg.OpenAI.MaxUploadBytes)), handler.Transcribe)
		v1.GET("/nutrition/:recipeId", handler.GetNutrition)
	}

	return router
}
