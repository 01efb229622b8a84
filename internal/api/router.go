package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Conceptual-Machines/magda-harmony/internal/api/handlers"
	apimiddleware "github.com/Conceptual-Machines/magda-harmony/internal/api/middleware"
	"github.com/Conceptual-Machines/magda-harmony/internal/config"
	"github.com/Conceptual-Machines/magda-harmony/internal/metrics"
	"github.com/Conceptual-Machines/magda-harmony/internal/services"
)

// SetupRouter wires the HTTP API. db may be nil when history is disabled and
// cw may be nil when CloudWatch is not configured.
func SetupRouter(db *gorm.DB, cfg *config.Config, cw *metrics.Client, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking(cw))

	// CORS middleware
	router.Use(apimiddleware.CORS())

	history := services.NewHistoryService(db)

	// Health check
	healthHandler := handlers.NewHealthHandler(db)
	router.GET("/health", healthHandler.HealthCheck)

	// Metrics endpoint
	metricsHandler := handlers.NewMetricsHandler(version, cfg, history.Enabled())
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	v1 := router.Group("/api/v1")
	if cfg.IsGatewayMode() {
		v1.Use(apimiddleware.GatewayAuth())
	} else {
		v1.Use(apimiddleware.NoAuth())
	}
	{
		// Theory endpoints - stateless resolution
		theoryHandler := handlers.NewTheoryHandler(cw)
		v1.GET("/theory/keys", theoryHandler.Key)
		v1.GET("/theory/meters", theoryHandler.Meter)
		v1.POST("/theory/chords", theoryHandler.Chord)
		v1.POST("/theory/chords/batch", theoryHandler.ChordBatch)
		v1.POST("/theory/pool", theoryHandler.Pool)

		// Generation endpoints - seeded, recorded in history when enabled
		generationHandler := handlers.NewGenerationHandler(cfg, history, cw)
		v1.POST("/generate/progression", generationHandler.Progression)
		v1.POST("/generate/rhythm", generationHandler.Rhythm)
		v1.POST("/generate/preview", generationHandler.Preview)

		// Harmony DSL endpoint
		dslHandler := handlers.NewDSLHandler(cfg, history, cw)
		v1.POST("/dsl", dslHandler.Execute)

		// Generation history
		historyHandler := handlers.NewHistoryHandler(history, cw)
		v1.GET("/generations", historyHandler.List)
	}

	return router
}
