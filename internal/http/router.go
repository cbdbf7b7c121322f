package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"go.ngs.io/wavegreen/internal/usecase"
)

// SetupRouter creates and configures the Gin router. An empty allowedOrigins
// allows all origins.
func SetupRouter(evaluationUC *usecase.EvaluationUseCase, allowedOrigins []string) *gin.Engine {

	router := gin.Default()

	// Setup CORS middleware.
	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) > 0 {
		corsConfig.AllowOrigins = allowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}

	router.Use(cors.New(corsConfig))

	// Create handler.
	handler := NewHandler(evaluationUC)

	// API v1 routes.
	v1 := router.Group("/v1")
	// Green's function evaluations.
	green := v1.Group("/green")
	green.GET("/evaluate", handler.GetEvaluate)
	green.POST("/batch", handler.PostBatch)

	// Tabulation description.
	v1.GET("/tabulation", handler.GetTabulation)

	// Health check.
	router.GET("/health", handler.HealthCheck)

	return router
}
