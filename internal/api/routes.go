package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Shriiii01/investment-agent/internal/api/handlers"
)

// HealthResponse reports overall service status per component.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Services  Services  `json:"services"`
}

// Services holds per-component health states.
type Services struct {
	Cache   string `json:"cache"`
	Storage string `json:"storage"`
	Agent   string `json:"agent"`
}

// HealthChecker verifies one component is usable.
type HealthChecker interface {
	HealthCheck() error
}

// Dependencies bundles everything the routes need.
type Dependencies struct {
	Analysis    *handlers.AnalysisHandler
	History     *handlers.HistoryHandler
	Settings    *handlers.SettingsHandler
	Cache       *handlers.CacheHandler
	Export      *handlers.ExportHandler
	Performance *handlers.PerformanceHandler

	CacheCheck   HealthChecker
	StorageCheck HealthChecker
	AgentCheck   HealthChecker
}

// SetupRoutes registers the health endpoint and the versioned API.
func SetupRoutes(router *gin.Engine, deps Dependencies) {
	router.GET("/health", healthCheck(deps))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/analysis", deps.Analysis.CreateAnalysis)

		history := v1.Group("/history")
		{
			history.GET("", deps.History.GetHistory)
			history.DELETE("", deps.History.ClearHistory)
			history.GET("/stats", deps.History.GetHistoryStats)
		}

		settings := v1.Group("/settings")
		{
			settings.GET("", deps.Settings.GetSettings)
			settings.PUT("", deps.Settings.UpdateSettings)
		}

		cache := v1.Group("/cache")
		{
			cache.GET("/stats", deps.Cache.GetCacheStats)
			cache.POST("/clear", deps.Cache.ClearCache)
		}

		export := v1.Group("/export")
		{
			export.GET("", deps.Export.ListExports)
			export.POST("/history", deps.Export.ExportHistory)
			export.POST("/report/:id", deps.Export.ExportReport)
			export.POST("/comparison/:id", deps.Export.ExportComparison)
		}

		performance := v1.Group("/performance")
		{
			performance.GET("", deps.Performance.GetPerformance)
			performance.POST("/reset", deps.Performance.ResetPerformance)
		}
	}
}

func healthCheck(deps Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := HealthResponse{
			Status:    "ok",
			Timestamp: time.Now(),
			Version:   "1.0.0",
			Services: Services{
				Cache:   "ok",
				Storage: "ok",
				Agent:   "ok",
			},
		}

		if err := deps.CacheCheck.HealthCheck(); err != nil {
			response.Services.Cache = "error"
			response.Status = "degraded"
		}
		if err := deps.StorageCheck.HealthCheck(); err != nil {
			response.Services.Storage = "error"
			response.Status = "degraded"
		}
		if err := deps.AgentCheck.HealthCheck(); err != nil {
			response.Services.Agent = "error"
			response.Status = "degraded"
		}

		statusCode := http.StatusOK
		if response.Status == "degraded" {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, response)
	}
}
