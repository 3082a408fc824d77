package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tgo/gridsense/internal/config"
	"github.com/tgo/gridsense/internal/eino/tool"
	"github.com/tgo/gridsense/internal/forecast"
	"github.com/tgo/gridsense/internal/middleware"
	"github.com/tgo/gridsense/internal/pipeline"
	"github.com/tgo/gridsense/internal/repository"
)

// Deps carries the wired core components into the router.
type Deps struct {
	Engine     *pipeline.Engine
	Forecaster *forecast.Forecaster
	Repo       *repository.DemandRepository
	Tools      *tool.Registry
}

func SetupRouter(cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.RequestID())

	// Health check
	r.GET("/health", healthCheck)

	pipelineHandler := NewPipelineHandler(deps.Engine)
	forecastHandler := NewForecastHandler(deps.Forecaster)

	v1 := r.Group("/api/v1")
	{
		// Weather-analysis pipeline, one context per session
		p := v1.Group("/sessions/:session_id/pipeline")
		{
			p.POST("/geocode", pipelineHandler.Geocode)
			p.POST("/load", pipelineHandler.Load)
			p.POST("/filter", pipelineHandler.Filter)
			p.POST("/render", pipelineHandler.Render)
			p.POST("/summarize", pipelineHandler.Summarize)
		}

		// Session tool set for out-of-process orchestrators
		toolsHandler := NewToolsHandler(deps.Tools)
		v1.GET("/sessions/:session_id/tools", toolsHandler.List)
		v1.POST("/sessions/:session_id/tools/:tool_name", toolsHandler.Invoke)

		// Demand forecasting
		v1.POST("/forecast/demand", forecastHandler.Demand)

		// Ad-hoc analytics
		queryHandler := NewQueryHandler(deps.Repo)
		v1.POST("/query", queryHandler.Run)
		v1.GET("/schema", queryHandler.Schema)
	}

	return r
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
