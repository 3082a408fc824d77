package tool

import (
	"time"

	"github.com/cloudwego/eino/components/tool"

	"github.com/tgo/gridsense/internal/forecast"
	"github.com/tgo/gridsense/internal/pipeline"
	"github.com/tgo/gridsense/internal/repository"
)

// Registry assembles the tool set handed to the external orchestration
// layer: the per-session weather pipeline toolkit plus the shared
// stateless tools.
type Registry struct {
	engine      *pipeline.Engine
	forecaster  *forecast.Forecaster
	repo        *repository.DemandRepository
	httpTimeout time.Duration
}

func NewRegistry(engine *pipeline.Engine, forecaster *forecast.Forecaster, repo *repository.DemandRepository, httpTimeout time.Duration) *Registry {
	return &Registry{
		engine:      engine,
		forecaster:  forecaster,
		repo:        repo,
		httpTimeout: httpTimeout,
	}
}

// SessionTools returns every tool for a conversation session: the five
// pipeline steps bound to the session, then the shared tools.
func (r *Registry) SessionTools(sessionID string) []tool.BaseTool {
	tools := NewWeatherToolkit(r.engine, sessionID).Tools()
	return append(tools, r.SharedTools()...)
}

// SharedTools returns the session-independent tools.
func (r *Registry) SharedTools() []tool.BaseTool {
	tools := []tool.BaseTool{
		NewDemandForecastTool(r.forecaster),
		NewDateTimeTool(),
		NewSearchTool(r.httpTimeout),
	}
	if r.repo != nil {
		tools = append(tools, NewRunQueryTool(r.repo), NewTableSchemaTool(r.repo))
	}
	return tools
}
