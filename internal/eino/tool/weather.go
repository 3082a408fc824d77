package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/tgo/gridsense/internal/pipeline"
)

// WeatherToolkit exposes the five weather-analysis pipeline steps as
// tools bound to one conversation session. The orchestration layer may
// call them in any order; each step validates its own prerequisites and
// always answers with a tagged JSON result.
type WeatherToolkit struct {
	engine    *pipeline.Engine
	sessionID string
}

func NewWeatherToolkit(engine *pipeline.Engine, sessionID string) *WeatherToolkit {
	return &WeatherToolkit{engine: engine, sessionID: sessionID}
}

// Tools returns the toolkit in pipeline order.
func (k *WeatherToolkit) Tools() []tool.BaseTool {
	return []tool.BaseTool{
		&geocodeTool{k},
		&loadDatasetTool{k},
		&filterDatasetTool{k},
		&renderChartsTool{k},
		&summarizeTool{k},
	}
}

func marshalResult(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}
	return string(b), nil
}

type geocodeTool struct {
	kit *WeatherToolkit
}

func (t *geocodeTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: "get_lat_long_from_address",
		Desc: "Resolve a street address or place name to latitude/longitude and store the coordinates in the session context.",
		ParamsOneOf: schema.NewParamsOneOfByParams(
			map[string]*schema.ParameterInfo{
				"address": {
					Type:     schema.String,
					Desc:     "The street address or location name",
					Required: true,
				},
			},
		),
	}, nil
}

func (t *geocodeTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...tool.Option) (string, error) {
	var input struct {
		Address string `json:"address"`
	}
	if err := json.Unmarshal([]byte(argumentsInJSON), &input); err != nil {
		return "", fmt.Errorf("parse arguments: %w", err)
	}
	return marshalResult(t.kit.engine.ResolveLocation(ctx, t.kit.sessionID, input.Address))
}

type timeRangeInput struct {
	InitTime string `json:"init_time"`
	EndTime  string `json:"end_time"`
}

type loadDatasetTool struct {
	kit *WeatherToolkit
}

func (t *loadDatasetTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: "get_weather_forecast_dataframe",
		Desc: "Load hourly weather data for the session's resolved coordinates over a date range into the session context. Requires coordinates from get_lat_long_from_address.",
		ParamsOneOf: schema.NewParamsOneOfByParams(
			map[string]*schema.ParameterInfo{
				"init_time": {
					Type:     schema.String,
					Desc:     "Start time, ISO 8601 (e.g. '2024-06-01' or '2024-06-01T00:00:00')",
					Required: true,
				},
				"end_time": {
					Type: schema.String,
					Desc: "Optional end time, ISO 8601. Defaults to the start day.",
				},
			},
		),
	}, nil
}

func (t *loadDatasetTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...tool.Option) (string, error) {
	var input timeRangeInput
	if err := json.Unmarshal([]byte(argumentsInJSON), &input); err != nil {
		return "", fmt.Errorf("parse arguments: %w", err)
	}
	return marshalResult(t.kit.engine.LoadDataset(ctx, t.kit.sessionID, input.InitTime, input.EndTime))
}

type filterDatasetTool struct {
	kit *WeatherToolkit
}

func (t *filterDatasetTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: "filter_weather_dataframe_by_time",
		Desc: "Filter the loaded weather dataset. With end_time, keeps records in [init_time, end_time]; without it, keeps only the single day matching init_time's month and day.",
		ParamsOneOf: schema.NewParamsOneOfByParams(
			map[string]*schema.ParameterInfo{
				"init_time": {
					Type:     schema.String,
					Desc:     "Start time, ISO 8601",
					Required: true,
				},
				"end_time": {
					Type: schema.String,
					Desc: "Optional end time, ISO 8601",
				},
			},
		),
	}, nil
}

func (t *filterDatasetTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...tool.Option) (string, error) {
	var input timeRangeInput
	if err := json.Unmarshal([]byte(argumentsInJSON), &input); err != nil {
		return "", fmt.Errorf("parse arguments: %w", err)
	}
	return marshalResult(t.kit.engine.FilterDataset(ctx, t.kit.sessionID, input.InitTime, input.EndTime))
}

type renderChartsTool struct {
	kit *WeatherToolkit
}

func (t *renderChartsTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: "generate_weather_info_charts",
		Desc: "Render one time-series chart per weather field from the session dataset (capped to 7 days) and persist them as session artifacts.",
		ParamsOneOf: schema.NewParamsOneOfByParams(
			map[string]*schema.ParameterInfo{},
		),
	}, nil
}

func (t *renderChartsTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...tool.Option) (string, error) {
	return marshalResult(t.kit.engine.RenderCharts(ctx, t.kit.sessionID))
}

type summarizeTool struct {
	kit *WeatherToolkit
}

func (t *summarizeTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: "summarize_weather_from_plots",
		Desc: "Analyze the session's rendered weather charts with a vision model and return a short narrative summary.",
		ParamsOneOf: schema.NewParamsOneOfByParams(
			map[string]*schema.ParameterInfo{},
		),
	}, nil
}

func (t *summarizeTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...tool.Option) (string, error) {
	return marshalResult(t.kit.engine.Summarize(ctx, t.kit.sessionID))
}
