package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/tgo/gridsense/internal/forecast"
)

// DemandForecastTool exposes the demand forecaster. It is fully
// flexible: any combination of state/region/supplier filters, or none for
// a national forecast.
type DemandForecastTool struct {
	forecaster *forecast.Forecaster
	toolInfo   *schema.ToolInfo
}

func NewDemandForecastTool(forecaster *forecast.Forecaster) *DemandForecastTool {
	return &DemandForecastTool{
		forecaster: forecaster,
		toolInfo: &schema.ToolInfo{
			Name: "get_demand_forecast",
			Desc: "Forecast daily power demand using triple exponential smoothing. Filter by state, region, power supplier, any combination, or none for a national forecast.",
			ParamsOneOf: schema.NewParamsOneOfByParams(
				map[string]*schema.ParameterInfo{
					"period": {
						Type:     schema.Integer,
						Desc:     "Number of future days to forecast",
						Required: true,
					},
					"state": {
						Type: schema.String,
						Desc: "Optional state to filter by",
					},
					"region": {
						Type: schema.String,
						Desc: "Optional region to filter by",
					},
					"power_supplier": {
						Type: schema.String,
						Desc: "Optional power supplier to filter by",
					},
					"history_days": {
						Type: schema.Integer,
						Desc: "Number of most recent days of history to use. Defaults to 90.",
					},
				},
			),
		},
	}
}

func (t *DemandForecastTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return t.toolInfo, nil
}

func (t *DemandForecastTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...tool.Option) (string, error) {
	var input forecast.Request
	if err := json.Unmarshal([]byte(argumentsInJSON), &input); err != nil {
		return "", fmt.Errorf("parse arguments: %w", err)
	}
	return marshalResult(t.forecaster.Forecast(ctx, input))
}
