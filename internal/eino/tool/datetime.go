package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
)

// DateTimeTool reports the current date and time in a requested zone.
// An unknown zone falls back to UTC rather than failing, so the
// orchestration layer always gets a usable answer.
type DateTimeTool struct {
	toolInfo *schema.ToolInfo
	now      func() time.Time
}

func NewDateTimeTool() *DateTimeTool {
	return &DateTimeTool{
		now: time.Now,
		toolInfo: &schema.ToolInfo{
			Name: "get_current_date_time",
			Desc: "Get the current date and time. Optionally specify a time zone; defaults to UTC.",
			ParamsOneOf: schema.NewParamsOneOfByParams(
				map[string]*schema.ParameterInfo{
					"time_zone": {
						Type: schema.String,
						Desc: "Time zone name (e.g. 'Asia/Kolkata', 'America/New_York'). Defaults to UTC.",
					},
				},
			),
		},
	}
}

func (t *DateTimeTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return t.toolInfo, nil
}

type datetimeInput struct {
	TimeZone string `json:"time_zone"`
}

type datetimeOutput struct {
	CurrentDate string `json:"current_date"`
	CurrentTime string `json:"current_time"`
	TimeZone    string `json:"time_zone"`
}

func (t *DateTimeTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...tool.Option) (string, error) {
	var input datetimeInput
	if err := json.Unmarshal([]byte(argumentsInJSON), &input); err != nil {
		return "", fmt.Errorf("parse arguments: %w", err)
	}

	zone := input.TimeZone
	if zone == "" {
		zone = "UTC"
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		// Invalid zone falls back to UTC
		loc = time.UTC
		zone = "UTC"
	}

	now := t.now().In(loc)
	out := datetimeOutput{
		CurrentDate: now.Format("2006-01-02"),
		CurrentTime: now.Format("15:04:05"),
		TimeZone:    zone,
	}
	return marshalResult(out)
}
