package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/tgo/gridsense/internal/model"
	"github.com/tgo/gridsense/internal/repository"
	"github.com/tgo/gridsense/internal/status"
)

// RunQueryTool executes an orchestration-layer-generated SELECT against
// the demand fact table and returns the rows.
type RunQueryTool struct {
	repo     *repository.DemandRepository
	toolInfo *schema.ToolInfo
}

func NewRunQueryTool(repo *repository.DemandRepository) *RunQueryTool {
	return &RunQueryTool{
		repo: repo,
		toolInfo: &schema.ToolInfo{
			Name: "execute_sql_query",
			Desc: "Execute a read-only SELECT query against the power demand table and return the result rows.",
			ParamsOneOf: schema.NewParamsOneOfByParams(
				map[string]*schema.ParameterInfo{
					"sql_query": {
						Type:     schema.String,
						Desc:     "The SELECT statement to execute",
						Required: true,
					},
				},
			),
		},
	}
}

func (t *RunQueryTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return t.toolInfo, nil
}

type runQueryInput struct {
	SQLQuery string `json:"sql_query"`
}

type runQueryOutput struct {
	status.Envelope
	Rows []map[string]any `json:"rows,omitempty"`
}

func (t *RunQueryTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...tool.Option) (string, error) {
	var input runQueryInput
	if err := json.Unmarshal([]byte(argumentsInJSON), &input); err != nil {
		return "", fmt.Errorf("parse arguments: %w", err)
	}

	rows, err := t.repo.RunSelect(ctx, input.SQLQuery)
	if err != nil {
		return marshalResult(runQueryOutput{
			Envelope: status.Err(status.E(status.KindDataSourceUnavailable, "error executing query: %v", err)),
		})
	}
	return marshalResult(runQueryOutput{Envelope: status.OK(), Rows: rows})
}

// TableSchemaTool returns the fact table's column names and types, for
// the orchestration layer to embed into query-generation prompts.
type TableSchemaTool struct {
	repo     *repository.DemandRepository
	toolInfo *schema.ToolInfo
}

func NewTableSchemaTool(repo *repository.DemandRepository) *TableSchemaTool {
	return &TableSchemaTool{
		repo: repo,
		toolInfo: &schema.ToolInfo{
			Name: "load_table_schema",
			Desc: "Get the column names and types of the power demand table.",
			ParamsOneOf: schema.NewParamsOneOfByParams(
				map[string]*schema.ParameterInfo{},
			),
		},
	}
}

func (t *TableSchemaTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return t.toolInfo, nil
}

func (t *TableSchemaTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...tool.Option) (string, error) {
	columns, err := t.repo.TableSchema(ctx)
	if err != nil {
		return "[table schema not available]", nil
	}
	return repository.FormatSchema(model.DemandRecord{}.TableName(), columns), nil
}
