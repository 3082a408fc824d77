package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
)

// SearchTool grounds market-pulse questions (fuel prices, grid incidents,
// supplier news) with a web search via the DuckDuckGo instant answer API.
type SearchTool struct {
	httpClient *http.Client
	toolInfo   *schema.ToolInfo
}

func NewSearchTool(timeout time.Duration) *SearchTool {
	return &SearchTool{
		httpClient: &http.Client{Timeout: timeout},
		toolInfo: &schema.ToolInfo{
			Name: "web_search",
			Desc: "Search the web for current information, e.g. energy market news, fuel prices, or grid events.",
			ParamsOneOf: schema.NewParamsOneOfByParams(
				map[string]*schema.ParameterInfo{
					"query": {
						Type:     schema.String,
						Desc:     "The search query",
						Required: true,
					},
				},
			),
		},
	}
}

func (t *SearchTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return t.toolInfo, nil
}

type searchInput struct {
	Query string `json:"query"`
}

type searchOutput struct {
	Summary       string   `json:"summary,omitempty"`
	Answer        string   `json:"answer,omitempty"`
	RelatedTopics []string `json:"related_topics,omitempty"`
	Note          string   `json:"note,omitempty"`
}

func (t *SearchTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...tool.Option) (string, error) {
	var input searchInput
	if err := json.Unmarshal([]byte(argumentsInJSON), &input); err != nil {
		return "", fmt.Errorf("parse arguments: %w", err)
	}

	apiURL := "https://api.duckduckgo.com/?q=" + url.QueryEscape(input.Query) + "&format=json&no_html=1"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var result struct {
		Abstract      string `json:"Abstract"`
		Answer        string `json:"Answer"`
		RelatedTopics []struct {
			Text string `json:"Text"`
		} `json:"RelatedTopics"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}

	out := searchOutput{
		Summary: result.Abstract,
		Answer:  result.Answer,
	}
	for i, topic := range result.RelatedTopics {
		if i >= 5 {
			break
		}
		if topic.Text != "" {
			out.RelatedTopics = append(out.RelatedTopics, topic.Text)
		}
	}
	if out.Summary == "" && out.Answer == "" && len(out.RelatedTopics) == 0 {
		out.Note = "No results found for the query."
	}

	return marshalResult(out)
}
