package handler

import (
	"io"
	"net/http"

	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/gin-gonic/gin"

	"github.com/tgo/gridsense/internal/eino/tool"
	"github.com/tgo/gridsense/internal/pkg/response"
)

// ToolsHandler exposes the session tool set over HTTP, for orchestration
// layers that host the conversation loop out of process. Listing returns
// tool names and descriptions; invoking runs one tool with a raw JSON
// argument body and relays its JSON result verbatim.
type ToolsHandler struct {
	registry *tool.Registry
}

func NewToolsHandler(registry *tool.Registry) *ToolsHandler {
	return &ToolsHandler{registry: registry}
}

type toolDescriptor struct {
	Name string `json:"name"`
	Desc string `json:"description"`
}

func (h *ToolsHandler) List(c *gin.Context) {
	tools := h.registry.SessionTools(c.Param("session_id"))
	descriptors := make([]toolDescriptor, 0, len(tools))
	for _, t := range tools {
		info, err := t.Info(c.Request.Context())
		if err != nil {
			response.InternalError(c, err.Error())
			return
		}
		descriptors = append(descriptors, toolDescriptor{Name: info.Name, Desc: info.Desc})
	}
	response.Success(c, gin.H{"tools": descriptors})
}

func (h *ToolsHandler) Invoke(c *gin.Context) {
	name := c.Param("tool_name")

	args, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if len(args) == 0 {
		args = []byte("{}")
	}

	for _, t := range h.registry.SessionTools(c.Param("session_id")) {
		info, err := t.Info(c.Request.Context())
		if err != nil {
			response.InternalError(c, err.Error())
			return
		}
		if info.Name != name {
			continue
		}
		invokable, ok := t.(einotool.InvokableTool)
		if !ok {
			response.InternalError(c, "tool is not invokable")
			return
		}
		out, err := invokable.InvokableRun(c.Request.Context(), string(args))
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		c.Data(http.StatusOK, "application/json", []byte(out))
		return
	}

	response.Error(c, http.StatusNotFound, "TOOL_NOT_FOUND", "no tool named "+name, nil)
}
