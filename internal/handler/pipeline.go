package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tgo/gridsense/internal/pipeline"
	"github.com/tgo/gridsense/internal/pkg/response"
	"github.com/tgo/gridsense/internal/status"
)

// httpStatus maps an error kind to the HTTP status of the response. The
// tagged result body is returned in full either way; the mapping only
// helps plain HTTP clients.
func httpStatus(env status.Envelope) int {
	if env.IsSuccess() {
		return http.StatusOK
	}
	switch env.ErrorKind {
	case status.KindMissingPrerequisite:
		return http.StatusConflict
	case status.KindLocationNotFound, status.KindEmptyUpstreamData:
		return http.StatusNotFound
	case status.KindInsufficientHistory:
		return http.StatusUnprocessableEntity
	case status.KindDataSourceUnavailable:
		return http.StatusBadGateway
	case status.KindUpstreamTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

type PipelineHandler struct {
	engine *pipeline.Engine
}

func NewPipelineHandler(engine *pipeline.Engine) *PipelineHandler {
	return &PipelineHandler{engine: engine}
}

type geocodeRequest struct {
	Address string `json:"address" binding:"required"`
}

func (h *PipelineHandler) Geocode(c *gin.Context) {
	var req geocodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	res := h.engine.ResolveLocation(c.Request.Context(), c.Param("session_id"), req.Address)
	c.JSON(httpStatus(res.Envelope), res)
}

type timeRangeRequest struct {
	InitTime string `json:"init_time" binding:"required"`
	EndTime  string `json:"end_time"`
}

func (h *PipelineHandler) Load(c *gin.Context) {
	var req timeRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	res := h.engine.LoadDataset(c.Request.Context(), c.Param("session_id"), req.InitTime, req.EndTime)
	c.JSON(httpStatus(res.Envelope), res)
}

func (h *PipelineHandler) Filter(c *gin.Context) {
	var req timeRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	res := h.engine.FilterDataset(c.Request.Context(), c.Param("session_id"), req.InitTime, req.EndTime)
	c.JSON(httpStatus(res.Envelope), res)
}

func (h *PipelineHandler) Render(c *gin.Context) {
	res := h.engine.RenderCharts(c.Request.Context(), c.Param("session_id"))
	c.JSON(httpStatus(res.Envelope), res)
}

func (h *PipelineHandler) Summarize(c *gin.Context) {
	res := h.engine.Summarize(c.Request.Context(), c.Param("session_id"))
	c.JSON(httpStatus(res.Envelope), res)
}
