package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tgo/gridsense/internal/model"
	"github.com/tgo/gridsense/internal/pkg/response"
	"github.com/tgo/gridsense/internal/repository"
)

type QueryHandler struct {
	repo *repository.DemandRepository
}

func NewQueryHandler(repo *repository.DemandRepository) *QueryHandler {
	return &QueryHandler{repo: repo}
}

type queryRequest struct {
	SQLQuery string `json:"sql_query" binding:"required"`
}

func (h *QueryHandler) Run(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	rows, err := h.repo.RunSelect(c.Request.Context(), req.SQLQuery)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "QUERY_FAILED", err.Error(), nil)
		return
	}
	response.Success(c, gin.H{"rows": rows})
}

func (h *QueryHandler) Schema(c *gin.Context) {
	columns, err := h.repo.TableSchema(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusBadGateway, "SCHEMA_UNAVAILABLE", err.Error(), nil)
		return
	}
	response.Success(c, gin.H{
		"table":     model.DemandRecord{}.TableName(),
		"columns":   columns,
		"formatted": repository.FormatSchema(model.DemandRecord{}.TableName(), columns),
	})
}
