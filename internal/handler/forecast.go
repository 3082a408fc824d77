package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tgo/gridsense/internal/forecast"
	"github.com/tgo/gridsense/internal/pkg/response"
)

type ForecastHandler struct {
	forecaster *forecast.Forecaster
}

func NewForecastHandler(forecaster *forecast.Forecaster) *ForecastHandler {
	return &ForecastHandler{forecaster: forecaster}
}

func (h *ForecastHandler) Demand(c *gin.Context) {
	var req forecast.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	res := h.forecaster.Forecast(c.Request.Context(), req)
	c.JSON(httpStatus(res.Envelope), res)
}
