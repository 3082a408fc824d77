package forecast

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/tgo/gridsense/internal/status"
)

const (
	// DefaultHistoryDays is the lookback window applied when a request
	// leaves HistoryDays unset.
	DefaultHistoryDays = 90
	// MinHistoryDays is the hard floor for a model fit, independent of the
	// requested lookback: the 7-day seasonal model needs two full weekly
	// cycles.
	MinHistoryDays = 14
	// SeasonalPeriod is the fixed weekly seasonality of daily demand.
	SeasonalPeriod = 7

	// Method names the fitted model in result provenance.
	Method = "Triple Exponential Smoothing (Holt-Winters)"

	// NationalScope is the sentinel reported when no scope filter is set.
	NationalScope = "National"
)

// Scope narrows which demand rows are aggregated. Nil fields are
// unconstrained; all nil means national.
type Scope struct {
	State         *string
	Region        *string
	PowerSupplier *string
}

// Label renders the scope for result provenance: the non-nil subset as a
// map, or the national sentinel when empty.
func (s Scope) Label() any {
	m := map[string]string{}
	if s.State != nil {
		m["state"] = *s.State
	}
	if s.Region != nil {
		m["region"] = *s.Region
	}
	if s.PowerSupplier != nil {
		m["power_supplier"] = *s.PowerSupplier
	}
	if len(m) == 0 {
		return NationalScope
	}
	return m
}

// DailyTotal is one aggregated day of consumption.
type DailyTotal struct {
	Date                 time.Time
	ConsumptionMegaUnits float64
}

// HistorySource retrieves the most recent daily consumption totals for a
// scope, newest first, at most limit rows. Implementations must bind all
// scope values as query parameters.
type HistorySource interface {
	DailyConsumption(ctx context.Context, scope Scope, limit int) ([]DailyTotal, error)
}

// Request asks for a demand forecast.
type Request struct {
	Period        int     `json:"period" binding:"required,gt=0"`
	State         *string `json:"state"`
	Region        *string `json:"region"`
	PowerSupplier *string `json:"power_supplier"`
	HistoryDays   int     `json:"history_days"`
}

// Parameters is the provenance metadata attached to a forecast.
type Parameters struct {
	Scope              any    `json:"scope"`
	ForecastDays       int    `json:"forecast_days"`
	Method             string `json:"method"`
	HistoricalDaysUsed int    `json:"historical_days_used"`
	BasedOnLastDate    string `json:"based_on_last_date"`
}

// Point is one forecasted day.
type Point struct {
	Date                           string  `json:"date"`
	ForecastedConsumptionMegaUnits float64 `json:"forecasted_consumption_mega_units"`
}

// Result is the tagged forecast outcome.
type Result struct {
	status.Envelope
	Parameters *Parameters `json:"forecast_parameters,omitempty"`
	Points     []Point     `json:"demand_forecast,omitempty"`
}

// Forecaster produces day-level demand forecasts from a history source.
type Forecaster struct {
	history HistorySource
}

func NewForecaster(history HistorySource) *Forecaster {
	return &Forecaster{history: history}
}

// Forecast runs the full pipeline: retrieve history, validate
// sufficiency, fit, project. It always returns a structured Result; no
// error or panic escapes this boundary.
func (f *Forecaster) Forecast(ctx context.Context, req Request) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Result{Envelope: status.Err(status.E(status.KindUnexpectedFailure, "forecast panicked: %v", r))}
		}
	}()

	params, points, err := f.forecast(ctx, req)
	if err != nil {
		return Result{Envelope: status.ErrFrom(err)}
	}
	return Result{Envelope: status.OK(), Parameters: params, Points: points}
}

func (f *Forecaster) forecast(ctx context.Context, req Request) (*Parameters, []Point, error) {
	if req.Period <= 0 {
		return nil, nil, status.E(status.KindUnexpectedFailure, "forecast period must be positive, got %d", req.Period)
	}
	historyDays := req.HistoryDays
	if historyDays <= 0 {
		historyDays = DefaultHistoryDays
	}

	scope := Scope{State: req.State, Region: req.Region, PowerSupplier: req.PowerSupplier}
	rows, err := f.history.DailyConsumption(ctx, scope, historyDays)
	if err != nil {
		if classified := status.Classify(err); classified.Kind == status.KindUpstreamTimeout {
			return nil, nil, classified
		}
		return nil, nil, status.E(status.KindDataSourceUnavailable, "failed to query demand history: %v", err)
	}

	if len(rows) < MinHistoryDays {
		return nil, nil, status.E(status.KindInsufficientHistory,
			"insufficient data for forecast: need at least %d days, but found %d", MinHistoryDays, len(rows))
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })

	series := make([]float64, len(rows))
	for i, row := range rows {
		series[i] = row.ConsumptionMegaUnits
	}

	model, err := fitHoltWinters(series, SeasonalPeriod)
	if err != nil {
		return nil, nil, fmt.Errorf("fit seasonal model: %w", err)
	}

	lastDate := rows[len(rows)-1].Date
	values := model.forecast(req.Period)
	points := make([]Point, req.Period)
	for i, v := range values {
		points[i] = Point{
			Date:                           lastDate.AddDate(0, 0, i+1).Format("2006-01-02"),
			ForecastedConsumptionMegaUnits: round2(v),
		}
	}

	return &Parameters{
		Scope:              scope.Label(),
		ForecastDays:       req.Period,
		Method:             Method,
		HistoricalDaysUsed: len(rows),
		BasedOnLastDate:    lastDate.Format("2006-01-02"),
	}, points, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
