package forecast

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// holtWinters is a fitted additive-trend, additive-seasonal exponential
// smoothing model (triple exponential smoothing).
type holtWinters struct {
	level    float64
	trend    float64
	seasonal []float64
	period   int
	n        int
	sse      float64
}

// fitHoltWinters fits the model on a univariate series by grid-searching
// the three smoothing weights and keeping the fit with the lowest
// one-step-ahead squared error. The series must cover at least two full
// seasonal cycles: the first seeds the level, the second the trend.
func fitHoltWinters(series []float64, period int) (*holtWinters, error) {
	if period < 2 {
		return nil, fmt.Errorf("seasonal period must be at least 2, got %d", period)
	}
	if len(series) < 2*period {
		return nil, fmt.Errorf("need at least %d observations for period %d, got %d", 2*period, period, len(series))
	}

	var best *holtWinters
	for alpha := 0.05; alpha < 1; alpha += 0.15 {
		for beta := 0.05; beta < 1; beta += 0.15 {
			for gamma := 0.05; gamma < 1; gamma += 0.15 {
				m := runSmoothing(series, period, alpha, beta, gamma)
				if best == nil || m.sse < best.sse {
					best = m
				}
			}
		}
	}
	return best, nil
}

func runSmoothing(series []float64, period int, alpha, beta, gamma float64) *holtWinters {
	firstMean := stat.Mean(series[:period], nil)
	secondMean := stat.Mean(series[period:2*period], nil)

	level := firstMean
	trend := (secondMean - firstMean) / float64(period)
	seasonal := make([]float64, period)
	for i := 0; i < period; i++ {
		seasonal[i] = series[i] - firstMean
	}

	var sse float64
	for t, y := range series {
		s := seasonal[t%period]
		predicted := level + trend + s
		residual := y - predicted
		sse += residual * residual

		newLevel := alpha*(y-s) + (1-alpha)*(level+trend)
		newTrend := beta*(newLevel-level) + (1-beta)*trend
		seasonal[t%period] = gamma*(y-newLevel) + (1-gamma)*s
		level, trend = newLevel, newTrend
	}

	return &holtWinters{
		level:    level,
		trend:    trend,
		seasonal: seasonal,
		period:   period,
		n:        len(series),
		sse:      sse,
	}
}

// forecast projects h future points immediately following the fitted
// series, in order.
func (m *holtWinters) forecast(h int) []float64 {
	out := make([]float64, h)
	for i := 1; i <= h; i++ {
		out[i-1] = m.level + float64(i)*m.trend + m.seasonal[(m.n-1+i)%m.period]
	}
	return out
}
