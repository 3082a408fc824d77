package forecast

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/tgo/gridsense/internal/status"
)

type fakeHistory struct {
	rows      []DailyTotal
	err       error
	lastScope Scope
	lastLimit int
}

func (f *fakeHistory) DailyConsumption(ctx context.Context, scope Scope, limit int) ([]DailyTotal, error) {
	f.lastScope = scope
	f.lastLimit = limit
	return f.rows, f.err
}

// dailyRows builds n daily totals ending on end, newest first, the way
// the repository returns them.
func dailyRows(end time.Time, n int) []DailyTotal {
	rows := make([]DailyTotal, n)
	for i := 0; i < n; i++ {
		day := end.AddDate(0, 0, -i)
		rows[i] = DailyTotal{
			Date:                 day,
			ConsumptionMegaUnits: 1000 + 5*float64(day.Weekday()),
		}
	}
	return rows
}

func TestForecastInsufficientHistory(t *testing.T) {
	end := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	f := NewForecaster(&fakeHistory{rows: dailyRows(end, 13)})

	res := f.Forecast(context.Background(), Request{Period: 5})
	if res.Status != status.StatusError {
		t.Fatalf("status = %q, want error", res.Status)
	}
	if res.ErrorKind != status.KindInsufficientHistory {
		t.Errorf("error kind = %q, want %q", res.ErrorKind, status.KindInsufficientHistory)
	}
}

func TestForecastMinimumHistoryProceeds(t *testing.T) {
	end := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	f := NewForecaster(&fakeHistory{rows: dailyRows(end, 14)})

	res := f.Forecast(context.Background(), Request{Period: 5})
	if !res.IsSuccess() {
		t.Fatalf("forecast failed: %s %s", res.ErrorKind, res.Message)
	}
	if res.Parameters.HistoricalDaysUsed != 14 {
		t.Errorf("HistoricalDaysUsed = %d, want 14", res.Parameters.HistoricalDaysUsed)
	}
}

func TestForecastConsecutiveDates(t *testing.T) {
	end := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	f := NewForecaster(&fakeHistory{rows: dailyRows(end, 30)})

	res := f.Forecast(context.Background(), Request{Period: 5})
	if !res.IsSuccess() {
		t.Fatalf("forecast failed: %s %s", res.ErrorKind, res.Message)
	}

	if res.Parameters.BasedOnLastDate != "2024-06-10" {
		t.Errorf("BasedOnLastDate = %q, want 2024-06-10", res.Parameters.BasedOnLastDate)
	}
	want := []string{"2024-06-11", "2024-06-12", "2024-06-13", "2024-06-14", "2024-06-15"}
	if len(res.Points) != len(want) {
		t.Fatalf("got %d points, want %d", len(res.Points), len(want))
	}
	for i, p := range res.Points {
		if p.Date != want[i] {
			t.Errorf("point[%d].Date = %q, want %q", i, p.Date, want[i])
		}
		// Rounded to 2 decimals
		scaled := p.ForecastedConsumptionMegaUnits * 100
		if math.Abs(scaled-math.Round(scaled)) > 1e-9 {
			t.Errorf("point[%d].Value = %v, not rounded to 2 decimals", i, p.ForecastedConsumptionMegaUnits)
		}
	}
}

func TestForecastScopePassedThrough(t *testing.T) {
	end := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	state := "Karnataka"
	supplier := "BESCOM"
	history := &fakeHistory{rows: dailyRows(end, 30)}
	f := NewForecaster(history)

	res := f.Forecast(context.Background(), Request{Period: 3, State: &state, PowerSupplier: &supplier})
	if !res.IsSuccess() {
		t.Fatalf("forecast failed: %s %s", res.ErrorKind, res.Message)
	}
	if history.lastScope.State == nil || *history.lastScope.State != state {
		t.Errorf("scope.State not passed through: %+v", history.lastScope)
	}
	if history.lastLimit != DefaultHistoryDays {
		t.Errorf("limit = %d, want default %d", history.lastLimit, DefaultHistoryDays)
	}

	scope, ok := res.Parameters.Scope.(map[string]string)
	if !ok {
		t.Fatalf("scope label type %T, want map", res.Parameters.Scope)
	}
	if scope["state"] != state || scope["power_supplier"] != supplier {
		t.Errorf("scope label = %v", scope)
	}
	if _, present := scope["region"]; present {
		t.Error("nil region should be omitted from scope label")
	}
}

func TestForecastNationalScope(t *testing.T) {
	end := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	f := NewForecaster(&fakeHistory{rows: dailyRows(end, 30)})

	res := f.Forecast(context.Background(), Request{Period: 1})
	if !res.IsSuccess() {
		t.Fatalf("forecast failed: %s %s", res.ErrorKind, res.Message)
	}
	if res.Parameters.Scope != NationalScope {
		t.Errorf("scope = %v, want %q", res.Parameters.Scope, NationalScope)
	}
}

func TestForecastQueryFailure(t *testing.T) {
	f := NewForecaster(&fakeHistory{err: errors.New("connection refused")})

	res := f.Forecast(context.Background(), Request{Period: 3})
	if res.ErrorKind != status.KindDataSourceUnavailable {
		t.Errorf("error kind = %q, want %q", res.ErrorKind, status.KindDataSourceUnavailable)
	}
}

func TestForecastQueryTimeout(t *testing.T) {
	f := NewForecaster(&fakeHistory{err: context.DeadlineExceeded})

	res := f.Forecast(context.Background(), Request{Period: 3})
	if res.ErrorKind != status.KindUpstreamTimeout {
		t.Errorf("error kind = %q, want %q", res.ErrorKind, status.KindUpstreamTimeout)
	}
}

func TestForecastInvalidPeriod(t *testing.T) {
	end := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	f := NewForecaster(&fakeHistory{rows: dailyRows(end, 30)})

	res := f.Forecast(context.Background(), Request{Period: 0})
	if res.Status != status.StatusError {
		t.Error("expected error for period 0")
	}
}
