package tool

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/tgo/gridsense/internal/artifact"
	"github.com/tgo/gridsense/internal/forecast"
	"github.com/tgo/gridsense/internal/geo"
	"github.com/tgo/gridsense/internal/pipeline"
	"github.com/tgo/gridsense/internal/status"
	"github.com/tgo/gridsense/internal/weather"
)

type stubGeocoder struct {
	coords geo.Coordinates
	err    error
}

func (s *stubGeocoder) Name() string { return "stub" }

func (s *stubGeocoder) Resolve(ctx context.Context, address string) (geo.Coordinates, error) {
	if s.err != nil {
		return geo.Coordinates{}, s.err
	}
	return s.coords, nil
}

type stubWeather struct {
	records []weather.Record
}

func (s *stubWeather) FetchHourly(ctx context.Context, lat, lon float64, start, end time.Time) ([]weather.Record, error) {
	return s.records, nil
}

func newToolkitEngine(g geo.Provider, w weather.Source) *pipeline.Engine {
	return pipeline.NewEngine(g, w, artifact.NewInMemoryStore(), nil)
}

func TestWeatherToolkitNamesAndOrder(t *testing.T) {
	kit := NewWeatherToolkit(newToolkitEngine(&stubGeocoder{}, &stubWeather{}), "s1")

	want := []string{
		"get_lat_long_from_address",
		"get_weather_forecast_dataframe",
		"filter_weather_dataframe_by_time",
		"generate_weather_info_charts",
		"summarize_weather_from_plots",
	}
	tools := kit.Tools()
	if len(tools) != len(want) {
		t.Fatalf("got %d tools, want %d", len(tools), len(want))
	}
	for i, bt := range tools {
		info, err := bt.Info(context.Background())
		if err != nil {
			t.Fatalf("Info failed: %v", err)
		}
		if info.Name != want[i] {
			t.Errorf("tool[%d] = %q, want %q", i, info.Name, want[i])
		}
	}
}

func TestGeocodeToolReturnsTaggedJSON(t *testing.T) {
	engine := newToolkitEngine(&stubGeocoder{coords: geo.Coordinates{Latitude: 12.97, Longitude: 77.59}}, &stubWeather{})
	kit := NewWeatherToolkit(engine, "s1")

	out, err := kit.Tools()[0].(*geocodeTool).InvokableRun(context.Background(), `{"address":"Bengaluru"}`)
	if err != nil {
		t.Fatalf("InvokableRun failed: %v", err)
	}

	var res pipeline.LocationResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if !res.IsSuccess() {
		t.Errorf("status = %q %q", res.Status, res.Message)
	}
	if res.Latitude != 12.97 {
		t.Errorf("latitude = %g", res.Latitude)
	}
}

func TestFilterToolSurfacesErrorInPayload(t *testing.T) {
	// Pipeline failures are data for the model, not Go errors
	kit := NewWeatherToolkit(newToolkitEngine(&stubGeocoder{}, &stubWeather{}), "s1")

	out, err := kit.Tools()[2].(*filterDatasetTool).InvokableRun(context.Background(), `{"init_time":"2024-06-01"}`)
	if err != nil {
		t.Fatalf("InvokableRun returned a Go error: %v", err)
	}

	var res pipeline.DatasetResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if res.ErrorKind != status.KindMissingPrerequisite {
		t.Errorf("error kind = %q, want %q", res.ErrorKind, status.KindMissingPrerequisite)
	}
}

func TestDateTimeToolFixedClock(t *testing.T) {
	dt := NewDateTimeTool()
	dt.now = func() time.Time { return time.Date(2024, 6, 10, 18, 30, 0, 0, time.UTC) }

	out, err := dt.InvokableRun(context.Background(), `{"time_zone":"Asia/Kolkata"}`)
	if err != nil {
		t.Fatalf("InvokableRun failed: %v", err)
	}

	var res datetimeOutput
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	// 18:30 UTC is 00:00 IST the next day
	if res.CurrentDate != "2024-06-11" || res.CurrentTime != "00:00:00" {
		t.Errorf("got %s %s", res.CurrentDate, res.CurrentTime)
	}
	if res.TimeZone != "Asia/Kolkata" {
		t.Errorf("zone = %q", res.TimeZone)
	}
}

func TestDateTimeToolInvalidZoneFallsBack(t *testing.T) {
	dt := NewDateTimeTool()
	dt.now = func() time.Time { return time.Date(2024, 6, 10, 18, 30, 0, 0, time.UTC) }

	out, err := dt.InvokableRun(context.Background(), `{"time_zone":"Not/AZone"}`)
	if err != nil {
		t.Fatalf("fallback should not error: %v", err)
	}

	var res datetimeOutput
	json.Unmarshal([]byte(out), &res)
	if res.TimeZone != "UTC" {
		t.Errorf("zone = %q, want UTC fallback", res.TimeZone)
	}
	if res.CurrentTime != "18:30:00" {
		t.Errorf("time = %q", res.CurrentTime)
	}
}

type stubHistory struct {
	rows []forecast.DailyTotal
}

func (s *stubHistory) DailyConsumption(ctx context.Context, scope forecast.Scope, limit int) ([]forecast.DailyTotal, error) {
	return s.rows, nil
}

func TestDemandForecastToolRoundTrip(t *testing.T) {
	end := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	rows := make([]forecast.DailyTotal, 30)
	for i := range rows {
		rows[i] = forecast.DailyTotal{
			Date:                 end.AddDate(0, 0, -i),
			ConsumptionMegaUnits: 1000 + float64(i%7),
		}
	}
	dt := NewDemandForecastTool(forecast.NewForecaster(&stubHistory{rows: rows}))

	out, err := dt.InvokableRun(context.Background(), `{"period":3,"state":"Karnataka"}`)
	if err != nil {
		t.Fatalf("InvokableRun failed: %v", err)
	}

	var res forecast.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if !res.IsSuccess() {
		t.Fatalf("forecast failed: %s %s", res.ErrorKind, res.Message)
	}
	if len(res.Points) != 3 {
		t.Errorf("got %d points, want 3", len(res.Points))
	}
	if res.Points[0].Date != "2024-06-11" {
		t.Errorf("first date = %q", res.Points[0].Date)
	}
}
