package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	openMeteoArchiveURL  = "https://archive-api.open-meteo.com/v1/archive"
	openMeteoForecastURL = "https://api.open-meteo.com/v1/forecast"

	hourlyFields = "temperature_2m,precipitation,pressure_msl,wind_speed_10m,wind_direction_10m,relative_humidity_2m"
)

// Source fetches hourly weather rows for a location and date range.
type Source interface {
	FetchHourly(ctx context.Context, latitude, longitude float64, start, end time.Time) ([]Record, error)
}

// UseForecastEndpoint decides which Open-Meteo endpoint serves a range
// ending on end. Ranges ending today or later go to the forecast endpoint;
// it also serves recent history (~92 days back), so mixed past+future
// ranges are handled there in one call. Purely a date comparison in UTC.
func UseForecastEndpoint(end, today time.Time) bool {
	return !DayFloor(end).Before(DayFloor(today))
}

// OpenMeteoClient reads the Open-Meteo archive and forecast APIs.
type OpenMeteoClient struct {
	archiveURL  string
	forecastURL string
	httpClient  *http.Client
	now         func() time.Time
}

func NewOpenMeteoClient(timeout time.Duration) *OpenMeteoClient {
	return &OpenMeteoClient{
		archiveURL:  openMeteoArchiveURL,
		forecastURL: openMeteoForecastURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		now: time.Now,
	}
}

// FetchHourly retrieves the hourly series for [start, end] (inclusive,
// day granularity) and normalizes each row into a Record. A response with
// no hourly block yields an empty slice, not an error; the caller decides
// what empty data means.
func (c *OpenMeteoClient) FetchHourly(ctx context.Context, latitude, longitude float64, start, end time.Time) ([]Record, error) {
	endpoint := c.archiveURL
	if UseForecastEndpoint(end, c.now().UTC()) {
		endpoint = c.forecastURL
	}

	params := url.Values{}
	params.Add("latitude", fmt.Sprintf("%g", latitude))
	params.Add("longitude", fmt.Sprintf("%g", longitude))
	params.Add("start_date", start.UTC().Format("2006-01-02"))
	params.Add("end_date", end.UTC().Format("2006-01-02"))
	params.Add("hourly", hourlyFields)
	params.Add("timezone", "UTC")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var response struct {
		Hourly struct {
			Time               []string  `json:"time"`
			Temperature2M      []float64 `json:"temperature_2m"`
			Precipitation      []float64 `json:"precipitation"`
			PressureMSL        []float64 `json:"pressure_msl"`
			WindSpeed10M       []float64 `json:"wind_speed_10m"`
			WindDirection10M   []float64 `json:"wind_direction_10m"`
			RelativeHumidity2M []float64 `json:"relative_humidity_2m"`
		} `json:"hourly"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	hourly := response.Hourly
	records := make([]Record, 0, len(hourly.Time))
	for i, raw := range hourly.Time {
		t, err := parseHourlyTime(raw)
		if err != nil {
			return nil, fmt.Errorf("parse hourly time %q: %w", raw, err)
		}
		records = append(records, NewRecord(
			t,
			at(hourly.Temperature2M, i),
			at(hourly.Precipitation, i),
			at(hourly.PressureMSL, i),
			at(hourly.WindSpeed10M, i),
			at(hourly.WindDirection10M, i),
			at(hourly.RelativeHumidity2M, i),
		))
	}
	return records, nil
}

// parseHourlyTime accepts the "2006-01-02T15:04" shape Open-Meteo emits,
// plus full RFC 3339 in case the API starts sending offsets.
func parseHourlyTime(raw string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02T15:04:05", time.RFC3339} {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp layout")
}

// at guards against ragged hourly arrays; a missing value becomes 0.
func at(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}
