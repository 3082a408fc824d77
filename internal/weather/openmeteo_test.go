package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestUseForecastEndpoint(t *testing.T) {
	today := time.Date(2024, 6, 10, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		end  time.Time
		want bool
	}{
		{"end well in the past", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), false},
		{"end yesterday", time.Date(2024, 6, 9, 23, 0, 0, 0, time.UTC), false},
		{"end today", time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), true},
		{"end tomorrow", time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC), true},
		{"end in the future", time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UseForecastEndpoint(tt.end, today); got != tt.want {
				t.Errorf("UseForecastEndpoint(%v, %v) = %v, want %v", tt.end, today, got, tt.want)
			}
		})
	}
}

const hourlyResponse = `{
	"hourly": {
		"time": ["2024-06-01T00:00", "2024-06-01T01:00"],
		"temperature_2m": [20.1, 19.8],
		"precipitation": [0.0, 0.3],
		"pressure_msl": [1012.0, 1011.5],
		"wind_speed_10m": [5.0, 6.0],
		"wind_direction_10m": [180.0, 90.0],
		"relative_humidity_2m": [60.0, 65.0]
	}
}`

func TestFetchHourlyRoutesByDate(t *testing.T) {
	var archiveHits, forecastHits int
	archive := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		archiveHits++
		w.Write([]byte(hourlyResponse))
	}))
	defer archive.Close()
	forecastSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		forecastHits++
		w.Write([]byte(hourlyResponse))
	}))
	defer forecastSrv.Close()

	client := NewOpenMeteoClient(5 * time.Second)
	client.archiveURL = archive.URL
	client.forecastURL = forecastSrv.URL
	client.now = func() time.Time { return time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC) }

	ctx := context.Background()

	// Fully historical range goes to the archive
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	if _, err := client.FetchHourly(ctx, 12.97, 77.59, start, end); err != nil {
		t.Fatalf("FetchHourly failed: %v", err)
	}
	if archiveHits != 1 || forecastHits != 0 {
		t.Errorf("historical range: archive=%d forecast=%d, want 1/0", archiveHits, forecastHits)
	}

	// Mixed past+future range goes to the forecast endpoint
	end = time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)
	if _, err := client.FetchHourly(ctx, 12.97, 77.59, start, end); err != nil {
		t.Fatalf("FetchHourly failed: %v", err)
	}
	if archiveHits != 1 || forecastHits != 1 {
		t.Errorf("mixed range: archive=%d forecast=%d, want 1/1", archiveHits, forecastHits)
	}
}

func TestFetchHourlyNormalizesRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("timezone"); got != "UTC" {
			t.Errorf("timezone param = %q, want UTC", got)
		}
		w.Write([]byte(hourlyResponse))
	}))
	defer srv.Close()

	client := NewOpenMeteoClient(5 * time.Second)
	client.archiveURL = srv.URL
	client.now = func() time.Time { return time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC) }

	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	records, err := client.FetchHourly(context.Background(), 12.97, 77.59, day, day)
	if err != nil {
		t.Fatalf("FetchHourly failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	first := records[0]
	if !first.Time.Equal(day) {
		t.Errorf("Time = %v, want %v", first.Time, day)
	}
	if !first.InitTime.Equal(day) {
		t.Errorf("InitTime = %v, want %v", first.InitTime, day)
	}
	if first.Temperature2M != 20.1 {
		t.Errorf("Temperature2M = %g, want 20.1", first.Temperature2M)
	}
	if first.SpecificHumidity100 != 0.6 {
		t.Errorf("SpecificHumidity100 = %g, want 0.6", first.SpecificHumidity100)
	}
}

func TestFetchHourlyEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewOpenMeteoClient(5 * time.Second)
	client.archiveURL = srv.URL
	client.now = func() time.Time { return time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC) }

	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	records, err := client.FetchHourly(context.Background(), 0, 0, day, day)
	if err != nil {
		t.Fatalf("FetchHourly failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}
