package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const openMeteoGeocodeURL = "https://geocoding-api.open-meteo.com/v1/search"

// OpenMeteoProvider resolves place names through the free Open-Meteo
// geocoding API. It is the fallback tier; it needs no API key but only
// matches place names, not street addresses.
type OpenMeteoProvider struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

func NewOpenMeteoProvider(timeout time.Duration) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		baseURL:   openMeteoGeocodeURL,
		userAgent: "gridsense/1.0",
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (p *OpenMeteoProvider) Name() string {
	return "open_meteo"
}

func (p *OpenMeteoProvider) Resolve(ctx context.Context, address string) (Coordinates, error) {
	params := url.Values{}
	params.Add("name", address)
	params.Add("count", "1")
	params.Add("language", "en")
	params.Add("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return Coordinates{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return Coordinates{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Coordinates{}, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var response struct {
		Results []struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return Coordinates{}, fmt.Errorf("parse response: %w", err)
	}

	if len(response.Results) == 0 {
		return Coordinates{}, fmt.Errorf("%w: %q", ErrNotFound, address)
	}

	return Coordinates{
		Latitude:  response.Results[0].Latitude,
		Longitude: response.Results[0].Longitude,
	}, nil
}
