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

const googleMapsGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

// GoogleMapsProvider resolves addresses through the Google Maps Geocoding
// API. It is the primary tier when an API key is configured.
type GoogleMapsProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewGoogleMapsProvider(apiKey string, timeout time.Duration) *GoogleMapsProvider {
	return &GoogleMapsProvider{
		apiKey:  apiKey,
		baseURL: googleMapsGeocodeURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (p *GoogleMapsProvider) Name() string {
	return "google_maps"
}

func (p *GoogleMapsProvider) Resolve(ctx context.Context, address string) (Coordinates, error) {
	params := url.Values{}
	params.Add("address", address)
	params.Add("key", p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return Coordinates{}, fmt.Errorf("create request: %w", err)
	}

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
		Status  string `json:"status"`
		Results []struct {
			Geometry struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
		ErrorMessage string `json:"error_message"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return Coordinates{}, fmt.Errorf("parse response: %w", err)
	}

	if response.Status != "OK" || len(response.Results) == 0 {
		if response.ErrorMessage != "" {
			return Coordinates{}, fmt.Errorf("%w: %s (%s)", ErrNotFound, response.Status, response.ErrorMessage)
		}
		return Coordinates{}, fmt.Errorf("%w: %s", ErrNotFound, response.Status)
	}

	loc := response.Results[0].Geometry.Location
	return Coordinates{Latitude: loc.Lat, Longitude: loc.Lng}, nil
}
