// README: Open-Elevation HTTP provider (default, keyless).
package elevation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"skyline/internal/types"
)

const defaultOpenElevationURL = "https://api.open-elevation.com/api/v1/lookup"

// OpenElevationProvider fetches batches from the public open-elevation
// lookup endpoint.
type OpenElevationProvider struct {
	baseURL    string
	httpClient *http.Client
}

func NewOpenElevationProvider(baseURL string) *OpenElevationProvider {
	if baseURL == "" {
		baseURL = defaultOpenElevationURL
	}
	return &OpenElevationProvider{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type lookupRequest struct {
	Locations []lookupLocation `json:"locations"`
}

type lookupLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type lookupResponse struct {
	Results []struct {
		Elevation float64 `json:"elevation"`
	} `json:"results"`
}

func (o *OpenElevationProvider) Elevations(ctx context.Context, points []types.Point) ([]float64, error) {
	reqBody := lookupRequest{Locations: make([]lookupLocation, 0, len(points))}
	for _, p := range points {
		reqBody.Locations = append(reqBody.Locations, lookupLocation{Latitude: p.Lat, Longitude: p.Lng})
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", ErrProviderUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: status %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var result lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrProviderUnavailable, err)
	}
	if len(result.Results) != len(points) {
		return nil, fmt.Errorf("%w: got %d results for %d points", ErrProviderUnavailable, len(result.Results), len(points))
	}

	elevations := make([]float64, 0, len(points))
	for _, r := range result.Results {
		elevations = append(elevations, r.Elevation)
	}
	return elevations, nil
}
