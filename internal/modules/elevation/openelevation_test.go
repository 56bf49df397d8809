// README: Wire-level tests for the Open-Elevation provider.
package elevation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"skyline/internal/types"
)

func TestOpenElevationRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req lookupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		resp := lookupResponse{}
		for _, loc := range req.Locations {
			resp.Results = append(resp.Results, struct {
				Elevation float64 `json:"elevation"`
			}{Elevation: loc.Latitude * 10})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	provider := NewOpenElevationProvider(srv.URL)
	points := []types.Point{{Lat: 1, Lng: 2}, {Lat: 3, Lng: 4}}
	values, err := provider.Elevations(context.Background(), points)
	if err != nil {
		t.Fatalf("Elevations: %v", err)
	}
	if len(values) != 2 || values[0] != 10 || values[1] != 30 {
		t.Errorf("values = %v, want [10 30]", values)
	}
}

func TestOpenElevationMapsStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"throttle", http.StatusTooManyRequests, ErrRateLimited},
		{"server error", http.StatusInternalServerError, ErrProviderUnavailable},
		{"not found", http.StatusNotFound, ErrProviderUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			provider := NewOpenElevationProvider(srv.URL)
			_, err := provider.Elevations(context.Background(), []types.Point{{Lat: 1, Lng: 2}})
			if !errors.Is(err, tt.want) {
				t.Errorf("status %d: got %v, want %v", tt.status, err, tt.want)
			}
		})
	}
}

func TestOpenElevationRejectsShortResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(lookupResponse{})
	}))
	defer srv.Close()

	provider := NewOpenElevationProvider(srv.URL)
	_, err := provider.Elevations(context.Background(), []types.Point{{Lat: 1, Lng: 2}})
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("got %v, want ErrProviderUnavailable", err)
	}
}
