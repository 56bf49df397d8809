// README: Google Maps Elevation API provider.
package elevation

import (
	"context"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"

	"skyline/internal/types"
)

// GoogleProvider adapts the Google Maps Elevation API to the Provider
// contract. The API returns one result per requested location in request
// order.
type GoogleProvider struct {
	client *maps.Client
}

func NewGoogleProvider(client *maps.Client) *GoogleProvider {
	return &GoogleProvider{client: client}
}

func (g *GoogleProvider) Elevations(ctx context.Context, points []types.Point) ([]float64, error) {
	locations := make([]maps.LatLng, 0, len(points))
	for _, p := range points {
		locations = append(locations, maps.LatLng{Lat: p.Lat, Lng: p.Lng})
	}

	results, err := g.client.Elevation(ctx, &maps.ElevationRequest{Locations: locations})
	if err != nil {
		if isQuotaError(err) {
			return nil, ErrRateLimited
		}
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	if len(results) != len(points) {
		return nil, fmt.Errorf("%w: got %d results for %d points", ErrProviderUnavailable, len(results), len(points))
	}

	elevations := make([]float64, 0, len(results))
	for _, r := range results {
		elevations = append(elevations, r.Elevation)
	}
	return elevations, nil
}

// isQuotaError detects the Elevation API's throttle statuses, which the maps
// client surfaces as plain errors.
func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "OVER_QUERY_LIMIT") ||
		strings.Contains(msg, "OVER_DAILY_LIMIT") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
