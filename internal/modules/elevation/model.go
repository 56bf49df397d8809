// README: Elevation sample model and provider contract.
package elevation

import (
	"context"
	"errors"

	"skyline/internal/types"
)

// Sample pairs a requested point with its terrain elevation in metres.
// Samples are produced only by this package.
type Sample struct {
	Point      types.Point `json:"point"`
	ElevationM float64     `json:"elevation_m"`
}

var (
	// ErrRateLimited marks a throttle response (HTTP 429 or equivalent).
	// The pipeline backs off and retries these.
	ErrRateLimited = errors.New("elevation provider rate limited")

	// ErrProviderUnavailable marks any other provider failure. Fatal for the
	// current fetch.
	ErrProviderUnavailable = errors.New("elevation provider unavailable")

	// ErrRateLimitExhausted is surfaced when throttling persists past the
	// retry ceiling.
	ErrRateLimitExhausted = errors.New("elevation provider retries exhausted")
)

// Provider returns one elevation in metres per input point, in request
// order. Implementations must map throttling responses to ErrRateLimited and
// other failures to (or wrapped around) ErrProviderUnavailable.
type Provider interface {
	Elevations(ctx context.Context, points []types.Point) ([]float64, error)
}
