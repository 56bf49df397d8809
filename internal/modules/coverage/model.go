// README: Coverage domain model (requests, rays, results, progress, states).
package coverage

import (
	"errors"
	"time"

	"skyline/internal/types"
)

var ErrInvalidRequest = errors.New("invalid coverage request")

// State is the orchestrator's lifecycle position. Terminal states settle
// back to Idle immediately; the last terminal outcome stays observable
// separately.
type State string

const (
	StateIdle        State = "idle"
	StateCalculating State = "calculating"
	StateCompleted   State = "completed"
	StateCancelled   State = "cancelled"
	StateErrored     State = "errored"
)

// Request describes one coverage computation.
type Request struct {
	Observer       types.Point `json:"observer"`
	AntennaHeightM float64     `json:"antenna_height_m"`
	GridLabel      string      `json:"grid_label,omitempty"`
}

// RayPoint is one visible sample along a ray.
type RayPoint struct {
	DistanceKm float64     `json:"distance_km"`
	Point      types.Point `json:"point"`
}

// Ray is one bearing's visibility outcome. VisiblePoints is ordered by
// increasing distance and is a strict subsequence of the sampled profile.
type Ray struct {
	BearingDeg    int        `json:"bearing_deg"`
	VisiblePoints []RayPoint `json:"visible_points"`
	MaxVisibleKm  float64    `json:"max_visible_km"`
}

// Result is the finished coverage computation. Immutable once handed out.
type Result struct {
	ID             types.ID    `json:"id"`
	Observer       types.Point `json:"observer"`
	AntennaHeightM float64     `json:"antenna_height_m"`
	GridLabel      string      `json:"grid_label,omitempty"`
	Rays           []Ray       `json:"rays"`
	ComputedAt     time.Time   `json:"computed_at"`
}

// Progress is the transient per-run progress snapshot, overwritten on every
// update and cleared on any terminal transition.
type Progress struct {
	CompletedUnits int     `json:"completed_units"`
	TotalUnits     int     `json:"total_units"`
	Percent        float64 `json:"percent"`
}
