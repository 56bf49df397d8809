// README: Horizon calculator tests: skyline rule, curvature, edge cases.
package coverage

import (
	"math"
	"testing"
)

// flatEarthK suppresses the curvature drop so tests can isolate the pure
// skyline rule ("flat Earth" limit).
const flatEarthK = 1e9

func flatProfile(n int) []float64 {
	return make([]float64, n)
}

func TestHorizonEmptyProfile(t *testing.T) {
	visible, maxKm := horizonProfile(0, 25, nil, 1, 300, DefaultKFactor)
	if len(visible) != 0 {
		t.Errorf("visible = %d, want 0", len(visible))
	}
	if maxKm != 0 {
		t.Errorf("max distance = %v, want 0", maxKm)
	}
}

func TestHorizonFlatProfileFlatEarth(t *testing.T) {
	visible, maxKm := horizonProfile(0, 25, flatProfile(300), 1, 300, flatEarthK)
	if len(visible) != 300 {
		t.Fatalf("visible = %d, want all 300", len(visible))
	}
	if maxKm != 300 {
		t.Errorf("max distance = %v, want sensor range 300", maxKm)
	}
	for i, v := range visible {
		if v.index != i || v.distanceKm != float64(i+1) {
			t.Fatalf("visible[%d] = %+v, out of order", i, v)
		}
	}
}

// With the real curvature drop a flat profile is limited by the radio
// horizon: sqrt(2*K*R*h), about 20.6 km for a 25 m eye.
func TestHorizonFlatProfileCurvedEarth(t *testing.T) {
	visible, maxKm := horizonProfile(0, 25, flatProfile(300), 1, 300, DefaultKFactor)
	horizonKm := math.Sqrt(2*DefaultKFactor*earthRadiusM*25) / 1000
	if math.Abs(maxKm-horizonKm) > 1.0 {
		t.Errorf("max distance = %v km, want radio horizon ~%.1f km", maxKm, horizonKm)
	}
	if len(visible) == 300 {
		t.Error("expected far samples to drop below the horizon")
	}
	if int(math.Round(maxKm)) != len(visible) {
		t.Errorf("visible samples = %d, furthest = %v km; should be a contiguous prefix", len(visible), maxKm)
	}
}

func TestHorizonNearWallOccludesEverything(t *testing.T) {
	profile := flatProfile(100)
	profile[0] = 500 // wall at 1 km
	visible, maxKm := horizonProfile(0, 25, profile, 1, 100, flatEarthK)
	if len(visible) != 1 || visible[0].index != 0 {
		t.Fatalf("visible = %+v, want only the wall itself", visible)
	}
	if maxKm != 1 {
		t.Errorf("max distance = %v, want 1", maxKm)
	}
}

func TestHorizonReemergenceBeyondRidge(t *testing.T) {
	// Ridge at 1 km occludes the valley behind it; the taller peak at 3 km
	// clears the ridge angle and re-emerges; the far valley stays hidden.
	profile := []float64{100, 0, 400, 0}
	visible, maxKm := horizonProfile(0, 25, profile, 1, 4, flatEarthK)
	if len(visible) != 2 {
		t.Fatalf("visible = %+v, want ridge and peak", visible)
	}
	if visible[0].index != 0 || visible[1].index != 2 {
		t.Errorf("visible indexes = [%d %d], want [0 2]", visible[0].index, visible[1].index)
	}
	if maxKm != 3 {
		t.Errorf("max distance = %v, want 3", maxKm)
	}
}

// A uniformly rising slope keeps raising the elevation angle, so every
// sample on the slope face clears the horizon set by the closer ones.
func TestHorizonRisingSlopeAllVisible(t *testing.T) {
	profile := make([]float64, 50)
	for i := range profile {
		profile[i] = float64(i+1) * 10
	}
	visible, maxKm := horizonProfile(0, 25, profile, 1, 50, flatEarthK)
	if len(visible) != 50 {
		t.Fatalf("visible = %d, want all 50", len(visible))
	}
	if maxKm != 50 {
		t.Errorf("max distance = %v, want sensor range 50", maxKm)
	}
}

func TestHorizonDescentBehindWallStaysHidden(t *testing.T) {
	profile := []float64{200, 10, 10, 10}
	visible, maxKm := horizonProfile(0, 25, profile, 1, 4, flatEarthK)
	if len(visible) != 1 {
		t.Fatalf("visible = %+v, want only the wall", visible)
	}
	if maxKm != 1 {
		t.Errorf("max distance = %v, want 1", maxKm)
	}
}

// Observer elevation shifts the eye line: the same wall vanishes when the
// observer stands high enough above it.
func TestHorizonObserverElevationMatters(t *testing.T) {
	profile := []float64{200, 10, 10, 10}
	visible, _ := horizonProfile(1000, 25, profile, 1, 4, flatEarthK)
	if len(visible) != 4 {
		t.Fatalf("visible = %d, want all 4 from a mountaintop", len(visible))
	}
}
