// README: Horizon/visibility calculator; cumulative skyline rule with
// Earth-curvature and refraction correction.
package coverage

import "math"

const earthRadiusM = 6371000.0

// DefaultKFactor is the standard-atmosphere refraction correction: the radio
// horizon behaves as if Earth's radius were K times larger.
const DefaultKFactor = 4.0 / 3.0

// visibleSample is one profile sample the observer can see.
type visibleSample struct {
	index      int
	distanceKm float64
}

// horizonProfile walks one terrain profile (equal-interval samples along a
// single bearing, nearest first) and returns the samples geometrically
// visible from an observer whose eye sits at ground elevation plus antenna
// height, together with the furthest visible distance.
//
// A sample is visible when its elevation angle from the observer is at least
// the maximum angle of every closer sample: terrain that once establishes a
// horizon occludes everything behind it that does not clear that angle, while
// farther terrain may re-emerge if it does.
func horizonProfile(observerGroundElevM, antennaHeightM float64, profile []float64, intervalKm, maxRangeKm, kFactor float64) ([]visibleSample, float64) {
	if len(profile) == 0 {
		return nil, 0
	}
	if kFactor <= 0 {
		kFactor = DefaultKFactor
	}

	eyeM := observerGroundElevM + antennaHeightM
	horizonAngle := math.Inf(-1)
	visible := make([]visibleSample, 0, len(profile))

	for i, terrainM := range profile {
		distanceKm := float64(i+1) * intervalKm
		distanceM := distanceKm * 1000

		// The surface falls away from the observer's tangent plane; the
		// effective K-factor stretches the drop to account for refraction.
		dropM := distanceM * distanceM / (2 * kFactor * earthRadiusM)
		effectiveM := terrainM - dropM

		angle := math.Atan2(effectiveM-eyeM, distanceM)
		if angle >= horizonAngle {
			visible = append(visible, visibleSample{index: i, distanceKm: distanceKm})
			horizonAngle = angle
		}
	}

	if len(visible) == len(profile) {
		// Nothing occludes the ray: sight extends to sensor range.
		return visible, maxRangeKm
	}
	return visible, visible[len(visible)-1].distanceKm
}
