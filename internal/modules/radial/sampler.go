// README: Radial sampling geometry; forward great-circle points along bearings.
package radial

import (
	"errors"
	"math"

	"skyline/internal/types"
)

const earthRadiusKm = 6371.0

var ErrInvalidSampling = errors.New("invalid sampling parameters")

// Destination returns the point reached by travelling distanceKm from origin
// along the given compass bearing (0 = north, clockwise) on a spherical Earth.
func Destination(origin types.Point, bearingDeg, distanceKm float64) types.Point {
	delta := distanceKm / earthRadiusKm
	theta := degreesToRadians(bearingDeg)
	lat1 := degreesToRadians(origin.Lat)
	lng1 := degreesToRadians(origin.Lng)

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(delta) +
		math.Cos(lat1)*math.Sin(delta)*math.Cos(theta))
	lng2 := lng1 + math.Atan2(
		math.Sin(theta)*math.Sin(delta)*math.Cos(lat1),
		math.Cos(delta)-math.Sin(lat1)*math.Sin(lat2))

	return types.Point{
		Lat: radiansToDegrees(lat2),
		Lng: normalizeLng(radiansToDegrees(lng2)),
	}
}

// Sample returns the points along one bearing at every interval step from
// intervalKm out to maxKm. Step count is floor(max/interval); the origin
// itself is not included.
func Sample(origin types.Point, bearingDeg, maxKm, intervalKm float64) ([]types.Point, error) {
	if err := origin.Validate(); err != nil {
		return nil, err
	}
	if maxKm <= 0 || intervalKm <= 0 {
		return nil, ErrInvalidSampling
	}

	steps := int(math.Floor(maxKm / intervalKm))
	points := make([]types.Point, 0, steps)
	for k := 1; k <= steps; k++ {
		points = append(points, Destination(origin, bearingDeg, float64(k)*intervalKm))
	}
	return points, nil
}

// Plan holds the flattened sample points for every radial of one coverage
// run. The flat ordering is ray-major: all steps of bearing 0, then all
// steps of the next bearing, and so on, so the elevation pipeline can batch
// across ray boundaries and results de-flatten deterministically.
type Plan struct {
	Origin      types.Point
	Bearings    []int
	StepsPerRay int
	IntervalKm  float64
	MaxKm       float64
	Points      []types.Point
}

// Flatten builds the sampling plan for numRadials evenly spaced bearings
// i*(360/numRadials) for i in [0, numRadials).
func Flatten(origin types.Point, numRadials int, maxKm, intervalKm float64) (*Plan, error) {
	if numRadials <= 0 || 360%numRadials != 0 {
		return nil, ErrInvalidSampling
	}

	step := 360 / numRadials
	plan := &Plan{
		Origin:      origin,
		Bearings:    make([]int, 0, numRadials),
		StepsPerRay: int(math.Floor(maxKm / intervalKm)),
		IntervalKm:  intervalKm,
		MaxKm:       maxKm,
	}
	plan.Points = make([]types.Point, 0, numRadials*plan.StepsPerRay)

	for i := 0; i < numRadials; i++ {
		bearing := i * step
		points, err := Sample(origin, float64(bearing), maxKm, intervalKm)
		if err != nil {
			return nil, err
		}
		plan.Bearings = append(plan.Bearings, bearing)
		plan.Points = append(plan.Points, points...)
	}
	return plan, nil
}

// FlatIndex maps (ray index, sample step) to the position in Points.
func (p *Plan) FlatIndex(ray, step int) int {
	return ray*p.StepsPerRay + step
}

// Ray returns the contiguous sub-slice of Points belonging to one ray.
func (p *Plan) Ray(ray int) []types.Point {
	start := ray * p.StepsPerRay
	return p.Points[start : start+p.StepsPerRay]
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func radiansToDegrees(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// normalizeLng wraps a longitude into [-180, 180].
func normalizeLng(lng float64) float64 {
	for lng > 180 {
		lng -= 360
	}
	for lng < -180 {
		lng += 360
	}
	return lng
}
