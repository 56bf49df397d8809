// README: Common geographic value types shared across modules.
package types

import "errors"

// ID is an opaque identifier for computations and stored results.
type ID string

var ErrOutOfRange = errors.New("coordinate out of range")

// Point is an immutable geographic coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate reports whether the point lies on the globe.
func (p Point) Validate() error {
	if p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
		return ErrOutOfRange
	}
	return nil
}
