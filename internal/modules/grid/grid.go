// README: Maidenhead grid-square codec (encode, decode, tile bounds).
package grid

import (
	"errors"
	"math"
	"strings"

	"skyline/internal/types"
)

var ErrInvalidLocator = errors.New("invalid grid locator")

// Bounds describes one grid tile. Center is the midpoint of the
// southwest/northeast corners.
type Bounds struct {
	SouthWest types.Point `json:"south_west"`
	NorthEast types.Point `json:"north_east"`
	Center    types.Point `json:"center"`
}

// Contains reports whether p lies inside the tile (inclusive edges).
func (b Bounds) Contains(p types.Point) bool {
	return p.Lat >= b.SouthWest.Lat && p.Lat <= b.NorthEast.Lat &&
		p.Lng >= b.SouthWest.Lng && p.Lng <= b.NorthEast.Lng
}

// tier describes one letter- or digit-pair of a locator. Longitude cells are
// twice as wide as latitude cells at every tier.
type tier struct {
	letters bool
	cells   byte    // valid symbols per position
	latSpan float64 // degrees of latitude per cell
}

var tiers = []tier{
	{letters: true, cells: 18, latSpan: 10.0},          // field, A-R
	{letters: false, cells: 10, latSpan: 1.0},          // square, 0-9
	{letters: true, cells: 24, latSpan: 1.0 / 24},      // subsquare, A-X
	{letters: false, cells: 10, latSpan: 1.0 / 240},    // extended, 0-9
	{letters: true, cells: 24, latSpan: 1.0 / 5760},    // super-extended, A-X
}

// Encode returns the upper-case Maidenhead locator of p at the given
// precision (locator length, one of 2, 4, 6, 8, 10).
func Encode(p types.Point, precision int) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	if precision < 2 || precision > 10 || precision%2 != 0 {
		return "", ErrInvalidLocator
	}

	lng := p.Lng + 180.0
	lat := p.Lat + 90.0

	var sb strings.Builder
	for _, t := range tiers[:precision/2] {
		lngSpan := t.latSpan * 2
		li := cellIndex(lng, lngSpan, t.cells)
		la := cellIndex(lat, t.latSpan, t.cells)
		lng -= float64(li) * lngSpan
		lat -= float64(la) * t.latSpan

		base := byte('0')
		if t.letters {
			base = 'A'
		}
		sb.WriteByte(base + li)
		sb.WriteByte(base + la)
	}
	return sb.String(), nil
}

// cellIndex floors v into a cell of the given span, clamping so the far edge
// of the globe (lat 90, lng 180) stays inside the last cell.
func cellIndex(v, span float64, cells byte) byte {
	i := int(math.Floor(v / span))
	if i < 0 {
		i = 0
	}
	if i > int(cells)-1 {
		i = int(cells) - 1
	}
	return byte(i)
}

// Decode returns the tile bounds of a locator. Input is case-insensitive;
// length must be one of 2, 4, 6, 8, 10.
func Decode(locator string) (Bounds, error) {
	loc := strings.ToUpper(strings.TrimSpace(locator))
	n := len(loc)
	if n < 2 || n > 10 || n%2 != 0 {
		return Bounds{}, ErrInvalidLocator
	}

	swLng := -180.0
	swLat := -90.0
	var latSpan float64
	for i := 0; i < n/2; i++ {
		t := tiers[i]
		base := byte('0')
		if t.letters {
			base = 'A'
		}
		li := loc[2*i] - base
		la := loc[2*i+1] - base
		if li >= t.cells || la >= t.cells || loc[2*i] < base || loc[2*i+1] < base {
			return Bounds{}, ErrInvalidLocator
		}
		swLng += float64(li) * t.latSpan * 2
		swLat += float64(la) * t.latSpan
		latSpan = t.latSpan
	}

	sw := types.Point{Lat: swLat, Lng: swLng}
	ne := types.Point{Lat: swLat + latSpan, Lng: swLng + latSpan*2}
	center := types.Point{Lat: swLat + latSpan/2, Lng: swLng + latSpan}
	return Bounds{SouthWest: sw, NorthEast: ne, Center: center}, nil
}
