package vision

import "math"

// Bearing is a direction expressed as a clock-face position.
type Bearing string

const (
	BearingTwo    Bearing = "2 o'clock"
	BearingThree  Bearing = "3 o'clock"
	BearingFour   Bearing = "4 o'clock"
	BearingSix    Bearing = "6 o'clock"
	BearingSeven  Bearing = "7 o'clock"
	BearingNine   Bearing = "9 o'clock"
	BearingTen    Bearing = "10 o'clock"
	BearingTwelve Bearing = "12 o'clock"
)

// BearingFor maps a fractional position within a crop to one of 8 clock-face
// bearings. relX runs 0 (left) to 1 (right), relY runs 0 (top) to 1 (bottom);
// the angle is taken from the crop center and partitioned into 45° sectors.
func BearingFor(relX, relY float64) Bearing {
	angle := math.Atan2(relY-0.5, relX-0.5) * 180 / math.Pi

	switch {
	case angle >= -22.5 && angle < 22.5:
		return BearingThree
	case angle >= 22.5 && angle < 67.5:
		return BearingFour
	case angle >= 67.5 && angle < 112.5:
		return BearingSix
	case angle >= 112.5 && angle < 157.5:
		return BearingSeven
	case angle >= 157.5 || angle < -157.5:
		return BearingNine
	case angle >= -157.5 && angle < -112.5:
		return BearingTen
	case angle >= -112.5 && angle < -67.5:
		return BearingTwelve
	default:
		return BearingTwo
	}
}

// DistanceFor buckets the vertical fraction of a detection into a range
// estimate: targets near the top of the crop read as far, near the bottom
// as close.
func DistanceFor(relY float64) Distance {
	switch {
	case relY < 0.3:
		return DistanceFar
	case relY < 0.6:
		return DistanceMedium
	default:
		return DistanceClose
	}
}
