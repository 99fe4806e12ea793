package track

import "math"

// Bounds represents track coordinate boundaries
type Bounds struct {
	MinLat, MinLng float64
	MaxLat, MaxLng float64
}

// Extend pads the boundaries by margin decimal degrees on every side,
// without going past the poles or the antimeridian.
func (b Bounds) Extend(margin float64) Bounds {
	return Bounds{
		MinLat: math.Max(b.MinLat-margin, -90),
		MinLng: math.Max(b.MinLng-margin, -180),
		MaxLat: math.Min(b.MaxLat+margin, 90),
		MaxLng: math.Min(b.MaxLng+margin, 180),
	}
}

// Center returns the middle of the boundaries
func (b Bounds) Center() (lat, lng float64) {
	return (b.MinLat + b.MaxLat) / 2, (b.MinLng + b.MaxLng) / 2
}
