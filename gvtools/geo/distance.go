package geo

import "math"

// EarthRadius is the mean Earth radius in meters used by Distance
const EarthRadius = 6371000

// LatLng latlng
type LatLng interface {
	Lat() float64
	Lng() float64
}

// Distance returns the great-circle distance in meters between a and b
// using the haversine formula on a sphere of radius EarthRadius.
//
// The sphere approximation stays within about 0.5% of the ellipsoidal
// distance for points a few thousand kilometers apart, which is fine for
// walking or driving but not for surveying. Inputs are not validated.
func Distance(a, b LatLng) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180 }

	dLat := rad(b.Lat() - a.Lat())
	dLng := rad(b.Lng() - a.Lng())

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	h := sinLat*sinLat + math.Cos(rad(a.Lat()))*math.Cos(rad(b.Lat()))*sinLng*sinLng

	// rounding can push h slightly above 1 for antipodal points
	h = math.Min(math.Max(h, 0), 1)

	return 2 * EarthRadius * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
