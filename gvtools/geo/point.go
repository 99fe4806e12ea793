package geo

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidCoordinate is returned when a point is built from out of range values
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Point is a single location fix. It can't be modified once built.
type Point struct {
	lat, lng   float64
	accuracy   float64
	capturedAt time.Time
}

// NewPoint validates the given values and builds a point.
// Latitude must be in [-90, 90], longitude in [-180, 180] and accuracy
// a non-negative radius in meters.
func NewPoint(lat, lng, accuracy float64, capturedAt time.Time) (Point, error) {
	if !finite(lat) || lat < -90 || lat > 90 {
		return Point{}, fmt.Errorf("%w: latitude %v out of [-90, 90]", ErrInvalidCoordinate, lat)
	}
	if !finite(lng) || lng < -180 || lng > 180 {
		return Point{}, fmt.Errorf("%w: longitude %v out of [-180, 180]", ErrInvalidCoordinate, lng)
	}
	if !finite(accuracy) || accuracy < 0 {
		return Point{}, fmt.Errorf("%w: accuracy %v must be a non-negative radius", ErrInvalidCoordinate, accuracy)
	}

	return Point{
		lat:        lat,
		lng:        lng,
		accuracy:   accuracy,
		capturedAt: capturedAt,
	}, nil
}

// MustPoint is like NewPoint but panics on invalid input.
func MustPoint(lat, lng, accuracy float64, capturedAt time.Time) Point {
	p, err := NewPoint(lat, lng, accuracy, capturedAt)
	if err != nil {
		panic(err)
	}
	return p
}

// Lat returns the latitude in degrees
func (p Point) Lat() float64 {
	return p.lat
}

// Lng returns the longitude in degrees
func (p Point) Lng() float64 {
	return p.lng
}

// Accuracy returns the sensor confidence radius in meters
func (p Point) Accuracy() float64 {
	return p.accuracy
}

// CapturedAt returns when the fix was taken
func (p Point) CapturedAt() time.Time {
	return p.capturedAt
}

func (p Point) String() string {
	return fmt.Sprintf("(%.6f, %.6f ±%gm)", p.lat, p.lng, p.accuracy)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
