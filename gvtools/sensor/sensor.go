package sensor

import (
	"context"
	"time"

	"geoview-tools/gvtools/geo"
)

// Sample is a raw location fix as reported by a location source
type Sample struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64 // meters
	Timestamp time.Time
}

// Point validates the sample and turns it into a geo point
func (s Sample) Point() (geo.Point, error) {
	return geo.NewPoint(s.Latitude, s.Longitude, s.Accuracy, s.Timestamp)
}

// Options controls how fixes are requested from a source
type Options struct {
	// HighAccuracy asks the source for its most precise fixes when it can tell the difference.
	HighAccuracy bool
	// Timeout bounds the wait for every single fix. Zero waits forever.
	Timeout time.Duration
	// MaxStaleness drops fixes captured longer than this ago. Zero accepts any fix.
	MaxStaleness time.Duration
}

// DefaultOptions returns the settings used by every page: high accuracy,
// 5 seconds timeout and no cached fixes.
func DefaultOptions() Options {
	return Options{
		HighAccuracy: true,
		Timeout:      5 * time.Second,
	}
}

// Source produces location fixes one at a time.
// Next blocks until a fix is available, the context is done or the source
// is exhausted, in which case it returns io.EOF.
type Source interface {
	Next(ctx context.Context) (Sample, error)
}

// Handler receives the outcome of every fix request made by Watch
type Handler interface {
	OnPosition(p geo.Point)
	OnError(err *Error)
}
