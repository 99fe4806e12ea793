package sensor

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/go-msvc/errors"
	"github.com/tkrajina/gpxgo/gpx"
)

// uere is the user equivalent range error in meters, used to turn a GPX
// horizontal dilution of precision into an accuracy radius.
const uere = 5

// Replay plays back recorded samples, optionally waiting Interval between them
type Replay struct {
	Interval time.Duration

	mu      sync.Mutex
	samples []Sample
	pos     int
	lastAt  time.Time // when the last sample was returned
}

// NewReplay creates a source playing back the given samples in order
func NewReplay(samples []Sample, interval time.Duration) *Replay {
	return &Replay{
		Interval: interval,
		samples:  samples,
	}
}

// Next returns the next recorded sample, io.EOF once all have been played.
// A sample is due Interval after the previous one was returned: a call
// interrupted by its context keeps that schedule instead of restarting it.
// A sample is only consumed when it is returned.
func (r *Replay) Next(ctx context.Context) (Sample, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pos >= len(r.samples) {
		return Sample{}, io.EOF
	}

	if r.Interval > 0 && r.pos > 0 {
		if wait := r.Interval - time.Since(r.lastAt); wait > 0 {
			timer := time.NewTimer(wait)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return Sample{}, ctx.Err()
			case <-timer.C:
			}
		}
	}

	s := r.samples[r.pos]
	r.pos++
	r.lastAt = time.Now()
	return s, nil
}

// Remaining returns the number of samples not played yet
func (r *Replay) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.samples) - r.pos
}

// FromGPX extracts samples from every track point of the given GPX, or from
// its waypoints when it has no track.
func FromGPX(g *gpx.GPX) []Sample {
	var samples []Sample
	for _, t := range g.Tracks {
		for _, seg := range t.Segments {
			for _, p := range seg.Points {
				samples = append(samples, fromGPXPoint(p))
			}
		}
	}
	if len(samples) == 0 {
		for _, p := range g.Waypoints {
			samples = append(samples, fromGPXPoint(p))
		}
	}
	return samples
}

// ParseGPXFile reads a GPX file and returns a replay source over its points
func ParseGPXFile(path string, interval time.Duration) (*Replay, error) {
	g, err := gpx.ParseFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse gpx file %s", path)
	}

	samples := FromGPX(g)
	log.Debugf("loaded %d samples from %s", len(samples), path)

	return NewReplay(samples, interval), nil
}

func fromGPXPoint(p gpx.GPXPoint) Sample {
	s := Sample{
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Timestamp: p.Timestamp,
	}
	if p.HorizontalDilution.NotNull() {
		s.Accuracy = p.HorizontalDilution.Value() * uere
	}
	return s
}
