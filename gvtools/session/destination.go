package session

import (
	"sync"
	"time"

	"geoview-tools/gvtools/geo"
	"geoview-tools/gvtools/mapview"
	"geoview-tools/gvtools/policy"
	"geoview-tools/gvtools/sensor"
)

// DefaultDestination is used when no destination is given
var DefaultDestination = geo.MustPoint(51.034306, 3.701102, 0, time.Time{})

// Destination follows the current position and its distance to a fixed destination.
// Fixes that aren't precise enough are ignored.
type Destination struct {
	Target geo.Point
	Policy policy.Accuracy
	Sink   mapview.Sink

	mu         sync.RWMutex
	zoom       int
	current    geo.Point
	hasCurrent bool
	status     string
}

// NewDestination creates a destination component drawing on the given sink, which may be nil
func NewDestination(target geo.Point, sink mapview.Sink) *Destination {
	return &Destination{
		Target: target,
		Policy: policy.Accuracy{MaxMeters: policy.DestinationMaxAccuracy},
		Sink:   sink,
		zoom:   mapview.DestinationZoom,
	}
}

// OnPosition updates the current position if the fix is precise enough
func (d *Destination) OnPosition(p geo.Point) {
	if !d.Policy.Accept(p) {
		d.setStatus(d.Policy.Reason())
		return
	}

	d.mu.Lock()
	d.current = p
	d.hasCurrent = true
	zoom := d.zoom
	d.mu.Unlock()

	d.render(p, zoom)
	d.setStatus(StatusRetrieved)
}

// OnError shows the location failure as status
func (d *Destination) OnError(err *sensor.Error) {
	d.setStatus(err.Error())
}

// SetZoom changes the zoom level and redraws the map if a position is known
func (d *Destination) SetZoom(zoom int) {
	d.mu.Lock()
	d.zoom = zoom
	cur, ok := d.current, d.hasCurrent
	d.mu.Unlock()

	if ok {
		d.render(cur, zoom)
	}
}

// Zoom returns the zoom level used to draw the map
func (d *Destination) Zoom() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.zoom
}

// Current returns the last accepted position, false if none yet
func (d *Destination) Current() (geo.Point, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.current, d.hasCurrent
}

// DistanceToDestination returns the straight line distance in meters between
// the current position and the destination, false if no position is known yet.
func (d *Destination) DistanceToDestination() (float64, bool) {
	cur, ok := d.Current()
	if !ok {
		return 0, false
	}
	return geo.Distance(d.Target, cur), true
}

// Status returns the last status message
func (d *Destination) Status() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.status
}

func (d *Destination) render(cur geo.Point, zoom int) {
	mark(d.Sink, d.Target, zoom)
	mark(d.Sink, cur, zoom)
}

func (d *Destination) setStatus(status string) {
	d.mu.Lock()
	d.status = status
	d.mu.Unlock()

	showStatus(d.Sink, status)
}
