package session

import (
	"sync"

	"geoview-tools/gvtools/geo"
	"geoview-tools/gvtools/mapview"
	"geoview-tools/gvtools/policy"
	"geoview-tools/gvtools/sensor"
	"geoview-tools/gvtools/track"
)

// Odometer records every accepted fix on a track and shows the last one on a map
type Odometer struct {
	Track  *track.Track
	Policy policy.Accuracy // disabled by default, every fix is recorded
	Sink   mapview.Sink
	Zoom   int

	mu       sync.RWMutex
	status   string
	rejected int
}

// Report is a snapshot of the odometer
type Report struct {
	Current       geo.Point
	HasCurrent    bool
	Points        int
	Rejected      int
	TotalDistance float64
	Status        string
}

// NewOdometer creates an odometer drawing on the given sink, which may be nil
func NewOdometer(sink mapview.Sink) *Odometer {
	return &Odometer{
		Track: track.New(),
		Sink:  sink,
		Zoom:  mapview.OdometerZoom,
	}
}

// OnPosition records the fix on the track if the policy accepts it
func (o *Odometer) OnPosition(p geo.Point) {
	if !o.Policy.Accept(p) {
		o.setStatus(o.Policy.Reason(), true)
		return
	}

	o.Track.Append(p)
	mark(o.Sink, p, o.Zoom)
	o.setStatus(StatusRetrieved, false)
}

// OnError shows the location failure as status
func (o *Odometer) OnError(err *sensor.Error) {
	o.setStatus(err.Error(), false)
}

// Status returns the last status message
func (o *Odometer) Status() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.status
}

// Report returns the current position and the distance traveled so far
func (o *Odometer) Report() Report {
	o.mu.RLock()
	defer o.mu.RUnlock()

	snap := o.Track.Snapshot()
	return Report{
		Current:       snap.Current,
		HasCurrent:    snap.HasCurrent,
		Points:        snap.Points,
		Rejected:      o.rejected,
		TotalDistance: snap.TotalDistance,
		Status:        o.status,
	}
}

func (o *Odometer) setStatus(status string, rejected bool) {
	o.mu.Lock()
	o.status = status
	if rejected {
		o.rejected++
	}
	o.mu.Unlock()

	showStatus(o.Sink, status)
}
