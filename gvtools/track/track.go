package track

import (
	"sync"
	"time"

	"geoview-tools/gvtools/geo"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/tkrajina/gpxgo/gpx"
)

// Track is the odometer: an append-only, chronological serie of location fixes.
// One goroutine may append while others read; reads never observe a partial append.
type Track struct {
	mu     sync.RWMutex
	points []geo.Point
	total  float64
}

// Stats track statistics
type Stats struct {
	Points       int
	Duration     time.Duration
	Distance     float64
	AverageSpeed float64 // meters per second, 0 when duration is unknown
}

// Snapshot is a consistent view of the track at one point in time
type Snapshot struct {
	Current       geo.Point
	HasCurrent    bool
	Points        int
	TotalDistance float64
}

// uere is the user equivalent range error in meters used to turn an
// accuracy radius into an horizontal dilution of precision and back.
const uere = 5

// New creates an empty track
func New() *Track {
	return &Track{}
}

// FromPoints creates a track by appending the given points in order
func FromPoints(pts []geo.Point) *Track {
	t := New()
	for _, p := range pts {
		t.Append(p)
	}
	return t
}

// Append adds p as the new last point of the track
func (t *Track) Append(p geo.Point) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n := len(t.points); n > 0 {
		t.total += geo.Distance(t.points[n-1], p)
	}
	t.points = append(t.points, p)
}

// Current returns the most recently appended point, false if the track is empty
func (t *Track) Current() (geo.Point, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.points) == 0 {
		return geo.Point{}, false
	}
	return t.points[len(t.points)-1], true
}

// Len returns the number of points
func (t *Track) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.points)
}

// Snapshot returns the current point, the number of points and the
// distance traveled, all read together.
func (t *Track) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := Snapshot{
		Points:        len(t.points),
		TotalDistance: t.total,
	}
	if s.Points > 0 {
		s.Current = t.points[s.Points-1]
		s.HasCurrent = true
	}
	return s
}

// Points returns a copy of the points in arrival order
func (t *Track) Points() []geo.Point {
	t.mu.RLock()
	defer t.mu.RUnlock()

	pts := make([]geo.Point, len(t.points))
	copy(pts, t.points)
	return pts
}

// TotalDistance returns the distance traveled in meters, summing the
// distance between every consecutive pair of points.
func (t *Track) TotalDistance() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.total
}

// Distance recomputes the traveled distance from the stored points.
// It always agrees with TotalDistance.
func (t *Track) Distance() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return sumDistance(t.points)
}

// Stats retrieves statistics from the track
func (t *Track) Stats() Stats {
	pts := t.Points()
	s := Stats{
		Points:   len(pts),
		Distance: sumDistance(pts),
	}
	if len(pts) < 2 {
		return s
	}

	seg := segment(pts)
	tb := seg.TimeBounds()
	if !tb.StartTime.IsZero() && !tb.EndTime.IsZero() {
		s.Duration = tb.EndTime.Sub(tb.StartTime)
	}
	if s.Duration > 0 {
		s.AverageSpeed = s.Distance / s.Duration.Seconds()
	}

	return s
}

// Bounds returns the boundaries of the track, false if the track is empty
func (t *Track) Bounds() (Bounds, bool) {
	pts := t.Points()
	if len(pts) == 0 {
		return Bounds{}, false
	}

	seg := segment(pts)
	b := seg.Bounds()
	return Bounds{
		MinLat: b.MinLatitude,
		MinLng: b.MinLongitude,
		MaxLat: b.MaxLatitude,
		MaxLng: b.MaxLongitude,
	}, true
}

// ClosestPoint returns the closest point of the track (along with its position
// on the track) to the given location. It returns false if the track is empty.
func (t *Track) ClosestPoint(pt geo.LatLng) (geo.Point, int, bool) {
	pts := t.Points()
	switch len(pts) {
	case 0:
		return geo.Point{}, -1, false
	case 1:
		return pts[0], 0, true
	}

	polyline := toPolyline(pts)
	projected, next := polyline.Project(s2.PointFromLatLng(toS2LatLng(pt)))
	if next >= len(pts) {
		return pts[len(pts)-1], len(pts) - 1, true
	}

	closest := next - 1
	vertices := *polyline
	if projected.Distance(vertices[next]) < projected.Distance(vertices[next-1]) {
		closest = next
	}

	return pts[closest], closest, true
}

// DistanceFromPath returns the shortest distance in meters from the given
// location to the path drawn by the track, false if the track is empty.
func (t *Track) DistanceFromPath(pt geo.LatLng) (float64, bool) {
	pts := t.Points()
	switch len(pts) {
	case 0:
		return 0, false
	case 1:
		return geo.Distance(pts[0], pt), true
	}

	ll := toS2LatLng(pt)
	projected, _ := toPolyline(pts).Project(s2.PointFromLatLng(ll))
	d := ll.Distance(s2.LatLngFromPoint(projected))

	return d.Radians() * geo.EarthRadius, true
}

// ToGPX exports the track as a single segment GPX document
func (t *Track) ToGPX(name string) *gpx.GPX {
	pts := t.Points()
	g := &gpx.GPX{
		Version: "1.1",
		Creator: "geoview-tools",
		Name:    name,
		Tracks: []gpx.GPXTrack{{
			Name:     name,
			Segments: []gpx.GPXTrackSegment{segment(pts)},
		}},
	}
	if len(pts) > 0 && !pts[0].CapturedAt().IsZero() {
		start := pts[0].CapturedAt()
		g.Time = &start
	}
	return g
}

func sumDistance(pts []geo.Point) float64 {
	var total float64
	for i := 0; i+1 < len(pts); i++ {
		total += geo.Distance(pts[i], pts[i+1])
	}
	return total
}

func segment(pts []geo.Point) gpx.GPXTrackSegment {
	gPts := make([]gpx.GPXPoint, len(pts))
	for i, p := range pts {
		gPts[i] = gpx.GPXPoint{
			Point: gpx.Point{
				Latitude:  p.Lat(),
				Longitude: p.Lng(),
			},
			Timestamp: p.CapturedAt(),
		}
		if p.Accuracy() > 0 {
			gPts[i].HorizontalDilution = *gpx.NewNullableFloat64(p.Accuracy() / uere)
		}
	}
	return gpx.GPXTrackSegment{Points: gPts}
}

func toPolyline(pts []geo.Point) *s2.Polyline {
	lls := make([]s2.LatLng, len(pts))
	for i, p := range pts {
		lls[i] = toS2LatLng(p)
	}
	return s2.PolylineFromLatLngs(lls)
}

func toS2LatLng(p geo.LatLng) s2.LatLng {
	return s2.LatLng{
		Lat: s1.Angle(p.Lat()) * s1.Degree,
		Lng: s1.Angle(p.Lng()) * s1.Degree,
	}
}
