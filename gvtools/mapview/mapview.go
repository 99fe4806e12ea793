package mapview

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"geoview-tools/gvtools/geo"

	"github.com/go-msvc/errors"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Marker colors and zoom levels used by the pages
const (
	DestinationColor = "#FF71AE"
	ViewerColor      = "#4271AE"
	OdometerColor    = "#FF71AE"

	DestinationZoom = 13
	ViewerZoom      = 18
	OdometerZoom    = 18

	MaxZoom = 28
)

// Sink renders a marker at the given point, centering the view on it
type Sink interface {
	SetMarker(p geo.Point, zoom int) error
}

// Marker is a point drawn on the map
type Marker struct {
	Point geo.Point
	Zoom  int
}

// Map is an in-memory map view. Every marker is kept on its own layer and
// the view follows the last one. It can be exported as GeoJSON or HTML.
type Map struct {
	Title    string
	Color    string
	ShowPath bool // draw a line between markers, in order

	mu      sync.Mutex
	markers []Marker
	status  string
}

// New creates an empty map
func New(title, color string) *Map {
	return &Map{
		Title: title,
		Color: color,
	}
}

// SetMarker adds a marker and moves the view to it
func (m *Map) SetMarker(p geo.Point, zoom int) error {
	if zoom < 0 || zoom > MaxZoom {
		return errors.Errorf("invalid zoom level %d", zoom)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.markers = append(m.markers, Marker{Point: p, Zoom: zoom})
	return nil
}

// SetStatus sets the status line shown with the map
func (m *Map) SetStatus(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
}

// Status returns the status line
func (m *Map) Status() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Markers returns a copy of the markers in the order they were set
func (m *Map) Markers() []Marker {
	m.mu.Lock()
	defer m.mu.Unlock()

	markers := make([]Marker, len(m.markers))
	copy(markers, m.markers)
	return markers
}

// View returns the center and zoom of the view, false if nothing was marked yet
func (m *Map) View() (geo.Point, int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.markers) == 0 {
		return geo.Point{}, 0, false
	}
	last := m.markers[len(m.markers)-1]
	return last.Point, last.Zoom, true
}

// GeoJSON returns the markers as a feature collection, plus the path
// between them as a line string when ShowPath is set.
func (m *Map) GeoJSON() *geojson.FeatureCollection {
	markers := m.Markers()
	fc := geojson.NewFeatureCollection()

	for i, mk := range markers {
		f := geojson.NewFeature(orb.Point{mk.Point.Lng(), mk.Point.Lat()})
		f.Properties["index"] = i
		f.Properties["accuracy"] = mk.Point.Accuracy()
		f.Properties["color"] = m.Color
		if !mk.Point.CapturedAt().IsZero() {
			f.Properties["captured_at"] = mk.Point.CapturedAt().UTC().Format(time.RFC3339)
		}
		fc.Append(f)
	}

	if m.ShowPath && len(markers) > 1 {
		line := make(orb.LineString, len(markers))
		for i, mk := range markers {
			line[i] = orb.Point{mk.Point.Lng(), mk.Point.Lat()}
		}
		f := geojson.NewFeature(line)
		f.Properties["color"] = m.Color
		fc.Append(f)
	}

	return fc
}

// Save writes the map to path, as GeoJSON if the file extension is
// .json or .geojson and as an HTML page otherwise.
func (m *Map) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "cannot create map file %s", path)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".geojson":
		data, err := m.GeoJSON().MarshalJSON()
		if err != nil {
			return errors.Wrapf(err, "cannot encode map %s", path)
		}
		if _, err := f.Write(data); err != nil {
			return errors.Wrapf(err, "cannot write map file %s", path)
		}
	default:
		if err := m.WriteHTML(f); err != nil {
			return errors.Wrapf(err, "cannot write map file %s", path)
		}
	}

	return f.Close()
}
