package session

import (
	"context"

	"geoview-tools/gvtools/geo"
	"geoview-tools/gvtools/mapview"
	"geoview-tools/gvtools/sensor"
)

// Viewer takes a single fix and shows it on a map
type Viewer struct {
	Sink    mapview.Sink
	Zoom    int
	Options sensor.Options
}

// NewViewer creates a viewer drawing on the given sink
func NewViewer(sink mapview.Sink) *Viewer {
	return &Viewer{
		Sink:    sink,
		Zoom:    mapview.ViewerZoom,
		Options: sensor.DefaultOptions(),
	}
}

// Locate requests one fix from src and marks it on the map
func (v *Viewer) Locate(ctx context.Context, src sensor.Source) (geo.Point, error) {
	p, err := sensor.Once(ctx, src, v.Options)
	if err != nil {
		showStatus(v.Sink, err.Error())
		return geo.Point{}, err
	}

	mark(v.Sink, p, v.Zoom)
	showStatus(v.Sink, StatusRetrieved)
	return p, nil
}
