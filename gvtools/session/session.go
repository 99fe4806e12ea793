// Package session holds the page components wiring location fixes to a
// track, an accuracy policy and a map.
package session

import (
	"geoview-tools/gvtools/geo"
	"geoview-tools/gvtools/mapview"

	"github.com/stewelarend/logger"
)

var log = logger.New()

// StatusRetrieved is the status once a fix has been used
const StatusRetrieved = "Location retrieved."

type statusSetter interface {
	SetStatus(string)
}

// showStatus forwards the status to the sink when it can display it
func showStatus(sink mapview.Sink, status string) {
	if s, ok := sink.(statusSetter); ok {
		s.SetStatus(status)
	}
}

// mark sets a marker on the sink, if any. Rendering failures don't stop
// the stream of fixes, they are only logged.
func mark(sink mapview.Sink, p geo.Point, zoom int) {
	if sink == nil {
		return
	}
	if err := sink.SetMarker(p, zoom); err != nil {
		log.Errorf("cannot set marker at %v: %v", p, err)
	}
}
