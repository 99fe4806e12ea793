package policy

import "geoview-tools/gvtools/geo"

// DestinationMaxAccuracy is the accuracy radius in meters from which a fix is
// considered too imprecise to compute a distance to the destination.
const DestinationMaxAccuracy = 5000

// Accuracy decides whether a location fix is precise enough to be used.
// A zero or negative MaxMeters accepts every fix.
type Accuracy struct {
	MaxMeters float64
}

// Accept returns true if the fix accuracy radius is strictly below MaxMeters
func (a Accuracy) Accept(p geo.Point) bool {
	if a.MaxMeters <= 0 {
		return true
	}
	return p.Accuracy() < a.MaxMeters
}

// Enabled returns true if the policy filters anything at all
func (a Accuracy) Enabled() bool {
	return a.MaxMeters > 0
}

// Reason is the status message shown when a fix gets rejected
func (a Accuracy) Reason() string {
	return "Need more accurate values to calculate distance."
}
