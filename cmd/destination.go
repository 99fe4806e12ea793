package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"geoview-tools/gvtools/config"
	"geoview-tools/gvtools/convert"
	"geoview-tools/gvtools/geo"
	"geoview-tools/gvtools/mapview"
	"geoview-tools/gvtools/policy"
	"geoview-tools/gvtools/sensor"
	"geoview-tools/gvtools/session"
	"geoview-tools/gvtools/terminal"
	"geoview-tools/gvtools/track"

	"github.com/google/subcommands"
)

type destinationCmd struct {
	source      sourceFlags
	lat, lng    float64
	zoom        int
	maxAccuracy float64
	output      string
}

func (*destinationCmd) Name() string     { return "destination" }
func (*destinationCmd) Synopsis() string { return "Follow the distance to a destination." }
func (*destinationCmd) Usage() string {
	return `destination [-lat <lat> -lng <lng>] [-gpx <file> | -activity <url>] [-zoom <level>] [-output <file>]
	Print the straight line distance between the current location and a destination.
  `
}

func (c *destinationCmd) SetFlags(f *flag.FlagSet) {
	c.source.register(f)
	f.Float64Var(&c.lat, "lat", session.DefaultDestination.Lat(), "destination latitude")
	f.Float64Var(&c.lng, "lng", session.DefaultDestination.Lng(), "destination longitude")
	f.IntVar(&c.zoom, "zoom", mapview.DestinationZoom, "map zoom level")
	f.Float64Var(&c.maxAccuracy, "max-accuracy", policy.DestinationMaxAccuracy, "ignore fixes less accurate than this many meters")
	f.StringVar(&c.output, "output", "destination.html", "map file (.html, .json or .geojson)")
}

func (c *destinationCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	cfg := args[0].(*config.Config)

	opts, err := cfg.SensorOptions()
	if err != nil {
		terminal.Error(err, "Invalid sensor options")
		return subcommands.ExitUsageError
	}
	target, err := geo.NewPoint(c.lat, c.lng, 0, time.Time{})
	if err != nil {
		terminal.Error(err, "Invalid destination")
		return subcommands.ExitUsageError
	}
	if err := validZoom(c.zoom); err != nil {
		terminal.Error(err, "Invalid zoom")
		return subcommands.ExitUsageError
	}

	src, err := c.source.open(ctx, cfg)
	if err != nil {
		terminal.Error(err, "Failed to open location source")
		return subcommands.ExitFailure
	}

	m := mapview.New("Destination", mapview.DestinationColor)
	d := session.NewDestination(target, m)
	d.Policy.MaxMeters = c.maxAccuracy
	d.SetZoom(c.zoom)

	terminal.Info("Destination: %s, %s", convert.Fixed(target.Lat(), 6), convert.Fixed(target.Lng(), 6))

	h := &destinationPrinter{Destination: d, path: track.New()}
	err = sensor.Watch(ctx, src, opts, h)
	if err != nil && !errors.Is(err, context.Canceled) {
		terminal.Error(err, "Stopped watching the location")
		return subcommands.ExitFailure
	}

	if summary, ok := closestApproach(h.path, target); ok {
		terminal.Line("")
		terminal.Info("%s", summary)
	}
	if left := notReplayed(src); left > 0 {
		terminal.Info("Stopped with %d recorded fixes not replayed", left)
	}

	saveMap(m, c.output)
	return subcommands.ExitSuccess
}

// destinationPrinter prints the distance to destination after every fix
// and keeps the accepted fixes to find the closest approach.
type destinationPrinter struct {
	*session.Destination
	path *track.Track
}

func (p *destinationPrinter) OnPosition(pt geo.Point) {
	p.Destination.OnPosition(pt)

	if status := p.Status(); status != session.StatusRetrieved {
		terminal.Error(nil, "%s", status)
		return
	}
	cur, _ := p.Current()
	p.path.Append(cur)

	dist, _ := p.DistanceToDestination()
	terminal.Line("")
	printPosition(cur, 6)
	terminal.Line("Distance to destination: %s km", convert.Fixed(convert.ToKilometers(dist), 3))
}

func (p *destinationPrinter) OnError(err *sensor.Error) {
	p.Destination.OnError(err)
	terminal.Error(nil, "%s", err)
}

// closestApproach describes how close the recorded path came to target and
// which recorded fix was the nearest, false if nothing was recorded.
func closestApproach(path *track.Track, target geo.Point) (string, bool) {
	dist, ok := path.DistanceFromPath(target)
	if !ok {
		return "", false
	}
	p, i, _ := path.ClosestPoint(target)

	summary := fmt.Sprintf("Closest approach to destination: %s km, nearest fix #%d",
		convert.Fixed(convert.ToKilometers(dist), 3), i+1)
	if !p.CapturedAt().IsZero() {
		summary += " at " + convert.Clock(p.CapturedAt())
	}
	return summary, true
}
