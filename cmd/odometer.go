package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"geoview-tools/gvtools/config"
	"geoview-tools/gvtools/convert"
	"geoview-tools/gvtools/geo"
	"geoview-tools/gvtools/mapview"
	"geoview-tools/gvtools/sensor"
	"geoview-tools/gvtools/session"
	"geoview-tools/gvtools/terminal"
	"geoview-tools/gvtools/track"

	"github.com/google/subcommands"
	"github.com/tkrajina/gpxgo/gpx"
)

type odometerCmd struct {
	source      sourceFlags
	maxAccuracy float64
	output      string
	gpxOut      string
}

func (*odometerCmd) Name() string     { return "odometer" }
func (*odometerCmd) Synopsis() string { return "Follow the current location and the distance traveled." }
func (*odometerCmd) Usage() string {
	return `odometer [-gpx <file> | -activity <url>] [-max-accuracy <meters>] [-output <file>] [-gpx-out <file>]
	Record every location fix and print the total distance traveled.
	Stop with Ctrl-C when reading from stdin.
  `
}

func (c *odometerCmd) SetFlags(f *flag.FlagSet) {
	c.source.register(f)
	f.Float64Var(&c.maxAccuracy, "max-accuracy", 0, "ignore fixes less accurate than this many meters, 0 keeps all")
	f.StringVar(&c.output, "output", "odometer.html", "map file (.html, .json or .geojson)")
	f.StringVar(&c.gpxOut, "gpx-out", "", "save the recorded track to a GPX file")
}

func (c *odometerCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	cfg := args[0].(*config.Config)

	opts, err := cfg.SensorOptions()
	if err != nil {
		terminal.Error(err, "Invalid sensor options")
		return subcommands.ExitUsageError
	}
	if c.maxAccuracy < 0 {
		terminal.Error(nil, "Accuracy threshold can't be negative")
		return subcommands.ExitUsageError
	}

	src, err := c.source.open(ctx, cfg)
	if err != nil {
		terminal.Error(err, "Failed to open location source")
		return subcommands.ExitFailure
	}

	m := mapview.New("Odometer", mapview.OdometerColor)
	m.ShowPath = true
	odo := session.NewOdometer(m)
	odo.Policy.MaxMeters = c.maxAccuracy

	err = sensor.Watch(ctx, src, opts, odometerPrinter{odo})
	if err != nil && !errors.Is(err, context.Canceled) {
		terminal.Error(err, "Stopped watching the location")
		return subcommands.ExitFailure
	}

	r := odo.Report()
	stats := odo.Track.Stats()
	terminal.Line("")
	terminal.Info("Recorded %d points (%d rejected) in %s", r.Points, r.Rejected, convert.Duration(stats.Duration))
	terminal.Info("Total distance traveled: %s m", convert.Ftoan(r.TotalDistance))
	if odo.Policy.Enabled() {
		terminal.Info("Fixes of %s m accuracy or worse were ignored", convert.Ftoan(odo.Policy.MaxMeters))
	}
	if left := notReplayed(src); left > 0 {
		terminal.Info("Stopped with %d recorded fixes not replayed", left)
	}

	saveMap(m, c.output)
	if c.gpxOut != "" {
		if err := writeGPX(odo.Track, "Odometer", c.gpxOut); err != nil {
			terminal.Error(err, "Failed to save track to '%s'", c.gpxOut)
			return subcommands.ExitFailure
		}
		terminal.Info("Track saved to '%s'", c.gpxOut)
	}
	return subcommands.ExitSuccess
}

// odometerPrinter prints the odometer after every fix
type odometerPrinter struct {
	*session.Odometer
}

func (p odometerPrinter) OnPosition(pt geo.Point) {
	p.Odometer.OnPosition(pt)

	r := p.Report()
	if r.Status != session.StatusRetrieved {
		terminal.Error(nil, "%s", r.Status)
		return
	}
	terminal.Line("")
	printPosition(r.Current, 4)
	terminal.Line("Total distance traveled: %s m", convert.Ftoan(r.TotalDistance))
}

func (p odometerPrinter) OnError(err *sensor.Error) {
	p.Odometer.OnError(err)
	terminal.Error(nil, "%s", err)
}

func writeGPX(t *track.Track, name, path string) error {
	data, err := t.ToGPX(name).ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
