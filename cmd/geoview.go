package main

import (
	"context"
	"flag"

	"geoview-tools/gvtools/config"
	"geoview-tools/gvtools/mapview"
	"geoview-tools/gvtools/session"
	"geoview-tools/gvtools/terminal"

	"github.com/google/subcommands"
)

type geoviewCmd struct {
	source sourceFlags
	zoom   int
	output string
}

func (*geoviewCmd) Name() string     { return "geoview" }
func (*geoviewCmd) Synopsis() string { return "Show the current location on a map." }
func (*geoviewCmd) Usage() string {
	return `geoview [-gpx <file> | -activity <url>] [-output <file>]
	Take a single location fix and show it on a map.
  `
}

func (c *geoviewCmd) SetFlags(f *flag.FlagSet) {
	c.source.register(f)
	f.IntVar(&c.zoom, "zoom", mapview.ViewerZoom, "map zoom level")
	f.StringVar(&c.output, "output", "geoview.html", "map file (.html, .json or .geojson)")
}

func (c *geoviewCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	cfg := args[0].(*config.Config)

	opts, err := cfg.SensorOptions()
	if err != nil {
		terminal.Error(err, "Invalid sensor options")
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

	m := mapview.New("Geoview", mapview.ViewerColor)
	v := session.NewViewer(m)
	v.Zoom = c.zoom
	v.Options = opts

	o := terminal.NewOperation("Waiting for a location fix")
	p, err := v.Locate(ctx, src)
	if err != nil {
		o.Error(err, "Failed to get the current location")
		return subcommands.ExitFailure
	}
	o.Success(session.StatusRetrieved)

	printPosition(p, 6)
	saveMap(m, c.output)
	return subcommands.ExitSuccess
}
