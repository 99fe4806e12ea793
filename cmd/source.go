package main

import (
	"context"
	"flag"
	"os"
	"time"

	"geoview-tools/gvtools/config"
	"geoview-tools/gvtools/convert"
	"geoview-tools/gvtools/geo"
	"geoview-tools/gvtools/mapview"
	"geoview-tools/gvtools/sensor"
	"geoview-tools/gvtools/strava"
	"geoview-tools/gvtools/terminal"

	"github.com/go-msvc/errors"
)

// sourceFlags selects where location fixes come from
type sourceFlags struct {
	gpxFile  string
	activity string
	interval time.Duration
}

func (s *sourceFlags) register(f *flag.FlagSet) {
	f.StringVar(&s.gpxFile, "gpx", "", "replay the points of a GPX file")
	f.StringVar(&s.activity, "activity", "", "replay the points of a Strava activity link")
	f.DurationVar(&s.interval, "interval", 0, "wait between replayed points")
}

// open returns the selected source. Without a recording, positions are
// read from stdin, one "lat lng [accuracy]" per line.
func (s *sourceFlags) open(ctx context.Context, cfg *config.Config) (sensor.Source, error) {
	switch {
	case s.gpxFile != "" && s.activity != "":
		return nil, errors.Errorf("-gpx and -activity can't be used together")
	case s.gpxFile != "":
		replay, err := sensor.ParseGPXFile(s.gpxFile, s.interval)
		if err != nil {
			return nil, err
		}
		return replay, nil
	case s.activity != "":
		samples, err := stravaSamples(ctx, cfg, s.activity)
		if err != nil {
			return nil, err
		}
		return sensor.NewReplay(samples, s.interval), nil
	default:
		terminal.Info("Reading positions from stdin, one 'lat lng [accuracy]' per line")
		return sensor.ReadLines(ctx, os.Stdin), nil
	}
}

// stravaSamples downloads the recorded locations of a Strava activity
func stravaSamples(ctx context.Context, cfg *config.Config, link string) ([]sensor.Sample, error) {
	activityID, err := strava.ParseActivityID(link)
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireStrava(); err != nil {
		return nil, err
	}

	client := strava.NewClient(cfg.HTTPPort, cfg.StravaClientID, cfg.StravaSecretID, cfg.TokenFile)

	// get auth token to query Strava
	if err := client.RetrieveAuthToken(ctx); err != nil {
		return nil, errors.Wrapf(err, "something went wrong while trying to fetch auth token")
	}

	o := terminal.NewOperation("Downloading %s", client.ActivityLink(activityID))
	samples, err := client.Samples(ctx, activityID)
	if err != nil {
		o.Error(err, "Failed to download activity from Strava")
		return nil, err
	}
	o.Success("Activity downloaded from Strava (%d points)", len(samples))
	return samples, nil
}

// notReplayed returns how many recorded fixes were left when watching stopped
func notReplayed(src sensor.Source) int {
	if r, ok := src.(*sensor.Replay); ok {
		return r.Remaining()
	}
	return 0
}

func printPosition(p geo.Point, decimals int) {
	terminal.Line("Timestamp: %s", convert.Timestamp(p.CapturedAt()))
	terminal.Line("Latitude: %s", convert.Fixed(p.Lat(), decimals))
	terminal.Line("Longitude: %s", convert.Fixed(p.Lng(), decimals))
	terminal.Line("Accuracy: %v meter", p.Accuracy())
}

func saveMap(m *mapview.Map, path string) {
	if path == "" {
		return
	}
	if err := m.Save(path); err != nil {
		terminal.Error(err, "Failed to save map to '%s'", path)
		return
	}
	terminal.Info("Map saved to '%s'", path)
}

func validZoom(zoom int) error {
	if zoom < 0 || zoom > mapview.MaxZoom {
		return errors.Errorf("zoom must be between 0 and %d", mapview.MaxZoom)
	}
	return nil
}
