package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

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

type exportCmd struct {
	source      sourceFlags
	maxAccuracy float64
	format      string
	outputFile  string
}

const (
	textF    = "text"
	csvF     = "csv"
	jsonF    = "json"
	gpxF     = "gpx"
	geojsonF = "geojson"
	htmlF    = "html"
)

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "Export a recorded track with its distance." }
func (*exportCmd) Usage() string {
	return `export [-gpx <file> | -activity <url>] [-format <format>] [-output <file>]
	Convert a recorded track and print its statistics.
  `
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	c.source.register(f)
	f.Float64Var(&c.maxAccuracy, "max-accuracy", 0, "drop fixes less accurate than this many meters, 0 keeps all")
	f.StringVar(&c.format, "format", textF, "export format (text, csv, json, gpx, geojson, html)")
	f.StringVar(&c.outputFile, "output", "", "output file")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	cfg := args[0].(*config.Config)

	// validate parameters
	switch c.format {
	case textF, csvF, jsonF, gpxF, geojsonF, htmlF:
	default:
		terminal.Error(nil, "Invalid format '%s'", c.format)
		return subcommands.ExitUsageError
	}

	src, err := c.source.open(ctx, cfg)
	if err != nil {
		terminal.Error(err, "Failed to open location source")
		return subcommands.ExitFailure
	}

	// recordings are played back as fast as possible
	opts := sensor.DefaultOptions()
	opts.Timeout = 0

	m := mapview.New("Track", mapview.OdometerColor)
	m.ShowPath = true
	odo := session.NewOdometer(m)
	odo.Policy.MaxMeters = c.maxAccuracy

	o := terminal.NewOperation("Reading track")
	if err := sensor.Watch(ctx, src, opts, odo); err != nil {
		o.Error(err, "Failed to read track")
		return subcommands.ExitFailure
	}
	r := odo.Report()
	o.Success("Read %d points (%d rejected)", r.Points, r.Rejected)

	// get a file writer if needed
	var w io.Writer = os.Stdout
	var op *terminal.Operation
	if c.outputFile != "" {
		f, err := os.Create(c.outputFile)
		if err != nil {
			terminal.Error(err, "Could not open file '%s'", c.outputFile)
			return subcommands.ExitFailure
		}
		defer f.Close()
		w = f

		op = terminal.NewOperation("Exporting track to '%s' in %s format", c.outputFile, c.format)
	}

	if err := export(w, c.format, odo.Track, m); err != nil {
		if op != nil {
			op.Error(err, "Failed to export track")
		} else {
			terminal.Error(err, "Failed to export track")
		}
		return subcommands.ExitFailure
	}

	if op != nil {
		op.Success("Track exported to %s", c.outputFile)
	}
	return subcommands.ExitSuccess
}

func export(w io.Writer, format string, t *track.Track, m *mapview.Map) error {
	pts := t.Points()

	switch format {
	case textF:
		for i, p := range pts {
			fmt.Fprintf(w, "%d - %s - %s, %s (%v m)\n", i+1, convert.Timestamp(p.CapturedAt()),
				convert.Fixed(p.Lat(), 6), convert.Fixed(p.Lng(), 6), p.Accuracy())
		}
		stats := t.Stats()
		fmt.Fprintf(w, "Total distance traveled: %s m (%.2f mi) in %s\n",
			convert.Ftoan(stats.Distance), convert.ToMiles(stats.Distance), convert.Duration(stats.Duration))
		return nil
	case csvF:
		csvW := csv.NewWriter(w)
		csvW.Write([]string{"latitude", "longitude", "accuracy(m)", "captured at", "distance(m)"})
		var total float64
		for i, p := range pts {
			if i > 0 {
				total += geo.Distance(pts[i-1], p)
			}
			csvW.Write([]string{convert.Fixed(p.Lat(), 6), convert.Fixed(p.Lng(), 6),
				convert.Fixed(p.Accuracy(), -1), capturedAt(p.CapturedAt()), convert.Ftoan(total)})
		}
		csvW.Flush()
		return csvW.Error()
	case jsonF:
		elts := make([]map[string]interface{}, len(pts))
		for i, p := range pts {
			jsonMap := map[string]interface{}{}
			jsonMap["latitude"] = p.Lat()
			jsonMap["longitude"] = p.Lng()
			jsonMap["accuracy"] = p.Accuracy()
			jsonMap["captured_at"] = capturedAt(p.CapturedAt())
			elts[i] = jsonMap
		}
		jsonStr, err := json.MarshalIndent(map[string]interface{}{
			"points":         elts,
			"total_distance": t.TotalDistance(),
		}, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(jsonStr))
		return err
	case gpxF:
		data, err := t.ToGPX("Track").ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case geojsonF:
		data, err := json.MarshalIndent(m.GeoJSON(), "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case htmlF:
		return m.WriteHTML(w)
	}
	return fmt.Errorf("unknown format '%s'", format)
}

func capturedAt(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
