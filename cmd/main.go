package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"geoview-tools/gvtools/config"
	"geoview-tools/gvtools/terminal"

	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&geoviewCmd{}, "")
	subcommands.Register(&odometerCmd{}, "")
	subcommands.Register(&destinationCmd{}, "")
	subcommands.Register(&exportCmd{}, "")

	port := flag.Int("port", 8089, "local port receiving the Strava authorization callback")
	flag.Parse()

	cfg, err := config.Load(*port)
	if err != nil {
		terminal.Error(err, "Failed to load config")
		os.Exit(1)
	}

	// Ctrl-C stops watching and lets the commands save what they recorded
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	status := subcommands.Execute(ctx, cfg)
	stop()
	os.Exit(int(status))
}
