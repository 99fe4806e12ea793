package config

import (
	"strings"
	"time"

	"geoview-tools/gvtools/sensor"

	"github.com/github/go-config"
	"github.com/go-msvc/errors"
)

// Config holds application configuration
type Config struct {
	HTTPPort int

	StravaClientID int    `config:"0,env=STRAVA_CLIENT_ID"`
	StravaSecretID string `config:"<YOUR_CLIENT_SECRET>,env=STRAVA_SECRET_ID"`
	TokenFile      string `config:"/tmp/geoview-tools-token.json,env=GEOVIEW_TOKEN_FILE"`

	SensorTimeout string `config:"5s,env=GEOVIEW_SENSOR_TIMEOUT"`
	MaxStaleness  string `config:"0s,env=GEOVIEW_MAX_STALENESS"`
}

// Load parses configuration from the environment and places it in a newly
// allocated Config struct.
func Load(httpPort int) (*Config, error) {
	cfg := &Config{
		HTTPPort: httpPort,
	}

	if err := config.Load(cfg); err != nil {
		return nil, errors.Wrapf(err, "cannot load config")
	}

	if _, err := cfg.SensorOptions(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SensorOptions returns the options used to request location fixes
func (c *Config) SensorOptions() (sensor.Options, error) {
	opts := sensor.DefaultOptions()

	if c.SensorTimeout != "" {
		d, err := time.ParseDuration(c.SensorTimeout)
		if err != nil || d < 0 {
			return opts, errors.Errorf("invalid sensor timeout '%s'", c.SensorTimeout)
		}
		opts.Timeout = d
	}

	if c.MaxStaleness != "" {
		d, err := time.ParseDuration(c.MaxStaleness)
		if err != nil || d < 0 {
			return opts, errors.Errorf("invalid max staleness '%s'", c.MaxStaleness)
		}
		opts.MaxStaleness = d
	}

	return opts, nil
}

// RequireStrava returns an error if Strava credentials are missing
func (c *Config) RequireStrava() error {
	if c.StravaClientID <= 0 || c.StravaSecretID == "" || strings.HasPrefix(c.StravaSecretID, "<") {
		return errors.Errorf("please provide your Strava's client_id and client_secret (STRAVA_CLIENT_ID, STRAVA_SECRET_ID)")
	}
	return nil
}
