package strava

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"geoview-tools/gvtools/sensor"

	"github.com/go-msvc/errors"
	"github.com/stewelarend/logger"
	strava "github.com/strava/go.strava"
	"golang.org/x/oauth2"
)

var log = logger.New()

// Client reads recorded activities from the Strava API
type Client struct {
	HTTPPort    int
	TokenFile   string
	OpenBrowser func(url string) error

	oauth *oauth2.Config
	token *oauth2.Token
}

// NewClient creates a new Strava API client
func NewClient(httpPort int, clientID int, clientSecret string, tokenFile string) *Client {
	return &Client{
		HTTPPort:    httpPort,
		TokenFile:   tokenFile,
		OpenBrowser: openBrowser,
		oauth:       oauthConfig(httpPort, clientID, clientSecret),
	}
}

// RetrieveAuthToken loads the cached token, or asks the user to authorize
// the application in a browser when there is none.
func (c *Client) RetrieveAuthToken(ctx context.Context) error {
	tok, err := tokenFromFile(c.TokenFile)
	if err != nil {
		log.Debugf("no cached token in %s: %v", c.TokenFile, err)
		tok, err = c.tokenFromWeb(ctx)
		if err != nil {
			return err
		}
		if err := saveToken(c.TokenFile, tok); err != nil {
			return err
		}
	}

	c.token = tok
	return nil
}

// accessToken returns a valid access token, refreshing it when expired
func (c *Client) accessToken(ctx context.Context) (string, error) {
	if c.token == nil {
		return "", errors.Errorf("no auth token found, call RetrieveAuthToken() first")
	}

	tok, err := c.oauth.TokenSource(ctx, c.token).Token()
	if err != nil {
		return "", errors.Wrapf(err, "cannot refresh strava token")
	}
	if tok.AccessToken != c.token.AccessToken {
		log.Debugf("strava token refreshed, expires at %v", tok.Expiry)
		c.token = tok
		if err := saveToken(c.TokenFile, tok); err != nil {
			return "", err
		}
	}

	return tok.AccessToken, nil
}

// ActivityLink builds strava activity url from activity ID
func (c *Client) ActivityLink(activityID int64) string {
	return fmt.Sprintf("https://strava.com/activities/%d", activityID)
}

// Samples downloads the recorded locations of a Strava activity.
// Strava doesn't report accuracy, it is left to zero.
func (c *Client) Samples(ctx context.Context, activityID int64) ([]sensor.Sample, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	client := strava.NewClient(token)

	activity, err := strava.NewActivitiesService(client).Get(activityID).Do()
	if err != nil {
		return nil, errors.Wrapf(err, "cannot get activity %d", activityID)
	}

	stream, err := strava.NewActivityStreamsService(client).
		Get(activityID, []strava.StreamType{strava.StreamTypes.Location, strava.StreamTypes.Time}).
		Do()
	if err != nil {
		return nil, errors.Wrapf(err, "cannot get streams of activity %d", activityID)
	}
	if stream.Location == nil || stream.Time == nil {
		return nil, errors.Errorf("activity %d has no location stream", activityID)
	}

	return samplesFromStreams(activity.StartDate, stream.Location.Data, stream.Time.Data), nil
}

// samplesFromStreams zips location and elapsed time streams into samples
func samplesFromStreams(start time.Time, locations [][2]float64, elapsed []int) []sensor.Sample {
	n := len(locations)
	if len(elapsed) < n {
		n = len(elapsed)
	}

	samples := make([]sensor.Sample, n)
	for i := 0; i < n; i++ {
		samples[i] = sensor.Sample{
			Latitude:  locations[i][0],
			Longitude: locations[i][1],
			Timestamp: start.Add(time.Duration(elapsed[i]) * time.Second),
		}
	}
	return samples
}

// ParseActivityID parse Strava activity id from url
func ParseActivityID(activityLink string) (int64, error) {
	parts := strings.Split(strings.TrimRight(activityLink, "/"), "/")
	activityID, err := strconv.ParseInt(parts[len(parts)-1], 10, 64)
	if err != nil || activityID <= 0 {
		return -1, errors.Errorf("wrong activity link format '%s'", activityLink)
	}
	return activityID, nil
}
