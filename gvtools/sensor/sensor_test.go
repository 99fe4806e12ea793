package sensor_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"geoview-tools/gvtools/geo"
	"geoview-tools/gvtools/sensor"

	"github.com/stretchr/testify/require"
	"github.com/tkrajina/gpxgo/gpx"
)

const sampleGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <trk>
    <name>ghent</name>
    <trkseg>
      <trkpt lat="51.0" lon="3.0"><time>2019-05-04T09:00:00Z</time><hdop>2</hdop></trkpt>
      <trkpt lat="51.001" lon="3.0"><time>2019-05-04T09:00:10Z</time></trkpt>
      <trkpt lat="51.001" lon="3.001"><time>2019-05-04T09:00:20Z</time><hdop>1.5</hdop></trkpt>
    </trkseg>
  </trk>
</gpx>`

type step struct {
	sample sensor.Sample
	err    error
}

// scripted replays a fixed list of samples and errors
type scripted struct {
	steps []step
}

func (s *scripted) Next(ctx context.Context) (sensor.Sample, error) {
	if len(s.steps) == 0 {
		return sensor.Sample{}, io.EOF
	}
	st := s.steps[0]
	s.steps = s.steps[1:]
	return st.sample, st.err
}

type recorder struct {
	points []geo.Point
	errs   []*sensor.Error
}

func (r *recorder) OnPosition(p geo.Point) { r.points = append(r.points, p) }
func (r *recorder) OnError(err *sensor.Error) { r.errs = append(r.errs, err) }

func TestErrorMessages(t *testing.T) {
	require := require.New(t)

	tests := map[string]struct {
		err  *sensor.Error
		want string
	}{
		"unknown":           {err: &sensor.Error{Code: sensor.Unknown, Message: "boom"}, want: "There was an error while retrieving your location. - boom"},
		"unknown_no_detail": {err: &sensor.Error{Code: sensor.Unknown}, want: "There was an error while retrieving your location."},
		"permission":        {err: &sensor.Error{Code: sensor.PermissionDenied, Message: "ignored"}, want: "The user opted not to share his or her location."},
		"unavailable":       {err: sensor.Errorf(sensor.PositionUnavailable, "no %s", "fix"), want: "The browser was unable to determine your location. - no fix"},
		"timeout":           {err: &sensor.Error{Code: sensor.Timeout, Message: "ignored"}, want: "The browser timed out before retrieving the location."},
		"out_of_range_code": {err: &sensor.Error{Code: 42, Message: "odd"}, want: "There was an error while retrieving your location. - odd"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			require.Equal(tc.want, tc.err.Error())
		})
	}

	require.Equal("timeout", sensor.Timeout.String())
	require.Equal("permission-denied", sensor.PermissionDenied.String())
	require.Equal("unknown", sensor.Code(9).String())
}

func TestDefaultOptions(t *testing.T) {
	require := require.New(t)
	opts := sensor.DefaultOptions()

	require.True(opts.HighAccuracy)
	require.Equal(5*time.Second, opts.Timeout)
	require.Equal(time.Duration(0), opts.MaxStaleness)
}

func TestFromGPX(t *testing.T) {
	require := require.New(t)

	g, err := gpx.ParseBytes([]byte(sampleGPX))
	require.NoError(err)

	samples := sensor.FromGPX(g)
	require.Len(samples, 3)
	require.Equal(51.0, samples[0].Latitude)
	require.Equal(3.0, samples[0].Longitude)
	require.Equal(10.0, samples[0].Accuracy)
	require.Equal(0.0, samples[1].Accuracy)
	require.Equal(7.5, samples[2].Accuracy)
	require.Equal(time.Date(2019, time.May, 4, 9, 0, 20, 0, time.UTC), samples[2].Timestamp.UTC())
}

func TestReplay(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	r := sensor.NewReplay([]sensor.Sample{{Latitude: 1}, {Latitude: 2}}, 0)
	require.Equal(2, r.Remaining())

	s, err := r.Next(ctx)
	require.NoError(err)
	require.Equal(1.0, s.Latitude)

	s, err = r.Next(ctx)
	require.NoError(err)
	require.Equal(2.0, s.Latitude)

	_, err = r.Next(ctx)
	require.Equal(io.EOF, err)
	require.Equal(0, r.Remaining())
}

func TestReplayIntervalHonorsContext(t *testing.T) {
	require := require.New(t)

	r := sensor.NewReplay([]sensor.Sample{{Latitude: 1}, {Latitude: 2}}, time.Hour)

	_, err := r.Next(context.Background())
	require.NoError(err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = r.Next(ctx)
	require.True(errors.Is(err, context.DeadlineExceeded))

	// the second sample was not consumed
	require.Equal(1, r.Remaining())
}

func TestWatchReplayIntervalLongerThanTimeout(t *testing.T) {
	require := require.New(t)

	src := sensor.NewReplay([]sensor.Sample{
		{Latitude: 51.0, Longitude: 3.0},
		{Latitude: 51.001, Longitude: 3.0},
		{Latitude: 51.001, Longitude: 3.001},
	}, 60*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	rec := &recorder{}
	opts := sensor.Options{Timeout: 50 * time.Millisecond}
	require.NoError(sensor.Watch(ctx, src, opts, rec))

	require.Len(rec.points, 3)
	require.Equal(0, src.Remaining())
	// every fix is late once at most, the retry picks up the remaining wait
	require.LessOrEqual(len(rec.errs), 2)
	for _, e := range rec.errs {
		require.Equal(sensor.Timeout, e.Code)
	}
}

func TestWatch(t *testing.T) {
	require := require.New(t)

	src := &scripted{steps: []step{
		{sample: sensor.Sample{Latitude: 51.0, Longitude: 3.0, Accuracy: 10}},
		{err: &sensor.Error{Code: sensor.PermissionDenied}},
		{sample: sensor.Sample{Latitude: 123, Longitude: 3.0}},
		{err: errors.New("gps chip unplugged")},
		{err: context.DeadlineExceeded},
		{sample: sensor.Sample{Latitude: 51.001, Longitude: 3.0, Accuracy: 10}},
	}}

	rec := &recorder{}
	err := sensor.Watch(context.Background(), src, sensor.DefaultOptions(), rec)
	require.NoError(err)

	require.Len(rec.points, 2)
	require.Equal(51.0, rec.points[0].Lat())
	require.Equal(51.001, rec.points[1].Lat())

	require.Len(rec.errs, 4)
	require.Equal(sensor.PermissionDenied, rec.errs[0].Code)
	require.Equal(sensor.PositionUnavailable, rec.errs[1].Code)
	require.Contains(rec.errs[1].Message, "invalid coordinate")
	require.Equal(sensor.PositionUnavailable, rec.errs[2].Code)
	require.Equal("gps chip unplugged", rec.errs[2].Message)
	require.Equal(sensor.Timeout, rec.errs[3].Code)
}

func TestWatchTimeout(t *testing.T) {
	require := require.New(t)

	feed := make(sensor.Chan, 1)
	opts := sensor.Options{Timeout: 20 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := &cancelAfter{n: 2, cancel: cancel}
	err := sensor.Watch(ctx, feed, opts, h)
	require.True(errors.Is(err, context.Canceled))
	require.Len(h.errs, 2)
	for _, e := range h.errs {
		require.Equal(sensor.Timeout, e.Code)
	}
}

func TestWatchChanFeed(t *testing.T) {
	require := require.New(t)

	feed := make(sensor.Chan)
	go func() {
		defer close(feed)
		for i := 0; i < 3; i++ {
			feed <- sensor.Sample{Latitude: 51 + float64(i)/1000, Longitude: 3}
		}
	}()

	rec := &recorder{}
	require.NoError(sensor.Watch(context.Background(), feed, sensor.DefaultOptions(), rec))
	require.Len(rec.points, 3)
	require.Empty(rec.errs)
}

func TestWatchStaleness(t *testing.T) {
	require := require.New(t)

	src := sensor.NewReplay([]sensor.Sample{
		{Latitude: 1, Longitude: 1, Timestamp: time.Now().Add(-time.Hour)},
		{Latitude: 2, Longitude: 2, Timestamp: time.Now()},
		{Latitude: 3, Longitude: 3},
	}, 0)

	rec := &recorder{}
	opts := sensor.Options{MaxStaleness: time.Minute}
	require.NoError(sensor.Watch(context.Background(), src, opts, rec))

	require.Len(rec.points, 2)
	require.Equal(2.0, rec.points[0].Lat())
	require.Equal(3.0, rec.points[1].Lat())
	require.Len(rec.errs, 1)
	require.Equal(sensor.Timeout, rec.errs[0].Code)
}

func TestOnce(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	p, err := sensor.Once(ctx, sensor.NewReplay([]sensor.Sample{{Latitude: 47.5896, Longitude: -121.9411, Accuracy: 4}}, 0), sensor.DefaultOptions())
	require.NoError(err)
	require.Equal(47.5896, p.Lat())
	require.Equal(4.0, p.Accuracy())

	_, err = sensor.Once(ctx, sensor.NewReplay(nil, 0), sensor.DefaultOptions())
	var serr *sensor.Error
	require.True(errors.As(err, &serr))
	require.Equal(sensor.PositionUnavailable, serr.Code)

	_, err = sensor.Once(ctx, &scripted{steps: []step{{err: &sensor.Error{Code: sensor.PermissionDenied}}}}, sensor.DefaultOptions())
	require.True(errors.As(err, &serr))
	require.Equal(sensor.PermissionDenied, serr.Code)
}

type cancelAfter struct {
	n      int
	cancel context.CancelFunc
	errs   []*sensor.Error
}

func (c *cancelAfter) OnPosition(p geo.Point) {}

func (c *cancelAfter) OnError(err *sensor.Error) {
	c.errs = append(c.errs, err)
	if len(c.errs) == c.n {
		c.cancel()
	}
}

func TestReadLines(t *testing.T) {
	require := require.New(t)

	input := strings.Join([]string{
		"# lat lng accuracy",
		"51.034306 3.701102 12",
		"",
		"51.04,3.71",
		"not a position",
		"51.05\t3.72\t8.5",
		"91 3 1",
	}, "\n")

	rec := &recorder{}
	src := sensor.ReadLines(context.Background(), strings.NewReader(input))
	require.NoError(sensor.Watch(context.Background(), src, sensor.DefaultOptions(), rec))

	require.Len(rec.points, 3)
	require.Equal(51.034306, rec.points[0].Lat())
	require.Equal(12.0, rec.points[0].Accuracy())
	require.Equal(3.71, rec.points[1].Lng())
	require.Equal(0.0, rec.points[1].Accuracy())
	require.Equal(8.5, rec.points[2].Accuracy())
	require.False(rec.points[2].CapturedAt().IsZero())

	require.Len(rec.errs, 1)
	require.Equal(sensor.PositionUnavailable, rec.errs[0].Code)
}

// endless repeats the same position forever
type endless struct{}

func (endless) Read(p []byte) (int, error) {
	return copy(p, "51 3\n"), nil
}

func TestReadLinesStopsWithContext(t *testing.T) {
	require := require.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	src := sensor.ReadLines(ctx, endless{})

	s, err := src.Next(ctx)
	require.NoError(err)
	require.Equal(51.0, s.Latitude)

	cancel()
	for err == nil {
		_, err = src.Next(context.Background())
	}
	require.ErrorIs(err, io.EOF)
}
