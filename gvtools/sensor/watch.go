package sensor

import (
	"context"
	"errors"
	"io"
	"time"

	"geoview-tools/gvtools/geo"

	"github.com/stewelarend/logger"
)

var log = logger.New().WithLevel(logger.LevelDebug)

// Chan is a source fed by another goroutine. Closing it ends the stream.
type Chan chan Sample

// Next waits for the next sample pushed to the channel
func (c Chan) Next(ctx context.Context) (Sample, error) {
	select {
	case <-ctx.Done():
		return Sample{}, ctx.Err()
	case s, ok := <-c:
		if !ok {
			return Sample{}, io.EOF
		}
		return s, nil
	}
}

// Watch requests fixes from src until it is exhausted or ctx is done,
// reporting each of them to h. Handler methods are called from the
// calling goroutine, one at a time. Watch returns nil once the source
// is exhausted and ctx.Err() if the context ends first.
func Watch(ctx context.Context, src Source, opts Options, h Handler) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		p, err := next(ctx, src, opts)
		if err == nil {
			h.OnPosition(p)
			continue
		}

		if errors.Is(err, io.EOF) {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		var serr *Error
		if errors.As(err, &serr) {
			log.Debugf("location error (%s): %s", serr.Code, serr)
			h.OnError(serr)
		}
	}
}

// Once requests a single fix from src
func Once(ctx context.Context, src Source, opts Options) (geo.Point, error) {
	p, err := next(ctx, src, opts)
	if errors.Is(err, io.EOF) {
		return geo.Point{}, Errorf(PositionUnavailable, "no location fix available")
	}
	return p, err
}

// next fetches one fix, mapping every failure but io.EOF and the parent
// context ending to a sensor error.
func next(ctx context.Context, src Source, opts Options) (geo.Point, error) {
	callCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	s, err := src.Next(callCtx)
	if err != nil {
		var serr *Error
		switch {
		case errors.Is(err, io.EOF):
			return geo.Point{}, io.EOF
		case ctx.Err() != nil:
			return geo.Point{}, ctx.Err()
		case errors.As(err, &serr):
			return geo.Point{}, serr
		case errors.Is(err, context.DeadlineExceeded):
			return geo.Point{}, &Error{Code: Timeout}
		default:
			return geo.Point{}, &Error{Code: PositionUnavailable, Message: err.Error()}
		}
	}

	if opts.MaxStaleness > 0 && !s.Timestamp.IsZero() && time.Since(s.Timestamp) > opts.MaxStaleness {
		return geo.Point{}, &Error{Code: Timeout}
	}

	p, err := s.Point()
	if err != nil {
		return geo.Point{}, &Error{Code: PositionUnavailable, Message: err.Error()}
	}
	return p, nil
}
