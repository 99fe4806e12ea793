package sensor

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-msvc/errors"
)

// ReadLines returns a source fed with the fixes read from r, one
// "lat lng [accuracy]" per line. Fields are separated by spaces or commas.
// Blank lines and lines starting with '#' are skipped, so are lines that
// cannot be parsed. Fixes are timestamped when read.
func ReadLines(ctx context.Context, r io.Reader) Chan {
	c := make(Chan)

	go func() {
		defer close(c)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			s, err := parseLine(line)
			if err != nil {
				log.Errorf("skipping line '%s': %v", line, err)
				continue
			}
			s.Timestamp = time.Now()

			select {
			case <-ctx.Done():
				return
			case c <- s:
			}
		}
		if err := scanner.Err(); err != nil {
			log.Errorf("cannot read positions: %v", err)
		}
	}()

	return c
}

func parseLine(line string) (Sample, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) < 2 || len(fields) > 3 {
		return Sample{}, errors.Errorf("expected 'lat lng [accuracy]', got %d fields", len(fields))
	}

	values := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Sample{}, errors.Wrapf(err, "invalid number '%s'", f)
		}
		values[i] = v
	}

	s := Sample{Latitude: values[0], Longitude: values[1]}
	if len(values) == 3 {
		s.Accuracy = values[2]
	}
	return s, nil
}
