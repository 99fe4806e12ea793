package terminal

import (
	"fmt"
	"time"
)

const spinner = `|/-\`

// Operation represents a long running operation, like waiting for a location fix
type Operation struct {
	done    chan struct{}
	stopped chan struct{}
}

// NewOperation starts a long running operation. The spinner only shows
// when colors are enabled.
func NewOperation(format string, a ...interface{}) *Operation {
	o := &Operation{
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	message := fmt.Sprintf(format, a...)

	if !Colors {
		close(o.stopped)
		return o
	}

	go func() {
		defer close(o.stopped)
		spinFrames := []rune(spinner)
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()

		for pos := 0; ; pos++ {
			select {
			case <-o.done:
				return
			case <-ticker.C:
				fmt.Fprintf(Output, "\r  %s %s ", paint(yellow, message), string(spinFrames[pos%len(spinFrames)]))
			}
		}
	}()

	return o
}

// Success informs that the operation is over
func (o *Operation) Success(format string, a ...interface{}) {
	o.finished("✓", green, format, a...)
}

// Error informs that the operation failed
func (o *Operation) Error(err error, format string, a ...interface{}) {
	o.finished("✗", red, "%s", withError(err, format, a...))
}

func (o *Operation) finished(symbol string, color string, format string, a ...interface{}) {
	close(o.done)
	<-o.stopped

	if Colors {
		fmt.Fprint(Output, "\033[2K\r")
	}
	fmt.Fprintf(Output, "%s %s\n", symbol, paint(color, fmt.Sprintf(format, a...)))
}
