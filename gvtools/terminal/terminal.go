package terminal

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/ssh/terminal"
)

const (
	reset  = "\033[0m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
)

// Output is where messages are printed
var Output io.Writer = os.Stdout

// Colors enables ANSI colors and spinners, on by default when stdout is a terminal
var Colors = terminal.IsTerminal(int(os.Stdout.Fd()))

func paint(color, s string) string {
	if !Colors {
		return s
	}
	return color + s + reset
}

// Error print error
func Error(err error, format string, a ...interface{}) {
	fmt.Fprintln(Output, paint(red, withError(err, format, a...)))
}

// Info print an informational line
func Info(format string, a ...interface{}) {
	fmt.Fprintln(Output, paint(cyan, fmt.Sprintf(format, a...)))
}

// Line print a plain line
func Line(format string, a ...interface{}) {
	fmt.Fprintf(Output, format+"\n", a...)
}

// withError formats the message, then appends err to it. err is never
// used as a format.
func withError(err error, format string, a ...interface{}) string {
	message := fmt.Sprintf(format, a...)
	if err != nil {
		message = fmt.Sprintf("%s [%s]", message, err)
	}
	return message
}
