package sensor

import "fmt"

// Code identifies why a location fix could not be obtained
type Code int

// Failure codes, numbered like the W3C geolocation API
const (
	Unknown             Code = 0
	PermissionDenied    Code = 1
	PositionUnavailable Code = 2
	Timeout             Code = 3
)

var messages = map[Code]string{
	Unknown:             "There was an error while retrieving your location.",
	PermissionDenied:    "The user opted not to share his or her location.",
	PositionUnavailable: "The browser was unable to determine your location.",
	Timeout:             "The browser timed out before retrieving the location.",
}

func (c Code) String() string {
	switch c {
	case PermissionDenied:
		return "permission-denied"
	case PositionUnavailable:
		return "position-unavailable"
	case Timeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Error is a failure reported by a location source
type Error struct {
	Code    Code
	Message string // details, only shown for unknown and unavailable errors
}

// Errorf builds a sensor error with the given code and detail message
func Errorf(code Code, format string, a ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, a...)}
}

// Error returns the user facing message for the failure
func (e *Error) Error() string {
	code := e.Code
	if _, ok := messages[code]; !ok {
		code = Unknown
	}

	msg := messages[code]
	if (code == Unknown || code == PositionUnavailable) && e.Message != "" {
		msg += " - " + e.Message
	}
	return msg
}
