package convert

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

const metersToMiles = 0.0006213712

// ToKilometers returns the given distance in meters to kilometers
func ToKilometers(meters float64) float64 {
	return meters / 1000
}

// ToMiles returns the given distance in meters to miles
func ToMiles(meters float64) float64 {
	return math.Round(meters*metersToMiles*1e7) / 1e7
}

// Ftoan formats a float to its nearest integer
func Ftoan(f float64) string {
	return strconv.Itoa(int(math.Round(f)))
}

// Fixed formats a float with the given number of decimals
func Fixed(f float64, decimals int) string {
	return strconv.FormatFloat(f, 'f', decimals, 64)
}

// Timestamp formats a time as dd-mm-yyyy hh:mm
func Timestamp(t time.Time) string {
	return t.Format("02-01-2006 15:04")
}

// Clock formats a time as hh:mm:ss
func Clock(t time.Time) string {
	return t.Format("15:04:05")
}

// ToDaysHoursMin splits a duration into days, hours and minutes.
// Negative durations are returned as zero.
func ToDaysHoursMin(d time.Duration) (int, int, int) {
	if d < 0 {
		return 0, 0, 0
	}
	mins := int(d / time.Minute)
	return mins / (24 * 60), (mins / 60) % 24, mins % 60
}

// Duration formats a duration as a short human readable string
func Duration(d time.Duration) string {
	days, hours, mins := ToDaysHoursMin(d)
	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, mins)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%dm", mins)
}
