package metar

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// CelsiusToFahrenheit converts temperature from Celsius to Fahrenheit,
// rounded to the nearest degree
func CelsiusToFahrenheit(celsius int) int {
	return int(math.Round(float64(celsius)*9/5 + 32))
}

// CompassLabel returns the 16-point compass label for a direction in degrees,
// or "" when the direction is outside 0-360.
func CompassLabel(degrees int) string {
	for _, p := range compassRose {
		if degrees >= p.From && degrees <= p.To {
			return p.Label
		}
	}
	return ""
}

// ordinal returns n with its English ordinal suffix (1st, 2nd, 16th)
func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return strconv.Itoa(n) + suffix
}

// Resolve places the observation in the month of now, stepping back a month
// when the day of month is still in the future, and further back when that
// month has no such day.
func (o ObservationTime) Resolve(now time.Time) time.Time {
	now = now.UTC()
	year, month := now.Year(), now.Month()

	// Handle month rollover
	if now.Day() < o.Day {
		month--
	}
	for o.Day > daysIn(year, month) {
		month--
	}

	return time.Date(year, month, o.Day, o.Hour, o.Minute, 0, 0, time.UTC)
}

// daysIn returns the number of days in month, normalising out-of-range months
// the way time.Date does.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (o ObservationTime) String() string {
	return fmt.Sprintf("%02d%02d%02dZ", o.Day, o.Hour, o.Minute)
}
