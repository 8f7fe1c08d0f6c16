package main

import (
	"fmt"
	"time"
)

// InHgToMillibars converts pressure from inches of mercury to millibars (hPa)
func InHgToMillibars(inHg float64) float64 {
	return inHg * 33.8639
}

// relativeTimeString describes how long before now t was
func relativeTimeString(t, now time.Time) string {
	diff := now.Sub(t)

	// Convert to minutes for easier comparisons
	minutes := int(diff.Minutes())

	switch {
	case diff < 0:
		// Observation day resolved into the wrong month, or a skewed clock
		return "(in the future)"
	case minutes < 1:
		return "(just now)"
	case minutes == 1:
		return "(1 minute ago)"
	case minutes < 60:
		return fmt.Sprintf("(%d minutes ago)", minutes)
	case minutes < 1440:
		hours := minutes / 60
		mins := minutes % 60
		if mins == 0 {
			return fmt.Sprintf("(%s ago)", plural(hours, "hour"))
		}
		return fmt.Sprintf("(%s, %s ago)", plural(hours, "hour"), plural(mins, "minute"))
	default:
		days := minutes / 1440
		hours := (minutes % 1440) / 60
		if hours == 0 {
			return fmt.Sprintf("(%s ago)", plural(days, "day"))
		}
		return fmt.Sprintf("(%s, %s ago)", plural(days, "day"), plural(hours, "hour"))
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
