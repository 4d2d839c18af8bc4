package busboard

import (
	"fmt"
	"time"
)

// TimeLeft formats the wait between now and a departure, both given
// as offsets from midnight. A departure earlier in the clock than now
// is taken to be tomorrow's run and wraps forward by one day, so the
// result is always non-negative.
//
// Waits of two hours or more format as "H hours M minutes"; shorter
// waits as "M minutes S seconds". Units are truncated, not rounded.
func TimeLeft(departure, now time.Duration) string {
	diff := departure - now
	if diff < 0 {
		diff += 24 * time.Hour
	}

	if diff >= 2*time.Hour {
		h := int(diff.Hours())
		m := int(diff.Minutes()) - h*60
		return fmt.Sprintf("%d hours %d minutes", h, m)
	}

	m := int(diff.Minutes())
	s := int(diff.Seconds()) - m*60
	return fmt.Sprintf("%d minutes %d seconds", m, s)
}

// timeOfDay reduces a wall clock time to its offset from midnight.
func timeOfDay(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
}

// Translates a midnight offset into an HHMMSS string.
func hhmmss(offset time.Duration) string {
	h := int(offset.Hours())
	m := int(offset.Minutes()) - h*60
	s := int(offset.Seconds()) - h*3600 - m*60
	return fmt.Sprintf("%02d%02d%02d", h, m, s)
}
