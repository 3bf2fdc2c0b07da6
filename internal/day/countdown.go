package day

import (
	"fmt"
	"time"
)

// Countdown returns the time left until end, never negative.
func Countdown(now, end time.Time) time.Duration {
	if !now.Before(end) {
		return 0
	}
	return end.Sub(now)
}

// FormatCountdown renders d as HH:MM:SS, truncated to whole seconds.
func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}
